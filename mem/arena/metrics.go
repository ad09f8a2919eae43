package arena

// Metrics is a snapshot of arena statistics.
type Metrics struct {
	Len         uintptr // Bytes between the region start and the cursor
	Cap         uintptr // Region size in bytes
	Peak        uintptr // Highest cursor position seen
	Pushes      int     // Successful pushes, including in-place grows
	Pops        int     // Successful pops, including in-place shrinks
	Failures    int     // Pushes rejected for lack of space
	Utilization float64 // Len / Cap (0.0-1.0)
}

// Peak returns the highest cursor position reached since the arena was
// created. Clear does not reset it.
func (a *Arena) Peak() uintptr {
	return a.peak
}

// Utilization returns the ratio of bytes in use to capacity (0.0 to 1.0).
// Returns 0.0 if the arena has no capacity.
func (a *Arena) Utilization() float64 {
	if a.region.Size == 0 {
		return 0
	}
	return float64(a.end) / float64(a.region.Size)
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() Metrics {
	return Metrics{
		Len:         a.end,
		Cap:         a.region.Size,
		Peak:        a.peak,
		Pushes:      a.pushes,
		Pops:        a.pops,
		Failures:    a.failures,
		Utilization: a.Utilization(),
	}
}
