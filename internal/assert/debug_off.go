//go:build !memdebug

package assert

// Enabled reports whether Debug assertions are compiled in.
const Enabled = false
