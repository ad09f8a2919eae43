package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/joshuapare/memkit/bytesize"
	"github.com/joshuapare/memkit/internal/logger"
	"github.com/joshuapare/memkit/mem"
	"github.com/joshuapare/memkit/mem/arena"
	"github.com/joshuapare/memkit/mem/array"
	"github.com/joshuapare/memkit/mem/memmetrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	growCount     int
	growAllocator string
	growCapacity  = 64 * bytesize.MiB
	growMetrics   bool
)

func init() {
	rootCmd.AddCommand(newGrowCmd())
}

func newGrowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Append integers to an array and report allocator traffic",
		Long: `The grow command appends --count uint64 values one at a time to a
growable array and reports how often the allocator was asked for memory.
With geometric growth the number of allocations is logarithmic in the count.
An arena-backed array extends its block in place instead of relocating.

Example:
  memctl grow --count 1000000
  memctl grow --count 100000 --allocator arena --capacity 4MiB
  memctl grow --count 5000 --allocator pages --json
  memctl grow --count 5000 --allocator arena --metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrow()
		},
	}
	cmd.Flags().IntVarP(&growCount, "count", "n", 1000, "Number of values to append")
	cmd.Flags().
		StringVarP(&growAllocator, "allocator", "a", "global", "Backing allocator: global, pages or arena")
	cmd.Flags().Var(&growCapacity, "capacity", "Arena capacity when --allocator=arena")
	cmd.Flags().
		BoolVar(&growMetrics, "metrics", false, "Print allocator metrics in Prometheus text format instead of the report")
	return cmd
}

// growStep records a capacity change.
type growStep struct {
	Len      int  `json:"len"`
	Cap      int  `json:"cap"`
	Relocate bool `json:"relocated"`
}

type growReport struct {
	Allocator     string     `json:"allocator"`
	Count         int        `json:"count"`
	Cap           int        `json:"cap"`
	Allocations   int        `json:"allocations"`
	Deallocations int        `json:"deallocations"`
	InPlaceGrows  int        `json:"in_place_grows"`
	Relocations   int        `json:"relocations"`
	PeakBytes     uint64     `json:"peak_bytes"`
	Steps         []growStep `json:"steps,omitempty"`
}

func runGrow() error {
	if growCount < 0 {
		return fmt.Errorf("--count must not be negative, got %d", growCount)
	}

	var (
		report growReport
		err    error
	)
	name := strings.ToLower(growAllocator)
	collector := memmetrics.NewCollector()
	switch name {
	case "global":
		tr := mem.NewTracking(mem.GlobalAllocator{})
		collector.AddTracking(name, tr)
		report, err = appendAll(tr, growCount)
	case "pages":
		tr := mem.NewTracking(mem.PagesAllocator{})
		collector.AddTracking(name, tr)
		report, err = appendAll(tr, growCount)
	case "arena":
		capacity, cerr := growCapacity.ToUintptr()
		if cerr != nil {
			return cerr
		}
		if capacity == 0 {
			return errors.New("--capacity must be positive")
		}
		a := arena.New(capacity)
		defer a.Release()
		tr := mem.NewTracking(a)
		collector.AddArena(name, a)
		collector.AddTracking(name, tr)
		report, err = appendAll(tr, growCount)
	default:
		return fmt.Errorf("unknown allocator %q (want global, pages or arena)", growAllocator)
	}
	if err != nil {
		return err
	}
	report.Allocator = name

	logger.Info("grow finished",
		"allocator", report.Allocator,
		"count", report.Count,
		"allocations", report.Allocations,
		"relocations", report.Relocations)

	if growMetrics {
		reg := prometheus.NewRegistry()
		if err := reg.Register(collector); err != nil {
			return err
		}
		return memmetrics.WriteText(os.Stdout, reg)
	}
	if jsonOut {
		return printJSON(report)
	}

	printInfo("Appended %s values (%s allocator)\n", humanize.Comma(int64(report.Count)), report.Allocator)
	printInfo("  Capacity: %s elements\n", humanize.Comma(int64(report.Cap)))
	printInfo("  Allocations: %d, deallocations: %d\n", report.Allocations, report.Deallocations)
	printInfo("  In-place grows: %d, relocations: %d\n", report.InPlaceGrows, report.Relocations)
	printInfo("  Peak: %s\n", bytesize.Size(report.PeakBytes))
	for _, s := range report.Steps {
		how := "in place"
		if s.Relocate {
			how = "relocated"
		}
		printVerbose("    len %-10d cap %-10d %s\n", s.Len, s.Cap, how)
	}
	return nil
}

// appendAll appends count values to an array over tr. Running out of memory
// is reported as an error rather than a crash.
func appendAll[A mem.Allocator](tr *mem.Tracking[A], count int) (report growReport, err error) {
	xs := array.NewWith[uint64](tr)
	defer xs.Free()

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if rerr, ok := r.(error); ok && errors.Is(rerr, mem.ErrOutOfMemory) {
			logger.Warn("array ran out of memory", "len", xs.Len(), "cap", xs.Cap(), "want", count)
			err = fmt.Errorf("array stopped at %d of %d values: %w", xs.Len(), count, rerr)
			return
		}
		panic(r)
	}()

	for i := range count {
		prevCap, prevData := xs.Cap(), xs.Data()
		xs.Append(uint64(i))
		if xs.Cap() == prevCap {
			continue
		}
		step := growStep{Len: xs.Len(), Cap: xs.Cap(), Relocate: prevData != nil && xs.Data() != prevData}
		if step.Relocate {
			report.Relocations++
		}
		report.Steps = append(report.Steps, step)
		logger.Debug("array grew", "len", step.Len, "cap", step.Cap, "relocated", step.Relocate)
	}

	stats := tr.Stats()
	report.Count = xs.Len()
	report.Cap = xs.Cap()
	report.Allocations = stats.Allocations
	report.Deallocations = stats.Deallocations
	report.InPlaceGrows = stats.Grows
	report.PeakBytes = uint64(stats.PeakBytes)
	return report, nil
}
