package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/joshuapare/memkit/bytesize"
	"github.com/joshuapare/memkit/internal/logger"
	"github.com/joshuapare/memkit/mem"
	"github.com/joshuapare/memkit/mem/arena"
	"github.com/spf13/cobra"
)

var arenaCapacity = 64 * bytesize.B

func init() {
	rootCmd.AddCommand(newArenaCmd())
}

func newArenaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arena <step>...",
		Short: "Run a push/pop script against a fresh arena",
		Long: `The arena command creates an arena and applies each step in order,
printing the outcome of every step and the final arena metrics.

Steps:
  push=SIZE[:ALIGN]        push a block (ALIGN defaults to the pointer size)
  pop=N                    pop the block from push number N (0-based)
  grow=N:ADDITIONAL        grow block N in place
  shrink=N:NEWSIZE         shrink block N in place
  clear                    rewind the arena

Sizes accept units (16, 4KiB, 1MB). Only the most recent block can be
popped, grown or shrunk; other requests fail and leave the arena alone.

Example:
  memctl arena --capacity 64B push=16:4 push=16:4 pop=0 pop=1 pop=0
  memctl arena --capacity 4KiB push=1KiB grow=0:1KiB shrink=0:512 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArena(args)
		},
	}
	cmd.Flags().Var(&arenaCapacity, "capacity", "Arena capacity (rounded up to whole pages)")
	return cmd
}

type arenaStepKind string

const (
	stepPush   arenaStepKind = "push"
	stepPop    arenaStepKind = "pop"
	stepGrow   arenaStepKind = "grow"
	stepShrink arenaStepKind = "shrink"
	stepClear  arenaStepKind = "clear"
)

type arenaStep struct {
	Kind  arenaStepKind
	Index int     // block number for pop, grow and shrink
	Size  uintptr // push size, grow amount or shrink target
	Align uintptr
}

type arenaStepResult struct {
	Step   string  `json:"step"`
	OK     bool    `json:"ok"`
	Block  int     `json:"block,omitempty"`
	Offset uintptr `json:"offset,omitempty"`
	Size   uintptr `json:"size,omitempty"`
	Len    uintptr `json:"len"`
}

type arenaReport struct {
	Requested uint64            `json:"requested"`
	Steps     []arenaStepResult `json:"steps"`
	Metrics   arena.Metrics     `json:"metrics"`
}

func runArena(args []string) error {
	steps := make([]arenaStep, 0, len(args))
	for _, arg := range args {
		step, err := parseArenaStep(arg)
		if err != nil {
			return err
		}
		steps = append(steps, step)
	}

	capacity, err := arenaCapacity.ToUintptr()
	if err != nil {
		return err
	}
	if capacity == 0 {
		return errors.New("capacity must be positive")
	}

	a := arena.New(capacity)
	defer a.Release()
	printVerbose("Arena: %s requested, %s reserved\n", arenaCapacity, bytesize.Size(a.Cap()))

	report, err := playArena(a, args, steps)
	if err != nil {
		return err
	}
	report.Requested = arenaCapacity.Bytes()
	logger.Info("arena script finished", "steps", len(steps), "len", report.Metrics.Len, "peak", report.Metrics.Peak)

	if jsonOut {
		return printJSON(report)
	}

	for _, r := range report.Steps {
		status := "ok"
		if !r.OK {
			status = "FAILED"
		}
		switch {
		case r.OK && r.Size > 0:
			printInfo("%-18s %-6s block #%d offset %d size %d (len %d)\n", r.Step, status, r.Block, r.Offset, r.Size, r.Len)
		default:
			printInfo("%-18s %-6s (len %d)\n", r.Step, status, r.Len)
		}
	}
	m := report.Metrics
	printInfo("\nArena:\n")
	printInfo("  Capacity: %s\n", bytesize.Size(m.Cap))
	printInfo("  In use: %d bytes (%.1f%%)\n", m.Len, m.Utilization*100)
	printInfo("  Peak: %d bytes\n", m.Peak)
	printInfo("  Pushes: %d, pops: %d, failures: %d\n", m.Pushes, m.Pops, m.Failures)
	return nil
}

// playArena applies steps to a. Blocks are remembered by push order so later
// steps can refer to them.
func playArena(a *arena.Arena, args []string, steps []arenaStep) (arenaReport, error) {
	var (
		report arenaReport
		blocks []mem.Block
		aligns []uintptr
	)
	base := a.Region().Addr()

	for i, step := range steps {
		r := arenaStepResult{Step: args[i], Block: step.Index}
		if step.Kind != stepPush && step.Kind != stepClear {
			if step.Index >= len(blocks) {
				return report, fmt.Errorf("step %q: no block #%d (%d pushed so far)", args[i], step.Index, len(blocks))
			}
		}

		switch step.Kind {
		case stepPush:
			b := a.Push(step.Size, step.Align)
			r.OK = b.Ptr != nil
			r.Block = len(blocks)
			blocks = append(blocks, b)
			aligns = append(aligns, step.Align)
			if r.OK {
				r.Offset, r.Size = b.Addr()-base, b.Size
			}
		case stepPop:
			r.OK = a.Pop(blocks[step.Index], aligns[step.Index])
		case stepGrow:
			b := a.TryGrow(blocks[step.Index], aligns[step.Index], step.Size)
			r.OK = !b.IsEmpty()
			if r.OK {
				blocks[step.Index] = b
				r.Offset, r.Size = b.Addr()-base, b.Size
			}
		case stepShrink:
			b := blocks[step.Index]
			if step.Size > b.Size {
				return report, fmt.Errorf("step %q: block #%d is only %d bytes", args[i], step.Index, b.Size)
			}
			r.OK = a.TryShrink(b, aligns[step.Index], step.Size)
			if r.OK {
				blocks[step.Index].Size = step.Size
				r.Offset, r.Size = b.Addr()-base, step.Size
			}
		case stepClear:
			a.Clear()
			r.OK = true
		}
		r.Len = a.Len()
		if r.OK {
			logger.Debug("arena step", "step", args[i], "len", r.Len)
		} else {
			logger.Warn("arena step failed", "step", args[i], "len", r.Len, "cap", a.Cap())
		}
		report.Steps = append(report.Steps, r)
	}

	report.Metrics = a.Metrics()
	return report, nil
}

func parseArenaStep(arg string) (arenaStep, error) {
	name, value, hasValue := strings.Cut(arg, "=")
	kind := arenaStepKind(strings.ToLower(name))

	bad := func(format string, args ...any) (arenaStep, error) {
		return arenaStep{}, fmt.Errorf("step %q: "+format, append([]any{arg}, args...)...)
	}

	switch kind {
	case stepClear:
		if hasValue {
			return bad("clear takes no value")
		}
		return arenaStep{Kind: kind}, nil
	case stepPush, stepPop, stepGrow, stepShrink:
		if !hasValue || value == "" {
			return bad("missing value")
		}
	default:
		return bad("unknown step (want push, pop, grow, shrink or clear)")
	}

	first, second, hasSecond := strings.Cut(value, ":")
	switch kind {
	case stepPush:
		size, err := parseSize(first)
		if err != nil {
			return bad("%v", err)
		}
		align := uintptr(mem.PointerSize)
		if hasSecond {
			n, err := strconv.ParseUint(second, 10, 0)
			if err != nil || !mem.IsPow2(uintptr(n)) {
				return bad("alignment %q is not a power of two", second)
			}
			align = uintptr(n)
		}
		return arenaStep{Kind: kind, Size: size, Align: align}, nil

	case stepPop:
		if hasSecond {
			return bad("pop takes a block number only")
		}
		idx, err := parseIndex(first)
		if err != nil {
			return bad("%v", err)
		}
		return arenaStep{Kind: kind, Index: idx}, nil

	default:
		if !hasSecond {
			return bad("want N:SIZE")
		}
		idx, err := parseIndex(first)
		if err != nil {
			return bad("%v", err)
		}
		size, err := parseSize(second)
		if err != nil {
			return bad("%v", err)
		}
		return arenaStep{Kind: kind, Index: idx, Size: size}, nil
	}
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("block number %q is not a non-negative integer", s)
	}
	return n, nil
}

func parseSize(s string) (uintptr, error) {
	size, err := bytesize.Parse(s)
	if err != nil {
		return 0, err
	}
	return size.ToUintptr()
}
