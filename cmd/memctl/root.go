package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/joshuapare/memkit/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose  bool
	quiet    bool
	jsonOut  bool
	logLevel string
	logJSON  bool
	logDir   string
)

// closeLog releases the log destination opened by setupLogging.
var closeLog = func() error { return nil }

var rootCmd = &cobra.Command{
	Use:   "memctl",
	Short: "Drive memkit arenas, allocators and arrays from the shell",
	Long: `memctl runs small, scripted workloads against the memkit allocators:
page queries, arena push/pop sequences and growable array appends. It is
meant for exploring allocator behaviour and checking growth policies.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return finishLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		StringVar(&logLevel, "log-level", "", "Log at this level (debug, info, warn, error); info when only --log-dir is set")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit log records as JSON")
	rootCmd.PersistentFlags().
		StringVar(&logDir, "log-dir", "", "Write logs to a dated file in this directory instead of stderr")
}

func execute() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes the root command. PersistentPostRunE is skipped when a
// command fails, so the log is closed here in that case.
func run() error {
	err := rootCmd.Execute()
	if err != nil {
		logger.Error("command failed", "error", err)
		_ = finishLogging()
	}
	return err
}

// setupLogging enables logging when --log-level or --log-dir is given.
func setupLogging() error {
	opts := logger.Options{Enabled: logLevel != "" || logDir != "", Level: slog.LevelInfo, JSON: logJSON, LogDir: logDir}
	if logLevel != "" {
		level, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		opts.Level = level
	}
	var err error
	closeLog, err = logger.Init(opts)
	return err
}

// finishLogging closes the log destination. Later calls do nothing.
func finishLogging() error {
	closeFn := closeLog
	closeLog = func() error { return nil }
	return closeFn()
}

// printInfo prints a message unless in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a message in verbose mode
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON writes v to stdout as indented JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
