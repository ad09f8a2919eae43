// Package logger holds the process-wide slog logger used by the memkit
// commands. Library packages never log.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// L is the global logger. It discards everything until Init enables it.
var L = discard()

const (
	filePrefix    = "memctl-"
	fileSuffix    = ".log"
	retentionDays = 14
)

// Options configures Init.
type Options struct {
	Enabled bool       // false discards all output
	Level   slog.Level // minimum level
	JSON    bool       // JSON records instead of key=value text
	Writer  io.Writer  // destination; defaults to stderr unless LogDir is set
	LogDir  string     // write to a dated file in this directory
}

// Init replaces L according to opts. The returned close function releases
// the log file, if one was opened, and is safe to call when none was.
func Init(opts Options) (func() error, error) {
	noop := func() error { return nil }
	if !opts.Enabled {
		L = discard()
		return noop, nil
	}

	w, closeFn := opts.Writer, noop
	if w == nil && opts.LogDir != "" {
		f, err := openLogFile(opts.LogDir)
		if err != nil {
			return noop, err
		}
		w, closeFn = f, f.Close
	}
	if w == nil {
		w = os.Stderr
	}

	ho := &slog.HandlerOptions{Level: opts.Level}
	if opts.JSON {
		L = slog.New(slog.NewJSONHandler(w, ho))
	} else {
		L = slog.New(slog.NewTextHandler(w, ho))
	}
	return closeFn, nil
}

// ParseLevel maps a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("logger: unknown level %q", name)
	}
	return level, nil
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func openLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	pruneOldLogs(dir, time.Now())

	name := filepath.Join(dir, filePrefix+time.Now().Format(time.DateOnly)+fileSuffix)
	return os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// pruneOldLogs removes dated log files older than retentionDays. Errors are
// ignored.
func pruneOldLogs(dir string, now time.Time) {
	cutoff := now.AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		day, err := time.Parse(time.DateOnly, strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
		if err != nil {
			continue
		}
		if day.Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
}

// Debug logs at debug level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at info level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at warn level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at error level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
