package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/joshuapare/memkit/internal/logger"
	"github.com/joshuapare/memkit/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageSizeCommand(t *testing.T) {
	resetFlags(t)
	output, err := captureOutput(t, runPageSize)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(mem.PageSize()), strings.TrimSpace(output))

	jsonOut = true
	output, err = captureOutput(t, runPageSize)
	require.NoError(t, err)
	var report pageSizeReport
	decodeJSON(t, output, &report)
	assert.Equal(t, mem.PageSize(), report.Bytes)
	assert.Contains(t, report.Human, "KiB")
}

func TestRootCommand_Execute(t *testing.T) {
	resetFlags(t)
	prev := logger.L
	t.Cleanup(func() { logger.L = prev })

	rootCmd.SetArgs([]string{"arena", "--capacity", "128B", "--quiet", "--log-level", "warn", "push=16", "pop=0"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	output, err := captureOutput(t, rootCmd.Execute)
	require.NoError(t, err)
	assert.Empty(t, output, "quiet suppresses the report")
	assert.True(t, logger.L.Enabled(t.Context(), slog.LevelWarn))
}

func TestRootCommand_BadLogLevel(t *testing.T) {
	resetFlags(t)
	rootCmd.SetArgs([]string{"pagesize", "--log-level", "chatty"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	_, err := captureOutput(t, rootCmd.Execute)
	assert.ErrorContains(t, err, "unknown level")
}

// readLogDir returns the contents of the single dated log file in dir.
func readLogDir(t *testing.T, dir string) string {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(dir, "memctl-*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	return string(data)
}

func TestRootCommand_LogDirFailedStep(t *testing.T) {
	resetFlags(t)
	prev := logger.L
	t.Cleanup(func() { logger.L = prev })
	dir := t.TempDir()

	rootCmd.SetArgs([]string{"arena", "--capacity", "128B", "--quiet", "--log-dir", dir, "push=1048576", "push=16"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	_, err := captureOutput(t, run)
	require.NoError(t, err)

	out := readLogDir(t, dir)
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="arena step failed" step="push=1048576"`)
	assert.Contains(t, out, `msg="arena script finished"`, "--log-dir alone logs at info")
	assert.NotContains(t, out, "arena step\" ")
}

func TestRootCommand_LogDirOutOfMemory(t *testing.T) {
	resetFlags(t)
	prev := logger.L
	t.Cleanup(func() { logger.L = prev })
	dir := t.TempDir()

	rootCmd.SetArgs([]string{"grow", "--allocator", "arena", "--capacity", "4KiB", "--count", "100000", "--log-dir", dir, "--log-level", "warn"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	_, err := captureOutput(t, run)
	require.Error(t, err)
	assert.ErrorIs(t, err, mem.ErrOutOfMemory)

	out := readLogDir(t, dir)
	assert.Contains(t, out, `level=WARN msg="array ran out of memory"`)
	assert.Contains(t, out, `level=ERROR msg="command failed"`)
	assert.Contains(t, out, "want=100000")
}
