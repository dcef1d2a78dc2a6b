package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "lophoc.log")
	logger, err := New(path, true)
	require.NoError(t, err)
	logger.Debug("debug line")
	logger.Warn("warn line")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	require.True(t, strings.Contains(out, "debug line"))
	require.True(t, strings.Contains(out, "warn line"))
}

func TestNewInfoLevelDropsDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lophoc.log")
	logger, err := New(path, false)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "hidden")
	require.Contains(t, string(data), "shown")
}

func TestNewEmptyPath(t *testing.T) {
	_, err := New("", false)
	require.Error(t, err)
}
