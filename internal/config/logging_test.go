package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPruneLogs_KeepsNewest(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"chronoatlas-2024-01-01T00-00-00.000.log",
		"chronoatlas-2024-01-02T00-00-00.000.log",
		"chronoatlas-2024-01-03T00-00-00.000.log",
		"unrelated.log",
	}
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}

	require.NoError(t, pruneLogs(dir, 2))

	left, err := filepath.Glob(filepath.Join(dir, "*.log"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, names[1]),
		filepath.Join(dir, names[2]),
		filepath.Join(dir, "unrelated.log"),
	}, left)
}

func TestNewLogger_WritesToFile(t *testing.T) {
	dir := t.TempDir()
	var stdout bytes.Buffer

	logger, closeLog, err := NewLogger(&Config{Environment: "test", LogDir: dir, LogMaxFiles: 3}, &stdout)
	require.NoError(t, err)
	logger.Info("hello", "k", "v")
	require.NoError(t, closeLog())

	assert.Contains(t, stdout.String(), `"msg":"hello"`)
	files, err := filepath.Glob(filepath.Join(dir, "chronoatlas-*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"k":"v"`)
}
