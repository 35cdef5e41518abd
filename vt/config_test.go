package vt_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtgrid/vt"
)

func TestDefaultConfig(t *testing.T) {
	cfg := vt.DefaultConfig()
	assert.Equal(t, 2000, cfg.Scrollback.MaxLines)
	assert.Equal(t, 0.6, cfg.Diff.RepaintFraction)
	assert.Equal(t, 2, cfg.Diff.MergeGap)
	assert.Equal(t, 10, cfg.Sixel.CellWidth)
	assert.Equal(t, 20, cfg.Sixel.CellHeight)
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vtgrid.yaml")
	data := []byte("scrollback:\n  max_lines: 50\ndiff:\n  merge_gap: 5\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := vt.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Scrollback.MaxLines)
	assert.Equal(t, 5, cfg.Diff.MergeGap)
	// Unnamed fields keep their defaults.
	assert.Equal(t, 0.6, cfg.Diff.RepaintFraction)
	assert.Equal(t, 1000, cfg.Sixel.MaxWidth)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := vt.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scrollback: ["), 0o644))

	_, err := vt.LoadConfig(path)
	assert.Error(t, err)
}
