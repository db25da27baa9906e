package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.rune.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysProvidedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".rune.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prompt: \"rune> \"\nclock_offset: 1000\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "rune> ", cfg.Prompt)
	assert.Equal(t, 1000.0, cfg.ClockOffset)
}

func TestLoadPartialFileKeepsOtherDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".rune.yaml")
	require.NoError(t, os.WriteFile(path, []byte("clock_offset: 42\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "> ", cfg.Prompt)
	assert.Equal(t, 42.0, cfg.ClockOffset)
}
