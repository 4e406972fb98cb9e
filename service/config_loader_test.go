package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLoader_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[analysis]\nthreshold = 0.6\n"), 0o644))

	loader := NewConfigLoader()
	req, err := loader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.6, req.Threshold)
}

func TestConfigLoader_Default(t *testing.T) {
	loader := NewConfigLoader()
	req := loader.Default()
	assert.Equal(t, 0.85, req.Threshold)
}
