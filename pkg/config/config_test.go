package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/mutablelogic/go-filebox/pkg/config"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	s, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1", s.HTTPVersion)
	assert.Equal(t, 8087, s.Port)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9000\nserver_name: custom\n"), 0o644))

	s, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, s.Port)
	assert.Equal(t, "custom", s.ServerName)
	assert.Equal(t, "HTTP/1.1", s.HTTPVersion)
}

func TestLoadRejectsEmptyRequiredField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_name: \"\"\n"), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
}
