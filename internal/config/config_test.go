package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
	assert.True(t, cfg.Standard)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "blocksearch.yaml", `
definitions:
  - defs/custom.json
  - /abs/other.yaml
toolboxes: [toolbox.json]
standard: false
cache_size: -1
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "defs/custom.json"), "/abs/other.yaml"}, cfg.Definitions)
	assert.Equal(t, []string{filepath.Join(dir, "toolbox.json")}, cfg.Toolboxes)
	assert.False(t, cfg.Standard)
	assert.Equal(t, -1, cfg.CacheSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset keys keep their defaults.
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 2.0, cfg.Search.TypeBoost)
	assert.Equal(t, "blocksearch", cfg.Server.Name)
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "blocksearch.toml", `
toolboxes = ["toolbox.yaml"]

[search]
type_boost = 4.5

[server]
http = ":8080"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "toolbox.yaml")}, cfg.Toolboxes)
	assert.Equal(t, 4.5, cfg.Search.TypeBoost)
	assert.Equal(t, 10, cfg.Search.MaxResults)
	assert.Equal(t, ":8080", cfg.Server.HTTP)
	assert.True(t, cfg.Standard)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		errMsg  string
	}{
		{"bad yaml", "bad.yaml", "definitions: [", "failed to parse config file"},
		{"bad toml", "bad.toml", "standard = ", "failed to parse config file"},
		{"unknown extension", "cfg.ini", "standard=true", "unsupported config file"},
		{"bad level", "level.yaml", "log:\n  level: loud\n", "log.level"},
		{"bad format", "format.yaml", "log:\n  format: xml\n", "log.format"},
		{"negative boost", "boost.yaml", "search:\n  type_boost: -1\n", "type_boost"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
