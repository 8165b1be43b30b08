// Package config loads the blocksearch configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the blocksearch configuration.
type Config struct {
	// Definitions lists block definition files (JSON or YAML).
	Definitions []string `yaml:"definitions" toml:"definitions"`
	// Toolboxes lists toolbox files whose blocks are indexed.
	Toolboxes []string `yaml:"toolboxes" toml:"toolboxes"`
	// Standard preloads the built-in block definitions.
	Standard bool `yaml:"standard" toml:"standard"`
	// CacheSize is the number of cached match results; negative disables.
	CacheSize int          `yaml:"cache_size" toml:"cache_size"`
	Search    SearchConfig `yaml:"search" toml:"search"`
	Log       LogConfig    `yaml:"log" toml:"log"`
	Server    ServerConfig `yaml:"server" toml:"server"`
}

// SearchConfig tunes ranked search.
type SearchConfig struct {
	TypeBoost  float64 `yaml:"type_boost" toml:"type_boost"`
	MaxResults int     `yaml:"max_results" toml:"max_results"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Name    string `yaml:"name" toml:"name"`
	Version string `yaml:"version" toml:"version"`
	// HTTP is the listen address; empty serves over stdio.
	HTTP string `yaml:"http" toml:"http"`
}

// NewConfig returns a Config with default values.
func NewConfig() *Config {
	return &Config{
		Standard: true,
		Search: SearchConfig{
			TypeBoost:  2.0,
			MaxResults: 10,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Server: ServerConfig{
			Name:    "blocksearch",
			Version: "dev",
		},
	}
}

// Load reads the config file at path on top of the defaults. Relative
// definition and toolbox paths are resolved against the file's directory.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := cfg.decode(path, data); err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	cfg.Definitions = resolvePaths(dir, cfg.Definitions)
	cfg.Toolboxes = resolvePaths(dir, cfg.Toolboxes)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// decode unmarshals over the current values, so keys absent from the file
// keep their defaults.
func (c *Config) decode(path string, data []byte) error {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, c)
	case ".yaml", ".yml", "":
		err = yaml.Unmarshal(data, c)
	default:
		return fmt.Errorf("unsupported config file %s: want .yaml, .yml or .toml", path)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Search.TypeBoost < 0 {
		return fmt.Errorf("search.type_boost must be non-negative, got %g", c.Search.TypeBoost)
	}
	if c.Search.MaxResults < 0 {
		return fmt.Errorf("search.max_results must be non-negative, got %d", c.Search.MaxResults)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("log.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be 'text' or 'json', got %s", c.Log.Format)
	}
	return nil
}

func resolvePaths(dir string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		out = append(out, p)
	}
	return out
}
