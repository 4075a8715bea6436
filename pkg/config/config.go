// Package config provides configuration loading and management for the
// schemeweave CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-schemeweave/pkg/serialize"
)

// Config represents the complete CLI configuration.
type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	State     StateConfig     `yaml:"state"`
	Export    ExportConfig    `yaml:"export"`
	Serve     ServeConfig     `yaml:"serve"`
	Theme     ThemeConfig     `yaml:"theme"`
	Log       LogConfig       `yaml:"log"`
}

// WorkspaceConfig configures the initial selection.
type WorkspaceConfig struct {
	// DefaultSchema is selected when no state has been saved yet
	DefaultSchema string `yaml:"default_schema"`
	// PreviewFormat is the format used by preview when none is given
	PreviewFormat string `yaml:"preview_format"`
}

// CatalogConfig points at additional schema definitions.
type CatalogConfig struct {
	// Dir holds extra YAML/JSON definitions merged over the bundled ones
	Dir string `yaml:"dir"`
}

// StateConfig configures workspace persistence.
type StateConfig struct {
	// Path is the state file (default: ~/.config/schemeweave/state.json)
	Path string `yaml:"path"`
}

// ExportConfig configures document export.
type ExportConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Addr     string `yaml:"addr"`
	BasePath string `yaml:"base_path"`
	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ThemeConfig selects the preview page theme.
type ThemeConfig struct {
	Name    string `yaml:"name"`
	Variant string `yaml:"variant"`
	// TemplatesDir overrides the bundled page templates
	TemplatesDir string `yaml:"templates_dir"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			DefaultSchema: "doap",
			PreviewFormat: string(serialize.FormatJSON),
		},
		Export: ExportConfig{
			Dir:    ".",
			Format: string(serialize.FormatJSON),
		},
		Serve: ServeConfig{
			Addr:            "127.0.0.1:8780",
			BasePath:        "/",
			ShutdownTimeout: 5 * time.Second,
		},
		Theme: ThemeConfig{
			Name: "schemeweave",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Workspace.DefaultSchema) == "" {
		return fmt.Errorf("workspace.default_schema is required")
	}
	if _, err := serialize.ParseFormat(c.Workspace.PreviewFormat); err != nil {
		return fmt.Errorf("workspace.preview_format: %w", err)
	}
	if _, err := serialize.ParseFormat(c.Export.Format); err != nil {
		return fmt.Errorf("export.format: %w", err)
	}
	if strings.TrimSpace(c.Serve.Addr) == "" {
		return fmt.Errorf("serve.addr is required")
	}
	if c.Serve.ShutdownTimeout < 0 {
		return fmt.Errorf("serve.shutdown_timeout must not be negative")
	}
	if strings.TrimSpace(c.Theme.Name) == "" {
		return fmt.Errorf("theme.name is required")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	mergeString(&c.Workspace.DefaultSchema, other.Workspace.DefaultSchema)
	mergeString(&c.Workspace.PreviewFormat, other.Workspace.PreviewFormat)

	mergeString(&c.Catalog.Dir, other.Catalog.Dir)
	mergeString(&c.State.Path, other.State.Path)

	mergeString(&c.Export.Dir, other.Export.Dir)
	mergeString(&c.Export.Format, other.Export.Format)

	mergeString(&c.Serve.Addr, other.Serve.Addr)
	mergeString(&c.Serve.BasePath, other.Serve.BasePath)
	if other.Serve.ShutdownTimeout != 0 {
		c.Serve.ShutdownTimeout = other.Serve.ShutdownTimeout
	}

	if other.Theme.Name != "" {
		c.Theme.Name = other.Theme.Name
		c.Theme.Variant = other.Theme.Variant
	} else {
		mergeString(&c.Theme.Variant, other.Theme.Variant)
	}
	mergeString(&c.Theme.TemplatesDir, other.Theme.TemplatesDir)

	mergeString(&c.Log.Level, other.Log.Level)
}

func mergeString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
