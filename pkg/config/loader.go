package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "schemeweave.yaml"
	// UserConfigDir is the directory for user-level config and state
	UserConfigDir = ".config/schemeweave"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
	// StateFile is the default state file name under UserConfigDir
	StateFile = "state.json"
)

// LoaderOption customises where the loader looks for files.
type LoaderOption func(*Loader)

// WithHomeDir overrides the home directory used for user config.
func WithHomeDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.homeDir = dir
	}
}

// WithWorkDir overrides the directory the project config search starts from.
func WithWorkDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.workDir = dir
	}
}

// Loader handles configuration loading with layered precedence.
type Loader struct {
	logger  *slog.Logger
	homeDir string
	workDir string
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{logger: logger}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	if l.homeDir == "" {
		l.homeDir, _ = os.UserHomeDir()
	}
	if l.workDir == "" {
		l.workDir, _ = os.Getwd()
	}
	return l
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/schemeweave/config.yaml)
// 3. Project config (schemeweave.yaml in the work or parent directories)
// 4. The explicit file, when given
func (l *Loader) Load(explicit string) (*Config, error) {
	config := DefaultConfig()

	if path := l.UserConfigPath(); path != "" {
		if layer, err := loadLayer(path); err == nil {
			l.logger.Debug("Loaded user config", slog.String("path", path))
			config.Merge(layer)
		} else if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Failed to load user config", slog.String("path", path), slog.String("error", err.Error()))
		}
	}

	if path := l.findProjectConfig(); path != "" {
		if layer, err := loadLayer(path); err == nil {
			l.logger.Debug("Loaded project config", slog.String("path", path))
			config.Merge(layer)
		} else {
			l.logger.Warn("Failed to load project config", slog.String("path", path), slog.String("error", err.Error()))
		}
	} else {
		l.logger.Debug("No project config found")
	}

	if explicit != "" {
		layer, err := loadLayer(explicit)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config", slog.String("path", explicit))
		config.Merge(layer)
	}

	if config.State.Path == "" && l.homeDir != "" {
		config.State.Path = filepath.Join(l.homeDir, UserConfigDir, StateFile)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// UserConfigPath returns the path to the user config file.
func (l *Loader) UserConfigPath() string {
	if l.homeDir == "" {
		return ""
	}
	return filepath.Join(l.homeDir, UserConfigDir, UserConfigFile)
}

// EnsureUserConfig creates the user config file with defaults if it doesn't
// exist.
func (l *Loader) EnsureUserConfig() error {
	path := l.UserConfigPath()
	if path == "" {
		return errors.New("config: home directory unknown")
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := DefaultConfig().SaveToFile(path); err != nil {
		return err
	}
	l.logger.Info("Created default user config", slog.String("path", path))
	return nil
}

func (l *Loader) findProjectConfig() string {
	if l.workDir == "" {
		return ""
	}
	dir := l.workDir
	for {
		path := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadLayer decodes a file without defaults so that Merge only applies the
// keys it sets.
func loadLayer(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	layer := &Config{}
	if err := yaml.Unmarshal(data, layer); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return layer, nil
}
