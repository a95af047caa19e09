// Package config handles the XDG configuration directory, the optional
// config.toml file and resolution of the task data file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "task-cli"

	// ConfigFile is the optional settings filename inside the config dir.
	ConfigFile = "config.toml"

	// DefaultDataFile is the task file used when nothing else is configured.
	// It is resolved against the current working directory.
	DefaultDataFile = "tasks.json"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `toml:"-"`

	// DataFile is the task file path from config.toml, if any.
	// Relative paths are resolved against Dir.
	DataFile string `toml:"data_file"`

	// LogLevel is the log level from config.toml (debug, info, warn, error).
	LogLevel string `toml:"log_level"`

	// FileOverride is the task file given with --file. It wins over DataFile.
	FileOverride string `toml:"-"`

	// Debug enables debug logging.
	Debug bool `toml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `toml:"-"`
}

// New creates a new Config with the default or specified config directory
// and loads config.toml from it when present.
// If configDir is empty, uses XDG_CONFIG_HOME/task-cli or $HOME/.config/task-cli.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to config.toml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// DataPath returns the task file path.
// Priority: --file, then data_file from config.toml, then ./tasks.json.
func (c *Config) DataPath() string {
	if c.FileOverride != "" {
		return c.FileOverride
	}
	if c.DataFile != "" {
		if filepath.IsAbs(c.DataFile) {
			return c.DataFile
		}
		return filepath.Join(c.Dir, c.DataFile)
	}
	return DefaultDataFile
}

// load decodes config.toml into c. A missing file is not an error.
func (c *Config) load() error {
	path := c.ConfigPath()
	if _, err := toml.DecodeFile(path, c); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("invalid %s: %w", path, err)
	}
	return nil
}
