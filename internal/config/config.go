// Package config handles configuration loading and defaults for taskpad.
// Configuration is loaded from XDG-compliant paths (typically
// ~/.config/taskpad/config.yaml).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"taskpad/internal/fsutil"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.taskpad)
	DataDir string `yaml:"data_dir,omitempty"`

	// DefaultCategory is assigned to new todos added without a category
	DefaultCategory string `yaml:"default_category,omitempty"`

	// Theme is the startup color scheme: "light" or "dark". The persisted
	// state takes precedence once the app has run.
	Theme string `yaml:"theme,omitempty"`

	// Reminder tunes the reminder scheduler
	Reminder ReminderConfig `yaml:"reminder,omitempty"`

	// Notifications configures desktop notifications
	Notifications NotificationConfig `yaml:"notifications,omitempty"`
}

// ReminderConfig tunes the scheduler's coarse poll.
type ReminderConfig struct {
	// PollSeconds is the coarse reminder check period (default 5)
	PollSeconds int `yaml:"poll_seconds,omitempty"`
}

// NotificationConfig defines desktop notification settings.
type NotificationConfig struct {
	// Enabled enables desktop notifications for fired reminders
	Enabled bool `yaml:"enabled,omitempty"`

	// Sound enables notification sounds
	Sound bool `yaml:"sound,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir:         defaultDataDir(),
		DefaultCategory: "general",
		Theme:           "light",
		Reminder:        ReminderConfig{PollSeconds: 5},
		Notifications:   NotificationConfig{Enabled: false, Sound: false},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskpad"
	}
	return filepath.Join(home, ".taskpad")
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskpad")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "taskpad")
}

func configPath() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration from disk, merging with defaults. A missing file
// is not an error; defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	path := configPath()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return nil, err
	}
	cfg.merge(&userCfg)
	return cfg, nil
}

// merge applies the set values from other over the defaults. Booleans are
// taken as-is: their zero value matches the default.
func (c *Config) merge(other *Config) {
	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}
	if other.DefaultCategory != "" {
		c.DefaultCategory = other.DefaultCategory
	}
	if other.Theme == "light" || other.Theme == "dark" {
		c.Theme = other.Theme
	}
	if other.Reminder.PollSeconds > 0 {
		c.Reminder.PollSeconds = other.Reminder.PollSeconds
	}
	c.Notifications.Enabled = other.Notifications.Enabled
	c.Notifications.Sound = other.Notifications.Sound
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	path := configPath()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the resolved data directory path, expanding a leading
// tilde.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	if c.DataDir == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return c.DataDir
	}
	if strings.HasPrefix(c.DataDir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(c.DataDir, "~/"))
		}
	}
	return c.DataDir
}
