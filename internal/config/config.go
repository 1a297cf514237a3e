package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config represents the complete pomo configuration
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Timer   TimerConfig   `mapstructure:"timer"`
	Logging LoggingConfig `mapstructure:"logging"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	UI      UIConfig      `mapstructure:"ui"`
}

// StorageConfig selects the key-value backend
type StorageConfig struct {
	// Backend is one of "sqlite", "diskv" or "memory"
	Backend string `mapstructure:"backend"`
	// Path is the data directory (default: $XDG_DATA_HOME/pomo)
	Path string `mapstructure:"path"`
}

// TimerConfig controls session lengths
type TimerConfig struct {
	WorkMinutes    int `mapstructure:"work_minutes"`
	BreakMinutes   int `mapstructure:"break_minutes"`
	TickIntervalMs int `mapstructure:"tick_interval_ms"`
}

// LoggingConfig controls the debug log
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	// File defaults to <data dir>/pomo.log
	File string `mapstructure:"file"`
}

// NotifyConfig controls the start/work-end/break-end notifications
type NotifyConfig struct {
	Bell bool `mapstructure:"bell"`
}

// UIConfig controls the terminal UI
type UIConfig struct {
	// DragThreshold is how many rows a grabbed slot travels before it counts as a drag
	DragThreshold int `mapstructure:"drag_threshold"`
}

// Backends lists the valid storage.backend values
var Backends = []string{"sqlite", "diskv", "memory"}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    "", // Empty means use the XDG data dir
		},
		Timer: TimerConfig{
			WorkMinutes:    25,
			BreakMinutes:   5,
			TickIntervalMs: 250,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Notify: NotifyConfig{
			Bell: true,
		},
		UI: UIConfig{
			DragThreshold: 1,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("storage.backend", defaults.Storage.Backend)
	viper.SetDefault("storage.path", defaults.Storage.Path)

	viper.SetDefault("timer.work_minutes", defaults.Timer.WorkMinutes)
	viper.SetDefault("timer.break_minutes", defaults.Timer.BreakMinutes)
	viper.SetDefault("timer.tick_interval_ms", defaults.Timer.TickIntervalMs)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)

	viper.SetDefault("notify.bell", defaults.Notify.Bell)

	viper.SetDefault("ui.drag_threshold", defaults.UI.DragThreshold)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every field and joins all problems into one error
func (c *Config) Validate() error {
	var errs []error

	valid := false
	for _, b := range Backends {
		if c.Storage.Backend == b {
			valid = true
			break
		}
	}
	if !valid {
		errs = append(errs, fmt.Errorf("storage.backend: %q is not one of %s", c.Storage.Backend, strings.Join(Backends, ", ")))
	}
	if c.Timer.WorkMinutes <= 0 {
		errs = append(errs, fmt.Errorf("timer.work_minutes: must be positive, got %d", c.Timer.WorkMinutes))
	}
	if c.Timer.BreakMinutes <= 0 {
		errs = append(errs, fmt.Errorf("timer.break_minutes: must be positive, got %d", c.Timer.BreakMinutes))
	}
	if c.Timer.TickIntervalMs < 10 || c.Timer.TickIntervalMs > 1000 {
		errs = append(errs, fmt.Errorf("timer.tick_interval_ms: must be between 10 and 1000, got %d", c.Timer.TickIntervalMs))
	}
	if c.UI.DragThreshold < 0 {
		errs = append(errs, fmt.Errorf("ui.drag_threshold: must not be negative, got %d", c.UI.DragThreshold))
	}

	return errors.Join(errs...)
}

// WorkDuration returns the work session length
func (c *TimerConfig) WorkDuration() time.Duration {
	return time.Duration(c.WorkMinutes) * time.Minute
}

// BreakDuration returns the break length
func (c *TimerConfig) BreakDuration() time.Duration {
	return time.Duration(c.BreakMinutes) * time.Minute
}

// TickInterval returns the tick cadence as a time.Duration
func (c *TimerConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// DataDir resolves storage.path, expanding ~ and falling back to the XDG data dir
func (c *StorageConfig) DataDir() (string, error) {
	if c.Path != "" {
		return homedir.Expand(c.Path)
	}
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "pomo"), nil
}

// LogFile resolves logging.file relative to the data dir
func (c *Config) LogFile() (string, error) {
	if c.Logging.File != "" {
		return homedir.Expand(c.Logging.File)
	}
	dir, err := c.Storage.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pomo.log"), nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pomo")
	}
	// Fall back to ~/.config/pomo
	home, err := homedir.Dir()
	if err != nil {
		return ".pomo"
	}
	return filepath.Join(home, ".config", "pomo")
}
