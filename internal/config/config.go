// Package config loads the tuning knobs of the range finder: timings of the
// change coalescer, preview fallback size, load-size warning thresholds and
// logging.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	appDirName     = "hsv-range-finder"
	configFileName = "config.yaml"

	// EnvConfigPath names an explicit config file.
	EnvConfigPath = "HSV_RANGE_FINDER_CONFIG"
)

type Config struct {
	LogLevel string `yaml:"log_level"`

	TickInterval time.Duration `yaml:"tick_interval"`
	QuietPeriod  time.Duration `yaml:"quiet_period"`

	FallbackWidth  int `yaml:"fallback_width"`
	FallbackHeight int `yaml:"fallback_height"`

	MaxFileSize int64 `yaml:"max_file_size"`
	MaxPixels   int   `yaml:"max_pixels"`

	WindowWidth  float32 `yaml:"window_width"`
	WindowHeight float32 `yaml:"window_height"`
}

func Default() Config {
	return Config{
		LogLevel:       "info",
		TickInterval:   50 * time.Millisecond,
		QuietPeriod:    150 * time.Millisecond,
		FallbackWidth:  300,
		FallbackHeight: 400,
		MaxFileSize:    50 * 1024 * 1024,
		MaxPixels:      25_000_000,
		WindowWidth:    910,
		WindowHeight:   600,
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment. An explicit path that cannot be read is an error; the default
// location is optional.
func Load(path string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if !explicit {
		if envPath := os.Getenv(EnvConfigPath); envPath != "" {
			path = envPath
			explicit = true
		} else {
			path = DefaultPath()
		}
	}

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return cfg, err
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DefaultPath is <UserConfigDir>/hsv-range-finder/config.yaml, or "" when the
// user config dir is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appDirName, configFileName)
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.LogLevel = strings.ToLower(level)
		return
	}
	if os.Getenv("DEBUG") == "1" {
		c.LogLevel = "debug"
	}
}

func (c Config) Validate() error {
	switch {
	case c.TickInterval <= 0:
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	case c.QuietPeriod <= 0:
		return fmt.Errorf("quiet_period must be positive, got %s", c.QuietPeriod)
	case c.FallbackWidth <= 0 || c.FallbackHeight <= 0:
		return fmt.Errorf("invalid fallback size %dx%d", c.FallbackWidth, c.FallbackHeight)
	case c.MaxFileSize <= 0:
		return fmt.Errorf("max_file_size must be positive, got %d", c.MaxFileSize)
	case c.MaxPixels <= 0:
		return fmt.Errorf("max_pixels must be positive, got %d", c.MaxPixels)
	case c.WindowWidth <= 0 || c.WindowHeight <= 0:
		return fmt.Errorf("invalid window size %.0fx%.0f", c.WindowWidth, c.WindowHeight)
	}
	return nil
}
