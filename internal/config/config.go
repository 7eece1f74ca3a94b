// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultProfile    = "sink"
	DefaultRetryDelay = 5 * time.Second
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Accepts "5s", "1m30s" or an integer number of milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the a2dpsink configuration.
// Loaded from ~/.config/a2dpsink/config.toml
type Config struct {
	Device    string          `toml:"device"` // Display name of the target device
	Bluetooth BluetoothConfig `toml:"bluetooth"`
	Retry     RetryConfig     `toml:"retry"`
	Console   ConsoleConfig   `toml:"console"`
}

// BluetoothConfig selects which devices are candidates.
type BluetoothConfig struct {
	Adapter string `toml:"adapter"` // "hci0", "hci1"; empty = any adapter
	Profile string `toml:"profile"` // "sink", "source" or a raw profile UUID
}

// RetryConfig controls the reconnect loop.
type RetryConfig struct {
	Delay Duration `toml:"delay"` // Fixed wait after an empty scan or a failed attempt
}

// ConsoleConfig holds progress output settings.
type ConsoleConfig struct {
	Color bool `toml:"color"` // Style progress output when stdout is a terminal
}

var adapterPattern = regexp.MustCompile(`^hci[0-9]+$`)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Bluetooth: BluetoothConfig{
			Adapter: "",
			Profile: DefaultProfile,
		},
		Retry: RetryConfig{
			Delay: Duration(DefaultRetryDelay),
		},
		Console: ConsoleConfig{
			Color: true,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "a2dpsink", "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
// The device name is not checked here since it may come from the command line.
func (c *Config) Validate() error {
	if c.Retry.Delay.Duration() <= 0 {
		return fmt.Errorf("retry delay must be positive, got %s", c.Retry.Delay.Duration())
	}

	if c.Bluetooth.Adapter != "" && !adapterPattern.MatchString(c.Bluetooth.Adapter) {
		return fmt.Errorf("invalid adapter %q, must look like hci0", c.Bluetooth.Adapter)
	}

	if c.Bluetooth.Profile == "" {
		return errors.New("bluetooth profile cannot be empty")
	}

	return nil
}
