// Package config handles configuration management using Viper
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/bnema/hidgeneric/internal/hid"
)

// Config represents the application configuration
type Config struct {
	// Driver configuration
	Driver DriverConfig `mapstructure:"driver"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`

	// Per-device quirk overrides
	Quirks []QuirkRule `mapstructure:"quirks"`
}

// DriverConfig contains generic-driver settings
type DriverConfig struct {
	// ForceGeneric claims every device regardless of other drivers
	ForceGeneric bool `mapstructure:"force_generic"`
	// UinputName names the virtual mouse created for event injection
	UinputName string `mapstructure:"uinput_name"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	LogLevel string `mapstructure:"log_level"` // Override LOG_LEVEL env var
}

// QuirkRule flags devices by USB identity. Vendor and Product are hex
// strings as shown by lsusb ("046d"); "*" matches anything.
type QuirkRule struct {
	Vendor        string `mapstructure:"vendor"`
	Product       string `mapstructure:"product"`
	SpecialDriver bool   `mapstructure:"special_driver"`
	InputPerApp   bool   `mapstructure:"input_per_app"`
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Driver: DriverConfig{
			ForceGeneric: false,
			UinputName:   "hidgeneric virtual mouse",
		},
		Logging: LoggingConfig{
			LogLevel: "", // Empty means use LOG_LEVEL env var
		},
		Quirks: []QuirkRule{},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("hidgeneric")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		viper.AddConfigPath("/etc/hidgeneric")
		if home := os.Getenv("HOME"); home != "" {
			viper.AddConfigPath(filepath.Join(home, ".config", "hidgeneric"))
		}
		viper.AddConfigPath(".")
	}

	viper.SetDefault("driver.force_generic", DefaultConfig.Driver.ForceGeneric)
	viper.SetDefault("driver.uinput_name", DefaultConfig.Driver.UinputName)
	viper.SetDefault("logging.log_level", DefaultConfig.Logging.LogLevel)
	viper.SetDefault("quirks", DefaultConfig.Quirks)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		return &DefaultConfig
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// Save saves the current configuration to file
func Save() error {
	configPath := GetConfigPath()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		if os.IsPermission(err) && strings.Contains(configPath, "/etc/") {
			return fmt.Errorf("failed to create config directory %s: permission denied. Try running with sudo", dir)
		}
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	if os.Getuid() == 0 {
		return "/etc/hidgeneric/hidgeneric.toml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "/etc/hidgeneric/hidgeneric.toml"
	}

	return filepath.Join(home, ".config", "hidgeneric", "hidgeneric.toml")
}

// ApplyQuirks stamps configured quirk flags onto a device, matched by USB
// identity. Called once at attach, before any driver matching runs.
func ApplyQuirks(dev *hid.Device) {
	for _, rule := range Get().Quirks {
		if !matchID(rule.Vendor, dev.Vendor) || !matchID(rule.Product, dev.Product) {
			continue
		}
		if rule.SpecialDriver {
			dev.Quirks |= hid.QuirkHaveSpecialDriver
		}
		if rule.InputPerApp {
			dev.Quirks |= hid.QuirkInputPerApp
		}
	}
}

func matchID(pattern string, id uint16) bool {
	if pattern == "" || pattern == "*" {
		return true
	}
	parsed, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(pattern), "0x"), 16, 16)
	if err != nil {
		return false
	}
	return uint16(parsed) == id
}
