package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultTimeout bounds every API request
	DefaultTimeout = 30 * time.Second
	// DefaultLogLevel keeps CLI output quiet unless --debug is set
	DefaultLogLevel = "warn"
)

var (
	// ErrNoConfig is returned when no backend URL is configured
	ErrNoConfig = errors.New("no configuration found. Run 'estatectl config init' to set up")
	// ErrNotLoggedIn is returned when no token is stored
	ErrNotLoggedIn = errors.New("not logged in. Run 'estatectl auth login'")
)

// Config represents the application configuration
type Config struct {
	URL      string
	Token    string
	PageSize int
	Timeout  time.Duration
	LogLevel string
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over config file values.
// A missing token is not an error here; callers needing one use RequireToken.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		configDir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("log_level", DefaultLogLevel)

	v.SetEnvPrefix("ESTATE")
	_ = v.BindEnv("url")
	_ = v.BindEnv("token")
	_ = v.BindEnv("page_size")
	_ = v.BindEnv("timeout")
	_ = v.BindEnv("log_level")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{
		URL:      v.GetString("url"),
		Token:    v.GetString("token"),
		PageSize: v.GetInt("page_size"),
		Timeout:  v.GetDuration("timeout"),
		LogLevel: v.GetString("log_level"),
	}

	if cfg.URL == "" {
		return nil, ErrNoConfig
	}
	if cfg.PageSize < 0 {
		return nil, fmt.Errorf("invalid page_size %d: must not be negative", cfg.PageSize)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return cfg, nil
}

// RequireToken returns ErrNotLoggedIn when no token is configured
func (c *Config) RequireToken() error {
	if c.Token == "" {
		return ErrNotLoggedIn
	}
	return nil
}

// Dir returns the directory holding the config file and TUI log
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "estatectl"), nil
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Save writes configuration to the specified path
func Save(cfg *Config, configPath string) error {
	// Owner-only directory and file: the token is a credential
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.Set("url", cfg.URL)
	v.Set("token", cfg.Token)
	if cfg.PageSize > 0 {
		v.Set("page_size", cfg.PageSize)
	}
	if cfg.Timeout > 0 && cfg.Timeout != DefaultTimeout {
		v.Set("timeout", cfg.Timeout.String())
	}
	if cfg.LogLevel != "" && cfg.LogLevel != DefaultLogLevel {
		v.Set("log_level", cfg.LogLevel)
	}

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Chmod(configPath, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return nil
}
