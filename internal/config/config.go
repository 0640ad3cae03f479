package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
	"github.com/typings-tools/publish-registry/internal/branding"
)

const (
	fileName = "publish-registry"
	fileType = "yaml"
)

// Config holds all settings for a run.
type Config struct {
	RegistryURL string `mapstructure:"registry_url"`
	Concurrency int    `mapstructure:"concurrency"`
	Retries     int    `mapstructure:"retries"`
	DataDir     string `mapstructure:"data_dir"`
	OutputDir   string `mapstructure:"output_dir"`
	LogDir      string `mapstructure:"log_dir"`
	LogLevel    string `mapstructure:"log_level"`
	NpmToken    string `mapstructure:"npm_token"`
	NpmBin      string `mapstructure:"npm_bin"`

	v *viper.Viper
}

// Keys lists every recognized setting.
var Keys = []string{
	"registry_url", "concurrency", "retries", "data_dir", "output_dir",
	"log_dir", "log_level", "npm_token", "npm_bin",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("registry_url", "https://registry.npmjs.org")
	v.SetDefault("concurrency", 25)
	v.SetDefault("retries", 5)
	v.SetDefault("data_dir", "data")
	v.SetDefault("output_dir", "output")
	v.SetDefault("log_dir", "logs")
	v.SetDefault("log_level", "info")
	v.SetDefault("npm_token", "")
	v.SetDefault("npm_bin", "npm")
}

// Load reads configuration. With an empty path it looks for
// publish-registry.yaml in the working directory and silently falls back to
// defaults when there is none; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType(fileType)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	cfg := &Config{v: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", c.Retries)
	}
	if c.RegistryURL == "" {
		return fmt.Errorf("registry_url must be set")
	}
	return nil
}

// Get returns a setting by key as a string. Returns empty string if not set.
func (c *Config) Get(key string) string {
	if c.v == nil {
		return ""
	}
	return c.v.GetString(key)
}

// ConfigFile returns the config file that was read, if any.
func (c *Config) ConfigFile() string {
	if c.v == nil {
		return ""
	}
	return c.v.ConfigFileUsed()
}

// SlogLevel converts LogLevel to a slog.Level, defaulting to Info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
