// Package config loads the settings of the contact book from defaults, an optional YAML file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of all environment variables, e.g. CONTACTBOOK_FILE.
const EnvPrefix = "CONTACTBOOK"

// Config holds the settings of the contact book.
type Config struct {
	// File is the contacts file. Files ending in '.yaml' or '.yml' are written as YAML.
	File string `mapstructure:"file"`
	// DSN selects a MySQL database instead of the file if set.
	DSN      string `mapstructure:"dsn"`
	LogLevel string `mapstructure:"log_level"`
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// DefaultConfig returns the configuration used when nothing else is specified.
func DefaultConfig() Config {
	return Config{
		File:     "contacts.json",
		LogLevel: "info",
	}
}

// Load reads the configuration. If path is empty, a file named contactbook.yaml is looked up in
// the working directory and silently skipped if it does not exist. Environment variables take
// precedence over the file. The result is not validated, so that callers can apply their own
// overrides first and call Validate afterwards.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetDefault("file", cfg.File)
	v.SetDefault("dsn", cfg.DSN)
	v.SetDefault("log_level", cfg.LogLevel)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("contactbook")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("config: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.DSN == "" && c.File == "" {
		return errors.New("config: file is required unless a dsn is set")
	}
	if c.DSN != "" {
		if _, err := mysql.ParseDSN(c.DSN); err != nil {
			return fmt.Errorf("config: invalid dsn: %w", err)
		}
	}
	if _, ok := levels[strings.ToLower(c.LogLevel)]; !ok {
		return fmt.Errorf("config: log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}

// Level returns the log level. Unknown values map to info.
func (c Config) Level() slog.Level {
	if l, ok := levels[strings.ToLower(c.LogLevel)]; ok {
		return l
	}
	return slog.LevelInfo
}
