// Package config persists dockup's user-facing settings (log file path,
// logging toggle, countdown length, database location) in
// ~/.dockup/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/blackwell-systems/dockup/internal/logging"
)

const (
	KeyLogPath          = "log.path"
	KeyLogEnabled       = "log.enabled"
	KeyCountdownSeconds = "countdown.seconds"
	KeyDatabasePath     = "database.path"

	envPrefix  = "DOCKUP"
	configName = "config"
	configType = "yaml"
)

// DefaultCountdownSeconds is the auto-close delay after a completed batch.
const DefaultCountdownSeconds = 10

// Config wraps a viper instance bound to one config directory.
type Config struct {
	v   *viper.Viper
	dir string
}

// Dir returns the default config directory, ~/.dockup.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".dockup"), nil
}

// Load reads the config file under dir, creating the directory if
// needed. A missing file is not an error; defaults apply.
func Load(dir string) (*Config, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault(KeyLogPath, logging.DefaultPath())
	v.SetDefault(KeyLogEnabled, false)
	v.SetDefault(KeyCountdownSeconds, DefaultCountdownSeconds)
	v.SetDefault(KeyDatabasePath, filepath.Join(dir, "dockup.db"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &Config{v: v, dir: dir}, nil
}

// Save writes the current values to the config file.
func (c *Config) Save() error {
	path := filepath.Join(c.dir, configName+"."+configType)
	if err := c.v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) LogPath() string { return c.v.GetString(KeyLogPath) }
func (c *Config) LogEnabled() bool { return c.v.GetBool(KeyLogEnabled) }
func (c *Config) CountdownSeconds() int { return c.v.GetInt(KeyCountdownSeconds) }
func (c *Config) DatabasePath() string { return c.v.GetString(KeyDatabasePath) }

func (c *Config) SetLogPath(path string) { c.v.Set(KeyLogPath, path) }
func (c *Config) SetLogEnabled(on bool) { c.v.Set(KeyLogEnabled, on) }
func (c *Config) SetCountdownSeconds(n int) { c.v.Set(KeyCountdownSeconds, n) }
func (c *Config) SetDatabasePath(p string) { c.v.Set(KeyDatabasePath, p) }
