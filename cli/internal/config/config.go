// Package config manages the connection registry: the named database
// connections the CLI commands operate on, stored in ~/.queryark.yaml.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var AppFs = afero.NewOsFs()

// Connection is one registered database connection.
type Connection struct {
	Name     string `mapstructure:"name" yaml:"name"`
	Provider string `mapstructure:"provider" yaml:"provider"`
	DSN      string `mapstructure:"dsn" yaml:"dsn"`
	// Version is the server version, used to gate dialect capabilities.
	// Empty means assume a current server.
	Version string `mapstructure:"version" yaml:"version"`
	// Hidden lists schemas the user toggled off for this connection. Empty
	// means no customization and the provider defaults apply.
	Hidden []string `mapstructure:"hidden" yaml:"hidden,omitempty"`
}

// Config holds the registry plus cache tuning.
type Config struct {
	Connections []Connection `mapstructure:"connections"`
	// MaxCachedTables bounds the metadata cache; zero uses the default.
	MaxCachedTables int `mapstructure:"max_cached_tables"`
}

// Connection finds a registered connection by name.
func (c *Config) Connection(name string) (*Connection, error) {
	for i := range c.Connections {
		if c.Connections[i].Name == name {
			return &c.Connections[i], nil
		}
	}
	return nil, fmt.Errorf("unknown connection %q, register it in %s", name, FileName)
}

const FileName = ".queryark.yaml"

// Path returns the location of the registry file in the home directory.
func Path() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// Load reads the registry. A missing file yields an empty registry rather
// than an error so first-run commands can print a helpful hint.
func Load() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate home directory: %w", err)
	}

	v := viper.New()
	v.SetFs(AppFs)
	v.SetConfigName(".queryark")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(home)

	v.SetEnvPrefix("QUERYARK")
	v.AutomaticEnv()

	v.SetDefault("max_cached_tables", 0)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// .env can carry DSNs referenced from the registry via ${VAR} expansion
	// done by the shell; loading it here makes QUERYARK_* overrides visible.
	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the registry back to the home directory file.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}

	v := viper.New()
	v.SetFs(AppFs)
	v.SetConfigType("yaml")
	v.Set("connections", cfg.Connections)
	v.Set("max_cached_tables", cfg.MaxCachedTables)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
