package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/authstore/internal/config"
)

// Config holds CLI flag values layered over the settings file
type Config struct {
	ConfigPath string
	Backend    string
	StoreName  string
	RedisURL   string
	KeyringDir string
	Output     string
	Verbose    bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ConfigPath: os.Getenv("AUTHSTORE_CONFIG"),
		Output:     "text",
	}
}

// Settings loads the settings file and applies any flags set on cmd
func (c *Config) Settings(cmd *cobra.Command) (*config.Config, error) {
	settings, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		settings.Store.Backend = c.Backend
	}
	if flags.Changed("store") {
		settings.Store.Name = c.StoreName
	}
	if flags.Changed("redis-url") {
		settings.Redis.URL = c.RedisURL
	}
	if flags.Changed("keyring-dir") {
		settings.Keyring.Dir = c.KeyringDir
	}
	if c.Verbose {
		settings.Log.Level = "debug"
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}
