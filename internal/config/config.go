// Package config loads authstore settings from an optional TOML file with
// AUTHSTORE_* environment overrides applied on top.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
)

// Local storage backends for the CLI
const (
	BackendKeyring = "keyring"
	BackendRedis   = "redis"
	BackendMemory  = "memory"
)

// Config is the full application configuration
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Store   StoreConfig   `toml:"store"`
	Cookie  CookieConfig  `toml:"cookie"`
	Redis   RedisConfig   `toml:"redis"`
	Keyring KeyringConfig `toml:"keyring"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `toml:"host"`
	Port            int           `toml:"port"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// StoreConfig holds settings of the auth store itself
type StoreConfig struct {
	// Name scopes persisted snapshots and names the cookie
	Name string `toml:"name"`
	// Locale is a BCP 47 tag used to lower-case usernames
	Locale string `toml:"locale"`
	// Backend is the CLI's local persistence backend
	Backend string `toml:"backend"`
}

// CookieConfig holds the cookie persistence channel settings
type CookieConfig struct {
	// Secret signs cookie snapshots. Empty means a random per-process secret.
	Secret string        `toml:"secret"`
	MaxAge time.Duration `toml:"max_age"`
	Domain string        `toml:"domain"`
}

// RedisConfig holds Redis snapshot storage settings
type RedisConfig struct {
	URL         string        `toml:"url"`
	PoolSize    int           `toml:"pool_size"`
	SnapshotTTL time.Duration `toml:"snapshot_ttl"`
}

// KeyringConfig holds keyring snapshot storage settings
type KeyringConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	Password string `toml:"password"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Store: StoreConfig{
			Name:    "auth",
			Locale:  "und",
			Backend: BackendKeyring,
		},
		Cookie: CookieConfig{
			MaxAge: 7 * 24 * time.Hour,
		},
		Redis: RedisConfig{
			URL:         "redis://localhost:6379",
			PoolSize:    10,
			SnapshotTTL: 7 * 24 * time.Hour,
		},
		Keyring: KeyringConfig{
			Dir: "~/.authstore/keyring",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides and validates the result
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file into cfg. Unknown keys are rejected.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnvOverrides applies AUTHSTORE_* environment variables
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("AUTHSTORE_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("AUTHSTORE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("AUTHSTORE_STORE_NAME"); v != "" {
		c.Store.Name = v
	}
	if v := os.Getenv("AUTHSTORE_LOCALE"); v != "" {
		c.Store.Locale = v
	}
	if v := os.Getenv("AUTHSTORE_BACKEND"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("AUTHSTORE_COOKIE_SECRET"); v != "" {
		c.Cookie.Secret = v
	}
	if v := os.Getenv("AUTHSTORE_REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
	if v := os.Getenv("AUTHSTORE_KEYRING_BACKEND"); v != "" {
		c.Keyring.Backend = v
	}
	if v := os.Getenv("AUTHSTORE_KEYRING_DIR"); v != "" {
		c.Keyring.Dir = v
	}
	if v := os.Getenv("AUTHSTORE_KEYRING_PASSWORD"); v != "" {
		c.Keyring.Password = v
	}
	if v := os.Getenv("AUTHSTORE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("AUTHSTORE_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}

// Validate checks the configuration for values the application can't run with
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if !validCookieName(c.Store.Name) {
		return fmt.Errorf("store.name %q is not a valid cookie name", c.Store.Name)
	}
	if _, err := language.Parse(c.Store.Locale); err != nil {
		return fmt.Errorf("store.locale %q: %w", c.Store.Locale, err)
	}
	switch c.Store.Backend {
	case BackendKeyring, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("store.backend %q: must be keyring, redis or memory", c.Store.Backend)
	}
	if c.Cookie.MaxAge < 0 {
		return fmt.Errorf("cookie.max_age must not be negative")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("log.format %q: must be json or text", c.Log.Format)
	}
	return nil
}

// LocaleTag returns the parsed store locale, falling back to language.Und
func (c *Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Store.Locale)
	if err != nil {
		return language.Und
	}
	return tag
}

// NewLogger builds the slog logger described by the log settings
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if c.Log.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", s, err)
	}
	return level, nil
}

// validCookieName reports whether name survives as a cookie name
func validCookieName(name string) bool {
	if name == "" {
		return false
	}
	ck := &http.Cookie{Name: name, Value: "x"}
	return ck.Valid() == nil
}
