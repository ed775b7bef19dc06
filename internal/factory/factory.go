package factory

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mcoot/authstore/internal/config"
	"github.com/mcoot/authstore/internal/dependencies/clock"
	"github.com/mcoot/authstore/internal/dependencies/random"
	"github.com/mcoot/authstore/internal/services/auth"
	"github.com/mcoot/authstore/internal/storage"
	"github.com/mcoot/authstore/internal/storage/cookie"
	keyringstorage "github.com/mcoot/authstore/internal/storage/keyring"
	"github.com/mcoot/authstore/internal/storage/memory"
	redisstorage "github.com/mcoot/authstore/internal/storage/redis"
)

// App contains all wired application components
type App struct {
	Settings *config.Config
	Logger   *slog.Logger

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Cookie persistence channel
	CookieCodec  *cookie.Codec
	CookieConfig cookie.Config
}

// Config holds configuration for the application factory
type Config struct {
	// Settings is the loaded configuration (optional)
	// If nil, config.Default() is used
	Settings *config.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// Clock and Random override the real implementations (optional, for tests)
	Clock  clock.Clock
	Random random.Random
	// LocalOnly skips the cookie channel; NewStore must not be used then
	LocalOnly bool
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	settings := cfg.Settings
	if settings == nil {
		settings = config.Default()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	rnd := cfg.Random
	if rnd == nil {
		rnd = random.New()
	}

	app := &App{
		Settings: settings,
		Logger:   logger,
		Clock:    clk,
		Random:   rnd,
	}
	if cfg.LocalOnly {
		return app, nil
	}

	secret := []byte(settings.Cookie.Secret)
	if len(secret) == 0 {
		logger.Warn("no cookie secret configured, using a random one; saved state will not survive a restart")
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate cookie secret: %w", err)
		}
	}

	codec, err := cookie.NewCodec(secret, clk, settings.Cookie.MaxAge)
	if err != nil {
		return nil, err
	}

	app.CookieCodec = codec
	app.CookieConfig = cookie.Config{
		Name:   settings.Store.Name,
		Path:   "/",
		Domain: settings.Cookie.Domain,
		MaxAge: settings.Cookie.MaxAge,
	}
	return app, nil
}

// NewStore builds the auth store for one HTTP request, persisted in the request's cookie
func (a *App) NewStore(w http.ResponseWriter, r *http.Request) *auth.Store {
	channel := cookie.NewChannel(w, r, a.CookieCodec, a.CookieConfig)
	return a.NewStoreWith(r.Context(), channel)
}

// NewStoreWith builds an auth store over an arbitrary storage channel
func (a *App) NewStoreWith(ctx context.Context, st storage.Storage) *auth.Store {
	return auth.New(ctx, st, a.Random, a.Logger, auth.WithLocale(a.Settings.LocaleTag()))
}

// OpenLocalStorage opens the configured non-HTTP storage backend for the store.
// The returned close function releases any connection held by the backend.
func (a *App) OpenLocalStorage() (storage.Storage, func() error, error) {
	name := a.Settings.Store.Name
	noop := func() error { return nil }

	switch a.Settings.Store.Backend {
	case config.BackendMemory:
		return memory.New(name), noop, nil
	case config.BackendRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = a.Settings.Redis.URL
		redisCfg.PoolSize = a.Settings.Redis.PoolSize
		redisCfg.SnapshotTTL = a.Settings.Redis.SnapshotTTL
		client, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		return client.Store(name), client.Close, nil
	case config.BackendKeyring:
		ring, err := keyringstorage.Open(keyringstorage.Config{
			Backend:      a.Settings.Keyring.Backend,
			FileDir:      a.Settings.Keyring.Dir,
			FilePassword: a.Settings.Keyring.Password,
		})
		if err != nil {
			return nil, nil, err
		}
		return keyringstorage.New(ring, name), noop, nil
	default:
		return nil, nil, errors.New("invalid store backend: must be 'keyring', 'redis' or 'memory'")
	}
}
