// Package auth holds the auth store: a token, a username, a counter and a
// remember-me flag, persisted through a storage channel after every action.
//
// A Store has a single owner and is not safe for concurrent use. The web and
// API layers build one per request, the CLI one per invocation.
package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"

	"golang.org/x/text/language"

	"github.com/mcoot/authstore/internal/dependencies/random"
	"github.com/mcoot/authstore/internal/model"
	"github.com/mcoot/authstore/internal/storage"
)

// Observer is notified with the new state after each action
type Observer func(state model.AuthState)

// Option configures a Store
type Option func(*Store)

// WithLocale sets the locale used to lower-case the username in ModUsername
func WithLocale(tag language.Tag) Option {
	return func(s *Store) {
		s.locale = tag
	}
}

// WithObserver registers an observer before the snapshot is loaded
func WithObserver(o Observer) Option {
	return func(s *Store) {
		s.observers = append(s.observers, o)
	}
}

// Store is the auth state container
type Store struct {
	ctx     context.Context
	storage storage.Storage
	random  random.Random
	logger  *slog.Logger
	locale  language.Tag

	state     model.AuthState
	observers []Observer
}

// New creates a Store and rehydrates it from st. A missing or unreadable
// snapshot leaves the default state in place; the failure is only logged.
// ctx is used for every load and save the store makes.
func New(ctx context.Context, st storage.Storage, rnd random.Random, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	s := &Store{
		ctx:     ctx,
		storage: st,
		random:  rnd,
		logger:  logger,
		locale:  language.Und,
		state:   model.DefaultAuthState(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.load()
	return s
}

func (s *Store) load() {
	snap, err := s.storage.Load(s.ctx)
	switch {
	case err == nil:
		s.state = *snap
	case errors.Is(err, model.ErrSnapshotNotFound):
		s.logger.Debug("no saved auth state, using defaults")
	default:
		s.logger.Warn("could not load auth state, using defaults", slog.String("error", err.Error()))
	}
}

// Token returns the opaque credential, "" when unauthenticated
func (s *Store) Token() string {
	return s.state.Token
}

// Username returns the raw username
func (s *Store) Username() string {
	return s.state.Username
}

// RandomCount returns the counter
func (s *Store) RandomCount() int64 {
	return s.state.RandomCount
}

// RememberMe returns the remember-me flag
func (s *Store) RememberMe() bool {
	return s.state.RememberMe
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() model.AuthState {
	return s.state
}

// ModUsername derives a display handle from the username.
// Every call draws a new random suffix; see the package-level ModUsername.
func (s *Store) ModUsername() (string, bool) {
	return ModUsername(s.state.Username, s.random, s.locale)
}

// DoubleRandomCount returns twice the counter
func (s *Store) DoubleRandomCount() int64 {
	return DoubleRandomCount(s.state.RandomCount)
}

// SetUsername replaces the username verbatim
func (s *Store) SetUsername(value string) {
	s.state.Username = value
	s.changed()
}

// IncreaseRandomCount adds one to the counter, saturating at math.MaxInt64
func (s *Store) IncreaseRandomCount() {
	if s.state.RandomCount < math.MaxInt64 {
		s.state.RandomCount++
	}
	s.changed()
}

// Subscribe registers an observer and returns a function that removes it
func (s *Store) Subscribe(o Observer) func() {
	s.observers = append(s.observers, o)
	idx := len(s.observers) - 1
	return func() {
		if idx < len(s.observers) {
			s.observers[idx] = nil
		}
	}
}

// changed persists the new state and notifies observers.
// Save failures are logged and the in-memory state is kept.
func (s *Store) changed() {
	snap := s.state
	if err := s.storage.Save(s.ctx, &snap); err != nil {
		s.logger.Warn("could not save auth state", slog.String("error", err.Error()))
	}

	for _, o := range s.observers {
		if o != nil {
			o(s.state)
		}
	}
}
