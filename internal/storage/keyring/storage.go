// Package keyring persists store snapshots in the OS keychain / credential store,
// or in an encrypted file when no native backend is available.
package keyring

import (
	"context"
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	"github.com/mcoot/authstore/internal/model"
	"github.com/mcoot/authstore/internal/storage"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "authstore"

// Config selects and configures the keyring backend
type Config struct {
	// Backend is a keyring backend type ("file", "keychain", "wincred",
	// "secret-service", "pass"). Empty lets the library pick.
	Backend string
	// FileDir is the directory for the file backend
	FileDir string
	// FilePassword encrypts the file backend
	FilePassword string
}

// Open opens the configured keyring
func Open(cfg Config) (keyring.Keyring, error) {
	kcfg := keyring.Config{
		ServiceName:      ServiceName,
		PassPrefix:       ServiceName,
		WinCredPrefix:    ServiceName,
		FileDir:          cfg.FileDir,
		FilePasswordFunc: keyring.FixedStringPrompt(cfg.FilePassword),
	}
	if cfg.Backend != "" {
		kcfg.AllowedBackends = []keyring.BackendType{keyring.BackendType(cfg.Backend)}
	}

	ring, err := keyring.Open(kcfg)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return ring, nil
}

// Storage keeps a named store's snapshot as a keyring item
type Storage struct {
	ring keyring.Keyring
	key  string
}

// New creates a keyring storage for the named store
func New(ring keyring.Keyring, name string) *Storage {
	return &Storage{ring: ring, key: "snapshot:" + name}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Load(ctx context.Context) (*model.AuthState, error) {
	item, err := s.ring.Get(s.key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, model.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("keyring get: %w", err)
	}
	return storage.DecodeSnapshot(item.Data)
}

func (s *Storage) Save(ctx context.Context, state *model.AuthState) error {
	data, err := storage.EncodeSnapshot(state)
	if err != nil {
		return err
	}

	err = s.ring.Set(keyring.Item{
		Key:         s.key,
		Data:        data,
		Label:       ServiceName + " " + s.key,
		Description: "authstore state snapshot",
	})
	if err != nil {
		return fmt.Errorf("keyring set: %w", err)
	}
	return nil
}
