package memory

import (
	"context"
	"sync"

	"github.com/mcoot/authstore/internal/model"
	"github.com/mcoot/authstore/internal/storage"
)

// Backend is an in-memory snapshot store shared by any number of named stores
type Backend struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

// NewBackend creates an empty in-memory backend
func NewBackend() *Backend {
	return &Backend{
		snapshots: make(map[string][]byte),
	}
}

// Store returns the storage channel for the named store
func (b *Backend) Store(name string) *Storage {
	return &Storage{backend: b, name: name}
}

// Put writes raw snapshot bytes for a store (for seeding corrupted data in tests)
func (b *Backend) Put(name string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snapshots[name] = append([]byte(nil), data...)
}

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	backend *Backend
	name    string
}

// New creates an in-memory storage for the named store with its own backend
func New(name string) *Storage {
	return NewBackend().Store(name)
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Load(ctx context.Context) (*model.AuthState, error) {
	s.backend.mu.RLock()
	data, ok := s.backend.snapshots[s.name]
	s.backend.mu.RUnlock()

	if !ok {
		return nil, model.ErrSnapshotNotFound
	}
	return storage.DecodeSnapshot(data)
}

func (s *Storage) Save(ctx context.Context, state *model.AuthState) error {
	data, err := storage.EncodeSnapshot(state)
	if err != nil {
		return err
	}

	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	s.backend.snapshots[s.name] = data
	return nil
}
