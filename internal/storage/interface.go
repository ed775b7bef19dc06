package storage

import (
	"context"

	"github.com/mcoot/authstore/internal/model"
)

// DefaultStoreName scopes snapshots of the auth store
const DefaultStoreName = "auth"

// Storage is a persistence channel for a single named store's snapshot
type Storage interface {
	// Load returns the saved snapshot.
	// Returns model.ErrSnapshotNotFound if nothing has been saved and
	// an error wrapping model.ErrSnapshotMalformed if the saved data can't be decoded.
	Load(ctx context.Context) (*model.AuthState, error)

	// Save replaces the saved snapshot
	Save(ctx context.Context, state *model.AuthState) error
}
