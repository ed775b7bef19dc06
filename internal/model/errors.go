package model

import "errors"

// Common errors used across the application
var (
	// Snapshot errors
	ErrSnapshotNotFound  = errors.New("snapshot not found")
	ErrSnapshotMalformed = errors.New("snapshot malformed")

	// Request errors
	ErrMissingUsername = errors.New("username is required")
)
