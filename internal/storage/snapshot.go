package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mcoot/authstore/internal/model"
)

// snapshot mirrors model.AuthState with pointer fields so that
// missing or null keys can be told apart from zero values
type snapshot struct {
	Token       *string `json:"token"`
	Username    *string `json:"username"`
	RandomCount *int64  `json:"randomCount"`
	RememberMe  *bool   `json:"rememberMe"`
}

// EncodeSnapshot serializes the full state
func EncodeSnapshot(state *model.AuthState) ([]byte, error) {
	if state == nil {
		return nil, fmt.Errorf("encode snapshot: nil state")
	}
	return json.Marshal(state)
}

// DecodeSnapshot parses a snapshot written by EncodeSnapshot.
// Every field must be present, non-null and of the right type, and
// randomCount must not be negative.
func DecodeSnapshot(data []byte) (*model.AuthState, error) {
	var snap snapshot
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSnapshotMalformed, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", model.ErrSnapshotMalformed)
	}

	switch {
	case snap.Token == nil:
		return nil, fmt.Errorf("%w: missing token", model.ErrSnapshotMalformed)
	case snap.Username == nil:
		return nil, fmt.Errorf("%w: missing username", model.ErrSnapshotMalformed)
	case snap.RandomCount == nil:
		return nil, fmt.Errorf("%w: missing randomCount", model.ErrSnapshotMalformed)
	case snap.RememberMe == nil:
		return nil, fmt.Errorf("%w: missing rememberMe", model.ErrSnapshotMalformed)
	case *snap.RandomCount < 0:
		return nil, fmt.Errorf("%w: negative randomCount", model.ErrSnapshotMalformed)
	}

	return &model.AuthState{
		Token:       *snap.Token,
		Username:    *snap.Username,
		RandomCount: *snap.RandomCount,
		RememberMe:  *snap.RememberMe,
	}, nil
}
