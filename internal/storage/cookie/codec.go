package cookie

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"

	"github.com/mcoot/authstore/internal/dependencies/clock"
	"github.com/mcoot/authstore/internal/model"
	"github.com/mcoot/authstore/internal/storage"
)

const (
	issuer  = "authstore"
	keyInfo = "authstore cookie signing v1"

	// MaxCookieSize is the largest cookie value browsers reliably accept
	MaxCookieSize = 4096
)

// ErrCookieTooLarge is returned by Save when the signed snapshot would be dropped by the browser
var ErrCookieTooLarge = errors.New("cookie too large")

type claims struct {
	State json.RawMessage `json:"st"`
	jwt.RegisteredClaims
}

// Codec signs snapshots into cookie values and verifies them on the way back
type Codec struct {
	key    []byte
	clock  clock.Clock
	maxAge time.Duration
}

// NewCodec derives a signing key from secret. maxAge bounds how long a
// signed snapshot stays valid, zero means no expiry.
func NewCodec(secret []byte, clk clock.Clock, maxAge time.Duration) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("cookie secret is required")
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive cookie key: %w", err)
	}

	return &Codec{
		key:    key,
		clock:  clk,
		maxAge: maxAge,
	}, nil
}

// Encode returns the signed cookie value for state
func (c *Codec) Encode(state *model.AuthState) (string, error) {
	data, err := storage.EncodeSnapshot(state)
	if err != nil {
		return "", err
	}

	now := c.clock.Now()
	rc := jwt.RegisteredClaims{
		Issuer:   issuer,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if c.maxAge > 0 {
		rc.ExpiresAt = jwt.NewNumericDate(now.Add(c.maxAge))
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{State: data, RegisteredClaims: rc})
	value, err := tok.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign snapshot: %w", err)
	}
	if len(value) > MaxCookieSize {
		return "", fmt.Errorf("%w: %d bytes", ErrCookieTooLarge, len(value))
	}
	return value, nil
}

// Decode verifies a cookie value and returns the snapshot it carries.
// Bad signatures, expired values and undecodable snapshots are all malformed.
func (c *Codec) Decode(value string) (*model.AuthState, error) {
	var cl claims
	_, err := jwt.ParseWithClaims(value, &cl, func(token *jwt.Token) (any, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(c.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSnapshotMalformed, err)
	}

	return storage.DecodeSnapshot(cl.State)
}
