// Package cookie persists store snapshots in a signed HTTP cookie.
//
// The cookie is always written with SameSite=Strict, Secure and HttpOnly.
package cookie

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/authstore/internal/model"
	"github.com/mcoot/authstore/internal/storage"
)

// Config holds cookie attributes
type Config struct {
	// Name is the cookie name, normally the store name
	Name   string
	Path   string
	Domain string
	// MaxAge is the browser-side lifetime, zero makes a session cookie
	MaxAge time.Duration
}

// DefaultConfig returns the cookie attributes for the auth store
func DefaultConfig() Config {
	return Config{
		Name:   storage.DefaultStoreName,
		Path:   "/",
		MaxAge: 7 * 24 * time.Hour,
	}
}

// Channel is the storage channel bound to one request/response pair
type Channel struct {
	w     http.ResponseWriter
	r     *http.Request
	codec *Codec
	cfg   Config
}

// NewChannel binds a cookie channel to a request and its response
func NewChannel(w http.ResponseWriter, r *http.Request, codec *Codec, cfg Config) *Channel {
	return &Channel{w: w, r: r, codec: codec, cfg: cfg}
}

// Ensure Channel implements the interface
var _ storage.Storage = (*Channel)(nil)

func (c *Channel) Load(ctx context.Context) (*model.AuthState, error) {
	ck, err := c.r.Cookie(c.cfg.Name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, model.ErrSnapshotNotFound
		}
		return nil, err
	}
	if ck.Value == "" {
		return nil, model.ErrSnapshotNotFound
	}

	return c.codec.Decode(ck.Value)
}

// Save sets the cookie on the response, replacing any value set earlier in the same response
func (c *Channel) Save(ctx context.Context, state *model.AuthState) error {
	value, err := c.codec.Encode(state)
	if err != nil {
		return err
	}

	ck := &http.Cookie{
		Name:     c.cfg.Name,
		Value:    value,
		Path:     c.cfg.Path,
		Domain:   c.cfg.Domain,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	if c.cfg.MaxAge > 0 {
		ck.MaxAge = int(c.cfg.MaxAge / time.Second)
	}

	c.dropPending()
	http.SetCookie(c.w, ck)
	return nil
}

// dropPending removes Set-Cookie headers for this cookie added earlier in the response
func (c *Channel) dropPending() {
	header := c.w.Header()
	existing := header.Values("Set-Cookie")
	if len(existing) == 0 {
		return
	}

	prefix := c.cfg.Name + "="
	kept := existing[:0:0]
	for _, v := range existing {
		if !strings.HasPrefix(v, prefix) {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		header.Del("Set-Cookie")
		return
	}
	header["Set-Cookie"] = kept
}
