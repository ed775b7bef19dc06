package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/authstore/internal/services/auth"
)

const storeContextKey contextKey = "auth_store"

// StoreFactory builds the auth store owned by one request
type StoreFactory func(w http.ResponseWriter, r *http.Request) *auth.Store

// AuthStore returns middleware that rehydrates the auth store for each request
// and places it on the request context
func AuthStore(newStore StoreFactory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := newStore(w, r)
			ctx := context.WithValue(r.Context(), storeContextKey, store)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetStore returns the request's auth store, or nil if AuthStore wasn't applied
func GetStore(ctx context.Context) *auth.Store {
	store, _ := ctx.Value(storeContextKey).(*auth.Store)
	return store
}

// MustGetStore returns the request's auth store or panics
func MustGetStore(ctx context.Context) *auth.Store {
	store := GetStore(ctx)
	if store == nil {
		panic("no auth store in context - store middleware not applied?")
	}
	return store
}
