package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/authstore/internal/middleware"
)

// Logging creates logging middleware for the web interface
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger)
}

// AuthStore places the request's auth store on the context
func AuthStore(newStore middleware.StoreFactory) func(http.Handler) http.Handler {
	return middleware.AuthStore(newStore)
}
