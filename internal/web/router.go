package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/authstore/internal/middleware"
	"github.com/mcoot/authstore/internal/web/handler"
	webmiddleware "github.com/mcoot/authstore/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger   *slog.Logger
	NewStore middleware.StoreFactory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := webmiddleware.Logging(cfg.Logger)
	recoveryMiddleware := webmiddleware.Recovery(cfg.Logger)
	flashMiddleware := webmiddleware.Flash()
	storeMiddleware := webmiddleware.AuthStore(cfg.NewStore)

	// Apply global middleware to all routes
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(flashMiddleware)
	r.Use(storeMiddleware)

	// Create handlers
	homeHandler := handler.NewHomeHandler()
	authHandler := handler.NewAuthHandler()

	r.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	r.HandleFunc("/username", authHandler.SetUsername).Methods(http.MethodPost)
	r.HandleFunc("/random-count/increase", authHandler.IncreaseRandomCount).Methods(http.MethodPost)

	return r
}
