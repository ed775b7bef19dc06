package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/authstore/internal/api/apierr"
	"github.com/mcoot/authstore/internal/api/handler"
	apimiddleware "github.com/mcoot/authstore/internal/api/middleware"
	"github.com/mcoot/authstore/internal/api/response"
	"github.com/mcoot/authstore/internal/middleware"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger *slog.Logger
	// NewStore builds the per-request auth store
	NewStore middleware.StoreFactory
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError())
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewMethodNotAllowedError())
	})

	// Create handlers
	authHandler := handler.NewAuthHandler()

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)
	storeMiddleware := middleware.AuthStore(cfg.NewStore)

	// Routes hang off the root router so method mismatches reach MethodNotAllowedHandler
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// Auth store routes
	r.Handle("/api/v1/auth", storeMiddleware(http.HandlerFunc(authHandler.Get))).Methods(http.MethodGet)
	r.Handle("/api/v1/auth/username", storeMiddleware(http.HandlerFunc(authHandler.SetUsername))).Methods(http.MethodPut)
	r.Handle("/api/v1/auth/random-count/increase", storeMiddleware(http.HandlerFunc(authHandler.IncreaseRandomCount))).Methods(http.MethodPost)

	// Health check endpoint
	r.HandleFunc("/api/v1/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}
