package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/authstore/internal/api/request"
	"github.com/mcoot/authstore/internal/api/response"
	"github.com/mcoot/authstore/internal/middleware"
	"github.com/mcoot/authstore/internal/model"
)

// maxBodyBytes bounds request bodies; a username can't exceed a cookie anyway
const maxBodyBytes = 8 << 10

// AuthHandler handles the auth store endpoints
type AuthHandler struct{}

// NewAuthHandler creates a new auth handler
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Get handles GET /api/v1/auth
func (h *AuthHandler) Get(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())
	response.JSON(w, http.StatusOK, response.StateResponseFromStore(store))
}

// SetUsername handles PUT /api/v1/auth/username
func (h *AuthHandler) SetUsername(w http.ResponseWriter, r *http.Request) {
	var req request.SetUsernameRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Username == nil {
		WriteError(w, model.ErrMissingUsername)
		return
	}

	store := middleware.MustGetStore(r.Context())
	store.SetUsername(*req.Username)

	response.JSON(w, http.StatusOK, response.StateResponseFromStore(store))
}

// IncreaseRandomCount handles POST /api/v1/auth/random-count/increase
func (h *AuthHandler) IncreaseRandomCount(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())
	store.IncreaseRandomCount()

	response.JSON(w, http.StatusOK, response.StateResponseFromStore(store))
}
