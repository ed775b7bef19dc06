package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/authstore/internal/middleware"
	webmiddleware "github.com/mcoot/authstore/internal/web/middleware"
)

// AuthHandler handles the form posts that mutate the auth store
type AuthHandler struct{}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// SetUsername handles the username form
func (h *AuthHandler) SetUsername(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		webmiddleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if _, ok := r.PostForm["username"]; !ok {
		webmiddleware.SetFlash(w, "error", "Username is required")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	// Stored verbatim, so no trimming here
	username := r.PostForm.Get("username")

	store := middleware.MustGetStore(r.Context())
	store.SetUsername(username)

	if username == "" {
		webmiddleware.SetFlash(w, "info", "Username cleared")
	} else {
		webmiddleware.SetFlash(w, "success", "Username set to "+username)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// IncreaseRandomCount handles the increase button
func (h *AuthHandler) IncreaseRandomCount(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())
	store.IncreaseRandomCount()

	webmiddleware.SetFlash(w, "success", "Count is now "+strconv.FormatInt(store.RandomCount(), 10))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
