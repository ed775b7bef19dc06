package handler

import (
	"net/http"

	"github.com/mcoot/authstore/internal/middleware"
	webmiddleware "github.com/mcoot/authstore/internal/web/middleware"
	"github.com/mcoot/authstore/internal/web/templates/layout"
	"github.com/mcoot/authstore/internal/web/templates/pages"
)

// HomeHandler handles the home page
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Home renders the current auth state
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())
	flash := webmiddleware.GetFlash(r.Context())

	state := store.Snapshot()
	data := pages.HomeData{
		PageData: layout.PageData{
			Title: "Home",
			Flash: flash,
		},
		Username:          state.Username,
		RandomCount:       state.RandomCount,
		RememberMe:        state.RememberMe,
		DoubleRandomCount: store.DoubleRandomCount(),
	}
	data.ModUsername, data.HasModUsername = store.ModUsername()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Home(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
