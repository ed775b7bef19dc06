package response

import (
	"github.com/mcoot/authstore/internal/services/auth"
)

// HealthResponse is the response for the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}

// StateResponse is the auth store's fields plus its derived values
type StateResponse struct {
	Token       string `json:"token"`
	Username    string `json:"username"`
	RandomCount int64  `json:"randomCount"`
	RememberMe  bool   `json:"rememberMe"`
	// ModUsername is null when the username strips to nothing
	ModUsername       *string `json:"modUsername"`
	DoubleRandomCount int64   `json:"doubleRandomCount"`
}

// StateResponseFromStore renders a store; ModUsername is drawn fresh
func StateResponseFromStore(store *auth.Store) StateResponse {
	state := store.Snapshot()
	resp := StateResponse{
		Token:             state.Token,
		Username:          state.Username,
		RandomCount:       state.RandomCount,
		RememberMe:        state.RememberMe,
		DoubleRandomCount: store.DoubleRandomCount(),
	}
	if mod, ok := store.ModUsername(); ok {
		resp.ModUsername = &mod
	}
	return resp
}
