package model

// AuthState is the persisted state of the auth store
type AuthState struct {
	Token       string `json:"token"`       // opaque credential, "" when unauthenticated
	Username    string `json:"username"`    // raw display name
	RandomCount int64  `json:"randomCount"` // only increased by the store's action
	RememberMe  bool   `json:"rememberMe"`
}

// DefaultAuthState returns the state of a freshly constructed store
func DefaultAuthState() AuthState {
	return AuthState{
		Token:       "",
		Username:    "",
		RandomCount: 0,
		RememberMe:  false,
	}
}
