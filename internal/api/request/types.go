package request

// SetUsernameRequest is the request body for replacing the username.
// Username is a pointer so an absent key can be told apart from "".
type SetUsernameRequest struct {
	Username *string `json:"username"`
}
