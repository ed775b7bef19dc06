package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mcoot/authstore/internal/services/auth"
)

// Output handles formatting output based on the configured format
type Output struct {
	w      io.Writer
	format string
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(w io.Writer, format string) *Output {
	return &Output{w: w, format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case StateResult:
		o.printState(v)
	case ModUsernameResult:
		o.printModUsername(v)
	case DoubleResult:
		fmt.Fprintf(o.w, "%d\n", v.DoubleRandomCount)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// StateResult mirrors the API's state view
type StateResult struct {
	Token             string  `json:"token"`
	Username          string  `json:"username"`
	RandomCount       int64   `json:"randomCount"`
	RememberMe        bool    `json:"rememberMe"`
	ModUsername       *string `json:"modUsername"`
	DoubleRandomCount int64   `json:"doubleRandomCount"`
}

// ModUsernameResult is the output of mod-username
type ModUsernameResult struct {
	ModUsername *string `json:"modUsername"`
}

// DoubleResult is the output of double
type DoubleResult struct {
	DoubleRandomCount int64 `json:"doubleRandomCount"`
}

func stateResultFromStore(store *auth.Store) StateResult {
	state := store.Snapshot()
	result := StateResult{
		Token:             state.Token,
		Username:          state.Username,
		RandomCount:       state.RandomCount,
		RememberMe:        state.RememberMe,
		DoubleRandomCount: store.DoubleRandomCount(),
	}
	if mod, ok := store.ModUsername(); ok {
		result.ModUsername = &mod
	}
	return result
}

func (o *Output) printState(s StateResult) {
	username := s.Username
	if username == "" {
		username = "(none)"
	}
	fmt.Fprintf(o.w, "Username: %s\n", username)
	if s.ModUsername != nil {
		fmt.Fprintf(o.w, "Handle: %s\n", *s.ModUsername)
	} else {
		fmt.Fprintln(o.w, "Handle: anonymous")
	}
	fmt.Fprintf(o.w, "Random count: %d\n", s.RandomCount)
	fmt.Fprintf(o.w, "Doubled: %d\n", s.DoubleRandomCount)
	fmt.Fprintf(o.w, "Remember me: %t\n", s.RememberMe)
	if s.Token != "" {
		fmt.Fprintln(o.w, "Token: set")
	}
}

func (o *Output) printModUsername(m ModUsernameResult) {
	if m.ModUsername == nil {
		fmt.Fprintln(o.w, "anonymous")
		return
	}
	fmt.Fprintln(o.w, *m.ModUsername)
}
