package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/authstore/internal/api"
	"github.com/mcoot/authstore/internal/api/apierr"
	"github.com/mcoot/authstore/internal/api/response"
	"github.com/mcoot/authstore/internal/config"
	"github.com/mcoot/authstore/internal/dependencies/mocks"
	"github.com/mcoot/authstore/internal/factory"
)

// testServer carries the auth cookie between requests like a browser would
type testServer struct {
	handler http.Handler
	random  *mocks.MockRandom
	cookie  *http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	settings := config.Default()
	settings.Cookie.Secret = "api-test-secret"
	rnd := mocks.NewMockRandom()

	app, err := factory.New(factory.Config{Settings: settings, Logger: logger, Random: rnd})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		NewStore: app.NewStore,
	})

	return &testServer{handler: router, random: rnd}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reqBody = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if ts.cookie != nil {
		req.AddCookie(ts.cookie)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	for _, c := range rr.Result().Cookies() {
		if c.Name == "auth" {
			ts.cookie = c
		}
	}
	return rr
}

func decodeState(t *testing.T, rr *httptest.ResponseRecorder) response.StateResponse {
	t.Helper()
	var resp response.StateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.ErrorResponse {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestGetDefaults(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/auth", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeState(t, rr)
	assert.Equal(t, "", resp.Token)
	assert.Equal(t, "", resp.Username)
	assert.Equal(t, int64(0), resp.RandomCount)
	assert.False(t, resp.RememberMe)
	assert.Nil(t, resp.ModUsername)
	assert.Equal(t, int64(0), resp.DoubleRandomCount)

	// Reads don't write a cookie
	assert.Empty(t, rr.Result().Cookies())
	assert.Contains(t, rr.Body.String(), `"modUsername":null`)
}

func TestSetUsername(t *testing.T) {
	ts := newTestServer(t)
	ts.random.QueueIntn(41)

	rr := ts.request(http.MethodPut, "/api/v1/auth/username", map[string]string{"username": "Alice Smith"})
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeState(t, rr)
	assert.Equal(t, "Alice Smith", resp.Username)
	require.NotNil(t, resp.ModUsername)
	assert.Equal(t, "alice_smith42", *resp.ModUsername)
	assert.Equal(t, []int{1000}, ts.random.Calls)
}

func TestSetUsernameCookieAttributes(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPut, "/api/v1/auth/username", map[string]string{"username": "bob"})
	require.Equal(t, http.StatusOK, rr.Code)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "auth", c.Name)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
	assert.NotEmpty(t, c.Value)
}

func TestStatePersistsAcrossRequests(t *testing.T) {
	ts := newTestServer(t)

	ts.request(http.MethodPut, "/api/v1/auth/username", map[string]string{"username": "Carol"})
	ts.request(http.MethodPost, "/api/v1/auth/random-count/increase", nil)
	ts.request(http.MethodPost, "/api/v1/auth/random-count/increase", nil)
	rr := ts.request(http.MethodPost, "/api/v1/auth/random-count/increase", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeState(t, rr)
	assert.Equal(t, int64(3), resp.RandomCount)
	assert.Equal(t, int64(6), resp.DoubleRandomCount)
	assert.Equal(t, "Carol", resp.Username)

	// A fresh read sees the same state
	rr = ts.request(http.MethodGet, "/api/v1/auth", nil)
	resp = decodeState(t, rr)
	assert.Equal(t, int64(3), resp.RandomCount)
	assert.Equal(t, "Carol", resp.Username)
}

func TestModUsernameIsFreshPerRead(t *testing.T) {
	ts := newTestServer(t)
	ts.request(http.MethodPut, "/api/v1/auth/username", map[string]string{"username": "dave"})

	ts.random.Reset()
	ts.random.QueueIntn(0, 999)

	first := decodeState(t, ts.request(http.MethodGet, "/api/v1/auth", nil))
	second := decodeState(t, ts.request(http.MethodGet, "/api/v1/auth", nil))

	require.NotNil(t, first.ModUsername)
	require.NotNil(t, second.ModUsername)
	assert.Equal(t, "dave1", *first.ModUsername)
	assert.Equal(t, "dave1000", *second.ModUsername)
}

func TestSetUsernameToEmpty(t *testing.T) {
	ts := newTestServer(t)
	ts.request(http.MethodPut, "/api/v1/auth/username", map[string]string{"username": "erin"})

	rr := ts.request(http.MethodPut, "/api/v1/auth/username", map[string]string{"username": ""})
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeState(t, rr)
	assert.Equal(t, "", resp.Username)
	assert.Nil(t, resp.ModUsername)
}

func TestSetUsernameInvalidBody(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPut, "/api/v1/auth/username", "{not json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Error.Code)
	assert.Empty(t, rr.Result().Cookies())
}

func TestSetUsernameMissingField(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPut, "/api/v1/auth/username", map[string]string{"name": "frank"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	resp := decodeError(t, rr)
	assert.Equal(t, apierr.CodeInvalidRequest, resp.Error.Code)
	assert.Equal(t, "username is required", resp.Error.Message)
}

func TestTamperedCookieFallsBackToDefaults(t *testing.T) {
	ts := newTestServer(t)
	ts.request(http.MethodPut, "/api/v1/auth/username", map[string]string{"username": "grace"})
	require.NotNil(t, ts.cookie)

	tampered := *ts.cookie
	tampered.Value = strings.ToUpper(tampered.Value[:10]) + tampered.Value[10:] + "x"
	ts.cookie = &tampered

	rr := ts.request(http.MethodGet, "/api/v1/auth", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "", decodeState(t, rr).Username)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeNotFound, decodeError(t, rr).Error.Code)
}

func TestWrongMethod(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodDelete, "/api/v1/auth", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, apierr.CodeMethodNotAllowed, decodeError(t, rr).Error.Code)
}

func TestWrongMethodOnNestedRoute(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/auth/username", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, apierr.CodeMethodNotAllowed, decodeError(t, rr).Error.Code)
	assert.Empty(t, rr.Result().Cookies())
}

func TestStateResponsesAreNotCached(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/auth", nil)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
}

func TestRequestIDHeader(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/auth", nil)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}
