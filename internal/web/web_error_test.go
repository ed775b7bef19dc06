package web_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetUsernameMissingField(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/username", url.Values{"name": {"dave"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	_, saved := ts.cookies.cookies["auth"]
	assert.False(t, saved)

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash[data-flash-type='error']", "Username is required")
}

func TestTamperedCookieRendersDefaults(t *testing.T) {
	ts := newWebTestServer(t)
	ts.setUsername("erin")

	ts.cookies.cookies["auth"].Value = "not-a-token"

	rr := ts.get("/")
	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assert.Equal(t, "", doc.Find("#username").Text())
}

func TestUnknownPage(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/lobby/ABC123")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetOnActionRoute(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/username")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
