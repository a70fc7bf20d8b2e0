package ydb

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginFailureAndRateLimit(t *testing.T) {
	s := newTestSite(t)
	for i := 0; i < 5; i++ {
		resp, doc := s.post("/login", url.Values{"email": {"ghost@ydb.test"}, "password": {"wrong"}})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Failed to log in", strings.TrimSpace(doc.Find(".error").Text()))
		assert.Equal(t, "ghost@ydb.test", doc.Find(`input[name="email"]`).AttrOr("value", ""))
	}
	resp, _ := s.post("/login", url.Values{"email": {"ghost@ydb.test"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestLoginThenLogout(t *testing.T) {
	s := newTestSite(t)
	s.signIn(adminEmail)

	_, doc := s.get("/")
	assert.Equal(t, 1, doc.Find(`a[href="/admin"]`).Length())

	resp, _ := s.get("/login")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = s.post("/logout", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp, _ = s.get("/admin")
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestSignupDisabledByDefault(t *testing.T) {
	s := newTestSite(t)
	_, doc := s.get("/signup")
	assert.Equal(t, "Registration Disabled", strings.TrimSpace(doc.Find("h1").Text()))

	resp, _ := s.post("/signup", url.Values{"email": {"new@ydb.test"}, "password": {password}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSignupWhenAllowed(t *testing.T) {
	s := newTestSite(t, func(c *SiteConfig) { c.AllowSignup = true })

	resp, doc := s.post("/signup", url.Values{"email": {"new@ydb.test"}, "password": {"123"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, doc.Find(".error").Text(), "at least 6")

	resp, _ = s.post("/signup", url.Values{"email": {"new@ydb.test"}, "password": {password}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp, _ = s.get("/create-blog")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	s.post("/logout", nil)
	resp, doc = s.post("/signup", url.Values{"email": {"NEW@ydb.test"}, "password": {password}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, doc.Find(".error").Text(), "already exists")
}

func TestUndecodableSessionCookieIsReplaced(t *testing.T) {
	s := newTestSite(t)
	s.csrf()

	s.setCookie(sessionName, "signed-with-old-secret")
	s.signIn(adminEmail)
	_, doc := s.get("/")
	assert.Equal(t, 1, doc.Find(`a[href="/admin"]`).Length())

	s.setCookie(sessionName, "signed-with-old-secret")
	resp, _ := s.post("/newsletter", url.Values{"email": {"reader@example.com"}, "next": {"/blog"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, doc = s.get("/blog")
	assert.Contains(t, toastTitles(doc), "Subscribed!")
}
