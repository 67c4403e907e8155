package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadCookie(t *testing.T) {
	dir := t.TempDir()

	_, ok := LoadCookie(dir)
	assert.False(t, ok)

	require.NoError(t, SaveCookie(dir, "sessionid=abc123"))

	cookie, ok := LoadCookie(dir)
	require.True(t, ok)
	assert.Equal(t, "sessionid=abc123", cookie)
}

func TestIsCookieValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") != "sessionid=good" {
			http.Redirect(w, r, "https://login.example.com/", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.True(t, IsCookieValid(srv.URL, "sessionid=good"))
	assert.False(t, IsCookieValid(srv.URL, "sessionid=bad"))
}

type stubAuthenticator struct {
	cookie string
	err    error
}

func (s stubAuthenticator) Authenticate(dataDir string) (string, error) {
	return s.cookie, s.err
}

func TestAuthenticateFallsBackWhenNoCachedCookie(t *testing.T) {
	dir := t.TempDir()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cookie, err := Authenticate(dir, srv.URL, stubAuthenticator{cookie: "sessionid=fresh"})
	require.NoError(t, err)
	assert.Equal(t, "sessionid=fresh", cookie)

	cached, ok := LoadCookie(dir)
	require.True(t, ok)
	assert.Equal(t, "sessionid=fresh", cached)
}

func TestAuthenticateReusesValidCachedCookie(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveCookie(dir, "sessionid=cached"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cookie, err := Authenticate(dir, srv.URL, stubAuthenticator{err: ErrAuthenticationUnavailable})
	require.NoError(t, err)
	assert.Equal(t, "sessionid=cached", cookie)
}
