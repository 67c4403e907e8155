package session

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// Authenticator is the capability boundary onto the out-of-scope
// authentication subsystem (spec.md §1): something that can drive an
// interactive or headless login flow and hand back an opaque session
// credential. original_source/cookie-monster (a wry webview) and
// original_source/headless-cookie-monster (a fantoccini WebDriver
// session) are the two concrete flows this stands in for; neither is
// part of the core and neither is reimplemented here.
type Authenticator interface {
	Authenticate(dataDir string) (cookie string, err error)
}

// ErrAuthenticationUnavailable is returned by the stub authenticators
// below: a real build wires in a webview or WebDriver-backed
// implementation, which this module deliberately does not provide.
var ErrAuthenticationUnavailable = errors.New("session: no interactive authentication flow is wired into this build")

// WebViewAuthenticator stands in for cookie-monster's webview login
// flow (§6 "--headless" selects the alternative below instead).
type WebViewAuthenticator struct{}

func (WebViewAuthenticator) Authenticate(dataDir string) (string, error) {
	return "", ErrAuthenticationUnavailable
}

// HeadlessAuthenticator stands in for headless-cookie-monster's
// WebDriver-backed login flow, selected by the --headless flag.
type HeadlessAuthenticator struct{}

func (HeadlessAuthenticator) Authenticate(dataDir string) (string, error) {
	return "", ErrAuthenticationUnavailable
}

// probeTimeout bounds the liveness check in IsCookieValid; it is not the
// provider's own 5s request timeout, since this call only ever issues
// one small redirecting GET.
const probeTimeout = 10 * time.Second

// IsCookieValid mirrors cookies_valid in original_source/cli/src/main.rs:
// a cached or freshly authenticated cookie is considered good if a GET
// of the LMS root, sent with that cookie, is not bounced back to a login
// page outside the LMS origin.
func IsCookieValid(baseURL, cookie string) bool {
	client := &http.Client{Timeout: probeTimeout}
	req, err := http.NewRequest(http.MethodGet, baseURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Cookie", cookie)

	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return strings.HasPrefix(resp.Request.URL.String(), baseURL)
}

// Authenticate implements the flow in original_source/bbfs-cli's own
// `authenticate`: try the cached cookie first, falling back to the given
// Authenticator only if it is missing or no longer valid, then cache
// whatever the Authenticator returns.
func Authenticate(dataDir, baseURL string, auth Authenticator) (string, error) {
	if cookie, ok := LoadCookie(dataDir); ok && IsCookieValid(baseURL, cookie) {
		return cookie, nil
	}

	cookie, err := auth.Authenticate(dataDir)
	if err != nil {
		return "", err
	}

	_ = SaveCookie(dataDir, cookie)
	return cookie, nil
}
