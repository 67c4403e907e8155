// Package bbscrape is a concrete provider.Provider against the real
// Blackboard Ultra LMS: it performs the HTTP requests and HTML/JSON
// parsing that spec.md §1 explicitly keeps out of the core's scope,
// recovered from original_source/bbfs-scrape and original_source/lib-bb
// and translated into the teacher repo's idiom. Nothing in the engine or
// item packages imports this one; it only satisfies provider.Provider.
package bbscrape

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/BlackboardFS/bbfs/item"
	"github.com/BlackboardFS/bbfs/provider"
)

// BaseURL is the fixed origin every request in this package is resolved
// against, matching the literal BB_BASE_URL in original_source.
const BaseURL = "https://learn.uq.edu.au"

// requestTimeout matches "5 seconds is the default" from spec.md §5.
const requestTimeout = 5 * time.Second

// Client is a provider.Provider backed by real HTTP requests against
// Blackboard Ultra, authenticated with a session cookie obtained by the
// (out-of-scope) authentication subsystem.
type Client struct {
	cookie     string
	allCourses bool
	http       *http.Client

	mu    sync.Mutex
	cache map[contentKey][]byte
}

// New constructs a Client. cookie is the opaque session credential
// handed in by the authentication subsystem (see internal/session).
// allCourses mirrors the --all flag: when false, get_courses filters
// out enrollments outside their term window.
func New(cookie string, allCourses bool) *Client {
	return &Client{
		cookie:     cookie,
		allCourses: allCourses,
		http:       &http.Client{Timeout: requestTimeout},
		cache:      make(map[contentKey][]byte),
	}
}

var _ provider.Provider = (*Client)(nil)

// contentKey is a comparable projection of item.CourseItem (which itself
// isn't comparable, since Attachments is a slice) used to key the
// provider-side content cache described in §4.2 ("must be cache-friendly
// (provider may cache)"). Unlike engine.contentKey it leaves out the
// attachments, which fetchContents never reads.
type contentKey struct {
	name        string
	payloadKind item.PayloadKind
	payloadURL  string
	description string
}

func keyOf(ci item.CourseItem) contentKey {
	return contentKey{name: ci.Name, payloadKind: ci.Payload.Kind, payloadURL: ci.Payload.URL, description: ci.Description}
}

// page is the small closed set of Blackboard endpoints this client ever
// requests, mirroring BbPage in original_source/bbfs-scrape/src/client.rs.
type page struct {
	path string
}

func mePage() page { return page{path: "/learn/api/v1/users/me?expand=systemRoles,insRoles"} }

func courseListPage(userID string) page {
	return page{path: "/learn/api/v1/users/" + userID +
		"/memberships?expand=course.effectiveAvailability,course.permissions,courseRole&includeCount=true&limit=10000"}
}

func coursePage(id string) page {
	return page{path: "/webapps/blackboard/execute/announcement?method=search&course_id=" + id}
}

func folderPage(url string) page { return page{path: url} }

func (c *Client) url(p page) string { return BaseURL + p.path }

// getPage issues a GET for p, authenticated with the session cookie, and
// returns the response body as a string.
func (c *Client) getPage(p page) (string, error) {
	req, err := http.NewRequest(http.MethodGet, c.url(p), nil)
	if err != nil {
		return "", provider.Wrap(provider.ProtocolParse, "building request for "+p.path, err)
	}
	req.Header.Set("Cookie", c.cookie)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", provider.Wrap(provider.NetworkTransient, "fetching "+p.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return "", provider.New(provider.NetworkTransient, "retryable status fetching "+p.path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", provider.Wrap(provider.NetworkTransient, "reading body of "+p.path, err)
	}
	return string(body), nil
}

// headEffectiveURL issues a HEAD for path and returns the response,
// whose Request.URL is the resolved URL after redirects, matching
// get_download_file_name's use of response.get_url() in original_source.
func (c *Client) headEffectiveURL(path string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodHead, BaseURL+path, nil)
	if err != nil {
		return nil, provider.Wrap(provider.ProtocolParse, "building HEAD request", err)
	}
	req.Header.Set("Cookie", c.cookie)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, provider.Wrap(provider.NetworkTransient, "HEAD "+path, err)
	}
	defer resp.Body.Close()
	return resp, nil
}
