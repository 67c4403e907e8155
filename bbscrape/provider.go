package bbscrape

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/BlackboardFS/bbfs/item"
	"github.com/BlackboardFS/bbfs/provider"
)

// Root implements provider.Provider.Root: the synthesized root directory
// containing every enrolled course, mirroring get_root in
// original_source/bbfs-scrape/src/lib.rs.
func (c *Client) Root() (item.Item, error) {
	courses, err := c.getCourses()
	if err != nil {
		return item.Item{}, err
	}
	children := make([]item.Item, len(courses))
	for i, course := range courses {
		children[i] = item.NewCourse(course)
	}
	return item.NewSynthesizedDirectory("root", children), nil
}

// Children implements provider.Provider.Children: the ancestor chain's
// last element determines which request to make, mirroring get_children
// in original_source/bbfs-scrape/src/lib.rs. The root's own child list
// (when ancestors is empty) duplicates Root's course list, exactly as
// the original calls get_courses() again when path is empty.
func (c *Client) Children(ancestors []item.Item) ([]item.Item, error) {
	if len(ancestors) == 0 {
		courses, err := c.getCourses()
		if err != nil {
			return nil, err
		}
		out := make([]item.Item, len(courses))
		for i, course := range courses {
			out[i] = item.NewCourse(course)
		}
		return out, nil
	}

	last := ancestors[len(ancestors)-1]
	switch last.Kind {
	case item.KindCourse:
		body, err := c.getPage(coursePage(last.Course.ID))
		if err != nil {
			return nil, err
		}
		sidebar := parseCourseSidebar(body)
		out := make([]item.Item, len(sidebar))
		for i, ci := range sidebar {
			out[i] = item.NewCourseItem(ci)
		}
		return out, nil

	case item.KindCourseItem:
		ci := last.CourseItem
		if ci.Payload.Kind != item.FolderURL {
			return nil, nil
		}
		body, err := c.getPage(folderPage(ci.Payload.URL))
		if err != nil {
			return nil, err
		}
		children, err := parseFolderContents(body)
		if err != nil {
			return nil, err
		}
		out := make([]item.Item, len(children))
		for i, child := range children {
			out[i] = item.NewCourseItem(child)
		}
		return out, nil

	case item.KindSynthesizedDirectory:
		return append([]item.Item(nil), last.SynthesizedDirectory.Contents...), nil

	default:
		return nil, provider.New(provider.ProtocolParse, "children requested for a non-directory item")
	}
}

// Size implements provider.Provider.Size, mirroring get_course_item_size
// in original_source/bbfs-scrape/src/lib.rs.
func (c *Client) Size(it item.Item) (int64, error) {
	if it.Kind == item.KindSynthesizedFile {
		return int64(len(it.SynthesizedFile.Contents)), nil
	}
	if it.Kind != item.KindCourseItem {
		return 0, provider.New(provider.NotAFile, "size requested for a directory item")
	}
	ci := it.CourseItem

	switch ci.Payload.Kind {
	case item.FileURL:
		resp, err := c.headEffectiveURL(ci.Payload.URL)
		if err != nil {
			return 0, err
		}
		lengthHeader := resp.Header.Get("Content-Length")
		if lengthHeader == "" {
			return 0, provider.New(provider.ProtocolParse, "missing Content-Length header")
		}
		length, err := strconv.ParseInt(lengthHeader, 10, 64)
		if err != nil {
			return 0, provider.Wrap(provider.ProtocolParse, "invalid Content-Length header", err)
		}
		return length, nil
	case item.Link:
		return int64(len(shortcutBody(ci.Payload.URL))), nil
	default:
		return int64(len(ci.Description)), nil
	}
}

// shortcutBody is the size (Size) and the contents (fetchContents) of a
// Link payload item; it mirrors the Linux create_link_file body from
// original_source since §6's formats are otherwise only known to the
// platform package.
func shortcutBody(url string) string {
	return "[Desktop Entry]\nEncoding=UTF-8\nType=Link\nURL=" + BaseURL + url + "\nIcon=text-html\n"
}

// Contents implements provider.Provider.Contents, backed by a
// provider-side cache keyed by CourseItem identity (§4.2: "equal Item
// values... yield equal contents; the engine may memoize" — this cache
// is the provider's own half of that contract, mirroring BbScrapeClient's
// `cache` field in original_source).
func (c *Client) Contents(it item.Item) ([]byte, error) {
	if it.Kind == item.KindSynthesizedFile {
		return it.SynthesizedFile.Contents, nil
	}
	if it.Kind != item.KindCourseItem {
		return nil, provider.New(provider.NotAFile, "contents requested for a directory item")
	}
	ci := it.CourseItem
	key := keyOf(ci)

	c.mu.Lock()
	if cached, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	bytes, err := c.fetchContents(ci)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[key] = bytes
	c.mu.Unlock()
	return bytes, nil
}

func (c *Client) fetchContents(ci item.CourseItem) ([]byte, error) {
	switch ci.Payload.Kind {
	case item.FileURL:
		req, err := http.NewRequest(http.MethodGet, BaseURL+ci.Payload.URL, nil)
		if err != nil {
			return nil, provider.Wrap(provider.ProtocolParse, "building file request", err)
		}
		req.Header.Set("Cookie", c.cookie)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, provider.Wrap(provider.NetworkTransient, "fetching file contents", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, provider.Wrap(provider.NetworkTransient, "reading file contents", err)
		}
		return body, nil
	case item.FolderURL:
		return nil, nil
	case item.Link:
		return []byte(shortcutBody(ci.Payload.URL)), nil
	default:
		return []byte(ci.Description), nil
	}
}

// Kind implements provider.Provider.Kind; it must always agree with
// item.Classify (§4.2's purity promise).
func (c *Client) Kind(it item.Item) item.FSKind { return item.Classify(it) }

// Name implements provider.Provider.Name for the one case
// item.DisplayName cannot answer on its own: a FileUrl CourseItem's
// display name is resolved from the HEAD-redirected effective URL,
// mirroring get_download_file_name in original_source.
func (c *Client) Name(it item.Item) (string, error) {
	if it.Kind != item.KindCourseItem || it.CourseItem.Payload.Kind != item.FileURL {
		name, _ := item.DisplayName(it, "desktop")
		return name, nil
	}

	resp, err := c.headEffectiveURL(it.CourseItem.Payload.URL)
	if err != nil {
		return "", err
	}
	effective := resp.Request.URL.String()
	lastSlash := strings.LastIndex(effective, "/")
	last := effective
	if lastSlash >= 0 {
		last = effective[lastSlash+1:]
	}
	if q := strings.IndexByte(last, '?'); q >= 0 {
		last = last[:q]
	}
	decoded, err := url.PathUnescape(last)
	if err != nil {
		return last, nil
	}
	return decoded, nil
}
