package bbscrape

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/BlackboardFS/bbfs/item"
)

// folderHrefPattern and fileHrefPattern classify a raw href the same way
// original_source/bbfs-scrape/src/{lib.rs,course_main_data.rs} does, with
// the same two regexes.
var (
	folderHrefPattern = regexp.MustCompile(`/webapps/blackboard/content/listContent\.jsp\?course_id=.*&content_id=.*`)
	fileHrefPattern   = regexp.MustCompile(`.*/bbcswebdav/.*`)
)

// classifySidebarHref implements CourseItemContent::from_url for a sidebar
// entry, which only ever distinguishes folder vs. link (a sidebar entry
// is never itself a direct file download).
func classifySidebarHref(href string) item.Payload {
	if folderHrefPattern.MatchString(href) {
		return item.Payload{Kind: item.FolderURL, URL: href}
	}
	return item.Payload{Kind: item.Link, URL: href}
}

// classifyHref implements CourseItemContent::from_url in full, used for
// folder-listing hrefs which may resolve to any of the three payload
// kinds.
func classifyHref(href string) item.Payload {
	if fileHrefPattern.MatchString(href) {
		return item.Payload{Kind: item.FileURL, URL: href}
	}
	if folderHrefPattern.MatchString(href) {
		return item.Payload{Kind: item.FolderURL, URL: href}
	}
	return item.Payload{Kind: item.Link, URL: href}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// findFirst walks the tree rooted at n depth-first and returns the first
// element matching pred.
func findFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// findAll walks the tree rooted at n depth-first and returns every
// element matching pred.
func findAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	if pred(n) {
		out = append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, findAll(c, pred)...)
	}
	return out
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// parseCourseSidebar recovers the flat list of top-level sidebar entries
// from a course's announcement page, mirroring
// original_source/bbfs-scrape/src/course_main_data.rs. Per spec.md §9
// Open Question (c), a sidebar that fails to parse (no courseMenu
// element found) returns an empty slice rather than an error — this
// reproduces the original's `.unwrap_or_default()`.
func parseCourseSidebar(body string) []item.CourseItem {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil
	}

	menu := findFirst(doc, func(n *html.Node) bool { return n.Type == html.ElementNode && hasClass(n, "courseMenu") })
	if menu == nil {
		return nil
	}

	anchors := findAll(menu, func(n *html.Node) bool { return isElement(n, "a") })
	items := make([]item.CourseItem, 0, len(anchors))
	for _, a := range anchors {
		href, ok := attr(a, "href")
		if !ok {
			continue
		}
		items = append(items, item.CourseItem{
			Name:    strings.TrimSpace(textOf(a)),
			Payload: classifySidebarHref(href),
		})
	}
	return items
}
