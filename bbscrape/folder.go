package bbscrape

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/BlackboardFS/bbfs/item"
	"github.com/BlackboardFS/bbfs/provider"
)

var (
	scriptTagPattern = regexp.MustCompile(`(?s)<script.*?>.*?</script>`)
	brPairPattern    = regexp.MustCompile(`<br></br>`)
	brPattern        = regexp.MustCompile(`<br/?>`)
)

// parseFolderContents recovers the list of entries inside a Blackboard
// content folder, mirroring
// original_source/bbfs-scrape/src/list_content_data.rs: each <li> under
// the contentList has an <h3> title (whose 4th child may carry an href),
// an optional div.vtbegenerated description, and an optional
// div.attachments list of attachment links.
func parseFolderContents(body string) ([]item.CourseItem, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, provider.Wrap(provider.ProtocolParse, "parsing folder contents", err)
	}

	list := findFirst(doc, func(n *html.Node) bool {
		return isElement(n, "ul") && hasClass(n, "contentList")
	})
	if list == nil {
		return nil, provider.New(provider.ProtocolParse, "no contentList in folder page")
	}

	var items []item.CourseItem
	for li := list.FirstChild; li != nil; li = li.NextSibling {
		if !isElement(li, "li") {
			continue
		}
		ci, ok := parseFolderItem(li)
		if ok {
			items = append(items, ci)
		}
	}
	return items, nil
}

func parseFolderItem(li *html.Node) (item.CourseItem, bool) {
	h3 := findFirst(li, func(n *html.Node) bool { return isElement(n, "h3") })
	if h3 == nil {
		return item.CourseItem{}, false
	}

	var titleNode *html.Node
	i := 0
	for c := h3.FirstChild; c != nil; c = c.NextSibling {
		if i == 3 {
			titleNode = c
			break
		}
		i++
	}
	if titleNode == nil {
		return item.CourseItem{}, false
	}

	title := sanitizeSlash(strings.TrimSpace(textOf(titleNode)))
	href, hasHref := attr(titleNode, "href")

	attachments := parseAttachments(li)
	description := parseDescription(li)

	var payload item.Payload
	switch {
	case len(attachments) == 1 && !hasHref:
		payload = classifyHref(attachments[0])
	case hasHref:
		payload = classifyHref(href)
	}

	return item.CourseItem{
		Name:        title,
		Payload:     payload,
		Description: description,
		Attachments: attachments,
	}, true
}

// sanitizeSlash mirrors the original's own title-local '/' -> '-'
// replacement (done before the engine's general Sanitize ever runs).
func sanitizeSlash(name string) string {
	return strings.ReplaceAll(name, "/", "-")
}

func parseAttachments(li *html.Node) []string {
	var out []string
	for _, div := range findAll(li, func(n *html.Node) bool { return n.Type == html.ElementNode && hasClass(n, "attachments") }) {
		for _, entry := range findAll(div, func(n *html.Node) bool { return isElement(n, "li") }) {
			a := findFirst(entry, func(n *html.Node) bool { return isElement(n, "a") })
			if a == nil {
				continue
			}
			href, ok := attr(a, "href")
			if !ok || strings.HasPrefix(href, "#") {
				continue
			}
			out = append(out, href)
		}
	}
	return out
}

func parseDescription(li *html.Node) string {
	div := findFirst(li, func(n *html.Node) bool {
		return n.Type == html.ElementNode && hasClass(n, "vtbegenerated")
	})
	if div == nil {
		return ""
	}

	var raw strings.Builder
	if err := html.Render(&raw, div); err != nil {
		return ""
	}
	text := raw.String()
	text = scriptTagPattern.ReplaceAllString(text, "")
	text = brPairPattern.ReplaceAllString(text, "\n")
	text = brPattern.ReplaceAllString(text, "\n")

	stripped, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(textOf(stripped))
}
