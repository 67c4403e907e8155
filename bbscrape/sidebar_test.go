package bbscrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BlackboardFS/bbfs/item"
)

func TestParseCourseSidebar(t *testing.T) {
	html := `<html><body>
		<ul class="courseMenu">
			<li><a href="/webapps/blackboard/content/listContent.jsp?course_id=1&content_id=2">Week 1</a></li>
			<li><a href="/announcement">Announcements</a></li>
		</ul>
	</body></html>`

	items := parseCourseSidebar(html)
	require.Len(t, items, 2)
	assert.Equal(t, "Week 1", items[0].Name)
	assert.Equal(t, item.FolderURL, items[0].Payload.Kind)
	assert.Equal(t, "Announcements", items[1].Name)
	assert.Equal(t, item.Link, items[1].Payload.Kind)
}

func TestParseCourseSidebarMissingMenuReturnsEmpty(t *testing.T) {
	items := parseCourseSidebar(`<html><body><p>no sidebar here</p></body></html>`)
	assert.Empty(t, items)
}

func TestClassifyHref(t *testing.T) {
	cases := []struct {
		href string
		want item.PayloadKind
	}{
		{"/bbcswebdav/xid-123", item.FileURL},
		{"/webapps/blackboard/content/listContent.jsp?course_id=1&content_id=2", item.FolderURL},
		{"/webapps/blackboard/execute/content/file?cmd=view", item.Link},
	}
	for _, tc := range cases {
		got := classifyHref(tc.href)
		assert.Equal(t, tc.want, got.Kind, "href %q", tc.href)
	}
}
