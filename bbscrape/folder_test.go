package bbscrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BlackboardFS/bbfs/item"
	"github.com/BlackboardFS/bbfs/provider"
)

func TestParseFolderContents(t *testing.T) {
	body := `<html><body><ul class="contentList"><li>` +
		`<h3><img/><span></span><span></span><a href="/bbcswebdav/xid-1">Reading</a></h3>` +
		`<div class="vtbegenerated">Read <br>this</div>` +
		`<div class="attachments"><ul><li><a href="/bbcswebdav/xid-2">extra.pdf</a></li></ul></div>` +
		`</li></ul></body></html>`

	items, err := parseFolderContents(body)
	require.NoError(t, err)
	require.Len(t, items, 1)

	got := items[0]
	assert.Equal(t, "Reading", got.Name)
	assert.Equal(t, item.FileURL, got.Payload.Kind)
	assert.Equal(t, "Read \nthis", got.Description)
	assert.Equal(t, []string{"/bbcswebdav/xid-2"}, got.Attachments)
}

func TestParseFolderContentsMissingListIsProtocolParse(t *testing.T) {
	_, err := parseFolderContents(`<html><body>nothing here</body></html>`)
	assert.Error(t, err)
	assert.Equal(t, provider.ProtocolParse, provider.KindOf(err))
}
