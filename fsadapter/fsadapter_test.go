package fsadapter

import (
	"context"
	"syscall"
	"testing"

	gofuse "github.com/hanwen/go-fuse/v2/fuse"

	"github.com/BlackboardFS/bbfs/engine"
	"github.com/BlackboardFS/bbfs/item"
)

type stubProvider struct {
	root     item.Item
	children map[string][]item.Item
	contents map[string][]byte
}

func key(it item.Item) string {
	if it.Kind == item.KindCourse {
		return "course:" + it.Course.ID
	}
	return "other"
}

func (p *stubProvider) Root() (item.Item, error) { return p.root, nil }
func (p *stubProvider) Children(a []item.Item) ([]item.Item, error) {
	return p.children[key(a[len(a)-1])], nil
}
func (p *stubProvider) Size(it item.Item) (int64, error) { return int64(len(p.contents[key(it)])), nil }
func (p *stubProvider) Contents(it item.Item) ([]byte, error) { return p.contents[key(it)], nil }
func (p *stubProvider) Kind(it item.Item) item.FSKind         { return item.Classify(it) }
func (p *stubProvider) Name(it item.Item) (string, error)     { return it.CourseItem.Name, nil }

type stubPlatform struct{}

func (stubPlatform) ShortcutExtension() string       { return "desktop" }
func (stubPlatform) FormatShortcut(url string) string { return "URL=" + url }
func (stubPlatform) UnixPathSeparator() bool          { return true }

func TestLookupAndReaddir(t *testing.T) {
	p := &stubProvider{
		root: item.NewSynthesizedDirectory("root", nil),
		children: map[string][]item.Item{
			"other": {item.NewCourse(item.Course{ID: "1", ShortName: "CS101"})},
		},
	}
	eng, err := engine.New(p, stubPlatform{})
	if err != nil {
		t.Fatal(err)
	}

	root := &node{eng: eng, handle: engine.RootHandle}
	ctx := context.Background()

	stream, errno := root.Readdir(ctx)
	if errno != 0 {
		t.Fatalf("Readdir errno = %v", errno)
	}
	var names []string
	for stream.HasNext() {
		e, errno := stream.Next()
		if errno != 0 {
			t.Fatalf("Next errno = %v", errno)
		}
		names = append(names, e.Name)
	}
	if len(names) != 1 || names[0] != "CS101" {
		t.Errorf("names = %v, want [CS101]", names)
	}

	var out gofuse.EntryOut
	_, errno = root.Lookup(ctx, "CS101", &out)
	if errno != 0 {
		t.Fatalf("Lookup errno = %v", errno)
	}
	if out.Attr.Mode&syscall.S_IFDIR == 0 {
		t.Errorf("expected directory mode, got %o", out.Attr.Mode)
	}

	_, errno = root.Lookup(ctx, "missing", &out)
	if errno != syscall.ENOENT {
		t.Errorf("errno = %v, want ENOENT", errno)
	}
}

func TestReadFile(t *testing.T) {
	ci := item.CourseItem{Name: "a", Payload: item.Payload{Kind: item.FileURL, URL: "/f"}}
	p := &stubProvider{
		root:     item.NewSynthesizedDirectory("root", nil),
		children: map[string][]item.Item{"other": {item.NewCourseItem(ci)}},
		contents: map[string][]byte{"other": []byte("hello")},
	}
	eng, err := engine.New(p, stubPlatform{})
	if err != nil {
		t.Fatal(err)
	}
	children, err := eng.ReadDir(engine.RootHandle)
	if err != nil {
		t.Fatal(err)
	}

	n := &node{eng: eng, handle: children[0].Handle}
	res, errno := n.Read(context.Background(), nil, make([]byte, 5), 0)
	if errno != 0 {
		t.Fatalf("Read errno = %v", errno)
	}
	buf := make([]byte, 5)
	got, status := res.Bytes(buf)
	if status != gofuse.OK {
		t.Fatalf("status = %v", status)
	}
	if string(got) != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}

	_, errno = n.Readdir(context.Background())
	if errno != syscall.ENOTDIR {
		t.Errorf("errno = %v, want ENOTDIR", errno)
	}
}
