// Package engine implements the projection engine described in spec
// §4.3: it turns a provider.Provider's tree of items into a handle-based
// graph of Nodes that a filesystem adapter can drive one callback at a
// time. The engine never imports anything that does network or HTML
// work; it is exercised in-memory against any provider.Provider.
package engine

import (
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/BlackboardFS/bbfs/item"
	"github.com/BlackboardFS/bbfs/provider"
)

// RootHandle is the handle always assigned to the root node.
const RootHandle uint64 = 1

// childrenState is the single-assignment cell described in §9
// ("single-assignment children slot"): it starts unloaded, and exactly
// one expand() call ever transitions it to loaded.
type childrenState struct {
	loaded   bool
	children []uint64
}

// Node is the engine's internal record for one materialized tree
// position (§3 "Node").
type Node struct {
	Handle uint64
	Parent *uint64
	Name   string
	Item   item.Item
	Kind   item.FSKind

	mu       sync.Mutex
	children childrenState
}

// Engine holds all state for one mount lifetime: the handle→Node map,
// the handle allocator, and the content-bytes cache.
type Engine struct {
	provider provider.Provider
	platform provider.Platform

	mu       sync.RWMutex
	nodes    map[uint64]*Node
	nextFree uint64

	contentMu    sync.Mutex
	contentCache map[contentKey][]byte

	group singleflight.Group
}

// New constructs an Engine and materializes the root node by calling
// provider.Root(). It is the only engine operation that can fail before
// the engine is usable at all.
func New(p provider.Provider, pl provider.Platform) (*Engine, error) {
	root, err := p.Root()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		provider:     p,
		platform:     pl,
		nodes:        make(map[uint64]*Node),
		nextFree:     RootHandle + 1,
		contentCache: make(map[contentKey][]byte),
	}

	rootName, ok := item.DisplayName(root, pl.ShortcutExtension())
	if !ok {
		// Root items never need provider-resolved names (it is always
		// a Course list container); DisplayName only reports ok=false
		// for FileUrl CourseItems.
		rootName = "root"
	}

	e.nodes[RootHandle] = &Node{
		Handle: RootHandle,
		Parent: nil,
		Name:   rootName,
		Item:   root,
		Kind:   item.Classify(root),
	}

	return e, nil
}

func (e *Engine) allocHandle() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	h := e.nextFree
	e.nextFree++
	return h
}

// Resolve implements engine operation 1: map lookup by handle.
func (e *Engine) Resolve(handle uint64) (*Node, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	n, ok := e.nodes[handle]
	if !ok {
		return nil, provider.New(provider.NoSuchEntry, "no node for handle")
	}
	return n, nil
}

// LookupChild implements engine operation 2: ensure the parent's
// children are loaded, then scan for an exact name match.
func (e *Engine) LookupChild(parentHandle uint64, name string) (uint64, error) {
	children, err := e.Expand(parentHandle)
	if err != nil {
		return 0, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, h := range children {
		child, ok := e.nodes[h]
		if ok && child.Name == name {
			return h, nil
		}
	}
	return 0, provider.New(provider.NoSuchEntry, "no child named "+name)
}

// ancestors walks parent pointers from handle up to the root, returning
// items root-first, matching provider.Children's contract.
func (e *Engine) ancestors(handle uint64) ([]item.Item, error) {
	var chain []item.Item
	for {
		e.mu.RLock()
		n, ok := e.nodes[handle]
		e.mu.RUnlock()
		if !ok {
			return nil, provider.New(provider.NoSuchEntry, "no node for handle")
		}
		chain = append(chain, n.Item)
		if n.Parent == nil {
			break
		}
		handle = *n.Parent
	}
	// chain is currently leaf-first; reverse it to root-first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Expand implements engine operation 3: once-only directory expansion,
// coordinated across concurrent callers via singleflight so that a race
// between two expand() calls on the same node always yields the same
// installed result (§5 "Ordering guarantees").
func (e *Engine) Expand(handle uint64) ([]uint64, error) {
	e.mu.RLock()
	n, ok := e.nodes[handle]
	e.mu.RUnlock()
	if !ok {
		return nil, provider.New(provider.NoSuchEntry, "no node for handle")
	}

	n.mu.Lock()
	if n.children.loaded {
		children := n.children.children
		n.mu.Unlock()
		return children, nil
	}
	n.mu.Unlock()

	v, err, _ := e.group.Do(strconv.FormatUint(handle, 10), func() (interface{}, error) {
		return e.expandOnce(n)
	})
	if err != nil {
		return nil, err
	}
	return v.([]uint64), nil
}

func (e *Engine) expandOnce(n *Node) ([]uint64, error) {
	n.mu.Lock()
	if n.children.loaded {
		children := n.children.children
		n.mu.Unlock()
		return children, nil
	}
	n.mu.Unlock()

	chain, err := e.ancestors(n.Handle)
	if err != nil {
		return nil, err
	}

	rawChildren, err := e.provider.Children(chain)
	if err != nil {
		return nil, err
	}

	items := e.synthesize(n, rawChildren)

	handles := make([]uint64, 0, len(items))
	newNodes := make([]*Node, 0, len(items))
	for _, it := range items {
		name, ok := item.DisplayName(it, e.platform.ShortcutExtension())
		if !ok {
			name, err = e.provider.Name(it)
			if err != nil {
				return nil, err
			}
		}
		name = item.Sanitize(name, e.platform.UnixPathSeparator())

		h := e.allocHandle()
		parent := n.Handle
		newNodes = append(newNodes, &Node{
			Handle: h,
			Parent: &parent,
			Name:   name,
			Item:   it,
			Kind:   item.Classify(it),
		})
		handles = append(handles, h)
	}

	e.mu.Lock()
	for _, nn := range newNodes {
		e.nodes[nn.Handle] = nn
	}
	e.mu.Unlock()

	n.mu.Lock()
	if !n.children.loaded {
		n.children.loaded = true
		n.children.children = handles
	}
	installed := n.children.children
	n.mu.Unlock()

	return installed, nil
}

// synthesize applies the §4.1 synthesis rules to the node being
// expanded: when the node itself is a CourseItem with a Link payload,
// its own link shortcut leads the list (a Link CourseItem never has raw
// provider children of its own); then come whatever raw children the
// provider returned (non-empty only for a FolderUrl payload); then the
// item's attachments, expanded into nameless children; then its
// description file. Every non-root directory expansion also gets a
// trailing Blackboard.{ext} jump-link file appended last.
func (e *Engine) synthesize(parent *Node, children []item.Item) []item.Item {
	ext := e.platform.ShortcutExtension()

	out := make([]item.Item, 0, len(children)+3)

	if parent.Item.Kind == item.KindCourseItem {
		ci := parent.Item.CourseItem

		body := e.platform.FormatShortcut(ci.Payload.URL)
		if sc, ok := item.LinkShortcutItem(ci, ext, body); ok {
			out = append(out, sc)
		}
	}

	out = append(out, children...)

	if parent.Item.Kind == item.KindCourseItem {
		ci := parent.Item.CourseItem

		out = append(out, item.AttachmentItems(ci)...)

		if df, ok := item.DescriptionFileItem(ci); ok {
			out = append(out, df)
		}
	}

	if parent.Handle != RootHandle {
		if url, ok := e.jumpURL(parent); ok {
			body := e.platform.FormatShortcut(url)
			out = append(out, item.NewSynthesizedFile("Blackboard."+ext, []byte(body)))
		}
	}

	return out
}

// jumpURL derives the canonical LMS web URL for a node, per §3.1: a
// course's jump URL is a fixed outline path keyed on its id; a
// CourseItem's jump URL is its own FolderUrl path on the LMS origin if
// present, else its parent's.
func (e *Engine) jumpURL(n *Node) (string, bool) {
	switch n.Item.Kind {
	case item.KindCourse:
		return "https://learn.uq.edu.au/ultra/courses/" + n.Item.Course.ID + "/cl/outline", true
	case item.KindCourseItem:
		if n.Item.CourseItem.Payload.Kind == item.FolderURL {
			return "https://learn.uq.edu.au" + n.Item.CourseItem.Payload.URL, true
		}
		if n.Parent == nil {
			return "", false
		}
		e.mu.RLock()
		parent, ok := e.nodes[*n.Parent]
		e.mu.RUnlock()
		if !ok {
			return "", false
		}
		return e.jumpURL(parent)
	default:
		return "", false
	}
}

// Attr implements engine operation 4.
type Attr struct {
	Kind item.FSKind
	Size int64
}

func (e *Engine) Attr(handle uint64) (Attr, error) {
	n, err := e.Resolve(handle)
	if err != nil {
		return Attr{}, err
	}

	if n.Kind == item.Directory {
		return Attr{Kind: item.Directory, Size: 0}, nil
	}

	if n.Item.Kind == item.KindSynthesizedFile {
		return Attr{Kind: item.File, Size: int64(len(n.Item.SynthesizedFile.Contents))}, nil
	}

	size, err := e.provider.Size(n.Item)
	if err != nil {
		return Attr{}, err
	}
	return Attr{Kind: item.File, Size: size}, nil
}

// Read implements engine operation 5: rejects directories, slices
// SynthesizedFile contents directly, and otherwise goes through the
// content cache keyed by CourseItem structural equality (§3 invariant 7).
// Offsets and lengths saturate rather than overflow (§9 note b).
func (e *Engine) Read(handle uint64, offset, length int64) ([]byte, error) {
	n, err := e.Resolve(handle)
	if err != nil {
		return nil, err
	}
	if n.Kind == item.Directory {
		return nil, provider.New(provider.NotAFile, "read on a directory")
	}

	var contents []byte
	if n.Item.Kind == item.KindSynthesizedFile {
		contents = n.Item.SynthesizedFile.Contents
	} else {
		contents, err = e.cachedContents(n.Item.CourseItem)
		if err != nil {
			return nil, err
		}
	}

	total := int64(len(contents))
	if offset > total {
		return nil, provider.New(provider.OutOfRange, "read offset exceeds content length")
	}
	end := offset + length
	if end < offset || end > total { // saturate on overflow or overrun
		end = total
	}
	return contents[offset:end], nil
}

// contentKey is a comparable projection of item.CourseItem (which itself
// is not comparable, because Attachments is a slice) used as the content
// cache's key. It preserves structural equality for caching purposes
// (§3 invariant 7): two CourseItems with the same fields produce the
// same key.
type contentKey struct {
	name        string
	payloadKind item.PayloadKind
	payloadURL  string
	description string
	attachments string
}

func keyOf(ci item.CourseItem) contentKey {
	return contentKey{
		name:        ci.Name,
		payloadKind: ci.Payload.Kind,
		payloadURL:  ci.Payload.URL,
		description: ci.Description,
		attachments: strings.Join(ci.Attachments, "\x00"),
	}
}

func (e *Engine) cachedContents(ci item.CourseItem) ([]byte, error) {
	key := keyOf(ci)

	e.contentMu.Lock()
	if c, ok := e.contentCache[key]; ok {
		e.contentMu.Unlock()
		return c, nil
	}
	e.contentMu.Unlock()

	contents, err := e.provider.Contents(item.NewCourseItem(ci))
	if err != nil {
		return nil, err
	}

	e.contentMu.Lock()
	e.contentCache[key] = contents
	e.contentMu.Unlock()
	return contents, nil
}

// ReadDir implements the directory-listing half of engine operation 3
// for the filesystem adapter: it returns the loaded children alongside
// enough Node detail (name, kind) for a host readdir reply.
func (e *Engine) ReadDir(handle uint64) ([]*Node, error) {
	children, err := e.Expand(handle)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*Node, 0, len(children))
	for _, h := range children {
		if n, ok := e.nodes[h]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}
