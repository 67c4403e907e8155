// Package fsadapter wires the engine into github.com/hanwen/go-fuse/v2's
// InodeEmbedder tree (§4.4 "Filesystem Adapter"), translating each host
// callback into the corresponding engine operation and mapping the
// closed provider.ErrorKind taxonomy onto Unix errno values.
package fsadapter

import (
	"context"
	"syscall"

	gofuse "github.com/hanwen/go-fuse/v2/fuse"
	"github.com/hanwen/go-fuse/v2/fs"

	"github.com/BlackboardFS/bbfs/engine"
	"github.com/BlackboardFS/bbfs/item"
	"github.com/BlackboardFS/bbfs/platform"
	"github.com/BlackboardFS/bbfs/provider"
)

const blockSize = 512

// node is the InodeEmbedder for every materialized position in the
// tree; its engine handle is enough to answer every callback by
// delegating to the engine.
type node struct {
	fs.Inode
	eng    *engine.Engine
	handle uint64
}

var (
	_ fs.NodeLookuper  = (*node)(nil)
	_ fs.NodeGetattrer = (*node)(nil)
	_ fs.NodeReaddirer = (*node)(nil)
	_ fs.NodeOpener    = (*node)(nil)
	_ fs.NodeReader    = (*node)(nil)
)

func errnoFor(err error) syscall.Errno {
	if err == nil {
		return fs.OK
	}
	return syscall.Errno(platform.MapErrno(provider.KindOf(err)))
}

func stableAttr(kind item.FSKind, handle uint64) fs.StableAttr {
	mode := uint32(syscall.S_IFREG)
	if kind == item.Directory {
		mode = syscall.S_IFDIR
	}
	return fs.StableAttr{Mode: mode, Ino: handle}
}

func (n *node) childInode(ctx context.Context, handle uint64) (*fs.Inode, error) {
	nd, err := n.eng.Resolve(handle)
	if err != nil {
		return nil, err
	}
	child := &node{eng: n.eng, handle: handle}
	return n.NewInode(ctx, child, stableAttr(nd.Kind, handle)), nil
}

// Lookup implements §4.4 lookup(parent, name).
func (n *node) Lookup(ctx context.Context, name string, out *gofuse.EntryOut) (*fs.Inode, syscall.Errno) {
	handle, err := n.eng.LookupChild(n.handle, name)
	if err != nil {
		return nil, errnoFor(err)
	}
	attr, err := n.eng.Attr(handle)
	if err != nil {
		return nil, errnoFor(err)
	}
	fillAttr(&out.Attr, handle, attr)
	child, err := n.childInode(ctx, handle)
	if err != nil {
		return nil, errnoFor(err)
	}
	return child, fs.OK
}

// Getattr implements §4.4 getattr(handle) with the fixed permission,
// timestamp, and block-size defaults from §4.4.
func (n *node) Getattr(ctx context.Context, f fs.FileHandle, out *gofuse.AttrOut) syscall.Errno {
	attr, err := n.eng.Attr(n.handle)
	if err != nil {
		return errnoFor(err)
	}
	fillAttr(&out.Attr, n.handle, attr)
	return fs.OK
}

func fillAttr(out *gofuse.Attr, handle uint64, attr engine.Attr) {
	out.Ino = handle
	out.Size = uint64(attr.Size)
	out.Blksize = blockSize
	out.Blocks = (attr.Size + blockSize - 1) / blockSize
	if attr.Kind == item.Directory {
		out.Mode = syscall.S_IFDIR | 0o500
		out.Nlink = 2
	} else {
		out.Mode = syscall.S_IFREG | 0o400
		out.Nlink = 1
	}
}

// Readdir implements §4.4 readdir(handle, start_index): the "." and
// ".." entries are synthesized by the fs package itself via
// NewListDirStream's ordering, so this only needs to append the
// expanded children.
func (n *node) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	nd, err := n.eng.Resolve(n.handle)
	if err != nil {
		return nil, errnoFor(err)
	}
	if nd.Kind != item.Directory {
		return nil, syscall.Errno(platform.MapErrno(provider.NotADirectory))
	}

	children, err := n.eng.ReadDir(n.handle)
	if err != nil {
		return nil, errnoFor(err)
	}

	entries := make([]gofuse.DirEntry, 0, len(children))
	for _, c := range children {
		mode := uint32(syscall.S_IFREG)
		if c.Kind == item.Directory {
			mode = syscall.S_IFDIR
		}
		entries = append(entries, gofuse.DirEntry{Ino: c.Handle, Mode: mode, Name: c.Name})
	}
	return fs.NewListDirStream(entries), fs.OK
}

// Open rejects write access with EROFS and otherwise does nothing: every
// file in this filesystem is read-only and content is fetched through the
// engine on demand, not at open time.
func (n *node) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	if flags&(syscall.O_RDWR|syscall.O_WRONLY) != 0 {
		return nil, 0, syscall.EROFS
	}
	return nil, gofuse.FOPEN_KEEP_CACHE, fs.OK
}

// Read implements §4.4 read(handle, offset, size).
func (n *node) Read(ctx context.Context, f fs.FileHandle, dest []byte, off int64) (gofuse.ReadResult, syscall.Errno) {
	data, err := n.eng.Read(n.handle, off, int64(len(dest)))
	if err != nil {
		return nil, errnoFor(err)
	}
	return gofuse.ReadResultData(data), fs.OK
}

// Root builds the InodeEmbedder for the engine's root node, suitable for
// passing to fs.Mount.
func Root(eng *engine.Engine) fs.InodeEmbedder {
	return &node{eng: eng, handle: engine.RootHandle}
}

// Mount mounts the given engine at dir using the default read-only
// FUSE options.
func Mount(dir string, eng *engine.Engine) (*gofuse.Server, error) {
	return fs.Mount(dir, Root(eng), &fs.Options{
		MountOptions: gofuse.MountOptions{
			Name:     "bbfs",
			FsName:   "bbfs",
			Debug:    false,
			ReadOnly: true,
		},
	})
}
