//go:build windows

// Package winmount is the Windows half of §4.4 "Filesystem Adapter": it
// wires the engine into github.com/winfsp/cgofuse instead of
// github.com/hanwen/go-fuse/v2, since WinFsp (unlike FUSE) has no native
// Go binding. cgofuse speaks the same path-based callback shape as
// libfuse; spec §4.4 names the Windows-native equivalents
// (create_file, read_file, get_file_information, find_files) that WinFsp
// itself maps these onto.
package winmount

import (
	"strings"
	"sync"

	"github.com/winfsp/cgofuse/fuse"

	"github.com/BlackboardFS/bbfs/engine"
	"github.com/BlackboardFS/bbfs/item"
	"github.com/BlackboardFS/bbfs/platform"
	"github.com/BlackboardFS/bbfs/provider"
)

const blockSize = 512

// FS implements fuse.FileSystemInterface (via FileSystemBase) against an
// *engine.Engine. Unlike the inode-based Unix adapter, cgofuse calls are
// keyed by full path; resolve walks that path one lookup_child at a time
// from the root, exactly as §4.4 describes for create_file.
type FS struct {
	fuse.FileSystemBase

	eng *engine.Engine

	mu     sync.Mutex
	byPath map[string]uint64
}

// New constructs a Windows filesystem adapter over eng.
func New(eng *engine.Engine) *FS {
	return &FS{eng: eng, byPath: map[string]uint64{}}
}

// splitPath implements §9 note (a): paths may arrive separated by either
// backslash or forward slash, so both are treated as separators.
func splitPath(path string) []string {
	path = strings.ReplaceAll(path, `\`, "/")
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func (fsys *FS) resolve(path string) (uint64, error) {
	fsys.mu.Lock()
	if h, ok := fsys.byPath[path]; ok {
		fsys.mu.Unlock()
		return h, nil
	}
	fsys.mu.Unlock()

	handle := engine.RootHandle
	for _, name := range splitPath(path) {
		h, err := fsys.eng.LookupChild(handle, name)
		if err != nil {
			return 0, err
		}
		handle = h
	}

	fsys.mu.Lock()
	fsys.byPath[path] = handle
	fsys.mu.Unlock()
	return handle, nil
}

func errnoFor(err error) int {
	if err == nil {
		return 0
	}
	return platform.MapFuseErrno(provider.KindOf(err))
}

// Getattr implements get_file_information.
func (fsys *FS) Getattr(path string, stat *fuse.Stat_t, fh uint64) int {
	handle, err := fsys.resolve(path)
	if err != nil {
		return errnoFor(err)
	}
	attr, err := fsys.eng.Attr(handle)
	if err != nil {
		return errnoFor(err)
	}
	fillStat(stat, handle, attr)
	return 0
}

func fillStat(stat *fuse.Stat_t, handle uint64, attr engine.Attr) {
	*stat = fuse.Stat_t{}
	stat.Ino = handle
	stat.Size = attr.Size
	stat.Blksize = blockSize
	stat.Blocks = (attr.Size + blockSize - 1) / blockSize
	stat.Nlink = 1
	if attr.Kind == item.Directory {
		stat.Mode = fuse.S_IFDIR | 0o500
		stat.Nlink = 2
	} else {
		stat.Mode = fuse.S_IFREG | 0o400
	}
}

// Open implements create_file for an existing, read-only path.
func (fsys *FS) Open(path string, flags int) (errc int, fh uint64) {
	handle, err := fsys.resolve(path)
	if err != nil {
		return errnoFor(err), ^uint64(0)
	}
	return 0, handle
}

// Read implements read_file.
func (fsys *FS) Read(path string, buff []byte, ofst int64, fh uint64) int {
	handle, err := fsys.resolve(path)
	if err != nil {
		return errnoFor(err)
	}
	data, err := fsys.eng.Read(handle, ofst, int64(len(buff)))
	if err != nil {
		return errnoFor(err)
	}
	return copy(buff, data)
}

// Readdir implements find_files.
func (fsys *FS) Readdir(
	path string,
	fill func(name string, stat *fuse.Stat_t, ofst int64) bool,
	ofst int64,
	fh uint64,
) int {
	handle, err := fsys.resolve(path)
	if err != nil {
		return errnoFor(err)
	}

	fill(".", nil, 0)
	fill("..", nil, 0)

	children, err := fsys.eng.ReadDir(handle)
	if err != nil {
		return errnoFor(err)
	}
	for _, c := range children {
		attr, err := fsys.eng.Attr(c.Handle)
		if err != nil {
			continue
		}
		var stat fuse.Stat_t
		fillStat(&stat, c.Handle, attr)
		fill(c.Name, &stat, 0)
	}
	return 0
}

// Mount mounts eng at dir using WinFsp via cgofuse and blocks until
// unmounted.
func Mount(dir string, eng *engine.Engine) bool {
	host := fuse.NewFileSystemHost(New(eng))
	host.SetCapReaddirPlus(true)
	return host.Mount(dir, []string{"-o", "ro"})
}
