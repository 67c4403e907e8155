// Package provider defines the capability the projection engine consumes
// to learn about the world (§4.2) and the closed error taxonomy (§7) used
// to report failures across that boundary. Nothing in this package does
// I/O; it only describes the shape of things that do.
package provider

import (
	"errors"

	"github.com/BlackboardFS/bbfs/item"
)

// Provider is the capability the engine is built against. Concrete
// implementations (bbscrape, or an in-memory test double) never leak
// into the engine package itself — this is the seam that lets the whole
// engine be exercised without a network.
type Provider interface {
	// Root returns the synthesized root item.
	Root() (item.Item, error)

	// Children returns the child items of the node identified by the
	// given ancestor chain, root first. The full chain is passed
	// because some providers need parent context to answer (e.g. a
	// course's identity is required to build an item's jump URL).
	Children(ancestors []item.Item) ([]item.Item, error)

	// Size reports the byte length of an item's contents.
	Size(it item.Item) (int64, error)

	// Contents reports an item's full byte payload. Equal items
	// (structural equality) must yield equal contents; the engine or
	// the provider may memoize this.
	Contents(it item.Item) ([]byte, error)

	// Kind is infallible and must agree with item.Classify.
	Kind(it item.Item) item.FSKind

	// Name resolves an item's display name for cases item.DisplayName
	// cannot answer without a network round trip (FileUrl items).
	Name(it item.Item) (string, error)
}

// Platform is the capability that isolates OS-specific leakage: shortcut
// file bodies and the host error-code mapping (§9 "Platform variation").
type Platform interface {
	// ShortcutExtension is the file extension used for synthesized
	// link shortcuts and the trailing Blackboard.* jump-link file,
	// without the leading dot.
	ShortcutExtension() string

	// FormatShortcut renders the bit-exact shortcut body for the given
	// full jump URL.
	FormatShortcut(url string) string

	// UnixPathSeparator reports whether '/' must be treated as a
	// reserved, path-separating character when sanitizing names (true
	// on Unix, false on Windows where '\' already covers it).
	UnixPathSeparator() bool
}

// ErrorKind is the closed taxonomy of semantic failure kinds from §7.
// Every fallible engine or provider operation reports one of these.
type ErrorKind int

const (
	// NetworkTransient: connection failed, timed out, or the server
	// returned a retryable status during content or metadata retrieval.
	NetworkTransient ErrorKind = iota
	// ProtocolParse: a response could not be parsed (JSON, HTML, or a
	// missing expected header).
	ProtocolParse
	// NotAFile: a read arrived for something that is a directory.
	NotAFile
	// NotADirectory: a listing arrived for something that is a file.
	NotADirectory
	// NoSuchEntry: a lookup resolved nothing.
	NoSuchEntry
	// OutOfRange: a read offset exceeds the content length.
	OutOfRange
)

func (k ErrorKind) String() string {
	switch k {
	case NetworkTransient:
		return "network transient"
	case ProtocolParse:
		return "protocol parse"
	case NotAFile:
		return "not a file"
	case NotADirectory:
		return "not a directory"
	case NoSuchEntry:
		return "no such entry"
	case OutOfRange:
		return "out of range"
	default:
		return "unknown error kind"
	}
}

// Error is the single error type that crosses every package boundary in
// this module. It always carries one of the closed ErrorKind values plus
// an optional wrapped cause for diagnostics.
type Error struct {
	Kind  ErrorKind
	Msg   string
	Cause error
}

func New(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Msg + ": " + e.Cause.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same Kind, so
// errors.Is(err, provider.New(provider.NoSuchEntry, "")) compares by kind
// alone. A bare ErrorKind is not an error and cannot be a target.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// KindOf extracts the ErrorKind from any error produced by this module,
// defaulting to ProtocolParse for errors it does not recognize (an
// unrecognized failure is treated as unparseable rather than silently
// ignored).
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ProtocolParse
}
