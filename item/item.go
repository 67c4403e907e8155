// Package item defines the sum-type representation of every node that
// can appear in the projected tree. It is pure data: classification and
// name synthesis are the only behavior, and neither does any I/O.
package item

import "strings"

// PayloadKind distinguishes the three ways a CourseItem can reference
// remote content.
type PayloadKind int

const (
	// NoPayload means the item carries no downloadable content of its
	// own (it may still have a description or attachments).
	NoPayload PayloadKind = iota
	FileURL
	FolderURL
	Link
)

// Payload is a descriptor for remote content. It is never fetched
// eagerly; CourseItem carries it around until something asks for bytes.
type Payload struct {
	Kind PayloadKind
	URL  string
}

func (p Payload) has() bool { return p.Kind != NoPayload }

// Course is a top-level node: one entry in the user's enrollment list.
type Course struct {
	ID        string
	ShortName string
}

// CourseItem is a node from within a course's sidebar or a folder
// listing. The zero value (no payload, no description, no attachments)
// classifies as an empty file.
type CourseItem struct {
	Name        string
	Payload     Payload
	Description string
	Attachments []string
}

func (c CourseItem) hasDescription() bool { return c.Description != "" }

// SynthesizedFile is a file fabricated by the engine: a shortcut or a
// description text file.
type SynthesizedFile struct {
	Name     string
	Contents []byte
}

// SynthesizedDirectory is a directory fabricated by the engine with a
// fixed, pre-enumerated child list. Used for the root.
type SynthesizedDirectory struct {
	Name     string
	Contents []Item
}

// Kind tags which alternative of the Item sum type is populated.
type Kind int

const (
	KindCourse Kind = iota
	KindCourseItem
	KindSynthesizedFile
	KindSynthesizedDirectory
)

// Item is the tagged variant described in spec §3. Exactly one of the
// embedded values is meaningful, selected by Kind.
type Item struct {
	Kind Kind

	Course               Course
	CourseItem           CourseItem
	SynthesizedFile      SynthesizedFile
	SynthesizedDirectory SynthesizedDirectory
}

func NewCourse(c Course) Item { return Item{Kind: KindCourse, Course: c} }

func NewCourseItem(c CourseItem) Item { return Item{Kind: KindCourseItem, CourseItem: c} }

func NewSynthesizedFile(name string, contents []byte) Item {
	return Item{Kind: KindSynthesizedFile, SynthesizedFile: SynthesizedFile{Name: name, Contents: contents}}
}

func NewSynthesizedDirectory(name string, contents []Item) Item {
	return Item{Kind: KindSynthesizedDirectory, SynthesizedDirectory: SynthesizedDirectory{Name: name, Contents: contents}}
}

// FSKind is the filesystem-level classification of an Item: File or
// Directory. It never depends on anything but the Item's own fields.
type FSKind int

const (
	File FSKind = iota
	Directory
)

// Classify implements the classification rules of spec §4.1.
func Classify(it Item) FSKind {
	switch it.Kind {
	case KindCourse, KindSynthesizedDirectory:
		return Directory
	case KindSynthesizedFile:
		return File
	case KindCourseItem:
		ci := it.CourseItem
		if len(ci.Attachments) > 0 {
			return Directory
		}
		if ci.hasDescription() && ci.Payload.has() {
			return Directory
		}
		if ci.Payload.Kind == FolderURL {
			return Directory
		}
		return File
	default:
		return File
	}
}

// DisplayName implements the naming rules of spec §4.1 for every case
// that does not require a network round-trip. The one exception is a
// CourseItem classified as a file with a FileURL payload, whose name is
// the provider-resolved, redirect-followed, percent-decoded trailing
// path segment: DisplayName reports ok=false for that case and the
// caller (the engine) must ask the provider instead.
func DisplayName(it Item, shortcutExt string) (name string, ok bool) {
	switch it.Kind {
	case KindCourse:
		return it.Course.ShortName, true
	case KindSynthesizedFile:
		return it.SynthesizedFile.Name, true
	case KindSynthesizedDirectory:
		return it.SynthesizedDirectory.Name, true
	case KindCourseItem:
		ci := it.CourseItem
		if Classify(it) == Directory {
			return ci.Name, true
		}
		switch ci.Payload.Kind {
		case FileURL:
			return "", false
		case Link:
			return ci.Name + "." + shortcutExt, true
		default:
			if ci.hasDescription() {
				return ci.Name + ".txt", true
			}
			return ci.Name, true
		}
	default:
		return "", true
	}
}

// AttachmentItems implements the synthesis rule: a CourseItem with
// attachments contributes one nameless CourseItem per attachment URL,
// letting the provider derive each one's filename.
func AttachmentItems(ci CourseItem) []Item {
	if len(ci.Attachments) == 0 {
		return nil
	}
	out := make([]Item, 0, len(ci.Attachments))
	for _, url := range ci.Attachments {
		out = append(out, NewCourseItem(CourseItem{
			Payload: Payload{Kind: FileURL, URL: url},
		}))
	}
	return out
}

// DescriptionFileItem implements the synthesis rule: a CourseItem with a
// non-empty description contributes a SynthesizedFile child named after
// the item, containing the description.
func DescriptionFileItem(ci CourseItem) (Item, bool) {
	if !ci.hasDescription() {
		return Item{}, false
	}
	return NewSynthesizedFile(ci.Name, []byte(ci.Description)), true
}

// LinkShortcutItem implements the synthesis rule: a CourseItem whose
// payload is Link contributes a SynthesizedFile shortcut named
// "{name}.{shortcutExt}" with the given platform shortcut body.
func LinkShortcutItem(ci CourseItem, shortcutExt, body string) (Item, bool) {
	if ci.Payload.Kind != Link {
		return Item{}, false
	}
	return NewSynthesizedFile(ci.Name+"."+shortcutExt, []byte(body)), true
}

// reservedCommon is the set of path-reserved characters replaced on every
// platform; '/' is additionally reserved on Unix (see Sanitize).
const reservedCommon = `<>:\|?*`

// Sanitize replaces path-reserved characters with '-'. unixSlash
// controls whether '/' is also rewritten (true on Unix, false on
// Windows, where '\' already covers the path separator).
func Sanitize(name string, unixSlash bool) string {
	reserved := reservedCommon
	if unixSlash {
		reserved += "/"
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if strings.ContainsRune(reserved, r) {
			b.WriteByte('-')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
