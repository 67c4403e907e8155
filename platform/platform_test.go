package platform

import (
	"strings"
	"testing"
)

func TestFormatShortcutLinux(t *testing.T) {
	got := formatShortcut("desktop", "https://example.com/x")
	want := "[Desktop Entry]\nEncoding=UTF-8\nType=Link\nURL=https://example.com/x\nIcon=text-html\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatShortcutMac(t *testing.T) {
	got := formatShortcut("webloc", "https://example.com/x")
	want := `{ URL = "https://example.com/x"; }`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatShortcutWindows(t *testing.T) {
	got := formatShortcut("url", "https://example.com/x")
	want := "[InternetShortcut]\nURL=https://example.com/x\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// extractURL is the inverse of formatShortcut for each known extension;
// it exists only to exercise testable property 6 (a shortcut body parses
// back to the exact jump URL).
func extractURL(ext, body string) string {
	switch ext {
	case "desktop":
		for _, line := range strings.Split(body, "\n") {
			if strings.HasPrefix(line, "URL=") {
				return strings.TrimPrefix(line, "URL=")
			}
		}
	case "webloc":
		body = strings.TrimPrefix(body, `{ URL = "`)
		return strings.TrimSuffix(body, `"; }`)
	case "url":
		for _, line := range strings.Split(body, "\n") {
			if strings.HasPrefix(line, "URL=") {
				return strings.TrimPrefix(line, "URL=")
			}
		}
	}
	return ""
}

func TestShortcutRoundTrip(t *testing.T) {
	const url = "https://learn.uq.edu.au/ultra/courses/_123_1/cl/outline"
	for _, ext := range []string{"desktop", "webloc", "url"} {
		body := formatShortcut(ext, url)
		if got := extractURL(ext, body); got != url {
			t.Errorf("extension %q: round trip = %q, want %q", ext, got, url)
		}
	}
}
