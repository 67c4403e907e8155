// Package platform isolates the only place the target OS is allowed to
// leak into the design (§9 "Platform variation"): shortcut file bodies
// and the host error-code mapping. Everything else in this module is
// platform-agnostic.
package platform

import "github.com/BlackboardFS/bbfs/provider"

// formatShortcut renders the bit-exact shortcut body for a given
// extension, matching the literal formats in spec §6.
func formatShortcut(ext, url string) string {
	switch ext {
	case "desktop":
		return "[Desktop Entry]\nEncoding=UTF-8\nType=Link\nURL=" + url + "\nIcon=text-html\n"
	case "webloc":
		return `{ URL = "` + url + `"; }`
	case "url":
		return "[InternetShortcut]\nURL=" + url + "\n"
	default:
		return url
	}
}

// platform implements provider.Platform for one fixed shortcut
// extension. The platform-specific files in this package (platform_*.go)
// each expose a package-level Current value built from this type.
type platform struct {
	ext       string
	unixSlash bool
}

func (p platform) ShortcutExtension() string { return p.ext }

func (p platform) FormatShortcut(url string) string { return formatShortcut(p.ext, url) }

func (p platform) UnixPathSeparator() bool { return p.unixSlash }

var _ provider.Platform = platform{}
