package platform

// Current is the Windows shortcut convention: extension .url, and '/' is
// not treated as reserved since '\' already covers the path separator.
var Current = platform{ext: "url", unixSlash: false}
