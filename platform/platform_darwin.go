package platform

// Current is the macOS shortcut convention: extension .webloc, property
// list body. '/' is still reserved (macOS is POSIX-separated).
var Current = platform{ext: "webloc", unixSlash: true}
