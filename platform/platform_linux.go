package platform

// Current is the Linux shortcut convention: extension .desktop, and '/'
// is reserved alongside the common path-reserved characters.
var Current = platform{ext: "desktop", unixSlash: true}
