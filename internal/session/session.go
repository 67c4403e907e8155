// Package session manages the one piece of local state this module
// keeps on disk (§6 "Persisted state"): the session cookie cache, plus
// the small capability boundary the out-of-scope authentication
// subsystem is consumed through. It never talks to the engine.
package session

import (
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
)

const (
	appDirName = "blackboardfs"
	cookieFile = "cookie"
	dirPerm    = 0o700
	cookiePerm = 0o600
)

// DataDir resolves the platform per-user data directory for this
// application (mirroring etcetera::choose_base_strategy().data_dir() in
// original_source/bbfs-cli/src/main.rs, adapted to the teacher corpus's
// go-homedir instead of a dedicated XDG library) and ensures it exists.
func DataDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".local", "share", appDirName)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", err
	}
	return dir, nil
}

// CookiePath is the path to the persisted session credential within
// dataDir, literally named "cookie" per §6.
func CookiePath(dataDir string) string {
	return filepath.Join(dataDir, cookieFile)
}

// LoadCookie reads the cached session credential, if any.
func LoadCookie(dataDir string) (string, bool) {
	bytes, err := os.ReadFile(CookiePath(dataDir))
	if err != nil {
		return "", false
	}
	return string(bytes), true
}

// SaveCookie persists cookie to dataDir. A failure to write is not
// fatal to the caller; original_source/bbfs-cli/src/main.rs only warns
// when this fails, and Authenticate ignores the error and still returns
// the cookie.
func SaveCookie(dataDir, cookie string) error {
	return os.WriteFile(CookiePath(dataDir), []byte(cookie), cookiePerm)
}
