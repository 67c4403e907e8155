//go:build windows

package main

// daemonizeSelf has no Windows implementation, mirroring the
// `#[cfg(not(unix))] fn daemonize` stub in
// original_source/bbfs-cli/src/main.rs: --monitor is effectively always
// on for this platform today.
func daemonizeSelf(dataDir string) error { return nil }

func signalOutcome(err error) {}
