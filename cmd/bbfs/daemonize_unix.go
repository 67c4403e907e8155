//go:build !windows

package main

import (
	"os"
	"path/filepath"

	"github.com/jacobsa/daemonize"
)

// parentEnvVar marks a process as the already-daemonized child; its
// absence means this invocation is the original foreground process
// that still needs to re-exec itself detached.
const parentEnvVar = "BBFS_DAEMON_CHILD"

var runningAsDaemonChild = os.Getenv(parentEnvVar) != ""

// daemonizeSelf implements §6 "Command-line entry point and
// daemonization": unless --monitor was passed, bbfs re-execs itself
// detached from the controlling terminal and blocks until the child
// reports whether it mounted successfully, mirroring the role
// daemonize-me plays in original_source/bbfs-cli/src/main.rs.
func daemonizeSelf(dataDir string) error {
	if runningAsDaemonChild {
		return nil
	}

	logFile, err := os.OpenFile(filepath.Join(dataDir, "bbfs.daemon.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	defer logFile.Close()

	env := append(os.Environ(), parentEnvVar+"=1")
	if err := daemonize.Daemonize(os.Args[0], os.Args[1:], env, logFile); err != nil {
		return err
	}
	os.Exit(0)
	return nil
}

// signalOutcome reports the mount's success or failure back to the
// parent process that daemonized us. It is a no-op in foreground mode,
// where there is no parent waiting on a pipe.
func signalOutcome(err error) {
	if !runningAsDaemonChild {
		return
	}
	if sigErr := daemonize.SignalOutcome(err); sigErr != nil {
		log.WithError(sigErr).Warn("failed to signal mount outcome to parent process")
	}
}
