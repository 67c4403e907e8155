// Command bbfs is the CLI entry point described in spec.md §6 "Mount
// surface": it parses flags, resolves the session credential,
// daemonizes unless told not to, and mounts the projected course
// catalog at the given path. None of this logic lives in the engine;
// cmd/bbfs is the only package in this module that wires a logger,
// parses flags, or touches the process's own lifecycle.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/BlackboardFS/bbfs/bbscrape"
	"github.com/BlackboardFS/bbfs/engine"
	"github.com/BlackboardFS/bbfs/internal/session"
	"github.com/BlackboardFS/bbfs/platform"
)

var log = logrus.New()

func main() {
	os.Exit(run())
}

func run() int {
	var all, monitor, headless bool
	pflag.BoolVarP(&all, "all", "a", false, "show all enrolled courses, not just currently active ones")
	pflag.BoolVarP(&monitor, "monitor", "m", false, "run in the foreground instead of daemonizing")
	pflag.BoolVar(&headless, "headless", false, "use the headless authentication flow")
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: bbfs [--all] [--monitor] [--headless] <mount-point>")
		return 1
	}

	mountPoint, err := filepath.Abs(pflag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "resolving mount point:", err)
		return 1
	}

	dataDir, err := session.DataDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, "resolving data directory:", err)
		return 1
	}

	configureLogging(dataDir, monitor)

	var authenticator session.Authenticator = session.WebViewAuthenticator{}
	if headless {
		authenticator = session.HeadlessAuthenticator{}
	}

	cookie, err := session.Authenticate(dataDir, bbscrape.BaseURL, authenticator)
	if err != nil {
		log.WithError(err).Error("failed to authenticate")
		return 1
	}

	if !monitor {
		if err := daemonizeSelf(dataDir); err != nil {
			log.WithError(err).Error("failed to daemonize")
			return 1
		}
	}

	client := bbscrape.New(cookie, all)
	eng, err := engine.New(client, platform.Current)
	if err != nil {
		log.WithError(err).Error("failed to initialize projection engine")
		signalOutcome(err)
		return 1
	}

	log.WithField("mount_point", mountPoint).Info("mounting")
	signalOutcome(nil)

	if err := mount(mountPoint, eng); err != nil {
		log.WithError(err).Error("mount failed")
		return 1
	}
	return 0
}

func configureLogging(dataDir string, monitor bool) {
	log.SetLevel(logrus.InfoLevel)
	if monitor {
		log.SetOutput(os.Stderr)
		return
	}
	log.SetOutput(&lumberjack.Logger{
		Filename:   filepath.Join(dataDir, "bbfs.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	})
}
