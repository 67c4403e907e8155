//go:build !windows

package main

import (
	"fmt"

	"github.com/moby/sys/mountinfo"

	"github.com/BlackboardFS/bbfs/engine"
	"github.com/BlackboardFS/bbfs/fsadapter"
)

// mount wires the engine into the Unix FUSE adapter (§4.4) and blocks
// until the filesystem is unmounted.
func mount(dir string, eng *engine.Engine) error {
	if already, err := mountinfo.Mounted(dir); err == nil && already {
		return fmt.Errorf("%s is already a mount point", dir)
	}

	server, err := fsadapter.Mount(dir, eng)
	if err != nil {
		return err
	}
	server.Wait()
	return nil
}
