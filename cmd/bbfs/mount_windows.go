//go:build windows

package main

import (
	"errors"

	"github.com/BlackboardFS/bbfs/engine"
	"github.com/BlackboardFS/bbfs/winmount"
)

// mount wires the engine into the Windows WinFsp adapter (§4.4) and
// blocks until the filesystem is unmounted.
func mount(dir string, eng *engine.Engine) error {
	if !winmount.Mount(dir, eng) {
		return errors.New("mount failed")
	}
	return nil
}
