//go:build linux || darwin

package platform

import (
	"golang.org/x/sys/unix"

	"github.com/BlackboardFS/bbfs/provider"
)

// MapErrno implements the §4.4/§7 error mapping table for Unix hosts.
func MapErrno(kind provider.ErrorKind) unix.Errno {
	switch kind {
	case provider.NetworkTransient:
		return unix.ENETRESET
	case provider.ProtocolParse:
		return unix.EIO
	case provider.NotAFile:
		return unix.EISDIR
	case provider.NotADirectory:
		return unix.ENOTDIR
	case provider.NoSuchEntry:
		return unix.ENOENT
	case provider.OutOfRange:
		return unix.EIO
	default:
		return unix.EIO
	}
}
