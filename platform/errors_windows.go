//go:build windows

package platform

import (
	"github.com/winfsp/cgofuse/fuse"

	"github.com/BlackboardFS/bbfs/provider"
)

// MapFuseErrno implements the §4.4/§7 error mapping table for the
// Windows adapter. cgofuse's FileSystemInterface speaks POSIX-style
// errno codes and WinFsp itself translates them to the NTSTATUS values
// named in spec §4.4 (ENOENT -> STATUS_NO_SUCH_FILE, EIO ->
// STATUS_FILE_NOT_AVAILABLE/STATUS_DATA_ERROR, EISDIR ->
// STATUS_FILE_IS_A_DIRECTORY) before they reach the host; this is that
// boundary's errno side.
func MapFuseErrno(kind provider.ErrorKind) int {
	switch kind {
	case provider.NetworkTransient:
		return -fuse.ENETRESET
	case provider.ProtocolParse:
		return -fuse.EIO
	case provider.NotAFile:
		return -fuse.EISDIR
	case provider.NotADirectory:
		return -fuse.ENOTDIR
	case provider.NoSuchEntry:
		return -fuse.ENOENT
	case provider.OutOfRange:
		return -fuse.EIO
	default:
		return -fuse.EIO
	}
}
