//go:build unix

package hostfs

import (
	"os"

	"golang.org/x/sys/unix"
)

const lineEnding = "\n"

func lockFile(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX)
}

func unlockFile(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
