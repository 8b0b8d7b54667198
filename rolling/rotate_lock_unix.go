//go:build linux || darwin || freebsd || netbsd || openbsd

package rolling

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// acquireRotationLock takes an exclusive advisory lock on a sentinel file
// in dir, so that two processes sharing a prefix never interleave a
// rollover. It returns a function that releases the lock.
func acquireRotationLock(dir string) (func(), error) {
	f, err := os.OpenFile(filepath.Join(dir, ".rotate.lock"), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, err
	}
	return func() {
		unix.Flock(int(f.Fd()), unix.LOCK_UN)
		f.Close()
	}, nil
}
