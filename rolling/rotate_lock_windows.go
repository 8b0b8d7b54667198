//go:build windows

package rolling

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"
)

// acquireRotationLock takes an exclusive lock on a sentinel file in dir,
// so that two processes sharing a prefix never interleave a rollover. It
// returns a function that releases the lock.
func acquireRotationLock(dir string) (func(), error) {
	f, err := os.OpenFile(filepath.Join(dir, ".rotate.lock"), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	h := windows.Handle(f.Fd())
	overlapped := windows.Overlapped{}
	if err := windows.LockFileEx(h, windows.LOCKFILE_EXCLUSIVE_LOCK, 0, 1, 0, &overlapped); err != nil {
		f.Close()
		return nil, err
	}
	return func() {
		windows.UnlockFileEx(h, 0, 1, 0, &overlapped)
		f.Close()
	}, nil
}
