//go:build linux

package affinity

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// maxThreadNameLen is the kernel's comm field limit (15 bytes + NUL).
const maxThreadNameLen = 15

func setName(name string) error {
	if len(name) > maxThreadNameLen {
		name = name[:maxThreadNameLen]
	}
	buf := append([]byte(name), 0)
	return unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(&buf[0])), 0, 0, 0)
}
