//go:build windows

package affinity

import "golang.org/x/sys/windows"

func pin(cpu int) error {
	mask := uintptr(1) << uint(cpu)
	_, err := windows.SetThreadAffinityMask(windows.CurrentThread(), mask)
	return err
}
