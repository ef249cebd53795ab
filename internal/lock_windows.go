//go:build windows

package internal

import (
	"errors"
	"os"
	"syscall"
	"unsafe"
)

var errLockHeld = errors.New("lock is held by another process")

var (
	kernel32         = syscall.NewLazyDLL("kernel32.dll")
	procLockFileEx   = kernel32.NewProc("LockFileEx")
	procUnlockFileEx = kernel32.NewProc("UnlockFileEx")
)

const (
	lockfileExclusiveLock   = 0x2
	lockfileFailImmediately = 0x1

	errorLockViolation syscall.Errno = 33
)

func flockExclusive(f *os.File) error {
	var overlapped syscall.Overlapped

	r1, _, err := procLockFileEx.Call(
		f.Fd(),
		uintptr(lockfileExclusiveLock|lockfileFailImmediately),
		0,
		1,
		0,
		uintptr(unsafe.Pointer(&overlapped)),
	)
	if r1 == 0 {
		if err == errorLockViolation {
			return errLockHeld
		}
		return err
	}
	return nil
}

func flockUnlock(f *os.File) error {
	var overlapped syscall.Overlapped

	r1, _, err := procUnlockFileEx.Call(
		f.Fd(),
		0,
		1,
		0,
		uintptr(unsafe.Pointer(&overlapped)),
	)
	if r1 == 0 {
		return err
	}
	return nil
}
