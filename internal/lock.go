package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DirLock is an advisory lock on a data directory, held for the life of a session
type DirLock struct {
	file *os.File
	path string
}

// AcquireDirLock takes the exclusive lock at lockPath without blocking.
// A lock held elsewhere fails with an error wrapping ErrLocked.
func AcquireDirLock(lockPath string) (*DirLock, error) {
	if err := EnsureDir(filepath.Dir(lockPath)); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, &IOError{Op: "open", Path: lockPath, Err: err}
	}

	if err := flockExclusive(f); err != nil {
		_ = f.Close()
		if errors.Is(err, errLockHeld) {
			return nil, fmt.Errorf("%s is used by another buddy session: %w", filepath.Dir(lockPath), ErrLocked)
		}
		return nil, &IOError{Op: "lock", Path: lockPath, Err: err}
	}

	return &DirLock{file: f, path: lockPath}, nil
}

// Release unlocks and closes the lock file. Releasing a nil lock is a no-op.
func (l *DirLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}

	if err := flockUnlock(l.file); err != nil {
		_ = l.file.Close()
		l.file = nil
		return fmt.Errorf("unlock: %w", err)
	}

	err := l.file.Close()
	l.file = nil
	if err != nil {
		return fmt.Errorf("close lock file: %w", err)
	}
	return nil
}
