// Package filelock provides an advisory lock around the persisted state file
// so a running watcher and one-shot commands do not interleave writes.
package filelock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// FileLock represents a file-based lock
type FileLock struct {
	path string
	file *os.File
}

// New creates a lock for path; the lock file is path + ".lock".
func New(path string) *FileLock {
	return &FileLock{path: path + ".lock"}
}

// Path returns the lock file location.
func (fl *FileLock) Path() string {
	return fl.path
}

// TryLock attempts to acquire an exclusive lock without blocking.
// Returns true if the lock was acquired.
func (fl *FileLock) TryLock() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(fl.path), 0700); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(fl.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return false, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		if err == syscall.EWOULDBLOCK {
			return false, nil
		}
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}

	fl.file = f
	return true, nil
}

// ErrTimeout is returned when the lock is still held by another process at
// the deadline.
var ErrTimeout = errors.New("timed out waiting for file lock")

// Lock polls TryLock with backoff until it succeeds, timeout elapses, or ctx
// is done.
func (fl *FileLock) Lock(ctx context.Context, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	retry := 10 * time.Millisecond

	for {
		acquired, err := fl.TryLock()
		if err != nil {
			return err
		}
		if acquired {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return fmt.Errorf("%w: %s", ErrTimeout, fl.path)
		case <-time.After(retry):
		}
		if retry < 100*time.Millisecond {
			retry *= 2
		}
	}
}

// Unlock releases the lock
func (fl *FileLock) Unlock() error {
	if fl.file == nil {
		return nil
	}

	err := syscall.Flock(int(fl.file.Fd()), syscall.LOCK_UN)
	closeErr := fl.file.Close()
	fl.file = nil

	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close lock file: %w", closeErr)
	}
	return nil
}

// With runs fn while holding the lock.
func (fl *FileLock) With(ctx context.Context, timeout time.Duration, fn func() error) error {
	if err := fl.Lock(ctx, timeout); err != nil {
		return err
	}
	defer fl.Unlock()
	return fn()
}
