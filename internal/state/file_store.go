package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/didyoueat/didyoueat/internal/filelock"
)

const lockTimeout = 2 * time.Second

// FileStore keeps the blob in a single JSON file, optionally sealed.
type FileStore struct {
	path       string
	passphrase string
	lock       *filelock.FileLock
}

// NewFileStore creates a store at path. A non-empty passphrase seals the blob.
func NewFileStore(path, passphrase string) *FileStore {
	return &FileStore{
		path:       path,
		passphrase: passphrase,
		lock:       filelock.New(path),
	}
}

// Path returns the blob location.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load(ctx context.Context) State {
	st, err := f.Read(ctx)
	return loadOrDefault(st, err, f.path)
}

func (f *FileStore) Read(ctx context.Context) (State, error) {
	var raw []byte
	err := f.lock.With(ctx, lockTimeout, func() error {
		var readErr error
		raw, readErr = os.ReadFile(f.path)
		return readErr
	})
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("failed to read state: %w", err)
	}
	return decode(raw, f.passphrase)
}

func (f *FileStore) Save(ctx context.Context, s State) error {
	data, err := encode(s, f.passphrase)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	return f.lock.With(ctx, lockTimeout, func() error {
		tmp := f.path + ".tmp"
		if err := os.WriteFile(tmp, data, 0600); err != nil {
			return fmt.Errorf("failed to write state: %w", err)
		}
		if err := os.Rename(tmp, f.path); err != nil {
			return fmt.Errorf("failed to replace state: %w", err)
		}
		return nil
	})
}

func (f *FileStore) Reset(ctx context.Context) error {
	return f.lock.With(ctx, lockTimeout, func() error {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove state: %w", err)
		}
		return nil
	})
}

func (f *FileStore) Close() error { return nil }
