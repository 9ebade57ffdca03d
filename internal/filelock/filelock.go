// Package filelock serializes writers of exported resolution files.
//
// Several modelout processes (a watch loop and a one-off resolve, say) may
// export to the same path. Writers take an advisory lock on "<path>.lock"
// and replace the target atomically, so readers never see a partial file.
package filelock

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// retryDelay is how often LockContext polls a held lock
const retryDelay = 50 * time.Millisecond

// FileLock is an advisory lock backed by a lock file
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock returns an unlocked FileLock on path
func NewFileLock(path string) *FileLock {
	return &FileLock{flock: flock.New(path), path: path}
}

// Path returns the lock file path
func (fl *FileLock) Path() string {
	return fl.path
}

// LockContext blocks until the lock is held or ctx is done
func (fl *FileLock) LockContext(ctx context.Context) error {
	ok, err := fl.flock.TryLockContext(ctx, retryDelay)
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	if !ok {
		return fmt.Errorf("failed to acquire lock on %s", fl.path)
	}
	return nil
}

// TryLock takes the lock if it is free and reports whether it did
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// AtomicWrite writes data to a temp file in the target directory and renames
// it over path.
func AtomicWrite(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	return nil
}

// LockAndWrite atomically replaces path while holding "<path>.lock"
func LockAndWrite(ctx context.Context, path string, data []byte) error {
	lock := NewFileLock(path + ".lock")
	if err := lock.LockContext(ctx); err != nil {
		return err
	}
	defer lock.Unlock()

	return AtomicWrite(path, data)
}

// WriteJSON encodes v as indented JSON and writes it with LockAndWrite
func WriteJSON(ctx context.Context, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return LockAndWrite(ctx, path, append(data, '\n'))
}
