// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package outdir guards an output directory so only one fetch run writes
// to it at a time.
package outdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFile = ".filing-engine.lock"

// ErrLocked is returned when another run holds the directory lock.
var ErrLocked = errors.New("output directory is locked by another run")

// Lock is a held lock on an output directory.
type Lock struct {
	dir  string
	lock *flock.Flock
}

// Acquire creates dir if needed and takes its lock without blocking.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	fl := flock.New(filepath.Join(dir, lockFile))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}
	return &Lock{dir: dir, lock: fl}, nil
}

// Dir returns the locked directory.
func (l *Lock) Dir() string { return l.dir }

// Release unlocks the directory. The lock file is left in place.
func (l *Lock) Release() error {
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
