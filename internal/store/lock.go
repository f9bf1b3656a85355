package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileSuffix = ".lock"

// ErrLocked is returned when another process holds the session lock.
var ErrLocked = errors.New("store: another review session is running")

// SessionLock is a file lock next to the database that keeps a single
// review session per database.
type SessionLock struct {
	lock *flock.Flock
	path string
}

// NewSessionLock creates the lock for the database at dbPath.
func NewSessionLock(dbPath string) (*SessionLock, error) {
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("could not get absolute db path: %w", err)
	}
	p := abs + lockFileSuffix
	return &SessionLock{lock: flock.New(p), path: p}, nil
}

// TryLock acquires the lock without waiting. It returns ErrLocked if the
// lock is held elsewhere.
func (l *SessionLock) TryLock() error {
	locked, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", l.path, err)
	}
	if !locked {
		return ErrLocked
	}
	return nil
}

// Unlock releases the lock.
func (l *SessionLock) Unlock() error {
	if err := l.lock.Unlock(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}
