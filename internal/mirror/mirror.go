// Package mirror writes a verbatim copy of captured output to a file as
// it arrives, optionally holding an exclusive advisory lock on it.
package mirror

import (
	"errors"
	"fmt"
	"os"

	"github.com/deixis/cronhide/internal/flock"
)

// ErrLockConflict is returned by Lock and OpenLocked when another
// process already holds the lock on the mirror file.
var ErrLockConflict = errors.New("mirror file is locked by another process")

// File is an open mirror file.
type File struct {
	f      *os.File
	locked bool
}

// Open creates or truncates path for writing.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening mirror %s: %w", path, err)
	}
	return &File{f: f}, nil
}

// OpenLocked opens path, takes the lock, and only then truncates it, so
// a run that loses the lock race leaves the holder's file untouched.
func OpenLocked(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening mirror %s: %w", path, err)
	}
	m := &File{f: f}
	if err := m.Lock(); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Truncate(0); err != nil {
		m.Close()
		return nil, fmt.Errorf("truncating mirror %s: %w", path, err)
	}
	return m, nil
}

// Lock takes a non-blocking exclusive lock on the file.
func (m *File) Lock() error {
	if err := flock.TryExclusive(m.f); err != nil {
		if errors.Is(err, flock.ErrWouldBlock) {
			return fmt.Errorf("%s: %w", m.f.Name(), ErrLockConflict)
		}
		return err
	}
	m.locked = true
	return nil
}

// Write appends p to the file.
func (m *File) Write(p []byte) (int, error) {
	return m.f.Write(p)
}

// Name returns the path the mirror was opened with.
func (m *File) Name() string { return m.f.Name() }

// Close flushes the file to disk, releases the lock if held, and closes
// it. The first error encountered is returned.
func (m *File) Close() error {
	err := m.f.Sync()
	if m.locked {
		if uerr := flock.Unlock(m.f); err == nil {
			err = uerr
		}
		m.locked = false
	}
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	return err
}
