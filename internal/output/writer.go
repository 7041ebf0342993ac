// Package output persists rendered exports and reports the outcome to the user.
package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

//go:generate mockgen -destination=mocks/mock_output.go -package=mocks -source=writer.go FileWriter,Confirmer

var (
	// ErrFileLocked is returned when another process holds the output lock
	ErrFileLocked = errors.New("output file is locked by another process")

	// ErrAccessDenied is returned when the output file or its directory is not writable
	ErrAccessDenied = errors.New("access denied")
)

// FileWriter defines the interface for saving an export
type FileWriter interface {
	// Write replaces the file at path with data
	Write(path string, data []byte) error
}

// Confirmer asks whether an export should be saved
type Confirmer interface {
	// Confirm returns true when path may be written
	Confirm(path string) (bool, error)
}

// fileWriter implements FileWriter using the local filesystem
type fileWriter struct {
	perm fs.FileMode
}

// NewFileWriter creates a FileWriter that writes files with mode 0644
func NewFileWriter() FileWriter {
	return &fileWriter{perm: 0644}
}

// Write takes an exclusive lock on "<path>.lock", writes a temporary file and
// renames it over path. The lock file persists between writes.
func (w *fileWriter) Write(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return wrapWriteError("failed to create output directory", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return wrapWriteError("failed to lock output file", err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrFileLocked, path)
	}
	// The lock file is left in place; removing it would let two writers lock
	// different inodes under the same name.
	defer func() { _ = lock.Unlock() }()

	// Write to temporary file first for atomic operation
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return wrapWriteError("failed to create temporary file", err)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tempPath)
		return wrapWriteError("failed to write temporary file", err)
	}
	if err := tmp.Chmod(w.perm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tempPath)
		return wrapWriteError("failed to set file mode", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return wrapWriteError("failed to close temporary file", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, path); err != nil {
		// Clean up temp file on error
		_ = os.Remove(tempPath)
		return wrapWriteError("failed to rename output file", err)
	}

	return nil
}

func wrapWriteError(msg string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%s: %w: %w", msg, ErrAccessDenied, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
