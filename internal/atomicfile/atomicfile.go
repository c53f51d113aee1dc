// Package atomicfile replaces small state files atomically through a
// synced temp file renamed over the target.
package atomicfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/eduardolat/pwforge/internal/nanoid"
)

const (
	// FileMode is the permission mode for written files (0600)
	FileMode = 0600
	// DirMode is the permission mode for created parent directories
	DirMode = 0700
	// TempFilePrefix is the prefix for temporary files
	TempFilePrefix = ".pwforge_"
)

// Writer handles atomic file writes
type Writer struct {
	// idGenerator allows for dependency injection in tests
	idGenerator func() (string, error)
	// timeNow allows for dependency injection in tests
	timeNow func() time.Time
}

// New creates a new Writer
func New() *Writer {
	return &Writer{
		idGenerator: nanoid.Generate,
		timeNow:     time.Now,
	}
}

// NewWithDeps creates a new Writer with custom dependencies (for testing)
func NewWithDeps(idGen func() (string, error), timeNow func() time.Time) *Writer {
	return &Writer{
		idGenerator: idGen,
		timeNow:     timeNow,
	}
}

// WriteResult contains information about a write operation
type WriteResult struct {
	// Changed indicates whether the file content was different
	Changed bool
	// Path is the final path of the written file
	Path string
}

// Write replaces the file at path with content through a temp file in the
// same directory, so readers see either the old or the new content.
// Identical content is left alone.
func (w *Writer) Write(path string, content []byte) (*WriteResult, error) {
	if current, err := os.ReadFile(path); err == nil && bytes.Equal(current, content) {
		return &WriteResult{Changed: false, Path: path}, nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	tempPath, err := w.tempPath(dir)
	if err != nil {
		return nil, err
	}
	if err := writeSynced(tempPath, content); err != nil {
		return nil, err
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return nil, fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return &WriteResult{Changed: true, Path: path}, nil
}

// tempPath names a temp file as <prefix><utc timestamp>_<id> inside dir
func (w *Writer) tempPath(dir string) (string, error) {
	id, err := w.idGenerator()
	if err != nil {
		return "", fmt.Errorf("failed to generate temp file ID: %w", err)
	}
	stamp := w.timeNow().UTC().Format("20060102_150405")
	return filepath.Join(dir, TempFilePrefix+stamp+"_"+id), nil
}

// writeSynced creates name exclusively and flushes content to disk. On
// failure the file it created is removed; an existing file is never touched.
func writeSynced(name string, content []byte) (err error) {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_EXCL, FileMode)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close temp file: %w", closeErr)
		}
		if err != nil {
			_ = os.Remove(name)
		}
	}()

	// umask may have narrowed the mode given to OpenFile
	if err := f.Chmod(FileMode); err != nil {
		return fmt.Errorf("failed to set temp file permissions: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	return nil
}

// ReadContent reads the file at path. A missing file reads as empty.
func ReadContent(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return []byte{}, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return content, nil
}

// WriterProvider is an interface for atomic file writing
type WriterProvider interface {
	Write(path string, content []byte) (*WriteResult, error)
}
