// Package backup keeps quarantine copies of state files that could not be
// parsed, so a corrupt store is never silently thrown away.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/eduardolat/pwforge/internal/nanoid"
)

const (
	// FileMode is the permission mode for quarantine copies
	FileMode = 0600
	// Marker separates the original file name from the quarantine suffix
	Marker = ".corrupt_"
	// DefaultRetentionCount is the default number of copies to keep
	DefaultRetentionCount = 5
)

// Manager handles quarantine creation and rotation
type Manager struct {
	// idGenerator allows for dependency injection in tests
	idGenerator func() (string, error)
	// timeNow allows for dependency injection in tests
	timeNow func() time.Time
}

// New creates a new backup Manager
func New() *Manager {
	return &Manager{
		idGenerator: nanoid.Generate,
		timeNow:     time.Now,
	}
}

// NewWithDeps creates a new backup Manager with custom dependencies (for testing)
func NewWithDeps(idGen func() (string, error), timeNow func() time.Time) *Manager {
	return &Manager{
		idGenerator: idGen,
		timeNow:     timeNow,
	}
}

// Quarantine copies the file at path next to it as
// <name>.corrupt_<timestamp>_<id>.
// Returns the copy's path, or empty string if nothing was copied.
// A missing or empty file is not copied.
func (m *Manager) Quarantine(path string) (string, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to stat %s: %w", filepath.Base(path), err)
	}

	if stat.Size() == 0 {
		return "", nil
	}

	timestamp := m.timeNow().UTC().Format("20060102_150405")
	id, err := m.idGenerator()
	if err != nil {
		return "", fmt.Errorf("failed to generate backup ID: %w", err)
	}
	copyPath := fmt.Sprintf("%s%s%s_%s", path, Marker, timestamp, id)

	if err := m.copyFile(path, copyPath); err != nil {
		return "", err
	}

	return copyPath, nil
}

// copyFile copies a file with restrictive permissions
func (m *Manager) copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, FileMode)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer func() { _ = dstFile.Close() }()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}

	if err := dstFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync backup file: %w", err)
	}

	return nil
}

// Rotate removes old quarantine copies of path, keeping only the newest
// retentionCount. Oldest files are deleted first (the name embeds the timestamp).
func (m *Manager) Rotate(path string, retentionCount int) ([]string, error) {
	if retentionCount < 0 {
		return nil, fmt.Errorf("retention count cannot be negative")
	}

	dir := filepath.Dir(path)
	prefix := filepath.Base(path) + Marker

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), prefix) {
			backups = append(backups, entry.Name())
		}
	}

	// Alphabetical = chronological
	sort.Strings(backups)

	deleteCount := len(backups) - retentionCount
	if deleteCount <= 0 {
		return nil, nil
	}

	deleted := make([]string, 0, deleteCount)
	for i := 0; i < deleteCount; i++ {
		if err := os.Remove(filepath.Join(dir, backups[i])); err != nil {
			return deleted, fmt.Errorf("failed to remove backup %s: %w", backups[i], err)
		}
		deleted = append(deleted, backups[i])
	}

	return deleted, nil
}

// ManagerProvider is an interface for quarantine management
type ManagerProvider interface {
	Quarantine(path string) (string, error)
	Rotate(path string, retentionCount int) ([]string, error)
}
