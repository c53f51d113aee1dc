// Package kvstore provides the local key-value blob that application state
// is persisted in: a single JSON object mapping slot names to string values.
package kvstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/eduardolat/pwforge/internal/atomicfile"
	"github.com/eduardolat/pwforge/internal/backup"
)

var (
	// ErrCorrupt indicates the store file exists but cannot be decoded
	ErrCorrupt = errors.New("store file is corrupt")
)

// Store is a string key-value store
type Store interface {
	// Get returns the value of key and whether it was present
	Get(key string) (string, bool, error)
	// Set stores value under key
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// FileStore keeps all slots in one JSON file
type FileStore struct {
	path      string
	retention int
	logger    *slog.Logger
	writer    atomicfile.WriterProvider
	backups   backup.ManagerProvider
}

// NewFileStore creates a FileStore at path. Corrupt files are quarantined
// before being overwritten, keeping the newest retention copies (0 disables
// quarantine).
func NewFileStore(path string, retention int, logger *slog.Logger) *FileStore {
	return NewFileStoreWithDeps(path, retention, logger, atomicfile.New(), backup.New())
}

// NewFileStoreWithDeps creates a FileStore with custom dependencies (for testing)
func NewFileStoreWithDeps(path string, retention int, logger *slog.Logger, writer atomicfile.WriterProvider, backups backup.ManagerProvider) *FileStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FileStore{
		path:      path,
		retention: retention,
		logger:    logger,
		writer:    writer,
		backups:   backups,
	}
}

// Path returns the location of the store file
func (s *FileStore) Path() string {
	return s.path
}

// Get implements Store
func (s *FileStore) Get(key string) (string, bool, error) {
	slots, err := s.read()
	if err != nil {
		return "", false, err
	}
	value, ok := slots[key]
	return value, ok, nil
}

// Set implements Store
func (s *FileStore) Set(key, value string) error {
	slots, err := s.readForUpdate()
	if err != nil {
		return err
	}
	slots[key] = value
	return s.write(slots)
}

// Delete implements Store
func (s *FileStore) Delete(key string) error {
	slots, err := s.readForUpdate()
	if err != nil {
		return err
	}
	if _, ok := slots[key]; !ok {
		return nil
	}
	delete(slots, key)
	return s.write(slots)
}

// read loads all slots. A missing or blank file is an empty store.
func (s *FileStore) read() (map[string]string, error) {
	content, err := atomicfile.ReadContent(s.path)
	if err != nil {
		return nil, err
	}

	slots := make(map[string]string)
	if len(bytes.TrimSpace(content)) == 0 {
		return slots, nil
	}

	if err := json.Unmarshal(content, &slots); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, s.path, err)
	}
	if slots == nil {
		// literal null
		slots = make(map[string]string)
	}
	return slots, nil
}

// readForUpdate loads slots before a write. A corrupt file is quarantined
// and replaced by an empty store rather than blocking every future write.
func (s *FileStore) readForUpdate() (map[string]string, error) {
	slots, err := s.read()
	if err == nil {
		return slots, nil
	}
	if !errors.Is(err, ErrCorrupt) {
		return nil, err
	}

	s.logger.Warn("store file is corrupt, starting from an empty store",
		"path", s.path,
		"error", err)

	if s.retention > 0 {
		copyPath, qErr := s.backups.Quarantine(s.path)
		if qErr != nil {
			return nil, fmt.Errorf("failed to quarantine corrupt store: %w", qErr)
		}
		if copyPath != "" {
			s.logger.Info("quarantined corrupt store", "path", copyPath)
		}

		deleted, rErr := s.backups.Rotate(s.path, s.retention)
		if rErr != nil {
			s.logger.Warn("failed to rotate quarantined stores", "error", rErr)
		} else if len(deleted) > 0 {
			s.logger.Debug("rotated quarantined stores", "deleted_count", len(deleted))
		}
	}

	return make(map[string]string), nil
}

func (s *FileStore) write(slots map[string]string) error {
	content, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	content = append(content, '\n')

	result, err := s.writer.Write(s.path, content)
	if err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}

	s.logger.Debug("store written",
		"path", result.Path,
		"changed", result.Changed,
		"slots", len(slots))
	return nil
}

// MemoryStore is an in-memory Store
type MemoryStore struct {
	mu    sync.Mutex
	slots map[string]string
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]string)}
}

// Get implements Store
func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.slots[key]
	return value, ok, nil
}

// Set implements Store
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = value
	return nil
}

// Delete implements Store
func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}
