package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/eduardolat/pwforge/internal/kvstore"
)

// DefaultSlot is the key-value slot the history is stored under
const DefaultSlot = "passwordHistory"

// Store loads and saves a whole history
type Store interface {
	// Load returns the persisted history. Missing or unreadable state
	// yields an empty history.
	Load() ([]string, error)
	// Save persists the history, truncated to MaxEntries
	Save(history []string) error
	// Clear removes the persisted history
	Clear() error
}

// BlobStore keeps the history as a JSON array of strings in one slot of a
// key-value store
type BlobStore struct {
	kv     kvstore.Store
	slot   string
	logger *slog.Logger
}

// NewBlobStore creates a BlobStore. An empty slot selects DefaultSlot.
func NewBlobStore(kv kvstore.Store, slot string, logger *slog.Logger) *BlobStore {
	if slot == "" {
		slot = DefaultSlot
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &BlobStore{kv: kv, slot: slot, logger: logger}
}

// Load implements Store. It never fails: a missing slot, a corrupt store
// or a value that is not an array of strings all load as empty.
func (s *BlobStore) Load() ([]string, error) {
	raw, ok, err := s.kv.Get(s.slot)
	if err != nil {
		if errors.Is(err, kvstore.ErrCorrupt) {
			s.logger.Warn("history store is corrupt, starting with empty history",
				"slot", s.slot,
				"error", err)
		} else {
			s.logger.Warn("failed to read history, starting with empty history",
				"slot", s.slot,
				"error", err)
		}
		return []string{}, nil
	}
	if !ok {
		s.logger.Debug("no saved history", "slot", s.slot)
		return []string{}, nil
	}

	var entries []string
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.logger.Warn("saved history is malformed, starting with empty history",
			"slot", s.slot,
			"error", err)
		return []string{}, nil
	}

	s.logger.Debug("history loaded", "slot", s.slot, "entries", len(entries))
	return Truncate(entries), nil
}

// Save implements Store
func (s *BlobStore) Save(history []string) error {
	data, err := json.Marshal(Truncate(history))
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := s.kv.Set(s.slot, string(data)); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// Clear implements Store
func (s *BlobStore) Clear() error {
	if err := s.kv.Delete(s.slot); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory Store for tests and for running without
// persistence
type MemoryStore struct {
	mu      sync.Mutex
	entries []string
	// SaveErr, when set, is returned by Save
	SaveErr error
}

// NewMemoryStore creates a MemoryStore holding the given entries
func NewMemoryStore(entries ...string) *MemoryStore {
	return &MemoryStore{entries: Truncate(entries)}
}

// Load implements Store
func (m *MemoryStore) Load() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Truncate(m.entries), nil
}

// Save implements Store
func (m *MemoryStore) Save(history []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.entries = Truncate(history)
	return nil
}

// Clear implements Store
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}
