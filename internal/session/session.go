// Package session ties generation, scoring and history together for the
// frontend. A Session owns the in-memory history and is the only writer
// of the history store.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/eduardolat/pwforge/internal/config"
	"github.com/eduardolat/pwforge/internal/generator"
	"github.com/eduardolat/pwforge/internal/history"
	"github.com/eduardolat/pwforge/internal/strength"
)

// WarningNoClasses is set on results generated without any character class
const WarningNoClasses = "no character classes selected, nothing to generate"

var (
	// ErrHistoryNotSaved indicates a password was generated but the
	// history could not be persisted
	ErrHistoryNotSaved = errors.New("history not saved")
	// ErrInvalidCount indicates a batch size below one
	ErrInvalidCount = errors.New("count must be at least 1")
)

// Result is the outcome of one generation
type Result struct {
	Password string
	Meter    strength.Meter
	// Estimate is nil when estimates are disabled or the password is empty
	Estimate *strength.Estimate
	// Recorded is true when the password was added to the history
	Recorded bool
	// Warning explains an empty password
	Warning string
}

// Session handles generation requests
type Session struct {
	logger    *slog.Logger
	generator generator.GeneratorProvider
	store     history.Store
	record    bool
	estimate  bool
	history   []string
	timeNow   func() time.Time
}

// New creates a Session and loads the history once. A store that cannot
// be read yields an empty history.
func New(cfg *config.Config, logger *slog.Logger, store history.Store, gen generator.GeneratorProvider) *Session {
	s := &Session{
		logger:    logger,
		generator: gen,
		store:     store,
		record:    cfg.History.IsEnabled(),
		estimate:  cfg.Display.IsEstimateEnabled(),
		timeNow:   time.Now,
	}

	loaded, err := store.Load()
	if err != nil {
		logger.Warn("failed to load history, starting empty", "error", err)
		loaded = []string{}
	}
	s.history = loaded

	logger.Debug("session ready",
		"history_entries", len(s.history),
		"record_history", s.record)
	return s
}

// Generate produces one password for req and records it in the history.
// A request without classes returns an empty password with a warning and
// is never recorded. When the history cannot be saved, the result is
// returned together with an error wrapping ErrHistoryNotSaved.
func (s *Session) Generate(req generator.Request) (*Result, error) {
	start := s.timeNow()

	password, err := s.generator.Generate(req)
	if err != nil {
		s.logger.Error("failed to generate password",
			"length", req.Length,
			"error", err)
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}

	result := &Result{
		Password: password,
		Meter:    strength.IndicatorFor(password),
	}

	if password == "" {
		result.Warning = WarningNoClasses
		s.logger.Warn("no character classes selected",
			"length", req.Length)
		return result, nil
	}

	if s.estimate {
		est := strength.EstimateOf(password)
		result.Estimate = &est
	}

	s.logger.Info("password generated",
		"length", len(password),
		"classes", len(req.Classes()),
		"score", result.Meter.Score,
		"duration_us", s.timeNow().Sub(start).Microseconds())

	if !s.record {
		return result, nil
	}

	s.history = history.Record(s.history, password)
	result.Recorded = true

	if err := s.store.Save(s.history); err != nil {
		s.logger.Error("failed to save history",
			"entries", len(s.history),
			"error", err)
		return result, fmt.Errorf("%w: %w", ErrHistoryNotSaved, err)
	}

	s.logger.Debug("history saved", "entries", len(s.history))
	return result, nil
}

// GenerateBatch generates count passwords. It stops at the first error and
// returns the results produced so far.
func (s *Session) GenerateBatch(req generator.Request, count int) ([]*Result, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}

	results := make([]*Result, 0, count)
	for i := 0; i < count; i++ {
		result, err := s.Generate(req)
		if result != nil {
			results = append(results, result)
		}
		if err != nil {
			return results, err
		}
		if result.Password == "" {
			// Every further attempt would be empty too
			break
		}
	}
	return results, nil
}

// History returns a copy of the current history, most recent first
func (s *Session) History() []string {
	return history.Truncate(s.history)
}

// ClearHistory empties the history and its persisted copy
func (s *Session) ClearHistory() error {
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.history = []string{}
	s.logger.Info("history cleared")
	return nil
}
