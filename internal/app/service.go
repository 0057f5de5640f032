// Package service provides the league service behind the HTTP API: weekly
// score admission, season recalculation, leaderboards and admin operations.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	repository "github.com/okian/bakeoff/internal/adapters/repository"
	"github.com/okian/bakeoff/internal/domain/dedupe"
	"github.com/okian/bakeoff/internal/domain/errs"
	"github.com/okian/bakeoff/internal/domain/season"
	"github.com/okian/bakeoff/pkg/logger"
)

// RosterSize is the number of contestants on a settled roster.
const RosterSize = 3

// Service implements the API dependencies for the league.
//
// Every write goes through writeMu so the admission check-then-write and the
// full season rebuild never interleave with another writer.
type Service struct {
	mu      sync.RWMutex
	writeMu sync.Mutex

	store   repository.Store
	deduper dedupe.Deduper

	// Configuration
	seasonWeeks int
	dedupeSize  int

	// State
	started bool
	recalc  recalcStats

	logger logger.Logger
}

type recalcStats struct {
	at       time.Time
	duration time.Duration
	rows     int
	runID    string
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the entity store. Defaults to an in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDeduper sets the idempotency key memory.
func WithDeduper(d dedupe.Deduper) Option {
	return func(s *Service) {
		if d != nil {
			s.deduper = d
		}
	}
}

// WithDedupeSize bounds the default idempotency key memory.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithSeasonWeeks sets the number of weeks aggregated into season totals.
func WithSeasonWeeks(weeks int) Option {
	return func(s *Service) {
		if weeks > 0 {
			s.seasonWeeks = weeks
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Missing collaborators get in-memory defaults.
func New(opts ...Option) *Service {
	s := &Service{
		seasonWeeks: season.DefaultWeeks,
		dedupeSize:  10_000,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	if s.deduper == nil {
		s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger = s.logger.Named("service")
	return s
}

// Start rebuilds the season totals once so the derived table matches the
// stored scores, then marks the service as started.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.logger.Info(ctx, "starting league service...", logger.Int("seasonWeeks", s.seasonWeeks))
	if err := s.RecalculateSeasonTotals(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	s.logger.Info(ctx, "league service started")
	return nil
}

// Stop closes the store. It is safe to call more than once.
func (s *Service) Stop() {
	// Lock order is writeMu then mu, as in recalculation.
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping league service...")
	if err := s.store.Close(); err != nil {
		s.logger.Error(context.Background(), "failed to close store", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "league service stopped")
}

// Reset empties every table and forgets every idempotency key.
func (s *Service) Reset(ctx context.Context) error {
	const op = "service.reset"
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return s.fail(ctx, op, err)
	}
	s.deduper.Clear(ctx)
	s.logger.Warn(ctx, "league reset")
	_, err := s.recalculateLocked(ctx)
	return err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) (map[string]interface{}, error) {
	counts, err := s.store.Counts(ctx)
	if err != nil {
		return nil, s.fail(ctx, "service.get_stats", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := map[string]interface{}{
		"started":         s.started,
		"seasonWeeks":     s.seasonWeeks,
		"players":         counts.Players,
		"contestants":     counts.Contestants,
		"teams":           counts.Teams,
		"weeklyScores":    counts.WeeklyScores,
		"seasonTotals":    counts.SeasonTotals,
		"idempotencyKeys": s.deduper.Size(),
	}
	if !s.recalc.at.IsZero() {
		stats["lastRecalculation"] = s.recalc.at.UTC().Format(time.RFC3339)
		stats["lastRecalculationMs"] = float64(s.recalc.duration.Microseconds()) / 1000
		stats["lastRecalculationRows"] = s.recalc.rows
		stats["lastRecalculationRun"] = s.recalc.runID
	}
	return stats, nil
}

// SeasonWeeks returns the configured season length.
func (s *Service) SeasonWeeks() int {
	return s.seasonWeeks
}

// fail logs err at the service boundary: storage failures at error level,
// domain rejections at warn. err is returned unchanged.
func (s *Service) fail(ctx context.Context, op string, err error) error {
	if errors.Is(err, errs.ErrStorage) {
		s.logger.Error(ctx, "store operation failed", logger.String("op", op), logger.Error(err))
		return err
	}
	s.logger.Warn(ctx, "request rejected", logger.String("op", op), logger.Error(err))
	return err
}
