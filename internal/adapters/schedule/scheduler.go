// Package schedule runs periodic season recalculations on a cron spec.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/okian/bakeoff/pkg/logger"
)

const defaultJobTimeout = time.Minute

// Recalculator rebuilds the season totals.
type Recalculator interface {
	RecalculateSeasonTotals(ctx context.Context) error
}

// Scheduler triggers Recalculator on a cron spec with seconds precision.
// A tick that fires while the previous run is still going is skipped.
type Scheduler struct {
	cron       *cron.Cron
	spec       string
	target     Recalculator
	log        logger.Logger
	jobTimeout time.Duration
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the scheduler logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// WithJobTimeout bounds a single recalculation run.
func WithJobTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.jobTimeout = d
		}
	}
}

// New validates spec and registers the recalculation job. The scheduler does
// not run until Start.
func New(spec string, target Recalculator, opts ...Option) (*Scheduler, error) {
	s := &Scheduler{spec: spec, target: target, jobTimeout: defaultJobTimeout}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	s.log = s.log.Named("scheduler")

	cl := cronLogger{log: s.log}
	s.cron = cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := s.cron.AddFunc(spec, s.RunNow); err != nil {
		return nil, fmt.Errorf("invalid recalc schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins firing the job in the background.
func (s *Scheduler) Start() {
	s.log.Info(context.Background(), "starting recalculation scheduler", logger.String("spec", s.spec))
	s.cron.Start()
}

// Stop prevents further runs and waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info(ctx, "recalculation scheduler stopped")
	case <-ctx.Done():
		s.log.Warn(ctx, "recalculation scheduler stop timed out", logger.Error(ctx.Err()))
	}
}

// Next returns the next planned run, or the zero time before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunNow performs one recalculation synchronously.
func (s *Scheduler) RunNow() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()
	jobID := uuid.NewString()
	start := time.Now()
	if err := s.target.RecalculateSeasonTotals(ctx); err != nil {
		s.log.Error(ctx, "scheduled recalculation failed", logger.String("jobID", jobID), logger.Error(err))
		return
	}
	s.log.Info(ctx, "scheduled recalculation done",
		logger.String("jobID", jobID),
		logger.Duration("elapsed", time.Since(start)),
	)
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func fields(keysAndValues []interface{}) []logger.Field {
	out := make([]logger.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out = append(out, logger.Any(fmt.Sprint(keysAndValues[i]), keysAndValues[i+1]))
	}
	return out
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug(context.Background(), "cron: "+msg, fields(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Error(context.Background(), "cron: "+msg, append(fields(keysAndValues), logger.Error(err))...)
}
