package repository

import (
	"time"

	"github.com/okian/bakeoff/pkg/logger"
)

const defaultSlowQuery = 200 * time.Millisecond

type options struct {
	clock     func() time.Time
	log       logger.Logger
	slowQuery time.Duration
}

// Option configures a store.
type Option func(*options)

func newOptions(opts ...Option) options {
	o := options{clock: time.Now, slowQuery: defaultSlowQuery}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithLogger routes SQL store diagnostics to l.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithSlowQueryThreshold sets the duration above which SQL statements are logged as slow.
func WithSlowQueryThreshold(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.slowQuery = d
		}
	}
}
