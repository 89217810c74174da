package fastv7

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a Generator at construction time.
type Option func(*config)

type config struct {
	timebase       Timebase
	wall           func() int64
	resyncInterval time.Duration
	seeded         bool
	seed1, seed2   uint64
	logger         *zap.Logger
}

func parseConfig(opts []Option) config {
	c := config{
		timebase:       defaultTimebase,
		wall:           wallMillis,
		resyncInterval: defaultResyncInterval,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.timebase == nil {
		c.timebase = defaultTimebase
	}
	if c.wall == nil {
		c.wall = wallMillis
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// WithTimebase replaces the tick source used to skip wall-clock reads.
func WithTimebase(tb Timebase) Option {
	return func(c *config) {
		c.timebase = tb
	}
}

// WithWallClock replaces the wall clock. fn returns Unix milliseconds.
func WithWallClock(fn func() int64) Option {
	return func(c *config) {
		c.wall = fn
	}
}

// WithResyncInterval sets how long the generator trusts the timebase before
// reading the wall clock again. The remainder of each millisecond is the
// drift budget. Values are clamped to [0, 1ms]; zero reads the wall clock
// on every call.
func WithResyncInterval(d time.Duration) Option {
	return func(c *config) {
		c.resyncInterval = d
	}
}

// WithSeed seeds the random filler deterministically instead of from
// crypto/rand. Generators with equal seeds produce equal random bits.
func WithSeed(seed1, seed2 uint64) Option {
	return func(c *config) {
		c.seeded = true
		c.seed1, c.seed2 = seed1, seed2
	}
}

// WithLogger enables debug logging of slow-path events (recalibration,
// wall clock regressions, counter exhaustion).
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
