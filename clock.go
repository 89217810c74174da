package fastv7

import (
	"time"

	"go.uber.org/zap"
)

const (
	// defaultResyncInterval is how long the clock trusts the timebase
	// before reading the wall clock again.
	defaultResyncInterval = 100 * time.Microsecond

	// minCalibrationMillis is the shortest wall-clock window used to
	// re-estimate the tick rate.
	minCalibrationMillis = 8

	// Calibration samples further than nominalRateSkew times from the
	// nominal rate are counter jumps, not frequencies. This also bounds the
	// trusted window to nominalRateSkew resync intervals.
	nominalRateSkew = 8
)

// hybridClock returns the current Unix millisecond, reading the wall clock
// only when the timebase says a resync interval has passed.
//
// It is owned by a single Generator and is not safe for concurrent use.
type hybridClock struct {
	tb   Timebase
	wall func() int64
	log  *zap.Logger

	lastMillis    uint64
	anchorTicks   uint64
	ticksPerMilli uint64
	nominal       uint64
	// driftBudget is the part of a millisecond (in ticks) the fast path
	// never trusts, so rate errors and counter skew cannot hide a
	// millisecond boundary.
	driftBudget uint64
	// window is ticksPerMilli - driftBudget, cached for the fast path.
	window   uint64
	interval time.Duration

	calTicks   uint64
	calMillis  uint64
	calibrated bool
	synced     bool
}

func newHybridClock(tb Timebase, wall func() int64, interval time.Duration, log *zap.Logger) hybridClock {
	c := hybridClock{
		tb:       tb,
		wall:     wall,
		log:      log,
		interval: min(max(interval, 0), time.Millisecond),
	}
	per := tb.TicksPerMilli()
	if per == 0 {
		per = defaultTicksPerMilli
	}
	c.nominal = per
	c.setRate(per)
	return c
}

func (c *hybridClock) setRate(perMilli uint64) {
	if perMilli == 0 {
		perMilli = 1
	}
	trusted := perMilli * uint64(c.interval) / uint64(time.Millisecond)
	if trusted >= perMilli {
		trusted = perMilli - 1
	}
	c.ticksPerMilli = perMilli
	c.driftBudget = perMilli - trusted
	c.window = trusted
}

// current returns the current millisecond. It never returns a value
// smaller than a previous result.
func (c *hybridClock) current() uint64 {
	now := c.tb.Ticks()
	var elapsed uint64
	if now > c.anchorTicks {
		elapsed = now - c.anchorTicks
	} else if now < c.anchorTicks {
		// counter went backward: count from here so the next resync is
		// at most one window away
		c.anchorTicks = now
	}
	if c.synced && elapsed < c.window {
		return c.lastMillis
	}
	return c.resync(now)
}

func (c *hybridClock) resync(now uint64) uint64 {
	t := c.readWall()
	c.anchorTicks = now

	switch {
	case !c.synced:
		c.synced = true
		c.calTicks, c.calMillis = now, t
	case t < c.calMillis || now < c.calTicks:
		// wall clock stepped back or the counter was reset: restart the
		// calibration window
		c.calTicks, c.calMillis = now, t
	case t-c.calMillis >= minCalibrationMillis && now > c.calTicks:
		c.calibrate((now - c.calTicks) / (t - c.calMillis))
		c.calTicks, c.calMillis = now, t
	}

	if t > c.lastMillis {
		c.lastMillis = t
	} else if t < c.lastMillis {
		if ce := c.log.Check(zap.DebugLevel, "fastv7: wall clock behind last issued millisecond"); ce != nil {
			ce.Write(zap.Uint64("wall_ms", t), zap.Uint64("last_ms", c.lastMillis))
		}
	}
	return c.lastMillis
}

func (c *hybridClock) calibrate(sample uint64) {
	if !c.plausible(sample) {
		if ce := c.log.Check(zap.DebugLevel, "fastv7: calibration sample rejected"); ce != nil {
			ce.Write(zap.Uint64("sample_ticks_per_ms", sample), zap.Uint64("ticks_per_ms", c.ticksPerMilli))
		}
		return
	}
	rate := sample
	if c.calibrated {
		rate = (c.ticksPerMilli*3 + sample) / 4
	}
	c.calibrated = true
	if rate == c.ticksPerMilli {
		return
	}
	c.setRate(rate)
	if ce := c.log.Check(zap.DebugLevel, "fastv7: timebase recalibrated"); ce != nil {
		ce.Write(zap.Uint64("ticks_per_ms", rate), zap.Uint64("window_ticks", c.window))
	}
}

// plausible reports whether a measured rate can be a real counter
// frequency rather than a jump of the counter between two resyncs.
func (c *hybridClock) plausible(sample uint64) bool {
	return sample > 0 && sample >= c.nominal/nominalRateSkew && sample <= c.nominal*nominalRateSkew
}

// readWall returns the wall clock in Unix milliseconds; times before the
// epoch read as zero.
func (c *hybridClock) readWall() uint64 {
	ms := c.wall()
	if ms < 0 {
		return 0
	}
	return uint64(ms)
}

func wallMillis() int64 {
	return time.Now().UnixMilli()
}
