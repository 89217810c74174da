package fastv7

import (
	"time"
)

// Timebase is a cheap, monotonic tick source used to decide when the wall
// clock has to be read again.
//
// Ticks must not require a kernel transition and must be safe to call from
// any goroutine. The resolution is implementation defined: callers may only
// assume that ticks grow roughly linearly with elapsed time.
type Timebase interface {
	// Ticks returns the current counter reading.
	Ticks() uint64
	// TicksPerMilli returns the nominal counter rate. It is only a starting
	// point; the clock recalibrates it against the wall clock.
	// Zero means unknown.
	TicksPerMilli() uint64
	// Name identifies the counter ("tsc", "cntvct", "monotonic").
	Name() string
}

// defaultTicksPerMilli is assumed when the hardware does not report its
// counter frequency (a 2 GHz counter).
const defaultTicksPerMilli = 2_000_000

// DefaultTimebase returns the fastest timebase available for the build:
// the TSC on amd64, the virtual counter on arm64 and the runtime monotonic
// clock everywhere else (or when built with the purego tag).
func DefaultTimebase() Timebase {
	return defaultTimebase
}

// MonotonicTimebase returns the portable fallback timebase backed by the
// runtime monotonic clock. Its ticks are nanoseconds.
func MonotonicTimebase() Timebase {
	return monotonicTimebase{}
}

// monoStart carries the monotonic clock reading that ticks count from.
var monoStart = time.Now()

type monotonicTimebase struct{}

// Ticks returns nanoseconds since package init.
func (monotonicTimebase) Ticks() uint64 {
	return uint64(time.Since(monoStart))
}

func (monotonicTimebase) TicksPerMilli() uint64 {
	return 1_000_000
}

func (monotonicTimebase) Name() string {
	return "monotonic"
}
