package fastv7

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClock(tb *fakeTimebase, wall *fakeWall, interval time.Duration) hybridClock {
	return newHybridClock(tb, wall.now, interval, zap.NewNop())
}

func TestClockFirstCallReadsWall(t *testing.T) {
	tb := &fakeTimebase{ticks: 5, perMilli: 1000}
	wall := &fakeWall{ms: testEpochMillis}
	c := newTestClock(tb, wall, 100*time.Microsecond)

	require.Equal(t, uint64(testEpochMillis), c.current())
	require.Equal(t, 1, wall.reads)
	require.True(t, c.synced)
	require.NotZero(t, c.ticksPerMilli)
}

func TestClockFastPathSkipsWall(t *testing.T) {
	tb := &fakeTimebase{perMilli: 1000}
	wall := &fakeWall{ms: testEpochMillis}
	c := newTestClock(tb, wall, 100*time.Microsecond)

	c.current()
	require.Equal(t, uint64(100), c.window)
	require.Equal(t, uint64(900), c.driftBudget)

	wall.ms += 3
	for i := 0; i < 99; i++ {
		tb.ticks++
		require.Equal(t, uint64(testEpochMillis), c.current())
	}
	require.Equal(t, 1, wall.reads)

	tb.ticks++ // elapsed == window
	require.Equal(t, uint64(testEpochMillis+3), c.current())
	require.Equal(t, 2, wall.reads)
}

func TestClockBackwardTicksAreClamped(t *testing.T) {
	tb := &fakeTimebase{ticks: 10_000, perMilli: 1000}
	wall := &fakeWall{ms: testEpochMillis}
	c := newTestClock(tb, wall, 100*time.Microsecond)

	c.current()
	tb.ticks = 10
	wall.ms++
	require.Equal(t, uint64(testEpochMillis), c.current())
	require.Equal(t, 1, wall.reads)
}

func TestClockCounterResetCatchesUpWithinWindow(t *testing.T) {
	tb := &fakeTimebase{ticks: 1_000_000_000, perMilli: 1000}
	wall := &fakeWall{ms: testEpochMillis}
	c := newTestClock(tb, wall, 100*time.Microsecond)
	c.current()

	tb.ticks = 0
	wall.ms += 5
	require.Equal(t, uint64(testEpochMillis), c.current())
	require.Equal(t, uint64(0), c.anchorTicks)

	tb.ticks += c.window
	require.Equal(t, uint64(testEpochMillis+5), c.current())

	for i := 0; i < 60_000; i++ {
		tb.ticks += 1000
		wall.ms++
		require.Equal(t, uint64(wall.ms), c.current())
	}
	require.Equal(t, uint64(1000), c.ticksPerMilli)
}

func TestClockNeverMovesBackward(t *testing.T) {
	tb := &fakeTimebase{perMilli: 1000}
	wall := &fakeWall{ms: testEpochMillis}
	c := newTestClock(tb, wall, 0)

	require.Equal(t, uint64(testEpochMillis), c.current())

	wall.ms -= 500
	tb.ticks += 10_000
	require.Equal(t, uint64(testEpochMillis), c.current())

	wall.ms = testEpochMillis + 1
	tb.ticks += 10_000
	require.Equal(t, uint64(testEpochMillis+1), c.current())
}

func TestClockZeroIntervalAlwaysReadsWall(t *testing.T) {
	tb := &fakeTimebase{perMilli: 1000}
	wall := &fakeWall{ms: testEpochMillis}
	c := newTestClock(tb, wall, 0)

	for i := 0; i < 10; i++ {
		c.current()
	}
	require.Equal(t, 10, wall.reads)
}

func TestClockCalibration(t *testing.T) {
	tb := &fakeTimebase{perMilli: 1000}
	wall := &fakeWall{ms: testEpochMillis}
	c := newTestClock(tb, wall, 100*time.Microsecond)
	c.current()

	// real rate is 5000 ticks/ms
	tb.ticks += 50_000
	wall.ms += 10
	require.Equal(t, uint64(testEpochMillis+10), c.current())
	require.Equal(t, uint64(5000), c.ticksPerMilli)
	require.Equal(t, uint64(500), c.window)
	require.Equal(t, uint64(4500), c.driftBudget)

	// later samples are smoothed
	tb.ticks += 70_000
	wall.ms += 10
	c.current()
	require.Equal(t, uint64((5000*3+7000)/4), c.ticksPerMilli)
}

func TestClockCalibrationNeedsWindow(t *testing.T) {
	tb := &fakeTimebase{perMilli: 1000}
	wall := &fakeWall{ms: testEpochMillis}
	c := newTestClock(tb, wall, 100*time.Microsecond)
	c.current()

	tb.ticks += 7_000
	wall.ms += minCalibrationMillis - 1
	c.current()
	require.Equal(t, uint64(1000), c.ticksPerMilli)
	require.False(t, c.calibrated)
}

func TestClockWallRegressionRestartsCalibration(t *testing.T) {
	tb := &fakeTimebase{perMilli: 1000}
	wall := &fakeWall{ms: testEpochMillis}
	c := newTestClock(tb, wall, 100*time.Microsecond)
	c.current()

	tb.ticks += 1_000_000
	wall.ms -= 1000
	c.current()
	require.Equal(t, uint64(testEpochMillis-1000), c.calMillis)
	require.Equal(t, tb.ticks, c.calTicks)
	require.Equal(t, uint64(1000), c.ticksPerMilli)
}

func TestClockUnknownRateUsesDefault(t *testing.T) {
	tb := &fakeTimebase{}
	wall := &fakeWall{ms: testEpochMillis}
	c := newTestClock(tb, wall, time.Millisecond)
	require.Equal(t, uint64(defaultTicksPerMilli), c.ticksPerMilli)
	// the window always keeps at least one tick of drift budget
	require.Equal(t, uint64(defaultTicksPerMilli-1), c.window)
	require.Equal(t, uint64(1), c.driftBudget)
}

func TestClockPreEpochWallIsZero(t *testing.T) {
	tb := &fakeTimebase{perMilli: 1000}
	wall := &fakeWall{ms: -42}
	c := newTestClock(tb, wall, 0)
	require.Zero(t, c.current())
}

func TestClockTracksRealTime(t *testing.T) {
	c := newHybridClock(DefaultTimebase(), wallMillis, defaultResyncInterval, zap.NewNop())

	start := time.Now()
	first := c.current()
	last := first
	for time.Since(start) < 100*time.Millisecond {
		ms := c.current()
		if ms < last {
			t.Fatalf("clock went backwards: %d < %d", ms, last)
		}
		last = ms
	}
	require.GreaterOrEqual(t, last-first, uint64(95), "clock advanced only %dms in 100ms", last-first)

	now := uint64(time.Now().UnixMilli())
	require.InDelta(t, float64(now), float64(c.current()), 2)
}

func TestClockIgnoresCounterJump(t *testing.T) {
	tb := &fakeTimebase{perMilli: 1000}
	wall := &fakeWall{ms: testEpochMillis}
	c := newTestClock(tb, wall, 100*time.Microsecond)
	c.current()

	// a migrated VM: the counter leaps ahead while 10ms of wall time pass
	tb.ticks += 1_000_000_000
	wall.ms += 10
	require.Equal(t, uint64(testEpochMillis+10), c.current())
	require.Equal(t, uint64(1000), c.ticksPerMilli)
	require.Equal(t, uint64(100), c.window)
	require.False(t, c.calibrated)
	require.Equal(t, tb.ticks, c.calTicks, "calibration window restarts after a jump")

	var worstLag int64
	for i := 0; i < 60_000; i++ {
		tb.ticks += 1000
		wall.ms++
		worstLag = max(worstLag, wall.ms-int64(c.current()))
	}
	require.Zero(t, worstLag)
	require.True(t, c.calibrated)
	require.Equal(t, uint64(1000), c.ticksPerMilli)
}

func TestClockIgnoresJumpAfterCalibration(t *testing.T) {
	tb := &fakeTimebase{perMilli: 1000}
	wall := &fakeWall{ms: testEpochMillis}
	c := newTestClock(tb, wall, 100*time.Microsecond)
	c.current()

	tb.ticks += 10_000
	wall.ms += 10
	c.current()
	require.True(t, c.calibrated)
	require.Equal(t, uint64(1000), c.ticksPerMilli)

	// 9x the nominal rate
	tb.ticks += 90_000
	wall.ms += 10
	c.current()
	require.Equal(t, uint64(1000), c.ticksPerMilli)
	require.Equal(t, uint64(100), c.window)
}
