package fastv7

import (
	crand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/cpu"
)

// Generator produces UUID v7 identifiers.
//
// A Generator owns its clock, sequence and random state and is not safe
// for concurrent use: give each goroutine or worker its own. Within one
// Generator, NextCounted returns strictly increasing IDs. Across
// generators IDs are ordered only by their millisecond timestamps.
type Generator struct {
	clock hybridClock
	seq   sequence
	rng   rand.PCG
	log   *zap.Logger

	// keeps pooled generators on separate cache lines
	_ cpu.CacheLinePad
}

// NewGenerator creates a Generator. The first call reads the wall clock;
// later calls mostly only read the timebase.
func NewGenerator(opts ...Option) *Generator {
	c := parseConfig(opts)
	g := &Generator{
		clock: newHybridClock(c.timebase, c.wall, c.resyncInterval, c.logger),
		log:   c.logger,
	}
	if c.seeded {
		g.rng.Seed(c.seed1, c.seed2)
	} else {
		g.rng.Seed(seed(c.timebase))
	}
	if ce := g.log.Check(zap.DebugLevel, "fastv7: generator created"); ce != nil {
		ce.Write(
			zap.String("timebase", c.timebase.Name()),
			zap.Uint64("ticks_per_ms", g.clock.ticksPerMilli),
			zap.Duration("resync_interval", g.clock.interval),
		)
	}
	return g
}

var seedCounter atomic.Uint64

// seed draws the PCG seed from crypto/rand. If that fails the seed is
// mixed from the wall clock, the timebase and a process-wide counter so
// that generators never share a stream.
func seed(tb Timebase) (uint64, uint64) {
	var b [16]byte
	if _, err := io.ReadFull(crand.Reader, b[:]); err == nil {
		return binary.LittleEndian.Uint64(b[0:8]), binary.LittleEndian.Uint64(b[8:16])
	}
	n := seedCounter.Add(1)
	return mix64(uint64(time.Now().UnixNano()) ^ n), mix64(tb.Ticks() + n*0x9E3779B97F4A7C15)
}

// mix64 is the splitmix64 finalizer.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return x
}

// Next returns an ID with 74 random bits after the timestamp. IDs from
// the same millisecond are not ordered among themselves.
func (g *Generator) Next() ID {
	ms := g.seq.touch(g.clock.current())
	return encodeRandom(ms, g.rng.Uint64(), g.rng.Uint64())
}

// NextCounted returns an ID carrying an 18-bit per-millisecond counter and
// 56 random bits. Each result is strictly greater than the previous one
// returned by g. After 262144 IDs in one millisecond the timestamp is
// advanced ahead of the wall clock.
func (g *Generator) NextCounted() ID {
	now := g.clock.current()
	ms, counter := g.seq.next(now)
	if counter == 0 && ms > now {
		if ce := g.log.Check(zap.DebugLevel, "fastv7: counter exhausted, timestamp advanced"); ce != nil {
			ce.Write(zap.Uint64("ms", ms), zap.Uint64("lead_ms", ms-now))
		}
	}
	return encodeCounted(ms, counter, g.rng.Uint64())
}

// NextText is Next formatted into a fixed-size array.
func (g *Generator) NextText() Text {
	return FormatText(g.Next())
}

// NextString is Next formatted as a heap string.
func (g *Generator) NextString() string {
	return g.Next().String()
}

// NextCountedText is NextCounted formatted into a fixed-size array.
func (g *Generator) NextCountedText() Text {
	return FormatText(g.NextCounted())
}

// NextCountedString is NextCounted formatted as a heap string.
func (g *Generator) NextCountedString() string {
	return g.NextCounted().String()
}

// NextBatch fills dst with IDs from Next.
func (g *Generator) NextBatch(dst []ID) {
	for i := range dst {
		dst[i] = g.Next()
	}
}

// NextCountedBatch fills dst with strictly increasing IDs from NextCounted.
func (g *Generator) NextCountedBatch(dst []ID) {
	for i := range dst {
		dst[i] = g.NextCounted()
	}
}
