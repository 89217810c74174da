// Package fastv7 generates UUID version 7 identifiers in a few nanoseconds.
//
// Reading the wall clock dominates the cost of a UUID v7. A Generator reads
// it only occasionally and in between uses a cheap hardware tick counter
// (the TSC on amd64, CNTVCT_EL0 on arm64) to notice when a millisecond may
// have passed. The tick rate is calibrated against the wall clock as the
// generator runs.
//
// Two layouts are produced:
//
//	Next:        48 bits ms | 0111 | 12 random | 10 | 62 random
//	NextCounted: 48 bits ms | 0111 | 12 counter | 10 | 6 counter | 56 random
//
// NextCounted IDs from one Generator are strictly increasing. If more than
// 262144 of them are requested within one millisecond the timestamp moves
// ahead of the wall clock rather than blocking.
//
// The random bits come from a PCG generator seeded from crypto/rand.
// They are not suitable for anything that needs unpredictable values.
//
// The package-level functions draw generators from a sync.Pool. They never
// lock in the steady state, but consecutive calls from one goroutine may
// use different generators, so only millisecond ordering is guaranteed
// between them. Hold a Generator for strict ordering.
package fastv7

import "sync"

var pool = sync.Pool{
	New: func() any {
		return NewGenerator()
	},
}

// New returns an ID with 74 random bits. See Generator.Next.
func New() ID {
	g := pool.Get().(*Generator)
	id := g.Next()
	pool.Put(g)
	return id
}

// NewCounted returns an ID with an 18-bit counter and 56 random bits.
// See Generator.NextCounted.
func NewCounted() ID {
	g := pool.Get().(*Generator)
	id := g.NextCounted()
	pool.Put(g)
	return id
}

// NewString returns New formatted as a heap string.
func NewString() string {
	return New().String()
}

// NewText returns New formatted into a fixed-size array without
// allocating.
func NewText() Text {
	return FormatText(New())
}

// NewCountedString returns NewCounted formatted as a heap string.
func NewCountedString() string {
	return NewCounted().String()
}

// NewCountedText returns NewCounted formatted into a fixed-size array
// without allocating.
func NewCountedText() Text {
	return FormatText(NewCounted())
}
