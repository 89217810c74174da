package fastv7

const (
	counterBits = 18
	maxCounter  = 1<<counterBits - 1 // 262143
)

// sequence orders identifiers issued within the same millisecond.
//
// The pair (millis, counter) returned by next is strictly increasing.
// When the counter is exhausted the millisecond is advanced past the wall
// clock instead of waiting for it; the lead disappears as soon as the wall
// clock catches up.
type sequence struct {
	millis  uint64
	counter uint32
}

func (s *sequence) next(clockMillis uint64) (uint64, uint32) {
	if clockMillis > s.millis {
		s.millis = clockMillis
		s.counter = 0
		return s.millis, 0
	}
	if s.counter >= maxCounter {
		s.millis++
		s.counter = 0
		return s.millis, 0
	}
	s.counter++
	return s.millis, s.counter
}

// touch moves the sequence to clockMillis if it is newer and returns the
// millisecond to stamp on an identifier without a counter.
func (s *sequence) touch(clockMillis uint64) uint64 {
	if clockMillis > s.millis {
		s.millis = clockMillis
		s.counter = 0
	}
	return s.millis
}
