package fastv7

// fakeTimebase is a hand-driven tick counter.
type fakeTimebase struct {
	ticks    uint64
	perMilli uint64
}

func (f *fakeTimebase) Ticks() uint64         { return f.ticks }
func (f *fakeTimebase) TicksPerMilli() uint64 { return f.perMilli }
func (f *fakeTimebase) Name() string          { return "fake" }

// fakeWall is a hand-driven wall clock that counts reads.
type fakeWall struct {
	ms    int64
	reads int
}

func (w *fakeWall) now() int64 {
	w.reads++
	return w.ms
}

const testEpochMillis = 1_700_000_000_000

func fixedWall(ms int64) func() int64 {
	return func() int64 { return ms }
}
