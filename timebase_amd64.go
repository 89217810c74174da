//go:build !purego

package fastv7

// implemented in timebase_amd64.s
func rdtsc() uint64
func cpuid(eaxArg, ecxArg uint32) (eax, ebx, ecx, edx uint32)

var defaultTimebase Timebase = newTSCTimebase()

// tscTimebase reads the x86 time stamp counter.
type tscTimebase struct {
	perMilli uint64
}

func newTSCTimebase() tscTimebase {
	perMilli := uint64(defaultTicksPerMilli)
	// leaf 0x16: processor base frequency in MHz
	if maxLeaf, _, _, _ := cpuid(0, 0); maxLeaf >= 0x16 {
		if mhz, _, _, _ := cpuid(0x16, 0); mhz > 0 {
			perMilli = uint64(mhz) * 1000
		}
	}
	return tscTimebase{perMilli: perMilli}
}

func (tscTimebase) Ticks() uint64 {
	return rdtsc()
}

func (t tscTimebase) TicksPerMilli() uint64 {
	return t.perMilli
}

func (tscTimebase) Name() string {
	return "tsc"
}
