//go:build !purego

package fastv7

// implemented in timebase_arm64.s
func cntvct() uint64
func cntfrq() uint64

var defaultTimebase Timebase = newCNTVCTTimebase()

// cntvctTimebase reads the ARM generic timer virtual count register,
// which the kernel exposes to user space on linux and darwin.
type cntvctTimebase struct {
	perMilli uint64
}

func newCNTVCTTimebase() cntvctTimebase {
	return cntvctTimebase{perMilli: cntfrq() / 1000}
}

func (cntvctTimebase) Ticks() uint64 {
	return cntvct()
}

func (t cntvctTimebase) TicksPerMilli() uint64 {
	return t.perMilli
}

func (cntvctTimebase) Name() string {
	return "cntvct"
}
