package riscv

// Clock is the time/cycle source the interpreter consults for the
// read-only cycle/time/instret CSRs, and that the driver advances once per
// committed step. It is a narrow interface so a host can back it with a
// wall clock, a deterministic counter, or a replay log.
type Clock interface {
	ReadCycle() uint64
	ReadTime() uint64
	ReadInstret() uint64

	// Progress is called once per successfully committed instruction,
	// after the interpreter has applied its effect.
	Progress(op Op)

	// CheckQuota is consulted once per step by the driver; returning
	// false stops a Run before the instruction executes. The default
	// behavior (SimpleClock) is to never refuse.
	CheckQuota() bool
}

// SimpleClock is the reference Clock: a single free-running instruction
// counter that answers cycle, time and instret identically, and imposes no
// quota.
type SimpleClock struct {
	instret uint64
}

// NewSimpleClock returns a SimpleClock starting at zero.
func NewSimpleClock() *SimpleClock {
	return &SimpleClock{}
}

func (c *SimpleClock) ReadCycle() uint64   { return c.instret }
func (c *SimpleClock) ReadTime() uint64    { return c.instret }
func (c *SimpleClock) ReadInstret() uint64 { return c.instret }
func (c *SimpleClock) Progress(Op)         { c.instret++ }
func (c *SimpleClock) CheckQuota() bool    { return true }
