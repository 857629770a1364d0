package riscv

// Memory is the external memory collaborator the interpreter calls back
// into for instruction fetch, load and store. All addresses are
// guest-virtual 32-bit values; there is no translation inside the core.
// Implementations decide what is readable/writable/executable and which
// addresses fault.
type Memory interface {
	// Fetch reads a 16-bit half-word at addr for instruction fetch. ok is
	// false to signal an access fault.
	Fetch(addr uint32) (half uint16, ok bool)

	// Load reads width bytes (1, 2 or 4) at addr, little-endian,
	// zero-extended into the low bits of the result. ok is false to
	// signal an access fault.
	Load(addr uint32, width int) (value uint32, ok bool)

	// Store writes the low width bytes of value at addr, little-endian.
	// ok is false to signal an access fault.
	Store(addr uint32, width int, value uint32) (ok bool)
}

// SystemCalls is invoked when the interpreter encounters ecall. The hook
// observes and may mutate CpuState (conventionally a7/x17 holds the
// syscall number, a0..a6/x10..x16 the arguments, a0/x10 the return value)
// and may request the driver halt. ebreak is never routed through this
// hook; it is always surfaced as a Breakpoint trap.
type SystemCalls interface {
	ECall(cpu *CpuState) (halt bool)
}
