// Package riscv implements the register file, decoder and interpreter
// components of the rvsim core: it executes one RV32IMA[C][FD] instruction
// at a time against a caller-supplied Memory and SystemCalls.
package riscv

// QNaNSingle is the canonical quiet NaN bit pattern for a single-precision
// float, returned whenever a NaN-boxed slot is read with a corrupted box.
const QNaNSingle = 0x7fc00000

// nanBox is the bit pattern that the upper half of f[i] must carry for the
// lower half to be read back as a valid single.
const nanBox = 0xffffffff00000000

// Extensions selects which optional instruction-set extensions a Decoder
// and Interp recognize. It is a runtime value rather than a build tag so a
// single binary can host simulators with different extension sets.
type Extensions uint8

const (
	ExtC Extensions = 1 << iota
	ExtFD
)

func (e Extensions) HasC() bool  { return e&ExtC != 0 }
func (e Extensions) HasFD() bool { return e&ExtFD != 0 }

// InstAlign is the PC alignment this extension set requires.
func (e Extensions) InstAlign() uint32 {
	if e.HasC() {
		return 2
	}
	return 4
}

// CpuState holds the full architectural state of one hart: the integer and
// floating-point register files, the program counter, the floating-point
// control/status register, the LR/SC reservation, and the shadow trap CSRs.
type CpuState struct {
	X [32]uint32
	F [32]uint64

	Pc uint32

	// Fcsr packs frm (bits 7:5) over fflags (bits 4:0); only the low 8 bits
	// are ever meaningful.
	Fcsr uint8

	// ReservationValid/ReservationAddr implement the LR/SC reservation
	// slot: lr.w sets it, a matching sc.w consumes it, and any store
	// (including another hart's, were one modeled) to the reserved address
	// clears it.
	ReservationValid bool
	ReservationAddr  uint32

	// Shadow trap CSRs: written by the interpreter on trap, read by the
	// host trap handler. The core never itself redirects PC using these.
	Mcause uint32
	Mepc   uint32
	Mtval  uint32
}

// NewCpuState returns a CpuState with all registers zeroed and PC set to
// the given entry address.
func NewCpuState(pc uint32) *CpuState {
	return &CpuState{Pc: pc}
}

// ReadX reads GPR i; x0 always reads as zero.
func (c *CpuState) ReadX(i uint8) uint32 {
	if i == 0 {
		return 0
	}
	return c.X[i]
}

// WriteX writes GPR i; a write to x0 is discarded.
func (c *CpuState) WriteX(i uint8, v uint32) {
	if i == 0 {
		return
	}
	c.X[i] = v
}

// ReadDouble reads FPR i as a raw 64-bit pattern.
func (c *CpuState) ReadDouble(i uint8) uint64 {
	return c.F[i]
}

// WriteDouble writes FPR i as a raw 64-bit pattern.
func (c *CpuState) WriteDouble(i uint8, v uint64) {
	c.F[i] = v
}

// ReadSingle reads FPR i as a single, unboxing it. If the upper 32 bits are
// not all-ones the slot does not hold a valid box and the canonical quiet
// NaN is returned instead (per the NaN-boxing rule).
func (c *CpuState) ReadSingle(i uint8) uint32 {
	v := c.F[i]
	if v&nanBox != nanBox {
		return QNaNSingle
	}
	return uint32(v)
}

// WriteSingle writes a single into FPR i, NaN-boxing it by setting the
// upper 32 bits to all-ones.
func (c *CpuState) WriteSingle(i uint8, bits uint32) {
	c.F[i] = nanBox | uint64(bits)
}

// Frm returns the current dynamic rounding mode field of fcsr.
func (c *CpuState) Frm() uint8 {
	return (c.Fcsr >> 5) & 0x7
}

// SetFrm sets the rounding-mode field of fcsr, masked to 3 bits.
func (c *CpuState) SetFrm(rm uint8) {
	c.Fcsr = (c.Fcsr &^ 0xe0) | ((rm & 0x7) << 5)
}

// Fflags returns the sticky exception-flag field of fcsr.
func (c *CpuState) Fflags() uint8 {
	return c.Fcsr & 0x1f
}

// SetFflags overwrites the sticky exception-flag field of fcsr.
func (c *CpuState) SetFflags(fl uint8) {
	c.Fcsr = (c.Fcsr &^ 0x1f) | (fl & 0x1f)
}

// OrFflags sticky-ors new exception flags into fcsr; the interpreter never
// clears a flag this way, only a CSR write can.
func (c *CpuState) OrFflags(fl uint8) {
	c.Fcsr |= fl & 0x1f
}

// SetReservation records the LR/SC reservation address.
func (c *CpuState) SetReservation(addr uint32) {
	c.ReservationValid = true
	c.ReservationAddr = addr
}

// ClearReservation drops the LR/SC reservation unconditionally.
func (c *CpuState) ClearReservation() {
	c.ReservationValid = false
}

// InvalidateReservation clears the reservation if it matches addr; callers
// invoke this from every store path (including AMO stores), implementing
// the invariant that any intervening store to the reserved address clears
// a pending reservation.
func (c *CpuState) InvalidateReservation(addr uint32) {
	if c.ReservationValid && c.ReservationAddr == addr {
		c.ReservationValid = false
	}
}
