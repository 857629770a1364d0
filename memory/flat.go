// Package memory provides riscv.Memory implementations: a flat byte-slice
// backing for straightforward use and tests, and a paged, content-hashed
// backing for callers that want to inspect or diff simulator state.
package memory

import "github.com/stephank/rvsim/riscv"

// Flat is a fixed-size byte-slice-backed Memory. Reads and writes outside
// [0, len(Data)) fail rather than panic, matching the teacher's original
// `impl Memory for [u8]`, where indexing past the slice would itself
// panic; here the bounds check is explicit so a bad guest address turns
// into an access-fault trap instead of crashing the host process.
type Flat struct {
	Data []byte
}

// NewFlat allocates a zeroed Flat memory of the given size in bytes.
func NewFlat(size uint32) *Flat {
	return &Flat{Data: make([]byte, size)}
}

var _ riscv.Memory = (*Flat)(nil)

func (m *Flat) Fetch(addr uint32) (uint16, bool) {
	if uint64(addr)+2 > uint64(len(m.Data)) {
		return 0, false
	}
	return uint16(m.Data[addr]) | uint16(m.Data[addr+1])<<8, true
}

func (m *Flat) Load(addr uint32, width int) (uint32, bool) {
	if uint64(addr)+uint64(width) > uint64(len(m.Data)) {
		return 0, false
	}
	var v uint32
	for i := 0; i < width; i++ {
		v |= uint32(m.Data[addr+uint32(i)]) << (8 * i)
	}
	return v, true
}

func (m *Flat) Store(addr uint32, width int, value uint32) bool {
	if uint64(addr)+uint64(width) > uint64(len(m.Data)) {
		return false
	}
	for i := 0; i < width; i++ {
		m.Data[addr+uint32(i)] = byte(value >> (8 * i))
	}
	return true
}
