package riscv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeCompressedDisabledWithoutExtC(t *testing.T) {
	d := NewDecoder(0)
	op := d.DecodeCompressed(0x4505) // c.li a0, 1
	require.Equal(t, Illegal, op.Kind)
	require.True(t, op.Compressed)
}

func TestDecodeCompressedAddi4spn(t *testing.T) {
	d := NewDecoder(ExtC)
	// c.addi4spn: quadrant 0, funct3 0, a nonzero immediate so it isn't
	// the reserved all-zero encoding.
	w := uint16(0x0010 | 8<<2)
	op := d.DecodeCompressed(w)
	require.Equal(t, Addi, op.Kind)
	require.Equal(t, uint8(2), op.Rs1)
	require.True(t, op.Compressed)
}

func TestDecodeCompressedAddi4spnZeroImmIsReserved(t *testing.T) {
	d := NewDecoder(ExtC)
	w := uint16(0x0000)
	op := d.DecodeCompressed(w)
	require.Equal(t, Illegal, op.Kind)
}

func TestDecodeCompressedLwRegisterAliasing(t *testing.T) {
	d := NewDecoder(ExtC)
	// c.lw rd'=x8(000), rs1'=x8(000): quadrant 0, funct3 2.
	w := uint16(0x2) << 13
	op := d.DecodeCompressed(w)
	require.Equal(t, Lw, op.Kind)
	require.Equal(t, uint8(8), op.Rd)
	require.Equal(t, uint8(8), op.Rs1)
	require.Equal(t, uint8(4), op.Width)
}

func TestDecodeCompressedNopIsAddiX0X0Zero(t *testing.T) {
	d := NewDecoder(ExtC)
	op := d.DecodeCompressed(0x0001) // c.nop
	require.Equal(t, Addi, op.Kind)
	require.Equal(t, uint8(0), op.Rd)
	require.Equal(t, int32(0), op.Imm)
}

func TestDecodeCompressedJalSetsRdX1(t *testing.T) {
	d := NewDecoder(ExtC)
	w := uint16(0x1<<13 | 0x1) // quadrant 1, funct3 1 (c.jal), zero offset
	op := d.DecodeCompressed(w)
	require.Equal(t, Jal, op.Kind)
	require.Equal(t, uint8(1), op.Rd)
}

func TestDecodeCompressedJrAndJalr(t *testing.T) {
	d := NewDecoder(ExtC)
	// c.jr x1: quadrant 2, funct3 4, bit12=0, rs2=0, rd/rs1=1.
	wJr := uint16(0x4<<13 | 1<<7 | 0x2)
	op := d.DecodeCompressed(wJr)
	require.Equal(t, Jalr, op.Kind)
	require.Equal(t, uint8(0), op.Rd)
	require.Equal(t, uint8(1), op.Rs1)

	// c.jalr x1: same shape with bit12 set.
	wJalr := uint16(0x4<<13 | 1<<7 | 0x2 | 1<<12)
	op2 := d.DecodeCompressed(wJalr)
	require.Equal(t, Jalr, op2.Kind)
	require.Equal(t, uint8(1), op2.Rd)
	require.Equal(t, uint8(1), op2.Rs1)
}

func TestDecodeCompressedEbreak(t *testing.T) {
	d := NewDecoder(ExtC)
	w := uint16(0x4<<13 | 1<<12 | 0x2) // quadrant 2, funct3 4, rd=0, rs2=0, bit12=1
	op := d.DecodeCompressed(w)
	require.Equal(t, Ebreak, op.Kind)
}

func TestDecodeCompressedSetsCompressedFlagEvenOnIllegal(t *testing.T) {
	d := NewDecoder(ExtC)
	op := d.DecodeCompressed(0xffff)
	require.True(t, op.Compressed)
}
