package riscv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func enc(opcode, rd, f3, rs1, rs2, f7 uint32) uint32 {
	return opcode | rd<<7 | f3<<12 | rs1<<15 | rs2<<20 | f7<<25
}

func TestDecode32TotalAcrossOpcodeSpace(t *testing.T) {
	d := NewDecoder(ExtFD)
	// every 7-bit opcode, crossed with a handful of funct3/funct7 values,
	// must decode to some Op without panicking; reserved encodings fall
	// back to Illegal rather than a decoder crash.
	for opcode := uint32(0); opcode < 0x80; opcode++ {
		for f3 := uint32(0); f3 < 8; f3++ {
			for _, f7 := range []uint32{0x00, 0x01, 0x20, 0x7f} {
				w := opcode | f3<<12 | f7<<25
				_ = d.Decode32(w)
			}
		}
	}
}

func TestDecodeSlliReservedEncodingIsIllegal(t *testing.T) {
	d := NewDecoder(0)
	// OP-IMM (0x13) with a reserved funct3/funct7 combination for SLLI.
	w := enc(0x13, 1, 0x1, 2, 0, 0x20) // SLLI with f7=0x20 is reserved
	op := d.Decode32(w)
	require.Equal(t, Illegal, op.Kind)
}

func TestDecodeAdd(t *testing.T) {
	d := NewDecoder(0)
	w := enc(0x33, 3, 0x0, 1, 2, 0x00)
	op := d.Decode32(w)
	require.Equal(t, Add, op.Kind)
	require.Equal(t, uint8(3), op.Rd)
	require.Equal(t, uint8(1), op.Rs1)
	require.Equal(t, uint8(2), op.Rs2)
}

func TestDecodeMulFromOpExtensionBit(t *testing.T) {
	d := NewDecoder(0)
	w := enc(0x33, 3, 0x0, 1, 2, 0x01)
	op := d.Decode32(w)
	require.Equal(t, Mul, op.Kind)
}

func TestDecodeJalImmediateSignAndShape(t *testing.T) {
	d := NewDecoder(0)
	// jal x1, -4: the 21-bit immediate 0x1ffffc, scattered per the J-immediate field layout.
	w := uint32(0x6f) | 1<<7 | 0xffdff000
	op := d.Decode32(w)
	require.Equal(t, Jal, op.Kind)
	require.Equal(t, uint8(1), op.Rd)
	require.Equal(t, int32(-4), op.Imm)
}

func TestDecodeBranchImmediate(t *testing.T) {
	d := NewDecoder(0)
	// beq x1, x2, +8: immediate bit 3 set, everything else about the
	// encoding (bits 31/7/30:25/11:8) left at zero except w10, which is
	// where bImm's bit-field layout places imm[3].
	w := enc(0x63, 0, 0x0, 1, 2, 0) | 1<<10
	op := d.Decode32(w)
	require.Equal(t, Beq, op.Kind)
	require.Equal(t, int32(8), op.Imm)
}

func TestDecodeLoadWidthAndSignExtension(t *testing.T) {
	d := NewDecoder(0)
	cases := []struct {
		f3   uint32
		kind Kind
		w    uint8
	}{
		{0x0, Lb, 1},
		{0x1, Lh, 2},
		{0x2, Lw, 4},
		{0x4, Lbu, 1},
		{0x5, Lhu, 2},
	}
	for _, c := range cases {
		w := enc(0x03, 5, c.f3, 1, 0, 0)
		op := d.Decode32(w)
		require.Equal(t, c.kind, op.Kind)
		require.Equal(t, c.w, op.Width)
	}
}

func TestDecodeCsrAddressesAndOperandKind(t *testing.T) {
	d := NewDecoder(0)
	w := uint32(0x73) | 1<<7 | 0x1<<12 | 2<<15 | 0x001<<20 // csrrw x1, fflags, x2
	op := d.Decode32(w)
	require.Equal(t, Csrrw, op.Kind)
	require.Equal(t, uint16(0x001), op.Csr)
	require.Equal(t, uint8(2), op.Rs1)
}

func TestDecodeEcallEbreak(t *testing.T) {
	d := NewDecoder(0)
	require.Equal(t, Ecall, d.Decode32(0x73).Kind)
	require.Equal(t, Ebreak, d.Decode32(0x73|1<<20).Kind)
}

func TestDecodeFmaddSSetsRs3AndRm(t *testing.T) {
	d := NewDecoder(ExtFD)
	// fmadd.s rd=1, rs1=2, rs2=3, rs3=4, rm=0 (RNE), fmt=S
	w := uint32(0x43) | 1<<7 | 0<<12 | 2<<15 | 3<<20 | 4<<27 | 0<<25
	op := d.Decode32(w)
	require.Equal(t, FmaddS, op.Kind)
	require.Equal(t, uint8(1), op.Rd)
	require.Equal(t, uint8(2), op.Rs1)
	require.Equal(t, uint8(3), op.Rs2)
	require.Equal(t, uint8(4), op.Rs3)
	require.Equal(t, uint8(0), op.Rm)
}

func TestDecodeFmaddDFromFmtBit(t *testing.T) {
	d := NewDecoder(ExtFD)
	w := uint32(0x43) | 1<<7 | 0<<12 | 2<<15 | 3<<20 | 4<<27 | 1<<25 // fmt=D
	op := d.Decode32(w)
	require.Equal(t, FmaddD, op.Kind)
}

func TestDecodeFPDisabledWithoutExtFD(t *testing.T) {
	d := NewDecoder(0)
	w := uint32(0x43) | 1<<7 | 0<<12 | 2<<15 | 3<<20 | 4<<27
	op := d.Decode32(w)
	require.Equal(t, Illegal, op.Kind)
}

func TestDecodeFaddSOpFP(t *testing.T) {
	d := NewDecoder(ExtFD)
	w := enc(0x53, 1, 0x0, 2, 3, 0x00) // fadd.s, rm=0
	op := d.Decode32(w)
	require.Equal(t, FaddS, op.Kind)
	require.Equal(t, uint8(0), op.Rm)
}

func TestDecodeFcvtWSRs2SelectsSignedness(t *testing.T) {
	d := NewDecoder(ExtFD)
	wSigned := enc(0x53, 1, 0x0, 2, 0, 0x60)
	wUnsigned := enc(0x53, 1, 0x0, 2, 1, 0x60)
	require.Equal(t, FcvtWS, d.Decode32(wSigned).Kind)
	require.Equal(t, FcvtWuS, d.Decode32(wUnsigned).Kind)
}

func TestDecodeAmoKindsAndAq(t *testing.T) {
	d := NewDecoder(0)
	w := enc(0x2f, 1, 0x2, 2, 3, 0x02<<2) | 1<<26 // lr.w, aq set
	op := d.Decode32(w)
	require.Equal(t, LrW, op.Kind)
	require.True(t, op.Aq)
	require.Equal(t, uint8(4), op.Width)
}

func TestInstBytesCompressedVsNot(t *testing.T) {
	op := Op{Compressed: true}
	require.Equal(t, uint32(2), op.InstBytes())
	op.Compressed = false
	require.Equal(t, uint32(4), op.InstBytes())
}
