package riscv

// RVC (compressed, quadrant 0/1/2) decoding. Field formulas follow the
// standard RISC-V RVC immediate-encoding tables; this file expands every
// 16-bit form directly into the equivalent RV32I/M/A/F/D Op rather than
// synthesizing a 32-bit word first.

func cbit(w uint16, n uint) uint32 { return uint32((w >> n) & 1) }

func cfunct3(w uint16) uint8 { return uint8((w >> 13) & 0x7) }

// quadrant-register fields (3 bits, aliasing x8..x15)
func cRdRs1Q(w uint16) uint8 { return uint8((w>>7)&0x7) + 8 }
func cRs2Q(w uint16) uint8   { return uint8((w>>2)&0x7) + 8 }

// full 5-bit register fields used in quadrants 1 and 2
func cRdRs1(w uint16) uint8 { return uint8((w >> 7) & 0x1f) }
func cRs2(w uint16) uint8   { return uint8((w >> 2) & 0x1f) }

func signExtendC(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

func cImmCIW(w uint16) int32 {
	v := cbit(w, 5)<<3 | cbit(w, 6)<<2 | cbit(w, 7)<<6 | cbit(w, 8)<<7 |
		cbit(w, 9)<<8 | cbit(w, 10)<<9 | cbit(w, 11)<<4 | cbit(w, 12)<<5
	return int32(v)
}

func cImmMem(w uint16) int32 {
	v := cbit(w, 12)<<5 | cbit(w, 11)<<4 | cbit(w, 10)<<3 | cbit(w, 6)<<2 | cbit(w, 5)<<6
	return int32(v)
}

func cImmAddi(w uint16) int32 {
	v := cbit(w, 12)<<5 | (uint32(w>>2) & 0x1f)
	return signExtendC(v, 6)
}

func cImmLui(w uint16) int32 {
	v := cbit(w, 12)<<5 | (uint32(w>>2) & 0x1f)
	return signExtendC(v, 6) << 12
}

func cImmAddi16sp(w uint16) int32 {
	v := cbit(w, 12)<<9 | cbit(w, 6)<<4 | cbit(w, 5)<<6 | cbit(w, 4)<<8 | cbit(w, 3)<<7 | cbit(w, 2)<<5
	return signExtendC(v, 10)
}

func cShamt(w uint16) uint8 {
	return uint8(cbit(w, 12)<<5 | (uint32(w>>2) & 0x1f))
}

func cImmJ(w uint16) int32 {
	v := cbit(w, 12)<<11 | cbit(w, 11)<<4 | cbit(w, 10)<<9 | cbit(w, 9)<<8 |
		cbit(w, 8)<<10 | cbit(w, 7)<<6 | cbit(w, 6)<<7 | cbit(w, 5)<<3 |
		cbit(w, 4)<<2 | cbit(w, 3)<<1 | cbit(w, 2)<<5
	return signExtendC(v, 12)
}

func cImmB(w uint16) int32 {
	v := cbit(w, 12)<<8 | cbit(w, 11)<<4 | cbit(w, 10)<<3 | cbit(w, 6)<<7 |
		cbit(w, 5)<<6 | cbit(w, 4)<<2 | cbit(w, 3)<<1 | cbit(w, 2)<<5
	return signExtendC(v, 9)
}

func cImmLwsp(w uint16) int32 {
	v := cbit(w, 12)<<5 | cbit(w, 6)<<4 | cbit(w, 5)<<3 | cbit(w, 4)<<2 | cbit(w, 3)<<7 | cbit(w, 2)<<6
	return int32(v)
}

func cImmLdsp(w uint16) int32 {
	v := cbit(w, 12)<<5 | cbit(w, 6)<<4 | cbit(w, 5)<<3 | cbit(w, 4)<<8 | cbit(w, 3)<<7 | cbit(w, 2)<<6
	return int32(v)
}

func cImmSwsp(w uint16) int32 {
	v := cbit(w, 12)<<5 | cbit(w, 11)<<4 | cbit(w, 10)<<3 | cbit(w, 9)<<2 | cbit(w, 8)<<7 | cbit(w, 7)<<6
	return int32(v)
}

func cImmSdsp(w uint16) int32 {
	v := cbit(w, 12)<<5 | cbit(w, 11)<<4 | cbit(w, 10)<<3 | cbit(w, 9)<<8 | cbit(w, 8)<<7 | cbit(w, 7)<<6
	return int32(v)
}

// DecodeCompressed expands a 16-bit half-word into an Op. When the C
// extension is disabled, any half-word whose low 2 bits are not 0b11
// decodes to Illegal.
func (d *Decoder) DecodeCompressed(w uint16) Op {
	op := Op{Raw: uint32(w), Kind: Illegal, Compressed: true}
	if !d.Ext.HasC() {
		return op
	}

	quad := w & 0x3
	f3 := cfunct3(w)

	switch quad {
	case 0x0:
		rdq, rs1q := cRs2Q(w), cRdRs1Q(w)
		switch f3 {
		case 0x0: // C.ADDI4SPN
			imm := cImmCIW(w)
			if imm == 0 {
				return op // reserved
			}
			op.Kind, op.Rd, op.Rs1, op.Imm = Addi, rdq, 2, imm
		case 0x1: // C.FLD
			if d.Ext.HasFD() {
				op.Kind, op.Rd, op.Rs1, op.Imm, op.Width = Fld, rdq, rs1q, cImmLdspLike(w), 8
			}
		case 0x2: // C.LW
			op.Kind, op.Rd, op.Rs1, op.Imm, op.Width = Lw, rdq, rs1q, cImmMem(w), 4
		case 0x3: // C.FLW
			if d.Ext.HasFD() {
				op.Kind, op.Rd, op.Rs1, op.Imm, op.Width = Flw, rdq, rs1q, cImmMem(w), 4
			}
		case 0x5: // C.FSD
			if d.Ext.HasFD() {
				op.Kind, op.Rs1, op.Rs2, op.Imm, op.Width = Fsd, rs1q, rdq, cImmLdspLike(w), 8
			}
		case 0x6: // C.SW
			op.Kind, op.Rs1, op.Rs2, op.Imm, op.Width = Sw, rs1q, rdq, cImmMem(w), 4
		case 0x7: // C.FSW
			if d.Ext.HasFD() {
				op.Kind, op.Rs1, op.Rs2, op.Imm, op.Width = Fsw, rs1q, rdq, cImmMem(w), 4
			}
		}
	case 0x1:
		switch f3 {
		case 0x0: // C.NOP / C.ADDI
			rd := cRdRs1(w)
			op.Kind, op.Rd, op.Rs1, op.Imm = Addi, rd, rd, cImmAddi(w)
		case 0x1: // C.JAL, rd = x1
			op.Kind, op.Rd, op.Imm = Jal, 1, cImmJ(w)
		case 0x2: // C.LI
			op.Kind, op.Rd, op.Rs1, op.Imm = Addi, cRdRs1(w), 0, cImmAddi(w)
		case 0x3:
			rd := cRdRs1(w)
			if rd == 2 { // C.ADDI16SP
				imm := cImmAddi16sp(w)
				if imm == 0 {
					return op
				}
				op.Kind, op.Rd, op.Rs1, op.Imm = Addi, 2, 2, imm
			} else { // C.LUI
				imm := cImmLui(w)
				if rd == 0 || imm == 0 {
					return op
				}
				op.Kind, op.Rd, op.Imm = Lui, rd, imm
			}
		case 0x4:
			rdq := cRdRs1Q(w)
			switch (w >> 10) & 0x3 {
			case 0x0: // C.SRLI
				if cbit(w, 12) != 0 {
					return op // RV32: shamt[5] must be 0
				}
				op.Kind, op.Rd, op.Rs1, op.Shamt = Srli, rdq, rdq, cShamt(w)
			case 0x1: // C.SRAI
				if cbit(w, 12) != 0 {
					return op
				}
				op.Kind, op.Rd, op.Rs1, op.Shamt = Srai, rdq, rdq, cShamt(w)
			case 0x2: // C.ANDI
				op.Kind, op.Rd, op.Rs1, op.Imm = Andi, rdq, rdq, cImmAddi(w)
			case 0x3:
				rs2q := cRs2Q(w)
				if cbit(w, 12) != 0 {
					return op // RV64/128-only SUBW/ADDW family, reserved on RV32
				}
				switch (w >> 5) & 0x3 {
				case 0x0:
					op.Kind, op.Rd, op.Rs1, op.Rs2 = Sub, rdq, rdq, rs2q
				case 0x1:
					op.Kind, op.Rd, op.Rs1, op.Rs2 = Xor, rdq, rdq, rs2q
				case 0x2:
					op.Kind, op.Rd, op.Rs1, op.Rs2 = Or, rdq, rdq, rs2q
				case 0x3:
					op.Kind, op.Rd, op.Rs1, op.Rs2 = And, rdq, rdq, rs2q
				}
			}
		case 0x5: // C.J
			op.Kind, op.Imm = Jal, cImmJ(w)
			op.Rd = 0
		case 0x6: // C.BEQZ
			op.Kind, op.Rs1, op.Imm = Beq, cRdRs1Q(w), cImmB(w)
			op.Rs2 = 0
		case 0x7: // C.BNEZ
			op.Kind, op.Rs1, op.Imm = Bne, cRdRs1Q(w), cImmB(w)
			op.Rs2 = 0
		}
	case 0x2:
		switch f3 {
		case 0x0: // C.SLLI
			rd := cRdRs1(w)
			if rd == 0 || cbit(w, 12) != 0 {
				return op
			}
			op.Kind, op.Rd, op.Rs1, op.Shamt = Slli, rd, rd, cShamt(w)
		case 0x1: // C.FLDSP
			if d.Ext.HasFD() {
				op.Kind, op.Rd, op.Rs1, op.Imm, op.Width = Fld, cRdRs1(w), 2, cImmLdsp(w), 8
			}
		case 0x2: // C.LWSP
			rd := cRdRs1(w)
			if rd == 0 {
				return op
			}
			op.Kind, op.Rd, op.Rs1, op.Imm, op.Width = Lw, rd, 2, cImmLwsp(w), 4
		case 0x3: // C.FLWSP
			if d.Ext.HasFD() {
				op.Kind, op.Rd, op.Rs1, op.Imm, op.Width = Flw, cRdRs1(w), 2, cImmLwsp(w), 4
			}
		case 0x4:
			rd, rs2 := cRdRs1(w), cRs2(w)
			if cbit(w, 12) == 0 {
				if rs2 == 0 { // C.JR
					if rd == 0 {
						return op
					}
					op.Kind, op.Rd, op.Rs1, op.Imm = Jalr, 0, rd, 0
				} else { // C.MV
					op.Kind, op.Rd, op.Rs1, op.Imm = Addi, rd, rs2, 0
				}
			} else {
				if rd == 0 && rs2 == 0 { // C.EBREAK
					op.Kind = Ebreak
				} else if rs2 == 0 { // C.JALR
					op.Kind, op.Rd, op.Rs1, op.Imm = Jalr, 1, rd, 0
				} else { // C.ADD
					op.Kind, op.Rd, op.Rs1, op.Rs2 = Add, rd, rd, rs2
				}
			}
		case 0x5: // C.FSDSP
			if d.Ext.HasFD() {
				op.Kind, op.Rs1, op.Rs2, op.Imm, op.Width = Fsd, 2, cRs2(w), cImmSdsp(w), 8
			}
		case 0x6: // C.SWSP
			op.Kind, op.Rs1, op.Rs2, op.Imm, op.Width = Sw, 2, cRs2(w), cImmSwsp(w), 4
		case 0x7: // C.FSWSP
			if d.Ext.HasFD() {
				op.Kind, op.Rs1, op.Rs2, op.Imm, op.Width = Fsw, 2, cRs2(w), cImmSwsp(w), 4
			}
		}
	}
	op.Compressed = true
	return op
}

// cImmLdspLike computes the CL/CS-format double-word immediate
// uimm[5:3|7:6] shared by C.FLD/C.FSD.
func cImmLdspLike(w uint16) int32 {
	v := cbit(w, 12)<<5 | cbit(w, 11)<<4 | cbit(w, 10)<<3 | cbit(w, 6)<<7 | cbit(w, 5)<<6
	return int32(v)
}
