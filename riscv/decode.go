package riscv

// Decoder maps instruction words to Op values. It recognizes the full
// RV32IMA base plus optionally RV32C and RV32F/D, selected at construction
// time via Extensions rather than a build tag.
type Decoder struct {
	Ext Extensions
}

// NewDecoder returns a Decoder configured for the given extension set.
func NewDecoder(ext Extensions) *Decoder {
	return &Decoder{Ext: ext}
}

// bit-field extractors, ported verbatim from the field formulas of the
// canonical RV32 instruction encodings.

func opcodeOf(w uint32) uint32  { return w & 0x7f }
func funct3Of(w uint32) uint8   { return uint8((w >> 12) & 0x7) }
func funct7Of(w uint32) uint8   { return uint8((w >> 25) & 0x7f) }
func funct5Of(w uint32) uint8   { return uint8((w >> 27) & 0x1f) }
func funct2Of(w uint32) uint8   { return uint8((w >> 25) & 0x3) }
func rdOf(w uint32) uint8       { return uint8((w >> 7) & 0x1f) }
func rs1Of(w uint32) uint8      { return uint8((w >> 15) & 0x1f) }
func rs2Of(w uint32) uint8      { return uint8((w >> 20) & 0x1f) }
func rs3Of(w uint32) uint8      { return uint8((w >> 27) & 0x1f) }
func shamtOf(w uint32) uint8    { return uint8((w >> 20) & 0x1f) }
func aqOf(w uint32) bool        { return (w>>26)&1 != 0 }
func rlOf(w uint32) bool        { return (w>>25)&1 != 0 }
func csrOf(w uint32) uint16     { return uint16(w >> 20) }

func iImm(w uint32) int32 {
	return int32(w) >> 20
}

func sImm(w uint32) int32 {
	v := ((w >> 25) << 5) | ((w >> 7) & 0x1f)
	return signExtend(v, 12)
}

func bImm(w uint32) int32 {
	v := (((w >> 31) & 1) << 12) |
		(((w >> 7) & 1) << 11) |
		(((w >> 25) & 0x3f) << 5) |
		(((w >> 8) & 0xf) << 1)
	return signExtend(v, 13)
}

func uImm(w uint32) int32 {
	return int32(w & 0xfffff000)
}

func jImm(w uint32) int32 {
	v := (((w >> 31) & 1) << 20) |
		(((w >> 12) & 0xff) << 12) |
		(((w >> 20) & 1) << 11) |
		(((w >> 21) & 0x3ff) << 1)
	return signExtend(v, 21)
}

func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

// Decode32 decodes one 32-bit instruction word into an Op. It is total:
// every value of w yields some Op, Illegal on all reserved encodings.
func (d *Decoder) Decode32(w uint32) Op {
	op := Op{Raw: w, Kind: Illegal}
	opcode := opcodeOf(w)
	f3 := funct3Of(w)
	f7 := funct7Of(w)
	op.Funct3 = f3

	switch opcode {
	case 0x37: // LUI
		op.Kind, op.Rd, op.Imm = Lui, rdOf(w), uImm(w)
	case 0x17: // AUIPC
		op.Kind, op.Rd, op.Imm = Auipc, rdOf(w), uImm(w)
	case 0x6f: // JAL
		op.Kind, op.Rd, op.Imm = Jal, rdOf(w), jImm(w)
	case 0x67: // JALR
		if f3 == 0 {
			op.Kind, op.Rd, op.Rs1, op.Imm = Jalr, rdOf(w), rs1Of(w), iImm(w)
		}
	case 0x63: // branches
		op.Rs1, op.Rs2, op.Imm = rs1Of(w), rs2Of(w), bImm(w)
		switch f3 {
		case 0x0:
			op.Kind = Beq
		case 0x1:
			op.Kind = Bne
		case 0x4:
			op.Kind = Blt
		case 0x5:
			op.Kind = Bge
		case 0x6:
			op.Kind = Bltu
		case 0x7:
			op.Kind = Bgeu
		}
	case 0x03: // loads
		op.Rd, op.Rs1, op.Imm = rdOf(w), rs1Of(w), iImm(w)
		switch f3 {
		case 0x0:
			op.Kind, op.Width = Lb, 1
		case 0x1:
			op.Kind, op.Width = Lh, 2
		case 0x2:
			op.Kind, op.Width = Lw, 4
		case 0x4:
			op.Kind, op.Width = Lbu, 1
		case 0x5:
			op.Kind, op.Width = Lhu, 2
		}
	case 0x23: // stores
		op.Rs1, op.Rs2, op.Imm = rs1Of(w), rs2Of(w), sImm(w)
		switch f3 {
		case 0x0:
			op.Kind, op.Width = Sb, 1
		case 0x1:
			op.Kind, op.Width = Sh, 2
		case 0x2:
			op.Kind, op.Width = Sw, 4
		}
	case 0x13: // OP-IMM
		op.Rd, op.Rs1, op.Imm = rdOf(w), rs1Of(w), iImm(w)
		switch f3 {
		case 0x0:
			op.Kind = Addi
		case 0x2:
			op.Kind = Slti
		case 0x3:
			op.Kind = Sltiu
		case 0x4:
			op.Kind = Xori
		case 0x6:
			op.Kind = Ori
		case 0x7:
			op.Kind = Andi
		case 0x1:
			if f7 == 0x00 {
				op.Kind, op.Shamt = Slli, shamtOf(w)
			}
		case 0x5:
			switch f7 {
			case 0x00:
				op.Kind, op.Shamt = Srli, shamtOf(w)
			case 0x20:
				op.Kind, op.Shamt = Srai, shamtOf(w)
			}
		}
	case 0x33: // OP
		op.Rd, op.Rs1, op.Rs2 = rdOf(w), rs1Of(w), rs2Of(w)
		switch {
		case f7 == 0x00 && f3 == 0x0:
			op.Kind = Add
		case f7 == 0x20 && f3 == 0x0:
			op.Kind = Sub
		case f7 == 0x00 && f3 == 0x1:
			op.Kind = Sll
		case f7 == 0x00 && f3 == 0x2:
			op.Kind = Slt
		case f7 == 0x00 && f3 == 0x3:
			op.Kind = Sltu
		case f7 == 0x00 && f3 == 0x4:
			op.Kind = Xor
		case f7 == 0x00 && f3 == 0x5:
			op.Kind = Srl
		case f7 == 0x20 && f3 == 0x5:
			op.Kind = Sra
		case f7 == 0x00 && f3 == 0x6:
			op.Kind = Or
		case f7 == 0x00 && f3 == 0x7:
			op.Kind = And
		case f7 == 0x01:
			op.Kind = mExtKind(f3)
		}
	case 0x0f: // MISC-MEM
		switch f3 {
		case 0x0:
			op.Kind = Fence
			op.Imm = int32((w >> 20) & 0xff) // pred:succ packed into low byte
		case 0x1:
			op.Kind = FenceI
		}
	case 0x73: // SYSTEM
		switch f3 {
		case 0x0:
			switch csrOf(w) {
			case 0x000:
				if rs1Of(w) == 0 && rdOf(w) == 0 {
					op.Kind = Ecall
				}
			case 0x001:
				if rs1Of(w) == 0 && rdOf(w) == 0 {
					op.Kind = Ebreak
				}
			case 0x105:
				if rs1Of(w) == 0 && rdOf(w) == 0 {
					op.Kind = Wfi
				}
			}
		case 0x1:
			op.Kind, op.Rd, op.Rs1, op.Csr = Csrrw, rdOf(w), rs1Of(w), csrOf(w)
		case 0x2:
			op.Kind, op.Rd, op.Rs1, op.Csr = Csrrs, rdOf(w), rs1Of(w), csrOf(w)
		case 0x3:
			op.Kind, op.Rd, op.Rs1, op.Csr = Csrrc, rdOf(w), rs1Of(w), csrOf(w)
		case 0x5:
			op.Kind, op.Rd, op.Rs1, op.Csr = Csrrwi, rdOf(w), rs1Of(w), csrOf(w)
		case 0x6:
			op.Kind, op.Rd, op.Rs1, op.Csr = Csrrsi, rdOf(w), rs1Of(w), csrOf(w)
		case 0x7:
			op.Kind, op.Rd, op.Rs1, op.Csr = Csrrci, rdOf(w), rs1Of(w), csrOf(w)
		}
	case 0x2f: // AMO
		if f3 == 0x2 {
			op.Rd, op.Rs1, op.Rs2, op.Width = rdOf(w), rs1Of(w), rs2Of(w), 4
			op.Aq, op.Rl = aqOf(w), rlOf(w)
			op.Kind = amoKind(funct5Of(w))
		}
	case 0x07: // LOAD-FP
		if d.Ext.HasFD() {
			op.Rd, op.Rs1, op.Imm = rdOf(w), rs1Of(w), iImm(w)
			switch f3 {
			case 0x2:
				op.Kind, op.Width = Flw, 4
			case 0x3:
				op.Kind, op.Width = Fld, 8
			}
		}
	case 0x27: // STORE-FP
		if d.Ext.HasFD() {
			op.Rs1, op.Rs2, op.Imm = rs1Of(w), rs2Of(w), sImm(w)
			switch f3 {
			case 0x2:
				op.Kind, op.Width = Fsw, 4
			case 0x3:
				op.Kind, op.Width = Fsd, 8
			}
		}
	case 0x43, 0x47, 0x4b, 0x4f: // FMADD/FMSUB/FNMSUB/FNMADD
		if d.Ext.HasFD() {
			op.Rd, op.Rs1, op.Rs2, op.Rs3, op.Rm = rdOf(w), rs1Of(w), rs2Of(w), rs3Of(w), f3
			isD := funct2Of(w) == 1
			switch opcode {
			case 0x43:
				op.Kind = pick(isD, FmaddD, FmaddS)
			case 0x47:
				op.Kind = pick(isD, FmsubD, FmsubS)
			case 0x4b:
				op.Kind = pick(isD, FnmsubD, FnmsubS)
			case 0x4f:
				op.Kind = pick(isD, FnmaddD, FnmaddS)
			}
		}
	case 0x53: // OP-FP
		if d.Ext.HasFD() {
			d.decodeOpFP(&op, w)
		}
	}
	return op
}

func pick(cond bool, ifTrue, ifFalse Kind) Kind {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func mExtKind(f3 uint8) Kind {
	switch f3 {
	case 0x0:
		return Mul
	case 0x1:
		return Mulh
	case 0x2:
		return Mulhsu
	case 0x3:
		return Mulhu
	case 0x4:
		return Div
	case 0x5:
		return Divu
	case 0x6:
		return Rem
	case 0x7:
		return Remu
	}
	return Illegal
}

func amoKind(f5 uint8) Kind {
	switch f5 {
	case 0x02:
		return LrW
	case 0x03:
		return ScW
	case 0x01:
		return AmoswapW
	case 0x00:
		return AmoaddW
	case 0x04:
		return AmoxorW
	case 0x0c:
		return AmoandW
	case 0x08:
		return AmoorW
	case 0x10:
		return AmominW
	case 0x14:
		return AmomaxW
	case 0x18:
		return AmominuW
	case 0x1c:
		return AmomaxuW
	}
	return Illegal
}

func (d *Decoder) decodeOpFP(op *Op, w uint32) {
	f3 := funct3Of(w)
	f7 := funct7Of(w)
	rd, rs1, rs2 := rdOf(w), rs1Of(w), rs2Of(w)
	isD := f7&1 != 0

	switch f7 &^ 1 {
	case 0x00: // FADD
		op.Kind, op.Rd, op.Rs1, op.Rs2, op.Rm = pick(isD, FaddD, FaddS), rd, rs1, rs2, f3
		return
	case 0x04: // FSUB
		op.Kind, op.Rd, op.Rs1, op.Rs2, op.Rm = pick(isD, FsubD, FsubS), rd, rs1, rs2, f3
		return
	case 0x08: // FMUL
		op.Kind, op.Rd, op.Rs1, op.Rs2, op.Rm = pick(isD, FmulD, FmulS), rd, rs1, rs2, f3
		return
	case 0x0c: // FDIV
		op.Kind, op.Rd, op.Rs1, op.Rs2, op.Rm = pick(isD, FdivD, FdivS), rd, rs1, rs2, f3
		return
	case 0x2c: // FSQRT
		op.Kind, op.Rd, op.Rs1, op.Rm = pick(isD, FsqrtD, FsqrtS), rd, rs1, f3
		return
	}

	switch f7 {
	case 0x10, 0x11: // FSGNJ family (S=0x10, D=0x11)
		op.Rd, op.Rs1, op.Rs2 = rd, rs1, rs2
		switch f3 {
		case 0x0:
			op.Kind = pick(isD, FsgnjD, FsgnjS)
		case 0x1:
			op.Kind = pick(isD, FsgnjnD, FsgnjnS)
		case 0x2:
			op.Kind = pick(isD, FsgnjxD, FsgnjxS)
		}
	case 0x14, 0x15: // FMIN/FMAX
		op.Rd, op.Rs1, op.Rs2 = rd, rs1, rs2
		switch f3 {
		case 0x0:
			op.Kind = pick(isD, FminD, FminS)
		case 0x1:
			op.Kind = pick(isD, FmaxD, FmaxS)
		}
	case 0x20: // FCVT.S.D
		if rs2 == 0x01 {
			op.Kind, op.Rd, op.Rs1, op.Rm = FcvtSD, rd, rs1, f3
		}
	case 0x21: // FCVT.D.S
		if rs2 == 0x00 {
			op.Kind, op.Rd, op.Rs1, op.Rm = FcvtDS, rd, rs1, f3
		}
	case 0x50, 0x51: // FEQ/FLT/FLE
		op.Rd, op.Rs1, op.Rs2 = rd, rs1, rs2
		switch f3 {
		case 0x0:
			op.Kind = pick(isD, FleD, FleS)
		case 0x1:
			op.Kind = pick(isD, FltD, FltS)
		case 0x2:
			op.Kind = pick(isD, FeqD, FeqS)
		}
	case 0x60: // FCVT.W(u).S
		op.Rd, op.Rs1, op.Rm = rd, rs1, f3
		if rs2 == 0 {
			op.Kind = FcvtWS
		} else if rs2 == 1 {
			op.Kind = FcvtWuS
		}
	case 0x61: // FCVT.W(u).D
		op.Rd, op.Rs1, op.Rm = rd, rs1, f3
		if rs2 == 0 {
			op.Kind = FcvtWD
		} else if rs2 == 1 {
			op.Kind = FcvtWuD
		}
	case 0x68: // FCVT.S.W(u)
		op.Rd, op.Rs1, op.Rm = rd, rs1, f3
		if rs2 == 0 {
			op.Kind = FcvtSW
		} else if rs2 == 1 {
			op.Kind = FcvtSWu
		}
	case 0x69: // FCVT.D.W(u)
		op.Rd, op.Rs1, op.Rm = rd, rs1, f3
		if rs2 == 0 {
			op.Kind = FcvtDW
		} else if rs2 == 1 {
			op.Kind = FcvtDWu
		}
	case 0x70: // FCLASS.S / FMV.X.W
		op.Rd, op.Rs1 = rd, rs1
		if rs2 == 0 {
			switch f3 {
			case 0x0:
				op.Kind = FmvXW
			case 0x1:
				op.Kind = FclassS
			}
		}
	case 0x71: // FCLASS.D
		op.Rd, op.Rs1 = rd, rs1
		if rs2 == 0 && f3 == 0x1 {
			op.Kind = FclassD
		}
	case 0x78: // FMV.W.X
		op.Rd, op.Rs1 = rd, rs1
		if rs2 == 0 && f3 == 0x0 {
			op.Kind = FmvWX
		}
	}
}
