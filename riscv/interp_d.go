package riscv

import "github.com/stephank/rvsim/softfloat"

// D extension: double-precision load/store, arithmetic, conversions, and
// the two cross-format conversions fcvt.s.d/fcvt.d.s. Doubles occupy a
// full 64-bit FPR slot and are never NaN-boxed.
func (ip *Interp) stepD(cpu *CpuState, op Op, mem Memory) *Trap {
	switch op.Kind {
	case Fld:
		addr := cpu.ReadX(op.Rs1) + uint32(op.Imm)
		lo, ok := mem.Load(addr, 4)
		if !ok {
			return trap(LoadAccessFault, addr)
		}
		hi, ok := mem.Load(addr+4, 4)
		if !ok {
			return trap(LoadAccessFault, addr+4)
		}
		cpu.WriteDouble(op.Rd, uint64(lo)|uint64(hi)<<32)

	case Fsd:
		addr := cpu.ReadX(op.Rs1) + uint32(op.Imm)
		v := cpu.ReadDouble(op.Rs2)
		if !mem.Store(addr, 4, uint32(v)) {
			return trap(StoreAccessFault, addr)
		}
		if !mem.Store(addr+4, 4, uint32(v>>32)) {
			return trap(StoreAccessFault, addr + 4)
		}
		cpu.InvalidateReservation(addr)
		cpu.InvalidateReservation(addr + 4)

	case FmaddD, FmsubD, FnmsubD, FnmaddD:
		rm, ok := resolveRm(cpu, op)
		if !ok {
			return trap(IllegalInstruction, op.Raw)
		}
		a := softfloat.F64(cpu.ReadDouble(op.Rs1))
		b := softfloat.F64(cpu.ReadDouble(op.Rs2))
		c := softfloat.F64(cpu.ReadDouble(op.Rs3))
		switch op.Kind {
		case FmsubD:
			c = negateD(c)
		case FnmsubD:
			a = negateD(a)
		case FnmaddD:
			a, c = negateD(a), negateD(c)
		}
		r, fl := softfloat.FmaD(a, b, c, rm)
		cpu.OrFflags(uint8(fl))
		cpu.WriteDouble(op.Rd, uint64(r))

	case FaddD, FsubD, FmulD, FdivD:
		rm, ok := resolveRm(cpu, op)
		if !ok {
			return trap(IllegalInstruction, op.Raw)
		}
		a := softfloat.F64(cpu.ReadDouble(op.Rs1))
		b := softfloat.F64(cpu.ReadDouble(op.Rs2))
		var r softfloat.F64
		var fl softfloat.Flags
		switch op.Kind {
		case FaddD:
			r, fl = softfloat.AddD(a, b, rm)
		case FsubD:
			r, fl = softfloat.SubD(a, b, rm)
		case FmulD:
			r, fl = softfloat.MulD(a, b, rm)
		case FdivD:
			r, fl = softfloat.DivD(a, b, rm)
		}
		cpu.OrFflags(uint8(fl))
		cpu.WriteDouble(op.Rd, uint64(r))

	case FsqrtD:
		rm, ok := resolveRm(cpu, op)
		if !ok {
			return trap(IllegalInstruction, op.Raw)
		}
		r, fl := softfloat.SqrtD(softfloat.F64(cpu.ReadDouble(op.Rs1)), rm)
		cpu.OrFflags(uint8(fl))
		cpu.WriteDouble(op.Rd, uint64(r))

	case FsgnjD:
		cpu.WriteDouble(op.Rd, uint64(softfloat.FsgnjD(softfloat.F64(cpu.ReadDouble(op.Rs1)), softfloat.F64(cpu.ReadDouble(op.Rs2)))))
	case FsgnjnD:
		cpu.WriteDouble(op.Rd, uint64(softfloat.FsgnjnD(softfloat.F64(cpu.ReadDouble(op.Rs1)), softfloat.F64(cpu.ReadDouble(op.Rs2)))))
	case FsgnjxD:
		cpu.WriteDouble(op.Rd, uint64(softfloat.FsgnjxD(softfloat.F64(cpu.ReadDouble(op.Rs1)), softfloat.F64(cpu.ReadDouble(op.Rs2)))))

	case FminD, FmaxD:
		a := softfloat.F64(cpu.ReadDouble(op.Rs1))
		b := softfloat.F64(cpu.ReadDouble(op.Rs2))
		var r softfloat.F64
		var fl softfloat.Flags
		if op.Kind == FminD {
			r, fl = softfloat.MinD(a, b)
		} else {
			r, fl = softfloat.MaxD(a, b)
		}
		cpu.OrFflags(uint8(fl))
		cpu.WriteDouble(op.Rd, uint64(r))

	case FcvtWD, FcvtWuD:
		rm, ok := resolveRm(cpu, op)
		if !ok {
			return trap(IllegalInstruction, op.Raw)
		}
		a := softfloat.F64(cpu.ReadDouble(op.Rs1))
		var result uint32
		var fl softfloat.Flags
		if op.Kind == FcvtWD {
			var v int32
			v, fl = softfloat.CvtDToW(a, rm)
			result = uint32(v)
		} else {
			result, fl = softfloat.CvtDToWU(a, rm)
		}
		cpu.OrFflags(uint8(fl))
		cpu.WriteX(op.Rd, result)

	case FeqD, FltD, FleD:
		a := softfloat.F64(cpu.ReadDouble(op.Rs1))
		b := softfloat.F64(cpu.ReadDouble(op.Rs2))
		var result bool
		var fl softfloat.Flags
		switch op.Kind {
		case FeqD:
			result, fl = softfloat.FeqD(a, b)
		case FltD:
			result, fl = softfloat.FltD(a, b)
		case FleD:
			result, fl = softfloat.FleD(a, b)
		}
		cpu.OrFflags(uint8(fl))
		cpu.WriteX(op.Rd, boolToWord(result))

	case FclassD:
		cpu.WriteX(op.Rd, uint32(softfloat.ClassifyD(softfloat.F64(cpu.ReadDouble(op.Rs1)))))

	case FcvtDW, FcvtDWu:
		var r softfloat.F64
		var fl softfloat.Flags
		if op.Kind == FcvtDW {
			r, fl = softfloat.CvtWToD(int32(cpu.ReadX(op.Rs1)))
		} else {
			r, fl = softfloat.CvtWUToD(cpu.ReadX(op.Rs1))
		}
		cpu.OrFflags(uint8(fl))
		cpu.WriteDouble(op.Rd, uint64(r))

	case FcvtSD:
		rm, ok := resolveRm(cpu, op)
		if !ok {
			return trap(IllegalInstruction, op.Raw)
		}
		r, fl := softfloat.CvtDToS(softfloat.F64(cpu.ReadDouble(op.Rs1)), rm)
		cpu.OrFflags(uint8(fl))
		cpu.WriteSingle(op.Rd, uint32(r))

	case FcvtDS:
		r, fl := softfloat.CvtSToD(softfloat.F32(cpu.ReadSingle(op.Rs1)))
		cpu.OrFflags(uint8(fl))
		cpu.WriteDouble(op.Rd, uint64(r))

	default:
		return trap(IllegalInstruction, op.Raw)
	}

	cpu.Pc += op.InstBytes()
	return nil
}

func negateD(a softfloat.F64) softfloat.F64 {
	return softfloat.F64(uint64(a) ^ 0x8000000000000000)
}
