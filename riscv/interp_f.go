package riscv

import "github.com/stephank/rvsim/softfloat"

// F extension: single-precision load/store, arithmetic and conversions.
// Every arithmetic op resolves its rounding mode via rm, executes through
// softfloat, sticky-ORs the returned flags into fcsr, and NaN-boxes any
// result written back to a single-precision FPR slot.
func (ip *Interp) stepF(cpu *CpuState, op Op, mem Memory) *Trap {
	switch op.Kind {
	case Flw:
		addr := cpu.ReadX(op.Rs1) + uint32(op.Imm)
		v, ok := mem.Load(addr, 4)
		if !ok {
			return trap(LoadAccessFault, addr)
		}
		cpu.WriteSingle(op.Rd, v)

	case Fsw:
		addr := cpu.ReadX(op.Rs1) + uint32(op.Imm)
		if !mem.Store(addr, 4, cpu.ReadSingle(op.Rs2)) {
			return trap(StoreAccessFault, addr)
		}
		cpu.InvalidateReservation(addr)

	case FmaddS, FmsubS, FnmsubS, FnmaddS:
		rm, ok := resolveRm(cpu, op)
		if !ok {
			return trap(IllegalInstruction, op.Raw)
		}
		a := softfloat.F32(cpu.ReadSingle(op.Rs1))
		b := softfloat.F32(cpu.ReadSingle(op.Rs2))
		c := softfloat.F32(cpu.ReadSingle(op.Rs3))
		switch op.Kind {
		case FmsubS:
			c = negateS(c)
		case FnmsubS:
			a = negateS(a)
		case FnmaddS:
			a, c = negateS(a), negateS(c)
		}
		r, fl := softfloat.FmaS(a, b, c, rm)
		cpu.OrFflags(uint8(fl))
		cpu.WriteSingle(op.Rd, uint32(r))

	case FaddS, FsubS, FmulS, FdivS:
		rm, ok := resolveRm(cpu, op)
		if !ok {
			return trap(IllegalInstruction, op.Raw)
		}
		a := softfloat.F32(cpu.ReadSingle(op.Rs1))
		b := softfloat.F32(cpu.ReadSingle(op.Rs2))
		var r softfloat.F32
		var fl softfloat.Flags
		switch op.Kind {
		case FaddS:
			r, fl = softfloat.AddS(a, b, rm)
		case FsubS:
			r, fl = softfloat.SubS(a, b, rm)
		case FmulS:
			r, fl = softfloat.MulS(a, b, rm)
		case FdivS:
			r, fl = softfloat.DivS(a, b, rm)
		}
		cpu.OrFflags(uint8(fl))
		cpu.WriteSingle(op.Rd, uint32(r))

	case FsqrtS:
		rm, ok := resolveRm(cpu, op)
		if !ok {
			return trap(IllegalInstruction, op.Raw)
		}
		r, fl := softfloat.SqrtS(softfloat.F32(cpu.ReadSingle(op.Rs1)), rm)
		cpu.OrFflags(uint8(fl))
		cpu.WriteSingle(op.Rd, uint32(r))

	case FsgnjS:
		cpu.WriteSingle(op.Rd, uint32(softfloat.FsgnjS(softfloat.F32(cpu.ReadSingle(op.Rs1)), softfloat.F32(cpu.ReadSingle(op.Rs2)))))
	case FsgnjnS:
		cpu.WriteSingle(op.Rd, uint32(softfloat.FsgnjnS(softfloat.F32(cpu.ReadSingle(op.Rs1)), softfloat.F32(cpu.ReadSingle(op.Rs2)))))
	case FsgnjxS:
		cpu.WriteSingle(op.Rd, uint32(softfloat.FsgnjxS(softfloat.F32(cpu.ReadSingle(op.Rs1)), softfloat.F32(cpu.ReadSingle(op.Rs2)))))

	case FminS, FmaxS:
		a := softfloat.F32(cpu.ReadSingle(op.Rs1))
		b := softfloat.F32(cpu.ReadSingle(op.Rs2))
		var r softfloat.F32
		var fl softfloat.Flags
		if op.Kind == FminS {
			r, fl = softfloat.MinS(a, b)
		} else {
			r, fl = softfloat.MaxS(a, b)
		}
		cpu.OrFflags(uint8(fl))
		cpu.WriteSingle(op.Rd, uint32(r))

	case FcvtWS, FcvtWuS:
		rm, ok := resolveRm(cpu, op)
		if !ok {
			return trap(IllegalInstruction, op.Raw)
		}
		a := softfloat.F32(cpu.ReadSingle(op.Rs1))
		var result uint32
		var fl softfloat.Flags
		if op.Kind == FcvtWS {
			var v int32
			v, fl = softfloat.CvtSToW(a, rm)
			result = uint32(v)
		} else {
			result, fl = softfloat.CvtSToWU(a, rm)
		}
		cpu.OrFflags(uint8(fl))
		cpu.WriteX(op.Rd, result)

	case FmvXW:
		cpu.WriteX(op.Rd, cpu.ReadSingle(op.Rs1))

	case FeqS, FltS, FleS:
		a := softfloat.F32(cpu.ReadSingle(op.Rs1))
		b := softfloat.F32(cpu.ReadSingle(op.Rs2))
		var result bool
		var fl softfloat.Flags
		switch op.Kind {
		case FeqS:
			result, fl = softfloat.FeqS(a, b)
		case FltS:
			result, fl = softfloat.FltS(a, b)
		case FleS:
			result, fl = softfloat.FleS(a, b)
		}
		cpu.OrFflags(uint8(fl))
		cpu.WriteX(op.Rd, boolToWord(result))

	case FclassS:
		cpu.WriteX(op.Rd, uint32(softfloat.ClassifyS(softfloat.F32(cpu.ReadSingle(op.Rs1)))))

	case FcvtSW, FcvtSWu:
		rm, ok := resolveRm(cpu, op)
		if !ok {
			return trap(IllegalInstruction, op.Raw)
		}
		var r softfloat.F32
		var fl softfloat.Flags
		if op.Kind == FcvtSW {
			r, fl = softfloat.CvtWToS(int32(cpu.ReadX(op.Rs1)), rm)
		} else {
			r, fl = softfloat.CvtWUToS(cpu.ReadX(op.Rs1), rm)
		}
		cpu.OrFflags(uint8(fl))
		cpu.WriteSingle(op.Rd, uint32(r))

	case FmvWX:
		cpu.WriteSingle(op.Rd, cpu.ReadX(op.Rs1))

	default:
		return trap(IllegalInstruction, op.Raw)
	}

	cpu.Pc += op.InstBytes()
	return nil
}

func negateS(a softfloat.F32) softfloat.F32 {
	return softfloat.F32(uint32(a) ^ 0x80000000)
}

// resolveRm turns an op's static-or-dynamic Rm field into a concrete
// rounding mode, returning ok=false if a dynamic mode selects a reserved
// fcsr.frm encoding.
func resolveRm(cpu *CpuState, op Op) (softfloat.RoundingMode, bool) {
	rm := op.Rm
	if rm == 7 {
		rm = cpu.Frm()
	}
	if rm > 4 {
		return 0, false
	}
	return softfloat.RoundingMode(rm), true
}
