package riscv

// M extension: multiply/divide. Division by zero and signed overflow never
// trap; they return the architecturally-defined sentinel values.
func (ip *Interp) stepM(cpu *CpuState, op Op) *Trap {
	a, b := cpu.ReadX(op.Rs1), cpu.ReadX(op.Rs2)
	var result uint32

	switch op.Kind {
	case Mul:
		result = a * b
	case Mulh:
		result = uint32((int64(int32(a)) * int64(int32(b))) >> 32)
	case Mulhsu:
		result = uint32((int64(int32(a)) * int64(b)) >> 32)
	case Mulhu:
		result = uint32((uint64(a) * uint64(b)) >> 32)
	case Div:
		sa, sb := int32(a), int32(b)
		switch {
		case sb == 0:
			result = 0xffffffff
		case sa == -2147483648 && sb == -1:
			result = uint32(sa) // overflow: quotient saturates to the dividend's sign-matching INT_MIN
		default:
			result = uint32(sa / sb)
		}
	case Divu:
		if b == 0 {
			result = 0xffffffff
		} else {
			result = a / b
		}
	case Rem:
		sa, sb := int32(a), int32(b)
		switch {
		case sb == 0:
			result = a
		case sa == -2147483648 && sb == -1:
			result = 0
		default:
			result = uint32(sa % sb)
		}
	case Remu:
		if b == 0 {
			result = a
		} else {
			result = a % b
		}
	default:
		return trap(IllegalInstruction, op.Raw)
	}

	cpu.WriteX(op.Rd, result)
	cpu.Pc += op.InstBytes()
	return nil
}
