package riscv

// Interp executes one decoded Op against a CpuState, Memory, SystemCalls
// and Clock. On success it mutates CpuState in place and returns nil. On
// failure it fills in the shadow trap CSRs and returns a *Trap; CpuState is
// otherwise left as it was found, with three exceptions: ecall runs the
// SystemCalls hook (which may change any state) before returning its trap,
// an AMO whose store faults has already written rd, and an sc.w whose
// store faults has already cleared the reservation.
type Interp struct {
	Ext Extensions
}

// NewInterp returns an Interp configured for the given extension set.
func NewInterp(ext Extensions) *Interp {
	return &Interp{Ext: ext}
}

// Step executes op. cpu.Pc on entry is the address of op itself.
func (ip *Interp) Step(cpu *CpuState, op Op, mem Memory, sys SystemCalls, clk Clock) *Trap {
	var t *Trap

	switch {
	case op.Kind == Illegal:
		t = trap(IllegalInstruction, op.Raw)
	case op.Kind >= Lui && op.Kind <= And:
		t = ip.stepBase(cpu, op, mem)
	case op.Kind >= Fence && op.Kind <= Csrrci:
		t = ip.stepSystem(cpu, op, mem, sys, clk)
	case op.Kind >= Mul && op.Kind <= Remu:
		t = ip.stepM(cpu, op)
	case op.Kind >= LrW && op.Kind <= AmomaxuW:
		t = ip.stepA(cpu, op, mem)
	case op.Kind >= Flw && op.Kind <= FmvWX:
		if !ip.Ext.HasFD() {
			t = trap(IllegalInstruction, op.Raw)
		} else {
			t = ip.stepF(cpu, op, mem)
		}
	case op.Kind >= Fld && op.Kind <= FcvtDS:
		if !ip.Ext.HasFD() {
			t = trap(IllegalInstruction, op.Raw)
		} else {
			t = ip.stepD(cpu, op, mem)
		}
	default:
		t = trap(IllegalInstruction, op.Raw)
	}

	if t != nil {
		cpu.Mcause = uint32(t.Kind)
		cpu.Mepc = cpu.Pc
		cpu.Mtval = t.Tval
		return t
	}
	clk.Progress(op)
	return nil
}

func (ip *Interp) stepBase(cpu *CpuState, op Op, mem Memory) *Trap {
	switch op.Kind {
	case Lui:
		cpu.WriteX(op.Rd, uint32(op.Imm))
		cpu.Pc += op.InstBytes()
	case Auipc:
		cpu.WriteX(op.Rd, cpu.Pc+uint32(op.Imm))
		cpu.Pc += op.InstBytes()
	case Jal:
		target := cpu.Pc + uint32(op.Imm)
		if target%ip.Ext.InstAlign() != 0 {
			return trap(InstructionAddressMisaligned, target)
		}
		cpu.WriteX(op.Rd, cpu.Pc+op.InstBytes())
		cpu.Pc = target
	case Jalr:
		target := (cpu.ReadX(op.Rs1) + uint32(op.Imm)) &^ 1
		if target%ip.Ext.InstAlign() != 0 {
			return trap(InstructionAddressMisaligned, target)
		}
		ret := cpu.Pc + op.InstBytes()
		cpu.WriteX(op.Rd, ret)
		cpu.Pc = target
	case Beq, Bne, Blt, Bge, Bltu, Bgeu:
		if ip.branchTaken(cpu, op) {
			target := cpu.Pc + uint32(op.Imm)
			if target%ip.Ext.InstAlign() != 0 {
				return trap(InstructionAddressMisaligned, target)
			}
			cpu.Pc = target
		} else {
			cpu.Pc += op.InstBytes()
		}
	case Lb, Lh, Lw, Lbu, Lhu:
		addr := cpu.ReadX(op.Rs1) + uint32(op.Imm)
		if int(op.Width) > 1 && addr%uint32(op.Width) != 0 {
			return trap(LoadAddressMisaligned, addr)
		}
		v, ok := mem.Load(addr, int(op.Width))
		if !ok {
			return trap(LoadAccessFault, addr)
		}
		cpu.WriteX(op.Rd, signExtendLoad(op.Kind, v))
		cpu.Pc += op.InstBytes()
	case Sb, Sh, Sw:
		addr := cpu.ReadX(op.Rs1) + uint32(op.Imm)
		if int(op.Width) > 1 && addr%uint32(op.Width) != 0 {
			return trap(StoreAddressMisaligned, addr)
		}
		if !mem.Store(addr, int(op.Width), cpu.ReadX(op.Rs2)) {
			return trap(StoreAccessFault, addr)
		}
		cpu.InvalidateReservation(addr)
		cpu.Pc += op.InstBytes()
	case Addi:
		cpu.WriteX(op.Rd, cpu.ReadX(op.Rs1)+uint32(op.Imm))
		cpu.Pc += op.InstBytes()
	case Slti:
		cpu.WriteX(op.Rd, boolToWord(int32(cpu.ReadX(op.Rs1)) < op.Imm))
		cpu.Pc += op.InstBytes()
	case Sltiu:
		cpu.WriteX(op.Rd, boolToWord(cpu.ReadX(op.Rs1) < uint32(op.Imm)))
		cpu.Pc += op.InstBytes()
	case Xori:
		cpu.WriteX(op.Rd, cpu.ReadX(op.Rs1)^uint32(op.Imm))
		cpu.Pc += op.InstBytes()
	case Ori:
		cpu.WriteX(op.Rd, cpu.ReadX(op.Rs1)|uint32(op.Imm))
		cpu.Pc += op.InstBytes()
	case Andi:
		cpu.WriteX(op.Rd, cpu.ReadX(op.Rs1)&uint32(op.Imm))
		cpu.Pc += op.InstBytes()
	case Slli:
		cpu.WriteX(op.Rd, cpu.ReadX(op.Rs1)<<op.Shamt)
		cpu.Pc += op.InstBytes()
	case Srli:
		cpu.WriteX(op.Rd, cpu.ReadX(op.Rs1)>>op.Shamt)
		cpu.Pc += op.InstBytes()
	case Srai:
		cpu.WriteX(op.Rd, uint32(int32(cpu.ReadX(op.Rs1))>>op.Shamt))
		cpu.Pc += op.InstBytes()
	case Add:
		cpu.WriteX(op.Rd, cpu.ReadX(op.Rs1)+cpu.ReadX(op.Rs2))
		cpu.Pc += op.InstBytes()
	case Sub:
		cpu.WriteX(op.Rd, cpu.ReadX(op.Rs1)-cpu.ReadX(op.Rs2))
		cpu.Pc += op.InstBytes()
	case Sll:
		cpu.WriteX(op.Rd, cpu.ReadX(op.Rs1)<<(cpu.ReadX(op.Rs2)&0x1f))
		cpu.Pc += op.InstBytes()
	case Slt:
		cpu.WriteX(op.Rd, boolToWord(int32(cpu.ReadX(op.Rs1)) < int32(cpu.ReadX(op.Rs2))))
		cpu.Pc += op.InstBytes()
	case Sltu:
		cpu.WriteX(op.Rd, boolToWord(cpu.ReadX(op.Rs1) < cpu.ReadX(op.Rs2)))
		cpu.Pc += op.InstBytes()
	case Xor:
		cpu.WriteX(op.Rd, cpu.ReadX(op.Rs1)^cpu.ReadX(op.Rs2))
		cpu.Pc += op.InstBytes()
	case Srl:
		cpu.WriteX(op.Rd, cpu.ReadX(op.Rs1)>>(cpu.ReadX(op.Rs2)&0x1f))
		cpu.Pc += op.InstBytes()
	case Sra:
		cpu.WriteX(op.Rd, uint32(int32(cpu.ReadX(op.Rs1))>>(cpu.ReadX(op.Rs2)&0x1f)))
		cpu.Pc += op.InstBytes()
	case Or:
		cpu.WriteX(op.Rd, cpu.ReadX(op.Rs1)|cpu.ReadX(op.Rs2))
		cpu.Pc += op.InstBytes()
	case And:
		cpu.WriteX(op.Rd, cpu.ReadX(op.Rs1)&cpu.ReadX(op.Rs2))
		cpu.Pc += op.InstBytes()
	default:
		return trap(IllegalInstruction, op.Raw)
	}
	return nil
}

func (ip *Interp) branchTaken(cpu *CpuState, op Op) bool {
	a, b := cpu.ReadX(op.Rs1), cpu.ReadX(op.Rs2)
	switch op.Kind {
	case Beq:
		return a == b
	case Bne:
		return a != b
	case Blt:
		return int32(a) < int32(b)
	case Bge:
		return int32(a) >= int32(b)
	case Bltu:
		return a < b
	case Bgeu:
		return a >= b
	}
	return false
}

func signExtendLoad(kind Kind, v uint32) uint32 {
	switch kind {
	case Lb:
		return uint32(int32(int8(v)))
	case Lh:
		return uint32(int32(int16(v)))
	default: // Lw, Lbu, Lhu are already correctly zero/full-extended
		return v
	}
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// CSR addresses the core recognizes; all others trap IllegalInstruction.
const (
	csrFflags   = 0x001
	csrFrm      = 0x002
	csrFcsr     = 0x003
	csrCycle    = 0xC00
	csrCycleH   = 0xC80
	csrTime     = 0xC01
	csrTimeH    = 0xC81
	csrInstret  = 0xC02
	csrInstretH = 0xC82
)

func (ip *Interp) readCSR(cpu *CpuState, clk Clock, addr uint16) (uint32, bool) {
	switch addr {
	case csrFflags:
		return uint32(cpu.Fflags()), true
	case csrFrm:
		return uint32(cpu.Frm()), true
	case csrFcsr:
		return uint32(cpu.Fcsr), true
	case csrCycle:
		return uint32(clk.ReadCycle()), true
	case csrCycleH:
		return uint32(clk.ReadCycle() >> 32), true
	case csrTime:
		return uint32(clk.ReadTime()), true
	case csrTimeH:
		return uint32(clk.ReadTime() >> 32), true
	case csrInstret:
		return uint32(clk.ReadInstret()), true
	case csrInstretH:
		return uint32(clk.ReadInstret() >> 32), true
	}
	return 0, false
}

// writeCSR applies a write to a recognized address. The counter CSRs
// (cycle/time/instret and their *H halves) have no case here: they are
// read-only, and stepCSR traps any write to them before calling writeCSR.
func (ip *Interp) writeCSR(cpu *CpuState, addr uint16, val uint32) {
	switch addr {
	case csrFflags:
		cpu.SetFflags(uint8(val))
	case csrFrm:
		cpu.SetFrm(uint8(val))
	case csrFcsr:
		cpu.Fcsr = uint8(val) // reserved bits above fcsr's 8 live bits are silently dropped by the uint8 cast
	}
}

func (ip *Interp) stepSystem(cpu *CpuState, op Op, mem Memory, sys SystemCalls, clk Clock) *Trap {
	switch op.Kind {
	case Fence, FenceI, Wfi:
		cpu.Pc += op.InstBytes()
		return nil
	case Ecall:
		halt := sys.ECall(cpu)
		return &Trap{Kind: EnvironmentCall, Tval: 0, Halt: halt}
	case Ebreak:
		return trap(Breakpoint, 0)
	case Csrrw, Csrrs, Csrrc, Csrrwi, Csrrsi, Csrrci:
		return ip.stepCSR(cpu, op, clk)
	}
	return trap(IllegalInstruction, op.Raw)
}

func (ip *Interp) stepCSR(cpu *CpuState, op Op, clk Clock) *Trap {
	old, ok := ip.readCSR(cpu, clk, op.Csr)
	if !ok {
		return trap(IllegalInstruction, op.Raw)
	}

	var operand uint32
	isImm := op.Kind == Csrrwi || op.Kind == Csrrsi || op.Kind == Csrrci
	if isImm {
		operand = uint32(op.Rs1) // zimm is carried in Rs1's 5 bits by the decoder
	} else {
		operand = cpu.ReadX(op.Rs1)
	}

	var newVal uint32
	write := true
	switch op.Kind {
	case Csrrw, Csrrwi:
		newVal = operand
	case Csrrs, Csrrsi:
		newVal = old | operand
		write = operand != 0
	case Csrrc, Csrrci:
		newVal = old &^ operand
		write = operand != 0
	}

	if write && op.Csr>>10 == 0x3 { // addresses 0xC00-0xFFF are read-only
		return trap(IllegalInstruction, op.Raw)
	}
	if write {
		ip.writeCSR(cpu, op.Csr, newVal)
	}

	cpu.WriteX(op.Rd, old)
	cpu.Pc += op.InstBytes()
	return nil
}
