// Package simulator implements the driver component: fetch, decode,
// execute and commit one instruction at a time against a caller-supplied
// riscv.Memory, riscv.SystemCalls and riscv.Clock, and a step-count or
// trap-driven run loop on top.
package simulator

import (
	"github.com/stephank/rvsim/riscv"
)

// Simulator wires together a CpuState, a Decoder/Interp pair, a Memory, a
// SystemCalls hook and a Clock, and advances them one instruction per
// Step call.
type Simulator struct {
	Cpu  *riscv.CpuState
	Mem  riscv.Memory
	Sys  riscv.SystemCalls
	Clk  riscv.Clock
	Ext  riscv.Extensions
	dec  *riscv.Decoder
	itp  *riscv.Interp
	halt bool
}

// New builds a Simulator around the given components. Clk defaults to a
// SimpleClock if nil.
func New(cpu *riscv.CpuState, mem riscv.Memory, sys riscv.SystemCalls, clk riscv.Clock, ext riscv.Extensions) *Simulator {
	if clk == nil {
		clk = riscv.NewSimpleClock()
	}
	return &Simulator{
		Cpu: cpu,
		Mem: mem,
		Sys: sys,
		Clk: clk,
		Ext: ext,
		dec: riscv.NewDecoder(ext),
		itp: riscv.NewInterp(ext),
	}
}

// Halted reports whether a prior Step's SystemCalls.ECall requested a stop.
func (s *Simulator) Halted() bool { return s.halt }

// Step fetches, decodes and executes exactly one instruction. It returns
// the trap raised, if any; a non-nil trap does not itself halt the
// simulator (the shadow Mcause/Mepc/Mtval CSRs are updated for the host to
// inspect and redirect PC as it sees fit), except for the SystemCalls-
// requested halt on ecall, which Step latches into Halted().
func (s *Simulator) Step() *riscv.Trap {
	pc := s.Cpu.Pc
	if pc%s.Ext.InstAlign() != 0 {
		t := &riscv.Trap{Kind: riscv.InstructionAddressMisaligned, Tval: pc}
		s.Cpu.Mcause, s.Cpu.Mepc, s.Cpu.Mtval = uint32(t.Kind), pc, t.Tval
		return t
	}

	// The trap taxonomy has no dedicated instruction-fetch-fault code; a
	// refused Fetch is reported as LoadAccessFault, the closest existing
	// kind, with tval carrying the address that could not be fetched.
	lo, ok := s.Mem.Fetch(pc)
	if !ok {
		t := &riscv.Trap{Kind: riscv.LoadAccessFault, Tval: pc}
		s.Cpu.Mcause, s.Cpu.Mepc, s.Cpu.Mtval = uint32(t.Kind), pc, t.Tval
		return t
	}

	var op riscv.Op
	if lo&0x3 != 0x3 {
		op = s.dec.DecodeCompressed(lo)
	} else {
		hi, ok := s.Mem.Fetch(pc + 2)
		if !ok {
			t := &riscv.Trap{Kind: riscv.LoadAccessFault, Tval: pc + 2}
			s.Cpu.Mcause, s.Cpu.Mepc, s.Cpu.Mtval = uint32(t.Kind), pc, t.Tval
			return t
		}
		op = s.dec.Decode32(uint32(lo) | uint32(hi)<<16)
	}

	t := s.itp.Step(s.Cpu, op, s.Mem, s.Sys, s.Clk)
	if t != nil && t.Halt {
		s.halt = true
	}
	return t
}

// Run steps the simulator until it halts, traps, the caller-supplied
// Clock's budget is exhausted, or maxSteps instructions have executed (0
// means unbounded). It returns the trap that stopped execution, or nil if
// the loop stopped for any other reason. Cancellation is cooperative: the
// budget is only checked between instructions, never mid-step.
func (s *Simulator) Run(maxSteps uint64) *riscv.Trap {
	for i := uint64(0); maxSteps == 0 || i < maxSteps; i++ {
		if !s.Clk.CheckQuota() {
			return nil
		}
		if t := s.Step(); t != nil {
			return t
		}
		if s.halt {
			return nil
		}
	}
	return nil
}
