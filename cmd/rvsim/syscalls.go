package main

import (
	"io"

	"github.com/stephank/rvsim/riscv"
)

// PosixSyscalls implements riscv.SystemCalls with a minimal Linux
// riscv32 syscall ABI subset: enough for a freestanding or newlib-style
// guest to write output, query/extend its break, and exit. Adapted from
// the teacher's fast.VMState sysCall dispatch table, trimmed to what a
// non-instrumented demo CLI needs (no pre-image oracle, no proof hooks).
type PosixSyscalls struct {
	Mem    riscv.Memory
	Stdout io.Writer
	Stderr io.Writer

	brk uint32
}

const brkBase = 0x40000000 // 1 GiB, same placement rationale as the teacher's brk(0) default

var _ riscv.SystemCalls = (*PosixSyscalls)(nil)

// ECall services one ecall trap. a7 carries the syscall number, a0..a5
// the arguments, a0 (and a1 for two-result calls) the return values, per
// the standard RISC-V Linux syscall calling convention.
func (p *PosixSyscalls) ECall(cpu *riscv.CpuState) (halt bool) {
	a7 := cpu.ReadX(17)

	switch a7 {
	case 93, 94: // exit, exit_group: no multi-thread support, so both just stop
		return true

	case 214: // brk
		if p.brk == 0 {
			p.brk = brkBase
		}
		requested := cpu.ReadX(10)
		if requested != 0 && requested > p.brk {
			p.brk = requested
		}
		cpu.WriteX(10, p.brk)

	case 222: // mmap: anonymous-only, ignore prot/flags/fd/offset
		length := cpu.ReadX(11)
		if p.brk == 0 {
			p.brk = brkBase
		}
		align := p.brk & 0xfff
		if align != 0 {
			p.brk += 0x1000 - align
		}
		addr := p.brk
		p.brk += length
		cpu.WriteX(10, addr)

	case 64: // write
		p.doWrite(cpu)

	case 63: // read: no stdin data available, and no pre-image oracle in this host
		fd := cpu.ReadX(10)
		if fd == 0 {
			cpu.WriteX(10, 0)
		} else {
			cpu.WriteX(10, 0xffffffff)
		}

	case 56: // openat: nothing is openable in this host
		cpu.WriteX(10, 0xffffffff)

	case 80: // fstat: writes no stat buffer and always fails with -1
		cpu.WriteX(10, 0xffffffff)

	case 25: // fcntl
		cmd := cpu.ReadX(11)
		fd := cpu.ReadX(10)
		if cmd == 0x3 && fd <= 2 {
			cpu.WriteX(10, 0) // O_RDONLY/O_WRONLY, good enough for a guest that only checks success
		} else {
			cpu.WriteX(10, 0xffffffff)
		}

	case 178: // gettid
		cpu.WriteX(10, 0)

	case 135, 132, 134: // rt_sigprocmask, sigaltstack, rt_sigaction: no signals delivered, so these are all no-ops
		cpu.WriteX(10, 0)

	default:
		cpu.WriteX(10, 0xffffffff)
	}

	return false
}

func (p *PosixSyscalls) doWrite(cpu *riscv.CpuState) {
	fd := cpu.ReadX(10)
	addr := cpu.ReadX(11)
	count := cpu.ReadX(12)

	var w io.Writer
	switch fd {
	case 1:
		w = p.Stdout
	case 2:
		w = p.Stderr
	default:
		cpu.WriteX(10, 0xffffffff)
		return
	}

	buf := make([]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		b, ok := p.Mem.Load(addr+i, 1)
		if !ok {
			break
		}
		buf = append(buf, byte(b))
	}
	n, _ := w.Write(buf)
	cpu.WriteX(10, uint32(n))
}
