// Package elfloader loads a 32-bit RISC-V ELF binary into a memory.Paged
// and produces the riscv.CpuState it should start execution from,
// adapted from the teacher's fast.LoadELF for a 32-bit, non-Merkle-witness
// target: PT_LOAD segments are copied byte for byte and the Filesz..Memsz
// tail is zero-filled, exactly as the original Rust loader and the
// teacher's Go port both do; there is no equivalent of the teacher's
// Go-runtime GC patching here since rvsim guests are not the Go runtime
// itself.
package elfloader

import (
	"debug/elf"
	"fmt"
	"io"

	"github.com/stephank/rvsim/memory"
	"github.com/stephank/rvsim/riscv"
)

// Load reads f's PT_LOAD segments into a fresh memory.Paged and returns a
// CpuState with PC set to the ELF entry point and the stack pointer (x2)
// set just below the top of a 1 MiB stack region placed above the highest
// loaded address.
func Load(f *elf.File) (*memory.Paged, *riscv.CpuState, error) {
	if f.Class != elf.ELFCLASS32 {
		return nil, nil, fmt.Errorf("elfloader: only ELFCLASS32 is supported, got %s", f.Class)
	}
	if f.Machine != elf.EM_RISCV {
		return nil, nil, fmt.Errorf("elfloader: only EM_RISCV is supported, got %s", f.Machine)
	}

	mem := memory.NewPaged()
	var highWater uint32

	for i, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		if prog.Filesz > prog.Memsz {
			return nil, nil, fmt.Errorf("elfloader: segment %d file size (%d) exceeds mem size (%d)", i, prog.Filesz, prog.Memsz)
		}

		data := make([]byte, prog.Memsz)
		r := io.NewSectionReader(prog, 0, int64(prog.Filesz))
		if _, err := io.ReadFull(r, data[:prog.Filesz]); err != nil && err != io.EOF {
			return nil, nil, fmt.Errorf("elfloader: reading segment %d: %w", i, err)
		}
		// data[prog.Filesz:] is already zero from make(), matching the
		// Filesz..Memsz zero-fill the original loader performs explicitly.

		vaddr := uint32(prog.Vaddr)
		mem.SetRange(vaddr, data)
		if top := vaddr + uint32(prog.Memsz); top > highWater {
			highWater = top
		}
	}

	const stackSize = 1 << 20
	stackTop := alignUp(highWater, PageSize) + stackSize
	sp := stackTop - 16 // 16-byte aligned, per the RISC-V calling convention

	cpu := riscv.NewCpuState(uint32(f.Entry))
	cpu.WriteX(2, sp)
	return mem, cpu, nil
}

// PageSize re-exports memory.PageSize for callers sizing the stack region
// around loaded segments.
const PageSize = memory.PageSize

func alignUp(v, align uint32) uint32 {
	return (v + align - 1) &^ (align - 1)
}
