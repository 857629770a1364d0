package elfloader

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildMinimalRiscv32ELF hand-assembles the smallest valid 32-bit EM_RISCV
// ELF that debug/elf.NewFile will parse: an ELF header plus a single
// PT_LOAD program header, no section headers.
func buildMinimalRiscv32ELF(t *testing.T, entry, vaddr uint32, fileBytes []byte, memsz uint32) []byte {
	t.Helper()
	const ehsize = 52
	const phentsize = 32
	const phoff = ehsize

	buf := new(bytes.Buffer)

	ident := make([]byte, 16)
	ident[0], ident[1], ident[2], ident[3] = 0x7f, 'E', 'L', 'F'
	ident[4] = 1 // ELFCLASS32
	ident[5] = 1 // ELFDATA2LSB
	ident[6] = 1 // EV_CURRENT
	buf.Write(ident)

	write16 := func(v uint16) { binary.Write(buf, binary.LittleEndian, v) }
	write32 := func(v uint32) { binary.Write(buf, binary.LittleEndian, v) }

	write16(uint16(elf.ET_EXEC))
	write16(uint16(elf.EM_RISCV))
	write32(1) // e_version
	write32(entry)
	write32(phoff)
	write32(0) // e_shoff
	write32(0) // e_flags
	write16(ehsize)
	write16(phentsize)
	write16(1) // e_phnum
	write16(0) // e_shentsize
	write16(0) // e_shnum
	write16(0) // e_shstrndx

	require.Equal(t, ehsize, buf.Len())

	// Program header: PT_LOAD at file offset ehsize+phentsize (right after
	// this single header), loaded at vaddr.
	dataOff := uint32(ehsize + phentsize)
	write32(uint32(elf.PT_LOAD))
	write32(dataOff)
	write32(vaddr)
	write32(vaddr) // p_paddr
	write32(uint32(len(fileBytes)))
	write32(memsz)
	write32(uint32(elf.PF_X | elf.PF_R | elf.PF_W))
	write32(0x1000) // p_align

	require.Equal(t, int(dataOff), buf.Len())
	buf.Write(fileBytes)
	return buf.Bytes()
}

func TestLoadPlacesSegmentDataAtItsVirtualAddress(t *testing.T) {
	code := []byte{0x13, 0x05, 0x50, 0x00} // addi a0, x0, 5
	raw := buildMinimalRiscv32ELF(t, 0x1000, 0x1000, code, uint32(len(code)))

	f, err := elf.NewFile(bytes.NewReader(raw))
	require.NoError(t, err)

	mem, cpu, err := Load(f)
	require.NoError(t, err)
	require.Equal(t, uint32(0x1000), cpu.Pc)

	v, ok := mem.Load(0x1000, 4)
	require.True(t, ok)
	require.Equal(t, uint32(0x00500513), v)
}

func TestLoadZeroFillsTheMemsizeTailBeyondFilesize(t *testing.T) {
	code := []byte{0xff, 0xff, 0xff, 0xff}
	raw := buildMinimalRiscv32ELF(t, 0x1000, 0x1000, code, 8) // memsz twice filesz

	f, err := elf.NewFile(bytes.NewReader(raw))
	require.NoError(t, err)

	mem, _, err := Load(f)
	require.NoError(t, err)

	tail, ok := mem.Load(0x1004, 4)
	require.True(t, ok)
	require.Equal(t, uint32(0), tail, "bytes beyond Filesz but within Memsz must be zero, not garbage")
}

func TestLoadSetsStackPointerAbovePageAlignedHighWaterMark(t *testing.T) {
	code := []byte{0, 0, 0, 0}
	raw := buildMinimalRiscv32ELF(t, 0x1000, 0x1000, code, uint32(len(code)))

	f, err := elf.NewFile(bytes.NewReader(raw))
	require.NoError(t, err)

	_, cpu, err := Load(f)
	require.NoError(t, err)

	sp := cpu.ReadX(2)
	require.Equal(t, uint32(0), sp%16, "the stack pointer is 16-byte aligned")
	require.Greater(t, sp, uint32(0x1000+len(code)))
}

func TestLoadRejectsNonRiscvMachine(t *testing.T) {
	code := []byte{0, 0, 0, 0}
	raw := buildMinimalRiscv32ELF(t, 0x1000, 0x1000, code, uint32(len(code)))
	// flip e_machine to something else (x86-64) while keeping the rest intact.
	binary.LittleEndian.PutUint16(raw[18:20], uint16(elf.EM_X86_64))

	f, err := elf.NewFile(bytes.NewReader(raw))
	require.NoError(t, err)

	_, _, err = Load(f)
	require.Error(t, err)
}

func TestLoadRejectsFilesizeExceedingMemsize(t *testing.T) {
	code := []byte{1, 2, 3, 4}
	raw := buildMinimalRiscv32ELF(t, 0x1000, 0x1000, code, 2) // memsz smaller than filesz

	f, err := elf.NewFile(bytes.NewReader(raw))
	require.NoError(t, err)

	_, _, err = Load(f)
	require.Error(t, err)
}
