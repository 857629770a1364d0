package riscv

// Kind discriminates the roughly 150 architectural operations the decoder
// can produce. Op is a flat tagged value, not an object hierarchy: the
// interpreter dispatches on Kind alone and every variant already carries
// its decoded fields, so execute never re-parses the instruction word.
type Kind uint16

const (
	Illegal Kind = iota

	// RV32I
	Lui
	Auipc
	Jal
	Jalr
	Beq
	Bne
	Blt
	Bge
	Bltu
	Bgeu
	Lb
	Lh
	Lw
	Lbu
	Lhu
	Sb
	Sh
	Sw
	Addi
	Slti
	Sltiu
	Xori
	Ori
	Andi
	Slli
	Srli
	Srai
	Add
	Sub
	Sll
	Slt
	Sltu
	Xor
	Srl
	Sra
	Or
	And
	Fence
	FenceI
	Ecall
	Ebreak
	Wfi
	Csrrw
	Csrrs
	Csrrc
	Csrrwi
	Csrrsi
	Csrrci

	// M extension
	Mul
	Mulh
	Mulhsu
	Mulhu
	Div
	Divu
	Rem
	Remu

	// A extension
	LrW
	ScW
	AmoswapW
	AmoaddW
	AmoxorW
	AmoandW
	AmoorW
	AmominW
	AmomaxW
	AmominuW
	AmomaxuW

	// F extension
	Flw
	Fsw
	FmaddS
	FmsubS
	FnmsubS
	FnmaddS
	FaddS
	FsubS
	FmulS
	FdivS
	FsqrtS
	FsgnjS
	FsgnjnS
	FsgnjxS
	FminS
	FmaxS
	FcvtWS
	FcvtWuS
	FmvXW
	FeqS
	FltS
	FleS
	FclassS
	FcvtSW
	FcvtSWu
	FmvWX

	// D extension
	Fld
	Fsd
	FmaddD
	FmsubD
	FnmsubD
	FnmaddD
	FaddD
	FsubD
	FmulD
	FdivD
	FsqrtD
	FsgnjD
	FsgnjnD
	FsgnjxD
	FminD
	FmaxD
	FcvtWD
	FcvtWuD
	FeqD
	FltD
	FleD
	FclassD
	FcvtDW
	FcvtDWu
	FcvtSD
	FcvtDS
)

// Op is the decoded, self-contained description of one instruction. It
// carries exactly the operand fields its Kind needs and holds no
// references into memory.
type Op struct {
	Kind Kind
	Raw  uint32

	Rd, Rs1, Rs2, Rs3 uint8
	Imm               int32
	Shamt             uint8

	// Funct3 is preserved verbatim for ops whose semantics depend on it
	// beyond Kind selection (fence pred/succ ordering bits reuse Imm).
	Funct3 uint8

	// Rm is the funct3-derived rounding-mode selector for F/D ops: 0..4
	// select a static mode, 7 selects "read fcsr.frm at execute time".
	Rm uint8

	// Aq/Rl are the atomic ordering bits; decoded and preserved even
	// though the single-hart interpreter ignores them.
	Aq, Rl bool

	// Csr is the 12-bit zero-extended CSR address for Zicsr ops.
	Csr uint16

	// Width is the memory access width in bytes for loads/stores/AMOs.
	Width uint8

	// Compressed marks that this Op was expanded from a 16-bit encoding,
	// so the interpreter advances PC by 2 instead of 4 on success.
	Compressed bool
}

// InstBytes returns how far PC advances past this instruction on a
// non-branching, non-trapping step.
func (o Op) InstBytes() uint32 {
	if o.Compressed {
		return 2
	}
	return 4
}
