package asm

// checkRegs validates that every register named by an instruction is
// one of r0..r10. The encoder never checks whether a register is
// writable, read-only, or otherwise semantically valid for the
// instruction in question; the kernel verifier does that.
func checkRegs(regs ...Reg) error {
	for _, r := range regs {
		if !r.valid() {
			return invalidReg(r)
		}
	}
	return nil
}

// --- ALU / ALU32 -----------------------------------------------------

// AluReg encodes a 64-bit register-register ALU operation: dst = dst <op> src.
func AluReg(op AluOp, dst, src Reg) (Insn, error) {
	if err := checkRegs(dst, src); err != nil {
		return Insn{}, err
	}
	return Insn{Opcode: classAlu64 | byte(op) | srcX, Dst: dst, Src: src}, nil
}

// AluImm encodes a 64-bit register-immediate ALU operation: dst = dst <op> imm.
func AluImm(op AluOp, dst Reg, imm int32) (Insn, error) {
	if err := checkRegs(dst); err != nil {
		return Insn{}, err
	}
	return Insn{Opcode: classAlu64 | byte(op) | srcK, Dst: dst, Imm: imm}, nil
}

// Alu32Reg encodes a 32-bit register-register ALU operation.
func Alu32Reg(op AluOp, dst, src Reg) (Insn, error) {
	if err := checkRegs(dst, src); err != nil {
		return Insn{}, err
	}
	return Insn{Opcode: classAlu | byte(op) | srcX, Dst: dst, Src: src}, nil
}

// Alu32Imm encodes a 32-bit register-immediate ALU operation.
func Alu32Imm(op AluOp, dst Reg, imm int32) (Insn, error) {
	if err := checkRegs(dst); err != nil {
		return Insn{}, err
	}
	return Insn{Opcode: classAlu | byte(op) | srcK, Dst: dst, Imm: imm}, nil
}

// Mov, MovImm and the rest of the named ALU helpers are thin
// wrappers over AluReg/AluImm for readability at call sites.
func Mov(dst, src Reg) (Insn, error)         { return AluReg(AluMov, dst, src) }
func MovImm(dst Reg, imm int32) (Insn, error) { return AluImm(AluMov, dst, imm) }
func Add(dst, src Reg) (Insn, error)         { return AluReg(AluAdd, dst, src) }
func AddImm(dst Reg, imm int32) (Insn, error) { return AluImm(AluAdd, dst, imm) }
func Sub(dst, src Reg) (Insn, error)         { return AluReg(AluSub, dst, src) }
func SubImm(dst Reg, imm int32) (Insn, error) { return AluImm(AluSub, dst, imm) }
func Mul(dst, src Reg) (Insn, error)         { return AluReg(AluMul, dst, src) }
func MulImm(dst Reg, imm int32) (Insn, error) { return AluImm(AluMul, dst, imm) }
func Div(dst, src Reg) (Insn, error)         { return AluReg(AluDiv, dst, src) }
func DivImm(dst Reg, imm int32) (Insn, error) { return AluImm(AluDiv, dst, imm) }
func Mod(dst, src Reg) (Insn, error)         { return AluReg(AluMod, dst, src) }
func ModImm(dst Reg, imm int32) (Insn, error) { return AluImm(AluMod, dst, imm) }
func Or(dst, src Reg) (Insn, error)          { return AluReg(AluOr, dst, src) }
func OrImm(dst Reg, imm int32) (Insn, error)  { return AluImm(AluOr, dst, imm) }
func And(dst, src Reg) (Insn, error)         { return AluReg(AluAnd, dst, src) }
func AndImm(dst Reg, imm int32) (Insn, error) { return AluImm(AluAnd, dst, imm) }
func Xor(dst, src Reg) (Insn, error)         { return AluReg(AluXor, dst, src) }
func XorImm(dst Reg, imm int32) (Insn, error) { return AluImm(AluXor, dst, imm) }
func Lsh(dst, src Reg) (Insn, error)         { return AluReg(AluLsh, dst, src) }
func LshImm(dst Reg, imm int32) (Insn, error) { return AluImm(AluLsh, dst, imm) }
func Rsh(dst, src Reg) (Insn, error)         { return AluReg(AluRsh, dst, src) }
func RshImm(dst Reg, imm int32) (Insn, error) { return AluImm(AluRsh, dst, imm) }
func Arsh(dst, src Reg) (Insn, error)        { return AluReg(AluArsh, dst, src) }
func ArshImm(dst Reg, imm int32) (Insn, error) { return AluImm(AluArsh, dst, imm) }

// Neg encodes a 64-bit two's complement negation of dst. The src field
// and immediate are unused by this opcode.
func Neg(dst Reg) (Insn, error) {
	if err := checkRegs(dst); err != nil {
		return Insn{}, err
	}
	return Insn{Opcode: classAlu64 | byte(AluNeg), Dst: dst}, nil
}

// Neg32 is the 32-bit variant of Neg.
func Neg32(dst Reg) (Insn, error) {
	if err := checkRegs(dst); err != nil {
		return Insn{}, err
	}
	return Insn{Opcode: classAlu | byte(AluNeg), Dst: dst}, nil
}

// --- byte swap ---------------------------------------------------------

func endianInsn(dst Reg, width int32, src byte) (Insn, error) {
	if err := checkRegs(dst); err != nil {
		return Insn{}, err
	}
	return Insn{Opcode: classAlu | byte(AluEnd) | src, Dst: dst, Imm: width}, nil
}

// BE16/BE32/BE64 convert dst from host to network byte order in place.
func BE16(dst Reg) (Insn, error) { return endianInsn(dst, 16, endianNet) }
func BE32(dst Reg) (Insn, error) { return endianInsn(dst, 32, endianNet) }
func BE64(dst Reg) (Insn, error) { return endianInsn(dst, 64, endianNet) }

// LE16/LE32/LE64 convert dst to little-endian (a no-op on little-endian
// hosts, but the kernel still requires the explicit conversion
// instruction be present).
func LE16(dst Reg) (Insn, error) { return endianInsn(dst, 16, endianHost) }
func LE32(dst Reg) (Insn, error) { return endianInsn(dst, 32, endianHost) }
func LE64(dst Reg) (Insn, error) { return endianInsn(dst, 64, endianHost) }

// --- load / store --------------------------------------------------------

// LdxB/LdxH/LdxW/LdxDW encode `ldx size dst src off`: dst = *(size*)(src + off).
func ldx(size byte, dst, src Reg, off int16) (Insn, error) {
	if err := checkRegs(dst, src); err != nil {
		return Insn{}, err
	}
	return Insn{Opcode: classLdx | modeMem | size, Dst: dst, Src: src, Offset: off}, nil
}

func LdxB(dst, src Reg, off int16) (Insn, error)  { return ldx(sizeB, dst, src, off) }
func LdxH(dst, src Reg, off int16) (Insn, error)  { return ldx(sizeH, dst, src, off) }
func LdxW(dst, src Reg, off int16) (Insn, error)  { return ldx(sizeW, dst, src, off) }
func LdxDW(dst, src Reg, off int16) (Insn, error) { return ldx(sizeDW, dst, src, off) }

// StxB/StxH/StxW/StxDW encode `stx size dst off src`: *(size*)(dst + off) = src.
func stx(size byte, dst Reg, off int16, src Reg) (Insn, error) {
	if err := checkRegs(dst, src); err != nil {
		return Insn{}, err
	}
	return Insn{Opcode: classStx | modeMem | size, Dst: dst, Src: src, Offset: off}, nil
}

func StxB(dst Reg, off int16, src Reg) (Insn, error)  { return stx(sizeB, dst, off, src) }
func StxH(dst Reg, off int16, src Reg) (Insn, error)  { return stx(sizeH, dst, off, src) }
func StxW(dst Reg, off int16, src Reg) (Insn, error)  { return stx(sizeW, dst, off, src) }
func StxDW(dst Reg, off int16, src Reg) (Insn, error) { return stx(sizeDW, dst, off, src) }

// StB/StH/StW/StDW encode `st size dst off imm`: *(size*)(dst + off) = imm.
func st(size byte, dst Reg, off int16, imm int32) (Insn, error) {
	if err := checkRegs(dst); err != nil {
		return Insn{}, err
	}
	return Insn{Opcode: classSt | modeMem | size, Dst: dst, Offset: off, Imm: imm}, nil
}

func StB(dst Reg, off int16, imm int32) (Insn, error)  { return st(sizeB, dst, off, imm) }
func StH(dst Reg, off int16, imm int32) (Insn, error)  { return st(sizeH, dst, off, imm) }
func StW(dst Reg, off int16, imm int32) (Insn, error)  { return st(sizeW, dst, off, imm) }
func StDW(dst Reg, off int16, imm int32) (Insn, error) { return st(sizeDW, dst, off, imm) }

// LoadImm64 encodes `lddw dst, imm64`, a two-word wide immediate load
// of a plain 64-bit constant.
func LoadImm64(dst Reg, imm uint64) (Wide, error) {
	if err := checkRegs(dst); err != nil {
		return Wide{}, err
	}
	return Wide{Dst: dst, Imm64: imm}, nil
}

// LoadMapFD encodes `lddw dst, <map fd>` with the pseudo-fd source
// marker set, the form the ELF relocator rewrites after a map symbol
// has been resolved to its loaded file descriptor.
func LoadMapFD(dst Reg, fd uint32) (Wide, error) {
	if err := checkRegs(dst); err != nil {
		return Wide{}, err
	}
	return Wide{Dst: dst, Imm64: uint64(fd), PseudoSrc: PseudoMapFD}, nil
}

// --- jumps -----------------------------------------------------------

// Ja encodes an unconditional jump to a label.
func Ja(target string) Jump {
	return Jump{Opcode: classJmp | byte(JumpJA), Target: target}
}

// JumpIfReg encodes a 64-bit conditional jump comparing dst against src.
func JumpIfReg(op JumpOp, dst, src Reg, target string) (Jump, error) {
	if err := checkRegs(dst, src); err != nil {
		return Jump{}, err
	}
	return Jump{Opcode: classJmp | byte(op) | srcX, Dst: dst, Src: src, Target: target}, nil
}

// JumpIfImm encodes a 64-bit conditional jump comparing dst against an immediate.
func JumpIfImm(op JumpOp, dst Reg, imm int32, target string) (Jump, error) {
	if err := checkRegs(dst); err != nil {
		return Jump{}, err
	}
	return Jump{Opcode: classJmp | byte(op) | srcK, Dst: dst, Imm: imm, Target: target}, nil
}

// JumpIf32Reg and JumpIf32Imm are the BPF_JMP32 (32-bit compare) variants.
func JumpIf32Reg(op JumpOp, dst, src Reg, target string) (Jump, error) {
	if err := checkRegs(dst, src); err != nil {
		return Jump{}, err
	}
	return Jump{Opcode: classJmp32 | byte(op) | srcX, Dst: dst, Src: src, Target: target}, nil
}

func JumpIf32Imm(op JumpOp, dst Reg, imm int32, target string) (Jump, error) {
	if err := checkRegs(dst); err != nil {
		return Jump{}, err
	}
	return Jump{Opcode: classJmp32 | byte(op) | srcK, Dst: dst, Imm: imm, Target: target}, nil
}

// Call invokes a kernel helper function by numeric id.
func Call(helper int32) Insn {
	return Insn{Opcode: classJmp | byte(JumpCall), Imm: helper}
}

// Exit returns from the program with the value currently in r0.
func Exit() Insn {
	return Insn{Opcode: classJmp | byte(JumpExit)}
}
