package asm

// Instruction classes, packed into the low 3 bits of the opcode byte.
const (
	classLd    byte = 0x00
	classLdx   byte = 0x01
	classSt    byte = 0x02
	classStx   byte = 0x03
	classAlu   byte = 0x04
	classJmp   byte = 0x05
	classJmp32 byte = 0x06
	classAlu64 byte = 0x07
)

// Load/store size modifiers, bits 3-4 of the opcode byte.
const (
	sizeW  byte = 0x00 // word, 32-bit
	sizeH  byte = 0x08 // half, 16-bit
	sizeB  byte = 0x10 // byte, 8-bit
	sizeDW byte = 0x18 // doubleword, 64-bit
)

// Load/store addressing modes, bits 5-7 of the opcode byte.
const (
	modeImm byte = 0x00
	modeAbs byte = 0x20
	modeInd byte = 0x40
	modeMem byte = 0x60
	modeXAdd byte = 0xc0
)

// ALU/JMP source bit: 0 selects the immediate operand, 0x08 selects
// the src register operand.
const (
	srcK byte = 0x00
	srcX byte = 0x08
)

// ALU operation codes, bits 4-7 of the opcode byte for BPF_ALU/BPF_ALU64.
type AluOp byte

const (
	AluAdd  AluOp = 0x00
	AluSub  AluOp = 0x10
	AluMul  AluOp = 0x20
	AluDiv  AluOp = 0x30
	AluOr   AluOp = 0x40
	AluAnd  AluOp = 0x50
	AluLsh  AluOp = 0x60
	AluRsh  AluOp = 0x70
	AluNeg  AluOp = 0x80
	AluMod  AluOp = 0x90
	AluXor  AluOp = 0xa0
	AluMov  AluOp = 0xb0
	AluArsh AluOp = 0xc0
	AluEnd  AluOp = 0xd0
)

// Jump operation codes, bits 4-7 of the opcode byte for BPF_JMP/BPF_JMP32.
type JumpOp byte

const (
	JumpJA   JumpOp = 0x00
	JumpJEQ  JumpOp = 0x10
	JumpJGT  JumpOp = 0x20
	JumpJGE  JumpOp = 0x30
	JumpJSET JumpOp = 0x40
	JumpJNE  JumpOp = 0x50
	JumpJSGT JumpOp = 0x60
	JumpJSGE JumpOp = 0x70
	JumpCall JumpOp = 0x80
	JumpExit JumpOp = 0x90
	JumpJLT  JumpOp = 0xa0
	JumpJLE  JumpOp = 0xb0
	JumpJSLT JumpOp = 0xc0
	JumpJSLE JumpOp = 0xd0
)

// Endianness conversion uses the ALU class with AluEnd and the
// immediate carrying the target width (16, 32 or 64).
const (
	endianHost byte = 0x00 // BPF_TO_LE when src bit is 0
	endianNet  byte = 0x08 // BPF_TO_BE when src bit is set
)

// PseudoMapFD is the src_reg value a lddw instruction carries once its
// immediate has been rewritten to hold a loaded map's file descriptor.
const PseudoMapFD = 1

// HelperRedirectMap is the numeric id of the bpf_redirect_map helper,
// used from program code to forward a packet into a socket/device/cpu/
// xsk map.
const HelperRedirectMap = 51
