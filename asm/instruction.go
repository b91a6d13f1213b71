package asm

import "encoding/binary"

// Node is an element of an instruction list: an already-encoded
// instruction, a wide (two-word) immediate load, a symbolic jump
// awaiting label resolution, a label marker, or a nested list. Only
// List may itself contain other Nodes.
type Node interface {
	isNode()
	// words reports how many 8-byte instruction slots this node
	// occupies once resolved. Label occupies zero.
	words() int
}

// List is an ordered, possibly-nested instruction sequence. Flattening
// is depth-first, left-to-right.
type List []Node

func (List) isNode()    {}
func (l List) words() int {
	n := 0
	for _, node := range l {
		n += node.words()
	}
	return n
}

// Insn is a fully-resolved 8-byte instruction: opcode, dst/src
// register nibbles, signed 16-bit offset, signed 32-bit immediate.
type Insn struct {
	Opcode byte
	Dst    Reg
	Src    Reg
	Offset int16
	Imm    int32
}

func (Insn) isNode()    {}
func (Insn) words() int { return 1 }

// Bytes encodes the instruction as its little-endian 8-byte word.
func (i Insn) Bytes() [8]byte {
	var b [8]byte
	b[0] = i.Opcode
	b[1] = byte(i.Dst) | byte(i.Src)<<4
	binary.LittleEndian.PutUint16(b[2:4], uint16(i.Offset))
	binary.LittleEndian.PutUint32(b[4:8], uint32(i.Imm))
	return b
}

// Wide is a 64-bit immediate load (lddw); it occupies two adjacent
// instruction words and is indivisible for label-counting purposes.
type Wide struct {
	Dst    Reg
	Imm64  uint64
	PseudoSrc Reg // 0 for a plain constant, PseudoMapFD for a map-fd load
}

func (Wide) isNode()    {}
func (Wide) words() int { return 2 }

// Bytes encodes the two words of a wide immediate load.
func (w Wide) Bytes() [16]byte {
	var out [16]byte
	first := Insn{
		Opcode: classLd | sizeDW | modeImm,
		Dst:    w.Dst,
		Src:    w.PseudoSrc,
		Imm:    int32(uint32(w.Imm64)),
	}
	second := Insn{
		Imm: int32(uint32(w.Imm64 >> 32)),
	}
	b0 := first.Bytes()
	b1 := second.Bytes()
	copy(out[0:8], b0[:])
	copy(out[8:16], b1[:])
	return out
}

// Jump is a symbolic jump: a conditional or unconditional branch whose
// destination is a label name, resolved to a signed 16-bit PC-relative
// offset during assembly.
type Jump struct {
	Opcode byte
	Dst    Reg
	Src    Reg
	Imm    int32
	Target string
}

func (Jump) isNode()    {}
func (Jump) words() int { return 1 }

// Label is a named, zero-width position marker.
type Label string

func (Label) isNode()    {}
func (Label) words() int { return 0 }
