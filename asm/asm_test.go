package asm

import (
	"bytes"
	"testing"
)

func assert(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

func mustInsn(t *testing.T) func(Insn, error) Insn {
	return func(i Insn, err error) Insn {
		t.Helper()
		assert(t, err == nil, "unexpected encoder error: %v", err)
		return i
	}
}

// Scenario 1: forward jump across exactly one instruction.
func TestForwardJump(t *testing.T) {
	jeq, err := JumpIfImm(JumpJEQ, R0, 0, "L")
	assert(t, err == nil, "%v", err)

	code, err := Assemble(List{
		jeq,
		mustInsn(t)(MovImm(R0, 1)),
		Label("L"),
		Exit(),
	})
	assert(t, err == nil, "assemble failed: %v", err)
	assert(t, len(code) == 24, "expected 24 bytes, got %d", len(code))

	offset := int16(code[2]) | int16(code[3])<<8
	assert(t, offset == 1, "expected offset 1, got %d", offset)
}

// Scenario 2: backward loop.
func TestBackwardLoop(t *testing.T) {
	code, err := Assemble(List{
		Label("L"),
		mustInsn(t)(MovImm(R0, 1)),
		Ja("L"),
	})
	assert(t, err == nil, "assemble failed: %v", err)
	assert(t, len(code) == 16, "expected 16 bytes, got %d", len(code))

	off := int16(uint16(code[8+2]) | uint16(code[8+3])<<8)
	assert(t, off == -2, "expected offset -2, got %d", off)
}

// Scenario 3: XDP pass.
func TestXDPPass(t *testing.T) {
	code, err := Assemble(List{
		mustInsn(t)(MovImm(R0, 2)),
		Exit(),
	})
	assert(t, err == nil, "assemble failed: %v", err)

	want := []byte{0xb7, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x95, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	assert(t, bytes.Equal(code, want), "got % x want % x", code, want)
}

// Scenario 4: arithmetic.
func TestArithmetic(t *testing.T) {
	code, err := Assemble(List{
		mustInsn(t)(MovImm(R0, 1)),
		mustInsn(t)(MovImm(R1, 2)),
		mustInsn(t)(Add(R0, R1)),
		Exit(),
	})
	assert(t, err == nil, "assemble failed: %v", err)
	assert(t, len(code) == 32, "expected 32 bytes, got %d", len(code))

	third := code[16:24]
	assert(t, third[0] == 0x0f, "expected opcode 0x0f, got %#x", third[0])
	assert(t, third[1]&0x0f == 0, "expected dst_reg 0, got %d", third[1]&0x0f)
	assert(t, third[1]>>4 == 1, "expected src_reg 1, got %d", third[1]>>4)
}

// Scenario 5: undefined label.
func TestUndefinedLabel(t *testing.T) {
	_, err := Assemble(List{Ja("L"), Exit()})
	assert(t, err != nil, "expected error")
	asmErr, ok := err.(*AssemblyError)
	assert(t, ok, "expected *AssemblyError, got %T", err)
	assert(t, asmErr.Kind == UndefinedLabel, "expected UndefinedLabel, got %v", asmErr.Kind)
}

// Scenario 6: duplicate label.
func TestDuplicateLabel(t *testing.T) {
	_, err := Assemble(List{
		Label("L"),
		mustInsn(t)(MovImm(R0, 0)),
		Label("L"),
		Exit(),
	})
	assert(t, err != nil, "expected error")
	asmErr, ok := err.(*AssemblyError)
	assert(t, ok, "expected *AssemblyError, got %T", err)
	assert(t, asmErr.Kind == DuplicateLabel, "expected DuplicateLabel, got %v", asmErr.Kind)
}

func TestAdjacentLabelsCollapse(t *testing.T) {
	code, err := Assemble(List{
		Ja("A"),
		Label("A"),
		Label("B"),
		Exit(),
	})
	assert(t, err == nil, "assemble failed: %v", err)
	assert(t, len(code) == 16, "expected 16 bytes, got %d", len(code))

	off := int16(uint16(code[2]) | uint16(code[3])<<8)
	assert(t, off == 0, "expected offset 0, got %d", off)
}

func TestLabelAtEndOfProgram(t *testing.T) {
	code, err := Assemble(List{
		Ja("end"),
		mustInsn(t)(MovImm(R0, 1)),
		Label("end"),
	})
	assert(t, err == nil, "assemble failed: %v", err)
	off := int16(uint16(code[2]) | uint16(code[3])<<8)
	assert(t, off == 1, "expected offset 1, got %d", off)
}

func TestJumpOutOfRange(t *testing.T) {
	list := List{Ja("L")}
	for i := 0; i < 40000; i++ {
		list = append(list, mustInsn(t)(MovImm(R0, 0)))
	}
	list = append(list, Label("L"))

	_, err := Assemble(list)
	assert(t, err != nil, "expected error")
	asmErr, ok := err.(*AssemblyError)
	assert(t, ok, "expected *AssemblyError, got %T", err)
	assert(t, asmErr.Kind == JumpOutOfRange, "expected JumpOutOfRange, got %v", asmErr.Kind)
}

func TestWideLoadOccupiesTwoWords(t *testing.T) {
	wide, err := LoadImm64(R1, 0xFFFFFF0000000001)
	assert(t, err == nil, "%v", err)

	code, err := Assemble(List{
		wide,
		Label("after"),
		Ja("after"),
	})
	assert(t, err == nil, "assemble failed: %v", err)
	assert(t, len(code) == 24, "expected 24 bytes, got %d", len(code))

	off := int16(uint16(code[16+2]) | uint16(code[16+3])<<8)
	assert(t, off == -1, "expected offset -1 (jump targets its own word index), got %d", off)
}

func TestDeterministic(t *testing.T) {
	build := func() List {
		return List{
			mustInsn(t)(MovImm(R0, 1)),
			mustInsn(t)(AddImm(R0, 2)),
			Exit(),
		}
	}
	a, err := Assemble(build())
	assert(t, err == nil, "%v", err)
	b, err := Assemble(build())
	assert(t, err == nil, "%v", err)
	assert(t, bytes.Equal(a, b), "assemble is not deterministic")
}

func TestInvalidRegisterRejected(t *testing.T) {
	_, err := Mov(Reg(11), R0)
	assert(t, err != nil, "expected error for out-of-range register")
	_, ok := err.(*InvalidInstruction)
	assert(t, ok, "expected *InvalidInstruction, got %T", err)
}

func TestNestedListsFlatten(t *testing.T) {
	inner := List{mustInsn(t)(MovImm(R1, 2)), mustInsn(t)(Add(R0, R1))}
	code, err := Assemble(List{
		mustInsn(t)(MovImm(R0, 1)),
		inner,
		Exit(),
	})
	assert(t, err == nil, "assemble failed: %v", err)
	assert(t, len(code) == 32, "expected 32 bytes, got %d", len(code))
}
