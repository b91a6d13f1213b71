// Package asm encodes symbolic eBPF instruction forms into the 8-byte
// words the kernel verifier expects, and assembles an instruction list
// containing labels and symbolic jumps into a contiguous bytecode
// stream.
package asm

import "fmt"

// Reg names one of the eBPF VM's 11 general purpose registers. R10 is
// the read-only frame pointer.
type Reg uint8

const (
	R0 Reg = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	R8
	R9
	R10
)

func (r Reg) String() string {
	if r > R10 {
		return fmt.Sprintf("r?%d", uint8(r))
	}
	return fmt.Sprintf("r%d", uint8(r))
}

func (r Reg) valid() bool {
	return r <= R10
}
