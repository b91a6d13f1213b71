package asm

// Assemble flattens a possibly-nested instruction list, resolves every
// symbolic jump to a concrete PC-relative offset, and concatenates the
// result into bytecode whose length is always a multiple of 8.
//
// The algorithm is a label pass followed by a resolution pass: first
// every label's word index is recorded (a Wide load counts as two
// words), then every Jump's offset is computed as
// target_index - current_index - 1 and range-checked to fit a signed
// 16-bit field.
func Assemble(list List) ([]byte, error) {
	flat := flatten(list, nil)

	labels, err := labelPass(flat)
	if err != nil {
		return nil, err
	}

	return resolvePass(flat, labels)
}

func flatten(list List, out []Node) []Node {
	for _, node := range list {
		if nested, ok := node.(List); ok {
			out = flatten(nested, out)
			continue
		}
		out = append(out, node)
	}
	return out
}

func labelPass(flat []Node) (map[string]int, error) {
	labels := make(map[string]int)
	index := 0
	for _, node := range flat {
		if label, ok := node.(Label); ok {
			name := string(label)
			if _, dup := labels[name]; dup {
				return nil, &AssemblyError{Kind: DuplicateLabel, Detail: name}
			}
			labels[name] = index
			continue
		}
		index += node.words()
	}
	return labels, nil
}

func resolvePass(flat []Node, labels map[string]int) ([]byte, error) {
	out := make([]byte, 0, len(flat)*8)
	index := 0
	for _, node := range flat {
		switch n := node.(type) {
		case Label:
			// zero-width, already accounted for in labelPass
		case Insn:
			b := n.Bytes()
			out = append(out, b[:]...)
			index++
		case Wide:
			b := n.Bytes()
			out = append(out, b[:]...)
			index += 2
		case Jump:
			target, ok := labels[n.Target]
			if !ok {
				return nil, &AssemblyError{Kind: UndefinedLabel, Detail: n.Target}
			}
			off := target - index - 1
			if off < -32768 || off > 32767 {
				return nil, &AssemblyError{Kind: JumpOutOfRange, Detail: n.Target}
			}
			insn := Insn{Opcode: n.Opcode, Dst: n.Dst, Src: n.Src, Offset: int16(off), Imm: n.Imm}
			b := insn.Bytes()
			out = append(out, b[:]...)
			index++
		default:
			// Lists are removed by flatten; nothing else implements Node.
		}
	}
	return out, nil
}
