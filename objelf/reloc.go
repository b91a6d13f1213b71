package objelf

import (
	"debug/elf"
)

const rela64EntrySize = 24 // r_offset u64, r_info u64, r_addend s64

// relocationsForSection finds the SHT_RELA section (if any) whose
// sh_info names the target section's index and decodes its entries.
func relocationsForSection(f *elf.File, target *elf.Section, symbols []elf.Symbol) ([]Relocation, error) {
	targetIdx := sectionIndex(f, target.Name)
	if targetIdx == elf.SHN_UNDEF {
		return nil, nil
	}

	var relaSec *elf.Section
	for _, sec := range f.Sections {
		if sec.Type == elf.SHT_RELA && elf.SectionIndex(sec.Info) == targetIdx {
			relaSec = sec
			break
		}
	}
	if relaSec == nil {
		return nil, nil
	}

	data, err := relaSec.Data()
	if err != nil {
		return nil, wrap(Truncated, "relocation section %q: %v", relaSec.Name, err)
	}
	if len(data)%rela64EntrySize != 0 {
		return nil, wrap(BadRelocation, "relocation section %q size %d is not a multiple of %d", relaSec.Name, len(data), rela64EntrySize)
	}

	relocs := make([]Relocation, 0, len(data)/rela64EntrySize)
	for off := 0; off+rela64EntrySize <= len(data); off += rela64EntrySize {
		rOffset := readU64LE(data, off)
		rInfo := readU64LE(data, off+8)
		rAddend := int64(readU64LE(data, off+16))

		symIdx := rInfo >> 32
		relType := uint32(rInfo & 0xffffffff)

		if symIdx == 0 || int(symIdx) >= len(symbols)+1 {
			return nil, wrap(BadRelocation, "relocation in %q references out-of-range symbol %d", target.Name, symIdx)
		}
		// debug/elf's Symbols() drops the reserved null symbol at index
		// 0, so symbol table index N corresponds to symbols[N-1].
		sym := symbols[symIdx-1]

		relocs = append(relocs, Relocation{
			Section: target.Name,
			Offset:  int(rOffset),
			Symbol:  sym.Name,
			Addend:  rAddend,
			Type:    relType,
		})
	}
	return relocs, nil
}

// ApplyMapRelocations rewrites every relocation in relocs against
// insns: the 32-bit immediate of the instruction word at the
// relocation's offset is overwritten with the loaded map's file
// descriptor (looked up in fds by symbol name), and that word's
// src_reg nibble is set to the pseudo-fd marker (1). insns is modified
// in place.
func ApplyMapRelocations(insns []byte, relocs []Relocation, fds map[string]uint32) error {
	for _, r := range relocs {
		if r.Offset < 0 || r.Offset+8 > len(insns) {
			return wrap(BadRelocation, "relocation offset %d out of bounds for %d-byte section", r.Offset, len(insns))
		}
		fd, ok := fds[r.Symbol]
		if !ok {
			return wrap(BadRelocation, "relocation references unresolved map symbol %q", r.Symbol)
		}

		word := insns[r.Offset : r.Offset+8]
		word[1] = (readU8(word, 1) & 0x0f) | (1 << 4) // src_reg nibble = pseudo-fd marker
		word[4] = byte(fd)
		word[5] = byte(fd >> 8)
		word[6] = byte(fd >> 16)
		word[7] = byte(fd >> 24)
	}
	return nil
}
