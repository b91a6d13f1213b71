package objelf

import (
	"bytes"
	"debug/elf"

	"ebpfcore/ebpftype"
)

const defaultLicense = "GPL"

// ParseObject validates and parses a 64-bit little-endian relocatable
// ELF object: its magic and class byte, section table, string tables,
// symbols, and RELA relocation entries. Program sections are extracted
// per classifyProgType, map definitions from a maps/.maps section, and
// the license from a section named "license" (default "GPL").
//
// Section/symbol/relocation-table plumbing is delegated to the
// standard library's debug/elf; everything specific to the BPF object
// convention (map records, section-name program typing, map-fd
// relocation application) is implemented on top of it.
func ParseObject(data []byte) (*Object, error) {
	if len(data) < 5 {
		return nil, wrap(Truncated, "object shorter than ELF identification block")
	}
	if !bytes.Equal(data[0:4], []byte{0x7f, 'E', 'L', 'F'}) {
		return nil, wrap(Magic, "missing \\x7fELF magic")
	}
	if data[4] != 2 { // ELFCLASS64
		return nil, wrap(Class, "only 64-bit objects are supported")
	}

	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, wrap(Truncated, "%v", err)
	}
	if f.Class != elf.ELFCLASS64 || f.Data != elf.ELFDATA2LSB {
		return nil, wrap(Class, "only 64-bit little-endian objects are supported")
	}

	symbols, err := f.Symbols()
	if err != nil {
		// A valid BPF object may legitimately have no symbol table
		// section if it defines no maps; only treat this as fatal if a
		// maps section later needs symbols and finds none.
		symbols = nil
	}

	obj := &Object{License: defaultLicense}

	if mapsSec, name := findMapsSection(f); mapsSec != nil {
		defs, err := decodeMapsSection(mapsSec, name, symbols, f)
		if err != nil {
			return nil, err
		}
		obj.Maps = defs
	}

	if lic := f.Section("license"); lic != nil {
		raw, err := lic.Data()
		if err != nil {
			return nil, wrap(Truncated, "license section: %v", err)
		}
		if s := readCString(raw, 0); s != "" {
			obj.License = s
		}
	}

	for _, sec := range f.Sections {
		if sec.Type != elf.SHT_PROGBITS {
			continue
		}
		if sec.Flags&elf.SHF_EXECINSTR == 0 {
			continue
		}
		if reservedSectionNames[sec.Name] {
			continue
		}

		insns, err := sec.Data()
		if err != nil {
			return nil, wrap(Truncated, "section %q: %v", sec.Name, err)
		}
		if len(insns) == 0 || len(insns)%8 != 0 {
			continue
		}

		progType, err := classifyProgType(sec.Name)
		if err != nil {
			return nil, err
		}

		relocs, err := relocationsForSection(f, sec, symbols)
		if err != nil {
			return nil, err
		}

		obj.Programs = append(obj.Programs, ProgramSection{
			Name:        sec.Name,
			Type:        progType,
			Insns:       insns,
			Relocations: relocs,
		})
	}

	return obj, nil
}

func findMapsSection(f *elf.File) (*elf.Section, string) {
	if sec := f.Section("maps"); sec != nil {
		return sec, "maps"
	}
	if sec := f.Section(".maps"); sec != nil {
		return sec, ".maps"
	}
	return nil, ""
}

const mapDefSize = 20

func decodeMapsSection(sec *elf.Section, name string, symbols []elf.Symbol, f *elf.File) ([]MapDef, error) {
	data, err := sec.Data()
	if err != nil {
		return nil, wrap(Truncated, "maps section: %v", err)
	}
	if len(data)%mapDefSize != 0 {
		return nil, wrap(Truncated, "maps section size %d is not a multiple of %d", len(data), mapDefSize)
	}

	secIndex := sectionIndex(f, name)

	names := make(map[uint64]string, len(data)/mapDefSize)
	for _, sym := range symbols {
		if elf.SectionIndex(sym.Section) != secIndex {
			continue
		}
		names[sym.Value] = sym.Name
	}

	defs := make([]MapDef, 0, len(data)/mapDefSize)
	for off := 0; off+mapDefSize <= len(data); off += mapDefSize {
		name, ok := names[uint64(off)]
		if !ok {
			return nil, wrap(BadRelocation, "maps section entry at offset %d has no symbol", off)
		}
		defs = append(defs, MapDef{
			Name:       name,
			Type:       ebpftype.MapType(readU32LE(data, off)),
			KeySize:    readU32LE(data, off+4),
			ValueSize:  readU32LE(data, off+8),
			MaxEntries: readU32LE(data, off+12),
			Flags:      readU32LE(data, off+16),
		})
	}
	return defs, nil
}

func sectionIndex(f *elf.File, name string) elf.SectionIndex {
	for i, sec := range f.Sections {
		if sec.Name == name {
			return elf.SectionIndex(i)
		}
	}
	return elf.SHN_UNDEF
}
