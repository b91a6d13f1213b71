package objelf

import "ebpfcore/ebpftype"

// ProgramSection is one executable program extracted from the object,
// with its type inferred from the section name.
type ProgramSection struct {
	Name string
	Type ebpftype.ProgType
	// Insns is the raw, not-yet-relocated bytecode for this section;
	// its length is always a positive multiple of 8.
	Insns []byte
	// Relocations lists the RELA entries that target this section,
	// in file order.
	Relocations []Relocation
}

// MapDef is one map definition found in the object's maps/.maps section.
type MapDef struct {
	Name       string
	Type       ebpftype.MapType
	KeySize    uint32
	ValueSize  uint32
	MaxEntries uint32
	Flags      uint32
}

// Relocation refers to an instruction word inside a program section
// that must be patched once the symbol it names has been resolved to a
// loaded map's file descriptor.
type Relocation struct {
	Section string
	Offset  int
	Symbol  string
	Addend  int64
	Type    uint32
}

// Object is the result of parsing a relocatable eBPF object file.
type Object struct {
	Programs []ProgramSection
	Maps     []MapDef
	// License is read from a section named "license"; "GPL" if absent.
	License string
}

// Program looks up a parsed program section by name.
func (o *Object) Program(name string) (*ProgramSection, bool) {
	for i := range o.Programs {
		if o.Programs[i].Name == name {
			return &o.Programs[i], true
		}
	}
	return nil, false
}

// Map looks up a parsed map definition by name.
func (o *Object) Map(name string) (*MapDef, bool) {
	for i := range o.Maps {
		if o.Maps[i].Name == name {
			return &o.Maps[i], true
		}
	}
	return nil, false
}
