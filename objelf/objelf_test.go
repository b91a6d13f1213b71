package objelf

import (
	"bytes"
	"encoding/binary"
	"testing"

	"ebpfcore/ebpftype"
)

func assert(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

func TestClassifyProgType(t *testing.T) {
	cases := map[string]ebpftype.ProgType{
		"kprobe/do_sys_open":    ebpftype.ProgTypeKprobe,
		"kretprobe/do_sys_open": ebpftype.ProgTypeKretprobe,
		"tracepoint/syscalls":   ebpftype.ProgTypeTracepoint,
		"raw_tracepoint/sched":  ebpftype.ProgTypeRawTracepoint,
		"xdp":                   ebpftype.ProgTypeXDP,
		"xdp/ingress":           ebpftype.ProgTypeXDP,
		"xdp_drop":              ebpftype.ProgTypeXDP,
		"tc":                    ebpftype.ProgTypeSchedCls,
		"tc/egress":             ebpftype.ProgTypeSchedCls,
		"classifier":            ebpftype.ProgTypeSchedCls,
		"tc_ingress":            ebpftype.ProgTypeSchedCls,
		"cgroup/skb":            ebpftype.ProgTypeCgroupSKB,
		"lsm/bprm_check":        ebpftype.ProgTypeLSM,
		"socket":                ebpftype.ProgTypeSocketFilter,
		".text":                 ebpftype.ProgTypeSocketFilter,
	}
	for section, want := range cases {
		got, err := classifyProgType(section)
		assert(t, err == nil, "unexpected error for %q: %v", section, err)
		assert(t, got == want, "section %q: got %v want %v", section, got, want)
	}

	_, err := classifyProgType("whatever/else")
	assert(t, err != nil, "expected error for unknown prefix")
	elfErr, ok := err.(*ElfError)
	assert(t, ok, "expected *ElfError, got %T", err)
	assert(t, elfErr.Kind == UnknownSection, "expected UnknownSection, got %v", elfErr.Kind)
}

func TestApplyMapRelocations(t *testing.T) {
	insns := make([]byte, 24)
	insns[0] = 0x18 // lddw opcode
	insns[1] = 0x01 // dst_reg=1, src_reg=0
	insns[16] = 0x95 // exit

	relocs := []Relocation{{Section: "xdp", Offset: 0, Symbol: "my_map"}}
	err := ApplyMapRelocations(insns, relocs, map[string]uint32{"my_map": 7})
	assert(t, err == nil, "unexpected error: %v", err)

	assert(t, insns[1] == 0x11, "expected byte 1 = 0x11 (dst=1,src=1), got %#x", insns[1])
	assert(t, bytes.Equal(insns[4:8], []byte{7, 0, 0, 0}), "expected fd 7 little-endian, got % x", insns[4:8])
}

func TestApplyMapRelocationsUnresolvedSymbol(t *testing.T) {
	insns := make([]byte, 8)
	relocs := []Relocation{{Section: "xdp", Offset: 0, Symbol: "missing"}}
	err := ApplyMapRelocations(insns, relocs, map[string]uint32{})
	assert(t, err != nil, "expected error for unresolved symbol")
}

// --- end-to-end: build a minimal valid object and parse it ---------------

type strtabBuilder struct {
	buf     []byte
	offsets map[string]uint32
}

func newStrtabBuilder() *strtabBuilder {
	return &strtabBuilder{buf: []byte{0}, offsets: map[string]uint32{"": 0}}
}

func (s *strtabBuilder) add(name string) uint32 {
	if off, ok := s.offsets[name]; ok {
		return off
	}
	off := uint32(len(s.buf))
	s.buf = append(s.buf, []byte(name)...)
	s.buf = append(s.buf, 0)
	s.offsets[name] = off
	return off
}

type shdr struct {
	name, typ              uint32
	flags, addr, offset    uint64
	size                   uint64
	link, info             uint32
	addralign, entsize     uint64
}

func (h shdr) encode() []byte {
	b := make([]byte, 64)
	binary.LittleEndian.PutUint32(b[0:4], h.name)
	binary.LittleEndian.PutUint32(b[4:8], h.typ)
	binary.LittleEndian.PutUint64(b[8:16], h.flags)
	binary.LittleEndian.PutUint64(b[16:24], h.addr)
	binary.LittleEndian.PutUint64(b[24:32], h.offset)
	binary.LittleEndian.PutUint64(b[32:40], h.size)
	binary.LittleEndian.PutUint32(b[40:44], h.link)
	binary.LittleEndian.PutUint32(b[44:48], h.info)
	binary.LittleEndian.PutUint64(b[48:56], h.addralign)
	binary.LittleEndian.PutUint64(b[56:64], h.entsize)
	return b
}

const (
	shtNull    = 0
	shtProgBit = 1
	shtSymtab  = 2
	shtStrtab  = 3
	shtRela    = 4
	shfExec    = 0x4
)

// buildMinimalObject constructs a relocatable object with one xdp
// program section referencing one hash map through a RELA relocation,
// matching spec.md end-to-end scenario 7.
func buildMinimalObject(t *testing.T) []byte {
	t.Helper()

	shstrtab := newStrtabBuilder()
	nameShstrtab := shstrtab.add(".shstrtab")
	nameXdp := shstrtab.add("xdp")
	nameRela := shstrtab.add(".relaxdp")
	nameMaps := shstrtab.add("maps")
	nameSymtab := shstrtab.add(".symtab")
	nameStrtab := shstrtab.add(".strtab")
	nameLicense := shstrtab.add("license")

	symstrtab := newStrtabBuilder()
	nameMyMap := symstrtab.add("my_map")

	xdpData := make([]byte, 24)
	xdpData[0] = 0x18 // lddw
	xdpData[1] = 0x01 // dst=1 src=0
	xdpData[16] = 0x95 // exit

	relaData := make([]byte, 24)
	// r_offset = 0
	symIdx := uint64(1) // symbol table index 1 (index 0 is the null symbol)
	relType := uint64(1)
	binary.LittleEndian.PutUint64(relaData[8:16], (symIdx<<32)|relType)
	// r_addend = 0

	mapsData := make([]byte, 20)
	binary.LittleEndian.PutUint32(mapsData[0:4], uint32(ebpftype.MapTypeHash))
	binary.LittleEndian.PutUint32(mapsData[4:8], 4)  // key size
	binary.LittleEndian.PutUint32(mapsData[8:12], 8) // value size
	binary.LittleEndian.PutUint32(mapsData[12:16], 10)
	binary.LittleEndian.PutUint32(mapsData[16:20], 0)

	licenseData := append([]byte("GPL"), 0)

	symtabData := make([]byte, 48) // null symbol + my_map
	// symbol 1: my_map
	binary.LittleEndian.PutUint32(symtabData[24:28], nameMyMap)
	symtabData[28] = 0x11 // bind=GLOBAL, type=OBJECT
	symtabData[29] = 0
	binary.LittleEndian.PutUint64(symtabData[32:40], 0) // st_value = offset of entry in maps section
	binary.LittleEndian.PutUint64(symtabData[40:48], 20)

	// section indices
	const (
		secNull = iota
		secShstrtab
		secXdp
		secRela
		secMaps
		secSymtab
		secStrtab
		secLicense
		secCount
	)
	binary.LittleEndian.PutUint16(symtabData[30:32], secMaps)

	var body []byte
	place := func(data []byte) uint64 {
		off := uint64(len(body)) + 64 // header is 64 bytes, sections start right after
		body = append(body, data...)
		return off
	}

	offXdp := place(xdpData)
	offRela := place(relaData)
	offMaps := place(mapsData)
	offSymtab := place(symtabData)
	offStrtab := place(symstrtab.buf)
	offLicense := place(licenseData)
	offShstrtab := place(shstrtab.buf)

	shdrs := make([]shdr, secCount)
	shdrs[secNull] = shdr{}
	shdrs[secShstrtab] = shdr{name: nameShstrtab, typ: shtStrtab, offset: offShstrtab, size: uint64(len(shstrtab.buf)), addralign: 1}
	shdrs[secXdp] = shdr{name: nameXdp, typ: shtProgBit, flags: shfExec, offset: offXdp, size: uint64(len(xdpData)), addralign: 8}
	shdrs[secRela] = shdr{name: nameRela, typ: shtRela, offset: offRela, size: uint64(len(relaData)), link: secSymtab, info: secXdp, addralign: 8, entsize: 24}
	shdrs[secMaps] = shdr{name: nameMaps, typ: shtProgBit, offset: offMaps, size: uint64(len(mapsData)), addralign: 4}
	shdrs[secSymtab] = shdr{name: nameSymtab, typ: shtSymtab, offset: offSymtab, size: uint64(len(symtabData)), link: secStrtab, info: 1, addralign: 8, entsize: 24}
	shdrs[secStrtab] = shdr{name: nameStrtab, typ: shtStrtab, offset: offStrtab, size: uint64(len(symstrtab.buf)), addralign: 1}
	shdrs[secLicense] = shdr{name: nameLicense, typ: shtProgBit, offset: offLicense, size: uint64(len(licenseData)), addralign: 1}

	shoff := uint64(len(body)) + 64

	header := make([]byte, 64)
	copy(header[0:4], []byte{0x7f, 'E', 'L', 'F'})
	header[4] = 2 // ELFCLASS64
	header[5] = 1 // ELFDATA2LSB
	header[6] = 1 // EV_CURRENT
	binary.LittleEndian.PutUint16(header[16:18], 1)   // ET_REL
	binary.LittleEndian.PutUint16(header[18:20], 247) // EM_BPF
	binary.LittleEndian.PutUint32(header[20:24], 1)   // e_version
	binary.LittleEndian.PutUint64(header[40:48], shoff)
	binary.LittleEndian.PutUint16(header[52:54], 64) // e_ehsize
	binary.LittleEndian.PutUint16(header[58:60], 64) // e_shentsize
	binary.LittleEndian.PutUint16(header[60:62], uint16(secCount))
	binary.LittleEndian.PutUint16(header[62:64], secShstrtab)

	out := append([]byte{}, header...)
	out = append(out, body...)
	for _, h := range shdrs {
		out = append(out, h.encode()...)
	}
	return out
}

func TestParseObjectEndToEnd(t *testing.T) {
	data := buildMinimalObject(t)

	obj, err := ParseObject(data)
	assert(t, err == nil, "ParseObject failed: %v", err)
	assert(t, obj.License == "GPL", "expected license GPL, got %q", obj.License)
	assert(t, len(obj.Programs) == 1, "expected 1 program, got %d", len(obj.Programs))
	assert(t, len(obj.Maps) == 1, "expected 1 map, got %d", len(obj.Maps))

	prog, ok := obj.Program("xdp")
	assert(t, ok, "expected program section %q", "xdp")
	assert(t, prog.Type == ebpftype.ProgTypeXDP, "expected xdp program type, got %v", prog.Type)
	assert(t, len(prog.Relocations) == 1, "expected 1 relocation, got %d", len(prog.Relocations))
	assert(t, prog.Relocations[0].Symbol == "my_map", "expected symbol my_map, got %q", prog.Relocations[0].Symbol)

	m, ok := obj.Map("my_map")
	assert(t, ok, "expected map %q", "my_map")
	assert(t, m.Type == ebpftype.MapTypeHash, "expected hash map, got %v", m.Type)
	assert(t, m.KeySize == 4 && m.ValueSize == 8 && m.MaxEntries == 10, "unexpected map dims: %+v", m)

	insns := append([]byte{}, prog.Insns...)
	err = ApplyMapRelocations(insns, prog.Relocations, map[string]uint32{"my_map": 7})
	assert(t, err == nil, "ApplyMapRelocations failed: %v", err)
	assert(t, bytes.Equal(insns[4:8], []byte{7, 0, 0, 0}), "expected relocated fd bytes, got % x", insns[4:8])
	assert(t, insns[1]>>4 == 1, "expected src_reg nibble 1 after relocation, got %d", insns[1]>>4)
}

func TestParseObjectBadMagic(t *testing.T) {
	_, err := ParseObject([]byte("not an elf file"))
	assert(t, err != nil, "expected error")
	elfErr, ok := err.(*ElfError)
	assert(t, ok, "expected *ElfError, got %T", err)
	assert(t, elfErr.Kind == Magic, "expected Magic, got %v", elfErr.Kind)
}
