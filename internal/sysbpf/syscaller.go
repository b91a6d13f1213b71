package sysbpf

import "ebpfcore/ebpftype"

// UpdateFlag selects MAP_UPDATE_ELEM semantics.
type UpdateFlag uint64

const (
	UpdateAny     UpdateFlag = 0
	UpdateNoExist UpdateFlag = 1
	UpdateExist   UpdateFlag = 2
	UpdateLock    UpdateFlag = 4
)

// LogLevel selects how large a verifier log buffer PROG_LOAD should
// allocate. The buffer is sized proportionally: none allocates nothing,
// small is enough for short rejections, large is enough for a dense
// program's full verifier trace.
type LogLevel int

const (
	LogNone LogLevel = iota
	LogSmall
	LogLarge
)

func (l LogLevel) bufSize() int {
	switch l {
	case LogSmall:
		return 64 * 1024
	case LogLarge:
		return 16 * 1024 * 1024
	default:
		return 0
	}
}

func (l LogLevel) kernelLevel() uint32 {
	if l == LogNone {
		return 0
	}
	return 1
}

// BatchCmd selects which MAP_*_BATCH command a Syscaller.MapBatch call
// performs.
type BatchCmd int

const (
	BatchLookup BatchCmd = iota
	BatchLookupAndDelete
	BatchUpdate
	BatchDelete
)

// MapCreateSpec describes a MAP_CREATE request.
type MapCreateSpec struct {
	Type       ebpftype.MapType
	KeySize    uint32
	ValueSize  uint32
	MaxEntries uint32
	Flags      uint32
	Name       string
	InnerMapFD uint32
}

// ProgLoadSpec describes a PROG_LOAD request.
type ProgLoadSpec struct {
	Type     ebpftype.ProgType
	Insns    []byte
	License  string
	Name     string
	LogLevel LogLevel
}

// AttachFlag selects PROG_ATTACH semantics for a cgroup-style attach.
type AttachFlag uint32

const (
	AttachFlagNone     AttachFlag = 0
	AttachFlagOverride AttachFlag = 1 << 0
	AttachFlagMulti    AttachFlag = 1 << 1
	AttachFlagReplace  AttachFlag = 1 << 2
)

// Syscaller is the substitutable boundary between the rest of this
// library and the kernel's single multiplexed bpf(2) entry point. The
// real implementation (LinuxKernel) marshals each request into the
// exact kernel ABI layout and invokes SYS_BPF; tests substitute
// FakeKernel, an in-memory implementation of the same contract, so
// that the assembler, ELF parser and resource lifecycle manager can be
// exercised without CAP_BPF.
type Syscaller interface {
	MapCreate(spec MapCreateSpec) (fd int, err error)
	MapLookupElem(mapFD int, key, value []byte) error
	MapUpdateElem(mapFD int, key, value []byte, flags UpdateFlag) error
	MapDeleteElem(mapFD int, key []byte) error
	MapGetNextKey(mapFD int, key, nextKey []byte) (bool, error)
	// MapLookupAndDeleteElem pops the next element of a stack or queue
	// map (key_size=0); it returns NotFound when the container is empty.
	MapLookupAndDeleteElem(mapFD int, value []byte) error
	MapBatch(cmd BatchCmd, mapFD int, inBatch, outBatch []byte, keys, values []byte, count uint32, flags uint64) (processed uint32, nextBatch []byte, err error)

	ProgLoad(spec ProgLoadSpec) (fd int, log []byte, err error)

	RawTracepointOpen(name string, progFD int) (int, error)
	LinkCreate(progFD, targetFD int, attachType ebpftype.AttachType, flags uint32) (int, error)
	ProgAttach(targetFD, progFD int, attachType ebpftype.AttachType, flags AttachFlag) error
	ProgDetach(targetFD, progFD int, attachType ebpftype.AttachType) error

	Close(fd int) error
}
