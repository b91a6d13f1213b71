package sysbpf

import "strings"

const objNameLen = 16

// objName is a fixed-size, NUL-padded UTF-8 name field as the kernel
// ABI requires for both map and program names.
type objName [objNameLen]byte

func newObjName(name string) objName {
	var out objName
	n := len(name)
	if n > objNameLen-1 {
		n = objNameLen - 1
	}
	copy(out[:n], name[:n])
	return out
}

func (n objName) String() string {
	return strings.TrimRight(string(n[:]), "\x00")
}

// syscallPtr is a kernel attr pointer field: a 64-bit host-endian
// integer holding the virtual address of a referenced buffer. The
// buffer it points into must outlive the syscall; callers obtain one
// via ptrTo, which borrows from an Arena.
type syscallPtr uint64

// Kernel bpf(2) command numbers, in the order the kernel enum
// bpf_cmd defines them.
const (
	cmdMapCreate uint32 = iota
	cmdMapLookupElem
	cmdMapUpdateElem
	cmdMapDeleteElem
	cmdMapGetNextKey
	cmdProgLoad
	cmdObjPin
	cmdObjGet
	cmdProgAttach
	cmdProgDetach
	cmdProgTestRun
	cmdProgGetNextID
	cmdMapGetNextID
	cmdProgGetFDByID
	cmdMapGetFDByID
	cmdObjGetInfoByFD
	cmdProgQuery
	cmdRawTracepointOpen
	cmdBTFLoad
	cmdBTFGetFDByID
	cmdTaskFDQuery
	cmdMapLookupAndDeleteElem
	cmdMapFreeze
	cmdBTFGetNextID
	cmdMapLookupBatch
	cmdMapLookupAndDeleteBatch
	cmdMapUpdateBatch
	cmdMapDeleteBatch
	cmdLinkCreate
	cmdLinkUpdate
	cmdLinkGetFDByID
	cmdLinkGetNextID
	cmdEnableStats
	cmdIterCreate
	cmdLinkDetach
	cmdProgBindMap
)

func cmdName(cmd uint32) string {
	names := [...]string{
		"MAP_CREATE", "MAP_LOOKUP_ELEM", "MAP_UPDATE_ELEM", "MAP_DELETE_ELEM",
		"MAP_GET_NEXT_KEY", "PROG_LOAD", "OBJ_PIN", "OBJ_GET", "PROG_ATTACH",
		"PROG_DETACH", "PROG_TEST_RUN", "PROG_GET_NEXT_ID", "MAP_GET_NEXT_ID",
		"PROG_GET_FD_BY_ID", "MAP_GET_FD_BY_ID", "OBJ_GET_INFO_BY_FD",
		"PROG_QUERY", "RAW_TRACEPOINT_OPEN", "BTF_LOAD", "BTF_GET_FD_BY_ID",
		"TASK_FD_QUERY", "MAP_LOOKUP_AND_DELETE_ELEM", "MAP_FREEZE",
		"BTF_GET_NEXT_ID", "MAP_LOOKUP_BATCH", "MAP_LOOKUP_AND_DELETE_BATCH",
		"MAP_UPDATE_BATCH", "MAP_DELETE_BATCH", "LINK_CREATE", "LINK_UPDATE",
		"LINK_GET_FD_BY_ID", "LINK_GET_NEXT_ID", "ENABLE_STATS", "ITER_CREATE",
		"LINK_DETACH", "PROG_BIND_MAP",
	}
	if int(cmd) < len(names) {
		return names[cmd]
	}
	return "UNKNOWN"
}

// attr struct layouts, in the order the kernel's bpf_attr union members
// appear for each command this library implements.

type mapCreateAttr struct {
	mapType    uint32
	keySize    uint32
	valueSize  uint32
	maxEntries uint32
	flags      uint32
	innerMapFd uint32
	numaNode   uint32
	mapName    objName
}

type mapElemAttr struct {
	mapFd   uint32
	padding uint32
	key     syscallPtr
	value   syscallPtr // also used as next_key for MAP_GET_NEXT_KEY
	flags   uint64
}

type mapBatchAttr struct {
	inBatch   syscallPtr
	outBatch  syscallPtr
	keys      syscallPtr
	values    syscallPtr
	count     uint32
	mapFd     uint32
	elemFlags uint64
	flags     uint64
}

type progLoadAttr struct {
	progType           uint32
	insCount           uint32
	instructions       syscallPtr
	license            syscallPtr
	logLevel           uint32
	logSize            uint32
	logBuf             syscallPtr
	kernelVersion      uint32
	progFlags          uint32
	progName           objName
	progIfIndex        uint32
	expectedAttachType uint32
}

type rawTracepointOpenAttr struct {
	name   syscallPtr
	progFd uint32
	_pad   uint32
}

type linkCreateAttr struct {
	progFd     uint32
	targetFd   uint32
	attachType uint32
	flags      uint32
}

type progAttachAttr struct {
	targetFd     uint32
	attachBpfFd  uint32
	attachType   uint32
	attachFlags  uint32
	replaceBpfFd uint32
}

type progDetachAttr struct {
	targetFd    uint32
	attachBpfFd uint32
	attachType  uint32
}
