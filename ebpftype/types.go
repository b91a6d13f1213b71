// Package ebpftype holds the small set of enumerations shared between
// the assembler, the ELF parser, the map/program managers and the
// attachment manager, so that none of those packages needs to import
// another's internals just to name a program or map kind.
package ebpftype

// ProgType enumerates the kernel's eBPF program types. Values match
// the kernel UAPI enum bpf_prog_type.
type ProgType uint32

const (
	ProgTypeUnspec ProgType = iota
	ProgTypeSocketFilter
	ProgTypeKprobe
	ProgTypeSchedCls
	ProgTypeSchedAct
	ProgTypeTracepoint
	ProgTypeXDP
	ProgTypePerfEvent
	ProgTypeCgroupSKB
	ProgTypeCgroupSock
	ProgTypeLWTIn
	ProgTypeLWTOut
	ProgTypeLWTXmit
	ProgTypeSockOps
	ProgTypeSKSKB
	ProgTypeCgroupDevice
	ProgTypeSKMsg
	ProgTypeRawTracepoint
	ProgTypeCgroupSockAddr
	ProgTypeLWTSeg6Local
	ProgTypeLircMode2
	ProgTypeSKReuseport
	ProgTypeFlowDissector
	ProgTypeCgroupSysctl
	ProgTypeRawTracepointWritable
	ProgTypeCgroupSockopt
	ProgTypeTracing
	ProgTypeStructOps
	ProgTypeExt
	ProgTypeLSM
	ProgTypeSKLookup
	ProgTypeSyscall
	ProgTypeKretprobe // not a real kernel value; kprobe/kretprobe share ProgTypeKprobe in-kernel, tracked separately here for section classification
)

func (t ProgType) String() string {
	switch t {
	case ProgTypeSocketFilter:
		return "socket-filter"
	case ProgTypeKprobe:
		return "kprobe"
	case ProgTypeKretprobe:
		return "kretprobe"
	case ProgTypeSchedCls:
		return "sched-cls"
	case ProgTypeSchedAct:
		return "sched-act"
	case ProgTypeTracepoint:
		return "tracepoint"
	case ProgTypeXDP:
		return "xdp"
	case ProgTypePerfEvent:
		return "perf-event"
	case ProgTypeCgroupSKB:
		return "cgroup-skb"
	case ProgTypeCgroupSock:
		return "cgroup-sock"
	case ProgTypeSockOps:
		return "sock-ops"
	case ProgTypeSKSKB:
		return "sk-skb"
	case ProgTypeCgroupDevice:
		return "cgroup-device"
	case ProgTypeRawTracepoint:
		return "raw-tracepoint"
	case ProgTypeCgroupSysctl:
		return "cgroup-sysctl"
	case ProgTypeCgroupSockopt:
		return "cgroup-sockopt"
	case ProgTypeLSM:
		return "lsm"
	default:
		return "unknown"
	}
}

// MapType enumerates the kernel's eBPF map types. Values match the
// kernel UAPI enum bpf_map_type.
type MapType uint32

const (
	MapTypeUnspec MapType = iota
	MapTypeHash
	MapTypeArray
	MapTypeProgArray
	MapTypePerfEventArray
	MapTypePerCPUHash
	MapTypePerCPUArray
	MapTypeStackTrace
	MapTypeCgroupArray
	MapTypeLRUHash
	MapTypeLRUPerCPUHash
	MapTypeLPMTrie
	MapTypeArrayOfMaps
	MapTypeHashOfMaps
	MapTypeDevMap
	MapTypeSockMap
	MapTypeCPUMap
	MapTypeXSKMap
	MapTypeSockHash
	MapTypeCgroupStorage
	MapTypeReuseportSockArray
	MapTypePerCPUCgroupStorage
	MapTypeQueue
	MapTypeStack
	MapTypeRingBuf MapType = 27 // 24-26 (sk_storage, devmap_hash, struct_ops) are not named here
)

func (t MapType) String() string {
	switch t {
	case MapTypeHash:
		return "hash"
	case MapTypeArray:
		return "array"
	case MapTypePerCPUHash:
		return "percpu-hash"
	case MapTypePerCPUArray:
		return "percpu-array"
	case MapTypeLRUHash:
		return "lru-hash"
	case MapTypeLRUPerCPUHash:
		return "lru-percpu-hash"
	case MapTypeLPMTrie:
		return "lpm-trie"
	case MapTypeDevMap:
		return "devmap"
	case MapTypeSockMap:
		return "sockmap"
	case MapTypeCPUMap:
		return "cpumap"
	case MapTypeXSKMap:
		return "xskmap"
	case MapTypeSockHash:
		return "sockhash"
	case MapTypeQueue:
		return "queue"
	case MapTypeStack:
		return "stack"
	case MapTypeRingBuf:
		return "ringbuf"
	default:
		return "unknown"
	}
}

// AttachType enumerates the kernel's eBPF attach types used by
// PROG_ATTACH/LINK_CREATE. Values match the kernel UAPI enum
// bpf_attach_type, except AttachSchedCls, which has no counterpart
// there: TC classifiers are attached through netlink, not through
// PROG_ATTACH/LINK_CREATE, and nothing in this module passes
// AttachSchedCls to the kernel.
type AttachType uint32

const (
	AttachCgroupInetIngress AttachType = iota
	AttachCgroupInetEgress
	AttachCgroupInetSockCreate
	AttachCgroupSockOps
	AttachSKSKBStreamParser
	AttachSKSKBStreamVerdict
	AttachCgroupDevice
	AttachSKMsgVerdict
	AttachCgroupInet4Bind
	AttachCgroupInet6Bind
	AttachCgroupInet4Connect
	AttachCgroupInet6Connect
	AttachCgroupInet4PostBind
	AttachCgroupInet6PostBind
	AttachCgroupUDP4Sendmsg
	AttachCgroupUDP6Sendmsg
	AttachLircMode2
	AttachFlowDissector
	AttachCgroupSysctl
	AttachCgroupUDP4Recvmsg
	AttachCgroupUDP6Recvmsg
	AttachCgroupGetsockopt
	AttachCgroupSetsockopt
	AttachTraceRawTP
	AttachTraceFentry
	AttachTraceFexit
	AttachModifyReturn
	AttachLSMMac
	AttachTraceIter
	AttachCgroupInet4Getpeername
	AttachCgroupInet6Getpeername
	AttachCgroupInet4Getsockname
	AttachCgroupInet6Getsockname
	AttachXDP      AttachType = 37 // 33-36 are not named here
	AttachSchedCls AttachType = 38
)

func (t AttachType) String() string {
	switch t {
	case AttachCgroupInetIngress:
		return "cgroup-inet-ingress"
	case AttachCgroupInetEgress:
		return "cgroup-inet-egress"
	case AttachCgroupInetSockCreate:
		return "cgroup-inet-sock-create"
	case AttachCgroupSockOps:
		return "cgroup-sock-ops"
	case AttachCgroupDevice:
		return "cgroup-device"
	case AttachTraceRawTP:
		return "trace-raw-tp"
	case AttachLSMMac:
		return "lsm-mac"
	case AttachXDP:
		return "xdp"
	case AttachSchedCls:
		return "sched-cls"
	default:
		return "unknown"
	}
}
