package attach

import "ebpfcore/internal/sysbpf"

// KprobeMulti would attach via LINK_CREATE with
// BPF_TRACE_KPROBE_MULTI; left unimplemented, see ErrKprobeMultiUnsupported.
func KprobeMulti(k sysbpf.Syscaller, progFD int, symbols []string) (*LinkDescriptor, error) {
	return nil, ErrKprobeMultiUnsupported
}

// LegacyKprobe would attach via perf_event_open plus
// PERF_EVENT_IOC_SET_BPF; left unimplemented, see
// ErrLegacyKprobeUnsupported. Use RawTracepoint against the
// corresponding raw_tracepoint/ section instead.
func LegacyKprobe(k sysbpf.Syscaller, progFD int, symbol string, isReturn bool) (*LinkDescriptor, error) {
	return nil, ErrLegacyKprobeUnsupported
}
