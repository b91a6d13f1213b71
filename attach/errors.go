// Package attach implements the attachment half of the resource
// lifecycle manager: opening raw tracepoints, creating links for
// cgroup and LSM hooks, and wiring XDP/TC programs onto network
// interfaces via netlink.
package attach

import "errors"

// ErrKprobeMultiUnsupported and ErrLegacyKprobeUnsupported mark the
// two kprobe attachment paths this library deliberately does not
// implement: kprobe_multi (LINK_CREATE with BPF_TRACE_KPROBE_MULTI)
// and the legacy perf_event_open + PERF_EVENT_IOC_SET_BPF path. Both
// are known-buggy in the reference implementation this library was
// reworked from; raw tracepoint is the supported tracing attach form.
var (
	ErrKprobeMultiUnsupported  = errors.New("attach: kprobe_multi is not implemented, use a raw tracepoint instead")
	ErrLegacyKprobeUnsupported = errors.New("attach: legacy perf_event_open kprobe attach is not implemented, use a raw tracepoint instead")
)
