package objelf

import (
	"strings"

	"ebpfcore/ebpftype"
)

// classifyProgType infers a program's type from its section name using
// the closed prefix table from the spec: kprobe/ and kretprobe/ map to
// kprobe/kretprobe, tracepoint/ to tracepoint, raw_tracepoint/ to
// raw-tracepoint, xdp (bare, xdp/* or xdp_*) to xdp, tc (bare, tc/*),
// classifier and tc_* to sched-cls, cgroup/skb* to cgroup-skb, lsm/* to
// lsm, and socket or .text to socket-filter. Anything else is rejected.
func classifyProgType(section string) (ebpftype.ProgType, error) {
	switch {
	case strings.HasPrefix(section, "kprobe/"):
		return ebpftype.ProgTypeKprobe, nil
	case strings.HasPrefix(section, "kretprobe/"):
		return ebpftype.ProgTypeKretprobe, nil
	case strings.HasPrefix(section, "tracepoint/"):
		return ebpftype.ProgTypeTracepoint, nil
	case strings.HasPrefix(section, "raw_tracepoint/"):
		return ebpftype.ProgTypeRawTracepoint, nil
	case section == "xdp", strings.HasPrefix(section, "xdp/"), strings.HasPrefix(section, "xdp_"):
		return ebpftype.ProgTypeXDP, nil
	case section == "tc", strings.HasPrefix(section, "tc/"), section == "classifier", strings.HasPrefix(section, "tc_"):
		return ebpftype.ProgTypeSchedCls, nil
	case strings.HasPrefix(section, "cgroup/skb"):
		return ebpftype.ProgTypeCgroupSKB, nil
	case strings.HasPrefix(section, "lsm/"):
		return ebpftype.ProgTypeLSM, nil
	case section == "socket", section == ".text":
		return ebpftype.ProgTypeSocketFilter, nil
	default:
		return 0, wrap(UnknownSection, "unknown section prefix: %q", section)
	}
}

// reservedSectionNames are never treated as program sections even when
// they are executable PROGBITS (they hold metadata, not code). .text is
// deliberately absent: per the spec it is the generic entry point and
// must reach classifyProgType, which maps it to socket-filter.
var reservedSectionNames = map[string]bool{
	"maps":    true,
	".maps":   true,
	"license": true,
	".bss":    true,
	".data":   true,
	".rodata": true,
}
