package attach

import "sync"

// LinkKind names the attachment mechanism a LinkDescriptor represents.
type LinkKind int

const (
	LinkRawTracepoint LinkKind = iota
	LinkCgroup
	LinkLSM
	LinkNetlinkXDP
	LinkTC
	LinkPerfEvent
)

func (k LinkKind) String() string {
	switch k {
	case LinkRawTracepoint:
		return "raw-tracepoint"
	case LinkCgroup:
		return "cgroup"
	case LinkLSM:
		return "lsm"
	case LinkNetlinkXDP:
		return "netlink-xdp"
	case LinkTC:
		return "tc"
	case LinkPerfEvent:
		return "perf-event"
	default:
		return "unknown"
	}
}

// LinkState is the link descriptor's lifecycle position: created
// attached, ends detached. There is no unattached-but-live state for
// links created through this package — they exist only once attached.
type LinkState int

const (
	LinkAttached LinkState = iota
	LinkDetached
)

// LinkDescriptor owns the fd (or, for netlink-based forms, the
// composite state) of an active attachment. Closing it detaches:
// link lifetime bounds program attachment.
type LinkDescriptor struct {
	mu sync.Mutex

	kind     LinkKind
	target   string
	progFD   int
	fd       int // -1 for kinds that own no separate link fd (cgroup PROG_ATTACH, netlink-backed XDP/TC)
	state    LinkState
	detacher func() error
}

func newLink(kind LinkKind, target string, progFD, fd int, detacher func() error) *LinkDescriptor {
	return &LinkDescriptor{kind: kind, target: target, progFD: progFD, fd: fd, state: LinkAttached, detacher: detacher}
}

func (l *LinkDescriptor) Kind() LinkKind   { return l.kind }
func (l *LinkDescriptor) Target() string   { return l.target }
func (l *LinkDescriptor) ProgFD() int      { return l.progFD }
func (l *LinkDescriptor) State() LinkState { return l.state }

// Close detaches the link. Idempotent: closing an already-detached
// link is a no-op, not an error.
func (l *LinkDescriptor) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == LinkDetached {
		return nil
	}
	l.state = LinkDetached
	return l.detacher()
}
