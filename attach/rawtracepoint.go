package attach

import "ebpfcore/internal/sysbpf"

// RawTracepoint opens a raw tracepoint link: name is a bare kernel
// event name such as "sched_switch", never a path.
func RawTracepoint(k sysbpf.Syscaller, progFD int, name string) (*LinkDescriptor, error) {
	fd, err := k.RawTracepointOpen(name, progFD)
	if err != nil {
		return nil, err
	}
	return newLink(LinkRawTracepoint, name, progFD, fd, func() error {
		return k.Close(fd)
	}), nil
}
