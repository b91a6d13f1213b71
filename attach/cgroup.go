package attach

import (
	"ebpfcore/bpf"
	"ebpfcore/ebpftype"
	"ebpfcore/internal/sysbpf"
)

// CgroupFlag mirrors sysbpf.AttachFlag for the PROG_ATTACH/PROG_DETACH
// flag set, exposed under this package so callers wiring cgroup hooks
// don't need to import internal/sysbpf directly.
type CgroupFlag = sysbpf.AttachFlag

const (
	CgroupFlagNone     = sysbpf.AttachFlagNone
	CgroupFlagOverride = sysbpf.AttachFlagOverride
	CgroupFlagMulti    = sysbpf.AttachFlagMulti
	CgroupFlagReplace  = sysbpf.AttachFlagReplace
)

// Cgroup attaches progFD to the cgroup identified by cgroupFD at
// attachType (one of the AttachCgroup* constants in package ebpftype).
// PROG_ATTACH has no separate link fd; the returned LinkDescriptor's
// Close issues PROG_DETACH against the same triple.
func Cgroup(k sysbpf.Syscaller, cgroupFD, progFD int, attachType ebpftype.AttachType, flags CgroupFlag) (*LinkDescriptor, error) {
	if err := k.ProgAttach(cgroupFD, progFD, attachType, flags); err != nil {
		return nil, err
	}
	return newLink(LinkCgroup, attachType.String(), progFD, -1, func() error {
		return k.ProgDetach(cgroupFD, progFD, attachType)
	}), nil
}

// SetupCgroup composes a program load and a cgroup attach into a
// single call, matching the spec's "setup" helper.
func SetupCgroup(k sysbpf.Syscaller, progType ebpftype.ProgType, bytecode []byte, license, name string, level sysbpf.LogLevel, cgroupFD int, attachType ebpftype.AttachType, flags CgroupFlag) (*bpf.ProgramDescriptor, *LinkDescriptor, error) {
	prog, err := bpf.LoadProgram(k, progType, bytecode, license, name, level)
	if err != nil {
		return nil, nil, err
	}
	link, err := Cgroup(k, cgroupFD, prog.FD(), attachType, flags)
	if err != nil {
		prog.Close()
		return nil, nil, err
	}
	return prog, link, nil
}

// TeardownCgroup closes the link then the program, matching the
// spec's "teardown" helper. Both closes are idempotent; a failure on
// the link close does not prevent the program close from running.
func TeardownCgroup(link *LinkDescriptor, prog *bpf.ProgramDescriptor) error {
	linkErr := link.Close()
	progErr := prog.Close()
	if linkErr != nil {
		return linkErr
	}
	return progErr
}
