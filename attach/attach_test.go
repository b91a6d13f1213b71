package attach

import (
	"testing"

	"ebpfcore/bpf"
	"ebpfcore/ebpftype"
	"ebpfcore/internal/sysbpf"
)

func assert(t *testing.T, cond bool, format string, args ...interface{}) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

func loadTestProgram(t *testing.T, k sysbpf.Syscaller, progType ebpftype.ProgType) *bpf.ProgramDescriptor {
	t.Helper()
	prog, err := bpf.LoadProgram(k, progType, make([]byte, 8), "GPL", "test", sysbpf.LogNone)
	assert(t, err == nil, "load program: %v", err)
	return prog
}

func TestRawTracepointAttachDetach(t *testing.T) {
	k := sysbpf.NewFakeKernel()
	prog := loadTestProgram(t, k, ebpftype.ProgTypeRawTracepoint)

	link, err := RawTracepoint(k, prog.FD(), "sched_switch")
	assert(t, err == nil, "raw tracepoint attach: %v", err)
	assert(t, link.State() == LinkAttached, "expected attached state")
	assert(t, link.Kind() == LinkRawTracepoint, "expected raw-tracepoint kind")

	assert(t, link.Close() == nil, "detach: %v", err)
	assert(t, link.State() == LinkDetached, "expected detached state")
	assert(t, link.Close() == nil, "second close should be a no-op")
}

func TestCgroupAttachRejectsDoubleAttachWithoutFlags(t *testing.T) {
	k := sysbpf.NewFakeKernel()
	progA := loadTestProgram(t, k, ebpftype.ProgTypeCgroupSKB)
	progB := loadTestProgram(t, k, ebpftype.ProgTypeCgroupSKB)

	cgroupFD := 5
	link, err := Cgroup(k, cgroupFD, progA.FD(), ebpftype.AttachCgroupInetIngress, CgroupFlagNone)
	assert(t, err == nil, "first attach: %v", err)

	_, err = Cgroup(k, cgroupFD, progB.FD(), ebpftype.AttachCgroupInetIngress, CgroupFlagNone)
	assert(t, err != nil, "expected second attach without replace/multi to fail")

	assert(t, link.Close() == nil, "detach: %v", err)
}

func TestCgroupAttachReplaceSucceeds(t *testing.T) {
	k := sysbpf.NewFakeKernel()
	progA := loadTestProgram(t, k, ebpftype.ProgTypeCgroupSKB)
	progB := loadTestProgram(t, k, ebpftype.ProgTypeCgroupSKB)

	cgroupFD := 5
	_, err := Cgroup(k, cgroupFD, progA.FD(), ebpftype.AttachCgroupInetIngress, CgroupFlagNone)
	assert(t, err == nil, "first attach: %v", err)

	_, err = Cgroup(k, cgroupFD, progB.FD(), ebpftype.AttachCgroupInetIngress, CgroupFlagReplace)
	assert(t, err == nil, "replace attach should succeed: %v", err)
}

func TestSetupAndTeardownCgroup(t *testing.T) {
	k := sysbpf.NewFakeKernel()
	prog, link, err := SetupCgroup(k, ebpftype.ProgTypeCgroupSKB, make([]byte, 8), "GPL", "setup-test", sysbpf.LogNone, 9, ebpftype.AttachCgroupInetEgress, CgroupFlagNone)
	assert(t, err == nil, "setup: %v", err)

	assert(t, TeardownCgroup(link, prog) == nil, "teardown failed")
	assert(t, link.State() == LinkDetached, "expected link detached after teardown")
	assert(t, prog.State() == bpf.ProgramClosed, "expected program closed after teardown")
}

func TestLSMAttach(t *testing.T) {
	k := sysbpf.NewFakeKernel()
	prog := loadTestProgram(t, k, ebpftype.ProgTypeLSM)

	link, err := LSM(k, prog.FD(), "bprm_check_security")
	assert(t, err == nil, "lsm attach: %v", err)
	assert(t, link.Kind() == LinkLSM, "expected lsm kind")
	assert(t, link.Target() == "bprm_check_security", "expected target to be preserved")
	assert(t, link.Close() == nil, "lsm detach")
}

func TestKprobePathsAreExplicitlyUnimplemented(t *testing.T) {
	k := sysbpf.NewFakeKernel()
	prog := loadTestProgram(t, k, ebpftype.ProgTypeKprobe)

	_, err := KprobeMulti(k, prog.FD(), []string{"do_sys_openat2"})
	assert(t, err == ErrKprobeMultiUnsupported, "expected ErrKprobeMultiUnsupported, got %v", err)

	_, err = LegacyKprobe(k, prog.FD(), "do_sys_openat2", false)
	assert(t, err == ErrLegacyKprobeUnsupported, "expected ErrLegacyKprobeUnsupported, got %v", err)
}
