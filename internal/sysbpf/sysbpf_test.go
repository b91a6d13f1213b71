package sysbpf

import (
	"testing"

	"ebpfcore/ebpftype"
)

func assert(t *testing.T, cond bool, format string, args ...interface{}) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

func TestFakeMapCreateRejectsZeroSizes(t *testing.T) {
	k := NewFakeKernel()
	_, err := k.MapCreate(MapCreateSpec{Type: ebpftype.MapTypeHash, Name: "bad"})
	assert(t, err != nil, "expected error for zero key/value size")
}

func TestFakeMapLifecycle(t *testing.T) {
	k := NewFakeKernel()
	fd, err := k.MapCreate(MapCreateSpec{
		Type: ebpftype.MapTypeHash, KeySize: 4, ValueSize: 4, MaxEntries: 2, Name: "m",
	})
	assert(t, err == nil, "create: %v", err)

	key := []byte{1, 0, 0, 0}
	val := []byte{9, 0, 0, 0}
	assert(t, k.MapUpdateElem(fd, key, val, UpdateNoExist) == nil, "update noexist should succeed")
	assert(t, k.MapUpdateElem(fd, key, val, UpdateNoExist) != nil, "second noexist update should fail")

	out := make([]byte, 4)
	assert(t, k.MapLookupElem(fd, key, out) == nil, "lookup should succeed")
	assert(t, valueEqual(out, val), "lookup value mismatch: %v != %v", out, val)

	missing := []byte{2, 0, 0, 0}
	assert(t, k.MapLookupElem(fd, missing, out) != nil, "lookup of missing key should fail")

	assert(t, k.MapDeleteElem(fd, key) == nil, "delete should succeed")
	assert(t, k.MapDeleteElem(fd, key) != nil, "second delete should fail")
}

func TestFakeMapMaxEntries(t *testing.T) {
	k := NewFakeKernel()
	fd, _ := k.MapCreate(MapCreateSpec{Type: ebpftype.MapTypeHash, KeySize: 4, ValueSize: 4, MaxEntries: 1, Name: "m"})
	assert(t, k.MapUpdateElem(fd, []byte{1, 0, 0, 0}, []byte{0, 0, 0, 0}, UpdateAny) == nil, "first insert fits")
	err := k.MapUpdateElem(fd, []byte{2, 0, 0, 0}, []byte{0, 0, 0, 0}, UpdateAny)
	assert(t, err != nil, "second insert should exceed MaxEntries")
}

func TestFakeMapGetNextKeyOrdering(t *testing.T) {
	k := NewFakeKernel()
	fd, _ := k.MapCreate(MapCreateSpec{Type: ebpftype.MapTypeHash, KeySize: 4, ValueSize: 4, MaxEntries: 8, Name: "m"})
	for _, b := range [][]byte{{3, 0, 0, 0}, {1, 0, 0, 0}, {2, 0, 0, 0}} {
		assert(t, k.MapUpdateElem(fd, b, []byte{0, 0, 0, 0}, UpdateAny) == nil, "insert %v", b)
	}

	next := make([]byte, 4)
	ok, err := k.MapGetNextKey(fd, nil, next)
	assert(t, err == nil && ok, "first next key: %v %v", ok, err)
	assert(t, valueEqual(next, []byte{1, 0, 0, 0}), "expected lexicographically first key, got %v", next)

	ok, err = k.MapGetNextKey(fd, next, next)
	assert(t, err == nil && ok, "second next key: %v %v", ok, err)
	assert(t, valueEqual(next, []byte{2, 0, 0, 0}), "expected second key, got %v", next)
}

func TestFakeProgLoadRejectsMisalignedInsns(t *testing.T) {
	k := NewFakeKernel()
	_, _, err := k.ProgLoad(ProgLoadSpec{Type: ebpftype.ProgTypeXDP, Insns: make([]byte, 5), License: "GPL"})
	assert(t, err != nil, "expected verifier error for misaligned instructions")

	var verr *VerifierError
	assert(t, asVerifierError(err, &verr), "expected *VerifierError, got %T", err)
}

func asVerifierError(err error, target **VerifierError) bool {
	if v, ok := err.(*VerifierError); ok {
		*target = v
		return true
	}
	return false
}

func TestFakeProgLoadRequiresLicense(t *testing.T) {
	k := NewFakeKernel()
	_, _, err := k.ProgLoad(ProgLoadSpec{Type: ebpftype.ProgTypeXDP, Insns: make([]byte, 8)})
	assert(t, err != nil, "expected error for missing license")
}

func TestFakeRawTracepointRequiresLoadedProgram(t *testing.T) {
	k := NewFakeKernel()
	_, err := k.RawTracepointOpen("sys_enter_openat", 999)
	assert(t, err != nil, "expected error attaching to a nonexistent program fd")

	progFD, _, err := k.ProgLoad(ProgLoadSpec{Type: ebpftype.ProgTypeRawTracepoint, Insns: make([]byte, 8), License: "GPL"})
	assert(t, err == nil, "prog load: %v", err)
	linkFD, err := k.RawTracepointOpen("sys_enter_openat", progFD)
	assert(t, err == nil, "raw tracepoint open: %v", err)
	assert(t, linkFD > 0, "expected a valid link fd")
}

func TestFakeProgAttachDetachCgroup(t *testing.T) {
	k := NewFakeKernel()
	progFD, _, err := k.ProgLoad(ProgLoadSpec{Type: ebpftype.ProgTypeCgroupSKB, Insns: make([]byte, 8), License: "GPL"})
	assert(t, err == nil, "prog load: %v", err)

	cgroupFD := 42
	assert(t, k.ProgAttach(cgroupFD, progFD, ebpftype.AttachType(1), AttachFlagNone) == nil, "attach should succeed")
	assert(t, k.ProgDetach(cgroupFD, progFD, ebpftype.AttachType(1)) == nil, "detach should succeed")
	assert(t, k.ProgDetach(cgroupFD, progFD, ebpftype.AttachType(1)) != nil, "second detach should fail")
}

func TestFakeCloseIsNotIdempotentAtThisLayer(t *testing.T) {
	k := NewFakeKernel()
	fd, _ := k.MapCreate(MapCreateSpec{Type: ebpftype.MapTypeHash, KeySize: 4, ValueSize: 4, MaxEntries: 1, Name: "m"})
	assert(t, k.Close(fd) == nil, "first close should succeed")
	assert(t, k.Close(fd) != nil, "second raw close should fail; idempotency is the resource manager's job")
}

func TestKernelErrorClassification(t *testing.T) {
	err := newKernelError("MAP_CREATE", errnoOf(InvalidArgument))
	assert(t, err.Kind == InvalidArgument, "expected InvalidArgument, got %v", err.Kind)
	assert(t, err.Unwrap() != nil, "expected Unwrap to return the errno")
}
