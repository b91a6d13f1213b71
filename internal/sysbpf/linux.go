//go:build linux

package sysbpf

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"ebpfcore/ebpftype"
)

// LinuxKernel talks to the real kernel through the single bpf(2)
// syscall entry point. Every command marshals a fixed-layout attr
// struct, borrows its pointee buffers from a call-scoped Arena, and
// pins them with keepAlive until the syscall has returned.
type LinuxKernel struct{}

// NewLinuxKernel returns a Syscaller backed by the host kernel's
// bpf(2) implementation. It requires CAP_BPF (or CAP_SYS_ADMIN on
// older kernels) for most commands.
func NewLinuxKernel() *LinuxKernel { return &LinuxKernel{} }

func bpfSyscall(cmd uint32, attr unsafe.Pointer, size uintptr) (uintptr, error) {
	r1, _, errno := unix.Syscall(unix.SYS_BPF, uintptr(cmd), uintptr(attr), size)
	if errno != 0 {
		return 0, newKernelError(cmdName(cmd), errno)
	}
	return r1, nil
}

func ptrOf(b []byte) syscallPtr {
	if len(b) == 0 {
		return 0
	}
	return syscallPtr(uintptr(unsafe.Pointer(&b[0])))
}

func (k *LinuxKernel) MapCreate(spec MapCreateSpec) (int, error) {
	arena := NewArena()
	defer arena.Release()

	attr := mapCreateAttr{
		mapType:    uint32(spec.Type),
		keySize:    spec.KeySize,
		valueSize:  spec.ValueSize,
		maxEntries: spec.MaxEntries,
		flags:      spec.Flags,
		innerMapFd: spec.InnerMapFD,
		mapName:    newObjName(spec.Name),
	}
	fd, err := bpfSyscall(cmdMapCreate, unsafe.Pointer(&attr), unsafe.Sizeof(attr))
	keepAlive(arena)
	if err != nil {
		return -1, errors.Wrap(err, "map create")
	}
	return int(fd), nil
}

func (k *LinuxKernel) mapElemCall(cmd uint32, mapFD int, key, value []byte, flags uint64) error {
	arena := NewArena()
	defer arena.Release()

	keyBuf := arena.Bytes(key)
	var valPtr syscallPtr
	if value != nil {
		valPtr = ptrOf(arena.Bytes(value))
	}
	attr := mapElemAttr{
		mapFd: uint32(mapFD),
		key:   ptrOf(keyBuf),
		value: valPtr,
		flags: flags,
	}
	_, err := bpfSyscall(cmd, unsafe.Pointer(&attr), unsafe.Sizeof(attr))
	keepAlive(arena)
	return err
}

func (k *LinuxKernel) MapLookupElem(mapFD int, key, value []byte) error {
	arena := NewArena()
	defer arena.Release()

	keyBuf := arena.Bytes(key)
	valBuf := arena.Alloc(len(value))
	attr := mapElemAttr{
		mapFd: uint32(mapFD),
		key:   ptrOf(keyBuf),
		value: ptrOf(valBuf),
	}
	_, err := bpfSyscall(cmdMapLookupElem, unsafe.Pointer(&attr), unsafe.Sizeof(attr))
	keepAlive(arena)
	if err != nil {
		return errors.Wrap(err, "map lookup")
	}
	copy(value, valBuf)
	return nil
}

func (k *LinuxKernel) MapUpdateElem(mapFD int, key, value []byte, flags UpdateFlag) error {
	if err := k.mapElemCall(cmdMapUpdateElem, mapFD, key, value, uint64(flags)); err != nil {
		return errors.Wrap(err, "map update")
	}
	return nil
}

func (k *LinuxKernel) MapDeleteElem(mapFD int, key []byte) error {
	if err := k.mapElemCall(cmdMapDeleteElem, mapFD, key, nil, 0); err != nil {
		return errors.Wrap(err, "map delete")
	}
	return nil
}

func (k *LinuxKernel) MapGetNextKey(mapFD int, key, nextKey []byte) (bool, error) {
	arena := NewArena()
	defer arena.Release()

	var keyPtr syscallPtr
	if key != nil {
		keyPtr = ptrOf(arena.Bytes(key))
	}
	nextBuf := arena.Alloc(len(nextKey))
	attr := mapElemAttr{
		mapFd: uint32(mapFD),
		key:   keyPtr,
		value: ptrOf(nextBuf),
	}
	_, err := bpfSyscall(cmdMapGetNextKey, unsafe.Pointer(&attr), unsafe.Sizeof(attr))
	keepAlive(arena)
	if err != nil {
		var kerr *KernelError
		if errors.As(err, &kerr) && kerr.Kind == NotFound {
			return false, nil
		}
		return false, errors.Wrap(err, "map get next key")
	}
	copy(nextKey, nextBuf)
	return true, nil
}

func (k *LinuxKernel) MapLookupAndDeleteElem(mapFD int, value []byte) error {
	arena := NewArena()
	defer arena.Release()

	valBuf := arena.Alloc(len(value))
	attr := mapElemAttr{
		mapFd: uint32(mapFD),
		value: ptrOf(valBuf),
	}
	_, err := bpfSyscall(cmdMapLookupAndDeleteElem, unsafe.Pointer(&attr), unsafe.Sizeof(attr))
	keepAlive(arena)
	if err != nil {
		return errors.Wrap(err, "map lookup and delete")
	}
	copy(value, valBuf)
	return nil
}

func (k *LinuxKernel) MapBatch(cmd BatchCmd, mapFD int, inBatch, outBatch []byte, keys, values []byte, count uint32, flags uint64) (uint32, []byte, error) {
	bpfCmd := map[BatchCmd]uint32{
		BatchLookup:          cmdMapLookupBatch,
		BatchLookupAndDelete: cmdMapLookupAndDeleteBatch,
		BatchUpdate:          cmdMapUpdateBatch,
		BatchDelete:          cmdMapDeleteBatch,
	}[cmd]

	arena := NewArena()
	defer arena.Release()

	var inPtr syscallPtr
	if inBatch != nil {
		inPtr = ptrOf(arena.Bytes(inBatch))
	}
	outBuf := arena.Alloc(len(outBatch))
	keysBuf := arena.Bytes(keys)
	var valuesPtr syscallPtr
	if values != nil {
		valuesPtr = ptrOf(arena.Bytes(values))
	}

	attr := mapBatchAttr{
		inBatch:   inPtr,
		outBatch:  ptrOf(outBuf),
		keys:      ptrOf(keysBuf),
		values:    valuesPtr,
		count:     count,
		mapFd:     uint32(mapFD),
		elemFlags: flags,
	}
	_, err := bpfSyscall(bpfCmd, unsafe.Pointer(&attr), unsafe.Sizeof(attr))
	keepAlive(arena)
	if err != nil {
		return attr.count, nil, errors.Wrap(err, "map batch")
	}
	copy(outBatch, outBuf)
	return attr.count, outBatch, nil
}

func (k *LinuxKernel) ProgLoad(spec ProgLoadSpec) (int, []byte, error) {
	arena := NewArena()
	defer arena.Release()

	insnBuf := arena.Bytes(spec.Insns)
	licenseBuf := arena.CString(spec.License)
	logBuf := arena.Alloc(spec.LogLevel.bufSize())

	attr := progLoadAttr{
		progType:     uint32(spec.Type),
		insCount:     uint32(len(spec.Insns) / 8),
		instructions: ptrOf(insnBuf),
		license:      ptrOf(licenseBuf),
		logLevel:     spec.LogLevel.kernelLevel(),
		logSize:      uint32(len(logBuf)),
		logBuf:       ptrOf(logBuf),
		progName:     newObjName(spec.Name),
	}
	fd, err := bpfSyscall(cmdProgLoad, unsafe.Pointer(&attr), unsafe.Sizeof(attr))
	keepAlive(arena)
	if err != nil {
		var kerr *KernelError
		errors.As(err, &kerr)
		return -1, nil, &VerifierError{KernelError: kerr, LogExcerpt: trimLog(logBuf)}
	}
	return int(fd), trimLogBytes(logBuf), nil
}

func trimLog(b []byte) string { return string(trimLogBytes(b)) }

func trimLogBytes(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			return b[:i]
		}
	}
	return b
}

func (k *LinuxKernel) RawTracepointOpen(name string, progFD int) (int, error) {
	arena := NewArena()
	defer arena.Release()

	nameBuf := arena.CString(name)
	attr := rawTracepointOpenAttr{
		name:   ptrOf(nameBuf),
		progFd: uint32(progFD),
	}
	fd, err := bpfSyscall(cmdRawTracepointOpen, unsafe.Pointer(&attr), unsafe.Sizeof(attr))
	keepAlive(arena)
	if err != nil {
		return -1, errors.Wrap(err, "raw tracepoint open")
	}
	return int(fd), nil
}

func (k *LinuxKernel) LinkCreate(progFD, targetFD int, attachType ebpftype.AttachType, flags uint32) (int, error) {
	attr := linkCreateAttr{
		progFd:     uint32(progFD),
		targetFd:   uint32(targetFD),
		attachType: uint32(attachType),
		flags:      flags,
	}
	fd, err := bpfSyscall(cmdLinkCreate, unsafe.Pointer(&attr), unsafe.Sizeof(attr))
	if err != nil {
		return -1, errors.Wrap(err, "link create")
	}
	return int(fd), nil
}

func (k *LinuxKernel) ProgAttach(targetFD, progFD int, attachType ebpftype.AttachType, flags AttachFlag) error {
	attr := progAttachAttr{
		targetFd:    uint32(targetFD),
		attachBpfFd: uint32(progFD),
		attachType:  uint32(attachType),
		attachFlags: uint32(flags),
	}
	_, err := bpfSyscall(cmdProgAttach, unsafe.Pointer(&attr), unsafe.Sizeof(attr))
	if err != nil {
		return errors.Wrap(err, "prog attach")
	}
	return nil
}

func (k *LinuxKernel) ProgDetach(targetFD, progFD int, attachType ebpftype.AttachType) error {
	attr := progDetachAttr{
		targetFd:    uint32(targetFD),
		attachBpfFd: uint32(progFD),
		attachType:  uint32(attachType),
	}
	_, err := bpfSyscall(cmdProgDetach, unsafe.Pointer(&attr), unsafe.Sizeof(attr))
	if err != nil {
		return errors.Wrap(err, "prog detach")
	}
	return nil
}

func (k *LinuxKernel) Close(fd int) error {
	if fd < 0 {
		return nil
	}
	return unix.Close(fd)
}
