package sysbpf

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"ebpfcore/ebpftype"
)

// FakeKernel is an in-memory Syscaller used by every test in this
// module that would otherwise need CAP_BPF. It reproduces just enough
// of the kernel's observable behavior (fd allocation, map storage,
// ENOENT on missing keys, deterministic key ordering for
// MapGetNextKey) for the assembler, ELF loader and resource manager to
// be exercised end to end without a real kernel underneath.
type FakeKernel struct {
	mu       sync.Mutex
	nextFD   int
	maps     map[int]*fakeMap
	progs    map[int]*fakeProg
	links    map[int]*fakeLink
	attached map[attachKey]int // (targetFD, attachType) -> progFD, for cgroup-style single attach
	closed   map[int]bool
}

type fakeMap struct {
	spec    MapCreateSpec
	entries map[string][]byte
	queue   [][]byte // used only for stack/queue maps, which have key_size=0
}

type fakeProg struct {
	spec ProgLoadSpec
}

type fakeLink struct {
	progFD, targetFD int
	attachType       ebpftype.AttachType
}

type attachKey struct {
	targetFD   int
	attachType ebpftype.AttachType
}

// NewFakeKernel returns an empty in-memory Syscaller.
func NewFakeKernel() *FakeKernel {
	return &FakeKernel{
		nextFD:   3,
		maps:     make(map[int]*fakeMap),
		progs:    make(map[int]*fakeProg),
		links:    make(map[int]*fakeLink),
		attached: make(map[attachKey]int),
		closed:   make(map[int]bool),
	}
}

func (k *FakeKernel) allocFD() int {
	fd := k.nextFD
	k.nextFD++
	return fd
}

func (k *FakeKernel) MapCreate(spec MapCreateSpec) (int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	isContainer, _ := containerOrder(spec.Type)
	isRingBuf := spec.Type == ebpftype.MapTypeRingBuf
	if !isContainer && !isRingBuf && (spec.KeySize == 0 || spec.ValueSize == 0) {
		return -1, newKernelError(cmdName(cmdMapCreate), errnoOf(InvalidArgument))
	}
	fd := k.allocFD()
	k.maps[fd] = &fakeMap{spec: spec, entries: make(map[string][]byte)}
	return fd, nil
}

func (k *FakeKernel) mapFor(mapFD int) (*fakeMap, error) {
	m, ok := k.maps[mapFD]
	if !ok {
		return nil, newKernelError(cmdName(cmdMapLookupElem), errnoOf(InvalidArgument))
	}
	return m, nil
}

// containerOrder reports whether this map flavor is a stack (LIFO) or
// queue (FIFO); both are keyless and use fakeMap.queue instead of
// fakeMap.entries.
func containerOrder(t ebpftype.MapType) (isContainer, lifo bool) {
	switch t {
	case ebpftype.MapTypeStack:
		return true, true
	case ebpftype.MapTypeQueue:
		return true, false
	default:
		return false, false
	}
}

func (k *FakeKernel) MapLookupElem(mapFD int, key, value []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	m, err := k.mapFor(mapFD)
	if err != nil {
		return err
	}
	if isContainer, lifo := containerOrder(m.spec.Type); isContainer {
		if len(m.queue) == 0 {
			return newKernelError(cmdName(cmdMapLookupElem), errnoOf(NotFound))
		}
		if lifo {
			copy(value, m.queue[len(m.queue)-1])
		} else {
			copy(value, m.queue[0])
		}
		return nil
	}
	v, ok := m.entries[string(key)]
	if !ok {
		return newKernelError(cmdName(cmdMapLookupElem), errnoOf(NotFound))
	}
	copy(value, v)
	return nil
}

func (k *FakeKernel) MapLookupAndDeleteElem(mapFD int, value []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	m, err := k.mapFor(mapFD)
	if err != nil {
		return err
	}
	isContainer, lifo := containerOrder(m.spec.Type)
	if !isContainer {
		return newKernelError(cmdName(cmdMapLookupAndDeleteElem), errnoOf(InvalidArgument))
	}
	if len(m.queue) == 0 {
		return newKernelError(cmdName(cmdMapLookupAndDeleteElem), errnoOf(NotFound))
	}
	if lifo {
		last := len(m.queue) - 1
		copy(value, m.queue[last])
		m.queue = m.queue[:last]
	} else {
		copy(value, m.queue[0])
		m.queue = m.queue[1:]
	}
	return nil
}

func (k *FakeKernel) MapUpdateElem(mapFD int, key, value []byte, flags UpdateFlag) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	m, err := k.mapFor(mapFD)
	if err != nil {
		return err
	}
	if isContainer, _ := containerOrder(m.spec.Type); isContainer {
		if uint32(len(m.queue)) >= m.spec.MaxEntries {
			return newKernelError(cmdName(cmdMapUpdateElem), errnoOf(TooBig))
		}
		stored := make([]byte, len(value))
		copy(stored, value)
		m.queue = append(m.queue, stored)
		return nil
	}
	_, exists := m.entries[string(key)]
	switch flags {
	case UpdateNoExist:
		if exists {
			return newKernelError(cmdName(cmdMapUpdateElem), errnoOf(AlreadyExists))
		}
	case UpdateExist:
		if !exists {
			return newKernelError(cmdName(cmdMapUpdateElem), errnoOf(NotFound))
		}
	}
	if !exists && uint32(len(m.entries)) >= m.spec.MaxEntries {
		return newKernelError(cmdName(cmdMapUpdateElem), errnoOf(TooBig))
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.entries[string(key)] = stored
	return nil
}

func (k *FakeKernel) MapDeleteElem(mapFD int, key []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	m, err := k.mapFor(mapFD)
	if err != nil {
		return err
	}
	if _, ok := m.entries[string(key)]; !ok {
		return newKernelError(cmdName(cmdMapDeleteElem), errnoOf(NotFound))
	}
	delete(m.entries, string(key))
	return nil
}

func (k *FakeKernel) MapGetNextKey(mapFD int, key, nextKey []byte) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	m, err := k.mapFor(mapFD)
	if err != nil {
		return false, err
	}
	keys := make([]string, 0, len(m.entries))
	for kk := range m.entries {
		keys = append(keys, kk)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return false, nil
	}
	if key == nil {
		copy(nextKey, keys[0])
		return true, nil
	}
	for i, kk := range keys {
		if kk == string(key) {
			if i+1 == len(keys) {
				return false, nil
			}
			copy(nextKey, keys[i+1])
			return true, nil
		}
	}
	return false, newKernelError(cmdName(cmdMapGetNextKey), errnoOf(NotFound))
}

var batchCmdNames = map[BatchCmd]uint32{
	BatchLookup:          cmdMapLookupBatch,
	BatchLookupAndDelete: cmdMapLookupAndDeleteBatch,
	BatchUpdate:          cmdMapUpdateBatch,
	BatchDelete:          cmdMapDeleteBatch,
}

// MapBatch always rejects with the same NotSupportedKind classification
// a real kernel without batch support returns, so callers exercise the
// same fallback path against the fake as against LinuxKernel.
func (k *FakeKernel) MapBatch(cmd BatchCmd, mapFD int, inBatch, outBatch []byte, keys, values []byte, count uint32, flags uint64) (uint32, []byte, error) {
	return 0, nil, newKernelError(cmdName(batchCmdNames[cmd]), errnoOf(NotSupportedKind))
}

func (k *FakeKernel) ProgLoad(spec ProgLoadSpec) (int, []byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if len(spec.Insns) == 0 || len(spec.Insns)%8 != 0 {
		return -1, nil, &VerifierError{
			KernelError: newKernelError(cmdName(cmdProgLoad), errnoOf(InvalidArgument)),
			LogExcerpt:  "program has no instructions or is not word-aligned",
		}
	}
	if spec.License == "" {
		return -1, nil, &VerifierError{
			KernelError: newKernelError(cmdName(cmdProgLoad), errnoOf(InvalidArgument)),
			LogExcerpt:  "license string is empty",
		}
	}
	fd := k.allocFD()
	k.progs[fd] = &fakeProg{spec: spec}
	return fd, []byte(fmt.Sprintf("processed %d insns", len(spec.Insns)/8)), nil
}

func (k *FakeKernel) RawTracepointOpen(name string, progFD int) (int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, ok := k.progs[progFD]; !ok {
		return -1, newKernelError(cmdName(cmdRawTracepointOpen), errnoOf(InvalidArgument))
	}
	fd := k.allocFD()
	k.links[fd] = &fakeLink{progFD: progFD, attachType: ebpftype.AttachType(0)}
	return fd, nil
}

func (k *FakeKernel) LinkCreate(progFD, targetFD int, attachType ebpftype.AttachType, flags uint32) (int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, ok := k.progs[progFD]; !ok {
		return -1, newKernelError(cmdName(cmdLinkCreate), errnoOf(InvalidArgument))
	}
	fd := k.allocFD()
	k.links[fd] = &fakeLink{progFD: progFD, targetFD: targetFD, attachType: attachType}
	return fd, nil
}

func (k *FakeKernel) ProgAttach(targetFD, progFD int, attachType ebpftype.AttachType, flags AttachFlag) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	key := attachKey{targetFD: targetFD, attachType: attachType}
	if existing, ok := k.attached[key]; ok && existing != progFD {
		if flags&AttachFlagReplace == 0 && flags&AttachFlagMulti == 0 {
			return newKernelError(cmdName(cmdProgAttach), errnoOf(AlreadyExists))
		}
	}
	k.attached[key] = progFD
	return nil
}

func (k *FakeKernel) ProgDetach(targetFD, progFD int, attachType ebpftype.AttachType) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	key := attachKey{targetFD: targetFD, attachType: attachType}
	if existing, ok := k.attached[key]; !ok || existing != progFD {
		return newKernelError(cmdName(cmdProgDetach), errnoOf(NotFound))
	}
	delete(k.attached, key)
	return nil
}

func (k *FakeKernel) Close(fd int) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed[fd] {
		return newKernelError("close", errnoOf(InvalidArgument))
	}
	k.closed[fd] = true
	delete(k.maps, fd)
	delete(k.progs, fd)
	delete(k.links, fd)
	return nil
}

// valueEqual is used by tests asserting round-tripped map values.
func valueEqual(a, b []byte) bool { return bytes.Equal(a, b) }
