package bpf

import (
	"ebpfcore/ebpftype"
	"ebpfcore/internal/sysbpf"
)

// Codec converts between a domain value and a raw byte buffer of a
// fixed width. The map manager itself is codec-agnostic: it moves
// bytes, callers supply the encoding.
type Codec interface {
	Encode(v interface{}) []byte
	Decode(b []byte) interface{}
}

// MapSpec describes a MAP_CREATE request plus the optional codec pair
// a caller wants attached to the resulting descriptor for convenience.
type MapSpec struct {
	Type       ebpftype.MapType
	Name       string
	KeySize    uint32
	ValueSize  uint32
	MaxEntries uint32
	Flags      uint32
	InnerMapFD uint32
	KeyCodec   Codec
	ValueCodec Codec
}

// MapDescriptor owns a kernel map fd and provides the generic KV
// contract shared by every flavor; flavor-specific operations
// (stack/queue push/pop, LPM key packing, batch fallback) live in
// sibling files and are all expressed in terms of this type.
type MapDescriptor struct {
	closer
	k sysbpf.Syscaller

	mapType    ebpftype.MapType
	name       string
	keySize    uint32
	valueSize  uint32
	maxEntries uint32
	flags      uint32

	keyCodec   Codec
	valueCodec Codec
}

// CreateMap issues MAP_CREATE and wraps the returned fd.
func CreateMap(k sysbpf.Syscaller, spec MapSpec) (*MapDescriptor, error) {
	fd, err := k.MapCreate(sysbpf.MapCreateSpec{
		Type:       spec.Type,
		KeySize:    spec.KeySize,
		ValueSize:  spec.ValueSize,
		MaxEntries: spec.MaxEntries,
		Flags:      spec.Flags,
		Name:       spec.Name,
		InnerMapFD: spec.InnerMapFD,
	})
	if err != nil {
		return nil, err
	}
	return &MapDescriptor{
		closer:     newCloser(fd, k.Close),
		k:          k,
		mapType:    spec.Type,
		name:       spec.Name,
		keySize:    spec.KeySize,
		valueSize:  spec.ValueSize,
		maxEntries: spec.MaxEntries,
		flags:      spec.Flags,
		keyCodec:   spec.KeyCodec,
		valueCodec: spec.ValueCodec,
	}, nil
}

func (m *MapDescriptor) Type() ebpftype.MapType { return m.mapType }
func (m *MapDescriptor) Name() string           { return m.name }
func (m *MapDescriptor) KeySize() uint32        { return m.keySize }
func (m *MapDescriptor) ValueSize() uint32      { return m.valueSize }
func (m *MapDescriptor) MaxEntries() uint32     { return m.maxEntries }

// Lookup returns the raw value bytes for key, or the kernel's NotFound
// error if no entry exists.
func (m *MapDescriptor) Lookup(key []byte) ([]byte, error) {
	value := make([]byte, m.valueSize)
	if err := m.k.MapLookupElem(m.FD(), key, value); err != nil {
		return nil, err
	}
	return value, nil
}

// Update inserts or replaces key/value according to flags.
func (m *MapDescriptor) Update(key, value []byte, flags sysbpf.UpdateFlag) error {
	return m.k.MapUpdateElem(m.FD(), key, value, flags)
}

// Delete removes key; returns the kernel's NotFound error if absent.
func (m *MapDescriptor) Delete(key []byte) error {
	return m.k.MapDeleteElem(m.FD(), key)
}

// NextKey returns the key that follows key in kernel iteration order,
// or ok=false once iteration is exhausted. Passing a nil key starts
// from the beginning.
func (m *MapDescriptor) NextKey(key []byte) (next []byte, ok bool, err error) {
	next = make([]byte, m.keySize)
	ok, err = m.k.MapGetNextKey(m.FD(), key, next)
	if err != nil || !ok {
		return nil, ok, err
	}
	return next, true, nil
}

// Iterate returns a cursor over every key currently in the map. It
// reflects the kernel's own iteration guarantees: concurrent
// modification may skip or repeat entries.
func (m *MapDescriptor) Iterate() *MapIterator {
	return &MapIterator{m: m}
}

type MapIterator struct {
	m    *MapDescriptor
	cur  []byte
	done bool
	err  error
}

// Next advances the cursor and reports whether a key was produced.
func (it *MapIterator) Next() ([]byte, bool) {
	if it.done {
		return nil, false
	}
	next, ok, err := it.m.NextKey(it.cur)
	if err != nil {
		it.err = err
		it.done = true
		return nil, false
	}
	if !ok {
		it.done = true
		return nil, false
	}
	it.cur = next
	return next, true
}

// Err returns the error that stopped iteration, if any; nil means
// iteration ran to exhaustion normally.
func (it *MapIterator) Err() error { return it.err }
