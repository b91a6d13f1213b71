package bpf

import (
	"ebpfcore/internal/sysbpf"
)

// BatchLookup performs MAP_LOOKUP_BATCH over count keys. If the kernel
// rejects the batch command as unsupported, it falls back to a loop of
// individual MAP_LOOKUP_ELEM calls while preserving the external
// contract: count processed, values written into the caller's buffer.
func (m *MapDescriptor) BatchLookup(keys, values []byte, count uint32) (uint32, error) {
	processed, _, err := m.k.MapBatch(sysbpf.BatchLookup, m.FD(), nil, nil, keys, values, count, 0)
	if err == nil {
		return processed, nil
	}
	if !isNotSupported(err) {
		return 0, err
	}
	var done uint32
	for i := uint32(0); i < count; i++ {
		k := keys[i*m.keySize : (i+1)*m.keySize]
		v := values[i*m.valueSize : (i+1)*m.valueSize]
		if err := m.k.MapLookupElem(m.FD(), k, v); err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}

// BatchUpdate performs MAP_UPDATE_BATCH with the same unsupported
// fallback as BatchLookup.
func (m *MapDescriptor) BatchUpdate(keys, values []byte, count uint32, flags sysbpf.UpdateFlag) (uint32, error) {
	processed, _, err := m.k.MapBatch(sysbpf.BatchUpdate, m.FD(), nil, nil, keys, values, count, uint64(flags))
	if err == nil {
		return processed, nil
	}
	if !isNotSupported(err) {
		return 0, err
	}
	var done uint32
	for i := uint32(0); i < count; i++ {
		k := keys[i*m.keySize : (i+1)*m.keySize]
		v := values[i*m.valueSize : (i+1)*m.valueSize]
		if err := m.k.MapUpdateElem(m.FD(), k, v, flags); err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}

// BatchDelete performs MAP_DELETE_BATCH with the same unsupported
// fallback as BatchLookup.
func (m *MapDescriptor) BatchDelete(keys []byte, count uint32) (uint32, error) {
	processed, _, err := m.k.MapBatch(sysbpf.BatchDelete, m.FD(), nil, nil, keys, nil, count, 0)
	if err == nil {
		return processed, nil
	}
	if !isNotSupported(err) {
		return 0, err
	}
	var done uint32
	for i := uint32(0); i < count; i++ {
		k := keys[i*m.keySize : (i+1)*m.keySize]
		if err := m.k.MapDeleteElem(m.FD(), k); err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}
