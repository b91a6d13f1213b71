package bpf

import "ebpfcore/internal/sysbpf"

// Push inserts a value into a stack or queue map. Both flavors have
// key_size=0; the kernel orders elements itself (LIFO for stack, FIFO
// for queue), this library only forwards the operation.
func (m *MapDescriptor) Push(value []byte, flags sysbpf.UpdateFlag) error {
	return m.k.MapUpdateElem(m.FD(), nil, value, flags)
}

// Pop removes and returns the next element. The second return is
// false, with a nil error, when the container is empty — matching the
// spec's "empty is a distinguishable absence, not an error".
func (m *MapDescriptor) Pop() ([]byte, bool, error) {
	value := make([]byte, m.valueSize)
	err := m.k.MapLookupAndDeleteElem(m.FD(), value)
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

// Peek returns the next element without removing it.
func (m *MapDescriptor) Peek() ([]byte, bool, error) {
	value := make([]byte, m.valueSize)
	err := m.k.MapLookupElem(m.FD(), nil, value)
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}
