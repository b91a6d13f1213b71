package bpf

import "ebpfcore/ebpftype"

// RingBufSpec builds the MapSpec for a ring buffer map: key_size and
// value_size are always zero, max_entries is the ring capacity in
// bytes and must be a power of two. The consumer side (mmap of the
// producer/consumer pages and the double-mapped data region) lives in
// package ringbuf, which operates on the fd this map creates.
func RingBufSpec(name string, capacityBytes uint32) MapSpec {
	return MapSpec{
		Type:       ebpftype.MapTypeRingBuf,
		Name:       name,
		KeySize:    0,
		ValueSize:  0,
		MaxEntries: capacityBytes,
	}
}
