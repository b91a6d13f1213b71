package bpf

import "encoding/binary"

// FDMapKey and FDMapValue encode the uint32 index and uint32 fd used
// by socket, device, cpu and xsk maps — all integer-keyed maps whose
// values name another fd, read from program code by bpf_redirect_map
// (helper id 51, see asm.HelperRedirectMap).
func FDMapKey(index uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, index)
	return b
}

func FDMapValue(fd uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, fd)
	return b
}
