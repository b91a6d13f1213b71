package objelf

import "encoding/binary"

func readU8(b []byte, off int) byte {
	return b[off] & 0xff
}

func readU32LE(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

func readU64LE(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}

// readCString scans from offset until the first zero byte.
func readCString(b []byte, off int) string {
	end := off
	for end < len(b) && b[end] != 0 {
		end++
	}
	return string(b[off:end])
}
