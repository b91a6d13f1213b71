package bpf

import "encoding/binary"

// LPMKey packs a longest-prefix-match trie key per kernel UAPI: a
// little-endian 32-bit prefix length in bits, followed by the address
// bytes. Lookup against an LPM trie map returns the value of the
// longest stored prefix matching the queried address.
func LPMKey(prefixBits uint32, addr []byte) []byte {
	key := make([]byte, 4+len(addr))
	binary.LittleEndian.PutUint32(key, prefixBits)
	copy(key[4:], addr)
	return key
}

// LPMKeyPrefix and LPMKeyAddr split an LPM key back into its two
// fields, the inverse of LPMKey.
func LPMKeyPrefix(key []byte) uint32 {
	return binary.LittleEndian.Uint32(key[:4])
}

func LPMKeyAddr(key []byte) []byte {
	return key[4:]
}
