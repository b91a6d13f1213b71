package sysbpf

import "runtime"

// Arena is a call-scoped allocator: every buffer it hands out must
// remain reachable (and therefore un-collected) until the syscall that
// received a pointer into it has returned. Create one per bpf(2) call,
// allocate every buffer the attr struct points into from it, and call
// Release immediately after the syscall returns.
//
// Arenas are never shared between goroutines; each call gets its own.
type Arena struct {
	bufs [][]byte
}

// NewArena creates an empty, call-scoped arena.
func NewArena() *Arena {
	return &Arena{}
}

// Alloc reserves a zeroed buffer of n bytes that will stay alive for
// the lifetime of the arena.
func (a *Arena) Alloc(n int) []byte {
	b := make([]byte, n)
	a.bufs = append(a.bufs, b)
	return b
}

// Bytes copies src into an arena-owned buffer and returns it.
func (a *Arena) Bytes(src []byte) []byte {
	b := a.Alloc(len(src))
	copy(b, src)
	return b
}

// CString copies s into an arena-owned, NUL-terminated buffer.
func (a *Arena) CString(s string) []byte {
	b := a.Alloc(len(s) + 1)
	copy(b, s)
	return b
}

// Release drops the arena's references. It must be called only after
// every syscall that used a buffer from this arena has returned; the
// runtime.KeepAlive barrier in the caller is what actually guarantees
// the buffers survived the call, Release merely ends the scope.
func (a *Arena) Release() {
	a.bufs = nil
}

// keepAlive is a readability wrapper around runtime.KeepAlive, called
// after every raw syscall that took a pointer derived from the arena
// so the compiler cannot prove the arena dead before the kernel is
// done reading from it.
func keepAlive(a *Arena) {
	runtime.KeepAlive(a)
}
