// Package bpf implements the resource lifecycle half of the library:
// program and map descriptors that own kernel file descriptors, plus
// the per-flavor helpers the map manager exposes (stack/queue, LPM
// trie, per-CPU, ring buffer, redirect-target maps).
package bpf

import "sync"

// closer gives every descriptor type in this package a single,
// idempotent close: a descriptor's Close is a no-op once it has
// already run, regardless of how many call sites invoke it.
type closer struct {
	mu      sync.Mutex
	fd      int
	closed  bool
	closeFn func(int) error
}

func newCloser(fd int, closeFn func(int) error) closer {
	return closer{fd: fd, closeFn: closeFn}
}

func (c *closer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.closeFn(c.fd)
}

// FD returns the underlying file descriptor regardless of close
// state; callers that need to guard against use-after-close should
// check Closed first.
func (c *closer) FD() int { return c.fd }

func (c *closer) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
