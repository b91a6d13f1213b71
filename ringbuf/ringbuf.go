//go:build linux

// Package ringbuf implements the consumer side of a BPF_MAP_TYPE_RINGBUF
// map's producer/consumer position protocol: two mmapped regions (a
// writable consumer page and a read-only producer-plus-data region)
// that the kernel and this reader update without any further syscalls
// per record.
package ringbuf

import (
	"encoding/binary"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const recordHeaderSize = 8

var (
	// ErrDeadlineExceeded is returned by ReadRecord when the caller's
	// deadline passes with no record available.
	ErrDeadlineExceeded = errors.New("ringbuf: deadline exceeded")
	// ErrClosed is returned by ReadRecord after Close has run.
	ErrClosed = errors.New("ringbuf: reader closed")
)

// Record is one dequeued ring buffer entry. Data is a private copy,
// safe to retain past the next ReadRecord call.
type Record struct {
	Data []byte
}

// Reader consumes a ring buffer map by mmapping its consumer and
// producer/data pages directly. Capacity must match the power-of-two,
// page-aligned max_entries the map was created with (see
// bpf.RingBufSpec).
type Reader struct {
	fd       int
	consumer []byte
	producer []byte
	dataOff  int
	mask     uint64

	closeOnce sync.Once
	closed    chan struct{}
}

// Open mmaps the two regions of the ring buffer map identified by
// mapFD.
func Open(mapFD int, capacity int) (*Reader, error) {
	pageSize := os.Getpagesize()

	consumer, err := unix.Mmap(mapFD, 0, pageSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "ringbuf: mmap consumer page")
	}

	producer, err := unix.Mmap(mapFD, int64(pageSize), pageSize+2*capacity, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		unix.Munmap(consumer)
		return nil, pkgerrors.Wrap(err, "ringbuf: mmap producer and data pages")
	}

	return &Reader{
		fd:       mapFD,
		consumer: consumer,
		producer: producer,
		dataOff:  pageSize,
		mask:     uint64(capacity) - 1,
		closed:   make(chan struct{}),
	}, nil
}

func loadPos(b []byte) uint64 {
	return atomic.LoadUint64((*uint64)(unsafe.Pointer(&b[0])))
}

func storePos(b []byte, v uint64) {
	atomic.StoreUint64((*uint64)(unsafe.Pointer(&b[0])), v)
}

// ReadRecord returns the next record, blocking (subject to deadline)
// until one is available. A zero deadline blocks indefinitely.
// Padding records are skipped transparently.
func (r *Reader) ReadRecord(deadline time.Time) (*Record, error) {
	for {
		cons := loadPos(r.consumer)
		prod := loadPos(r.producer)
		if cons != prod {
			rec, consumed := r.parseAt(cons)
			storePos(r.consumer, cons+consumed)
			if rec == nil {
				continue
			}
			return rec, nil
		}
		if err := r.wait(deadline); err != nil {
			return nil, err
		}
	}
}

func (r *Reader) parseAt(pos uint64) (*Record, uint64) {
	offset := int(pos & r.mask)
	header := r.producer[r.dataOff+offset : r.dataOff+offset+recordHeaderSize]
	length := binary.LittleEndian.Uint32(header[0:4])
	padFlag := binary.LittleEndian.Uint32(header[4:8])

	total := uint64(alignUp(recordHeaderSize+int(length), 8))
	if padFlag&1 != 0 {
		return nil, total
	}

	start := r.dataOff + offset + recordHeaderSize
	data := make([]byte, length)
	copy(data, r.producer[start:start+int(length)])
	return &Record{Data: data}, total
}

func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}

func (r *Reader) wait(deadline time.Time) error {
	select {
	case <-r.closed:
		return ErrClosed
	default:
	}

	timeout := -1
	if !deadline.IsZero() {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return ErrDeadlineExceeded
		}
		timeout = int(remaining.Milliseconds())
	}

	fds := []unix.PollFd{{Fd: int32(r.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, timeout)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return pkgerrors.Wrap(err, "ringbuf: poll")
	}
	if n == 0 {
		return ErrDeadlineExceeded
	}
	return nil
}

// Close unmaps both regions. Idempotent.
func (r *Reader) Close() error {
	var err error
	r.closeOnce.Do(func() {
		close(r.closed)
		if e := unix.Munmap(r.consumer); e != nil {
			err = e
		}
		if e := unix.Munmap(r.producer); e != nil {
			err = e
		}
	})
	return err
}
