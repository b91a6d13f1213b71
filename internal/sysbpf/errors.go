package sysbpf

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// ErrorKind is a portable classification of a failed bpf(2) call,
// translated from the raw errno returned by the kernel.
type ErrorKind int

const (
	PermissionDenied ErrorKind = iota
	InvalidArgument
	NotFound
	AlreadyExists
	TryAgain
	NotSupportedKind
	OutOfMemory
	TooBig
	Other
)

// KernelError reports a failed syscall: the command that failed, the
// raw errno, its symbolic name, and a portable Kind for branching.
type KernelError struct {
	Command string
	Errno   unix.Errno
	Kind    ErrorKind
}

func (e *KernelError) Error() string {
	return fmt.Sprintf("bpf(%s): %s: %s (errno %d)", e.Command, unix.ErrnoName(e.Errno), e.Errno.Error(), int(e.Errno))
}

func (e *KernelError) Unwrap() error { return e.Errno }

func newKernelError(command string, errno unix.Errno) *KernelError {
	return &KernelError{Command: command, Errno: errno, Kind: classifyErrno(errno)}
}

func classifyErrno(errno unix.Errno) ErrorKind {
	switch errno {
	case unix.EPERM, unix.EACCES:
		return PermissionDenied
	case unix.EINVAL:
		return InvalidArgument
	case unix.ENOENT:
		return NotFound
	case unix.EEXIST:
		return AlreadyExists
	case unix.EAGAIN:
		return TryAgain
	case unix.EOPNOTSUPP, unix.ENOTSUP:
		return NotSupportedKind
	case unix.ENOMEM:
		return OutOfMemory
	case unix.E2BIG:
		return TooBig
	default:
		return Other
	}
}

// VerifierError is returned specifically by ProgLoad: it carries the
// kernel's rejection code plus the tail of the verifier log buffer so
// the caller can surface the diagnostic.
type VerifierError struct {
	*KernelError
	LogExcerpt string
}

func (e *VerifierError) Error() string {
	if e.LogExcerpt == "" {
		return e.KernelError.Error()
	}
	return fmt.Sprintf("%s\nverifier log:\n%s", e.KernelError.Error(), e.LogExcerpt)
}

// errnoOf inverts classifyErrno for FakeKernel, which needs to
// construct KernelErrors without a real syscall ever having failed.
func errnoOf(kind ErrorKind) unix.Errno {
	switch kind {
	case PermissionDenied:
		return unix.EPERM
	case InvalidArgument:
		return unix.EINVAL
	case NotFound:
		return unix.ENOENT
	case AlreadyExists:
		return unix.EEXIST
	case TryAgain:
		return unix.EAGAIN
	case NotSupportedKind:
		return unix.EOPNOTSUPP
	case OutOfMemory:
		return unix.ENOMEM
	case TooBig:
		return unix.E2BIG
	default:
		return unix.EIO
	}
}

// ResourceExhausted reports exhaustion of a process-level resource
// (fd table, RLIMIT_MEMLOCK) rather than a specific kernel command
// failure.
type ResourceExhausted struct {
	Detail string
}

func (e *ResourceExhausted) Error() string {
	return fmt.Sprintf("bpf: resource exhausted: %s", e.Detail)
}
