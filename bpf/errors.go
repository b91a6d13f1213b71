package bpf

import (
	"errors"

	"ebpfcore/internal/sysbpf"
)

func asKernelError(err error, target **sysbpf.KernelError) bool {
	return errors.As(err, target)
}

// isNotFound reports whether err is the kernel's NotFound classification,
// which several flavor-specific helpers (stack/queue pop/peek) turn into
// a plain boolean "empty" result rather than propagating as an error.
func isNotFound(err error) bool {
	var kerr *sysbpf.KernelError
	return asKernelError(err, &kerr) && kerr.Kind == sysbpf.NotFound
}

// isNotSupported reports whether err is the kernel's NotSupported
// classification, the form both LinuxKernel (a real EOPNOTSUPP) and
// FakeKernel return for a rejected batch command, so batch fallback
// triggers identically against either.
func isNotSupported(err error) bool {
	var kerr *sysbpf.KernelError
	return asKernelError(err, &kerr) && kerr.Kind == sysbpf.NotSupportedKind
}
