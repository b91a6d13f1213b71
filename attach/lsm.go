package attach

import (
	"ebpfcore/ebpftype"
	"ebpfcore/internal/sysbpf"
)

// LSM attaches an LSM program via LINK_CREATE with attach_type=lsm_mac.
// attachTarget is the LSM hook's symbolic name (e.g.
// "bprm_check_security"), kept only for the descriptor's Target(); the
// kernel resolves the hook from the program's own BTF, not from this
// string.
func LSM(k sysbpf.Syscaller, progFD int, attachTarget string) (*LinkDescriptor, error) {
	fd, err := k.LinkCreate(progFD, 0, ebpftype.AttachLSMMac, 0)
	if err != nil {
		return nil, err
	}
	return newLink(LinkLSM, attachTarget, progFD, fd, func() error {
		return k.Close(fd)
	}), nil
}
