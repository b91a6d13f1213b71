//go:build linux

package attach

import (
	"github.com/pkg/errors"
	"github.com/vishvananda/netlink"
)

// XDP attaches progFD to the network interface named ifaceName via
// netlink, the way moby's own networking code manipulates links
// rather than hand-rolling netlink packet construction. XDP attach is
// out of scope for the assembler core but part of the external
// interface surface the attachment manager exposes.
func XDP(progFD int, ifaceName string) (*LinkDescriptor, error) {
	link, err := netlink.LinkByName(ifaceName)
	if err != nil {
		return nil, errors.Wrapf(err, "xdp attach: lookup interface %q", ifaceName)
	}
	if err := netlink.LinkSetXdpFd(link, progFD); err != nil {
		return nil, errors.Wrapf(err, "xdp attach: set xdp fd on %q", ifaceName)
	}
	return newLink(LinkNetlinkXDP, ifaceName, progFD, -1, func() error {
		return netlink.LinkSetXdpFd(link, -1)
	}), nil
}
