//go:build linux

package attach

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/vishvananda/netlink"
)

// TC attaches progFD as a TC classifier filter on ifaceName: ensures a
// clsact qdisc exists, then adds a BPF filter at the given direction
// ("ingress" or "egress") using the interface's clsact handle.
func TC(progFD int, ifaceName, direction string) (*LinkDescriptor, error) {
	link, err := netlink.LinkByName(ifaceName)
	if err != nil {
		return nil, errors.Wrapf(err, "tc attach: lookup interface %q", ifaceName)
	}

	qdisc := &netlink.GenericQdisc{
		QdiscAttrs: netlink.QdiscAttrs{
			LinkIndex: link.Attrs().Index,
			Handle:    netlink.MakeHandle(0xffff, 0),
			Parent:    netlink.HANDLE_CLSACT,
		},
		QdiscType: "clsact",
	}
	if err := netlink.QdiscAdd(qdisc); err != nil && !isFileExists(err) {
		return nil, errors.Wrapf(err, "tc attach: add clsact qdisc on %q", ifaceName)
	}

	parent := uint32(netlink.HANDLE_MIN_INGRESS)
	if direction == "egress" {
		parent = netlink.HANDLE_MIN_EGRESS
	}

	filter := &netlink.BpfFilter{
		FilterAttrs: netlink.FilterAttrs{
			LinkIndex: link.Attrs().Index,
			Parent:    parent,
			Handle:    netlink.MakeHandle(0, 1),
			Protocol:  3, // ETH_P_ALL, host byte order per netlink.BpfFilter convention
		},
		Fd:           progFD,
		Name:         "ebpfcore",
		DirectAction: true,
	}
	if err := netlink.FilterAdd(filter); err != nil {
		return nil, errors.Wrapf(err, "tc attach: add bpf filter on %q", ifaceName)
	}

	return newLink(LinkTC, ifaceName+"/"+direction, progFD, -1, func() error {
		return netlink.FilterDel(filter)
	}), nil
}

// isFileExists lets a repeated clsact qdisc add be treated as success;
// the qdisc is idempotent by construction once present.
func isFileExists(err error) bool {
	return strings.Contains(err.Error(), "file exists")
}
