package link

import (
	"encoding/binary"

	"golang.org/x/sys/unix"

	"github.com/kornnellio/ebpfcore/bpferrs"
)

// XDP attach flags (IFLA_XDP_FLAGS bitmask), matching the kernel's
// netdevice.h constants.
const (
	XDPFlagUpdateIfNoexist uint32 = 1 << 0
	XDPFlagSKBMode         uint32 = 1 << 1
	XDPFlagDrvMode         uint32 = 1 << 2
	XDPFlagHWMode          uint32 = 1 << 3
	XDPFlagReplace         uint32 = 1 << 4
)

const (
	rtmSetlink = 19

	iflaXDP         = 43
	iflaXDPNested   = 1 << 15 // NLA_F_NESTED
	iflaXDPFD       = 1
	iflaXDPFlags    = 3
)

// XDPLink represents an XDP program attached to a network interface.
type XDPLink struct {
	ifindex int
	flags   uint32
}

// XDP builds and sends an RTM_SETLINK netlink message attaching progFD
// to ifindex with the given flags, entirely by hand over a raw
// AF_NETLINK/NETLINK_ROUTE socket — no netlink client library, since the
// wire format here is part of the observable contract, not an
// implementation detail to hide behind one.
func XDP(ifindex int, progFD int32, flags uint32) (*XDPLink, error) {
	if err := sendSetlinkXDP(ifindex, progFD, flags); err != nil {
		return nil, err
	}
	return &XDPLink{ifindex: ifindex, flags: flags}, nil
}

func (l *XDPLink) Kind() string   { return "xdp" }
func (l *XDPLink) Target() string { return "ifindex" }

// Detach attaches prog_fd=-1 to remove the XDP program from the interface.
func (l *XDPLink) Detach() error {
	return sendSetlinkXDP(l.ifindex, -1, 0)
}

func sendSetlinkXDP(ifindex int, progFD int32, flags uint32) error {
	msg := buildSetlinkXDP(ifindex, progFD, flags)

	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_RAW, unix.NETLINK_ROUTE)
	if err != nil {
		return bpferrs.Wrap(err, bpferrs.ErrSyscall, "link.XDP")
	}
	defer unix.Close(fd)

	sa := &unix.SockaddrNetlink{Family: unix.AF_NETLINK}
	if err := unix.Bind(fd, sa); err != nil {
		return bpferrs.Wrap(err, bpferrs.ErrSyscall, "link.XDP")
	}
	if err := unix.Sendto(fd, msg, 0, sa); err != nil {
		return bpferrs.Wrap(err, bpferrs.ErrSyscall, "link.XDP")
	}
	return nil
}

// buildSetlinkXDP constructs the wire bytes for an RTM_SETLINK message
// carrying a nested IFLA_XDP attribute, per the kernel's netlink ABI.
func buildSetlinkXDP(ifindex int, progFD int32, flags uint32) []byte {
	fdAttr := nlattr(iflaXDPFD, le32(uint32(progFD)))
	flagsAttr := nlattr(iflaXDPFlags, le32(flags))
	xdpPayload := append(append([]byte{}, fdAttr...), flagsAttr...)
	xdpAttr := nlattr(iflaXDP|iflaXDPNested, xdpPayload)

	ifinfomsg := make([]byte, 16)
	binary.LittleEndian.PutUint32(ifinfomsg[4:8], uint32(ifindex))

	body := append(ifinfomsg, xdpAttr...)

	hdr := make([]byte, 16)
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(16+len(body)))
	binary.LittleEndian.PutUint16(hdr[4:6], rtmSetlink)
	binary.LittleEndian.PutUint16(hdr[6:8], unix.NLM_F_REQUEST|unix.NLM_F_ACK)
	binary.LittleEndian.PutUint32(hdr[8:12], 1)
	binary.LittleEndian.PutUint32(hdr[12:16], 0)

	return append(hdr, body...)
}

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

// nlattr builds one netlink attribute: 2-byte len (header+data, unpadded),
// 2-byte type, data padded to 4-byte alignment.
func nlattr(attrType uint32, data []byte) []byte {
	nlaLen := uint16(4 + len(data))
	hdr := make([]byte, 4)
	binary.LittleEndian.PutUint16(hdr[0:2], nlaLen)
	binary.LittleEndian.PutUint16(hdr[2:4], uint16(attrType))

	out := append(hdr, data...)
	for len(out)%4 != 0 {
		out = append(out, 0)
	}
	return out
}
