package link

import (
	"golang.org/x/sys/unix"

	"github.com/kornnellio/ebpfcore/bpferrs"
)

// defaultNetnsPath is the calling process's own network namespace.
const defaultNetnsPath = "/proc/self/ns/net"

// NetnsLink opens and keeps a file descriptor for a network namespace,
// the FD-owning half of the source repo's setns helper without the
// setns(2) call itself — sk_lookup and flow_dissector attachment need
// the open namespace fd, not to join the namespace.
type NetnsLink struct {
	path string
	fd   int
}

// Netns opens the network namespace at path (or the caller's own, if
// path is empty) and returns a handle owning its file descriptor.
func Netns(path string) (*NetnsLink, error) {
	if path == "" {
		path = defaultNetnsPath
	}
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, bpferrs.WrapWithSubject(err, bpferrs.ErrSyscall, "link.Netns", path)
	}
	return &NetnsLink{path: path, fd: fd}, nil
}

// FD returns the namespace file descriptor, for use as a LINK_CREATE
// target_fd (sk_lookup, flow_dissector).
func (l *NetnsLink) FD() int { return l.fd }

func (l *NetnsLink) Kind() string   { return "netns" }
func (l *NetnsLink) Target() string { return l.path }

// Detach closes the namespace file descriptor.
func (l *NetnsLink) Detach() error {
	if err := unix.Close(l.fd); err != nil {
		return bpferrs.WrapWithSubject(err, bpferrs.ErrSyscall, "link.NetnsLink.Detach", l.path)
	}
	return nil
}
