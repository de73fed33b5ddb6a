package sysc

import (
	"golang.org/x/sys/unix"

	"github.com/kornnellio/ebpfcore/bpferrs"
)

// CloseFD closes a raw file descriptor (a map, program, link, or perf
// event fd), translating a close(2) failure into a typed error.
func CloseFD(fd int) error {
	if err := unix.Close(fd); err != nil {
		return bpferrs.Wrap(err, bpferrs.ErrSyscall, "sysc.CloseFD")
	}
	return nil
}
