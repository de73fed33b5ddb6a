package ringbuf

import (
	"os"
	"syscall"

	"github.com/kornnellio/ebpfcore/bpferrs"
)

// syncPipe is a self-pipe used to unblock a goroutine parked in
// epoll_wait, the same plumbing utils.SyncPipe uses for parent/child
// handshaking repurposed here so Stop can interrupt the consumer loop
// instead of waiting out its poll timeout.
type syncPipe struct {
	read  *os.File
	write *os.File
}

func newSyncPipe() (*syncPipe, error) {
	fds := make([]int, 2)
	if err := syscall.Pipe(fds); err != nil {
		return nil, bpferrs.Wrap(err, bpferrs.ErrSyscall, "ringbuf.newSyncPipe")
	}
	return &syncPipe{
		read:  os.NewFile(uintptr(fds[0]), "ringbuf-pipe-read"),
		write: os.NewFile(uintptr(fds[1]), "ringbuf-pipe-write"),
	}, nil
}

func (p *syncPipe) readFD() int {
	return int(p.read.Fd())
}

func (p *syncPipe) wake() error {
	_, err := p.write.Write([]byte{0})
	return err
}

func (p *syncPipe) close() {
	p.read.Close()
	p.write.Close()
}
