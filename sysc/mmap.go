package sysc

import (
	"golang.org/x/sys/unix"

	"github.com/kornnellio/ebpfcore/bpferrs"
)

// RingbufMapping is the result of mapping a BPF_MAP_TYPE_RINGBUF map's
// consumer and producer/data regions, per the kernel's mmap layout: page
// 0 holds the consumer position (writable), followed by the producer
// position and data pages (read-only from userspace).
type RingbufMapping struct {
	ConsumerPos []byte
	ProducerData []byte
}

// MmapRingbuf maps a ring buffer map's control and data regions. pageSize
// must be the host page size and dataPages the map's max_entries (the
// kernel requires max_entries to already be a power-of-two page count).
func MmapRingbuf(mapFD int, pageSize, dataPages int) (*RingbufMapping, error) {
	consumer, err := unix.Mmap(mapFD, 0, pageSize,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, bpferrs.Wrap(err, bpferrs.ErrSyscall, "sysc.MmapRingbuf consumer")
	}

	dataLen := pageSize + dataPages*pageSize
	producer, err := unix.Mmap(mapFD, int64(pageSize), dataLen,
		unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		unix.Munmap(consumer)
		return nil, bpferrs.Wrap(err, bpferrs.ErrSyscall, "sysc.MmapRingbuf producer")
	}

	return &RingbufMapping{ConsumerPos: consumer, ProducerData: producer}, nil
}

// Close unmaps both regions.
func (m *RingbufMapping) Close() error {
	var firstErr error
	if err := unix.Munmap(m.ConsumerPos); err != nil && firstErr == nil {
		firstErr = bpferrs.Wrap(err, bpferrs.ErrSyscall, "sysc.RingbufMapping.Close")
	}
	if err := unix.Munmap(m.ProducerData); err != nil && firstErr == nil {
		firstErr = bpferrs.Wrap(err, bpferrs.ErrSyscall, "sysc.RingbufMapping.Close")
	}
	return firstErr
}
