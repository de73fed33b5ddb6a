// Package ringbuf implements a consumer for BPF_MAP_TYPE_RINGBUF maps:
// mmap'd shared-memory record framing, an epoll wait loop woken either
// by kernel writes or by an explicit stop, and basic throughput stats.
package ringbuf

import (
	"encoding/binary"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"

	"github.com/kornnellio/ebpfcore/bpferrs"
	"github.com/kornnellio/ebpfcore/sysc"
)

const pageSize = 4096

// Stats tracks consumer throughput, read under the same discipline the
// source repo uses for its own mutex-guarded resource handles.
type Stats struct {
	EventsRead      uint64
	EventsProcessed uint64
	BatchesRead     uint64
	Errors          uint64
	LastEventTime   time.Time
}

// Reader consumes records from a ring buffer map.
type Reader struct {
	mu sync.RWMutex

	mapping *sysc.RingbufMapping
	dataLen int

	epollFD int
	pipe    *syncPipe

	running atomic.Bool
	done    chan struct{}

	stats Stats

	batchSize int
}

// Open mmaps the ring buffer map's control and data regions and prepares
// (without starting) a Reader. dataPages must equal the map's
// max_entries in page units (the kernel requires it to be a power of two).
func Open(mapFD int, dataPages int) (*Reader, error) {
	if dataPages <= 0 || dataPages&(dataPages-1) != 0 {
		return nil, bpferrs.ErrRingbufSizeInvalid
	}
	mapping, err := sysc.MmapRingbuf(mapFD, pageSize, dataPages)
	if err != nil {
		return nil, err
	}
	return &Reader{
		mapping:   mapping,
		dataLen:   dataPages * pageSize,
		batchSize: 64,
	}, nil
}

// SetBatchSize bounds how many records Start's consumer loop drains per
// wakeup before yielding back to epoll_wait.
func (r *Reader) SetBatchSize(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batchSize = n
}

func (r *Reader) consumerPos() uint64 {
	return atomic.LoadUint64((*uint64)(unsafePtr(r.mapping.ConsumerPos)))
}

func (r *Reader) setConsumerPos(v uint64) {
	atomic.StoreUint64((*uint64)(unsafePtr(r.mapping.ConsumerPos)), v)
}

func (r *Reader) producerPos() uint64 {
	return atomic.LoadUint64((*uint64)(unsafePtr(r.mapping.ProducerData)))
}

// Start launches the epoll-driven consumer goroutine, calling handle for
// every record read, until Stop is called.
func (r *Reader) Start(mapFD int, handle func(record []byte)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return bpferrs.Wrap(err, bpferrs.ErrSyscall, "ringbuf.Start")
	}
	pipe, err := newSyncPipe()
	if err != nil {
		unix.Close(epfd)
		return err
	}

	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, mapFD,
		&unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(mapFD)}); err != nil {
		unix.Close(epfd)
		pipe.close()
		return bpferrs.Wrap(err, bpferrs.ErrSyscall, "ringbuf.Start")
	}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, pipe.readFD(),
		&unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(pipe.readFD())}); err != nil {
		unix.Close(epfd)
		pipe.close()
		return bpferrs.Wrap(err, bpferrs.ErrSyscall, "ringbuf.Start")
	}

	r.epollFD = epfd
	r.pipe = pipe
	r.done = make(chan struct{})
	r.running.Store(true)

	go r.loop(mapFD, handle)
	return nil
}

func (r *Reader) loop(mapFD int, handle func(record []byte)) {
	defer close(r.done)
	events := make([]unix.EpollEvent, 2)

	for r.running.Load() {
		n, err := unix.EpollWait(r.epollFD, events, 100)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			r.mu.Lock()
			r.stats.Errors++
			r.mu.Unlock()
			continue
		}
		if n == 0 || !r.running.Load() {
			continue
		}

		ready := false
		for i := 0; i < n; i++ {
			if int(events[i].Fd) == mapFD {
				ready = true
			}
		}
		if !ready {
			continue
		}
		r.drain(handle)
	}
}

func (r *Reader) drain(handle func(record []byte)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for count < r.batchSize {
		rec, ok := r.readOne()
		if !ok {
			break
		}
		r.stats.EventsRead++
		handle(rec)
		r.stats.EventsProcessed++
		r.stats.LastEventTime = now()
		count++
	}
	if count > 0 {
		r.stats.BatchesRead++
	}
}

// readOne reads one framed record and advances consumer_pos, or returns
// ok=false if no well-formed record is available.
func (r *Reader) readOne() ([]byte, bool) {
	consumer := r.consumerPos()
	producer := r.producerPos()
	available := producer - consumer

	if available < 4 {
		return nil, false
	}

	lenOff := int(consumer % uint64(r.dataLen))
	length := readLenAt(r.mapping.ProducerData[pageSize:], lenOff, r.dataLen)
	if length == 0 || uint64(length) > available {
		return nil, false
	}

	payloadLen := length - 4
	payload := make([]byte, payloadLen)
	copyWrapped(payload, r.mapping.ProducerData[pageSize:], (lenOff+4)%r.dataLen, r.dataLen)

	r.setConsumerPos(consumer + uint64(length))
	return payload, true
}

func readLenAt(data []byte, off, dataLen int) uint32 {
	if off+4 <= dataLen {
		return binary.LittleEndian.Uint32(data[off : off+4])
	}
	var b [4]byte
	for i := 0; i < 4; i++ {
		b[i] = data[(off+i)%dataLen]
	}
	return binary.LittleEndian.Uint32(b[:])
}

func copyWrapped(dst, src []byte, off, dataLen int) {
	for i := range dst {
		dst[i] = src[(off+i)%dataLen]
	}
}

// Peek performs a non-destructive read: it reads the next available
// record without advancing consumer_pos.
func (r *Reader) Peek() ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	saved := r.consumerPos()
	rec, ok := r.readOne()
	r.setConsumerPos(saved)
	return rec, ok
}

// StatsSnapshot returns a copy of the reader's current statistics.
func (r *Reader) StatsSnapshot() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats
}

// Stop signals the consumer loop to exit, unblocks any in-progress
// epoll_wait via the self-pipe, and waits up to 5 seconds for the loop
// to join before tearing down the epoll fd, pipe, and mmap regions.
func (r *Reader) Stop() error {
	r.mu.Lock()
	if !r.running.Load() {
		r.mu.Unlock()
		return nil
	}
	r.running.Store(false)
	pipe := r.pipe
	epfd := r.epollFD
	done := r.done
	r.mu.Unlock()

	if pipe != nil {
		pipe.wake()
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}

	var firstErr error
	if epfd != 0 {
		if err := unix.Close(epfd); err != nil && firstErr == nil {
			firstErr = bpferrs.Wrap(err, bpferrs.ErrSyscall, "ringbuf.Stop")
		}
	}
	if pipe != nil {
		pipe.close()
	}
	if err := r.mapping.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func now() time.Time { return time.Now() }
