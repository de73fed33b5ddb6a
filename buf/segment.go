package buf

import "unsafe"

// Segment is a bounded byte buffer that guarantees a fixed length and lets
// callers take its base address exactly once, at the syscall edge,
// instead of scattering unsafe.Pointer arithmetic across call sites.
type Segment struct {
	data []byte
}

// NewSegment allocates a zeroed segment of the given size.
func NewSegment(size int) *Segment {
	return &Segment{data: make([]byte, size)}
}

// Bytes returns the segment's backing slice.
func (s *Segment) Bytes() []byte { return s.data }

// Len returns the segment's length.
func (s *Segment) Len() int { return len(s.data) }

// Pointer returns the segment's base address as a uintptr, suitable for
// embedding into a bpf_attr field. The segment must be kept alive (via a
// reference on the stack or a runtime.KeepAlive call) for as long as the
// kernel may dereference this pointer.
func (s *Segment) Pointer() uintptr {
	if len(s.data) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&s.data[0]))
}

// PutUint32 writes v little-endian at the given byte offset.
func (s *Segment) PutUint32(off int, v uint32) { PutUint32(s.data[off:off+4], v) }

// PutUint64 writes v little-endian at the given byte offset.
func (s *Segment) PutUint64(off int, v uint64) { PutUint64(s.data[off:off+8], v) }

// PutUint16 writes v little-endian at the given byte offset.
func (s *Segment) PutUint16(off int, v uint16) { PutUint16(s.data[off:off+2], v) }

// Uint32 reads a little-endian uint32 at the given byte offset.
func (s *Segment) Uint32(off int) uint32 { return Uint32(s.data[off : off+4]) }

// Uint64 reads a little-endian uint64 at the given byte offset.
func (s *Segment) Uint64(off int) uint64 { return Uint64(s.data[off : off+8]) }

// PutPointer writes a pointer-to-buffer value (e.g. a key_ptr/value_ptr
// field) at the given byte offset.
func (s *Segment) PutPointer(off int, p *Segment) {
	s.PutUint64(off, uint64(p.Pointer()))
}
