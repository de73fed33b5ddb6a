package ringbuf

import "unsafe"

// unsafePtr reinterprets the first 8 bytes of an mmap'd page as a
// *uint64 for atomic load/store, matching the kernel's
// struct bpf_ringbuf layout (consumer_pos / producer_pos are the first
// word of their respective control pages).
func unsafePtr(b []byte) unsafe.Pointer {
	return unsafe.Pointer(&b[0])
}
