// Package buf provides the byte-packing, bounded-buffer, and safe
// path-joining primitives the syscall and BTF layers build on.
package buf

import "encoding/binary"

// PutUint16 writes v little-endian at b[0:2].
func PutUint16(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }

// PutUint32 writes v little-endian at b[0:4].
func PutUint32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }

// PutUint64 writes v little-endian at b[0:8].
func PutUint64(b []byte, v uint64) { binary.LittleEndian.PutUint64(b, v) }

// Uint16 reads a little-endian uint16 from b[0:2].
func Uint16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }

// Uint32 reads a little-endian uint32 from b[0:4].
func Uint32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

// Uint64 reads a little-endian uint64 from b[0:8].
func Uint64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

// PadName copies s into a fixed-size, NUL-terminated byte array the way
// the kernel expects prog_name/map_name (max 15 bytes plus a trailing NUL).
func PadName(dst []byte, s string) {
	for i := range dst {
		dst[i] = 0
	}
	n := len(s)
	if n > len(dst)-1 {
		n = len(dst) - 1
	}
	copy(dst, s[:n])
}

// RoundUp rounds n up to the next multiple of align (align must be a power of two).
func RoundUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
