// Package btf parses the BPF Type Format: the kernel's compact binary
// encoding of C type information, used for CO-RE relocation and for
// struct_ops/fentry/fexit attachment. It follows the exact-byte-layout
// parsing discipline the source repo applies to its own kernel-ABI
// structures (e.g. its classic-BPF sockFilter/sockFprog pair): every
// struct here has a fixed, documented byte size and is decoded with
// plain offset arithmetic, never reflection.
package btf

import (
	"encoding/binary"
	"fmt"

	"github.com/kornnellio/ebpfcore/bpferrs"
)

const (
	btfMagic       = 0xeb9f
	btfHeaderLen   = 24
	btfVersion     = 1
	kindBits       = 5
	kindShift      = 24
	kindFlagShift  = 31
	vlenMask       = 0xffff
)

// Kind identifies a BTF type's category.
type Kind uint8

const (
	KindVoid Kind = iota
	KindInt
	KindPtr
	KindArray
	KindStruct
	KindUnion
	KindEnum
	KindFwd
	KindTypedef
	KindVolatile
	KindConst
	KindRestrict
	KindFunc
	KindFuncProto
	KindVar
	KindDatasec
	KindFloat
	KindDeclTag
	KindTypeTag
	KindEnum64
)

// header mirrors the 24-byte BTF blob header (include/uapi/linux/btf.h).
type header struct {
	Magic   uint16
	Version uint8
	Flags   uint8
	HdrLen  uint32
	TypeOff uint32
	TypeLen uint32
	StrOff  uint32
	StrLen  uint32
}

func parseHeader(b []byte) (header, error) {
	if len(b) < btfHeaderLen {
		return header{}, bpferrs.WrapWithDetail(nil, bpferrs.ErrInvalidShape, "btf.parseHeader", "blob shorter than BTF header")
	}
	h := header{
		Magic:   binary.LittleEndian.Uint16(b[0:2]),
		Version: b[2],
		Flags:   b[3],
		HdrLen:  binary.LittleEndian.Uint32(b[4:8]),
		TypeOff: binary.LittleEndian.Uint32(b[8:12]),
		TypeLen: binary.LittleEndian.Uint32(b[12:16]),
		StrOff:  binary.LittleEndian.Uint32(b[16:20]),
		StrLen:  binary.LittleEndian.Uint32(b[20:24]),
	}
	if h.Magic != btfMagic {
		return header{}, bpferrs.ErrBadBTFMagic
	}
	if h.Version != btfVersion {
		return header{}, bpferrs.WrapWithDetail(
			fmt.Errorf("version %d", h.Version), bpferrs.ErrUnsupported, "btf.parseHeader", "unsupported BTF version")
	}
	return h, nil
}
