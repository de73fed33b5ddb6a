package btf

import "encoding/binary"

// Member is a struct/union field.
type Member struct {
	Name     string
	TypeID   uint32
	// BitOffset is the field's offset in bits from the start of the type.
	BitOffset uint32
	// BitSize is non-zero only for a packed bitfield member (kind_flag=1).
	BitSize uint32
}

// EnumValue is a named enumerator.
type EnumValue struct {
	Name  string
	Value int64
}

// Param is a function parameter.
type Param struct {
	Name   string
	TypeID uint32
}

// Type is one entry in the BTF type graph. Kind-specific fields are
// populated according to Kind; fields irrelevant to a given kind are zero.
type Type struct {
	ID      uint32
	Name    string
	Kind    Kind
	Size    uint32 // int/float/enum/struct/union: byte size
	TypeID  uint32 // ptr/typedef/const/volatile/restrict/var/func/decl_tag/type_tag: referenced type
	Members []Member
	Elem    uint32 // array: element type id
	Index   uint32 // array: index type id
	Nelems  uint32 // array: element count
	Enum    []EnumValue
	Params  []Param
	// The int encoding word is decoded into the fields below:
	// IntBits is the integer's effective bit width, IntOffset its bit offset
	// within its containing storage unit, IntSigned/IntChar/IntBool decode
	// the int encoding byte.
	IntBits   uint8
	IntOffset uint8
	IntSigned bool
	IntChar   bool
	IntBool   bool
}

// typeInfoKind extracts the kind (bits 24-28) from a type's info word.
func typeInfoKind(info uint32) Kind { return Kind((info >> kindShift) & 0x1f) }

// typeInfoVlen extracts vlen (low 16 bits) from a type's info word.
func typeInfoVlen(info uint32) int { return int(info & vlenMask) }

// typeInfoKindFlag extracts the kind_flag bit (bit 31).
func typeInfoKindFlag(info uint32) bool { return info&(1<<kindFlagShift) != 0 }

// btfType mirrors the common 12-byte type header
// (struct btf_type { u32 name_off; u32 info; union { u32 size; u32 type; }; }).
type btfType struct {
	NameOff uint32
	Info    uint32
	SizeOrType uint32
}

func parseTypeHeader(b []byte) btfType {
	return btfType{
		NameOff:    binary.LittleEndian.Uint32(b[0:4]),
		Info:       binary.LittleEndian.Uint32(b[4:8]),
		SizeOrType: binary.LittleEndian.Uint32(b[8:12]),
	}
}
