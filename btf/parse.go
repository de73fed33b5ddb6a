package btf

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/kornnellio/ebpfcore/bpferrs"
)

const vmlinuxBTFPath = "/sys/kernel/btf/vmlinux"

// Spec is a parsed BTF type graph: an ordered vector of Types indexed
// from 1 (index 0 is the implicit void type) plus a name index for
// lookups.
type Spec struct {
	types   []Type // types[0] is void; types[id] is the type with that id
	byName  map[string][]uint32
}

// LoadKernelSpec parses the running kernel's own BTF.
func LoadKernelSpec() (*Spec, error) {
	return LoadSpec(vmlinuxBTFPath)
}

// LoadSpec reads and parses a BTF blob from a file path (vmlinux BTF, a
// split BTF module, or a program's embedded BTF).
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, bpferrs.Wrap(err, bpferrs.ErrNotFound, "btf.LoadSpec")
	}
	return ParseSpec(data)
}

// ParseSpec parses a raw BTF blob.
func ParseSpec(data []byte) (*Spec, error) {
	hdr, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	if int(hdr.HdrLen) > len(data) {
		return nil, bpferrs.WrapWithDetail(nil, bpferrs.ErrInvalidShape, "btf.ParseSpec", "header length exceeds blob size")
	}

	strStart := int(hdr.HdrLen) + int(hdr.StrOff)
	strEnd := strStart + int(hdr.StrLen)
	if strEnd > len(data) {
		return nil, bpferrs.WrapWithDetail(nil, bpferrs.ErrInvalidShape, "btf.ParseSpec", "string section out of bounds")
	}
	strTab := data[strStart:strEnd]

	readStr := func(off uint32) string {
		if int(off) >= len(strTab) {
			return ""
		}
		end := int(off)
		for end < len(strTab) && strTab[end] != 0 {
			end++
		}
		return string(strTab[off:end])
	}

	typeStart := int(hdr.HdrLen) + int(hdr.TypeOff)
	typeEnd := typeStart + int(hdr.TypeLen)
	if typeEnd > len(data) {
		return nil, bpferrs.WrapWithDetail(nil, bpferrs.ErrInvalidShape, "btf.ParseSpec", "type section out of bounds")
	}
	typeSec := data[typeStart:typeEnd]

	types := []Type{{ID: 0, Kind: KindVoid}}
	byName := make(map[string][]uint32)

	off := 0
	var id uint32 = 1
	for off+12 <= len(typeSec) {
		th := parseTypeHeader(typeSec[off:])
		kind := typeInfoKind(th.Info)
		vlen := typeInfoVlen(th.Info)
		kindFlag := typeInfoKindFlag(th.Info)
		body := off + 12

		t := Type{ID: id, Name: readStr(th.NameOff), Kind: kind}

		switch kind {
		case KindInt:
			if body+4 > len(typeSec) {
				return nil, truncated("int")
			}
			enc := binary.LittleEndian.Uint32(typeSec[body : body+4])
			t.Size = th.SizeOrType
			t.IntEncodingSet(enc)
			off = body + 4
		case KindPtr, KindTypedef, KindConst, KindVolatile, KindRestrict, KindFunc, KindDeclTag, KindTypeTag:
			t.TypeID = th.SizeOrType
			off = body
		case KindArray:
			if body+12 > len(typeSec) {
				return nil, truncated("array")
			}
			t.Elem = binary.LittleEndian.Uint32(typeSec[body : body+4])
			t.Index = binary.LittleEndian.Uint32(typeSec[body+4 : body+8])
			t.Nelems = binary.LittleEndian.Uint32(typeSec[body+8 : body+12])
			off = body + 12
		case KindStruct, KindUnion:
			t.Size = th.SizeOrType
			memberSize := 12
			need := body + vlen*memberSize
			if need > len(typeSec) {
				return nil, truncated("struct/union members")
			}
			for i := 0; i < vlen; i++ {
				mOff := body + i*memberSize
				nameOff := binary.LittleEndian.Uint32(typeSec[mOff : mOff+4])
				mTypeID := binary.LittleEndian.Uint32(typeSec[mOff+4 : mOff+8])
				offsetWord := binary.LittleEndian.Uint32(typeSec[mOff+8 : mOff+12])
				m := Member{Name: readStr(nameOff), TypeID: mTypeID}
				if kindFlag {
					m.BitOffset = offsetWord & 0xffffff
					m.BitSize = offsetWord >> 24
				} else {
					m.BitOffset = offsetWord
				}
				t.Members = append(t.Members, m)
			}
			off = need
		case KindEnum:
			valSize := 8
			need := body + vlen*valSize
			if need > len(typeSec) {
				return nil, truncated("enum values")
			}
			t.Size = th.SizeOrType
			for i := 0; i < vlen; i++ {
				vOff := body + i*valSize
				nameOff := binary.LittleEndian.Uint32(typeSec[vOff : vOff+4])
				val := int32(binary.LittleEndian.Uint32(typeSec[vOff+4 : vOff+8]))
				t.Enum = append(t.Enum, EnumValue{Name: readStr(nameOff), Value: int64(val)})
			}
			off = need
		case KindEnum64:
			valSize := 12
			need := body + vlen*valSize
			if need > len(typeSec) {
				return nil, truncated("enum64 values")
			}
			t.Size = th.SizeOrType
			for i := 0; i < vlen; i++ {
				vOff := body + i*valSize
				nameOff := binary.LittleEndian.Uint32(typeSec[vOff : vOff+4])
				lo := binary.LittleEndian.Uint32(typeSec[vOff+4 : vOff+8])
				hi := binary.LittleEndian.Uint32(typeSec[vOff+8 : vOff+12])
				val := int64(uint64(hi)<<32 | uint64(lo))
				t.Enum = append(t.Enum, EnumValue{Name: readStr(nameOff), Value: val})
			}
			off = need
		case KindFwd:
			off = body
		case KindFuncProto:
			paramSize := 8
			need := body + vlen*paramSize
			if need > len(typeSec) {
				return nil, truncated("func_proto params")
			}
			t.TypeID = th.SizeOrType
			for i := 0; i < vlen; i++ {
				pOff := body + i*paramSize
				nameOff := binary.LittleEndian.Uint32(typeSec[pOff : pOff+4])
				pTypeID := binary.LittleEndian.Uint32(typeSec[pOff+4 : pOff+8])
				t.Params = append(t.Params, Param{Name: readStr(nameOff), TypeID: pTypeID})
			}
			off = need
		case KindVar:
			if body+4 > len(typeSec) {
				return nil, truncated("var")
			}
			t.TypeID = th.SizeOrType
			off = body + 4
		case KindDatasec:
			varSize := 12
			need := body + vlen*varSize
			if need > len(typeSec) {
				return nil, truncated("datasec vars")
			}
			t.Size = th.SizeOrType
			off = need
		case KindFloat:
			t.Size = th.SizeOrType
			off = body
		default:
			return nil, bpferrs.WrapWithDetail(fmt.Errorf("kind %d", kind), bpferrs.ErrUnsupported, "btf.ParseSpec", "unrecognized BTF kind")
		}

		types = append(types, t)
		if t.Name != "" {
			byName[t.Name] = append(byName[t.Name], id)
		}
		id++
	}

	return &Spec{types: types, byName: byName}, nil
}

func truncated(what string) error {
	return bpferrs.WrapWithDetail(nil, bpferrs.ErrInvalidShape, "btf.ParseSpec", "truncated "+what)
}

// IntEncodingSet decodes the int-kind encoding word (bits: 0-7 bits, 8-15 offset,
// 24 char flag, 25 bool flag, 31 signed flag) onto the type.
func (t *Type) IntEncodingSet(enc uint32) {
	t.IntBits = uint8(enc & 0xff)
	t.IntOffset = uint8((enc >> 8) & 0xff)
	t.IntChar = enc&(1<<24) != 0
	t.IntBool = enc&(1<<25) != 0
	t.IntSigned = enc&(1<<31) != 0
}

// TypeByID returns the type with the given id, or false if out of range.
func (s *Spec) TypeByID(id uint32) (Type, bool) {
	if int(id) >= len(s.types) {
		return Type{}, false
	}
	return s.types[id], true
}

// Len returns the number of types in the graph, including the implicit void entry.
func (s *Spec) Len() int { return len(s.types) }
