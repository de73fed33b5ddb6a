package btf

import (
	"encoding/binary"
	"testing"
)

// buildStructBlob constructs a minimal BTF blob containing one struct
// type "S" with two u32 members "a"@0 and "b"@4, matching the kernel's
// btf_header + btf_type + btf_member binary layout.
func buildStructBlob(t *testing.T) []byte {
	t.Helper()

	// String table: "\0S\0a\0b\0"
	strTab := []byte("\x00S\x00a\x00b\x00")

	// One struct type: kind=KindStruct, vlen=2, kind_flag=0, size=8.
	typeSec := make([]byte, 0, 12+2*12)
	info := uint32(KindStruct)<<kindShift | uint32(2)
	typeHdr := make([]byte, 12)
	binary.LittleEndian.PutUint32(typeHdr[0:4], 1) // name_off -> "S"
	binary.LittleEndian.PutUint32(typeHdr[4:8], info)
	binary.LittleEndian.PutUint32(typeHdr[8:12], 8) // size
	typeSec = append(typeSec, typeHdr...)

	memA := make([]byte, 12)
	binary.LittleEndian.PutUint32(memA[0:4], 3) // "a"
	binary.LittleEndian.PutUint32(memA[4:8], 0) // type id (void, unused in this test)
	binary.LittleEndian.PutUint32(memA[8:12], 0) // bit offset 0
	typeSec = append(typeSec, memA...)

	memB := make([]byte, 12)
	binary.LittleEndian.PutUint32(memB[0:4], 5) // "b"
	binary.LittleEndian.PutUint32(memB[4:8], 0)
	binary.LittleEndian.PutUint32(memB[8:12], 32) // bit offset 32
	typeSec = append(typeSec, memB...)

	hdr := make([]byte, btfHeaderLen)
	binary.LittleEndian.PutUint16(hdr[0:2], btfMagic)
	hdr[2] = btfVersion
	hdr[3] = 0
	binary.LittleEndian.PutUint32(hdr[4:8], btfHeaderLen)
	binary.LittleEndian.PutUint32(hdr[8:12], 0) // type_off
	binary.LittleEndian.PutUint32(hdr[12:16], uint32(len(typeSec)))
	binary.LittleEndian.PutUint32(hdr[16:20], uint32(len(typeSec))) // str_off
	binary.LittleEndian.PutUint32(hdr[20:24], uint32(len(strTab)))

	blob := append(hdr, typeSec...)
	blob = append(blob, strTab...)
	return blob
}

func TestParseStructBlob(t *testing.T) {
	blob := buildStructBlob(t)
	spec, err := ParseSpec(blob)
	if err != nil {
		t.Fatalf("ParseSpec failed: %v", err)
	}
	if spec.Len() != 2 {
		t.Fatalf("expected 2 types (void + struct), got %d", spec.Len())
	}

	st, err := spec.FindByName("S")
	if err != nil {
		t.Fatalf("FindByName failed: %v", err)
	}
	if st.Kind != KindStruct {
		t.Errorf("Kind = %v, want KindStruct", st.Kind)
	}
	if st.Size != 8 {
		t.Errorf("Size = %d, want 8", st.Size)
	}
	if len(st.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(st.Members))
	}
	if st.Members[0].Name != "a" || st.Members[0].BitOffset != 0 {
		t.Errorf("member 0 = %+v, want a@0", st.Members[0])
	}
	if st.Members[1].Name != "b" || st.Members[1].BitOffset != 32 {
		t.Errorf("member 1 = %+v, want b@32", st.Members[1])
	}
}

func TestParseSpecBadMagic(t *testing.T) {
	blob := make([]byte, btfHeaderLen)
	if _, err := ParseSpec(blob); err == nil {
		t.Error("expected error for bad magic")
	}
}

func TestMemberByName(t *testing.T) {
	blob := buildStructBlob(t)
	spec, err := ParseSpec(blob)
	if err != nil {
		t.Fatalf("ParseSpec failed: %v", err)
	}
	st, _ := spec.FindByName("S")
	m, err := spec.MemberByName(st.ID, "b")
	if err != nil {
		t.Fatalf("MemberByName failed: %v", err)
	}
	if m.BitOffset != 32 {
		t.Errorf("BitOffset = %d, want 32", m.BitOffset)
	}
}
