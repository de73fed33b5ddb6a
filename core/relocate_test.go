package core

import (
	"encoding/binary"
	"testing"

	"github.com/kornnellio/ebpfcore/asm"
	"github.com/kornnellio/ebpfcore/btf"
	"github.com/kornnellio/ebpfcore/constants"
)

const btfHeaderLen = 24
const btfMagic = 0xeb9f
const btfVersion = 1
const kindShift = 24

// buildSpec builds a 12-byte struct S with untyped members a (bit offset 0)
// and b (bit offset 32) as a *btf.Spec, mirroring the kernel's own
// btf_header/btf_type/btf_member binary layout.
func buildSpec(t *testing.T) *btf.Spec {
	t.Helper()
	strTab := []byte("\x00S\x00a\x00b\x00")

	typeSec := make([]byte, 0, 12+2*12)
	info := uint32(4)<<kindShift | uint32(2) // KindStruct=4, vlen=2
	hdr := make([]byte, 12)
	binary.LittleEndian.PutUint32(hdr[0:4], 1)
	binary.LittleEndian.PutUint32(hdr[4:8], info)
	binary.LittleEndian.PutUint32(hdr[8:12], 12) // size
	typeSec = append(typeSec, hdr...)

	memA := make([]byte, 12)
	binary.LittleEndian.PutUint32(memA[0:4], 3)
	binary.LittleEndian.PutUint32(memA[4:8], 0)
	binary.LittleEndian.PutUint32(memA[8:12], 0)
	typeSec = append(typeSec, memA...)

	memB := make([]byte, 12)
	binary.LittleEndian.PutUint32(memB[0:4], 5)
	binary.LittleEndian.PutUint32(memB[4:8], 0)
	binary.LittleEndian.PutUint32(memB[8:12], 32)
	typeSec = append(typeSec, memB...)

	blobHdr := make([]byte, btfHeaderLen)
	binary.LittleEndian.PutUint16(blobHdr[0:2], btfMagic)
	blobHdr[2] = btfVersion
	binary.LittleEndian.PutUint32(blobHdr[4:8], btfHeaderLen)
	binary.LittleEndian.PutUint32(blobHdr[8:12], 0)
	binary.LittleEndian.PutUint32(blobHdr[12:16], uint32(len(typeSec)))
	binary.LittleEndian.PutUint32(blobHdr[16:20], uint32(len(typeSec)))
	binary.LittleEndian.PutUint32(blobHdr[20:24], uint32(len(strTab)))

	blob := append(blobHdr, typeSec...)
	blob = append(blob, strTab...)

	spec, err := btf.ParseSpec(blob)
	if err != nil {
		t.Fatalf("ParseSpec failed: %v", err)
	}
	return spec
}

func TestRelocateFieldOffset(t *testing.T) {
	spec := buildSpec(t)
	st, err := spec.FindByName("S")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}

	b := asm.NewBuilder()
	b.CoreFieldOffset(constants.R1, st.ID, "1")
	prog := b.Program()

	errs := Relocate(prog, b.Relocations(), spec)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if prog[0].Imm != 4 {
		t.Errorf("resolved offset = %d, want 4", prog[0].Imm)
	}
}

func TestRelocatePoisonsUnknownField(t *testing.T) {
	spec := buildSpec(t)
	st, _ := spec.FindByName("S")

	b := asm.NewBuilder()
	b.CoreFieldOffset(constants.R1, st.ID, "99")
	prog := b.Program()

	errs := Relocate(prog, b.Relocations(), spec)
	if len(errs) == 0 {
		t.Fatal("expected a resolution error")
	}
	if uint32(prog[0].Imm) != constants.CorePoisonValue {
		t.Errorf("imm = 0x%x, want poison 0x%x", uint32(prog[0].Imm), constants.CorePoisonValue)
	}
}
