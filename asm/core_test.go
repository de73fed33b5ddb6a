package asm

import (
	"testing"

	"github.com/kornnellio/ebpfcore/constants"
)

func TestBuilderRecordsRelocation(t *testing.T) {
	b := NewBuilder()
	b.Emit(Mov64Imm(constants.R1, 0))
	b.CoreFieldOffset(constants.R2, 5, "0:1")
	b.Emit(Exit())

	relos := b.Relocations()
	if len(relos) != 1 {
		t.Fatalf("expected 1 relocation, got %d", len(relos))
	}
	r := relos[0]
	if r.InsnOffset != 1 {
		t.Errorf("InsnOffset = %d, want 1", r.InsnOffset)
	}
	if r.Kind != RelFieldByteOffset {
		t.Errorf("Kind = %v, want RelFieldByteOffset", r.Kind)
	}
	if r.AccessString != "0:1" {
		t.Errorf("AccessString = %q, want %q", r.AccessString, "0:1")
	}
	if b.Len() != 3 {
		t.Errorf("builder length = %d, want 3", b.Len())
	}
}
