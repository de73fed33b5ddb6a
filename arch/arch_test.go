package arch

import "testing"

func TestTable(t *testing.T) {
	tbl, err := Table()
	if err != nil {
		t.Skipf("no syscall table for this architecture: %v", err)
	}
	if tbl.BPF == 0 {
		t.Error("expected non-zero BPF syscall number")
	}
	if tbl.Close == 0 {
		t.Error("expected non-zero close syscall number")
	}
}

func TestKprobeArgOffset(t *testing.T) {
	for i := 0; i < 6; i++ {
		off, err := KprobeArgOffset(i)
		if err != nil {
			t.Skipf("no arg offset table for this architecture: %v", err)
		}
		if off < 0 {
			t.Errorf("arg %d: expected non-negative offset, got %d", i, off)
		}
	}
	if _, err := KprobeArgOffset(6); err == nil {
		t.Error("expected error for out-of-range argument index")
	}
	if _, err := KprobeArgOffset(-1); err == nil {
		t.Error("expected error for negative argument index")
	}
}
