package buf

import "testing"

func TestSegmentPutGetUint32(t *testing.T) {
	s := NewSegment(16)
	s.PutUint32(4, 0xdeadbeef)
	if got := s.Uint32(4); got != 0xdeadbeef {
		t.Errorf("Uint32(4) = 0x%x, want 0xdeadbeef", got)
	}
}

func TestSegmentPutGetUint64(t *testing.T) {
	s := NewSegment(16)
	s.PutUint64(0, 0x0123456789abcdef)
	if got := s.Uint64(0); got != 0x0123456789abcdef {
		t.Errorf("Uint64(0) = 0x%x, want 0x0123456789abcdef", got)
	}
}

func TestPadName(t *testing.T) {
	dst := make([]byte, 16)
	PadName(dst, "xdp_drop")
	if string(dst[:8]) != "xdp_drop" {
		t.Errorf("PadName: got %q", dst[:8])
	}
	for _, b := range dst[8:] {
		if b != 0 {
			t.Errorf("PadName: expected zero padding, got %v", dst)
			break
		}
	}

	// Longer than 15 bytes truncates and still NUL-terminates.
	PadName(dst, "this-name-is-far-too-long")
	if dst[15] != 0 {
		t.Error("PadName: expected trailing NUL for over-long name")
	}
}

func TestRoundUp(t *testing.T) {
	if got := RoundUp(5, 8); got != 8 {
		t.Errorf("RoundUp(5,8) = %d, want 8", got)
	}
	if got := RoundUp(8, 8); got != 8 {
		t.Errorf("RoundUp(8,8) = %d, want 8", got)
	}
	if got := RoundUp(9, 8); got != 16 {
		t.Errorf("RoundUp(9,8) = %d, want 16", got)
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, n := range []int{1, 2, 4, 4096} {
		if !IsPowerOfTwo(n) {
			t.Errorf("IsPowerOfTwo(%d) = false, want true", n)
		}
	}
	for _, n := range []int{0, 3, 5, 4097, -2} {
		if IsPowerOfTwo(n) {
			t.Errorf("IsPowerOfTwo(%d) = true, want false", n)
		}
	}
}

func TestSecureJoin(t *testing.T) {
	if _, err := SecureJoin("/sys/fs/bpf", "myprog"); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if _, err := SecureJoin("/sys/fs/bpf", "../etc/passwd"); err == nil {
		t.Error("expected traversal to be rejected")
	}
	if _, err := SecureJoin("/sys/fs/bpf", "sub/../../etc"); err == nil {
		t.Error("expected traversal to be rejected")
	}
}
