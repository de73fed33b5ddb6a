package bpfprog

import (
	"testing"

	"github.com/kornnellio/ebpfcore/asm"
	"github.com/kornnellio/ebpfcore/bpferrs"
	"github.com/kornnellio/ebpfcore/constants"
)

func TestLoadRejectsEmptyInstructions(t *testing.T) {
	_, err := Load(LoadOptions{Name: "test", Type: constants.ProgTypeKprobe})
	if err == nil {
		t.Fatal("expected error for empty instruction stream")
	}
	if !bpferrs.IsKind(err, bpferrs.ErrInvalidShape) {
		t.Errorf("expected ErrInvalidShape, got %v", err)
	}
}

func TestLoadRejectsLongName(t *testing.T) {
	_, err := Load(LoadOptions{
		Name: "this_name_is_way_too_long",
		Type: constants.ProgTypeKprobe,
		Instructions: asm.Program{
			asm.Exit(),
		},
	})
	if err == nil {
		t.Fatal("expected error for over-long name")
	}
}

func TestClosedProgramRejectsAttach(t *testing.T) {
	p := &Program{closed: true, name: "test"}
	if _, err := p.AttachKprobe("do_sys_open", false); !bpferrs.IsKind(err, bpferrs.ErrInvalidShape) {
		t.Errorf("AttachKprobe on closed program: got %v, want ErrInvalidShape", err)
	}
	if _, err := p.AttachRawTracepoint("sys_enter"); !bpferrs.IsKind(err, bpferrs.ErrInvalidShape) {
		t.Errorf("AttachRawTracepoint on closed program: got %v, want ErrInvalidShape", err)
	}
}

func TestSanitizeEventName(t *testing.T) {
	cases := map[string]string{
		"do_sys_open":        "do_sys_open",
		"my-binary.so:main":  "my_binary_so_main",
		"/usr/lib/libc.so.6:  strcpy": "_usr_lib_libc_so_6___strcpy",
	}
	for in, want := range cases {
		if got := sanitizeEventName(in); got != want {
			t.Errorf("sanitizeEventName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDoubleCloseIsSafe(t *testing.T) {
	p := &Program{fd: -1, name: "test"}
	p.closed = true
	if err := p.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}

func TestAttachmentsSnapshotIsACopy(t *testing.T) {
	p := &Program{name: "test"}
	a := &rawTracepointAttach{target: "sys_enter", fd: -1}
	p.attachments = append(p.attachments, a)

	snap := p.Attachments()
	snap[0] = nil
	if p.attachments[0] == nil {
		t.Error("Attachments() must return a copy, not the live slice")
	}
}
