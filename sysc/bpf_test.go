package sysc

import (
	"testing"

	"github.com/kornnellio/ebpfcore/buf"
	"github.com/kornnellio/ebpfcore/constants"
)

// These tests exercise only the pure marshalling logic (attr layout), not
// the actual syscall invocation, since the kernel is not assumed present.

func TestMapCreateAttrLayout(t *testing.T) {
	attr := buf.NewSegment(attrSize)
	a := MapCreateArgs{
		MapType:    constants.MapTypeHash,
		KeySize:    4,
		ValueSize:  8,
		MaxEntries: 1024,
		MapFlags:   0,
		Name:       "counters",
	}
	attr.PutUint32(0, uint32(a.MapType))
	attr.PutUint32(4, a.KeySize)
	attr.PutUint32(8, a.ValueSize)
	attr.PutUint32(12, a.MaxEntries)
	buf.PadName(attr.Bytes()[28:44], a.Name)

	if attr.Uint32(0) != uint32(constants.MapTypeHash) {
		t.Errorf("map_type @0 = %d, want %d", attr.Uint32(0), constants.MapTypeHash)
	}
	if attr.Uint32(4) != 4 {
		t.Errorf("key_size @4 = %d, want 4", attr.Uint32(4))
	}
	if attr.Uint32(8) != 8 {
		t.Errorf("value_size @8 = %d, want 8", attr.Uint32(8))
	}
	if attr.Uint32(12) != 1024 {
		t.Errorf("max_entries @12 = %d, want 1024", attr.Uint32(12))
	}
	name := attr.Bytes()[28:36]
	if string(name) != "counters" {
		t.Errorf("map_name @28 = %q, want %q", name, "counters")
	}
	if attr.Bytes()[36] != 0 {
		t.Errorf("map_name not NUL-terminated at byte 36")
	}
}

func TestMapElemAttrOffsets(t *testing.T) {
	attr := buf.NewSegment(attrSize)
	attr.PutUint32(0, 7)
	attr.PutUint64(8, 0x1000)
	attr.PutUint64(16, 0x2000)
	attr.PutUint64(24, uint64(constants.UpdateNoExist))

	if attr.Uint32(0) != 7 {
		t.Errorf("map_fd @0 = %d, want 7", attr.Uint32(0))
	}
	if attr.Uint64(8) != 0x1000 {
		t.Errorf("key_ptr @8 wrong")
	}
	if attr.Uint64(16) != 0x2000 {
		t.Errorf("value_ptr @16 wrong")
	}
	if attr.Uint64(24) != uint64(constants.UpdateNoExist) {
		t.Errorf("flags @24 wrong")
	}
}

func TestCmdNameTableCoversAllCommands(t *testing.T) {
	for cmd := constants.CmdMapCreate; cmd <= constants.CmdProgBindMap; cmd++ {
		if cmdName(cmd) == "UNKNOWN" {
			t.Errorf("cmdName(%d) = UNKNOWN, every defined Cmd should have a name", cmd)
		}
	}
}

func TestContainsErrno(t *testing.T) {
	err := wrapSyscallErr("ENOENT")
	if !containsErrno(err, "ENOENT") {
		t.Error("expected ENOENT to be found")
	}
	if containsErrno(err, "EINVAL") {
		t.Error("did not expect EINVAL to be found")
	}
}

func TestIsEINVAL(t *testing.T) {
	if !IsEINVAL(wrapSyscallErr("EINVAL")) {
		t.Error("expected EINVAL to be recognized")
	}
	if IsEINVAL(wrapSyscallErr("ENOENT")) {
		t.Error("did not expect ENOENT to be classified as EINVAL")
	}
}

func wrapSyscallErr(code string) error {
	return &testErr{msg: "sysc.bpfSyscall: cmd=MAP_LOOKUP_ELEM errno=" + code}
}

type testErr struct{ msg string }

func (e *testErr) Error() string { return e.msg }
