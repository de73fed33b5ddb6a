// Package sysc marshals bpf_attr unions and invokes the bpf() syscall
// (plus perf_event_open, ioctl, and the handful of other raw syscalls
// the loader needs), translating kernel errno returns into typed errors.
//
// Every bpf_attr field is written at the exact byte offset the kernel
// expects, the way the source repo's seccomp filter installer
// (SetupSeccomp) builds a raw syscall.Syscall(SYS_PRCTL, ...) call with
// an unsafe.Pointer to a hand-packed struct instead of going through a
// generated binding.
package sysc

import (
	"golang.org/x/sys/unix"

	"github.com/kornnellio/ebpfcore/arch"
	"github.com/kornnellio/ebpfcore/bpferrs"
	"github.com/kornnellio/ebpfcore/buf"
	"github.com/kornnellio/ebpfcore/constants"
)

// attrSize is the fixed bpf_attr buffer size used for every command;
// unused trailing bytes are left zeroed.
const attrSize = 128

func bpfSyscall(cmd constants.Cmd, attr *buf.Segment) (uintptr, error) {
	tbl, err := arch.Table()
	if err != nil {
		return 0, err
	}
	ret, _, errno := unix.Syscall(tbl.BPF, uintptr(cmd), attr.Pointer(), uintptr(attr.Len()))
	if errno != 0 {
		return 0, bpferrs.WrapWithDetail(errno, bpferrs.ErrSyscall,
			"sysc.bpfSyscall", "cmd="+cmdName(cmd)+" errno="+constants.ErrnoKindName(int(errno)))
	}
	return ret, nil
}

func cmdName(cmd constants.Cmd) string {
	names := [...]string{
		"MAP_CREATE", "MAP_LOOKUP_ELEM", "MAP_UPDATE_ELEM", "MAP_DELETE_ELEM",
		"MAP_GET_NEXT_KEY", "PROG_LOAD", "OBJ_PIN", "OBJ_GET", "PROG_ATTACH",
		"PROG_DETACH", "PROG_TEST_RUN", "PROG_GET_NEXT_ID", "MAP_GET_NEXT_ID",
		"PROG_GET_FD_BY_ID", "MAP_GET_FD_BY_ID", "OBJ_GET_INFO_BY_FD",
		"PROG_QUERY", "RAW_TRACEPOINT_OPEN", "BTF_LOAD", "BTF_GET_FD_BY_ID",
		"TASK_FD_QUERY", "MAP_LOOKUP_AND_DELETE_ELEM", "MAP_FREEZE",
		"BTF_GET_NEXT_ID", "MAP_LOOKUP_BATCH", "MAP_LOOKUP_AND_DELETE_BATCH",
		"MAP_UPDATE_BATCH", "MAP_DELETE_BATCH", "LINK_CREATE", "LINK_UPDATE",
		"LINK_GET_FD_BY_ID", "LINK_GET_NEXT_ID", "ENABLE_STATS", "ITER_CREATE",
		"LINK_DETACH", "PROG_BIND_MAP",
	}
	if int(cmd) < len(names) {
		return names[cmd]
	}
	return "UNKNOWN"
}

// MapCreateArgs collects the fields of a BPF_MAP_CREATE bpf_attr.
type MapCreateArgs struct {
	MapType    constants.MapType
	KeySize    uint32
	ValueSize  uint32
	MaxEntries uint32
	MapFlags   uint32
	Name       string
	BTFFd      int32
	BTFKeyTypeID   uint32
	BTFValueTypeID uint32
}

// MapCreate issues BPF_MAP_CREATE and returns the new map's file descriptor.
func MapCreate(a MapCreateArgs) (int, error) {
	attr := buf.NewSegment(attrSize)
	attr.PutUint32(0, uint32(a.MapType))
	attr.PutUint32(4, a.KeySize)
	attr.PutUint32(8, a.ValueSize)
	attr.PutUint32(12, a.MaxEntries)
	attr.PutUint32(16, a.MapFlags)
	buf.PadName(attr.Bytes()[28:44], a.Name)
	attr.PutUint32(48, uint32(a.BTFFd))
	attr.PutUint32(52, a.BTFKeyTypeID)
	attr.PutUint32(56, a.BTFValueTypeID)

	ret, err := bpfSyscall(constants.CmdMapCreate, attr)
	if err != nil {
		return -1, err
	}
	return int(ret), nil
}

// MapLookupElem issues BPF_MAP_LOOKUP_ELEM. Returns (false, nil) on ENOENT.
func MapLookupElem(mapFD int, key, value []byte) (bool, error) {
	attr := buf.NewSegment(attrSize)
	attr.PutUint32(0, uint32(mapFD))
	keySeg := buf.NewSegment(len(key))
	copy(keySeg.Bytes(), key)
	valSeg := buf.NewSegment(len(value))
	attr.PutUint64(8, uint64(keySeg.Pointer()))
	attr.PutUint64(16, uint64(valSeg.Pointer()))

	_, err := bpfSyscall(constants.CmdMapLookupElem, attr)
	if err != nil {
		if bpferrs.IsKind(err, bpferrs.ErrSyscall) && isENOENT(err) {
			return false, nil
		}
		return false, err
	}
	copy(value, valSeg.Bytes())
	return true, nil
}

// MapUpdateElem issues BPF_MAP_UPDATE_ELEM.
func MapUpdateElem(mapFD int, key, value []byte, flags uint64) error {
	attr := buf.NewSegment(attrSize)
	attr.PutUint32(0, uint32(mapFD))
	keySeg := buf.NewSegment(len(key))
	copy(keySeg.Bytes(), key)
	valSeg := buf.NewSegment(len(value))
	copy(valSeg.Bytes(), value)
	attr.PutUint64(8, uint64(keySeg.Pointer()))
	attr.PutUint64(16, uint64(valSeg.Pointer()))
	attr.PutUint64(24, flags)

	_, err := bpfSyscall(constants.CmdMapUpdateElem, attr)
	return err
}

// MapDeleteElem issues BPF_MAP_DELETE_ELEM. Returns (false, nil) on ENOENT.
func MapDeleteElem(mapFD int, key []byte) (bool, error) {
	attr := buf.NewSegment(attrSize)
	attr.PutUint32(0, uint32(mapFD))
	keySeg := buf.NewSegment(len(key))
	copy(keySeg.Bytes(), key)
	attr.PutUint64(8, uint64(keySeg.Pointer()))

	_, err := bpfSyscall(constants.CmdMapDeleteElem, attr)
	if err != nil {
		if isENOENT(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// MapGetNextKey issues BPF_MAP_GET_NEXT_KEY. If key is nil, requests the
// first key. Returns (false, nil) when iteration is exhausted (ENOENT).
func MapGetNextKey(mapFD int, key []byte, nextKey []byte) (bool, error) {
	attr := buf.NewSegment(attrSize)
	attr.PutUint32(0, uint32(mapFD))
	if key != nil {
		keySeg := buf.NewSegment(len(key))
		copy(keySeg.Bytes(), key)
		attr.PutUint64(8, uint64(keySeg.Pointer()))
	}
	nextSeg := buf.NewSegment(len(nextKey))
	attr.PutUint64(16, uint64(nextSeg.Pointer()))

	_, err := bpfSyscall(constants.CmdMapGetNextKey, attr)
	if err != nil {
		if isENOENT(err) {
			return false, nil
		}
		return false, err
	}
	copy(nextKey, nextSeg.Bytes())
	return true, nil
}

func isENOENT(err error) bool {
	return containsErrno(err, "ENOENT")
}

// IsEINVAL reports whether err is a bpf() syscall failure with errno
// EINVAL, the signal a kernel that lacks batch-op support for a given
// map type uses to reject BPF_MAP_*_BATCH commands.
func IsEINVAL(err error) bool {
	return containsErrno(err, "EINVAL")
}

func containsErrno(err error, code string) bool {
	type detailer interface{ Error() string }
	d, ok := err.(detailer)
	if !ok {
		return false
	}
	s := d.Error()
	for i := 0; i+len(code) <= len(s); i++ {
		if s[i:i+len(code)] == code {
			return true
		}
	}
	return false
}
