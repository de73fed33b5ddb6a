package sysc

import (
	"golang.org/x/sys/unix"

	"github.com/kornnellio/ebpfcore/arch"
	"github.com/kornnellio/ebpfcore/bpferrs"
	"github.com/kornnellio/ebpfcore/buf"
	"github.com/kornnellio/ebpfcore/constants"
)

// PerfEventAttr collects the fields of a struct perf_event_attr used to
// open kprobe/uprobe/tracepoint events.
type PerfEventAttr struct {
	Type        uint32
	Size        uint32
	Config      uint64
	SamplePeriod uint64
	SampleType  uint64
	WakeupEvents uint32
	Config1     uint64
	Config2     uint64
}

// perfEventAttrSize is the 128-byte struct perf_event_attr layout
// (PERF_ATTR_SIZE_VER7); the size field advertises it to the kernel.
const perfEventAttrSize = 128

func (a PerfEventAttr) marshal() *buf.Segment {
	seg := buf.NewSegment(perfEventAttrSize)
	seg.PutUint32(0, a.Type)
	size := a.Size
	if size == 0 {
		size = perfEventAttrSize
	}
	seg.PutUint32(4, size)
	seg.PutUint64(8, a.Config)
	seg.PutUint64(16, a.SamplePeriod)
	seg.PutUint64(24, a.SampleType)
	seg.PutUint32(48, a.WakeupEvents)
	seg.PutUint64(56, a.Config1)
	seg.PutUint64(64, a.Config2)
	return seg
}

// PerfEventOpen issues perf_event_open(2) for the given cpu/pid, returning
// the resulting perf event file descriptor.
func PerfEventOpen(attr PerfEventAttr, pid, cpu int, groupFd int, flags uintptr) (int, error) {
	tbl, err := arch.Table()
	if err != nil {
		return -1, err
	}
	seg := attr.marshal()
	ret, _, errno := unix.Syscall6(tbl.PerfEventOpen, seg.Pointer(),
		uintptr(pid), uintptr(cpu), uintptr(groupFd), flags, 0)
	if errno != 0 {
		return -1, bpferrs.WrapWithDetail(errno, bpferrs.ErrSyscall,
			"sysc.PerfEventOpen", "errno="+constants.ErrnoKindName(int(errno)))
	}
	return int(ret), nil
}

// Ioctl issues a raw ioctl(2) with an integer argument (e.g.
// PERF_EVENT_IOC_SET_BPF, PERF_EVENT_IOC_ENABLE).
func Ioctl(fd int, cmd uint32, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(cmd), arg)
	if errno != 0 {
		return bpferrs.WrapWithDetail(errno, bpferrs.ErrSyscall,
			"sysc.Ioctl", "errno="+constants.ErrnoKindName(int(errno)))
	}
	return nil
}

// BTFLoadArgs collects the fields of a BPF_BTF_LOAD bpf_attr.
type BTFLoadArgs struct {
	BTF      []byte
	LogLevel uint32
	LogSize  uint32
}

// BTFLoad issues BPF_BTF_LOAD, uploading a BTF blob to the kernel and
// returning the resulting BTF object's file descriptor.
func BTFLoad(a BTFLoadArgs) (int, []byte, error) {
	btfSeg := buf.NewSegment(len(a.BTF))
	copy(btfSeg.Bytes(), a.BTF)

	var logSeg *buf.Segment
	if a.LogSize > 0 {
		logSeg = buf.NewSegment(int(a.LogSize))
	}

	attr := buf.NewSegment(attrSize)
	attr.PutUint64(0, uint64(btfSeg.Pointer()))
	attr.PutUint32(16, uint32(len(a.BTF)))
	if logSeg != nil {
		attr.PutUint64(8, uint64(logSeg.Pointer()))
		attr.PutUint32(20, a.LogSize)
	}
	attr.PutUint32(24, a.LogLevel)

	ret, err := bpfSyscall(constants.CmdBTFLoad, attr)
	var logBuf []byte
	if logSeg != nil {
		logBuf = trimNUL(logSeg.Bytes())
	}
	if err != nil {
		return -1, logBuf, err
	}
	return int(ret), logBuf, nil
}
