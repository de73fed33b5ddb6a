package sysc

import (
	"github.com/kornnellio/ebpfcore/asm"
	"github.com/kornnellio/ebpfcore/bpferrs"
	"github.com/kornnellio/ebpfcore/buf"
	"github.com/kornnellio/ebpfcore/constants"
)

// ProgLoadArgs collects the fields of a BPF_PROG_LOAD bpf_attr.
type ProgLoadArgs struct {
	ProgType           constants.ProgType
	Insns              asm.Program
	License            string
	LogLevel           uint32
	LogSize            uint32
	KernVersion        uint32
	ProgFlags          uint32
	Name               string
	ExpectedAttachType constants.AttachType
	ProgBTFFd          int32
	AttachBTFID        uint32
	AttachBTFObjFd     int32
	AttachProgFd       int32
}

// ProgLoadResult is returned by ProgLoad.
type ProgLoadResult struct {
	FD     int
	LogBuf []byte
}

// ProgLoad issues BPF_PROG_LOAD. A log buffer is passed only when LogSize
// is set or LogLevel > 0 (16 MiB when LogSize is zero). When the load
// fails and the kernel wrote to that log, the returned error wraps
// bpferrs.ErrVerifierRejected and LogBuf carries the log; otherwise the
// plain syscall error is returned.
func ProgLoad(a ProgLoadArgs) (ProgLoadResult, error) {
	insnBytes := a.Insns.Bytes()
	insnSeg := buf.NewSegment(len(insnBytes))
	copy(insnSeg.Bytes(), insnBytes)

	licenseSeg := buf.NewSegment(len(a.License) + 1)
	copy(licenseSeg.Bytes(), a.License)

	logSize := a.LogSize
	if logSize == 0 && a.LogLevel > 0 {
		logSize = constants.LogBufSize
	}
	var logSeg *buf.Segment
	if logSize > 0 {
		logSeg = buf.NewSegment(int(logSize))
	}

	attr := buf.NewSegment(attrSize)
	attr.PutUint32(0, uint32(a.ProgType))
	attr.PutUint32(4, uint32(len(a.Insns)))
	attr.PutUint64(8, uint64(insnSeg.Pointer()))
	attr.PutUint64(16, uint64(licenseSeg.Pointer()))
	attr.PutUint32(24, a.LogLevel)
	attr.PutUint32(28, logSize)
	if logSeg != nil {
		attr.PutUint64(32, uint64(logSeg.Pointer()))
	}
	attr.PutUint32(40, a.KernVersion)
	attr.PutUint32(44, a.ProgFlags)
	buf.PadName(attr.Bytes()[48:64], a.Name)
	attr.PutUint32(68, uint32(a.ExpectedAttachType))
	attr.PutUint32(72, uint32(a.ProgBTFFd))
	attr.PutUint32(108, a.AttachBTFID)

	ret, err := bpfSyscall(constants.CmdProgLoad, attr)
	result := ProgLoadResult{FD: -1}
	if logSeg != nil {
		result.LogBuf = trimNUL(logSeg.Bytes())
	}
	if err != nil {
		if verifierLikely(result.LogBuf) {
			return result, bpferrs.WrapWithDetail(err, bpferrs.ErrVerifierRejected,
				"sysc.ProgLoad", string(result.LogBuf))
		}
		return result, err
	}
	result.FD = int(ret)
	return result, nil
}

func trimNUL(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			return b[:i]
		}
	}
	return b
}

func verifierLikely(logBuf []byte) bool {
	return len(logBuf) > 0
}

// ProgAttachArgs collects the fields of a BPF_PROG_ATTACH/DETACH bpf_attr.
type ProgAttachArgs struct {
	TargetFd     int32
	AttachBpfFd  int32
	AttachType   constants.AttachType
	AttachFlags  uint32
	ReplaceBpfFd int32
}

// ProgAttach issues BPF_PROG_ATTACH.
func ProgAttach(a ProgAttachArgs) error {
	attr := buf.NewSegment(attrSize)
	attr.PutUint32(0, uint32(a.TargetFd))
	attr.PutUint32(4, uint32(a.AttachBpfFd))
	attr.PutUint32(8, uint32(a.AttachType))
	attr.PutUint32(12, a.AttachFlags)
	attr.PutUint32(16, uint32(a.ReplaceBpfFd))
	_, err := bpfSyscall(constants.CmdProgAttach, attr)
	return err
}

// ProgDetach issues BPF_PROG_DETACH.
func ProgDetach(a ProgAttachArgs) error {
	attr := buf.NewSegment(attrSize)
	attr.PutUint32(0, uint32(a.TargetFd))
	attr.PutUint32(4, uint32(a.AttachBpfFd))
	attr.PutUint32(8, uint32(a.AttachType))
	_, err := bpfSyscall(constants.CmdProgDetach, attr)
	return err
}

// ProgTestRunArgs collects the fields of a BPF_PROG_TEST_RUN bpf_attr.
type ProgTestRunArgs struct {
	ProgFd  int32
	DataIn  []byte
	CtxIn   []byte
	Repeat  uint32
	Flags   uint32
	CPU     uint32
	DataOutCap int
	CtxOutCap  int
}

// ProgTestRunResult is returned by ProgTestRun.
type ProgTestRunResult struct {
	Retval   uint32
	Duration uint32
	DataOut  []byte
	CtxOut   []byte
}

// ProgTestRun issues BPF_PROG_TEST_RUN, driving the in-kernel test harness
// for a loaded program without needing a live attach point.
func ProgTestRun(a ProgTestRunArgs) (ProgTestRunResult, error) {
	dataInSeg := buf.NewSegment(len(a.DataIn))
	copy(dataInSeg.Bytes(), a.DataIn)
	dataOutSeg := buf.NewSegment(a.DataOutCap)

	var ctxInSeg, ctxOutSeg *buf.Segment
	if len(a.CtxIn) > 0 {
		ctxInSeg = buf.NewSegment(len(a.CtxIn))
		copy(ctxInSeg.Bytes(), a.CtxIn)
	}
	if a.CtxOutCap > 0 {
		ctxOutSeg = buf.NewSegment(a.CtxOutCap)
	}

	attr := buf.NewSegment(attrSize)
	attr.PutUint32(0, uint32(a.ProgFd))
	attr.PutUint32(8, uint32(len(a.DataIn)))
	attr.PutUint32(12, uint32(a.DataOutCap))
	if len(a.DataIn) > 0 {
		attr.PutUint64(16, uint64(dataInSeg.Pointer()))
	}
	if a.DataOutCap > 0 {
		attr.PutUint64(24, uint64(dataOutSeg.Pointer()))
	}
	attr.PutUint32(32, a.Repeat)
	if ctxInSeg != nil {
		attr.PutUint32(40, uint32(len(a.CtxIn)))
		attr.PutUint64(48, uint64(ctxInSeg.Pointer()))
	}
	if ctxOutSeg != nil {
		attr.PutUint32(44, uint32(a.CtxOutCap))
		attr.PutUint64(56, uint64(ctxOutSeg.Pointer()))
	}
	attr.PutUint32(64, a.Flags)
	attr.PutUint32(68, a.CPU)

	_, err := bpfSyscall(constants.CmdProgTestRun, attr)
	result := ProgTestRunResult{
		Retval:   attr.Uint32(4),
		Duration: attr.Uint32(36),
	}
	if a.DataOutCap > 0 {
		n := attr.Uint32(12)
		if int(n) > a.DataOutCap {
			n = uint32(a.DataOutCap)
		}
		result.DataOut = dataOutSeg.Bytes()[:n]
	}
	if ctxOutSeg != nil {
		n := attr.Uint32(44)
		if int(n) > a.CtxOutCap {
			n = uint32(a.CtxOutCap)
		}
		result.CtxOut = ctxOutSeg.Bytes()[:n]
	}
	return result, err
}

// ObjPin issues BPF_OBJ_PIN, pinning fd at path in a bpffs mount.
func ObjPin(path string, fd int) error {
	pathSeg := buf.NewSegment(len(path) + 1)
	copy(pathSeg.Bytes(), path)

	attr := buf.NewSegment(attrSize)
	attr.PutUint64(0, uint64(pathSeg.Pointer()))
	attr.PutUint32(8, uint32(fd))
	_, err := bpfSyscall(constants.CmdObjPin, attr)
	return err
}

// ObjGet issues BPF_OBJ_GET, retrieving a pinned object's file descriptor.
func ObjGet(path string) (int, error) {
	pathSeg := buf.NewSegment(len(path) + 1)
	copy(pathSeg.Bytes(), path)

	attr := buf.NewSegment(attrSize)
	attr.PutUint64(0, uint64(pathSeg.Pointer()))
	ret, err := bpfSyscall(constants.CmdObjGet, attr)
	if err != nil {
		return -1, err
	}
	return int(ret), nil
}

// LinkCreateArgs collects the fields of a BPF_LINK_CREATE bpf_attr.
type LinkCreateArgs struct {
	ProgFd      int32
	TargetFd    int32
	AttachType  constants.AttachType
	Flags       uint32
	TargetBTFID uint32
}

// LinkCreate issues BPF_LINK_CREATE and returns the new link's fd.
func LinkCreate(a LinkCreateArgs) (int, error) {
	attr := buf.NewSegment(attrSize)
	attr.PutUint32(0, uint32(a.ProgFd))
	attr.PutUint32(4, uint32(a.TargetFd))
	attr.PutUint32(8, uint32(a.AttachType))
	attr.PutUint32(12, a.Flags)
	attr.PutUint32(16, a.TargetBTFID)
	ret, err := bpfSyscall(constants.CmdLinkCreate, attr)
	if err != nil {
		return -1, err
	}
	return int(ret), nil
}

// LinkDetach issues BPF_LINK_DETACH.
func LinkDetach(linkFd int) error {
	attr := buf.NewSegment(attrSize)
	attr.PutUint32(0, uint32(linkFd))
	_, err := bpfSyscall(constants.CmdLinkDetach, attr)
	return err
}

// RawTracepointOpen issues BPF_RAW_TRACEPOINT_OPEN.
func RawTracepointOpen(name string, progFd int32) (int, error) {
	nameSeg := buf.NewSegment(len(name) + 1)
	copy(nameSeg.Bytes(), name)

	attr := buf.NewSegment(attrSize)
	attr.PutUint64(0, uint64(nameSeg.Pointer()))
	attr.PutUint32(8, uint32(progFd))
	ret, err := bpfSyscall(constants.CmdRawTracepointOpen, attr)
	if err != nil {
		return -1, err
	}
	return int(ret), nil
}
