package sysc

import (
	"github.com/kornnellio/ebpfcore/buf"
	"github.com/kornnellio/ebpfcore/constants"
)

// BatchArgs collects the fields shared by the four BPF_MAP_*_BATCH
// commands. Each call returns the number of elements the kernel actually
// processed, which may be less than Count.
type BatchArgs struct {
	MapFd     int32
	Keys      []byte
	Values    []byte
	Count     uint32
	ElemFlags uint64
}

// MapLookupBatch issues BPF_MAP_LOOKUP_BATCH, filling Keys and Values for
// up to Count elements beginning where inBatch left off; outBatch is the cursor to
// pass as inBatch on the next call. A nil inBatch starts from the first key.
func MapLookupBatch(a BatchArgs, inBatch, outBatch, keySize []byte) (processed uint32, done bool, err error) {
	return runBatch(constants.CmdMapLookupBatch, a, inBatch, outBatch, keySize)
}

// MapLookupAndDeleteBatch issues BPF_MAP_LOOKUP_AND_DELETE_BATCH.
func MapLookupAndDeleteBatch(a BatchArgs, inBatch, outBatch, keySize []byte) (processed uint32, done bool, err error) {
	return runBatch(constants.CmdMapLookupAndDeleteBatch, a, inBatch, outBatch, keySize)
}

func runBatch(cmd constants.Cmd, a BatchArgs, inBatch, outBatch, keySize []byte) (uint32, bool, error) {
	var inSeg *buf.Segment
	if inBatch != nil {
		inSeg = buf.NewSegment(len(inBatch))
		copy(inSeg.Bytes(), inBatch)
	}
	outSeg := buf.NewSegment(len(outBatch))
	keySeg := buf.NewSegment(len(a.Keys))
	copy(keySeg.Bytes(), a.Keys)
	valSeg := buf.NewSegment(len(a.Values))

	attr := buf.NewSegment(attrSize)
	if inSeg != nil {
		attr.PutUint64(0, uint64(inSeg.Pointer()))
	}
	attr.PutUint64(8, uint64(outSeg.Pointer()))
	attr.PutUint64(16, uint64(keySeg.Pointer()))
	attr.PutUint64(24, uint64(valSeg.Pointer()))
	attr.PutUint32(32, a.Count)
	attr.PutUint32(36, uint32(a.MapFd))
	attr.PutUint64(40, a.ElemFlags)

	_, err := bpfSyscall(cmd, attr)
	processed := attr.Uint32(32)
	copy(outBatch, outSeg.Bytes())
	copy(a.Keys, keySeg.Bytes())
	copy(a.Values, valSeg.Bytes())

	done := false
	if err != nil && isENOENT(err) {
		done = true
		err = nil
	}
	return processed, done, err
}

// MapUpdateBatch issues BPF_MAP_UPDATE_BATCH.
func MapUpdateBatch(a BatchArgs) (processed uint32, err error) {
	keySeg := buf.NewSegment(len(a.Keys))
	copy(keySeg.Bytes(), a.Keys)
	valSeg := buf.NewSegment(len(a.Values))
	copy(valSeg.Bytes(), a.Values)

	attr := buf.NewSegment(attrSize)
	attr.PutUint64(16, uint64(keySeg.Pointer()))
	attr.PutUint64(24, uint64(valSeg.Pointer()))
	attr.PutUint32(32, a.Count)
	attr.PutUint32(36, uint32(a.MapFd))
	attr.PutUint64(40, a.ElemFlags)

	_, err = bpfSyscall(constants.CmdMapUpdateBatch, attr)
	return attr.Uint32(32), err
}

// MapDeleteBatch issues BPF_MAP_DELETE_BATCH.
func MapDeleteBatch(a BatchArgs) (processed uint32, err error) {
	keySeg := buf.NewSegment(len(a.Keys))
	copy(keySeg.Bytes(), a.Keys)

	attr := buf.NewSegment(attrSize)
	attr.PutUint64(16, uint64(keySeg.Pointer()))
	attr.PutUint32(32, a.Count)
	attr.PutUint32(36, uint32(a.MapFd))
	attr.PutUint64(40, a.ElemFlags)

	_, err = bpfSyscall(constants.CmdMapDeleteBatch, attr)
	return attr.Uint32(32), err
}
