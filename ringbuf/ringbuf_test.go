package ringbuf

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/kornnellio/ebpfcore/sysc"
)

// newTestReader builds a Reader around a hand-constructed data page
// without going through sysc.MmapRingbuf, so the framing logic can be
// exercised without a live kernel ring buffer.
func newTestReader(dataLen int) (*Reader, []byte) {
	consumerPage := make([]byte, pageSize)
	dataRegion := make([]byte, pageSize+dataLen)
	r := &Reader{
		dataLen: dataLen,
		mapping: &sysc.RingbufMapping{
			ConsumerPos:  consumerPage,
			ProducerData: dataRegion,
		},
	}
	return r, dataRegion[pageSize:]
}

func writeRecord(data []byte, offset int, payload []byte) {
	length := uint32(4 + len(payload))
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], length)
	dataLen := len(data)
	for i := 0; i < 4; i++ {
		data[(offset+i)%dataLen] = lenBuf[i]
	}
	for i, b := range payload {
		data[(offset+4+i)%dataLen] = b
	}
}

func setProducerPos(r *Reader, pos uint64) {
	binary.LittleEndian.PutUint64(r.mapping.ProducerData[:8], pos)
}

func TestReadOneSimpleRecord(t *testing.T) {
	dataLen := 256
	r, data := newTestReader(dataLen)
	writeRecord(data, 0, []byte("hello"))
	setProducerPos(r, 9)

	rec, ok := r.readOne()
	if !ok {
		t.Fatal("expected a record")
	}
	if !bytes.Equal(rec, []byte("hello")) {
		t.Errorf("got %q, want %q", rec, "hello")
	}
	if got := r.consumerPos(); got != 9 {
		t.Errorf("consumer_pos = %d, want 9", got)
	}
}

func TestReadOneWrapsAcrossDataBoundary(t *testing.T) {
	dataLen := 16
	r, data := newTestReader(dataLen)
	payload := []byte("abcdefgh")
	writeRecord(data, 12, payload)
	setProducerPos(r, 12+uint64(4+len(payload)))
	r.setConsumerPos(12)

	rec, ok := r.readOne()
	if !ok {
		t.Fatal("expected a wrapped record")
	}
	if !bytes.Equal(rec, payload) {
		t.Errorf("got %q, want %q", rec, payload)
	}
}

func TestReadOneInsufficientBytes(t *testing.T) {
	dataLen := 64
	r, _ := newTestReader(dataLen)
	setProducerPos(r, 2)

	if _, ok := r.readOne(); ok {
		t.Error("expected no record with fewer than 4 available bytes")
	}
}

func TestReadOneZeroLengthStopsBatch(t *testing.T) {
	dataLen := 64
	r, data := newTestReader(dataLen)
	// length word left as zero, simulating a reserved-but-not-committed slot.
	setProducerPos(r, uint64(len(data)))

	if _, ok := r.readOne(); ok {
		t.Error("expected a zero length word to be treated as no record")
	}
}

func TestReadOneOverlongLengthRejected(t *testing.T) {
	dataLen := 64
	r, data := newTestReader(dataLen)
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], 1000)
	copy(data, lenBuf[:])
	setProducerPos(r, 8)

	if _, ok := r.readOne(); ok {
		t.Error("expected an overlong length to be rejected")
	}
}

func TestPeekDoesNotAdvanceConsumerPos(t *testing.T) {
	dataLen := 256
	r, data := newTestReader(dataLen)
	writeRecord(data, 0, []byte("peekme"))
	setProducerPos(r, 10)

	rec, ok := r.Peek()
	if !ok || !bytes.Equal(rec, []byte("peekme")) {
		t.Fatalf("Peek() = %q, %v", rec, ok)
	}
	if got := r.consumerPos(); got != 0 {
		t.Errorf("Peek must not advance consumer_pos, got %d", got)
	}
}

func TestDrainAppliesBatchSizeLimit(t *testing.T) {
	dataLen := 256
	r, data := newTestReader(dataLen)
	r.batchSize = 2

	off := 0
	for i := 0; i < 5; i++ {
		writeRecord(data, off, []byte{byte(i)})
		off += 5
	}
	setProducerPos(r, uint64(off))

	var got []byte
	r.drain(func(rec []byte) { got = append(got, rec...) })

	if len(got) != 2 {
		t.Fatalf("expected batchSize to cap drain at 2 records, got %d", len(got))
	}
	if r.stats.EventsRead != 2 || r.stats.BatchesRead != 1 {
		t.Errorf("stats = %+v, want EventsRead=2 BatchesRead=1", r.stats)
	}
}
