package bpfmap

import (
	"testing"

	"github.com/kornnellio/ebpfcore/bpferrs"
	"github.com/kornnellio/ebpfcore/constants"
)

func TestCreateRejectsZeroKeySize(t *testing.T) {
	_, err := Create(Spec{Type: constants.MapTypeHash, ValueSize: 4, MaxEntries: 1})
	if err == nil {
		t.Fatal("expected error for zero key size")
	}
	if !bpferrs.IsKind(err, bpferrs.ErrInvalidShape) {
		t.Errorf("expected ErrInvalidShape, got %v", err)
	}
}

func TestCreateRejectsLongName(t *testing.T) {
	_, err := Create(Spec{
		Type: constants.MapTypeHash, KeySize: 4, ValueSize: 4, MaxEntries: 1,
		Name: "this_name_is_way_too_long_for_the_kernel",
	})
	if err == nil {
		t.Fatal("expected error for over-long name")
	}
}

func TestClosedMapRejectsOperations(t *testing.T) {
	m := &Map{closed: true, name: "test", keySize: 4, valueSize: 4}

	if _, err := m.Lookup(make([]byte, 4), make([]byte, 4)); !bpferrs.IsKind(err, bpferrs.ErrInvalidShape) {
		t.Errorf("Lookup on closed map: got %v, want ErrInvalidShape", err)
	}
	if err := m.Update(make([]byte, 4), make([]byte, 4), 0); !bpferrs.IsKind(err, bpferrs.ErrInvalidShape) {
		t.Errorf("Update on closed map: got %v, want ErrInvalidShape", err)
	}
	if _, err := m.Delete(make([]byte, 4)); !bpferrs.IsKind(err, bpferrs.ErrInvalidShape) {
		t.Errorf("Delete on closed map: got %v, want ErrInvalidShape", err)
	}
}

func TestSizeMismatchRejected(t *testing.T) {
	m := &Map{name: "test", keySize: 4, valueSize: 8}

	if _, err := m.Lookup(make([]byte, 3), make([]byte, 8)); !bpferrs.IsKind(err, bpferrs.ErrInvalidShape) {
		t.Errorf("expected key size mismatch error, got %v", err)
	}
	if err := m.Update(make([]byte, 4), make([]byte, 1), 0); !bpferrs.IsKind(err, bpferrs.ErrInvalidShape) {
		t.Errorf("expected value size mismatch error, got %v", err)
	}
}

func TestDoubleCloseIsSafe(t *testing.T) {
	m := &Map{fd: -1, name: "test"}
	m.closed = true
	if err := m.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}

func TestSetTailCallTargetRejectsNonProgArray(t *testing.T) {
	m := &Map{name: "test", mapType: constants.MapTypeHash}
	if err := m.SetTailCallTarget(0, 3); err == nil {
		t.Fatal("expected error for non-prog-array map")
	}
}
