// Package bpfmap implements the lifecycle of BPF map objects: creation,
// element access, batch operations, pinning, and tail-call program
// arrays, wrapping the raw bpf_attr marshalling in sysc behind a
// resource-owning handle.
package bpfmap

import (
	"log/slog"
	"sync"

	"github.com/kornnellio/ebpfcore/bpferrs"
	"github.com/kornnellio/ebpfcore/constants"
	"github.com/kornnellio/ebpfcore/logging"
	"github.com/kornnellio/ebpfcore/sysc"
)

// Map owns a BPF map file descriptor and the shape needed to marshal its
// keys and values, the way the source repo's Container owns a kernel
// resource (an init process) behind a mutex for the lifetime of the handle.
type Map struct {
	mu sync.RWMutex

	fd         int
	closed     bool
	name       string
	mapType    constants.MapType
	keySize    uint32
	valueSize  uint32
	maxEntries uint32
	flags      uint32

	log *slog.Logger
}

// Spec describes a map to create.
type Spec struct {
	Name       string
	Type       constants.MapType
	KeySize    uint32
	ValueSize  uint32
	MaxEntries uint32
	Flags      uint32
	BTFFd      int32
	BTFKeyTypeID   uint32
	BTFValueTypeID uint32
}

// Create issues BPF_MAP_CREATE and returns an owning Map handle.
func Create(s Spec) (*Map, error) {
	if s.KeySize == 0 && s.Type != constants.MapTypeRingbuf {
		return nil, bpferrs.New(bpferrs.ErrInvalidShape, "bpfmap.Create", "key size must be non-zero")
	}
	if len(s.Name) > 15 {
		return nil, bpferrs.WrapWithSubject(nil, bpferrs.ErrInvalidShape, "bpfmap.Create", s.Name)
	}

	fd, err := sysc.MapCreate(sysc.MapCreateArgs{
		MapType:        s.Type,
		KeySize:        s.KeySize,
		ValueSize:      s.ValueSize,
		MaxEntries:     s.MaxEntries,
		MapFlags:       s.Flags,
		Name:           s.Name,
		BTFFd:          s.BTFFd,
		BTFKeyTypeID:   s.BTFKeyTypeID,
		BTFValueTypeID: s.BTFValueTypeID,
	})
	if err != nil {
		return nil, err
	}

	return &Map{
		fd:         fd,
		name:       s.Name,
		mapType:    s.Type,
		keySize:    s.KeySize,
		valueSize:  s.ValueSize,
		maxEntries: s.MaxEntries,
		flags:      s.Flags,
		log:        logging.WithMap(logging.Default(), s.Name),
	}, nil
}

// FD returns the map's file descriptor. Mainly useful for wiring a map
// into another map (e.g. an outer map-of-maps) or a program's fixed-up
// instruction stream.
func (m *Map) FD() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fd
}

// Name returns the map's name.
func (m *Map) Name() string { return m.name }

// Type returns the map's type.
func (m *Map) Type() constants.MapType { return m.mapType }

// logger returns the map's logger, falling back to the package default
// for handles built without going through Create (tests, or a handle
// recovered via GetPinned).
func (m *Map) logger() *slog.Logger {
	if m.log != nil {
		return m.log
	}
	return logging.Default()
}

func (m *Map) checkOpen(op string) error {
	if m.closed {
		return bpferrs.WrapWithSubject(bpferrs.ErrMapClosed, bpferrs.ErrInvalidShape, op, m.name)
	}
	return nil
}

func (m *Map) checkSizes(op string, key, value []byte) error {
	if key != nil && uint32(len(key)) != m.keySize {
		return bpferrs.WrapWithSubject(bpferrs.ErrBadKeySize, bpferrs.ErrInvalidShape, op, m.name)
	}
	if value != nil && uint32(len(value)) != m.valueSize {
		return bpferrs.WrapWithSubject(bpferrs.ErrBadValueSize, bpferrs.ErrInvalidShape, op, m.name)
	}
	return nil
}

// Lookup reads the value for key into value. Returns (false, nil) if the
// key is absent.
func (m *Map) Lookup(key, value []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkOpen("bpfmap.Lookup"); err != nil {
		return false, err
	}
	if err := m.checkSizes("bpfmap.Lookup", key, value); err != nil {
		return false, err
	}
	return sysc.MapLookupElem(m.fd, key, value)
}

// Update writes value for key, honoring the given update semantics
// (constants.UpdateAny/NoExist/Exist/Locked).
func (m *Map) Update(key, value []byte, flags uint64) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkOpen("bpfmap.Update"); err != nil {
		return err
	}
	if err := m.checkSizes("bpfmap.Update", key, value); err != nil {
		return err
	}
	return sysc.MapUpdateElem(m.fd, key, value, flags)
}

// Delete removes key. Returns (false, nil) if the key was already absent.
func (m *Map) Delete(key []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkOpen("bpfmap.Delete"); err != nil {
		return false, err
	}
	if err := m.checkSizes("bpfmap.Delete", key, nil); err != nil {
		return false, err
	}
	return sysc.MapDeleteElem(m.fd, key)
}

// Iterate calls fn for every key currently in the map, stopping early if
// fn returns false. Mutating the map during iteration has kernel-defined
// (not necessarily consistent) semantics, matching BPF_MAP_GET_NEXT_KEY.
func (m *Map) Iterate(fn func(key []byte) bool) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkOpen("bpfmap.Iterate"); err != nil {
		return err
	}

	var cur []byte
	next := make([]byte, m.keySize)
	for {
		ok, err := sysc.MapGetNextKey(m.fd, cur, next)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		keyCopy := make([]byte, m.keySize)
		copy(keyCopy, next)
		if !fn(keyCopy) {
			return nil
		}
		cur = keyCopy
	}
}

// Close releases the map's file descriptor. Safe to call multiple times.
func (m *Map) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	if err := closeFD(m.fd); err != nil {
		m.logger().Warn("map fd close failed", "name", m.name, "error", err)
		return bpferrs.WrapWithSubject(err, bpferrs.ErrResourceLeak, "bpfmap.Close", m.name)
	}
	return nil
}

func closeFD(fd int) error {
	return sysc.CloseFD(fd)
}
