package bpfmap

import (
	"os"
	"path/filepath"

	"github.com/kornnellio/ebpfcore/bpferrs"
	"github.com/kornnellio/ebpfcore/buf"
	"github.com/kornnellio/ebpfcore/sysc"
)

// DefaultBPFFS is the conventional bpffs mount point used when a caller
// does not supply one.
const DefaultBPFFS = "/sys/fs/bpf"

// Pin makes the map durable across process restarts by creating a bpffs
// inode for it at relPath under root (root defaults to DefaultBPFFS).
func (m *Map) Pin(root, relPath string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkOpen("bpfmap.Pin"); err != nil {
		return err
	}
	if root == "" {
		root = DefaultBPFFS
	}
	if err := sysc.EnsureBPFFS(root); err != nil {
		return err
	}
	full, err := buf.SecureJoin(root, relPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return bpferrs.Wrap(err, bpferrs.ErrSyscall, "bpfmap.Pin")
	}
	return sysc.ObjPin(full, m.fd)
}

// GetPinned opens a previously pinned map by its bpffs path.
func GetPinned(root, relPath string) (*Map, error) {
	if root == "" {
		root = DefaultBPFFS
	}
	full, err := buf.SecureJoin(root, relPath)
	if err != nil {
		return nil, err
	}
	fd, err := sysc.ObjGet(full)
	if err != nil {
		return nil, bpferrs.WrapWithSubject(err, bpferrs.ErrNotFound, "bpfmap.GetPinned", relPath)
	}
	return &Map{fd: fd, name: filepath.Base(relPath)}, nil
}
