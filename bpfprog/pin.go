package bpfprog

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

// Pin makes the program durable across process restarts by creating a
// bpffs inode for it at relPath under root (root defaults to DefaultBPFFS),
// the same mechanics as bpfmap.Map.Pin.
func (p *Program) Pin(root, relPath string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.checkOpen("bpfprog.Pin"); err != nil {
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
		return bpferrs.Wrap(err, bpferrs.ErrSyscall, "bpfprog.Pin")
	}
	return sysc.ObjPin(full, p.fd)
}

// GetPinned opens a previously pinned program by its bpffs path.
func GetPinned(root, relPath string) (*Program, error) {
	if root == "" {
		root = DefaultBPFFS
	}
	full, err := buf.SecureJoin(root, relPath)
	if err != nil {
		return nil, err
	}
	fd, err := sysc.ObjGet(full)
	if err != nil {
		return nil, bpferrs.WrapWithSubject(err, bpferrs.ErrNotFound, "bpfprog.GetPinned", relPath)
	}
	return &Program{fd: fd, name: filepath.Base(relPath)}, nil
}
