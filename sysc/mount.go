package sysc

import (
	"os"
	"syscall"

	"github.com/kornnellio/ebpfcore/bpferrs"
)

// EnsureBPFFS makes sure path is a mounted bpffs, creating and mounting
// it if necessary, the way the source repo's SetupRootfs composes a
// bind mount from a flag table before handing control to the workload.
func EnsureBPFFS(path string) error {
	if mounted, err := isMountpoint(path); err != nil {
		return err
	} else if mounted {
		return nil
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return bpferrs.Wrap(err, bpferrs.ErrSyscall, "sysc.EnsureBPFFS")
	}
	if err := syscall.Mount("bpf", path, "bpf", 0, ""); err != nil {
		return bpferrs.WrapWithSubject(err, bpferrs.ErrSyscall, "sysc.EnsureBPFFS", path)
	}
	return nil
}

// isMountpoint reports whether path's device differs from its parent's,
// the cheap st_dev comparison used to detect an existing mount without
// parsing /proc/mounts.
func isMountpoint(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, bpferrs.Wrap(err, bpferrs.ErrSyscall, "sysc.isMountpoint")
	}
	parentInfo, err := os.Stat(path + "/..")
	if err != nil {
		return false, bpferrs.Wrap(err, bpferrs.ErrSyscall, "sysc.isMountpoint")
	}
	dev, ok1 := info.Sys().(*syscall.Stat_t)
	pdev, ok2 := parentInfo.Sys().(*syscall.Stat_t)
	if !ok1 || !ok2 {
		return false, nil
	}
	return dev.Dev != pdev.Dev, nil
}
