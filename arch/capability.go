package arch

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/kornnellio/ebpfcore/bpferrs"
)

// Capability numbers this package cares about (from linux/capability.h).
const (
	CAP_SYS_ADMIN = 21
	CAP_BPF       = 39
)

const prCapbsetRead = 23 // PR_CAPBSET_READ

// HasCapability reports whether cap is present in the calling thread's
// capability bounding set, probed the way the kernel documents:
// prctl(PR_CAPBSET_READ, cap) returns 1, 0, or -EINVAL if cap is unknown
// to this kernel.
func HasCapability(cap int) bool {
	ret, _, errno := unix.Syscall(unix.SYS_PRCTL, prCapbsetRead, uintptr(cap), 0)
	if errno != 0 {
		return false
	}
	return ret == 1
}

// Preflight checks that the calling process can plausibly load and attach
// eBPF programs, returning a descriptive error naming the missing
// capability instead of letting the first privileged syscall fail with a
// bare EPERM.
func Preflight() error {
	if !HasCapability(CAP_BPF) && !HasCapability(CAP_SYS_ADMIN) {
		return bpferrs.WrapWithDetail(
			fmt.Errorf("bounding set lacks CAP_BPF (%d) and CAP_SYS_ADMIN (%d)", CAP_BPF, CAP_SYS_ADMIN),
			bpferrs.ErrUnsupported, "arch.Preflight", "missing CAP_BPF")
	}
	return nil
}
