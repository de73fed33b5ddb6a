// Package arch provides per-architecture syscall numbers and capability
// preflight checks for the eBPF loader.
package arch

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/kornnellio/ebpfcore/bpferrs"
)

// SyscallTable maps logical syscall names to their architecture-specific numbers.
type SyscallTable struct {
	BPF             uintptr
	PerfEventOpen   uintptr
	Socket          uintptr
	Bind            uintptr
	Sendto          uintptr
	Recvfrom        uintptr
	Mmap            uintptr
	Munmap          uintptr
	Ioctl           uintptr
	Close           uintptr
	EpollCreate1    uintptr
	EpollCtl        uintptr
	EpollWait       uintptr
	Open            uintptr
	SetNs           uintptr
	Prctl           uintptr
}

// tables holds the known per-ISA syscall tables. Values come from each
// architecture's unistd.h / asm-generic table.
var tables = map[string]SyscallTable{
	"amd64": {
		BPF: 321, PerfEventOpen: 298, Socket: 41, Bind: 49, Sendto: 44,
		Recvfrom: 45, Mmap: 9, Munmap: 11, Ioctl: 16, Close: 3,
		EpollCreate1: 291, EpollCtl: 233, EpollWait: 232, Open: 2,
		SetNs: 308, Prctl: 157,
	},
	"arm64": {
		BPF: 280, PerfEventOpen: 241, Socket: 198, Bind: 200, Sendto: 206,
		Recvfrom: 207, Mmap: 222, Munmap: 215, Ioctl: 29, Close: 57,
		EpollCreate1: 20, EpollCtl: 21, EpollWait: 22, Open: 1024,
		SetNs: 268, Prctl: 167,
	},
}

var (
	tableOnce sync.Once
	table     SyscallTable
	tableErr  error
)

func detect() (SyscallTable, error) {
	t, ok := tables[runtime.GOARCH]
	if !ok {
		return SyscallTable{}, bpferrs.WrapWithDetail(
			fmt.Errorf("GOARCH=%s", runtime.GOARCH),
			bpferrs.ErrUnsupported, "arch.detect", "no syscall table for this architecture")
	}
	return t, nil
}

// Table returns the syscall table for the running architecture. Detection
// happens lazily on first use, not at package init, so importing this
// package for introspection never panics on an unsupported host.
func Table() (SyscallTable, error) {
	tableOnce.Do(func() {
		table, tableErr = detect()
	})
	return table, tableErr
}

// KprobeArgOffset returns the byte offset of the i-th argument register
// within pt_regs for the running architecture's calling convention
// (System V AMD64 / AAPCS64 argument registers, in pt_regs field order).
func KprobeArgOffset(i int) (int, error) {
	if i < 0 || i > 5 {
		return 0, bpferrs.New(bpferrs.ErrInvalidShape, "arch.KprobeArgOffset", "argument index out of range 0..5")
	}
	switch runtime.GOARCH {
	case "amd64":
		// pt_regs field order: r15 r14 r13 r12 rbp rbx r11 r10 r9 r8 rax
		// rcx rdx rsi rdi orig_rax rip cs eflags rsp ss. Args 1-6 map to
		// rdi, rsi, rdx, r10, r8, r9 in raw syscall pt_regs, but for
		// function-entry kprobes the C calling convention uses
		// rdi, rsi, rdx, rcx, r8, r9.
		offsets := []int{112, 104, 96, 88, 72, 64}
		return offsets[i], nil
	case "arm64":
		// pt_regs.regs[0..5] at offset 0, 8, 16, ...
		return i * 8, nil
	default:
		return 0, bpferrs.WrapWithDetail(
			fmt.Errorf("GOARCH=%s", runtime.GOARCH),
			bpferrs.ErrUnsupported, "arch.KprobeArgOffset", "no argument offset table for this architecture")
	}
}
