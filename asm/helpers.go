package asm

import "github.com/kornnellio/ebpfcore/constants"

// HelperCall emits `call helper_id`, the raw form behind the typed
// wrappers below.
func HelperCall(helperID int32) Instruction {
	return Call(helperID)
}

// MapLookupElem emits the calling convention for
// `bpf_map_lookup_elem(map_fd_reg, key_ptr_reg)`: move map fd into r1,
// key pointer into r2, call helper 1. Result pointer (or NULL) is in r0.
func MapLookupElem(mapFD int32, keyPtrReg constants.Register) Program {
	low, high := LdMapFD(constants.R1, mapFD)
	return Program{
		low, high,
		Mov64Reg(constants.R2, keyPtrReg),
		HelperCall(constants.HelperMapLookupElem),
	}
}

// MapUpdateElem emits the calling convention for
// `bpf_map_update_elem(map_fd, key_ptr, value_ptr, flags)`.
func MapUpdateElem(mapFD int32, keyPtrReg, valuePtrReg constants.Register, flags int32) Program {
	low, high := LdMapFD(constants.R1, mapFD)
	return Program{
		low, high,
		Mov64Reg(constants.R2, keyPtrReg),
		Mov64Reg(constants.R3, valuePtrReg),
		Mov64Imm(constants.R4, flags),
		HelperCall(constants.HelperMapUpdateElem),
	}
}

// TailCall emits the calling convention for
// `bpf_tail_call(ctx, prog_array_fd, index)`: ctx is assumed already in r1.
func TailCall(progArrayFD int32, index int32) Program {
	low, high := LdMapFD(constants.R2, progArrayFD)
	return Program{
		low, high,
		Mov64Imm(constants.R3, index),
		HelperCall(constants.HelperTailCall),
	}
}

// KtimeGetNs emits `call ktime_get_ns`; result in r0.
func KtimeGetNs() Instruction { return HelperCall(constants.HelperKtimeGetNs) }

// GetCurrentPidTgid emits `call get_current_pid_tgid`; result in r0
// (high 32 bits = tgid, low 32 bits = pid).
func GetCurrentPidTgid() Instruction { return HelperCall(constants.HelperGetCurrentPidTgid) }

// PerfEventOutput emits the calling convention for
// `bpf_perf_event_output(ctx, map_fd, flags, data_ptr, size)`. Assumes
// ctx already in r1.
func PerfEventOutput(mapFD int32, flags int32, dataPtrReg constants.Register, size int32) Program {
	low, high := LdMapFD(constants.R2, mapFD)
	return Program{
		low, high,
		Mov64Imm(constants.R3, flags),
		Mov64Reg(constants.R4, dataPtrReg),
		Mov64Imm(constants.R5, size),
		HelperCall(constants.HelperPerfEventOutput),
	}
}

// RingbufReserve emits the calling convention for
// `bpf_ringbuf_reserve(map_fd, size, flags)`. The returned pointer (r0)
// must be checked for NULL before use; pair with RingbufSubmit or
// RingbufDiscard.
func RingbufReserve(mapFD int32, size int32, flags int32) Program {
	low, high := LdMapFD(constants.R1, mapFD)
	return Program{
		low, high,
		Mov64Imm(constants.R2, size),
		Mov64Imm(constants.R3, flags),
		HelperCall(constants.HelperRingbufReserve),
	}
}

// RingbufSubmit emits `bpf_ringbuf_submit(dataPtrReg, flags)`.
func RingbufSubmit(dataPtrReg constants.Register, flags int32) Program {
	return Program{
		Mov64Reg(constants.R1, dataPtrReg),
		Mov64Imm(constants.R2, flags),
		HelperCall(constants.HelperRingbufSubmit),
	}
}

// RingbufDiscard emits `bpf_ringbuf_discard(dataPtrReg, flags)`.
func RingbufDiscard(dataPtrReg constants.Register, flags int32) Program {
	return Program{
		Mov64Reg(constants.R1, dataPtrReg),
		Mov64Imm(constants.R2, flags),
		HelperCall(constants.HelperRingbufDiscard),
	}
}

// ProbeReadKernel emits `bpf_probe_read_kernel(dstPtrReg, size, srcPtrReg)`.
func ProbeReadKernel(dstPtrReg constants.Register, size int32, srcPtrReg constants.Register) Program {
	return Program{
		Mov64Reg(constants.R1, dstPtrReg),
		Mov64Imm(constants.R2, size),
		Mov64Reg(constants.R3, srcPtrReg),
		HelperCall(constants.HelperProbeReadKernel),
	}
}

// ProbeReadKernelStr emits `bpf_probe_read_kernel_str(dstPtrReg, size, srcPtrReg)`.
func ProbeReadKernelStr(dstPtrReg constants.Register, size int32, srcPtrReg constants.Register) Program {
	return Program{
		Mov64Reg(constants.R1, dstPtrReg),
		Mov64Imm(constants.R2, size),
		Mov64Reg(constants.R3, srcPtrReg),
		HelperCall(constants.HelperProbeReadKernelStr),
	}
}
