package asm

import "github.com/kornnellio/ebpfcore/constants"

// stmt builds a no-jump instruction, mirroring the source's bpfStmt helper:
// a bare opcode plus an immediate, dst/src supplied by the caller.
func stmt(op uint8, dst, src constants.Register, imm int32) Instruction {
	return Insn(op, dst, src, 0, imm)
}

// jump builds a jump instruction, mirroring the source's bpfJump helper:
// an opcode plus a branch offset (and, for eBPF, an immediate comparand).
func jump(op uint8, dst, src constants.Register, off int16, imm int32) Instruction {
	return Insn(op, dst, src, off, imm)
}

// Mov64Imm emits `mov64 dst, imm` (ALU64 | MOV | IMM).
func Mov64Imm(dst constants.Register, imm int32) Instruction {
	return stmt(constants.ALU64Class|constants.OpMov|constants.SrcImm, dst, 0, imm)
}

// Mov64Reg emits `mov64 dst, src`.
func Mov64Reg(dst, src constants.Register) Instruction {
	return stmt(constants.ALU64Class|constants.OpMov|constants.SrcReg, dst, src, 0)
}

// AddImm emits `add64 dst, imm`.
func AddImm(dst constants.Register, imm int32) Instruction {
	return stmt(constants.ALU64Class|constants.OpAdd|constants.SrcImm, dst, 0, imm)
}

// AddReg emits `add64 dst, src`.
func AddReg(dst, src constants.Register) Instruction {
	return stmt(constants.ALU64Class|constants.OpAdd|constants.SrcReg, dst, src, 0)
}

// Alu32Imm emits a 32-bit ALU op with an immediate operand.
func Alu32Imm(op uint8, dst constants.Register, imm int32) Instruction {
	return stmt(constants.ALUClass|op|constants.SrcImm, dst, 0, imm)
}

// Alu64Imm emits a 64-bit ALU op with an immediate operand.
func Alu64Imm(op uint8, dst constants.Register, imm int32) Instruction {
	return stmt(constants.ALU64Class|op|constants.SrcImm, dst, 0, imm)
}

// Alu64Reg emits a 64-bit ALU op with a register operand.
func Alu64Reg(op uint8, dst, src constants.Register) Instruction {
	return stmt(constants.ALU64Class|op|constants.SrcReg, dst, src, 0)
}

// JumpImm emits a conditional jump comparing dst against an immediate,
// branching `off` instructions forward on true.
func JumpImm(op uint8, dst constants.Register, imm int32, off int16) Instruction {
	return jump(constants.JmpClass|op|constants.SrcImm, dst, 0, off, imm)
}

// JumpReg emits a conditional jump comparing dst against src.
func JumpReg(op uint8, dst, src constants.Register, off int16) Instruction {
	return jump(constants.JmpClass|op|constants.SrcReg, dst, src, off, 0)
}

// Ja emits an unconditional jump.
func Ja(off int16) Instruction {
	return jump(constants.JmpClass|constants.OpJA, 0, 0, off, 0)
}

// Call emits a helper call by numeric id.
func Call(helper int32) Instruction {
	return stmt(constants.JmpClass|constants.OpCall, 0, 0, helper)
}

// Exit emits the program-terminating `exit` instruction.
func Exit() Instruction {
	return stmt(constants.JmpClass|constants.OpExit, 0, 0, 0)
}

// LdDW emits a 64-bit immediate load as its two-instruction pair: the
// first instruction (opcode 0x18) carries the low 32 bits and dst; the
// second is a bare zero-opcode instruction carrying the high 32 bits,
// matching the kernel's BPF_LD_IMM64 encoding.
func LdDW(dst constants.Register, imm uint64) [2]Instruction {
	return [2]Instruction{
		Insn(constants.LdClass|constants.SizeDW|constants.ModeImm, dst, 0, 0, int32(uint32(imm))),
		Insn(0, 0, 0, 0, int32(uint32(imm>>32))),
	}
}

// LdMapFD emits a 64-bit immediate load of a map file descriptor, using
// src=1 (BPF_PSEUDO_MAP_FD) so the verifier resolves the immediate as a
// map reference rather than a plain integer.
func LdMapFD(dst constants.Register, fd int32) [2]Instruction {
	return [2]Instruction{
		Insn(constants.LdClass|constants.SizeDW|constants.ModeImm, dst, 1, 0, fd),
		Insn(0, 0, 0, 0, 0),
	}
}

// StxMem emits a register-to-memory store: `*(size*)(dst+off) = src`.
func StxMem(size uint8, dst, src constants.Register, off int16) Instruction {
	return jump(constants.StXClass|size|constants.ModeMem, dst, src, off, 0)
}

// StImm emits an immediate-to-memory store: `*(size*)(dst+off) = imm`.
func StImm(size uint8, dst constants.Register, off int16, imm int32) Instruction {
	return jump(constants.StClass|size|constants.ModeMem, dst, 0, off, imm)
}

// LdxMem emits a memory-to-register load: `dst = *(size*)(src+off)`.
func LdxMem(size uint8, dst, src constants.Register, off int16) Instruction {
	return jump(constants.LdXClass|size|constants.ModeMem, dst, src, off, 0)
}

// AtomicOp emits an atomic read-modify-write on `*(size*)(dst+off)`,
// fetch variants (AtomicFetch bit set) also return the prior value in src.
func AtomicOp(size uint8, dst, src constants.Register, off int16, atomicOp int32) Instruction {
	return jump(constants.StXClass|size|constants.ModeAtomic, dst, src, off, atomicOp)
}
