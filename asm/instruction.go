// Package asm is the bytecode DSL: it assembles eBPF instructions the
// same way the source repo's classic-BPF filter assembler composes
// sockFilter values — construct each instruction as a small struct,
// append to a slice, and serialize the whole program to bytes at the
// end.
package asm

import (
	"encoding/binary"

	"github.com/kornnellio/ebpfcore/constants"
)

// Instruction is a single 8-byte eBPF instruction record.
type Instruction struct {
	Op  uint8
	Dst constants.Register
	Src constants.Register
	Off int16
	Imm int32
}

// Insn constructs an instruction from its four logical fields.
func Insn(op uint8, dst, src constants.Register, off int16, imm int32) Instruction {
	return Instruction{Op: op, Dst: dst, Src: src, Off: off, Imm: imm}
}

// Bytes encodes a single instruction into its 8-byte kernel wire form:
// opcode(1) | dst(4 bits) src(4 bits) packed into 1 byte | off(2, LE) | imm(4, LE).
func (i Instruction) Bytes() [8]byte {
	var b [8]byte
	b[0] = i.Op
	b[1] = uint8(i.Dst&0xf) | uint8(i.Src&0xf)<<4
	binary.LittleEndian.PutUint16(b[2:4], uint16(i.Off))
	binary.LittleEndian.PutUint32(b[4:8], uint32(i.Imm))
	return b
}

// DecodeInstruction parses an 8-byte wire-format instruction.
func DecodeInstruction(b []byte) Instruction {
	_ = b[7]
	return Instruction{
		Op:  b[0],
		Dst: constants.Register(b[1] & 0xf),
		Src: constants.Register(b[1] >> 4),
		Off: int16(binary.LittleEndian.Uint16(b[2:4])),
		Imm: int32(binary.LittleEndian.Uint32(b[4:8])),
	}
}

// Program is an ordered sequence of instructions.
type Program []Instruction

// Bytes serializes the whole program to its wire form.
func (p Program) Bytes() []byte {
	out := make([]byte, 0, len(p)*8)
	for _, insn := range p {
		b := insn.Bytes()
		out = append(out, b[:]...)
	}
	return out
}

// DecodeProgram parses a wire-format byte stream back into instructions.
// lddw's second half decodes as a degenerate Instruction (Op=0) carrying
// the upper immediate bits, matching LdDW's own encoding in emit.go.
func DecodeProgram(b []byte) Program {
	prog := make(Program, 0, len(b)/8)
	for off := 0; off+8 <= len(b); off += 8 {
		prog = append(prog, DecodeInstruction(b[off:off+8]))
	}
	return prog
}
