package asm

import (
	"bytes"
	"testing"

	"github.com/kornnellio/ebpfcore/constants"
)

func TestMovImmEncoding(t *testing.T) {
	// mov r0, 42 => b7 00 00 00 2a 00 00 00
	insn := Mov64Imm(constants.R0, 42)
	got := insn.Bytes()
	want := [8]byte{0xb7, 0x00, 0x00, 0x00, 0x2a, 0x00, 0x00, 0x00}
	if !bytes.Equal(got[:], want[:]) {
		t.Errorf("mov r0, 42 = % x, want % x", got, want)
	}
}

func TestExitEncoding(t *testing.T) {
	insn := Exit()
	got := insn.Bytes()
	want := [8]byte{0x95, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(got[:], want[:]) {
		t.Errorf("exit = % x, want % x", got, want)
	}
}

func TestLdDWEncoding(t *testing.T) {
	// lddw r0, 0x123456789ABCDEF0
	pair := LdDW(constants.R0, 0x123456789ABCDEF0)
	if pair[0].Op != constants.LdClass|constants.SizeDW|constants.ModeImm {
		t.Errorf("first insn opcode = 0x%x, want 0x18", pair[0].Op)
	}
	if pair[0].Dst != constants.R0 {
		t.Errorf("first insn dst = %v, want R0", pair[0].Dst)
	}
	if uint32(pair[0].Imm) != 0x9ABCDEF0 {
		t.Errorf("first insn imm = 0x%x, want 0x9ABCDEF0", uint32(pair[0].Imm))
	}
	if pair[1].Op != 0 {
		t.Errorf("second insn opcode = 0x%x, want 0", pair[1].Op)
	}
	if uint32(pair[1].Imm) != 0x12345678 {
		t.Errorf("second insn imm = 0x%x, want 0x12345678", uint32(pair[1].Imm))
	}
}

func TestInstructionRoundTrip(t *testing.T) {
	cases := []Instruction{
		Mov64Imm(constants.R3, -7),
		Mov64Reg(constants.R1, constants.R2),
		AddImm(constants.R5, 100),
		JumpImm(constants.OpJEq, constants.R0, 1, 3),
		Ja(5),
		Call(12),
		Exit(),
	}
	for _, insn := range cases {
		b := insn.Bytes()
		decoded := DecodeInstruction(b[:])
		if decoded != insn {
			t.Errorf("round trip mismatch: got %+v, want %+v", decoded, insn)
		}
	}
}

func TestProgramBytesLength(t *testing.T) {
	p := Program{Mov64Imm(constants.R0, 2), Exit()}
	if len(p.Bytes()) != 16 {
		t.Errorf("program bytes length = %d, want 16", len(p.Bytes()))
	}
	decoded := DecodeProgram(p.Bytes())
	if len(decoded) != 2 {
		t.Errorf("decoded program length = %d, want 2", len(decoded))
	}
}
