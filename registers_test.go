// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import (
	"errors"
	"testing"
)

// registersOf returns all register operands of insn.
func registersOf(t *testing.T, insn *Instruction) []uint16 {
	t.Helper()

	regs := make([]uint16, insn.NumRegisters())
	for i := range regs {
		reg, err := insn.Register(i)
		if err != nil {
			t.Fatalf("Register(%d): %v", i, err)
		}
		regs[i] = reg
	}

	return regs
}

func equalRegs(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func TestRegister_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		insn Instruction
		want []uint16
	}{
		{name: "12x move", insn: Instruction{Opcode: OpMove, HiByte: 0x21}, want: []uint16{1, 2}},
		{name: "22x move/from16", insn: Instruction{Opcode: OpMoveFrom16, HiByte: 10, Params: [2]uint16{300}}, want: []uint16{10, 300}},
		{name: "32x move/16", insn: Instruction{Opcode: OpMove16, Params: [2]uint16{1000, 2000}}, want: []uint16{1000, 2000}},
		{name: "11n const/4", insn: Instruction{Opcode: OpConst4, HiByte: 0x75}, want: []uint16{5}},
		{name: "21c const-string", insn: Instruction{Opcode: OpConstString, HiByte: 200}, want: []uint16{200}},
		{name: "23x add-int", insn: Instruction{Opcode: 0x90, HiByte: 1, Params: [2]uint16{0x0302}}, want: []uint16{1, 2, 3}},
		{name: "22b add-int/lit8", insn: Instruction{Opcode: OpAddIntLit8, HiByte: 4, Params: [2]uint16{0x7f05}}, want: []uint16{4, 5}},
		{name: "22c iget", insn: Instruction{Opcode: OpIget, HiByte: 0x32}, want: []uint16{2, 3}},
		{name: "35c invoke", insn: Instruction{Opcode: OpInvokeVirtual, HiByte: 0x57, Params: [2]uint16{0, 0x4321}}, want: []uint16{1, 2, 3, 4, 7}},
		{name: "3rc invoke/range", insn: Instruction{Opcode: OpInvokeRange, HiByte: 3, Params: [2]uint16{0, 10}}, want: []uint16{10, 11, 12}},
		{name: "10x return-void", insn: Instruction{Opcode: OpReturnVoid}, want: []uint16{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			insn := tt.insn
			if got := registersOf(t, &insn); !equalRegs(got, tt.want) {
				t.Fatalf("registers=%v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegister_OutOfRange(t *testing.T) {
	t.Parallel()

	insn := Instruction{Opcode: OpInvokeVirtual, HiByte: 0x20}
	if _, err := insn.Register(2); !errors.Is(err, ErrInvalidRegister) {
		t.Fatalf("expected ErrInvalidRegister, got %v", err)
	}
	if w := insn.RegisterWidth(2); w != 0 {
		t.Fatalf("RegisterWidth(2)=%d, want 0", w)
	}

	payload := Instruction{Opcode: OpNop, HiByte: uint8(PseudoPackedSwitch)}
	if n := payload.NumRegisters(); n != 0 {
		t.Fatalf("payload NumRegisters=%d, want 0", n)
	}
}

func TestSetRegister_MasksNeighbours(t *testing.T) {
	t.Parallel()

	move := Instruction{Opcode: OpMove, HiByte: 0x21}
	if err := move.SetRegister(0, 0xf); err != nil {
		t.Fatalf("SetRegister: %v", err)
	}
	if got := registersOf(t, &move); !equalRegs(got, []uint16{0xf, 2}) {
		t.Fatalf("move registers=%v", got)
	}
	if err := move.SetRegister(1, 16); !errors.Is(err, ErrInvalidRegister) {
		t.Fatalf("expected ErrInvalidRegister for v16 in a nibble, got %v", err)
	}

	lit := Instruction{Opcode: OpAddIntLit8, HiByte: 4, Params: [2]uint16{0x7f05}}
	if err := lit.SetRegister(1, 0xaa); err != nil {
		t.Fatalf("SetRegister: %v", err)
	}
	if lit.Params[0] != 0x7faa {
		t.Fatalf("literal byte lost: Params[0]=%#04x", lit.Params[0])
	}

	add := Instruction{Opcode: 0x90, HiByte: 1, Params: [2]uint16{0x0302}}
	if err := add.SetRegister(2, 0xff); err != nil {
		t.Fatalf("SetRegister: %v", err)
	}
	if got := registersOf(t, &add); !equalRegs(got, []uint16{1, 2, 0xff}) {
		t.Fatalf("add-int registers=%v", got)
	}

	invoke := Instruction{Opcode: OpInvokeVirtual, HiByte: 0x57, Params: [2]uint16{0, 0x4321}}
	if err := invoke.SetRegister(4, 9); err != nil {
		t.Fatalf("SetRegister: %v", err)
	}
	if err := invoke.SetRegister(1, 0xe); err != nil {
		t.Fatalf("SetRegister: %v", err)
	}
	if got := registersOf(t, &invoke); !equalRegs(got, []uint16{1, 0xe, 3, 4, 9}) {
		t.Fatalf("invoke registers=%v", got)
	}
}

func TestSetRegister_Range(t *testing.T) {
	t.Parallel()

	insn := Instruction{Opcode: OpInvokeRange, HiByte: 3, Params: [2]uint16{0, 10}}
	if err := insn.SetRegister(0, 500); err != nil {
		t.Fatalf("SetRegister: %v", err)
	}
	if got := registersOf(t, &insn); !equalRegs(got, []uint16{500, 501, 502}) {
		t.Fatalf("range registers=%v", got)
	}
	if err := insn.SetRegister(1, 7); !errors.Is(err, ErrInvalidRegister) {
		t.Fatalf("expected ErrInvalidRegister for implied register, got %v", err)
	}
}

func TestSetNumRegisters(t *testing.T) {
	t.Parallel()

	invoke := Instruction{Opcode: OpInvokeVirtual, HiByte: 0x27}
	if err := invoke.SetNumRegisters(4); err != nil {
		t.Fatalf("SetNumRegisters: %v", err)
	}
	if invoke.HiByte != 0x47 {
		t.Fatalf("HiByte=%#02x, want 0x47", invoke.HiByte)
	}
	if err := invoke.SetNumRegisters(6); !errors.Is(err, ErrInvalidRegister) {
		t.Fatalf("expected ErrInvalidRegister, got %v", err)
	}

	move := Instruction{Opcode: OpMove}
	if err := move.SetNumRegisters(2); err != nil {
		t.Fatalf("SetNumRegisters(2) on move: %v", err)
	}
	if err := move.SetNumRegisters(3); !errors.Is(err, ErrInvalidRegister) {
		t.Fatalf("expected ErrInvalidRegister, got %v", err)
	}
}
