// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import (
	"errors"
	"testing"

	"golang.org/x/exp/slices"
)

// bytecodePool returns a finalized pool and matching decode tables.
func bytecodePool() (*constantPool, *tables) {
	p := &constantPool{}
	p.addString("hello")
	p.addString("world")
	p.addType("LFoo;")
	p.addField(FieldRef{Class: "LFoo;", Name: "x", Type: "I"})
	p.addMethod(MethodRef{Class: "LFoo;", Name: "run", Proto: Prototype{ReturnType: "V"}})
	p.finalize()

	return p, &tables{
		strings: p.strings,
		types:   p.types,
		protos:  p.protos,
		fields:  p.fields,
		methods: p.methods,
	}
}

func TestDecodeInstruction_Operands(t *testing.T) {
	t.Parallel()

	_, tab := bytecodePool()
	tests := []struct {
		name  string
		units []uint16
		check func(t *testing.T, insn Instruction)
	}{
		{
			name:  "const/4 negative nibble",
			units: []uint16{0xe112},
			check: func(t *testing.T, insn Instruction) {
				if insn.Constant != -2 {
					t.Fatalf("Constant=%d, want -2", insn.Constant)
				}
			},
		},
		{
			name:  "const/16",
			units: []uint16{0x0013, 0xffff},
			check: func(t *testing.T, insn Instruction) {
				if insn.Constant != -1 {
					t.Fatalf("Constant=%d, want -1", insn.Constant)
				}
			},
		},
		{
			name:  "const-wide",
			units: []uint16{0x0018, 0x0001, 0x0000, 0x0000, 0x8000},
			check: func(t *testing.T, insn Instruction) {
				if want := int64(-1 << 63) | 1; insn.Constant != want {
					t.Fatalf("Constant=%#x, want %#x", insn.Constant, want)
				}
			},
		},
		{
			name:  "goto backwards",
			units: []uint16{0xfd28},
			check: func(t *testing.T, insn Instruction) {
				if insn.Target != -3 {
					t.Fatalf("Target=%d, want -3", insn.Target)
				}
			},
		},
		{
			name:  "const-string",
			units: []uint16{0x001a, 0x0001},
			check: func(t *testing.T, insn Instruction) {
				if insn.String != tab.strings[1] {
					t.Fatalf("String=%q, want %q", insn.String, tab.strings[1])
				}
			},
		},
		{
			name:  "invoke-virtual",
			units: []uint16{0x106e, 0x0000, 0x0000},
			check: func(t *testing.T, insn Instruction) {
				if insn.Method.Name != "run" || insn.Method.Class != "LFoo;" {
					t.Fatalf("Method=%+v", insn.Method)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			insn, width, err := decodeInstruction(tt.units, tab)
			if err != nil {
				t.Fatalf("decodeInstruction: %v", err)
			}
			if width != len(tt.units) {
				t.Fatalf("width=%d, want %d", width, len(tt.units))
			}
			tt.check(t, insn)
		})
	}
}

func TestDecodeInstruction_Errors(t *testing.T) {
	t.Parallel()

	_, tab := bytecodePool()
	tests := []struct {
		name  string
		units []uint16
		want  error
	}{
		{name: "unallocated", units: []uint16{0x003e}, want: ErrStructuralInconsistency},
		{name: "truncated", units: []uint16{0x0014, 0x0001}, want: ErrOutOfBounds},
		{name: "string index", units: []uint16{0x001a, 0x0009}, want: ErrIndexTooLarge},
		{name: "truncated payload", units: []uint16{0x0100, 0x0003, 0, 0}, want: ErrOutOfBounds},
		{name: "unknown payload", units: []uint16{0x0400, 0x0000}, want: ErrStructuralInconsistency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, _, err := decodeInstruction(tt.units, tab); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestInstructions_RoundTrip(t *testing.T) {
	t.Parallel()

	p, tab := bytecodePool()
	units := []uint16{
		0x001a, 0x0000,         // const-string v0, string@0
		0x0152, 0x0000,         // iget v1, v0, field@0
		0xe112,                 // const/4 v1, -2
		0x106e, 0x0000, 0x0000, // invoke-virtual {v0}, method@0
		0x012b, 0x0006, 0x0000, // packed-switch v1, +6
		0x000e,                 // return-void
		0x0000,                 // nop
		0x0000,                 // nop
		0x0100, 0x0003, 0x0005, 0x0000, 0xfffd, 0xffff, 0x0003, 0x0000, 0x0004, 0x0000,
		0x0300, 0x0001, 0x0003, 0x0000, 0x0201, 0x0003,
		0x0200, 0x0002, 0x0001, 0x0000, 0x000a, 0x0000, 0x0002, 0x0000, 0x0004, 0x0000,
	}

	insns, err := decodeInstructions(units, tab)
	if err != nil {
		t.Fatalf("decodeInstructions: %v", err)
	}
	if len(insns) != 11 {
		t.Fatalf("len(insns)=%d, want 11", len(insns))
	}

	packed := insns[8]
	if packed.Pseudo() != PseudoPackedSwitch || packed.FirstKey != 5 {
		t.Fatalf("packed-switch payload=%+v", packed)
	}
	if !slices.Equal(packed.Targets, []int32{-3, 3, 4}) {
		t.Fatalf("packed targets=%v", packed.Targets)
	}

	fill := insns[9]
	if fill.Pseudo() != PseudoFillArray || !slices.Equal(fill.Data, []byte{0x01, 0x02, 0x03}) {
		t.Fatalf("fill-array-data payload=%+v", fill)
	}

	sparse := insns[10]
	if !slices.Equal(sparse.Keys, []int32{1, 10}) || !slices.Equal(sparse.Targets, []int32{2, 4}) {
		t.Fatalf("sparse-switch payload=%+v", sparse)
	}

	enc := insnEncoder{pool: p, diag: newDiagnostics(nil, nil, true)}
	got, err := enc.encode(nil, insns)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !slices.Equal(got, units) {
		t.Fatalf("re-encoded units differ:\n got %04x\nwant %04x", got, units)
	}

	again, err := decodeInstructions(got, tab)
	if err != nil {
		t.Fatalf("decode again: %v", err)
	}
	if again[8].FirstKey != packed.FirstKey || !slices.Equal(again[8].Targets, packed.Targets) {
		t.Fatalf("packed-switch changed: %+v", again[8])
	}
}

func TestInstructionWidth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		insn Instruction
		want int
	}{
		{insn: Instruction{Opcode: OpReturnVoid}, want: 1},
		{insn: Instruction{Opcode: OpConstWide}, want: 5},
		{insn: Instruction{Opcode: OpNop, HiByte: 1, Targets: make([]int32, 3)}, want: 10},
		{insn: Instruction{Opcode: OpNop, HiByte: 2, Keys: make([]int32, 2), Targets: make([]int32, 2)}, want: 10},
		{insn: Instruction{Opcode: OpNop, HiByte: 3, ElementWidth: 1, ElementCount: 3, Data: make([]byte, 3)}, want: 6},
	}

	for _, tt := range tests {
		if got := tt.insn.Width(); got != tt.want {
			t.Fatalf("%s width=%d, want %d", tt.insn.Opcode, got, tt.want)
		}
	}
}

func TestEncodeInstruction_ZeroesUnusedHighByte(t *testing.T) {
	t.Parallel()

	p, _ := bytecodePool()
	enc := insnEncoder{pool: p, diag: newDiagnostics(nil, nil, true)}
	got, err := enc.encode(nil, []Instruction{{Opcode: OpReturnVoid, HiByte: 0x55}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !slices.Equal(got, []uint16{0x000e}) {
		t.Fatalf("units=%04x, want [000e]", got)
	}
}
