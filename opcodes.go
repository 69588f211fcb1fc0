// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

// Opcode is the low byte of the first code unit of an instruction.
type Opcode uint8

// Frequently used opcodes.
const (
	OpNop            Opcode = 0x00
	OpMove           Opcode = 0x01
	OpMoveFrom16     Opcode = 0x02
	OpMove16         Opcode = 0x03
	OpMoveResult     Opcode = 0x0a
	OpReturnVoid     Opcode = 0x0e
	OpReturn         Opcode = 0x0f
	OpConst4         Opcode = 0x12
	OpConst16        Opcode = 0x13
	OpConst          Opcode = 0x14
	OpConstWide      Opcode = 0x18
	OpConstString    Opcode = 0x1a
	OpConstClass     Opcode = 0x1c
	OpNewInstance    Opcode = 0x22
	OpFillArrayData  Opcode = 0x26
	OpGoto           Opcode = 0x28
	OpGoto16         Opcode = 0x29
	OpPackedSwitch   Opcode = 0x2b
	OpSparseSwitch   Opcode = 0x2c
	OpAddLong        Opcode = 0x9b
	OpCmpLong        Opcode = 0x31
	OpIfEq           Opcode = 0x32
	OpIfEqz          Opcode = 0x38
	OpIget           Opcode = 0x52
	OpSget           Opcode = 0x60
	OpSput           Opcode = 0x67
	OpInvokeVirtual  Opcode = 0x6e
	OpInvokeDirect   Opcode = 0x70
	OpInvokeStatic   Opcode = 0x71
	OpInvokeRange    Opcode = 0x74
	OpAddIntLit8     Opcode = 0xd8
	OpAddIntLit16    Opcode = 0xd0
	OpExecuteInline  Opcode = 0xee
	OpIgetQuick      Opcode = 0xf2
	OpInvokeVirtualQ Opcode = 0xf8
)

// PseudoKind selects a payload table stored inline in the instruction stream.
type PseudoKind uint8

// Pseudo table kinds, stored in the high byte of a nop code unit.
const (
	PseudoNone         PseudoKind = 0x00
	PseudoPackedSwitch PseudoKind = 0x01
	PseudoSparseSwitch PseudoKind = 0x02
	PseudoFillArray    PseudoKind = 0x03
)

// OpFlags describe control flow and register effects of an opcode.
type OpFlags uint16

// Opcode flags.
const (
	FlagContinue OpFlags = 1 << iota
	FlagThrow
	FlagInvoke
	FlagReturn
	FlagBranch
	FlagSwitch
	FlagWriteReg
	FlagWideR1
	FlagWideR2
	FlagWideR3
)

// Flag combinations used by the format table.
const (
	fA    = FlagContinue
	fB    = FlagContinue | FlagThrow
	fC    = FlagContinue | FlagThrow | FlagInvoke
	fD    = FlagReturn
	fE    = FlagThrow
	fF    = FlagBranch
	fG    = FlagBranch | FlagContinue
	fH    = FlagSwitch | FlagContinue
	fW12  = FlagWideR1 | FlagWideR2
	fW23  = FlagWideR2 | FlagWideR3
	fW123 = FlagWideR1 | FlagWideR2 | FlagWideR3
)

// SpecialKind is the meaning of the extra operand of an instruction.
type SpecialKind uint8

// Special operand kinds.
const (
	SpecialNone SpecialKind = iota
	SpecialConstant
	SpecialTarget
	SpecialString
	SpecialType
	SpecialField
	SpecialMethod
	SpecialInline
	SpecialObject
	SpecialVTable
)

// OpFormat describes the encoding of one opcode.
type OpFormat struct {
	// Name is the mnemonic; empty for unallocated opcodes.
	Name string
	// ID is the Dalvik format id, e.g. "22c". The first character is the
	// register count or 'r' for range formats.
	ID string
	// Size is instruction width in 16-bit code units.
	Size uint8
	// Special is the kind of the extra operand.
	Special SpecialKind
	// SpecialPos is the operand start in nibbles from the start of the
	// instruction (0 = inside the first unit, 4 = second unit).
	SpecialPos uint8
	// SpecialSize is operand width in nibbles.
	SpecialSize uint8
	Flags       OpFlags
}

// Allocated reports whether the opcode exists.
func (f OpFormat) Allocated() bool {
	return f.Name != ""
}

// Format returns the format table entry of op.
func (op Opcode) Format() OpFormat {
	return opFormats[op]
}

// String returns the mnemonic of op.
func (op Opcode) String() string {
	if name := opFormats[op].Name; name != "" {
		return name
	}

	return "unallocated"
}

// opFormats is the Dalvik opcode table including ODEX-only opcodes.
var opFormats = [256]OpFormat{
	0x00: {Name: "nop", ID: "0x", Size: 1, Flags: fA},
	0x01: {Name: "move", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0x02: {Name: "move/from16", ID: "2x", Size: 2, Flags: fA | FlagWriteReg},
	0x03: {Name: "move/16", ID: "2x", Size: 3, Flags: fA | FlagWriteReg},
	0x04: {Name: "move-wide", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | fW12},
	0x05: {Name: "move-wide/from16", ID: "2x", Size: 2, Flags: fA | FlagWriteReg | fW12},
	0x06: {Name: "move-wide/16", ID: "2x", Size: 3, Flags: fA | FlagWriteReg | fW12},
	0x07: {Name: "move-object", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0x08: {Name: "move-object/from16", ID: "2x", Size: 2, Flags: fA | FlagWriteReg},
	0x09: {Name: "move-object/16", ID: "2x", Size: 3, Flags: fA | FlagWriteReg},
	0x0a: {Name: "move-result", ID: "1x", Size: 1, Flags: fA | FlagWriteReg},
	0x0b: {Name: "move-result-wide", ID: "1x", Size: 1, Flags: fA | FlagWriteReg | FlagWideR1},
	0x0c: {Name: "move-result-object", ID: "1x", Size: 1, Flags: fA | FlagWriteReg},
	0x0d: {Name: "move-exception", ID: "1x", Size: 1, Flags: fA | FlagWriteReg},
	0x0e: {Name: "return-void", ID: "0x", Size: 1, Flags: fD},
	0x0f: {Name: "return", ID: "1x", Size: 1, Flags: fD},
	0x10: {Name: "return-wide", ID: "1x", Size: 1, Flags: fD | FlagWideR1},
	0x11: {Name: "return-object", ID: "1x", Size: 1, Flags: fD},
	0x12: {Name: "const/4", ID: "1n", Size: 1, Special: SpecialConstant, SpecialPos: 0, SpecialSize: 1, Flags: fA | FlagWriteReg},
	0x13: {Name: "const/16", ID: "1s", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 4, Flags: fA | FlagWriteReg},
	0x14: {Name: "const", ID: "1i", Size: 3, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 8, Flags: fA | FlagWriteReg},
	0x15: {Name: "const/high16", ID: "1h", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 4, Flags: fA | FlagWriteReg},
	0x16: {Name: "const-wide/16", ID: "1s", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 4, Flags: fA | FlagWriteReg | FlagWideR1},
	0x17: {Name: "const-wide/32", ID: "1i", Size: 3, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 8, Flags: fA | FlagWriteReg | FlagWideR1},
	0x18: {Name: "const-wide", ID: "1l", Size: 5, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 16, Flags: fA | FlagWriteReg | FlagWideR1},
	0x19: {Name: "const-wide/high16", ID: "1h", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 4, Flags: fA | FlagWriteReg | FlagWideR1},
	0x1a: {Name: "const-string", ID: "1c", Size: 2, Special: SpecialString, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0x1b: {Name: "const-string/jumbo", ID: "1c", Size: 3, Special: SpecialString, SpecialPos: 4, SpecialSize: 8, Flags: fB | FlagWriteReg},
	0x1c: {Name: "const-class", ID: "1c", Size: 2, Special: SpecialType, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0x1d: {Name: "monitor-enter", ID: "1x", Size: 1, Flags: fB},
	0x1e: {Name: "monitor-exit", ID: "1x", Size: 1, Flags: fB},
	0x1f: {Name: "check-cast", ID: "1c", Size: 2, Special: SpecialType, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0x20: {Name: "instance-of", ID: "2c", Size: 2, Special: SpecialType, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0x21: {Name: "array-length", ID: "2x", Size: 1, Flags: fB | FlagWriteReg},
	0x22: {Name: "new-instance", ID: "1c", Size: 2, Special: SpecialType, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0x23: {Name: "new-array", ID: "2c", Size: 2, Special: SpecialType, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0x24: {Name: "filled-new-array", ID: "5c", Size: 3, Special: SpecialType, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0x25: {Name: "filled-new-array/range", ID: "rc", Size: 3, Special: SpecialType, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0x26: {Name: "fill-array-data", ID: "1t", Size: 3, Special: SpecialTarget, SpecialPos: 4, SpecialSize: 8, Flags: fA},
	0x27: {Name: "throw", ID: "1x", Size: 1, Flags: fE},
	0x28: {Name: "goto", ID: "0t", Size: 1, Special: SpecialTarget, SpecialPos: 0, SpecialSize: 2, Flags: fF},
	0x29: {Name: "goto/16", ID: "0t", Size: 2, Special: SpecialTarget, SpecialPos: 4, SpecialSize: 4, Flags: fF},
	0x2a: {Name: "goto/32", ID: "0t", Size: 3, Special: SpecialTarget, SpecialPos: 4, SpecialSize: 8, Flags: fF},
	0x2b: {Name: "packed-switch", ID: "1t", Size: 3, Special: SpecialTarget, SpecialPos: 4, SpecialSize: 8, Flags: fH},
	0x2c: {Name: "sparse-switch", ID: "1t", Size: 3, Special: SpecialTarget, SpecialPos: 4, SpecialSize: 8, Flags: fH},
	0x2d: {Name: "cmpl-float", ID: "3x", Size: 2, Flags: fA | FlagWriteReg},
	0x2e: {Name: "cmpg-float", ID: "3x", Size: 2, Flags: fA | FlagWriteReg},
	0x2f: {Name: "cmpl-double", ID: "3x", Size: 2, Flags: fA | FlagWriteReg | fW23},
	0x30: {Name: "cmpg-double", ID: "3x", Size: 2, Flags: fA | FlagWriteReg | fW23},
	0x31: {Name: "cmp-long", ID: "3x", Size: 2, Flags: fA | FlagWriteReg | fW23},
	0x32: {Name: "if-eq", ID: "2t", Size: 2, Special: SpecialTarget, SpecialPos: 4, SpecialSize: 4, Flags: fG},
	0x33: {Name: "if-ne", ID: "2t", Size: 2, Special: SpecialTarget, SpecialPos: 4, SpecialSize: 4, Flags: fG},
	0x34: {Name: "if-lt", ID: "2t", Size: 2, Special: SpecialTarget, SpecialPos: 4, SpecialSize: 4, Flags: fG},
	0x35: {Name: "if-ge", ID: "2t", Size: 2, Special: SpecialTarget, SpecialPos: 4, SpecialSize: 4, Flags: fG},
	0x36: {Name: "if-gt", ID: "2t", Size: 2, Special: SpecialTarget, SpecialPos: 4, SpecialSize: 4, Flags: fG},
	0x37: {Name: "if-le", ID: "2t", Size: 2, Special: SpecialTarget, SpecialPos: 4, SpecialSize: 4, Flags: fG},
	0x38: {Name: "if-eqz", ID: "1t", Size: 2, Special: SpecialTarget, SpecialPos: 4, SpecialSize: 4, Flags: fG},
	0x39: {Name: "if-nez", ID: "1t", Size: 2, Special: SpecialTarget, SpecialPos: 4, SpecialSize: 4, Flags: fG},
	0x3a: {Name: "if-ltz", ID: "1t", Size: 2, Special: SpecialTarget, SpecialPos: 4, SpecialSize: 4, Flags: fG},
	0x3b: {Name: "if-gez", ID: "1t", Size: 2, Special: SpecialTarget, SpecialPos: 4, SpecialSize: 4, Flags: fG},
	0x3c: {Name: "if-gtz", ID: "1t", Size: 2, Special: SpecialTarget, SpecialPos: 4, SpecialSize: 4, Flags: fG},
	0x3d: {Name: "if-lez", ID: "1t", Size: 2, Special: SpecialTarget, SpecialPos: 4, SpecialSize: 4, Flags: fG},
	0x3e: {Name: "", ID: "0x", Size: 1},
	0x3f: {Name: "", ID: "0x", Size: 1},
	0x40: {Name: "", ID: "0x", Size: 1},
	0x41: {Name: "", ID: "0x", Size: 1},
	0x42: {Name: "", ID: "0x", Size: 1},
	0x43: {Name: "", ID: "0x", Size: 1},
	0x44: {Name: "aget", ID: "3x", Size: 2, Flags: fB | FlagWriteReg},
	0x45: {Name: "aget-wide", ID: "3x", Size: 2, Flags: fB | FlagWriteReg | FlagWideR1},
	0x46: {Name: "aget-object", ID: "3x", Size: 2, Flags: fB | FlagWriteReg},
	0x47: {Name: "aget-boolean", ID: "3x", Size: 2, Flags: fB | FlagWriteReg},
	0x48: {Name: "aget-byte", ID: "3x", Size: 2, Flags: fB | FlagWriteReg},
	0x49: {Name: "aget-char", ID: "3x", Size: 2, Flags: fB | FlagWriteReg},
	0x4a: {Name: "aget-short", ID: "3x", Size: 2, Flags: fB | FlagWriteReg},
	0x4b: {Name: "aput", ID: "3x", Size: 2, Flags: fB},
	0x4c: {Name: "aput-wide", ID: "3x", Size: 2, Flags: fB | FlagWideR1},
	0x4d: {Name: "aput-object", ID: "3x", Size: 2, Flags: fB},
	0x4e: {Name: "aput-boolean", ID: "3x", Size: 2, Flags: fB},
	0x4f: {Name: "aput-byte", ID: "3x", Size: 2, Flags: fB},
	0x50: {Name: "aput-char", ID: "3x", Size: 2, Flags: fB},
	0x51: {Name: "aput-short", ID: "3x", Size: 2, Flags: fB},
	0x52: {Name: "iget", ID: "2c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0x53: {Name: "iget-wide", ID: "2c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg | FlagWideR1},
	0x54: {Name: "iget-object", ID: "2c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0x55: {Name: "iget-boolean", ID: "2c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0x56: {Name: "iget-byte", ID: "2c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0x57: {Name: "iget-char", ID: "2c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0x58: {Name: "iget-short", ID: "2c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0x59: {Name: "iput", ID: "2c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0x5a: {Name: "iput-wide", ID: "2c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWideR1},
	0x5b: {Name: "iput-object", ID: "2c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0x5c: {Name: "iput-boolean", ID: "2c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0x5d: {Name: "iput-byte", ID: "2c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0x5e: {Name: "iput-char", ID: "2c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0x5f: {Name: "iput-short", ID: "2c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0x60: {Name: "sget", ID: "1c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0x61: {Name: "sget-wide", ID: "1c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg | FlagWideR1},
	0x62: {Name: "sget-object", ID: "1c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0x63: {Name: "sget-boolean", ID: "1c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0x64: {Name: "sget-byte", ID: "1c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0x65: {Name: "sget-char", ID: "1c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0x66: {Name: "sget-short", ID: "1c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0x67: {Name: "sput", ID: "1c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0x68: {Name: "sput-wide", ID: "1c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWideR1},
	0x69: {Name: "sput-object", ID: "1c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0x6a: {Name: "sput-boolean", ID: "1c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0x6b: {Name: "sput-byte", ID: "1c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0x6c: {Name: "sput-char", ID: "1c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0x6d: {Name: "sput-short", ID: "1c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0x6e: {Name: "invoke-virtual", ID: "5c", Size: 3, Special: SpecialMethod, SpecialPos: 4, SpecialSize: 4, Flags: fC},
	0x6f: {Name: "invoke-super", ID: "5c", Size: 3, Special: SpecialMethod, SpecialPos: 4, SpecialSize: 4, Flags: fC},
	0x70: {Name: "invoke-direct", ID: "5c", Size: 3, Special: SpecialMethod, SpecialPos: 4, SpecialSize: 4, Flags: fC},
	0x71: {Name: "invoke-static", ID: "5c", Size: 3, Special: SpecialMethod, SpecialPos: 4, SpecialSize: 4, Flags: fC},
	0x72: {Name: "invoke-interface", ID: "5c", Size: 3, Special: SpecialMethod, SpecialPos: 4, SpecialSize: 4, Flags: fC},
	0x73: {Name: "", ID: "0x", Size: 1},
	0x74: {Name: "invoke-virtual/range", ID: "rc", Size: 3, Special: SpecialMethod, SpecialPos: 4, SpecialSize: 4, Flags: fC},
	0x75: {Name: "invoke-super/range", ID: "rc", Size: 3, Special: SpecialMethod, SpecialPos: 4, SpecialSize: 4, Flags: fC},
	0x76: {Name: "invoke-direct/range", ID: "rc", Size: 3, Special: SpecialMethod, SpecialPos: 4, SpecialSize: 4, Flags: fC},
	0x77: {Name: "invoke-static/range", ID: "rc", Size: 3, Special: SpecialMethod, SpecialPos: 4, SpecialSize: 4, Flags: fC},
	0x78: {Name: "invoke-interface/range", ID: "rc", Size: 3, Special: SpecialMethod, SpecialPos: 4, SpecialSize: 4, Flags: fC},
	0x79: {Name: "", ID: "0x", Size: 1},
	0x7a: {Name: "", ID: "0x", Size: 1},
	0x7b: {Name: "neg-int", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0x7c: {Name: "not-int", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0x7d: {Name: "neg-long", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | fW12},
	0x7e: {Name: "not-long", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | fW12},
	0x7f: {Name: "neg-float", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0x80: {Name: "neg-double", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | fW12},
	0x81: {Name: "int-to-long", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | FlagWideR1},
	0x82: {Name: "int-to-float", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0x83: {Name: "int-to-double", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | FlagWideR1},
	0x84: {Name: "long-to-int", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | FlagWideR2},
	0x85: {Name: "long-to-float", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | FlagWideR2},
	0x86: {Name: "long-to-double", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | fW12},
	0x87: {Name: "float-to-int", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0x88: {Name: "float-to-long", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | FlagWideR1},
	0x89: {Name: "float-to-double", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | FlagWideR1},
	0x8a: {Name: "double-to-int", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | FlagWideR2},
	0x8b: {Name: "double-to-long", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | fW12},
	0x8c: {Name: "double-to-float", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | FlagWideR2},
	0x8d: {Name: "int-to-byte", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0x8e: {Name: "int-to-char", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0x8f: {Name: "int-to-short", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0x90: {Name: "add-int", ID: "3x", Size: 2, Flags: fA | FlagWriteReg},
	0x91: {Name: "sub-int", ID: "3x", Size: 2, Flags: fA | FlagWriteReg},
	0x92: {Name: "mul-int", ID: "3x", Size: 2, Flags: fA | FlagWriteReg},
	0x93: {Name: "div-int", ID: "3x", Size: 2, Flags: fB | FlagWriteReg},
	0x94: {Name: "rem-int", ID: "3x", Size: 2, Flags: fB | FlagWriteReg},
	0x95: {Name: "and-int", ID: "3x", Size: 2, Flags: fA | FlagWriteReg},
	0x96: {Name: "or-int", ID: "3x", Size: 2, Flags: fA | FlagWriteReg},
	0x97: {Name: "xor-int", ID: "3x", Size: 2, Flags: fA | FlagWriteReg},
	0x98: {Name: "shl-int", ID: "3x", Size: 2, Flags: fA | FlagWriteReg},
	0x99: {Name: "shr-int", ID: "3x", Size: 2, Flags: fA | FlagWriteReg},
	0x9a: {Name: "ushr-int", ID: "3x", Size: 2, Flags: fA | FlagWriteReg},
	0x9b: {Name: "add-long", ID: "3x", Size: 2, Flags: fA | FlagWriteReg | fW123},
	0x9c: {Name: "sub-long", ID: "3x", Size: 2, Flags: fA | FlagWriteReg | fW123},
	0x9d: {Name: "mul-long", ID: "3x", Size: 2, Flags: fA | FlagWriteReg | fW123},
	0x9e: {Name: "div-long", ID: "3x", Size: 2, Flags: fB | FlagWriteReg | fW123},
	0x9f: {Name: "rem-long", ID: "3x", Size: 2, Flags: fB | FlagWriteReg | fW123},
	0xa0: {Name: "and-long", ID: "3x", Size: 2, Flags: fA | FlagWriteReg | fW123},
	0xa1: {Name: "or-long", ID: "3x", Size: 2, Flags: fA | FlagWriteReg | fW123},
	0xa2: {Name: "xor-long", ID: "3x", Size: 2, Flags: fA | FlagWriteReg | fW123},
	0xa3: {Name: "shl-long", ID: "3x", Size: 2, Flags: fA | FlagWriteReg | fW12},
	0xa4: {Name: "shr-long", ID: "3x", Size: 2, Flags: fA | FlagWriteReg | fW12},
	0xa5: {Name: "ushr-long", ID: "3x", Size: 2, Flags: fA | FlagWriteReg | fW12},
	0xa6: {Name: "add-float", ID: "3x", Size: 2, Flags: fA | FlagWriteReg},
	0xa7: {Name: "sub-float", ID: "3x", Size: 2, Flags: fA | FlagWriteReg},
	0xa8: {Name: "mul-float", ID: "3x", Size: 2, Flags: fA | FlagWriteReg},
	0xa9: {Name: "div-float", ID: "3x", Size: 2, Flags: fA | FlagWriteReg},
	0xaa: {Name: "rem-float", ID: "3x", Size: 2, Flags: fA | FlagWriteReg},
	0xab: {Name: "add-double", ID: "3x", Size: 2, Flags: fA | FlagWriteReg | fW123},
	0xac: {Name: "sub-double", ID: "3x", Size: 2, Flags: fA | FlagWriteReg | fW123},
	0xad: {Name: "mul-double", ID: "3x", Size: 2, Flags: fA | FlagWriteReg | fW123},
	0xae: {Name: "div-double", ID: "3x", Size: 2, Flags: fA | FlagWriteReg | fW123},
	0xaf: {Name: "rem-double", ID: "3x", Size: 2, Flags: fA | FlagWriteReg | fW123},
	0xb0: {Name: "add-int/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0xb1: {Name: "sub-int/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0xb2: {Name: "mul-int/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0xb3: {Name: "div-int/2addr", ID: "2x", Size: 1, Flags: fB | FlagWriteReg},
	0xb4: {Name: "rem-int/2addr", ID: "2x", Size: 1, Flags: fB | FlagWriteReg},
	0xb5: {Name: "and-int/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0xb6: {Name: "or-int/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0xb7: {Name: "xor-int/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0xb8: {Name: "shl-int/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0xb9: {Name: "shr-int/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0xba: {Name: "ushr-int/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0xbb: {Name: "add-long/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | fW12},
	0xbc: {Name: "sub-long/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | fW12},
	0xbd: {Name: "mul-long/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | fW12},
	0xbe: {Name: "div-long/2addr", ID: "2x", Size: 1, Flags: fB | FlagWriteReg | fW12},
	0xbf: {Name: "rem-long/2addr", ID: "2x", Size: 1, Flags: fB | FlagWriteReg | fW12},
	0xc0: {Name: "and-long/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | fW12},
	0xc1: {Name: "or-long/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | fW12},
	0xc2: {Name: "xor-long/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | fW12},
	0xc3: {Name: "shl-long/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | FlagWideR1},
	0xc4: {Name: "shr-long/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | FlagWideR1},
	0xc5: {Name: "ushr-long/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | FlagWideR1},
	0xc6: {Name: "add-float/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0xc7: {Name: "sub-float/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0xc8: {Name: "mul-float/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0xc9: {Name: "div-float/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0xca: {Name: "rem-float/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg},
	0xcb: {Name: "add-double/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | fW12},
	0xcc: {Name: "sub-double/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | fW12},
	0xcd: {Name: "mul-double/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | fW12},
	0xce: {Name: "div-double/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | fW12},
	0xcf: {Name: "rem-double/2addr", ID: "2x", Size: 1, Flags: fA | FlagWriteReg | fW12},
	0xd0: {Name: "add-int/lit16", ID: "2s", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 4, Flags: fA | FlagWriteReg},
	0xd1: {Name: "rsub-int/lit16", ID: "2s", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 4, Flags: fA | FlagWriteReg},
	0xd2: {Name: "mul-int/lit16", ID: "2s", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 4, Flags: fA | FlagWriteReg},
	0xd3: {Name: "div-int/lit16", ID: "2s", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0xd4: {Name: "rem-int/lit16", ID: "2s", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0xd5: {Name: "and-int/lit16", ID: "2s", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 4, Flags: fA | FlagWriteReg},
	0xd6: {Name: "or-int/lit16", ID: "2s", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 4, Flags: fA | FlagWriteReg},
	0xd7: {Name: "xor-int/lit16", ID: "2s", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 4, Flags: fA | FlagWriteReg},
	0xd8: {Name: "add-int/lit8", ID: "2b", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 2, Flags: fA | FlagWriteReg},
	0xd9: {Name: "rsub-int/lit8", ID: "2b", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 2, Flags: fA | FlagWriteReg},
	0xda: {Name: "mul-int/lit8", ID: "2b", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 2, Flags: fA | FlagWriteReg},
	0xdb: {Name: "div-int/lit8", ID: "2b", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 2, Flags: fB | FlagWriteReg},
	0xdc: {Name: "rem-int/lit8", ID: "2b", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 2, Flags: fB | FlagWriteReg},
	0xdd: {Name: "and-int/lit8", ID: "2b", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 2, Flags: fA | FlagWriteReg},
	0xde: {Name: "or-int/lit8", ID: "2b", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 2, Flags: fA | FlagWriteReg},
	0xdf: {Name: "xor-int/lit8", ID: "2b", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 2, Flags: fA | FlagWriteReg},
	0xe0: {Name: "shl-int/lit8", ID: "2b", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 2, Flags: fA | FlagWriteReg},
	0xe1: {Name: "shr-int/lit8", ID: "2b", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 2, Flags: fA | FlagWriteReg},
	0xe2: {Name: "ushr-int/lit8", ID: "2b", Size: 2, Special: SpecialConstant, SpecialPos: 4, SpecialSize: 2, Flags: fA | FlagWriteReg},
	0xe3: {Name: "iget-volatile", ID: "2c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0xe4: {Name: "iput-volatile", ID: "2c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0xe5: {Name: "sget-volatile", ID: "1c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0xe6: {Name: "sput-volatile", ID: "1c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0xe7: {Name: "iget-object-volatile", ID: "2c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0xe8: {Name: "iget-wide-volatile", ID: "2c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg | FlagWideR1},
	0xe9: {Name: "iput-wide-volatile", ID: "2c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWideR1},
	0xea: {Name: "sget-wide-volatile", ID: "1c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg | FlagWideR1},
	0xeb: {Name: "sput-wide-volatile", ID: "1c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWideR1},
	0xec: {Name: "breakpoint", ID: "0x", Size: 1},
	0xed: {Name: "throw-verification-error", ID: "0x", Size: 1, Flags: fE},
	0xee: {Name: "execute-inline", ID: "5c", Size: 3, Special: SpecialInline, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0xef: {Name: "execute-inline/range", ID: "rc", Size: 3, Special: SpecialInline, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0xf0: {Name: "object-init/range", ID: "rc", Size: 3, Special: SpecialMethod, SpecialPos: 4, SpecialSize: 4, Flags: fC},
	0xf1: {Name: "return-void-barrier", ID: "0x", Size: 1, Flags: fD},
	0xf2: {Name: "iget-quick", ID: "2cs", Size: 2, Special: SpecialObject, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0xf3: {Name: "iget-wide-quick", ID: "2cs", Size: 2, Special: SpecialObject, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWideR1},
	0xf4: {Name: "iget-object-quick", ID: "2cs", Size: 2, Special: SpecialObject, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0xf5: {Name: "iput-quick", ID: "2cs", Size: 2, Special: SpecialObject, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0xf6: {Name: "iput-wide-quick", ID: "2cs", Size: 2, Special: SpecialObject, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWideR1},
	0xf7: {Name: "iput-object-quick", ID: "2cs", Size: 2, Special: SpecialObject, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0xf8: {Name: "invoke-virtual-quick", ID: "5ms", Size: 3, Special: SpecialVTable, SpecialPos: 4, SpecialSize: 4, Flags: fC},
	0xf9: {Name: "invoke-virtual-quick/range", ID: "rms", Size: 3, Special: SpecialVTable, SpecialPos: 4, SpecialSize: 4, Flags: fC},
	0xfa: {Name: "invoke-super-quick", ID: "5ms", Size: 3, Special: SpecialVTable, SpecialPos: 4, SpecialSize: 4, Flags: fC},
	0xfb: {Name: "invoke-super-quick/range", ID: "rms", Size: 3, Special: SpecialVTable, SpecialPos: 4, SpecialSize: 4, Flags: fC},
	0xfc: {Name: "iput-object-volatile", ID: "2c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0xfd: {Name: "sget-object-volatile", ID: "1c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB | FlagWriteReg},
	0xfe: {Name: "sput-object-volatile", ID: "1c", Size: 2, Special: SpecialField, SpecialPos: 4, SpecialSize: 4, Flags: fB},
	0xff: {Name: "", ID: "0x", Size: 1},
}
