// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

// AccessFlags are class, field and method access flags.
type AccessFlags uint32

// Access flag bits. Some bits are shared between fields and methods.
const (
	AccPublic               AccessFlags = 0x00001
	AccPrivate              AccessFlags = 0x00002
	AccProtected            AccessFlags = 0x00004
	AccStatic               AccessFlags = 0x00008
	AccFinal                AccessFlags = 0x00010
	AccSynchronized         AccessFlags = 0x00020
	AccVolatile             AccessFlags = 0x00040 // fields
	AccBridge               AccessFlags = 0x00040 // methods
	AccTransient            AccessFlags = 0x00080 // fields
	AccVarargs              AccessFlags = 0x00080 // methods
	AccNative               AccessFlags = 0x00100
	AccInterface            AccessFlags = 0x00200
	AccAbstract             AccessFlags = 0x00400
	AccStrict               AccessFlags = 0x00800
	AccSynthetic            AccessFlags = 0x01000
	AccAnnotation           AccessFlags = 0x02000
	AccEnum                 AccessFlags = 0x04000
	AccConstructor          AccessFlags = 0x10000
	AccDeclaredSynchronized AccessFlags = 0x20000
)

// Has reports whether all bits of flag are set.
func (a AccessFlags) Has(flag AccessFlags) bool {
	return a&flag == flag
}

// Visibility is the retention of an annotation.
type Visibility uint8

// Annotation visibilities.
const (
	VisibilityBuild   Visibility = 0x00
	VisibilityRuntime Visibility = 0x01
	VisibilitySystem  Visibility = 0x02
	// VisibilityNone marks annotations embedded in encoded values.
	VisibilityNone Visibility = 0xFF
)

// ValueType is the tag of an encoded value.
type ValueType uint8

// Encoded value types.
const (
	ValueByte       ValueType = 0x00
	ValueShort      ValueType = 0x02
	ValueChar       ValueType = 0x03
	ValueInt        ValueType = 0x04
	ValueLong       ValueType = 0x06
	ValueFloat      ValueType = 0x10
	ValueDouble     ValueType = 0x11
	ValueString     ValueType = 0x17
	ValueTypeRef    ValueType = 0x18
	ValueField      ValueType = 0x19
	ValueMethod     ValueType = 0x1a
	ValueEnum       ValueType = 0x1b
	ValueArray      ValueType = 0x1c
	ValueAnnotation ValueType = 0x1d
	ValueNull       ValueType = 0x1e
	ValueBoolean    ValueType = 0x1f
)

// DebugOpcode is a debug info state machine opcode.
type DebugOpcode uint8

// Debug info opcodes. Values from DbgFirstSpecial up are special opcodes.
const (
	DbgEndSequence        DebugOpcode = 0x00
	DbgAdvancePC          DebugOpcode = 0x01
	DbgAdvanceLine        DebugOpcode = 0x02
	DbgStartLocal         DebugOpcode = 0x03
	DbgStartLocalExtended DebugOpcode = 0x04
	DbgEndLocal           DebugOpcode = 0x05
	DbgRestartLocal       DebugOpcode = 0x06
	DbgSetPrologueEnd     DebugOpcode = 0x07
	DbgSetEpilogueBegin   DebugOpcode = 0x08
	DbgSetFile            DebugOpcode = 0x09
	DbgFirstSpecial       DebugOpcode = 0x0a
)

// OdexFlags are optimization flags of an ODEX file.
type OdexFlags uint32

// ODEX flag bits.
const (
	OdexVerified    OdexFlags = 1 << 0
	OdexBig         OdexFlags = 1 << 1
	OdexFields      OdexFlags = 1 << 2
	OdexInvocations OdexFlags = 1 << 3
)

// AuxFormat selects the layout of the ODEX auxiliary section.
type AuxFormat uint8

// Auxiliary section layouts.
const (
	// AuxFormatOld is a bare class lookup table preceded by a zero word.
	AuxFormatOld AuxFormat = 0
	// AuxFormatNew is a list of tagged chunks ending in an AEND tag.
	AuxFormatNew AuxFormat = 1
)
