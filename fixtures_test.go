// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import (
	"encoding/binary"
	"testing"
)

const (
	objectClass = "Ljava/lang/Object;"
	stringClass = "Ljava/lang/String;"
	tagType     = "Lcom/example/Tag;"
	nonNullType = "Lcom/example/NonNull;"
)

var (
	voidProto  = Prototype{ReturnType: "V"}
	objectInit = MethodRef{Class: objectClass, Name: "<init>", Proto: voidProto}
)

// constructorCode returns "invoke-direct {v0}, super.<init>; return-void".
func constructorCode(super MethodRef) *Code {
	return &Code{
		RegistersSize: 1,
		InsSize:       1,
		OutsSize:      1,
		Insns: []Instruction{
			{Opcode: OpInvokeDirect, HiByte: 0x10, Method: super},
			{Opcode: OpReturnVoid},
		},
	}
}

// runCode exercises string, field and branch operands, a payload table,
// a try block and debug info.
func runCode() *Code {
	return &Code{
		RegistersSize: 4,
		InsSize:       1,
		OutsSize:      0,
		Debug: &DebugInfo{
			LineStart: 10,
			Insns: []DebugInstruction{
				{Opcode: DbgAdvancePC, AddrDiff: 2},
				{Opcode: DbgAdvanceLine, LineDiff: -1},
				{Opcode: DbgStartLocal, Register: 0, Name: "s", Type: stringClass},
				{Opcode: DbgStartLocalExtended, Register: 2, Name: "v", Type: stringClass, Signature: "TT;"},
				{Opcode: DbgSetFile, Name: "Other.java"},
				{Opcode: DbgFirstSpecial + 3},
			},
		},
		Tries: []TryBlock{{
			StartAddr: 0,
			InsnCount: 5,
			Handlers:  []Handler{{Type: "Ljava/lang/Exception;", Addr: 8}},
			CatchAll:  &Handler{Addr: 8},
		}},
		Insns: []Instruction{
			{Opcode: OpConstString, HiByte: 0, String: "hello"},                                              // 0
			{Opcode: OpIget, HiByte: 0x32, Field: FieldRef{Class: "LFoo;", Name: "name", Type: stringClass}}, // 2
			{Opcode: OpConst4, HiByte: 0x01, Constant: 3},                                                    // 4
			{Opcode: OpPackedSwitch, HiByte: 0x01, Target: 5},                                                // 5
			{Opcode: OpReturnVoid},                                                                           // 8
			{Opcode: OpNop},                                                                                  // 9
			{Opcode: OpNop, HiByte: uint8(PseudoPackedSwitch), FirstKey: 1, Targets: []int32{3, 3, 3}},       // 10
		},
	}
}

// sampleFile builds a small three-class file with members, annotations and code.
func sampleFile() *File {
	base := &Class{
		Name:        "LBase;",
		AccessFlags: AccPublic | AccAbstract,
		SuperClass:  objectClass,
		SourceFile:  "Base.java",
		DirectMethods: []Method{{
			AccessFlags: AccPublic | AccConstructor,
			Name:        "<init>",
			Proto:       voidProto,
			Code:        constructorCode(objectInit),
		}},
	}

	iface := &Class{
		Name:        "LIface;",
		AccessFlags: AccPublic | AccInterface | AccAbstract,
		SuperClass:  objectClass,
		VirtualMethods: []Method{{
			AccessFlags: AccPublic | AccAbstract,
			Name:        "run",
			Proto:       voidProto,
		}},
	}

	foo := &Class{
		Name:        "LFoo;",
		AccessFlags: AccPublic,
		SuperClass:  "LBase;",
		Interfaces:  []string{"LIface;"},
		SourceFile:  "Foo.java",
		Annotations: []Annotation{{
			Visibility: VisibilityRuntime,
			Type:       tagType,
			Elements: []AnnotationElement{
				{Name: "value", Value: Value{Type: ValueString, String: "foo"}},
				{Name: "names", Value: Value{Type: ValueArray, Array: []Value{
					{Type: ValueString, String: "a"},
					{Type: ValueInt, Int: -1},
				}}},
				{Name: "kind", Value: Value{Type: ValueTypeRef, String: "LFoo;"}},
				{Name: "nested", Value: Value{Type: ValueAnnotation, Annotation: &Annotation{
					Visibility: VisibilityNone,
					Type:       nonNullType,
				}}},
			},
		}},
		StaticValues: []Value{{Type: ValueInt, Int: 7}},
		StaticFields: []Field{{
			AccessFlags: AccPublic | AccStatic | AccFinal,
			Type:        "I",
			Name:        "COUNT",
		}},
		InstanceFields: []Field{{
			AccessFlags: AccPrivate,
			Type:        stringClass,
			Name:        "name",
			Annotations: []Annotation{{Visibility: VisibilityBuild, Type: nonNullType}},
		}},
		DirectMethods: []Method{{
			AccessFlags: AccPublic | AccConstructor,
			Name:        "<init>",
			Proto:       voidProto,
			Code:        constructorCode(MethodRef{Class: "LBase;", Name: "<init>", Proto: voidProto}),
		}},
		VirtualMethods: []Method{
			{
				AccessFlags: AccPublic,
				Name:        "run",
				Proto:       voidProto,
				Code:        runCode(),
			},
			{
				AccessFlags: AccPublic,
				Name:        "set",
				Proto:       Prototype{ReturnType: "V", Parameters: []string{stringClass}},
				Annotations: []Annotation{{Visibility: VisibilitySystem, Type: tagType}},
				ParameterAnnotations: [][]Annotation{
					{{Visibility: VisibilityRuntime, Type: nonNullType}},
				},
				Code: &Code{
					RegistersSize: 2,
					InsSize:       2,
					Insns:         []Instruction{{Opcode: OpReturnVoid}},
				},
			},
		},
	}

	return &File{Classes: []*Class{base, iface, foo}}
}

// mapEntries parses the map list of a DEX image.
func mapEntries(t *testing.T, image []byte) map[itemKind]mapEntry {
	t.Helper()

	le := binary.LittleEndian
	off := le.Uint32(image[52:])
	n := le.Uint32(image[off:])
	out := make(map[itemKind]mapEntry, n)
	for i := uint32(0); i < n; i++ {
		p := off + 4 + i*12
		kind := itemKind(le.Uint16(image[p:]))
		out[kind] = mapEntry{kind: kind, size: le.Uint32(image[p+4:]), offset: le.Uint32(image[p+8:])}
	}

	return out
}

// encodeT encodes f and fails the test on error.
func encodeT(t *testing.T, f *File) []byte {
	t.Helper()

	out, err := Encode(f)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	return out
}

// decodeT decodes data and fails the test on error.
func decodeT(t *testing.T, data []byte) *File {
	t.Helper()

	f, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	return f
}
