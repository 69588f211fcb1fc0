// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/woozymasta/pathrules"
)

func TestEncode_RoundTripIsStable(t *testing.T) {
	t.Parallel()

	first := encodeT(t, sampleFile())
	decoded := decodeT(t, first)
	second := encodeT(t, decoded)
	require.Equal(t, first, second, "re-encoding a decoded file must be byte identical")

	again := decodeT(t, second)
	require.Equal(t, decoded.Classes, again.Classes)
}

func TestEncode_DecodedModel(t *testing.T) {
	t.Parallel()

	f := decodeT(t, encodeT(t, sampleFile()))
	require.Len(t, f.Classes, 3)

	foo := f.Class("LFoo;")
	require.NotNil(t, foo)
	require.Equal(t, "LBase;", foo.SuperClass)
	require.Equal(t, []string{"LIface;"}, foo.Interfaces)
	require.Equal(t, "Foo.java", foo.SourceFile)
	require.Equal(t, []Value{{Type: ValueInt, Int: 7}}, foo.StaticValues)

	require.Len(t, foo.Annotations, 1)
	tag := foo.Annotations[0]
	require.Equal(t, tagType, tag.Type)
	require.Equal(t, VisibilityRuntime, tag.Visibility)
	names := make([]string, 0, len(tag.Elements))
	for _, el := range tag.Elements {
		names = append(names, el.Name)
	}
	require.Equal(t, []string{"kind", "names", "nested", "value"}, names)

	require.Len(t, foo.InstanceFields, 1)
	require.Equal(t, []Annotation{{Visibility: VisibilityBuild, Type: nonNullType}}, foo.InstanceFields[0].Annotations)

	require.Len(t, foo.VirtualMethods, 2)
	run := foo.VirtualMethods[0]
	require.Equal(t, "run", run.Name)
	require.NotNil(t, run.Code)

	insns := run.Code.Insns
	require.Len(t, insns, 7)
	require.Equal(t, "hello", insns[0].String)
	require.Equal(t, FieldRef{Class: "LFoo;", Name: "name", Type: stringClass}, insns[1].Field)
	require.Equal(t, int64(3), insns[2].Constant)
	require.Equal(t, int32(5), insns[3].Target)
	require.Equal(t, PseudoPackedSwitch, insns[6].Pseudo())
	require.Equal(t, int32(1), insns[6].FirstKey)
	require.Equal(t, []int32{3, 3, 3}, insns[6].Targets)

	require.Len(t, run.Code.Tries, 1)
	require.Equal(t, []Handler{{Type: "Ljava/lang/Exception;", Addr: 8}}, run.Code.Tries[0].Handlers)
	require.Equal(t, &Handler{Addr: 8}, run.Code.Tries[0].CatchAll)

	require.NotNil(t, run.Code.Debug)
	require.Equal(t, uint32(10), run.Code.Debug.LineStart)
	require.Len(t, run.Code.Debug.Insns, 6)
	require.Equal(t, "TT;", run.Code.Debug.Insns[3].Signature)

	set := foo.VirtualMethods[1]
	require.Equal(t, "set", set.Name)
	require.Equal(t, []string{stringClass}, set.Proto.Parameters)
	require.Len(t, set.ParameterAnnotations, 1)
	require.Equal(t, nonNullType, set.ParameterAnnotations[0][0].Type)

	iface := f.Class("LIface;")
	require.NotNil(t, iface)
	require.Nil(t, iface.VirtualMethods[0].Code)
}

func TestEncode_SharedCodeIsWrittenOnce(t *testing.T) {
	t.Parallel()

	body := func() *Code {
		return &Code{
			RegistersSize: 1,
			InsSize:       1,
			Debug:         &DebugInfo{LineStart: 3},
			Insns:         []Instruction{{Opcode: OpReturnVoid}},
		}
	}
	f := &File{Classes: []*Class{
		{Name: "LA;", SuperClass: objectClass, VirtualMethods: []Method{{Name: "m", Proto: voidProto, Code: body()}}},
		{Name: "LB;", SuperClass: objectClass, VirtualMethods: []Method{{Name: "m", Proto: voidProto, Code: body()}}},
	}}

	out, res, err := EncodeWithOptions(f, EncodeOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, res.DuplicateItems, "debug info and code should both merge")

	entries := mapEntries(t, out)
	require.Equal(t, uint32(1), entries[kindCode].size)
	require.Equal(t, uint32(1), entries[kindDebugInfo].size)
	require.Equal(t, uint32(2), entries[kindClassData].size)

	decoded := decodeT(t, out)
	for _, c := range decoded.Classes {
		require.NotNil(t, c.VirtualMethods[0].Code, c.Name)
		require.Equal(t, uint32(3), c.VirtualMethods[0].Code.Debug.LineStart)
	}
}

func TestEncode_SuperclassWrittenFirst(t *testing.T) {
	t.Parallel()

	f := &File{Classes: []*Class{
		{Name: "LB;", SuperClass: "LA;", Interfaces: []string{"LI;"}},
		{Name: "LA;", SuperClass: objectClass},
		{Name: "LI;", SuperClass: objectClass, AccessFlags: AccInterface | AccAbstract},
	}}

	decoded := decodeT(t, encodeT(t, f))
	got := make([]string, 0, len(decoded.Classes))
	for _, c := range decoded.Classes {
		got = append(got, c.Name)
	}
	require.Equal(t, []string{"LA;", "LI;", "LB;"}, got)
}

func TestEncode_ClassCycle(t *testing.T) {
	t.Parallel()

	f := &File{Classes: []*Class{
		{Name: "LA;", SuperClass: "LB;"},
		{Name: "LB;", SuperClass: "LA;"},
	}}

	_, err := Encode(f)
	if !errors.Is(err, ErrStructuralInconsistency) {
		t.Fatalf("expected ErrStructuralInconsistency, got %v", err)
	}
}

func TestEncode_DuplicateClass(t *testing.T) {
	t.Parallel()

	f := &File{Classes: []*Class{{Name: "LA;"}, {Name: "LA;"}}}
	if _, err := Encode(f); !errors.Is(err, ErrStructuralInconsistency) {
		t.Fatalf("expected ErrStructuralInconsistency, got %v", err)
	}
}

func TestEncode_NilInputs(t *testing.T) {
	t.Parallel()

	if _, err := Encode(nil); !errors.Is(err, ErrNilFile) {
		t.Fatalf("Encode(nil): expected ErrNilFile, got %v", err)
	}
	if _, err := Write(context.Background(), nil, &File{}, EncodeOptions{}); !errors.Is(err, ErrNilWriter) {
		t.Fatalf("Write(nil writer): expected ErrNilWriter, got %v", err)
	}
}

func TestEncode_EmptyFile(t *testing.T) {
	t.Parallel()

	out := encodeT(t, &File{})
	entries := mapEntries(t, out)
	require.Len(t, entries, 2)
	require.Equal(t, uint32(headerSize), entries[kindMapList].offset)
	require.Len(t, out, headerSize+4+2*12)

	decoded := decodeT(t, out)
	require.Empty(t, decoded.Classes)
}

func TestEncode_HeaderLayout(t *testing.T) {
	t.Parallel()

	out := encodeT(t, sampleFile())
	require.Equal(t, []byte("dex\n035\x00"), out[:8])
	require.NoError(t, verifyChecksum(out))
	require.NoError(t, verifySignature(out))

	entries := mapEntries(t, out)
	require.Equal(t, uint32(headerSize), entries[kindStringID].offset)
	for kind, m := range entries {
		if kind.alignment() == 4 {
			require.Zero(t, m.offset%4, "kind 0x%04x at 0x%x", uint16(kind), m.offset)
		}
	}
}

func TestEncode_OperandOverflowWarns(t *testing.T) {
	t.Parallel()

	f := &File{Classes: []*Class{{
		Name:       "LA;",
		SuperClass: objectClass,
		DirectMethods: []Method{{
			Name:  "m",
			Proto: voidProto,
			Code: &Code{
				RegistersSize: 1,
				Insns: []Instruction{
					{Opcode: OpConst4, Constant: 100},
					{Opcode: OpReturnVoid},
				},
			},
		}},
	}}}

	var seen []Warning
	_, res, err := EncodeWithOptions(f, EncodeOptions{OnWarning: func(w Warning) { seen = append(seen, w) }})
	require.NoError(t, err)
	require.True(t, res.Degraded)
	require.Len(t, res.Warnings, 1)
	require.ErrorIs(t, res.Warnings[0], ErrOperandOverflow)
	require.Equal(t, "LA;->m", res.Warnings[0].Item)
	require.Len(t, seen, 1)

	_, _, err = EncodeWithOptions(f, EncodeOptions{Strict: true})
	require.ErrorIs(t, err, ErrOperandOverflow)
}

func TestEncode_ClassFilter(t *testing.T) {
	t.Parallel()

	var done []string
	out, res, err := EncodeWithOptions(sampleFile(), EncodeOptions{
		Classes: []pathrules.Rule{
			{Action: pathrules.ActionExclude, Pattern: "Iface"},
		},
		OnClassDone: func(name string) { done = append(done, name) },
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.Classes)
	require.Equal(t, 1, res.SkippedClasses)
	require.Equal(t, []string{"LBase;", "LFoo;"}, done)

	decoded := decodeT(t, out)
	require.Nil(t, decoded.Class("LIface;"))
	require.Equal(t, []string{"LIface;"}, decoded.Class("LFoo;").Interfaces)
}

func TestEncode_InvalidString(t *testing.T) {
	t.Parallel()

	f := &File{Classes: []*Class{{Name: "LA;", SourceFile: "bad\x00name"}}}
	if _, err := Encode(f); !errors.Is(err, ErrStructuralInconsistency) {
		t.Fatalf("expected ErrStructuralInconsistency, got %v", err)
	}
}

func TestWrite_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	if _, err := Write(ctx, &buf, sampleFile(), EncodeOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("canceled write produced %d bytes", buf.Len())
	}
}

func TestWriteFile_OpenRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "classes.dex")
	res, err := WriteFile(path, sampleFile(), EncodeOptions{})
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != res.FileSize {
		t.Fatalf("file size=%d, result FileSize=%d", info.Size(), res.FileSize)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(f.Classes) != 3 {
		t.Fatalf("len(Classes)=%d, want 3", len(f.Classes))
	}
}

func TestEncode_StaticValuesFollowFields(t *testing.T) {
	t.Parallel()

	f := &File{Classes: []*Class{{
		Name:       "LA;",
		SuperClass: objectClass,
		StaticFields: []Field{
			{AccessFlags: AccStatic, Name: "b", Type: "I"},
			{AccessFlags: AccStatic, Name: "a", Type: "I"},
		},
		StaticValues: []Value{{Type: ValueInt, Int: 1}, {Type: ValueInt, Int: 2}},
	}}}

	c := decodeT(t, encodeT(t, f)).Classes[0]
	require.Len(t, c.StaticValues, 2)

	got := make(map[string]Value, len(c.StaticFields))
	for i, field := range c.StaticFields {
		got[field.Name] = c.StaticValues[i]
	}
	require.Equal(t, Value{Type: ValueInt, Int: 1}, got["b"])
	require.Equal(t, Value{Type: ValueInt, Int: 2}, got["a"])
}

func TestEncode_StaticValuesZeroFill(t *testing.T) {
	t.Parallel()

	f := &File{Classes: []*Class{{
		Name:       "LA;",
		SuperClass: objectClass,
		StaticFields: []Field{
			{AccessFlags: AccStatic, Name: "b", Type: "I"},
			{AccessFlags: AccStatic, Name: "a", Type: "Z"},
		},
		StaticValues: []Value{{Type: ValueInt, Int: 5}},
	}}}

	c := decodeT(t, encodeT(t, f)).Classes[0]
	require.Equal(t, "a", c.StaticFields[0].Name)
	require.Equal(t, []Value{{Type: ValueBoolean}, {Type: ValueInt, Int: 5}}, c.StaticValues)
}

func TestEncode_TooManyStaticValues(t *testing.T) {
	t.Parallel()

	f := &File{Classes: []*Class{{
		Name:         "LA;",
		SuperClass:   objectClass,
		StaticFields: []Field{{AccessFlags: AccStatic, Name: "a", Type: "I"}},
		StaticValues: []Value{{Type: ValueInt, Int: 1}, {Type: ValueInt, Int: 2}},
	}}}

	if _, err := Encode(f); !errors.Is(err, ErrStructuralInconsistency) {
		t.Fatalf("expected ErrStructuralInconsistency, got %v", err)
	}
}

func TestEncode_ParameterAnnotationCount(t *testing.T) {
	t.Parallel()

	f := sampleFile()
	set := &f.Classes[2].VirtualMethods[1]
	set.ParameterAnnotations = append(set.ParameterAnnotations, nil, nil)

	if _, err := Encode(f); !errors.Is(err, ErrStructuralInconsistency) {
		t.Fatalf("expected ErrStructuralInconsistency, got %v", err)
	}
}
