// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import (
	"errors"
	"testing"

	"golang.org/x/exp/slices"
)

func TestConstantPool_Finalize(t *testing.T) {
	t.Parallel()

	var p constantPool
	p.addString("b")
	p.addString("a")
	p.addString("b")
	p.addMethod(MethodRef{Class: "LFoo;", Name: "run", Proto: Prototype{ReturnType: "V"}})
	p.finalize()

	wantStrings := []string{"LFoo;", "V", "a", "b", "run"}
	if !slices.Equal(p.strings, wantStrings) {
		t.Fatalf("strings=%q, want %q", p.strings, wantStrings)
	}
	if want := []string{"LFoo;", "V"}; !slices.Equal(p.types, want) {
		t.Fatalf("types=%q, want %q", p.types, want)
	}
	if len(p.protos) != 1 || len(p.methods) != 1 {
		t.Fatalf("protos=%d methods=%d, want 1 and 1", len(p.protos), len(p.methods))
	}

	idx, err := p.stringIndex("run")
	if err != nil || idx != 4 {
		t.Fatalf("stringIndex(run)=%d, %v; want 4", idx, err)
	}
	if _, err := p.typeIndex("LBar;"); !errors.Is(err, ErrStructuralInconsistency) {
		t.Fatalf("expected ErrStructuralInconsistency for unknown type, got %v", err)
	}
}

func TestConstantPool_ProtoOrder(t *testing.T) {
	t.Parallel()

	var p constantPool
	p.addProto(Prototype{ReturnType: "V", Parameters: []string{"I", "J"}})
	p.addProto(Prototype{ReturnType: "V", Parameters: []string{"I"}})
	p.addProto(Prototype{ReturnType: "I"})
	p.addProto(Prototype{ReturnType: "V"})
	p.addProto(Prototype{ReturnType: "V", Parameters: []string{"I"}})
	p.finalize()

	want := []string{"I", "V", "VI", "VIJ"}
	got := make([]string, 0, len(p.protos))
	for _, proto := range p.protos {
		got = append(got, proto.Shorty())
	}
	if !slices.Equal(got, want) {
		t.Fatalf("proto order=%q, want %q", got, want)
	}
}

func TestConstantPool_MemberOrder(t *testing.T) {
	t.Parallel()

	var p constantPool
	p.addField(FieldRef{Class: "LB;", Name: "x", Type: "I"})
	p.addField(FieldRef{Class: "LA;", Name: "y", Type: "I"})
	p.addField(FieldRef{Class: "LA;", Name: "x", Type: "J"})
	p.addField(FieldRef{Class: "LA;", Name: "x", Type: "I"})
	p.finalize()

	want := []FieldRef{
		{Class: "LA;", Name: "x", Type: "I"},
		{Class: "LA;", Name: "x", Type: "J"},
		{Class: "LA;", Name: "y", Type: "I"},
		{Class: "LB;", Name: "x", Type: "I"},
	}
	if !slices.Equal(p.fields, want) {
		t.Fatalf("fields=%v, want %v", p.fields, want)
	}

	idx, err := p.fieldIndex(FieldRef{Class: "LA;", Name: "y", Type: "I"})
	if err != nil || idx != 2 {
		t.Fatalf("fieldIndex=%d, %v; want 2", idx, err)
	}
}

func TestInterner_SharesStrings(t *testing.T) {
	t.Parallel()

	in := interner{}
	a := in.intern([]byte("Lfoo;"))
	b := in.intern([]byte("Lfoo;"))
	if a != b || len(in) != 1 {
		t.Fatalf("interner kept %d entries", len(in))
	}
}
