// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// interner shares one string value per distinct byte sequence.
type interner map[string]string

func (in interner) intern(b []byte) string {
	if s, ok := in[string(b)]; ok {
		return s
	}

	s := string(b)
	in[s] = s
	return s
}

// constantPool collects every string, type, prototype, field and method
// referenced by a file. After finalize the tables are sorted, unique and
// searchable by value.
type constantPool struct {
	strings []string
	types   []string
	protos  []Prototype
	fields  []FieldRef
	methods []MethodRef
}

func (p *constantPool) addString(s string) {
	p.strings = append(p.strings, s)
}

func (p *constantPool) addType(t string) {
	p.types = append(p.types, t)
}

func (p *constantPool) addProto(proto Prototype) {
	p.protos = append(p.protos, proto)
}

func (p *constantPool) addField(f FieldRef) {
	p.fields = append(p.fields, f)
}

func (p *constantPool) addMethod(m MethodRef) {
	p.methods = append(p.methods, m)
}

// finalize sorts and dedups the tables. Richer items are finalized first so
// their components are interned before the simpler tables are sorted.
func (p *constantPool) finalize() {
	slices.SortFunc(p.methods, compareMethod)
	p.methods = slices.CompactFunc(p.methods, func(a, b MethodRef) bool { return compareMethod(a, b) == 0 })
	for _, m := range p.methods {
		p.addType(m.Class)
		p.addString(m.Name)
		p.addProto(m.Proto)
	}

	slices.SortFunc(p.fields, compareField)
	p.fields = slices.Compact(p.fields)
	for _, f := range p.fields {
		p.addType(f.Class)
		p.addString(f.Name)
		p.addType(f.Type)
	}

	slices.SortFunc(p.protos, compareProto)
	p.protos = slices.CompactFunc(p.protos, func(a, b Prototype) bool { return compareProto(a, b) == 0 })
	for _, proto := range p.protos {
		p.addString(proto.Shorty())
		p.addType(proto.ReturnType)
		for _, t := range proto.Parameters {
			p.addType(t)
		}
	}

	slices.SortFunc(p.types, mutf8Compare)
	p.types = slices.Compact(p.types)
	for _, t := range p.types {
		p.addString(t)
	}

	slices.SortFunc(p.strings, mutf8Compare)
	p.strings = slices.Compact(p.strings)
}

func (p *constantPool) stringIndex(s string) (uint32, error) {
	i, ok := slices.BinarySearchFunc(p.strings, s, mutf8Compare)
	if !ok {
		return noIndex, fmt.Errorf("%w: string %q is not pooled", ErrStructuralInconsistency, s)
	}

	return uint32(i), nil
}

func (p *constantPool) typeIndex(t string) (uint32, error) {
	i, ok := slices.BinarySearchFunc(p.types, t, mutf8Compare)
	if !ok {
		return noIndex, fmt.Errorf("%w: type %q is not pooled", ErrStructuralInconsistency, t)
	}

	return uint32(i), nil
}

func (p *constantPool) protoIndex(proto Prototype) (uint32, error) {
	i, ok := slices.BinarySearchFunc(p.protos, proto, compareProto)
	if !ok {
		return noIndex, fmt.Errorf("%w: prototype %s is not pooled", ErrStructuralInconsistency, proto.Shorty())
	}

	return uint32(i), nil
}

func (p *constantPool) fieldIndex(f FieldRef) (uint32, error) {
	i, ok := slices.BinarySearchFunc(p.fields, f, compareField)
	if !ok {
		return noIndex, fmt.Errorf("%w: field %s->%s is not pooled", ErrStructuralInconsistency, f.Class, f.Name)
	}

	return uint32(i), nil
}

func (p *constantPool) methodIndex(m MethodRef) (uint32, error) {
	i, ok := slices.BinarySearchFunc(p.methods, m, compareMethod)
	if !ok {
		return noIndex, fmt.Errorf("%w: method %s->%s is not pooled", ErrStructuralInconsistency, m.Class, m.Name)
	}

	return uint32(i), nil
}

// compareProto orders prototypes by return type, then parameters; a
// prefix sorts first.
func compareProto(a, b Prototype) int {
	if c := mutf8Compare(a.ReturnType, b.ReturnType); c != 0 {
		return c
	}

	for i := 0; i < len(a.Parameters) && i < len(b.Parameters); i++ {
		if c := mutf8Compare(a.Parameters[i], b.Parameters[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(a.Parameters) < len(b.Parameters):
		return -1
	case len(a.Parameters) > len(b.Parameters):
		return 1
	}

	return 0
}

func compareField(a, b FieldRef) int {
	if c := mutf8Compare(a.Class, b.Class); c != 0 {
		return c
	}
	if c := mutf8Compare(a.Name, b.Name); c != 0 {
		return c
	}

	return mutf8Compare(a.Type, b.Type)
}

func compareMethod(a, b MethodRef) int {
	if c := mutf8Compare(a.Class, b.Class); c != 0 {
		return c
	}
	if c := mutf8Compare(a.Name, b.Name); c != 0 {
		return c
	}

	return compareProto(a.Proto, b.Proto)
}
