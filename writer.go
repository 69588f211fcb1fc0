// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/exp/slices"
)

// itemKind is the map_list type code of an item.
type itemKind uint16

// Map item type codes.
const (
	kindHeader               itemKind = 0x0000
	kindStringID             itemKind = 0x0001
	kindTypeID               itemKind = 0x0002
	kindProtoID              itemKind = 0x0003
	kindFieldID              itemKind = 0x0004
	kindMethodID             itemKind = 0x0005
	kindClassDef             itemKind = 0x0006
	kindMapList              itemKind = 0x1000
	kindTypeList             itemKind = 0x1001
	kindAnnotationSetRefList itemKind = 0x1002
	kindAnnotationSet        itemKind = 0x1003
	kindClassData            itemKind = 0x2000
	kindCode                 itemKind = 0x2001
	kindStringData           itemKind = 0x2002
	kindDebugInfo            itemKind = 0x2003
	kindAnnotation           itemKind = 0x2004
	kindEncodedArray         itemKind = 0x2005
	kindAnnotationsDirectory itemKind = 0x2006
)

// alignment returns the required offset alignment of items of kind k.
func (k itemKind) alignment() uint32 {
	switch k {
	case kindClassData, kindStringData, kindDebugInfo, kindAnnotation, kindEncodedArray:
		return 1
	}

	return 4
}

// item is one emitted structure awaiting layout.
type item struct {
	kind   itemKind
	buf    buffer
	offset uint32
	placed bool
	// dup reports that an identical item twin of the same kind is kept.
	dup  bool
	twin int
}

// classDefRef links a written class definition to its items.
type classDefRef struct {
	name       string
	def        int // class_def item
	nameString int // string_data item of the descriptor
}

// encoder holds state for writing one file.
type encoder struct {
	ctx        context.Context
	opts       EncodeOptions
	diag       *diagnostics
	pool       constantPool
	items      []*item
	stringData []int
	classDefs  []classDefRef
	res        *EncodeResult

	lateDuplicates []int
}

// newItem appends an empty item of kind and returns it with its provisional index.
func (e *encoder) newItem(kind itemKind) (*item, int) {
	it := &item{kind: kind}
	e.items = append(e.items, it)
	return it, len(e.items) - 1
}

// Encode writes f as a DEX file, or an ODEX file when f.Odex is set.
func Encode(f *File) ([]byte, error) {
	out, _, err := encode(context.Background(), f, EncodeOptions{})
	return out, err
}

// EncodeWithOptions writes f using explicit options.
func EncodeWithOptions(f *File, opts EncodeOptions) ([]byte, *EncodeResult, error) {
	return encode(context.Background(), f, opts)
}

func encode(ctx context.Context, f *File, opts EncodeOptions) ([]byte, *EncodeResult, error) {
	start := time.Now()
	opts.applyDefaults()

	if f == nil {
		return nil, nil, ErrNilFile
	}

	filter, err := newClassFilter(opts.Classes, opts.ClassMatcherOptions)
	if err != nil {
		return nil, nil, err
	}

	classes := filter.filterClasses(f.Classes)
	for i, c := range classes {
		if c == nil {
			return nil, nil, fmt.Errorf("%w: class %d is nil", ErrStructuralInconsistency, i)
		}
	}

	e := &encoder{
		ctx:  ctx,
		opts: opts,
		diag: newDiagnostics(opts.Logger, opts.OnWarning, opts.Strict),
		res:  &EncodeResult{SkippedClasses: len(f.Classes) - len(classes)},
	}

	ordered, err := orderClasses(classes)
	if err != nil {
		return nil, nil, err
	}

	if err := e.populate(ordered); err != nil {
		return nil, nil, err
	}
	if err := e.emitPool(); err != nil {
		return nil, nil, err
	}
	for _, c := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if err := e.emitClass(c); err != nil {
			return nil, nil, fmt.Errorf("class %s: %w", c.Name, err)
		}
		if opts.OnClassDone != nil {
			opts.OnClassDone(c.Name)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	e.res.Items = len(e.items)
	image, err := e.layout(f.Odex)
	if err != nil {
		return nil, nil, err
	}
	e.res.DexSize = int64(len(image))

	out := image
	if f.Odex != nil {
		if out, err = writeOdex(image, f.Odex, e.classLocations(), e.diag); err != nil {
			return nil, nil, err
		}
	}

	e.res.Classes = len(ordered)
	e.res.FileSize = int64(len(out))
	e.res.Warnings = e.diag.warnings
	e.res.Degraded = e.diag.degraded()
	e.res.Duration = time.Since(start)
	return out, e.res, nil
}

// Write encodes f into out.
func Write(ctx context.Context, out io.Writer, f *File, opts EncodeOptions) (*EncodeResult, error) {
	if out == nil {
		return nil, ErrNilWriter
	}

	data, res, err := encode(ctx, f, opts)
	if err != nil {
		return nil, err
	}

	if _, err := out.Write(data); err != nil {
		return nil, fmt.Errorf("write DEX: %w", err)
	}

	return res, nil
}

// WriteFile encodes f and writes it to path.
func WriteFile(path string, f *File, opts EncodeOptions) (*EncodeResult, error) {
	data, res, err := EncodeWithOptions(f, opts)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write DEX file: %w", err)
	}

	return res, nil
}

// populate interns everything the classes reference and finalizes the pool.
func (e *encoder) populate(classes []*Class) error {
	for _, c := range classes {
		if err := e.ctx.Err(); err != nil {
			return err
		}
		e.populateClass(c)
	}

	e.pool.finalize()
	return nil
}

func (e *encoder) populateClass(c *Class) {
	p := &e.pool
	p.addType(c.Name)
	if c.SuperClass != "" {
		p.addType(c.SuperClass)
	}
	for _, t := range c.Interfaces {
		p.addType(t)
	}
	if c.SourceFile != "" {
		p.addString(c.SourceFile)
	}

	e.populateAnnotations(c.Annotations)
	for i := range c.StaticValues {
		e.populateValue(&c.StaticValues[i])
	}

	for _, list := range [][]Field{c.StaticFields, c.InstanceFields} {
		for i := range list {
			f := &list[i]
			p.addField(FieldRef{Class: c.Name, Name: f.Name, Type: f.Type})
			e.populateAnnotations(f.Annotations)
		}
	}

	for _, list := range [][]Method{c.DirectMethods, c.VirtualMethods} {
		for i := range list {
			m := &list[i]
			p.addMethod(MethodRef{Class: c.Name, Name: m.Name, Proto: m.Proto})
			e.populateAnnotations(m.Annotations)
			for _, set := range m.ParameterAnnotations {
				e.populateAnnotations(set)
			}
			if m.Code != nil {
				e.populateCode(m.Code)
			}
		}
	}
}

func (e *encoder) populateAnnotations(set []Annotation) {
	for i := range set {
		e.populateAnnotation(&set[i])
	}
}

func (e *encoder) populateAnnotation(a *Annotation) {
	e.pool.addType(a.Type)
	for i := range a.Elements {
		e.pool.addString(a.Elements[i].Name)
		e.populateValue(&a.Elements[i].Value)
	}
}

func (e *encoder) populateValue(v *Value) {
	switch v.Type {
	case ValueString:
		e.pool.addString(v.String)
	case ValueTypeRef:
		e.pool.addType(v.String)
	case ValueField, ValueEnum:
		e.pool.addField(v.Field)
	case ValueMethod:
		e.pool.addMethod(v.Method)
	case ValueArray:
		for i := range v.Array {
			e.populateValue(&v.Array[i])
		}
	case ValueAnnotation:
		if v.Annotation != nil {
			e.populateAnnotation(v.Annotation)
		}
	}
}

func (e *encoder) populateCode(code *Code) {
	p := &e.pool
	if info := code.Debug; info != nil {
		for _, name := range info.ParameterNames {
			if name != "" {
				p.addString(name)
			}
		}
		for _, insn := range info.Insns {
			if insn.Name != "" {
				p.addString(insn.Name)
			}
			if insn.Type != "" {
				p.addType(insn.Type)
			}
			if insn.Signature != "" {
				p.addString(insn.Signature)
			}
		}
	}

	for _, t := range code.Tries {
		for _, h := range t.Handlers {
			p.addType(h.Type)
		}
	}

	for i := range code.Insns {
		insn := &code.Insns[i]
		if insn.IsPseudo() {
			continue
		}

		switch insn.Format().Special {
		case SpecialString:
			p.addString(insn.String)
		case SpecialType:
			p.addType(insn.Type)
		case SpecialField:
			p.addField(insn.Field)
		case SpecialMethod:
			p.addMethod(insn.Method)
		}
	}
}

// emitPool emits the ID tables, string data and prototype parameter lists.
func (e *encoder) emitPool() error {
	p := &e.pool

	e.stringData = make([]int, len(p.strings))
	for i, s := range p.strings {
		n, ok := mutf8Length(s)
		if !ok {
			return fmt.Errorf("%w: string %q is not valid MUTF-8", ErrStructuralInconsistency, s)
		}

		data, dataIdx := e.newItem(kindStringData)
		data.buf.uleb(n)
		data.buf.bytes([]byte(s))
		data.buf.u8(0)
		e.stringData[i] = dataIdx

		id, _ := e.newItem(kindStringID)
		id.buf.offsetTo(dataIdx)
	}

	for _, t := range p.types {
		idx, err := p.stringIndex(t)
		if err != nil {
			return err
		}
		id, _ := e.newItem(kindTypeID)
		id.buf.u32(idx)
	}

	for _, proto := range p.protos {
		shorty, err := p.stringIndex(proto.Shorty())
		if err != nil {
			return err
		}
		ret, err := p.typeIndex(proto.ReturnType)
		if err != nil {
			return err
		}

		params := -1
		if len(proto.Parameters) != 0 {
			if params, err = e.emitTypeList(proto.Parameters); err != nil {
				return err
			}
		}

		id, _ := e.newItem(kindProtoID)
		id.buf.u32(shorty)
		id.buf.u32(ret)
		if params < 0 {
			id.buf.u32(0)
		} else {
			id.buf.offsetTo(params)
		}
	}

	for _, f := range p.fields {
		class, err := e.shortTypeIndex(f.Class)
		if err != nil {
			return err
		}
		typ, err := e.shortTypeIndex(f.Type)
		if err != nil {
			return err
		}
		name, err := p.stringIndex(f.Name)
		if err != nil {
			return err
		}

		id, _ := e.newItem(kindFieldID)
		id.buf.u16(class)
		id.buf.u16(typ)
		id.buf.u32(name)
	}

	for _, m := range p.methods {
		class, err := e.shortTypeIndex(m.Class)
		if err != nil {
			return err
		}
		proto, err := p.protoIndex(m.Proto)
		if err != nil {
			return err
		}
		if proto > 0xffff {
			return fmt.Errorf("%w: proto index %d", ErrSizeOverflow, proto)
		}
		name, err := p.stringIndex(m.Name)
		if err != nil {
			return err
		}

		id, _ := e.newItem(kindMethodID)
		id.buf.u16(class)
		id.buf.u16(uint16(proto))
		id.buf.u32(name)
	}

	return nil
}

// shortTypeIndex returns a type index that must fit 16 bits.
func (e *encoder) shortTypeIndex(t string) (uint16, error) {
	idx, err := e.pool.typeIndex(t)
	if err != nil {
		return 0, err
	}
	if idx > 0xffff {
		return 0, fmt.Errorf("%w: type index %d of %s", ErrSizeOverflow, idx, t)
	}

	return uint16(idx), nil
}

// emitTypeList emits a type_list item.
func (e *encoder) emitTypeList(types []string) (int, error) {
	it, idx := e.newItem(kindTypeList)
	it.buf.u32(uint32(len(types)))
	for _, t := range types {
		ti, err := e.shortTypeIndex(t)
		if err != nil {
			return 0, err
		}
		it.buf.u16(ti)
	}

	return idx, nil
}

// emitClass emits the class definition of c and every item it owns.
func (e *encoder) emitClass(c *Class) error {
	p := &e.pool
	classIdx, err := p.typeIndex(c.Name)
	if err != nil {
		return err
	}

	superIdx := uint32(noIndex)
	if c.SuperClass != "" {
		if superIdx, err = p.typeIndex(c.SuperClass); err != nil {
			return err
		}
	}

	sourceIdx := uint32(noIndex)
	if c.SourceFile != "" {
		if sourceIdx, err = p.stringIndex(c.SourceFile); err != nil {
			return err
		}
	}

	interfaces, dir, data, static := -1, -1, -1, -1
	if len(c.Interfaces) != 0 {
		if interfaces, err = e.emitTypeList(c.Interfaces); err != nil {
			return err
		}
	}
	if c.hasAnnotations() {
		if dir, err = e.emitAnnotationsDirectory(c); err != nil {
			return err
		}
	}
	if c.hasData() {
		if data, err = e.emitClassData(c); err != nil {
			return err
		}
	}
	values, err := e.staticValues(c)
	if err != nil {
		return err
	}
	if len(values) != 0 {
		arr, idx := e.newItem(kindEncodedArray)
		if err := e.writeArray(&arr.buf, values); err != nil {
			return fmt.Errorf("static values: %w", err)
		}
		static = idx
	}

	def, defIdx := e.newItem(kindClassDef)
	b := &def.buf
	b.u32(classIdx)
	b.u32(uint32(c.AccessFlags))
	b.u32(superIdx)
	writeOptionalOffset(b, interfaces)
	b.u32(sourceIdx)
	writeOptionalOffset(b, dir)
	writeOptionalOffset(b, data)
	writeOptionalOffset(b, static)

	nameStr, err := p.stringIndex(c.Name)
	if err != nil {
		return err
	}
	e.classDefs = append(e.classDefs, classDefRef{name: c.Name, def: defIdx, nameString: e.stringData[nameStr]})

	return nil
}

// staticValues returns the initial values of c in the order its static
// fields are written. A field without a value that precedes one with a value
// gets the zero value of its type.
func (e *encoder) staticValues(c *Class) ([]Value, error) {
	if len(c.StaticValues) == 0 {
		return nil, nil
	}
	if len(c.StaticValues) > len(c.StaticFields) {
		return nil, fmt.Errorf("%w: %s has %d static values for %d static fields",
			ErrStructuralInconsistency, c.Name, len(c.StaticValues), len(c.StaticFields))
	}

	type slot struct {
		idx uint32
		pos int
	}
	slots := make([]slot, len(c.StaticFields))
	for i := range c.StaticFields {
		f := &c.StaticFields[i]
		idx, err := e.pool.fieldIndex(FieldRef{Class: c.Name, Name: f.Name, Type: f.Type})
		if err != nil {
			return nil, err
		}
		slots[i] = slot{idx: idx, pos: i}
	}
	slices.SortStableFunc(slots, func(a, b slot) int { return cmpUint32(a.idx, b.idx) })

	n := 0
	for k, s := range slots {
		if s.pos < len(c.StaticValues) {
			n = k + 1
		}
	}

	values := make([]Value, n)
	for k, s := range slots[:n] {
		if s.pos < len(c.StaticValues) {
			values[k] = c.StaticValues[s.pos]
			continue
		}
		values[k] = zeroValue(c.StaticFields[s.pos].Type)
	}

	return values, nil
}

// zeroValue is the default initial value of a field of type t.
func zeroValue(t string) Value {
	switch t {
	case "Z":
		return Value{Type: ValueBoolean}
	case "B":
		return Value{Type: ValueByte}
	case "S":
		return Value{Type: ValueShort}
	case "C":
		return Value{Type: ValueChar}
	case "I":
		return Value{Type: ValueInt}
	case "J":
		return Value{Type: ValueLong}
	case "F":
		return Value{Type: ValueFloat}
	case "D":
		return Value{Type: ValueDouble}
	}

	return Value{Type: ValueNull}
}

// writeOptionalOffset writes a relocation to target, or 0 when target < 0.
func writeOptionalOffset(b *buffer, target int) {
	if target < 0 {
		b.u32(0)
		return
	}

	b.offsetTo(target)
}

// encodedMember is a class member with its pool index.
type encodedMember struct {
	idx    uint32
	access AccessFlags
	code   int
}

// emitClassData emits the class_data_item of c and its code items.
func (e *encoder) emitClassData(c *Class) (int, error) {
	lists := make([][]encodedMember, 4)
	for li, fields := range [][]Field{c.StaticFields, c.InstanceFields} {
		for i := range fields {
			f := &fields[i]
			idx, err := e.pool.fieldIndex(FieldRef{Class: c.Name, Name: f.Name, Type: f.Type})
			if err != nil {
				return 0, err
			}
			lists[li] = append(lists[li], encodedMember{idx: idx, access: f.AccessFlags, code: -1})
		}
	}

	for li, methods := range [][]Method{c.DirectMethods, c.VirtualMethods} {
		for i := range methods {
			m := &methods[i]
			idx, err := e.pool.methodIndex(MethodRef{Class: c.Name, Name: m.Name, Proto: m.Proto})
			if err != nil {
				return 0, err
			}

			code := -1
			if m.Code != nil {
				if code, err = e.emitCode(m.Code, c.Name+"->"+m.Name); err != nil {
					return 0, fmt.Errorf("method %s: %w", m.Name, err)
				}
			}
			lists[2+li] = append(lists[2+li], encodedMember{idx: idx, access: m.AccessFlags, code: code})
		}
	}

	it, idx := e.newItem(kindClassData)
	b := &it.buf
	for _, list := range lists {
		b.uleb(uint32(len(list)))
	}

	for li, list := range lists {
		sortMembers(list)
		last := uint32(0)
		for _, m := range list {
			b.uleb(m.idx - last)
			b.uleb(uint32(m.access))
			last = m.idx
			if li < 2 {
				continue
			}
			if m.code < 0 {
				b.uleb(0)
			} else {
				b.ulebOffsetTo(m.code)
			}
		}
	}

	return idx, nil
}

// classLocations returns class lookup data for the ODEX wrapper.
func (e *encoder) classLocations() []classLocation {
	locs := make([]classLocation, 0, len(e.classDefs))
	for _, ref := range e.classDefs {
		str := e.items[ref.nameString]
		locs = append(locs, classLocation{
			name:    ref.name,
			nameOff: str.offset + ulebLen(str.buf.data),
			defOff:  e.items[ref.def].offset,
		})
	}

	return locs
}

// ulebLen returns the length of the ULEB128 value at the start of b.
func ulebLen(b []byte) uint32 {
	for i, c := range b {
		if c&0x80 == 0 {
			return uint32(i + 1)
		}
	}

	return uint32(len(b))
}
