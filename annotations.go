// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// memberAnnotations is a decoded annotations_directory_item. Field and
// method entries are keyed by raw table index until class data claims them.
type memberAnnotations struct {
	class      []Annotation
	fields     map[uint32][]Annotation
	methods    map[uint32][]Annotation
	parameters map[uint32][][]Annotation
}

// readAnnotationsDirectory decodes the directory at off.
func (d *decoder) readAnnotationsDirectory(off uint32) (*memberAnnotations, error) {
	c := d.data(off)
	classOff := c.u32()
	nFields := c.u32()
	nMethods := c.u32()
	nParams := c.u32()
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("annotations directory at 0x%x: %w", off, err)
	}

	total := uint64(nFields) + uint64(nMethods) + uint64(nParams)
	if uint64(c.pos)+total*8 > uint64(c.hi) {
		return nil, fmt.Errorf("%w: annotations directory at 0x%x lists %d entries", ErrOutOfBounds, off, total)
	}

	dir := &memberAnnotations{
		fields:     make(map[uint32][]Annotation, nFields),
		methods:    make(map[uint32][]Annotation, nMethods),
		parameters: make(map[uint32][][]Annotation, nParams),
	}

	var err error
	if classOff != 0 {
		if dir.class, err = d.readAnnotationSet(classOff); err != nil {
			return nil, err
		}
	}

	for i := uint32(0); i < nFields; i++ {
		idx, setOff := c.u32(), c.u32()
		if idx >= uint32(len(d.fields)) {
			return nil, fmt.Errorf("%w: annotated field %d of %d", ErrIndexTooLarge, idx, len(d.fields))
		}
		if dir.fields[idx], err = d.readAnnotationSet(setOff); err != nil {
			return nil, err
		}
	}

	for i := uint32(0); i < nMethods; i++ {
		idx, setOff := c.u32(), c.u32()
		if idx >= uint32(len(d.methods)) {
			return nil, fmt.Errorf("%w: annotated method %d of %d", ErrIndexTooLarge, idx, len(d.methods))
		}
		if dir.methods[idx], err = d.readAnnotationSet(setOff); err != nil {
			return nil, err
		}
	}

	for i := uint32(0); i < nParams; i++ {
		idx, listOff := c.u32(), c.u32()
		if idx >= uint32(len(d.methods)) {
			return nil, fmt.Errorf("%w: annotated parameters of method %d of %d", ErrIndexTooLarge, idx, len(d.methods))
		}
		if dir.parameters[idx], err = d.readAnnotationSetRefList(listOff); err != nil {
			return nil, err
		}
	}

	return dir, c.Err()
}

// readAnnotationSet decodes an annotation_set_item; offset 0 is an empty set.
func (d *decoder) readAnnotationSet(off uint32) ([]Annotation, error) {
	if off == 0 {
		return nil, nil
	}

	c := d.data(off)
	n := c.u32()
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("annotation set at 0x%x: %w", off, err)
	}
	if uint64(c.pos)+uint64(n)*4 > uint64(c.hi) {
		return nil, fmt.Errorf("%w: annotation set at 0x%x has %d entries", ErrOutOfBounds, off, n)
	}

	set := make([]Annotation, 0, n)
	for i := uint32(0); i < n; i++ {
		item := d.data(c.u32())
		vis := Visibility(item.u8())
		if err := item.Err(); err != nil {
			return nil, fmt.Errorf("annotation set at 0x%x entry %d: %w", off, i, err)
		}

		a, err := d.readAnnotationBody(item, vis, 0)
		if err != nil {
			return nil, err
		}
		set = append(set, a)
	}

	return set, nil
}

// readAnnotationSetRefList decodes one annotation set per parameter.
func (d *decoder) readAnnotationSetRefList(off uint32) ([][]Annotation, error) {
	c := d.data(off)
	n := c.u32()
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("annotation set ref list at 0x%x: %w", off, err)
	}
	if uint64(c.pos)+uint64(n)*4 > uint64(c.hi) {
		return nil, fmt.Errorf("%w: annotation set ref list at 0x%x has %d entries", ErrOutOfBounds, off, n)
	}

	lists := make([][]Annotation, n)
	for i := range lists {
		set, err := d.readAnnotationSet(c.u32())
		if err != nil {
			return nil, err
		}
		lists[i] = set
	}

	return lists, nil
}

// readAnnotationBody decodes type, element count and elements.
func (d *decoder) readAnnotationBody(c *cursor, vis Visibility, depth int) (Annotation, error) {
	at := c.pos
	typeIdx := c.uleb()
	n := c.uleb()
	if err := c.Err(); err != nil {
		return Annotation{}, fmt.Errorf("annotation at 0x%x: %w", at, err)
	}
	if typeIdx >= uint32(len(d.types)) {
		return Annotation{}, fmt.Errorf("%w: annotation type %d of %d at 0x%x", ErrIndexTooLarge, typeIdx, len(d.types), at)
	}

	a := Annotation{Visibility: vis, Type: d.types[typeIdx]}
	if n > 0 {
		a.Elements = make([]AnnotationElement, 0, min(n, c.hi-c.pos))
	}

	for i := uint32(0); i < n; i++ {
		nameIdx := c.uleb()
		if err := c.Err(); err != nil {
			return Annotation{}, fmt.Errorf("annotation at 0x%x: %w", at, err)
		}
		if nameIdx >= uint32(len(d.strings)) {
			return Annotation{}, fmt.Errorf("%w: annotation element name %d of %d at 0x%x",
				ErrIndexTooLarge, nameIdx, len(d.strings), at)
		}

		v, err := d.readValue(c, depth)
		if err != nil {
			return Annotation{}, err
		}
		a.Elements = append(a.Elements, AnnotationElement{Name: d.strings[nameIdx], Value: v})
	}

	return a, nil
}

// writeAnnotationBody encodes type, element count and elements sorted by
// name index.
func (e *encoder) writeAnnotationBody(b *buffer, a *Annotation) error {
	typeIdx, err := e.pool.typeIndex(a.Type)
	if err != nil {
		return err
	}

	type element struct {
		name uint32
		ae   *AnnotationElement
	}
	elements := make([]element, len(a.Elements))
	for i := range a.Elements {
		idx, err := e.pool.stringIndex(a.Elements[i].Name)
		if err != nil {
			return err
		}
		elements[i] = element{name: idx, ae: &a.Elements[i]}
	}
	slices.SortStableFunc(elements, func(x, y element) int { return cmpUint32(x.name, y.name) })

	b.uleb(typeIdx)
	b.uleb(uint32(len(elements)))
	for _, el := range elements {
		b.uleb(el.name)
		if err := e.writeValue(b, &el.ae.Value); err != nil {
			return err
		}
	}

	return nil
}

// emitAnnotationSet emits an annotation_set_item and its annotation items,
// ordered by type index.
func (e *encoder) emitAnnotationSet(set []Annotation) (int, error) {
	type entry struct {
		typeIdx uint32
		item    int
	}
	entries := make([]entry, 0, len(set))
	for i := range set {
		typeIdx, err := e.pool.typeIndex(set[i].Type)
		if err != nil {
			return 0, err
		}

		it, idx := e.newItem(kindAnnotation)
		it.buf.u8(uint8(set[i].Visibility))
		if err := e.writeAnnotationBody(&it.buf, &set[i]); err != nil {
			return 0, err
		}
		entries = append(entries, entry{typeIdx: typeIdx, item: idx})
	}
	slices.SortStableFunc(entries, func(x, y entry) int { return cmpUint32(x.typeIdx, y.typeIdx) })

	it, idx := e.newItem(kindAnnotationSet)
	it.buf.u32(uint32(len(entries)))
	for _, en := range entries {
		it.buf.offsetTo(en.item)
	}

	return idx, nil
}

// emitAnnotationSetRefList emits one set per parameter; empty lists are
// written as offset 0.
func (e *encoder) emitAnnotationSetRefList(lists [][]Annotation) (int, error) {
	sets := make([]int, len(lists))
	for i, list := range lists {
		sets[i] = -1
		if len(list) == 0 {
			continue
		}

		idx, err := e.emitAnnotationSet(list)
		if err != nil {
			return 0, err
		}
		sets[i] = idx
	}

	it, idx := e.newItem(kindAnnotationSetRefList)
	it.buf.u32(uint32(len(sets)))
	for _, set := range sets {
		if set < 0 {
			it.buf.u32(0)
			continue
		}
		it.buf.offsetTo(set)
	}

	return idx, nil
}

// directoryEntry pairs a field or method index with a provisional item.
type directoryEntry struct {
	idx  uint32
	item int
}

// emitAnnotationsDirectory emits the annotations directory of c.
func (e *encoder) emitAnnotationsDirectory(c *Class) (int, error) {
	classSet := -1
	if len(c.Annotations) != 0 {
		var err error
		if classSet, err = e.emitAnnotationSet(c.Annotations); err != nil {
			return 0, err
		}
	}

	var fields, methods, params []directoryEntry
	for _, list := range [][]Field{c.StaticFields, c.InstanceFields} {
		for i := range list {
			f := &list[i]
			if len(f.Annotations) == 0 {
				continue
			}

			idx, err := e.pool.fieldIndex(FieldRef{Class: c.Name, Name: f.Name, Type: f.Type})
			if err != nil {
				return 0, err
			}
			set, err := e.emitAnnotationSet(f.Annotations)
			if err != nil {
				return 0, err
			}
			fields = append(fields, directoryEntry{idx: idx, item: set})
		}
	}

	for _, list := range [][]Method{c.DirectMethods, c.VirtualMethods} {
		for i := range list {
			m := &list[i]
			if len(m.Annotations) == 0 && len(m.ParameterAnnotations) == 0 {
				continue
			}

			idx, err := e.pool.methodIndex(MethodRef{Class: c.Name, Name: m.Name, Proto: m.Proto})
			if err != nil {
				return 0, err
			}
			if len(m.Annotations) != 0 {
				set, err := e.emitAnnotationSet(m.Annotations)
				if err != nil {
					return 0, err
				}
				methods = append(methods, directoryEntry{idx: idx, item: set})
			}
			if len(m.ParameterAnnotations) != 0 {
				if len(m.ParameterAnnotations) != len(m.Proto.Parameters) {
					return 0, fmt.Errorf("%w: method %s->%s has %d parameter annotation sets for %d parameters",
						ErrStructuralInconsistency, c.Name, m.Name, len(m.ParameterAnnotations), len(m.Proto.Parameters))
				}
				refs, err := e.emitAnnotationSetRefList(m.ParameterAnnotations)
				if err != nil {
					return 0, err
				}
				params = append(params, directoryEntry{idx: idx, item: refs})
			}
		}
	}

	byIndex := func(x, y directoryEntry) int { return cmpUint32(x.idx, y.idx) }
	slices.SortStableFunc(fields, byIndex)
	slices.SortStableFunc(methods, byIndex)
	slices.SortStableFunc(params, byIndex)

	it, idx := e.newItem(kindAnnotationsDirectory)
	if classSet < 0 {
		it.buf.u32(0)
	} else {
		it.buf.offsetTo(classSet)
	}
	it.buf.u32(uint32(len(fields)))
	it.buf.u32(uint32(len(methods)))
	it.buf.u32(uint32(len(params)))
	for _, group := range [][]directoryEntry{fields, methods, params} {
		for _, en := range group {
			it.buf.u32(en.idx)
			it.buf.offsetTo(en.item)
		}
	}

	return idx, nil
}

func cmpUint32(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	return 0
}
