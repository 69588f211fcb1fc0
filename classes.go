// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import "fmt"

// classDefSize is the size of one class_def_item.
const classDefSize = 32

// readClass decodes class definition i. It returns nil when class rules
// exclude the class.
func (d *decoder) readClass(i uint32) (*Class, error) {
	c := newCursor(d.image, d.hdr.classDefs.off+i*classDefSize, 0, uint32(len(d.image)))
	classIdx := c.u32()
	access := c.u32()
	superIdx := c.u32()
	interfacesOff := c.u32()
	sourceIdx := c.u32()
	annotationsOff := c.u32()
	dataOff := c.u32()
	staticValuesOff := c.u32()
	if err := c.Err(); err != nil {
		return nil, err
	}

	if classIdx >= uint32(len(d.types)) {
		return nil, fmt.Errorf("%w: class type %d of %d", ErrIndexTooLarge, classIdx, len(d.types))
	}

	cl := &Class{Name: d.types[classIdx], AccessFlags: AccessFlags(access)}
	if !d.filter.Match(cl.Name) {
		return nil, nil
	}

	var err error
	if superIdx != noIndex {
		if superIdx >= uint32(len(d.types)) {
			return nil, fmt.Errorf("%w: superclass type %d of %d", ErrIndexTooLarge, superIdx, len(d.types))
		}
		cl.SuperClass = d.types[superIdx]
	}

	if sourceIdx != noIndex {
		if sourceIdx >= uint32(len(d.strings)) {
			return nil, fmt.Errorf("%w: source file string %d of %d", ErrIndexTooLarge, sourceIdx, len(d.strings))
		}
		cl.SourceFile = d.strings[sourceIdx]
	}

	if interfacesOff != 0 {
		if cl.Interfaces, err = d.readTypeList(interfacesOff); err != nil {
			return nil, fmt.Errorf("interfaces: %w", err)
		}
	}

	var dir *memberAnnotations
	if annotationsOff != 0 {
		if dir, err = d.readAnnotationsDirectory(annotationsOff); err != nil {
			return nil, err
		}
		cl.Annotations = dir.class
	}

	if dataOff != 0 {
		if err := d.readClassData(cl, dataOff, dir); err != nil {
			return nil, err
		}
	}

	if staticValuesOff != 0 {
		if cl.StaticValues, err = d.readArray(d.data(staticValuesOff), 0); err != nil {
			return nil, fmt.Errorf("static values: %w", err)
		}
		if len(cl.StaticValues) > len(cl.StaticFields) {
			return nil, fmt.Errorf("%w: %s has %d static values for %d static fields",
				ErrStructuralInconsistency, cl.Name, len(cl.StaticValues), len(cl.StaticFields))
		}
	}

	return cl, nil
}

// readTypeList decodes a type_list.
func (d *decoder) readTypeList(off uint32) ([]string, error) {
	c := d.data(off)
	n := c.u32()
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("type list at 0x%x: %w", off, err)
	}
	if uint64(c.pos)+uint64(n)*2 > uint64(c.hi) {
		return nil, fmt.Errorf("%w: type list at 0x%x has %d entries", ErrOutOfBounds, off, n)
	}

	list := make([]string, n)
	for i := range list {
		idx := c.u16()
		if uint32(idx) >= uint32(len(d.types)) {
			return nil, fmt.Errorf("%w: type list entry %d of %d", ErrIndexTooLarge, idx, len(d.types))
		}
		list[i] = d.types[idx]
	}

	return list, nil
}

// readClassData decodes class_data_item fields and methods into cl.
func (d *decoder) readClassData(cl *Class, off uint32, dir *memberAnnotations) error {
	c := d.data(off)
	nStatic := c.uleb()
	nInstance := c.uleb()
	nDirect := c.uleb()
	nVirtual := c.uleb()
	if err := c.Err(); err != nil {
		return fmt.Errorf("class data at 0x%x: %w", off, err)
	}

	var err error
	if cl.StaticFields, err = d.readFields(c, nStatic, cl.Name, dir); err != nil {
		return fmt.Errorf("%s static fields: %w", cl.Name, err)
	}
	if cl.InstanceFields, err = d.readFields(c, nInstance, cl.Name, dir); err != nil {
		return fmt.Errorf("%s instance fields: %w", cl.Name, err)
	}
	if cl.DirectMethods, err = d.readMethods(c, nDirect, cl.Name, dir); err != nil {
		return fmt.Errorf("%s direct methods: %w", cl.Name, err)
	}
	if cl.VirtualMethods, err = d.readMethods(c, nVirtual, cl.Name, dir); err != nil {
		return fmt.Errorf("%s virtual methods: %w", cl.Name, err)
	}

	return nil
}

// readFields decodes n delta-encoded encoded_field entries.
func (d *decoder) readFields(c *cursor, n uint32, class string, dir *memberAnnotations) ([]Field, error) {
	if n == 0 {
		return nil, nil
	}

	fields := make([]Field, 0, min(n, (c.hi-c.pos)/2))
	var idx uint64
	for i := uint32(0); i < n; i++ {
		idx += uint64(c.uleb())
		access := c.uleb()
		if err := c.Err(); err != nil {
			return nil, err
		}
		if idx >= uint64(len(d.fields)) {
			return nil, fmt.Errorf("%w: field %d of %d", ErrIndexTooLarge, idx, len(d.fields))
		}

		ref := d.fields[idx]
		if ref.Class != class {
			return nil, fmt.Errorf("%w: field %s->%s listed in %s", ErrStructuralInconsistency, ref.Class, ref.Name, class)
		}

		f := Field{AccessFlags: AccessFlags(access), Type: ref.Type, Name: ref.Name}
		if dir != nil {
			if a, ok := dir.fields[uint32(idx)]; ok {
				f.Annotations = a
				delete(dir.fields, uint32(idx))
			}
		}
		fields = append(fields, f)
	}

	return fields, nil
}

// readMethods decodes n delta-encoded encoded_method entries.
func (d *decoder) readMethods(c *cursor, n uint32, class string, dir *memberAnnotations) ([]Method, error) {
	if n == 0 {
		return nil, nil
	}

	methods := make([]Method, 0, min(n, (c.hi-c.pos)/3))
	var idx uint64
	for i := uint32(0); i < n; i++ {
		idx += uint64(c.uleb())
		access := c.uleb()
		codeOff := c.uleb()
		if err := c.Err(); err != nil {
			return nil, err
		}
		if idx >= uint64(len(d.methods)) {
			return nil, fmt.Errorf("%w: method %d of %d", ErrIndexTooLarge, idx, len(d.methods))
		}

		ref := d.method(uint32(idx))
		if ref.Class != class {
			return nil, fmt.Errorf("%w: method %s->%s listed in %s", ErrStructuralInconsistency, ref.Class, ref.Name, class)
		}

		m := Method{AccessFlags: AccessFlags(access), Name: ref.Name, Proto: ref.Proto}
		if dir != nil {
			if a, ok := dir.methods[uint32(idx)]; ok {
				m.Annotations = a
				delete(dir.methods, uint32(idx))
			}
			if p, ok := dir.parameters[uint32(idx)]; ok {
				if len(p) != len(ref.Proto.Parameters) {
					return nil, fmt.Errorf("%w: method %s->%s has %d parameter annotation sets for %d parameters",
						ErrStructuralInconsistency, ref.Class, ref.Name, len(p), len(ref.Proto.Parameters))
				}
				m.ParameterAnnotations = p
				delete(dir.parameters, uint32(idx))
			}
		}

		if codeOff != 0 {
			code, err := d.readCode(codeOff)
			if err != nil {
				return nil, fmt.Errorf("%s%s: %w", ref.Name, ref.Proto.Shorty(), err)
			}
			m.Code = code
		}
		methods = append(methods, m)
	}

	return methods, nil
}
