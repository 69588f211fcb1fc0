// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import (
	"fmt"
	"math"
)

// readValue decodes one encoded_value.
func (d *decoder) readValue(c *cursor, depth int) (Value, error) {
	if depth > maxValueDepth {
		return Value{}, fmt.Errorf("%w: values nested deeper than %d", ErrStructuralInconsistency, maxValueDepth)
	}

	at := c.pos
	h := c.u8()
	if err := c.Err(); err != nil {
		return Value{}, err
	}

	arg := uint32(h >> 5)
	v := Value{Type: ValueType(h & 0x1f)}
	bad := func() (Value, error) {
		return Value{}, fmt.Errorf("%w: value 0x%02x with size argument %d at 0x%x",
			ErrStructuralInconsistency, uint8(v.Type), arg, at)
	}

	switch v.Type {
	case ValueByte:
		if arg != 0 {
			return bad()
		}
		v.Int = readSigned(c, 1)
	case ValueShort:
		if arg >= 2 {
			return bad()
		}
		v.Int = readSigned(c, arg+1)
	case ValueChar:
		if arg >= 2 {
			return bad()
		}
		v.Int = int64(readUnsigned(c, arg+1))
	case ValueInt:
		if arg >= 4 {
			return bad()
		}
		v.Int = readSigned(c, arg+1)
	case ValueLong:
		v.Int = readSigned(c, arg+1)
	case ValueFloat:
		if arg >= 4 {
			return bad()
		}
		v.Float = math.Float32frombits(uint32(readUnsigned(c, arg+1) << (8 * (3 - arg))))
	case ValueDouble:
		v.Double = math.Float64frombits(readUnsigned(c, arg+1) << (8 * (7 - arg)))
	case ValueString, ValueTypeRef, ValueField, ValueMethod, ValueEnum:
		if arg >= 4 {
			return bad()
		}
		if err := d.resolveValueRef(&v, uint32(readUnsigned(c, arg+1))); err != nil {
			return Value{}, fmt.Errorf("value at 0x%x: %w", at, err)
		}
	case ValueArray:
		if arg != 0 {
			return bad()
		}
		arr, err := d.readArray(c, depth+1)
		if err != nil {
			return Value{}, err
		}
		v.Array = arr
	case ValueAnnotation:
		if arg != 0 {
			return bad()
		}
		a, err := d.readAnnotationBody(c, VisibilityNone, depth+1)
		if err != nil {
			return Value{}, err
		}
		v.Annotation = &a
	case ValueNull:
		if arg != 0 {
			return bad()
		}
	case ValueBoolean:
		if arg >= 2 {
			return bad()
		}
		v.Bool = arg == 1
	default:
		return Value{}, fmt.Errorf("%w: unknown value type 0x%02x at 0x%x", ErrStructuralInconsistency, uint8(v.Type), at)
	}

	return v, c.Err()
}

// resolveValueRef stores the pool entry idx into v.
func (d *decoder) resolveValueRef(v *Value, idx uint32) error {
	switch v.Type {
	case ValueString:
		if idx >= uint32(len(d.strings)) {
			return fmt.Errorf("%w: string index %d of %d", ErrIndexTooLarge, idx, len(d.strings))
		}
		v.String = d.strings[idx]
	case ValueTypeRef:
		if idx >= uint32(len(d.types)) {
			return fmt.Errorf("%w: type index %d of %d", ErrIndexTooLarge, idx, len(d.types))
		}
		v.String = d.types[idx]
	case ValueField, ValueEnum:
		if idx >= uint32(len(d.fields)) {
			return fmt.Errorf("%w: field index %d of %d", ErrIndexTooLarge, idx, len(d.fields))
		}
		v.Field = d.fields[idx]
	case ValueMethod:
		if idx >= uint32(len(d.methods)) {
			return fmt.Errorf("%w: method index %d of %d", ErrIndexTooLarge, idx, len(d.methods))
		}
		v.Method = d.method(idx)
	}

	return nil
}

// readArray decodes an encoded_array: ULEB128 count then values.
func (d *decoder) readArray(c *cursor, depth int) ([]Value, error) {
	if depth > maxValueDepth {
		return nil, fmt.Errorf("%w: values nested deeper than %d", ErrStructuralInconsistency, maxValueDepth)
	}

	n := c.uleb()
	if err := c.Err(); err != nil {
		return nil, err
	}

	// Every value takes at least one byte.
	values := make([]Value, 0, min(n, c.hi-c.pos))
	for i := uint32(0); i < n; i++ {
		v, err := d.readValue(c, depth)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return values, nil
}

// readUnsigned reads n little-endian bytes.
func readUnsigned(c *cursor, n uint32) uint64 {
	var v uint64
	for i := uint32(0); i < n; i++ {
		v |= uint64(c.u8()) << (8 * i)
	}

	return v
}

// readSigned reads n little-endian bytes and sign-extends from the top one.
func readSigned(c *cursor, n uint32) int64 {
	return signExtend(readUnsigned(c, n), uint8(2*n))
}

// writeValue encodes v against the finalized pool.
func (e *encoder) writeValue(b *buffer, v *Value) error {
	switch v.Type {
	case ValueByte:
		b.u8(uint8(ValueByte))
		b.u8(uint8(v.Int))
	case ValueShort:
		writeSigned(b, v.Type, v.Int, 2)
	case ValueChar:
		writeUnsigned(b, v.Type, uint64(uint16(v.Int)), 2)
	case ValueInt:
		writeSigned(b, v.Type, v.Int, 4)
	case ValueLong:
		writeSigned(b, v.Type, v.Int, 8)
	case ValueFloat:
		b.u8(uint8(v.Type) | 3<<5)
		b.u32(math.Float32bits(v.Float))
	case ValueDouble:
		b.u8(uint8(v.Type) | 7<<5)
		b.u64(math.Float64bits(v.Double))
	case ValueString, ValueTypeRef, ValueField, ValueMethod, ValueEnum:
		idx, err := e.valueRefIndex(v)
		if err != nil {
			return err
		}
		writeUnsigned(b, v.Type, uint64(idx), 4)
	case ValueArray:
		b.u8(uint8(ValueArray))
		return e.writeArray(b, v.Array)
	case ValueAnnotation:
		if v.Annotation == nil {
			return fmt.Errorf("%w: annotation value without annotation", ErrStructuralInconsistency)
		}
		b.u8(uint8(ValueAnnotation))
		return e.writeAnnotationBody(b, v.Annotation)
	case ValueNull:
		b.u8(uint8(ValueNull))
	case ValueBoolean:
		h := uint8(ValueBoolean)
		if v.Bool {
			h |= 1 << 5
		}
		b.u8(h)
	default:
		return fmt.Errorf("%w: unknown value type 0x%02x", ErrStructuralInconsistency, uint8(v.Type))
	}

	return nil
}

func (e *encoder) valueRefIndex(v *Value) (uint32, error) {
	switch v.Type {
	case ValueString:
		return e.pool.stringIndex(v.String)
	case ValueTypeRef:
		return e.pool.typeIndex(v.String)
	case ValueField, ValueEnum:
		return e.pool.fieldIndex(v.Field)
	}

	return e.pool.methodIndex(v.Method)
}

// writeArray encodes an encoded_array.
func (e *encoder) writeArray(b *buffer, values []Value) error {
	b.uleb(uint32(len(values)))
	for i := range values {
		if err := e.writeValue(b, &values[i]); err != nil {
			return err
		}
	}

	return nil
}

// writeSigned writes v in the fewest bytes that sign-extend back to v.
func writeSigned(b *buffer, t ValueType, v int64, maxBytes uint32) {
	n := uint32(1)
	for n < maxBytes && signExtend(uint64(v), uint8(2*n)) != v {
		n++
	}

	b.u8(uint8(t) | uint8(n-1)<<5)
	for i := uint32(0); i < n; i++ {
		b.u8(uint8(v >> (8 * i)))
	}
}

// writeUnsigned writes v in the fewest bytes, at least one.
func writeUnsigned(b *buffer, t ValueType, v uint64, maxBytes uint32) {
	n := uint32(1)
	for n < maxBytes && v>>(8*n) != 0 {
		n++
	}

	b.u8(uint8(t) | uint8(n-1)<<5)
	for i := uint32(0); i < n; i++ {
		b.u8(uint8(v >> (8 * i)))
	}
}
