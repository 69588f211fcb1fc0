// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import "fmt"

// IsPseudo reports whether insn is a packed-switch, sparse-switch or
// fill-array-data payload table.
func (insn *Instruction) IsPseudo() bool {
	return insn.Opcode == OpNop && insn.HiByte != 0
}

// Pseudo returns the payload table kind, or PseudoNone.
func (insn *Instruction) Pseudo() PseudoKind {
	if !insn.IsPseudo() {
		return PseudoNone
	}

	return PseudoKind(insn.HiByte)
}

// Width returns the instruction width in 16-bit code units.
func (insn *Instruction) Width() int {
	switch insn.Pseudo() {
	case PseudoNone:
		return int(insn.Opcode.Format().Size)
	case PseudoPackedSwitch:
		return 4 + 2*len(insn.Targets)
	case PseudoSparseSwitch:
		return 2 + 4*len(insn.Keys)
	case PseudoFillArray:
		return int(4 + (uint64(insn.ElementWidth)*uint64(insn.ElementCount)+1)/2)
	default:
		return 1
	}
}

// Format returns the format table entry of the opcode.
func (insn *Instruction) Format() OpFormat {
	return insn.Opcode.Format()
}

// decodeInstructions decodes a complete instruction stream.
func decodeInstructions(units []uint16, t *tables) ([]Instruction, error) {
	insns := make([]Instruction, 0, len(units)/2+1)
	for i := 0; i < len(units); {
		insn, width, err := decodeInstruction(units[i:], t)
		if err != nil {
			return nil, fmt.Errorf("instruction at unit %d: %w", i, err)
		}

		insns = append(insns, insn)
		i += width
	}

	return insns, nil
}

// decodeInstruction decodes the instruction at u[0] and returns its width.
func decodeInstruction(u []uint16, t *tables) (Instruction, int, error) {
	insn := Instruction{
		Opcode: Opcode(u[0] & 0xff),
		HiByte: uint8(u[0] >> 8),
	}

	if insn.IsPseudo() {
		width, err := decodePseudo(&insn, u)
		return insn, width, err
	}

	f := insn.Opcode.Format()
	if !f.Allocated() {
		return insn, 0, fmt.Errorf("%w: unallocated opcode 0x%02x", ErrStructuralInconsistency, uint8(insn.Opcode))
	}
	if len(u) < int(f.Size) {
		return insn, 0, fmt.Errorf("%w: %s needs %d units, %d left", ErrOutOfBounds, f.Name, f.Size, len(u))
	}

	if f.Size > 1 {
		insn.Params[0] = u[1]
	}
	if f.Size > 2 {
		insn.Params[1] = u[2]
	}

	if f.Special == SpecialNone {
		return insn, int(f.Size), nil
	}

	v := extractSpecial(f, u)
	if err := assignSpecial(&insn, f, v, t); err != nil {
		return insn, 0, err
	}

	return insn, int(f.Size), nil
}

// extractSpecial reads the raw special operand bits.
func extractSpecial(f OpFormat, u []uint16) uint64 {
	switch {
	case f.SpecialPos == 0 && f.SpecialSize == 1:
		return uint64(u[0] >> 12)
	case f.SpecialPos == 0 && f.SpecialSize == 2:
		return uint64(u[0] >> 8)
	case f.SpecialSize == 2:
		return uint64(u[1] >> 8)
	case f.SpecialSize == 4:
		return uint64(u[1])
	case f.SpecialSize == 8:
		return uint64(u[1]) | uint64(u[2])<<16
	case f.SpecialSize == 16:
		return uint64(u[1]) | uint64(u[2])<<16 | uint64(u[3])<<32 | uint64(u[4])<<48
	}

	return 0
}

// assignSpecial stores the special operand into insn, resolving pool references.
func assignSpecial(insn *Instruction, f OpFormat, v uint64, t *tables) error {
	switch f.Special {
	case SpecialConstant:
		insn.Constant = signExtend(v, f.SpecialSize)
	case SpecialTarget:
		insn.Target = int32(signExtend(v, f.SpecialSize))
	case SpecialString:
		if v >= uint64(len(t.strings)) {
			return fmt.Errorf("%w: %s string index %d of %d", ErrIndexTooLarge, f.Name, v, len(t.strings))
		}
		insn.String = t.strings[v]
	case SpecialType:
		if v >= uint64(len(t.types)) {
			return fmt.Errorf("%w: %s type index %d of %d", ErrIndexTooLarge, f.Name, v, len(t.types))
		}
		insn.Type = t.types[v]
	case SpecialField:
		if v >= uint64(len(t.fields)) {
			return fmt.Errorf("%w: %s field index %d of %d", ErrIndexTooLarge, f.Name, v, len(t.fields))
		}
		insn.Field = t.fields[v]
	case SpecialMethod:
		if v >= uint64(len(t.methods)) {
			return fmt.Errorf("%w: %s method index %d of %d", ErrIndexTooLarge, f.Name, v, len(t.methods))
		}
		insn.Method = t.method(uint32(v))
	case SpecialInline, SpecialObject, SpecialVTable:
		insn.Index = uint32(v)
	}

	return nil
}

// signExtend sign-extends a value of nibbles*4 bits to 64 bits.
func signExtend(v uint64, nibbles uint8) int64 {
	bits := uint(nibbles) * 4
	if bits >= 64 {
		return int64(v)
	}

	shift := 64 - bits
	return int64(v<<shift) >> shift
}

// decodePseudo decodes a payload table at u[0].
func decodePseudo(insn *Instruction, u []uint16) (int, error) {
	if len(u) < 2 {
		return 0, fmt.Errorf("%w: truncated payload table", ErrOutOfBounds)
	}

	switch insn.Pseudo() {
	case PseudoPackedSwitch:
		n := int(u[1])
		width := 4 + 2*n
		if len(u) < width {
			return 0, fmt.Errorf("%w: packed-switch needs %d units, %d left", ErrOutOfBounds, width, len(u))
		}

		insn.FirstKey = unitsInt32(u[2:])
		insn.Targets = make([]int32, n)
		for j := range insn.Targets {
			insn.Targets[j] = unitsInt32(u[4+2*j:])
		}
		return width, nil

	case PseudoSparseSwitch:
		n := int(u[1])
		width := 2 + 4*n
		if len(u) < width {
			return 0, fmt.Errorf("%w: sparse-switch needs %d units, %d left", ErrOutOfBounds, width, len(u))
		}

		insn.Keys = make([]int32, n)
		insn.Targets = make([]int32, n)
		for j := 0; j < n; j++ {
			insn.Keys[j] = unitsInt32(u[2+2*j:])
			insn.Targets[j] = unitsInt32(u[2+2*(n+j):])
		}
		return width, nil

	case PseudoFillArray:
		if len(u) < 4 {
			return 0, fmt.Errorf("%w: truncated fill-array-data", ErrOutOfBounds)
		}

		insn.ElementWidth = u[1]
		insn.ElementCount = uint32(unitsInt32(u[2:]))
		size := uint64(insn.ElementWidth) * uint64(insn.ElementCount)
		width := 4 + (size+1)/2
		if uint64(len(u)) < width {
			return 0, fmt.Errorf("%w: fill-array-data needs %d units, %d left", ErrOutOfBounds, width, len(u))
		}

		insn.Data = make([]byte, size)
		for k := range insn.Data {
			unit := u[4+k/2]
			if k%2 == 1 {
				unit >>= 8
			}
			insn.Data[k] = byte(unit)
		}
		return int(width), nil
	}

	return 0, fmt.Errorf("%w: unknown payload table 0x%02x", ErrStructuralInconsistency, insn.HiByte)
}

// unitsInt32 reads a little-endian 32-bit value from two code units.
func unitsInt32(u []uint16) int32 {
	return int32(uint32(u[0]) | uint32(u[1])<<16)
}

// appendInt32Units appends v as two code units.
func appendInt32Units(dst []uint16, v int32) []uint16 {
	return append(dst, uint16(uint32(v)), uint16(uint32(v)>>16))
}

// insnEncoder encodes instructions against a finalized constant pool.
type insnEncoder struct {
	pool *constantPool
	diag *diagnostics
	// item names the enclosing method in warnings.
	item string
}

// encode appends the code units of all insns to dst.
func (e *insnEncoder) encode(dst []uint16, insns []Instruction) ([]uint16, error) {
	for i := range insns {
		var err error
		dst, err = e.encodeOne(dst, &insns[i])
		if err != nil {
			return nil, fmt.Errorf("instruction %d (%s): %w", i, insns[i].Opcode, err)
		}
	}

	return dst, nil
}

func (e *insnEncoder) encodeOne(dst []uint16, insn *Instruction) ([]uint16, error) {
	if insn.IsPseudo() {
		return encodePseudo(dst, insn)
	}

	f := insn.Opcode.Format()
	if !f.Allocated() {
		return nil, fmt.Errorf("%w: unallocated opcode 0x%02x", ErrStructuralInconsistency, uint8(insn.Opcode))
	}

	var u [5]uint16
	if forcesZeroHi(f) {
		u[0] = uint16(insn.Opcode)
	} else {
		u[0] = uint16(insn.HiByte)<<8 | uint16(insn.Opcode)
	}
	u[1], u[2] = insn.Params[0], insn.Params[1]

	if f.Special != SpecialNone {
		v, err := e.specialValue(insn, f)
		if err != nil {
			return nil, err
		}
		if err := e.checkRange(f, v); err != nil {
			return nil, err
		}
		packSpecial(&u, f, v)
	}

	return append(dst, u[:f.Size]...), nil
}

// forcesZeroHi reports formats whose first unit carries no operand bits.
func forcesZeroHi(f OpFormat) bool {
	switch f.ID {
	case "0x":
		return f.Size == 1
	case "0t":
		return f.Size == 2 || f.Size == 3
	case "2x":
		return f.Size == 3
	}

	return false
}

// specialValue returns the raw value of the special operand.
func (e *insnEncoder) specialValue(insn *Instruction, f OpFormat) (int64, error) {
	var (
		idx uint32
		err error
	)

	switch f.Special {
	case SpecialConstant:
		return insn.Constant, nil
	case SpecialTarget:
		return int64(insn.Target), nil
	case SpecialString:
		idx, err = e.pool.stringIndex(insn.String)
	case SpecialType:
		idx, err = e.pool.typeIndex(insn.Type)
	case SpecialField:
		idx, err = e.pool.fieldIndex(insn.Field)
	case SpecialMethod:
		idx, err = e.pool.methodIndex(insn.Method)
	default:
		return int64(insn.Index), nil
	}

	return int64(idx), err
}

// checkRange reports a value that does not fit the operand width.
func (e *insnEncoder) checkRange(f OpFormat, v int64) error {
	bits := uint(f.SpecialSize) * 4
	if bits >= 64 {
		return nil
	}

	var fits bool
	if f.Special == SpecialConstant || f.Special == SpecialTarget {
		lim := int64(1) << (bits - 1)
		fits = v >= -lim && v < lim
	} else {
		fits = v >= 0 && v < int64(1)<<bits
	}
	if fits {
		return nil
	}

	return e.diag.warn(Warning{
		Err:    ErrOperandOverflow,
		Detail: fmt.Sprintf("%s operand %d does not fit %d bits", f.Name, v, bits),
		Item:   e.item,
	})
}

// packSpecial stores the low bits of v into the code units.
func packSpecial(u *[5]uint16, f OpFormat, v int64) {
	w := uint64(v)
	switch {
	case f.SpecialPos == 0 && f.SpecialSize == 1:
		u[0] = u[0]&0x0fff | uint16(w<<12)
	case f.SpecialPos == 0 && f.SpecialSize == 2:
		u[0] = u[0]&0x00ff | uint16(w<<8)
	case f.SpecialSize == 2:
		u[1] = u[1]&0x00ff | uint16(w<<8)
	case f.SpecialSize == 4:
		u[1] = uint16(w)
	case f.SpecialSize == 8:
		u[1] = uint16(w)
		u[2] = uint16(w >> 16)
	case f.SpecialSize == 16:
		u[1] = uint16(w)
		u[2] = uint16(w >> 16)
		u[3] = uint16(w >> 32)
		u[4] = uint16(w >> 48)
	}
}

// encodePseudo appends a payload table.
func encodePseudo(dst []uint16, insn *Instruction) ([]uint16, error) {
	head := uint16(insn.HiByte)<<8 | uint16(insn.Opcode)

	switch insn.Pseudo() {
	case PseudoPackedSwitch:
		if len(insn.Targets) > 0xffff {
			return nil, fmt.Errorf("%w: packed-switch has %d targets", ErrSizeOverflow, len(insn.Targets))
		}

		dst = append(dst, head, uint16(len(insn.Targets)))
		dst = appendInt32Units(dst, insn.FirstKey)
		for _, t := range insn.Targets {
			dst = appendInt32Units(dst, t)
		}
		return dst, nil

	case PseudoSparseSwitch:
		if len(insn.Keys) != len(insn.Targets) {
			return nil, fmt.Errorf("%w: sparse-switch has %d keys and %d targets",
				ErrStructuralInconsistency, len(insn.Keys), len(insn.Targets))
		}
		if len(insn.Keys) > 0xffff {
			return nil, fmt.Errorf("%w: sparse-switch has %d keys", ErrSizeOverflow, len(insn.Keys))
		}

		dst = append(dst, head, uint16(len(insn.Keys)))
		for _, k := range insn.Keys {
			dst = appendInt32Units(dst, k)
		}
		for _, t := range insn.Targets {
			dst = appendInt32Units(dst, t)
		}
		return dst, nil

	case PseudoFillArray:
		size := uint64(insn.ElementWidth) * uint64(insn.ElementCount)
		if size != uint64(len(insn.Data)) {
			return nil, fmt.Errorf("%w: fill-array-data declares %d bytes, has %d",
				ErrStructuralInconsistency, size, len(insn.Data))
		}

		dst = append(dst, head, insn.ElementWidth)
		dst = appendInt32Units(dst, int32(insn.ElementCount))
		for k := 0; k < len(insn.Data); k += 2 {
			unit := uint16(insn.Data[k])
			if k+1 < len(insn.Data) {
				unit |= uint16(insn.Data[k+1]) << 8
			}
			dst = append(dst, unit)
		}
		return dst, nil
	}

	return nil, fmt.Errorf("%w: unknown payload table 0x%02x", ErrStructuralInconsistency, insn.HiByte)
}
