// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import "fmt"

// NumRegisters returns the number of register operands of insn.
func (insn *Instruction) NumRegisters() int {
	if insn.IsPseudo() {
		return 0
	}

	id := insn.Format().ID
	switch id[0] {
	case 'r':
		return int(insn.HiByte)
	case '5':
		return int(insn.HiByte >> 4)
	}

	return int(id[0] - '0')
}

// SetNumRegisters changes the register count of variable-count formats.
// Fixed formats accept only their own count.
func (insn *Instruction) SetNumRegisters(n int) error {
	if insn.IsPseudo() {
		return fmt.Errorf("%w: payload table has no registers", ErrInvalidRegister)
	}

	id := insn.Format().ID
	switch id[0] {
	case 'r':
		if n < 0 || n > 0xff {
			return fmt.Errorf("%w: %d registers for range format", ErrInvalidRegister, n)
		}
		insn.HiByte = uint8(n)
	case '5':
		if n < 0 || n > 5 {
			return fmt.Errorf("%w: %d registers for format %s", ErrInvalidRegister, n, id)
		}
		insn.HiByte = insn.HiByte&0x0f | uint8(n)<<4
	default:
		if n != int(id[0]-'0') {
			return fmt.Errorf("%w: format %s has %c registers, not %d", ErrInvalidRegister, id, id[0], n)
		}
	}

	return nil
}

// Register returns register operand i.
func (insn *Instruction) Register(i int) (uint16, error) {
	if i < 0 || i >= insn.NumRegisters() {
		return 0, fmt.Errorf("%w: register %d of %d", ErrInvalidRegister, i, insn.NumRegisters())
	}

	f := insn.Format()
	hi := uint16(insn.HiByte)
	p := insn.Params

	switch f.ID[0] {
	case 'r':
		return p[1] + uint16(i), nil
	case '1':
		if f.ID[1] == 'n' {
			return hi & 0x0f, nil
		}
		return hi, nil
	case '2':
		switch f.ID[1] {
		case 'x':
			switch f.Size {
			case 3:
				return p[i], nil
			case 2:
				if i == 0 {
					return hi, nil
				}
				return p[0], nil
			}
			return hi >> (4 * i) & 0x0f, nil
		case 'b':
			if i == 0 {
				return hi, nil
			}
			return p[0] & 0xff, nil
		}
		return hi >> (4 * i) & 0x0f, nil
	case '3':
		switch i {
		case 0:
			return hi, nil
		case 1:
			return p[0] & 0xff, nil
		}
		return p[0] >> 8, nil
	case '5':
		if i == 4 {
			return hi & 0x0f, nil
		}
		return p[1] >> (4 * i) & 0x0f, nil
	}

	return 0, fmt.Errorf("%w: format %s", ErrInvalidRegister, f.ID)
}

// RegisterWidth returns the width in nibbles of register operand i, or 0
// when i is not a register of insn.
func (insn *Instruction) RegisterWidth(i int) int {
	if i < 0 || i >= insn.NumRegisters() {
		return 0
	}

	f := insn.Format()
	switch f.ID[0] {
	case 'r':
		return 4
	case '1':
		if f.ID[1] == 'n' {
			return 1
		}
		return 2
	case '2':
		switch f.ID[1] {
		case 'x':
			switch f.Size {
			case 3:
				return 4
			case 2:
				if i == 0 {
					return 2
				}
				return 4
			}
			return 1
		case 'b':
			return 2
		}
		return 1
	case '3':
		return 2
	case '5':
		return 1
	}

	return 0
}

// SetRegister replaces register operand i. Range formats only allow the
// first register to be set; the rest follow it.
func (insn *Instruction) SetRegister(i int, reg uint16) error {
	w := insn.RegisterWidth(i)
	if w == 0 {
		return fmt.Errorf("%w: register %d of %d", ErrInvalidRegister, i, insn.NumRegisters())
	}
	if w < 4 && reg >= 1<<(4*w) {
		return fmt.Errorf("%w: v%d does not fit %d bits", ErrInvalidRegister, reg, 4*w)
	}

	f := insn.Format()
	shift := uint(4 * i)

	switch f.ID[0] {
	case 'r':
		if i != 0 {
			return fmt.Errorf("%w: range register %d is implied", ErrInvalidRegister, i)
		}
		insn.Params[1] = reg
	case '1':
		if f.ID[1] == 'n' {
			insn.HiByte = insn.HiByte&0xf0 | uint8(reg)
		} else {
			insn.HiByte = uint8(reg)
		}
	case '2':
		switch {
		case f.ID[1] == 'x' && f.Size == 3:
			insn.Params[i] = reg
		case f.ID[1] == 'x' && f.Size == 2, f.ID[1] == 'b':
			if i == 0 {
				insn.HiByte = uint8(reg)
			} else if f.ID[1] == 'b' {
				insn.Params[0] = insn.Params[0]&0xff00 | reg
			} else {
				insn.Params[0] = reg
			}
		default:
			insn.HiByte = insn.HiByte&^(0x0f<<shift) | uint8(reg)<<shift
		}
	case '3':
		switch i {
		case 0:
			insn.HiByte = uint8(reg)
		case 1:
			insn.Params[0] = insn.Params[0]&0xff00 | reg
		default:
			insn.Params[0] = insn.Params[0]&0x00ff | reg<<8
		}
	case '5':
		if i == 4 {
			insn.HiByte = insn.HiByte&0xf0 | uint8(reg)
		} else {
			insn.Params[1] = insn.Params[1]&^(0x0f<<shift) | reg<<shift
		}
	}

	return nil
}
