// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import "fmt"

// readDebugInfo decodes a debug_info_item.
func (d *decoder) readDebugInfo(off uint32) (*DebugInfo, error) {
	c := d.data(off)
	info := &DebugInfo{LineStart: c.uleb()}

	n := c.uleb()
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("debug info at 0x%x: %w", off, err)
	}

	info.ParameterNames = make([]string, 0, min(n, c.hi-c.pos))
	for i := uint32(0); i < n; i++ {
		name, err := d.optString(c.ulebp1())
		if err != nil {
			return nil, fmt.Errorf("debug info at 0x%x parameter %d: %w", off, i, err)
		}
		info.ParameterNames = append(info.ParameterNames, name)
	}

	for {
		at := c.pos
		insn := DebugInstruction{Opcode: DebugOpcode(c.u8())}
		if err := c.Err(); err != nil {
			return nil, fmt.Errorf("debug info at 0x%x: %w", off, err)
		}

		var err error
		switch insn.Opcode {
		case DbgEndSequence:
			return info, nil
		case DbgAdvancePC:
			insn.AddrDiff = c.uleb()
		case DbgAdvanceLine:
			insn.LineDiff = c.sleb()
		case DbgStartLocal, DbgStartLocalExtended:
			insn.Register = c.uleb()
			if insn.Name, err = d.optString(c.ulebp1()); err != nil {
				break
			}
			if insn.Type, err = d.optType(c.ulebp1()); err != nil {
				break
			}
			if insn.Opcode == DbgStartLocalExtended {
				insn.Signature, err = d.optString(c.ulebp1())
			}
		case DbgEndLocal, DbgRestartLocal:
			insn.Register = c.uleb()
		case DbgSetFile:
			insn.Name, err = d.optString(c.ulebp1())
		}
		if err == nil {
			err = c.Err()
		}
		if err != nil {
			return nil, fmt.Errorf("debug opcode 0x%02x at 0x%x: %w", uint8(insn.Opcode), at, err)
		}

		info.Insns = append(info.Insns, insn)
	}
}

// optString resolves an optional string index; noIndex is "".
func (d *decoder) optString(idx uint32) (string, error) {
	if idx == noIndex {
		return "", nil
	}
	if idx >= uint32(len(d.strings)) {
		return "", fmt.Errorf("%w: string index %d of %d", ErrIndexTooLarge, idx, len(d.strings))
	}

	return d.strings[idx], nil
}

// optType resolves an optional type index; noIndex is "".
func (d *decoder) optType(idx uint32) (string, error) {
	if idx == noIndex {
		return "", nil
	}
	if idx >= uint32(len(d.types)) {
		return "", fmt.Errorf("%w: type index %d of %d", ErrIndexTooLarge, idx, len(d.types))
	}

	return d.types[idx], nil
}

// emitDebugInfo emits a debug_info_item and returns its provisional index.
func (e *encoder) emitDebugInfo(info *DebugInfo) (int, error) {
	it, idx := e.newItem(kindDebugInfo)
	b := &it.buf

	b.uleb(info.LineStart)
	b.uleb(uint32(len(info.ParameterNames)))
	for _, name := range info.ParameterNames {
		if err := e.writeOptString(b, name); err != nil {
			return 0, err
		}
	}

	for _, insn := range info.Insns {
		if insn.Opcode == DbgEndSequence {
			break
		}

		b.u8(uint8(insn.Opcode))
		var err error
		switch insn.Opcode {
		case DbgAdvancePC:
			b.uleb(insn.AddrDiff)
		case DbgAdvanceLine:
			b.sleb(insn.LineDiff)
		case DbgStartLocal, DbgStartLocalExtended:
			b.uleb(insn.Register)
			if err = e.writeOptString(b, insn.Name); err != nil {
				break
			}
			if err = e.writeOptType(b, insn.Type); err != nil {
				break
			}
			if insn.Opcode == DbgStartLocalExtended {
				err = e.writeOptString(b, insn.Signature)
			}
		case DbgEndLocal, DbgRestartLocal:
			b.uleb(insn.Register)
		case DbgSetFile:
			err = e.writeOptString(b, insn.Name)
		}
		if err != nil {
			return 0, err
		}
	}
	b.u8(uint8(DbgEndSequence))

	return idx, nil
}

func (e *encoder) writeOptString(b *buffer, s string) error {
	if s == "" {
		b.ulebp1(noIndex)
		return nil
	}

	idx, err := e.pool.stringIndex(s)
	if err != nil {
		return err
	}
	b.ulebp1(idx)
	return nil
}

func (e *encoder) writeOptType(b *buffer, t string) error {
	if t == "" {
		b.ulebp1(noIndex)
		return nil
	}

	idx, err := e.pool.typeIndex(t)
	if err != nil {
		return err
	}
	b.ulebp1(idx)
	return nil
}
