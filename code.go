// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// readCode decodes the code_item at off.
func (d *decoder) readCode(off uint32) (*Code, error) {
	c := d.data(off)
	code := &Code{
		RegistersSize: c.u16(),
		InsSize:       c.u16(),
		OutsSize:      c.u16(),
	}
	triesSize := c.u16()
	debugOff := c.u32()
	n := c.u32()
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("code item at 0x%x: %w", off, err)
	}
	if uint64(c.pos)+uint64(n)*2 > uint64(c.hi) {
		return nil, fmt.Errorf("%w: code item at 0x%x has %d code units", ErrOutOfBounds, off, n)
	}

	units := make([]uint16, n)
	for i := range units {
		units[i] = c.u16()
	}

	if triesSize > 0 {
		if n%2 == 1 {
			c.skip(2)
		}
		tries, err := d.readTries(c, uint32(triesSize))
		if err != nil {
			return nil, fmt.Errorf("code item at 0x%x: %w", off, err)
		}
		code.Tries = tries
	}

	if debugOff != 0 {
		debug, err := d.readDebugInfo(debugOff)
		if err != nil {
			return nil, err
		}
		code.Debug = debug
	}

	insns, err := decodeInstructions(units, &d.tables)
	if err != nil {
		return nil, fmt.Errorf("code item at 0x%x: %w", off, err)
	}
	code.Insns = insns

	return code, nil
}

// readTries decodes try items at c and their handlers.
func (d *decoder) readTries(c *cursor, n uint32) ([]TryBlock, error) {
	if !c.need(n * 8) {
		return nil, c.Err()
	}

	handlerBase := c.pos + n*8
	tries := make([]TryBlock, n)
	for i := range tries {
		t := &tries[i]
		t.StartAddr = c.u32()
		t.InsnCount = c.u16()
		handlerOff := c.u16()

		if err := d.readHandler(t, handlerBase+uint32(handlerOff)); err != nil {
			return nil, fmt.Errorf("try %d: %w", i, err)
		}
	}

	return tries, c.Err()
}

// readHandler decodes an encoded_catch_handler into t.
func (d *decoder) readHandler(t *TryBlock, off uint32) error {
	h := d.data(off)
	size := int64(h.sleb())
	catchAll := size <= 0
	if catchAll {
		size = -size
	}

	for j := int64(0); j < size && h.Err() == nil; j++ {
		typeIdx := h.uleb()
		addr := h.uleb()
		if h.Err() != nil {
			break
		}
		if typeIdx >= uint32(len(d.types)) {
			return fmt.Errorf("%w: handler type %d of %d", ErrIndexTooLarge, typeIdx, len(d.types))
		}
		t.Handlers = append(t.Handlers, Handler{Type: d.types[typeIdx], Addr: addr})
	}

	if catchAll {
		t.CatchAll = &Handler{Addr: h.uleb()}
	}

	if err := h.Err(); err != nil {
		return fmt.Errorf("handler at 0x%x: %w", off, err)
	}

	return nil
}

// emitCode emits a code_item and its debug info.
func (e *encoder) emitCode(code *Code, item string) (int, error) {
	debug := -1
	if code.Debug != nil {
		var err error
		if debug, err = e.emitDebugInfo(code.Debug); err != nil {
			return 0, err
		}
	}

	enc := insnEncoder{pool: &e.pool, diag: e.diag, item: item}
	units, err := enc.encode(nil, code.Insns)
	if err != nil {
		return 0, err
	}
	if len(code.Tries) > 0xffff {
		return 0, fmt.Errorf("%w: %d try blocks", ErrSizeOverflow, len(code.Tries))
	}

	it, idx := e.newItem(kindCode)
	b := &it.buf
	b.u16(code.RegistersSize)
	b.u16(code.InsSize)
	b.u16(code.OutsSize)
	b.u16(uint16(len(code.Tries)))
	if debug < 0 {
		b.u32(0)
	} else {
		b.offsetTo(debug)
	}
	b.u32(uint32(len(units)))
	for _, u := range units {
		b.u16(u)
	}

	if len(code.Tries) == 0 {
		return idx, nil
	}
	b.align(4)

	tries := slices.Clone(code.Tries)
	slices.SortStableFunc(tries, func(x, y TryBlock) int { return cmpUint32(x.StartAddr, y.StartAddr) })

	var handlers buffer
	handlers.uleb(uint32(len(tries)))
	offsets := make([]uint16, len(tries))
	for i := range tries {
		if handlers.len() > 0xffff {
			return 0, fmt.Errorf("%w: handler list exceeds 64 KiB", ErrSizeOverflow)
		}
		offsets[i] = uint16(handlers.len())
		if err := e.writeHandler(&handlers, &tries[i]); err != nil {
			return 0, err
		}
	}

	for i := range tries {
		b.u32(tries[i].StartAddr)
		b.u16(tries[i].InsnCount)
		b.u16(offsets[i])
	}
	b.bytes(handlers.data)

	return idx, nil
}

// writeHandler encodes the handlers of t as an encoded_catch_handler.
func (e *encoder) writeHandler(b *buffer, t *TryBlock) error {
	n := int32(len(t.Handlers))
	if t.CatchAll != nil {
		n = -n
	}
	b.sleb(n)

	for _, h := range t.Handlers {
		idx, err := e.pool.typeIndex(h.Type)
		if err != nil {
			return err
		}
		b.uleb(idx)
		b.uleb(h.Addr)
	}

	if t.CatchAll != nil {
		b.uleb(t.CatchAll.Addr)
	}

	return nil
}
