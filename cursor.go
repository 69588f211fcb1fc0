// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import (
	"encoding/binary"
	"fmt"
)

// maxLEB128Len is the longest LEB128 encoding of a 32-bit value.
const maxLEB128Len = 5

// cursor reads little-endian values from buf inside the window [lo, hi).
// The first failure is kept and every later read returns zero.
type cursor struct {
	buf []byte
	err error
	pos uint32
	lo  uint32
	hi  uint32
}

// newCursor returns a cursor at pos limited to [lo, hi), clamped to buf.
func newCursor(buf []byte, pos, lo, hi uint32) *cursor {
	if uint64(hi) > uint64(len(buf)) {
		hi = uint32(len(buf))
	}

	c := &cursor{buf: buf, pos: pos, lo: lo, hi: hi}
	if pos < lo || pos > hi {
		c.err = fmt.Errorf("%w: offset 0x%x outside [0x%x, 0x%x]", ErrOutOfBounds, pos, lo, hi)
	}

	return c
}

// Err returns the first read failure.
func (c *cursor) Err() error {
	return c.err
}

// fail records err unless a failure is already recorded.
func (c *cursor) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// need reports whether n bytes are readable at pos.
func (c *cursor) need(n uint32) bool {
	if c.err != nil {
		return false
	}

	if uint64(c.pos)+uint64(n) > uint64(c.hi) {
		c.err = fmt.Errorf("%w: read %d bytes at 0x%x, limit 0x%x", ErrOutOfBounds, n, c.pos, c.hi)
		return false
	}

	return true
}

// seek moves to off; off equal to the window end is allowed.
func (c *cursor) seek(off uint32) {
	if c.err != nil {
		return
	}

	if off < c.lo || off > c.hi {
		c.err = fmt.Errorf("%w: offset 0x%x outside [0x%x, 0x%x]", ErrOutOfBounds, off, c.lo, c.hi)
		return
	}

	c.pos = off
}

func (c *cursor) skip(n uint32) {
	if c.need(n) {
		c.pos += n
	}
}

func (c *cursor) u8() uint8 {
	if !c.need(1) {
		return 0
	}

	v := c.buf[c.pos]
	c.pos++
	return v
}

func (c *cursor) u16() uint16 {
	if !c.need(2) {
		return 0
	}

	v := binary.LittleEndian.Uint16(c.buf[c.pos:])
	c.pos += 2
	return v
}

func (c *cursor) u32() uint32 {
	if !c.need(4) {
		return 0
	}

	v := binary.LittleEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v
}

func (c *cursor) u64() uint64 {
	if !c.need(8) {
		return 0
	}

	v := binary.LittleEndian.Uint64(c.buf[c.pos:])
	c.pos += 8
	return v
}

// bytes returns n bytes at pos without copying.
func (c *cursor) bytes(n uint32) []byte {
	if !c.need(n) {
		return nil
	}

	b := c.buf[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return b
}

// uleb reads an unsigned LEB128 value of at most five bytes.
func (c *cursor) uleb() uint32 {
	var v uint32
	for i := 0; i < maxLEB128Len; i++ {
		b := c.u8()
		if c.err != nil {
			return 0
		}

		v |= uint32(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			break
		}
	}

	return v
}

// ulebp1 reads a ULEB128p1 value; an encoded zero yields noIndex.
func (c *cursor) ulebp1() uint32 {
	return c.uleb() - 1
}

// sleb reads a signed LEB128 value of at most five bytes.
func (c *cursor) sleb() int32 {
	var v uint32
	shift := 0
	for i := 0; i < maxLEB128Len; i++ {
		b := c.u8()
		if c.err != nil {
			return 0
		}

		v |= uint32(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 32 && b&0x40 != 0 {
				v |= ^uint32(0) << shift
			}
			break
		}
	}

	return int32(v)
}

// cstring reads bytes up to a NUL terminator and consumes the terminator.
func (c *cursor) cstring() []byte {
	if c.err != nil {
		return nil
	}

	for end := c.pos; end < c.hi; end++ {
		if c.buf[end] == 0 {
			b := c.buf[c.pos:end:end]
			c.pos = end + 1
			return b
		}
	}

	c.err = fmt.Errorf("%w: unterminated string at 0x%x", ErrOutOfBounds, c.pos)
	return nil
}
