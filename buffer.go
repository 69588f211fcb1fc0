// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import "encoding/binary"

// relocKind selects how a relocation is patched.
type relocKind uint8

const (
	// relocOffset is a 4-byte little-endian absolute offset.
	relocOffset relocKind = iota
	// relocULEB is a ULEB128 absolute offset padded to 4 bytes.
	relocULEB
)

// relocation is a placeholder in a buffer that receives the final offset of
// another item once layout is known.
type relocation struct {
	at     int // byte position inside the buffer
	target int // provisional item index
	kind   relocKind
}

// buffer is a growable little-endian byte sink for one item.
type buffer struct {
	data   []byte
	relocs []relocation
}

func (b *buffer) len() int {
	return len(b.data)
}

func (b *buffer) u8(v uint8) {
	b.data = append(b.data, v)
}

func (b *buffer) u16(v uint16) {
	b.data = binary.LittleEndian.AppendUint16(b.data, v)
}

func (b *buffer) u32(v uint32) {
	b.data = binary.LittleEndian.AppendUint32(b.data, v)
}

func (b *buffer) u64(v uint64) {
	b.data = binary.LittleEndian.AppendUint64(b.data, v)
}

func (b *buffer) bytes(p []byte) {
	b.data = append(b.data, p...)
}

// uleb writes v as unsigned LEB128; zero is one byte.
func (b *buffer) uleb(v uint32) {
	for v >= 0x80 {
		b.data = append(b.data, byte(v)|0x80)
		v >>= 7
	}
	b.data = append(b.data, byte(v))
}

// ulebp1 writes v+1 as unsigned LEB128, so noIndex becomes zero.
func (b *buffer) ulebp1(v uint32) {
	b.uleb(v + 1)
}

// sleb writes v as signed LEB128 using the fewest bytes that keep the sign.
func (b *buffer) sleb(v int32) {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && c&0x40 == 0) || (v == -1 && c&0x40 != 0) {
			b.data = append(b.data, c)
			return
		}
		b.data = append(b.data, c|0x80)
	}
}

// align pads with zero bytes until the length is a multiple of n.
func (b *buffer) align(n int) {
	for len(b.data)%n != 0 {
		b.data = append(b.data, 0)
	}
}

// offsetTo writes a 4-byte placeholder for the offset of item target.
func (b *buffer) offsetTo(target int) {
	b.relocs = append(b.relocs, relocation{at: len(b.data), target: target, kind: relocOffset})
	b.u32(0)
}

// ulebOffsetTo writes a padded 4-byte ULEB128 placeholder for the offset of item target.
func (b *buffer) ulebOffsetTo(target int) {
	b.relocs = append(b.relocs, relocation{at: len(b.data), target: target, kind: relocULEB})
	b.data = append(b.data, 0x80, 0x80, 0x80, 0x00)
}

// patch writes off into the placeholder r.
func (b *buffer) patch(r relocation, off uint32) {
	p := b.data[r.at : r.at+4]
	if r.kind == relocULEB {
		p[0] = byte(off&0x7f) | 0x80
		p[1] = byte(off>>7&0x7f) | 0x80
		p[2] = byte(off>>14&0x7f) | 0x80
		p[3] = byte(off >> 21 & 0x7f)
		return
	}

	binary.LittleEndian.PutUint32(p, off)
}
