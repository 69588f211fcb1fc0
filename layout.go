// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/exp/slices"
)

// maxULEBOffset is the largest offset a padded 4-byte ULEB128 can carry.
const maxULEBOffset = 1<<28 - 1

var (
	// idKinds are the fixed-size ID tables in file order.
	idKinds = []itemKind{kindStringID, kindTypeID, kindProtoID, kindFieldID, kindMethodID, kindClassDef}

	// dataKinds are placed in this order. A kind only references kinds
	// listed before it, so its relocations resolve before deduplication.
	dataKinds = []itemKind{
		kindStringData,
		kindTypeList,
		kindDebugInfo,
		kindCode,
		kindClassData,
		kindAnnotation,
		kindAnnotationSet,
		kindAnnotationSetRefList,
		kindEncodedArray,
		kindAnnotationsDirectory,
	}
)

// mapEntry is one map_list record.
type mapEntry struct {
	kind   itemKind
	size   uint32
	offset uint32
}

// orderClasses returns classes so that every superclass and interface
// defined in the file precedes its subclasses. Input order is kept otherwise.
func orderClasses(classes []*Class) ([]*Class, error) {
	byName := make(map[string]int, len(classes))
	for i, c := range classes {
		if _, dup := byName[c.Name]; dup {
			return nil, fmt.Errorf("%w: class %s defined twice", ErrStructuralInconsistency, c.Name)
		}
		byName[c.Name] = i
	}

	const (
		unvisited = iota
		visiting
		done
	)

	type frame struct {
		idx  int
		next int // 0 is the superclass, then interfaces
	}

	state := make([]uint8, len(classes))
	out := make([]*Class, 0, len(classes))
	var stack []frame

	for root := range classes {
		if state[root] != unvisited {
			continue
		}

		state[root] = visiting
		stack = append(stack[:0], frame{idx: root})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			c := classes[top.idx]

			if top.next > len(c.Interfaces) {
				state[top.idx] = done
				out = append(out, c)
				stack = stack[:len(stack)-1]
				continue
			}

			dep := c.SuperClass
			if top.next > 0 {
				dep = c.Interfaces[top.next-1]
			}
			top.next++

			j, ok := byName[dep]
			if dep == "" || !ok {
				continue
			}

			switch state[j] {
			case visiting:
				return nil, fmt.Errorf("%w: class hierarchy cycle through %s", ErrStructuralInconsistency, dep)
			case unvisited:
				state[j] = visiting
				stack = append(stack, frame{idx: j})
			}
		}
	}

	return out, nil
}

// sortMembers orders encoded members by pool index.
func sortMembers(list []encodedMember) {
	slices.SortStableFunc(list, func(a, b encodedMember) int { return cmpUint32(a.idx, b.idx) })
}

// layout assigns offsets, merges duplicates, resolves relocations and
// returns the sealed DEX image. odex supplies the signature slot when set.
func (e *encoder) layout(odex *OdexMetadata) ([]byte, error) {
	byKind := make(map[itemKind][]int)
	for i, it := range e.items {
		byKind[it.kind] = append(byKind[it.kind], i)
	}

	var entries []mapEntry
	off := uint64(headerSize)

	counts := make(map[itemKind]mapEntry, len(idKinds))
	for _, k := range idKinds {
		list := byKind[k]
		if len(list) == 0 {
			continue
		}

		off = alignUp(off, 4)
		entry := mapEntry{kind: k, size: uint32(len(list)), offset: uint32(off)}
		for _, idx := range list {
			it := e.items[idx]
			it.offset = uint32(off)
			it.placed = true
			off += uint64(it.buf.len())
		}
		entries = append(entries, entry)
		counts[k] = entry
	}

	for _, k := range dataKinds {
		if err := e.ctx.Err(); err != nil {
			return nil, err
		}

		list := byKind[k]
		if len(list) == 0 {
			continue
		}

		for _, idx := range list {
			if err := e.resolve(e.items[idx]); err != nil {
				return nil, err
			}
		}

		survivors := e.dedup(list)
		entry := mapEntry{kind: k, size: uint32(len(survivors))}
		for i, idx := range survivors {
			it := e.items[idx]
			off = alignUp(off, k.alignment())
			if i == 0 {
				entry.offset = uint32(off)
			}
			it.offset = uint32(off)
			it.placed = true
			off += uint64(it.buf.len())
			if off > 0xffffffff {
				return nil, fmt.Errorf("%w: DEX image exceeds 4 GiB", ErrSizeOverflow)
			}
		}

		for _, idx := range e.lateDuplicates {
			it := e.items[idx]
			it.offset = e.items[it.twin].offset
			it.placed = true
		}
		e.lateDuplicates = e.lateDuplicates[:0]

		entries = append(entries, entry)
	}

	for _, k := range idKinds {
		for _, idx := range byKind[k] {
			if err := e.resolve(e.items[idx]); err != nil {
				return nil, err
			}
		}
	}

	off = alignUp(off, 4)
	mapOff := uint32(off)
	entries = append(entries, mapEntry{kind: kindMapList, size: 1, offset: mapOff})
	entries = append([]mapEntry{{kind: kindHeader, size: 1}}, entries...)

	var mapList buffer
	mapList.u32(uint32(len(entries)))
	for _, m := range entries {
		mapList.u16(uint16(m.kind))
		mapList.u16(0)
		mapList.u32(m.size)
		mapList.u32(m.offset)
	}

	end := off + uint64(mapList.len())
	if end > 0xffffffff {
		return nil, fmt.Errorf("%w: DEX image exceeds 4 GiB", ErrSizeOverflow)
	}

	image := make([]byte, end)
	for _, it := range e.items {
		if it.dup {
			continue
		}
		copy(image[it.offset:], it.buf.data)
	}
	copy(image[mapOff:], mapList.data)

	dataOff := mapOff
	for _, m := range entries {
		if m.kind >= kindMapList {
			dataOff = m.offset
			break
		}
	}

	writeHeader(image, mapOff, dataOff, counts)
	var id *[signatureSize]byte
	if odex != nil {
		id = &odex.ID
	}
	sealHeader(image, id)

	return image, nil
}

// resolve patches every relocation of it with the offset of its target.
func (e *encoder) resolve(it *item) error {
	for _, r := range it.buf.relocs {
		target := e.items[r.target]
		if !target.placed {
			return fmt.Errorf("%w: item of kind 0x%04x referenced before placement", ErrStructuralInconsistency, uint16(target.kind))
		}
		if r.kind == relocULEB && target.offset > maxULEBOffset {
			return fmt.Errorf("%w: offset 0x%x does not fit a ULEB128 slot", ErrSizeOverflow, target.offset)
		}
		it.buf.patch(r, target.offset)
	}

	return nil
}

// dedup returns the items of list that are kept, ordered by checksum.
// Dropped duplicates are queued in lateDuplicates with their twin recorded.
func (e *encoder) dedup(list []int) []int {
	sums := make(map[int]uint32, len(list))
	for _, idx := range list {
		sums[idx] = Checksum(e.items[idx].buf.data)
	}

	order := slices.Clone(list)
	slices.SortStableFunc(order, func(a, b int) int {
		if c := cmpUint32(sums[a], sums[b]); c != 0 {
			return c
		}
		return a - b
	})

	survivors := order[:0:0]
	group := 0 // start of the current equal-checksum run in survivors
	for _, idx := range order {
		if len(survivors) > group && sums[survivors[group]] != sums[idx] {
			group = len(survivors)
		}

		it := e.items[idx]
		twin := -1
		for _, s := range survivors[group:] {
			if bytes.Equal(e.items[s].buf.data, it.buf.data) {
				twin = s
				break
			}
		}

		if twin < 0 {
			survivors = append(survivors, idx)
			continue
		}

		it.dup = true
		it.twin = twin
		e.lateDuplicates = append(e.lateDuplicates, idx)
		e.res.DuplicateItems++
	}

	return survivors
}

// writeHeader fills the header fields that precede checksum sealing.
func writeHeader(image []byte, mapOff, dataOff uint32, ids map[itemKind]mapEntry) {
	le := binary.LittleEndian
	copy(image, dexMagic)
	copy(image[4:], dexVersion)
	le.PutUint32(image[32:], uint32(len(image)))
	le.PutUint32(image[36:], headerSize)
	le.PutUint32(image[40:], endianConstant)
	le.PutUint32(image[44:], 0)
	le.PutUint32(image[48:], 0)
	le.PutUint32(image[52:], mapOff)

	pos := 56
	for _, k := range idKinds {
		m := ids[k]
		le.PutUint32(image[pos:], m.size)
		le.PutUint32(image[pos+4:], m.offset)
		pos += 8
	}

	le.PutUint32(image[pos:], uint32(len(image))-dataOff)
	le.PutUint32(image[pos+4:], dataOff)
}

// alignUp rounds off up to a multiple of n.
func alignUp(off uint64, n uint32) uint64 {
	m := uint64(n)
	return (off + m - 1) / m * m
}
