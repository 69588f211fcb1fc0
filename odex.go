// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import (
	"bytes"
	"fmt"
)

// ODEX auxiliary chunk tags.
const (
	auxTagClassLookup        = 0x434c4b50 // "CLKP"
	auxTagRegisterMaps       = 0x524d4150 // "RMAP"
	auxTagReducingIndexMap   = 0x5249584d // "RIXM"
	auxTagExpandingIndexMap  = 0x4549584d // "EIXM"
	auxTagEnd                = 0x41454e44 // "AEND"
	depsHeaderSize           = 16
	defaultOdexVersion       = 36
	classLookupEntrySize     = 12
	odexChecksumDisabledMark = 0xFFFFFFFF
)

var (
	dexMagic  = []byte("dex\n")
	odexMagic = []byte("dey\n")
)

// odexHeader is the fixed wrapper header of an ODEX file.
type odexHeader struct {
	dexOff, dexLen   uint32
	depsOff, depsLen uint32
	auxOff, auxLen   uint32
	flags            uint32
	crc              uint32
}

// parseVersion reads a three digit version terminated by NUL at b[4:8].
func parseVersion(b []byte) (uint32, bool) {
	if len(b) < 8 || b[7] != 0 {
		return 0, false
	}

	var v uint32
	for _, c := range b[4:7] {
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + uint32(c-'0')
	}

	return v, true
}

// readOdex validates the ODEX wrapper and returns its metadata and the
// embedded DEX image.
func readOdex(data []byte, opts DecodeOptions, diag *diagnostics) (*OdexMetadata, []byte, error) {
	size := uint64(len(data))
	if size < odexHeaderSize {
		return nil, nil, fmt.Errorf("%w: odex file too small (%d bytes)", ErrMalformedHeader, size)
	}

	version, ok := parseVersion(data)
	if !ok || (version != 35 && version != 36) {
		return nil, nil, fmt.Errorf("%w: unsupported odex version %q", ErrMalformedHeader, data[4:8])
	}

	c := newCursor(data, 8, 0, uint32(size))
	h := odexHeader{
		dexOff: c.u32(), dexLen: c.u32(),
		depsOff: c.u32(), depsLen: c.u32(),
		auxOff: c.u32(), auxLen: c.u32(),
		flags: c.u32(), crc: c.u32(),
	}
	if err := c.Err(); err != nil {
		return nil, nil, err
	}

	switch {
	case uint64(h.dexOff)+uint64(h.dexLen) > size:
		return nil, nil, fmt.Errorf("%w: dex section 0x%x+0x%x leaves file", ErrOutOfBounds, h.dexOff, h.dexLen)
	case h.dexLen < headerSize:
		return nil, nil, fmt.Errorf("%w: dex section too small (%d bytes)", ErrMalformedHeader, h.dexLen)
	case h.depsOff != 0 && uint64(h.depsOff)+uint64(h.depsLen) > size:
		return nil, nil, fmt.Errorf("%w: deps section 0x%x+0x%x leaves file", ErrOutOfBounds, h.depsOff, h.depsLen)
	case h.auxOff != 0 && uint64(h.auxOff)+uint64(h.auxLen) > size:
		return nil, nil, fmt.Errorf("%w: aux section 0x%x+0x%x leaves file", ErrOutOfBounds, h.auxOff, h.auxLen)
	case h.auxOff != 0 && h.auxOff < h.depsOff:
		return nil, nil, fmt.Errorf("%w: deps section must come before aux section", ErrMalformedHeader)
	}

	if h.crc != odexChecksumDisabledMark && !opts.IgnoreChecksum {
		start, end := h.checksumRange()
		if got := Checksum(data[start:end]); got != h.crc {
			return nil, nil, fmt.Errorf("%w: odex checksum 0x%08x, computed 0x%08x", ErrChecksumMismatch, h.crc, got)
		}
	}

	meta := &OdexMetadata{Version: version, Flags: OdexFlags(h.flags)}
	if h.depsOff != 0 {
		if err := readDeps(data, h.depsOff, h.depsLen, meta); err != nil {
			return nil, nil, err
		}
	}
	if h.auxOff != 0 {
		if err := readAux(data, h.auxOff, h.auxLen, meta, diag); err != nil {
			return nil, nil, err
		}
	}

	image := data[h.dexOff : h.dexOff+h.dexLen]
	copy(meta.ID[:], image[checksumStart:signatureStart])
	return meta, image, nil
}

// checksumRange returns the region covered by the wrapper checksum.
func (h odexHeader) checksumRange() (uint32, uint32) {
	start := h.auxOff
	if h.depsOff != 0 {
		start = h.depsOff
	}

	var end uint32
	switch {
	case h.auxOff != 0:
		end = h.auxOff + h.auxLen
	case h.depsOff != 0:
		end = h.depsOff + h.depsLen
	}
	if end < start {
		end = start
	}

	return start, end
}

// readDeps decodes the dependency list.
func readDeps(data []byte, off, length uint32, meta *OdexMetadata) error {
	if length < depsHeaderSize {
		return fmt.Errorf("%w: deps section too small (%d bytes)", ErrMalformedHeader, length)
	}

	end := off + length
	c := newCursor(data, off, off, end)
	meta.DexModTime = c.u32()
	meta.DexCRC = c.u32()
	meta.VMVersion = c.u32()
	count := c.u32()

	for i := uint32(0); i < count; i++ {
		n := c.u32()
		if err := c.Err(); err != nil {
			return fmt.Errorf("dependency %d: %w", i, err)
		}
		if n == 0 || uint64(c.pos)+uint64(n)+signatureSize > uint64(end) {
			return fmt.Errorf("%w: dependency %d leaves deps section", ErrOutOfBounds, i)
		}

		name := c.bytes(n)
		if name[n-1] != 0 {
			return fmt.Errorf("%w: dependency %d name is not terminated", ErrStructuralInconsistency, i)
		}

		dep := Dependency{Name: string(name[:n-1])}
		copy(dep.SHA1[:], c.bytes(signatureSize))
		meta.Deps = append(meta.Deps, dep)
	}

	return c.Err()
}

// readAux records which auxiliary structures are present.
func readAux(data []byte, off, length uint32, meta *OdexMetadata, diag *diagnostics) error {
	end := off + length
	c := newCursor(data, off, off, end)

	if c.u32() == 0 {
		if err := c.Err(); err != nil {
			return fmt.Errorf("aux section: %w", err)
		}
		meta.AuxFormat = AuxFormatOld
		meta.HasClassLookup = true
		return nil
	}

	meta.AuxFormat = AuxFormatNew
	c.seek(off)
	for {
		at := c.pos
		tag := c.u32()
		if tag == auxTagEnd {
			break
		}

		size := c.u32()
		if err := c.Err(); err != nil {
			return fmt.Errorf("aux chunk at 0x%x: %w", at, err)
		}

		switch tag {
		case auxTagClassLookup:
			meta.HasClassLookup = true
		case auxTagRegisterMaps:
			meta.HasRegisterMaps = true
			if err := diag.warn(Warning{Err: ErrUnsupportedFeature, Detail: "register maps are not decoded", Offset: at}); err != nil {
				return err
			}
		case auxTagReducingIndexMap:
			meta.HasReducingIndexMap = true
			if err := diag.warn(Warning{Err: ErrUnsupportedFeature, Detail: "reducing index map is not decoded", Offset: at}); err != nil {
				return err
			}
		case auxTagExpandingIndexMap:
			meta.HasExpandingIndexMap = true
			if err := diag.warn(Warning{Err: ErrUnsupportedFeature, Detail: "expanding index map is not decoded", Offset: at}); err != nil {
				return err
			}
		default:
			if err := diag.warn(Warning{Err: ErrUnsupportedFeature, Detail: fmt.Sprintf("unknown aux chunk 0x%08x", tag), Offset: at}); err != nil {
				return err
			}
		}

		next := (uint64(at) + uint64(size) + 8 + 7) &^ 7
		if next > uint64(end) {
			return fmt.Errorf("%w: aux chunk at 0x%x leaves aux section", ErrOutOfBounds, at)
		}
		c.seek(uint32(next))
	}

	return c.Err()
}

// classLocation is the placement of one class definition in a written image.
type classLocation struct {
	name    string
	nameOff uint32 // offset of the descriptor bytes
	defOff  uint32 // offset of the class_def_item
}

// writeOdex wraps a sealed DEX image into an ODEX file.
func writeOdex(image []byte, meta *OdexMetadata, classes []classLocation, diag *diagnostics) ([]byte, error) {
	version := meta.Version
	if version == 0 {
		version = defaultOdexVersion
	}
	if version > 999 {
		return nil, fmt.Errorf("%w: odex version %d", ErrSizeOverflow, version)
	}

	var deps buffer
	deps.u32(meta.DexModTime)
	deps.u32(meta.DexCRC)
	deps.u32(meta.VMVersion)
	deps.u32(uint32(len(meta.Deps)))
	for _, dep := range meta.Deps {
		deps.u32(uint32(len(dep.Name) + 1))
		deps.bytes([]byte(dep.Name))
		deps.u8(0)
		deps.bytes(dep.SHA1[:])
	}

	depsLen := deps.len()
	for (len(image)+deps.len())%8 != 0 {
		deps.u8(0)
	}

	aux, err := writeAux(meta, classes, diag)
	if err != nil {
		return nil, err
	}

	dexLen := uint32(len(image))
	total := uint64(odexHeaderSize) + uint64(dexLen) + uint64(deps.len()) + uint64(aux.len())
	if total > 0xffffffff {
		return nil, fmt.Errorf("%w: odex file of %d bytes", ErrSizeOverflow, total)
	}

	crcData := make([]byte, 0, deps.len()+aux.len())
	crcData = append(crcData, deps.data...)
	crcData = append(crcData, aux.data...)

	var out buffer
	out.data = make([]byte, 0, total)
	out.bytes(odexMagic)
	out.bytes([]byte(fmt.Sprintf("%03d", version)))
	out.u8(0)
	out.u32(odexHeaderSize)
	out.u32(dexLen)
	out.u32(odexHeaderSize + dexLen)
	out.u32(uint32(depsLen))
	out.u32(odexHeaderSize + dexLen + uint32(deps.len()))
	out.u32(uint32(aux.len()))
	out.u32(uint32(meta.Flags))
	out.u32(Checksum(crcData))
	out.bytes(image)
	out.bytes(crcData)

	return out.data, nil
}

// writeAux writes the auxiliary section in the format selected by meta.
func writeAux(meta *OdexMetadata, classes []classLocation, diag *diagnostics) (*buffer, error) {
	aux := &buffer{}

	if meta.AuxFormat == AuxFormatOld {
		aux.u32(0)
		writeClassLookup(aux, classes)
		for _, unsupported := range []bool{meta.HasRegisterMaps, meta.HasReducingIndexMap, meta.HasExpandingIndexMap} {
			if !unsupported {
				continue
			}
			if err := diag.warn(Warning{Err: ErrUnsupportedFeature, Detail: "old aux format holds only the class lookup table"}); err != nil {
				return nil, err
			}
		}
		return aux, nil
	}

	if meta.HasClassLookup {
		aux.u32(auxTagClassLookup)
		aux.u32(uint32(8 + classLookupSlots(len(classes))*classLookupEntrySize))
		writeClassLookup(aux, classes)
		aux.align(8)
	}

	for _, missing := range []struct {
		set  bool
		name string
	}{
		{meta.HasRegisterMaps, "register maps"},
		{meta.HasReducingIndexMap, "reducing index map"},
		{meta.HasExpandingIndexMap, "expanding index map"},
	} {
		if !missing.set {
			continue
		}
		if err := diag.warn(Warning{Err: ErrUnsupportedFeature, Detail: missing.name + " are not written"}); err != nil {
			return nil, err
		}
	}

	aux.u32(auxTagEnd)
	return aux, nil
}

// classLookupSlots returns the power of two table size for n classes.
func classLookupSlots(n int) int {
	slots := 1
	for slots < 2*n {
		slots <<= 1
	}

	return slots
}

// writeClassLookup writes the descriptor hash table used by the VM to find
// class definitions without parsing the file.
func writeClassLookup(b *buffer, classes []classLocation) {
	slots := classLookupSlots(len(classes))
	table := make([]uint32, 3*slots)
	mask := uint32(slots - 1)

	for _, cl := range classes {
		hash := classDescriptorHash(cl.name)
		for k := uint32(0); ; k++ {
			pos := (hash + k) & mask
			if table[3*pos+2] == 0 {
				table[3*pos] = hash
				table[3*pos+1] = cl.nameOff
				table[3*pos+2] = cl.defOff
				break
			}
		}
	}

	b.u32(uint32(8 + slots*classLookupEntrySize))
	b.u32(uint32(slots))
	for _, v := range table {
		b.u32(v)
	}
}

// classDescriptorHash is the VM hash of a class descriptor.
func classDescriptorHash(s string) uint32 {
	h := uint32(1)
	for i := 0; i < len(s); i++ {
		h = h*31 + uint32(int32(int8(s[i])))
	}

	return h
}

// isOdex reports whether data starts with the ODEX magic.
func isOdex(data []byte) bool {
	return bytes.HasPrefix(data, odexMagic)
}
