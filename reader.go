// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"golang.org/x/exp/mmap"
	"golang.org/x/exp/slices"
)

// Element sizes of the ID tables.
const (
	stringIDSize = 4
	typeIDSize   = 4
	protoIDSize  = 12
	fieldIDSize  = 8
	methodIDSize = 8
)

// dexVersion is the only accepted DEX format version.
var dexVersion = []byte("035\x00")

// section is a (size, offset) pair of the DEX header.
type section struct {
	size uint32
	off  uint32
}

// header holds the validated fields of a DEX header.
type header struct {
	mapOff    uint32
	stringIDs section
	typeIDs   section
	protoIDs  section
	fieldIDs  section
	methodIDs section
	classDefs section
	data      section
}

// tables are the decoded ID tables of a file.
type tables struct {
	strings []string
	types   []string
	protos  []Prototype
	fields  []FieldRef
	methods []MethodRef
}

// method returns method i with its own copy of the parameter list.
func (t *tables) method(i uint32) MethodRef {
	m := t.methods[i]
	m.Proto.Parameters = slices.Clone(m.Proto.Parameters)
	return m
}

// decoder holds state for decoding one DEX image.
type decoder struct {
	tables
	image  []byte
	hdr    header
	dataLo uint32
	dataHi uint32
	diag   *diagnostics
	filter *classFilter
}

// data returns a cursor at off limited to the data section.
func (d *decoder) data(off uint32) *cursor {
	return newCursor(d.image, off, d.dataLo, d.dataHi)
}

// Open maps a DEX or ODEX file by path and decodes it.
func Open(path string) (*File, error) {
	f, _, err := OpenWithOptions(path, DecodeOptions{})
	return f, err
}

// OpenWithOptions maps a DEX or ODEX file by path and decodes it using explicit options.
func OpenWithOptions(path string, opts DecodeOptions) (*File, *DecodeResult, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open DEX: %w", err)
	}
	defer func() { _ = r.Close() }()

	return DecodeReaderAt(r, int64(r.Len()), opts)
}

// DecodeReaderAt reads size bytes from ra and decodes them.
func DecodeReaderAt(ra io.ReaderAt, size int64, opts DecodeOptions) (*File, *DecodeResult, error) {
	opts.applyDefaults()
	if size > opts.MaxFileSize {
		return nil, nil, fmt.Errorf("%w: %d bytes, limit %d", ErrInputTooLarge, size, opts.MaxFileSize)
	}
	if size < 0 {
		return nil, nil, fmt.Errorf("%w: negative size %d", ErrMalformedHeader, size)
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(io.NewSectionReader(ra, 0, size), data); err != nil {
		return nil, nil, fmt.Errorf("read DEX: %w", err)
	}

	return DecodeWithOptions(data, opts)
}

// Decode decodes a DEX or ODEX file held in memory.
func Decode(data []byte) (*File, error) {
	f, _, err := DecodeWithOptions(data, DecodeOptions{})
	return f, err
}

// DecodeWithOptions decodes a DEX or ODEX file using explicit options.
// The returned model does not reference data.
func DecodeWithOptions(data []byte, opts DecodeOptions) (*File, *DecodeResult, error) {
	start := time.Now()
	opts.applyDefaults()

	if int64(len(data)) > opts.MaxFileSize {
		return nil, nil, fmt.Errorf("%w: %d bytes, limit %d", ErrInputTooLarge, len(data), opts.MaxFileSize)
	}

	filter, err := newClassFilter(opts.Classes, opts.ClassMatcherOptions)
	if err != nil {
		return nil, nil, err
	}

	diag := newDiagnostics(opts.Logger, opts.OnWarning, opts.Strict)
	file := &File{}
	image := data
	if isOdex(data) {
		if file.Odex, image, err = readOdex(data, opts, diag); err != nil {
			return nil, nil, err
		}
	}

	d := &decoder{image: image, diag: diag, filter: filter}
	if err := d.readHeader(opts, file.Odex != nil); err != nil {
		return nil, nil, err
	}
	if err := d.readTables(); err != nil {
		return nil, nil, err
	}

	res := &DecodeResult{}
	file.Classes = make([]*Class, 0, d.hdr.classDefs.size)
	for i := uint32(0); i < d.hdr.classDefs.size; i++ {
		cl, err := d.readClass(i)
		if err != nil {
			return nil, nil, fmt.Errorf("class def %d: %w", i, err)
		}
		if cl == nil {
			res.SkippedClasses++
			continue
		}
		file.Classes = append(file.Classes, cl)
	}

	file.Types = d.types
	file.FieldTable = d.fields
	file.MethodTable = d.methods

	res.Classes = len(file.Classes)
	res.Warnings = diag.warnings
	res.Degraded = diag.degraded()
	res.Duration = time.Since(start)
	return file, res, nil
}

// readHeader validates the DEX header and the ID table bounds.
func (d *decoder) readHeader(opts DecodeOptions, odex bool) error {
	img := d.image
	size := uint64(len(img))
	if size < headerSize {
		return fmt.Errorf("%w: file too small (%d bytes)", ErrMalformedHeader, size)
	}
	if !bytes.HasPrefix(img, dexMagic) {
		return fmt.Errorf("%w: bad magic %q", ErrMalformedHeader, img[:4])
	}
	if !bytes.Equal(img[4:8], dexVersion) {
		return fmt.Errorf("%w: unsupported version %q", ErrMalformedHeader, img[4:8])
	}

	if !opts.IgnoreChecksum {
		if err := verifyChecksum(img); err != nil {
			return err
		}
	}
	if opts.VerifySignature && !odex {
		if err := verifySignature(img); err != nil {
			return err
		}
	}

	c := newCursor(img, signatureStart, 0, headerSize)
	fileSize := c.u32()
	hdrSize := c.u32()
	endian := c.u32()
	linkSize := c.u32()
	linkOff := c.u32()
	d.hdr.mapOff = c.u32()
	for _, s := range []*section{
		&d.hdr.stringIDs, &d.hdr.typeIDs, &d.hdr.protoIDs,
		&d.hdr.fieldIDs, &d.hdr.methodIDs, &d.hdr.classDefs, &d.hdr.data,
	} {
		s.size = c.u32()
		s.off = c.u32()
	}
	if err := c.Err(); err != nil {
		return err
	}

	switch {
	case uint64(fileSize) != size:
		return fmt.Errorf("%w: header file size %d, actual %d", ErrMalformedHeader, fileSize, size)
	case hdrSize != headerSize:
		return fmt.Errorf("%w: header size 0x%x", ErrMalformedHeader, hdrSize)
	case endian != endianConstant:
		return fmt.Errorf("%w: endian tag 0x%08x", ErrMalformedHeader, endian)
	case linkSize != 0 || linkOff != 0:
		return fmt.Errorf("%w: file has link table", ErrUnsupportedFeature)
	}

	for _, t := range []struct {
		name string
		s    section
		elem uint64
	}{
		{"string ids", d.hdr.stringIDs, stringIDSize},
		{"type ids", d.hdr.typeIDs, typeIDSize},
		{"proto ids", d.hdr.protoIDs, protoIDSize},
		{"field ids", d.hdr.fieldIDs, fieldIDSize},
		{"method ids", d.hdr.methodIDs, methodIDSize},
		{"class defs", d.hdr.classDefs, classDefSize},
	} {
		if t.s.size != 0 && uint64(t.s.off)+t.elem*uint64(t.s.size) > size {
			return fmt.Errorf("%w: %s table 0x%x+%d leaves file", ErrOutOfBounds, t.name, t.s.off, t.s.size)
		}
	}

	end := uint64(d.hdr.data.off) + uint64(d.hdr.data.size)
	if end > size {
		return fmt.Errorf("%w: data section 0x%x+0x%x leaves file", ErrMalformedHeader, d.hdr.data.off, d.hdr.data.size)
	}
	d.dataLo = d.hdr.data.off
	d.dataHi = uint32(end)

	return nil
}

// readTables decodes the string, type, proto, field and method tables.
func (d *decoder) readTables() error {
	in := interner{}
	h := &d.hdr
	whole := uint32(len(d.image))

	d.strings = make([]string, h.stringIDs.size)
	ids := newCursor(d.image, h.stringIDs.off, 0, whole)
	for i := range d.strings {
		off := ids.u32()
		c := d.data(off)
		c.uleb()
		b := c.cstring()
		if err := c.Err(); err != nil {
			return fmt.Errorf("string %d: %w", i, err)
		}
		d.strings[i] = in.intern(b)
	}

	d.types = make([]string, h.typeIDs.size)
	ids = newCursor(d.image, h.typeIDs.off, 0, whole)
	for i := range d.types {
		idx := ids.u32()
		if idx >= uint32(len(d.strings)) {
			return fmt.Errorf("%w: type %d names string %d of %d", ErrIndexTooLarge, i, idx, len(d.strings))
		}
		d.types[i] = d.strings[idx]
	}

	d.protos = make([]Prototype, h.protoIDs.size)
	ids = newCursor(d.image, h.protoIDs.off, 0, whole)
	for i := range d.protos {
		shorty := ids.u32()
		ret := ids.u32()
		paramsOff := ids.u32()
		if shorty >= uint32(len(d.strings)) {
			return fmt.Errorf("%w: proto %d shorty %d of %d", ErrIndexTooLarge, i, shorty, len(d.strings))
		}
		if ret >= uint32(len(d.types)) {
			return fmt.Errorf("%w: proto %d return type %d of %d", ErrIndexTooLarge, i, ret, len(d.types))
		}

		d.protos[i].ReturnType = d.types[ret]
		if paramsOff != 0 {
			params, err := d.readTypeList(paramsOff)
			if err != nil {
				return fmt.Errorf("proto %d parameters: %w", i, err)
			}
			d.protos[i].Parameters = params
		}
	}

	d.fields = make([]FieldRef, h.fieldIDs.size)
	ids = newCursor(d.image, h.fieldIDs.off, 0, whole)
	for i := range d.fields {
		class, typ, name := ids.u16(), ids.u16(), ids.u32()
		if uint32(class) >= uint32(len(d.types)) || uint32(typ) >= uint32(len(d.types)) {
			return fmt.Errorf("%w: field %d type index", ErrIndexTooLarge, i)
		}
		if name >= uint32(len(d.strings)) {
			return fmt.Errorf("%w: field %d name %d of %d", ErrIndexTooLarge, i, name, len(d.strings))
		}
		d.fields[i] = FieldRef{Class: d.types[class], Name: d.strings[name], Type: d.types[typ]}
	}

	d.methods = make([]MethodRef, h.methodIDs.size)
	ids = newCursor(d.image, h.methodIDs.off, 0, whole)
	for i := range d.methods {
		class, proto, name := ids.u16(), ids.u16(), ids.u32()
		if uint32(class) >= uint32(len(d.types)) {
			return fmt.Errorf("%w: method %d class %d of %d", ErrIndexTooLarge, i, class, len(d.types))
		}
		if uint32(proto) >= uint32(len(d.protos)) {
			return fmt.Errorf("%w: method %d proto %d of %d", ErrIndexTooLarge, i, proto, len(d.protos))
		}
		if name >= uint32(len(d.strings)) {
			return fmt.Errorf("%w: method %d name %d of %d", ErrIndexTooLarge, i, name, len(d.strings))
		}
		d.methods[i] = MethodRef{Class: d.types[class], Name: d.strings[name], Proto: d.protos[proto]}
	}

	return nil
}
