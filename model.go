// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

// Internal binary layout and format limits.
const (
	headerSize     = 0x70       // fixed DEX header size in bytes
	odexHeaderSize = 0x28       // fixed ODEX header size in bytes
	endianConstant = 0x12345678 // little-endian tag
	signatureSize  = 20         // SHA-1 digest size
	checksumStart  = 12         // first byte covered by the Adler-32 checksum
	signatureStart = 32         // first byte covered by the SHA-1 signature
	noIndex        = 0xFFFFFFFF // absent pool index
	maxValueDepth  = 256        // max nesting of encoded arrays and annotations
)

// File is a decoded DEX or ODEX file.
type File struct {
	// Classes are class definitions in file order.
	Classes []*Class `json:"classes" yaml:"classes"`
	// Odex holds wrapper metadata; nil for plain DEX files.
	Odex *OdexMetadata `json:"odex,omitempty" yaml:"odex,omitempty"`
	// Types is the decoded type id table. Filled on decode, ignored on encode.
	Types []string `json:"types,omitempty" yaml:"types,omitempty"`
	// FieldTable is the decoded field id table. Filled on decode, ignored on encode.
	FieldTable []FieldRef `json:"field_table,omitempty" yaml:"field_table,omitempty"`
	// MethodTable is the decoded method id table. Filled on decode, ignored on encode.
	MethodTable []MethodRef `json:"method_table,omitempty" yaml:"method_table,omitempty"`
}

// Class returns the class with the given descriptor, or nil.
func (f *File) Class(name string) *Class {
	for _, c := range f.Classes {
		if c.Name == name {
			return c
		}
	}

	return nil
}

// Prototype is a method signature.
type Prototype struct {
	ReturnType string   `json:"return_type" yaml:"return_type"`
	Parameters []string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Shorty returns the short-form descriptor: one character per type,
// reference and array types collapsed to 'L'.
func (p Prototype) Shorty() string {
	b := make([]byte, 0, len(p.Parameters)+1)
	b = append(b, shortyChar(p.ReturnType))
	for _, t := range p.Parameters {
		b = append(b, shortyChar(t))
	}

	return string(b)
}

func shortyChar(t string) byte {
	if t == "" {
		return 'V'
	}
	if t[0] == '[' {
		return 'L'
	}

	return t[0]
}

// FieldRef identifies a field by defining class, name and type.
type FieldRef struct {
	Class string `json:"class" yaml:"class"`
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
}

// MethodRef identifies a method by defining class, name and prototype.
type MethodRef struct {
	Class string    `json:"class" yaml:"class"`
	Name  string    `json:"name" yaml:"name"`
	Proto Prototype `json:"proto" yaml:"proto"`
}

// Class is one class definition with its members.
type Class struct {
	// Name is the type descriptor, e.g. "Lcom/example/Foo;".
	Name        string      `json:"name" yaml:"name"`
	AccessFlags AccessFlags `json:"access_flags" yaml:"access_flags"`
	// SuperClass is empty when the class has none.
	SuperClass string   `json:"super_class,omitempty" yaml:"super_class,omitempty"`
	Interfaces []string `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	// SourceFile is empty when unknown.
	SourceFile  string       `json:"source_file,omitempty" yaml:"source_file,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	// StaticValues are initial values for the leading static fields.
	StaticValues   []Value  `json:"static_values,omitempty" yaml:"static_values,omitempty"`
	StaticFields   []Field  `json:"static_fields,omitempty" yaml:"static_fields,omitempty"`
	InstanceFields []Field  `json:"instance_fields,omitempty" yaml:"instance_fields,omitempty"`
	DirectMethods  []Method `json:"direct_methods,omitempty" yaml:"direct_methods,omitempty"`
	VirtualMethods []Method `json:"virtual_methods,omitempty" yaml:"virtual_methods,omitempty"`
}

// hasData reports whether the class needs a class_data item.
func (c *Class) hasData() bool {
	return len(c.StaticFields) != 0 || len(c.InstanceFields) != 0 ||
		len(c.DirectMethods) != 0 || len(c.VirtualMethods) != 0
}

// hasAnnotations reports whether the class needs an annotations directory.
func (c *Class) hasAnnotations() bool {
	if len(c.Annotations) != 0 {
		return true
	}
	for _, lists := range [][]Field{c.StaticFields, c.InstanceFields} {
		for i := range lists {
			if len(lists[i].Annotations) != 0 {
				return true
			}
		}
	}
	for _, lists := range [][]Method{c.DirectMethods, c.VirtualMethods} {
		for i := range lists {
			if len(lists[i].Annotations) != 0 || len(lists[i].ParameterAnnotations) != 0 {
				return true
			}
		}
	}

	return false
}

// Field is a field declared by a class.
type Field struct {
	AccessFlags AccessFlags  `json:"access_flags" yaml:"access_flags"`
	Type        string       `json:"type" yaml:"type"`
	Name        string       `json:"name" yaml:"name"`
	Annotations []Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

// Method is a method declared by a class.
type Method struct {
	AccessFlags AccessFlags `json:"access_flags" yaml:"access_flags"`
	Name        string      `json:"name" yaml:"name"`
	Proto       Prototype   `json:"proto" yaml:"proto"`
	// Code is nil for abstract and native methods.
	Code        *Code        `json:"code,omitempty" yaml:"code,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	// ParameterAnnotations holds one annotation list per parameter.
	ParameterAnnotations [][]Annotation `json:"parameter_annotations,omitempty" yaml:"parameter_annotations,omitempty"`
}

// Code is a method body.
type Code struct {
	RegistersSize uint16        `json:"registers_size" yaml:"registers_size"`
	InsSize       uint16        `json:"ins_size" yaml:"ins_size"`
	OutsSize      uint16        `json:"outs_size" yaml:"outs_size"`
	Debug         *DebugInfo    `json:"debug,omitempty" yaml:"debug,omitempty"`
	Tries         []TryBlock    `json:"tries,omitempty" yaml:"tries,omitempty"`
	Insns         []Instruction `json:"insns" yaml:"insns"`
}

// TryBlock covers InsnCount code units starting at StartAddr.
type TryBlock struct {
	StartAddr uint32    `json:"start_addr" yaml:"start_addr"`
	InsnCount uint16    `json:"insn_count" yaml:"insn_count"`
	Handlers  []Handler `json:"handlers,omitempty" yaml:"handlers,omitempty"`
	CatchAll  *Handler  `json:"catch_all,omitempty" yaml:"catch_all,omitempty"`
}

// Handler is one exception handler. Type is empty for catch-all handlers.
type Handler struct {
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
	Addr uint32 `json:"addr" yaml:"addr"`
}

// Annotation is an annotation instance.
type Annotation struct {
	Visibility Visibility          `json:"visibility" yaml:"visibility"`
	Type       string              `json:"type" yaml:"type"`
	Elements   []AnnotationElement `json:"elements,omitempty" yaml:"elements,omitempty"`
}

// AnnotationElement is one name-value pair of an annotation.
type AnnotationElement struct {
	Name  string `json:"name" yaml:"name"`
	Value Value  `json:"value" yaml:"value"`
}

// Value is an encoded constant. Type selects which field is meaningful.
type Value struct {
	Type ValueType `json:"type" yaml:"type"`
	// Int holds byte, short, char, int and long values.
	Int    int64   `json:"int,omitempty" yaml:"int,omitempty"`
	Float  float32 `json:"float,omitempty" yaml:"float,omitempty"`
	Double float64 `json:"double,omitempty" yaml:"double,omitempty"`
	Bool   bool    `json:"bool,omitempty" yaml:"bool,omitempty"`
	// String holds string values and type descriptors.
	String string `json:"string,omitempty" yaml:"string,omitempty"`
	// Field holds field and enum references.
	Field      FieldRef    `json:"field,omitzero" yaml:"field,omitempty"`
	Method     MethodRef   `json:"method,omitzero" yaml:"method,omitempty"`
	Array      []Value     `json:"array,omitempty" yaml:"array,omitempty"`
	Annotation *Annotation `json:"annotation,omitempty" yaml:"annotation,omitempty"`
}

// Instruction is one decoded Dalvik instruction or pseudo table.
type Instruction struct {
	Opcode Opcode `json:"opcode" yaml:"opcode"`
	// HiByte is the high byte of the first code unit. For pseudo tables it
	// selects the table kind.
	HiByte uint8 `json:"hi_byte" yaml:"hi_byte"`
	// Params are the raw code units following the first one.
	Params [2]uint16 `json:"params" yaml:"params"`

	Constant int64     `json:"constant,omitempty" yaml:"constant,omitempty"`
	Target   int32     `json:"target,omitempty" yaml:"target,omitempty"`
	String   string    `json:"string,omitempty" yaml:"string,omitempty"`
	Type     string    `json:"type,omitempty" yaml:"type,omitempty"`
	Field    FieldRef  `json:"field,omitzero" yaml:"field,omitempty"`
	Method   MethodRef `json:"method,omitzero" yaml:"method,omitempty"`
	// Index holds inline, object offset and vtable operands.
	Index uint32 `json:"index,omitempty" yaml:"index,omitempty"`

	FirstKey     int32   `json:"first_key,omitempty" yaml:"first_key,omitempty"`
	Keys         []int32 `json:"keys,omitempty" yaml:"keys,omitempty"`
	Targets      []int32 `json:"targets,omitempty" yaml:"targets,omitempty"`
	ElementWidth uint16  `json:"element_width,omitempty" yaml:"element_width,omitempty"`
	ElementCount uint32  `json:"element_count,omitempty" yaml:"element_count,omitempty"`
	Data         []byte  `json:"data,omitempty" yaml:"data,omitempty"`
}

// DebugInfo is the line number and local variable program of a method.
type DebugInfo struct {
	LineStart uint32 `json:"line_start" yaml:"line_start"`
	// ParameterNames are empty where unknown.
	ParameterNames []string           `json:"parameter_names,omitempty" yaml:"parameter_names,omitempty"`
	Insns          []DebugInstruction `json:"insns,omitempty" yaml:"insns,omitempty"`
}

// DebugInstruction is one debug state machine opcode. Name, Type and
// Signature are empty when absent.
type DebugInstruction struct {
	Opcode    DebugOpcode `json:"opcode" yaml:"opcode"`
	AddrDiff  uint32      `json:"addr_diff,omitempty" yaml:"addr_diff,omitempty"`
	LineDiff  int32       `json:"line_diff,omitempty" yaml:"line_diff,omitempty"`
	Register  uint32      `json:"register,omitempty" yaml:"register,omitempty"`
	Name      string      `json:"name,omitempty" yaml:"name,omitempty"`
	Type      string      `json:"type,omitempty" yaml:"type,omitempty"`
	Signature string      `json:"signature,omitempty" yaml:"signature,omitempty"`
}

// OdexMetadata describes the optimized wrapper of an ODEX file.
type OdexMetadata struct {
	// ID is stored in the signature slot of the embedded DEX header.
	ID      [signatureSize]byte `json:"id" yaml:"id"`
	Flags   OdexFlags           `json:"flags" yaml:"flags"`
	Version uint32              `json:"version" yaml:"version"`

	DexModTime uint32       `json:"dex_mod_time" yaml:"dex_mod_time"`
	DexCRC     uint32       `json:"dex_crc" yaml:"dex_crc"`
	VMVersion  uint32       `json:"vm_version" yaml:"vm_version"`
	Deps       []Dependency `json:"deps,omitempty" yaml:"deps,omitempty"`

	AuxFormat            AuxFormat `json:"aux_format" yaml:"aux_format"`
	HasClassLookup       bool      `json:"has_class_lookup,omitempty" yaml:"has_class_lookup,omitempty"`
	HasRegisterMaps      bool      `json:"has_register_maps,omitempty" yaml:"has_register_maps,omitempty"`
	HasReducingIndexMap  bool      `json:"has_reducing_index_map,omitempty" yaml:"has_reducing_index_map,omitempty"`
	HasExpandingIndexMap bool      `json:"has_expanding_index_map,omitempty" yaml:"has_expanding_index_map,omitempty"`
}

// Dependency is one entry of the ODEX dependency list.
type Dependency struct {
	Name string              `json:"name" yaml:"name"`
	SHA1 [signatureSize]byte `json:"sha1" yaml:"sha1"`
}
