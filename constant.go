// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"fmt"
	"unicode/utf16"
)

// ConstantTag identifies the variant of a constant pool entry, per JVMS
// Table 4.4-B.
type ConstantTag uint8

const (
	TagUtf8               ConstantTag = 1
	TagInteger            ConstantTag = 3
	TagFloat              ConstantTag = 4
	TagLong               ConstantTag = 5
	TagDouble             ConstantTag = 6
	TagClass              ConstantTag = 7
	TagString             ConstantTag = 8
	TagFieldref           ConstantTag = 9
	TagMethodref          ConstantTag = 10
	TagInterfaceMethodref ConstantTag = 11
	TagNameAndType        ConstantTag = 12
	TagMethodHandle       ConstantTag = 15
	TagMethodType         ConstantTag = 16
	TagDynamic            ConstantTag = 17
	TagInvokeDynamic      ConstantTag = 18
	TagModule             ConstantTag = 19
	TagPackage            ConstantTag = 20
)

func (t ConstantTag) String() string {
	switch t {
	case TagUtf8:
		return "Utf8"
	case TagInteger:
		return "Integer"
	case TagFloat:
		return "Float"
	case TagLong:
		return "Long"
	case TagDouble:
		return "Double"
	case TagClass:
		return "Class"
	case TagString:
		return "String"
	case TagFieldref:
		return "Fieldref"
	case TagMethodref:
		return "Methodref"
	case TagInterfaceMethodref:
		return "InterfaceMethodref"
	case TagNameAndType:
		return "NameAndType"
	case TagMethodHandle:
		return "MethodHandle"
	case TagMethodType:
		return "MethodType"
	case TagDynamic:
		return "Dynamic"
	case TagInvokeDynamic:
		return "InvokeDynamic"
	case TagModule:
		return "Module"
	case TagPackage:
		return "Package"
	default:
		return fmt.Sprintf("ConstantTag(%d)", uint8(t))
	}
}

// ReferenceKind is one of the nine field/method access modes a
// MethodHandle constant may name, per JVMS Table 5.4.3.5-A.
type ReferenceKind uint8

const (
	RefGetField         ReferenceKind = 1
	RefGetStatic        ReferenceKind = 2
	RefPutField         ReferenceKind = 3
	RefPutStatic        ReferenceKind = 4
	RefInvokeVirtual    ReferenceKind = 5
	RefInvokeStatic     ReferenceKind = 6
	RefInvokeSpecial    ReferenceKind = 7
	RefNewInvokeSpecial ReferenceKind = 8
	RefInvokeInterface  ReferenceKind = 9
)

func (k ReferenceKind) valid() bool { return k >= RefGetField && k <= RefInvokeInterface }

// Constant is the sum type of every constant pool entry variant. Concrete
// types implement it as a closed set (the switch in decodeConstant is
// exhaustive over every case below).
type Constant interface {
	Tag() ConstantTag
	// references returns every constant-pool index this entry points at,
	// for the cross-reference validation pass in (*ConstantPool).validate.
	references() []int
	encode(w *writer)
}

// Utf8Constant holds raw Modified-UTF-8 bytes plus a lazily computed
// 16-bit code-unit view. Per spec.md §9, the lossy and lossless accessors
// are both first-class: String() is lossy (substitutes U+FFFD), CodeUnits()
// is exact.
type Utf8Constant struct {
	Bytes []byte

	units     []uint16
	unitsOnce bool
}

func NewUtf8Constant(s string) *Utf8Constant {
	units := utf16.Encode([]rune(s))
	return &Utf8Constant{Bytes: EncodeMUTF8(units), units: units, unitsOnce: true}
}

// NewUtf8ConstantFromUTF16LE decodes externally supplied UTF-16LE bytes
// (e.g. produced by a UTF-16-native toolchain) into a Utf8Constant.
func NewUtf8ConstantFromUTF16LE(b []byte) (*Utf8Constant, error) {
	units, err := codeUnitsFromUTF16LE(b)
	if err != nil {
		return nil, err
	}
	return &Utf8Constant{Bytes: EncodeMUTF8(units), units: units, unitsOnce: true}, nil
}

// CodeUnits returns the exact 16-bit code-unit sequence this constant
// denotes, including any unpaired surrogates, decoding and caching on first
// use.
func (u *Utf8Constant) CodeUnits() ([]uint16, error) {
	if !u.unitsOnce {
		units, err := DecodeMUTF8(u.Bytes)
		if err != nil {
			return nil, err
		}
		u.units, u.unitsOnce = units, true
	}
	return u.units, nil
}

// String returns a lossy host-string view, substituting U+FFFD for any
// unpaired surrogate. Malformed MUTF-8 bytes (which should never occur in a
// decoded, unverified-but-well-formed Utf8Constant) yield the empty string;
// callers that need to distinguish that case should use CodeUnits directly.
func (u *Utf8Constant) String() string {
	units, err := u.CodeUnits()
	if err != nil {
		return ""
	}
	return codeUnitsToLossyString(units)
}

// UTF16LEBytes renders this constant's code units as UTF-16LE bytes via the
// real ecosystem transcoder (golang.org/x/text), for interop with
// UTF-16-based tooling. Like the rest of the host-string accessors it is
// lossy for unpaired surrogates (see utf16LEBytes).
func (u *Utf8Constant) UTF16LEBytes() ([]byte, error) {
	units, err := u.CodeUnits()
	if err != nil {
		return nil, err
	}
	return utf16LEBytes(units)
}

func (u *Utf8Constant) Tag() ConstantTag  { return TagUtf8 }
func (u *Utf8Constant) references() []int { return nil }
func (u *Utf8Constant) encode(w *writer) {
	w.u16(uint16(len(u.Bytes)))
	w.raw(u.Bytes)
}

// IntegerConstant is a CONSTANT_Integer_info entry.
type IntegerConstant struct{ Value int32 }

func (c *IntegerConstant) Tag() ConstantTag  { return TagInteger }
func (c *IntegerConstant) references() []int { return nil }
func (c *IntegerConstant) encode(w *writer)  { w.i32(c.Value) }

// FloatConstant is a CONSTANT_Float_info entry.
type FloatConstant struct{ Value float32 }

func (c *FloatConstant) Tag() ConstantTag  { return TagFloat }
func (c *FloatConstant) references() []int { return nil }
func (c *FloatConstant) encode(w *writer)  { w.f32(c.Value) }

// LongConstant is a CONSTANT_Long_info entry. It occupies two consecutive
// constant pool slots on the wire; the ConstantPool is responsible for the
// reserved-slot bookkeeping, not this type.
type LongConstant struct{ Value int64 }

func (c *LongConstant) Tag() ConstantTag  { return TagLong }
func (c *LongConstant) references() []int { return nil }
func (c *LongConstant) encode(w *writer)  { w.i64(c.Value) }

// DoubleConstant is a CONSTANT_Double_info entry; see LongConstant re:
// two-slot occupancy.
type DoubleConstant struct{ Value float64 }

func (c *DoubleConstant) Tag() ConstantTag  { return TagDouble }
func (c *DoubleConstant) references() []int { return nil }
func (c *DoubleConstant) encode(w *writer)  { w.f64(c.Value) }

// ClassConstant names a class or interface via its internal-form name,
// stored as a Utf8 entry.
type ClassConstant struct{ NameIndex uint16 }

func (c *ClassConstant) Tag() ConstantTag  { return TagClass }
func (c *ClassConstant) references() []int { return []int{int(c.NameIndex)} }
func (c *ClassConstant) encode(w *writer)  { w.u16(c.NameIndex) }

// StringConstant is a CONSTANT_String_info entry referencing the Utf8 value.
type StringConstant struct{ ValueIndex uint16 }

func (c *StringConstant) Tag() ConstantTag  { return TagString }
func (c *StringConstant) references() []int { return []int{int(c.ValueIndex)} }
func (c *StringConstant) encode(w *writer)  { w.u16(c.ValueIndex) }

// FieldrefConstant, MethodrefConstant, and InterfaceMethodrefConstant share
// the same {class, name_and_type} shape; they are kept as distinct Go types
// because the JVM specification treats them as distinct constant kinds with
// distinct legality rules at use sites (invokeinterface vs invokevirtual,
// etc.) even though their wire shape is identical.
type FieldrefConstant struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *FieldrefConstant) Tag() ConstantTag { return TagFieldref }
func (c *FieldrefConstant) references() []int {
	return []int{int(c.ClassIndex), int(c.NameAndTypeIndex)}
}
func (c *FieldrefConstant) encode(w *writer) { w.u16(c.ClassIndex); w.u16(c.NameAndTypeIndex) }

type MethodrefConstant struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *MethodrefConstant) Tag() ConstantTag { return TagMethodref }
func (c *MethodrefConstant) references() []int {
	return []int{int(c.ClassIndex), int(c.NameAndTypeIndex)}
}
func (c *MethodrefConstant) encode(w *writer) { w.u16(c.ClassIndex); w.u16(c.NameAndTypeIndex) }

type InterfaceMethodrefConstant struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *InterfaceMethodrefConstant) Tag() ConstantTag { return TagInterfaceMethodref }
func (c *InterfaceMethodrefConstant) references() []int {
	return []int{int(c.ClassIndex), int(c.NameAndTypeIndex)}
}
func (c *InterfaceMethodrefConstant) encode(w *writer) {
	w.u16(c.ClassIndex)
	w.u16(c.NameAndTypeIndex)
}

// NameAndTypeConstant pairs a name with a field or method descriptor.
type NameAndTypeConstant struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (c *NameAndTypeConstant) Tag() ConstantTag { return TagNameAndType }
func (c *NameAndTypeConstant) references() []int {
	return []int{int(c.NameIndex), int(c.DescriptorIndex)}
}
func (c *NameAndTypeConstant) encode(w *writer) { w.u16(c.NameIndex); w.u16(c.DescriptorIndex) }

// MethodHandleConstant names one of nine field/method access modes plus the
// member it applies to.
type MethodHandleConstant struct {
	ReferenceKind  ReferenceKind
	ReferenceIndex uint16
}

func (c *MethodHandleConstant) Tag() ConstantTag  { return TagMethodHandle }
func (c *MethodHandleConstant) references() []int { return []int{int(c.ReferenceIndex)} }
func (c *MethodHandleConstant) encode(w *writer) {
	w.u8(uint8(c.ReferenceKind))
	w.u16(c.ReferenceIndex)
}

// MethodTypeConstant names a method descriptor standing alone (used by
// method handles and invokedynamic call sites).
type MethodTypeConstant struct{ DescriptorIndex uint16 }

func (c *MethodTypeConstant) Tag() ConstantTag  { return TagMethodType }
func (c *MethodTypeConstant) references() []int { return []int{int(c.DescriptorIndex)} }
func (c *MethodTypeConstant) encode(w *writer)  { w.u16(c.DescriptorIndex) }

// DynamicConstant describes a dynamically-computed constant (JEP 309),
// referencing a bootstrap method table entry by index rather than by
// constant-pool index.
type DynamicConstant struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (c *DynamicConstant) Tag() ConstantTag  { return TagDynamic }
func (c *DynamicConstant) references() []int { return []int{int(c.NameAndTypeIndex)} }
func (c *DynamicConstant) encode(w *writer) {
	w.u16(c.BootstrapMethodAttrIndex)
	w.u16(c.NameAndTypeIndex)
}

// InvokeDynamicConstant names a call site; see DynamicConstant re: the
// bootstrap method table index.
type InvokeDynamicConstant struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (c *InvokeDynamicConstant) Tag() ConstantTag  { return TagInvokeDynamic }
func (c *InvokeDynamicConstant) references() []int { return []int{int(c.NameAndTypeIndex)} }
func (c *InvokeDynamicConstant) encode(w *writer) {
	w.u16(c.BootstrapMethodAttrIndex)
	w.u16(c.NameAndTypeIndex)
}

// ModuleConstant names a module (JPMS), introduced in class file version 53.
type ModuleConstant struct{ NameIndex uint16 }

func (c *ModuleConstant) Tag() ConstantTag  { return TagModule }
func (c *ModuleConstant) references() []int { return []int{int(c.NameIndex)} }
func (c *ModuleConstant) encode(w *writer)  { w.u16(c.NameIndex) }

// PackageConstant names a package (JPMS), introduced in class file version 53.
type PackageConstant struct{ NameIndex uint16 }

func (c *PackageConstant) Tag() ConstantTag  { return TagPackage }
func (c *PackageConstant) references() []int { return []int{int(c.NameIndex)} }
func (c *PackageConstant) encode(w *writer)  { w.u16(c.NameIndex) }

