// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// This file holds the attribute kinds whose wire shape is a short,
// fixed-or-simply-repeated record with no nested attribute tables or
// sub-grammars of their own (JVMS §4.7.2-4.7.6, 4.7.10-4.7.25 minus Code,
// StackMapTable, the annotation families, and Module*). Grounded on the
// same name-dispatch idiom as attribute.go's table.

// ConstantValueAttribute (§4.7.2): on a field, names the constant pool
// entry holding its compile-time value.
type ConstantValueAttribute struct {
	ValueIndex uint16
}

func (a *ConstantValueAttribute) AttributeName() string { return "ConstantValue" }
func (a *ConstantValueAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.u16(a.ValueIndex)
}

func decodeConstantValueAttribute(_ string, c *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
	idx, err := c.u16()
	if err != nil {
		return nil, err
	}
	return &ConstantValueAttribute{ValueIndex: idx}, nil
}

// ExceptionsAttribute (§4.7.5): the checked exception classes a method
// declares via `throws`.
type ExceptionsAttribute struct {
	ExceptionIndexTable []uint16
}

func (a *ExceptionsAttribute) AttributeName() string { return "Exceptions" }
func (a *ExceptionsAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.u16(uint16(len(a.ExceptionIndexTable)))
	for _, idx := range a.ExceptionIndexTable {
		w.u16(idx)
	}
}

func decodeExceptionsAttribute(_ string, c *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
	count, err := c.u16()
	if err != nil {
		return nil, err
	}
	table := make([]uint16, count)
	for i := range table {
		v, err := c.u16()
		if err != nil {
			return nil, err
		}
		table[i] = v
	}
	return &ExceptionsAttribute{ExceptionIndexTable: table}, nil
}

// InnerClassEntry is one record of an InnerClasses attribute.
type InnerClassEntry struct {
	InnerClassInfoIndex   uint16
	OuterClassInfoIndex   uint16 // 0 if not a member of another class
	InnerNameIndex        uint16 // 0 if anonymous
	InnerClassAccessFlags AccessFlags
}

// InnerClassesAttribute (§4.7.6).
type InnerClassesAttribute struct {
	Classes []InnerClassEntry
}

func (a *InnerClassesAttribute) AttributeName() string { return "InnerClasses" }
func (a *InnerClassesAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.u16(uint16(len(a.Classes)))
	for _, e := range a.Classes {
		w.u16(e.InnerClassInfoIndex)
		w.u16(e.OuterClassInfoIndex)
		w.u16(e.InnerNameIndex)
		w.u16(uint16(e.InnerClassAccessFlags))
	}
}

func decodeInnerClassesAttribute(_ string, c *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
	count, err := c.u16()
	if err != nil {
		return nil, err
	}
	entries := make([]InnerClassEntry, count)
	for i := range entries {
		inner, err := c.u16()
		if err != nil {
			return nil, err
		}
		outer, err := c.u16()
		if err != nil {
			return nil, err
		}
		name, err := c.u16()
		if err != nil {
			return nil, err
		}
		flags, err := c.u16()
		if err != nil {
			return nil, err
		}
		entries[i] = InnerClassEntry{inner, outer, name, AccessFlags(flags)}
	}
	return &InnerClassesAttribute{Classes: entries}, nil
}

// EnclosingMethodAttribute (§4.7.7).
type EnclosingMethodAttribute struct {
	ClassIndex  uint16
	MethodIndex uint16 // 0 if not enclosed by a method/constructor
}

func (a *EnclosingMethodAttribute) AttributeName() string { return "EnclosingMethod" }
func (a *EnclosingMethodAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.u16(a.ClassIndex)
	w.u16(a.MethodIndex)
}

func decodeEnclosingMethodAttribute(_ string, c *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
	class, err := c.u16()
	if err != nil {
		return nil, err
	}
	method, err := c.u16()
	if err != nil {
		return nil, err
	}
	return &EnclosingMethodAttribute{ClassIndex: class, MethodIndex: method}, nil
}

// SyntheticAttribute (§4.7.8) and DeprecatedAttribute (§4.7.22) both carry
// no body; their presence alone is the signal.
type SyntheticAttribute struct{}

func (a *SyntheticAttribute) AttributeName() string           { return "Synthetic" }
func (a *SyntheticAttribute) encodeBody(_ *writer, _ *ConstantPool) {}

func decodeSyntheticAttribute(_ string, _ *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
	return &SyntheticAttribute{}, nil
}

type DeprecatedAttribute struct{}

func (a *DeprecatedAttribute) AttributeName() string           { return "Deprecated" }
func (a *DeprecatedAttribute) encodeBody(_ *writer, _ *ConstantPool) {}

func decodeDeprecatedAttribute(_ string, _ *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
	return &DeprecatedAttribute{}, nil
}

// SignatureAttribute (§4.7.9): the generic-aware companion to a
// class/field/method's plain descriptor.
type SignatureAttribute struct {
	SignatureIndex uint16
}

func (a *SignatureAttribute) AttributeName() string { return "Signature" }
func (a *SignatureAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.u16(a.SignatureIndex)
}

func decodeSignatureAttribute(_ string, c *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
	idx, err := c.u16()
	if err != nil {
		return nil, err
	}
	return &SignatureAttribute{SignatureIndex: idx}, nil
}

// SourceFileAttribute (§4.7.10).
type SourceFileAttribute struct {
	SourceFileIndex uint16
}

func (a *SourceFileAttribute) AttributeName() string { return "SourceFile" }
func (a *SourceFileAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.u16(a.SourceFileIndex)
}

func decodeSourceFileAttribute(_ string, c *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
	idx, err := c.u16()
	if err != nil {
		return nil, err
	}
	return &SourceFileAttribute{SourceFileIndex: idx}, nil
}

// SourceDebugExtensionAttribute (§4.7.11): opaque, MUTF-8-ish debugger
// extension data; this module neither validates nor interprets it beyond
// preserving the raw bytes, same as UnknownAttribute.
type SourceDebugExtensionAttribute struct {
	DebugExtension []byte
}

func (a *SourceDebugExtensionAttribute) AttributeName() string { return "SourceDebugExtension" }
func (a *SourceDebugExtensionAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.raw(a.DebugExtension)
}

func decodeSourceDebugExtensionAttribute(_ string, c *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
	b, err := c.bytes(c.Remaining())
	if err != nil {
		return nil, err
	}
	return &SourceDebugExtensionAttribute{DebugExtension: b}, nil
}

// MethodParameterEntry is one record of a MethodParameters attribute.
type MethodParameterEntry struct {
	NameIndex   uint16 // 0 if unnamed
	AccessFlags AccessFlags
}

// MethodParametersAttribute (§4.7.24).
type MethodParametersAttribute struct {
	Parameters []MethodParameterEntry
}

func (a *MethodParametersAttribute) AttributeName() string { return "MethodParameters" }
func (a *MethodParametersAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.u8(uint8(len(a.Parameters)))
	for _, p := range a.Parameters {
		w.u16(p.NameIndex)
		w.u16(uint16(p.AccessFlags))
	}
}

func decodeMethodParametersAttribute(_ string, c *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
	count, err := c.u8()
	if err != nil {
		return nil, err
	}
	params := make([]MethodParameterEntry, count)
	for i := range params {
		name, err := c.u16()
		if err != nil {
			return nil, err
		}
		flags, err := c.u16()
		if err != nil {
			return nil, err
		}
		params[i] = MethodParameterEntry{name, AccessFlags(flags)}
	}
	return &MethodParametersAttribute{Parameters: params}, nil
}

// NestHostAttribute (§4.7.28).
type NestHostAttribute struct {
	HostClassIndex uint16
}

func (a *NestHostAttribute) AttributeName() string { return "NestHost" }
func (a *NestHostAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.u16(a.HostClassIndex)
}

func decodeNestHostAttribute(_ string, c *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
	idx, err := c.u16()
	if err != nil {
		return nil, err
	}
	return &NestHostAttribute{HostClassIndex: idx}, nil
}

// NestMembersAttribute (§4.7.29).
type NestMembersAttribute struct {
	Classes []uint16
}

func (a *NestMembersAttribute) AttributeName() string { return "NestMembers" }
func (a *NestMembersAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.u16(uint16(len(a.Classes)))
	for _, idx := range a.Classes {
		w.u16(idx)
	}
}

func decodeNestMembersAttribute(_ string, c *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
	count, err := c.u16()
	if err != nil {
		return nil, err
	}
	classes := make([]uint16, count)
	for i := range classes {
		v, err := c.u16()
		if err != nil {
			return nil, err
		}
		classes[i] = v
	}
	return &NestMembersAttribute{Classes: classes}, nil
}

// PermittedSubclassesAttribute (§4.7.31, sealed classes).
type PermittedSubclassesAttribute struct {
	Classes []uint16
}

func (a *PermittedSubclassesAttribute) AttributeName() string { return "PermittedSubclasses" }
func (a *PermittedSubclassesAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.u16(uint16(len(a.Classes)))
	for _, idx := range a.Classes {
		w.u16(idx)
	}
}

func decodePermittedSubclassesAttribute(_ string, c *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
	count, err := c.u16()
	if err != nil {
		return nil, err
	}
	classes := make([]uint16, count)
	for i := range classes {
		v, err := c.u16()
		if err != nil {
			return nil, err
		}
		classes[i] = v
	}
	return &PermittedSubclassesAttribute{Classes: classes}, nil
}

// RecordComponentEntry is one component of a Record attribute (§4.7.30),
// itself carrying its own nested attribute table (typically Signature
// and/or the runtime annotation families).
type RecordComponentEntry struct {
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []Attribute
}

func (c *RecordComponentEntry) attributeLocation() string { return "record_component" }

// RecordAttribute (§4.7.30).
type RecordAttribute struct {
	Components []RecordComponentEntry
}

func (a *RecordAttribute) AttributeName() string { return "Record" }
func (a *RecordAttribute) encodeBody(w *writer, pool *ConstantPool) {
	w.u16(uint16(len(a.Components)))
	for _, comp := range a.Components {
		w.u16(comp.NameIndex)
		w.u16(comp.DescriptorIndex)
		encodeAttributeTable(w, pool, comp.Attributes)
	}
}

func decodeRecordAttribute(_ string, c *cursor, pool *ConstantPool, _ string, opts *DecodeOptions) (Attribute, error) {
	count, err := c.u16()
	if err != nil {
		return nil, err
	}
	components := make([]RecordComponentEntry, count)
	for i := range components {
		name, err := c.u16()
		if err != nil {
			return nil, err
		}
		descriptor, err := c.u16()
		if err != nil {
			return nil, err
		}
		attrs, err := decodeAttributeTable(c, pool, "record_component", opts)
		if err != nil {
			return nil, err
		}
		components[i] = RecordComponentEntry{name, descriptor, attrs}
	}
	return &RecordAttribute{Components: components}, nil
}

// BootstrapMethodEntry is one record referenced by a Dynamic or
// InvokeDynamic constant's BootstrapMethodAttrIndex.
type BootstrapMethodEntry struct {
	BootstrapMethodRef uint16
	BootstrapArguments []uint16
}

// BootstrapMethodsAttribute (§4.7.23): named in spec.md's attribute list but
// whose wire shape spec.md leaves implicit (see SPEC_FULL.md's Supplemented
// Features).
type BootstrapMethodsAttribute struct {
	BootstrapMethods []BootstrapMethodEntry
}

func (a *BootstrapMethodsAttribute) AttributeName() string { return "BootstrapMethods" }
func (a *BootstrapMethodsAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.u16(uint16(len(a.BootstrapMethods)))
	for _, m := range a.BootstrapMethods {
		w.u16(m.BootstrapMethodRef)
		w.u16(uint16(len(m.BootstrapArguments)))
		for _, arg := range m.BootstrapArguments {
			w.u16(arg)
		}
	}
}

func decodeBootstrapMethodsAttribute(_ string, c *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
	count, err := c.u16()
	if err != nil {
		return nil, err
	}
	methods := make([]BootstrapMethodEntry, count)
	for i := range methods {
		ref, err := c.u16()
		if err != nil {
			return nil, err
		}
		argCount, err := c.u16()
		if err != nil {
			return nil, err
		}
		args := make([]uint16, argCount)
		for j := range args {
			v, err := c.u16()
			if err != nil {
				return nil, err
			}
			args[j] = v
		}
		methods[i] = BootstrapMethodEntry{ref, args}
	}
	return &BootstrapMethodsAttribute{BootstrapMethods: methods}, nil
}
