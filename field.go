// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// Field is one field_info entry (JVMS §4.5): access flags, a name and
// descriptor index into the constant pool, and an attribute table. The
// shape mirrors the teacher's section table entries — a fixed-width header
// record that owns a variable-length trailing table (section.go).
type Field struct {
	AccessFlags     FieldAccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []Attribute
}

func (f *Field) attributeLocation() string { return "field" }

// Name resolves NameIndex against pool.
func (f *Field) Name(pool *ConstantPool) (string, error) {
	u, err := pool.GetUtf8(int(f.NameIndex))
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// Descriptor resolves and parses DescriptorIndex as a field descriptor.
func (f *Field) Descriptor(pool *ConstantPool) (*FieldType, error) {
	u, err := pool.GetUtf8(int(f.DescriptorIndex))
	if err != nil {
		return nil, err
	}
	return ParseFieldType(u.String())
}

func decodeField(c *cursor, pool *ConstantPool, opts *DecodeOptions) (*Field, error) {
	accessFlags, err := c.u16()
	if err != nil {
		return nil, err
	}
	nameIndex, err := c.u16()
	if err != nil {
		return nil, err
	}
	descriptorIndex, err := c.u16()
	if err != nil {
		return nil, err
	}
	attrs, err := decodeAttributeTable(c, pool, "field", opts)
	if err != nil {
		return nil, err
	}
	return &Field{
		AccessFlags:     FieldAccessFlags(accessFlags),
		NameIndex:       nameIndex,
		DescriptorIndex: descriptorIndex,
		Attributes:      attrs,
	}, nil
}

func decodeFieldTable(c *cursor, pool *ConstantPool, opts *DecodeOptions) ([]*Field, error) {
	count, err := c.u16()
	if err != nil {
		return nil, err
	}
	fields := make([]*Field, 0, count)
	for i := 0; i < int(count); i++ {
		f, err := decodeField(c, pool, opts)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func encodeFieldTable(w *writer, pool *ConstantPool, fields []*Field) {
	w.u16(uint16(len(fields)))
	for _, f := range fields {
		w.u16(uint16(f.AccessFlags))
		w.u16(f.NameIndex)
		w.u16(f.DescriptorIndex)
		encodeAttributeTable(w, pool, f.Attributes)
	}
}
