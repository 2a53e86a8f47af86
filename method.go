// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// Method is one method_info entry (JVMS §4.6), structurally identical to
// Field apart from the flag space and descriptor grammar it resolves
// against.
type Method struct {
	AccessFlags     MethodAccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []Attribute
}

func (m *Method) attributeLocation() string { return "method" }

func (m *Method) Name(pool *ConstantPool) (string, error) {
	u, err := pool.GetUtf8(int(m.NameIndex))
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (m *Method) Descriptor(pool *ConstantPool) (*MethodDescriptor, error) {
	u, err := pool.GetUtf8(int(m.DescriptorIndex))
	if err != nil {
		return nil, err
	}
	return ParseMethodDescriptor(u.String())
}

// Code returns the method's Code attribute, or nil if it has none (the case
// for abstract and native methods).
func (m *Method) Code() *CodeAttribute {
	for _, a := range m.Attributes {
		if code, ok := a.(*CodeAttribute); ok {
			return code
		}
	}
	return nil
}

func decodeMethod(c *cursor, pool *ConstantPool, opts *DecodeOptions) (*Method, error) {
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
	attrs, err := decodeAttributeTable(c, pool, "method", opts)
	if err != nil {
		return nil, err
	}
	return &Method{
		AccessFlags:     MethodAccessFlags(accessFlags),
		NameIndex:       nameIndex,
		DescriptorIndex: descriptorIndex,
		Attributes:      attrs,
	}, nil
}

func decodeMethodTable(c *cursor, pool *ConstantPool, opts *DecodeOptions) ([]*Method, error) {
	count, err := c.u16()
	if err != nil {
		return nil, err
	}
	methods := make([]*Method, 0, count)
	for i := 0; i < int(count); i++ {
		m, err := decodeMethod(c, pool, opts)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}

func encodeMethodTable(w *writer, pool *ConstantPool, methods []*Method) {
	w.u16(uint16(len(methods)))
	for _, m := range methods {
		w.u16(uint16(m.AccessFlags))
		w.u16(m.NameIndex)
		w.u16(m.DescriptorIndex)
		encodeAttributeTable(w, pool, m.Attributes)
	}
}
