// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "strings"

// BaseType is one of the eight primitive descriptor letters of JVMS §4.3.2.
type BaseType byte

const (
	BaseByte    BaseType = 'B'
	BaseChar    BaseType = 'C'
	BaseDouble  BaseType = 'D'
	BaseFloat   BaseType = 'F'
	BaseInt     BaseType = 'I'
	BaseLong    BaseType = 'J'
	BaseShort   BaseType = 'S'
	BaseBoolean BaseType = 'Z'
)

func (b BaseType) valid() bool {
	switch b {
	case BaseByte, BaseChar, BaseDouble, BaseFloat, BaseInt, BaseLong, BaseShort, BaseBoolean:
		return true
	default:
		return false
	}
}

// FieldType is the grammar of JVMS §4.3.2: a base type, a class type
// (`L<internal name>;`), or an array type (one or more `[` followed by a
// component FieldType).
type FieldType struct {
	// Exactly one of Base, ClassName ("" means not a class type), or
	// Component (nil means not an array type) applies, selected by Kind.
	Kind      FieldTypeKind
	Base      BaseType
	ClassName string // internal form, e.g. "java/lang/String", no L/; wrapper
	Component *FieldType
}

type FieldTypeKind uint8

const (
	KindBase FieldTypeKind = iota
	KindClass
	KindArray
)

// String renders the field type back to its descriptor form.
func (t *FieldType) String() string {
	switch t.Kind {
	case KindBase:
		return string(rune(t.Base))
	case KindClass:
		return "L" + t.ClassName + ";"
	case KindArray:
		return "[" + t.Component.String()
	default:
		return "?"
	}
}

// ReturnType is a FieldType or void ("V"), used only as a method
// descriptor's return slot.
type ReturnType struct {
	Void  bool
	Field *FieldType
}

func (r *ReturnType) String() string {
	if r.Void {
		return "V"
	}
	return r.Field.String()
}

// MethodDescriptor is the `(<params>)<return>` grammar of JVMS §4.3.3.
type MethodDescriptor struct {
	Params []*FieldType
	Return *ReturnType
}

func (m *MethodDescriptor) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, p := range m.Params {
		sb.WriteString(p.String())
	}
	sb.WriteByte(')')
	sb.WriteString(m.Return.String())
	return sb.String()
}

// descriptorScanner is a minimal recursive-descent reader over a descriptor
// string. There is no teacher or pack analog for this narrow a grammar (see
// DESIGN.md); it is hand-rolled directly from JVMS §4.3.2/§4.3.3.
type descriptorScanner struct {
	s   string
	pos int
}

func (d *descriptorScanner) eof() bool { return d.pos >= len(d.s) }

func (d *descriptorScanner) peek() byte {
	if d.eof() {
		return 0
	}
	return d.s[d.pos]
}

// ParseFieldType parses s as a single field descriptor (JVMS §4.3.2),
// requiring the entire string to be consumed.
func ParseFieldType(s string) (*FieldType, error) {
	d := &descriptorScanner{s: s}
	ft, err := d.parseFieldType()
	if err != nil {
		return nil, err
	}
	if !d.eof() {
		return nil, &InvalidDescriptorError{String: s, Position: d.pos}
	}
	return ft, nil
}

func (d *descriptorScanner) parseFieldType() (*FieldType, error) {
	if d.eof() {
		return nil, &InvalidDescriptorError{String: d.s, Position: d.pos}
	}
	switch c := d.peek(); {
	case BaseType(c).valid():
		d.pos++
		return &FieldType{Kind: KindBase, Base: BaseType(c)}, nil
	case c == 'L':
		start := d.pos
		d.pos++
		nameStart := d.pos
		for !d.eof() && d.peek() != ';' {
			d.pos++
		}
		if d.eof() {
			return nil, &InvalidDescriptorError{String: d.s, Position: start}
		}
		name := d.s[nameStart:d.pos]
		if name == "" {
			return nil, &InvalidDescriptorError{String: d.s, Position: nameStart}
		}
		d.pos++ // consume ';'
		return &FieldType{Kind: KindClass, ClassName: name}, nil
	case c == '[':
		start := d.pos
		depth := 0
		for !d.eof() && d.peek() == '[' {
			d.pos++
			depth++
		}
		if depth > 255 {
			// JVMS §4.4: an array type has at most 255 dimensions.
			return nil, &InvalidDescriptorError{String: d.s, Position: start}
		}
		component, err := d.parseFieldType()
		if err != nil {
			return nil, err
		}
		ft := component
		for i := 0; i < depth; i++ {
			ft = &FieldType{Kind: KindArray, Component: ft}
		}
		return ft, nil
	default:
		return nil, &InvalidDescriptorError{String: d.s, Position: d.pos}
	}
}

// ParseMethodDescriptor parses s as a full method descriptor (JVMS §4.3.3).
func ParseMethodDescriptor(s string) (*MethodDescriptor, error) {
	d := &descriptorScanner{s: s}
	if d.eof() || d.peek() != '(' {
		return nil, &InvalidDescriptorError{String: s, Position: d.pos}
	}
	d.pos++
	var params []*FieldType
	for !d.eof() && d.peek() != ')' {
		p, err := d.parseFieldType()
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	if d.eof() {
		return nil, &InvalidDescriptorError{String: s, Position: d.pos}
	}
	d.pos++ // consume ')'
	var ret *ReturnType
	if !d.eof() && d.peek() == 'V' {
		d.pos++
		ret = &ReturnType{Void: true}
	} else {
		f, err := d.parseFieldType()
		if err != nil {
			return nil, err
		}
		ret = &ReturnType{Field: f}
	}
	if !d.eof() {
		return nil, &InvalidDescriptorError{String: s, Position: d.pos}
	}
	return &MethodDescriptor{Params: params, Return: ret}, nil
}
