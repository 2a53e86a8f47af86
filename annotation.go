// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// Annotation and ElementValue model the recursive annotation tree of JVMS
// §4.7.16, grounded on resource.go's recursive resource-directory tree: a
// directory entry is either a leaf (data) or another directory, exactly the
// way an ElementValue is either a scalar/class/enum leaf or nests further
// annotations/arrays.

// Annotation is `type_index` plus a name -> ElementValue map (§4.7.16).
type Annotation struct {
	TypeIndex           uint16
	ElementValuePairs   []ElementValuePair
}

// ElementValuePair is one (element_name_index, value) entry of an
// annotation's body.
type ElementValuePair struct {
	ElementNameIndex uint16
	Value            ElementValue
}

// ElementValueTag is the tag byte selecting an ElementValue's union member.
type ElementValueTag byte

const (
	EVByte             ElementValueTag = 'B'
	EVChar             ElementValueTag = 'C'
	EVDouble           ElementValueTag = 'D'
	EVFloat            ElementValueTag = 'F'
	EVInt              ElementValueTag = 'I'
	EVLong             ElementValueTag = 'J'
	EVShort            ElementValueTag = 'S'
	EVBoolean          ElementValueTag = 'Z'
	EVString           ElementValueTag = 's'
	EVEnumConstant     ElementValueTag = 'e'
	EVClass            ElementValueTag = 'c'
	EVAnnotation       ElementValueTag = '@'
	EVArray            ElementValueTag = '['
)

func (t ElementValueTag) valid() bool {
	switch t {
	case EVByte, EVChar, EVDouble, EVFloat, EVInt, EVLong, EVShort, EVBoolean,
		EVString, EVEnumConstant, EVClass, EVAnnotation, EVArray:
		return true
	default:
		return false
	}
}

// ElementValue is the tagged union of §4.7.16.1. Exactly one field besides
// Tag applies, chosen by Tag.
type ElementValue struct {
	Tag ElementValueTag

	ConstValueIndex uint16 // const_value_index, tags B C D F I J S Z s

	EnumTypeNameIndex  uint16 // tag e
	EnumConstNameIndex uint16

	ClassInfoIndex uint16 // tag c

	AnnotationValue *Annotation // tag @

	ArrayValues []ElementValue // tag [
}

func decodeAnnotation(c *cursor) (*Annotation, error) {
	typeIndex, err := c.u16()
	if err != nil {
		return nil, err
	}
	count, err := c.u16()
	if err != nil {
		return nil, err
	}
	pairs := make([]ElementValuePair, count)
	for i := range pairs {
		nameIndex, err := c.u16()
		if err != nil {
			return nil, err
		}
		val, err := decodeElementValue(c)
		if err != nil {
			return nil, err
		}
		pairs[i] = ElementValuePair{nameIndex, val}
	}
	return &Annotation{TypeIndex: typeIndex, ElementValuePairs: pairs}, nil
}

func decodeElementValue(c *cursor) (ElementValue, error) {
	tagByte, err := c.u8()
	if err != nil {
		return ElementValue{}, err
	}
	tag := ElementValueTag(tagByte)
	if !tag.valid() {
		return ElementValue{}, &InvalidTagError{Where: "element_value", Value: int(tagByte), Offset: c.Pos() - 1}
	}
	switch tag {
	case EVByte, EVChar, EVDouble, EVFloat, EVInt, EVLong, EVShort, EVBoolean, EVString:
		idx, err := c.u16()
		if err != nil {
			return ElementValue{}, err
		}
		return ElementValue{Tag: tag, ConstValueIndex: idx}, nil
	case EVEnumConstant:
		typeName, err := c.u16()
		if err != nil {
			return ElementValue{}, err
		}
		constName, err := c.u16()
		if err != nil {
			return ElementValue{}, err
		}
		return ElementValue{Tag: tag, EnumTypeNameIndex: typeName, EnumConstNameIndex: constName}, nil
	case EVClass:
		idx, err := c.u16()
		if err != nil {
			return ElementValue{}, err
		}
		return ElementValue{Tag: tag, ClassInfoIndex: idx}, nil
	case EVAnnotation:
		nested, err := decodeAnnotation(c)
		if err != nil {
			return ElementValue{}, err
		}
		return ElementValue{Tag: tag, AnnotationValue: nested}, nil
	case EVArray:
		count, err := c.u16()
		if err != nil {
			return ElementValue{}, err
		}
		values := make([]ElementValue, count)
		for i := range values {
			v, err := decodeElementValue(c)
			if err != nil {
				return ElementValue{}, err
			}
			values[i] = v
		}
		return ElementValue{Tag: tag, ArrayValues: values}, nil
	default:
		return ElementValue{}, &InvalidTagError{Where: "element_value", Value: int(tagByte), Offset: c.Pos() - 1}
	}
}

func encodeAnnotation(w *writer, a *Annotation) {
	w.u16(a.TypeIndex)
	w.u16(uint16(len(a.ElementValuePairs)))
	for _, p := range a.ElementValuePairs {
		w.u16(p.ElementNameIndex)
		encodeElementValue(w, p.Value)
	}
}

func encodeElementValue(w *writer, v ElementValue) {
	w.u8(byte(v.Tag))
	switch v.Tag {
	case EVByte, EVChar, EVDouble, EVFloat, EVInt, EVLong, EVShort, EVBoolean, EVString:
		w.u16(v.ConstValueIndex)
	case EVEnumConstant:
		w.u16(v.EnumTypeNameIndex)
		w.u16(v.EnumConstNameIndex)
	case EVClass:
		w.u16(v.ClassInfoIndex)
	case EVAnnotation:
		encodeAnnotation(w, v.AnnotationValue)
	case EVArray:
		w.u16(uint16(len(v.ArrayValues)))
		for _, e := range v.ArrayValues {
			encodeElementValue(w, e)
		}
	}
}

// RuntimeAnnotationsAttribute covers RuntimeVisible/InvisibleAnnotations
// (§4.7.16/4.7.17); Visible distinguishes which of the pair this is purely
// for AttributeName, since the wire shape is identical.
type RuntimeAnnotationsAttribute struct {
	Visible     bool
	Annotations []*Annotation
}

func (a *RuntimeAnnotationsAttribute) AttributeName() string {
	if a.Visible {
		return "RuntimeVisibleAnnotations"
	}
	return "RuntimeInvisibleAnnotations"
}

func (a *RuntimeAnnotationsAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.u16(uint16(len(a.Annotations)))
	for _, ann := range a.Annotations {
		encodeAnnotation(w, ann)
	}
}

// RuntimeParameterAnnotationsAttribute covers RuntimeVisible/Invisible
// ParameterAnnotations (§4.7.18/4.7.19): one annotation list per formal
// parameter.
type RuntimeParameterAnnotationsAttribute struct {
	Visible              bool
	ParameterAnnotations [][]*Annotation
}

func (a *RuntimeParameterAnnotationsAttribute) AttributeName() string {
	if a.Visible {
		return "RuntimeVisibleParameterAnnotations"
	}
	return "RuntimeInvisibleParameterAnnotations"
}

func (a *RuntimeParameterAnnotationsAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.u8(uint8(len(a.ParameterAnnotations)))
	for _, anns := range a.ParameterAnnotations {
		w.u16(uint16(len(anns)))
		for _, ann := range anns {
			encodeAnnotation(w, ann)
		}
	}
}

// decodeRuntimeAnnotationsAttribute returns an attributeDecodeFunc closed
// over (visible, parameter), so the single dispatch table in attribute.go
// can register all four runtime-annotation attribute kinds without four
// near-identical top-level functions.
func decodeRuntimeAnnotationsAttribute(visible, parameter bool) attributeDecodeFunc {
	if parameter {
		return func(_ string, c *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
			count, err := c.u8()
			if err != nil {
				return nil, err
			}
			paramAnns := make([][]*Annotation, count)
			for i := range paramAnns {
				n, err := c.u16()
				if err != nil {
					return nil, err
				}
				anns := make([]*Annotation, n)
				for j := range anns {
					ann, err := decodeAnnotation(c)
					if err != nil {
						return nil, err
					}
					anns[j] = ann
				}
				paramAnns[i] = anns
			}
			return &RuntimeParameterAnnotationsAttribute{Visible: visible, ParameterAnnotations: paramAnns}, nil
		}
	}
	return func(_ string, c *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
		count, err := c.u16()
		if err != nil {
			return nil, err
		}
		anns := make([]*Annotation, count)
		for i := range anns {
			ann, err := decodeAnnotation(c)
			if err != nil {
				return nil, err
			}
			anns[i] = ann
		}
		return &RuntimeAnnotationsAttribute{Visible: visible, Annotations: anns}, nil
	}
}

// AnnotationDefaultAttribute (§4.7.20): a default value for an annotation
// interface's element.
type AnnotationDefaultAttribute struct {
	DefaultValue ElementValue
}

func (a *AnnotationDefaultAttribute) AttributeName() string { return "AnnotationDefault" }
func (a *AnnotationDefaultAttribute) encodeBody(w *writer, _ *ConstantPool) {
	encodeElementValue(w, a.DefaultValue)
}

func decodeAnnotationDefaultAttribute(_ string, c *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
	v, err := decodeElementValue(c)
	if err != nil {
		return nil, err
	}
	return &AnnotationDefaultAttribute{DefaultValue: v}, nil
}
