// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// TypeAnnotation extends Annotation with a target_type/target_info pair
// locating which type use the annotation applies to, plus a target_path
// steering through nested/parameterized/array types (JVMS §4.7.20). The
// target_info union has more shapes than an ElementValue's, but follows the
// same tagged-struct pattern established there.

// TargetType (one of 22 defined values) selects which target_info shape applies.
type TargetType byte

const (
	TargetTypeParameterClass          TargetType = 0x00
	TargetTypeParameterMethod         TargetType = 0x01
	TargetSuperType                   TargetType = 0x10
	TargetTypeParameterBoundClass     TargetType = 0x11
	TargetTypeParameterBoundMethod    TargetType = 0x12
	TargetFieldEmpty                  TargetType = 0x13
	TargetReturnEmpty                 TargetType = 0x14
	TargetReceiverEmpty               TargetType = 0x15
	TargetFormalParameter             TargetType = 0x16
	TargetThrows                      TargetType = 0x17
	TargetLocalVar                    TargetType = 0x40
	TargetResourceVar                 TargetType = 0x41
	TargetExceptionParameter          TargetType = 0x42
	TargetInstanceof                  TargetType = 0x43
	TargetNew                         TargetType = 0x44
	TargetConstructorReference        TargetType = 0x45
	TargetMethodReference             TargetType = 0x46
	TargetCast                        TargetType = 0x47
	TargetConstructorInvocationArg    TargetType = 0x48
	TargetMethodInvocationArg         TargetType = 0x49
	TargetConstructorReferenceArg     TargetType = 0x4A
	TargetMethodReferenceArg          TargetType = 0x4B
)

func (t TargetType) valid() bool {
	switch t {
	case TargetTypeParameterClass, TargetTypeParameterMethod, TargetSuperType,
		TargetTypeParameterBoundClass, TargetTypeParameterBoundMethod,
		TargetFieldEmpty, TargetReturnEmpty, TargetReceiverEmpty,
		TargetFormalParameter, TargetThrows, TargetLocalVar, TargetResourceVar,
		TargetExceptionParameter, TargetInstanceof, TargetNew,
		TargetConstructorReference, TargetMethodReference, TargetCast,
		TargetConstructorInvocationArg, TargetMethodInvocationArg,
		TargetConstructorReferenceArg, TargetMethodReferenceArg:
		return true
	default:
		return false
	}
}

// LocalVarTargetEntry is one entry of a localvar_target's table (§4.7.20.1).
type LocalVarTargetEntry struct {
	StartPC int // u2, but widened the way Code's pcs are
	Length  int
	Index   int
}

// TargetInfo is the tagged union selected by TargetType; only the field(s)
// matching the current TargetType are meaningful.
type TargetInfo struct {
	TypeParameterIndex int // type_parameter_target
	SuperTypeIndex     int // supertype_target (65535 = the class's extends clause)
	BoundIndex         int // type_parameter_bound_target
	FormalParameterIndex int // formal_parameter_target
	ThrowsTypeIndex    int // throws_target
	LocalVarTable      []LocalVarTargetEntry // localvar_target / resource_variable_target
	ExceptionTableIndex int // catch_target
	Offset             int // offset_target / type_argument_target
	TypeArgumentIndex  int // type_argument_target
}

// TypePathStep is one step of a type_path (§4.7.20.2), steering through a
// nested/array/wildcard/parameterized type to the exact use the annotation
// targets.
type TypePathStep struct {
	TypePathKind      uint8 // 0 array, 1 nested, 2 wildcard bound, 3 type argument
	TypeArgumentIndex uint8
}

// TypeAnnotation (§4.7.20).
type TypeAnnotation struct {
	TargetType        TargetType
	Target            TargetInfo
	TypePath          []TypePathStep
	TypeIndex         uint16
	ElementValuePairs []ElementValuePair
}

func decodeTargetInfo(c *cursor, tt TargetType) (TargetInfo, error) {
	var info TargetInfo
	switch tt {
	case TargetTypeParameterClass, TargetTypeParameterMethod:
		v, err := c.u8()
		if err != nil {
			return info, err
		}
		info.TypeParameterIndex = int(v)
	case TargetSuperType:
		v, err := c.u16()
		if err != nil {
			return info, err
		}
		info.SuperTypeIndex = int(v)
	case TargetTypeParameterBoundClass, TargetTypeParameterBoundMethod:
		p, err := c.u8()
		if err != nil {
			return info, err
		}
		b, err := c.u8()
		if err != nil {
			return info, err
		}
		info.TypeParameterIndex, info.BoundIndex = int(p), int(b)
	case TargetFieldEmpty, TargetReturnEmpty, TargetReceiverEmpty:
		// empty_target has no body.
	case TargetFormalParameter:
		v, err := c.u8()
		if err != nil {
			return info, err
		}
		info.FormalParameterIndex = int(v)
	case TargetThrows:
		v, err := c.u16()
		if err != nil {
			return info, err
		}
		info.ThrowsTypeIndex = int(v)
	case TargetLocalVar, TargetResourceVar:
		count, err := c.u16()
		if err != nil {
			return info, err
		}
		table := make([]LocalVarTargetEntry, count)
		for i := range table {
			start, err := c.u16()
			if err != nil {
				return info, err
			}
			length, err := c.u16()
			if err != nil {
				return info, err
			}
			index, err := c.u16()
			if err != nil {
				return info, err
			}
			table[i] = LocalVarTargetEntry{int(start), int(length), int(index)}
		}
		info.LocalVarTable = table
	case TargetExceptionParameter:
		v, err := c.u16()
		if err != nil {
			return info, err
		}
		info.ExceptionTableIndex = int(v)
	case TargetInstanceof, TargetNew, TargetConstructorReference, TargetMethodReference:
		v, err := c.u16()
		if err != nil {
			return info, err
		}
		info.Offset = int(v)
	case TargetCast, TargetConstructorInvocationArg, TargetMethodInvocationArg,
		TargetConstructorReferenceArg, TargetMethodReferenceArg:
		offset, err := c.u16()
		if err != nil {
			return info, err
		}
		idx, err := c.u8()
		if err != nil {
			return info, err
		}
		info.Offset, info.TypeArgumentIndex = int(offset), int(idx)
	}
	return info, nil
}

func encodeTargetInfo(w *writer, tt TargetType, info TargetInfo) {
	switch tt {
	case TargetTypeParameterClass, TargetTypeParameterMethod:
		w.u8(uint8(info.TypeParameterIndex))
	case TargetSuperType:
		w.u16(uint16(info.SuperTypeIndex))
	case TargetTypeParameterBoundClass, TargetTypeParameterBoundMethod:
		w.u8(uint8(info.TypeParameterIndex))
		w.u8(uint8(info.BoundIndex))
	case TargetFieldEmpty, TargetReturnEmpty, TargetReceiverEmpty:
	case TargetFormalParameter:
		w.u8(uint8(info.FormalParameterIndex))
	case TargetThrows:
		w.u16(uint16(info.ThrowsTypeIndex))
	case TargetLocalVar, TargetResourceVar:
		w.u16(uint16(len(info.LocalVarTable)))
		for _, e := range info.LocalVarTable {
			w.u16(uint16(e.StartPC))
			w.u16(uint16(e.Length))
			w.u16(uint16(e.Index))
		}
	case TargetExceptionParameter:
		w.u16(uint16(info.ExceptionTableIndex))
	case TargetInstanceof, TargetNew, TargetConstructorReference, TargetMethodReference:
		w.u16(uint16(info.Offset))
	case TargetCast, TargetConstructorInvocationArg, TargetMethodInvocationArg,
		TargetConstructorReferenceArg, TargetMethodReferenceArg:
		w.u16(uint16(info.Offset))
		w.u8(uint8(info.TypeArgumentIndex))
	}
}

func decodeTypeAnnotation(c *cursor) (*TypeAnnotation, error) {
	ttByte, err := c.u8()
	if err != nil {
		return nil, err
	}
	tt := TargetType(ttByte)
	if !tt.valid() {
		return nil, &InvalidTagError{Where: "type_annotation.target_type", Value: int(ttByte), Offset: c.Pos() - 1}
	}
	target, err := decodeTargetInfo(c, tt)
	if err != nil {
		return nil, err
	}
	pathLen, err := c.u8()
	if err != nil {
		return nil, err
	}
	path := make([]TypePathStep, pathLen)
	for i := range path {
		kind, err := c.u8()
		if err != nil {
			return nil, err
		}
		argIdx, err := c.u8()
		if err != nil {
			return nil, err
		}
		path[i] = TypePathStep{kind, argIdx}
	}
	typeIndex, err := c.u16()
	if err != nil {
		return nil, err
	}
	pairCount, err := c.u16()
	if err != nil {
		return nil, err
	}
	pairs := make([]ElementValuePair, pairCount)
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
	return &TypeAnnotation{
		TargetType:        tt,
		Target:            target,
		TypePath:          path,
		TypeIndex:         typeIndex,
		ElementValuePairs: pairs,
	}, nil
}

func encodeTypeAnnotation(w *writer, a *TypeAnnotation) {
	w.u8(byte(a.TargetType))
	encodeTargetInfo(w, a.TargetType, a.Target)
	w.u8(uint8(len(a.TypePath)))
	for _, step := range a.TypePath {
		w.u8(step.TypePathKind)
		w.u8(step.TypeArgumentIndex)
	}
	w.u16(a.TypeIndex)
	w.u16(uint16(len(a.ElementValuePairs)))
	for _, p := range a.ElementValuePairs {
		w.u16(p.ElementNameIndex)
		encodeElementValue(w, p.Value)
	}
}

// RuntimeTypeAnnotationsAttribute covers RuntimeVisible/Invisible
// TypeAnnotations (§4.7.20/4.7.21), valid on class, field, method, and Code.
type RuntimeTypeAnnotationsAttribute struct {
	Visible     bool
	Annotations []*TypeAnnotation
}

func (a *RuntimeTypeAnnotationsAttribute) AttributeName() string {
	if a.Visible {
		return "RuntimeVisibleTypeAnnotations"
	}
	return "RuntimeInvisibleTypeAnnotations"
}

func (a *RuntimeTypeAnnotationsAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.u16(uint16(len(a.Annotations)))
	for _, ann := range a.Annotations {
		encodeTypeAnnotation(w, ann)
	}
}

func decodeRuntimeTypeAnnotationsAttribute(visible bool) attributeDecodeFunc {
	return func(_ string, c *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
		count, err := c.u16()
		if err != nil {
			return nil, err
		}
		anns := make([]*TypeAnnotation, count)
		for i := range anns {
			ann, err := decodeTypeAnnotation(c)
			if err != nil {
				return nil, err
			}
			anns[i] = ann
		}
		return &RuntimeTypeAnnotationsAttribute{Visible: visible, Annotations: anns}, nil
	}
}
