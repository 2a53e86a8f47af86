// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// Attribute is the sum type for every shape the attribute_info table can
// hold (JVMS §4.7). Known attribute kinds decode into a dedicated struct;
// anything else decodes into UnknownAttribute, mirroring the teacher's
// ParseDataDirectories pattern of dispatching on a key with an explicit
// fallthrough for unrecognized directories (file.go).
type Attribute interface {
	AttributeName() string
	encodeBody(w *writer, pool *ConstantPool)
}

// attributeHolder is implemented by every struct that owns an attribute
// table (ClassFile, Field, Method, the Code attribute); it lets the
// verifier walk the table generically when checking location/multiplicity
// rules (attribute_rules.go).
type attributeHolder interface {
	attributeLocation() string
}

// UnknownAttribute preserves the raw bytes of an attribute name this
// decoder does not recognize, so a lax round-trip never loses data (spec.md
// §7's "unknown attributes are preserved, not dropped").
type UnknownAttribute struct {
	Name  string
	Bytes []byte
}

func (a *UnknownAttribute) AttributeName() string { return a.Name }
func (a *UnknownAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.raw(a.Bytes)
}

// attributeDecodeFunc decodes one attribute's body, given a sub-cursor
// already bounded to exactly attribute_length bytes. loc is one of
// "class", "field", "method", "code" and lets a handful of attributes
// (e.g. RuntimeVisibleTypeAnnotations) select a location-specific layout
// when the wire shape differs by holder.
type attributeDecodeFunc func(name string, c *cursor, pool *ConstantPool, loc string, opts *DecodeOptions) (Attribute, error)

// attributeDecoders is the name-keyed dispatch table, generalized from the
// teacher's fixed 16-entry funcMaps array (file.go) to an open table keyed
// by the attribute's own name string (resolved via the constant pool)
// instead of a fixed directory index.
var attributeDecoders = map[string]attributeDecodeFunc{
	"ConstantValue":                        decodeConstantValueAttribute,
	"Code":                                 decodeCodeAttributeDispatch,
	"StackMapTable":                        decodeStackMapTableAttribute,
	"Exceptions":                           decodeExceptionsAttribute,
	"InnerClasses":                         decodeInnerClassesAttribute,
	"EnclosingMethod":                      decodeEnclosingMethodAttribute,
	"Synthetic":                            decodeSyntheticAttribute,
	"Signature":                            decodeSignatureAttribute,
	"SourceFile":                           decodeSourceFileAttribute,
	"SourceDebugExtension":                 decodeSourceDebugExtensionAttribute,
	"LineNumberTable":                      decodeLineNumberTableAttribute,
	"LocalVariableTable":                   decodeLocalVariableTableAttribute,
	"LocalVariableTypeTable":               decodeLocalVariableTypeTableAttribute,
	"Deprecated":                           decodeDeprecatedAttribute,
	"RuntimeVisibleAnnotations":            decodeRuntimeAnnotationsAttribute(true, false),
	"RuntimeInvisibleAnnotations":          decodeRuntimeAnnotationsAttribute(false, false),
	"RuntimeVisibleParameterAnnotations":   decodeRuntimeAnnotationsAttribute(true, true),
	"RuntimeInvisibleParameterAnnotations": decodeRuntimeAnnotationsAttribute(false, true),
	"RuntimeVisibleTypeAnnotations":        decodeRuntimeTypeAnnotationsAttribute(true),
	"RuntimeInvisibleTypeAnnotations":      decodeRuntimeTypeAnnotationsAttribute(false),
	"AnnotationDefault":                    decodeAnnotationDefaultAttribute,
	"BootstrapMethods":                     decodeBootstrapMethodsAttribute,
	"MethodParameters":                     decodeMethodParametersAttribute,
	"Module":                               decodeModuleAttribute,
	"ModulePackages":                       decodeModulePackagesAttribute,
	"ModuleMainClass":                      decodeModuleMainClassAttribute,
	"NestHost":                             decodeNestHostAttribute,
	"NestMembers":                          decodeNestMembersAttribute,
	"Record":                               decodeRecordAttribute,
	"PermittedSubclasses":                  decodePermittedSubclassesAttribute,
}

// decodeAttributeTable reads `attributes_count: u16` followed by that many
// attribute_info entries, each bounded to its own `attribute_length` via a
// sub-cursor so a decoder bug in one attribute can never read into the
// next (spec.md §4.4's "attribute_length must exactly bound the body").
func decodeAttributeTable(c *cursor, pool *ConstantPool, loc string, opts *DecodeOptions) ([]Attribute, error) {
	count, err := c.u16()
	if err != nil {
		return nil, err
	}
	if opts != nil && opts.MaxAttributeTableEntries > 0 && int(count) > opts.MaxAttributeTableEntries {
		return nil, &TruncatedError{Offset: c.Pos(), Needed: int(count), Remaining: opts.MaxAttributeTableEntries}
	}
	attrs := make([]Attribute, 0, count)
	for i := 0; i < int(count); i++ {
		attr, err := decodeOneAttribute(c, pool, loc, opts)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

func decodeOneAttribute(c *cursor, pool *ConstantPool, loc string, opts *DecodeOptions) (Attribute, error) {
	nameIndex, err := c.u16()
	if err != nil {
		return nil, err
	}
	length, err := c.u32()
	if err != nil {
		return nil, err
	}
	body, err := c.sub(int(length))
	if err != nil {
		return nil, err
	}
	nameConst, err := pool.GetUtf8(int(nameIndex))
	if err != nil {
		// A name that doesn't resolve to a Utf8 constant yields an
		// UnknownAttribute with an empty Name and the raw body bytes rather
		// than aborting the whole decode. The original name index is not
		// kept, and the verifier does not report it.
		return &UnknownAttribute{Name: "", Bytes: body.buf}, nil
	}
	name := nameConst.String()

	decode, ok := attributeDecoders[name]
	if !ok {
		return &UnknownAttribute{Name: name, Bytes: body.buf}, nil
	}
	attr, err := decode(name, body, pool, loc, opts)
	if err != nil {
		return nil, err
	}
	if body.Remaining() != 0 {
		return nil, &AttributeLengthMismatchError{Name: name, Expected: int(length), Actual: int(length) - body.Remaining()}
	}
	return attr, nil
}

func encodeAttributeTable(w *writer, pool *ConstantPool, attrs []Attribute) {
	w.u16(uint16(len(attrs)))
	for _, a := range attrs {
		nameIdx := pool.lookupOrAddUtf8(a.AttributeName())
		w.u16(uint16(nameIdx))
		body := &writer{}
		a.encodeBody(body, pool)
		w.u32(uint32(len(body.Bytes())))
		w.raw(body.Bytes())
	}
}
