// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "testing"

func TestDecodeOneAttributeKnownKind(t *testing.T) {
	pool := NewConstantPool()
	pool.AddUtf8("SourceFile")
	sourceFileIdx := pool.AddUtf8("Foo.java")

	w := newWriter()
	w.u16(1) // name index: "SourceFile" interned above at index 1
	body := newWriter()
	body.u16(sourceFileIdx)
	w.u32(uint32(body.Len()))
	w.raw(body.Bytes())

	attr, err := decodeOneAttribute(newCursor(w.Bytes()), pool, "class", nil)
	if err != nil {
		t.Fatalf("decodeOneAttribute: %v", err)
	}
	sf, ok := attr.(*SourceFileAttribute)
	if !ok {
		t.Fatalf("got %T, want *SourceFileAttribute", attr)
	}
	if sf.SourceFileIndex != sourceFileIdx {
		t.Errorf("SourceFileIndex = %d, want %d", sf.SourceFileIndex, sourceFileIdx)
	}
}

func TestDecodeOneAttributeUnknownKindPreservesBytes(t *testing.T) {
	pool := NewConstantPool()
	pool.AddUtf8("MadeUpVendorAttribute")

	w := newWriter()
	w.u16(1)
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	w.u32(uint32(len(payload)))
	w.raw(payload)

	attr, err := decodeOneAttribute(newCursor(w.Bytes()), pool, "class", nil)
	if err != nil {
		t.Fatalf("decodeOneAttribute: %v", err)
	}
	u, ok := attr.(*UnknownAttribute)
	if !ok {
		t.Fatalf("got %T, want *UnknownAttribute", attr)
	}
	if u.Name != "MadeUpVendorAttribute" {
		t.Errorf("Name = %q", u.Name)
	}
	if len(u.Bytes) != 4 || u.Bytes[0] != 0xDE {
		t.Errorf("Bytes = %v", u.Bytes)
	}
}

func TestDecodeOneAttributeLengthMismatch(t *testing.T) {
	pool := NewConstantPool()
	pool.AddUtf8("SourceFile")

	w := newWriter()
	w.u16(1)
	// SourceFile's body is a u16, but claim a 4-byte length so the
	// SourceFile decoder leaves 2 bytes unconsumed.
	w.u32(4)
	w.raw([]byte{0, 1, 0, 0})

	if _, err := decodeOneAttribute(newCursor(w.Bytes()), pool, "class", nil); err == nil {
		t.Fatal("expected AttributeLengthMismatchError")
	}
}

func TestAttributeTableRoundTrip(t *testing.T) {
	pool := NewConstantPool()
	attrs := []Attribute{
		&SyntheticAttribute{},
		&DeprecatedAttribute{},
		&SourceFileAttribute{SourceFileIndex: pool.AddUtf8("Foo.java")},
	}
	w := newWriter()
	encodeAttributeTable(w, pool, attrs)

	decoded, err := decodeAttributeTable(newCursor(w.Bytes()), pool, "class", nil)
	if err != nil {
		t.Fatalf("decodeAttributeTable: %v", err)
	}
	if len(decoded) != 3 {
		t.Fatalf("got %d attributes, want 3", len(decoded))
	}
	if _, ok := decoded[0].(*SyntheticAttribute); !ok {
		t.Errorf("decoded[0] = %T", decoded[0])
	}
	if _, ok := decoded[1].(*DeprecatedAttribute); !ok {
		t.Errorf("decoded[1] = %T", decoded[1])
	}
	sf, ok := decoded[2].(*SourceFileAttribute)
	if !ok || sf.SourceFileIndex == 0 {
		t.Errorf("decoded[2] = %+v", decoded[2])
	}
}

func TestExceptionsAttributeRoundTrip(t *testing.T) {
	a := &ExceptionsAttribute{ExceptionIndexTable: []uint16{3, 7}}
	w := newWriter()
	a.encodeBody(w, nil)
	decoded, err := decodeExceptionsAttribute("Exceptions", newCursor(w.Bytes()), nil, "method", nil)
	if err != nil {
		t.Fatalf("decodeExceptionsAttribute: %v", err)
	}
	ex := decoded.(*ExceptionsAttribute)
	if len(ex.ExceptionIndexTable) != 2 || ex.ExceptionIndexTable[1] != 7 {
		t.Errorf("got %+v", ex)
	}
}

func TestInnerClassesAttributeRoundTrip(t *testing.T) {
	a := &InnerClassesAttribute{Classes: []InnerClassEntry{
		{InnerClassInfoIndex: 1, OuterClassInfoIndex: 2, InnerNameIndex: 3, InnerClassAccessFlags: AccPublic | AccStatic},
	}}
	w := newWriter()
	a.encodeBody(w, nil)
	decoded, err := decodeInnerClassesAttribute("InnerClasses", newCursor(w.Bytes()), nil, "class", nil)
	if err != nil {
		t.Fatalf("decodeInnerClassesAttribute: %v", err)
	}
	ic := decoded.(*InnerClassesAttribute)
	if len(ic.Classes) != 1 || ic.Classes[0].InnerClassAccessFlags != AccPublic|AccStatic {
		t.Errorf("got %+v", ic)
	}
}

func TestRecordAttributeNestedComponentAttributes(t *testing.T) {
	pool := NewConstantPool()
	a := &RecordAttribute{Components: []RecordComponentEntry{
		{
			NameIndex:       pool.AddUtf8("x"),
			DescriptorIndex: pool.AddUtf8("I"),
			Attributes:      []Attribute{&SignatureAttribute{SignatureIndex: pool.AddUtf8("TT;")}},
		},
	}}
	w := newWriter()
	a.encodeBody(w, pool)
	decoded, err := decodeRecordAttribute("Record", newCursor(w.Bytes()), pool, "class", nil)
	if err != nil {
		t.Fatalf("decodeRecordAttribute: %v", err)
	}
	rec := decoded.(*RecordAttribute)
	if len(rec.Components) != 1 || len(rec.Components[0].Attributes) != 1 {
		t.Fatalf("got %+v", rec)
	}
	if _, ok := rec.Components[0].Attributes[0].(*SignatureAttribute); !ok {
		t.Errorf("component attribute = %T", rec.Components[0].Attributes[0])
	}
}

func TestBootstrapMethodsAttributeRoundTrip(t *testing.T) {
	a := &BootstrapMethodsAttribute{BootstrapMethods: []BootstrapMethodEntry{
		{BootstrapMethodRef: 5, BootstrapArguments: []uint16{1, 2, 3}},
	}}
	w := newWriter()
	a.encodeBody(w, nil)
	decoded, err := decodeBootstrapMethodsAttribute("BootstrapMethods", newCursor(w.Bytes()), nil, "class", nil)
	if err != nil {
		t.Fatalf("decodeBootstrapMethodsAttribute: %v", err)
	}
	bm := decoded.(*BootstrapMethodsAttribute)
	if len(bm.BootstrapMethods) != 1 || len(bm.BootstrapMethods[0].BootstrapArguments) != 3 {
		t.Errorf("got %+v", bm)
	}
}
