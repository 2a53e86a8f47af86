// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "testing"

func TestMethodTableRoundTripWithCode(t *testing.T) {
	pool := NewConstantPool()
	code := &CodeAttribute{
		MaxStack:   1,
		MaxLocals:  1,
		CodeLength: 1,
		Instructions: []*Instruction{
			{Offset: 0, Opcode: 177, Mnemonic: "return"},
		},
	}
	methods := []*Method{
		{
			AccessFlags:     MethodAccessFlags(AccPublic),
			NameIndex:       pool.AddUtf8("<init>"),
			DescriptorIndex: pool.AddUtf8("()V"),
			Attributes:      []Attribute{code},
		},
	}
	w := newWriter()
	encodeMethodTable(w, pool, methods)

	decoded, err := decodeMethodTable(newCursor(w.Bytes()), pool, nil)
	if err != nil {
		t.Fatalf("decodeMethodTable: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("got %d methods, want 1", len(decoded))
	}
	name, err := decoded[0].Name(pool)
	if err != nil {
		t.Fatalf("Name: %v", err)
	}
	if name != "<init>" {
		t.Errorf("Name() = %q", name)
	}
	md, err := decoded[0].Descriptor(pool)
	if err != nil {
		t.Fatalf("Descriptor: %v", err)
	}
	if md.String() != "()V" {
		t.Errorf("Descriptor() = %q", md.String())
	}
	got := decoded[0].Code()
	if got == nil || len(got.Instructions) != 1 || got.Instructions[0].Mnemonic != "return" {
		t.Errorf("Code() = %+v", got)
	}
}

func TestMethodWithNoCodeAttributeIsAbstractOrNative(t *testing.T) {
	pool := NewConstantPool()
	m := &Method{
		AccessFlags:     MethodAccessFlags(AccPublic | AccAbstract),
		NameIndex:       pool.AddUtf8("compute"),
		DescriptorIndex: pool.AddUtf8("()V"),
	}
	if m.Code() != nil {
		t.Error("Code() should be nil for an abstract method")
	}
}
