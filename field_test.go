// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "testing"

func TestFieldTableRoundTrip(t *testing.T) {
	pool := NewConstantPool()
	fields := []*Field{
		{
			AccessFlags:     FieldAccessFlags(AccPrivate | AccFinal),
			NameIndex:       pool.AddUtf8("count"),
			DescriptorIndex: pool.AddUtf8("I"),
		},
	}
	w := newWriter()
	encodeFieldTable(w, pool, fields)

	decoded, err := decodeFieldTable(newCursor(w.Bytes()), pool, nil)
	if err != nil {
		t.Fatalf("decodeFieldTable: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("got %d fields, want 1", len(decoded))
	}
	name, err := decoded[0].Name(pool)
	if err != nil {
		t.Fatalf("Name: %v", err)
	}
	if name != "count" {
		t.Errorf("Name() = %q", name)
	}
	ft, err := decoded[0].Descriptor(pool)
	if err != nil {
		t.Fatalf("Descriptor: %v", err)
	}
	if ft.String() != "I" {
		t.Errorf("Descriptor() = %q", ft.String())
	}
	if decoded[0].AccessFlags != FieldAccessFlags(AccPrivate|AccFinal) {
		t.Errorf("AccessFlags = %v", decoded[0].AccessFlags)
	}
}

func TestFieldTableEmpty(t *testing.T) {
	pool := NewConstantPool()
	w := newWriter()
	encodeFieldTable(w, pool, nil)
	decoded, err := decodeFieldTable(newCursor(w.Bytes()), pool, nil)
	if err != nil {
		t.Fatalf("decodeFieldTable: %v", err)
	}
	if len(decoded) != 0 {
		t.Errorf("got %d fields, want 0", len(decoded))
	}
}
