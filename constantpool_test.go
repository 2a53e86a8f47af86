// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "testing"

func TestConstantPoolTwoSlotLongReservesNextIndex(t *testing.T) {
	p := NewConstantPool()
	longIdx := p.AddLong(42)
	nextIdx := p.AddInteger(7)
	if nextIdx != longIdx+2 {
		t.Errorf("Integer index = %d, want %d (Long must reserve the slot after it)", nextIdx, longIdx+2)
	}
	if _, err := p.Get(int(longIdx) + 1); err != ErrReservedConstantPoolSlot {
		t.Errorf("Get(reserved slot) = %v, want ErrReservedConstantPoolSlot", err)
	}
}

func TestConstantPoolGetIndexZeroInvalid(t *testing.T) {
	p := NewConstantPool()
	if _, err := p.Get(0); err == nil {
		t.Fatal("expected error for index 0")
	}
}

func TestConstantPoolRoundTrip(t *testing.T) {
	p := NewConstantPool()
	classIdx := p.AddClass("com/example/Widget")
	p.AddMethodref("com/example/Widget", "<init>", "()V")
	p.AddLong(1<<40 + 1)
	p.AddDouble(3.25)
	p.AddString("hello")

	w := newWriter()
	p.encode(w)
	c := newCursor(w.Bytes())
	decoded, err := decodeConstantPool(c, normalizedOptions(nil))
	if err != nil {
		t.Fatalf("decodeConstantPool: %v", err)
	}
	if decoded.Count() != p.Count() {
		t.Fatalf("Count() = %d, want %d", decoded.Count(), p.Count())
	}
	name, err := decoded.GetClassName(int(classIdx))
	if err != nil {
		t.Fatalf("GetClassName: %v", err)
	}
	if name != "com/example/Widget" {
		t.Errorf("GetClassName = %q", name)
	}
}

func TestConstantPoolValidateDanglingReference(t *testing.T) {
	p := NewConstantPool()
	p.add(&ClassConstant{NameIndex: 99}) // points nowhere
	errs := p.validate("")
	if len(errs) == 0 {
		t.Fatal("expected at least one validation error for a dangling reference")
	}
}

func TestConstantPoolValidateWrongKind(t *testing.T) {
	p := NewConstantPool()
	intIdx := p.AddInteger(1)
	p.add(&ClassConstant{NameIndex: intIdx}) // Class must point at a Utf8, not an Integer
	errs := p.validate("")
	if len(errs) == 0 {
		t.Fatal("expected a WrongKindError for a Class pointing at an Integer")
	}
}

func TestConstantPoolLookupOrAddUtf8Interns(t *testing.T) {
	p := NewConstantPool()
	a := p.lookupOrAddUtf8("Code")
	b := p.lookupOrAddUtf8("Code")
	if a != b {
		t.Errorf("lookupOrAddUtf8 minted a duplicate: %d != %d", a, b)
	}
	if p.Count() != 2 {
		t.Errorf("Count() = %d, want 2 (one Utf8 entry plus the sentinel)", p.Count())
	}
}

func TestDecodeConstantInvalidTag(t *testing.T) {
	c := newCursor([]byte{0xFF})
	if _, err := decodeConstant(c); err == nil {
		t.Fatal("expected InvalidTagError for an undefined constant tag")
	}
}

func TestDecodeConstantPoolZeroCountRejected(t *testing.T) {
	c := newCursor([]byte{0x00, 0x00})
	if _, err := decodeConstantPool(c, normalizedOptions(nil)); err != ErrZeroConstantPoolCount {
		t.Errorf("got %v, want ErrZeroConstantPoolCount", err)
	}
}
