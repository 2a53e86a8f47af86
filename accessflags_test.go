// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "testing"

func TestCheckFlagsRejectsIllegalBits(t *testing.T) {
	// ACC_VOLATILE (0x0040) is not in the class mask.
	if err := checkFlags("class", AccPublic|AccVolatile); err == nil {
		t.Fatal("expected InvalidFlagsError for ACC_VOLATILE on a class")
	}
}

func TestCheckFlagsAcceptsLegalCombination(t *testing.T) {
	if err := checkFlags("class", AccPublic|AccFinal|AccSuper); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCheckFlagsMethodAllowsBridgeAndVarargs(t *testing.T) {
	if err := checkFlags("method", AccPublic|AccBridge|AccVarargs); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAccessFlagsHas(t *testing.T) {
	f := AccPublic | AccFinal
	if !f.Has(AccPublic) {
		t.Error("Has(AccPublic) = false")
	}
	if f.Has(AccStatic) {
		t.Error("Has(AccStatic) = true")
	}
}

func TestClassAccessFlagsString(t *testing.T) {
	f := AccPublic | AccSuper | AccAbstract
	got := f.String()
	want := "PUBLIC|SUPER|ABSTRACT"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFieldAccessFlagsString(t *testing.T) {
	f := FieldAccessFlags(AccPrivate | AccStatic | AccFinal)
	got := f.String()
	want := "PRIVATE|STATIC|FINAL"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestMethodAccessFlagsString(t *testing.T) {
	f := MethodAccessFlags(AccPublic | AccNative | AccAbstract)
	got := f.String()
	want := "PUBLIC|NATIVE|ABSTRACT"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
