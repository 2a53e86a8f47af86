// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "testing"

func TestModuleAttributeFullRoundTrip(t *testing.T) {
	a := &ModuleAttribute{
		ModuleNameIndex:    1,
		ModuleFlags:        AccOpen,
		ModuleVersionIndex: 2,
		Requires: []ModuleRequiresEntry{
			{RequiresIndex: 3, RequiresFlags: AccTransitive, RequiresVersionIndex: 0},
		},
		Exports: []ModuleExportsEntry{
			{ExportsIndex: 4, ExportsTo: []uint16{5, 6}},
		},
		Opens: []ModuleOpensEntry{
			{OpensIndex: 7, OpensTo: []uint16{8}},
		},
		Uses: []uint16{9, 10},
		Provides: []ModuleProvidesEntry{
			{ProvidesIndex: 11, ProvidesWith: []uint16{12, 13}},
		},
	}
	w := newWriter()
	a.encodeBody(w, nil)

	decoded, err := decodeModuleAttribute("Module", newCursor(w.Bytes()), nil, "class", nil)
	if err != nil {
		t.Fatalf("decodeModuleAttribute: %v", err)
	}
	m := decoded.(*ModuleAttribute)

	if m.ModuleNameIndex != 1 || m.ModuleFlags != AccOpen || m.ModuleVersionIndex != 2 {
		t.Errorf("header = %+v", m)
	}
	if len(m.Requires) != 1 || m.Requires[0].RequiresIndex != 3 || m.Requires[0].RequiresFlags != AccTransitive {
		t.Errorf("Requires = %+v", m.Requires)
	}
	if len(m.Exports) != 1 || len(m.Exports[0].ExportsTo) != 2 || m.Exports[0].ExportsTo[1] != 6 {
		t.Errorf("Exports = %+v", m.Exports)
	}
	if len(m.Opens) != 1 || len(m.Opens[0].OpensTo) != 1 || m.Opens[0].OpensTo[0] != 8 {
		t.Errorf("Opens = %+v", m.Opens)
	}
	if len(m.Uses) != 2 || m.Uses[1] != 10 {
		t.Errorf("Uses = %+v", m.Uses)
	}
	if len(m.Provides) != 1 || len(m.Provides[0].ProvidesWith) != 2 || m.Provides[0].ProvidesWith[1] != 13 {
		t.Errorf("Provides = %+v", m.Provides)
	}

	w2 := newWriter()
	m.encodeBody(w2, nil)
	if len(w.Bytes()) != len(w2.Bytes()) {
		t.Errorf("re-encoded length = %d, want %d", len(w2.Bytes()), len(w.Bytes()))
	}
}

func TestModulePackagesAttributeRoundTrip(t *testing.T) {
	a := &ModulePackagesAttribute{Packages: []uint16{1, 2, 3}}
	w := newWriter()
	a.encodeBody(w, nil)
	decoded, err := decodeModulePackagesAttribute("ModulePackages", newCursor(w.Bytes()), nil, "class", nil)
	if err != nil {
		t.Fatalf("decodeModulePackagesAttribute: %v", err)
	}
	mp := decoded.(*ModulePackagesAttribute)
	if len(mp.Packages) != 3 || mp.Packages[2] != 3 {
		t.Errorf("got %+v", mp)
	}
}

func TestModuleMainClassAttributeRoundTrip(t *testing.T) {
	a := &ModuleMainClassAttribute{MainClassIndex: 42}
	w := newWriter()
	a.encodeBody(w, nil)
	decoded, err := decodeModuleMainClassAttribute("ModuleMainClass", newCursor(w.Bytes()), nil, "class", nil)
	if err != nil {
		t.Fatalf("decodeModuleMainClassAttribute: %v", err)
	}
	mc := decoded.(*ModuleMainClassAttribute)
	if mc.MainClassIndex != 42 {
		t.Errorf("MainClassIndex = %d", mc.MainClassIndex)
	}
}
