// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "strings"

// AccessFlags is a bitmask of ACC_* flags. The JVM specification defines
// several disjoint flag spaces (class, field, method, nested-class, module,
// and the module-table-entry spaces); each gets its own named mask and
// stringify table below, mirroring the teacher's ImageScn* characteristics
// bitset plus its String()-via-lookup-table idiom (section.go).
type AccessFlags uint16

const (
	AccPublic       AccessFlags = 0x0001
	AccPrivate      AccessFlags = 0x0002
	AccProtected    AccessFlags = 0x0004
	AccStatic       AccessFlags = 0x0008
	AccFinal        AccessFlags = 0x0010
	AccSuper        AccessFlags = 0x0020 // class only; same bit as ACC_SYNCHRONIZED on methods
	AccSynchronized AccessFlags = 0x0020 // method only
	AccOpen         AccessFlags = 0x0020 // module only
	AccVolatile     AccessFlags = 0x0040 // field only
	AccBridge       AccessFlags = 0x0040 // method only
	AccTransitive   AccessFlags = 0x0020 // requires only
	AccStaticPhase  AccessFlags = 0x0040 // requires only
	AccVarargs      AccessFlags = 0x0080 // method only
	AccTransient    AccessFlags = 0x0080 // field only
	AccNative       AccessFlags = 0x0100
	AccInterface    AccessFlags = 0x0200
	AccAbstract     AccessFlags = 0x0400
	AccStrict       AccessFlags = 0x0800
	AccSynthetic    AccessFlags = 0x1000
	AccAnnotation   AccessFlags = 0x2000
	AccEnum         AccessFlags = 0x4000
	AccModule       AccessFlags = 0x8000
	AccMandated     AccessFlags = 0x8000 // requires/exports/opens only
)

const (
	classMask          = AccPublic | AccFinal | AccSuper | AccInterface | AccAbstract | AccSynthetic | AccAnnotation | AccEnum | AccModule
	fieldMask          = AccPublic | AccPrivate | AccProtected | AccStatic | AccFinal | AccVolatile | AccTransient | AccSynthetic | AccEnum
	methodMask         = AccPublic | AccPrivate | AccProtected | AccStatic | AccFinal | AccSynchronized | AccBridge | AccVarargs | AccNative | AccAbstract | AccStrict | AccSynthetic
	nestedClassMask    = classMask | AccPrivate | AccProtected | AccStatic
	moduleMask         = AccOpen | AccSynthetic | AccMandated
	requiresMask       = AccTransitive | AccStaticPhase | AccSynthetic | AccMandated
	exportsOpensMask   = AccSynthetic | AccMandated
)

// Has reports whether every bit set in mask is also set in f.
func (f AccessFlags) Has(mask AccessFlags) bool { return f&mask == mask }

// legalMask returns the allowed bit mask for kind, per spec.md §3
// ("AccessFlags (five disjoint bit-sets)").
func legalMask(kind string) AccessFlags {
	switch kind {
	case "class":
		return classMask
	case "field":
		return fieldMask
	case "method":
		return methodMask
	case "nested_class":
		return nestedClassMask
	case "module":
		return moduleMask
	case "requires":
		return requiresMask
	case "exports", "opens":
		return exportsOpensMask
	default:
		return 0
	}
}

// checkFlags returns an InvalidFlagsError if f has any bit set outside
// legalMask(kind).
func checkFlags(kind string, f AccessFlags) error {
	mask := legalMask(kind)
	if f&^mask != 0 {
		return &InvalidFlagsError{Kind: kind, Bits: uint16(f), Mask: uint16(mask)}
	}
	return nil
}

var classFlagNames = []struct {
	bit  AccessFlags
	name string
}{
	{AccPublic, "PUBLIC"}, {AccFinal, "FINAL"}, {AccSuper, "SUPER"},
	{AccInterface, "INTERFACE"}, {AccAbstract, "ABSTRACT"}, {AccSynthetic, "SYNTHETIC"},
	{AccAnnotation, "ANNOTATION"}, {AccEnum, "ENUM"}, {AccModule, "MODULE"},
}

// String renders the PUBLIC|FINAL|... form class flags are usually displayed
// in, e.g. by a class dumper. The exact name table depends on which flag
// space f belongs to; this covers the class space, the most commonly
// inspected one. Field- and method-space flags share most bit names but
// reassign 0x0020/0x0040/0x0080; format those with FieldAccessFlags.String
// or MethodAccessFlags.String instead.
func (f AccessFlags) String() string {
	var names []string
	for _, e := range classFlagNames {
		if f.Has(e.bit) {
			names = append(names, e.name)
		}
	}
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, "|")
}

// FieldAccessFlags and MethodAccessFlags are thin wrappers so callers get a
// correctly-named String() for those flag spaces without confusing them
// with the class space's reuse of the same bits.
type FieldAccessFlags AccessFlags
type MethodAccessFlags AccessFlags

func (f FieldAccessFlags) String() string {
	names := []string{}
	add := func(bit AccessFlags, name string) {
		if AccessFlags(f).Has(bit) {
			names = append(names, name)
		}
	}
	add(AccPublic, "PUBLIC")
	add(AccPrivate, "PRIVATE")
	add(AccProtected, "PROTECTED")
	add(AccStatic, "STATIC")
	add(AccFinal, "FINAL")
	add(AccVolatile, "VOLATILE")
	add(AccTransient, "TRANSIENT")
	add(AccSynthetic, "SYNTHETIC")
	add(AccEnum, "ENUM")
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, "|")
}

func (f MethodAccessFlags) String() string {
	names := []string{}
	add := func(bit AccessFlags, name string) {
		if AccessFlags(f).Has(bit) {
			names = append(names, name)
		}
	}
	add(AccPublic, "PUBLIC")
	add(AccPrivate, "PRIVATE")
	add(AccProtected, "PROTECTED")
	add(AccStatic, "STATIC")
	add(AccFinal, "FINAL")
	add(AccSynchronized, "SYNCHRONIZED")
	add(AccBridge, "BRIDGE")
	add(AccVarargs, "VARARGS")
	add(AccNative, "NATIVE")
	add(AccAbstract, "ABSTRACT")
	add(AccStrict, "STRICT")
	add(AccSynthetic, "SYNTHETIC")
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, "|")
}
