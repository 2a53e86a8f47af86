// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "testing"

func TestVerifyRejectsUnsupportedMajorVersion(t *testing.T) {
	cf := minimalClassFile()
	cf.MajorVersion = 200
	errs := verifyClassFile("", cf)
	if len(errs) == 0 {
		t.Fatal("expected an UnsupportedVersionError for major version 200")
	}
}

func TestVerifyRejectsInterfaceWithoutAbstract(t *testing.T) {
	cf := minimalClassFile()
	cf.AccessFlags = AccInterface | AccAbstract &^ AccAbstract // ACC_INTERFACE, no ACC_ABSTRACT
	errs := verifyClassFile("", cf)
	found := false
	for _, e := range errs {
		if e.Err.Error() == "ACC_INTERFACE requires ACC_ABSTRACT" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected ACC_INTERFACE/ACC_ABSTRACT error, got %v", errs)
	}
}

func TestVerifyRejectsFinalAndAbstractTogether(t *testing.T) {
	cf := minimalClassFile()
	cf.AccessFlags = AccPublic | AccFinal | AccAbstract
	errs := verifyClassFile("", cf)
	found := false
	for _, e := range errs {
		if e.Err.Error() == "ACC_FINAL and ACC_ABSTRACT are mutually exclusive" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected ACC_FINAL/ACC_ABSTRACT conflict error, got %v", errs)
	}
}

func TestVerifyRejectsAnnotationWithoutInterface(t *testing.T) {
	cf := minimalClassFile()
	cf.AccessFlags = AccPublic | AccAnnotation | AccAbstract
	errs := verifyClassFile("", cf)
	found := false
	for _, e := range errs {
		if e.Err.Error() == "ACC_ANNOTATION requires ACC_INTERFACE" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected ACC_ANNOTATION/ACC_INTERFACE error, got %v", errs)
	}
}

func TestVerifyRequiresCodeAttributeOnConcreteMethod(t *testing.T) {
	cf := minimalClassFile()
	cf.Methods = []*Method{
		{
			AccessFlags:     MethodAccessFlags(AccPublic),
			NameIndex:       cf.ConstantPool.AddUtf8("doStuff"),
			DescriptorIndex: cf.ConstantPool.AddUtf8("()V"),
		},
	}
	errs := verifyClassFile("", cf)
	if len(errs) == 0 {
		t.Fatal("expected an error for a concrete method missing its Code attribute")
	}
}

func TestVerifyAllowsAbstractMethodWithoutCode(t *testing.T) {
	cf := minimalClassFile()
	cf.AccessFlags = AccPublic | AccInterface | AccAbstract
	cf.Methods = []*Method{
		{
			AccessFlags:     MethodAccessFlags(AccPublic | AccAbstract),
			NameIndex:       cf.ConstantPool.AddUtf8("doStuff"),
			DescriptorIndex: cf.ConstantPool.AddUtf8("()V"),
		},
	}
	errs := verifyClassFile("", cf)
	for _, e := range errs {
		if e.Err.Error() == "method missing required Code attribute" {
			t.Errorf("unexpected missing-Code error for an abstract method: %v", e)
		}
	}
}

func TestVerifyMethodCodeRejectsBranchOutsideBoundaries(t *testing.T) {
	cf := minimalClassFile()
	code := &CodeAttribute{
		MaxStack:   1,
		MaxLocals:  1,
		CodeLength: 3,
		Instructions: []*Instruction{
			{Offset: 0, Opcode: 167, Mnemonic: "goto", BranchTarget: 99}, // nowhere
		},
	}
	cf.Methods = []*Method{
		{
			AccessFlags:     MethodAccessFlags(AccPublic),
			NameIndex:       cf.ConstantPool.AddUtf8("loop"),
			DescriptorIndex: cf.ConstantPool.AddUtf8("()V"),
			Attributes:      []Attribute{code},
		},
	}
	errs := verifyClassFile("", cf)
	found := false
	for _, e := range errs {
		if _, ok := e.Err.(*InvalidBranchTargetError); ok {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an InvalidBranchTargetError, got %v", errs)
	}
}

func TestVerifyStackMapTableRejectsOffsetOutsideCode(t *testing.T) {
	cf := minimalClassFile()
	code := &CodeAttribute{
		MaxStack:   1,
		MaxLocals:  1,
		CodeLength: 2,
		Instructions: []*Instruction{
			{Offset: 0, Opcode: 0, Mnemonic: "nop"},
			{Offset: 1, Opcode: 177, Mnemonic: "return"},
		},
		Attributes: []Attribute{
			&StackMapTableAttribute{Entries: []*StackMapFrame{
				{Kind: FrameSameExtended, OffsetDelta: 500}, // out of range
			}},
		},
	}
	cf.MajorVersion = 61
	cf.Methods = []*Method{
		{
			AccessFlags:     MethodAccessFlags(AccPublic),
			NameIndex:       cf.ConstantPool.AddUtf8("m"),
			DescriptorIndex: cf.ConstantPool.AddUtf8("()V"),
			Attributes:      []Attribute{code},
		},
	}
	errs := verifyClassFile("", cf)
	found := false
	for _, e := range errs {
		if _, ok := e.Err.(*StackMapInconsistentError); ok {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a StackMapInconsistentError, got %v", errs)
	}
}

func TestVerifyRejectsNonAscendingLookupSwitchKeys(t *testing.T) {
	cf := minimalClassFile()
	code := &CodeAttribute{
		MaxStack:   1,
		MaxLocals:  1,
		CodeLength: 10,
		Instructions: []*Instruction{
			{Offset: 0, Opcode: 171, Mnemonic: "lookupswitch", DefaultTarget: 9,
				LookupPairs: []SwitchPair{{Match: 5, Offset: 1}, {Match: 1, Offset: 2}}},
			{Offset: 1, Opcode: 0, Mnemonic: "nop"},
			{Offset: 2, Opcode: 0, Mnemonic: "nop"},
			{Offset: 9, Opcode: 177, Mnemonic: "return"},
		},
	}
	cf.Methods = []*Method{
		{
			AccessFlags:     MethodAccessFlags(AccPublic),
			NameIndex:       cf.ConstantPool.AddUtf8("m"),
			DescriptorIndex: cf.ConstantPool.AddUtf8("()V"),
			Attributes:      []Attribute{code},
		},
	}
	errs := verifyClassFile("", cf)
	found := false
	for _, e := range errs {
		if ise, ok := e.Err.(*InvalidSwitchTableError); ok && ise.Reason == "lookupswitch match table not strictly ascending" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an InvalidSwitchTableError for non-ascending keys, got %v", errs)
	}
}

func TestVerifyAllowsAscendingLookupSwitchKeys(t *testing.T) {
	cf := minimalClassFile()
	code := &CodeAttribute{
		MaxStack:   1,
		MaxLocals:  1,
		CodeLength: 10,
		Instructions: []*Instruction{
			{Offset: 0, Opcode: 171, Mnemonic: "lookupswitch", DefaultTarget: 9,
				LookupPairs: []SwitchPair{{Match: 1, Offset: 1}, {Match: 5, Offset: 2}}},
			{Offset: 1, Opcode: 0, Mnemonic: "nop"},
			{Offset: 2, Opcode: 0, Mnemonic: "nop"},
			{Offset: 9, Opcode: 177, Mnemonic: "return"},
		},
	}
	cf.Methods = []*Method{
		{
			AccessFlags:     MethodAccessFlags(AccPublic),
			NameIndex:       cf.ConstantPool.AddUtf8("m"),
			DescriptorIndex: cf.ConstantPool.AddUtf8("()V"),
			Attributes:      []Attribute{code},
		},
	}
	errs := verifyClassFile("", cf)
	for _, e := range errs {
		if ise, ok := e.Err.(*InvalidSwitchTableError); ok {
			t.Errorf("unexpected InvalidSwitchTableError: %v", ise)
		}
	}
}

func TestVerifyRejectsJsrAtVersion51OrLater(t *testing.T) {
	cf := minimalClassFile()
	cf.MajorVersion = 51
	code := &CodeAttribute{
		MaxStack:   1,
		MaxLocals:  1,
		CodeLength: 4,
		Instructions: []*Instruction{
			{Offset: 0, Opcode: 168, Mnemonic: "jsr", BranchTarget: 3},
			{Offset: 3, Opcode: 177, Mnemonic: "return"},
		},
	}
	cf.Methods = []*Method{
		{
			AccessFlags:     MethodAccessFlags(AccPublic),
			NameIndex:       cf.ConstantPool.AddUtf8("m"),
			DescriptorIndex: cf.ConstantPool.AddUtf8("()V"),
			Attributes:      []Attribute{code},
		},
	}
	errs := verifyClassFile("", cf)
	found := false
	for _, e := range errs {
		if e.Err.Error() == "jsr is not permitted in class files with major version >= 51" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a jsr-version error, got %v", errs)
	}
}

func TestVerifyAllowsJsrBeforeVersion51(t *testing.T) {
	cf := minimalClassFile()
	cf.MajorVersion = 50
	code := &CodeAttribute{
		MaxStack:   1,
		MaxLocals:  1,
		CodeLength: 4,
		Instructions: []*Instruction{
			{Offset: 0, Opcode: 168, Mnemonic: "jsr", BranchTarget: 3},
			{Offset: 3, Opcode: 177, Mnemonic: "return"},
		},
	}
	cf.Methods = []*Method{
		{
			AccessFlags:     MethodAccessFlags(AccPublic),
			NameIndex:       cf.ConstantPool.AddUtf8("m"),
			DescriptorIndex: cf.ConstantPool.AddUtf8("()V"),
			Attributes:      []Attribute{code},
		},
	}
	errs := verifyClassFile("", cf)
	for _, e := range errs {
		if e.Err.Error() == "jsr is not permitted in class files with major version >= 51" {
			t.Errorf("unexpected jsr-version error at major version 50: %v", e)
		}
	}
}

func TestVerifyRequiresCodeOnConcreteInterfaceMethod(t *testing.T) {
	cf := minimalClassFile()
	cf.AccessFlags = AccPublic | AccInterface | AccAbstract
	cf.Methods = []*Method{
		{
			// a concrete (non-abstract, non-static) interface method, i.e. a
			// default method -- must still carry Code.
			AccessFlags:     MethodAccessFlags(AccPublic),
			NameIndex:       cf.ConstantPool.AddUtf8("defaultMethod"),
			DescriptorIndex: cf.ConstantPool.AddUtf8("()V"),
		},
	}
	errs := verifyClassFile("", cf)
	if len(errs) == 0 {
		t.Fatal("expected an error for a concrete interface method missing its Code attribute")
	}
}

func TestCheckMethodHandleTargetRejectsWrongVariant(t *testing.T) {
	cf := minimalClassFile()
	fieldRef := cf.ConstantPool.AddFieldref("Foo", "x", "I")
	// REF_invokeVirtual must target a Methodref, not a Fieldref.
	cf.ConstantPool.AddMethodHandle(RefInvokeVirtual, fieldRef)
	errs := verifyClassFile("", cf)
	found := false
	for _, e := range errs {
		if wke, ok := e.Err.(*WrongKindError); ok && wke.Expected == "Methodref" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a WrongKindError for a REF_invokeVirtual handle targeting a Fieldref, got %v", errs)
	}
}

func TestCheckMethodHandleTargetAllowsInterfaceMethodrefAtVersion52(t *testing.T) {
	cf := minimalClassFile()
	cf.MajorVersion = 52
	ifaceMethodRef := cf.ConstantPool.AddInterfaceMethodref("Foo", "m", "()V")
	cf.ConstantPool.AddMethodHandle(RefInvokeStatic, ifaceMethodRef)
	errs := verifyClassFile("", cf)
	for _, e := range errs {
		if _, ok := e.Err.(*WrongKindError); ok {
			t.Errorf("unexpected WrongKindError at version 52: %v", e)
		}
	}
}

func TestCheckMethodHandleTargetRejectsInterfaceMethodrefBeforeVersion52(t *testing.T) {
	cf := minimalClassFile()
	cf.MajorVersion = 51
	ifaceMethodRef := cf.ConstantPool.AddInterfaceMethodref("Foo", "m", "()V")
	cf.ConstantPool.AddMethodHandle(RefInvokeStatic, ifaceMethodRef)
	errs := verifyClassFile("", cf)
	found := false
	for _, e := range errs {
		if wke, ok := e.Err.(*WrongKindError); ok && wke.Expected == "Methodref" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a WrongKindError for REF_invokeStatic/InterfaceMethodref before version 52, got %v", errs)
	}
}

func TestCheckMethodHandleTargetRejectsWrongReferenceKindForGetField(t *testing.T) {
	cf := minimalClassFile()
	methodRef := cf.ConstantPool.AddMethodref("Foo", "m", "()V")
	cf.ConstantPool.AddMethodHandle(RefGetField, methodRef)
	errs := verifyClassFile("", cf)
	found := false
	for _, e := range errs {
		if wke, ok := e.Err.(*WrongKindError); ok && wke.Expected == "Fieldref" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a WrongKindError for REF_getField targeting a Methodref, got %v", errs)
	}
}

func TestVerifyRejectsIllegalNestedClassFlags(t *testing.T) {
	cf := minimalClassFile()
	cf.Attributes = []Attribute{
		&InnerClassesAttribute{Classes: []InnerClassEntry{
			{InnerClassInfoIndex: cf.ThisClass, InnerClassAccessFlags: AccPublic | AccVolatile},
		}},
	}
	errs := verifyClassFile("", cf)
	found := false
	for _, e := range errs {
		if ife, ok := e.Err.(*InvalidFlagsError); ok && ife.Kind == "nested_class" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an InvalidFlagsError for nested_class, got %v", errs)
	}
}

func TestVerifyRejectsIllegalModuleRequiresFlags(t *testing.T) {
	cf := minimalClassFile()
	cf.Attributes = []Attribute{
		&ModuleAttribute{
			ModuleNameIndex: cf.ConstantPool.AddModule("m"),
			Requires: []ModuleRequiresEntry{
				{RequiresIndex: cf.ConstantPool.AddModule("java.base"), RequiresFlags: AccPublic},
			},
		},
	}
	errs := verifyClassFile("", cf)
	found := false
	for _, e := range errs {
		if ife, ok := e.Err.(*InvalidFlagsError); ok && ife.Kind == "requires" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an InvalidFlagsError for requires, got %v", errs)
	}
}

func TestVerifyAllowsLegalModuleFlags(t *testing.T) {
	cf := minimalClassFile()
	cf.Attributes = []Attribute{
		&ModuleAttribute{
			ModuleNameIndex: cf.ConstantPool.AddModule("m"),
			ModuleFlags:     AccOpen,
			Requires: []ModuleRequiresEntry{
				{RequiresIndex: cf.ConstantPool.AddModule("java.base"), RequiresFlags: AccTransitive},
			},
			Exports: []ModuleExportsEntry{
				{ExportsIndex: cf.ConstantPool.AddPackage("com/example"), ExportsFlags: AccMandated},
			},
			Opens: []ModuleOpensEntry{
				{OpensIndex: cf.ConstantPool.AddPackage("com/example/internal"), OpensFlags: AccSynthetic},
			},
		},
	}
	errs := verifyClassFile("", cf)
	for _, e := range errs {
		if ife, ok := e.Err.(*InvalidFlagsError); ok {
			t.Errorf("unexpected InvalidFlagsError: %v", ife)
		}
	}
}

func TestVerifyStackMapTableBeforeVersion50Rejected(t *testing.T) {
	cf := minimalClassFile()
	cf.MajorVersion = 49
	code := &CodeAttribute{
		MaxStack:   1,
		MaxLocals:  1,
		CodeLength: 1,
		Instructions: []*Instruction{
			{Offset: 0, Opcode: 177, Mnemonic: "return"},
		},
		Attributes: []Attribute{
			&StackMapTableAttribute{Entries: []*StackMapFrame{{Kind: FrameSame, OffsetDelta: 0}}},
		},
	}
	cf.Methods = []*Method{
		{
			AccessFlags:     MethodAccessFlags(AccPublic),
			NameIndex:       cf.ConstantPool.AddUtf8("m"),
			DescriptorIndex: cf.ConstantPool.AddUtf8("()V"),
			Attributes:      []Attribute{code},
		},
	}
	errs := verifyClassFile("", cf)
	found := false
	for _, e := range errs {
		if _, ok := e.Err.(*UnsupportedVersionError); ok {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an UnsupportedVersionError for StackMapTable before 50.0, got %v", errs)
	}
}
