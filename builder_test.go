// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "testing"

func TestClassFileBuilderEndToEnd(t *testing.T) {
	code := NewCodeBuilder(1, 1).
		AddInstruction(&Instruction{Offset: 0, Opcode: 177, Mnemonic: "return"}).
		Build()

	b := NewClassFileBuilder(61, 0, "com/example/Widget", AccPublic|AccSuper, "java/lang/Object")
	sourceFileIdx := b.Pool().AddUtf8("Widget.java")
	cf := b.
		AddInterface("java/io/Serializable").
		AddField(FieldAccessFlags(AccPrivate), "count", "I").
		AddMethod(MethodAccessFlags(AccPublic), "<init>", "()V", code).
		AddAttribute(&SourceFileAttribute{SourceFileIndex: sourceFileIdx}).
		Build()

	data := cf.Encode()
	decoded, err := Decode(data, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	name, err := decoded.ThisClassName()
	if err != nil {
		t.Fatalf("ThisClassName: %v", err)
	}
	if name != "com/example/Widget" {
		t.Errorf("ThisClassName() = %q", name)
	}
	if len(decoded.Interfaces) != 1 {
		t.Fatalf("Interfaces = %+v", decoded.Interfaces)
	}
	ifaceName, err := decoded.ConstantPool.GetClassName(int(decoded.Interfaces[0]))
	if err != nil || ifaceName != "java/io/Serializable" {
		t.Errorf("interface = %q, err = %v", ifaceName, err)
	}
	if len(decoded.Fields) != 1 {
		t.Fatalf("Fields = %+v", decoded.Fields)
	}
	fieldName, err := decoded.Fields[0].Name(decoded.ConstantPool)
	if err != nil || fieldName != "count" {
		t.Errorf("field name = %q, err = %v", fieldName, err)
	}
	if len(decoded.Methods) != 1 {
		t.Fatalf("Methods = %+v", decoded.Methods)
	}
	m := decoded.Methods[0]
	mname, err := m.Name(decoded.ConstantPool)
	if err != nil || mname != "<init>" {
		t.Errorf("method name = %q, err = %v", mname, err)
	}
	if m.Code() == nil || len(m.Code().Instructions) != 1 {
		t.Errorf("Code() = %+v", m.Code())
	}
}

func TestCodeBuilderComputesCodeLength(t *testing.T) {
	code := NewCodeBuilder(2, 1).
		AddInstruction(&Instruction{Offset: 0, Opcode: 3, Mnemonic: "iconst_0"}). // 1 byte
		AddInstruction(&Instruction{Offset: 1, Opcode: 172, Mnemonic: "ireturn"}). // 1 byte
		Build()
	if code.CodeLength != 2 {
		t.Errorf("CodeLength = %d, want 2", code.CodeLength)
	}
}

func TestCodeBuilderExceptionHandler(t *testing.T) {
	code := NewCodeBuilder(1, 1).
		AddInstruction(&Instruction{Offset: 0, Opcode: 177, Mnemonic: "return"}).
		AddExceptionHandler(0, 1, 1, 5).
		Build()
	if len(code.ExceptionTable) != 1 || code.ExceptionTable[0].CatchType != 5 {
		t.Errorf("ExceptionTable = %+v", code.ExceptionTable)
	}
}
