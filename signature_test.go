// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "testing"

func TestParseClassSignatureSimple(t *testing.T) {
	cs, err := ParseClassSignature("Ljava/lang/Object;")
	if err != nil {
		t.Fatalf("ParseClassSignature: %v", err)
	}
	if cs.SuperClass.PackageName != "java/lang" || cs.SuperClass.SimpleName != "Object" {
		t.Errorf("got package=%q simple=%q", cs.SuperClass.PackageName, cs.SuperClass.SimpleName)
	}
}

func TestParseClassSignatureGenericWithBoundsAndInterfaces(t *testing.T) {
	s := "<T:Ljava/lang/Object;>Ljava/util/ArrayList<TT;>;Ljava/util/List<TT;>;"
	cs, err := ParseClassSignature(s)
	if err != nil {
		t.Fatalf("ParseClassSignature(%q): %v", s, err)
	}
	if len(cs.TypeParameters) != 1 || cs.TypeParameters[0].Name != "T" {
		t.Fatalf("type parameters = %+v", cs.TypeParameters)
	}
	if !cs.TypeParameters[0].HasClassBound {
		t.Error("expected class bound on T")
	}
	if cs.SuperClass.SimpleName != "ArrayList" {
		t.Errorf("super = %q", cs.SuperClass.SimpleName)
	}
	if len(cs.SuperInterfaces) != 1 || cs.SuperInterfaces[0].SimpleName != "List" {
		t.Errorf("interfaces = %+v", cs.SuperInterfaces)
	}
}

func TestParseMethodSignatureWithThrows(t *testing.T) {
	s := "<T:Ljava/lang/Exception;>(ITT;)Ljava/lang/String;^TT;^Ljava/io/IOException;"
	ms, err := ParseMethodSignature(s)
	if err != nil {
		t.Fatalf("ParseMethodSignature(%q): %v", s, err)
	}
	if len(ms.Params) != 2 {
		t.Fatalf("params = %+v", ms.Params)
	}
	if ms.Return.ClassType == nil || ms.Return.ClassType.SimpleName != "String" {
		t.Errorf("return = %+v", ms.Return)
	}
	if len(ms.Throws) != 2 {
		t.Fatalf("throws = %+v", ms.Throws)
	}
}

func TestParseFieldSignatureArrayOfTypeVariable(t *testing.T) {
	fs, err := ParseFieldSignature("[TT;")
	if err != nil {
		t.Fatalf("ParseFieldSignature: %v", err)
	}
	if fs.Type.ArrayOf == nil || fs.Type.ArrayOf.TypeVar != "T" {
		t.Errorf("got %+v", fs.Type)
	}
}

func TestParseFieldSignatureWildcardTypeArguments(t *testing.T) {
	fs, err := ParseFieldSignature("Ljava/util/List<+Ljava/lang/Number;>;")
	if err != nil {
		t.Fatalf("ParseFieldSignature: %v", err)
	}
	args := fs.Type.ClassType.TypeArguments
	if len(args) != 1 || args[0].Wildcard != '+' {
		t.Errorf("got %+v", args)
	}
}

func TestParseSignatureInvalid(t *testing.T) {
	tests := []string{"", "L", "Ljava/lang/Object", "<T:Ljava/lang/Object;", "Ljava/lang/Object;trailing"}
	for _, s := range tests {
		if _, err := ParseClassSignature(s); err == nil {
			t.Errorf("ParseClassSignature(%q): expected error", s)
		}
	}
}
