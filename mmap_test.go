// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenBytesDecodesInMemoryData(t *testing.T) {
	data := minimalClassFile().Encode()
	cf, err := OpenBytes("Foo.class", data, nil)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	name, err := cf.ThisClassName()
	if err != nil {
		t.Fatalf("ThisClassName: %v", err)
	}
	if name != "Foo" {
		t.Errorf("ThisClassName() = %q", name)
	}
}

func TestOpenMmapsAndDecodesAFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Foo.class")
	data := minimalClassFile().Encode()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cf, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	name, err := cf.ThisClassName()
	if err != nil {
		t.Fatalf("ThisClassName: %v", err)
	}
	if name != "Foo" {
		t.Errorf("ThisClassName() = %q", name)
	}
}

func TestOpenMissingFileReturnsError(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.class"), nil); err == nil {
		t.Fatal("expected an error for a nonexistent file")
	}
}
