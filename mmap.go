// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"os"

	"github.com/edsrzf/mmap-go"
)

// Open reads path's contents via mmap and decodes it as a class file,
// mirroring the teacher's pe.New(path, opts) entry point (file.go): a
// memory-mapped read-only view avoids copying a potentially large .class
// file into the heap before decoding it, the same resource tradeoff the
// teacher makes for multi-megabyte PE images.
func Open(path string, opts *DecodeOptions) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer m.Unmap()

	return decodeClassFile(path, []byte(m), opts)
}

// OpenBytes decodes an in-memory class file, attributing diagnostics to
// path without touching the filesystem (used by tests and by callers that
// already hold the bytes, e.g. from a jar entry).
func OpenBytes(path string, data []byte, opts *DecodeOptions) (*ClassFile, error) {
	return decodeClassFile(path, data, opts)
}
