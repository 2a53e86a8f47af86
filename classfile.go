// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "github.com/go-kratos/kratos/v2/log"

// Magic is the four-byte signature every class file begins with
// (JVMS §4.1).
const Magic uint32 = 0xCAFEBABE

// ClassFile is the decoded form of a .class file, laid out field-for-field
// in wire order (JVMS §4.1). This is the top-level orchestration the
// teacher's pe.File.Parse plays for a PE image: one method walking a fixed
// header shape and handing off to the format's variable-length tables.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16

	ConstantPool *ConstantPool

	AccessFlags AccessFlags
	ThisClass   uint16
	SuperClass  uint16 // 0 only for java/lang/Object

	Interfaces []uint16

	Fields  []*Field
	Methods []*Method

	Attributes []Attribute

	path   string
	helper *log.Helper
}

func (cf *ClassFile) attributeLocation() string { return "class" }

// ThisClassName resolves ThisClass against the constant pool.
func (cf *ClassFile) ThisClassName() (string, error) {
	return cf.ConstantPool.GetClassName(int(cf.ThisClass))
}

// SuperClassName resolves SuperClass, returning "" with no error when this
// class is java/lang/Object (SuperClass == 0).
func (cf *ClassFile) SuperClassName() (string, error) {
	if cf.SuperClass == 0 {
		return "", nil
	}
	return cf.ConstantPool.GetClassName(int(cf.SuperClass))
}

// Decode parses data as a complete class file under opts (nil selects the
// defaults from normalizedOptions).
func Decode(data []byte, opts *DecodeOptions) (*ClassFile, error) {
	return decodeClassFile("", data, opts)
}

func decodeClassFile(path string, data []byte, opts *DecodeOptions) (*ClassFile, error) {
	opts = normalizedOptions(opts)
	helper := newHelper(opts.Logger)

	c := newCursor(data)
	magic, err := c.u32()
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, ErrBadMagic
	}
	minor, err := c.u16()
	if err != nil {
		return nil, err
	}
	major, err := c.u16()
	if err != nil {
		return nil, err
	}

	pool, err := decodeConstantPool(c, opts)
	if err != nil {
		return nil, err
	}

	accessFlags, err := c.u16()
	if err != nil {
		return nil, err
	}
	thisClass, err := c.u16()
	if err != nil {
		return nil, err
	}
	superClass, err := c.u16()
	if err != nil {
		return nil, err
	}

	ifaceCount, err := c.u16()
	if err != nil {
		return nil, err
	}
	interfaces := make([]uint16, ifaceCount)
	for i := range interfaces {
		if interfaces[i], err = c.u16(); err != nil {
			return nil, err
		}
	}

	fields, err := decodeFieldTable(c, pool, opts)
	if err != nil {
		return nil, err
	}
	methods, err := decodeMethodTable(c, pool, opts)
	if err != nil {
		return nil, err
	}
	attrs, err := decodeAttributeTable(c, pool, "class", opts)
	if err != nil {
		return nil, err
	}

	if c.Remaining() != 0 {
		helper.Warnw("msg", "trailing bytes after class file", "path", path, "remaining", c.Remaining())
	}

	return &ClassFile{
		MinorVersion: minor,
		MajorVersion: major,
		ConstantPool: pool,
		AccessFlags:  AccessFlags(accessFlags),
		ThisClass:    thisClass,
		SuperClass:   superClass,
		Interfaces:   interfaces,
		Fields:       fields,
		Methods:      methods,
		Attributes:   attrs,
		path:         path,
		helper:       helper,
	}, nil
}

// Encode serializes cf back to its wire form.
func (cf *ClassFile) Encode() []byte {
	// Everything after the constant pool is encoded first: attribute tables
	// intern their names into the pool as they are written, so the pool is
	// serialized only once those names are in it.
	tail := newWriter()
	tail.u16(uint16(cf.AccessFlags))
	tail.u16(cf.ThisClass)
	tail.u16(cf.SuperClass)
	tail.u16(uint16(len(cf.Interfaces)))
	for _, i := range cf.Interfaces {
		tail.u16(i)
	}
	encodeFieldTable(tail, cf.ConstantPool, cf.Fields)
	encodeMethodTable(tail, cf.ConstantPool, cf.Methods)
	encodeAttributeTable(tail, cf.ConstantPool, cf.Attributes)

	w := newWriter()
	w.u32(Magic)
	w.u16(cf.MinorVersion)
	w.u16(cf.MajorVersion)
	cf.ConstantPool.encode(w)
	w.raw(tail.Bytes())
	return w.Bytes()
}

// Verify runs the full structural verification pass (spec.md §4.5) and
// returns every diagnostic found; an empty (nil) result means the class
// file is structurally well-formed. A nil ClassFile panics, matching the
// teacher's File.Parse pattern of requiring a fully decoded structure
// before any dependent analysis runs.
func (cf *ClassFile) Verify() []*VerifyError {
	return verifyClassFile(cf.path, cf)
}
