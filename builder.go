// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// ClassFileBuilder assembles a ClassFile field by field, mirroring the
// teacher's pe.Options zero-value-then-backfill construction style but for
// the encode side: each Add/Set method mutates the builder in place and
// returns it, so a caller chains calls the way pe.New chains option
// application. Interning of Utf8 constants for names and descriptors is
// handled by ConstantPool.lookupOrAddUtf8, so calling AddField twice with
// the same descriptor string does not grow the pool.
type ClassFileBuilder struct {
	cf *ClassFile
}

// NewClassFileBuilder starts a builder for a class named name (internal
// form, e.g. "com/example/Widget") extending super (internal form; ""
// leaves super_class 0, the form only java/lang/Object itself uses).
// minor/major set the target class-file version.
func NewClassFileBuilder(major, minor uint16, name string, flags AccessFlags, super string) *ClassFileBuilder {
	pool := NewConstantPool()
	thisClass := pool.AddClass(name)
	var superClass uint16
	if super != "" {
		superClass = pool.AddClass(super)
	}
	return &ClassFileBuilder{cf: &ClassFile{
		MinorVersion: minor,
		MajorVersion: major,
		ConstantPool: pool,
		AccessFlags:  flags,
		ThisClass:    thisClass,
		SuperClass:   superClass,
	}}
}

// Pool exposes the builder's constant pool so a caller can pre-intern
// constants shared across several attributes before attaching them.
func (b *ClassFileBuilder) Pool() *ConstantPool { return b.cf.ConstantPool }

// AddInterface appends an implemented interface, named in internal form.
func (b *ClassFileBuilder) AddInterface(name string) *ClassFileBuilder {
	b.cf.Interfaces = append(b.cf.Interfaces, b.cf.ConstantPool.AddClass(name))
	return b
}

// AddField appends a field with the given access flags, name, and
// descriptor, plus any attributes (e.g. a ConstantValueAttribute).
func (b *ClassFileBuilder) AddField(flags FieldAccessFlags, name, descriptor string, attrs ...Attribute) *ClassFileBuilder {
	b.cf.Fields = append(b.cf.Fields, &Field{
		AccessFlags:     flags,
		NameIndex:       b.cf.ConstantPool.lookupOrAddUtf8(name),
		DescriptorIndex: b.cf.ConstantPool.lookupOrAddUtf8(descriptor),
		Attributes:      attrs,
	})
	return b
}

// AddMethod appends a method with the given access flags, name, and
// descriptor, plus any attributes (typically a single CodeAttribute for a
// concrete method, none for an abstract or native one).
func (b *ClassFileBuilder) AddMethod(flags MethodAccessFlags, name, descriptor string, attrs ...Attribute) *ClassFileBuilder {
	b.cf.Methods = append(b.cf.Methods, &Method{
		AccessFlags:     flags,
		NameIndex:       b.cf.ConstantPool.lookupOrAddUtf8(name),
		DescriptorIndex: b.cf.ConstantPool.lookupOrAddUtf8(descriptor),
		Attributes:      attrs,
	})
	return b
}

// AddAttribute attaches a class-level attribute (e.g. SourceFile, Module,
// BootstrapMethods).
func (b *ClassFileBuilder) AddAttribute(attr Attribute) *ClassFileBuilder {
	b.cf.Attributes = append(b.cf.Attributes, attr)
	return b
}

// Build returns the assembled ClassFile. The builder remains usable
// afterward; further Add calls continue mutating the same underlying
// ClassFile, matching pe.Options's mutate-in-place style rather than
// snapshotting a copy.
func (b *ClassFileBuilder) Build() *ClassFile {
	return b.cf
}

// CodeBuilder assembles a Code attribute body for a method whose
// bytecode will be appended instruction by instruction.
type CodeBuilder struct {
	code *CodeAttribute
}

// NewCodeBuilder starts a CodeAttribute builder with the given operand/local
// slot limits.
func NewCodeBuilder(maxStack, maxLocals int) *CodeBuilder {
	return &CodeBuilder{code: &CodeAttribute{MaxStack: maxStack, MaxLocals: maxLocals}}
}

// AddInstruction appends a fully formed Instruction. Offset must already be
// set by the caller to its position within the growing code array; Instruction
// does not compute its own offset since that depends on every instruction
// before it.
func (cb *CodeBuilder) AddInstruction(inst *Instruction) *CodeBuilder {
	cb.code.Instructions = append(cb.code.Instructions, inst)
	return cb
}

// AddExceptionHandler appends one exception_table entry.
func (cb *CodeBuilder) AddExceptionHandler(startPC, endPC, handlerPC int, catchType uint16) *CodeBuilder {
	cb.code.ExceptionTable = append(cb.code.ExceptionTable, ExceptionTableEntry{
		StartPC: startPC, EndPC: endPC, HandlerPC: handlerPC, CatchType: catchType,
	})
	return cb
}

// AddAttribute attaches a Code-scoped attribute (LineNumberTable,
// LocalVariableTable, StackMapTable, ...).
func (cb *CodeBuilder) AddAttribute(attr Attribute) *CodeBuilder {
	cb.code.Attributes = append(cb.code.Attributes, attr)
	return cb
}

// Build finalizes the Code attribute. CodeLength is derived from the last
// instruction's offset plus the byte width implied by re-encoding it, since
// encodeBody recomputes the wire form from Instructions directly; CodeLength
// itself is advisory bookkeeping consumed by verifyMethodCode's bounds
// checks rather than by encodeBody.
func (cb *CodeBuilder) Build() *CodeAttribute {
	if n := len(cb.code.Instructions); n > 0 {
		last := cb.code.Instructions[n-1]
		w := newWriter()
		encodeInstruction(w, last)
		cb.code.CodeLength = last.Offset + len(w.Bytes())
	}
	return cb.code
}
