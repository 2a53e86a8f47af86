// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// Code, and the three line/local-variable debug tables that only ever
// attach to a Code attribute, grounded on exception.go's exception
// directory: a fixed-width {start, end, handler-ish fields} record table,
// generalized here to ExceptionTableEntry's {start_pc, end_pc, handler_pc,
// catch_type}.

// ExceptionTableEntry is one protected region of a Code attribute
// (§4.7.3): bytecode offsets [StartPC, EndPC) are guarded by HandlerPC,
// catching CatchType (0 means catch-all, used for `finally`).
type ExceptionTableEntry struct {
	StartPC   int
	EndPC     int
	HandlerPC int
	CatchType uint16
}

// CodeAttribute (§4.7.3): a method body's bytecode, its operand/local-slot
// budget, its protected regions, and its own nested attribute table
// (StackMapTable, the debug tables, LocalVariableTypeTable, ...).
type CodeAttribute struct {
	MaxStack       int
	MaxLocals      int
	Instructions   []*Instruction
	CodeLength     int
	ExceptionTable []ExceptionTableEntry
	Attributes     []Attribute
}

func (a *CodeAttribute) attributeLocation() string { return "code" }
func (a *CodeAttribute) AttributeName() string     { return "Code" }

// StackMapTable returns the Code attribute's StackMapTable, or nil if it
// has none (legal pre-50.0, and for code a compiler proves needs none).
func (a *CodeAttribute) StackMapTable() *StackMapTableAttribute {
	for _, attr := range a.Attributes {
		if smt, ok := attr.(*StackMapTableAttribute); ok {
			return smt
		}
	}
	return nil
}

// InstructionAt returns the instruction starting exactly at pc, or nil if
// pc does not name an instruction boundary.
func (a *CodeAttribute) InstructionAt(pc int) *Instruction {
	for _, inst := range a.Instructions {
		if inst.Offset == pc {
			return inst
		}
	}
	return nil
}

func (a *CodeAttribute) encodeBody(w *writer, pool *ConstantPool) {
	w.u16(uint16(a.MaxStack))
	w.u16(uint16(a.MaxLocals))

	code := &writer{}
	for _, inst := range a.Instructions {
		encodeInstruction(code, inst)
	}
	w.u32(uint32(len(code.Bytes())))
	w.raw(code.Bytes())

	w.u16(uint16(len(a.ExceptionTable)))
	for _, e := range a.ExceptionTable {
		w.u16(uint16(e.StartPC))
		w.u16(uint16(e.EndPC))
		w.u16(uint16(e.HandlerPC))
		w.u16(e.CatchType)
	}

	encodeAttributeTable(w, pool, a.Attributes)
}

// decodeCodeAttributeDispatch matches attributeDecodeFunc's signature for
// registration in attribute.go's table; "Code" is the only attribute whose
// own body embeds a length-prefixed sub-stream (the bytecode) that is not
// itself an attribute_info, which is why it gets a dedicated entry point
// rather than reusing decodeAttributeTable recursively for that part.
func decodeCodeAttributeDispatch(name string, c *cursor, pool *ConstantPool, loc string, opts *DecodeOptions) (Attribute, error) {
	return decodeCodeAttribute(c, pool, opts)
}

func decodeCodeAttribute(c *cursor, pool *ConstantPool, opts *DecodeOptions) (*CodeAttribute, error) {
	maxStack, err := c.u16()
	if err != nil {
		return nil, err
	}
	maxLocals, err := c.u16()
	if err != nil {
		return nil, err
	}
	codeLength, err := c.u32()
	if err != nil {
		return nil, err
	}
	if codeLength == 0 {
		return nil, &InvalidSwitchTableError{Reason: "Code attribute's code_length must be nonzero", Offset: c.Pos()}
	}
	if opts != nil && opts.MaxCodeArrayLength > 0 && int(codeLength) > opts.MaxCodeArrayLength {
		return nil, &TruncatedError{Offset: c.Pos(), Needed: int(codeLength), Remaining: opts.MaxCodeArrayLength}
	}
	codeCursor, err := c.sub(int(codeLength))
	if err != nil {
		return nil, err
	}
	var instructions []*Instruction
	for codeCursor.Remaining() > 0 {
		inst, err := decodeInstruction(codeCursor, opts)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, inst)
	}

	excCount, err := c.u16()
	if err != nil {
		return nil, err
	}
	if opts != nil && opts.MaxExceptionTableEntries > 0 && int(excCount) > opts.MaxExceptionTableEntries {
		return nil, &TruncatedError{Offset: c.Pos(), Needed: int(excCount), Remaining: opts.MaxExceptionTableEntries}
	}
	excTable := make([]ExceptionTableEntry, excCount)
	for i := range excTable {
		start, err := c.u16()
		if err != nil {
			return nil, err
		}
		end, err := c.u16()
		if err != nil {
			return nil, err
		}
		handler, err := c.u16()
		if err != nil {
			return nil, err
		}
		catchType, err := c.u16()
		if err != nil {
			return nil, err
		}
		if start >= end || int(end) > int(codeLength) || int(handler) >= int(codeLength) {
			return nil, &InvalidSwitchTableError{Reason: "exception table entry out of code bounds", Offset: c.Pos()}
		}
		excTable[i] = ExceptionTableEntry{int(start), int(end), int(handler), catchType}
	}

	attrs, err := decodeAttributeTable(c, pool, "code", opts)
	if err != nil {
		return nil, err
	}

	return &CodeAttribute{
		MaxStack:       int(maxStack),
		MaxLocals:      int(maxLocals),
		Instructions:   instructions,
		CodeLength:     int(codeLength),
		ExceptionTable: excTable,
		Attributes:     attrs,
	}, nil
}

// LineNumberEntry maps a bytecode offset to a source line (§4.7.12).
type LineNumberEntry struct {
	StartPC    int
	LineNumber int
}

// LineNumberTableAttribute (§4.7.12).
type LineNumberTableAttribute struct {
	Entries []LineNumberEntry
}

func (a *LineNumberTableAttribute) AttributeName() string { return "LineNumberTable" }
func (a *LineNumberTableAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.u16(uint16(len(a.Entries)))
	for _, e := range a.Entries {
		w.u16(uint16(e.StartPC))
		w.u16(uint16(e.LineNumber))
	}
}

func decodeLineNumberTableAttribute(_ string, c *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
	count, err := c.u16()
	if err != nil {
		return nil, err
	}
	entries := make([]LineNumberEntry, count)
	for i := range entries {
		start, err := c.u16()
		if err != nil {
			return nil, err
		}
		line, err := c.u16()
		if err != nil {
			return nil, err
		}
		entries[i] = LineNumberEntry{int(start), int(line)}
	}
	return &LineNumberTableAttribute{Entries: entries}, nil
}

// LocalVariableEntry describes one local variable's live range and slot
// (§4.7.13), naming its plain descriptor type.
type LocalVariableEntry struct {
	StartPC         int
	Length          int
	NameIndex       uint16
	DescriptorIndex uint16
	Index           int
}

// LocalVariableTableAttribute (§4.7.13).
type LocalVariableTableAttribute struct {
	Entries []LocalVariableEntry
}

func (a *LocalVariableTableAttribute) AttributeName() string { return "LocalVariableTable" }
func (a *LocalVariableTableAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.u16(uint16(len(a.Entries)))
	for _, e := range a.Entries {
		w.u16(uint16(e.StartPC))
		w.u16(uint16(e.Length))
		w.u16(e.NameIndex)
		w.u16(e.DescriptorIndex)
		w.u16(uint16(e.Index))
	}
}

func decodeLocalVariableTableAttribute(_ string, c *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
	count, err := c.u16()
	if err != nil {
		return nil, err
	}
	entries := make([]LocalVariableEntry, count)
	for i := range entries {
		start, err := c.u16()
		if err != nil {
			return nil, err
		}
		length, err := c.u16()
		if err != nil {
			return nil, err
		}
		name, err := c.u16()
		if err != nil {
			return nil, err
		}
		descriptor, err := c.u16()
		if err != nil {
			return nil, err
		}
		index, err := c.u16()
		if err != nil {
			return nil, err
		}
		entries[i] = LocalVariableEntry{int(start), int(length), name, descriptor, int(index)}
	}
	return &LocalVariableTableAttribute{Entries: entries}, nil
}

// LocalVariableTypeEntry is LocalVariableEntry's generic-aware counterpart:
// SignatureIndex names a Signature-grammar string instead of a plain
// descriptor (§4.7.14).
type LocalVariableTypeEntry struct {
	StartPC        int
	Length         int
	NameIndex      uint16
	SignatureIndex uint16
	Index          int
}

// LocalVariableTypeTableAttribute (§4.7.14).
type LocalVariableTypeTableAttribute struct {
	Entries []LocalVariableTypeEntry
}

func (a *LocalVariableTypeTableAttribute) AttributeName() string { return "LocalVariableTypeTable" }
func (a *LocalVariableTypeTableAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.u16(uint16(len(a.Entries)))
	for _, e := range a.Entries {
		w.u16(uint16(e.StartPC))
		w.u16(uint16(e.Length))
		w.u16(e.NameIndex)
		w.u16(e.SignatureIndex)
		w.u16(uint16(e.Index))
	}
}

func decodeLocalVariableTypeTableAttribute(_ string, c *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
	count, err := c.u16()
	if err != nil {
		return nil, err
	}
	entries := make([]LocalVariableTypeEntry, count)
	for i := range entries {
		start, err := c.u16()
		if err != nil {
			return nil, err
		}
		length, err := c.u16()
		if err != nil {
			return nil, err
		}
		name, err := c.u16()
		if err != nil {
			return nil, err
		}
		sig, err := c.u16()
		if err != nil {
			return nil, err
		}
		index, err := c.u16()
		if err != nil {
			return nil, err
		}
		entries[i] = LocalVariableTypeEntry{int(start), int(length), name, sig, int(index)}
	}
	return &LocalVariableTypeTableAttribute{Entries: entries}, nil
}
