// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// Instruction decode/encode (JVMS §6), grounded on richheader.go's
// offset-dependent nested-record decode: richheader.go decodes a sequence
// of XOR-keyed records whose interpretation depends on their position
// within the header, the same way tableswitch/lookupswitch padding and the
// `wide` prefix depend on an instruction's absolute position within the
// code array.

// SwitchPair is one (match, offset) entry of a lookupswitch table.
type SwitchPair struct {
	Match  int32
	Offset int32
}

// Instruction is a decoded bytecode instruction. Only the operand fields
// relevant to Opcode/Shape are populated; the rest stay at their zero
// value, the same tagged-struct approach used for ElementValue and
// TargetInfo.
type Instruction struct {
	Offset   int // this instruction's address within the code array
	Opcode   uint8
	Mnemonic string
	Wide     bool // true if this instruction was reached via a `wide` prefix

	LocalIndex   int   // ShapeLocalIndexU1, iinc
	Immediate    int32 // bipush/sipush immediate, iinc's signed const
	Atype        uint8 // newarray
	ConstIndex   int   // ShapeConstIndexU1/U2 and the multi-field shapes below
	BranchTarget int   // absolute target = Offset + signed branch operand

	// tableswitch
	DefaultTarget int
	Low, High     int32
	JumpTargets   []int // absolute targets, one per index in [Low, High]

	// lookupswitch
	LookupPairs []SwitchPair // Offset fields here are relative; add the instruction's Offset for the absolute target

	// invokeinterface
	Count int

	// multianewarray
	Dimensions int
}

// decodeInstruction reads one instruction (including any `wide` prefix and
// its prefixed opcode) starting at c's current position, which must equal
// codeStart+Offset for switch-table alignment to come out right.
func decodeInstruction(c *cursor, opts *DecodeOptions) (*Instruction, error) {
	offset := c.Pos()
	opByte, err := c.u8()
	if err != nil {
		return nil, err
	}

	if opcodeTable[opByte].Mnemonic == "wide" {
		return decodeWideInstruction(c, offset, opts)
	}

	desc := opcodeTable[opByte]
	if desc.Mnemonic == "" {
		return nil, &InvalidOpcodeError{Value: opByte, Offset: offset}
	}

	inst := &Instruction{Offset: offset, Opcode: opByte, Mnemonic: desc.Mnemonic}
	if err := decodeOperands(c, inst, desc.Shape, opts); err != nil {
		return nil, err
	}
	return inst, nil
}

func decodeWideInstruction(c *cursor, wideOffset int, opts *DecodeOptions) (*Instruction, error) {
	opByte, err := c.u8()
	if err != nil {
		return nil, err
	}
	if !wideable(opByte) {
		return nil, &MisalignedWideError{Opcode: opByte, Offset: wideOffset}
	}
	desc := opcodeTable[opByte]
	inst := &Instruction{Offset: wideOffset, Opcode: opByte, Mnemonic: desc.Mnemonic, Wide: true}
	if opByte == 132 { // iinc, widened: u2 index + s2 const
		idx, err := c.u16()
		if err != nil {
			return nil, err
		}
		cst, err := c.i16()
		if err != nil {
			return nil, err
		}
		inst.LocalIndex = int(idx)
		inst.Immediate = int32(cst)
		return inst, nil
	}
	// every other wideable opcode: u2 local index (ret included)
	idx, err := c.u16()
	if err != nil {
		return nil, err
	}
	inst.LocalIndex = int(idx)
	return inst, nil
}

func decodeOperands(c *cursor, inst *Instruction, shape OperandShape, opts *DecodeOptions) error {
	switch shape {
	case ShapeNone:
		return nil
	case ShapeLocalIndexU1:
		v, err := c.u8()
		if err != nil {
			return err
		}
		inst.LocalIndex = int(v)
		return nil
	case ShapeImmediateS1:
		v, err := c.i8()
		if err != nil {
			return err
		}
		inst.Immediate = int32(v)
		return nil
	case ShapeImmediateS2:
		v, err := c.i16()
		if err != nil {
			return err
		}
		inst.Immediate = int32(v)
		return nil
	case ShapeAtypeU1:
		v, err := c.u8()
		if err != nil {
			return err
		}
		if !validAtype(v) {
			return &InvalidOpcodeError{Value: v, Offset: c.Pos() - 1}
		}
		inst.Atype = v
		return nil
	case ShapeConstIndexU1:
		v, err := c.u8()
		if err != nil {
			return err
		}
		inst.ConstIndex = int(v)
		return nil
	case ShapeConstIndexU2:
		v, err := c.u16()
		if err != nil {
			return err
		}
		inst.ConstIndex = int(v)
		return nil
	case ShapeBranchS2:
		v, err := c.i16()
		if err != nil {
			return err
		}
		inst.BranchTarget = inst.Offset + int(v)
		if inst.BranchTarget < 0 {
			return &InvalidBranchTargetError{Source: inst.Offset, Target: inst.BranchTarget}
		}
		return nil
	case ShapeBranchS4:
		v, err := c.i32()
		if err != nil {
			return err
		}
		inst.BranchTarget = inst.Offset + int(v)
		if inst.BranchTarget < 0 {
			return &InvalidBranchTargetError{Source: inst.Offset, Target: inst.BranchTarget}
		}
		return nil
	case ShapeIinc:
		idx, err := c.u8()
		if err != nil {
			return err
		}
		cst, err := c.i8()
		if err != nil {
			return err
		}
		inst.LocalIndex = int(idx)
		inst.Immediate = int32(cst)
		return nil
	case ShapeTableSwitch:
		return decodeTableSwitch(c, inst, opts)
	case ShapeLookupSwitch:
		return decodeLookupSwitch(c, inst, opts)
	case ShapeInvokeInterface:
		idx, err := c.u16()
		if err != nil {
			return err
		}
		count, err := c.u8()
		if err != nil {
			return err
		}
		zero, err := c.u8()
		if err != nil {
			return err
		}
		if count == 0 {
			return &InvalidSwitchTableError{Reason: "invokeinterface count must be nonzero", Offset: inst.Offset}
		}
		if zero != 0 && (opts == nil || !opts.Fast) {
			return &InvalidSwitchTableError{Reason: "invokeinterface fourth byte must be zero", Offset: inst.Offset}
		}
		inst.ConstIndex, inst.Count = int(idx), int(count)
		return nil
	case ShapeInvokeDynamic:
		idx, err := c.u16()
		if err != nil {
			return err
		}
		z1, err := c.u8()
		if err != nil {
			return err
		}
		z2, err := c.u8()
		if err != nil {
			return err
		}
		if (z1 != 0 || z2 != 0) && (opts == nil || !opts.Fast) {
			return &InvalidSwitchTableError{Reason: "invokedynamic trailing bytes must be zero", Offset: inst.Offset}
		}
		inst.ConstIndex = int(idx)
		return nil
	case ShapeMultiANewArray:
		idx, err := c.u16()
		if err != nil {
			return err
		}
		dims, err := c.u8()
		if err != nil {
			return err
		}
		if dims == 0 {
			return &InvalidSwitchTableError{Reason: "multianewarray dimensions must be nonzero", Offset: inst.Offset}
		}
		inst.ConstIndex, inst.Dimensions = int(idx), int(dims)
		return nil
	default:
		return &InvalidOpcodeError{Value: inst.Opcode, Offset: inst.Offset}
	}
}

// switchPadding returns the number of zero bytes between a tableswitch or
// lookupswitch opcode at address off and its first 4-byte-aligned operand.
func switchPadding(off int) int {
	return (4 - ((off + 1) % 4)) % 4
}

func skipSwitchPadding(c *cursor, off int, opts *DecodeOptions) error {
	n := switchPadding(off)
	pad, err := c.bytes(n)
	if err != nil {
		return err
	}
	if opts == nil || !opts.Fast {
		for _, b := range pad {
			if b != 0 {
				return &InvalidSwitchTableError{Reason: "non-zero padding byte", Offset: c.Pos() - n}
			}
		}
	}
	return nil
}

func decodeTableSwitch(c *cursor, inst *Instruction, opts *DecodeOptions) error {
	if err := skipSwitchPadding(c, inst.Offset, opts); err != nil {
		return err
	}
	def, err := c.i32()
	if err != nil {
		return err
	}
	low, err := c.i32()
	if err != nil {
		return err
	}
	high, err := c.i32()
	if err != nil {
		return err
	}
	if high < low {
		return &InvalidSwitchTableError{Reason: "tableswitch high < low", Offset: inst.Offset}
	}
	n := int64(high) - int64(low) + 1
	if opts != nil && opts.MaxCodeArrayLength > 0 && n > int64(opts.MaxCodeArrayLength) {
		return &TruncatedError{Offset: c.Pos(), Needed: int(n), Remaining: opts.MaxCodeArrayLength}
	}
	targets := make([]int, n)
	for i := range targets {
		off, err := c.i32()
		if err != nil {
			return err
		}
		targets[i] = inst.Offset + int(off)
	}
	inst.DefaultTarget = inst.Offset + int(def)
	inst.Low, inst.High = low, high
	inst.JumpTargets = targets
	return nil
}

func decodeLookupSwitch(c *cursor, inst *Instruction, opts *DecodeOptions) error {
	if err := skipSwitchPadding(c, inst.Offset, opts); err != nil {
		return err
	}
	def, err := c.i32()
	if err != nil {
		return err
	}
	count, err := c.i32()
	if err != nil {
		return err
	}
	if count < 0 {
		return &InvalidSwitchTableError{Reason: "lookupswitch negative npairs", Offset: inst.Offset}
	}
	if opts != nil && opts.MaxCodeArrayLength > 0 && int64(count) > int64(opts.MaxCodeArrayLength) {
		return &TruncatedError{Offset: c.Pos(), Needed: int(count), Remaining: opts.MaxCodeArrayLength}
	}
	pairs := make([]SwitchPair, count)
	for i := range pairs {
		match, err := c.i32()
		if err != nil {
			return err
		}
		off, err := c.i32()
		if err != nil {
			return err
		}
		pairs[i] = SwitchPair{Match: match, Offset: off}
	}
	inst.DefaultTarget = inst.Offset + int(def)
	inst.LookupPairs = pairs
	return nil
}

func encodeInstruction(w *writer, inst *Instruction) {
	if inst.Wide {
		w.u8(196)
		w.u8(inst.Opcode)
		if inst.Opcode == 132 {
			w.u16(uint16(inst.LocalIndex))
			w.i16(int16(inst.Immediate))
		} else {
			w.u16(uint16(inst.LocalIndex))
		}
		return
	}
	w.u8(inst.Opcode)
	shape := opcodeTable[inst.Opcode].Shape
	switch shape {
	case ShapeNone:
	case ShapeLocalIndexU1:
		w.u8(uint8(inst.LocalIndex))
	case ShapeImmediateS1:
		w.i8(int8(inst.Immediate))
	case ShapeImmediateS2:
		w.i16(int16(inst.Immediate))
	case ShapeAtypeU1:
		w.u8(inst.Atype)
	case ShapeConstIndexU1:
		w.u8(uint8(inst.ConstIndex))
	case ShapeConstIndexU2:
		w.u16(uint16(inst.ConstIndex))
	case ShapeBranchS2:
		w.i16(int16(inst.BranchTarget - inst.Offset))
	case ShapeBranchS4:
		w.i32(int32(inst.BranchTarget - inst.Offset))
	case ShapeIinc:
		w.u8(uint8(inst.LocalIndex))
		w.i8(int8(inst.Immediate))
	case ShapeTableSwitch:
		for i := 0; i < switchPadding(inst.Offset); i++ {
			w.u8(0)
		}
		w.i32(int32(inst.DefaultTarget - inst.Offset))
		w.i32(inst.Low)
		w.i32(inst.High)
		for _, t := range inst.JumpTargets {
			w.i32(int32(t - inst.Offset))
		}
	case ShapeLookupSwitch:
		for i := 0; i < switchPadding(inst.Offset); i++ {
			w.u8(0)
		}
		w.i32(int32(inst.DefaultTarget - inst.Offset))
		w.i32(int32(len(inst.LookupPairs)))
		for _, p := range inst.LookupPairs {
			w.i32(p.Match)
			w.i32(p.Offset)
		}
	case ShapeInvokeInterface:
		w.u16(uint16(inst.ConstIndex))
		w.u8(uint8(inst.Count))
		w.u8(0)
	case ShapeInvokeDynamic:
		w.u16(uint16(inst.ConstIndex))
		w.u8(0)
		w.u8(0)
	case ShapeMultiANewArray:
		w.u16(uint16(inst.ConstIndex))
		w.u8(uint8(inst.Dimensions))
	}
}
