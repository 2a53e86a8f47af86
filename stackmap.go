// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// StackMapTable (JVMS §4.7.4) decode/encode, grounded on reloc.go's
// tag-nibble-dispatched, running-RVA-accumulating relocation block decode:
// a StackMapFrame's tag selects its shape exactly the way a relocation
// entry's type nibble does, and both accumulate a running position
// (offset_delta here, page RVA there) across entries instead of encoding an
// absolute value each time.

// VerificationTypeTag selects a VerificationTypeInfo's shape (§4.7.4).
type VerificationTypeTag uint8

const (
	VTTop               VerificationTypeTag = 0
	VTInteger           VerificationTypeTag = 1
	VTFloat             VerificationTypeTag = 2
	VTDouble            VerificationTypeTag = 3
	VTLong              VerificationTypeTag = 4
	VTNull              VerificationTypeTag = 5
	VTUninitializedThis VerificationTypeTag = 6
	VTObject            VerificationTypeTag = 7
	VTUninitialized     VerificationTypeTag = 8
)

func (t VerificationTypeTag) valid() bool { return t <= VTUninitialized }

// VerificationTypeInfo is one verification-type slot in a local or stack
// array. Only CpoolIndex (VTObject) or Offset (VTUninitialized) is
// meaningful, chosen by Tag.
type VerificationTypeInfo struct {
	Tag        VerificationTypeTag
	CpoolIndex uint16 // VTObject
	Offset     int    // VTUninitialized: the new instruction's offset
}

func decodeVerificationTypeInfo(c *cursor) (VerificationTypeInfo, error) {
	tagByte, err := c.u8()
	if err != nil {
		return VerificationTypeInfo{}, err
	}
	tag := VerificationTypeTag(tagByte)
	if !tag.valid() {
		return VerificationTypeInfo{}, &InvalidTagError{Where: "verification_type_info", Value: int(tagByte), Offset: c.Pos() - 1}
	}
	switch tag {
	case VTObject:
		idx, err := c.u16()
		if err != nil {
			return VerificationTypeInfo{}, err
		}
		return VerificationTypeInfo{Tag: tag, CpoolIndex: idx}, nil
	case VTUninitialized:
		off, err := c.u16()
		if err != nil {
			return VerificationTypeInfo{}, err
		}
		return VerificationTypeInfo{Tag: tag, Offset: int(off)}, nil
	default:
		return VerificationTypeInfo{Tag: tag}, nil
	}
}

func encodeVerificationTypeInfo(w *writer, v VerificationTypeInfo) {
	w.u8(uint8(v.Tag))
	switch v.Tag {
	case VTObject:
		w.u16(v.CpoolIndex)
	case VTUninitialized:
		w.u16(uint16(v.Offset))
	}
}

// FrameKind classifies a StackMapFrame by which of the six shapes its tag
// byte fell into.
type FrameKind uint8

const (
	FrameSame FrameKind = iota
	FrameSameLocals1StackItem
	FrameSameLocals1StackItemExtended
	FrameChop
	FrameSameExtended
	FrameAppend
	FrameFull
)

// StackMapFrame is one entry of a StackMapTable. OffsetDelta is always
// populated (including same_frame's implicit tag-as-delta); the remaining
// fields apply only to the Kind that uses them.
type StackMapFrame struct {
	Kind        FrameKind
	Tag         uint8
	OffsetDelta int

	ChopCount int                     // FrameChop: number of locals removed (251-tag)
	Locals    []VerificationTypeInfo  // FrameAppend (appended only), FrameFull (entire array)
	Stack     []VerificationTypeInfo  // FrameSameLocals1StackItem(Extended) holds exactly one; FrameFull the whole array
}

func decodeStackMapFrame(c *cursor) (*StackMapFrame, error) {
	tag, err := c.u8()
	if err != nil {
		return nil, err
	}
	switch {
	case tag <= 63:
		return &StackMapFrame{Kind: FrameSame, Tag: tag, OffsetDelta: int(tag)}, nil
	case tag <= 127:
		stack, err := decodeVerificationTypeInfo(c)
		if err != nil {
			return nil, err
		}
		return &StackMapFrame{Kind: FrameSameLocals1StackItem, Tag: tag, OffsetDelta: int(tag) - 64, Stack: []VerificationTypeInfo{stack}}, nil
	case tag <= 246:
		return nil, &InvalidTagError{Where: "stack_map_frame (reserved)", Value: int(tag), Offset: c.Pos() - 1}
	case tag == 247:
		delta, err := c.u16()
		if err != nil {
			return nil, err
		}
		stack, err := decodeVerificationTypeInfo(c)
		if err != nil {
			return nil, err
		}
		return &StackMapFrame{Kind: FrameSameLocals1StackItemExtended, Tag: tag, OffsetDelta: int(delta), Stack: []VerificationTypeInfo{stack}}, nil
	case tag <= 250:
		delta, err := c.u16()
		if err != nil {
			return nil, err
		}
		return &StackMapFrame{Kind: FrameChop, Tag: tag, OffsetDelta: int(delta), ChopCount: 251 - int(tag)}, nil
	case tag == 251:
		delta, err := c.u16()
		if err != nil {
			return nil, err
		}
		return &StackMapFrame{Kind: FrameSameExtended, Tag: tag, OffsetDelta: int(delta)}, nil
	case tag <= 254:
		delta, err := c.u16()
		if err != nil {
			return nil, err
		}
		n := int(tag) - 251
		locals := make([]VerificationTypeInfo, n)
		for i := range locals {
			v, err := decodeVerificationTypeInfo(c)
			if err != nil {
				return nil, err
			}
			locals[i] = v
		}
		return &StackMapFrame{Kind: FrameAppend, Tag: tag, OffsetDelta: int(delta), Locals: locals}, nil
	default: // 255
		delta, err := c.u16()
		if err != nil {
			return nil, err
		}
		localCount, err := c.u16()
		if err != nil {
			return nil, err
		}
		locals := make([]VerificationTypeInfo, localCount)
		for i := range locals {
			v, err := decodeVerificationTypeInfo(c)
			if err != nil {
				return nil, err
			}
			locals[i] = v
		}
		stackCount, err := c.u16()
		if err != nil {
			return nil, err
		}
		stack := make([]VerificationTypeInfo, stackCount)
		for i := range stack {
			v, err := decodeVerificationTypeInfo(c)
			if err != nil {
				return nil, err
			}
			stack[i] = v
		}
		return &StackMapFrame{Kind: FrameFull, Tag: tag, OffsetDelta: int(delta), Locals: locals, Stack: stack}, nil
	}
}

func encodeStackMapFrame(w *writer, f *StackMapFrame) {
	switch f.Kind {
	case FrameSame:
		w.u8(uint8(f.OffsetDelta))
	case FrameSameLocals1StackItem:
		w.u8(uint8(64 + f.OffsetDelta))
		encodeVerificationTypeInfo(w, f.Stack[0])
	case FrameSameLocals1StackItemExtended:
		w.u8(247)
		w.u16(uint16(f.OffsetDelta))
		encodeVerificationTypeInfo(w, f.Stack[0])
	case FrameChop:
		w.u8(uint8(251 - f.ChopCount))
		w.u16(uint16(f.OffsetDelta))
	case FrameSameExtended:
		w.u8(251)
		w.u16(uint16(f.OffsetDelta))
	case FrameAppend:
		w.u8(uint8(251 + len(f.Locals)))
		w.u16(uint16(f.OffsetDelta))
		for _, l := range f.Locals {
			encodeVerificationTypeInfo(w, l)
		}
	case FrameFull:
		w.u8(255)
		w.u16(uint16(f.OffsetDelta))
		w.u16(uint16(len(f.Locals)))
		for _, l := range f.Locals {
			encodeVerificationTypeInfo(w, l)
		}
		w.u16(uint16(len(f.Stack)))
		for _, s := range f.Stack {
			encodeVerificationTypeInfo(w, s)
		}
	}
}

// StackMapTableAttribute (§4.7.4): at most one per Code attribute
// (≥50.0), an ordered sequence of frames whose offset_deltas accumulate
// into absolute bytecode offsets (the first frame's offset is its
// offset_delta; every later frame's is the previous absolute offset plus
// its own offset_delta plus one, per §4.7.4's note 3).
type StackMapTableAttribute struct {
	Entries []*StackMapFrame
}

func (a *StackMapTableAttribute) AttributeName() string { return "StackMapTable" }
func (a *StackMapTableAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.u16(uint16(len(a.Entries)))
	for _, f := range a.Entries {
		encodeStackMapFrame(w, f)
	}
}

func decodeStackMapTableAttribute(_ string, c *cursor, _ *ConstantPool, _ string, opts *DecodeOptions) (Attribute, error) {
	count, err := c.u16()
	if err != nil {
		return nil, err
	}
	entries := make([]*StackMapFrame, count)
	for i := range entries {
		f, err := decodeStackMapFrame(c)
		if err != nil {
			return nil, err
		}
		entries[i] = f
	}
	return &StackMapTableAttribute{Entries: entries}, nil
}

// AbsoluteOffsets returns each frame's absolute bytecode offset, applying
// the §4.7.4 accumulation rule (first frame: offset_delta; later frames:
// previous + offset_delta + 1).
func (a *StackMapTableAttribute) AbsoluteOffsets() []int {
	offsets := make([]int, len(a.Entries))
	running := -1
	for i, f := range a.Entries {
		if i == 0 {
			running = f.OffsetDelta
		} else {
			running = running + f.OffsetDelta + 1
		}
		offsets[i] = running
	}
	return offsets
}
