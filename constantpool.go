// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "fmt"

// ConstantPool is the 1-based indexed, tag-dispatched table every other
// structure in a class file references by integer index (L3). Index 0 is
// reserved as "none" and is never a stored entry; Long and Double entries
// additionally reserve the slot immediately after them, which is never a
// stored entry either. This generalizes the flat, tagged-entry array shape
// of a COFF symbol table (see symbol.go in the teacher) to a self-referential
// pool instead of an external string table.
type ConstantPool struct {
	// entries is indexed the same way the wire format is: entries[0] is
	// always nil (the reserved sentinel), entries[i] for a two-slot
	// constant's reserved slot is also nil.
	entries []Constant
}

// NewConstantPool returns an empty pool (count 1, i.e. only the sentinel).
func NewConstantPool() *ConstantPool {
	return &ConstantPool{entries: []Constant{nil}}
}

// Count returns the wire-format constant_pool_count: one more than the
// highest valid index, accounting for two-slot gaps.
func (p *ConstantPool) Count() int { return len(p.entries) }

// Get returns the constant at index i, or an error if i is 0, out of range,
// or the reserved second slot of a two-slot constant.
func (p *ConstantPool) Get(i int) (Constant, error) {
	if i <= 0 || i >= len(p.entries) {
		return nil, &InvalidIndexError{Index: i, Count: len(p.entries)}
	}
	c := p.entries[i]
	if c == nil {
		return nil, ErrReservedConstantPoolSlot
	}
	return c, nil
}

// GetUtf8 resolves index i and requires it to be a Utf8Constant.
func (p *ConstantPool) GetUtf8(i int) (*Utf8Constant, error) {
	c, err := p.Get(i)
	if err != nil {
		return nil, err
	}
	u, ok := c.(*Utf8Constant)
	if !ok {
		return nil, &WrongKindError{Index: i, Expected: "Utf8", Found: c.Tag().String()}
	}
	return u, nil
}

// GetClassName resolves index i, requires it to be a ClassConstant, and returns
// its internal-form name.
func (p *ConstantPool) GetClassName(i int) (string, error) {
	c, err := p.Get(i)
	if err != nil {
		return "", err
	}
	cls, ok := c.(*ClassConstant)
	if !ok {
		return "", &WrongKindError{Index: i, Expected: "Class", Found: c.Tag().String()}
	}
	name, err := p.GetUtf8(int(cls.NameIndex))
	if err != nil {
		return "", err
	}
	return name.String(), nil
}

// add appends c as the next entry (or entries, for a two-slot constant) and
// returns the index assigned to it. This is the single append primitive
// every builder method in this file funnels through; interning (structural
// dedup) is left to callers that want it, per spec.md §4.3: duplicates are
// permitted in the format.
func (p *ConstantPool) add(c Constant) int {
	idx := len(p.entries)
	p.entries = append(p.entries, c)
	if c.Tag() == TagLong || c.Tag() == TagDouble {
		p.entries = append(p.entries, nil) // reserved second slot
	}
	return idx
}

// AddUtf8 interns nothing; it appends a new Utf8Constant and returns its
// index.
func (p *ConstantPool) AddUtf8(s string) uint16 { return uint16(p.add(NewUtf8Constant(s))) }

// lookupOrAddUtf8 interns s against any existing Utf8Constant with the same
// lossy string value before appending a new one. Attribute and reference
// names are reused constantly within a class file (e.g. "Code" on every
// method), and encoders should not mint a duplicate constant per use.
func (p *ConstantPool) lookupOrAddUtf8(s string) uint16 {
	for i, c := range p.entries {
		if u, ok := c.(*Utf8Constant); ok && u.String() == s {
			return uint16(i)
		}
	}
	return p.AddUtf8(s)
}

func (p *ConstantPool) AddInteger(v int32) uint16 { return uint16(p.add(&IntegerConstant{v})) }
func (p *ConstantPool) AddFloat(v float32) uint16 { return uint16(p.add(&FloatConstant{v})) }
func (p *ConstantPool) AddLong(v int64) uint16    { return uint16(p.add(&LongConstant{v})) }
func (p *ConstantPool) AddDouble(v float64) uint16 { return uint16(p.add(&DoubleConstant{v})) }

// AddClass adds a Utf8 for name and a ClassConstant pointing at it,
// returning the class constant's index.
func (p *ConstantPool) AddClass(internalName string) uint16 {
	nameIdx := p.AddUtf8(internalName)
	return uint16(p.add(&ClassConstant{NameIndex: nameIdx}))
}

func (p *ConstantPool) AddString(value string) uint16 {
	valueIdx := p.AddUtf8(value)
	return uint16(p.add(&StringConstant{ValueIndex: valueIdx}))
}

func (p *ConstantPool) AddNameAndType(name, descriptor string) uint16 {
	nameIdx := p.AddUtf8(name)
	descIdx := p.AddUtf8(descriptor)
	return uint16(p.add(&NameAndTypeConstant{NameIndex: nameIdx, DescriptorIndex: descIdx}))
}

func (p *ConstantPool) AddFieldref(className, name, descriptor string) uint16 {
	classIdx := p.AddClass(className)
	natIdx := p.AddNameAndType(name, descriptor)
	return uint16(p.add(&FieldrefConstant{ClassIndex: classIdx, NameAndTypeIndex: natIdx}))
}

func (p *ConstantPool) AddMethodref(className, name, descriptor string) uint16 {
	classIdx := p.AddClass(className)
	natIdx := p.AddNameAndType(name, descriptor)
	return uint16(p.add(&MethodrefConstant{ClassIndex: classIdx, NameAndTypeIndex: natIdx}))
}

func (p *ConstantPool) AddInterfaceMethodref(className, name, descriptor string) uint16 {
	classIdx := p.AddClass(className)
	natIdx := p.AddNameAndType(name, descriptor)
	return uint16(p.add(&InterfaceMethodrefConstant{ClassIndex: classIdx, NameAndTypeIndex: natIdx}))
}

func (p *ConstantPool) AddMethodHandle(kind ReferenceKind, referenceIndex uint16) uint16 {
	return uint16(p.add(&MethodHandleConstant{ReferenceKind: kind, ReferenceIndex: referenceIndex}))
}

func (p *ConstantPool) AddMethodType(descriptor string) uint16 {
	descIdx := p.AddUtf8(descriptor)
	return uint16(p.add(&MethodTypeConstant{DescriptorIndex: descIdx}))
}

func (p *ConstantPool) AddModule(name string) uint16 {
	nameIdx := p.AddUtf8(name)
	return uint16(p.add(&ModuleConstant{NameIndex: nameIdx}))
}

func (p *ConstantPool) AddPackage(name string) uint16 {
	nameIdx := p.AddUtf8(name)
	return uint16(p.add(&PackageConstant{NameIndex: nameIdx}))
}

// decodeConstant reads one tagged entry from c (the tag byte plus its
// variant-specific payload) without consulting the pool; cross-reference
// validation happens afterward in validate, once every entry exists.
func decodeConstant(c *cursor) (Constant, error) {
	tagByte, err := c.u8()
	if err != nil {
		return nil, err
	}
	tag := ConstantTag(tagByte)
	switch tag {
	case TagUtf8:
		length, err := c.u16()
		if err != nil {
			return nil, err
		}
		b, err := c.bytes(int(length))
		if err != nil {
			return nil, err
		}
		raw := append([]byte(nil), b...)
		return &Utf8Constant{Bytes: raw}, nil
	case TagInteger:
		v, err := c.i32()
		return &IntegerConstant{v}, err
	case TagFloat:
		v, err := c.f32()
		return &FloatConstant{v}, err
	case TagLong:
		v, err := c.i64()
		return &LongConstant{v}, err
	case TagDouble:
		v, err := c.f64()
		return &DoubleConstant{v}, err
	case TagClass:
		v, err := c.u16()
		return &ClassConstant{NameIndex: v}, err
	case TagString:
		v, err := c.u16()
		return &StringConstant{ValueIndex: v}, err
	case TagFieldref:
		cls, err := c.u16()
		if err != nil {
			return nil, err
		}
		nat, err := c.u16()
		return &FieldrefConstant{ClassIndex: cls, NameAndTypeIndex: nat}, err
	case TagMethodref:
		cls, err := c.u16()
		if err != nil {
			return nil, err
		}
		nat, err := c.u16()
		return &MethodrefConstant{ClassIndex: cls, NameAndTypeIndex: nat}, err
	case TagInterfaceMethodref:
		cls, err := c.u16()
		if err != nil {
			return nil, err
		}
		nat, err := c.u16()
		return &InterfaceMethodrefConstant{ClassIndex: cls, NameAndTypeIndex: nat}, err
	case TagNameAndType:
		name, err := c.u16()
		if err != nil {
			return nil, err
		}
		desc, err := c.u16()
		return &NameAndTypeConstant{NameIndex: name, DescriptorIndex: desc}, err
	case TagMethodHandle:
		kind, err := c.u8()
		if err != nil {
			return nil, err
		}
		ref, err := c.u16()
		return &MethodHandleConstant{ReferenceKind: ReferenceKind(kind), ReferenceIndex: ref}, err
	case TagMethodType:
		desc, err := c.u16()
		return &MethodTypeConstant{DescriptorIndex: desc}, err
	case TagDynamic:
		bsm, err := c.u16()
		if err != nil {
			return nil, err
		}
		nat, err := c.u16()
		return &DynamicConstant{BootstrapMethodAttrIndex: bsm, NameAndTypeIndex: nat}, err
	case TagInvokeDynamic:
		bsm, err := c.u16()
		if err != nil {
			return nil, err
		}
		nat, err := c.u16()
		return &InvokeDynamicConstant{BootstrapMethodAttrIndex: bsm, NameAndTypeIndex: nat}, err
	case TagModule:
		v, err := c.u16()
		return &ModuleConstant{NameIndex: v}, err
	case TagPackage:
		v, err := c.u16()
		return &PackageConstant{NameIndex: v}, err
	default:
		return nil, &InvalidTagError{Where: "constant", Value: int(tagByte), Offset: c.pos - 1}
	}
}

// decodeConstantPool reads constant_pool_count followed by count-1 entries,
// per spec.md §4.3.
func decodeConstantPool(c *cursor, opts *DecodeOptions) (*ConstantPool, error) {
	count, err := c.u16()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrZeroConstantPoolCount
	}
	if int(count) > opts.MaxConstantPoolEntries {
		return nil, fmt.Errorf("classfile: constant_pool_count %d exceeds configured maximum %d",
			count, opts.MaxConstantPoolEntries)
	}

	pool := &ConstantPool{entries: make([]Constant, 1, count)}
	for len(pool.entries) < int(count) {
		entry, err := decodeConstant(c)
		if err != nil {
			return nil, err
		}
		pool.entries = append(pool.entries, entry)
		if entry.Tag() == TagLong || entry.Tag() == TagDouble {
			if len(pool.entries) >= int(count) {
				return nil, ErrDanglingTwoSlotConstant
			}
			pool.entries = append(pool.entries, nil)
		}
	}
	return pool, nil
}

func (p *ConstantPool) encode(w *writer) {
	w.u16(uint16(len(p.entries)))
	for _, e := range p.entries[1:] {
		if e == nil {
			continue // reserved second slot of a Long/Double: no wire presence
		}
		w.u8(uint8(e.Tag()))
		e.encode(w)
	}
}

// validate checks every cross-entry reference: target index in range,
// target variant correct, and every Utf8 payload decodes as MUTF-8. This is
// the second pass spec.md §4.3 calls for, run once every entry exists.
func (p *ConstantPool) validate(path string) []*VerifyError {
	var errs []*VerifyError
	expect := func(idx int, want ConstantTag) {
		c, err := p.Get(idx)
		if err != nil {
			errs = append(errs, newVerifyError(path, fmt.Errorf("index %d: %w", idx, err)))
			return
		}
		if c.Tag() != want {
			errs = append(errs, newVerifyError(path,
				&WrongKindError{Index: idx, Expected: want.String(), Found: c.Tag().String()}))
		}
	}

	for i := 1; i < len(p.entries); i++ {
		c := p.entries[i]
		if c == nil {
			continue
		}
		switch e := c.(type) {
		case *Utf8Constant:
			if _, err := DecodeMUTF8(e.Bytes); err != nil {
				errs = append(errs, newVerifyError(fmt.Sprintf("%s[%d]", path, i), err))
			}
		case *ClassConstant:
			expect(int(e.NameIndex), TagUtf8)
		case *StringConstant:
			expect(int(e.ValueIndex), TagUtf8)
		case *FieldrefConstant:
			expect(int(e.ClassIndex), TagClass)
			expect(int(e.NameAndTypeIndex), TagNameAndType)
		case *MethodrefConstant:
			expect(int(e.ClassIndex), TagClass)
			expect(int(e.NameAndTypeIndex), TagNameAndType)
		case *InterfaceMethodrefConstant:
			expect(int(e.ClassIndex), TagClass)
			expect(int(e.NameAndTypeIndex), TagNameAndType)
		case *NameAndTypeConstant:
			expect(int(e.NameIndex), TagUtf8)
			expect(int(e.DescriptorIndex), TagUtf8)
		case *MethodHandleConstant:
			if !e.ReferenceKind.valid() {
				errs = append(errs, newVerifyError(fmt.Sprintf("%s[%d]", path, i),
					&InvalidTagError{Where: "reference_kind", Value: int(e.ReferenceKind)}))
				continue
			}
			// The exact required target variant (Fieldref vs Methodref vs
			// InterfaceMethodref) depends on reference_kind and, for
			// invokeStatic/invokeSpecial, on the class file version; that
			// finer rule lives in the verifier (checkMethodHandleTargets),
			// which has access to the owning ClassFile's version. Here we
			// only confirm the index resolves to some member reference.
			target, err := p.Get(int(e.ReferenceIndex))
			if err != nil {
				errs = append(errs, newVerifyError(path, fmt.Errorf("index %d: %w", e.ReferenceIndex, err)))
				continue
			}
			switch target.Tag() {
			case TagFieldref, TagMethodref, TagInterfaceMethodref:
			default:
				errs = append(errs, newVerifyError(fmt.Sprintf("%s[%d]", path, i),
					&WrongKindError{Index: int(e.ReferenceIndex), Expected: "Fieldref/Methodref/InterfaceMethodref", Found: target.Tag().String()}))
			}
		case *MethodTypeConstant:
			expect(int(e.DescriptorIndex), TagUtf8)
		case *DynamicConstant:
			expect(int(e.NameAndTypeIndex), TagNameAndType)
		case *InvokeDynamicConstant:
			expect(int(e.NameAndTypeIndex), TagNameAndType)
		case *ModuleConstant:
			expect(int(e.NameIndex), TagUtf8)
		case *PackageConstant:
			expect(int(e.NameIndex), TagUtf8)
		}
	}
	return errs
}
