// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "fmt"

// Supported major version range (JVMS §4.1's version history: 45 is JDK
// 1.0.2, 69 is JDK 25). A class file naming a major version outside this
// range cannot have been produced by any JVMS edition this module was
// built against.
const (
	MinSupportedMajor = 45
	MaxSupportedMajor = 69
)

// verifyClassFile runs the structural verification pass of spec.md §4.5
// rules 1-7, grounded on anomaly.go's non-fatal-diagnostic-accumulation
// pattern (a PE file can be "suspicious" along many independent axes
// without any one of them aborting the parse) and jacobin's
// formatCheck.go for the specific rule content (flag-pair legality,
// attribute placement, code integrity).
func verifyClassFile(path string, cf *ClassFile) []*VerifyError {
	var errs []*VerifyError

	// Rule 1: magic and version. Decode already enforced magic == 0xCAFEBABE
	// (a ClassFile could not exist otherwise), so only the version range is
	// checked here.
	if int(cf.MajorVersion) < MinSupportedMajor || int(cf.MajorVersion) > MaxSupportedMajor {
		errs = append(errs, newVerifyError(path, &UnsupportedVersionError{Major: cf.MajorVersion, Minor: cf.MinorVersion}))
	}

	// Rule 2: constant pool structural/cross-reference checks.
	errs = append(errs, cf.ConstantPool.validate(path)...)
	errs = append(errs, checkMethodHandleTargets(path, cf)...)

	// Rule 3: access flag legality.
	if err := checkFlags("class", cf.AccessFlags); err != nil {
		errs = append(errs, newVerifyError(path, err))
	}
	if cf.AccessFlags.Has(AccInterface) && !cf.AccessFlags.Has(AccAbstract) {
		errs = append(errs, newVerifyError(path, fmt.Errorf("ACC_INTERFACE requires ACC_ABSTRACT")))
	}
	if cf.AccessFlags.Has(AccFinal) && cf.AccessFlags.Has(AccAbstract) {
		errs = append(errs, newVerifyError(path, fmt.Errorf("ACC_FINAL and ACC_ABSTRACT are mutually exclusive")))
	}
	if cf.AccessFlags.Has(AccAnnotation) && !cf.AccessFlags.Has(AccInterface) {
		errs = append(errs, newVerifyError(path, fmt.Errorf("ACC_ANNOTATION requires ACC_INTERFACE")))
	}

	// Rule 4: names and descriptors.
	if _, err := cf.ThisClassName(); err != nil {
		errs = append(errs, newVerifyError(path, err))
	}
	for _, f := range cf.Fields {
		if err := checkFlags("field", AccessFlags(f.AccessFlags)); err != nil {
			errs = append(errs, newVerifyError(path, err))
		}
		if _, err := f.Descriptor(cf.ConstantPool); err != nil {
			errs = append(errs, newVerifyError(path, err))
		}
	}
	for _, m := range cf.Methods {
		if err := checkFlags("method", AccessFlags(m.AccessFlags)); err != nil {
			errs = append(errs, newVerifyError(path, err))
		}
		desc, err := m.Descriptor(cf.ConstantPool)
		if err != nil {
			errs = append(errs, newVerifyError(path, err))
		}
		errs = append(errs, verifyMethodCode(path, cf, m, desc)...)
	}

	// Rule 5: attribute placement (version/location/multiplicity).
	major, minor := int(cf.MajorVersion), int(cf.MinorVersion)
	for _, err := range checkAttributeTableRules(cf.Attributes, "class", major, minor) {
		errs = append(errs, newVerifyError(path, err))
	}
	for _, f := range cf.Fields {
		for _, err := range checkAttributeTableRules(f.Attributes, "field", major, minor) {
			errs = append(errs, newVerifyError(path, err))
		}
	}
	for _, m := range cf.Methods {
		for _, err := range checkAttributeTableRules(m.Attributes, "method", major, minor) {
			errs = append(errs, newVerifyError(path, err))
		}
	}

	// Rule 8: access flags of nested-class and module-table entries, the
	// other two flag spaces spec.md §3 names alongside class/field/method.
	for _, attr := range cf.Attributes {
		switch a := attr.(type) {
		case *InnerClassesAttribute:
			for _, e := range a.Classes {
				if err := checkFlags("nested_class", e.InnerClassAccessFlags); err != nil {
					errs = append(errs, newVerifyError(path, err))
				}
			}
		case *ModuleAttribute:
			if err := checkFlags("module", a.ModuleFlags); err != nil {
				errs = append(errs, newVerifyError(path, err))
			}
			for _, r := range a.Requires {
				if err := checkFlags("requires", r.RequiresFlags); err != nil {
					errs = append(errs, newVerifyError(path, err))
				}
			}
			for _, e := range a.Exports {
				if err := checkFlags("exports", e.ExportsFlags); err != nil {
					errs = append(errs, newVerifyError(path, err))
				}
			}
			for _, o := range a.Opens {
				if err := checkFlags("opens", o.OpensFlags); err != nil {
					errs = append(errs, newVerifyError(path, err))
				}
			}
		}
	}

	return errs
}

// verifyMethodCode implements rules 5 (Code presence), 6 (code integrity),
// and 7 (StackMapTable consistency) for a single method.
func verifyMethodCode(path string, cf *ClassFile, m *Method, desc *MethodDescriptor) []*VerifyError {
	var errs []*VerifyError
	code := m.Code()

	mustHaveCode := !AccessFlags(m.AccessFlags).Has(AccAbstract) &&
		!AccessFlags(m.AccessFlags).Has(AccNative)
	if mustHaveCode && code == nil {
		errs = append(errs, newVerifyError(path, fmt.Errorf("method missing required Code attribute")))
		return errs
	}
	if !mustHaveCode && code != nil {
		errs = append(errs, newVerifyWarning(path, fmt.Errorf("abstract/native method carries a Code attribute")))
	}
	if code == nil {
		return errs
	}

	// Rule 6: instruction offsets form a contiguous sequential decode by
	// construction (decodeCodeAttribute stops exactly at code_length);
	// branch and exception-handler targets must land on one of those
	// offsets.
	boundaries := make(map[int]bool, len(code.Instructions))
	for _, inst := range code.Instructions {
		boundaries[inst.Offset] = true
	}
	checkTarget := func(target int, what string) {
		if !boundaries[target] {
			errs = append(errs, newVerifyError(path, &InvalidBranchTargetError{Source: -1, Target: target}))
			_ = what
		}
	}
	for _, inst := range code.Instructions {
		switch inst.Mnemonic {
		case "jsr", "ret", "jsr_w":
			if int(cf.MajorVersion) >= 51 {
				errs = append(errs, newVerifyError(path, fmt.Errorf("%s is not permitted in class files with major version >= 51", inst.Mnemonic)))
			}
		}
		switch {
		case inst.Mnemonic == "goto" || inst.Mnemonic == "goto_w" || inst.Mnemonic == "jsr" || inst.Mnemonic == "jsr_w" ||
			(len(inst.Mnemonic) > 2 && inst.Mnemonic[:2] == "if"):
			checkTarget(inst.BranchTarget, "branch")
		case inst.Mnemonic == "tableswitch":
			checkTarget(inst.DefaultTarget, "default")
			for _, t := range inst.JumpTargets {
				checkTarget(t, "case")
			}
		case inst.Mnemonic == "lookupswitch":
			checkTarget(inst.DefaultTarget, "default")
			prevMatch := int32(0)
			for i, p := range inst.LookupPairs {
				checkTarget(inst.Offset+int(p.Offset), "case")
				if i > 0 && p.Match <= prevMatch {
					errs = append(errs, newVerifyError(path, &InvalidSwitchTableError{Reason: "lookupswitch match table not strictly ascending", Offset: inst.Offset}))
				}
				prevMatch = p.Match
			}
		}
	}
	for _, e := range code.ExceptionTable {
		if !boundaries[e.HandlerPC] {
			errs = append(errs, newVerifyError(path, &InvalidBranchTargetError{Source: -1, Target: e.HandlerPC}))
		}
		if e.CatchType != 0 {
			if _, err := cf.ConstantPool.GetClassName(int(e.CatchType)); err != nil {
				errs = append(errs, newVerifyError(path, err))
			}
		}
	}

	// Rule 5 (StackMapTable version gate) + rule 7 consistency.
	if smt := code.StackMapTable(); smt != nil {
		if int(cf.MajorVersion) < 50 {
			errs = append(errs, newVerifyError(path, &UnsupportedVersionError{Major: cf.MajorVersion, Minor: cf.MinorVersion}))
		}
		errs = append(errs, verifyStackMapTable(path, cf, code, smt, boundaries)...)
	}

	return errs
}

// checkMethodHandleTargets enforces JVMS §4.4.8's reference_kind-to-target
// mapping, which constantpool.go's validate() defers here because it needs
// the owning ClassFile's version for the invokeinterface case.
func checkMethodHandleTargets(path string, cf *ClassFile) []*VerifyError {
	var errs []*VerifyError
	pool := cf.ConstantPool
	for i := 1; i < pool.Count(); i++ {
		c, err := pool.Get(i)
		if err != nil {
			continue
		}
		mh, ok := c.(*MethodHandleConstant)
		if !ok || !mh.ReferenceKind.valid() {
			continue
		}
		target, err := pool.Get(int(mh.ReferenceIndex))
		if err != nil {
			continue
		}
		want := ""
		switch mh.ReferenceKind {
		case RefGetField, RefGetStatic, RefPutField, RefPutStatic:
			if target.Tag() != TagFieldref {
				want = "Fieldref"
			}
		case RefInvokeVirtual, RefNewInvokeSpecial:
			if target.Tag() != TagMethodref {
				want = "Methodref"
			}
		case RefInvokeStatic, RefInvokeSpecial:
			if int(cf.MajorVersion) < 52 {
				if target.Tag() != TagMethodref {
					want = "Methodref"
				}
			} else if target.Tag() != TagMethodref && target.Tag() != TagInterfaceMethodref {
				want = "Methodref/InterfaceMethodref"
			}
		case RefInvokeInterface:
			if target.Tag() != TagInterfaceMethodref {
				want = "InterfaceMethodref"
			}
		}
		if want != "" {
			errs = append(errs, newVerifyError(fmt.Sprintf("%s[%d]", path, i),
				&WrongKindError{Index: int(mh.ReferenceIndex), Expected: want, Found: target.Tag().String()}))
		}
	}
	return errs
}

func verifyStackMapTable(path string, cf *ClassFile, code *CodeAttribute, smt *StackMapTableAttribute, boundaries map[int]bool) []*VerifyError {
	var errs []*VerifyError
	offsets := smt.AbsoluteOffsets()
	prev := -1
	for i, off := range offsets {
		if off < 0 || off >= code.CodeLength {
			errs = append(errs, newVerifyError(path, &StackMapInconsistentError{Reason: "frame offset outside code_length"}))
			continue
		}
		if i > 0 && off <= prev {
			errs = append(errs, newVerifyError(path, &StackMapInconsistentError{Reason: "frame offsets are not strictly increasing"}))
		}
		if !boundaries[off] {
			errs = append(errs, newVerifyError(path, &StackMapInconsistentError{Reason: "frame offset is not an instruction boundary"}))
		}
		prev = off

		frame := smt.Entries[i]
		checkVerificationTypes := func(vts []VerificationTypeInfo) {
			for _, vt := range vts {
				switch vt.Tag {
				case VTObject:
					if _, err := cf.ConstantPool.GetClassName(int(vt.CpoolIndex)); err != nil {
						errs = append(errs, newVerifyError(path, &StackMapInconsistentError{Reason: "Object verification type does not resolve to a Class constant"}))
					}
				case VTUninitialized:
					if !boundaries[vt.Offset] {
						errs = append(errs, newVerifyError(path, &StackMapInconsistentError{Reason: "Uninitialized verification type offset is not an instruction boundary"}))
					}
				}
			}
		}
		checkVerificationTypes(frame.Locals)
		checkVerificationTypes(frame.Stack)
	}
	return errs
}
