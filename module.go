// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// Module metadata (JVMS §4.7.25-4.7.27), grounded on imports.go's nested
// import-descriptor-then-thunk tables (a directory entry owning a table of
// sub-records, each of which may own its own further table) generalized
// from DLL/ordinal imports to module requires/exports/opens/uses/provides.

// ModuleRequiresEntry is one `requires` directive.
type ModuleRequiresEntry struct {
	RequiresIndex        uint16
	RequiresFlags        AccessFlags
	RequiresVersionIndex uint16 // 0 if no version given
}

// ModuleExportsEntry is one `exports` directive.
type ModuleExportsEntry struct {
	ExportsIndex uint16
	ExportsFlags AccessFlags
	ExportsTo    []uint16
}

// ModuleOpensEntry is one `opens` directive.
type ModuleOpensEntry struct {
	OpensIndex uint16
	OpensFlags AccessFlags
	OpensTo    []uint16
}

// ModuleProvidesEntry is one `provides ... with ...` directive.
type ModuleProvidesEntry struct {
	ProvidesIndex uint16
	ProvidesWith  []uint16
}

// ModuleAttribute (§4.7.25): full module-info descriptor.
type ModuleAttribute struct {
	ModuleNameIndex    uint16
	ModuleFlags        AccessFlags
	ModuleVersionIndex uint16 // 0 if absent
	Requires           []ModuleRequiresEntry
	Exports            []ModuleExportsEntry
	Opens              []ModuleOpensEntry
	Uses               []uint16
	Provides           []ModuleProvidesEntry
}

func (a *ModuleAttribute) AttributeName() string { return "Module" }

func (a *ModuleAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.u16(a.ModuleNameIndex)
	w.u16(uint16(a.ModuleFlags))
	w.u16(a.ModuleVersionIndex)

	w.u16(uint16(len(a.Requires)))
	for _, r := range a.Requires {
		w.u16(r.RequiresIndex)
		w.u16(uint16(r.RequiresFlags))
		w.u16(r.RequiresVersionIndex)
	}

	w.u16(uint16(len(a.Exports)))
	for _, e := range a.Exports {
		w.u16(e.ExportsIndex)
		w.u16(uint16(e.ExportsFlags))
		w.u16(uint16(len(e.ExportsTo)))
		for _, to := range e.ExportsTo {
			w.u16(to)
		}
	}

	w.u16(uint16(len(a.Opens)))
	for _, o := range a.Opens {
		w.u16(o.OpensIndex)
		w.u16(uint16(o.OpensFlags))
		w.u16(uint16(len(o.OpensTo)))
		for _, to := range o.OpensTo {
			w.u16(to)
		}
	}

	w.u16(uint16(len(a.Uses)))
	for _, u := range a.Uses {
		w.u16(u)
	}

	w.u16(uint16(len(a.Provides)))
	for _, p := range a.Provides {
		w.u16(p.ProvidesIndex)
		w.u16(uint16(len(p.ProvidesWith)))
		for _, with := range p.ProvidesWith {
			w.u16(with)
		}
	}
}

func decodeModuleAttribute(_ string, c *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
	a := &ModuleAttribute{}
	var err error
	if a.ModuleNameIndex, err = c.u16(); err != nil {
		return nil, err
	}
	flags, err := c.u16()
	if err != nil {
		return nil, err
	}
	a.ModuleFlags = AccessFlags(flags)
	if a.ModuleVersionIndex, err = c.u16(); err != nil {
		return nil, err
	}

	requiresCount, err := c.u16()
	if err != nil {
		return nil, err
	}
	a.Requires = make([]ModuleRequiresEntry, requiresCount)
	for i := range a.Requires {
		idx, err := c.u16()
		if err != nil {
			return nil, err
		}
		f, err := c.u16()
		if err != nil {
			return nil, err
		}
		v, err := c.u16()
		if err != nil {
			return nil, err
		}
		a.Requires[i] = ModuleRequiresEntry{idx, AccessFlags(f), v}
	}

	exportsCount, err := c.u16()
	if err != nil {
		return nil, err
	}
	a.Exports = make([]ModuleExportsEntry, exportsCount)
	for i := range a.Exports {
		idx, err := c.u16()
		if err != nil {
			return nil, err
		}
		f, err := c.u16()
		if err != nil {
			return nil, err
		}
		toCount, err := c.u16()
		if err != nil {
			return nil, err
		}
		to := make([]uint16, toCount)
		for j := range to {
			if to[j], err = c.u16(); err != nil {
				return nil, err
			}
		}
		a.Exports[i] = ModuleExportsEntry{idx, AccessFlags(f), to}
	}

	opensCount, err := c.u16()
	if err != nil {
		return nil, err
	}
	a.Opens = make([]ModuleOpensEntry, opensCount)
	for i := range a.Opens {
		idx, err := c.u16()
		if err != nil {
			return nil, err
		}
		f, err := c.u16()
		if err != nil {
			return nil, err
		}
		toCount, err := c.u16()
		if err != nil {
			return nil, err
		}
		to := make([]uint16, toCount)
		for j := range to {
			if to[j], err = c.u16(); err != nil {
				return nil, err
			}
		}
		a.Opens[i] = ModuleOpensEntry{idx, AccessFlags(f), to}
	}

	usesCount, err := c.u16()
	if err != nil {
		return nil, err
	}
	a.Uses = make([]uint16, usesCount)
	for i := range a.Uses {
		if a.Uses[i], err = c.u16(); err != nil {
			return nil, err
		}
	}

	providesCount, err := c.u16()
	if err != nil {
		return nil, err
	}
	a.Provides = make([]ModuleProvidesEntry, providesCount)
	for i := range a.Provides {
		idx, err := c.u16()
		if err != nil {
			return nil, err
		}
		withCount, err := c.u16()
		if err != nil {
			return nil, err
		}
		with := make([]uint16, withCount)
		for j := range with {
			if with[j], err = c.u16(); err != nil {
				return nil, err
			}
		}
		a.Provides[i] = ModuleProvidesEntry{idx, with}
	}

	return a, nil
}

// ModulePackagesAttribute (§4.7.26): every package the module owns,
// whether or not it is exported/opened.
type ModulePackagesAttribute struct {
	Packages []uint16
}

func (a *ModulePackagesAttribute) AttributeName() string { return "ModulePackages" }
func (a *ModulePackagesAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.u16(uint16(len(a.Packages)))
	for _, p := range a.Packages {
		w.u16(p)
	}
}

func decodeModulePackagesAttribute(_ string, c *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
	count, err := c.u16()
	if err != nil {
		return nil, err
	}
	packages := make([]uint16, count)
	for i := range packages {
		if packages[i], err = c.u16(); err != nil {
			return nil, err
		}
	}
	return &ModulePackagesAttribute{Packages: packages}, nil
}

// ModuleMainClassAttribute (§4.7.27).
type ModuleMainClassAttribute struct {
	MainClassIndex uint16
}

func (a *ModuleMainClassAttribute) AttributeName() string { return "ModuleMainClass" }
func (a *ModuleMainClassAttribute) encodeBody(w *writer, _ *ConstantPool) {
	w.u16(a.MainClassIndex)
}

func decodeModuleMainClassAttribute(_ string, c *cursor, _ *ConstantPool, _ string, _ *DecodeOptions) (Attribute, error) {
	idx, err := c.u16()
	if err != nil {
		return nil, err
	}
	return &ModuleMainClassAttribute{MainClassIndex: idx}, nil
}
