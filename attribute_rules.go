// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// attributeRule records where an attribute kind is legal, from which class
// file version, and how many copies a single attribute table may hold.
// This is JVMS Tables 4.7-B/C transcribed into data, consulted by the
// verifier (rule 5); the decoder does not consult it.
type attributeRule struct {
	MinMajor    int
	MinMinor    int
	Locations   map[string]bool // "class", "field", "method", "code", "record_component"
	AtMostOne   bool
}

func loc(kinds ...string) map[string]bool {
	m := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		m[k] = true
	}
	return m
}

// attributeRules is keyed by attribute name. Names absent from this table
// (nonstandard or vendor attributes) are always legal anywhere, any number
// of times, at any version — the verifier only applies multiplicity/
// location/version checks to attributes it recognizes.
var attributeRules = map[string]attributeRule{
	"ConstantValue":                        {45, 3, loc("field"), true},
	"Code":                                 {45, 3, loc("method"), true},
	"StackMapTable":                        {50, 0, loc("code"), true},
	"Exceptions":                           {45, 3, loc("method"), true},
	"InnerClasses":                         {45, 3, loc("class"), true},
	"EnclosingMethod":                      {49, 0, loc("class"), true},
	"Synthetic":                            {45, 3, loc("class", "field", "method"), true},
	"Signature":                            {49, 0, loc("class", "field", "method", "record_component"), true},
	"SourceFile":                           {45, 3, loc("class"), true},
	"SourceDebugExtension":                 {49, 0, loc("class"), true},
	"LineNumberTable":                      {45, 3, loc("code"), false},
	"LocalVariableTable":                   {45, 3, loc("code"), false},
	"LocalVariableTypeTable":               {49, 0, loc("code"), false},
	"Deprecated":                           {45, 3, loc("class", "field", "method"), true},
	"RuntimeVisibleAnnotations":            {49, 0, loc("class", "field", "method", "record_component"), true},
	"RuntimeInvisibleAnnotations":          {49, 0, loc("class", "field", "method", "record_component"), true},
	"RuntimeVisibleParameterAnnotations":   {49, 0, loc("method"), true},
	"RuntimeInvisibleParameterAnnotations": {49, 0, loc("method"), true},
	"RuntimeVisibleTypeAnnotations":        {52, 0, loc("class", "field", "method", "code", "record_component"), true},
	"RuntimeInvisibleTypeAnnotations":      {52, 0, loc("class", "field", "method", "code", "record_component"), true},
	"AnnotationDefault":                    {49, 0, loc("method"), true},
	"BootstrapMethods":                     {51, 0, loc("class"), true},
	"MethodParameters":                     {52, 0, loc("method"), true},
	"Module":                               {53, 0, loc("class"), true},
	"ModulePackages":                       {53, 0, loc("class"), true},
	"ModuleMainClass":                      {53, 0, loc("class"), true},
	"NestHost":                             {55, 0, loc("class"), true},
	"NestMembers":                          {55, 0, loc("class"), true},
	"Record":                               {60, 0, loc("class"), true},
	"PermittedSubclasses":                  {61, 0, loc("class"), true},
}

// versionAtLeast reports whether (major, minor) names a class file version
// that is at or after (minMajor, minMinor), where minor is compared only
// when major is equal (JVMS §4.1's version ordering).
func versionAtLeast(major, minor, minMajor, minMinor int) bool {
	if major != minMajor {
		return major > minMajor
	}
	return minor >= minMinor
}

// checkAttributeRule returns an error for attribute name at loc if it violates
// attributeRules' version or location constraint; it does not check
// multiplicity (that requires seeing every attribute in the table at once,
// done by checkAttributeTableRules below).
func checkAttributeRule(name string, loc string, major, minor int) error {
	rule, ok := attributeRules[name]
	if !ok {
		return nil
	}
	if !versionAtLeast(major, minor, rule.MinMajor, rule.MinMinor) {
		return &UnsupportedVersionError{Major: uint16(major), Minor: uint16(minor)}
	}
	if !rule.Locations[loc] {
		return &InvalidDescriptorError{String: name, Position: 0}
	}
	return nil
}

// checkAttributeTableRules additionally enforces AtMostOne across a single
// attribute table, since that can only be checked with the whole table in
// hand (spec.md §4.5 rule 5).
func checkAttributeTableRules(attrs []Attribute, location string, major, minor int) []error {
	var errs []error
	seen := make(map[string]int)
	for _, a := range attrs {
		name := a.AttributeName()
		seen[name]++
		if err := checkAttributeRule(name, location, major, minor); err != nil {
			errs = append(errs, err)
		}
	}
	for name, count := range seen {
		if rule, ok := attributeRules[name]; ok && rule.AtMostOne && count > 1 {
			errs = append(errs, &AttributeLengthMismatchError{Name: name, Expected: 1, Actual: count})
		}
	}
	return errs
}
