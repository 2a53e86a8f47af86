// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "github.com/go-kratos/kratos/v2/log"

// Default caps applied when a DecodeOptions field is left at its zero value.
// These bound allocation driven by untrusted count/length fields per the
// resource policy in spec.md §5: a 16-bit count field can claim up to 65535
// entries, and a 32-bit length field up to 4 GiB, neither of which this
// package will blindly allocate for.
const (
	DefaultMaxConstantPoolEntries  = 1 << 16
	DefaultMaxAttributeTableEntries = 1 << 16
	DefaultMaxCodeArrayLength       = 1 << 20 // JVMS caps a method's code at 65535 bytes; this is a decode-time guard, not a verifier rule.
	DefaultMaxExceptionTableEntries = 1 << 16
)

// DecodeOptions controls non-default decode behavior, mirroring the shape of
// the teacher's pe.Options: a small set of knobs with sensible zero-value
// defaults, backfilled by normalizedOptions rather than required of the
// caller.
type DecodeOptions struct {
	// Fast relaxes three decode-time checks on a method's Code array:
	// non-zero tableswitch/lookupswitch padding bytes, a non-zero fourth
	// byte of invokeinterface, and non-zero trailing bytes of invokedynamic
	// are accepted instead of rejected. Instructions are still decoded in
	// full, the Verifier does not consult Fast, and the accepted non-zero
	// bytes are not kept in the decoded Instruction.
	Fast bool

	// MaxConstantPoolEntries caps constant_pool_count. Zero means
	// DefaultMaxConstantPoolEntries.
	MaxConstantPoolEntries int

	// MaxAttributeTableEntries caps any attributes_count field (class,
	// field, method, or Code). Zero means DefaultMaxAttributeTableEntries.
	MaxAttributeTableEntries int

	// MaxCodeArrayLength caps a Code attribute's code_length. Zero means
	// DefaultMaxCodeArrayLength.
	MaxCodeArrayLength int

	// MaxExceptionTableEntries caps a Code attribute's
	// exception_table_length. Zero means DefaultMaxExceptionTableEntries.
	MaxExceptionTableEntries int

	// Logger receives non-fatal diagnostics emitted while decoding (e.g. a
	// recoverable attribute-level inconsistency encountered while skipping
	// an attribute this package does not need to interpret further). A nil
	// Logger falls back to a discard logger, mirroring pe.New's default.
	Logger log.Logger
}

// normalizedOptions returns opts with every zero-valued field replaced by
// its default, never mutating the caller's struct. A nil opts returns an
// all-defaults struct.
func normalizedOptions(opts *DecodeOptions) *DecodeOptions {
	out := DecodeOptions{}
	if opts != nil {
		out = *opts
	}
	if out.MaxConstantPoolEntries == 0 {
		out.MaxConstantPoolEntries = DefaultMaxConstantPoolEntries
	}
	if out.MaxAttributeTableEntries == 0 {
		out.MaxAttributeTableEntries = DefaultMaxAttributeTableEntries
	}
	if out.MaxCodeArrayLength == 0 {
		out.MaxCodeArrayLength = DefaultMaxCodeArrayLength
	}
	if out.MaxExceptionTableEntries == 0 {
		out.MaxExceptionTableEntries = DefaultMaxExceptionTableEntries
	}
	if out.Logger == nil {
		out.Logger = log.NewStdLogger(discardWriter{})
	}
	return &out
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
