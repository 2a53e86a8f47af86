// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "github.com/go-kratos/kratos/v2/log"

// newHelper builds the *log.Helper that Decode keeps on the ClassFile for
// non-fatal diagnostics, mirroring pe.New's construction of pe.File.logger: filter
// down to warnings and above by default so routine decodes stay quiet, but
// never silently swallow an Error-level call.
func newHelper(base log.Logger) *log.Helper {
	if base == nil {
		base = log.NewStdLogger(discardWriter{})
	}
	filtered := log.NewFilter(base, log.FilterLevel(log.LevelWarn))
	return log.NewHelper(filtered)
}
