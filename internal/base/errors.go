// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package base

import "github.com/cockroachdb/errors"

// CorruptionErrorf builds an error for a slot or record that violates the
// invariants of spec.md §3. Named and shaped after the teacher's own
// base.CorruptionErrorf, used throughout
// _examples/darshanime-pebble/sstable/table.go's footer parsing (e.g.
// "(bad metaindex block handle)").
func CorruptionErrorf(format string, args ...interface{}) error {
	return errors.Newf("oocstore: corrupt record: "+format, args...)
}
