// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package oocstore

import (
	"github.com/cockroachdb/errors"

	"github.com/oocstore/oocstore/internal/kvengine"
)

// Error kinds surfaced to callers (spec.md §7). Each is a sentinel created
// with cockroachdb/errors so callers can use errors.Is, matching the
// teacher's own error idiom throughout
// _examples/darshanime-pebble/sstable/table.go and
// _examples/darshanime-pebble/value_separation.go.
var (
	// ErrKeyNotFound is returned by Get/Delete on a missing top-level or
	// dict key.
	ErrKeyNotFound = errors.New("oocstore: key not found")

	// ErrIndexOutOfRange is returned by a handle's indexed Get/Set/Delete
	// when the index is out of bounds after negative-index normalization.
	ErrIndexOutOfRange = errors.New("oocstore: index out of range")

	// ErrUnsupportedType is returned when the codec is asked to encode a
	// Go value that is not one of the nine supported Kinds.
	ErrUnsupportedType = errors.New("oocstore: unsupported type")

	// ErrMutableWithoutWrite is returned when a List or Dict is
	// encountered while encoding with write=false (e.g. encoding a key for
	// a read-only lookup): mutable compounds can only be encoded by
	// allocating an id, which requires a write transaction.
	ErrMutableWithoutWrite = errors.New("oocstore: mutable value encoded without a write transaction")

	// ErrCorruptTag is returned when decode reads a tag byte outside the
	// nine normative values.
	ErrCorruptTag = errors.New("oocstore: corrupt tag")

	// ErrCorruptRecord is returned when a side-table record violates the
	// layout invariants of spec.md §3 (e.g. a length row that disagrees
	// with the element rows actually present).
	ErrCorruptRecord = errors.New("oocstore: corrupt record")

	// ErrHashCollision is the sentinel errors.Is callers match against when
	// a content-addressed no-overwrite insert observes a key that already
	// holds different bytes, a state that should be unreachable given a
	// sound digest. codec.go's insertContentAddressed raises it via
	// errors.AssertionFailedf (marked with this sentinel), mirroring
	// _examples/darshanime-pebble/value_separation.go's
	// errors.AssertionFailedf("pebble: blob file %s not found...").
	ErrHashCollision = errors.New("oocstore: hash collision")

	// ErrStorageFull and ErrStorageIO are re-exported from the KV engine
	// unchanged (spec.md §7: "surfaced from the KV engine unchanged").
	ErrStorageFull = kvengine.ErrStorageFull
	ErrStorageIO   = kvengine.ErrStorageIO
)

func errUnsupportedCompare(a, b Value) error {
	return errors.Newf("oocstore: %s and %s are not orderable", a.Kind(), b.Kind())
}

// errIsKeyNotFound reports whether err is (or wraps) ErrKeyNotFound, used
// by DictHandle.Contains to turn a miss into (false, nil) rather than
// propagating the sentinel as an error.
func errIsKeyNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}
