// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package oocstore is a persistent, file-backed associative container
// whose keys and values may be composite structured data: integers of
// arbitrary width, floats, strings, the null/bool/empty-tuple singletons,
// fixed-length tuples, and mutable lists and dicts keyed by any of the
// above.
//
// A Store wraps a single on-disk file accessed through bbolt, an mmap'd,
// copy-on-write B+tree with the same transactional shape LMDB-family
// engines provide: named sub-databases, snapshot-isolated read/write
// transactions, point get/put/delete, and prefix cursors.
//
//	s, err := oocstore.Open("data.ooc", oocstore.DefaultOptions())
//	...
//	err = s.Set(oocstore.String("key"), oocstore.Int(42))
//	v, err := s.Get(oocstore.String("key"))
//
// Every value is encoded as a 9-byte tagged slot. Scalars decode
// immediately; tuples, lists, and dicts decode as lazy handles
// (*TupleHandle, *ListHandle, *DictHandle) bound to the store and an
// on-disk key, deferring their own reads until an operation actually asks
// for an element. Lists and dicts are further mutable in place through
// their handles, without rewriting the whole structure.
package oocstore
