// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package identity implements the per-write identity map of spec.md §4.3:
// a scratch mapping from host-object identity to the on-disk id already
// allocated for it during the current write, scoped to one Txn (spec.md
// §4.4).
package identity

import "github.com/cockroachdb/swiss"

// Key is a 4-byte list-id or dict-id, as allocated by §4.3.
type Key [4]byte

// Map tracks identity -> allocated-id for the lists and dicts seen so far
// in the current write. It is keyed by host pointer identity (the address
// of the caller's *List or *Dict), exactly the role Python's id(value)
// plays in oocmap.py's self.id_to_key. Built on cockroachdb/swiss rather
// than a plain Go map. Store.Update creates a fresh Map for every write
// scope, so each scope starts empty (spec.md §4.4 "clears the identity map
// at entry/exit").
type Map struct {
	m *swiss.Map[any, Key]
}

// New returns an empty identity map, ready for one write scope.
func New() *Map {
	return &Map{m: swiss.New[any, Key](8)}
}

// Lookup returns the id already allocated for obj in this write scope, if
// any. obj must be a *List or *Dict pointer (or any other comparable
// pointer-identity host type a future mutable compound might add).
func (m *Map) Lookup(obj any) (Key, bool) {
	return m.m.Get(obj)
}

// Record associates obj with id for the remainder of this write scope.
// Per spec.md §4.3, this must be called before recursing into obj's
// children, so that self-referential structures terminate.
func (m *Map) Record(obj any, id Key) {
	m.m.Put(obj, id)
}

// Reset clears the map by replacing it with a fresh, empty one.
func (m *Map) Reset() {
	m.m = swiss.New[any, Key](8)
}

// Len reports how many host objects have been recorded so far. Exposed for
// tests and metrics only.
func (m *Map) Len() int {
	return m.m.Len()
}
