// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package oocstore

// List is the host-side representation of a mutable list (spec.md §3/§4.3):
// a plain in-memory container a caller builds up and passes to Store.Set.
// Its Go pointer identity is what the identity map of §4.3 tracks — two
// Set calls in the same write scope that pass the same *List share one
// on-disk list-id and are written once.
//
// Once read back, a list is represented by *ListHandle, not *List; List
// exists purely for the write side and for ListHandle.Eager()'s
// materialized result.
type List struct {
	items []Value
}

// NewList builds a host List from the given items, in order.
func NewList(items ...Value) *List {
	l := &List{items: make([]Value, len(items))}
	copy(l.items, items)
	return l
}

func (*List) Kind() Kind { return KindList }

// Len returns the number of elements currently in l.
func (l *List) Len() int { return len(l.items) }

// Get returns the element at index i (no negative-index normalization:
// that belongs to ListHandle, which is the form spec.md §9's open question
// concerns).
func (l *List) Get(i int) Value { return l.items[i] }

// Items returns the elements of l. The returned slice aliases l's storage;
// callers that need to retain it independently should copy it.
func (l *List) Items() []Value { return l.items }

// Append adds v to the end of l.
func (l *List) Append(v Value) { l.items = append(l.items, v) }

func listEqual(a *List, b Value) bool {
	bv := eagerIfHandle(b)
	bl, ok := bv.(*List)
	if !ok {
		return false
	}
	if len(a.items) != len(bl.items) {
		return false
	}
	for i := range a.items {
		if !Equal(a.items[i], bl.items[i]) {
			return false
		}
	}
	return true
}

// DictEntry is one key/value pair of a Dict, in insertion order.
type DictEntry struct {
	Key   Value
	Value Value
}

// Dict is the host-side representation of a mutable dict (spec.md §3/§4.3).
// Keys may be any Value, including tuples and handles into this or another
// store (spec.md §8 scenario 4); since arbitrary Values are not all Go-
// comparable (a Tuple is a slice), Dict keeps entries in an ordered slice
// and does key lookup by Equal rather than by Go map identity.
//
// As with List, a stored dict is read back as *DictHandle, not *Dict; Dict
// is the write-side and DictHandle.Eager() form.
type Dict struct {
	entries []DictEntry
}

// NewDict returns an empty host Dict.
func NewDict() *Dict {
	return &Dict{}
}

func (*Dict) Kind() Kind { return KindDict }

// Len returns the number of entries in d.
func (d *Dict) Len() int { return len(d.entries) }

// Entries returns d's entries in insertion order. The returned slice
// aliases d's storage.
func (d *Dict) Entries() []DictEntry { return d.entries }

// Get returns the value associated with k, if any.
func (d *Dict) Get(k Value) (Value, bool) {
	for _, e := range d.entries {
		if Equal(e.Key, k) {
			return e.Value, true
		}
	}
	return nil, false
}

// Set inserts or overwrites the entry for k.
func (d *Dict) Set(k, v Value) {
	for i, e := range d.entries {
		if Equal(e.Key, k) {
			d.entries[i].Value = v
			return
		}
	}
	d.entries = append(d.entries, DictEntry{Key: k, Value: v})
}

// Delete removes the entry for k, if present, and reports whether it was.
func (d *Dict) Delete(k Value) bool {
	for i, e := range d.entries {
		if Equal(e.Key, k) {
			d.entries = append(d.entries[:i], d.entries[i+1:]...)
			return true
		}
	}
	return false
}

func dictEqual(a *Dict, b Value) bool {
	bv := eagerIfHandle(b)
	bd, ok := bv.(*Dict)
	if !ok {
		return false
	}
	if len(a.entries) != len(bd.entries) {
		return false
	}
	for _, e := range a.entries {
		v, ok := bd.Get(e.Key)
		if !ok || !Equal(e.Value, v) {
			return false
		}
	}
	return true
}
