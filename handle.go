// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package oocstore

import (
	"github.com/oocstore/oocstore/internal/base"
)

// handleBase is the fingerprint shared by all three lazy handle kinds
// (spec.md §4.5: "Three variants share a fingerprint (store, key)"). tag
// and raw together are exactly the 8-byte payload plus tag byte of the
// slot the handle was decoded from, so two handles compare equal without
// ever touching the KV engine.
type handleBase struct {
	store *Store
	tag   base.Tag
	raw   [8]byte
}

func (h handleBase) sameRef(o handleBase) bool {
	return h.store == o.store && h.tag == o.tag && h.raw == o.raw
}

// handleRef is implemented by *TupleHandle, *ListHandle, and *DictHandle
// so that Equal, Less, and friends can apply the (store,key) shortcut of
// spec.md §4.5 without a type switch over all three.
type handleRef interface {
	ref() handleBase
}

// isHandleSelf reports whether a and b are handles with an identical
// fingerprint — spec.md §4.5's "two handles with identical (store,key)
// short-circuit the equality-implying comparisons to true and the strict
// ones to false."
func isHandleSelf(a, b Value) bool {
	ah, aok := a.(handleRef)
	if !aok {
		return false
	}
	bh, bok := b.(handleRef)
	if !bok {
		return false
	}
	return ah.ref().sameRef(bh.ref())
}

// LessOrEqual and the comparisons below implement spec.md §4.5's ordering
// operators: they delegate to Compare, except that two handles with an
// identical fingerprint short-circuit the equality-implying comparisons
// (<=, >=) to true and the strict ones (<, >) to false, without touching
// the KV engine.

func Less(a, b Value) (bool, error) {
	if isHandleSelf(a, b) {
		return false, nil
	}
	c, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return c < 0, nil
}

func LessOrEqual(a, b Value) (bool, error) {
	if isHandleSelf(a, b) {
		return true, nil
	}
	c, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return c <= 0, nil
}

func Greater(a, b Value) (bool, error) {
	if isHandleSelf(a, b) {
		return false, nil
	}
	c, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

func GreaterOrEqual(a, b Value) (bool, error) {
	if isHandleSelf(a, b) {
		return true, nil
	}
	c, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return c >= 0, nil
}

// eager is the duck-typed interface a lazy handle satisfies to materialize
// into a native structured value.
type eager interface {
	Eager() (Value, error)
}

// eagerValue materializes v if it is a lazy handle, surfacing any read
// error. See eagerIfHandle (value.go) for the error-swallowing variant
// used by Equal, where a failed fetch should simply compare unequal
// rather than abort the whole comparison.
func eagerValue(v Value) (Value, error) {
	if e, ok := v.(eager); ok {
		return e.Eager()
	}
	return v, nil
}
