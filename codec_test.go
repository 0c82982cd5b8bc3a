// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package oocstore

import (
	"math/big"
	"testing"

	"github.com/kr/pretty"
	"github.com/stretchr/testify/require"

	"github.com/oocstore/oocstore/internal/kvengine"
)

// roundTrip writes v under a fresh key and returns what Get reads back.
func roundTrip(t *testing.T, s *Store, v Value) Value {
	t.Helper()
	require.NoError(t, s.Set(String("k"), v))
	got, err := s.Get(String("k"))
	require.NoError(t, err)
	return got
}

func TestScalarRoundTrip(t *testing.T) {
	s := newTestStore(t)

	huge := new(big.Int)
	_, ok := huge.SetString("-99999999999999999999999999999999999999999999", 10)
	require.True(t, ok)

	cases := []Value{
		NullValue,
		Bool(true),
		Bool(false),
		Int(0),
		Int(-1),
		Int(42),
		Int(1 << 62),
		NewBigInt(huge),
		Float(0),
		Float(-1.5),
		Float(1.0 / 3.0),
		String(""),
		String("12345678"), // exactly 8 bytes: short-string boundary
		String("123456789"), // 9 bytes: long-string boundary
		String("Wer lesen kann ist klar im Vorteil."),
		EmptyTuple,
	}
	for _, v := range cases {
		got := roundTrip(t, s, v)
		require.True(t, Equal(v, got), "want %#v got %#v", v, got)
	}
}

// TestSlotIsAlwaysNineBytes spot-checks invariant 1 of spec.md §3 across
// the scalar kinds other than BigInt, plus the empty tuple, by reaching
// into the codec directly.
func TestSlotIsAlwaysNineBytes(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Update(func(txn *Txn) error {
		c := &codec{store: s, tx: txn.kv, idmap: txn.idmap}
		values := []Value{
			NullValue, Bool(true), Int(7), Float(2.5), String("short"),
			String("this one is definitely longer than eight bytes"),
			EmptyTuple,
		}
		for _, v := range values {
			slot, err := c.encode(v, true)
			if err != nil {
				return err
			}
			require.Len(t, slot, 9)
		}
		return nil
	}))
}

// TestContentAddressedInsertIsIdempotent checks spec.md §4.2's no-overwrite
// rule: re-inserting identical bytes is a no-op, and the side table gains
// at most one row for a value encoded twice.
func TestContentAddressedInsertIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	long := "this string is definitely longer than eight bytes"

	var before, afterFirst, afterSecond int
	require.NoError(t, s.Update(func(txn *Txn) error {
		n, err := txn.kv.Entries(kvengine.TableStrings)
		before = n
		return err
	}))

	require.NoError(t, s.Set(String("a"), String(long)))
	require.NoError(t, s.Update(func(txn *Txn) error {
		n, err := txn.kv.Entries(kvengine.TableStrings)
		afterFirst = n
		return err
	}))

	require.NoError(t, s.Set(String("b"), String(long)))
	require.NoError(t, s.Update(func(txn *Txn) error {
		n, err := txn.kv.Entries(kvengine.TableStrings)
		afterSecond = n
		return err
	}))

	require.Equal(t, before+1, afterFirst)
	require.Equal(t, afterFirst, afterSecond)
}

// TestBigIntRoundTripNegativeAndPositive exercises the two's-complement
// packing on both sides of zero, at a size that overflows the 64-bit small
// int tag.
func TestBigIntRoundTripNegativeAndPositive(t *testing.T) {
	s := newTestStore(t)
	for _, dec := range []string{
		"162259276829213363391578010288127",
		"-162259276829213363391578010288127",
		"18446744073709551616", // 2^64, one past uint64 range (int64 ends at 2^63-1)
		"-18446744073709551617",
	} {
		v := new(big.Int)
		_, ok := v.SetString(dec, 10)
		require.True(t, ok, dec)
		got := roundTrip(t, s, NewBigInt(v))
		require.True(t, Equal(NewBigInt(v), got), "want %s got %v", dec, got)
	}
}

// TestPrettyDiffIsStableForEqualTuples checks that two eagerly-materialized
// tuples built from identical content format identically under
// github.com/kr/pretty, the diff formatter the teacher's own data-driven
// tests reach for when a require.Equal failure needs a readable dump.
func TestPrettyDiffIsStableForEqualTuples(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set(String("a"), Tuple{Int(1), String("two"), Float(3.0)}))
	require.NoError(t, s.Set(String("b"), Tuple{Int(1), String("two"), Float(3.0)}))

	va, err := s.Get(String("a"))
	require.NoError(t, err)
	vb, err := s.Get(String("b"))
	require.NoError(t, err)

	ea, err := eagerValue(va)
	require.NoError(t, err)
	eb, err := eagerValue(vb)
	require.NoError(t, err)

	require.Equal(t, pretty.Sprint(ea), pretty.Sprint(eb))
}

func TestHandleEqualsSelf(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set(String("k"), Tuple{Int(1), Int(2)}))
	a, err := s.Get(String("k"))
	require.NoError(t, err)
	b, err := s.Get(String("k"))
	require.NoError(t, err)

	require.True(t, Equal(a, b))
	require.True(t, isHandleSelf(a, b))

	le, err := LessOrEqual(a, b)
	require.NoError(t, err)
	require.True(t, le)
	ge, err := GreaterOrEqual(a, b)
	require.NoError(t, err)
	require.True(t, ge)
	lt, err := Less(a, b)
	require.NoError(t, err)
	require.False(t, lt)
	gt, err := Greater(a, b)
	require.NoError(t, err)
	require.False(t, gt)
}
