// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package oocstore

import (
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ooc")
	opts := DefaultOptions()
	opts.Logger = noopLogger{}
	opts.ReaderCap = 4
	s, err := Open(path, opts)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

// TestMixedScalars is spec.md §8 scenario 1.
func TestMixedScalars(t *testing.T) {
	s := newTestStore(t)

	bigVal := new(big.Int)
	_, ok := bigVal.SetString("162259276829213363391578010288127", 10)
	require.True(t, ok)

	entries := map[string]Value{
		"smallint": Int(42),
		"largeint": NewBigInt(bigVal),
		"float":    Float(1.0 / 3.0),
		"smallstr": String("ok"),
		"longstr":  String("Wer lesen kann ist klar im Vorteil."),
		"8str":     String("12345678"),
		"bool":     Bool(true),
		"none":     NullValue,
		"emptytup": EmptyTuple,
	}
	for k, v := range entries {
		require.NoError(t, s.Set(String(k), v))
	}
	n, err := s.Len()
	require.NoError(t, err)
	require.Equal(t, len(entries), n)

	for k, v := range entries {
		got, err := s.Get(String(k))
		require.NoError(t, err)
		require.True(t, Equal(v, got), "key %s: want %v got %v", k, v, got)
	}

	for k := range entries {
		require.NoError(t, s.Delete(String(k)))
	}
	n, err = s.Len()
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

// TestTupleOfMixed is spec.md §8 scenario 2.
func TestTupleOfMixed(t *testing.T) {
	s := newTestStore(t)

	beatles := Tuple{String("Paul"), String("Ringo"), String("George"), String("John Winston Ono Lennon")}
	require.NoError(t, s.Set(Int(999), beatles))

	m999, err := s.Get(Int(999))
	require.NoError(t, err)

	require.NoError(t, s.Set(Int(0), Tuple{Int(1), Float(2.0), String("three"), m999}))

	m0, err := s.Get(Int(0))
	require.NoError(t, err)
	require.True(t, Equal(m0, Tuple{Int(1), Float(2.0), String("three"), beatles}))

	th, ok := m0.(*TupleHandle)
	require.True(t, ok)
	n, err := th.Len()
	require.NoError(t, err)
	require.Equal(t, 4, n)

	elem3, err := th.Get(3)
	require.NoError(t, err)
	require.True(t, Equal(elem3, m999))
}

// TestListMutation is spec.md §8 scenario 3.
func TestListMutation(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Set(Int(999), Tuple{String("Paul"), String("Ringo")}))
	m999, err := s.Get(Int(999))
	require.NoError(t, err)

	l := NewList(Int(1), Float(2.0), String("three"), m999)
	require.NoError(t, s.Set(Int(0), l))

	m0, err := s.Get(Int(0))
	require.NoError(t, err)
	lh, ok := m0.(*ListHandle)
	require.True(t, ok)

	require.NoError(t, lh.Append(Int(4)))
	eager, err := lh.Eager()
	require.NoError(t, err)
	require.True(t, Equal(eager, NewList(Int(1), Float(2.0), String("three"), m999, Int(4))))

	// Shrink back down to two elements with negative-index deletes, then
	// overwrite both with negative-index sets.
	require.NoError(t, lh.Delete(-1))
	require.NoError(t, lh.Delete(-1))
	require.NoError(t, lh.Delete(-1))

	require.NoError(t, lh.Set(-2, NullValue))
	require.NoError(t, lh.Set(-1, NullValue))
	eager, err = lh.Eager()
	require.NoError(t, err)
	require.True(t, Equal(eager, NewList(NullValue, NullValue)))

	require.NoError(t, lh.Clear())
	n, err := lh.Len()
	require.NoError(t, err)
	require.Equal(t, 0, n)
	eager, err = lh.Eager()
	require.NoError(t, err)
	require.True(t, Equal(eager, NewList()))
}

// TestDictCompositeKeys is spec.md §8 scenario 4.
func TestDictCompositeKeys(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Set(Int(999), Tuple{String("Paul"), String("Ringo")}))
	m999, err := s.Get(Int(999))
	require.NoError(t, err)

	d := NewDict()
	d.Set(String("three"), Int(3))
	d.Set(Tuple{Int(1), Int(2), Int(3)}, String("onetwothree"))
	d.Set(m999, String("the beatles"))

	require.NoError(t, s.Set(String("d"), d))

	got, err := s.Get(String("d"))
	require.NoError(t, err)
	dh, ok := got.(*DictHandle)
	require.True(t, ok)

	n, err := dh.Len()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	v, err := dh.Get(String("three"))
	require.NoError(t, err)
	require.True(t, Equal(v, Int(3)))

	v, err = dh.Get(Tuple{Int(1), Int(2), Int(3)})
	require.NoError(t, err)
	require.True(t, Equal(v, String("onetwothree")))

	v, err = dh.Get(m999)
	require.NoError(t, err)
	require.True(t, Equal(v, String("the beatles")))

	// Deleting absent keys yields ErrKeyNotFound and leaves len unchanged.
	absentKeys := []Value{Int(2), String("not-three"), Tuple{Int(9), Int(9)}}
	for _, k := range absentKeys {
		err := dh.Delete(k)
		require.ErrorIs(t, err, ErrKeyNotFound)
	}
	n, err = dh.Len()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	require.NoError(t, dh.Delete(String("three")))
	n, err = dh.Len()
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

// TestCrossStoreReferences is spec.md §8 scenario 5: a handle read out of
// one store, written into a list belonging to a different store, is
// eagerly materialized and re-encoded as a fresh value there.
func TestCrossStoreReferences(t *testing.T) {
	a := newTestStore(t)
	b := newTestStore(t)

	var handles []Value
	for i, name := range []string{"alpha", "beta", "gamma"} {
		require.NoError(t, a.Set(Int(i), Tuple{String(name)}))
		h, err := a.Get(Int(i))
		require.NoError(t, err)
		_, ok := h.(*TupleHandle)
		require.True(t, ok, "expected *TupleHandle from store a, got %T", h)
		handles = append(handles, h)
	}

	l := NewList(handles[0], handles[1], handles[2])
	require.NoError(t, b.Set(String("refs"), l))

	got, err := b.Get(String("refs"))
	require.NoError(t, err)
	lh, ok := got.(*ListHandle)
	require.True(t, ok)

	eager, err := lh.Eager()
	require.NoError(t, err)
	require.True(t, Equal(eager, NewList(Tuple{String("alpha")}, Tuple{String("beta")}, Tuple{String("gamma")})))

	// A handle re-materialized into store b is now bound to b, not a.
	elem, err := lh.Get(0)
	require.NoError(t, err)
	eh, ok := elem.(*TupleHandle)
	require.True(t, ok)
	require.True(t, Equal(eh, Tuple{String("alpha")}))
}

// TestContentInterning is spec.md §8 scenario 6.
func TestContentInterning(t *testing.T) {
	s := newTestStore(t)

	long := String("this string is definitely longer than eight bytes")
	require.NoError(t, s.Set(String("k1"), long))
	require.NoError(t, s.Set(String("k2"), long))

	v1, err := s.Get(String("k1"))
	require.NoError(t, err)
	v2, err := s.Get(String("k2"))
	require.NoError(t, err)
	require.True(t, Equal(v1, v2))
	require.True(t, Equal(v1, long))
}

func TestKeyNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(String("missing"))
	require.ErrorIs(t, err, ErrKeyNotFound)
	require.ErrorIs(t, s.Delete(String("missing")), ErrKeyNotFound)
}

func TestBoolDistinctFromInt(t *testing.T) {
	require.False(t, Equal(Bool(true), Int(1)))
	require.False(t, Equal(Bool(false), Int(0)))
	require.True(t, Equal(Bool(true), Bool(true)))
}
