// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package oocstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oocstore/oocstore/internal/kvengine"
)

func getListHandle(t *testing.T, s *Store, key Value) *ListHandle {
	t.Helper()
	v, err := s.Get(key)
	require.NoError(t, err)
	lh, ok := v.(*ListHandle)
	require.True(t, ok, "expected *ListHandle, got %T", v)
	return lh
}

// TestListHandle_NegativeIndex resolves spec.md §9's open question: negative
// indices count back from the end, conventionally (i < 0 => i += len), then
// are bounds-checked.
func TestListHandle_NegativeIndex(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set(String("l"), NewList(Int(10), Int(20), Int(30))))
	lh := getListHandle(t, s, String("l"))

	v, err := lh.Get(-1)
	require.NoError(t, err)
	require.True(t, Equal(v, Int(30)))

	v, err = lh.Get(-3)
	require.NoError(t, err)
	require.True(t, Equal(v, Int(10)))

	_, err = lh.Get(-4)
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = lh.Get(3)
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	require.NoError(t, lh.Set(-1, Int(99)))
	v, err = lh.Get(2)
	require.NoError(t, err)
	require.True(t, Equal(v, Int(99)))

	require.NoError(t, lh.Delete(-2))
	eager, err := lh.Eager()
	require.NoError(t, err)
	require.True(t, Equal(eager, NewList(Int(10), Int(99))))
}

func TestListHandle_AppendGrowsLenByOne(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set(String("l"), NewList(Int(1), Int(2))))
	lh := getListHandle(t, s, String("l"))

	before, err := lh.Len()
	require.NoError(t, err)

	require.NoError(t, lh.Append(Int(3)))

	after, err := lh.Len()
	require.NoError(t, err)
	require.Equal(t, before+1, after)

	want := []Value{Int(1), Int(2)}
	for i := 0; i < before; i++ {
		v, err := lh.Get(i)
		require.NoError(t, err)
		require.True(t, Equal(v, want[i]))
	}
	last, err := lh.Get(after - 1)
	require.NoError(t, err)
	require.True(t, Equal(last, Int(3)))
}

func TestListHandle_ClearLeavesNoElementRows(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set(String("l"), NewList(Int(1), Int(2), Int(3))))
	lh := getListHandle(t, s, String("l"))

	require.NoError(t, lh.Clear())

	n, err := lh.Len()
	require.NoError(t, err)
	require.Equal(t, 0, n)

	for _, i := range []int{0, 1, 2, -1} {
		_, err := lh.Get(i)
		require.ErrorIs(t, err, ErrIndexOutOfRange)
	}

	require.NoError(t, s.withRead(func(c *codec) error {
		for i := uint32(0); i < 3; i++ {
			row, err := c.tx.Get(kvengine.TableLists, listElementKey(lh.rawID(), i))
			if err != nil {
				return err
			}
			require.Nil(t, row, "element row %d still present after Clear", i)
		}
		return nil
	}))
}

func TestListHandle_ContainsIndexCount(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set(String("l"), NewList(String("a"), String("b"), String("a"))))
	lh := getListHandle(t, s, String("l"))

	ok, err := lh.Contains(String("b"))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = lh.Contains(String("z"))
	require.NoError(t, err)
	require.False(t, ok)

	idx, found, err := lh.Index(String("a"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 0, idx)

	count, err := lh.Count(String("a"))
	require.NoError(t, err)
	require.Equal(t, 2, count)
}
