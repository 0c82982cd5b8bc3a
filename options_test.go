// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package oocstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithDefaultsFillsZeroFields(t *testing.T) {
	var o Options
	o = o.withDefaults()
	d := DefaultOptions()
	require.Equal(t, d.MaxSize, o.MaxSize)
	require.Equal(t, d.ReaderCap, o.ReaderCap)
	require.Equal(t, d.SpareTxnCap, o.SpareTxnCap)
}

func TestWithDefaultsPreservesPositiveFields(t *testing.T) {
	o := Options{MaxSize: 1024, ReaderCap: 3, SpareTxnCap: 7}
	got := o.withDefaults()
	require.Equal(t, int64(1024), got.MaxSize)
	require.Equal(t, 3, got.ReaderCap)
	require.Equal(t, 7, got.SpareTxnCap)
}

// TestAcquireReadSlotBurstsIntoSpareBeforeBlocking exercises the two-tier
// admission scheme backing spec.md §6's "readers cap and spare-transaction
// cap": once readSem's steady-state pool is exhausted, the next reader
// should be admitted from spareSem rather than blocking.
func TestAcquireReadSlotBurstsIntoSpareBeforeBlocking(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.ooc")
	opts := DefaultOptions()
	opts.Logger = noopLogger{}
	opts.ReaderCap = 1
	opts.SpareTxnCap = 1
	s, err := Open(path, opts)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })

	ctx := context.Background()

	release1, err := s.acquireReadSlot(ctx)
	require.NoError(t, err)
	require.False(t, s.readSem.TryAcquire(1), "readSem should already be exhausted")

	release2, err := s.acquireReadSlot(ctx)
	require.NoError(t, err)
	require.False(t, s.spareSem.TryAcquire(1), "spareSem should now be exhausted too")

	release1()
	release2()

	require.True(t, s.readSem.TryAcquire(1))
	s.readSem.Release(1)
	require.True(t, s.spareSem.TryAcquire(1))
	s.spareSem.Release(1)
}

func TestLoadOptionsMissingFileErrors(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "does-not-exist.jsonc"))
	require.Error(t, err)
}
