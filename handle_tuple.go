// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package oocstore

import (
	"github.com/oocstore/oocstore/internal/base"
	"github.com/oocstore/oocstore/internal/kvengine"
)

// TupleHandle is the lazy read-through proxy for tag-7 slots (spec.md
// §4.5). It fetches its record by digest from the lists side table; since
// tuples are deeply immutable, the handle carries no write methods.
type TupleHandle struct {
	base   handleBase
	digest base.Digest
}

func newTupleHandle(store *Store, digest base.Digest) *TupleHandle {
	var raw [8]byte
	copy(raw[:], digest.Bytes())
	return &TupleHandle{base: handleBase{store: store, tag: base.TagTuple, raw: raw}, digest: digest}
}

func (*TupleHandle) Kind() Kind { return KindTuple }

func (h *TupleHandle) ref() handleBase { return h.base }

func (h *TupleHandle) record() ([]byte, error) {
	var record []byte
	err := h.base.store.withRead(func(c *codec) error {
		rec, err := c.tx.Get(kvengine.TableLists, h.digest.Bytes())
		if err != nil {
			return err
		}
		if rec == nil {
			return ErrCorruptRecord
		}
		record = append([]byte(nil), rec...)
		return nil
	})
	return record, err
}

// Len returns the number of elements in the tuple.
func (h *TupleHandle) Len() (int, error) {
	record, err := h.record()
	if err != nil {
		return 0, err
	}
	if len(record) < 4 {
		return 0, ErrCorruptRecord
	}
	return int(base.Uint32LE(record[:4])), nil
}

// Get returns element i, or ErrIndexOutOfRange if i is out of bounds.
// Tuple indexing is never negative-normalized: any negative i is out of
// range.
func (h *TupleHandle) Get(i int) (Value, error) {
	record, err := h.record()
	if err != nil {
		return nil, err
	}
	if len(record) < 4 {
		return nil, ErrCorruptRecord
	}
	n := int(base.Uint32LE(record[:4]))
	if i < 0 || i >= n {
		return nil, ErrIndexOutOfRange
	}
	off := 4 + i*base.SlotLen
	if off+base.SlotLen > len(record) {
		return nil, ErrCorruptRecord
	}
	slot := base.DecodeSlot(record[off : off+base.SlotLen])
	var v Value
	err = h.base.store.withRead(func(c *codec) error {
		vv, err := c.decode(slot)
		v = vv
		return err
	})
	return v, err
}

// Eager materializes one level of the tuple as a Tuple: nested compounds
// are not decoded recursively and remain handles until their own Eager is
// called.
func (h *TupleHandle) Eager() (Value, error) {
	n, err := h.Len()
	if err != nil {
		return nil, err
	}
	items := make(Tuple, n)
	for i := 0; i < n; i++ {
		v, err := h.Get(i)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return items, nil
}

// Contains reports whether v appears among the tuple's elements.
func (h *TupleHandle) Contains(v Value) (bool, error) {
	n, err := h.Len()
	if err != nil {
		return false, err
	}
	for i := 0; i < n; i++ {
		e, err := h.Get(i)
		if err != nil {
			return false, err
		}
		if Equal(e, v) {
			return true, nil
		}
	}
	return false, nil
}

// Index returns the first index at which v appears, and false if absent.
func (h *TupleHandle) Index(v Value) (int, bool, error) {
	n, err := h.Len()
	if err != nil {
		return 0, false, err
	}
	for i := 0; i < n; i++ {
		e, err := h.Get(i)
		if err != nil {
			return 0, false, err
		}
		if Equal(e, v) {
			return i, true, nil
		}
	}
	return 0, false, nil
}

// Count returns the number of elements equal to v.
func (h *TupleHandle) Count(v Value) (int, error) {
	n, err := h.Len()
	if err != nil {
		return 0, err
	}
	count := 0
	for i := 0; i < n; i++ {
		e, err := h.Get(i)
		if err != nil {
			return 0, err
		}
		if Equal(e, v) {
			count++
		}
	}
	return count, nil
}
