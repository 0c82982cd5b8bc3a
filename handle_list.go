// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package oocstore

import (
	"github.com/oocstore/oocstore/internal/base"
	"github.com/oocstore/oocstore/internal/identity"
	"github.com/oocstore/oocstore/internal/kvengine"
)

// ListHandle is the lazy read-through, mutate-in-place proxy for tag-9
// slots (spec.md §4.5).
type ListHandle struct {
	base handleBase
	id   identity.Key
}

func newListHandle(store *Store, id identity.Key) *ListHandle {
	var raw [8]byte
	copy(raw[:4], id[:])
	return &ListHandle{base: handleBase{store: store, tag: base.TagList, raw: raw}, id: id}
}

func (*ListHandle) Kind() Kind { return KindList }

func (h *ListHandle) ref() handleBase { return h.base }

func (h *ListHandle) rawID() [4]byte { return [4]byte(h.id) }

func (h *ListHandle) length(tx *kvengine.Tx) (int, error) {
	rec, err := tx.Get(kvengine.TableLists, listLengthKey(h.rawID()))
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, ErrCorruptRecord
	}
	return int(base.Uint32LE(rec)), nil
}

// Len returns the number of elements in the list.
func (h *ListHandle) Len() (int, error) {
	var n int
	err := h.base.store.withRead(func(c *codec) error {
		v, err := h.length(c.tx)
		n = v
		return err
	})
	return n, err
}

// normalizeListIndex applies the conventional Python semantics (spec.md
// §9's open question): negative indices count back from the end, then
// the result is bounds-checked.
func normalizeListIndex(i, n int) (int, error) {
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, ErrIndexOutOfRange
	}
	return i, nil
}

// Get returns element i (negative i counts from the end).
func (h *ListHandle) Get(i int) (Value, error) {
	var v Value
	err := h.base.store.withRead(func(c *codec) error {
		n, err := h.length(c.tx)
		if err != nil {
			return err
		}
		idx, err := normalizeListIndex(i, n)
		if err != nil {
			return err
		}
		slotBytes, err := c.tx.Get(kvengine.TableLists, listElementKey(h.rawID(), uint32(idx)))
		if err != nil {
			return err
		}
		if slotBytes == nil {
			return ErrCorruptRecord
		}
		vv, err := c.decode(base.DecodeSlot(slotBytes))
		v = vv
		return err
	})
	return v, err
}

// Set encodes val (in a fresh write scope; the list itself is already
// allocated) and overwrites element i.
func (h *ListHandle) Set(i int, val Value) error {
	return h.base.store.withWrite(func(c *codec) error {
		n, err := h.length(c.tx)
		if err != nil {
			return err
		}
		idx, err := normalizeListIndex(i, n)
		if err != nil {
			return err
		}
		slot, err := c.encode(val, true)
		if err != nil {
			return err
		}
		return c.tx.Put(kvengine.TableLists, listElementKey(h.rawID(), uint32(idx)), slot.AppendTo(nil))
	})
}

// Append encodes val, writes it as the new last element, and grows the
// length row by one.
func (h *ListHandle) Append(val Value) error {
	return h.base.store.withWrite(func(c *codec) error {
		n, err := h.length(c.tx)
		if err != nil {
			return err
		}
		slot, err := c.encode(val, true)
		if err != nil {
			return err
		}
		if err := c.tx.Put(kvengine.TableLists, listElementKey(h.rawID(), uint32(n)), slot.AppendTo(nil)); err != nil {
			return err
		}
		return h.putLength(c.tx, n+1)
	})
}

// Clear deletes every element row and resets the length row to zero.
func (h *ListHandle) Clear() error {
	return h.base.store.withWrite(func(c *codec) error {
		n, err := h.length(c.tx)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := c.tx.Delete(kvengine.TableLists, listElementKey(h.rawID(), uint32(i))); err != nil {
				return err
			}
		}
		return h.putLength(c.tx, 0)
	})
}

// Delete removes the element at index i (negative i counts from the
// end), shifting every later element down by one and shrinking the
// length row.
func (h *ListHandle) Delete(i int) error {
	return h.base.store.withWrite(func(c *codec) error {
		n, err := h.length(c.tx)
		if err != nil {
			return err
		}
		idx, err := normalizeListIndex(i, n)
		if err != nil {
			return err
		}
		for j := idx; j < n-1; j++ {
			v, err := c.tx.Get(kvengine.TableLists, listElementKey(h.rawID(), uint32(j+1)))
			if err != nil {
				return err
			}
			if v == nil {
				return ErrCorruptRecord
			}
			if err := c.tx.Put(kvengine.TableLists, listElementKey(h.rawID(), uint32(j)), v); err != nil {
				return err
			}
		}
		if err := c.tx.Delete(kvengine.TableLists, listElementKey(h.rawID(), uint32(n-1))); err != nil {
			return err
		}
		return h.putLength(c.tx, n-1)
	})
}

func (h *ListHandle) putLength(tx *kvengine.Tx, n int) error {
	buf := make([]byte, 4)
	base.PutUint32LE(buf, uint32(n))
	return tx.Put(kvengine.TableLists, listLengthKey(h.rawID()), buf)
}

// Eager materializes the list as a *List.
func (h *ListHandle) Eager() (Value, error) {
	n, err := h.Len()
	if err != nil {
		return nil, err
	}
	items := make([]Value, n)
	for i := 0; i < n; i++ {
		v, err := h.Get(i)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return &List{items: items}, nil
}

// Contains reports whether v appears among the list's elements.
func (h *ListHandle) Contains(v Value) (bool, error) {
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
func (h *ListHandle) Index(v Value) (int, bool, error) {
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
func (h *ListHandle) Count(v Value) (int, error) {
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
