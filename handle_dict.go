// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package oocstore

import (
	"github.com/oocstore/oocstore/internal/base"
	"github.com/oocstore/oocstore/internal/identity"
	"github.com/oocstore/oocstore/internal/kvengine"
)

// DictHandle is the lazy read-through, mutate-in-place proxy for tag-11
// slots (spec.md §4.5).
type DictHandle struct {
	base handleBase
	id   identity.Key
}

func newDictHandle(store *Store, id identity.Key) *DictHandle {
	var raw [8]byte
	copy(raw[:4], id[:])
	return &DictHandle{base: handleBase{store: store, tag: base.TagDict, raw: raw}, id: id}
}

func (*DictHandle) Kind() Kind { return KindDict }

func (h *DictHandle) ref() handleBase { return h.base }

func (h *DictHandle) rawID() [4]byte { return [4]byte(h.id) }

func (h *DictHandle) length(tx *kvengine.Tx) (int, error) {
	id := h.rawID()
	rec, err := tx.Get(kvengine.TableDicts, id[:])
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, ErrCorruptRecord
	}
	return int(base.Uint32LE(rec)), nil
}

// Len returns the number of entries in the dict.
func (h *DictHandle) Len() (int, error) {
	var n int
	err := h.base.store.withRead(func(c *codec) error {
		v, err := h.length(c.tx)
		n = v
		return err
	})
	return n, err
}

// Get encodes k with write=false and fetches the matching entry.
func (h *DictHandle) Get(k Value) (Value, error) {
	var v Value
	err := h.base.store.withRead(func(c *codec) error {
		keySlot, err := c.encode(k, false)
		if err != nil {
			return err
		}
		valBytes, err := c.tx.Get(kvengine.TableDicts, dictEntryKey(h.rawID(), keySlot))
		if err != nil {
			return err
		}
		if valBytes == nil {
			return ErrKeyNotFound
		}
		vv, err := c.decode(base.DecodeSlot(valBytes))
		v = vv
		return err
	})
	return v, err
}

// Contains is Get-and-discard.
func (h *DictHandle) Contains(k Value) (bool, error) {
	_, err := h.Get(k)
	if err == nil {
		return true, nil
	}
	if errIsKeyNotFound(err) {
		return false, nil
	}
	return false, err
}

// Set encodes k and v in a single write scope and puts the entry,
// incrementing the length cell only if the key did not already exist.
func (h *DictHandle) Set(k, v Value) error {
	return h.base.store.withWrite(func(c *codec) error {
		keySlot, err := c.encode(k, true)
		if err != nil {
			return err
		}
		entryKey := dictEntryKey(h.rawID(), keySlot)
		existing, err := c.tx.Get(kvengine.TableDicts, entryKey)
		if err != nil {
			return err
		}
		valSlot, err := c.encode(v, true)
		if err != nil {
			return err
		}
		if err := c.tx.Put(kvengine.TableDicts, entryKey, valSlot.AppendTo(nil)); err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
		n, err := h.length(c.tx)
		if err != nil {
			return err
		}
		return h.putLength(c.tx, n+1)
	})
}

// Delete removes the entry for k, decrementing the length cell; it
// reports ErrKeyNotFound if k was absent.
func (h *DictHandle) Delete(k Value) error {
	return h.base.store.withWrite(func(c *codec) error {
		keySlot, err := c.encode(k, false)
		if err != nil {
			return err
		}
		entryKey := dictEntryKey(h.rawID(), keySlot)
		existing, err := c.tx.Get(kvengine.TableDicts, entryKey)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrKeyNotFound
		}
		if err := c.tx.Delete(kvengine.TableDicts, entryKey); err != nil {
			return err
		}
		n, err := h.length(c.tx)
		if err != nil {
			return err
		}
		return h.putLength(c.tx, n-1)
	})
}

func (h *DictHandle) putLength(tx *kvengine.Tx, n int) error {
	buf := make([]byte, 4)
	base.PutUint32LE(buf, uint32(n))
	id := h.rawID()
	return tx.Put(kvengine.TableDicts, id[:], buf)
}

// Entries materializes every (key, value) pair, in KV cursor order (not
// insertion order: the on-disk layout has no insertion-order record).
func (h *DictHandle) Entries() ([]DictEntry, error) {
	var entries []DictEntry
	err := h.base.store.withRead(func(c *codec) error {
		id := h.rawID()
		var scanErr error
		err := c.tx.PrefixScan(kvengine.TableDicts, id[:], func(key, value []byte) bool {
			if len(key) == 4 {
				return true // the length cell, not an entry
			}
			if len(key) != 4+base.SlotLen || len(value) != base.SlotLen {
				scanErr = ErrCorruptRecord
				return false
			}
			keySlot := base.DecodeSlot(key[4:])
			valSlot := base.DecodeSlot(value)
			kv, err := c.decode(keySlot)
			if err != nil {
				scanErr = err
				return false
			}
			vv, err := c.decode(valSlot)
			if err != nil {
				scanErr = err
				return false
			}
			entries = append(entries, DictEntry{Key: kv, Value: vv})
			return true
		})
		if err != nil {
			return err
		}
		return scanErr
	})
	return entries, err
}

// Eager materializes the dict as a *Dict.
func (h *DictHandle) Eager() (Value, error) {
	entries, err := h.Entries()
	if err != nil {
		return nil, err
	}
	d := NewDict()
	for _, e := range entries {
		d.Set(e.Key, e.Value)
	}
	return d, nil
}
