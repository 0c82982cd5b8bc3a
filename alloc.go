// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package oocstore

import (
	"crypto/rand"

	"github.com/oocstore/oocstore/internal/base"
	"github.com/oocstore/oocstore/internal/kvengine"
)

// allocateID draws a random 4-byte id and retries until probe reports it
// free, per spec.md §4.3: "draw a random 4-byte id and retry until get(id)
// on the relevant sub-database returns absent." crypto/rand is used rather
// than seeding a math/rand source per store: it is already an
// unconditional dependency of the Go runtime, needs no seeding, and the
// allocation rate here (once per new mutable compound) is far too low for
// its extra cost to matter.
func allocateID(tx *kvengine.Tx, probe func(id [4]byte) (free bool, err error)) ([4]byte, error) {
	for {
		var id [4]byte
		if _, err := rand.Read(id[:]); err != nil {
			return id, err
		}
		free, err := probe(id)
		if err != nil {
			return id, err
		}
		if free {
			return id, nil
		}
	}
}

// allocateListID allocates a fresh 4-byte list-id, checking for collision
// against the length-row key that every list (and the rare adversarial
// tuple-digest collision) would occupy. See spec.md §4.3: "list-ids are 4
// bytes whereas tuple-record digests are 8 bytes, so their keyspaces do
// not overlap" — probing the exact length-row key (id ‖ 0xFFFFFFFF) is
// therefore sufficient.
func allocateListID(tx *kvengine.Tx) ([4]byte, error) {
	return allocateID(tx, func(id [4]byte) (bool, error) {
		key := listLengthKey(id)
		v, err := tx.Get(kvengine.TableLists, key)
		if err != nil {
			return false, err
		}
		return v == nil, nil
	})
}

// allocateDictID allocates a fresh 4-byte dict-id, checking for collision
// against the dict's length cell.
func allocateDictID(tx *kvengine.Tx) ([4]byte, error) {
	return allocateID(tx, func(id [4]byte) (bool, error) {
		v, err := tx.Get(kvengine.TableDicts, id[:])
		if err != nil {
			return false, err
		}
		return v == nil, nil
	})
}

// listLengthKey returns the 8-byte key of a list's length row: list-id ‖
// 0xFFFFFFFF (spec.md §3: "the length row is distinguishable because
// 0xFFFFFFFF cannot be a valid element index").
func listLengthKey(id [4]byte) []byte {
	key := make([]byte, 8)
	copy(key[:4], id[:])
	base.PutUint32LE(key[4:], 0xFFFFFFFF)
	return key
}

// listElementKey returns the 8-byte key of element i of list id.
func listElementKey(id [4]byte, i uint32) []byte {
	key := make([]byte, 8)
	copy(key[:4], id[:])
	base.PutUint32LE(key[4:], i)
	return key
}

// dictEntryKey returns the 13-byte key of a dict entry: dict-id ‖
// 9-byte encoded key slot.
func dictEntryKey(id [4]byte, keySlot base.Slot) []byte {
	key := make([]byte, 4+base.SlotLen)
	copy(key[:4], id[:])
	copy(key[4:], keySlot[:])
	return key
}
