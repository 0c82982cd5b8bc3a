// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package oocstore

import (
	"github.com/oocstore/oocstore/internal/base"
	"github.com/oocstore/oocstore/internal/identity"
	"github.com/oocstore/oocstore/internal/kvengine"
)

// Txn is the transaction scope of spec.md §4.4: one top-level caller-visible
// write opens exactly one Txn, backed by one KV write transaction and one
// identity map. Every Set/Delete issued through the same Txn — whether
// called directly by Store.Update's caller, or indirectly because a value
// being encoded recursively needs to write — shares that one transaction
// and one identity map, which is what makes nested logical writes share
// the outermost scope without ever nesting a second bbolt transaction
// (bbolt, unlike the LMDB-family engine spec.md assumes, has no native
// nested-transaction support).
type Txn struct {
	store *Store
	kv    *kvengine.Tx
	idmap *identity.Map
}

// Set encodes key and value (allocating ids and writing side-table rows
// for any mutable compounds reached along the way) and inserts
// root[encoded-key] = encoded-value.
func (t *Txn) Set(key, value Value) error {
	c := &codec{store: t.store, tx: t.kv, idmap: t.idmap}
	keySlot, err := c.encode(key, true)
	if err != nil {
		return err
	}
	valSlot, err := c.encode(value, true)
	if err != nil {
		return err
	}
	return t.kv.Put(kvengine.TableRoot, keySlot.AppendTo(nil), valSlot.AppendTo(nil))
}

// Get encodes key with write=false and decodes the matching root entry,
// if any.
func (t *Txn) Get(key Value) (Value, error) {
	c := &codec{store: t.store, tx: t.kv, idmap: t.idmap}
	keySlot, err := c.encode(key, false)
	if err != nil {
		return nil, err
	}
	valBytes, err := t.kv.Get(kvengine.TableRoot, keySlot.AppendTo(nil))
	if err != nil {
		return nil, err
	}
	if valBytes == nil {
		return nil, ErrKeyNotFound
	}
	return c.decode(base.DecodeSlot(valBytes))
}

// Delete removes key from root, reporting ErrKeyNotFound if it was absent.
func (t *Txn) Delete(key Value) error {
	c := &codec{store: t.store, tx: t.kv, idmap: t.idmap}
	keySlot, err := c.encode(key, false)
	if err != nil {
		return err
	}
	rootKey := keySlot.AppendTo(nil)
	existing, err := t.kv.Get(kvengine.TableRoot, rootKey)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrKeyNotFound
	}
	return t.kv.Delete(kvengine.TableRoot, rootKey)
}
