// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package kvengine

import (
	"bytes"

	"github.com/cockroachdb/errors"
	bolt "go.etcd.io/bbolt"
)

// Tx is one read or read-write transaction scope across all five side
// tables — the realization of spec.md §6's "read and read-write
// transactions with snapshot isolation".
type Tx struct {
	btx      *bolt.Tx
	writable bool
}

// Writable reports whether tx can mutate the store.
func (tx *Tx) Writable() bool {
	return tx.writable
}

func (tx *Tx) bucket(t Table) (*bolt.Bucket, error) {
	b := tx.btx.Bucket([]byte(t))
	if b == nil {
		return nil, errors.Newf("oocstore: bucket %q does not exist", t)
	}
	return b, nil
}

// Get fetches the value stored under key in table t. A nil, nil return
// means the key is absent (bbolt's Get never errors). The returned slice
// aliases bbolt's mmap region and is only valid for the lifetime of the
// transaction — copy it before the transaction ends if it must outlive tx.
func (tx *Tx) Get(t Table, key []byte) ([]byte, error) {
	b, err := tx.bucket(t)
	if err != nil {
		return nil, err
	}
	return b.Get(key), nil
}

// Put writes key -> value in table t, overwriting any existing value.
func (tx *Tx) Put(t Table, key, value []byte) error {
	if !tx.writable {
		return errors.New("oocstore: Put called on a read-only transaction")
	}
	b, err := tx.bucket(t)
	if err != nil {
		return err
	}
	return wrapTxErr(b.Put(key, value))
}

// PutNoOverwrite implements the content-addressed insert of spec.md §4.2:
// "attempt put(digest, bytes, no_overwrite=true)". bbolt has no native
// no-overwrite put, so this checks first. If an entry already exists with
// different bytes, collision is true and the caller (codec.go) raises
// ErrHashCollision; if it exists with identical bytes, this is a silent
// no-op (spec.md invariant: "identical content stores once").
func (tx *Tx) PutNoOverwrite(t Table, key, value []byte) (inserted bool, collision bool, err error) {
	if !tx.writable {
		return false, false, errors.New("oocstore: PutNoOverwrite called on a read-only transaction")
	}
	b, err := tx.bucket(t)
	if err != nil {
		return false, false, err
	}
	existing := b.Get(key)
	if existing != nil {
		if bytes.Equal(existing, value) {
			return false, false, nil
		}
		return false, true, nil
	}
	if err := b.Put(key, value); err != nil {
		return false, false, wrapTxErr(err)
	}
	return true, false, nil
}

// Delete removes key from table t. Deleting an absent key is a no-op,
// matching bbolt semantics; callers distinguish "was present" by checking
// Get first, as Store.Delete does.
func (tx *Tx) Delete(t Table, key []byte) error {
	if !tx.writable {
		return errors.New("oocstore: Delete called on a read-only transaction")
	}
	b, err := tx.bucket(t)
	if err != nil {
		return err
	}
	return wrapTxErr(b.Delete(key))
}

// Entries returns the number of key/value pairs currently in table t —
// spec.md §6's stat(db).entries.
func (tx *Tx) Entries(t Table) (int, error) {
	b, err := tx.bucket(t)
	if err != nil {
		return 0, err
	}
	return b.Stats().KeyN, nil
}

// CursorFunc is called once per key/value pair found by PrefixScan, in key
// order. Returning false stops the scan early.
type CursorFunc func(key, value []byte) (more bool)

// PrefixScan positions a cursor at the first key >= prefix in table t and
// calls fn for every subsequent key that still has prefix as a byte
// prefix — spec.md §6's "cursor.seek(prefix), cursor.next()". Used by
// DictHandle iteration (dict-id ‖ encoded-key rows).
func (tx *Tx) PrefixScan(t Table, prefix []byte, fn CursorFunc) error {
	b, err := tx.bucket(t)
	if err != nil {
		return err
	}
	c := b.Cursor()
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		if !fn(k, v) {
			break
		}
	}
	return nil
}
