// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package kvengine binds the KV-engine collaborator contract of spec.md §6
// (named sub-databases, read/write transactions with snapshot isolation,
// point get/put/delete, prefix cursors, entry counts) to a concrete
// engine: go.etcd.io/bbolt, a single-file mmap'd copy-on-write B+tree with
// exactly that transaction model.
package kvengine

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	bolt "go.etcd.io/bbolt"
)

// Table names the five side tables of spec.md §2/§3. Each is a distinct
// bbolt bucket, created eagerly at Open.
type Table string

const (
	TableRoot    Table = "root"
	TableInts    Table = "ints"
	TableStrings Table = "strings"
	TableLists   Table = "lists"
	TableDicts   Table = "dicts"
)

// tables lists every side table that must exist before the engine is
// usable; order only matters for the single bucket-creation transaction at
// Open.
var tables = [...]Table{TableRoot, TableInts, TableStrings, TableLists, TableDicts}

// Engine is the opened store: one bbolt file with the five side-table
// buckets. It has no notion of the codec, identity map, or Value type above
// it — those live in the parent package and talk to Engine only through Tx.
type Engine struct {
	db *bolt.DB
}

// Open opens (creating if necessary) the single-file store at path and
// ensures all five side tables exist. maxSize is advisory: unlike the LMDB
// collaborator spec.md's Python original assumes, bbolt grows its mmap
// region on demand, so maxSize is used only as an initial-mmap-size hint to
// avoid repeated remaps for stores expected to grow large immediately.
func Open(path string, maxSize int64) (*Engine, error) {
	opts := &bolt.Options{
		Timeout: time.Second,
	}
	if maxSize > 0 {
		// InitialMmapSize is a hint, not a cap; bbolt will grow past it.
		opts.InitialMmapSize = int(clampInt64(maxSize, 1<<30))
	}
	db, err := bolt.Open(path, 0o600, opts)
	if err != nil {
		return nil, wrapOpenErr(err)
	}
	e := &Engine{db: db}
	if err := e.db.Update(func(tx *bolt.Tx) error {
		for _, t := range tables {
			if _, err := tx.CreateBucketIfNotExists([]byte(t)); err != nil {
				return errors.Wrapf(err, "oocstore: creating bucket %q", t)
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return e, nil
}

func clampInt64(v, max int64) int64 {
	if v > max {
		return max
	}
	return v
}

// Close releases the underlying file and mmap. It is safe to call once.
func (e *Engine) Close() error {
	return e.db.Close()
}

// Path returns the file path backing the engine.
func (e *Engine) Path() string {
	return e.db.Path()
}

// Size returns the current on-disk file size in bytes, used by the metrics
// and logging components.
func (e *Engine) Size() (int64, error) {
	fi, err := os.Stat(e.db.Path())
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// Update runs fn inside a single read-write bbolt transaction covering all
// five tables: this is the "one KV transaction" of spec.md §4.4. If fn
// returns an error, every write inside it is rolled back and fn's error is
// returned as is; only errors from the engine itself are wrapped.
func (e *Engine) Update(fn func(tx *Tx) error) error {
	fnFailed := false
	err := e.db.Update(func(btx *bolt.Tx) error {
		if err := fn(&Tx{btx: btx, writable: true}); err != nil {
			fnFailed = true
			return err
		}
		return nil
	})
	if fnFailed {
		return err
	}
	return wrapTxErr(err)
}

// View runs fn inside a read-only bbolt transaction against a consistent
// snapshot. As with Update, fn's own error is returned as is.
func (e *Engine) View(fn func(tx *Tx) error) error {
	fnFailed := false
	err := e.db.View(func(btx *bolt.Tx) error {
		if err := fn(&Tx{btx: btx, writable: false}); err != nil {
			fnFailed = true
			return err
		}
		return nil
	})
	if fnFailed {
		return err
	}
	return wrapTxErr(err)
}
