// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package oocstore

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/semaphore"

	"github.com/oocstore/oocstore/internal/base"
	"github.com/oocstore/oocstore/internal/identity"
	"github.com/oocstore/oocstore/internal/kvengine"
)

// Store is an open out-of-core associative container (spec.md §1/§6): one
// KV-engine file plus the codec, identity-map, logging, and metrics
// machinery layered over it.
type Store struct {
	engine  *kvengine.Engine
	opts    Options
	logger  Logger
	metrics *Metrics

	// readSem bounds the steady-state pool of concurrent read
	// transactions, standing in for the LMDB-family engine's max_readers
	// knob (spec.md §5, §6), which bbolt has no native equivalent of.
	readSem *semaphore.Weighted

	// spareSem bounds a second, overflow pool a reader can burst into once
	// readSem is exhausted rather than blocking outright, standing in for
	// LMDB's max_spare_txns knob.
	spareSem *semaphore.Weighted
}

// Open opens (creating if necessary) the store file at path.
func Open(path string, opts Options) (*Store, error) {
	opts = opts.withDefaults()
	engine, err := kvengine.Open(path, opts.MaxSize)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = NewZerologLogger()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}
	s := &Store{
		engine:   engine,
		opts:     opts,
		logger:   logger,
		metrics:  metrics,
		readSem:  semaphore.NewWeighted(int64(opts.ReaderCap)),
		spareSem: semaphore.NewWeighted(int64(opts.SpareTxnCap)),
	}
	logger.Infof("oocstore: opened store path=%s max_size=%s reader_cap=%d spare_txn_cap=%d", path, humanize.Bytes(uint64(opts.MaxSize)), opts.ReaderCap, opts.SpareTxnCap)
	return s, nil
}

// Close releases the store's file and mmap. Safe to call once.
func (s *Store) Close() error {
	size, sizeErr := s.engine.Size()
	if err := s.engine.Close(); err != nil {
		s.logger.Errorf("oocstore: close failed: %v", err)
		return err
	}
	if sizeErr == nil {
		s.metrics.setDBSize(size)
		s.logger.Infof("oocstore: closed store path=%s size=%s", s.engine.Path(), humanize.Bytes(uint64(size)))
	} else {
		s.logger.Infof("oocstore: closed store path=%s", s.engine.Path())
	}
	return nil
}

// Set encodes key and value and inserts them as a single top-level write
// (spec.md §4.4).
func (s *Store) Set(key, value Value) error {
	return s.Update(func(txn *Txn) error {
		return txn.Set(key, value)
	})
}

// Get encodes key (read-only) and decodes the matching entry, returning
// ErrKeyNotFound if absent.
func (s *Store) Get(key Value) (Value, error) {
	var v Value
	err := s.withRead(func(c *codec) error {
		keySlot, err := c.encode(key, false)
		if err != nil {
			return err
		}
		valBytes, err := c.tx.Get(kvengine.TableRoot, keySlot.AppendTo(nil))
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

// Delete removes key, returning ErrKeyNotFound if it was absent.
func (s *Store) Delete(key Value) error {
	return s.Update(func(txn *Txn) error {
		return txn.Delete(key)
	})
}

// Len returns the number of top-level entries.
func (s *Store) Len() (int, error) {
	var n int
	err := s.withRead(func(c *codec) error {
		v, err := c.tx.Entries(kvengine.TableRoot)
		n = v
		return err
	})
	return n, err
}

// Update groups one or more Set/Delete calls into a single KV write
// transaction and a single identity map — the transaction scope of
// spec.md §4.4. Do not call Update (or Store.Set/Delete/Get) from inside
// another Update's callback on the same Store: use the *Txn passed to fn
// for every nested Set/Delete/Get instead, exactly as bbolt itself
// disallows nesting db.Update calls. A Txn's calls already share one
// underlying transaction and one identity map, which is what makes
// recursively-triggered writes (e.g. a tuple nested inside the value
// being set) share the outermost scope per spec.md §4.4, without this
// package needing a literal reentrant KV transaction.
func (s *Store) Update(fn func(txn *Txn) error) error {
	start := time.Now()
	err := s.engine.Update(func(kv *kvengine.Tx) error {
		txn := &Txn{store: s, kv: kv, idmap: identity.New()}
		return fn(txn)
	})
	s.metrics.observe("update", "write", start, err)
	if err != nil {
		s.logger.Errorf("oocstore: write failed: %v", err)
	}
	return err
}

// withRead acquires a read-admission slot, opens a View transaction, and
// calls fn with a read-only codec bound to it.
func (s *Store) withRead(fn func(c *codec) error) error {
	release, err := s.acquireReadSlot(context.Background())
	if err != nil {
		return err
	}
	defer release()

	start := time.Now()
	err = s.engine.View(func(tx *kvengine.Tx) error {
		c := &codec{store: s, tx: tx}
		return fn(c)
	})
	s.metrics.observe("read", "read", start, err)
	return err
}

// acquireReadSlot admits one reader. It prefers readSem's steady-state
// pool, spills into spareSem's burst capacity if readSem is momentarily
// full, and otherwise blocks on readSem rather than growing either pool
// unbounded. Stands in for LMDB's distinction between its regular and
// spare reader slots.
func (s *Store) acquireReadSlot(ctx context.Context) (func(), error) {
	if s.readSem.TryAcquire(1) {
		return func() { s.readSem.Release(1) }, nil
	}
	if s.spareSem.TryAcquire(1) {
		return func() { s.spareSem.Release(1) }, nil
	}
	if err := s.readSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { s.readSem.Release(1) }, nil
}

// withWrite is withRead's write-side counterpart, used by handle mutation
// methods: each is its own top-level operation, opening a fresh Txn/codec
// pair via Update.
func (s *Store) withWrite(fn func(c *codec) error) error {
	return s.Update(func(txn *Txn) error {
		c := &codec{store: s, tx: txn.kv, idmap: txn.idmap}
		return fn(c)
	})
}
