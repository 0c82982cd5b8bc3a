// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package oocstore

import (
	"encoding/json"
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/tailscale/hujson"
)

// Options configures a Store, per spec.md §6 ("max_size in bytes (default:
// large, e.g. 1 TiB). Readers cap and spare-transaction cap sized from CPU
// count.").
type Options struct {
	// MaxSize is the initial-mmap-size hint passed to the KV engine, in
	// bytes. Zero selects DefaultOptions's 1 TiB.
	MaxSize int64

	// ReaderCap bounds the number of concurrent read (View) transactions
	// admitted at once, emulating the LMDB-family engine's max_readers
	// knob against bbolt, which has no native reader cap of its own.
	// Zero selects 2*runtime.NumCPU().
	ReaderCap int

	// SpareTxnCap bounds a second, overflow pool of read transactions a
	// caller can burst into once ReaderCap is exhausted, emulating LMDB's
	// max_spare_txns knob. Zero selects 2*runtime.NumCPU().
	SpareTxnCap int

	// Logger receives the store's structured log lines. Nil selects a
	// zerolog-backed default writing to stderr.
	Logger Logger

	// Metrics receives the store's Prometheus collectors. Nil selects a
	// fresh, unregistered Metrics.
	Metrics *Metrics
}

// DefaultOptions returns the options spec.md §6 describes as the default:
// a large max_size and CPU-scaled concurrency caps.
func DefaultOptions() Options {
	return Options{
		MaxSize:     1 << 40, // 1 TiB
		ReaderCap:   2 * runtime.NumCPU(),
		SpareTxnCap: 2 * runtime.NumCPU(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxSize <= 0 {
		o.MaxSize = d.MaxSize
	}
	if o.ReaderCap <= 0 {
		o.ReaderCap = d.ReaderCap
	}
	if o.SpareTxnCap <= 0 {
		o.SpareTxnCap = d.SpareTxnCap
	}
	return o
}

// fileOptions is the JSONC schema LoadOptions reads, kept distinct from
// Options itself so the on-disk config format doesn't have to track
// Options's in-memory-only fields (Logger, Metrics) verbatim.
type fileOptions struct {
	MaxSizeBytes int64 `json:"max_size_bytes"`
	ReaderCap    int   `json:"reader_cap"`
	SpareTxnCap  int   `json:"spare_txn_cap"`
}

// LoadOptions reads a JSONC (JSON-with-comments) configuration file —
// github.com/tailscale/hujson, following calvinalkan-agent-task's
// config.go — and returns the Options it describes. Fields absent from
// the file fall back to DefaultOptions's values.
func LoadOptions(path string) (Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Options{}, errors.Wrapf(err, "oocstore: reading config %q", path)
	}
	standard, err := hujson.Standardize(raw)
	if err != nil {
		return Options{}, errors.Wrapf(err, "oocstore: parsing config %q", path)
	}
	var fo fileOptions
	if err := json.Unmarshal(standard, &fo); err != nil {
		return Options{}, errors.Wrapf(err, "oocstore: decoding config %q", path)
	}
	opts := Options{
		MaxSize:     fo.MaxSizeBytes,
		ReaderCap:   fo.ReaderCap,
		SpareTxnCap: fo.SpareTxnCap,
	}
	return opts.withDefaults(), nil
}
