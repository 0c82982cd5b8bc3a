// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package kvengine

import (
	"errors"
	"syscall"

	cockroacherrors "github.com/cockroachdb/errors"
	bolt "go.etcd.io/bbolt"
)

// ErrStorageFull and ErrStorageIO are the sentinels kvengine surfaces for
// "StorageFull / StorageIo — surfaced from the KV engine unchanged"
// (spec.md §7). The parent package re-exports these unchanged so callers
// never need to import kvengine directly to check them.
var (
	ErrStorageFull = cockroacherrors.New("oocstore: storage full")
	ErrStorageIO   = cockroacherrors.New("oocstore: storage I/O error")
)

func wrapOpenErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, syscall.ENOSPC) {
		return cockroacherrors.Mark(cockroacherrors.Wrap(err, "oocstore: opening store"), ErrStorageFull)
	}
	return cockroacherrors.Wrap(err, "oocstore: opening store")
}

func wrapTxErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, syscall.ENOSPC) {
		return cockroacherrors.Mark(cockroacherrors.Wrap(err, "oocstore: storage transaction"), ErrStorageFull)
	}
	if errors.Is(err, bolt.ErrDatabaseNotOpen) || errors.Is(err, bolt.ErrTxClosed) {
		return cockroacherrors.Mark(cockroacherrors.Wrap(err, "oocstore: storage transaction"), ErrStorageIO)
	}
	return cockroacherrors.Wrap(err, "oocstore: storage transaction")
}
