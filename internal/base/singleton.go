// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package base

// SingletonIndex enumerates the process-wide constant singleton table
// (spec.md §3): every instance of this module, on every host, assigns the
// same index to the same hardcoded value. Indices are part of the wire
// format and must never be renumbered or reused for a different meaning.
type SingletonIndex uint64

const (
	SingletonNull SingletonIndex = iota
	SingletonTrue
	SingletonFalse
	SingletonEmptyTuple

	numSingletons
)

// SingletonCount is the number of entries in the singleton table.
const SingletonCount = int(numSingletons)

// SingletonPayload encodes idx as the little-endian 8-byte payload of a
// TagSingleton slot.
func SingletonPayload(idx SingletonIndex) [8]byte {
	var p [8]byte
	putUint64LE(p[:], uint64(idx))
	return p
}

// DecodeSingletonIndex reads back the index written by SingletonPayload.
func DecodeSingletonIndex(payload [8]byte) SingletonIndex {
	return SingletonIndex(uint64LE(payload[:]))
}

// Valid reports whether idx names one of the known singletons.
func (idx SingletonIndex) Valid() bool {
	return idx < numSingletons
}
