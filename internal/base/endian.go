// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package base

import "encoding/binary"

// These wrap encoding/binary.LittleEndian throughout the package so every
// fixed-width field in the wire format — singleton indices, small ints,
// floats, list/dict ids, index selectors, record lengths — goes through one
// place. The wire format is little-endian everywhere (spec.md §3/§6: "the
// wire format is little-endian").

func putUint32LE(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
func uint32LE(b []byte) uint32       { return binary.LittleEndian.Uint32(b) }
func putUint64LE(b []byte, v uint64) { binary.LittleEndian.PutUint64(b, v) }
func uint64LE(b []byte) uint64       { return binary.LittleEndian.Uint64(b) }

// PutUint32LE and Uint32LE are the exported forms, used by codec.go and the
// handle types to encode/decode list-ids, dict-ids, and index selectors.
func PutUint32LE(b []byte, v uint32) { putUint32LE(b, v) }
func Uint32LE(b []byte) uint32       { return uint32LE(b) }
func PutUint64LE(b []byte, v uint64) { putUint64LE(b, v) }
func Uint64LE(b []byte) uint64       { return uint64LE(b) }
