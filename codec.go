// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package oocstore

import (
	"math"
	"math/big"

	"github.com/cockroachdb/errors"

	"github.com/oocstore/oocstore/internal/base"
	"github.com/oocstore/oocstore/internal/identity"
	"github.com/oocstore/oocstore/internal/kvengine"
)

// codec binds a single write/read transaction and identity map to the
// store being operated on, so the encode/decode dispatch functions of
// spec.md §4.1 don't need to thread all three through every call.
type codec struct {
	store *Store
	tx    *kvengine.Tx
	idmap *identity.Map
}

// encode appends exactly nine bytes' worth of slot for v, per spec.md
// §4.1. If write is false, it must not write to any side table, and must
// fail on a mutable compound (ErrMutableWithoutWrite) since those can only
// be represented by an allocated id.
func (c *codec) encode(v Value, write bool) (base.Slot, error) {
	switch val := v.(type) {
	case nil:
		return base.Slot{}, errors.New("oocstore: cannot encode a nil Value")
	case Null:
		return encodeSingleton(base.SingletonNull), nil
	case Bool:
		if val {
			return encodeSingleton(base.SingletonTrue), nil
		}
		return encodeSingleton(base.SingletonFalse), nil
	case Int:
		return encodeSmallInt(int64(val)), nil
	case BigInt:
		if val.Int.IsInt64() {
			return encodeSmallInt(val.Int.Int64()), nil
		}
		return c.encodeBigInt(val.Int, write)
	case Float:
		return encodeFloat(float64(val)), nil
	case String:
		return c.encodeString(string(val), write)
	case Tuple:
		if len(val) == 0 {
			return encodeSingleton(base.SingletonEmptyTuple), nil
		}
		return c.encodeTuple(val, write)
	case *List:
		if !write {
			return base.Slot{}, ErrMutableWithoutWrite
		}
		return c.encodeList(val)
	case *Dict:
		if !write {
			return base.Slot{}, ErrMutableWithoutWrite
		}
		return c.encodeDict(val)
	case *TupleHandle:
		return c.encodeHandle(val.base, val, write)
	case *ListHandle:
		return c.encodeHandle(val.base, val, write)
	case *DictHandle:
		return c.encodeHandle(val.base, val, write)
	default:
		return base.Slot{}, ErrUnsupportedType
	}
}

// encodeHandle re-emits a handle already bound to this store as a direct
// reference (no re-write: it is already on disk). A handle from a
// different store must be materialized and re-encoded as a fresh value in
// this store (spec.md doesn't define cross-store writes explicitly, but
// this is the only sound reading consistent with a handle's slot meaning
// nothing outside the store it was read from).
func (c *codec) encodeHandle(hb handleBase, v Value, write bool) (base.Slot, error) {
	if hb.store == c.store {
		return base.NewSlot(hb.tag, hb.raw), nil
	}
	ev, err := eagerValue(v)
	if err != nil {
		return base.Slot{}, err
	}
	return c.encode(ev, write)
}

func encodeSingleton(idx base.SingletonIndex) base.Slot {
	return base.NewSlot(base.TagSingleton, base.SingletonPayload(idx))
}

func encodeSmallInt(i int64) base.Slot {
	var payload [8]byte
	base.PutUint64LE(payload[:], uint64(i))
	return base.NewSlot(base.TagSmallInt, payload)
}

func encodeFloat(f float64) base.Slot {
	var payload [8]byte
	base.PutUint64LE(payload[:], math.Float64bits(f))
	return base.NewSlot(base.TagFloat, payload)
}

// encodeBigInt encodes an integer overflowing 64 bits at the minimum byte
// length that still fits signed (spec.md §4.1), content-hashes the
// resulting bytes, and inserts them into the ints side table.
func (c *codec) encodeBigInt(i *big.Int, write bool) (base.Slot, error) {
	record := twosComplementLE(i, minSignedByteLen(i))
	digest := base.HashRecord(record)
	if err := c.insertContentAddressed(kvengine.TableInts, digest, record, write); err != nil {
		return base.Slot{}, err
	}
	var payload [8]byte
	copy(payload[:], digest.Bytes())
	return base.NewSlot(base.TagBigInt, payload), nil
}

// encodeString encodes s inline (tag 4) if its UTF-8 bytes fit in 8 bytes,
// otherwise content-hashes it into the strings side table (tag 5).
func (c *codec) encodeString(s string, write bool) (base.Slot, error) {
	b := []byte(s)
	if len(b) <= 8 {
		var payload [8]byte
		copy(payload[:], b)
		return base.NewSlot(base.TagShortString, payload), nil
	}
	digest := base.HashRecord(b)
	if err := c.insertContentAddressed(kvengine.TableStrings, digest, b, write); err != nil {
		return base.Slot{}, err
	}
	var payload [8]byte
	copy(payload[:], digest.Bytes())
	return base.NewSlot(base.TagLongString, payload), nil
}

// encodeTuple recursively encodes each element, inheriting the surrounding
// write scope (spec.md §4.1's correction of the negative-index issue
// applies only to list indexing; here we simply follow "recursively
// encode each element... inheriting the surrounding write scope"
// verbatim), into a scratch record prefixed by a 4-byte length, then
// content-hashes and inserts that record into lists.
func (c *codec) encodeTuple(t Tuple, write bool) (base.Slot, error) {
	record := make([]byte, 4, 4+len(t)*base.SlotLen)
	base.PutUint32LE(record[:4], uint32(len(t)))
	for _, elem := range t {
		slot, err := c.encode(elem, write)
		if err != nil {
			return base.Slot{}, err
		}
		record = slot.AppendTo(record)
	}
	digest := base.HashRecord(record)
	if err := c.insertContentAddressed(kvengine.TableLists, digest, record, write); err != nil {
		return base.Slot{}, err
	}
	var payload [8]byte
	copy(payload[:], digest.Bytes())
	return base.NewSlot(base.TagTuple, payload), nil
}

// encodeList looks up l's identity, reusing an already-allocated list-id,
// or allocates a fresh one and writes its rows (spec.md §4.1, §4.3).
func (c *codec) encodeList(l *List) (base.Slot, error) {
	if key, ok := c.idmap.Lookup(l); ok {
		return listRefSlot(key), nil
	}
	id, err := allocateListID(c.tx)
	if err != nil {
		return base.Slot{}, err
	}
	c.idmap.Record(l, identity.Key(id))

	for i, item := range l.items {
		slot, err := c.encode(item, true)
		if err != nil {
			return base.Slot{}, err
		}
		key := listElementKey(id, uint32(i))
		if err := c.tx.Put(kvengine.TableLists, key, slot.AppendTo(nil)); err != nil {
			return base.Slot{}, err
		}
	}
	lenBuf := make([]byte, 4)
	base.PutUint32LE(lenBuf, uint32(len(l.items)))
	if err := c.tx.Put(kvengine.TableLists, listLengthKey(id), lenBuf); err != nil {
		return base.Slot{}, err
	}
	return listRefSlot(identity.Key(id)), nil
}

func listRefSlot(id identity.Key) base.Slot {
	var payload [8]byte
	copy(payload[:4], id[:])
	return base.NewSlot(base.TagList, payload)
}

// encodeDict looks up d's identity, reusing an already-allocated dict-id,
// or allocates a fresh one and writes its entries.
func (c *codec) encodeDict(d *Dict) (base.Slot, error) {
	if key, ok := c.idmap.Lookup(d); ok {
		return dictRefSlot(key), nil
	}
	id, err := allocateDictID(c.tx)
	if err != nil {
		return base.Slot{}, err
	}
	c.idmap.Record(d, identity.Key(id))

	for _, entry := range d.entries {
		keySlot, err := c.encode(entry.Key, true)
		if err != nil {
			return base.Slot{}, err
		}
		valSlot, err := c.encode(entry.Value, true)
		if err != nil {
			return base.Slot{}, err
		}
		if err := c.tx.Put(kvengine.TableDicts, dictEntryKey(id, keySlot), valSlot.AppendTo(nil)); err != nil {
			return base.Slot{}, err
		}
	}
	lenBuf := make([]byte, 4)
	base.PutUint32LE(lenBuf, uint32(len(d.entries)))
	if err := c.tx.Put(kvengine.TableDicts, id[:], lenBuf); err != nil {
		return base.Slot{}, err
	}
	return dictRefSlot(identity.Key(id)), nil
}

func dictRefSlot(id identity.Key) base.Slot {
	var payload [8]byte
	copy(payload[:4], id[:])
	return base.NewSlot(base.TagDict, payload)
}

// insertContentAddressed performs the no-overwrite insert of spec.md §4.2.
// A no-op under write=false: the digest only depends on bytes already in
// hand, so callers that only need the digest (e.g. encoding a dict key for
// a read-only get) never need to touch the side table at all.
func (c *codec) insertContentAddressed(table kvengine.Table, digest base.Digest, record []byte, write bool) error {
	if !write {
		return nil
	}
	_, collision, err := c.tx.PutNoOverwrite(table, digest.Bytes(), record)
	if err != nil {
		return err
	}
	if collision {
		return errors.Mark(errors.AssertionFailedf(
			"oocstore: digest %x already holds different bytes in %s", digest.Bytes(), table), ErrHashCollision)
	}
	return nil
}

// decode reads slot's tag and returns either a materialized scalar or a
// lazy handle bound to c.store, per spec.md §4.1.
func (c *codec) decode(slot base.Slot) (Value, error) {
	payload := slot.Payload()
	switch slot.Tag() {
	case base.TagSingleton:
		idx := base.DecodeSingletonIndex(payload)
		switch idx {
		case base.SingletonNull:
			return NullValue, nil
		case base.SingletonTrue:
			return Bool(true), nil
		case base.SingletonFalse:
			return Bool(false), nil
		case base.SingletonEmptyTuple:
			return EmptyTuple, nil
		default:
			return nil, ErrCorruptRecord
		}
	case base.TagSmallInt:
		return Int(int64(base.Uint64LE(payload[:]))), nil
	case base.TagBigInt:
		record, err := c.fetchRecord(kvengine.TableInts, payload)
		if err != nil {
			return nil, err
		}
		return NewBigInt(decodeTwosComplementLE(record)), nil
	case base.TagFloat:
		return Float(math.Float64frombits(base.Uint64LE(payload[:]))), nil
	case base.TagShortString:
		return String(decodeShortString(payload)), nil
	case base.TagLongString:
		record, err := c.fetchRecord(kvengine.TableStrings, payload)
		if err != nil {
			return nil, err
		}
		return String(record), nil
	case base.TagTuple:
		var digest base.Digest
		copy(digest[:], payload[:8])
		return newTupleHandle(c.store, digest), nil
	case base.TagList:
		var id identity.Key
		copy(id[:], payload[:4])
		return newListHandle(c.store, id), nil
	case base.TagDict:
		var id identity.Key
		copy(id[:], payload[:4])
		return newDictHandle(c.store, id), nil
	default:
		return nil, ErrCorruptTag
	}
}

func (c *codec) fetchRecord(table kvengine.Table, payload [8]byte) ([]byte, error) {
	record, err := c.tx.Get(table, payload[:])
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrCorruptRecord
	}
	out := make([]byte, len(record))
	copy(out, record)
	return out, nil
}

// decodeShortString recovers the UTF-8 payload of a tag-4 slot by
// stripping trailing zeros to the first zero byte (spec.md §4.1).
func decodeShortString(payload [8]byte) string {
	n := len(payload)
	for i, b := range payload {
		if b == 0 {
			n = i
			break
		}
	}
	return string(payload[:n])
}

// minSignedByteLen returns the smallest byte length >= 9 at which v fits
// as a signed two's-complement integer. Lengths below 9 are never
// produced here: encode only reaches encodeBigInt once v has already
// overflowed signed 64 bits (tag 1's domain), i.e. 8 bytes.
func minSignedByteLen(v *big.Int) int {
	for n := 9; ; n++ {
		if fitsSigned(v, n) {
			return n
		}
	}
}

func fitsSigned(v *big.Int, n int) bool {
	bits := uint(8 * n)
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bits-1), big.NewInt(1))
	min := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), bits-1))
	return v.Cmp(min) >= 0 && v.Cmp(max) <= 0
}

// twosComplementLE encodes v as an n-byte little-endian two's-complement
// integer.
func twosComplementLE(v *big.Int, n int) []byte {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(8*n))
	u := new(big.Int).Mod(v, mod)
	be := u.Bytes()
	buf := make([]byte, n)
	copy(buf[n-len(be):], be)
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf
}

// decodeTwosComplementLE is the inverse of twosComplementLE.
func decodeTwosComplementLE(b []byte) *big.Int {
	n := len(b)
	be := make([]byte, n)
	for i := 0; i < n; i++ {
		be[i] = b[n-1-i]
	}
	u := new(big.Int).SetBytes(be)
	if n > 0 && be[0]&0x80 != 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(8*n))
		u.Sub(u, mod)
	}
	return u
}
