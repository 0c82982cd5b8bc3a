// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package base holds the wire-level constants and the fixed 9-byte slot
// encoding shared by the codec, the side tables, and the lazy handles. It
// has no dependency on the KV engine: everything here is pure byte layout.
package base

// Tag is the 1-byte type discriminant that begins every encoded Slot.
type Tag byte

// The tag values are normative: they are the wire format and must not be
// renumbered.
const (
	TagSingleton    Tag = 0
	TagSmallInt     Tag = 1
	TagBigInt       Tag = 2
	TagFloat        Tag = 3
	TagShortString  Tag = 4
	TagLongString   Tag = 5
	TagTuple        Tag = 7
	TagList         Tag = 9
	TagDict         Tag = 11
)

// String gives a short human-readable name, used only in error messages and
// logs.
func (t Tag) String() string {
	switch t {
	case TagSingleton:
		return "singleton"
	case TagSmallInt:
		return "smallint"
	case TagBigInt:
		return "bigint"
	case TagFloat:
		return "float"
	case TagShortString:
		return "shortstring"
	case TagLongString:
		return "longstring"
	case TagTuple:
		return "tuple"
	case TagList:
		return "list"
	case TagDict:
		return "dict"
	default:
		return "invalid"
	}
}

// Valid reports whether t is one of the nine normative tags.
func (t Tag) Valid() bool {
	switch t {
	case TagSingleton, TagSmallInt, TagBigInt, TagFloat, TagShortString,
		TagLongString, TagTuple, TagList, TagDict:
		return true
	default:
		return false
	}
}

// SlotLen is the fixed size of every encoded value, at every nesting depth.
const SlotLen = 9

// Slot is the 9-byte tagged encoding of one value: a Tag followed by an
// 8-byte payload whose interpretation depends on the tag (see the table in
// spec.md §3). Slot composes: a sequence of slots is just their
// concatenation, with no length prefixing needed at any level, because the
// width is fixed.
type Slot [SlotLen]byte

// NewSlot builds a Slot from a tag and an 8-byte payload.
func NewSlot(tag Tag, payload [8]byte) Slot {
	var s Slot
	s[0] = byte(tag)
	copy(s[1:], payload[:])
	return s
}

// Tag returns the slot's type discriminant.
func (s Slot) Tag() Tag {
	return Tag(s[0])
}

// Payload returns the 8-byte payload following the tag.
func (s Slot) Payload() [8]byte {
	var p [8]byte
	copy(p[:], s[1:])
	return p
}

// AppendTo appends the 9 bytes of s to buf and returns the extended slice.
func (s Slot) AppendTo(buf []byte) []byte {
	return append(buf, s[:]...)
}

// DecodeSlot reads a Slot from the first SlotLen bytes of b. The caller must
// ensure len(b) >= SlotLen; use ints/strings/lists records sized as
// multiples of SlotLen plus whatever fixed prefix they carry.
func DecodeSlot(b []byte) Slot {
	var s Slot
	copy(s[:], b[:SlotLen])
	return s
}
