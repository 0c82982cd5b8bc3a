// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package base

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlotIsNineBytes(t *testing.T) {
	var payload [8]byte
	copy(payload[:], "abcdefgh")
	s := NewSlot(TagShortString, payload)
	require.Len(t, s, SlotLen)
	require.Equal(t, 9, SlotLen)
}

func TestSlotRoundTrip(t *testing.T) {
	var payload [8]byte
	PutUint64LE(payload[:], 0x0102030405060708)
	s := NewSlot(TagSmallInt, payload)

	buf := s.AppendTo(nil)
	require.Len(t, buf, SlotLen)

	got := DecodeSlot(buf)
	require.Equal(t, TagSmallInt, got.Tag())
	require.Equal(t, payload, got.Payload())
}

func TestTagValid(t *testing.T) {
	for _, tag := range []Tag{TagSingleton, TagSmallInt, TagBigInt, TagFloat, TagShortString, TagLongString, TagTuple, TagList, TagDict} {
		require.True(t, tag.Valid(), "tag %v should be valid", tag)
	}
	require.False(t, Tag(6).Valid())
	require.False(t, Tag(8).Valid())
	require.False(t, Tag(10).Valid())
	require.False(t, Tag(200).Valid())
}

func TestSingletonPayloadRoundTrip(t *testing.T) {
	for _, idx := range []SingletonIndex{SingletonNull, SingletonTrue, SingletonFalse, SingletonEmptyTuple} {
		p := SingletonPayload(idx)
		require.Equal(t, idx, DecodeSingletonIndex(p))
	}
}

func TestHashRecordDeterministic(t *testing.T) {
	a := HashRecord([]byte("hello world"))
	b := HashRecord([]byte("hello world"))
	require.Equal(t, a, b)

	c := HashRecord([]byte("hello worlD"))
	require.NotEqual(t, a, c)
}
