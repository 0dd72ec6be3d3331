// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bloom_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/xrouterd/bloom"
	"github.com/bitmark-inc/xrouterd/fault"
)

func TestInsertContains(t *testing.T) {
	f, err := bloom.New(64, 5, 0x12345678)
	assert.Nil(t, err, "new")

	a, _ := hex.DecodeString("99108ad8ed9bb6274d3980bab5a85c048f0950c8")
	b, _ := hex.DecodeString("b5a2c786d9ef4658287ced5914b37a1b4aa32eee")
	f.Insert(a)

	assert.True(t, f.Contains(a), "inserted item missing")
	assert.False(t, f.Contains(b), "unexpected match")
	assert.True(t, f.MatchesAny(b, a), "match any failed")
}

func TestEncodeDecode(t *testing.T) {
	f, err := bloom.New(300, 11, 7)
	assert.Nil(t, err, "new")
	f.Insert([]byte("address-one"))

	encoded := f.Encode()
	assert.Equal(t, byte(0xfd), encoded[0], "length should use 3 byte compact size")

	g, err := bloom.Decode(encoded)
	assert.Nil(t, err, "decode")
	assert.True(t, g.Contains([]byte("address-one")), "decoded filter lost item")
	assert.Equal(t, encoded, g.Encode(), "encoding changed")
}

func TestDecodeErrors(t *testing.T) {
	_, err := bloom.Decode(nil)
	assert.Equal(t, fault.ErrInvalidBloomFilter, err, "empty")

	_, err = bloom.Decode([]byte{0x02, 0x00})
	assert.Equal(t, fault.ErrInvalidBloomFilter, err, "truncated")

	_, err = bloom.Decode([]byte{0xfd, 0xff, 0xff})
	assert.Equal(t, fault.ErrBloomFilterTooLarge, err, "oversize")

	f, _ := bloom.New(8, 3, 0)
	encoded := f.Encode()
	encoded[len(encoded)-9] = 99 // hash count
	_, err = bloom.Decode(encoded)
	assert.Equal(t, fault.ErrInvalidBloomFilter, err, "too many hash functions")
}

func TestNewLimits(t *testing.T) {
	_, err := bloom.New(bloom.MaximumFilterBytes+1, 1, 0)
	assert.Equal(t, fault.ErrBloomFilterTooLarge, err, "oversize")

	_, err = bloom.New(10, 0, 0)
	assert.Equal(t, fault.ErrInvalidBloomFilter, err, "no hash functions")
}
