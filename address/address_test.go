// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package address_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/xrouterd/address"
	"github.com/bitmark-inc/xrouterd/fault"
)

func TestDecodeKnownAddress(t *testing.T) {
	// genesis block coinbase address
	version, hash, err := address.Decode("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa")
	assert.Nil(t, err, "decode")
	assert.Equal(t, byte(0), version, "wrong version")
	assert.Equal(t, "62e907b15cbf27d5425399ebf6f0fb50ebb88f18", hex.EncodeToString(hash), "wrong hash")
}

func TestEncodeDecode(t *testing.T) {
	hash, _ := hex.DecodeString("62e907b15cbf27d5425399ebf6f0fb50ebb88f18")
	s := address.Encode(0, hash)
	assert.Equal(t, "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", s, "wrong address")
}

func TestDecodeBadChecksum(t *testing.T) {
	_, _, err := address.Decode("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNb")
	assert.Equal(t, fault.ErrInvalidAddress, err, "wrong error")

	_, _, err = address.Decode("")
	assert.Equal(t, fault.ErrInvalidAddress, err, "empty")
}

func TestHash160(t *testing.T) {
	// compressed generator point
	key, _ := hex.DecodeString("0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	assert.Equal(t, "751e76e8199196d454941c45d1b3a323f1433bd6", hex.EncodeToString(address.Hash160(key)), "wrong hash")
}
