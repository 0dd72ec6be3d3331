// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keypair_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/xrouterd/address"
	"github.com/bitmark-inc/xrouterd/fault"
	"github.com/bitmark-inc/xrouterd/fixtures"
	"github.com/bitmark-inc/xrouterd/keypair"
)

func TestMakeAndReadIdentity(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "xrouterd.identity")

	key, err := keypair.MakeIdentity(fileName)
	assert.Nil(t, err, "make identity")

	info, err := os.Stat(fileName)
	assert.Nil(t, err, "stat")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "wrong permissions")

	read, err := keypair.ReadIdentityFile(fileName)
	assert.Nil(t, err, "read identity")
	assert.Equal(t, key.Serialize(), read.Serialize(), "keys differ")

	_, err = keypair.MakeIdentity(fileName)
	assert.Equal(t, fault.ErrKeyFileAlreadyExists, err, "overwrote existing file")
}

func TestParseIdentity(t *testing.T) {
	text := keypair.Encode(fixtures.PrivateKey1)
	assert.True(t, strings.HasPrefix(text, "SECP256K1:"), "missing tag")

	key, err := keypair.ParseIdentity("  " + text + "\n")
	assert.Nil(t, err, "tagged")
	assert.Equal(t, fixtures.PrivateKey1.Serialize(), key.Serialize(), "tagged key")

	key, err = keypair.ParseIdentity(strings.TrimPrefix(text, "SECP256K1:"))
	assert.Nil(t, err, "untagged")
	assert.Equal(t, fixtures.PrivateKey1.Serialize(), key.Serialize(), "untagged key")
}

func TestParseIdentityErrors(t *testing.T) {
	items := []string{
		"",
		"SECP256K1:",
		"SECP256K1:zz",
		"SECP256K1:0d2b8a86",
		"SECP256K1:" + strings.Repeat("00", 32),
		"PRIVATE:" + strings.Repeat("11", 32),
	}

	for i, item := range items {
		_, err := keypair.ParseIdentity(item)
		assert.NotNil(t, err, "%d: %q was accepted", i, item)
	}
}

func TestAddress(t *testing.T) {
	s := keypair.Address(fixtures.PrivateKey2, 0x1a)

	version, hash, err := address.Decode(s)
	assert.Nil(t, err, "decode")
	assert.Equal(t, byte(0x1a), version, "wrong version")
	assert.Equal(t, address.Hash160(fixtures.PrivateKey2.PubKey().SerializeCompressed()), hash, "wrong hash")

	assert.Equal(t, 66, len(keypair.PublicKey(fixtures.PrivateKey2)), "public key length")
}
