// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keypair

import (
	"encoding/hex"
	"os"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/bitmark-inc/xrouterd/address"
	"github.com/bitmark-inc/xrouterd/fault"
	"github.com/bitmark-inc/xrouterd/util"
)

const (
	taggedIdentity = "SECP256K1:"
	privateLength  = 32
)

// MakeIdentity - create a new secp256k1 signing key and write it to
// fileName, an existing file is never overwritten
func MakeIdentity(fileName string) (*secp256k1.PrivateKey, error) {
	if util.FileExists(fileName) {
		return nil, fault.ErrKeyFileAlreadyExists
	}

	key, err := secp256k1.GeneratePrivateKey()
	if nil != err {
		return nil, err
	}

	err = util.WriteNewFile(fileName, []byte(Encode(key)+"\n"), 0600)
	if nil != err {
		return nil, err
	}
	return key, nil
}

// ReadIdentityFile - read a tagged signing key from a file
func ReadIdentityFile(fileName string) (*secp256k1.PrivateKey, error) {
	data, err := os.ReadFile(fileName)
	if nil != err {
		return nil, err
	}
	return ParseIdentity(string(data))
}

// ParseIdentity - decode a signing key, the tag is optional
func ParseIdentity(data string) (*secp256k1.PrivateKey, error) {
	s := strings.TrimPrefix(strings.TrimSpace(data), taggedIdentity)

	h, err := hex.DecodeString(s)
	if nil != err {
		return nil, fault.ErrInvalidPrivateKeyFile
	}
	if len(h) != privateLength {
		return nil, fault.ErrInvalidPrivateKeyFile
	}

	key := secp256k1.PrivKeyFromBytes(h)
	if key.Key.IsZero() {
		return nil, fault.ErrInvalidPrivateKey
	}
	return key, nil
}

// Encode - tagged hex text of a signing key
func Encode(key *secp256k1.PrivateKey) string {
	return taggedIdentity + hex.EncodeToString(key.Serialize())
}

// PublicKey - compressed public key as hex
func PublicKey(key *secp256k1.PrivateKey) string {
	return hex.EncodeToString(key.PubKey().SerializeCompressed())
}

// Address - base58check pay-to-pubkey-hash address of the key
func Address(key *secp256k1.PrivateKey, version byte) string {
	return address.Encode(version, address.Hash160(key.PubKey().SerializeCompressed()))
}
