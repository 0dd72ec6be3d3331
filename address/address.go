// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package address - base58check pay-to-pubkey-hash addresses
package address

import (
	"bytes"

	sha256 "github.com/minio/sha256-simd"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ripemd160"

	"github.com/bitmark-inc/xrouterd/fault"
)

const (
	hashSize     = ripemd160.Size
	checksumSize = 4
	addressSize  = 1 + hashSize + checksumSize
)

// Hash160 - RIPEMD160(SHA256(data))
func Hash160(data []byte) []byte {
	s := sha256.Sum256(data)
	r := ripemd160.New()
	r.Write(s[:])
	return r.Sum(nil)
}

// Encode - base58check of version ‖ hash
func Encode(version byte, hash []byte) string {
	b := make([]byte, 0, addressSize)
	b = append(b, version)
	b = append(b, hash...)
	c := checksum(b)
	return base58.Encode(append(b, c[:]...))
}

// Decode - split an address into version and hash
func Decode(address string) (byte, []byte, error) {
	b, err := base58.Decode(address)
	if nil != err || addressSize != len(b) {
		return 0, nil, fault.ErrInvalidAddress
	}
	payload := b[:addressSize-checksumSize]
	c := checksum(payload)
	if !bytes.Equal(c[:], b[addressSize-checksumSize:]) {
		return 0, nil, fault.ErrInvalidAddress
	}
	return b[0], payload[1:], nil
}

func checksum(data []byte) [checksumSize]byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	var c [checksumSize]byte
	copy(c[:], second[:])
	return c
}
