// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package packet

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/bitmark-inc/xrouterd/fault"
)

// Builder - accumulates body fields before signing
type Builder struct {
	command Command
	body    []byte
}

// NewBuilder - start a packet for command
func NewBuilder(command Command) *Builder {
	return &Builder{
		command: command,
		body:    make([]byte, 0, 256),
	}
}

// AppendStake - the 36 byte stake prefix, must be first for requests
func (b *Builder) AppendStake(s StakeProof) *Builder {
	b.body = append(b.body, s.TxId[:]...)
	var v [VoutSize]byte
	binary.LittleEndian.PutUint32(v[:], s.Vout)
	b.body = append(b.body, v[:]...)
	return b
}

// AppendString - a NUL terminated field
//
// a string containing NUL produces an extra field on the receiving side
func (b *Builder) AppendString(s string) *Builder {
	b.body = append(b.body, s...)
	b.body = append(b.body, 0)
	return b
}

// AppendBytes - raw bytes without terminator
func (b *Builder) AppendBytes(data []byte) *Builder {
	b.body = append(b.body, data...)
	return b
}

// Sign - produce the finished packet
func (b *Builder) Sign(key *secp256k1.PrivateKey) *Packet {
	p := &Packet{
		command: b.command,
		body:    make([]byte, len(b.body)),
	}
	copy(p.body, b.body)
	copy(p.publicKey[:], key.PubKey().SerializeCompressed())

	hash := signingHash(p.command, p.body)
	copy(p.signature[:], ecdsa.SignCompact(key, hash[:], true))
	return p
}

// StakeFromHex - build a stake proof from a displayed transaction id
func StakeFromHex(txId string, vout uint32) (StakeProof, error) {
	var s StakeProof
	b, err := hex.DecodeString(txId)
	if nil != err || TxIdSize != len(b) {
		return s, fault.ErrInvalidTxId
	}
	for i, c := range b {
		s.TxId[TxIdSize-1-i] = c
	}
	s.Vout = vout
	return s, nil
}
