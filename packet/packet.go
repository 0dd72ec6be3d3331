// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package packet

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	sha256 "github.com/minio/sha256-simd"

	"github.com/bitmark-inc/xrouterd/fault"
)

// sizes of the fixed parts
const (
	commandSize   = 4
	lengthSize    = 4
	PublicKeySize = 33
	SignatureSize = 65
	HeaderSize    = commandSize + lengthSize + PublicKeySize + SignatureSize

	TxIdSize  = 32
	VoutSize  = 4
	StakeSize = TxIdSize + VoutSize

	MaximumSize = 4 * 1024 * 1024
)

// Packet - an immutable, parsed packet
type Packet struct {
	command   Command
	publicKey [PublicKeySize]byte
	signature [SignatureSize]byte
	body      []byte
}

// StakeProof - reference to a ledger output
type StakeProof struct {
	TxId [TxIdSize]byte // internal byte order
	Vout uint32
}

// Parse - split raw bytes into a packet, the body is copied
func Parse(data []byte) (*Packet, error) {
	if len(data) > MaximumSize {
		return nil, fault.ErrPacketTooLarge
	}
	if len(data) < HeaderSize {
		return nil, fault.ErrPacketTooShort
	}

	n := binary.BigEndian.Uint32(data[commandSize:])
	if uint64(n) != uint64(len(data)-HeaderSize) {
		return nil, fault.ErrPacketLengthMismatch
	}

	p := &Packet{
		command: Command(binary.BigEndian.Uint32(data)),
		body:    make([]byte, n),
	}
	offset := commandSize + lengthSize
	copy(p.publicKey[:], data[offset:])
	offset += PublicKeySize
	copy(p.signature[:], data[offset:])
	offset += SignatureSize
	copy(p.body, data[offset:])

	return p, nil
}

// Read - one complete packet from a stream
//
// the length field of the header frames the packet
func Read(r io.Reader) ([]byte, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); nil != err {
		return nil, err
	}
	n := binary.BigEndian.Uint32(header[commandSize:])
	if uint64(n) > MaximumSize-HeaderSize {
		return nil, fault.ErrPacketTooLarge
	}
	data := make([]byte, HeaderSize+int(n))
	copy(data, header)
	if _, err := io.ReadFull(r, data[HeaderSize:]); nil != err {
		return nil, err
	}
	return data, nil
}

// Command - the packet command
func (p *Packet) Command() Command {
	return p.command
}

// PublicKey - the sender public key in compressed form
func (p *Packet) PublicKey() []byte {
	k := make([]byte, PublicKeySize)
	copy(k, p.publicKey[:])
	return k
}

// Size - number of body bytes
func (p *Packet) Size() int {
	return len(p.body)
}

// Reader - a field reader positioned at the first body byte
func (p *Packet) Reader() *Reader {
	return NewReader(p.body)
}

// Stake - decode the leading stake proof
func (p *Packet) Stake() (StakeProof, error) {
	var s StakeProof
	if len(p.body) < StakeSize {
		return s, fault.ErrFieldOverrun
	}
	copy(s.TxId[:], p.body[:TxIdSize])
	s.Vout = binary.LittleEndian.Uint32(p.body[TxIdSize:])
	return s, nil
}

// Verify - signature recovers to the embedded public key
func (p *Packet) Verify() bool {
	hash := signingHash(p.command, p.body)
	key, compressed, err := ecdsa.RecoverCompact(p.signature[:], hash[:])
	if nil != err || !compressed {
		return false
	}
	return bytes.Equal(key.SerializeCompressed(), p.publicKey[:])
}

// Bytes - serialise to wire format
func (p *Packet) Bytes() []byte {
	b := make([]byte, HeaderSize+len(p.body))
	binary.BigEndian.PutUint32(b, uint32(p.command))
	binary.BigEndian.PutUint32(b[commandSize:], uint32(len(p.body)))
	offset := commandSize + lengthSize
	copy(b[offset:], p.publicKey[:])
	offset += PublicKeySize
	copy(b[offset:], p.signature[:])
	offset += SignatureSize
	copy(b[offset:], p.body)
	return b
}

// String - the transaction id as displayed by block explorers
func (s StakeProof) String() string {
	return s.TxIdHex()
}

// TxIdHex - byte reversed hex as used by wallet RPC
func (s StakeProof) TxIdHex() string {
	r := make([]byte, TxIdSize)
	for i, b := range s.TxId {
		r[TxIdSize-1-i] = b
	}
	return hex.EncodeToString(r)
}

// SHA256d(command ‖ body)
func signingHash(command Command, body []byte) [32]byte {
	h := sha256.New()
	var c [commandSize]byte
	binary.BigEndian.PutUint32(c[:], uint32(command))
	h.Write(c[:])
	h.Write(body)
	first := h.Sum(nil)
	return sha256.Sum256(first)
}
