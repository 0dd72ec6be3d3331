// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/xrouterd/address"
	"github.com/bitmark-inc/xrouterd/bloom"
	"github.com/bitmark-inc/xrouterd/fixtures"
	"github.com/bitmark-inc/xrouterd/packet"
)

const (
	testTxId      = "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"
	testRequestId = "9f3c1b52-3c2e-4d7e-a9a7-51f3d3a1c0de"
)

func testStake(t *testing.T) packet.StakeProof {
	s, err := parseStake(testTxId + ":3")
	assert.Nil(t, err, "stake")
	return s
}

// sign, parse and return the fields after the stake prefix
func fields(t *testing.T, b *packet.Builder) (*packet.Packet, *packet.Reader) {
	p, err := packet.Parse(b.Sign(fixtures.PrivateKey1).Bytes())
	if !assert.Nil(t, err, "parse") {
		t.FailNow()
	}
	assert.True(t, p.Verify(), "signature")

	r := p.Reader()
	_, err = r.ReadFixed(packet.StakeSize)
	assert.Nil(t, err, "stake prefix")
	return p, r
}

func TestParseStake(t *testing.T) {
	s := testStake(t)
	assert.Equal(t, uint32(3), s.Vout, "vout")
	assert.Equal(t, testTxId, s.TxIdHex(), "txid")

	for _, item := range []string{"", testTxId, testTxId + ":", testTxId + ":x", testTxId + ":-1", "abcd:0"} {
		_, err := parseStake(item)
		assert.NotNil(t, err, "accepted: %q", item)
	}
}

func TestBuildRequest(t *testing.T) {
	b, err := buildRequest(packet.GetBalanceUpdate, testStake(t), testRequestId, "", []string{"BTC", "addr1:1000", "50"})
	assert.Nil(t, err, "build")

	p, r := fields(t, b)
	assert.Equal(t, packet.GetBalanceUpdate, p.Command(), "command")

	s, err := p.Stake()
	assert.Nil(t, err, "stake")
	assert.Equal(t, testStake(t), s, "stake")

	items, err := r.ReadStrings(4)
	assert.Nil(t, err, "fields")
	assert.Equal(t, []string{testRequestId, "BTC", "addr1:1000", "50"}, items, "fields")
	assert.Nil(t, r.Done(), "trailing data")
}

func TestBuildBlockCount(t *testing.T) {
	b, err := buildRequest(packet.GetBlockCount, testStake(t), testRequestId, "", []string{"LTC"})
	assert.Nil(t, err, "build")

	_, r := fields(t, b)
	items, err := r.ReadStrings(2)
	assert.Nil(t, err, "fields")
	assert.Equal(t, []string{testRequestId, "LTC"}, items, "fields")
	assert.Nil(t, r.Done(), "trailing data")
}

func TestBuildCustomCall(t *testing.T) {
	b, err := buildRequest(packet.CustomCall, testStake(t), testRequestId, "feehex", []string{"echo", "a b", ""})
	assert.Nil(t, err, "build")

	_, r := fields(t, b)
	items, err := r.ReadStrings(5)
	assert.Nil(t, err, "fields")
	assert.Equal(t, []string{testRequestId, "echo", "feehex", "a b", ""}, items, "fields")
	assert.Nil(t, r.Done(), "trailing data")
}

func TestBuildBloomFilter(t *testing.T) {
	target := "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
	b, err := buildRequest(packet.GetTransactionsBloomFilter, testStake(t), testRequestId, "", []string{"BTC", "700000", target})
	assert.Nil(t, err, "build")

	_, r := fields(t, b)
	items, err := r.ReadStrings(3)
	assert.Nil(t, err, "fields")
	assert.Equal(t, []string{testRequestId, "BTC", "700000"}, items, "fields")

	filter, err := bloom.Decode(r.Remaining())
	assert.Nil(t, err, "filter")

	_, hash, err := address.Decode(target)
	assert.Nil(t, err, "address")
	assert.True(t, filter.Contains(hash), "address not in filter")

	_, err = buildRequest(packet.GetTransactionsBloomFilter, testStake(t), testRequestId, "", []string{"BTC", "1", "not-an-address"})
	assert.NotNil(t, err, "bad address accepted")
}

func TestBuildRequestArgumentCounts(t *testing.T) {
	s := testStake(t)

	_, err := buildRequest(packet.GetBlockCount, s, testRequestId, "", nil)
	assert.Equal(t, ErrMissingArguments, err, "no currency")

	_, err = buildRequest(packet.GetBlockHash, s, testRequestId, "", []string{"BTC"})
	assert.Equal(t, ErrMissingArguments, err, "no height")

	_, err = buildRequest(packet.GetBlockHash, s, testRequestId, "", []string{"BTC", "1", "2"})
	assert.Equal(t, ErrTooManyArguments, err, "extra field")

	_, err = buildRequest(packet.GetTransactionsBloomFilter, s, testRequestId, "", []string{"BTC"})
	assert.Equal(t, ErrMissingArguments, err, "no height for filter")

	_, err = buildRequest(packet.Reply, s, testRequestId, "", []string{"BTC"})
	assert.NotNil(t, err, "reply is not a request")
}

func TestDecodeReply(t *testing.T) {
	reply := packet.NewBuilder(packet.Reply).
		AppendString(testRequestId).
		AppendString(`{"result":12345}`).
		Sign(fixtures.PrivateKey2).Bytes()

	payload, signer, err := decodeReply(reply, testRequestId)
	assert.Nil(t, err, "decode")
	assert.Equal(t, `{"result":12345}`, payload, "payload")
	assert.Equal(t, fixtures.PrivateKey2.PubKey().SerializeCompressed(), signer.SerializeCompressed(), "signer")

	_, _, err = decodeReply(reply, "other-id")
	assert.Equal(t, ErrUnexpectedRequestId, err, "id mismatch")

	request := packet.NewBuilder(packet.GetBlockCount).
		AppendString(testRequestId).
		Sign(fixtures.PrivateKey2).Bytes()
	_, _, err = decodeReply(request, testRequestId)
	assert.Equal(t, ErrNotReply, err, "not a reply")

	tampered := make([]byte, len(reply))
	copy(tampered, reply)
	tampered[len(tampered)-3] ^= 0x01
	_, _, err = decodeReply(tampered, testRequestId)
	assert.Equal(t, ErrReplyNotSigned, err, "tampered")
}

func TestPrintPayload(t *testing.T) {
	var out bytes.Buffer
	m := &metadata{w: &out}

	printPayload(m, `{"result":"abc"}`)
	assert.Equal(t, "{\n  \"result\": \"abc\"\n}\n", out.String(), "json")

	out.Reset()
	printPayload(m, "plain text")
	assert.True(t, strings.HasPrefix(out.String(), "plain text"), "text")
}
