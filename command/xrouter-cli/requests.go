// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/google/uuid"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/xrouterd/address"
	"github.com/bitmark-inc/xrouterd/bloom"
	"github.com/bitmark-inc/xrouterd/keypair"
	"github.com/bitmark-inc/xrouterd/packet"
)

// filter parameters for the bloom command
const (
	bloomFilterBytes = 512
	bloomHashCount   = 10
)

// fields after the currency: fixed is the exact number of plain
// fields, a negative value means at least -fixed
type requestLayout struct {
	fixed int
}

var layouts = map[packet.Command]requestLayout{
	packet.GetBlockCount:              {0},
	packet.GetBlockHash:               {1},
	packet.GetBlock:                   {1},
	packet.GetTransaction:             {1},
	packet.GetAllBlocks:               {1},
	packet.GetAllTransactions:         {2},
	packet.GetBalance:                 {1},
	packet.GetBalanceUpdate:           {2},
	packet.GetTransactionsBloomFilter: {-2},
	packet.SendTransaction:            {1},
	packet.CustomCall:                 {-1},
}

// parseStake - "TXID:VOUT"
func parseStake(s string) (packet.StakeProof, error) {
	txId, vout, ok := strings.Cut(s, ":")
	if !ok {
		return packet.StakeProof{}, ErrInvalidStake
	}
	n, err := strconv.ParseUint(vout, 10, 32)
	if nil != err {
		return packet.StakeProof{}, ErrInvalidStake
	}
	return packet.StakeFromHex(txId, uint32(n))
}

// buildRequest - stake prefix, request id, currency then the command
// fields taken from the arguments
//
// for a custom call the first argument is the plugin name and the fee
// transaction is inserted before the plugin parameters
func buildRequest(command packet.Command, stake packet.StakeProof, requestId string, fee string, arguments []string) (*packet.Builder, error) {
	layout, ok := layouts[command]
	if !ok {
		return nil, fmt.Errorf("command: %s  is not a request", command)
	}

	if len(arguments) < 1 {
		return nil, ErrMissingArguments
	}
	currency := arguments[0]
	fields := arguments[1:]

	switch {
	case layout.fixed >= 0 && len(fields) < layout.fixed:
		return nil, ErrMissingArguments
	case layout.fixed >= 0 && len(fields) > layout.fixed:
		return nil, ErrTooManyArguments
	case layout.fixed < 0 && len(fields) < -layout.fixed-1:
		return nil, ErrMissingArguments
	}

	b := packet.NewBuilder(command).
		AppendStake(stake).
		AppendString(requestId).
		AppendString(currency)

	switch command {
	case packet.GetTransactionsBloomFilter:
		filter, err := addressFilter(requestId, fields[1:])
		if nil != err {
			return nil, err
		}
		b.AppendString(fields[0])
		b.AppendBytes(filter.Encode())

	case packet.CustomCall:
		b.AppendString(fee)
		for _, f := range fields {
			b.AppendString(f)
		}

	default:
		for _, f := range fields {
			b.AppendString(f)
		}
	}

	return b, nil
}

// a filter matching the hash160 of each address
func addressFilter(requestId string, addresses []string) (*bloom.Filter, error) {
	tweak := uint32(0)
	if id, err := uuid.Parse(requestId); nil == err {
		tweak = binary.LittleEndian.Uint32(id[:4])
	}

	filter, err := bloom.New(bloomFilterBytes, bloomHashCount, tweak)
	if nil != err {
		return nil, err
	}
	for _, a := range addresses {
		_, hash, err := address.Decode(a)
		if nil != err {
			return nil, fmt.Errorf("address: %q  error: %w", a, err)
		}
		filter.Insert(hash)
	}
	return filter, nil
}

// decodeReply - check the reply envelope and return its payload
func decodeReply(data []byte, requestId string) (string, *secp256k1.PublicKey, error) {
	p, err := packet.Parse(data)
	if nil != err {
		return "", nil, err
	}
	if packet.Reply != p.Command() {
		return "", nil, ErrNotReply
	}
	if !p.Verify() {
		return "", nil, ErrReplyNotSigned
	}

	signer, err := secp256k1.ParsePubKey(p.PublicKey())
	if nil != err {
		return "", nil, err
	}

	r := p.Reader()
	id, err := r.ReadString()
	if nil != err {
		return "", nil, err
	}
	if id != requestId {
		return "", nil, ErrUnexpectedRequestId
	}

	payload, err := r.ReadString()
	if nil != err {
		return "", nil, err
	}
	return payload, signer, r.Done()
}

// returns an action that sends one command
func requestAction(command packet.Command) cli.ActionFunc {
	return func(c *cli.Context) error {
		m := c.App.Metadata["config"].(*metadata)
		if err := m.load(); nil != err {
			return err
		}

		requestId := uuid.New().String()

		b, err := buildRequest(command, m.stake, requestId, c.String("fee"), c.Args())
		if nil != err {
			return err
		}
		request := b.Sign(m.key).Bytes()

		if m.verbose {
			fmt.Fprintf(m.e, "command: %s  id: %s  size: %d\n", command, requestId, len(request))
		}

		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()

		x, err := newExchanger(ctx, m)
		if nil != err {
			return err
		}
		defer x.Close()

		data, err := x.Exchange(ctx, request)
		if nil != err {
			return err
		}

		payload, signer, err := decodeReply(data, requestId)
		if nil != err {
			return err
		}

		if m.verbose {
			fmt.Fprintf(m.e, "signer: %x\n", signer.SerializeCompressed())
		}

		return printPayload(m, payload)
	}
}

// JSON payloads are indented, anything else is printed as is
func printPayload(m *metadata, payload string) error {
	var out bytes.Buffer
	if nil == json.Indent(&out, []byte(payload), "", "  ") {
		fmt.Fprintf(m.w, "%s\n", out.String())
		return nil
	}
	fmt.Fprintf(m.w, "%s\n", payload)
	return nil
}

func runGenerate(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	fileName := c.Args().First()
	if "" == fileName {
		return ErrMissingArguments
	}

	key, err := keypair.MakeIdentity(fileName)
	if nil != err {
		return err
	}

	return printJson(m.w, map[string]string{
		"identity":   fileName,
		"public_key": keypair.PublicKey(key),
		"address":    keypair.Address(key, byte(c.Uint("version"))),
	})
}
