// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"context"
	"math"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/xrouterd/fault"
	"github.com/bitmark-inc/xrouterd/packet"
	"github.com/bitmark-inc/xrouterd/rpcclient"
)

const satoshiPerCoin = 100000000

type scriptPubKey struct {
	Address   string   `json:"address"`
	Addresses []string `json:"addresses"`
}

type txOut struct {
	Value         float64      `json:"value"`
	Confirmations int64        `json:"confirmations"`
	ScriptPubKey  scriptPubKey `json:"scriptPubKey"`
}

type rawVout struct {
	Value        float64      `json:"value"`
	N            uint32       `json:"n"`
	ScriptPubKey scriptPubKey `json:"scriptPubKey"`
}

type rawTransaction struct {
	Confirmations int64     `json:"confirmations"`
	Vout          []rawVout `json:"vout"`
}

// RPC - ledger backed by the node wallet daemon
type RPC struct {
	log    *logger.L
	client rpcclient.Caller
}

// NewRPC - create a ledger over an RPC connection
func NewRPC(log *logger.L, client rpcclient.Caller) *RPC {
	return &RPC{
		log:    log,
		client: client,
	}
}

// FindOutput - unspent set and mempool first, then the transaction index
func (r *RPC) FindOutput(ctx context.Context, outpoint packet.StakeProof) (*Output, error) {
	txId := outpoint.TxIdHex()

	var out *txOut
	err := r.client.Call(ctx, "gettxout", []interface{}{txId, outpoint.Vout, true}, &out)
	if nil != err {
		if _, ok := err.(*rpcclient.Error); !ok {
			r.log.Warnf("gettxout: %s:%d  error: %s", txId, outpoint.Vout, err)
			return nil, err
		}
		r.log.Debugf("gettxout: %s:%d  rpc error: %s", txId, outpoint.Vout, err)
	} else if nil != out {
		return &Output{
			Value:         toSatoshi(out.Value),
			Addresses:     out.ScriptPubKey.list(),
			Confirmations: out.Confirmations,
		}, nil
	}

	var tx *rawTransaction
	err = r.client.Call(ctx, "getrawtransaction", []interface{}{txId, 1}, &tx)
	if nil != err {
		if _, ok := err.(*rpcclient.Error); ok {
			r.log.Debugf("getrawtransaction: %s  rpc error: %s", txId, err)
			return nil, fault.ErrOutputNotFound
		}
		r.log.Warnf("getrawtransaction: %s  error: %s", txId, err)
		return nil, err
	}
	if nil == tx {
		return nil, fault.ErrOutputNotFound
	}

	for _, v := range tx.Vout {
		if v.N == outpoint.Vout {
			return &Output{
				Value:         toSatoshi(v.Value),
				Addresses:     v.ScriptPubKey.list(),
				Confirmations: tx.Confirmations,
			}, nil
		}
	}
	return nil, fault.ErrOutputNotFound
}

// newer daemons report a single address, older ones a list
func (s scriptPubKey) list() []string {
	if 0 != len(s.Addresses) {
		return s.Addresses
	}
	if "" != s.Address {
		return []string{s.Address}
	}
	return nil
}

func toSatoshi(coins float64) int64 {
	return int64(math.Round(coins * satoshiPerCoin))
}
