// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bitcoin - connector for UTXO model wallets
//
// works with any daemon that offers the bitcoin JSON-RPC interface
package bitcoin

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/xrouterd/address"
	"github.com/bitmark-inc/xrouterd/bloom"
	"github.com/bitmark-inc/xrouterd/fault"
	"github.com/bitmark-inc/xrouterd/rpcclient"
)

const (
	// maximum blocks visited by one query
	maximumBlocks = 500

	satoshiPerCoin = 100000000

	// getblock verbosity including decoded transactions
	verboseTransactions = 2
)

// Connector - a bitcoin style wallet
type Connector struct {
	log      *logger.L
	currency string
	client   rpcclient.Caller
}

type scriptPubKey struct {
	Hex       string   `json:"hex"`
	Address   string   `json:"address"`
	Addresses []string `json:"addresses"`
}

type output struct {
	Value        float64      `json:"value"`
	N            uint32       `json:"n"`
	ScriptPubKey scriptPubKey `json:"scriptPubKey"`
}

type transaction struct {
	TxId string   `json:"txid"`
	Vout []output `json:"vout"`
}

type block struct {
	Hash   string            `json:"hash"`
	Height int64             `json:"height"`
	Time   int64             `json:"time"`
	Tx     []json.RawMessage `json:"tx"`
}

// New - create a connector over an RPC client
func New(log *logger.L, currency string, client rpcclient.Caller) *Connector {
	return &Connector{
		log:      log,
		currency: currency,
		client:   client,
	}
}

// Currency - the currency symbol
func (c *Connector) Currency() string {
	return c.currency
}

// GetBlockCount - height of the best chain
func (c *Connector) GetBlockCount(ctx context.Context) (int64, error) {
	var n int64
	err := c.client.Call(ctx, "getblockcount", nil, &n)
	return n, err
}

// GetBlockHash - hash of the block at index
func (c *Connector) GetBlockHash(ctx context.Context, index int64) (string, error) {
	var hash string
	err := c.client.Call(ctx, "getblockhash", []interface{}{index}, &hash)
	return hash, err
}

// GetBlock - decoded block
func (c *Connector) GetBlock(ctx context.Context, hash string) (json.RawMessage, error) {
	var b json.RawMessage
	err := c.client.Call(ctx, "getblock", []interface{}{hash}, &b)
	if nil != err {
		return nil, err
	}
	if isNull(b) {
		return nil, fault.ErrBlockNotFound
	}
	return b, nil
}

// GetTransaction - decoded transaction
func (c *Connector) GetTransaction(ctx context.Context, hash string) (json.RawMessage, error) {
	var tx json.RawMessage
	err := c.client.Call(ctx, "getrawtransaction", []interface{}{hash, 1}, &tx)
	if nil != err {
		return nil, err
	}
	if isNull(tx) {
		return nil, fault.ErrTransactionNotFound
	}
	return tx, nil
}

// GetAllBlocks - blocks from sinceHeight towards the tip
func (c *Connector) GetAllBlocks(ctx context.Context, sinceHeight int64) ([]json.RawMessage, error) {
	blocks := make([]json.RawMessage, 0)
	err := c.forward(ctx, sinceHeight, 1, func(hash string, b json.RawMessage) error {
		blocks = append(blocks, b)
		return nil
	})
	return blocks, err
}

// GetAllTransactions - transactions paying to account, newest first
//
// stops at limit transactions (non-positive means no limit) or at
// the first block older than sinceTime
func (c *Connector) GetAllTransactions(ctx context.Context, account string, limit int64, sinceTime int64) ([]json.RawMessage, error) {
	txs := make([]json.RawMessage, 0)
	err := c.backward(ctx, sinceTime, func(raw json.RawMessage, tx *transaction) bool {
		if 0 == received(tx, account) {
			return true
		}
		txs = append(txs, raw)
		return limit <= 0 || int64(len(txs)) < limit
	})
	return txs, err
}

// GetBalance - total received by account in blocks since sinceTime
func (c *Connector) GetBalance(ctx context.Context, account string, sinceTime int64) (string, error) {
	total := int64(0)
	err := c.backward(ctx, sinceTime, func(raw json.RawMessage, tx *transaction) bool {
		total += received(tx, account)
		return true
	})
	if nil != err {
		return "", err
	}
	return formatCoins(total), nil
}

// GetBalanceUpdate - amount received by the latest limit transactions
func (c *Connector) GetBalanceUpdate(ctx context.Context, account string, limit int64, sinceTime int64) (string, error) {
	total := int64(0)
	count := int64(0)
	err := c.backward(ctx, sinceTime, func(raw json.RawMessage, tx *transaction) bool {
		value := received(tx, account)
		if 0 == value {
			return true
		}
		total += value
		count += 1
		return limit <= 0 || count < limit
	})
	if nil != err {
		return "", err
	}
	return formatCoins(total), nil
}

// GetTransactionsBloomFilter - transactions from sinceHeight that match the filter
func (c *Connector) GetTransactionsBloomFilter(ctx context.Context, sinceHeight int64, filter *bloom.Filter) ([]json.RawMessage, error) {
	txs := make([]json.RawMessage, 0)
	err := c.forward(ctx, sinceHeight, verboseTransactions, func(hash string, raw json.RawMessage) error {
		var b block
		if err := json.Unmarshal(raw, &b); nil != err {
			return err
		}
		for _, rawTx := range b.Tx {
			var tx transaction
			if err := json.Unmarshal(rawTx, &tx); nil != err {
				return err
			}
			if matches(filter, &tx) {
				txs = append(txs, rawTx)
			}
		}
		return nil
	})
	return txs, err
}

// SendTransaction - broadcast a signed transaction, the result is its txid
func (c *Connector) SendTransaction(ctx context.Context, rawTx string) (json.RawMessage, error) {
	var txId json.RawMessage
	err := c.client.Call(ctx, "sendrawtransaction", []interface{}{rawTx}, &txId)
	if nil != err {
		c.log.Debugf("%s: send transaction error: %s", c.currency, err)
		return nil, err
	}
	return txId, nil
}

// visit blocks from height upwards, at most maximumBlocks of them
func (c *Connector) forward(ctx context.Context, height int64, verbosity int, visit func(string, json.RawMessage) error) error {
	tip, err := c.GetBlockCount(ctx)
	if nil != err {
		return err
	}
	if height < 0 {
		height = 0
	}
	last := height + maximumBlocks - 1
	if last > tip {
		last = tip
	}

	for h := height; h <= last; h += 1 {
		hash, err := c.GetBlockHash(ctx, h)
		if nil != err {
			return err
		}
		var b json.RawMessage
		err = c.client.Call(ctx, "getblock", []interface{}{hash, verbosity}, &b)
		if nil != err {
			return err
		}
		if err := visit(hash, b); nil != err {
			return err
		}
	}
	return nil
}

// visit transactions from the tip downwards until visit returns
// false, a block older than sinceTime or maximumBlocks is reached
func (c *Connector) backward(ctx context.Context, sinceTime int64, visit func(json.RawMessage, *transaction) bool) error {
	tip, err := c.GetBlockCount(ctx)
	if nil != err {
		return err
	}

	for h := tip; h >= 0 && h > tip-maximumBlocks; h -= 1 {
		hash, err := c.GetBlockHash(ctx, h)
		if nil != err {
			return err
		}

		var b block
		err = c.client.Call(ctx, "getblock", []interface{}{hash, verboseTransactions}, &b)
		if nil != err {
			return err
		}
		if b.Time < sinceTime {
			return nil
		}

		for _, raw := range b.Tx {
			var tx transaction
			if err := json.Unmarshal(raw, &tx); nil != err {
				return err
			}
			if !visit(raw, &tx) {
				return nil
			}
		}
	}
	return nil
}

// satoshi paid to account
func received(tx *transaction, account string) int64 {
	total := int64(0)
	for _, o := range tx.Vout {
		for _, a := range o.ScriptPubKey.list() {
			if a == account {
				total += toSatoshi(o.Value)
				break
			}
		}
	}
	return total
}

// BIP37 matching on txid, output scripts and output address hashes
func matches(filter *bloom.Filter, tx *transaction) bool {
	if id, err := hex.DecodeString(tx.TxId); nil == err {
		if filter.Contains(reverse(id)) {
			return true
		}
	}
	for _, o := range tx.Vout {
		if script, err := hex.DecodeString(o.ScriptPubKey.Hex); nil == err && 0 != len(script) {
			if filter.Contains(script) {
				return true
			}
		}
		for _, a := range o.ScriptPubKey.list() {
			if _, hash, err := address.Decode(a); nil == err && filter.Contains(hash) {
				return true
			}
		}
	}
	return false
}

func (s scriptPubKey) list() []string {
	if 0 != len(s.Addresses) {
		return s.Addresses
	}
	if "" != s.Address {
		return []string{s.Address}
	}
	return nil
}

func reverse(b []byte) []byte {
	r := make([]byte, len(b))
	for i, c := range b {
		r[len(b)-1-i] = c
	}
	return r
}

func toSatoshi(coins float64) int64 {
	return int64(math.Round(coins * satoshiPerCoin))
}

func formatCoins(satoshi int64) string {
	sign := ""
	if satoshi < 0 {
		sign = "-"
		satoshi = -satoshi
	}
	return fmt.Sprintf("%s%d.%08d", sign, satoshi/satoshiPerCoin, satoshi%satoshiPerCoin)
}

func isNull(raw json.RawMessage) bool {
	return 0 == len(raw) || "null" == string(raw)
}
