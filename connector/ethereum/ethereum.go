// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ethereum - connector for account model wallets
package ethereum

import (
	"context"
	"encoding/json"
	"math/big"
	"strconv"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/xrouterd/bloom"
	"github.com/bitmark-inc/xrouterd/fault"
	"github.com/bitmark-inc/xrouterd/rpcclient"
)

const (
	// maximum blocks visited by one query
	maximumBlocks = 500
)

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Connector - an ethereum style node
type Connector struct {
	log      *logger.L
	currency string
	client   rpcclient.Caller
}

type transaction struct {
	Hash  string `json:"hash"`
	From  string `json:"from"`
	To    string `json:"to"`
	Value string `json:"value"`
}

type block struct {
	Hash         string            `json:"hash"`
	Timestamp    string            `json:"timestamp"`
	Transactions []json.RawMessage `json:"transactions"`
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

// GetBlockCount - number of the latest block
func (c *Connector) GetBlockCount(ctx context.Context) (int64, error) {
	var n string
	err := c.client.Call(ctx, "eth_blockNumber", nil, &n)
	if nil != err {
		return 0, err
	}
	return parseQuantity(n)
}

// GetBlockHash - hash of the block at index
func (c *Connector) GetBlockHash(ctx context.Context, index int64) (string, error) {
	var b *block
	err := c.client.Call(ctx, "eth_getBlockByNumber", []interface{}{quantity(index), false}, &b)
	if nil != err {
		return "", err
	}
	if nil == b {
		return "", fault.ErrBlockNotFound
	}
	return b.Hash, nil
}

// GetBlock - block with transaction hashes
func (c *Connector) GetBlock(ctx context.Context, hash string) (json.RawMessage, error) {
	var b json.RawMessage
	err := c.client.Call(ctx, "eth_getBlockByHash", []interface{}{hash, false}, &b)
	if nil != err {
		return nil, err
	}
	if isNull(b) {
		return nil, fault.ErrBlockNotFound
	}
	return b, nil
}

// GetTransaction - transaction by hash
func (c *Connector) GetTransaction(ctx context.Context, hash string) (json.RawMessage, error) {
	var tx json.RawMessage
	err := c.client.Call(ctx, "eth_getTransactionByHash", []interface{}{hash}, &tx)
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
	tip, err := c.GetBlockCount(ctx)
	if nil != err {
		return nil, err
	}
	if sinceHeight < 0 {
		sinceHeight = 0
	}
	last := sinceHeight + maximumBlocks - 1
	if last > tip {
		last = tip
	}

	blocks := make([]json.RawMessage, 0)
	for n := sinceHeight; n <= last; n += 1 {
		var b json.RawMessage
		err := c.client.Call(ctx, "eth_getBlockByNumber", []interface{}{quantity(n), false}, &b)
		if nil != err {
			return nil, err
		}
		if isNull(b) {
			break
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// GetAllTransactions - transactions from or to account, newest first
func (c *Connector) GetAllTransactions(ctx context.Context, account string, limit int64, sinceTime int64) ([]json.RawMessage, error) {
	txs := make([]json.RawMessage, 0)
	err := c.backward(ctx, sinceTime, func(raw json.RawMessage, tx *transaction) bool {
		if !involves(tx, account) {
			return true
		}
		txs = append(txs, raw)
		return limit <= 0 || int64(len(txs)) < limit
	})
	return txs, err
}

// GetBalance - current balance in ether
//
// account state has no history so sinceTime is not used
func (c *Connector) GetBalance(ctx context.Context, account string, sinceTime int64) (string, error) {
	var wei string
	err := c.client.Call(ctx, "eth_getBalance", []interface{}{account, "latest"}, &wei)
	if nil != err {
		return "", err
	}
	n, ok := new(big.Int).SetString(strings.TrimPrefix(wei, "0x"), 16)
	if !ok {
		return "", fault.ErrInvalidNumber
	}
	return formatEther(n), nil
}

// GetBalanceUpdate - net change over the latest limit transactions
func (c *Connector) GetBalanceUpdate(ctx context.Context, account string, limit int64, sinceTime int64) (string, error) {
	total := new(big.Int)
	count := int64(0)
	err := c.backward(ctx, sinceTime, func(raw json.RawMessage, tx *transaction) bool {
		if !involves(tx, account) {
			return true
		}
		value, ok := new(big.Int).SetString(strings.TrimPrefix(tx.Value, "0x"), 16)
		if ok {
			if strings.EqualFold(tx.To, account) {
				total.Add(total, value)
			}
			if strings.EqualFold(tx.From, account) {
				total.Sub(total, value)
			}
		}
		count += 1
		return limit <= 0 || count < limit
	})
	if nil != err {
		return "", err
	}
	return formatEther(total), nil
}

// GetTransactionsBloomFilter - ethereum nodes do not serve BIP37 filters
func (c *Connector) GetTransactionsBloomFilter(ctx context.Context, sinceHeight int64, filter *bloom.Filter) ([]json.RawMessage, error) {
	return nil, fault.ErrNotSupported
}

// SendTransaction - broadcast a signed transaction, the result is its hash
func (c *Connector) SendTransaction(ctx context.Context, rawTx string) (json.RawMessage, error) {
	if !strings.HasPrefix(rawTx, "0x") {
		rawTx = "0x" + rawTx
	}
	var hash json.RawMessage
	err := c.client.Call(ctx, "eth_sendRawTransaction", []interface{}{rawTx}, &hash)
	if nil != err {
		c.log.Debugf("%s: send transaction error: %s", c.currency, err)
		return nil, err
	}
	return hash, nil
}

func (c *Connector) backward(ctx context.Context, sinceTime int64, visit func(json.RawMessage, *transaction) bool) error {
	tip, err := c.GetBlockCount(ctx)
	if nil != err {
		return err
	}

	for n := tip; n >= 0 && n > tip-maximumBlocks; n -= 1 {
		var b *block
		err := c.client.Call(ctx, "eth_getBlockByNumber", []interface{}{quantity(n), true}, &b)
		if nil != err {
			return err
		}
		if nil == b {
			continue
		}
		timestamp, err := parseQuantity(b.Timestamp)
		if nil != err {
			return err
		}
		if timestamp < sinceTime {
			return nil
		}

		for _, raw := range b.Transactions {
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

func involves(tx *transaction, account string) bool {
	return strings.EqualFold(tx.From, account) || strings.EqualFold(tx.To, account)
}

func quantity(n int64) string {
	return "0x" + strconv.FormatInt(n, 16)
}

func parseQuantity(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimPrefix(s, "0x"), 16, 64)
	if nil != err {
		return 0, fault.ErrInvalidNumber
	}
	return n, nil
}

func formatEther(wei *big.Int) string {
	return new(big.Rat).SetFrac(wei, weiPerEther).FloatString(18)
}

func isNull(raw json.RawMessage) bool {
	return 0 == len(raw) || "null" == string(raw)
}
