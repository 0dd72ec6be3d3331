// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package connector - per currency wallet backends
//
// a connector answers blockchain queries for one currency by calling
// that currency's wallet daemon; the Registry maps currency symbols
// to connectors
package connector

import (
	"context"
	"encoding/json"

	"github.com/bitmark-inc/xrouterd/bloom"
)

//go:generate mockgen -source=connector.go -destination=mocks/connector.go -package=mocks

// Connector - queries about one blockchain
//
// structured results are returned as the daemon's JSON
type Connector interface {
	Currency() string

	GetBlockCount(ctx context.Context) (int64, error)
	GetBlockHash(ctx context.Context, index int64) (string, error)
	GetBlock(ctx context.Context, hash string) (json.RawMessage, error)
	GetTransaction(ctx context.Context, hash string) (json.RawMessage, error)
	GetAllBlocks(ctx context.Context, sinceHeight int64) ([]json.RawMessage, error)
	GetAllTransactions(ctx context.Context, account string, limit int64, sinceTime int64) ([]json.RawMessage, error)
	GetBalance(ctx context.Context, account string, sinceTime int64) (string, error)
	GetBalanceUpdate(ctx context.Context, account string, limit int64, sinceTime int64) (string, error)
	GetTransactionsBloomFilter(ctx context.Context, sinceHeight int64, filter *bloom.Filter) ([]json.RawMessage, error)
	SendTransaction(ctx context.Context, rawTx string) (json.RawMessage, error)
}
