// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bitmark-inc/xrouterd/bloom"
	"github.com/bitmark-inc/xrouterd/connector"
	"github.com/bitmark-inc/xrouterd/fault"
	"github.com/bitmark-inc/xrouterd/packet"
	"github.com/bitmark-inc/xrouterd/rpcclient"
)

// errorcode of a send transaction with no connector
const noConnectorCode = -100

// error reply for a result that cannot be carried as text
const unsendableResult = "result contains NUL or is not UTF-8"

type resultReply struct {
	Result interface{} `json:"result"`
}

type errorReply struct {
	Error     string `json:"error"`
	ErrorCode *int   `json:"errorcode,omitempty"`
}

// fields of one built-in command
type request struct {
	index   int64
	hash    string
	account string
	limit   int64
	since   int64
	filter  *bloom.Filter
}

// read the command specific fields; the packet must be fully consumed
func parseRequest(command packet.Command, reader *packet.Reader) (*request, error) {
	rq := &request{}
	var err error

	switch command {
	case packet.GetBlockCount:

	case packet.GetBlockHash:
		rq.index, err = readNumber(reader)

	case packet.GetBlock, packet.GetTransaction, packet.SendTransaction:
		rq.hash, err = reader.ReadString()

	case packet.GetAllBlocks:
		rq.since, err = readNumber(reader)

	case packet.GetAllTransactions, packet.GetBalanceUpdate:
		rq.account, rq.since, err = readAccount(reader)
		if nil == err {
			rq.limit, err = readNumber(reader)
		}

	case packet.GetBalance:
		rq.account, rq.since, err = readAccount(reader)

	case packet.GetTransactionsBloomFilter:
		rq.since, err = readNumber(reader)
		if nil == err {
			rq.filter, err = bloom.Decode(reader.Remaining())
		}

	default:
		return nil, fault.ErrUnknownCommand
	}

	if nil != err {
		return nil, err
	}
	if err := reader.Done(); nil != err {
		return nil, err
	}
	return rq, nil
}

func (r *Router) builtIn(ctx context.Context, command packet.Command, currency string, reader *packet.Reader) (string, error) {
	rq, err := parseRequest(command, reader)
	if nil != err {
		return "", err
	}

	conn, ok := r.registry.Lookup(currency)
	if !ok {
		r.log.Debugf("no connector for currency: %q", currency)
		return noConnector(command, currency), nil
	}

	return r.call(ctx, conn, command, rq), nil
}

// invoke the connector and format its answer
func (r *Router) call(ctx context.Context, conn connector.Connector, command packet.Command, rq *request) string {
	var result interface{}
	var err error

	switch command {
	case packet.GetBlockCount:
		var n int64
		n, err = conn.GetBlockCount(ctx)
		result = resultReply{Result: n}

	case packet.GetBlockHash:
		var hash string
		hash, err = conn.GetBlockHash(ctx, rq.index)
		result = resultReply{Result: hash}

	case packet.GetBlock:
		result, err = conn.GetBlock(ctx, rq.hash)

	case packet.GetTransaction:
		result, err = conn.GetTransaction(ctx, rq.hash)

	case packet.GetAllBlocks:
		result, err = list(conn.GetAllBlocks(ctx, rq.since))

	case packet.GetAllTransactions:
		result, err = list(conn.GetAllTransactions(ctx, rq.account, rq.limit, rq.since))

	case packet.GetBalance:
		var balance string
		balance, err = conn.GetBalance(ctx, rq.account, rq.since)
		if nil == err {
			return balance
		}

	case packet.GetBalanceUpdate:
		var balance string
		balance, err = conn.GetBalanceUpdate(ctx, rq.account, rq.limit, rq.since)
		if nil == err {
			return balance
		}

	case packet.GetTransactionsBloomFilter:
		result, err = list(conn.GetTransactionsBloomFilter(ctx, rq.since, rq.filter))

	case packet.SendTransaction:
		result, err = conn.SendTransaction(ctx, rq.hash)
	}

	if nil != err {
		r.log.Warnf("currency: %s  command: %s  error: %s", conn.Currency(), command, err)
		return connectorError(command, err)
	}

	return encode(result)
}

// a nil list is sent as an empty array
func list(items []json.RawMessage, err error) ([]json.RawMessage, error) {
	if nil == items {
		items = []json.RawMessage{}
	}
	return items, err
}

func noConnector(command packet.Command, currency string) string {
	reply := errorReply{
		Error: "No connector for currency " + currency,
	}
	if packet.SendTransaction == command {
		code := noConnectorCode
		reply.ErrorCode = &code
	}
	return encode(reply)
}

func connectorError(command packet.Command, err error) string {
	reply := errorReply{
		Error: err.Error(),
	}
	var rpcErr *rpcclient.Error
	if errors.As(err, &rpcErr) {
		reply.Error = rpcErr.Message
		if packet.SendTransaction == command {
			code := rpcErr.Code
			reply.ErrorCode = &code
		}
	}
	return encode(reply)
}

func encode(v interface{}) string {
	b, err := json.Marshal(v)
	if nil != err {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(b)
}

// strict decimal number field
func readNumber(reader *packet.Reader) (int64, error) {
	s, err := reader.ReadString()
	if nil != err {
		return 0, err
	}
	return parseNumber(s)
}

func parseNumber(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if nil != err {
		return 0, fault.ErrInvalidNumber
	}
	return n, nil
}

// "account:time" field, time is zero when absent
func readAccount(reader *packet.Reader) (string, int64, error) {
	s, err := reader.ReadString()
	if nil != err {
		return "", 0, err
	}
	return SplitTimestamp(s)
}

// SplitTimestamp - split "value:timestamp" at the first colon
//
// with no colon the timestamp is zero
func SplitTimestamp(s string) (string, int64, error) {
	n := strings.IndexByte(s, ':')
	if n < 0 {
		return s, 0, nil
	}
	t, err := parseNumber(s[n+1:])
	if nil != err {
		return "", 0, err
	}
	return s[:n], t, nil
}
