// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package packet

// Command - identifies the packet type
type Command uint32

// all known commands - values are part of the wire format
const (
	Invalid Command = iota
	Reply
	GetBlockCount
	GetBlockHash
	GetBlock
	GetTransaction
	GetAllBlocks
	GetAllTransactions
	GetBalance
	GetBalanceUpdate
	GetTransactionsBloomFilter
	SendTransaction
	CustomCall
)

var commandNames = map[Command]string{
	Invalid:                    "xrInvalid",
	Reply:                      "xrReply",
	GetBlockCount:              "xrGetBlockCount",
	GetBlockHash:               "xrGetBlockHash",
	GetBlock:                   "xrGetBlock",
	GetTransaction:             "xrGetTransaction",
	GetAllBlocks:               "xrGetAllBlocks",
	GetAllTransactions:         "xrGetAllTransactions",
	GetBalance:                 "xrGetBalance",
	GetBalanceUpdate:           "xrGetBalanceUpdate",
	GetTransactionsBloomFilter: "xrGetTransactionsBloomFilter",
	SendTransaction:            "xrSendTransaction",
	CustomCall:                 "xrCustomCall",
}

// String - the configuration name of a command
func (c Command) String() string {
	if s, ok := commandNames[c]; ok {
		return s
	}
	return "xrUnknown"
}

// IsRequest - true for every command a peer may ask this node to service
func (c Command) IsRequest() bool {
	return c > Reply && c <= CustomCall
}

// CommandFromString - reverse of String()
func CommandFromString(s string) (Command, bool) {
	for c, name := range commandNames {
		if name == s {
			return c, true
		}
	}
	return Invalid, false
}
