// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"context"

	"github.com/bitmark-inc/xrouterd/packet"
)

//go:generate mockgen -source=ledger.go -destination=mocks/ledger.go -package=mocks

// Output - the parts of a transaction output needed for stake checks
type Output struct {
	Value         int64    `json:"value"` // satoshi
	Addresses     []string `json:"addresses"`
	Confirmations int64    `json:"confirmations"`
}

// Ledger - output lookup
//
// fault.ErrOutputNotFound is returned when the output does not exist,
// any other error means the ledger could not be consulted
type Ledger interface {
	FindOutput(ctx context.Context, outpoint packet.StakeProof) (*Output, error)
}
