// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package admission - decide whether a request may be serviced
//
// a request must be signed by the key embedded in its header and must
// reference a ledger output of at least the minimum value that pays
// to the address of that same key
package admission

import (
	"bytes"
	"context"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/xrouterd/address"
	"github.com/bitmark-inc/xrouterd/fault"
	"github.com/bitmark-inc/xrouterd/ledger"
	"github.com/bitmark-inc/xrouterd/packet"
)

// Result - outcome of verification
type Result int

// possible results
const (
	Accepted Result = iota
	RejectedUnsigned
	RejectedNoStake
	Unverifiable
)

// DefaultMinimumStake - 200 coins in satoshi
const DefaultMinimumStake = 200 * 100000000

// Verifier - signature and stake checks
type Verifier struct {
	log     *logger.L
	ledger  ledger.Ledger
	minimum int64
}

// New - create a verifier, a non-positive minimum selects the default
func New(log *logger.L, l ledger.Ledger, minimumStake int64) *Verifier {
	if minimumStake <= 0 {
		minimumStake = DefaultMinimumStake
	}
	return &Verifier{
		log:     log,
		ledger:  l,
		minimum: minimumStake,
	}
}

// Verify - check signature then stake, stopping at the first failure
func (v *Verifier) Verify(ctx context.Context, p *packet.Packet) Result {
	if !p.Verify() {
		v.log.Debugf("signature failed: command: %s", p.Command())
		return RejectedUnsigned
	}

	stake, err := p.Stake()
	if nil != err {
		v.log.Debugf("no stake prefix: body: %d bytes", p.Size())
		return RejectedNoStake
	}

	output, err := v.ledger.FindOutput(ctx, stake)
	if fault.IsErrNotFound(err) {
		v.log.Debugf("stake: %s:%d  not found", stake, stake.Vout)
		return RejectedNoStake
	} else if nil != err {
		v.log.Warnf("stake: %s:%d  ledger error: %s", stake, stake.Vout, err)
		return Unverifiable
	}

	if output.Value < v.minimum {
		v.log.Debugf("stake: %s:%d  value: %d below: %d", stake, stake.Vout, output.Value, v.minimum)
		return RejectedNoStake
	}

	if 1 != len(output.Addresses) {
		v.log.Debugf("stake: %s:%d  addresses: %d", stake, stake.Vout, len(output.Addresses))
		return RejectedNoStake
	}

	_, hash, err := address.Decode(output.Addresses[0])
	if nil != err {
		v.log.Debugf("stake: %s:%d  address: %q  error: %s", stake, stake.Vout, output.Addresses[0], err)
		return RejectedNoStake
	}

	if !bytes.Equal(hash, address.Hash160(p.PublicKey())) {
		v.log.Debugf("stake: %s:%d  address: %s  not owned by sender", stake, stake.Vout, output.Addresses[0])
		return RejectedNoStake
	}

	return Accepted
}

// Err - the fault for a result, nil when accepted
func (r Result) Err() error {
	switch r {
	case Accepted:
		return nil
	case RejectedUnsigned:
		return fault.ErrUnauthenticated
	case RejectedNoStake:
		return fault.ErrNoStakeProof
	default:
		return fault.ErrLedgerUnavailable
	}
}

func (r Result) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case RejectedUnsigned:
		return "unsigned"
	case RejectedNoStake:
		return "no-stake"
	case Unverifiable:
		return "unverifiable"
	default:
		return "unknown"
	}
}
