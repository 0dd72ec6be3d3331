// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitmark-inc/xrouterd/fault"
)

// common errors - keep in alphabetic order
const (
	ErrInvalidStake        = fault.InvalidError("stake must be TXID:VOUT")
	ErrMissingArguments    = fault.InvalidError("missing arguments")
	ErrNotReply            = fault.InvalidError("response is not a reply")
	ErrReplyNotSigned      = fault.InvalidError("reply signature is invalid")
	ErrRequiredConnection  = fault.InvalidError("one of connect or p2p is required")
	ErrRequiredIdentity    = fault.InvalidError("identity file is required")
	ErrRequiredServerKey   = fault.InvalidError("server public key is required")
	ErrRequiredStake       = fault.InvalidError("stake is required")
	ErrTooManyArguments    = fault.InvalidError("too many arguments")
	ErrUnexpectedRequestId = fault.InvalidError("reply has a different request id")
)
