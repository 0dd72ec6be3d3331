// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - resolve transaction outputs referenced by stake proofs
//
// the RPC implementation asks the node wallet daemon, looking at the
// unspent set (including the mempool) first and the full transaction
// index second; Cached keeps confirmed results in leveldb and
// unconfirmed results in memory for a short period
package ledger
