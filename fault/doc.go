// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches
//
// The error class decides what the router does with a request:
//   InvalidError  - malformed input: drop, no reply, no penalty
//   RejectError   - peer trust affected: drop, no reply, penalty
//   DropError     - silently ignored: drop, no reply, no penalty
// every other class is reported back to the requester as a reply
package fault
