// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package packet - signed request and reply units exchanged between peers
//
// layout:
//   [0:4]     command, big endian
//   [4:8]     body length, big endian
//   [8:41]    compressed secp256k1 public key of the sender
//   [41:106]  compact recoverable signature of SHA256d(command ‖ body)
//   [106:]    body
//
// a request body starts with the stake proof: 32 byte transaction id
// (internal byte order) and 4 byte little endian output index, followed
// by NUL terminated UTF-8 fields whose number depends on the command
package packet
