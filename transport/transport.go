// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transport - carry request packets from peers to the router
//
// two listeners are provided: a ZeroMQ ROUTER socket served by a
// worker pool and a libp2p stream protocol; both consult the
// scoreboard to refuse banned peers
package transport

import (
	"context"
)

//go:generate mockgen -source=transport.go -destination=mocks/transport.go -package=mocks

// Handler - processes one packet, a nil reply sends nothing
type Handler interface {
	Handle(ctx context.Context, peer string, data []byte) ([]byte, error)
	Disconnected(peer string)
}
