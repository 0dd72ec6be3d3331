// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"time"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/bitmark-inc/xrouterd/packet"
	"github.com/bitmark-inc/xrouterd/transport"
	"github.com/bitmark-inc/xrouterd/util"
	"github.com/bitmark-inc/xrouterd/zmqutil"
)

// exchanger - send one request and wait for its reply
type exchanger interface {
	Exchange(ctx context.Context, request []byte) ([]byte, error)
	Close() error
}

// zmq DEALER connection with a throwaway CURVE key
type zmqExchanger struct {
	client *zmqutil.Client
}

func newZMQExchanger(address string, serverKey string, timeout time.Duration) (*zmqExchanger, error) {
	if "" == serverKey {
		return nil, ErrRequiredServerKey
	}

	serverPublicKey, err := zmqutil.ReadPublicKey(serverKey)
	if nil != err {
		return nil, err
	}

	conn, err := util.NewConnection(address)
	if nil != err {
		return nil, err
	}

	client, err := zmqutil.NewEphemeralClient(timeout)
	if nil != err {
		return nil, err
	}

	err = client.Connect(conn, serverPublicKey)
	if nil != err {
		return nil, err
	}

	return &zmqExchanger{
		client: client,
	}, nil
}

func (z *zmqExchanger) Exchange(ctx context.Context, request []byte) ([]byte, error) {
	return z.client.Exchange(request)
}

func (z *zmqExchanger) Close() error {
	return z.client.Close()
}

// libp2p stream to a node given by its full multiaddr
type p2pExchanger struct {
	host   host.Host
	target peer.ID
	stream network.Stream
}

func newP2PExchanger(ctx context.Context, address string) (*p2pExchanger, error) {
	info, err := peer.AddrInfoFromString(address)
	if nil != err {
		return nil, err
	}

	h, err := libp2p.New(libp2p.NoListenAddrs)
	if nil != err {
		return nil, err
	}

	err = h.Connect(ctx, *info)
	if nil != err {
		h.Close()
		return nil, err
	}

	return &p2pExchanger{
		host:   h,
		target: info.ID,
	}, nil
}

func (p *p2pExchanger) Exchange(ctx context.Context, request []byte) ([]byte, error) {
	if nil == p.stream {
		s, err := p.host.NewStream(ctx, p.target, transport.ProtocolID)
		if nil != err {
			return nil, err
		}
		p.stream = s
	}

	if deadline, ok := ctx.Deadline(); ok {
		p.stream.SetDeadline(deadline)
	}

	_, err := p.stream.Write(request)
	if nil != err {
		return nil, err
	}
	return packet.Read(p.stream)
}

func (p *p2pExchanger) Close() error {
	if nil != p.stream {
		p.stream.Close()
	}
	return p.host.Close()
}

// select the transport from the global flags
func newExchanger(ctx context.Context, m *metadata) (exchanger, error) {
	if "" != m.p2p {
		return newP2PExchanger(ctx, m.p2p)
	}
	if "" != m.connect {
		return newZMQExchanger(m.connect, m.serverKey, m.timeout)
	}
	return nil, ErrRequiredConnection
}

