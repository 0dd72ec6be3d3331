// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transport_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/xrouterd/fault"
	"github.com/bitmark-inc/xrouterd/fixtures"
	"github.com/bitmark-inc/xrouterd/packet"
	"github.com/bitmark-inc/xrouterd/transport"
	"github.com/bitmark-inc/xrouterd/transport/mocks"
)

func startP2P(t *testing.T, handler transport.Handler, scoreboard *transport.Scoreboard) (*transport.P2PListener, func()) {
	l, err := transport.NewP2PListener(
		logger.New(fixtures.LogCategory),
		transport.P2PConfiguration{
			Listen: []string{"/ip4/127.0.0.1/tcp/0"},
			Key:    fixtures.PrivateKey2,
		},
		handler,
		scoreboard,
		rate.NewLimiter(rate.Inf, 1),
	)
	if !assert.Nil(t, err, "listener") {
		t.FailNow()
	}

	shutdown := make(chan struct{})
	done := make(chan struct{})
	go func() {
		l.Run(nil, shutdown)
		close(done)
	}()
	return l, func() {
		close(shutdown)
		<-done
	}
}

func connect(t *testing.T, ctx context.Context, l *transport.P2PListener) (host.Host, peer.ID) {
	client, err := libp2p.New(libp2p.NoListenAddrs)
	if !assert.Nil(t, err, "client") {
		t.FailNow()
	}

	info, err := peer.AddrInfoFromString(l.Addresses()[0])
	assert.Nil(t, err, "address")
	err = client.Connect(ctx, *info)
	assert.Nil(t, err, "connect")
	return client, info.ID
}

func TestP2PRequestReply(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	handler := mocks.NewMockHandler(ctl)
	handler.EXPECT().Disconnected(gomock.Any()).AnyTimes()

	l, stop := startP2P(t, handler, transport.NewScoreboard(logger.New(fixtures.LogCategory), 0, 0, 0))
	defer stop()

	client, server := connect(t, ctx, l)
	defer client.Close()

	assert.Equal(t, l.ID(), server, "server identity")

	request := requestPacket()
	reply := replyPacket()
	handler.EXPECT().Handle(gomock.Any(), transport.PeerName(client.ID()), request).Return(reply, nil).Times(2)

	s, err := client.NewStream(ctx, server, transport.ProtocolID)
	if !assert.Nil(t, err, "stream") {
		return
	}
	defer s.Close()

	for i := 0; i < 2; i += 1 {
		_, err = s.Write(request)
		assert.Nil(t, err, "write: %d", i)

		data, err := packet.Read(s)
		assert.Nil(t, err, "read: %d", i)
		assert.Equal(t, reply, data, "reply: %d", i)
	}
}

func TestP2PNoReply(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	handler := mocks.NewMockHandler(ctl)
	handler.EXPECT().Disconnected(gomock.Any()).AnyTimes()

	l, stop := startP2P(t, handler, transport.NewScoreboard(logger.New(fixtures.LogCategory), 0, 0, 0))
	defer stop()

	client, server := connect(t, ctx, l)
	defer client.Close()

	request := requestPacket()
	reply := replyPacket()
	gomock.InOrder(
		handler.EXPECT().Handle(gomock.Any(), gomock.Any(), request).Return(nil, fault.ErrCommandDisabled),
		handler.EXPECT().Handle(gomock.Any(), gomock.Any(), request).Return(reply, nil),
	)

	s, err := client.NewStream(ctx, server, transport.ProtocolID)
	if !assert.Nil(t, err, "stream") {
		return
	}
	defer s.Close()

	// the dropped request produces nothing so the first reply read
	// belongs to the second request
	_, err = s.Write(append(request, request...))
	assert.Nil(t, err, "write")

	data, err := packet.Read(s)
	assert.Nil(t, err, "read")
	assert.Equal(t, reply, data, "reply")
}

func TestP2PBannedPeer(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	handler := mocks.NewMockHandler(ctl)
	handler.EXPECT().Disconnected(gomock.Any()).AnyTimes()
	handler.EXPECT().Handle(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	scoreboard := transport.NewScoreboard(logger.New(fixtures.LogCategory), 0, 0, 0)
	l, stop := startP2P(t, handler, scoreboard)
	defer stop()

	client, server := connect(t, ctx, l)
	defer client.Close()

	scoreboard.Misbehaving(transport.PeerName(client.ID()), 100, fault.ErrRateLimited)

	s, err := client.NewStream(ctx, server, transport.ProtocolID)
	if nil != err {
		return // connection already closed by the ban
	}
	defer s.Close()

	_, _ = s.Write(requestPacket())
	_, err = packet.Read(s)
	assert.NotNil(t, err, "banned peer got a reply")
}
