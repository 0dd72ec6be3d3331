// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/xrouterd/fault"
	"github.com/bitmark-inc/xrouterd/packet"
	"github.com/bitmark-inc/xrouterd/ratelimit"
)

// ProtocolID - libp2p stream protocol carrying packets
const ProtocolID = "/xrouter/1.0.0"

const (
	p2pPeerPrefix     = "p2p:"
	defaultIdleTimeout = 5 * time.Minute
)

// P2PConfiguration - libp2p listener parameters
type P2PConfiguration struct {
	Listen      []string // multiaddrs
	Key         *secp256k1.PrivateKey
	IdleTimeout time.Duration
}

// P2PListener - receives packets on libp2p streams
//
// a stream may carry any number of packets, each framed by its own
// header; replies are written back on the same stream
type P2PListener struct {
	log        *logger.L
	handler    Handler
	scoreboard *Scoreboard
	limiter    *rate.Limiter
	host       host.Host
	idle       time.Duration
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewP2PListener - start a libp2p host with the node identity
func NewP2PListener(log *logger.L, conf P2PConfiguration, handler Handler, scoreboard *Scoreboard, limiter *rate.Limiter) (*P2PListener, error) {

	if 0 == len(conf.Listen) {
		return nil, fault.ErrNoListenAddresses
	}
	if nil == conf.Key {
		return nil, fault.ErrInvalidPrivateKey
	}

	addrs := make([]ma.Multiaddr, 0, len(conf.Listen))
	for _, s := range conf.Listen {
		a, err := ma.NewMultiaddr(s)
		if nil != err {
			log.Errorf("listen: %q  error: %s", s, err)
			return nil, err
		}
		addrs = append(addrs, a)
	}

	identity, err := crypto.UnmarshalSecp256k1PrivateKey(conf.Key.Serialize())
	if nil != err {
		return nil, err
	}

	h, err := libp2p.New(
		libp2p.Identity(identity),
		libp2p.ListenAddrs(addrs...),
	)
	if nil != err {
		return nil, err
	}

	idle := conf.IdleTimeout
	if idle <= 0 {
		idle = defaultIdleTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	l := &P2PListener{
		log:        log,
		handler:    handler,
		scoreboard: scoreboard,
		limiter:    limiter,
		host:       h,
		idle:       idle,
		ctx:        ctx,
		cancel:     cancel,
	}

	h.SetStreamHandler(ProtocolID, l.handleStream)
	h.Network().Notify(&network.NotifyBundle{
		DisconnectedF: l.disconnected,
	})
	scoreboard.OnBan(l.banned)

	for _, a := range l.Addresses() {
		log.Infof("listening: %s", a)
	}

	return l, nil
}

// ID - libp2p identity of this node
func (l *P2PListener) ID() peer.ID {
	return l.host.ID()
}

// Addresses - full multiaddrs including the peer id
func (l *P2PListener) Addresses() []string {
	s := make([]string, 0, len(l.host.Addrs()))
	for _, a := range l.host.Addrs() {
		s = append(s, a.String()+"/p2p/"+l.host.ID().String())
	}
	return s
}

// Run - serve until shutdown
func (l *P2PListener) Run(args interface{}, shutdown <-chan struct{}) {
	log := l.log

	log.Info("starting…")
	<-shutdown
	log.Info("shutting down")

	l.cancel()
	l.host.RemoveStreamHandler(ProtocolID)
	err := l.host.Close()
	if nil != err {
		log.Errorf("close error: %s", err)
	}
	log.Info("stopped")
}

func (l *P2PListener) handleStream(s network.Stream) {
	defer s.Close()

	log := l.log
	remote := s.Conn().RemotePeer()
	name := PeerName(remote)

	if l.scoreboard.IsBanned(name) {
		log.Debugf("peer: %s  dropped: %s", name, fault.ErrPeerBanned)
		s.Reset()
		l.host.Network().ClosePeer(remote)
		return
	}

	for {
		s.SetReadDeadline(time.Now().Add(l.idle))

		data, err := packet.Read(s)
		if errors.Is(err, io.EOF) {
			return
		} else if nil != err {
			log.Debugf("peer: %s  read error: %s", name, err)
			s.Reset()
			return
		}

		if err := ratelimit.Limit(l.limiter); nil != err {
			log.Warnf("peer: %s  dropped: %s", name, err)
			continue
		}

		reply, err := l.handler.Handle(l.ctx, name, data)
		if nil != err {
			log.Debugf("peer: %s  no reply: %s", name, err)
		}
		if l.scoreboard.IsBanned(name) {
			return
		}
		if nil == reply {
			continue
		}

		_, err = s.Write(reply)
		if nil != err {
			log.Debugf("peer: %s  write error: %s", name, err)
			return
		}
	}
}

// forget a peer once its last connection closes
func (l *P2PListener) disconnected(n network.Network, c network.Conn) {
	remote := c.RemotePeer()
	if network.Connected == n.Connectedness(remote) {
		return
	}
	l.handler.Disconnected(PeerName(remote))
}

func (l *P2PListener) banned(name string) {
	if !strings.HasPrefix(name, p2pPeerPrefix) {
		return
	}
	id, err := peer.Decode(strings.TrimPrefix(name, p2pPeerPrefix))
	if nil != err {
		return
	}
	l.log.Infof("peer: %s  closing banned connection", name)
	l.host.Network().ClosePeer(id)
}

// PeerName - scoreboard and rate limit name of a libp2p peer
func PeerName(id peer.ID) string {
	return p2pPeerPrefix + id.String()
}
