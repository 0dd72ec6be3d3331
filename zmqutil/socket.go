// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package zmqutil - CURVE secured ZeroMQ sockets for the request
// listener and its clients
package zmqutil

import (
	"time"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/xrouterd/util"
)

const (
	heartbeatInterval = 15 * time.Second
	heartbeatTimeout  = 60 * time.Second
	heartbeatTTL      = 120 * time.Second
)

// option - one socket setting
type option func(*zmq.Socket) error

// Listeners - server sockets, at most one per address family
type Listeners struct {
	IPv4 *zmq.Socket
	IPv6 *zmq.Socket
}

// Bind - bind every listen address to a CURVE server socket of its
// address family
func Bind(log *logger.L, socketType zmq.Type, domain string, keys Keys, listen []*util.Connection) (*Listeners, error) {
	if err := keys.Validate(); nil != err {
		return nil, err
	}

	l := &Listeners{}
	for i, address := range listen {
		endpoint, v6 := address.CanonicalIPandPort("tcp://")

		socket, err := l.family(socketType, domain, keys, v6)
		if nil != err {
			l.Close()
			return nil, err
		}

		err = socket.Bind(endpoint)
		if nil != err {
			log.Errorf("cannot bind[%d]: %q  error: %s", i, endpoint, err)
			l.Close()
			return nil, err
		}
		log.Infof("bind[%d]: %q  IPv6: %v", i, endpoint, v6)
	}
	return l, nil
}

// Socket - the socket of one address family, nil if nothing was bound
func (l *Listeners) Socket(v6 bool) *zmq.Socket {
	if v6 {
		return l.IPv6
	}
	return l.IPv4
}

// Close - close both sockets
func (l *Listeners) Close() {
	CloseAll(l.IPv4, l.IPv6)
	l.IPv4 = nil
	l.IPv6 = nil
}

// the socket for an address family, created on first use
func (l *Listeners) family(socketType zmq.Type, domain string, keys Keys, v6 bool) (*zmq.Socket, error) {
	slot := &l.IPv4
	if v6 {
		slot = &l.IPv6
	}
	if nil != *slot {
		return *slot, nil
	}

	socket, err := newSocket(socketType,
		func(s *zmq.Socket) error { return s.SetCurveServer(1) },
		func(s *zmq.Socket) error { return s.SetCurveSecretkey(string(keys.Private)) },
		func(s *zmq.Socket) error { return s.SetZapDomain(domain) },
		func(s *zmq.Socket) error { return s.SetIdentity(string(keys.Public)) },
		func(s *zmq.Socket) error { return s.SetIpv6(v6) },
		func(s *zmq.Socket) error { return s.SetLinger(0) },
		func(s *zmq.Socket) error { return s.SetRouterMandatory(0) },
		func(s *zmq.Socket) error { return s.SetHeartbeatIvl(heartbeatInterval) },
		func(s *zmq.Socket) error { return s.SetHeartbeatTimeout(heartbeatTimeout) },
		func(s *zmq.Socket) error { return s.SetHeartbeatTtl(heartbeatTTL) },
	)
	if nil != err {
		return nil, err
	}
	*slot = socket
	return socket, nil
}

// FanIn - an inproc PULL socket bound to endpoint with senders PUSH
// sockets connected to it
//
// each PUSH socket must only be used by a single goroutine
func FanIn(endpoint string, senders int) (*zmq.Socket, []*zmq.Socket, error) {
	pull, err := newSocket(zmq.PULL, linger0)
	if nil != err {
		return nil, nil, err
	}
	err = pull.Bind(endpoint)
	if nil != err {
		pull.Close()
		return nil, nil, err
	}

	push := make([]*zmq.Socket, 0, senders)
	for i := 0; i < senders; i += 1 {
		s, err := newSocket(zmq.PUSH, linger0)
		if nil == err {
			push = append(push, s)
			err = s.Connect(endpoint)
		}
		if nil != err {
			CloseAll(push...)
			pull.Close()
			return nil, nil, err
		}
	}
	return pull, push, nil
}

// CloseAll - close each socket that is present
func CloseAll(sockets ...*zmq.Socket) {
	for _, s := range sockets {
		if nil != s {
			s.Close()
		}
	}
}

func linger0(s *zmq.Socket) error {
	return s.SetLinger(0)
}

// create a socket and apply the options in order, nothing is
// returned unless every option succeeds
func newSocket(socketType zmq.Type, options ...option) (*zmq.Socket, error) {
	socket, err := zmq.NewSocket(socketType)
	if nil != err {
		return nil, err
	}
	for _, o := range options {
		if err := o(socket); nil != err {
			socket.Close()
			return nil, err
		}
	}
	return socket, nil
}
