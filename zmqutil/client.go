// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"crypto/rand"
	"time"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/xrouterd/fault"
	"github.com/bitmark-inc/xrouterd/util"
)

const identitySize = 32

// Client - a DEALER connection to one node's listener
type Client struct {
	keys    Keys
	timeout time.Duration
	address string
	socket  *zmq.Socket
}

// NewClient - a client using keys for its side of the CURVE
// handshake, a zero timeout waits forever
func NewClient(keys Keys, timeout time.Duration) (*Client, error) {
	if err := keys.Validate(); nil != err {
		return nil, err
	}
	return &Client{
		keys:    keys,
		timeout: timeout,
	}, nil
}

// NewEphemeralClient - a client with a key pair of its own that is
// discarded when the client is
func NewEphemeralClient(timeout time.Duration) (*Client, error) {
	keys, err := NewKeys()
	if nil != err {
		return nil, err
	}
	return NewClient(keys, timeout)
}

// Connect - drop any current connection and connect to the server
// listening at conn with the given public key
func (c *Client) Connect(conn *util.Connection, serverPublicKey []byte) error {
	if err := c.Close(); nil != err {
		return err
	}
	if KeySize != len(serverPublicKey) {
		return fault.ErrInvalidPublicKey
	}

	identity := make([]byte, identitySize)
	if _, err := rand.Read(identity); nil != err {
		return err
	}

	address, v6 := conn.CanonicalIPandPort("tcp://")

	options := []option{
		func(s *zmq.Socket) error { return s.SetCurveServer(0) },
		func(s *zmq.Socket) error { return s.SetCurvePublickey(string(c.keys.Public)) },
		func(s *zmq.Socket) error { return s.SetCurveSecretkey(string(c.keys.Private)) },
		func(s *zmq.Socket) error { return s.SetCurveServerkey(string(serverPublicKey)) },
		func(s *zmq.Socket) error { return s.SetIdentity(string(identity)) },
		func(s *zmq.Socket) error { return s.SetIpv6(v6) },
		linger0,
	}
	if 0 != c.timeout {
		options = append(options,
			func(s *zmq.Socket) error { return s.SetSndtimeo(c.timeout) },
			func(s *zmq.Socket) error { return s.SetRcvtimeo(c.timeout) },
		)
	}

	socket, err := newSocket(zmq.DEALER, options...)
	if nil != err {
		return err
	}
	err = socket.Connect(address)
	if nil != err {
		socket.Close()
		return err
	}

	c.socket = socket
	c.address = address
	return nil
}

// IsConnected - true between Connect and Close
func (c *Client) IsConnected() bool {
	return nil != c.socket
}

// Close - disconnect, the client can be connected again
func (c *Client) Close() error {
	if nil == c.socket {
		return nil
	}
	c.socket.Disconnect(c.address)
	err := c.socket.Close()
	c.socket = nil
	c.address = ""
	return err
}

// Send - one multipart message
func (c *Client) Send(frames ...[]byte) error {
	if nil == c.socket {
		return fault.ErrNotConnected
	}
	_, err := c.socket.SendMessage(frames)
	return err
}

// Receive - the frames of the next message
func (c *Client) Receive() ([][]byte, error) {
	if nil == c.socket {
		return nil, fault.ErrNotConnected
	}
	return c.socket.RecvMessageBytes(0)
}

// Exchange - send a packet and return the packet of the next reply
func (c *Client) Exchange(request []byte) ([]byte, error) {
	err := c.Send(request)
	if nil != err {
		return nil, err
	}
	frames, err := c.Receive()
	if nil != err {
		return nil, err
	}
	if 0 == len(frames) {
		return nil, fault.ErrPacketTooShort
	}
	return frames[len(frames)-1], nil
}

// String - the connected endpoint
func (c *Client) String() string {
	return c.address
}
