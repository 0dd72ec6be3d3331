// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/xrouterd/fault"
	"github.com/bitmark-inc/xrouterd/util"
	"github.com/bitmark-inc/xrouterd/zmqutil"
)

func TestClientKeys(t *testing.T) {
	keys, err := zmqutil.NewKeys()
	assert.Nil(t, err, "keys")

	_, err = zmqutil.NewClient(zmqutil.Keys{Public: keys.Public[:31], Private: keys.Private}, 0)
	assert.Equal(t, fault.ErrInvalidPublicKey, err, "short public key")

	_, err = zmqutil.NewClient(zmqutil.Keys{Public: keys.Public, Private: append(keys.Private, 0)}, 0)
	assert.Equal(t, fault.ErrInvalidPrivateKey, err, "long private key")
}

func TestClientConnect(t *testing.T) {
	client, err := zmqutil.NewEphemeralClient(0)
	assert.Nil(t, err, "client")
	defer client.Close()

	assert.False(t, client.IsConnected(), "connected before connect")
	assert.Equal(t, fault.ErrNotConnected, client.Send([]byte("x")), "send before connect")
	_, err = client.Exchange([]byte("x"))
	assert.Equal(t, fault.ErrNotConnected, err, "exchange before connect")

	address, err := util.NewConnection("127.0.0.1:9876")
	assert.Nil(t, err, "address")

	err = client.Connect(address, make([]byte, 8))
	assert.Equal(t, fault.ErrInvalidPublicKey, err, "short server key")
	assert.False(t, client.IsConnected(), "connected with bad key")

	server, err := zmqutil.NewKeys()
	assert.Nil(t, err, "server keys")

	// connecting does not wait for the server
	err = client.Connect(address, server.Public)
	assert.Nil(t, err, "connect")
	assert.True(t, client.IsConnected(), "not connected")
	assert.Equal(t, "tcp://127.0.0.1:9876", client.String(), "address")

	err = client.Close()
	assert.Nil(t, err, "close")
	assert.False(t, client.IsConnected(), "connected after close")
	assert.Equal(t, "", client.String(), "address after close")
}
