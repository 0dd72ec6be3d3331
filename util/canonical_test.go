// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/xrouterd/fault"
	"github.com/bitmark-inc/xrouterd/util"
)

// Test IP address detection
func TestCanonical(t *testing.T) {
	testData := []struct {
		in       string
		expected string
		v6       bool
	}{
		{"127.0.0.1:1234", "tcp://127.0.0.1:1234", false},
		{"127.0.0.1:1", "tcp://127.0.0.1:1", false},
		{" 127.0.0.1:1 ", "tcp://127.0.0.1:1", false},
		{"127.0.0.1:65535", "tcp://127.0.0.1:65535", false},
		{"0.0.0.0:1234", "tcp://0.0.0.0:1234", false},
		{"[::1]:1234", "tcp://[::1]:1234", true},
		{"[::]:1234", "tcp://[::]:1234", true},
		{"[0:0::0:0]:1234", "tcp://[::]:1234", true},
		{"[0:0:0:0::1]:1234", "tcp://[::1]:1234", true},
	}

	for i, d := range testData {
		c, err := util.NewConnection(d.in)
		if !assert.Nil(t, err, "failed on:[%d] %q", i, d.in) {
			continue
		}
		s, v6 := c.CanonicalIPandPort("tcp://")
		assert.Equal(t, d.expected, s, "converted:[%d]", i)
		assert.Equal(t, d.v6, v6, "IPv6:[%d]", i)
	}
}

// Test IP address
func TestCanonicalIP(t *testing.T) {
	testData := []string{
		"127.1:1234",
		"256.0.0.0:1234",
		"0.256.0.0:1234",
		"0.0.256.0:1234",
		"0.0.0.256:1234",
		"0:0:1234",
		"[]:1234",
		"[as34::]:1234",
		"[1ffff::]:1234",
		"*:1234",
	}

	for i, d := range testData {
		_, err := util.NewConnection(d)
		assert.Equal(t, fault.ErrInvalidIPAddress, err, "failed on:[%d] %q", i, d)
	}
}

// Test port range
func TestCanonicalPort(t *testing.T) {
	testData := []string{
		"127.0.0.1:0",
		"127.0.0.1:65536",
		"127.0.0.1:-1",
		"127.0.0.1:http",
	}

	for i, d := range testData {
		_, err := util.NewConnection(d)
		assert.Equal(t, fault.ErrInvalidPortNumber, err, "failed on:[%d] %q", i, d)
	}
}

func TestConnections(t *testing.T) {
	c, err := util.NewConnections([]string{"127.0.0.1:2130", "[::1]:2130"})
	assert.Nil(t, err, "connections")
	assert.Equal(t, 2, len(c), "count")
	assert.Equal(t, "[::1]:2130", c[1].String(), "string")

	_, err = util.NewConnections(nil)
	assert.Equal(t, fault.ErrNoListenAddresses, err, "empty")
}
