// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"net"
	"strconv"
	"strings"

	"github.com/bitmark-inc/xrouterd/fault"
)

// Connection - a canonical IP and port
type Connection struct {
	ip   net.IP
	port int
}

// NewConnection - parse an IP:Port
//
// examples:
//   IPv4:  127.0.0.1:1234
//   IPv6:  [::1]:1234
func NewConnection(hostPort string) (*Connection, error) {
	host, port, err := net.SplitHostPort(strings.TrimSpace(hostPort))
	if nil != err {
		return nil, fault.ErrInvalidIPAddress
	}

	ip := net.ParseIP(strings.TrimSpace(host))
	if nil == ip {
		return nil, fault.ErrInvalidIPAddress
	}

	numericPort, err := strconv.Atoi(strings.TrimSpace(port))
	if nil != err || numericPort < 1 || numericPort > 65535 {
		return nil, fault.ErrInvalidPortNumber
	}

	c := &Connection{
		ip:   ip,
		port: numericPort,
	}
	return c, nil
}

// NewConnections - parse a list of IP:Port
func NewConnections(hostPorts []string) ([]*Connection, error) {
	if 0 == len(hostPorts) {
		return nil, fault.ErrNoListenAddresses
	}
	c := make([]*Connection, len(hostPorts))
	for i, hostPort := range hostPorts {
		conn, err := NewConnection(hostPort)
		if nil != err {
			return nil, err
		}
		c[i] = conn
	}
	return c, nil
}

// CanonicalIPandPort - canonical form with a prefix, true for IPv6
func (conn *Connection) CanonicalIPandPort(prefix string) (string, bool) {
	port := strconv.Itoa(conn.port)
	if nil != conn.ip.To4() {
		return prefix + conn.ip.String() + ":" + port, false
	}
	return prefix + "[" + conn.ip.String() + "]:" + port, true
}

// String - canonical IP:Port
func (conn *Connection) String() string {
	s, _ := conn.CanonicalIPandPort("")
	return s
}
