// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package plugin

import (
	"bytes"
	"context"
	"os/exec"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/xrouterd/configuration"
	"github.com/bitmark-inc/xrouterd/rpcclient"
)

// how long to wait for output after the program was killed
const outputDelay = 100 * time.Millisecond

// CommandExecutor - runs programs directly with os/exec
type CommandExecutor struct{}

// Execute - run argv and return its standard output
//
// the output gathered so far is returned even if the program fails
// or the context expires; on expiry every process started by the
// program is killed and its output abandoned
func (CommandExecutor) Execute(ctx context.Context, argv []string) (string, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.WaitDelay = outputDelay
	killProcessGroup(cmd)
	err := cmd.Run()
	return stdout.String(), err
}

// Clients - JSON-RPC clients shared by plugins with the same endpoint
type Clients struct {
	sync.Mutex
	log     *logger.L
	clients map[string]*rpcclient.Client
}

// NewClients - create an empty client cache
func NewClients(log *logger.L) *Clients {
	return &Clients{
		log:     log,
		clients: make(map[string]*rpcclient.Client),
	}
}

// Client - find or create the client for a plugin endpoint
func (c *Clients) Client(settings configuration.PluginSettings) rpcclient.Caller {
	key := settings.Endpoint() + "\x00" + settings.RPCUser + "\x00" + settings.RPCPassword

	c.Lock()
	defer c.Unlock()

	client, ok := c.clients[key]
	if !ok {
		client = rpcclient.New(c.log, rpcclient.Configuration{
			URL:      settings.Endpoint(),
			Username: settings.RPCUser,
			Password: settings.RPCPassword,
			Timeout:  settings.Deadline(),
		})
		c.clients[key] = client
	}
	return client
}
