// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package plugin - custom calls configured by name
//
// an rpc plugin forwards typed parameters to a JSON-RPC endpoint, a
// shell plugin runs a program with the parameters as its arguments;
// every outcome, including failures, is a reply string for the caller
package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/xrouterd/configuration"
	"github.com/bitmark-inc/xrouterd/rpcclient"
)

//go:generate mockgen -source=plugin.go -destination=mocks/plugin.go -package=mocks

// fixed replies
const (
	NotFound    = "Custom call not found"
	UnknownType = "Unknown type"
)

// Executor - runs a program without a shell
type Executor interface {
	Execute(ctx context.Context, argv []string) (string, error)
}

// ClientFactory - JSON-RPC client for an rpc plugin
type ClientFactory interface {
	Client(settings configuration.PluginSettings) rpcclient.Caller
}

// Settings - source of plugin settings
type Settings interface {
	Plugin(name string) (configuration.PluginSettings, bool)
}

// Processor - performs custom calls
type Processor struct {
	log      *logger.L
	executor Executor
	clients  ClientFactory
}

type errorReply struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// New - create a processor
func New(log *logger.L, executor Executor, clients ClientFactory) *Processor {
	return &Processor{
		log:      log,
		executor: executor,
		clients:  clients,
	}
}

// Invoke - call plugin name with params
func (p *Processor) Invoke(ctx context.Context, settings Settings, name string, params []string) string {
	plugin, ok := settings.Plugin(name)
	if !ok {
		p.log.Debugf("plugin: %q  not found", name)
		return NotFound
	}

	p.log.Infof("plugin: %s  type: %s", name, plugin.Type)

	ctx, cancel := context.WithTimeout(ctx, plugin.Deadline())
	defer cancel()

	switch plugin.Type {
	case configuration.PluginRPC:
		return p.callRPC(ctx, name, plugin, params)
	case configuration.PluginShell:
		return p.callShell(ctx, name, plugin, params)
	default:
		return UnknownType
	}
}

func (p *Processor) callRPC(ctx context.Context, name string, plugin configuration.PluginSettings, params []string) string {
	args, err := Coerce(plugin.ParamTypes(), params, plugin.ParamCount())
	if nil != err {
		p.log.Debugf("plugin: %s  coercion error: %s", name, err)
		return err.Error()
	}

	var result json.RawMessage
	err = p.clients.Client(plugin).Call(ctx, plugin.RPCCommand, args, &result)
	if nil != err {
		p.log.Warnf("plugin: %s  rpc error: %s", name, err)
		reply := errorReply{
			Error: err.Error(),
			Code:  -1,
		}
		var rpcErr *rpcclient.Error
		if errors.As(err, &rpcErr) {
			reply.Error = rpcErr.Message
			reply.Code = rpcErr.Code
		}
		s, _ := json.Marshal(reply)
		return string(s)
	}

	if 0 == len(result) {
		return "null"
	}
	return string(result)
}

func (p *Processor) callShell(ctx context.Context, name string, plugin configuration.PluginSettings, params []string) string {
	argv := strings.Fields(plugin.Cmd)
	if 0 == len(argv) {
		p.log.Errorf("plugin: %s  has no command", name)
		return UnknownType
	}

	count := plugin.ParamCount()
	for i := 0; i < count; i += 1 {
		if i < len(params) {
			argv = append(argv, params[i])
		} else {
			argv = append(argv, "")
		}
	}

	p.log.Debugf("plugin: %s  execute: %q", name, argv)

	output, err := p.executor.Execute(ctx, argv)
	if nil != err {
		p.log.Warnf("plugin: %s  execute error: %s", name, err)
	}
	return output
}
