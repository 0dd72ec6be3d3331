// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"fmt"
	"strings"
	"time"
)

// plugin call types
const (
	PluginRPC   = "rpc"
	PluginShell = "shell"
)

const (
	defaultPluginIP               = "127.0.0.1"
	defaultPluginExecutionTimeout = 30 * time.Second
)

// CommandSettings - per command overrides
type CommandSettings struct {
	Timeout  float64 `gluamapper:"timeout" json:"timeout"`
	Disabled bool    `gluamapper:"disabled" json:"disabled"`
}

// MainSettings - defaults for all currencies
type MainSettings struct {
	Timeout  float64                    `gluamapper:"timeout" json:"timeout"`
	Commands map[string]CommandSettings `gluamapper:"commands" json:"commands"`
}

// CurrencySettings - wallet connection and command policy of one currency
type CurrencySettings struct {
	Method   string                     `gluamapper:"method" json:"method"`
	IP       string                     `gluamapper:"ip" json:"ip"`
	Port     int                        `gluamapper:"port" json:"port"`
	Username string                     `gluamapper:"username" json:"username"`
	Password string                     `gluamapper:"password" json:"-"`
	Timeout  float64                    `gluamapper:"timeout" json:"timeout"`
	Disabled bool                       `gluamapper:"disabled" json:"disabled"`
	Commands map[string]CommandSettings `gluamapper:"commands" json:"commands"`
}

// PluginSettings - a named custom call
type PluginSettings struct {
	Type             string  `gluamapper:"type" json:"type"`
	ParamsType       string  `gluamapper:"params_type" json:"params_type"`
	MaxParams        int     `gluamapper:"max_params" json:"max_params"`
	Timeout          float64 `gluamapper:"timeout" json:"timeout"`
	ExecutionTimeout float64 `gluamapper:"execution_timeout" json:"execution_timeout"`
	Disabled         bool    `gluamapper:"disabled" json:"disabled"`

	RPCUser     string `gluamapper:"rpc_user" json:"rpc_user"`
	RPCPassword string `gluamapper:"rpc_password" json:"-"`
	RPCIP       string `gluamapper:"rpc_ip" json:"rpc_ip"`
	RPCPort     int    `gluamapper:"rpc_port" json:"rpc_port"`
	RPCCommand  string `gluamapper:"rpc_command" json:"rpc_command"`

	Cmd string `gluamapper:"cmd" json:"cmd"`
}

// Settings - the routing tables of the configuration file
type Settings struct {
	Main       MainSettings                `gluamapper:"main" json:"main"`
	Currencies map[string]CurrencySettings `gluamapper:"currencies" json:"currencies"`
	Plugins    map[string]PluginSettings   `gluamapper:"plugins" json:"plugins"`
}

// Complete - enough information to connect to the wallet
func (c CurrencySettings) Complete() bool {
	return "" != c.IP && c.Port > 0
}

// URL - wallet JSON-RPC endpoint
func (c CurrencySettings) URL() string {
	return fmt.Sprintf("http://%s:%d", c.IP, c.Port)
}

// ParamTypes - declared parameter types in order
func (p PluginSettings) ParamTypes() []string {
	if "" == strings.TrimSpace(p.ParamsType) {
		return nil
	}
	types := strings.Split(p.ParamsType, ",")
	for i, t := range types {
		types[i] = strings.TrimSpace(t)
	}
	return types
}

// ParamCount - number of parameters a call carries
func (p PluginSettings) ParamCount() int {
	if p.MaxParams > 0 {
		return p.MaxParams
	}
	return len(p.ParamTypes())
}

// Interval - minimum time between calls from one peer, negative disables
func (p PluginSettings) Interval() time.Duration {
	return seconds(p.Timeout)
}

// Deadline - bound on one execution
func (p PluginSettings) Deadline() time.Duration {
	if p.ExecutionTimeout <= 0 {
		return defaultPluginExecutionTimeout
	}
	return seconds(p.ExecutionTimeout)
}

// Endpoint - JSON-RPC URL of an rpc plugin
func (p PluginSettings) Endpoint() string {
	ip := p.RPCIP
	if "" == ip {
		ip = defaultPluginIP
	}
	return fmt.Sprintf("http://%s:%d", ip, p.RPCPort)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
