// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package router_test

import (
	"os"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/xrouterd/address"
	"github.com/bitmark-inc/xrouterd/admission"
	"github.com/bitmark-inc/xrouterd/configuration"
	"github.com/bitmark-inc/xrouterd/connector"
	connectormocks "github.com/bitmark-inc/xrouterd/connector/mocks"
	"github.com/bitmark-inc/xrouterd/fixtures"
	"github.com/bitmark-inc/xrouterd/ledger"
	ledgermocks "github.com/bitmark-inc/xrouterd/ledger/mocks"
	"github.com/bitmark-inc/xrouterd/packet"
	"github.com/bitmark-inc/xrouterd/plugin"
	pluginmocks "github.com/bitmark-inc/xrouterd/plugin/mocks"
	"github.com/bitmark-inc/xrouterd/ratelimit"
	"github.com/bitmark-inc/xrouterd/router"
	"github.com/bitmark-inc/xrouterd/router/mocks"
)

const (
	peer          = "peer-1"
	requestId     = "6f1c2a9e-3d4b-4e5f-8a7b-9c0d1e2f3a4b"
	stakeTxId     = "0e3e2357e806b6cdb1f70b54c3a3a17b6714ee1f0e68bebb44a74b1efd512098"
	addressPrefix = 0x1a
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

// collaborators of a router under test
type harness struct {
	router    *router.Router
	ledger    *ledgermocks.MockLedger
	connector *connectormocks.MockConnector
	executor  *pluginmocks.MockExecutor
	clients   *pluginmocks.MockClientFactory
	reporter  *mocks.MockReporter
}

func settings() configuration.Settings {
	return configuration.Settings{
		Main: configuration.MainSettings{
			Timeout: -1,
		},
		Currencies: map[string]configuration.CurrencySettings{
			"BTC": {
				Commands: map[string]configuration.CommandSettings{
					"xrGetBlockHash": {Timeout: 10},
				},
			},
			"LTC": {
				Commands: map[string]configuration.CommandSettings{
					"xrGetBlockHash": {Timeout: 0.05},
					"xrGetBalance":   {Disabled: true},
				},
			},
		},
		Plugins: map[string]configuration.PluginSettings{
			"echo": {
				Type:       configuration.PluginShell,
				Cmd:        "echo",
				ParamsType: "string,string",
				Timeout:    -1,
			},
			"limited": {
				Type:    configuration.PluginShell,
				Cmd:     "true",
				Timeout: 10,
			},
		},
	}
}

func newHarness(ctl *gomock.Controller) *harness {
	log := logger.New(fixtures.LogCategory)

	h := &harness{
		ledger:    ledgermocks.NewMockLedger(ctl),
		connector: connectormocks.NewMockConnector(ctl),
		executor:  pluginmocks.NewMockExecutor(ctl),
		clients:   pluginmocks.NewMockClientFactory(ctl),
		reporter:  mocks.NewMockReporter(ctl),
	}

	h.connector.EXPECT().Currency().Return("BTC").AnyTimes()
	registry := connector.NewRegistry()
	registry.Register(h.connector)

	h.router = router.New(log, router.Components{
		Key:      fixtures.PrivateKey2,
		Verifier: admission.New(log, h.ledger, 0),
		Limiter:  ratelimit.New(0),
		Policies: configuration.NewStore(configuration.NewPolicy(settings())),
		Registry: registry,
		Plugins:  plugin.New(log, h.executor, h.clients),
		Reporter: h.reporter,
	})
	return h
}

// the ledger holds a sufficient stake owned by key
func (h *harness) stakeOwnedBy(key *secp256k1.PrivateKey) {
	h.ledger.EXPECT().FindOutput(gomock.Any(), gomock.Any()).Return(&ledger.Output{
		Value:         500 * 100000000,
		Addresses:     []string{addressOf(key)},
		Confirmations: 6,
	}, nil).AnyTimes()
}

func addressOf(key *secp256k1.PrivateKey) string {
	return address.Encode(addressPrefix, address.Hash160(key.PubKey().SerializeCompressed()))
}

func builder(command packet.Command, currency string) *packet.Builder {
	s, err := packet.StakeFromHex(stakeTxId, 0)
	if nil != err {
		panic(err)
	}
	return packet.NewBuilder(command).
		AppendStake(s).
		AppendString(requestId).
		AppendString(currency)
}

func request(command packet.Command, currency string, fields ...string) []byte {
	b := builder(command, currency)
	for _, f := range fields {
		b.AppendString(f)
	}
	return b.Sign(fixtures.PrivateKey1).Bytes()
}

// check the reply envelope and return its payload
func replyPayload(t *testing.T, data []byte) string {
	p, err := packet.Parse(data)
	if !assert.Nil(t, err, "reply parse") {
		return ""
	}
	assert.Equal(t, packet.Reply, p.Command(), "wrong command")
	assert.True(t, p.Verify(), "reply not signed")
	assert.Equal(t, fixtures.PrivateKey2.PubKey().SerializeCompressed(), p.PublicKey(), "wrong signer")

	r := p.Reader()
	uuid, err := r.ReadString()
	assert.Nil(t, err, "uuid")
	assert.Equal(t, requestId, uuid, "uuid not echoed")

	payload, err := r.ReadString()
	assert.Nil(t, err, "payload")
	assert.Nil(t, r.Done(), "trailing data")
	return payload
}
