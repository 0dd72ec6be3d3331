// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package connector_test

import (
	"os"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/xrouterd/configuration"
	"github.com/bitmark-inc/xrouterd/connector"
	"github.com/bitmark-inc/xrouterd/connector/bitcoin"
	"github.com/bitmark-inc/xrouterd/connector/ethereum"
	"github.com/bitmark-inc/xrouterd/fixtures"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func TestSetup(t *testing.T) {
	currencies := map[string]configuration.CurrencySettings{
		"BTC":  {Method: "BTC", IP: "127.0.0.1", Port: 8332},
		"ETH":  {Method: "eth", IP: "127.0.0.1", Port: 8545},
		"ETC":  {Method: "ETHER", IP: "127.0.0.1", Port: 8546},
		"LTC":  {IP: "127.0.0.1", Port: 9332},
		"NOIP": {Method: "BTC", Port: 1},
		"OFF":  {Method: "BTC", IP: "127.0.0.1", Port: 1, Disabled: true},
		"BAD":  {Method: "BTC", IP: "127.0.0.1", Port: 70000},
		"A:B":  {Method: "BTC", IP: "127.0.0.1", Port: 1},
	}

	connectors, err := connector.Setup(logger.New(fixtures.LogCategory), currencies)
	assert.NotNil(t, err, "expected errors")
	merr, ok := err.(*multierror.Error)
	assert.True(t, ok, "wrong error type: %T", err)
	assert.Equal(t, 2, len(merr.Errors), "wrong error count")

	kinds := map[string]string{}
	for _, c := range connectors {
		switch c.(type) {
		case *bitcoin.Connector:
			kinds[c.Currency()] = "bitcoin"
		case *ethereum.Connector:
			kinds[c.Currency()] = "ethereum"
		}
	}
	assert.Equal(t, map[string]string{
		"BTC": "bitcoin",
		"ETC": "ethereum",
		"ETH": "ethereum",
		"LTC": "bitcoin",
	}, kinds, "wrong connectors")
}

func TestSetupEmpty(t *testing.T) {
	connectors, err := connector.Setup(logger.New(fixtures.LogCategory), nil)
	assert.Nil(t, err, "error")
	assert.Equal(t, 0, len(connectors), "connectors")
}
