// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package connector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bitmark-inc/logger"
	"github.com/hashicorp/go-multierror"

	"github.com/bitmark-inc/xrouterd/configuration"
	"github.com/bitmark-inc/xrouterd/connector/bitcoin"
	"github.com/bitmark-inc/xrouterd/connector/ethereum"
	"github.com/bitmark-inc/xrouterd/fault"
	"github.com/bitmark-inc/xrouterd/rpcclient"
)

// Setup - create connectors for every complete currency section
//
// disabled or incomplete sections are skipped, invalid sections are
// reported together and the valid ones are still returned
func Setup(log *logger.L, currencies map[string]configuration.CurrencySettings) ([]Connector, error) {
	names := make([]string, 0, len(currencies))
	for name := range currencies {
		names = append(names, name)
	}
	sort.Strings(names)

	var result *multierror.Error
	connectors := make([]Connector, 0, len(names))

	for _, name := range names {
		settings := currencies[name]

		if settings.Disabled {
			log.Infof("currency: %s  disabled", name)
			continue
		}
		if !settings.Complete() {
			log.Warnf("currency: %s  incomplete connection settings", name)
			continue
		}
		if err := validate(name, settings); nil != err {
			result = multierror.Append(result, fmt.Errorf("currency: %q  error: %w", name, err))
			continue
		}

		c := create(log, name, settings)
		log.Infof("currency: %s  method: %s  url: %s", name, settings.Method, settings.URL())
		connectors = append(connectors, c)
	}

	return connectors, result.ErrorOrNil()
}

func validate(currency string, settings configuration.CurrencySettings) error {
	if "" == currency || strings.ContainsAny(currency, "\x00:") {
		return fault.ErrInvalidCurrency
	}
	if settings.Port > 65535 {
		return fault.ErrInvalidPortNumber
	}
	return nil
}

func create(log *logger.L, currency string, settings configuration.CurrencySettings) Connector {
	conf := rpcclient.Configuration{
		URL:      settings.URL(),
		Username: settings.Username,
		Password: settings.Password,
	}

	switch strings.ToUpper(settings.Method) {
	case "ETH", "ETHER":
		conf.Version = "2.0"
		client := rpcclient.New(logger.New("eth-rpc"), conf)
		return ethereum.New(log, currency, client)
	default:
		client := rpcclient.New(logger.New("btc-rpc"), conf)
		return bitcoin.New(log, currency, client)
	}
}
