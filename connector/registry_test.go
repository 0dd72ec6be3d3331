// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package connector_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/xrouterd/connector"
	"github.com/bitmark-inc/xrouterd/connector/mocks"
)

func newMock(ctl *gomock.Controller, currency string) *mocks.MockConnector {
	m := mocks.NewMockConnector(ctl)
	m.EXPECT().Currency().Return(currency).AnyTimes()
	return m
}

func TestRegisterLookup(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	r := connector.NewRegistry()
	btc := newMock(ctl, "BTC")
	r.Register(btc)

	c, ok := r.Lookup("BTC")
	assert.True(t, ok, "lookup")
	assert.Equal(t, btc, c, "wrong connector")

	_, ok = r.Lookup("FOO")
	assert.False(t, ok, "unexpected connector")
}

func TestLastRegistrationWins(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	r := connector.NewRegistry()
	first := newMock(ctl, "BTC")
	second := newMock(ctl, "BTC")
	r.Register(first)
	r.Register(second)

	c, _ := r.Lookup("BTC")
	assert.Equal(t, second, c, "first registration kept")
	assert.Equal(t, []string{"BTC"}, r.Currencies(), "duplicate currency")
}

func TestReplace(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	r := connector.NewRegistry()
	r.Register(newMock(ctl, "BTC"))
	r.Replace([]connector.Connector{newMock(ctl, "LTC"), newMock(ctl, "ETH")})

	assert.Equal(t, []string{"ETH", "LTC"}, r.Currencies(), "wrong currencies")
	_, ok := r.Lookup("BTC")
	assert.False(t, ok, "removed currency still present")
}

func TestConcurrentRegistry(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	r := connector.NewRegistry()
	connectors := make([]connector.Connector, 20)
	for i := range connectors {
		connectors[i] = newMock(ctl, fmt.Sprintf("C%02d", i))
	}

	var wg sync.WaitGroup
	for _, c := range connectors {
		wg.Add(2)
		go func(c connector.Connector) {
			defer wg.Done()
			r.Register(c)
		}(c)
		go func(currency string) {
			defer wg.Done()
			r.Lookup(currency)
		}(c.Currency())
	}
	wg.Wait()

	assert.Equal(t, 20, len(r.Currencies()), "lost registrations")
}
