// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/xrouterd/fault"
	"github.com/bitmark-inc/xrouterd/fixtures"
	"github.com/bitmark-inc/xrouterd/ledger"
	"github.com/bitmark-inc/xrouterd/ledger/mocks"
)

func TestCachedConfirmedSurvivesReopen(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	dir := t.TempDir()
	m := mocks.NewMockLedger(ctl)
	expected := &ledger.Output{
		Value:         20000000000,
		Addresses:     []string{"Bxyz"},
		Confirmations: 6,
	}
	m.EXPECT().FindOutput(gomock.Any(), stake(0)).Return(expected, nil).Times(1)

	c, err := ledger.NewCached(logger.New(fixtures.LogCategory), m, dir, time.Minute)
	assert.Nil(t, err, "open")

	for i := 0; i < 3; i += 1 {
		o, err := c.FindOutput(context.Background(), stake(0))
		assert.Nil(t, err, "find")
		assert.Equal(t, expected, o, "wrong output")
	}
	assert.Nil(t, c.Close(), "close")

	// no further calls to the underlying ledger
	c, err = ledger.NewCached(logger.New(fixtures.LogCategory), m, dir, time.Minute)
	assert.Nil(t, err, "reopen")
	defer c.Close()

	o, err := c.FindOutput(context.Background(), stake(0))
	assert.Nil(t, err, "find after reopen")
	assert.Equal(t, expected, o, "wrong output after reopen")
}

func TestCachedMempoolExpires(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	m := mocks.NewMockLedger(ctl)
	unconfirmed := &ledger.Output{
		Value:     20000000000,
		Addresses: []string{"Bxyz"},
	}
	m.EXPECT().FindOutput(gomock.Any(), stake(2)).Return(unconfirmed, nil).Times(2)

	c, err := ledger.NewCached(logger.New(fixtures.LogCategory), m, t.TempDir(), 50*time.Millisecond)
	assert.Nil(t, err, "open")
	defer c.Close()

	_, err = c.FindOutput(context.Background(), stake(2))
	assert.Nil(t, err, "first find")
	o, err := c.FindOutput(context.Background(), stake(2))
	assert.Nil(t, err, "cached find")
	assert.Equal(t, unconfirmed, o, "wrong output")

	time.Sleep(100 * time.Millisecond)

	_, err = c.FindOutput(context.Background(), stake(2))
	assert.Nil(t, err, "find after expiry")
}

func TestCachedErrorsNotStored(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	m := mocks.NewMockLedger(ctl)
	m.EXPECT().FindOutput(gomock.Any(), stake(3)).Return(nil, fault.ErrOutputNotFound).Times(2)

	c, err := ledger.NewCached(logger.New(fixtures.LogCategory), m, t.TempDir(), time.Minute)
	assert.Nil(t, err, "open")
	defer c.Close()

	for i := 0; i < 2; i += 1 {
		_, err = c.FindOutput(context.Background(), stake(3))
		assert.Equal(t, fault.ErrOutputNotFound, err, "wrong error")
	}
}
