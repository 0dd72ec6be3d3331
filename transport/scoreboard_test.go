// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transport_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/xrouterd/fault"
	"github.com/bitmark-inc/xrouterd/fixtures"
	"github.com/bitmark-inc/xrouterd/transport"
)

func TestScoreboardBansAtThreshold(t *testing.T) {
	s := transport.NewScoreboard(logger.New(fixtures.LogCategory), 0, 0, 0)

	var banned []string
	s.OnBan(func(peer string) {
		banned = append(banned, peer)
	})

	for i := 0; i < 9; i += 1 {
		s.Misbehaving("peer-1", 10, fault.ErrUnauthenticated)
	}
	assert.Equal(t, 90, s.Score("peer-1"), "score")
	assert.False(t, s.IsBanned("peer-1"), "banned early")

	s.Misbehaving("peer-1", 10, fault.ErrNoStakeProof)
	assert.True(t, s.IsBanned("peer-1"), "not banned")
	assert.Equal(t, 0, s.Score("peer-1"), "score kept after ban")
	assert.Equal(t, []string{"peer-1"}, banned, "hook")
	assert.Equal(t, 1, s.BannedCount(), "banned count")

	assert.False(t, s.IsBanned("peer-2"), "other peer banned")

	s.Unban("peer-1")
	assert.False(t, s.IsBanned("peer-1"), "still banned")
	assert.Equal(t, 0, s.BannedCount(), "banned count after unban")
}

func TestScoreboardRateLimitBansImmediately(t *testing.T) {
	s := transport.NewScoreboard(logger.New(fixtures.LogCategory), 0, 0, 0)
	s.Misbehaving("peer-1", 100, fault.ErrRateLimited)
	assert.True(t, s.IsBanned("peer-1"), "not banned")
}

func TestScoreboardExpiry(t *testing.T) {
	s := transport.NewScoreboard(logger.New(fixtures.LogCategory), 20, 50*time.Millisecond, 50*time.Millisecond)

	s.Misbehaving("peer-1", 10, fault.ErrUnauthenticated)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, s.Score("peer-1"), "score did not decay")

	s.Misbehaving("peer-1", 20, fault.ErrUnauthenticated)
	assert.True(t, s.IsBanned("peer-1"), "not banned")
	time.Sleep(100 * time.Millisecond)
	assert.False(t, s.IsBanned("peer-1"), "ban did not expire")
}

func TestScoreboardConcurrent(t *testing.T) {
	s := transport.NewScoreboard(logger.New(fixtures.LogCategory), 1000, 0, 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Misbehaving("peer-1", 1, fault.ErrUnauthenticated)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Score("peer-1"), "lost update")
}
