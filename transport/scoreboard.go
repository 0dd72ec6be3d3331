// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transport

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/logger"
)

// defaults
const (
	DefaultBanThreshold = 100
	DefaultScoreWindow  = 24 * time.Hour
	DefaultBanDuration  = 24 * time.Hour
)

// BanFunc - called once when a peer becomes banned
type BanFunc func(peer string)

// Scoreboard - accumulates misbehaviour and bans peers
//
// scores decay by expiring a window after the last report
type Scoreboard struct {
	sync.Mutex
	log         *logger.L
	threshold   int
	window      time.Duration
	banDuration time.Duration
	scores      *cache.Cache
	banned      *cache.Cache
	hooks       []BanFunc
}

// NewScoreboard - create a scoreboard, zero values select defaults
func NewScoreboard(log *logger.L, threshold int, window time.Duration, banDuration time.Duration) *Scoreboard {
	if threshold <= 0 {
		threshold = DefaultBanThreshold
	}
	if window <= 0 {
		window = DefaultScoreWindow
	}
	if banDuration <= 0 {
		banDuration = DefaultBanDuration
	}
	return &Scoreboard{
		log:         log,
		threshold:   threshold,
		window:      window,
		banDuration: banDuration,
		scores:      cache.New(window, window),
		banned:      cache.New(banDuration, time.Minute),
	}
}

// OnBan - add a hook run when a peer is banned
func (s *Scoreboard) OnBan(f BanFunc) {
	s.Lock()
	s.hooks = append(s.hooks, f)
	s.Unlock()
}

// Misbehaving - add score to a peer
func (s *Scoreboard) Misbehaving(peer string, score int, reason error) {
	s.Lock()

	total := score
	if v, found := s.scores.Get(peer); found {
		total += v.(int)
	}

	s.log.Warnf("peer: %s  misbehaving: +%d  total: %d  reason: %s", peer, score, total, reason)

	if total < s.threshold {
		s.scores.Set(peer, total, s.window)
		s.Unlock()
		return
	}

	s.scores.Delete(peer)
	s.banned.Set(peer, reason, s.banDuration)
	hooks := make([]BanFunc, len(s.hooks))
	copy(hooks, s.hooks)
	s.Unlock()

	s.log.Warnf("peer: %s  banned for: %s", peer, s.banDuration)
	for _, f := range hooks {
		f(peer)
	}
}

// IsBanned - true while a ban is in force
func (s *Scoreboard) IsBanned(peer string) bool {
	_, found := s.banned.Get(peer)
	return found
}

// Score - current accumulated score
func (s *Scoreboard) Score(peer string) int {
	if v, found := s.scores.Get(peer); found {
		return v.(int)
	}
	return 0
}

// Unban - lift a ban
func (s *Scoreboard) Unban(peer string) {
	s.banned.Delete(peer)
}

// BannedCount - number of bans in force
func (s *Scoreboard) BannedCount() int {
	return s.banned.ItemCount()
}
