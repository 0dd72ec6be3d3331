// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"runtime"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/xrouterd/counter"
	"github.com/bitmark-inc/xrouterd/ratelimit"
	"github.com/bitmark-inc/xrouterd/transport"
)

const (
	statsDelay = 60 * time.Second
	mega       = 1048576
)

type stats struct {
	log        *logger.L
	counters   *counter.Set
	limiter    *ratelimit.Limiter
	scoreboard *transport.Scoreboard
	memory     bool
}

// periodically log the request counters and optionally memory use
func (s *stats) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log

	log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-time.After(statsDelay):
		}

		log.Infof("requests: %s", s.counters)
		log.Infof("rate entries: %d  banned peers: %d", s.limiter.Len(), s.scoreboard.BannedCount())

		if s.memory {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			a := m.Alloc / mega
			t := m.TotalAlloc / mega
			v := m.Sys / mega
			log.Warnf("allocated: %d M  cumulative: %d M  OS virtual: %d M", a, t, v)
		}
	}

	log.Info("stopped")
}
