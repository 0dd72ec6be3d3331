// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ratelimit - per peer request throttling
//
// each (peer, key) pair remembers the time of its previous request;
// a request that arrives sooner than the configured interval after
// the previous one is throttled
package ratelimit

import (
	"strings"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// Result - outcome of a check
type Result int

// possible results
const (
	Allowed Result = iota
	Throttled
)

const (
	// DefaultRetention - entries idle for this long are forgotten
	DefaultRetention = time.Hour

	separator = "\x00"
)

// Limiter - last request times keyed by (peer, key)
type Limiter struct {
	sync.Mutex
	entries   *cache.Cache
	retention time.Duration
}

// New - create a limiter, a non-positive retention selects the default
func New(retention time.Duration) *Limiter {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Limiter{
		entries:   cache.New(retention, retention/2),
		retention: retention,
	}
}

// CheckAndRecord - compare against the previous request and record now
//
// a negative interval disables the check and nothing is recorded;
// the time is recorded even when throttled so a sustained flood
// stays throttled; an entry is kept for the longer of the retention
// and the interval
func (l *Limiter) CheckAndRecord(peer string, key string, minInterval time.Duration, now time.Time) Result {
	if minInterval < 0 {
		return Allowed
	}

	k := peer + separator + key

	l.Lock()
	defer l.Unlock()

	result := Allowed
	if item, found := l.entries.Get(k); found {
		if now.Sub(item.(time.Time)) < minInterval {
			result = Throttled
		}
	}
	// an entry must outlive its own interval
	l.entries.Set(k, now, max(l.retention, minInterval))

	return result
}

// Forget - drop every entry of a peer
func (l *Limiter) Forget(peer string) {
	prefix := peer + separator

	l.Lock()
	defer l.Unlock()

	for k := range l.entries.Items() {
		if strings.HasPrefix(k, prefix) {
			l.entries.Delete(k)
		}
	}
}

// Len - number of live entries
func (l *Limiter) Len() int {
	return l.entries.ItemCount()
}

// Key - rate-limit key of a built-in command
func Key(currency string, command string) string {
	return currency + "::" + command
}

func (r Result) String() string {
	if Throttled == r {
		return "throttled"
	}
	return "allowed"
}
