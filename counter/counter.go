// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
)

// Counter - a 64 bit unsigned integer that can be incremented concurrently
type Counter uint64

// Increment - add 1 to a counter, returns new value
func (ic *Counter) Increment() uint64 {
	return atomic.AddUint64((*uint64)(ic), 1)
}

// Uint64 - returns current value
func (ic *Counter) Uint64() uint64 {
	return atomic.LoadUint64((*uint64)(ic))
}

// Set - a fixed group of named counters
//
// the names are fixed at creation so no lock is needed,
// unknown names are counted under "other"
type Set struct {
	index  map[string]int
	values []Counter
}

const other = "other"

// NewSet - create counters for each name
func NewSet(names ...string) *Set {
	s := &Set{
		index:  make(map[string]int, len(names)+1),
		values: make([]Counter, len(names)+1),
	}
	for i, n := range names {
		s.index[n] = i
	}
	s.index[other] = len(names)
	return s
}

// Increment - add one to the named counter
func (s *Set) Increment(name string) uint64 {
	i, ok := s.index[name]
	if !ok {
		i = s.index[other]
	}
	return s.values[i].Increment()
}

// Get - current value of the named counter
func (s *Set) Get(name string) uint64 {
	i, ok := s.index[name]
	if !ok {
		return 0
	}
	return s.values[i].Uint64()
}

// Snapshot - copy of all values
func (s *Set) Snapshot() map[string]uint64 {
	result := make(map[string]uint64, len(s.index))
	for n, i := range s.index {
		result[n] = s.values[i].Uint64()
	}
	return result
}

// String - "name=value" pairs in name order, for logging
func (s *Set) String() string {
	snapshot := s.Snapshot()
	names := make([]string, 0, len(snapshot))
	for n := range snapshot {
		names = append(names, n)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s=%d", n, snapshot[n])
	}
	return strings.Join(parts, " ")
}
