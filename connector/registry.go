// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package connector

import (
	"sort"
	"sync"
)

// Registry - currency symbol → connector
type Registry struct {
	sync.Mutex
	connectors map[string]Connector
}

// NewRegistry - create an empty registry
func NewRegistry() *Registry {
	return &Registry{
		connectors: make(map[string]Connector),
	}
}

// Register - add or replace the connector for its currency
func (r *Registry) Register(c Connector) {
	r.Lock()
	r.connectors[c.Currency()] = c
	r.Unlock()
}

// Replace - make connectors the complete set
func (r *Registry) Replace(connectors []Connector) {
	m := make(map[string]Connector, len(connectors))
	for _, c := range connectors {
		m[c.Currency()] = c
	}
	r.Lock()
	r.connectors = m
	r.Unlock()
}

// Lookup - connector for currency
func (r *Registry) Lookup(currency string) (Connector, bool) {
	r.Lock()
	c, ok := r.connectors[currency]
	r.Unlock()
	return c, ok
}

// Currencies - sorted list of registered currencies
func (r *Registry) Currencies() []string {
	r.Lock()
	currencies := make([]string, 0, len(r.connectors))
	for currency := range r.connectors {
		currencies = append(currencies, currency)
	}
	r.Unlock()

	sort.Strings(currencies)
	return currencies
}
