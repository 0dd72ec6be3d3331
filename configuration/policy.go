// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"sort"
	"sync/atomic"
	"time"
)

// DefaultCommandTimeout - interval used when nothing is configured
const DefaultCommandTimeout = 2 * time.Second

// Policy - read-only snapshot of the routing settings
type Policy struct {
	main       MainSettings
	currencies map[string]CurrencySettings
	plugins    map[string]PluginSettings
}

// NewPolicy - snapshot settings, later changes to s are not visible
func NewPolicy(s Settings) *Policy {
	p := &Policy{
		main: MainSettings{
			Timeout:  s.Main.Timeout,
			Commands: copyCommands(s.Main.Commands),
		},
		currencies: make(map[string]CurrencySettings, len(s.Currencies)),
		plugins:    make(map[string]PluginSettings, len(s.Plugins)),
	}
	for name, c := range s.Currencies {
		c.Commands = copyCommands(c.Commands)
		p.currencies[name] = c
	}
	for name, plugin := range s.Plugins {
		p.plugins[name] = plugin
	}
	return p
}

// IsCommandEnabled - false if the command or the currency is disabled
func (p *Policy) IsCommandEnabled(command string, currency string) bool {
	if p.main.Commands[command].Disabled {
		return false
	}
	c, ok := p.currencies[currency]
	if !ok {
		return true
	}
	return !c.Disabled && !c.Commands[command].Disabled
}

// CommandTimeout - minimum interval between requests for a command
//
// searched in order: currency command, currency, main, then the default;
// zero means not set and a negative value disables the check
func (p *Policy) CommandTimeout(command string, currency string) time.Duration {
	if c, ok := p.currencies[currency]; ok {
		if t := c.Commands[command].Timeout; 0 != t {
			return seconds(t)
		}
		if 0 != c.Timeout {
			return seconds(c.Timeout)
		}
	}
	if t := p.main.Commands[command].Timeout; 0 != t {
		return seconds(t)
	}
	if 0 != p.main.Timeout {
		return seconds(p.main.Timeout)
	}
	return DefaultCommandTimeout
}

// Plugin - settings of an enabled plugin
func (p *Policy) Plugin(name string) (PluginSettings, bool) {
	plugin, ok := p.plugins[name]
	if !ok || plugin.Disabled {
		return PluginSettings{}, false
	}
	return plugin, true
}

// HasPlugin - true for an enabled plugin
func (p *Policy) HasPlugin(name string) bool {
	_, ok := p.Plugin(name)
	return ok
}

// PluginNames - sorted names of enabled plugins
func (p *Policy) PluginNames() []string {
	names := make([]string, 0, len(p.plugins))
	for name, plugin := range p.plugins {
		if !plugin.Disabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Currencies - copy of all currency settings
func (p *Policy) Currencies() map[string]CurrencySettings {
	m := make(map[string]CurrencySettings, len(p.currencies))
	for name, c := range p.currencies {
		c.Commands = copyCommands(c.Commands)
		m[name] = c
	}
	return m
}

func copyCommands(m map[string]CommandSettings) map[string]CommandSettings {
	c := make(map[string]CommandSettings, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// Store - holder of the current policy
type Store struct {
	current atomic.Value
}

// NewStore - create a store holding p
func NewStore(p *Policy) *Store {
	s := &Store{}
	s.current.Store(p)
	return s
}

// Policy - the current snapshot
func (s *Store) Policy() *Policy {
	return s.current.Load().(*Policy)
}

// Replace - publish a new snapshot
func (s *Store) Replace(p *Policy) {
	s.current.Store(p)
}
