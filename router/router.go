// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package router - admission, rate limiting and dispatch of requests
//
// each request passes through the states:
//
//   received -> verified -> rate checked -> routed -> replied
//
// and any gate may end it without a reply
package router

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/xrouterd/admission"
	"github.com/bitmark-inc/xrouterd/configuration"
	"github.com/bitmark-inc/xrouterd/connector"
	"github.com/bitmark-inc/xrouterd/counter"
	"github.com/bitmark-inc/xrouterd/fault"
	"github.com/bitmark-inc/xrouterd/packet"
	"github.com/bitmark-inc/xrouterd/plugin"
	"github.com/bitmark-inc/xrouterd/ratelimit"
)

//go:generate mockgen -source=router.go -destination=mocks/router.go -package=mocks

// misbehaviour scores
const (
	PenaltyUnauthenticated = 10
	PenaltyNoStake         = 10
	PenaltyRateLimited     = 100
)

// outcome counter names
const (
	CountReceived        = "received"
	CountMalformed       = "malformed"
	CountUnknown         = "unknown"
	CountUnauthenticated = "unauthenticated"
	CountNoStake         = "no-stake"
	CountUnverifiable    = "unverifiable"
	CountDisabled        = "disabled"
	CountThrottled       = "throttled"
	CountReplied         = "replied"
)

// Reporter - receives misbehaviour scores for peers
type Reporter interface {
	Misbehaving(peer string, score int, reason error)
}

// PolicySource - current configuration snapshot
type PolicySource interface {
	Policy() *configuration.Policy
}

// Components - collaborators of a router
type Components struct {
	Key      *secp256k1.PrivateKey
	Verifier *admission.Verifier
	Limiter  *ratelimit.Limiter
	Policies PolicySource
	Registry *connector.Registry
	Plugins  *plugin.Processor
	Reporter Reporter
}

// Router - services requests from peers
type Router struct {
	log      *logger.L
	key      *secp256k1.PrivateKey
	verifier *admission.Verifier
	limiter  *ratelimit.Limiter
	policies PolicySource
	registry *connector.Registry
	plugins  *plugin.Processor
	reporter Reporter
	counters *counter.Set
	now      func() time.Time
}

// New - create a router
func New(log *logger.L, c Components) *Router {
	return &Router{
		log:      log,
		key:      c.Key,
		verifier: c.Verifier,
		limiter:  c.Limiter,
		policies: c.Policies,
		registry: c.Registry,
		plugins:  c.Plugins,
		reporter: c.Reporter,
		counters: counter.NewSet(
			CountReceived,
			CountMalformed,
			CountUnknown,
			CountUnauthenticated,
			CountNoStake,
			CountUnverifiable,
			CountDisabled,
			CountThrottled,
			CountReplied,
		),
		now: time.Now,
	}
}

// Counters - request outcome statistics
func (r *Router) Counters() *counter.Set {
	return r.counters
}

// Disconnected - discard rate limit state of a departed peer
func (r *Router) Disconnected(peer string) {
	r.limiter.Forget(peer)
}

// Handle - process one packet from peer
//
// a nil reply means nothing is sent back, the error says why;
// invalid class errors are malformed packets, reject class errors
// have already been reported as misbehaviour
func (r *Router) Handle(ctx context.Context, peer string, data []byte) ([]byte, error) {
	r.counters.Increment(CountReceived)

	p, err := packet.Parse(data)
	if nil != err {
		r.counters.Increment(CountMalformed)
		r.log.Debugf("peer: %s  parse error: %s", peer, err)
		return nil, err
	}

	command := p.Command()
	if !command.IsRequest() {
		r.counters.Increment(CountUnknown)
		r.log.Debugf("peer: %s  unknown command: %d", peer, command)
		return nil, fault.ErrUnknownCommand
	}

	switch result := r.verifier.Verify(ctx, p); result {
	case admission.Accepted:
	case admission.RejectedUnsigned:
		r.counters.Increment(CountUnauthenticated)
		r.reporter.Misbehaving(peer, PenaltyUnauthenticated, result.Err())
		return nil, result.Err()
	case admission.RejectedNoStake:
		r.counters.Increment(CountNoStake)
		r.reporter.Misbehaving(peer, PenaltyNoStake, result.Err())
		return nil, result.Err()
	default:
		r.counters.Increment(CountUnverifiable)
		return nil, result.Err()
	}

	reader := p.Reader()
	if _, err := reader.ReadFixed(packet.StakeSize); nil != err {
		r.counters.Increment(CountMalformed)
		return nil, err
	}
	uuid, err := reader.ReadString()
	if nil != err {
		r.counters.Increment(CountMalformed)
		return nil, err
	}
	currency, err := reader.ReadString()
	if nil != err {
		r.counters.Increment(CountMalformed)
		return nil, err
	}

	r.log.Infof("peer: %s  command: %s  currency: %s  uuid: %s", peer, command, currency, uuid)

	// one snapshot for the whole request
	policy := r.policies.Policy()

	if !policy.IsCommandEnabled(command.String(), currency) {
		r.counters.Increment(CountDisabled)
		r.log.Debugf("command: %s  disabled for: %s", command, currency)
		return nil, fault.ErrCommandDisabled
	}

	key, interval := rateLimitFor(policy, command, currency)
	if ratelimit.Throttled == r.limiter.CheckAndRecord(peer, key, interval, r.now()) {
		r.counters.Increment(CountThrottled)
		r.log.Warnf("peer: %s  too many requests: %s", peer, key)
		r.reporter.Misbehaving(peer, PenaltyRateLimited, fault.ErrRateLimited)
		return nil, fault.ErrRateLimited
	}

	var payload string
	if packet.CustomCall == command {
		payload, err = r.customCall(ctx, policy, currency, reader)
	} else {
		payload, err = r.builtIn(ctx, command, currency, reader)
	}
	if nil != err {
		r.counters.Increment(CountMalformed)
		r.log.Debugf("peer: %s  command: %s  field error: %s", peer, command, err)
		return nil, err
	}

	if !isFieldText(payload) {
		r.log.Warnf("peer: %s  command: %s  unsendable result: %d bytes", peer, command, len(payload))
		payload = encode(errorReply{Error: unsendableResult})
	}

	reply := packet.NewBuilder(packet.Reply).
		AppendString(uuid).
		AppendString(payload).
		Sign(r.key)

	r.counters.Increment(CountReplied)
	return reply.Bytes(), nil
}

// the payload is sent as one NUL terminated UTF-8 field
func isFieldText(s string) bool {
	return -1 == strings.IndexByte(s, 0) && utf8.ValidString(s)
}

// rate limit key and interval, custom calls are limited per plugin
func rateLimitFor(policy *configuration.Policy, command packet.Command, currency string) (string, time.Duration) {
	if packet.CustomCall == command {
		settings, ok := policy.Plugin(currency)
		if !ok {
			return currency, -1
		}
		return currency, settings.Interval()
	}
	return ratelimit.Key(currency, command.String()), policy.CommandTimeout(command.String(), currency)
}

func (r *Router) customCall(ctx context.Context, policy *configuration.Policy, name string, reader *packet.Reader) (string, error) {
	// fee transaction is carried but not checked
	if _, err := reader.ReadString(); nil != err {
		return "", err
	}

	var params []string
	if settings, ok := policy.Plugin(name); ok {
		var err error
		params, err = reader.ReadStrings(settings.ParamCount())
		if nil != err {
			return "", err
		}
		if err := reader.Done(); nil != err {
			return "", err
		}
	}

	return r.plugins.Invoke(ctx, policy, name, params), nil
}
