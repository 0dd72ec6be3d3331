// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/xrouterd/fault"
)

const (
	defaultVersion    = "1.0"
	defaultRetries    = 2
	defaultTimeout    = 30 * time.Second
	maximumReplyBytes = 32 * 1024 * 1024
)

//go:generate mockgen -source=client.go -destination=mocks/client.go -package=mocks

// Caller - anything that can perform a JSON-RPC call
type Caller interface {
	Call(ctx context.Context, method string, params []interface{}, reply interface{}) error
}

// Configuration - connection details of a wallet daemon
type Configuration struct {
	URL      string
	Username string
	Password string
	Version  string // jsonrpc member, bitcoin style daemons use "1.0"
	Timeout  time.Duration
	Retries  int
}

// Client - JSON-RPC over HTTP with basic authentication
type Client struct {
	log      *logger.L
	http     *retryablehttp.Client
	url      string
	username string
	password string
	version  string
	id       uint64
}

// Error - an error object returned by the daemon
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// for encoding the RPC arguments
type arguments struct {
	JSONRPC string        `json:"jsonrpc"`
	Id      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// for decoding the RPC reply
type response struct {
	Id     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *Error          `json:"error"`
}

// New - create a client, no connection is made until the first call
func New(log *logger.L, configuration Configuration) *Client {
	h := retryablehttp.NewClient()
	h.RetryMax = configuration.Retries
	if h.RetryMax <= 0 {
		h.RetryMax = defaultRetries
	}
	h.HTTPClient.Timeout = configuration.Timeout
	if h.HTTPClient.Timeout <= 0 {
		h.HTTPClient.Timeout = defaultTimeout
	}
	h.CheckRetry = checkRetry
	h.Logger = leveledLogger{log: log}

	version := configuration.Version
	if "" == version {
		version = defaultVersion
	}

	return &Client{
		log:      log,
		http:     h,
		url:      configuration.URL,
		username: configuration.Username,
		password: configuration.Password,
		version:  version,
	}
}

// URL - the daemon endpoint
func (c *Client) URL() string {
	return c.url
}

// Call - perform a single call and decode the result into reply
//
// reply may be nil to discard the result, an error object returned
// by the daemon is returned as *Error
func (c *Client) Call(ctx context.Context, method string, params []interface{}, reply interface{}) error {
	if nil == params {
		params = []interface{}{}
	}

	args := arguments{
		JSONRPC: c.version,
		Id:      atomic.AddUint64(&c.id, 1),
		Method:  method,
		Params:  params,
	}

	s, err := json.Marshal(args)
	if nil != err {
		return err
	}

	c.log.Tracef("rpc send: %s", s)

	request, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(s))
	if nil != err {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	if "" != c.username || "" != c.password {
		request.SetBasicAuth(c.username, c.password)
	}

	r, err := c.http.Do(request)
	if nil != err {
		c.log.Debugf("rpc: %s  error: %s", method, err)
		return err
	}
	defer r.Body.Close()

	body, err := ioutil.ReadAll(io.LimitReader(r.Body, maximumReplyBytes))
	if nil != err {
		return err
	}

	c.log.Tracef("rpc response: %d  body: %s", r.StatusCode, body)

	// daemons report RPC errors with status 500 and a JSON body
	var rpcReply response
	if err := json.Unmarshal(body, &rpcReply); nil != err {
		if http.StatusOK != r.StatusCode {
			return fault.ErrUnexpectedHTTPStatus
		}
		return err
	}

	if nil != rpcReply.Error {
		return rpcReply.Error
	}

	if nil == reply || 0 == len(rpcReply.Result) {
		return nil
	}
	return json.Unmarshal(rpcReply.Result, reply)
}

// only transport failures and gateway errors are retried, an RPC
// error from the daemon is final
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if nil != resp && resp.StatusCode < http.StatusBadGateway {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// adapt the channel logger to retryablehttp.LeveledLogger
type leveledLogger struct {
	log *logger.L
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Errorf("%s %v", msg, keysAndValues)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Infof("%s %v", msg, keysAndValues)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debugf("%s %v", msg, keysAndValues)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warnf("%s %v", msg, keysAndValues)
}
