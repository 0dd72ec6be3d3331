// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/xrouterd/fixtures"
	"github.com/bitmark-inc/xrouterd/rpcclient"
)

type request struct {
	Id     uint64        `json:"id"`
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func newClient(url string) *rpcclient.Client {
	return rpcclient.New(logger.New(fixtures.LogCategory), rpcclient.Configuration{
		URL:      url,
		Username: "user",
		Password: "secret",
	})
}

func TestCallResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok, "no basic auth")
		assert.Equal(t, "user", user, "wrong user")
		assert.Equal(t, "secret", pass, "wrong password")

		var req request
		err := json.NewDecoder(r.Body).Decode(&req)
		assert.Nil(t, err, "decode request")
		assert.Equal(t, "getblockhash", req.Method, "wrong method")
		assert.Equal(t, []interface{}{float64(100)}, req.Params, "wrong params")

		_, _ = w.Write([]byte(`{"result":"00000000abcd","error":null,"id":1}`))
	}))
	defer server.Close()

	var hash string
	err := newClient(server.URL).Call(context.Background(), "getblockhash", []interface{}{100}, &hash)
	assert.Nil(t, err, "call")
	assert.Equal(t, "00000000abcd", hash, "wrong result")
}

func TestCallRPCErrorNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"result":null,"error":{"code":-26,"message":"bad-txns"},"id":1}`))
	}))
	defer server.Close()

	err := newClient(server.URL).Call(context.Background(), "sendrawtransaction", []interface{}{"00"}, nil)
	rpcErr, ok := err.(*rpcclient.Error)
	assert.True(t, ok, "wrong error type: %v", err)
	assert.Equal(t, -26, rpcErr.Code, "wrong code")
	assert.Equal(t, "bad-txns", rpcErr.Message, "wrong message")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "RPC error was retried")
}

func TestCallNullResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":null,"error":null,"id":1}`))
	}))
	defer server.Close()

	var out *struct {
		Value float64 `json:"value"`
	}
	err := newClient(server.URL).Call(context.Background(), "gettxout", []interface{}{"aa", 0, true}, &out)
	assert.Nil(t, err, "call")
	assert.Nil(t, out, "null result decoded")
}

func TestCallNotJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	err := newClient(server.URL).Call(context.Background(), "getblockcount", nil, nil)
	assert.NotNil(t, err, "unauthorised call succeeded")
}
