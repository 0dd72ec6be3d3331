// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"sync"

	zmq "github.com/pebbe/zmq4"
)

// the ZAP handler is process wide
var authentication struct {
	once sync.Once
	err  error
}

// StartAuthentication - start the ZAP handler and admit any CURVE
// client to domain
//
// requests carry their own signatures so the transport key only
// encrypts, it does not identify the caller
func StartAuthentication(domain string) error {
	authentication.once.Do(func() {
		zmq.AuthSetVerbose(false)
		authentication.err = zmq.AuthStart()
	})
	if nil != authentication.err {
		return authentication.err
	}

	zmq.AuthCurveAdd(domain, zmq.CURVE_ALLOW_ANY)
	return nil
}
