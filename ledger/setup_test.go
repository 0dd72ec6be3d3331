// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"os"
	"testing"

	"github.com/bitmark-inc/xrouterd/fixtures"
	"github.com/bitmark-inc/xrouterd/packet"
)

const (
	stakeTxId = "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func stake(vout uint32) packet.StakeProof {
	s, err := packet.StakeFromHex(stakeTxId, vout)
	if nil != err {
		panic(err)
	}
	return s
}
