// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fixtures

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/bitmark-inc/logger"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// fixed keys so that test vectors are reproducible
var (
	PrivateKey1 = privateKey("0d2b8a86e1c0b3f5b0bd0b3a77c7a0c7b9f1c2f0a3d44e5fb1da7c44de0e4c11")
	PrivateKey2 = privateKey("5b6e3f1d2a0c4e8b9a7f6d5c4b3a29180f7e6d5c4b3a2918f7e6d5c4b3a29180")
)

func privateKey(s string) *secp256k1.PrivateKey {
	b, err := hex.DecodeString(s)
	if nil != err {
		panic(err)
	}
	return secp256k1.PrivKeyFromBytes(b)
}

// SetupTestLogger - start logging into a temporary directory
func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove the log files
func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}
