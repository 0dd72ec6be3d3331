// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"os"
	"path/filepath"

	"github.com/bitmark-inc/xrouterd/fault"
)

// ResolvePath - a relative path is taken from directory, the result
// is always cleaned
func ResolvePath(directory string, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(directory, path)
}

// FileExists - true if name can be stat'ed
func FileExists(name string) bool {
	_, err := os.Stat(name)
	return nil == err
}

// WriteNewFile - create name holding data
//
// an existing file is never replaced, key material is written through
// this so a second setup run cannot destroy an identity
func WriteNewFile(name string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if os.IsExist(err) {
		return fault.ErrKeyFileAlreadyExists
	}
	if nil != err {
		return err
	}

	_, err = f.Write(data)
	if closeErr := f.Close(); nil == err {
		err = closeErr
	}
	if nil != err {
		os.Remove(name)
	}
	return err
}
