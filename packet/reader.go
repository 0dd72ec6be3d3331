// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package packet

import (
	"bytes"
	"unicode/utf8"

	"github.com/bitmark-inc/xrouterd/fault"
)

// Reader - sequential field reader over a packet body
//
// the reader never modifies the underlying buffer
type Reader struct {
	data   []byte
	offset int
}

// NewReader - start reading at the first byte of data
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadFixed - the next n bytes
func (r *Reader) ReadFixed(n int) ([]byte, error) {
	if n < 0 || r.Len() < n {
		return nil, fault.ErrFieldOverrun
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

// ReadString - the next NUL terminated string, the NUL is consumed
func (r *Reader) ReadString() (string, error) {
	n := bytes.IndexByte(r.data[r.offset:], 0)
	if n < 0 {
		return "", fault.ErrFieldOverrun
	}
	b := r.data[r.offset : r.offset+n]
	if !utf8.Valid(b) {
		return "", fault.ErrInvalidFieldEncoding
	}
	r.offset += n + 1
	return string(b), nil
}

// ReadStrings - exactly n strings
func (r *Reader) ReadStrings(n int) ([]string, error) {
	if n < 0 {
		return nil, fault.ErrInvalidCount
	}
	s := make([]string, n)
	for i := 0; i < n; i += 1 {
		var err error
		s[i], err = r.ReadString()
		if nil != err {
			return nil, err
		}
	}
	return s, nil
}

// Remaining - consume everything left
func (r *Reader) Remaining() []byte {
	b := r.data[r.offset:]
	r.offset = len(r.data)
	return b
}

// Len - number of unread bytes
func (r *Reader) Len() int {
	return len(r.data) - r.offset
}

// Done - error if any bytes were not consumed
func (r *Reader) Done() error {
	if 0 != r.Len() {
		return fault.ErrTrailingData
	}
	return nil
}
