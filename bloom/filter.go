// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bloom - BIP37 transaction bloom filters as serialised by wallets
package bloom

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"

	"github.com/bitmark-inc/xrouterd/fault"
)

// limits from BIP37
const (
	MaximumFilterBytes   = 36000
	MaximumHashFunctions = 50

	seedMultiplier = 0xfba4c795
)

// Filter - a decoded filter
type Filter struct {
	data      []byte
	hashCount uint32
	tweak     uint32
	flags     byte
}

// New - empty filter of the given size, used by clients
func New(size int, hashCount uint32, tweak uint32) (*Filter, error) {
	if size <= 0 || size > MaximumFilterBytes {
		return nil, fault.ErrBloomFilterTooLarge
	}
	if 0 == hashCount || hashCount > MaximumHashFunctions {
		return nil, fault.ErrInvalidBloomFilter
	}
	return &Filter{
		data:      make([]byte, size),
		hashCount: hashCount,
		tweak:     tweak,
	}, nil
}

// Decode - parse the wire serialisation:
//   compact size length, data, uint32 hash count, uint32 tweak, flags byte
func Decode(b []byte) (*Filter, error) {
	n, offset, err := readCompactSize(b)
	if nil != err {
		return nil, err
	}
	if n > MaximumFilterBytes {
		return nil, fault.ErrBloomFilterTooLarge
	}
	if 0 == n || uint64(len(b)-offset) != n+9 {
		return nil, fault.ErrInvalidBloomFilter
	}

	f := &Filter{
		data: make([]byte, n),
	}
	copy(f.data, b[offset:])
	offset += int(n)
	f.hashCount = binary.LittleEndian.Uint32(b[offset:])
	f.tweak = binary.LittleEndian.Uint32(b[offset+4:])
	f.flags = b[offset+8]

	if f.hashCount > MaximumHashFunctions {
		return nil, fault.ErrInvalidBloomFilter
	}
	return f, nil
}

// Encode - inverse of Decode
func (f *Filter) Encode() []byte {
	b := make([]byte, 0, len(f.data)+18)
	b = appendCompactSize(b, uint64(len(f.data)))
	b = append(b, f.data...)
	var tail [9]byte
	binary.LittleEndian.PutUint32(tail[0:], f.hashCount)
	binary.LittleEndian.PutUint32(tail[4:], f.tweak)
	tail[8] = f.flags
	return append(b, tail[:]...)
}

// Insert - add an item
func (f *Filter) Insert(item []byte) {
	for i := uint32(0); i < f.hashCount; i += 1 {
		bit := f.hash(i, item)
		f.data[bit>>3] |= 1 << (bit & 7)
	}
}

// Contains - true if item may be in the set
func (f *Filter) Contains(item []byte) bool {
	if 0 == len(f.data) {
		return false
	}
	for i := uint32(0); i < f.hashCount; i += 1 {
		bit := f.hash(i, item)
		if 0 == f.data[bit>>3]&(1<<(bit&7)) {
			return false
		}
	}
	return true
}

// MatchesAny - true if any item may be in the set
func (f *Filter) MatchesAny(items ...[]byte) bool {
	for _, item := range items {
		if f.Contains(item) {
			return true
		}
	}
	return false
}

func (f *Filter) hash(n uint32, item []byte) uint32 {
	seed := n*seedMultiplier + f.tweak
	return murmur3.Sum32WithSeed(item, seed) % uint32(len(f.data)*8)
}

// bitcoin variable length integer
func readCompactSize(b []byte) (uint64, int, error) {
	if len(b) < 1 {
		return 0, 0, fault.ErrInvalidBloomFilter
	}
	switch b[0] {
	case 0xfd:
		if len(b) < 3 {
			return 0, 0, fault.ErrInvalidBloomFilter
		}
		return uint64(binary.LittleEndian.Uint16(b[1:])), 3, nil
	case 0xfe:
		if len(b) < 5 {
			return 0, 0, fault.ErrInvalidBloomFilter
		}
		return uint64(binary.LittleEndian.Uint32(b[1:])), 5, nil
	case 0xff:
		if len(b) < 9 {
			return 0, 0, fault.ErrInvalidBloomFilter
		}
		return binary.LittleEndian.Uint64(b[1:]), 9, nil
	default:
		return uint64(b[0]), 1, nil
	}
}

func appendCompactSize(b []byte, n uint64) []byte {
	switch {
	case n < 0xfd:
		return append(b, byte(n))
	case n <= 0xffff:
		var v [2]byte
		binary.LittleEndian.PutUint16(v[:], uint16(n))
		return append(append(b, 0xfd), v[:]...)
	case n <= 0xffffffff:
		var v [4]byte
		binary.LittleEndian.PutUint32(v[:], uint32(n))
		return append(append(b, 0xfe), v[:]...)
	default:
		var v [8]byte
		binary.LittleEndian.PutUint64(v[:], n)
		return append(append(b, 0xff), v[:]...)
	}
}
