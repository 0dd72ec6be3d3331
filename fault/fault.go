// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RejectError GenericError
type DropError GenericError

// common errors - keep in alphabetic order
var (
	ErrBlockNotFound         = NotFoundError("block not found")
	ErrBloomFilterTooLarge   = InvalidError("bloom filter too large")
	ErrCommandDisabled       = DropError("command disabled")
	ErrFieldOverrun          = InvalidError("field overrun")
	ErrInvalidAddress        = InvalidError("invalid address")
	ErrInvalidBloomFilter    = InvalidError("invalid bloom filter")
	ErrInvalidCount          = InvalidError("invalid count")
	ErrInvalidCurrency       = InvalidError("invalid currency")
	ErrInvalidFieldEncoding  = InvalidError("invalid field encoding")
	ErrInvalidIPAddress      = InvalidError("invalid IP address")
	ErrInvalidNumber         = InvalidError("invalid number")
	ErrInvalidPortNumber     = InvalidError("invalid port number")
	ErrInvalidPrivateKey     = InvalidError("invalid private key")
	ErrInvalidPrivateKeyFile = InvalidError("invalid private key file")
	ErrInvalidPublicKey      = InvalidError("invalid public key")
	ErrInvalidPublicKeyFile  = InvalidError("invalid public key file")
	ErrInvalidStructPointer  = InvalidError("invalid struct pointer")
	ErrInvalidTxId           = InvalidError("invalid transaction id")
	ErrKeyFileAlreadyExists  = ExistsError("key file already exists")
	ErrLedgerUnavailable     = DropError("ledger unavailable")
	ErrNoListenAddresses     = InvalidError("no listen addresses")
	ErrNoStakeProof          = RejectError("stake requirement not satisfied")
	ErrNotConnected          = ProcessError("not connected")
	ErrNotSupported          = ProcessError("not supported")
	ErrOutputNotFound        = NotFoundError("output not found")
	ErrPacketLengthMismatch  = InvalidError("packet length mismatch")
	ErrPacketTooLarge        = InvalidError("packet too large")
	ErrPacketTooShort        = InvalidError("packet too short")
	ErrPeerBanned            = DropError("peer is banned")
	ErrQueueFull             = DropError("request queue full")
	ErrRateLimited           = RejectError("too many requests")
	ErrRateLimiting          = DropError("rate limiting")
	ErrTrailingData          = InvalidError("trailing data after last field")
	ErrTransactionNotFound   = NotFoundError("transaction not found")
	ErrUnauthenticated       = RejectError("unsigned packet or signature error")
	ErrUnexpectedHTTPStatus  = ProcessError("unexpected HTTP status")
	ErrUnknownCommand        = DropError("unknown command")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RejectError) Error() string   { return string(e) }
func (e DropError) Error() string     { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
func IsErrReject(e error) bool   { _, ok := e.(RejectError); return ok }
func IsErrDrop(e error) bool     { _, ok := e.(DropError); return ok }
