// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"encoding/hex"
	"os"
	"strings"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/xrouterd/fault"
	"github.com/bitmark-inc/xrouterd/util"
)

// KeySize - raw CURVE key length
const KeySize = 32

// Keys - a CURVE key pair as raw bytes
type Keys struct {
	Public  []byte
	Private []byte
}

// key file formats, a public key is safe to publish
var keyTags = []struct {
	prefix  string
	private bool
	invalid error
}{
	{prefix: "PUBLIC:", private: false, invalid: fault.ErrInvalidPublicKeyFile},
	{prefix: "PRIVATE:", private: true, invalid: fault.ErrInvalidPrivateKeyFile},
}

// NewKeys - a fresh random key pair
func NewKeys() (Keys, error) {
	public, private, err := zmq.NewCurveKeypair()
	if nil != err {
		return Keys{}, err
	}
	return Keys{
		Public:  []byte(zmq.Z85decode(public)),
		Private: []byte(zmq.Z85decode(private)),
	}, nil
}

// Validate - both halves must be present
func (k Keys) Validate() error {
	if KeySize != len(k.Public) {
		return fault.ErrInvalidPublicKey
	}
	if KeySize != len(k.Private) {
		return fault.ErrInvalidPrivateKey
	}
	return nil
}

// MakeKeyPair - create a key pair and write each half to its own
// file, neither file may already exist
func MakeKeyPair(publicKeyFileName string, privateKeyFileName string) error {
	if util.FileExists(publicKeyFileName) || util.FileExists(privateKeyFileName) {
		return fault.ErrKeyFileAlreadyExists
	}

	keys, err := NewKeys()
	if nil != err {
		return err
	}

	err = util.WriteNewFile(publicKeyFileName, []byte(encodeKey(keys.Public, false)), 0644)
	if nil != err {
		return err
	}

	err = util.WriteNewFile(privateKeyFileName, []byte(encodeKey(keys.Private, true)), 0600)
	if nil != err {
		os.Remove(publicKeyFileName)
		return err
	}
	return nil
}

// LoadKeys - read the server key pair
func LoadKeys(publicKeyFileName string, privateKeyFileName string) (Keys, error) {
	public, err := readKeyFile(publicKeyFileName, false)
	if nil != err {
		return Keys{}, err
	}
	private, err := readKeyFile(privateKeyFileName, true)
	if nil != err {
		return Keys{}, err
	}
	return Keys{
		Public:  public,
		Private: private,
	}, nil
}

// ReadPublicKey - a tagged public key given inline or as the name of
// a file holding one
func ReadPublicKey(s string) ([]byte, error) {
	if strings.HasPrefix(strings.TrimSpace(s), keyTags[0].prefix) {
		return expectKey(s, false)
	}
	return readKeyFile(s, false)
}

// ParseKey - decode a tagged key, true if it is private
func ParseKey(text string) ([]byte, bool, error) {
	s := strings.TrimSpace(text)
	for _, tag := range keyTags {
		if !strings.HasPrefix(s, tag.prefix) {
			continue
		}
		key, err := hex.DecodeString(s[len(tag.prefix):])
		if nil != err || KeySize != len(key) {
			return nil, false, tag.invalid
		}
		return key, tag.private, nil
	}
	return nil, false, fault.ErrInvalidPublicKeyFile
}

func readKeyFile(fileName string, private bool) ([]byte, error) {
	data, err := os.ReadFile(fileName)
	if nil != err {
		return nil, err
	}
	return expectKey(string(data), private)
}

func expectKey(text string, private bool) ([]byte, error) {
	key, isPrivate, err := ParseKey(text)
	if nil != err {
		return nil, err
	}
	if isPrivate != private {
		if private {
			return nil, fault.ErrInvalidPrivateKeyFile
		}
		return nil, fault.ErrInvalidPublicKeyFile
	}
	return key, nil
}

func encodeKey(key []byte, private bool) string {
	tag := keyTags[0].prefix
	if private {
		tag = keyTags[1].prefix
	}
	return tag + hex.EncodeToString(key) + "\n"
}
