// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/bitmark-inc/logger"
	cache "github.com/patrickmn/go-cache"
	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/xrouterd/packet"
)

const (
	defaultMempoolExpiration = 30 * time.Second
	keySize                  = packet.TxIdSize + packet.VoutSize
)

// Cached - a Ledger that remembers previous answers
//
// confirmed outputs never change so they are stored permanently,
// unconfirmed outputs are held in memory until they expire
type Cached struct {
	log     *logger.L
	next    Ledger
	db      *leveldb.DB
	mempool *cache.Cache
	expiry  time.Duration
}

// NewCached - open (or create) the cache database in directory
func NewCached(log *logger.L, next Ledger, directory string, mempoolExpiration time.Duration) (*Cached, error) {
	if mempoolExpiration <= 0 {
		mempoolExpiration = defaultMempoolExpiration
	}

	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: false,
	}
	db, err := leveldb.OpenFile(directory, opt)
	if nil != err {
		return nil, err
	}

	return &Cached{
		log:     log,
		next:    next,
		db:      db,
		mempool: cache.New(mempoolExpiration, 2*mempoolExpiration),
		expiry:  mempoolExpiration,
	}, nil
}

// FindOutput - answer from the cache or the underlying ledger
func (c *Cached) FindOutput(ctx context.Context, outpoint packet.StakeProof) (*Output, error) {
	key := outpointKey(outpoint)

	value, err := c.db.Get(key, nil)
	if nil == err {
		var o Output
		if err := json.Unmarshal(value, &o); nil == err {
			c.log.Tracef("confirmed hit: %s:%d", outpoint, outpoint.Vout)
			return &o, nil
		}
		c.log.Warnf("corrupt cache entry: %s:%d", outpoint, outpoint.Vout)
	} else if leveldb.ErrNotFound != err {
		c.log.Errorf("cache read error: %s", err)
	}

	if o, found := c.mempool.Get(string(key)); found {
		c.log.Tracef("mempool hit: %s:%d", outpoint, outpoint.Vout)
		output := o.(Output)
		return &output, nil
	}

	output, err := c.next.FindOutput(ctx, outpoint)
	if nil != err {
		return nil, err
	}

	if output.Confirmations > 0 {
		value, err := json.Marshal(output)
		if nil == err {
			err = c.db.Put(key, value, nil)
		}
		if nil != err {
			c.log.Errorf("cache write error: %s", err)
		}
	} else {
		c.mempool.Set(string(key), *output, c.expiry)
	}
	return output, nil
}

// Close - release the database
func (c *Cached) Close() error {
	c.mempool.Flush()
	return c.db.Close()
}

// txid ‖ BE vout
func outpointKey(outpoint packet.StakeProof) []byte {
	key := make([]byte, keySize)
	copy(key, outpoint.TxId[:])
	binary.BigEndian.PutUint32(key[packet.TxIdSize:], outpoint.Vout)
	return key
}
