// Copyright 2026 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package core

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ontora/aifeed/core/rawdb"
	"github.com/ontora/aifeed/feed"
)

// txn is the feed.RecordStore handed to a single operation. Writes are
// buffered until commit and restricted to the record the operation was
// scheduled against.
type txn struct {
	registry *Registry
	key      common.Hash
	caller   common.Address
	now      uint64
	dirty    *feed.DataFeed
}

func (tx *txn) Caller() common.Address { return tx.caller }
func (tx *txn) Now() uint64            { return tx.now }

// Has reports whether a readable record exists under key. Undecodable bytes
// count as no record, so initialize may overwrite them.
func (tx *txn) Has(key common.Hash) (bool, error) {
	f, err := tx.Get(key)
	return f != nil, err
}

func (tx *txn) Get(key common.Hash) (*feed.DataFeed, error) {
	if key == tx.key && tx.dirty != nil {
		return tx.dirty.Copy(), nil
	}
	return tx.registry.readRecord(key), nil
}

func (tx *txn) Put(key common.Hash, f *feed.DataFeed) error {
	if key != tx.key {
		return ErrCrossRecordWrite
	}
	if err := f.Validate(); err != nil {
		return err
	}
	tx.dirty = f.Copy()
	return nil
}

// commit flushes the buffered record to disk and refreshes the cache.
func (tx *txn) commit() error {
	if tx.dirty == nil {
		return nil
	}
	start := time.Now()
	defer commitTimer.UpdateSince(start)

	batch := tx.registry.db.NewBatch()
	rawdb.WriteFeed(batch, tx.key, tx.dirty)
	if err := batch.Write(); err != nil {
		tx.registry.cache.Remove(tx.key)
		return err
	}
	tx.registry.cache.Add(tx.key, tx.dirty)
	return nil
}
