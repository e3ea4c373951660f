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

package rawdb

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ontora/aifeed/feed"
)

// ReadDatabaseVersion retrieves the version number of the database.
func ReadDatabaseVersion(db ethdb.KeyValueReader) *uint64 {
	enc, _ := db.Get(databaseVersionKey)
	if len(enc) != 8 {
		return nil
	}
	version := binary.BigEndian.Uint64(enc)
	return &version
}

// WriteDatabaseVersion stores the version number of the database
func WriteDatabaseVersion(db ethdb.KeyValueWriter, version uint64) {
	enc := make([]byte, 8)
	binary.BigEndian.PutUint64(enc, version)
	if err := db.Put(databaseVersionKey, enc); err != nil {
		log.Crit("Failed to store the database version", "err", err)
	}
}

// HasFeed verifies the existence of a feed record under the given key.
func HasFeed(db ethdb.KeyValueReader, key common.Hash) bool {
	has, err := db.Has(feedKey(key))
	if err != nil {
		return false
	}
	return has
}

// ReadFeedRLP retrieves a feed record in its raw RLP database encoding.
func ReadFeedRLP(db ethdb.KeyValueReader, key common.Hash) rlp.RawValue {
	data, _ := db.Get(feedKey(key))
	return data
}

// ReadFeed retrieves the feed record stored under the given key, or nil if
// there is none or it cannot be decoded.
func ReadFeed(db ethdb.KeyValueReader, key common.Hash) *feed.DataFeed {
	data := ReadFeedRLP(db, key)
	if len(data) == 0 {
		return nil
	}
	f := new(feed.DataFeed)
	if err := rlp.DecodeBytes(data, f); err != nil {
		log.Error("Invalid feed record RLP", "key", key, "err", err)
		return nil
	}
	if err := f.Validate(); err != nil {
		log.Error("Invalid feed record", "key", key, "err", err)
		return nil
	}
	return f
}

// WriteFeed stores a feed record under the given key.
func WriteFeed(db ethdb.KeyValueWriter, key common.Hash, f *feed.DataFeed) {
	data, err := rlp.EncodeToBytes(f)
	if err != nil {
		log.Crit("Failed to RLP encode feed record", "err", err)
	}
	if len(data) > feed.MaxEncodedSize {
		log.Crit("Feed record exceeds storage footprint", "key", key, "size", len(data), "max", feed.MaxEncodedSize)
	}
	if err := db.Put(feedKey(key), data); err != nil {
		log.Crit("Failed to store feed record", "err", err)
	}
}
