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

package feed

import (
	"github.com/ethereum/go-ethereum/common"
)

// RecordStore is the capability an operation runs against. It supplies the
// verified identity of the caller, the store clock and keyed access to the
// feed records. Implementations execute each operation atomically; nothing
// written through Put may become visible if the operation returns an error.
type RecordStore interface {
	// Caller returns the authenticated account invoking the operation.
	Caller() common.Address

	// Now returns the current store time in unix seconds.
	Now() uint64

	// Has reports whether a record is stored under the key.
	Has(key common.Hash) (bool, error)

	// Get retrieves the record stored under the key, or nil if there is none.
	// The returned record is owned by the caller and may be modified.
	Get(key common.Hash) (*DataFeed, error)

	// Put stores the record under the key.
	Put(key common.Hash, feed *DataFeed) error
}

// Initialize creates the feed owned by the caller. Both owner and update
// authority are set to the caller and the payload starts out empty.
func Initialize(store RecordStore, description, metadata string) (*DataFeed, *InitializedEvent, error) {
	if len(description) > MaxDescriptionSize {
		return nil, nil, ErrDescriptionTooLong
	}
	if len(metadata) > MaxMetadataSize {
		return nil, nil, ErrMetadataTooLong
	}
	caller := store.Caller()
	if caller == (common.Address{}) {
		return nil, nil, ErrInvalidAuthority
	}
	key := KeyFor(caller)
	exists, err := store.Has(key)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, ErrAlreadyInitialized
	}
	feed := &DataFeed{
		Owner:           caller,
		UpdateAuthority: caller,
		Description:     description,
		Metadata:        metadata,
		Data:            []byte{},
		LastUpdated:     store.Now(),
		Initialized:     true,
	}
	if err := store.Put(key, feed); err != nil {
		return nil, nil, err
	}
	return feed.Copy(), &InitializedEvent{Key: key, Owner: feed.Owner, Description: feed.Description}, nil
}

// Update replaces the payload and metadata of the feed owned by owner. Only
// the current update authority may call it.
func Update(store RecordStore, owner common.Address, data []byte, metadata string) (*UpdatedEvent, error) {
	key := KeyFor(owner)
	feed, err := load(store, key)
	if err != nil {
		return nil, err
	}
	if store.Caller() != feed.UpdateAuthority {
		return nil, ErrUnauthorized
	}
	if len(data) > MaxDataSize {
		return nil, ErrDataTooLarge
	}
	if len(metadata) > MaxMetadataSize {
		return nil, ErrMetadataTooLong
	}
	feed.Data = common.CopyBytes(data)
	if feed.Data == nil {
		feed.Data = []byte{}
	}
	feed.Metadata = metadata
	feed.LastUpdated = advance(feed.LastUpdated, store.Now())

	if err := store.Put(key, feed); err != nil {
		return nil, err
	}
	return &UpdatedEvent{
		Key:         key,
		Owner:       feed.Owner,
		DataSize:    uint64(len(feed.Data)),
		LastUpdated: feed.LastUpdated,
	}, nil
}

// TransferUpdateAuthority hands the right to update the feed owned by owner
// to newAuthority. Both the owner and the current update authority may do
// so; ownership itself never moves. LastUpdated tracks the payload only and
// is left untouched by a transfer.
func TransferUpdateAuthority(store RecordStore, owner common.Address, newAuthority common.Address) (*AuthorityTransferredEvent, error) {
	key := KeyFor(owner)
	feed, err := load(store, key)
	if err != nil {
		return nil, err
	}
	caller := store.Caller()
	if caller != feed.Owner && caller != feed.UpdateAuthority {
		return nil, ErrUnauthorized
	}
	if newAuthority == (common.Address{}) {
		return nil, ErrInvalidAuthority
	}
	feed.UpdateAuthority = newAuthority

	if err := store.Put(key, feed); err != nil {
		return nil, err
	}
	return &AuthorityTransferredEvent{Key: key, OldAuthority: caller, NewAuthority: newAuthority}, nil
}

// Read returns the current payload of the feed owned by owner. Anyone may
// read a feed.
func Read(store RecordStore, owner common.Address) ([]byte, error) {
	feed, err := load(store, KeyFor(owner))
	if err != nil {
		return nil, err
	}
	return common.CopyBytes(feed.Data), nil
}

// Get returns the complete record of the feed owned by owner.
func Get(store RecordStore, owner common.Address) (*DataFeed, error) {
	return load(store, KeyFor(owner))
}

func load(store RecordStore, key common.Hash) (*DataFeed, error) {
	feed, err := store.Get(key)
	if err != nil {
		return nil, err
	}
	if feed == nil || !feed.Initialized {
		return nil, ErrNotInitialized
	}
	return feed, nil
}

// advance keeps last_updated monotonic even if the store clock steps back.
func advance(last, now uint64) uint64 {
	if now < last {
		return last
	}
	return now
}
