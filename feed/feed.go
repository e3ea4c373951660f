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

// Package feed implements the AI data feed registry: one owned, size-bounded
// record per account holding a description, metadata and an opaque payload,
// together with the access rules governing who may create, change, delegate
// and read it.
package feed

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

//go:generate go run github.com/fjl/gencodec -type DataFeed -field-override dataFeedMarshaling -out gen_feed_json.go

const (
	MaxDataSize        = 1024 // Maximum size of the inference payload in bytes
	MaxMetadataSize    = 128  // Maximum size of the metadata in bytes
	MaxDescriptionSize = 64   // Maximum size of the description in bytes

	// MaxEncodedSize is the upper bound of a persisted record. It is the RLP
	// list header plus two addresses, the three bounded strings at capacity, a
	// full width timestamp and the initialized flag.
	MaxEncodedSize = 3 + 2*(1+common.AddressLength) + (2 + MaxDescriptionSize) +
		(2 + MaxMetadataSize) + (3 + MaxDataSize) + (1 + 8) + 1
)

// keySeed is mixed into every record key so feed keys never collide with
// other keccak derived identifiers of the same account.
var keySeed = []byte("ai_data_feed")

// KeyFor derives the storage key of the feed owned by the given account.
func KeyFor(owner common.Address) common.Hash {
	return crypto.Keccak256Hash(keySeed, owner.Bytes())
}

// DataFeed is the state of a single AI data feed.
type DataFeed struct {
	Owner           common.Address `json:"owner"           gencodec:"required"`
	UpdateAuthority common.Address `json:"updateAuthority" gencodec:"required"`
	Description     string         `json:"description"`
	Metadata        string         `json:"metadata"`
	Data            []byte         `json:"data"`
	LastUpdated     uint64         `json:"lastUpdated"     gencodec:"required"`
	Initialized     bool           `json:"initialized"`
}

// field type overrides for gencodec
type dataFeedMarshaling struct {
	Data        hexutil.Bytes
	LastUpdated hexutil.Uint64
}

// Key returns the storage key of the feed.
func (f *DataFeed) Key() common.Hash {
	return KeyFor(f.Owner)
}

// Copy returns a deep copy of the feed.
func (f *DataFeed) Copy() *DataFeed {
	cpy := *f
	cpy.Data = common.CopyBytes(f.Data)
	return &cpy
}

// Equal reports whether two feeds hold the same state.
func (f *DataFeed) Equal(other *DataFeed) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.Owner == other.Owner &&
		f.UpdateAuthority == other.UpdateAuthority &&
		f.Description == other.Description &&
		f.Metadata == other.Metadata &&
		bytes.Equal(f.Data, other.Data) &&
		f.LastUpdated == other.LastUpdated &&
		f.Initialized == other.Initialized
}

// Validate checks the capacity and identity invariants of an active feed.
func (f *DataFeed) Validate() error {
	if len(f.Description) > MaxDescriptionSize {
		return ErrDescriptionTooLong
	}
	if len(f.Metadata) > MaxMetadataSize {
		return ErrMetadataTooLong
	}
	if len(f.Data) > MaxDataSize {
		return ErrDataTooLarge
	}
	if f.Initialized && (f.Owner == (common.Address{}) || f.UpdateAuthority == (common.Address{})) {
		return ErrInvalidAuthority
	}
	return nil
}
