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

package feedapi

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	lru "github.com/hashicorp/golang-lru"
	"github.com/ontora/aifeed/feed"
)

// requestSet remembers the signed requests accepted while their deadline has
// not passed, so each of them is applied at most once.
type requestSet struct {
	lock  sync.Mutex
	used  *lru.Cache // request id -> deadline
	size  int
	floor uint64 // deadlines at or below this were dropped while still live
}

func newRequestSet(size int) *requestSet {
	used, err := lru.New(size)
	if err != nil {
		panic(err)
	}
	return &requestSet{used: used, size: size}
}

// requestID identifies a request by its signed content and its signer.
func requestID(req feed.Request, signer common.Address) common.Hash {
	return crypto.Keccak256Hash(feed.SigHash(req).Bytes(), signer.Bytes())
}

// add records the request id, failing if it was recorded before. Requests
// whose deadline lies at or below a live entry that had to be evicted are
// refused as expired.
func (s *requestSet) add(id common.Hash, deadline, now uint64) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	for {
		_, v, ok := s.used.GetOldest()
		if !ok || v.(uint64) >= now {
			break
		}
		s.used.RemoveOldest()
	}
	if s.used.Contains(id) {
		return ErrRequestReplayed
	}
	if deadline <= s.floor {
		return ErrRequestExpired
	}
	for s.used.Len() >= s.size {
		_, v, _ := s.used.RemoveOldest()
		if d := v.(uint64); d > s.floor {
			s.floor = d
		}
	}
	s.used.Add(id, deadline)
	return nil
}
