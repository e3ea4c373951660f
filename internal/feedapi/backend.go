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

// Package feedapi implements the JSON-RPC interface of the feed registry.
package feedapi

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/ontora/aifeed/feed"
)

// Backend interface provides the common API services.
type Backend interface {
	Initialize(caller common.Address, description, metadata string) (*feed.DataFeed, error)
	Update(caller, owner common.Address, data []byte, metadata string) error
	TransferUpdateAuthority(caller, owner, newAuthority common.Address) error
	Read(owner common.Address) ([]byte, error)
	Feed(owner common.Address) (*feed.DataFeed, error)

	SubscribeNotifications(ch chan<- *feed.Notification) event.Subscription
}

// GetAPIs returns the RPC services exposed by the registry.
func GetAPIs(b Backend, config *Config) []rpc.API {
	return []rpc.API{{
		Namespace: "feed",
		Service:   NewFeedAPI(b, config),
	}}
}
