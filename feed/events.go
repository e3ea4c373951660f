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
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// InitializedEvent is posted when a new feed has been created.
type InitializedEvent struct {
	Key         common.Hash
	Owner       common.Address
	Description string
}

// UpdatedEvent is posted when the payload of a feed has been replaced.
type UpdatedEvent struct {
	Key         common.Hash
	Owner       common.Address
	DataSize    uint64
	LastUpdated uint64
}

// AuthorityTransferredEvent is posted when the update authority of a feed
// changed hands. OldAuthority is the account that performed the transfer,
// which is the owner rather than the replaced authority when the owner
// re-delegates.
type AuthorityTransferredEvent struct {
	Key          common.Hash
	OldAuthority common.Address
	NewAuthority common.Address
}

// NotificationType names the kind of state change a Notification describes.
type NotificationType string

const (
	NotificationInitialized          NotificationType = "initialized"
	NotificationUpdated              NotificationType = "updated"
	NotificationAuthorityTransferred NotificationType = "authorityTransferred"
)

// Notification is the flattened form of the registry events delivered to
// subscribers outside the process. Only the fields of the given Type are set.
type Notification struct {
	Type         NotificationType `json:"type"`
	Key          common.Hash      `json:"key"`
	Owner        *common.Address  `json:"owner,omitempty"`
	Description  *string          `json:"description,omitempty"`
	DataSize     *hexutil.Uint64  `json:"dataSize,omitempty"`
	LastUpdated  *hexutil.Uint64  `json:"lastUpdated,omitempty"`
	OldAuthority *common.Address  `json:"oldAuthority,omitempty"`
	NewAuthority *common.Address  `json:"newAuthority,omitempty"`
}

// Notification converts the event into its external form.
func (ev *InitializedEvent) Notification() *Notification {
	owner, desc := ev.Owner, ev.Description
	return &Notification{
		Type:        NotificationInitialized,
		Key:         ev.Key,
		Owner:       &owner,
		Description: &desc,
	}
}

// Notification converts the event into its external form.
func (ev *UpdatedEvent) Notification() *Notification {
	var (
		owner = ev.Owner
		size  = hexutil.Uint64(ev.DataSize)
		ts    = hexutil.Uint64(ev.LastUpdated)
	)
	return &Notification{
		Type:        NotificationUpdated,
		Key:         ev.Key,
		Owner:       &owner,
		DataSize:    &size,
		LastUpdated: &ts,
	}
}

// Notification converts the event into its external form.
func (ev *AuthorityTransferredEvent) Notification() *Notification {
	oldAuth, newAuth := ev.OldAuthority, ev.NewAuthority
	return &Notification{
		Type:         NotificationAuthorityTransferred,
		Key:          ev.Key,
		OldAuthority: &oldAuth,
		NewAuthority: &newAuth,
	}
}
