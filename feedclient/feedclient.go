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

// Package feedclient provides a client for the feed registry RPC API.
package feedclient

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/ontora/aifeed/feed"
	"github.com/ontora/aifeed/internal/feedapi"
)

// DefaultLifetime is how long a signed request stays valid unless the client
// is configured otherwise.
const DefaultLifetime = time.Minute

// Client defines typed wrappers for the feed RPC API.
type Client struct {
	c        *rpc.Client
	lifetime time.Duration
}

// Dial connects a client to the given URL.
func Dial(rawurl string) (*Client, error) {
	return DialContext(context.Background(), rawurl)
}

// DialContext connects a client to the given URL with context.
func DialContext(ctx context.Context, rawurl string) (*Client, error) {
	c, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, err
	}
	return NewClient(c), nil
}

// NewClient creates a client that uses the given RPC client.
func NewClient(c *rpc.Client) *Client {
	return &Client{c: c, lifetime: DefaultLifetime}
}

// Close closes the underlying RPC connection.
func (fc *Client) Close() {
	fc.c.Close()
}

// SetLifetime sets how far in the future the deadline of signed requests lies.
// It must stay within the lifetime accepted by the server.
func (fc *Client) SetLifetime(lifetime time.Duration) {
	fc.lifetime = lifetime
}

func (fc *Client) deadline() uint64 {
	return uint64(time.Now().Add(fc.lifetime).Unix())
}

// Initialize creates the feed owned by the account of key.
func (fc *Client) Initialize(ctx context.Context, key *ecdsa.PrivateKey, description, metadata string) (*feed.DataFeed, error) {
	req := &feed.InitializeRequest{Description: description, Metadata: metadata, Deadline: fc.deadline()}
	sig, err := feed.SignRequest(req, key)
	if err != nil {
		return nil, err
	}
	args := feedapi.InitializeArgs{
		Description: description,
		Metadata:    metadata,
		Deadline:    hexutil.Uint64(req.Deadline),
		Signature:   sig,
	}
	var f *feed.DataFeed
	if err := fc.c.CallContext(ctx, &f, "feed_initialize", args); err != nil {
		return nil, toFeedError(err)
	}
	return f, nil
}

// Update replaces the payload and metadata of the feed owned by owner. The
// account of key must be the feed's update authority.
func (fc *Client) Update(ctx context.Context, key *ecdsa.PrivateKey, owner common.Address, data []byte, metadata string) error {
	req := &feed.UpdateRequest{Owner: owner, Data: data, Metadata: metadata, Deadline: fc.deadline()}
	sig, err := feed.SignRequest(req, key)
	if err != nil {
		return err
	}
	args := feedapi.UpdateArgs{
		Owner:     owner,
		Data:      data,
		Metadata:  metadata,
		Deadline:  hexutil.Uint64(req.Deadline),
		Signature: sig,
	}
	return toFeedError(fc.c.CallContext(ctx, nil, "feed_update", args))
}

// TransferUpdateAuthority hands the update authority of the feed owned by
// owner to newAuthority. The account of key must be the feed's owner or its
// current update authority.
func (fc *Client) TransferUpdateAuthority(ctx context.Context, key *ecdsa.PrivateKey, owner, newAuthority common.Address) error {
	req := &feed.TransferRequest{Owner: owner, NewAuthority: newAuthority, Deadline: fc.deadline()}
	sig, err := feed.SignRequest(req, key)
	if err != nil {
		return err
	}
	args := feedapi.TransferArgs{
		Owner:        owner,
		NewAuthority: newAuthority,
		Deadline:     hexutil.Uint64(req.Deadline),
		Signature:    sig,
	}
	return toFeedError(fc.c.CallContext(ctx, nil, "feed_transferUpdateAuthority", args))
}

// Read returns the payload of the feed owned by owner.
func (fc *Client) Read(ctx context.Context, owner common.Address) ([]byte, error) {
	var data hexutil.Bytes
	if err := fc.c.CallContext(ctx, &data, "feed_read", owner); err != nil {
		return nil, toFeedError(err)
	}
	return data, nil
}

// Feed returns the complete record of the feed owned by owner.
func (fc *Client) Feed(ctx context.Context, owner common.Address) (*feed.DataFeed, error) {
	var f *feed.DataFeed
	if err := fc.c.CallContext(ctx, &f, "feed_getFeed", owner); err != nil {
		return nil, toFeedError(err)
	}
	return f, nil
}

// Key returns the storage key of the feed owned by owner as derived by the
// server.
func (fc *Client) Key(ctx context.Context, owner common.Address) (common.Hash, error) {
	var key common.Hash
	err := fc.c.CallContext(ctx, &key, "feed_key", owner)
	return key, err
}

// SubscribeEvents subscribes to notifications about committed feed changes.
func (fc *Client) SubscribeEvents(ctx context.Context, ch chan<- *feed.Notification) (*rpc.ClientSubscription, error) {
	return fc.c.Subscribe(ctx, "feed", ch, "events")
}

// toFeedError restores the registry error behind a JSON-RPC error code so
// callers can match it with errors.Is.
func toFeedError(err error) error {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		if known := feedapi.ErrorFromCode(rpcErr.ErrorCode()); known != nil {
			return known
		}
	}
	return err
}
