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
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/ontora/aifeed/feed"
)

// Config contains the settings of the RPC service.
type Config struct {
	// RequestLifetime is the furthest into the future a signed request's
	// deadline may lie.
	RequestLifetime time.Duration

	// RequestCacheSize is the number of accepted requests remembered to
	// refuse their replay.
	RequestCacheSize int

	// Clock returns the time requests are checked against, time.Now if nil.
	Clock func() time.Time `toml:"-"`
}

// DefaultConfig contains the default RPC service settings.
var DefaultConfig = Config{
	RequestLifetime:  5 * time.Minute,
	RequestCacheSize: 65536,
}

// InitializeArgs represents the arguments to create a feed.
type InitializeArgs struct {
	Description string         `json:"description"`
	Metadata    string         `json:"metadata"`
	Deadline    hexutil.Uint64 `json:"deadline"`
	Signature   hexutil.Bytes  `json:"signature"`
}

func (args *InitializeArgs) request() *feed.InitializeRequest {
	return &feed.InitializeRequest{
		Description: args.Description,
		Metadata:    args.Metadata,
		Deadline:    uint64(args.Deadline),
	}
}

// UpdateArgs represents the arguments to replace a feed's payload.
type UpdateArgs struct {
	Owner     common.Address `json:"owner"`
	Data      hexutil.Bytes  `json:"data"`
	Metadata  string         `json:"metadata"`
	Deadline  hexutil.Uint64 `json:"deadline"`
	Signature hexutil.Bytes  `json:"signature"`
}

func (args *UpdateArgs) request() *feed.UpdateRequest {
	return &feed.UpdateRequest{
		Owner:    args.Owner,
		Data:     args.Data,
		Metadata: args.Metadata,
		Deadline: uint64(args.Deadline),
	}
}

// TransferArgs represents the arguments to move a feed's update authority.
type TransferArgs struct {
	Owner        common.Address `json:"owner"`
	NewAuthority common.Address `json:"newAuthority"`
	Deadline     hexutil.Uint64 `json:"deadline"`
	Signature    hexutil.Bytes  `json:"signature"`
}

func (args *TransferArgs) request() *feed.TransferRequest {
	return &feed.TransferRequest{
		Owner:        args.Owner,
		NewAuthority: args.NewAuthority,
		Deadline:     uint64(args.Deadline),
	}
}

// FeedAPI provides access to the data feed registry. Mutating calls must be
// signed by the account they are performed for.
type FeedAPI struct {
	b        Backend
	lifetime time.Duration
	clock    func() time.Time
	used     *requestSet
}

// NewFeedAPI creates a new feed API service.
func NewFeedAPI(b Backend, config *Config) *FeedAPI {
	if config == nil {
		config = &DefaultConfig
	}
	api := &FeedAPI{b: b, lifetime: config.RequestLifetime, clock: config.Clock}
	if api.clock == nil {
		api.clock = time.Now
	}
	if api.lifetime <= 0 {
		api.lifetime = DefaultConfig.RequestLifetime
	}
	size := config.RequestCacheSize
	if size <= 0 {
		size = DefaultConfig.RequestCacheSize
	}
	api.used = newRequestSet(size)
	return api
}

// caller checks the deadline of a signed request, recovers its signer and
// marks the request used. A request is consumed even if the operation it
// carries fails afterwards.
func (api *FeedAPI) caller(req feed.Request, deadline hexutil.Uint64, sig hexutil.Bytes) (common.Address, error) {
	now := api.clock()
	if uint64(deadline) < uint64(now.Unix()) || uint64(deadline) > uint64(now.Add(api.lifetime).Unix()) {
		return common.Address{}, ErrRequestExpired
	}
	signer, err := feed.RequestSender(req, sig)
	if err != nil {
		return common.Address{}, err
	}
	if err := api.used.add(requestID(req, signer), uint64(deadline), uint64(now.Unix())); err != nil {
		return common.Address{}, err
	}
	return signer, nil
}

// Initialize creates the feed of the request signer and returns it.
func (api *FeedAPI) Initialize(args InitializeArgs) (*feed.DataFeed, error) {
	caller, err := api.caller(args.request(), args.Deadline, args.Signature)
	if err != nil {
		return nil, rpcError(err)
	}
	f, err := api.b.Initialize(caller, args.Description, args.Metadata)
	if err != nil {
		log.Debug("Rejected feed initialization", "caller", caller, "err", err)
		return nil, rpcError(err)
	}
	return f, nil
}

// Update replaces the payload and metadata of a feed. The request must be
// signed by the feed's update authority.
func (api *FeedAPI) Update(args UpdateArgs) error {
	caller, err := api.caller(args.request(), args.Deadline, args.Signature)
	if err != nil {
		return rpcError(err)
	}
	if err := api.b.Update(caller, args.Owner, args.Data, args.Metadata); err != nil {
		log.Debug("Rejected feed update", "caller", caller, "owner", args.Owner, "err", err)
		return rpcError(err)
	}
	return nil
}

// TransferUpdateAuthority hands the update authority of a feed to another
// account. The request must be signed by the feed's owner or its current
// update authority.
func (api *FeedAPI) TransferUpdateAuthority(args TransferArgs) error {
	caller, err := api.caller(args.request(), args.Deadline, args.Signature)
	if err != nil {
		return rpcError(err)
	}
	if err := api.b.TransferUpdateAuthority(caller, args.Owner, args.NewAuthority); err != nil {
		log.Debug("Rejected authority transfer", "caller", caller, "owner", args.Owner, "err", err)
		return rpcError(err)
	}
	return nil
}

// Read returns the payload of the feed owned by the given account.
func (api *FeedAPI) Read(owner common.Address) (hexutil.Bytes, error) {
	data, err := api.b.Read(owner)
	if err != nil {
		return nil, rpcError(err)
	}
	return data, nil
}

// GetFeed returns the complete record of the feed owned by the given account.
func (api *FeedAPI) GetFeed(owner common.Address) (*feed.DataFeed, error) {
	f, err := api.b.Feed(owner)
	if err != nil {
		return nil, rpcError(err)
	}
	return f, nil
}

// Key returns the storage key of the feed owned by the given account.
func (api *FeedAPI) Key(owner common.Address) common.Hash {
	return feed.KeyFor(owner)
}

// Events creates a subscription that fires for every committed feed change.
func (api *FeedAPI) Events(ctx context.Context) (*rpc.Subscription, error) {
	notifier, supported := rpc.NotifierFromContext(ctx)
	if !supported {
		return &rpc.Subscription{}, rpc.ErrNotificationsUnsupported
	}
	rpcSub := notifier.CreateSubscription()

	var (
		notifications = make(chan *feed.Notification, 64)
		notifySub     = api.b.SubscribeNotifications(notifications)
	)
	go func() {
		defer notifySub.Unsubscribe()
		for {
			select {
			case n := <-notifications:
				notifier.Notify(rpcSub.ID, n)
			case <-rpcSub.Err():
				return
			case <-notifySub.Err():
				return
			}
		}
	}()
	return rpcSub, nil
}
