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
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	lru "github.com/hashicorp/golang-lru"
	"github.com/ontora/aifeed/core/rawdb"
	"github.com/ontora/aifeed/feed"
)

// DatabaseVersion is the version of the persisted record layout.
const DatabaseVersion = 1

// lockStripes is the number of mutexes record keys are spread over.
const lockStripes = 256

var (
	initializeMeter = metrics.NewRegisteredMeter("registry/initialize", nil)
	updateMeter     = metrics.NewRegisteredMeter("registry/update", nil)
	transferMeter   = metrics.NewRegisteredMeter("registry/transfer", nil)
	readMeter       = metrics.NewRegisteredMeter("registry/read", nil)
	failureMeter    = metrics.NewRegisteredMeter("registry/failure", nil)

	cacheHitMeter  = metrics.NewRegisteredMeter("registry/cache/hit", nil)
	cacheMissMeter = metrics.NewRegisteredMeter("registry/cache/miss", nil)

	commitTimer = metrics.NewRegisteredTimer("registry/commit", nil)
)

// Config contains the settings of the registry.
type Config struct {
	CacheSize int                      // Number of decoded records kept in memory
	Clock     func() uint64 `toml:"-"` // Store clock in unix seconds, wall clock if nil
}

// DefaultConfig contains the default registry settings.
var DefaultConfig = Config{
	CacheSize: 1024,
}

// Registry is the durable store of data feeds. It runs every feed operation
// as an atomic unit against a single record: operations on the same record
// are serialised, their writes are committed in one batch and the resulting
// event is posted only after the commit succeeded.
type Registry struct {
	db     ethdb.KeyValueStore
	cache  *lru.Cache // feed key -> *feed.DataFeed
	clock  func() uint64
	locks  [lockStripes]sync.Mutex
	closed atomic.Bool

	initFeed     event.FeedOf[feed.InitializedEvent]
	updateFeed   event.FeedOf[feed.UpdatedEvent]
	transferFeed event.FeedOf[feed.AuthorityTransferredEvent]
	notifyFeed   event.FeedOf[*feed.Notification]
	scope        event.SubscriptionScope

	log log.Logger
}

// NewRegistry creates a registry on top of the given database. The database
// is not closed by the registry.
func NewRegistry(db ethdb.KeyValueStore, config *Config) (*Registry, error) {
	if config == nil {
		config = &DefaultConfig
	}
	size := config.CacheSize
	if size <= 0 {
		size = DefaultConfig.CacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	clock := config.Clock
	if clock == nil {
		clock = func() uint64 { return uint64(time.Now().Unix()) }
	}
	switch version := rawdb.ReadDatabaseVersion(db); {
	case version == nil:
		rawdb.WriteDatabaseVersion(db, DatabaseVersion)
	case *version != DatabaseVersion:
		log.Error("Incompatible feed database", "have", *version, "want", DatabaseVersion)
		return nil, ErrDatabaseVersion
	}
	return &Registry{
		db:    db,
		cache: cache,
		clock: clock,
		log:   log.New("module", "registry"),
	}, nil
}

// Close unsubscribes all event subscribers and rejects further operations.
func (r *Registry) Close() {
	if r.closed.Swap(true) {
		return
	}
	r.scope.Close()
}

// Initialize creates the feed owned by caller.
func (r *Registry) Initialize(caller common.Address, description, metadata string) (*feed.DataFeed, error) {
	var (
		created *feed.DataFeed
		ev      *feed.InitializedEvent
	)
	err := r.execute(caller, feed.KeyFor(caller), func(tx *txn) (err error) {
		created, ev, err = feed.Initialize(tx, description, metadata)
		return err
	}, func() {
		r.initFeed.Send(*ev)
		r.notifyFeed.Send(ev.Notification())
	})
	if err != nil {
		return nil, err
	}
	initializeMeter.Mark(1)
	r.log.Debug("Initialized data feed", "key", ev.Key, "owner", ev.Owner)
	return created, nil
}

// Update replaces the payload and metadata of the feed owned by owner on
// behalf of caller.
func (r *Registry) Update(caller, owner common.Address, data []byte, metadata string) error {
	var ev *feed.UpdatedEvent
	err := r.execute(caller, feed.KeyFor(owner), func(tx *txn) (err error) {
		ev, err = feed.Update(tx, owner, data, metadata)
		return err
	}, func() {
		r.updateFeed.Send(*ev)
		r.notifyFeed.Send(ev.Notification())
	})
	if err != nil {
		return err
	}
	updateMeter.Mark(1)
	r.log.Debug("Updated data feed", "key", ev.Key, "size", ev.DataSize, "updated", ev.LastUpdated)
	return nil
}

// TransferUpdateAuthority moves the update authority of the feed owned by
// owner to newAuthority on behalf of caller.
func (r *Registry) TransferUpdateAuthority(caller, owner, newAuthority common.Address) error {
	var ev *feed.AuthorityTransferredEvent
	err := r.execute(caller, feed.KeyFor(owner), func(tx *txn) (err error) {
		ev, err = feed.TransferUpdateAuthority(tx, owner, newAuthority)
		return err
	}, func() {
		r.transferFeed.Send(*ev)
		r.notifyFeed.Send(ev.Notification())
	})
	if err != nil {
		return err
	}
	transferMeter.Mark(1)
	r.log.Debug("Transferred update authority", "key", ev.Key, "old", ev.OldAuthority, "new", ev.NewAuthority)
	return nil
}

// Read returns the payload of the feed owned by owner.
func (r *Registry) Read(owner common.Address) ([]byte, error) {
	var data []byte
	err := r.execute(common.Address{}, feed.KeyFor(owner), func(tx *txn) (err error) {
		data, err = feed.Read(tx, owner)
		return err
	}, nil)
	if err != nil {
		return nil, err
	}
	readMeter.Mark(1)
	return data, nil
}

// Feed returns the full record of the feed owned by owner.
func (r *Registry) Feed(owner common.Address) (*feed.DataFeed, error) {
	var f *feed.DataFeed
	err := r.execute(common.Address{}, feed.KeyFor(owner), func(tx *txn) (err error) {
		f, err = feed.Get(tx, owner)
		return err
	}, nil)
	if err != nil {
		return nil, err
	}
	readMeter.Mark(1)
	return f, nil
}

// SubscribeInitializedEvent registers a subscription of InitializedEvent.
func (r *Registry) SubscribeInitializedEvent(ch chan<- feed.InitializedEvent) event.Subscription {
	return r.scope.Track(r.initFeed.Subscribe(ch))
}

// SubscribeUpdatedEvent registers a subscription of UpdatedEvent.
func (r *Registry) SubscribeUpdatedEvent(ch chan<- feed.UpdatedEvent) event.Subscription {
	return r.scope.Track(r.updateFeed.Subscribe(ch))
}

// SubscribeAuthorityTransferredEvent registers a subscription of AuthorityTransferredEvent.
func (r *Registry) SubscribeAuthorityTransferredEvent(ch chan<- feed.AuthorityTransferredEvent) event.Subscription {
	return r.scope.Track(r.transferFeed.Subscribe(ch))
}

// SubscribeNotifications registers a subscription receiving every event in
// its external form, in commit order.
func (r *Registry) SubscribeNotifications(ch chan<- *feed.Notification) event.Subscription {
	return r.scope.Track(r.notifyFeed.Subscribe(ch))
}

// execute runs op against the record stored under key while holding the
// record's lock. The writes of a successful op are committed atomically and
// post is invoked afterwards, still under the lock, so events are delivered
// in commit order.
func (r *Registry) execute(caller common.Address, key common.Hash, op func(tx *txn) error, post func()) error {
	if r.closed.Load() {
		return errRegistryClosed
	}
	lock := &r.locks[key[0]]
	lock.Lock()
	defer lock.Unlock()

	tx := &txn{registry: r, key: key, caller: caller, now: r.clock()}
	if err := op(tx); err != nil {
		failureMeter.Mark(1)
		return err
	}
	if err := tx.commit(); err != nil {
		failureMeter.Mark(1)
		r.log.Error("Failed to commit feed record", "key", key, "err", err)
		return err
	}
	if post != nil {
		post()
	}
	return nil
}

// readRecord loads a record, consulting the cache first.
func (r *Registry) readRecord(key common.Hash) *feed.DataFeed {
	if cached, ok := r.cache.Get(key); ok {
		cacheHitMeter.Mark(1)
		return cached.(*feed.DataFeed).Copy()
	}
	cacheMissMeter.Mark(1)
	f := rawdb.ReadFeed(r.db, key)
	if f != nil {
		r.cache.Add(key, f.Copy())
	}
	return f
}
