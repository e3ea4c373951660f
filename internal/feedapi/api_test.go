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
	"crypto/ecdsa"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/ontora/aifeed/core"
	"github.com/ontora/aifeed/core/rawdb"
	"github.com/ontora/aifeed/feed"
)

var testTime = time.Unix(1700000000, 0)

type testEnv struct {
	client   *rpc.Client
	registry *core.Registry
	deadline hexutil.Uint64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	registry, err := core.NewRegistry(rawdb.NewMemoryDatabase(), &core.Config{
		Clock: func() uint64 { return uint64(testTime.Unix()) },
	})
	if err != nil {
		t.Fatalf("can't create registry: %v", err)
	}
	server := rpc.NewServer()
	config := &Config{RequestLifetime: time.Minute, Clock: func() time.Time { return testTime }}
	for _, api := range GetAPIs(registry, config) {
		if err := server.RegisterName(api.Namespace, api.Service); err != nil {
			t.Fatalf("can't register service: %v", err)
		}
	}
	client := rpc.DialInProc(server)
	t.Cleanup(func() {
		client.Close()
		server.Stop()
		registry.Close()
	})
	return &testEnv{
		client:   client,
		registry: registry,
		deadline: hexutil.Uint64(testTime.Add(30 * time.Second).Unix()),
	}
}

func sign(t *testing.T, req feed.Request, key *ecdsa.PrivateKey) hexutil.Bytes {
	sig, err := feed.SignRequest(req, key)
	if err != nil {
		t.Fatalf("can't sign request: %v", err)
	}
	return sig
}

func (env *testEnv) initialize(t *testing.T, key *ecdsa.PrivateKey, desc, meta string) (*feed.DataFeed, error) {
	args := InitializeArgs{Description: desc, Metadata: meta, Deadline: env.deadline}
	args.Signature = sign(t, args.request(), key)
	var result feed.DataFeed
	err := env.client.Call(&result, "feed_initialize", args)
	return &result, err
}

func (env *testEnv) update(t *testing.T, key *ecdsa.PrivateKey, owner common.Address, data []byte, meta string) error {
	args := UpdateArgs{Owner: owner, Data: data, Metadata: meta, Deadline: env.deadline}
	args.Signature = sign(t, args.request(), key)
	return env.client.Call(nil, "feed_update", args)
}

func (env *testEnv) transfer(t *testing.T, key *ecdsa.PrivateKey, owner, newAuthority common.Address) error {
	args := TransferArgs{Owner: owner, NewAuthority: newAuthority, Deadline: env.deadline}
	args.Signature = sign(t, args.request(), key)
	return env.client.Call(nil, "feed_transferUpdateAuthority", args)
}

func errorCode(err error) int {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.ErrorCode()
	}
	return 0
}

func TestFeedAPI(t *testing.T) {
	var (
		env            = newTestEnv(t)
		ownerKey, _    = crypto.GenerateKey()
		delegateKey, _ = crypto.GenerateKey()
		owner          = crypto.PubkeyToAddress(ownerKey.PublicKey)
		delegate       = crypto.PubkeyToAddress(delegateKey.PublicKey)
	)
	f, err := env.initialize(t, ownerKey, "feed-1", "v1")
	if err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if f.Owner != owner || f.UpdateAuthority != owner || !f.Initialized {
		t.Fatalf("unexpected feed: %+v", f)
	}
	if err := env.update(t, ownerKey, owner, []byte{0x01, 0x02}, "v2"); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	var data hexutil.Bytes
	if err := env.client.Call(&data, "feed_read", owner); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "\x01\x02" {
		t.Fatalf("read mismatch: have %x", data)
	}
	if err := env.transfer(t, ownerKey, owner, delegate); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	err = env.update(t, ownerKey, owner, []byte{0x03}, "x")
	if code := errorCode(err); code != errCodeUnauthorized {
		t.Fatalf("error code mismatch: have %d (%v), want %d", code, err, errCodeUnauthorized)
	}
	if err := env.update(t, delegateKey, owner, []byte{0xff}, "v3"); err != nil {
		t.Fatalf("update by delegate failed: %v", err)
	}
	var got feed.DataFeed
	if err := env.client.Call(&got, "feed_getFeed", owner); err != nil {
		t.Fatalf("getFeed failed: %v", err)
	}
	if got.UpdateAuthority != delegate || got.Metadata != "v3" || string(got.Data) != "\xff" {
		t.Fatalf("unexpected feed: %+v", got)
	}
	var key common.Hash
	if err := env.client.Call(&key, "feed_key", owner); err != nil {
		t.Fatalf("key failed: %v", err)
	}
	if key != feed.KeyFor(owner) {
		t.Fatalf("key mismatch: have %x, want %x", key, feed.KeyFor(owner))
	}
}

func TestFeedAPIErrors(t *testing.T) {
	var (
		env         = newTestEnv(t)
		ownerKey, _ = crypto.GenerateKey()
		owner       = crypto.PubkeyToAddress(ownerKey.PublicKey)
	)
	err := env.client.Call(nil, "feed_read", owner)
	if code := errorCode(err); code != errCodeNotInitialized {
		t.Fatalf("error code mismatch: have %d (%v), want %d", code, err, errCodeNotInitialized)
	}
	if _, err := env.initialize(t, ownerKey, "feed", ""); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	_, err = env.initialize(t, ownerKey, "feed-2", "")
	if code := errorCode(err); code != errCodeAlreadyInitialized {
		t.Fatalf("error code mismatch: have %d (%v), want %d", code, err, errCodeAlreadyInitialized)
	}
	err = env.update(t, ownerKey, owner, make([]byte, feed.MaxDataSize+1), "")
	if code := errorCode(err); code != errCodeDataTooLarge {
		t.Fatalf("error code mismatch: have %d (%v), want %d", code, err, errCodeDataTooLarge)
	}
	err = env.transfer(t, ownerKey, owner, common.Address{})
	if code := errorCode(err); code != errCodeInvalidAuthority {
		t.Fatalf("error code mismatch: have %d (%v), want %d", code, err, errCodeInvalidAuthority)
	}

	// Signature over different content than submitted.
	args := UpdateArgs{Owner: owner, Data: []byte{1}, Deadline: env.deadline}
	args.Signature = sign(t, args.request(), ownerKey)
	args.Data = []byte{2}
	err = env.client.Call(nil, "feed_update", args)
	if code := errorCode(err); code != errCodeUnauthorized {
		t.Fatalf("error code mismatch: have %d (%v), want %d", code, err, errCodeUnauthorized)
	}
	args.Signature = args.Signature[:10]
	err = env.client.Call(nil, "feed_update", args)
	if code := errorCode(err); code != errCodeInvalidSignature {
		t.Fatalf("error code mismatch: have %d (%v), want %d", code, err, errCodeInvalidSignature)
	}

	// Deadlines in the past and too far ahead.
	for _, deadline := range []time.Time{testTime.Add(-time.Second), testTime.Add(2 * time.Minute)} {
		args := UpdateArgs{Owner: owner, Deadline: hexutil.Uint64(deadline.Unix())}
		args.Signature = sign(t, args.request(), ownerKey)
		err = env.client.Call(nil, "feed_update", args)
		if code := errorCode(err); code != errCodeRequestExpired {
			t.Fatalf("error code mismatch: have %d (%v), want %d", code, err, errCodeRequestExpired)
		}
	}
	data, err := env.registry.Read(owner)
	if err != nil || len(data) != 0 {
		t.Fatalf("rejected requests changed the feed: %x, %v", data, err)
	}
}

func TestFeedAPIReplay(t *testing.T) {
	var (
		env         = newTestEnv(t)
		ownerKey, _ = crypto.GenerateKey()
		bKey, _     = crypto.GenerateKey()
		owner       = crypto.PubkeyToAddress(ownerKey.PublicKey)
		b           = crypto.PubkeyToAddress(bKey.PublicKey)
		c           = common.HexToAddress("0xc0ffee")
	)
	if _, err := env.initialize(t, ownerKey, "feed", ""); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	toB := TransferArgs{Owner: owner, NewAuthority: b, Deadline: env.deadline}
	toB.Signature = sign(t, toB.request(), ownerKey)
	if err := env.client.Call(nil, "feed_transferUpdateAuthority", toB); err != nil {
		t.Fatalf("transfer to b failed: %v", err)
	}
	old := UpdateArgs{Owner: owner, Data: []byte{0x01}, Metadata: "old", Deadline: env.deadline}
	old.Signature = sign(t, old.request(), bKey)
	if err := env.client.Call(nil, "feed_update", old); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := env.update(t, bKey, owner, []byte{0x02}, "new"); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := env.transfer(t, ownerKey, owner, c); err != nil {
		t.Fatalf("transfer to c failed: %v", err)
	}

	err := env.client.Call(nil, "feed_transferUpdateAuthority", toB)
	if code := errorCode(err); code != errCodeRequestReplayed {
		t.Fatalf("transfer replay: error code mismatch: have %d (%v), want %d", code, err, errCodeRequestReplayed)
	}
	f, err := env.registry.Feed(owner)
	if err != nil {
		t.Fatalf("can't load feed: %v", err)
	}
	if f.UpdateAuthority != c {
		t.Fatalf("authority mismatch after replay: have %x, want %x", f.UpdateAuthority, c)
	}

	// Hand authority back to b so the old update would pass the authority
	// check. The same transfer needs a fresh deadline to be accepted again.
	back := TransferArgs{Owner: owner, NewAuthority: b, Deadline: env.deadline + 1}
	back.Signature = sign(t, back.request(), ownerKey)
	if err := env.client.Call(nil, "feed_transferUpdateAuthority", back); err != nil {
		t.Fatalf("transfer back to b failed: %v", err)
	}
	err = env.client.Call(nil, "feed_update", old)
	if code := errorCode(err); code != errCodeRequestReplayed {
		t.Fatalf("update replay: error code mismatch: have %d (%v), want %d", code, err, errCodeRequestReplayed)
	}
	if f, _ = env.registry.Feed(owner); string(f.Data) != "\x02" || f.Metadata != "new" {
		t.Fatalf("payload rolled back: data %x metadata %q", f.Data, f.Metadata)
	}

	// The same request from a different signer is a different request.
	if _, err := env.initialize(t, bKey, "feed", ""); err != nil {
		t.Fatalf("initialize by other signer failed: %v", err)
	}
}

func TestRequestSet(t *testing.T) {
	var (
		set = newRequestSet(2)
		a   = common.HexToHash("0x0a")
		b   = common.HexToHash("0x0b")
		c   = common.HexToHash("0x0c")
	)
	if err := set.add(a, 110, 100); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if err := set.add(a, 110, 105); err != ErrRequestReplayed {
		t.Fatalf("add a again: have %v, want %v", err, ErrRequestReplayed)
	}
	if err := set.add(b, 120, 100); err != nil {
		t.Fatalf("add b: %v", err)
	}
	// a is still live when c pushes it out, so its deadline becomes the floor.
	if err := set.add(c, 130, 100); err != nil {
		t.Fatalf("add c: %v", err)
	}
	if err := set.add(a, 110, 100); err != ErrRequestExpired {
		t.Fatalf("add evicted a: have %v, want %v", err, ErrRequestExpired)
	}
	// Once b and c expire they are dropped without raising the floor.
	if err := set.add(b, 140, 131); err != nil {
		t.Fatalf("add b after expiry: %v", err)
	}
	if set.floor != 110 {
		t.Fatalf("floor mismatch: have %d, want 110", set.floor)
	}
	if n := set.used.Len(); n != 1 {
		t.Fatalf("live entries mismatch: have %d, want 1", n)
	}
}

func TestFeedAPISubscription(t *testing.T) {
	var (
		env         = newTestEnv(t)
		ownerKey, _ = crypto.GenerateKey()
		owner       = crypto.PubkeyToAddress(ownerKey.PublicKey)
		ch          = make(chan *feed.Notification, 8)
	)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub, err := env.client.Subscribe(ctx, "feed", ch, "events")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer sub.Unsubscribe()

	if _, err := env.initialize(t, ownerKey, "feed-1", ""); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if err := env.update(t, ownerKey, owner, []byte{1, 2, 3}, ""); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	want := []feed.NotificationType{feed.NotificationInitialized, feed.NotificationUpdated}
	for i, typ := range want {
		select {
		case n := <-ch:
			if n.Type != typ || n.Key != feed.KeyFor(owner) {
				t.Fatalf("notification %d mismatch: have %+v, want type %s", i, n, typ)
			}
			if typ == feed.NotificationUpdated && (n.DataSize == nil || *n.DataSize != 3) {
				t.Fatalf("notification %d: wrong data size %v", i, n.DataSize)
			}
		case err := <-sub.Err():
			t.Fatalf("subscription failed: %v", err)
		case <-ctx.Done():
			t.Fatalf("timed out waiting for notification %d", i)
		}
	}
}

func TestErrorFromCode(t *testing.T) {
	for _, c := range codes {
		if err := ErrorFromCode(c.code); err != c.err {
			t.Errorf("code %d: have %v, want %v", c.code, err, c.err)
		}
	}
	if err := ErrorFromCode(errCodeInternalError); err != nil {
		t.Errorf("unexpected error for internal code: %v", err)
	}
}
