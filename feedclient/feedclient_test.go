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

package feedclient

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/ontora/aifeed/core"
	"github.com/ontora/aifeed/core/rawdb"
	"github.com/ontora/aifeed/feed"
	"github.com/ontora/aifeed/internal/feedapi"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	registry, err := core.NewRegistry(rawdb.NewMemoryDatabase(), nil)
	require.NoError(t, err)

	server := rpc.NewServer()
	for _, api := range feedapi.GetAPIs(registry, nil) {
		require.NoError(t, server.RegisterName(api.Namespace, api.Service))
	}
	client := NewClient(rpc.DialInProc(server))
	t.Cleanup(func() {
		client.Close()
		server.Stop()
		registry.Close()
	})
	return client
}

func TestClientScenario(t *testing.T) {
	var (
		ctx     = context.Background()
		client  = newTestClient(t)
		keyA, _ = crypto.GenerateKey()
		keyB, _ = crypto.GenerateKey()
		addrA   = crypto.PubkeyToAddress(keyA.PublicKey)
		addrB   = crypto.PubkeyToAddress(keyB.PublicKey)
	)
	f, err := client.Initialize(ctx, keyA, "feed-1", "v1")
	require.NoError(t, err)
	require.Equal(t, addrA, f.Owner)
	require.Equal(t, addrA, f.UpdateAuthority)
	require.True(t, f.Initialized)

	data, err := client.Read(ctx, addrA)
	require.NoError(t, err)
	require.Empty(t, data)

	require.NoError(t, client.Update(ctx, keyA, addrA, []byte{0x01, 0x02}, "v2"))
	f, err = client.Feed(ctx, addrA)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, f.Data)
	require.Equal(t, "v2", f.Metadata)

	require.NoError(t, client.TransferUpdateAuthority(ctx, keyA, addrA, addrB))
	require.ErrorIs(t, client.Update(ctx, keyA, addrA, []byte{0x03}, "x"), feed.ErrUnauthorized)
	require.NoError(t, client.Update(ctx, keyB, addrA, []byte{0xff}, "v3"))

	data, err = client.Read(ctx, addrA)
	require.NoError(t, err)
	require.Equal(t, []byte{0xff}, data)

	key, err := client.Key(ctx, addrA)
	require.NoError(t, err)
	require.Equal(t, feed.KeyFor(addrA), key)
}

func TestClientErrors(t *testing.T) {
	var (
		ctx    = context.Background()
		client = newTestClient(t)
		key, _ = crypto.GenerateKey()
		addr   = crypto.PubkeyToAddress(key.PublicKey)
	)
	_, err := client.Read(ctx, addr)
	require.ErrorIs(t, err, feed.ErrNotInitialized)

	_, err = client.Initialize(ctx, key, strings.Repeat("d", feed.MaxDescriptionSize+1), "")
	require.ErrorIs(t, err, feed.ErrDescriptionTooLong)

	_, err = client.Initialize(ctx, key, strings.Repeat("d", feed.MaxDescriptionSize), "")
	require.NoError(t, err)

	require.ErrorIs(t, client.Update(ctx, key, addr, nil, strings.Repeat("m", feed.MaxMetadataSize+1)), feed.ErrMetadataTooLong)
	require.ErrorIs(t, client.TransferUpdateAuthority(ctx, key, addr, common.Address{}), feed.ErrInvalidAuthority)

	// A lifetime beyond the server's window is refused.
	client.SetLifetime(time.Hour)
	require.ErrorIs(t, client.Update(ctx, key, addr, nil, ""), feedapi.ErrRequestExpired)
}
