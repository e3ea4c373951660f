// Copyright 2026 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ontora/aifeed/feed"
	"github.com/ontora/aifeed/node"
	"github.com/stretchr/testify/require"
)

func runFeedctl(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"feedctl"}, args...))
	return out.String(), err
}

func startTestNode(t *testing.T) (*node.Node, string) {
	t.Helper()
	cfg := node.DefaultConfig
	cfg.DataDir = ""
	cfg.DBEngine = node.DBMemory
	cfg.HTTPHost = "127.0.0.1"
	cfg.HTTPPort = 0
	stack, err := node.New(&cfg)
	require.NoError(t, err)
	require.NoError(t, stack.Start())
	t.Cleanup(func() { stack.Close() })
	return stack, "ws://" + strings.TrimPrefix(stack.HTTPEndpoint(), "http://")
}

// generateKeyfile creates a keyfile and returns its path and account.
func generateKeyfile(t *testing.T, dir, name string) (string, common.Address) {
	t.Helper()
	path := filepath.Join(dir, name)
	out, err := runFeedctl(t, "--json", "key", "generate", "--lightkdf", path)
	require.NoError(t, err)

	var gen outputGenerate
	require.NoError(t, json.Unmarshal([]byte(out), &gen))
	require.True(t, common.IsHexAddress(gen.Address))
	return path, common.HexToAddress(gen.Address)
}

func TestKeyGenerateInspect(t *testing.T) {
	dir := t.TempDir()
	path, addr := generateKeyfile(t, dir, "key.json")

	out, err := runFeedctl(t, "key", "inspect", path)
	require.NoError(t, err)
	require.Contains(t, out, addr.Hex())
	require.NotContains(t, out, "Private key")

	out, err = runFeedctl(t, "key", "inspect", "--private", path)
	require.NoError(t, err)
	require.Contains(t, out, "Private key")

	_, err = runFeedctl(t, "key", "generate", "--lightkdf", path)
	require.Error(t, err, "existing keyfile must not be overwritten")
}

func TestFeedLifecycle(t *testing.T) {
	stack, endpoint := startTestNode(t)
	dir := t.TempDir()
	ownerKey, owner := generateKeyfile(t, dir, "owner.json")
	otherKey, other := generateKeyfile(t, dir, "other.json")

	out, err := runFeedctl(t, "--rpc", endpoint, "init", "--keyfile", ownerKey, "--description", "BTC price model", "--metadata", "v1")
	require.NoError(t, err)
	require.Contains(t, out, feed.KeyFor(owner).Hex())

	_, err = runFeedctl(t, "--rpc", endpoint, "update", "--keyfile", ownerKey, "--data", "0x0102", "--metadata", "v2")
	require.NoError(t, err)

	out, err = runFeedctl(t, "--rpc", endpoint, "read", owner.Hex())
	require.NoError(t, err)
	require.Equal(t, "0x0102\n", out)

	// The second account may not update until it holds the authority.
	_, err = runFeedctl(t, "--rpc", endpoint, "update", "--keyfile", otherKey, "--owner", owner.Hex(), "--data", "0xfe")
	require.ErrorIs(t, err, feed.ErrUnauthorized)

	_, err = runFeedctl(t, "--rpc", endpoint, "transfer", "--keyfile", ownerKey, "--to", other.Hex())
	require.NoError(t, err)
	_, err = runFeedctl(t, "--rpc", endpoint, "update", "--keyfile", otherKey, "--owner", owner.Hex(), "--data", "0xff")
	require.NoError(t, err)

	out, err = runFeedctl(t, "--rpc", endpoint, "inspect", owner.Hex())
	require.NoError(t, err)
	require.Contains(t, out, "BTC price model")
	require.Contains(t, out, other.Hex())

	record, err := stack.Registry().Feed(owner)
	require.NoError(t, err)
	require.Equal(t, []byte{0xff}, record.Data)
	require.Equal(t, "", record.Metadata)
}

func TestFeedErrors(t *testing.T) {
	_, endpoint := startTestNode(t)
	dir := t.TempDir()
	ownerKey, owner := generateKeyfile(t, dir, "owner.json")

	_, err := runFeedctl(t, "--rpc", endpoint, "read", owner.Hex())
	require.ErrorIs(t, err, feed.ErrNotInitialized)

	_, err = runFeedctl(t, "--rpc", endpoint, "init", "--keyfile", ownerKey, "--description", strings.Repeat("x", feed.MaxDescriptionSize+1))
	require.ErrorIs(t, err, feed.ErrDescriptionTooLong)

	_, err = runFeedctl(t, "--rpc", endpoint, "read", "not-an-address")
	require.Error(t, err)

	_, err = runFeedctl(t, "--rpc", endpoint, "update", "--keyfile", ownerKey, "--data", "0x01", "--data.file", "x")
	require.Error(t, err)
}

func TestWatch(t *testing.T) {
	_, endpoint := startTestNode(t)
	ownerKey, owner := generateKeyfile(t, t.TempDir(), "owner.json")

	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := runFeedctl(t, "--rpc", endpoint, "watch", "--count", "2")
		done <- result{out, err}
	}()

	// Retry the writes until the watcher has subscribed and seen both.
	deadline := time.After(10 * time.Second)
	_, err := runFeedctl(t, "--rpc", endpoint, "init", "--keyfile", ownerKey)
	require.NoError(t, err)
	for i := 0; ; i++ {
		// Identical signed requests within one second are refused as replays.
		_, err := runFeedctl(t, "--rpc", endpoint, "update", "--keyfile", ownerKey, "--data", fmt.Sprintf("0x%04x", i))
		require.NoError(t, err)

		select {
		case res := <-done:
			require.NoError(t, res.err)
			lines := strings.Split(strings.TrimSpace(res.out), "\n")
			require.Len(t, lines, 2)
			var last feed.Notification
			require.NoError(t, json.Unmarshal([]byte(lines[1]), &last))
			require.Equal(t, feed.NotificationUpdated, last.Type)
			require.Equal(t, owner, *last.Owner)
			return
		case <-deadline:
			t.Fatal("watch did not report events")
		case <-time.After(100 * time.Millisecond):
		}
	}
}
