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

package utils

import (
	"flag"
	"reflect"
	"testing"
	"time"

	"github.com/ontora/aifeed/node"
	"github.com/urfave/cli/v2"
)

func TestSplitTagsFlag(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args string
		want map[string]string
	}{
		{
			"2 tags case",
			"host=localhost,bzzkey=123",
			map[string]string{
				"host":   "localhost",
				"bzzkey": "123",
			},
		},
		{
			"1 tag case",
			"host=localhost123",
			map[string]string{
				"host": "localhost123",
			},
		},
		{
			"empty case",
			"",
			map[string]string{},
		},
		{
			"garbage",
			"smth=smthelse=123",
			map[string]string{},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SplitTagsFlag(tt.args); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitTagsFlag() = %v, want %v", got, tt.want)
			}
		})
	}
}

func newTestContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range NodeFlags {
		if err := f.Apply(set); err != nil {
			t.Fatal(err)
		}
	}
	if err := set.Parse(args); err != nil {
		t.Fatal(err)
	}
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestSetNodeConfig(t *testing.T) {
	ctx := newTestContext(t,
		"--datadir", "/tmp/aifeed",
		"--db.engine", "memory",
		"--cache.records", "16",
		"--http.addr", "0.0.0.0",
		"--http.port", "9000",
		"--http.corsdomain", "https://a.example, https://b.example",
		"--request.lifetime", "30s",
		"--request.cache", "1024",
	)
	cfg := node.DefaultConfig
	SetNodeConfig(ctx, &cfg)

	if cfg.DataDir != "/tmp/aifeed" {
		t.Errorf("datadir mismatch: have %q", cfg.DataDir)
	}
	if cfg.DBEngine != node.DBMemory {
		t.Errorf("engine mismatch: have %q", cfg.DBEngine)
	}
	if cfg.Registry.CacheSize != 16 {
		t.Errorf("record cache mismatch: have %d", cfg.Registry.CacheSize)
	}
	if cfg.HTTPEndpoint() != "0.0.0.0:9000" {
		t.Errorf("endpoint mismatch: have %q", cfg.HTTPEndpoint())
	}
	if !reflect.DeepEqual(cfg.HTTPCors, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("cors mismatch: have %q", cfg.HTTPCors)
	}
	if cfg.API.RequestLifetime != 30*time.Second {
		t.Errorf("lifetime mismatch: have %v", cfg.API.RequestLifetime)
	}
	if cfg.API.RequestCacheSize != 1024 {
		t.Errorf("request cache mismatch: have %d", cfg.API.RequestCacheSize)
	}
	// Unset flags leave the configuration untouched.
	if cfg.DatabaseCache != node.DefaultConfig.DatabaseCache {
		t.Errorf("cache changed without flag: have %d", cfg.DatabaseCache)
	}
	if !reflect.DeepEqual(cfg.HTTPVirtualHosts, node.DefaultConfig.HTTPVirtualHosts) {
		t.Errorf("vhosts changed without flag: have %q", cfg.HTTPVirtualHosts)
	}
}
