// Copyright 2015 The go-ethereum Authors
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
	"github.com/ontora/aifeed/core"
	"github.com/ontora/aifeed/internal/feedapi"
	"github.com/ontora/aifeed/internal/flags"
	"github.com/ontora/aifeed/node"
	"github.com/urfave/cli/v2"
)

var (
	// General settings
	DataDirFlag = &flags.DirectoryFlag{
		Name:     "datadir",
		Usage:    "Data directory for the record database",
		Value:    flags.DirectoryString(node.DefaultDataDir()),
		Category: flags.RegistryCategory,
	}
	DBEngineFlag = &cli.StringFlag{
		Name:     "db.engine",
		Usage:    "Backing database implementation to use ('leveldb', 'pebble' or 'memory')",
		Value:    node.DefaultConfig.DBEngine,
		Category: flags.RegistryCategory,
	}
	CacheFlag = &cli.IntFlag{
		Name:     "cache",
		Usage:    "Megabytes of memory allocated to the database cache",
		Value:    node.DefaultConfig.DatabaseCache,
		Category: flags.RegistryCategory,
	}
	CacheRecordsFlag = &cli.IntFlag{
		Name:     "cache.records",
		Usage:    "Number of decoded feed records kept in memory",
		Value:    core.DefaultConfig.CacheSize,
		Category: flags.RegistryCategory,
	}

	// RPC settings
	HTTPListenAddrFlag = &cli.StringFlag{
		Name:     "http.addr",
		Usage:    "HTTP-RPC server listening interface (empty disables the server)",
		Value:    node.DefaultHTTPHost,
		Category: flags.APICategory,
	}
	HTTPPortFlag = &cli.IntFlag{
		Name:     "http.port",
		Usage:    "HTTP-RPC server listening port",
		Value:    node.DefaultHTTPPort,
		Category: flags.APICategory,
	}
	HTTPCORSDomainFlag = &cli.StringFlag{
		Name:     "http.corsdomain",
		Usage:    "Comma separated list of domains from which to accept cross origin requests (browser enforced)",
		Value:    "",
		Category: flags.APICategory,
	}
	HTTPVirtualHostsFlag = &cli.StringFlag{
		Name:     "http.vhosts",
		Usage:    "Comma separated list of virtual hostnames from which to accept requests (server enforced). Accepts '*' wildcard.",
		Value:    "localhost",
		Category: flags.APICategory,
	}
	RequestLifetimeFlag = &cli.DurationFlag{
		Name:     "request.lifetime",
		Usage:    "Maximum distance of a signed request deadline from the current time",
		Value:    feedapi.DefaultConfig.RequestLifetime,
		Category: flags.APICategory,
	}
	RequestCacheFlag = &cli.IntFlag{
		Name:     "request.cache",
		Usage:    "Number of accepted signed requests remembered to refuse replays",
		Value:    feedapi.DefaultConfig.RequestCacheSize,
		Category: flags.APICategory,
	}
)

// NodeFlags holds the flags configuring the registry node.
var NodeFlags = []cli.Flag{
	DataDirFlag,
	DBEngineFlag,
	CacheFlag,
	CacheRecordsFlag,
	HTTPListenAddrFlag,
	HTTPPortFlag,
	HTTPCORSDomainFlag,
	HTTPVirtualHostsFlag,
	RequestLifetimeFlag,
	RequestCacheFlag,
}

// SetNodeConfig applies node-related command line flags to the config.
func SetNodeConfig(ctx *cli.Context, cfg *node.Config) {
	if ctx.IsSet(DataDirFlag.Name) {
		cfg.DataDir = ctx.String(DataDirFlag.Name)
	}
	if ctx.IsSet(DBEngineFlag.Name) {
		cfg.DBEngine = ctx.String(DBEngineFlag.Name)
	}
	if ctx.IsSet(CacheFlag.Name) {
		cfg.DatabaseCache = ctx.Int(CacheFlag.Name)
	}
	if ctx.IsSet(CacheRecordsFlag.Name) {
		cfg.Registry.CacheSize = ctx.Int(CacheRecordsFlag.Name)
	}
	setHTTP(ctx, cfg)

	if ctx.IsSet(RequestLifetimeFlag.Name) {
		cfg.API.RequestLifetime = ctx.Duration(RequestLifetimeFlag.Name)
	}
	if ctx.IsSet(RequestCacheFlag.Name) {
		cfg.API.RequestCacheSize = ctx.Int(RequestCacheFlag.Name)
	}
}

// setHTTP creates the HTTP RPC listener interface string from the set
// command line flags, returning empty if the HTTP endpoint is disabled.
func setHTTP(ctx *cli.Context, cfg *node.Config) {
	if ctx.IsSet(HTTPListenAddrFlag.Name) {
		cfg.HTTPHost = ctx.String(HTTPListenAddrFlag.Name)
	}
	if ctx.IsSet(HTTPPortFlag.Name) {
		cfg.HTTPPort = ctx.Int(HTTPPortFlag.Name)
	}
	if ctx.IsSet(HTTPCORSDomainFlag.Name) {
		cfg.HTTPCors = flags.SplitAndTrim(ctx.String(HTTPCORSDomainFlag.Name))
	}
	if ctx.IsSet(HTTPVirtualHostsFlag.Name) {
		cfg.HTTPVirtualHosts = flags.SplitAndTrim(ctx.String(HTTPVirtualHostsFlag.Name))
	}
}
