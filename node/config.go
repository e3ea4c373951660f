// Copyright 2015 The go-ethereum Authors
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

package node

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ontora/aifeed/core"
	"github.com/ontora/aifeed/internal/feedapi"
)

const (
	DefaultHTTPHost = "localhost" // Default host interface for the HTTP RPC server
	DefaultHTTPPort = 8645        // Default TCP port for the HTTP RPC server

	// Database engines understood by the node.
	DBLevelDB = "leveldb"
	DBPebble  = "pebble"
	DBMemory  = "memory"

	datadirDatabase = "feeddata" // Path within the datadir to the record database
	datadirLock     = "LOCK"     // Path within the datadir to the instance lock
)

// Config represents a small collection of configuration values to fine tune
// the registry node. These values can be further extended by all registered
// services.
type Config struct {
	// DataDir is the file system folder the node should use for any data
	// storage requirements. Only the in-memory engine may run without one.
	DataDir string

	// DBEngine selects the record store backend: leveldb, pebble or memory.
	DBEngine string `toml:",omitempty"`

	// DatabaseCache is the megabytes of memory allocated to internal caching.
	DatabaseCache int

	// DatabaseHandles is the number of file descriptors given to the database.
	DatabaseHandles int `toml:"-"`

	// HTTPHost is the host interface on which to start the HTTP RPC server. If
	// this field is empty, no HTTP API endpoint will be started.
	HTTPHost string

	// HTTPPort is the TCP port number on which to start the HTTP RPC server.
	// The default zero value is valid and will pick a port number randomly.
	HTTPPort int `toml:",omitempty"`

	// HTTPCors is the Cross-Origin Resource Sharing header to send to requesting
	// clients. Please be aware that CORS is a browser enforced security, it's
	// fully useless for custom HTTP clients.
	HTTPCors []string `toml:",omitempty"`

	// HTTPVirtualHosts is the list of virtual hostnames which are allowed on incoming requests.
	// This is by default {'localhost'}. Using this prevents attacks like
	// DNS rebinding, which bypasses SOP by simply masquerading as being within the same
	// origin. These attacks do not utilize CORS, since they are not cross-domain.
	// "*" accepts any host.
	HTTPVirtualHosts []string `toml:",omitempty"`

	// Registry configures the record store.
	Registry core.Config

	// API configures the RPC service.
	API feedapi.Config
}

// DefaultConfig contains reasonable default settings.
var DefaultConfig = Config{
	DataDir:          DefaultDataDir(),
	DBEngine:         DBLevelDB,
	DatabaseCache:    64,
	DatabaseHandles:  256,
	HTTPHost:         DefaultHTTPHost,
	HTTPPort:         DefaultHTTPPort,
	HTTPVirtualHosts: []string{"localhost"},
	Registry:         core.DefaultConfig,
	API:              feedapi.DefaultConfig,
}

// DefaultDataDir is the default data directory to use for the databases and
// other persistence requirements.
func DefaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".aifeed")
	}
	return ""
}

// HTTPEndpoint resolves an HTTP endpoint based on the configured host interface
// and port parameters.
func (c *Config) HTTPEndpoint() string {
	if c.HTTPHost == "" {
		return ""
	}
	return net.JoinHostPort(c.HTTPHost, strconv.Itoa(c.HTTPPort))
}

// validate checks the engine selection against the data directory.
func (c *Config) validate() error {
	switch c.DBEngine {
	case DBMemory:
		return nil
	case DBLevelDB, DBPebble, "":
		if c.DataDir == "" {
			return fmt.Errorf("database engine %q requires a data directory", c.DBEngine)
		}
		return nil
	default:
		return fmt.Errorf("unknown database engine %q", c.DBEngine)
	}
}
