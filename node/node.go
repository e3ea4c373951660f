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

// Package node hosts the feed registry: it owns the data directory, the
// record database and the RPC endpoints the registry is served on.
package node

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/gofrs/flock"
	"github.com/ontora/aifeed/core"
	"github.com/ontora/aifeed/core/rawdb"
	"github.com/ontora/aifeed/internal/feedapi"
)

var (
	ErrDatadirUsed = errors.New("datadir already used by another process")
	ErrNodeStopped = errors.New("node not started")
	ErrNodeRunning = errors.New("node already running")
)

const (
	initializingState = iota
	runningState
	closedState
)

// Node is a container hosting a feed registry and its RPC endpoints.
type Node struct {
	config        *Config
	log           log.Logger
	dirLock       *flock.Flock        // prevents concurrent use of instance directory
	db            ethdb.KeyValueStore // record database
	registry      *core.Registry
	rpcAPIs       []rpc.API   // List of APIs currently provided by the node
	inprocHandler *rpc.Server // In-process RPC request handler to process the API requests
	http          *httpServer

	startStopLock sync.Mutex // Start/Stop are protected by an additional lock
	state         int        // Tracks state of node lifecycle
	stop          chan struct{}
}

// New creates a new node, opening its database and registering the registry
// RPC services. The HTTP endpoint is opened by Start.
func New(conf *Config) (*Node, error) {
	confCopy := *conf
	conf = &confCopy
	if err := conf.validate(); err != nil {
		return nil, err
	}
	if conf.DataDir != "" {
		absdatadir, err := filepath.Abs(conf.DataDir)
		if err != nil {
			return nil, err
		}
		conf.DataDir = absdatadir
	}
	node := &Node{
		config:        conf,
		log:           log.New(),
		inprocHandler: rpc.NewServer(),
		stop:          make(chan struct{}),
	}
	if err := node.openDataDir(); err != nil {
		return nil, err
	}
	if err := node.openDatabase(); err != nil {
		node.closeDataDir()
		return nil, err
	}
	registry, err := core.NewRegistry(node.db, &conf.Registry)
	if err != nil {
		node.db.Close()
		node.closeDataDir()
		return nil, err
	}
	node.registry = registry
	node.rpcAPIs = append(feedapi.GetAPIs(registry, &conf.API), node.apis()...)
	for _, api := range node.rpcAPIs {
		if err := node.inprocHandler.RegisterName(api.Namespace, api.Service); err != nil {
			node.closeResources()
			return nil, err
		}
	}
	node.http = newHTTPServer(node.log, node.inprocHandler, conf.HTTPCors, conf.HTTPVirtualHosts)
	return node, nil
}

// Start opens the HTTP endpoint, if configured.
func (n *Node) Start() error {
	n.startStopLock.Lock()
	defer n.startStopLock.Unlock()

	switch n.state {
	case runningState:
		return ErrNodeRunning
	case closedState:
		return ErrNodeStopped
	}
	if endpoint := n.config.HTTPEndpoint(); endpoint != "" {
		if err := n.http.start(endpoint); err != nil {
			return err
		}
	}
	n.state = runningState
	n.log.Info("Started feed registry", "engine", n.config.DBEngine, "datadir", n.config.DataDir, "http", n.HTTPEndpoint())
	return nil
}

// Close stops the node and releases all resources it holds.
func (n *Node) Close() error {
	n.startStopLock.Lock()
	defer n.startStopLock.Unlock()

	if n.state == closedState {
		return ErrNodeStopped
	}
	n.state = closedState
	errs := []error{n.http.stop()}
	errs = append(errs, n.closeResources()...)
	close(n.stop)

	n.log.Info("Feed registry stopped")
	return errors.Join(errs...)
}

// Wait blocks until the node is closed.
func (n *Node) Wait() {
	<-n.stop
}

// Registry returns the record store hosted by the node.
func (n *Node) Registry() *core.Registry {
	return n.registry
}

// Attach creates an RPC client attached to an in-process API handler.
func (n *Node) Attach() *rpc.Client {
	return rpc.DialInProc(n.inprocHandler)
}

// HTTPEndpoint returns the URL of the HTTP server, or the empty string if it
// is not running.
func (n *Node) HTTPEndpoint() string {
	if addr := n.http.listenAddr(); addr != "" {
		return "http://" + addr
	}
	return ""
}

// DataDir retrieves the current datadir used by the node.
func (n *Node) DataDir() string {
	return n.config.DataDir
}

func (n *Node) openDataDir() error {
	if n.config.DataDir == "" {
		return nil
	}
	if err := os.MkdirAll(n.config.DataDir, 0700); err != nil {
		return err
	}
	// Lock the instance directory to prevent concurrent use by another instance as well as
	// accidental use of the instance directory as a database.
	n.dirLock = flock.New(filepath.Join(n.config.DataDir, datadirLock))
	locked, err := n.dirLock.TryLock()
	if err != nil {
		return err
	}
	if !locked {
		return ErrDatadirUsed
	}
	return nil
}

func (n *Node) closeDataDir() {
	if n.dirLock != nil && n.dirLock.Locked() {
		n.dirLock.Unlock()
		n.dirLock = nil
	}
}

func (n *Node) openDatabase() error {
	var err error
	switch n.config.DBEngine {
	case DBMemory:
		n.db = rawdb.NewMemoryDatabase()
		return nil
	case DBPebble:
		file := filepath.Join(n.config.DataDir, datadirDatabase)
		n.db, err = rawdb.NewPebbleDBDatabase(file, n.config.DatabaseCache, n.config.DatabaseHandles, "aifeed/db/", false)
	default:
		file := filepath.Join(n.config.DataDir, datadirDatabase)
		n.db, err = rawdb.NewLevelDBDatabase(file, n.config.DatabaseCache, n.config.DatabaseHandles, "aifeed/db/", false)
	}
	if err != nil {
		return fmt.Errorf("failed to open %s record database: %w", n.config.DBEngine, err)
	}
	n.log.Info("Opened record database", "engine", n.config.DBEngine, "cache", n.config.DatabaseCache, "handles", n.config.DatabaseHandles)
	return nil
}

// closeResources shuts down the RPC handler, the registry and the database
// and releases the instance directory.
func (n *Node) closeResources() []error {
	var errs []error
	n.inprocHandler.Stop()
	n.registry.Close()
	if err := n.db.Close(); err != nil {
		errs = append(errs, err)
	}
	n.closeDataDir()
	return errs
}
