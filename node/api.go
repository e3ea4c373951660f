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
	"runtime"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/ontora/aifeed/internal/debug"
	"github.com/ontora/aifeed/params"
)

const clientIdentifier = "aifeed"

// apis returns the collection of built-in RPC APIs.
func (n *Node) apis() []rpc.API {
	return []rpc.API{
		{
			Namespace: "admin",
			Service:   &adminAPI{n},
		}, {
			Namespace: "debug",
			Service:   debug.Handler,
		}, {
			Namespace: "web3",
			Service:   &web3API{n},
		},
	}
}

// NodeInfo describes a running registry node.
type NodeInfo struct {
	Name     string `json:"name"`
	DataDir  string `json:"datadir"`
	Engine   string `json:"engine"`
	HTTP     string `json:"http"`
	Lifetime string `json:"requestLifetime"`
}

// adminAPI is the collection of administrative API methods.
type adminAPI struct {
	node *Node // Node interfaced by this API
}

// NodeInfo retrieves information about the running node.
func (api *adminAPI) NodeInfo() *NodeInfo {
	return &NodeInfo{
		Name:     api.node.Name(),
		DataDir:  api.node.DataDir(),
		Engine:   api.node.config.DBEngine,
		HTTP:     api.node.HTTPEndpoint(),
		Lifetime: api.node.config.API.RequestLifetime.String(),
	}
}

// Datadir retrieves the current data directory the node is using.
func (api *adminAPI) Datadir() string {
	return api.node.DataDir()
}

// web3API offers helper utils
type web3API struct {
	stack *Node
}

// ClientVersion returns the node name
func (s *web3API) ClientVersion() string {
	return s.stack.Name()
}

// Sha3 applies the ethereum sha3 implementation on the input.
// It assumes the input is hex encoded.
func (s *web3API) Sha3(input hexutil.Bytes) hexutil.Bytes {
	return crypto.Keccak256(input)
}

// Name returns the client identifier including version and platform.
func (n *Node) Name() string {
	return fmt.Sprintf("%s/v%s/%s-%s/%s", clientIdentifier, params.VersionWithMeta, runtime.GOOS, runtime.GOARCH, runtime.Version())
}
