// Copyright 2017 The go-ethereum Authors
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

// feedctl is a command line client for the AI data feed registry.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ontora/aifeed/internal/debug"
	"github.com/ontora/aifeed/internal/flags"
	"github.com/urfave/cli/v2"
)

const defaultKeyfileName = "keyfile.json"

// Git SHA1 commit hash of the release (set via linker flags)
var gitCommit = ""

var (
	rpcFlag = &cli.StringFlag{
		Name:  "rpc",
		Usage: "RPC endpoint of the registry node (websocket is required for watch)",
		Value: "ws://localhost:8645",
	}
	lifetimeFlag = &cli.DurationFlag{
		Name:  "lifetime",
		Usage: "How long a signed request stays valid",
		Value: time.Minute,
	}
	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "output JSON instead of human-readable format",
	}
)

func newApp() *cli.App {
	app := flags.NewApp(gitCommit, "a command line client for the AI data feed registry")
	app.Commands = []*cli.Command{
		commandKey,
		commandInit,
		commandUpdate,
		commandTransfer,
		commandRead,
		commandInspect,
		commandWatch,
	}
	app.Flags = flags.Merge([]cli.Flag{rpcFlag, lifetimeFlag, jsonFlag}, debug.Flags)
	app.Before = func(ctx *cli.Context) error {
		return debug.Setup(ctx)
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
