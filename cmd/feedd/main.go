// Copyright 2014 The go-ethereum Authors
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

// feedd is the daemon hosting the AI data feed registry.
package main

import (
	"fmt"
	"os"

	"github.com/ontora/aifeed/cmd/utils"
	"github.com/ontora/aifeed/internal/debug"
	"github.com/ontora/aifeed/internal/flags"
	"github.com/urfave/cli/v2"
)

const clientIdentifier = "feedd" // Client identifier to advertise over the network

var (
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""

	app = flags.NewApp(gitCommit, "the AI data feed registry daemon")
)

func init() {
	app.Action = feedd
	app.Commands = []*cli.Command{
		dumpConfigCommand,
		versionCommand,
	}
	app.Flags = flags.Merge(
		utils.NodeFlags,
		[]cli.Flag{configFileFlag},
		utils.MetricsFlags,
		debug.Flags,
	)
	app.Before = func(ctx *cli.Context) error {
		return debug.Setup(ctx)
	}
	app.After = func(ctx *cli.Context) error {
		debug.Exit()
		return nil
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// feedd is the main entry point into the system if no special subcommand is run.
// It creates a default node based on the command line arguments and runs it in
// blocking mode, waiting for it to be shut down.
func feedd(ctx *cli.Context) error {
	if args := ctx.Args().Slice(); len(args) > 0 {
		return fmt.Errorf("invalid command: %q", args[0])
	}
	stack, err := makeNode(ctx)
	if err != nil {
		return err
	}
	defer stack.Close()

	utils.SetupMetrics(ctx)
	utils.StartNode(stack)
	stack.Wait()
	return nil
}
