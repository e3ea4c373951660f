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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/olekukonko/tablewriter"
	"github.com/ontora/aifeed/feed"
	"github.com/ontora/aifeed/feedclient"
	"github.com/urfave/cli/v2"
)

var (
	ownerFlag = &cli.StringFlag{
		Name:  "owner",
		Usage: "owner address of the feed (defaults to the keyfile account)",
	}
	descriptionFlag = &cli.StringFlag{
		Name:  "description",
		Usage: "human-readable description of the feed",
	}
	metadataFlag = &cli.StringFlag{
		Name:  "metadata",
		Usage: "metadata attached to the feed",
	}
	dataFlag = &cli.StringFlag{
		Name:  "data",
		Usage: "0x-prefixed hex encoded feed payload",
	}
	dataFileFlag = &cli.StringFlag{
		Name:  "data.file",
		Usage: "file holding the raw feed payload",
	}
	authorityFlag = &cli.StringFlag{
		Name:     "to",
		Usage:    "address of the new update authority",
		Required: true,
	}
	countFlag = &cli.IntFlag{
		Name:  "count",
		Usage: "exit after this many events (0 watches until interrupted)",
	}
)

var signingFlags = []cli.Flag{keyfileFlag, passphraseFlag}

var commandInit = &cli.Command{
	Name:   "init",
	Usage:  "create the feed owned by the keyfile account",
	Flags:  append([]cli.Flag{descriptionFlag, metadataFlag}, signingFlags...),
	Action: initFeed,
}

var commandUpdate = &cli.Command{
	Name:   "update",
	Usage:  "replace the payload and metadata of a feed",
	Flags:  append([]cli.Flag{ownerFlag, dataFlag, dataFileFlag, metadataFlag}, signingFlags...),
	Action: updateFeed,
}

var commandTransfer = &cli.Command{
	Name:   "transfer",
	Usage:  "hand the update authority of a feed to another account",
	Flags:  append([]cli.Flag{ownerFlag, authorityFlag}, signingFlags...),
	Action: transferAuthority,
}

var commandRead = &cli.Command{
	Name:      "read",
	Usage:     "print the payload of a feed",
	ArgsUsage: "<owner>",
	Action:    readFeed,
}

var commandInspect = &cli.Command{
	Name:      "inspect",
	Usage:     "print the full record of a feed",
	ArgsUsage: "<owner>",
	Action:    inspectFeed,
}

var commandWatch = &cli.Command{
	Name:   "watch",
	Usage:  "stream registry events",
	Flags:  []cli.Flag{countFlag},
	Action: watchFeeds,
}

func initFeed(ctx *cli.Context) error {
	client, key, err := signingClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	record, err := client.Initialize(ctx.Context, key.PrivateKey, ctx.String(descriptionFlag.Name), ctx.String(metadataFlag.Name))
	if err != nil {
		return err
	}
	if ctx.Bool(jsonFlag.Name) {
		return printJSON(ctx, record)
	}
	fmt.Fprintln(ctx.App.Writer, "Initialized feed", record.Key().Hex(), "owned by", record.Owner.Hex())
	return nil
}

func updateFeed(ctx *cli.Context) error {
	data, err := payload(ctx)
	if err != nil {
		return err
	}
	client, key, err := signingClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	owner := key.Address
	if ctx.IsSet(ownerFlag.Name) {
		if owner, err = parseAddress(ctx.String(ownerFlag.Name)); err != nil {
			return err
		}
	}
	if err := client.Update(ctx.Context, key.PrivateKey, owner, data, ctx.String(metadataFlag.Name)); err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, "Updated feed of", owner.Hex(), "with", len(data), "bytes")
	return nil
}

func transferAuthority(ctx *cli.Context) error {
	newAuthority, err := parseAddress(ctx.String(authorityFlag.Name))
	if err != nil {
		return err
	}
	client, key, err := signingClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	owner := key.Address
	if ctx.IsSet(ownerFlag.Name) {
		if owner, err = parseAddress(ctx.String(ownerFlag.Name)); err != nil {
			return err
		}
	}
	if err := client.TransferUpdateAuthority(ctx.Context, key.PrivateKey, owner, newAuthority); err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, "Update authority of", owner.Hex(), "is now", newAuthority.Hex())
	return nil
}

func readFeed(ctx *cli.Context) error {
	owner, err := ownerArg(ctx)
	if err != nil {
		return err
	}
	client, err := dialClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	data, err := client.Read(ctx.Context, owner)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, hexutil.Encode(data))
	return nil
}

func inspectFeed(ctx *cli.Context) error {
	owner, err := ownerArg(ctx)
	if err != nil {
		return err
	}
	client, err := dialClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	record, err := client.Feed(ctx.Context, owner)
	if err != nil {
		return err
	}
	if ctx.Bool(jsonFlag.Name) {
		return printJSON(ctx, record)
	}
	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk([][]string{
		{"Key", record.Key().Hex()},
		{"Owner", record.Owner.Hex()},
		{"Update authority", record.UpdateAuthority.Hex()},
		{"Description", record.Description},
		{"Metadata", record.Metadata},
		{"Data size", strconv.Itoa(len(record.Data))},
		{"Last updated", formatTime(record.LastUpdated)},
	})
	table.Render()
	return nil
}

func watchFeeds(ctx *cli.Context) error {
	client, err := dialClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	sigctx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := make(chan *feed.Notification, 16)
	sub, err := client.SubscribeEvents(sigctx, events)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	enc := json.NewEncoder(ctx.App.Writer)
	limit := ctx.Int(countFlag.Name)
	for seen := 0; limit == 0 || seen < limit; seen++ {
		select {
		case ev := <-events:
			if err := enc.Encode(ev); err != nil {
				return err
			}
		case err := <-sub.Err():
			return err
		case <-sigctx.Done():
			return nil
		}
	}
	return nil
}

// dialClient connects to the registry node named by the rpc flag.
func dialClient(ctx *cli.Context) (*feedclient.Client, error) {
	dialctx, cancel := context.WithTimeout(ctx.Context, 10*time.Second)
	defer cancel()

	client, err := feedclient.DialContext(dialctx, ctx.String(rpcFlag.Name))
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s: %v", ctx.String(rpcFlag.Name), err)
	}
	client.SetLifetime(ctx.Duration(lifetimeFlag.Name))
	return client, nil
}

// signingClient loads the keyfile and connects to the registry node.
func signingClient(ctx *cli.Context) (*feedclient.Client, *keystore.Key, error) {
	key, err := decryptKeyfile(ctx, ctx.String(keyfileFlag.Name))
	if err != nil {
		return nil, nil, err
	}
	client, err := dialClient(ctx)
	if err != nil {
		return nil, nil, err
	}
	return client, key, nil
}

// payload reads the update payload from the data or data.file flag.
func payload(ctx *cli.Context) ([]byte, error) {
	switch {
	case ctx.IsSet(dataFlag.Name) && ctx.IsSet(dataFileFlag.Name):
		return nil, fmt.Errorf("--%s and --%s are mutually exclusive", dataFlag.Name, dataFileFlag.Name)
	case ctx.IsSet(dataFileFlag.Name):
		return os.ReadFile(ctx.String(dataFileFlag.Name))
	case ctx.IsSet(dataFlag.Name):
		data, err := hexutil.Decode(ctx.String(dataFlag.Name))
		if err != nil {
			return nil, fmt.Errorf("invalid --%s: %v", dataFlag.Name, err)
		}
		return data, nil
	}
	return nil, nil
}

func ownerArg(ctx *cli.Context) (common.Address, error) {
	if ctx.NArg() != 1 {
		return common.Address{}, errors.New("expected the owner address as the only argument")
	}
	return parseAddress(ctx.Args().First())
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func formatTime(unix uint64) string {
	if unix == 0 {
		return "never"
	}
	return time.Unix(int64(unix), 0).UTC().Format(time.RFC3339)
}

func printJSON(ctx *cli.Context, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, string(out))
	return nil
}
