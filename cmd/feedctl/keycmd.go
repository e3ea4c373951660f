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

package main

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

var (
	keyfileFlag = &cli.StringFlag{
		Name:  "keyfile",
		Usage: "the keyfile holding the signing key",
		Value: defaultKeyfileName,
	}
	passphraseFlag = &cli.StringFlag{
		Name:  "passwordfile",
		Usage: "the file that contains the password for the keyfile",
	}
	privateKeyFlag = &cli.StringFlag{
		Name:  "privatekey",
		Usage: "the file from where to read the private key to generate a keyfile for",
	}
	lightKDFFlag = &cli.BoolFlag{
		Name:  "lightkdf",
		Usage: "use less secure scrypt parameters",
	}
	privateFlag = &cli.BoolFlag{
		Name:  "private",
		Usage: "include the private key in the output",
	}
)

type outputGenerate struct {
	Address string
}

type outputInspect struct {
	Address    string
	PublicKey  string
	PrivateKey string `json:",omitempty"`
}

var commandKey = &cli.Command{
	Name:  "key",
	Usage: "manage the keyfiles signing registry requests",
	Subcommands: []*cli.Command{
		commandKeyGenerate,
		commandKeyInspect,
	},
}

var commandKeyGenerate = &cli.Command{
	Name:      "generate",
	Usage:     "generate new keyfile",
	ArgsUsage: "[ <keyfile> ]",
	Description: `
Generate a new keyfile.
If you want to use an existing private key to use in the keyfile, it can be
specified by setting --privatekey with the location of the file containing the
private key.`,
	Flags: []cli.Flag{
		passphraseFlag,
		privateKeyFlag,
		lightKDFFlag,
	},
	Action: func(ctx *cli.Context) error {
		// Check if keyfile path given and make sure it doesn't already exist.
		keyfilepath := ctx.Args().First()
		if keyfilepath == "" {
			keyfilepath = defaultKeyfileName
		}
		if _, err := os.Stat(keyfilepath); err == nil {
			return fmt.Errorf("keyfile already exists at %s", keyfilepath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("error checking if keyfile exists: %v", err)
		}

		var privateKey *ecdsa.PrivateKey
		if file := ctx.String(privateKeyFlag.Name); file != "" {
			pk, err := crypto.LoadECDSA(file)
			if err != nil {
				return fmt.Errorf("could not load private key from '%s': %v", file, err)
			}
			privateKey = pk
		} else {
			pk, err := crypto.GenerateKey()
			if err != nil {
				return fmt.Errorf("failed to generate random private key: %v", err)
			}
			privateKey = pk
		}

		// Create the keyfile object with a random UUID.
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate random uuid: %v", err)
		}
		key := &keystore.Key{
			Id:         id,
			Address:    crypto.PubkeyToAddress(privateKey.PublicKey),
			PrivateKey: privateKey,
		}

		// Encrypt key with passphrase.
		passphrase, err := getPassphrase(ctx)
		if err != nil {
			return err
		}
		scryptN, scryptP := keystore.StandardScryptN, keystore.StandardScryptP
		if ctx.Bool(lightKDFFlag.Name) {
			scryptN, scryptP = keystore.LightScryptN, keystore.LightScryptP
		}
		keyjson, err := keystore.EncryptKey(key, passphrase, scryptN, scryptP)
		if err != nil {
			return fmt.Errorf("error encrypting key: %v", err)
		}

		// Store the file to disk.
		if err := os.MkdirAll(filepath.Dir(keyfilepath), 0700); err != nil {
			return fmt.Errorf("could not create directory %s", filepath.Dir(keyfilepath))
		}
		if err := os.WriteFile(keyfilepath, keyjson, 0600); err != nil {
			return fmt.Errorf("failed to write keyfile to %s: %v", keyfilepath, err)
		}

		out := outputGenerate{Address: key.Address.Hex()}
		if ctx.Bool(jsonFlag.Name) {
			return printJSON(ctx, out)
		}
		fmt.Fprintln(ctx.App.Writer, "Address:       ", out.Address)
		return nil
	},
}

var commandKeyInspect = &cli.Command{
	Name:      "inspect",
	Usage:     "inspect a keyfile",
	ArgsUsage: "<keyfile>",
	Description: `
Print various information about the keyfile.
Private key information can be printed by using the --private flag;
make sure to use this feature with great caution!`,
	Flags: []cli.Flag{
		passphraseFlag,
		privateFlag,
	},
	Action: func(ctx *cli.Context) error {
		keyfilepath := ctx.Args().First()
		if keyfilepath == "" {
			keyfilepath = defaultKeyfileName
		}
		key, err := decryptKeyfile(ctx, keyfilepath)
		if err != nil {
			return err
		}
		out := outputInspect{
			Address:   key.Address.Hex(),
			PublicKey: hexutil.Encode(crypto.FromECDSAPub(&key.PrivateKey.PublicKey)),
		}
		if ctx.Bool(privateFlag.Name) {
			out.PrivateKey = hexutil.Encode(crypto.FromECDSA(key.PrivateKey))
		}
		if ctx.Bool(jsonFlag.Name) {
			return printJSON(ctx, out)
		}
		fmt.Fprintln(ctx.App.Writer, "Address:       ", out.Address)
		fmt.Fprintln(ctx.App.Writer, "Public key:    ", out.PublicKey)
		if out.PrivateKey != "" {
			fmt.Fprintln(ctx.App.Writer, "Private key:   ", out.PrivateKey)
		}
		return nil
	},
}

// getPassphrase obtains a passphrase given by the user. The keyfile is left
// unprotected if no password file is given.
func getPassphrase(ctx *cli.Context) (string, error) {
	passphraseFile := ctx.String(passphraseFlag.Name)
	if passphraseFile == "" {
		log.Warn("No password file given, keyfile uses an empty password")
		return "", nil
	}
	content, err := os.ReadFile(passphraseFile)
	if err != nil {
		return "", fmt.Errorf("failed to read password file '%s': %v", passphraseFile, err)
	}
	return strings.TrimRight(string(content), "\r\n"), nil
}

// decryptKeyfile loads and decrypts the keyfile at path.
func decryptKeyfile(ctx *cli.Context, path string) (*keystore.Key, error) {
	keyjson, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read the keyfile at '%s': %v", path, err)
	}
	passphrase, err := getPassphrase(ctx)
	if err != nil {
		return nil, err
	}
	key, err := keystore.DecryptKey(keyjson, passphrase)
	if err != nil {
		if errors.Is(err, keystore.ErrDecrypt) {
			return nil, fmt.Errorf("wrong password for keyfile '%s'", path)
		}
		return nil, fmt.Errorf("error decrypting key: %v", err)
	}
	return key, nil
}
