// Copyright 2026 The go-ethereum Authors
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

package debug

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

func TestVmodule(t *testing.T) {
	if err := Handler.Vmodule("core/*=5,feedapi=4"); err != nil {
		t.Fatalf("valid pattern rejected: %v", err)
	}
	if err := Handler.Vmodule("core"); err == nil {
		t.Fatal("invalid pattern accepted")
	}
	if err := Handler.Vmodule(""); err != nil {
		t.Fatalf("failed to reset pattern: %v", err)
	}
}

func TestSetupLogFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "feedd.log")

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range Flags {
		if err := f.Apply(set); err != nil {
			t.Fatal(err)
		}
	}
	if err := set.Parse([]string{"--log.file", file, "--verbosity", "4"}); err != nil {
		t.Fatal(err)
	}
	if err := Setup(cli.NewContext(cli.NewApp(), set, nil)); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	log.Info("Written to the rotated log", "answer", 42)
	Exit()

	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if len(content) == 0 {
		t.Fatal("log file is empty")
	}

	// Restore terminal output for the other tests.
	glogger.SetHandler(log.StreamHandler(os.Stderr, log.TerminalFormat(false)))
	glogger.Verbosity(log.LvlInfo)
	logOutputFile = nil
}
