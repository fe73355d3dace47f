// Copyright 2014 The go-ethereum Authors
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

// ledger is the command-line tool of the ledger: it sets up genesis blocks,
// imports and exports chains, builds blocks and dumps state.
package main

import (
	"fmt"
	"os"

	"github.com/sunyihoo/go-ledger/cmd/utils"
	"github.com/sunyihoo/go-ledger/internal/debug"
	"github.com/sunyihoo/go-ledger/internal/flags"
	"github.com/urfave/cli/v2"
)

const (
	clientIdentifier = "ledger" // Instance directory name below the datadir
)

var (
	devFlags = []cli.Flag{
		utils.DeveloperFlag,
		utils.DeveloperBalanceFlag,
	}

	// nodeFlags are accepted by the app and by every command touching the chain.
	nodeFlags = flags.Merge(configFlags, utils.DatabaseFlags, devFlags)
)

var app = flags.NewApp("the ledger command line interface")

func init() {
	app.Action = status
	app.Commands = []*cli.Command{
		// See chaincmd.go:
		initCommand,
		importCommand,
		exportCommand,
		dumpCommand,
		// See proofcmd.go:
		proofCommand,
		// See minecmd.go:
		mineCommand,
		// See dbcmd.go:
		inspectCommand,
		// See config.go:
		dumpConfigCommand,
	}

	app.Flags = flags.Merge(nodeFlags, debug.Flags)
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
