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

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sunyihoo/go-ledger/cmd/utils"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core"
	"github.com/sunyihoo/go-ledger/core/state"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/crypto"
	"github.com/sunyihoo/go-ledger/internal/flags"
	"github.com/sunyihoo/go-ledger/log"
	"github.com/sunyihoo/go-ledger/node"
	"github.com/sunyihoo/go-ledger/triedb"
	"github.com/urfave/cli/v2"
)

var (
	initCommand = &cli.Command{
		Action:    initGenesis,
		Name:      "init",
		Usage:     "Bootstrap and initialize a new genesis block",
		ArgsUsage: "<genesisPath>",
		Flags:     nodeFlags,
		Description: `
The init command initializes a new genesis block and definition for the chain.
This is a destructive action and changes the chain in which you will be
participating. A genesis without a "config" section uses the [Ledger] section
of the TOML config.

It expects the genesis file as argument.`,
	}
	importCommand = &cli.Command{
		Action:    importChain,
		Name:      "import",
		Usage:     "Import a blockchain file",
		ArgsUsage: "<filename> (<filename 2> ... <filename N>) ",
		Flags:     nodeFlags,
		Description: `
The import command imports blocks from an RLP-encoded form. The form can be one file
with several RLP-encoded blocks, or several files can be used.

If only one file is used, import error will result in failure. If several files are used,
processing will proceed even if an individual RLP-file import failure occurs.`,
	}
	exportCommand = &cli.Command{
		Action:    exportChain,
		Name:      "export",
		Usage:     "Export blockchain into file",
		ArgsUsage: "<filename> [<blockNumFirst> <blockNumLast>]",
		Flags:     nodeFlags,
		Description: `
Requires a first argument of the file to write to.
Optional second and third arguments control the first and
last block to write. In this mode, the file will be appended
if already existing. If the file ends with .gz, the output will
be gzipped.`,
	}
	dumpCommand = &cli.Command{
		Action:    dump,
		Name:      "dump",
		Usage:     "Dump a specific block from storage",
		ArgsUsage: "[<blockHash> | <blockNum>]",
		Flags: flags.Merge([]cli.Flag{
			excludeStorageFlag,
			dumpLimitFlag,
		}, nodeFlags),
		Description: `
This command dumps out the state for a given block (or latest, if none provided).`,
	}
)

var (
	excludeStorageFlag = &cli.BoolFlag{
		Name:  "nostorage",
		Usage: "Exclude storage entries (save db lookups)",
	}
	dumpLimitFlag = &cli.Uint64Flag{
		Name:  "limit",
		Usage: "Max number of elements (0 = no limit)",
		Value: 0,
	}
)

// makeChain opens the chain of the node. In developer mode an empty database
// is set up with a funded developer account.
func makeChain(ctx *cli.Context, stack *node.Node, cfg *ledgerConfig, readonly bool) *core.BlockChain {
	var genesis *core.Genesis
	if ctx.Bool(utils.DeveloperFlag.Name) {
		genesis = makeDevGenesis(ctx, cfg)
	}
	chain, _ := utils.MakeChain(stack, genesis, cfg.vmConfig(), readonly)
	return chain
}

// makeDevGenesis funds the miner coinbase, or a fresh random account when
// no coinbase is configured.
func makeDevGenesis(ctx *cli.Context, cfg *ledgerConfig) *core.Genesis {
	faucet := cfg.Miner.Coinbase
	if faucet == (common.Address{}) {
		key, err := crypto.GenerateKey()
		if err != nil {
			utils.Fatalf("Failed to generate developer account: %v", err)
		}
		faucet = crypto.PubkeyToAddress(key.PublicKey)
		log.Info("Using developer account", "address", faucet, "key", fmt.Sprintf("%x", crypto.FromECDSA(key)))
	}
	genesis := core.DeveloperGenesisBlock(faucet, flags.GlobalWord(ctx, utils.DeveloperBalanceFlag.Name))
	genesis.Config = cfg.Ledger.Copy()
	return genesis
}

// initGenesis will initialise the given JSON format genesis file and writes it as
// the zero'd block (i.e. genesis) or will fail hard if it can't succeed.
func initGenesis(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		utils.Fatalf("need genesis.json file as the only argument")
	}
	genesisPath := ctx.Args().First()
	if len(genesisPath) == 0 {
		utils.Fatalf("invalid path to genesis file")
	}
	file, err := os.Open(genesisPath)
	if err != nil {
		utils.Fatalf("Failed to read genesis file: %v", err)
	}
	defer file.Close()

	genesis := new(core.Genesis)
	if err := json.NewDecoder(file).Decode(genesis); err != nil {
		utils.Fatalf("invalid genesis file: %v", err)
	}
	stack, cfg := makeConfigNode(ctx)
	defer stack.Close()

	if genesis.Config == nil {
		genesis.Config = cfg.Ledger.Copy()
	}
	chaindb := utils.MakeChainDatabase(stack, false)
	defer chaindb.Close()

	tdb := triedb.New(chaindb, nil)
	defer tdb.Close()

	config, hash, err := core.SetupGenesisBlock(chaindb, tdb, genesis)
	if err != nil {
		utils.Fatalf("Failed to write genesis block: %v", err)
	}
	log.Info("Successfully wrote genesis state", "hash", hash, "config", config)
	return nil
}

func importChain(ctx *cli.Context) error {
	if ctx.Args().Len() < 1 {
		utils.Fatalf("This command requires an argument.")
	}
	stack, cfg := makeConfigNode(ctx)
	defer stack.Close()

	chain := makeChain(ctx, stack, &cfg, false)
	defer chain.Stop()

	var importErr error
	start := time.Now()
	if ctx.Args().Len() == 1 {
		if err := utils.ImportChain(chain, ctx.Args().First()); err != nil {
			importErr = err
			log.Error("Import error", "err", err)
		}
	} else {
		for _, arg := range ctx.Args().Slice() {
			if err := utils.ImportChain(chain, arg); err != nil {
				importErr = err
				log.Error("Import error", "file", arg, "err", err)
			}
		}
	}
	head := chain.CurrentBlock()
	fmt.Printf("Import done in %v.\n\n", time.Since(start))
	fmt.Printf("Head: #%d %x\n", head.Number, head.Hash())
	return importErr
}

func exportChain(ctx *cli.Context) error {
	if ctx.Args().Len() < 1 {
		utils.Fatalf("This command requires an argument.")
	}
	stack, cfg := makeConfigNode(ctx)
	defer stack.Close()

	chain := makeChain(ctx, stack, &cfg, true)
	defer chain.Stop()

	start := time.Now()

	var err error
	fp := ctx.Args().First()
	if ctx.Args().Len() < 3 {
		err = utils.ExportChain(chain, fp)
	} else {
		// This can be improved to allow for numbers larger than 9223372036854775807
		first, ferr := strconv.ParseInt(ctx.Args().Get(1), 10, 64)
		last, lerr := strconv.ParseInt(ctx.Args().Get(2), 10, 64)
		if ferr != nil || lerr != nil {
			utils.Fatalf("Export error in parsing parameters: block number not an integer\n")
		}
		if first < 0 || last < 0 {
			utils.Fatalf("Export error: block number must be greater than 0\n")
		}
		if head := chain.CurrentBlock(); uint64(last) > head.Number {
			utils.Fatalf("Export error: block number %d larger than head block %d\n", uint64(last), head.Number)
		}
		err = utils.ExportAppendChain(chain, fp, uint64(first), uint64(last))
	}
	if err != nil {
		utils.Fatalf("Export error: %v\n", err)
	}
	fmt.Printf("Export done in %v\n", time.Since(start))
	return nil
}

// parseDumpConfig resolves the block to dump from the first argument.
func parseDumpConfig(ctx *cli.Context, chain *core.BlockChain) (*state.DumpConfig, *types.Header, error) {
	if ctx.NArg() > 1 {
		return nil, nil, fmt.Errorf("expected 1 argument (number or hash), got %d", ctx.NArg())
	}
	header, err := headerByArg(chain, ctx.Args().First())
	if err != nil {
		return nil, nil, err
	}
	conf := &state.DumpConfig{
		SkipStorage: ctx.Bool(excludeStorageFlag.Name),
		Max:         ctx.Uint64(dumpLimitFlag.Name),
	}
	log.Info("State dump configured", "block", header.Number, "hash", header.Hash().Hex(),
		"skipstorage", conf.SkipStorage, "limit", conf.Max)
	return conf, header, nil
}

func dump(ctx *cli.Context) error {
	stack, cfg := makeConfigNode(ctx)
	defer stack.Close()

	chain := makeChain(ctx, stack, &cfg, true)
	defer chain.Stop()

	conf, header, err := parseDumpConfig(ctx, chain)
	if err != nil {
		return err
	}
	statedb, err := chain.StateAt(header.Root)
	if err != nil {
		return err
	}
	fmt.Println(string(statedb.Dump(conf)))
	return nil
}

// headerByArg resolves a block hash or number, the head when arg is empty.
func headerByArg(chain *core.BlockChain, arg string) (*types.Header, error) {
	if arg == "" {
		return chain.CurrentBlock(), nil
	}
	if hashish(arg) {
		hash := common.HexToHash(arg)
		header := chain.GetHeaderByHash(hash)
		if header == nil {
			return nil, fmt.Errorf("block %x not found", hash)
		}
		return header, nil
	}
	number, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return nil, err
	}
	header := chain.GetHeaderByNumber(number)
	if header == nil {
		return nil, fmt.Errorf("block #%d not found", number)
	}
	return header, nil
}

// status is the default action: it reports the head of the chain.
func status(ctx *cli.Context) error {
	if args := ctx.Args().Slice(); len(args) > 0 {
		return fmt.Errorf("invalid command: %q", args[0])
	}
	stack, cfg := makeConfigNode(ctx)
	defer stack.Close()

	chain := makeChain(ctx, stack, &cfg, !ctx.Bool(utils.DeveloperFlag.Name))
	defer chain.Stop()

	head := chain.CurrentBlock()
	if head == nil {
		return errors.New("no head block")
	}
	fmt.Printf("Genesis:    %x\n", chain.Genesis().Hash())
	fmt.Printf("Head:       #%d %x\n", head.Number, head.Hash())
	fmt.Printf("State root: %x\n", head.Root)
	fmt.Printf("Difficulty: %v\n", head.Difficulty)
	fmt.Printf("Age:        %v\n", common.PrettyAge(time.Unix(int64(head.Time), 0)))
	fmt.Printf("Rules:      %v\n", chain.Config())
	return nil
}

// hashish returns true for strings that look like hashes.
func hashish(x string) bool {
	_, err := strconv.Atoi(x)
	return err != nil
}
