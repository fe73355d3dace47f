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

// Package utils contains internal helper functions for the ledger commands.
package utils

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core"
	"github.com/sunyihoo/go-ledger/core/rawdb"
	"github.com/sunyihoo/go-ledger/core/vm"
	"github.com/sunyihoo/go-ledger/ethdb"
	"github.com/sunyihoo/go-ledger/internal/flags"
	"github.com/sunyihoo/go-ledger/miner"
	"github.com/sunyihoo/go-ledger/node"
	"github.com/sunyihoo/go-ledger/params"
	"github.com/urfave/cli/v2"
)

// These are all the command line flags we support.
// If you add to this list, please remember to include the
// flag in the appropriate command definition.
//
// The flags are defined here so their names and help texts
// are the same for all commands.
var (
	// General settings
	DataDirFlag = flags.DirectoryFlag("datadir", "Data directory for the databases",
		node.DefaultDataDir(), flags.ChainCategory)
	DBEngineFlag = &cli.StringFlag{
		Name:     "db.engine",
		Usage:    "Backing database implementation to use ('pebble' or 'leveldb')",
		Value:    node.DefaultConfig.DBEngine,
		Category: flags.DatabaseCategory,
	}
	CacheFlag = &cli.IntFlag{
		Name:     "cache",
		Usage:    "Megabytes of memory allocated to the database and trie caches",
		Value:    node.DefaultDatabaseCache,
		Category: flags.DatabaseCategory,
	}
	HandlesFlag = &cli.IntFlag{
		Name:     "db.handles",
		Usage:    "Number of file handles the database may keep open",
		Value:    node.DefaultDatabaseHandles,
		Category: flags.DatabaseCategory,
	}

	// Dev mode
	DeveloperFlag = &cli.BoolFlag{
		Name:     "dev",
		Usage:    "Ephemeral chain with a pre-funded developer account",
		Category: flags.DevCategory,
	}
	DeveloperBalanceFlag = flags.WordFlag("dev.balance", "Initial balance of the developer account",
		new(uint256.Int).Mul(uint256.NewInt(params.Ether), uint256.NewInt(1_000_000)), flags.DevCategory)

	// Miner settings
	MinerCoinbaseFlag = &cli.StringFlag{
		Name:     "miner.coinbase",
		Usage:    "Address receiving the rewards of built blocks",
		Category: flags.MinerCategory,
	}
	MinerExtraDataFlag = &cli.StringFlag{
		Name:     "miner.extradata",
		Usage:    "Block extra data set by the miner",
		Category: flags.MinerCategory,
	}
	MinerMaxTxsFlag = &cli.IntFlag{
		Name:     "miner.maxtxs",
		Usage:    "Maximum number of signed transactions per block (0 = no limit)",
		Value:    miner.DefaultConfig.MaxTxs,
		Category: flags.MinerCategory,
	}

	// Virtual machine
	VMMaxStepsFlag = &cli.Uint64Flag{
		Name:     "vm.maxsteps",
		Usage:    "Upper bound on the steps of a single contract invocation (0 = fee bound only)",
		Category: flags.VMCategory,
	}
)

var (
	// DatabaseFlags is the flag group of all database flags.
	DatabaseFlags = []cli.Flag{
		DataDirFlag,
		DBEngineFlag,
		CacheFlag,
		HandlesFlag,
	}
)

// SetNodeConfig applies node-related command line flags to the config.
func SetNodeConfig(ctx *cli.Context, cfg *node.Config) {
	if ctx.IsSet(DataDirFlag.Name) {
		cfg.DataDir = flags.Directory(ctx, DataDirFlag.Name)
	}
	if ctx.IsSet(DBEngineFlag.Name) {
		cfg.DBEngine = ctx.String(DBEngineFlag.Name)
	}
	if ctx.IsSet(CacheFlag.Name) {
		cfg.DatabaseCache = ctx.Int(CacheFlag.Name)
	}
	if ctx.IsSet(HandlesFlag.Name) {
		cfg.DatabaseHandles = ctx.Int(HandlesFlag.Name)
	}
	if ctx.Bool(DeveloperFlag.Name) && !ctx.IsSet(DataDirFlag.Name) {
		cfg.DataDir = "" // ephemeral
	}
}

// SetMinerConfig applies miner-related command line flags to the config.
func SetMinerConfig(ctx *cli.Context, cfg *miner.Config) error {
	if ctx.IsSet(MinerCoinbaseFlag.Name) {
		hex := ctx.String(MinerCoinbaseFlag.Name)
		if !common.IsHexAddress(hex) {
			return fmt.Errorf("invalid miner coinbase: %q", hex)
		}
		cfg.Coinbase = common.HexToAddress(hex)
	}
	if ctx.IsSet(MinerExtraDataFlag.Name) {
		cfg.ExtraData = []byte(ctx.String(MinerExtraDataFlag.Name))
	}
	if ctx.IsSet(MinerMaxTxsFlag.Name) {
		cfg.MaxTxs = ctx.Int(MinerMaxTxsFlag.Name)
	}
	return nil
}

// SetVMConfig applies virtual machine flags to the config.
func SetVMConfig(ctx *cli.Context, cfg *vm.Config) {
	if ctx.IsSet(VMMaxStepsFlag.Name) {
		cfg.MaxSteps = ctx.Uint64(VMMaxStepsFlag.Name)
	}
}

// MakeChainDatabase opens the chain database of the node.
func MakeChainDatabase(stack *node.Node, readonly bool) ethdb.KeyValueStore {
	cfg := stack.Config()
	db, err := stack.OpenDatabase("chaindata", cfg.DatabaseCache, cfg.DatabaseHandles, readonly)
	if err != nil {
		Fatalf("Could not open database: %v", err)
	}
	return db
}

// MakeChain creates a chain manager over the node's chain database. The
// genesis is only used to set up an empty database; a stored genesis always
// wins.
func MakeChain(stack *node.Node, genesis *core.Genesis, vmcfg vm.Config, readonly bool) (*core.BlockChain, ethdb.KeyValueStore) {
	chainDb := MakeChainDatabase(stack, readonly)
	if rawdb.ReadCanonicalHash(chainDb, 0) != (common.Hash{}) {
		genesis = nil
	} else if genesis == nil && readonly {
		Fatalf("No genesis block in database, run init first")
	}
	cache := &core.CacheConfig{TrieCleanLimit: stack.Config().DatabaseCache / 4}
	chain, err := core.NewBlockChain(chainDb, cache, genesis, vmcfg)
	if err != nil {
		Fatalf("Can't create BlockChain: %v", err)
	}
	return chain, chainDb
}
