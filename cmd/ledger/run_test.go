// Copyright 2023 The go-ethereum Authors
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
	"path/filepath"
	"testing"

	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/rawdb"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGenesis = `{
	"timestamp": 0,
	"coinbase": "0x0000000000000000000000000000000000000000",
	"alloc": {
		"0x00000000000000000000000000000000000000aa": {"balance": "1000000000000000000"},
		"0x00000000000000000000000000000000000000bb": {"balance": "0x10", "code": ["0x0"]}
	}
}`

var testMiner = common.HexToAddress("0x00000000000000000000000000000000000000cc")

func runLedger(t *testing.T, args ...string) {
	t.Helper()
	require.NoError(t, app.Run(append([]string{"ledger"}, args...)))
}

// headBlock reads the head block of a datadir that no command holds open.
func headBlock(t *testing.T, datadir string) *types.Block {
	t.Helper()
	db, err := rawdb.Open(rawdb.OpenOptions{
		Directory: filepath.Join(datadir, clientIdentifier, "chaindata"),
		Cache:     16,
		Handles:   16,
	})
	require.NoError(t, err)
	defer db.Close()

	head := rawdb.ReadHeadBlock(db)
	require.NotNil(t, head)
	return head
}

func TestInitMineExportImport(t *testing.T) {
	var (
		genesis = writeFile(t, "genesis.json", testGenesis)
		source  = t.TempDir()
		target  = t.TempDir()
		export  = filepath.Join(t.TempDir(), "chain.rlp")
	)
	runLedger(t, "init", "--datadir", source, genesis)
	genesisBlock := headBlock(t, source)
	require.Equal(t, uint64(0), genesisBlock.NumberU64())

	runLedger(t, "mine", "--datadir", source, "--blocks", "3", "--miner.coinbase", testMiner.Hex())
	head := headBlock(t, source)
	require.Equal(t, uint64(3), head.NumberU64())
	assert.Equal(t, testMiner, head.Coinbase())

	runLedger(t, "export", "--datadir", source, export)
	runLedger(t, "init", "--datadir", target, genesis)
	runLedger(t, "import", "--datadir", target, export)
	assert.Equal(t, head.Hash(), headBlock(t, target).Hash())

	// Status and dump run read-only against the imported chain.
	runLedger(t, "--datadir", target)
	runLedger(t, "dump", "--datadir", target, "--nostorage", "2")
	runLedger(t, "inspect", "--datadir", target)
}

func TestInitTwice(t *testing.T) {
	datadir := t.TempDir()
	runLedger(t, "init", "--datadir", datadir, writeFile(t, "genesis.json", testGenesis))
	// Re-initialising with the same genesis is a no-op.
	runLedger(t, "init", "--datadir", datadir, writeFile(t, "genesis.json", testGenesis))
}

func TestDumpUnknownBlock(t *testing.T) {
	datadir := t.TempDir()
	runLedger(t, "init", "--datadir", datadir, writeFile(t, "genesis.json", testGenesis))
	err := app.Run([]string{"ledger", "dump", "--datadir", datadir, "12"})
	assert.ErrorContains(t, err, "block #12 not found")
}

func TestMineDevMode(t *testing.T) {
	// An ephemeral developer chain leaves nothing behind.
	runLedger(t, "mine", "--dev", "--blocks", "2", "--miner.coinbase", testMiner.Hex())
}
