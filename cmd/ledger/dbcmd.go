// Copyright 2021 The go-ethereum Authors
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
	"fmt"

	"github.com/sunyihoo/go-ledger/cmd/utils"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/rawdb"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/ethdb"
	"github.com/sunyihoo/go-ledger/trie"
	"github.com/sunyihoo/go-ledger/triedb"
	"github.com/urfave/cli/v2"
)

var (
	inspectCommand = &cli.Command{
		Action: inspect,
		Name:   "inspect",
		Usage:  "Print the database statistics and chain markers",
		Flags:  nodeFlags,
		Description: `This command prints the statistics of the backing key-value store
together with the head, genesis and format markers kept in it. The state of the
head block is walked to count accounts, contracts and storage slots.`,
	}
)

func inspect(ctx *cli.Context) error {
	stack, _ := makeConfigNode(ctx)
	defer stack.Close()

	db := utils.MakeChainDatabase(stack, true)
	defer db.Close()

	return showDBStats(db)
}

func showDBStats(db ethdb.KeyValueStore) error {
	if version := rawdb.ReadDatabaseVersion(db); version != nil {
		fmt.Printf("Database version: %d\n", *version)
	} else {
		fmt.Println("Database version: none")
	}
	genesis := rawdb.ReadCanonicalHash(db, 0)
	if genesis == (common.Hash{}) {
		fmt.Println("Genesis: none")
	} else {
		fmt.Printf("Genesis: %x\n", genesis)
	}
	stats, err := db.Stat()
	if err != nil {
		return err
	}
	head := rawdb.ReadHeadBlock(db)
	if head == nil {
		fmt.Println(stats)
		return nil
	}
	fmt.Printf("Head: #%d %x\n", head.NumberU64(), head.Hash())
	fmt.Println(stats)

	tdb := triedb.New(db, triedb.Defaults)
	defer tdb.Close()
	counts, err := inspectState(tdb, head.Root())
	if err != nil {
		return err
	}
	cache := tdb.Stats()
	fmt.Printf("State: %d accounts, %d contracts, %d storage slots\n", counts.accounts, counts.contracts, counts.slots)
	fmt.Printf("Trie nodes: %d cache hits, %d cache misses\n", cache.CleanHits, cache.CleanMisses)
	return nil
}

type stateCounts struct {
	accounts  int
	contracts int
	slots     int
}

// inspectState walks the world trie at root and the storage trie of every
// contract in it.
func inspectState(tdb *triedb.Database, root common.Hash) (stateCounts, error) {
	var counts stateCounts
	tr, err := trie.New(root, tdb)
	if err != nil {
		return counts, err
	}
	var walkErr error
	err = tr.Iterate(func(key, value []byte) bool {
		acct, err := types.DecodeStateAccount(value)
		if err != nil {
			walkErr = fmt.Errorf("account %x: %w", key, err)
			return false
		}
		counts.accounts++
		if acct.IsContract() {
			counts.contracts++
			n, err := trie.SizeAt(tdb, acct.Root)
			if err != nil {
				walkErr = fmt.Errorf("storage of %x: %w", key, err)
				return false
			}
			counts.slots += n
		}
		return true
	})
	if err == nil {
		err = walkErr
	}
	return counts, err
}
