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
	"fmt"
	"time"

	"github.com/sunyihoo/go-ledger/cmd/utils"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/internal/flags"
	"github.com/sunyihoo/go-ledger/miner"
	"github.com/urfave/cli/v2"
)

var (
	mineBlocksFlag = &cli.IntFlag{
		Name:     "blocks",
		Usage:    "Number of blocks to build on top of the head",
		Value:    1,
		Category: flags.MinerCategory,
	}
	mineTxsFlag = &cli.StringFlag{
		Name:     "txs",
		Usage:    "File of RLP-encoded signed transactions offered to the built blocks",
		Category: flags.MinerCategory,
	}

	mineCommand = &cli.Command{
		Action:    mine,
		Name:      "mine",
		Usage:     "Build blocks on top of the chain head and import them",
		ArgsUsage: "",
		Flags: flags.Merge([]cli.Flag{
			mineBlocksFlag,
			mineTxsFlag,
		}, nodeFlags),
		Description: `
The mine command builds the given number of blocks on top of the current head,
crediting the rewards to --miner.coinbase. Transactions loaded with --txs are
offered to every block until they are included; candidates that cannot be
applied are left out.`,
	}
)

func mine(ctx *cli.Context) error {
	n := ctx.Int(mineBlocksFlag.Name)
	if n < 1 {
		return fmt.Errorf("invalid block count %d", n)
	}
	stack, cfg := makeConfigNode(ctx)
	defer stack.Close()

	chain := makeChain(ctx, stack, &cfg, false)
	defer chain.Stop()

	var pending []*types.Transaction
	if file := ctx.String(mineTxsFlag.Name); file != "" {
		txs, err := utils.ReadTransactions(file)
		if err != nil {
			return err
		}
		pending = txs
	}
	m := miner.New(chain, cfg.Miner)
	for i := 0; i < n; i++ {
		parent := chain.CurrentBlock()
		now := uint64(time.Now().Unix())
		timestamp := max(now, parent.Time+1)
		// Wait out blocks that would run too far ahead of the clock.
		if drift := chain.Config().MaxFutureDrift; timestamp > now+drift {
			time.Sleep(time.Duration(timestamp-now-drift) * time.Second)
		}

		block, err := m.Mine(pending, nil, timestamp)
		if err != nil {
			return fmt.Errorf("failed to build block #%d: %w", parent.Number+1, err)
		}
		pending = notIncluded(pending, block.Transactions())
		fmt.Printf("Block #%d %x txs=%d\n", block.NumberU64(), block.Hash(), len(block.Transactions()))
	}
	if len(pending) > 0 {
		fmt.Printf("%d transactions were not included\n", len(pending))
	}
	return nil
}

// notIncluded returns the candidates missing from included.
func notIncluded(candidates []*types.Transaction, included types.Transactions) []*types.Transaction {
	seen := make(map[common.Hash]struct{}, len(included))
	for _, tx := range included {
		seen[tx.Hash()] = struct{}{}
	}
	var rest []*types.Transaction
	for _, tx := range candidates {
		if _, ok := seen[tx.Hash()]; !ok {
			rest = append(rest, tx)
		}
	}
	return rest
}
