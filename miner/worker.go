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

package miner

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core"
	"github.com/sunyihoo/go-ledger/core/state"
	"github.com/sunyihoo/go-ledger/core/types"
)

var errTimestampBeforeParent = errors.New("timestamp before parent")

// generateParams wraps various settings for generating a block.
type generateParams struct {
	timestamp uint64
	coinbase  common.Address
	extra     []byte
	txs       []*types.Transaction
	uncles    []*types.Header
}

// newPayloadResult is the result of block generation.
type newPayloadResult struct {
	err      error
	block    *types.Block
	fees     *uint256.Int     // total block fees
	dropped  int              // candidates left out
	stateDB  *state.StateDB   // StateDB after executing the transactions
	receipts []*types.Receipt // Receipts collected during construction
}

// generateWork generates a sealing block based on the given parameters.
// generateWork 根据给定参数生成区块。
func (miner *Miner) generateWork(params *generateParams) *newPayloadResult {
	parent := miner.chain.CurrentBlock()
	if params.timestamp < parent.Time {
		return &newPayloadResult{err: errTimestampBeforeParent}
	}
	statedb, err := miner.chain.StateAt(parent.Root)
	if err != nil {
		return &newPayloadResult{err: err}
	}
	header := &types.Header{
		Coinbase: params.coinbase,
		Time:     params.timestamp,
		Extra:    params.extra,
	}
	t := core.NewTransition(miner.chain.Config(), parent, header, statedb, miner.chain.VMConfig())
	dropped, err := miner.commitTransactions(t, newTransactionsByFeeAndNonce(params.txs))
	if err != nil {
		return &newPayloadResult{err: err}
	}
	fees := t.Fees()
	receipts := t.Receipts()
	block, err := t.Finalize(params.uncles)
	if err != nil {
		return &newPayloadResult{err: err}
	}
	return &newPayloadResult{
		block:    block,
		fees:     fees,
		dropped:  dropped,
		stateDB:  statedb,
		receipts: receipts,
	}
}

// commitTransactions applies the candidates one by one. A dropped candidate
// takes the rest of its sender's transactions with it: their nonces can no
// longer match.
func (miner *Miner) commitTransactions(t *core.Transition, txs *transactionsByFeeAndNonce) (int, error) {
	var dropped int
	for {
		if miner.config.MaxTxs > 0 && len(t.Transactions()) >= miner.config.MaxTxs {
			break
		}
		tx := txs.Peek()
		if tx == nil {
			break
		}
		before := len(t.Dropped())
		t.Enqueue(tx)
		if err := t.Run(); err != nil {
			return dropped, err
		}
		if len(t.Dropped()) > before {
			dropped++
			txs.Pop()
			continue
		}
		txs.Shift()
	}
	return dropped + txs.Discarded(), nil
}
