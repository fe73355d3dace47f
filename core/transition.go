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

package core

import (
	"time"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/core/state"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/core/vm"
	"github.com/sunyihoo/go-ledger/log"
	"github.com/sunyihoo/go-ledger/params"
)

// Transition is the working context of one block: the state it mutates, the
// queue of transactions still to apply and the per-block accumulators. It
// builds exactly one block and is not safe for concurrent use.
//
// Transition 是单个区块的工作上下文：被修改的状态、待处理交易队列和区块内累加器。
type Transition struct {
	config *params.Config
	parent *types.Header
	header *types.Header
	state  *state.StateDB
	evm    *vm.EVM

	pending  []*types.Transaction // FIFO, emitted messages jump the queue
	fees     *uint256.Int         // transaction and step fees of the block
	txs      []*types.Transaction // accepted signed transactions, in order
	dropped  []*types.Transaction // signed transactions that failed their checks
	receipts []*types.Receipt

	// Now is the local clock the timestamp is checked against.
	Now func() time.Time
}

// NewTransition starts a block on top of parent. The number, parent hash and
// difficulty of header are derived from parent; the caller picks coinbase,
// time and the opaque fields.
//
// NewTransition 在 parent 之上开始一个新区块，编号、父哈希和难度由父区块推导。
func NewTransition(config *params.Config, parent *types.Header, header *types.Header, statedb *state.StateDB, vmConfig vm.Config) *Transition {
	header = types.CopyHeader(header)
	header.Number = parent.Number + 1
	header.ParentHash = parent.Hash()
	header.Difficulty = CalcDifficulty(config, header.Time, parent)

	blockCtx := vm.BlockContext{
		Coinbase:   header.Coinbase,
		Number:     header.Number,
		Time:       header.Time,
		Difficulty: header.Difficulty,
		ParentHash: header.ParentHash,
	}
	return &Transition{
		config: config,
		parent: parent,
		header: header,
		state:  statedb,
		evm:    vm.NewEVM(blockCtx, statedb, config, vmConfig),
		fees:   new(uint256.Int),
		Now:    time.Now,
	}
}

// Header returns the working header. Root and the list hashes are only set
// once the block is finalized.
func (t *Transition) Header() *types.Header { return t.header }

// State returns the state the transition mutates.
func (t *Transition) State() *state.StateDB { return t.state }

// Fees returns the fees collected so far.
func (t *Transition) Fees() *uint256.Int { return new(uint256.Int).Set(t.fees) }

// Transactions returns the signed transactions accepted so far.
func (t *Transition) Transactions() []*types.Transaction { return t.txs }

// Dropped returns the signed transactions rejected so far.
func (t *Transition) Dropped() []*types.Transaction { return t.dropped }

// Receipts returns the receipts of everything applied so far, contract
// messages included.
func (t *Transition) Receipts() []*types.Receipt { return t.receipts }

// Enqueue appends transactions to the back of the pending queue.
func (t *Transition) Enqueue(txs ...*types.Transaction) {
	t.pending = append(t.pending, txs...)
}

// Run drains the pending queue. Transactions failing their checks are
// dropped and logged; messages emitted by a contract are applied right after
// the transaction that caused them, ahead of the rest of the queue. The
// returned error is a database failure met while executing.
//
// Run 清空待处理队列。未通过检查的交易被丢弃，合约发出的消息排在队列剩余交易之前。
func (t *Transition) Run() error {
	for len(t.pending) > 0 {
		tx := t.pending[0]
		t.pending = t.pending[1:]

		receipt, err := ApplyTransaction(t.evm, t.state, tx)
		if err != nil {
			log.Debug("Dropped transaction", "number", t.header.Number, "hash", tx.Hash(), "message", tx.IsMessage(), "err", err)
			if !tx.IsMessage() {
				t.dropped = append(t.dropped, tx)
			}
			continue
		}
		t.fees.Add(t.fees, receipt.Fee)
		t.fees.Add(t.fees, receipt.VMFees)
		if !tx.IsMessage() {
			t.txs = append(t.txs, tx)
		}
		t.receipts = append(t.receipts, receipt)

		if len(receipt.Emitted) > 0 {
			t.pending = append(append(make([]*types.Transaction, 0, len(receipt.Emitted)+len(t.pending)), receipt.Emitted...), t.pending...)
		}
	}
	return t.state.Error()
}

// Finalize closes the block: it checks the timestamp, pays the rewards and
// the collected fees, and assembles the block with the resulting state root.
// The per-block accumulators are reset afterwards.
//
// Finalize 完成区块：检查时间戳、发放奖励与手续费，并以最终状态根组装区块，随后重置累加器。
func (t *Transition) Finalize(uncles []*types.Header) (*types.Block, error) {
	if t.header.Time < t.parent.Time {
		return nil, newConsensusError(ErrBadTimestamp, t.header, "time %d before parent time %d", t.header.Time, t.parent.Time)
	}
	if limit := uint64(t.Now().Unix()) + t.config.MaxFutureDrift; t.header.Time > limit {
		return nil, newConsensusError(ErrBadTimestamp, t.header, "time %d too far in the future, max %d", t.header.Time, limit)
	}
	AccumulateRewards(t.config, t.state, t.header, uncles, t.fees)

	t.header.Root = t.state.IntermediateRoot()
	if err := t.state.Error(); err != nil {
		return nil, err
	}
	block := types.NewBlock(t.header, &types.Body{Transactions: t.txs, Uncles: uncles})

	t.fees = new(uint256.Int)
	t.txs, t.dropped, t.receipts = nil, nil, nil
	return block, nil
}
