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

	"github.com/sunyihoo/go-ledger/core/state"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/core/vm"
	"github.com/sunyihoo/go-ledger/params"
)

// StateProcessor is a basic Processor, which takes care of transitioning
// state from one point to another.
//
// StateProcessor implements Processor.
// StateProcessor 负责将状态从一个点转换到另一个点。
type StateProcessor struct {
	config    *params.Config  // Chain configuration options
	db        state.Database  // Source of parent states
	validator *BlockValidator // Body and state checks
	now       func() time.Time
}

// NewStateProcessor initialises a new StateProcessor.
func NewStateProcessor(config *params.Config, db state.Database, validator *BlockValidator) *StateProcessor {
	return &StateProcessor{
		config:    config,
		db:        db,
		validator: validator,
		now:       time.Now,
	}
}

// Process re-executes block on top of the state of parent and checks that
// it produces exactly the block's difficulty and state root. Any mismatch,
// or a listed transaction that fails its checks, rejects the block wholesale
// with a *ConsensusError. On success the returned state holds the block's
// post-state, not yet committed.
//
// Process 在父状态上重新执行区块，并检查难度与状态根。任何不一致都会以
// *ConsensusError 整体拒绝该区块。
func (p *StateProcessor) Process(parent *types.Header, block *types.Block, cfg vm.Config) (*state.StateDB, []*types.Receipt, error) {
	header := block.Header()
	if header.Number != parent.Number+1 {
		return nil, nil, newConsensusError(ErrBadNumber, header, "parent is #%d", parent.Number)
	}
	if header.ParentHash != parent.Hash() {
		return nil, nil, newConsensusError(ErrBadParent, header, "have %x, want %x", header.ParentHash, parent.Hash())
	}
	if err := p.validator.ValidateBody(block); err != nil {
		return nil, nil, err
	}
	statedb, err := state.New(parent.Root, p.db)
	if err != nil {
		return nil, nil, newConsensusError(ErrMissingParentState, header, "root %x: %v", parent.Root, err)
	}
	t := NewTransition(p.config, parent, header, statedb, cfg)
	t.Now = p.now
	t.Enqueue(block.Transactions()...)
	if err := t.Run(); err != nil {
		return nil, nil, err
	}
	if dropped := t.Dropped(); len(dropped) > 0 {
		return nil, nil, newConsensusError(ErrBadTransaction, header, "tx %x: %d of %d rejected", dropped[0].Hash(), len(dropped), len(block.Transactions()))
	}
	receipts := t.Receipts()
	expected, err := t.Finalize(block.Uncles())
	if err != nil {
		return nil, nil, err
	}
	if err := p.validator.ValidateState(block, expected.Header(), statedb); err != nil {
		return nil, nil, err
	}
	return statedb, receipts, nil
}
