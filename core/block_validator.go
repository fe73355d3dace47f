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
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/state"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/params"
)

// ChainHeaderReader defines the small collection of methods needed to check
// a block against the headers already known.
type ChainHeaderReader interface {
	// GetHeader retrieves a block header from the database by hash and number.
	GetHeader(hash common.Hash, number uint64) *types.Header

	// GetCanonicalHash returns the canonical hash for a given block number.
	GetCanonicalHash(number uint64) common.Hash
}

// BlockValidator is responsible for validating block bodies, uncles and
// processed state.
//
// BlockValidator 负责验证区块体、叔块和处理后的状态。
type BlockValidator struct {
	config *params.Config    // Chain configuration options
	chain  ChainHeaderReader // Known headers, nil to skip ancestry checks
}

// NewBlockValidator returns a new block validator which is safe for re-use.
// A nil chain limits uncle checks to what the block itself tells.
func NewBlockValidator(config *params.Config, chain ChainHeaderReader) *BlockValidator {
	return &BlockValidator{config: config, chain: chain}
}

// ValidateBody validates the given block's uncles and verifies the block
// header's transaction and uncle roots.
//
// ValidateBody 验证给定区块的叔块，并验证区块头的交易根和叔块根。
func (v *BlockValidator) ValidateBody(block *types.Block) error {
	header := block.Header()
	if hash := types.CalcUncleHash(block.Uncles()); hash != header.UncleHash {
		return newConsensusError(ErrBadUncleHash, header, "header value %x, calculated %x", header.UncleHash, hash)
	}
	if hash := types.DeriveSha(block.Transactions()); hash != header.TxHash {
		return newConsensusError(ErrBadTxRoot, header, "header value %x, calculated %x", header.TxHash, hash)
	}
	return v.verifyUncles(block)
}

// verifyUncles checks the uncle count, that no uncle is included twice and
// that every uncle is an older header which is not an ancestor of the block.
func (v *BlockValidator) verifyUncles(block *types.Block) error {
	header := block.Header()
	uncles := block.Uncles()
	if len(uncles) == 0 {
		return nil
	}
	if len(uncles) > params.MaxUncles {
		return newConsensusError(ErrTooManyUncles, header, "have %d, max %d", len(uncles), params.MaxUncles)
	}
	seen := mapset.NewThreadUnsafeSet[common.Hash]()
	for _, uncle := range uncles {
		hash := uncle.Hash()
		if !seen.Add(hash) {
			return newConsensusError(ErrDuplicateUncle, header, "uncle %x", hash)
		}
		if uncle.Number >= header.Number || hash == header.ParentHash {
			return newConsensusError(ErrBadUncle, header, "uncle %x at #%d", hash, uncle.Number)
		}
		if v.chain == nil {
			continue
		}
		if v.chain.GetCanonicalHash(uncle.Number) == hash {
			return newConsensusError(ErrBadUncle, header, "uncle %x is an ancestor", hash)
		}
		if uncle.Number > 0 && v.chain.GetHeader(uncle.ParentHash, uncle.Number-1) == nil {
			return newConsensusError(ErrBadUncle, header, "uncle %x has unknown parent %x", hash, uncle.ParentHash)
		}
	}
	return nil
}

// ValidateState validates the difficulty and the state root the block claims
// against the ones re-execution produced.
//
// ValidateState 对比区块声明的难度与状态根和重新执行得到的结果。
func (v *BlockValidator) ValidateState(block *types.Block, expected *types.Header, statedb *state.StateDB) error {
	header := block.Header()
	if header.Difficulty.Cmp(expected.Difficulty) != 0 {
		return newConsensusError(ErrBadDifficulty, header, "have %v, want %v", header.Difficulty, expected.Difficulty)
	}
	if root := statedb.IntermediateRoot(); header.Root != root {
		return newConsensusError(ErrBadStateRoot, header, "remote %x, local %x", header.Root, root)
	}
	return nil
}
