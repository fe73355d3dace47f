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

// Package miner assembles valid blocks on top of the chain head. There is no
// proof-of-work search: a built block is ready to be inserted.
package miner

import (
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/log"
)

// Config is the configuration parameters of block building.
type Config struct {
	Coinbase  common.Address `toml:",omitempty"` // Address receiving the block rewards
	ExtraData []byte         `toml:",omitempty"` // Block extra data set by the miner
	MaxTxs    int            `toml:",omitempty"` // Maximum number of signed transactions per block, 0 for no limit
}

// DefaultConfig contains default settings for block building.
var DefaultConfig = Config{}

// Miner builds blocks for a chain.
// Miner 在链头之上构建区块。
type Miner struct {
	config Config
	chain  *core.BlockChain
	log    log.Logger
}

// New creates a block builder over chain.
func New(chain *core.BlockChain, config Config) *Miner {
	return &Miner{
		config: config,
		chain:  chain,
		log:    log.New("module", "miner"),
	}
}

// SetCoinbase sets the address receiving the rewards of built blocks.
func (miner *Miner) SetCoinbase(addr common.Address) {
	miner.config.Coinbase = addr
}

// SetExtra sets the content used to initialize the block extra field.
func (miner *Miner) SetExtra(extra []byte) {
	miner.config.ExtraData = extra
}

// BuildBlock assembles the next block from the candidate transactions and
// uncles at the given time. Candidates that would be dropped are left out,
// so the result always passes import.
//
// BuildBlock 用候选交易和叔块在给定时间组装下一个区块，会被丢弃的交易不会进入区块。
func (miner *Miner) BuildBlock(txs []*types.Transaction, uncles []*types.Header, timestamp uint64) (*types.Block, []*types.Receipt, error) {
	res := miner.generateWork(&generateParams{
		timestamp: timestamp,
		coinbase:  miner.config.Coinbase,
		extra:     miner.config.ExtraData,
		txs:       txs,
		uncles:    uncles,
	})
	if res.err != nil {
		return nil, nil, res.err
	}
	miner.log.Info("Built new block", "number", res.block.NumberU64(), "hash", res.block.Hash(),
		"txs", len(res.block.Transactions()), "dropped", res.dropped, "fees", res.fees)
	return res.block, res.receipts, nil
}

// Mine builds the next block and inserts it into the chain.
func (miner *Miner) Mine(txs []*types.Transaction, uncles []*types.Header, timestamp uint64) (*types.Block, error) {
	block, _, err := miner.BuildBlock(txs, uncles, timestamp)
	if err != nil {
		return nil, err
	}
	if _, err := miner.chain.InsertBlock(block); err != nil {
		return nil, err
	}
	return block, nil
}
