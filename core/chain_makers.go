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
	"fmt"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/rawdb"
	"github.com/sunyihoo/go-ledger/core/state"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/core/vm"
	"github.com/sunyihoo/go-ledger/ethdb"
	"github.com/sunyihoo/go-ledger/params"
	"github.com/sunyihoo/go-ledger/triedb"
)

// blockInterval is the default time offset between generated blocks.
const blockInterval = 10

// BlockGen creates blocks for testing.
// See GenerateChain for a detailed explanation.
// BlockGen 用于创建测试用的区块。
type BlockGen struct {
	i       int
	config  *params.Config
	parent  *types.Block
	header  *types.Header
	statedb *state.StateDB

	transition *Transition // started by the first transaction
	uncles     []*types.Header
}

// SetCoinbase sets the coinbase of the generated block.
// It must be called before adding transactions.
// SetCoinbase 设置生成区块的 coinbase，必须在添加交易之前调用。
func (b *BlockGen) SetCoinbase(addr common.Address) {
	b.mutable("coinbase")
	b.header.Coinbase = addr
}

// SetExtra sets the extra data field of the generated block.
func (b *BlockGen) SetExtra(data []byte) {
	b.header.Extra = data
}

// SetNonce sets the nonce field of the generated block.
func (b *BlockGen) SetNonce(nonce types.BlockNonce) {
	b.header.Nonce = nonce
}

// OffsetTime modifies the time instance of a block, implicitly changing its
// associated difficulty. It's useful to test scenarios where forking is not
// tied to chain length directly.
func (b *BlockGen) OffsetTime(seconds int64) {
	b.mutable("time")
	b.header.Time = uint64(int64(b.header.Time) + seconds)
}

func (b *BlockGen) mutable(field string) {
	if b.transition != nil {
		panic(fmt.Sprintf("%s must be set before adding transactions", field))
	}
}

func (b *BlockGen) start() *Transition {
	if b.transition == nil {
		b.transition = NewTransition(b.config, b.parent.Header(), b.header, b.statedb, vm.Config{})
	}
	return b.transition
}

// AddTx adds a transaction to the generated block and applies it right away,
// together with the messages its contract emits. It panics if the
// transaction is dropped, use AddTxMaybe to accept that.
//
// AddTx 向生成的区块添加交易并立即执行；交易被丢弃时 panic。
func (b *BlockGen) AddTx(tx *types.Transaction) {
	if !b.AddTxMaybe(tx) {
		panic(fmt.Sprintf("transaction %x dropped", tx.Hash()))
	}
}

// AddTxMaybe adds a transaction and reports whether it was accepted.
func (b *BlockGen) AddTxMaybe(tx *types.Transaction) bool {
	t := b.start()
	dropped := len(t.Dropped())
	t.Enqueue(tx)
	if err := t.Run(); err != nil {
		panic(err)
	}
	return len(t.Dropped()) == dropped
}

// GetBalance returns the balance of the given address at the generated block.
func (b *BlockGen) GetBalance(addr common.Address) *uint256.Int {
	return b.statedb.GetBalance(addr)
}

// TxNonce returns the next valid transaction nonce for the
// account at addr. It panics if the account does not exist.
func (b *BlockGen) TxNonce(addr common.Address) uint64 {
	if !b.statedb.Exist(addr) {
		panic("account does not exist")
	}
	return b.statedb.GetNonce(addr)
}

// Number returns the block number of the block being generated.
func (b *BlockGen) Number() uint64 {
	return b.header.Number
}

// Timestamp returns the timestamp of the block being generated.
func (b *BlockGen) Timestamp() uint64 {
	return b.header.Time
}

// AddUncle adds an uncle header to the generated block.
func (b *BlockGen) AddUncle(h *types.Header) {
	b.uncles = append(b.uncles, h)
}

// Receipts returns the receipts of the transactions applied so far.
func (b *BlockGen) Receipts() []*types.Receipt {
	if b.transition == nil {
		return nil
	}
	return b.transition.Receipts()
}

// GenerateChain creates a chain of n blocks. The first block's
// parent will be the provided parent. db is used to store
// intermediate states and should contain the parent's state trie.
//
// The generator function is called with a new block generator for
// every block. Any transactions and uncles added to the generator
// become part of the block. If gen is nil, the blocks will be empty
// and their coinbase will be the zero address.
//
// Blocks created by GenerateChain carry no proof of work; the chain only
// checks what the state transition defines.
//
// GenerateChain 创建一条包含 n 个区块的链，第一个区块的父区块为 parent。
func GenerateChain(config *params.Config, parent *types.Block, db ethdb.KeyValueStore, n int, gen func(int, *BlockGen)) ([]*types.Block, [][]*types.Receipt) {
	if config == nil {
		config = params.DefaultConfig
	}
	var (
		blocks   = make([]*types.Block, n)
		receipts = make([][]*types.Receipt, n)
		tdb      = triedb.New(db, nil)
		sdb      = state.NewDatabase(tdb)
	)
	defer tdb.Close()

	genblock := func(i int, parent *types.Block, statedb *state.StateDB) (*types.Block, []*types.Receipt) {
		b := &BlockGen{
			i:       i,
			config:  config,
			parent:  parent,
			statedb: statedb,
			header:  &types.Header{Time: parent.Time() + blockInterval},
		}
		if gen != nil {
			gen(i, b)
		}
		t := b.start()
		if err := t.Run(); err != nil {
			panic(err)
		}
		rs := t.Receipts()
		block, err := t.Finalize(b.uncles)
		if err != nil {
			panic(err)
		}
		root, err := statedb.Commit()
		if err != nil {
			panic(fmt.Sprintf("state write error: %v", err))
		}
		if err := tdb.Commit(); err != nil {
			panic(fmt.Sprintf("trie write error: %v", err))
		}
		if root != block.Root() {
			panic(fmt.Sprintf("root mismatch: committed %x, block %x", root, block.Root()))
		}
		return block, rs
	}
	for i := 0; i < n; i++ {
		statedb, err := state.New(parent.Root(), sdb)
		if err != nil {
			panic(err)
		}
		block, receipt := genblock(i, parent, statedb)
		blocks[i] = block
		receipts[i] = receipt
		parent = block
	}
	return blocks, receipts
}

// GenerateChainWithGenesis is a wrapper of GenerateChain which will initialize
// genesis block to database first according to the provided genesis definition
// then generate chain on top.
func GenerateChainWithGenesis(genesis *Genesis, n int, gen func(int, *BlockGen)) (ethdb.KeyValueStore, []*types.Block, [][]*types.Receipt) {
	db := rawdb.NewMemoryDatabase()
	tdb := triedb.New(db, nil)
	defer tdb.Close()

	block := genesis.MustCommit(db, tdb)
	blocks, receipts := GenerateChain(genesis.Config, block, db, n, gen)
	return db, blocks, receipts
}
