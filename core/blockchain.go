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

// Package core implements the ledger state transition and block import.
package core

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/rawdb"
	"github.com/sunyihoo/go-ledger/core/state"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/core/vm"
	"github.com/sunyihoo/go-ledger/ethdb"
	"github.com/sunyihoo/go-ledger/internal/syncx"
	"github.com/sunyihoo/go-ledger/log"
	"github.com/sunyihoo/go-ledger/params"
	"github.com/sunyihoo/go-ledger/rlp"
	"github.com/sunyihoo/go-ledger/triedb"
)

const (
	headerCacheLimit = 512
	blockCacheLimit  = 256
)

var (
	errSideChain    = errors.New("block does not extend the current head")
	errChainStopped = errors.New("blockchain is stopped")
)

// CacheConfig contains the configuration values for the trie database and
// the block caches that are resident in a blockchain.
type CacheConfig struct {
	TrieCleanLimit int // Memory allowance (MB) to use for caching trie nodes in memory
}

// DefaultCacheConfig are the default caching values if none are specified by the
// user (also used during testing).
var DefaultCacheConfig = &CacheConfig{
	TrieCleanLimit: 16,
}

// BlockChain represents the canonical chain given a database with a genesis
// block. It imports blocks one at a time: each block must extend the current
// head, is re-executed by the StateProcessor and, if valid, committed
// together with its state.
//
// Importing is serialised by a mutex; readers may run concurrently.
//
// BlockChain 表示给定创世区块的规范链。区块逐个导入：必须延伸当前链头，
// 经 StateProcessor 重新执行验证后连同状态一起提交。
type BlockChain struct {
	chainConfig *params.Config // Chain & network configuration
	cacheConfig *CacheConfig   // Cache configuration for pruning

	db      ethdb.KeyValueStore // Low level persistent database to store final content in
	triedb  *triedb.Database    // The database handler for maintaining trie nodes.
	statedb *state.CachingDB    // State database to reuse between imports

	genesisBlock *types.Block
	currentBlock atomic.Pointer[types.Header] // Current head of the chain

	chainmu *syncx.ClosableMutex // chain write lock
	stopped atomic.Bool

	headerCache *lru.Cache // Cache for the most recent block headers
	blockCache  *lru.Cache // Cache for the most recent entire blocks

	validator *BlockValidator // Block and state validator interface
	processor *StateProcessor // Block transaction processor interface
	vmConfig  vm.Config

	log log.Logger
}

// NewBlockChain returns a fully initialised block chain using information
// available in the database. A nil genesis uses the one already stored, or
// the default one for an empty database.
//
// NewBlockChain 使用数据库中的信息返回完全初始化的区块链。
func NewBlockChain(db ethdb.KeyValueStore, cacheConfig *CacheConfig, genesis *Genesis, vmConfig vm.Config) (*BlockChain, error) {
	if cacheConfig == nil {
		cacheConfig = DefaultCacheConfig
	}
	tdb := triedb.New(db, &triedb.Config{CleanCacheSize: cacheConfig.TrieCleanLimit * 1024 * 1024})
	chainConfig, genesisHash, err := SetupGenesisBlock(db, tdb, genesis)
	if err != nil {
		tdb.Close()
		return nil, err
	}
	headerCache, _ := lru.New(headerCacheLimit)
	blockCache, _ := lru.New(blockCacheLimit)

	bc := &BlockChain{
		chainConfig: chainConfig,
		cacheConfig: cacheConfig,
		db:          db,
		triedb:      tdb,
		statedb:     state.NewDatabase(tdb),
		chainmu:     syncx.NewClosableMutex(),
		headerCache: headerCache,
		blockCache:  blockCache,
		vmConfig:    vmConfig,
		log:         log.New("module", "chain"),
	}
	bc.validator = NewBlockValidator(chainConfig, bc)
	bc.processor = NewStateProcessor(chainConfig, bc.statedb, bc.validator)

	bc.genesisBlock = bc.GetBlockByNumber(0)
	if bc.genesisBlock == nil || bc.genesisBlock.Hash() != genesisHash {
		tdb.Close()
		return nil, ErrNoGenesis
	}
	if err := bc.loadLastState(); err != nil {
		tdb.Close()
		return nil, err
	}
	head := bc.CurrentBlock()
	bc.log.Info("Loaded most recent local block", "number", head.Number, "hash", head.Hash(), "age", common.PrettyAge(time.Unix(int64(head.Time), 0)))
	return bc, nil
}

// loadLastState loads the last known chain state from the database. The head
// falls back to genesis when the stored head or its state is missing.
func (bc *BlockChain) loadLastState() error {
	head := rawdb.ReadHeadBlock(bc.db)
	if head == nil {
		bc.log.Warn("Head block missing, resetting chain")
		head = bc.genesisBlock
	}
	if _, err := state.New(head.Root(), bc.statedb); err != nil {
		bc.log.Warn("Head state missing, resetting chain", "number", head.Number(), "hash", head.Hash(), "err", err)
		head = bc.genesisBlock
		rawdb.WriteHeadBlockHash(bc.db, head.Hash())
	}
	bc.currentBlock.Store(head.Header())
	return nil
}

// Config retrieves the chain's fee and reward schedule.
func (bc *BlockChain) Config() *params.Config { return bc.chainConfig }

// Genesis retrieves the chain's genesis block.
func (bc *BlockChain) Genesis() *types.Block { return bc.genesisBlock }

// Validator returns the current validator.
func (bc *BlockChain) Validator() *BlockValidator { return bc.validator }

// Processor returns the current processor.
func (bc *BlockChain) Processor() *StateProcessor { return bc.processor }

// VMConfig returns the contract machine settings blocks are processed with.
func (bc *BlockChain) VMConfig() vm.Config { return bc.vmConfig }

// TrieDB retrieves the low level trie database used for data storage.
func (bc *BlockChain) TrieDB() *triedb.Database { return bc.triedb }

// CurrentBlock retrieves the current head block of the canonical chain.
func (bc *BlockChain) CurrentBlock() *types.Header {
	return bc.currentBlock.Load()
}

// State returns a new mutable state based on the current HEAD block.
func (bc *BlockChain) State() (*state.StateDB, error) {
	return bc.StateAt(bc.CurrentBlock().Root)
}

// StateAt returns a new mutable state based on a particular point in time.
func (bc *BlockChain) StateAt(root common.Hash) (*state.StateDB, error) {
	return state.New(root, bc.statedb)
}

// GetHeader retrieves a block header from the database by hash and number,
// caching it if found.
func (bc *BlockChain) GetHeader(hash common.Hash, number uint64) *types.Header {
	if header, ok := bc.headerCache.Get(hash); ok {
		return header.(*types.Header)
	}
	header := rawdb.ReadHeader(bc.db, hash, number)
	if header == nil {
		return nil
	}
	bc.headerCache.Add(hash, header)
	return header
}

// GetHeaderByHash retrieves a block header from the database by hash.
func (bc *BlockChain) GetHeaderByHash(hash common.Hash) *types.Header {
	number := rawdb.ReadHeaderNumber(bc.db, hash)
	if number == nil {
		return nil
	}
	return bc.GetHeader(hash, *number)
}

// GetCanonicalHash returns the canonical hash for a given block number.
func (bc *BlockChain) GetCanonicalHash(number uint64) common.Hash {
	return rawdb.ReadCanonicalHash(bc.db, number)
}

// GetHeaderByNumber retrieves a block header from the database by number.
func (bc *BlockChain) GetHeaderByNumber(number uint64) *types.Header {
	hash := rawdb.ReadCanonicalHash(bc.db, number)
	if hash == (common.Hash{}) {
		return nil
	}
	return bc.GetHeader(hash, number)
}

// GetBlock retrieves a block from the database by hash and number,
// caching it if found.
func (bc *BlockChain) GetBlock(hash common.Hash, number uint64) *types.Block {
	if block, ok := bc.blockCache.Get(hash); ok {
		return block.(*types.Block)
	}
	block := rawdb.ReadBlock(bc.db, hash, number)
	if block == nil {
		return nil
	}
	bc.blockCache.Add(block.Hash(), block)
	return block
}

// GetBlockByHash retrieves a block from the database by hash, caching it if found.
func (bc *BlockChain) GetBlockByHash(hash common.Hash) *types.Block {
	number := rawdb.ReadHeaderNumber(bc.db, hash)
	if number == nil {
		return nil
	}
	return bc.GetBlock(hash, *number)
}

// GetBlockByNumber retrieves a block from the database by number, caching it
// (associated with its hash) if found.
func (bc *BlockChain) GetBlockByNumber(number uint64) *types.Block {
	hash := rawdb.ReadCanonicalHash(bc.db, number)
	if hash == (common.Hash{}) {
		return nil
	}
	return bc.GetBlock(hash, number)
}

// HasBlock checks if a block is fully present in the database or not.
func (bc *BlockChain) HasBlock(hash common.Hash, number uint64) bool {
	if bc.blockCache.Contains(hash) {
		return true
	}
	return rawdb.HasBody(bc.db, hash, number)
}

// InsertBlock validates block against the current head and, if it passes,
// writes it and its state, making it the new head. A rejected block leaves
// the chain and the database untouched.
//
// InsertBlock 针对当前链头验证区块，通过后写入区块与状态并设为新链头。被拒绝的区块不会留下任何痕迹。
func (bc *BlockChain) InsertBlock(block *types.Block) ([]*types.Receipt, error) {
	if !bc.chainmu.TryLock() {
		return nil, errChainStopped
	}
	defer bc.chainmu.Unlock()

	return bc.insertBlock(block)
}

// InsertChain attempts to insert the given batch of blocks in order. It
// returns the index of the failing block together with the error.
//
// InsertChain 按顺序插入一批区块，失败时返回失败区块的索引和错误。
func (bc *BlockChain) InsertChain(chain []*types.Block) (int, error) {
	if !bc.chainmu.TryLock() {
		return 0, errChainStopped
	}
	defer bc.chainmu.Unlock()

	var (
		start = time.Now()
		txs   int
	)
	for i, block := range chain {
		if _, err := bc.insertBlock(block); err != nil {
			return i, err
		}
		txs += len(block.Transactions())
	}
	if len(chain) > 0 {
		head := bc.CurrentBlock()
		bc.log.Info("Imported new chain segment", "blocks", len(chain), "txs", txs, "number", head.Number, "hash", head.Hash(), "elapsed", common.PrettyDuration(time.Since(start)))
	}
	return len(chain), nil
}

func (bc *BlockChain) insertBlock(block *types.Block) ([]*types.Receipt, error) {
	head := bc.CurrentBlock()
	if bc.HasBlock(block.Hash(), block.NumberU64()) {
		return nil, ErrKnownBlock
	}
	if block.ParentHash() != head.Hash() {
		if bc.GetHeader(block.ParentHash(), block.NumberU64()-1) == nil {
			return nil, ErrUnknownAncestor
		}
		return nil, fmt.Errorf("%w: parent %x, head %x", errSideChain, block.ParentHash(), head.Hash())
	}
	start := time.Now()
	statedb, receipts, err := bc.processor.Process(head, block, bc.vmConfig)
	if err != nil {
		bc.reportBlock(block, err)
		return nil, err
	}
	if err := bc.writeBlockWithState(block, statedb); err != nil {
		return nil, err
	}
	bc.log.Info("Imported new block", "number", block.NumberU64(), "hash", block.Hash(), "txs", len(block.Transactions()),
		"uncles", len(block.Uncles()), "root", block.Root(), "elapsed", common.PrettyDuration(time.Since(start)))
	return receipts, nil
}

// writeBlockWithState writes the block and its state, then moves the head.
// The trie nodes are flushed before the head pointer so a crash never leaves
// a head without state.
func (bc *BlockChain) writeBlockWithState(block *types.Block, statedb *state.StateDB) error {
	root, err := statedb.Commit()
	if err != nil {
		return err
	}
	if root != block.Root() {
		return fmt.Errorf("committed root %x differs from block root %x", root, block.Root())
	}
	if err := bc.triedb.Commit(); err != nil {
		return err
	}
	batch := bc.db.NewBatch()
	rawdb.WriteBlock(batch, block)
	rawdb.WriteCanonicalHash(batch, block.Hash(), block.NumberU64())
	rawdb.WriteHeadBlockHash(batch, block.Hash())
	if err := batch.Write(); err != nil {
		log.Crit("Failed to write block into disk", "err", err)
	}
	bc.blockCache.Add(block.Hash(), block)
	bc.currentBlock.Store(block.Header())
	return nil
}

// reportBlock logs a bad block error.
func (bc *BlockChain) reportBlock(block *types.Block, err error) {
	var cerr *ConsensusError
	if errors.As(err, &cerr) {
		bc.log.Warn("Rejected invalid block", "number", block.NumberU64(), "hash", block.Hash(), "err", err)
		return
	}
	bc.log.Error("Failed to process block", "number", block.NumberU64(), "hash", block.Hash(), "err", err)
}

// Export writes the active chain to the given writer.
func (bc *BlockChain) Export(w io.Writer) error {
	return bc.ExportN(w, 0, bc.CurrentBlock().Number)
}

// ExportN writes a subset of the active chain to the given writer, one
// encoded block after the other.
//
// ExportN 将规范链的一段区块依次编码写入 w。
func (bc *BlockChain) ExportN(w io.Writer, first uint64, last uint64) error {
	if first > last {
		return fmt.Errorf("export failed: first (%d) is greater than last (%d)", first, last)
	}
	bc.log.Info("Exporting batch of blocks", "count", last-first+1)

	for nr := first; nr <= last; nr++ {
		block := bc.GetBlockByNumber(nr)
		if block == nil {
			return fmt.Errorf("export failed on #%d: not found", nr)
		}
		if err := rlp.Write(w, block.RLPValue()); err != nil {
			return err
		}
	}
	return nil
}

// Stop waits for a running import, refuses further ones and releases the
// caches of the chain. The database is owned by the caller.
func (bc *BlockChain) Stop() {
	if !bc.stopped.CompareAndSwap(false, true) {
		return
	}
	bc.chainmu.Close()
	bc.triedb.Close()
	bc.log.Info("Blockchain stopped")
}
