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

package core

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/rawdb"
	"github.com/sunyihoo/go-ledger/core/state"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/ethdb"
	"github.com/sunyihoo/go-ledger/log"
	"github.com/sunyihoo/go-ledger/params"
	"github.com/sunyihoo/go-ledger/triedb"
)

// BlockChainVersion ensures that an incompatible database forces a resync from scratch.
const BlockChainVersion uint64 = 1

var errGenesisNoConfig = errors.New("genesis has no chain configuration")

// Genesis specifies the header fields, state of a genesis block.
// Genesis 指定创世区块的区块头字段和状态。
type Genesis struct {
	Config     *params.Config `json:"config"`
	Nonce      uint64         `json:"nonce"`
	Timestamp  uint64         `json:"timestamp"`
	ExtraData  []byte         `json:"extraData"`
	Difficulty *big.Int       `json:"difficulty"`
	Coinbase   common.Address `json:"coinbase"`
	Alloc      GenesisAlloc   `json:"alloc"`
}

// GenesisAlloc specifies the initial state that is part of the genesis block.
type GenesisAlloc map[common.Address]GenesisAccount

// GenesisAccount is an account in the state of the genesis block. An account
// with Code is created as a contract whose storage holds the code words at
// keys 0..n-1, the same way a creation transaction lays them out.
//
// GenesisAccount 是创世状态中的账户；带有 Code 的账户被创建为合约。
type GenesisAccount struct {
	Balance *uint256.Int  `json:"balance"`
	Nonce   uint64        `json:"nonce,omitempty"`
	Code    []uint256.Int `json:"code,omitempty"`
}

// DefaultGenesisBlock returns the genesis of a ledger with the default fee and
// reward schedule and an empty state.
func DefaultGenesisBlock() *Genesis {
	return &Genesis{
		Config:     params.DefaultConfig,
		Difficulty: new(big.Int).SetUint64(params.GenesisDifficulty),
		Alloc:      GenesisAlloc{},
	}
}

// DeveloperGenesisBlock returns a genesis with the default schedule, the
// minimum difficulty and a pre-funded faucet account.
//
// DeveloperGenesisBlock 返回带有预充值水龙头账户的开发用创世配置。
func DeveloperGenesisBlock(faucet common.Address, balance *uint256.Int) *Genesis {
	config := params.DefaultConfig.Copy()
	return &Genesis{
		Config:     config,
		Difficulty: new(big.Int).SetUint64(config.MinimumDifficulty),
		Alloc: GenesisAlloc{
			faucet: {Balance: balance},
		},
	}
}

// flush writes the allocation into statedb.
func (ga GenesisAlloc) flush(statedb *state.StateDB) {
	for addr, account := range ga {
		if account.Code != nil {
			statedb.CreateContract(addr)
			for i, word := range account.Code {
				if !word.IsZero() {
					statedb.SetStorage(addr, uint256.NewInt(uint64(i)), &word)
				}
			}
		} else {
			statedb.SetNonce(addr, account.Nonce)
		}
		if account.Balance != nil {
			statedb.AddBalance(addr, account.Balance)
		}
	}
}

// hash computes the state root of the allocation in a throwaway database.
func (ga GenesisAlloc) hash() (common.Hash, error) {
	statedb, err := state.New(types.EmptyRootHash, state.NewDatabaseForTesting())
	if err != nil {
		return common.Hash{}, err
	}
	ga.flush(statedb)
	return statedb.IntermediateRoot(), statedb.Error()
}

// toBlock assembles the genesis block around the given state root.
func (g *Genesis) toBlock(root common.Hash) *types.Block {
	head := &types.Header{
		Number:     0,
		Coinbase:   g.Coinbase,
		Root:       root,
		Difficulty: g.Difficulty,
		Time:       g.Timestamp,
		Nonce:      types.EncodeNonce(g.Nonce),
		Extra:      g.ExtraData,
	}
	if head.Difficulty == nil {
		head.Difficulty = new(big.Int).SetUint64(params.GenesisDifficulty)
	}
	return types.NewBlock(head, nil)
}

// ToBlock returns the genesis block from the genesis definition.
// ToBlock 根据创世规范返回创世区块。
func (g *Genesis) ToBlock() *types.Block {
	root, err := g.Alloc.hash()
	if err != nil {
		panic(err)
	}
	return g.toBlock(root)
}

// Commit writes the block and state of a genesis definition to the database.
// The block is committed as the canonical head block.
//
// Commit 将创世区块及其状态写入数据库，并设为规范链头。
func (g *Genesis) Commit(db ethdb.KeyValueStore, tdb *triedb.Database) (*types.Block, error) {
	if g.Config == nil {
		return nil, errGenesisNoConfig
	}
	if err := g.Config.CheckConfig(); err != nil {
		return nil, err
	}
	statedb, err := state.New(types.EmptyRootHash, state.NewDatabase(tdb))
	if err != nil {
		return nil, err
	}
	g.Alloc.flush(statedb)
	root, err := statedb.Commit()
	if err != nil {
		return nil, err
	}
	if err := tdb.Commit(); err != nil {
		return nil, err
	}
	block := g.toBlock(root)

	batch := db.NewBatch()
	rawdb.WriteDatabaseVersion(batch, BlockChainVersion)
	rawdb.WriteChainConfig(batch, block.Hash(), g.Config)
	rawdb.WriteBlock(batch, block)
	rawdb.WriteCanonicalHash(batch, block.Hash(), block.NumberU64())
	rawdb.WriteHeadBlockHash(batch, block.Hash())
	if err := batch.Write(); err != nil {
		return nil, err
	}
	return block, nil
}

// MustCommit writes the genesis block and state to db, panicking on error.
// The block is committed as the canonical head block.
func (g *Genesis) MustCommit(db ethdb.KeyValueStore, tdb *triedb.Database) *types.Block {
	block, err := g.Commit(db, tdb)
	if err != nil {
		panic(err)
	}
	return block
}

// SetupGenesisBlock writes or updates the genesis block in db.
// The block that will be used is:
//
//	                     genesis == nil       genesis != nil
//	                  +------------------------------------------
//	db has no genesis |  default genesis  |  genesis
//	db has genesis    |  from DB          |  genesis (if compatible)
//
// The stored chain configuration wins over the one of the given genesis, it
// is part of the chain identity.
//
// SetupGenesisBlock 在数据库中写入或校验创世区块，返回链配置与创世哈希。
func SetupGenesisBlock(db ethdb.KeyValueStore, tdb *triedb.Database, genesis *Genesis) (*params.Config, common.Hash, error) {
	stored := rawdb.ReadCanonicalHash(db, 0)
	if (stored == common.Hash{}) {
		if genesis == nil {
			log.Info("Writing default genesis block")
			genesis = DefaultGenesisBlock()
		} else {
			log.Info("Writing custom genesis block")
		}
		block, err := genesis.Commit(db, tdb)
		if err != nil {
			return nil, common.Hash{}, err
		}
		return genesis.Config, block.Hash(), nil
	}
	if genesis != nil {
		if hash := genesis.ToBlock().Hash(); hash != stored {
			return nil, common.Hash{}, &GenesisMismatchError{Stored: stored, New: hash}
		}
	}
	config := rawdb.ReadChainConfig(db, stored)
	if config == nil {
		return nil, common.Hash{}, fmt.Errorf("missing chain config for genesis %x", stored)
	}
	return config, stored, nil
}
