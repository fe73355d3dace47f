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
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/rawdb"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/core/vm"
	"github.com/sunyihoo/go-ledger/ethdb"
	"github.com/sunyihoo/go-ledger/params"
	"github.com/sunyihoo/go-ledger/rlp"
	"github.com/sunyihoo/go-ledger/triedb"
	"github.com/stretchr/testify/require"
)

func newTestGenesis() *Genesis {
	return DeveloperGenesisBlock(testAddr, testBalance)
}

// newTestChain creates a chain over a fresh memory database holding only the
// genesis.
func newTestChain(t *testing.T, genesis *Genesis) (*BlockChain, ethdb.KeyValueStore) {
	t.Helper()
	db := rawdb.NewMemoryDatabase()
	chain, err := NewBlockChain(db, nil, genesis, vm.Config{})
	require.NoError(t, err)
	t.Cleanup(chain.Stop)
	return chain, db
}

// transfers generates blocks each carrying one transfer to recipient.
func transfers(i int, gen *BlockGen) {
	gen.SetCoinbase(testCoinbase)
	tx := types.MustSignNewTx(testKey, types.FrontierSigner{}, &types.TxData{
		Nonce: gen.TxNonce(testAddr),
		To:    &recipient,
		Value: uint256.NewInt(uint64(i + 1)),
		Fee:   uint256.NewInt(params.DefaultTxFee),
	})
	gen.AddTx(tx)
}

func TestInsertChain(t *testing.T) {
	genesis := newTestGenesis()
	_, blocks, receipts := GenerateChainWithGenesis(genesis, 4, transfers)
	require.Len(t, receipts[3], 1)

	chain, _ := newTestChain(t, genesis)
	n, err := chain.InsertChain(blocks)
	require.NoError(t, err)
	require.Equal(t, len(blocks), n)

	head := chain.CurrentBlock()
	require.Equal(t, blocks[3].Hash(), head.Hash())
	for i, block := range blocks {
		require.Equal(t, block.Hash(), chain.GetBlockByNumber(uint64(i+1)).Hash())
		require.Equal(t, block.Hash(), chain.GetBlockByHash(block.Hash()).Hash())
		require.Equal(t, block.Hash(), chain.GetHeaderByNumber(uint64(i+1)).Hash())
	}
	statedb, err := chain.State()
	require.NoError(t, err)
	require.Equal(t, uint64(1+2+3+4), statedb.GetBalance(recipient).Uint64())
	require.Equal(t, uint64(4), statedb.GetNonce(testAddr))

	reward := new(uint256.Int).Mul(params.DefaultConfig.BlockReward(1), uint256.NewInt(4))
	reward.Add(reward, uint256.NewInt(4*params.DefaultTxFee))
	require.Equal(t, reward, statedb.GetBalance(testCoinbase))
}

func TestInsertKnownAndUnknown(t *testing.T) {
	genesis := newTestGenesis()
	_, blocks, _ := GenerateChainWithGenesis(genesis, 3, nil)
	chain, _ := newTestChain(t, genesis)

	_, err := chain.InsertBlock(blocks[1])
	require.ErrorIs(t, err, ErrUnknownAncestor)

	_, err = chain.InsertBlock(blocks[0])
	require.NoError(t, err)
	_, err = chain.InsertBlock(blocks[0])
	require.ErrorIs(t, err, ErrKnownBlock)
	_, err = chain.InsertBlock(chain.Genesis())
	require.ErrorIs(t, err, ErrKnownBlock)
}

// A block whose claimed fields disagree with re-execution is rejected
// wholesale and the head does not move.
func TestInsertRejectsTampered(t *testing.T) {
	genesis := newTestGenesis()
	_, blocks, _ := GenerateChainWithGenesis(genesis, 1, transfers)
	good := blocks[0]

	tamper := func(f func(h *types.Header)) *types.Block {
		h := good.Header()
		f(h)
		return types.NewBlockWithHeader(h).WithBody(*good.Body())
	}
	tests := []struct {
		name  string
		block *types.Block
		want  error
	}{
		{"state root", tamper(func(h *types.Header) { h.Root = common.Hash{1} }), ErrBadStateRoot},
		{"difficulty", tamper(func(h *types.Header) { h.Difficulty.Add(h.Difficulty, big.NewInt(1)) }), ErrBadDifficulty},
		{"tx root", tamper(func(h *types.Header) { h.TxHash = types.EmptyTxsHash }), ErrBadTxRoot},
		{"uncle hash", tamper(func(h *types.Header) { h.UncleHash = common.Hash{2} }), ErrBadUncleHash},
		{"timestamp", tamper(func(h *types.Header) { h.Time = 1 << 62 }), ErrBadTimestamp},
		{"number", tamper(func(h *types.Header) { h.Number = 5 }), ErrBadNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain, db := newTestChain(t, genesis)
			_, err := chain.InsertBlock(tt.block)
			require.ErrorIs(t, err, tt.want)
			require.Equal(t, chain.Genesis().Hash(), chain.CurrentBlock().Hash())
			require.Equal(t, chain.Genesis().Hash(), rawdb.ReadHeadBlockHash(db))
			require.Nil(t, rawdb.ReadBlock(db, tt.block.Hash(), tt.block.NumberU64()))
		})
	}
	chain, _ := newTestChain(t, genesis)
	_, err := chain.InsertBlock(good)
	require.NoError(t, err)
}

// Every transaction listed in a block must apply; one that would be dropped
// invalidates the block.
func TestInsertRejectsDroppedTransaction(t *testing.T) {
	genesis := newTestGenesis()
	_, blocks, _ := GenerateChainWithGenesis(genesis, 1, transfers)

	stale := types.MustSignNewTx(testKey, types.FrontierSigner{}, &types.TxData{
		Nonce: 0, To: &recipient, Value: uint256.NewInt(1), Fee: uint256.NewInt(params.DefaultTxFee),
	})
	txs := append(types.Transactions{}, blocks[0].Transactions()...)
	bad := types.NewBlock(blocks[0].Header(), &types.Body{Transactions: append(txs, stale)})

	chain, _ := newTestChain(t, genesis)
	_, err := chain.InsertBlock(bad)
	require.ErrorIs(t, err, ErrBadTransaction)

	var cerr *ConsensusError
	require.True(t, errors.As(err, &cerr))
	require.Equal(t, bad.Hash(), cerr.Hash)
}

func TestInsertWithUncle(t *testing.T) {
	var (
		genesis      = newTestGenesis()
		db, main, _  = GenerateChainWithGenesis(genesis, 1, nil)
		uncleMiner   = common.HexToAddress("0x0bad")
		genesisBlock = genesis.ToBlock()
	)
	fork, _ := GenerateChain(genesis.Config, genesisBlock, db, 1, func(i int, gen *BlockGen) {
		gen.SetCoinbase(uncleMiner)
	})
	next, _ := GenerateChain(genesis.Config, main[0], db, 1, func(i int, gen *BlockGen) {
		gen.SetCoinbase(testCoinbase)
		gen.AddUncle(fork[0].Header())
	})
	chain, _ := newTestChain(t, genesis)
	_, err := chain.InsertChain([]*types.Block{main[0], next[0]})
	require.NoError(t, err)

	statedb, err := chain.State()
	require.NoError(t, err)
	reward := params.DefaultConfig.BlockReward(2)
	uncleReward := new(uint256.Int).Mul(reward, uint256.NewInt(7))
	uncleReward.Div(uncleReward, uint256.NewInt(8))
	require.Equal(t, uncleReward, statedb.GetBalance(uncleMiner))
	require.Equal(t, new(uint256.Int).Add(reward, new(uint256.Int).Div(reward, uint256.NewInt(32))), statedb.GetBalance(testCoinbase))
}

func TestValidateUncles(t *testing.T) {
	var (
		genesis      = newTestGenesis()
		db, main, _  = GenerateChainWithGenesis(genesis, 1, nil)
		genesisBlock = genesis.ToBlock()
	)
	fork, _ := GenerateChain(genesis.Config, genesisBlock, db, 3, func(i int, gen *BlockGen) {
		gen.SetCoinbase(common.Address{byte(i + 1)})
	})
	chain, _ := newTestChain(t, genesis)
	_, err := chain.InsertBlock(main[0])
	require.NoError(t, err)

	withUncles := func(uncles ...*types.Header) *types.Block {
		header := &types.Header{Number: 3, ParentHash: common.Hash{9}, Difficulty: big.NewInt(1)}
		return types.NewBlock(header, &types.Body{Uncles: uncles})
	}
	validator := chain.Validator()
	tests := []struct {
		name   string
		uncles []*types.Header
		want   error
	}{
		{"duplicate", []*types.Header{fork[0].Header(), fork[0].Header()}, ErrDuplicateUncle},
		{"too many", []*types.Header{fork[0].Header(), fork[1].Header(), main[0].Header()}, ErrTooManyUncles},
		{"ancestor", []*types.Header{main[0].Header()}, ErrBadUncle},
		{"not older", []*types.Header{fork[2].Header()}, ErrBadUncle},
		{"unknown parent", []*types.Header{fork[1].Header()}, ErrBadUncle},
	}
	for _, tt := range tests {
		err := validator.ValidateBody(withUncles(tt.uncles...))
		require.ErrorIs(t, err, tt.want, tt.name)
	}
	require.NoError(t, validator.ValidateBody(withUncles(fork[0].Header())))
}

func TestReopenChain(t *testing.T) {
	genesis := newTestGenesis()
	_, blocks, _ := GenerateChainWithGenesis(genesis, 3, transfers)

	db := rawdb.NewMemoryDatabase()
	chain, err := NewBlockChain(db, nil, genesis, vm.Config{})
	require.NoError(t, err)
	_, err = chain.InsertChain(blocks)
	require.NoError(t, err)
	chain.Stop()

	reopened, err := NewBlockChain(db, nil, nil, vm.Config{})
	require.NoError(t, err)
	defer reopened.Stop()
	require.Equal(t, blocks[2].Hash(), reopened.CurrentBlock().Hash())
	require.Equal(t, genesis.Config, reopened.Config())

	statedb, err := reopened.State()
	require.NoError(t, err)
	require.Equal(t, uint64(3), statedb.GetNonce(testAddr))
}

func TestSetupGenesisMismatch(t *testing.T) {
	db := rawdb.NewMemoryDatabase()
	tdb := triedb.New(db, nil)
	genesis := newTestGenesis()

	config, hash, err := SetupGenesisBlock(db, tdb, genesis)
	require.NoError(t, err)
	require.Equal(t, genesis.ToBlock().Hash(), hash)
	require.Equal(t, genesis.Config, config)

	// same genesis again is fine, a different one is not
	_, _, err = SetupGenesisBlock(db, tdb, genesis)
	require.NoError(t, err)

	other := DeveloperGenesisBlock(recipient, testBalance)
	_, _, err = SetupGenesisBlock(db, tdb, other)
	var mismatch *GenesisMismatchError
	require.True(t, errors.As(err, &mismatch))
	require.Equal(t, hash, mismatch.Stored)
}

func TestGenesisContractAlloc(t *testing.T) {
	contract := common.HexToAddress("0xc0de")
	genesis := newTestGenesis()
	genesis.Alloc[contract] = GenesisAccount{
		Balance: uint256.NewInt(9),
		Code:    []uint256.Int{*uint256.NewInt(1), {}, *uint256.NewInt(3)},
	}
	chain, _ := newTestChain(t, genesis)
	statedb, err := chain.State()
	require.NoError(t, err)
	require.True(t, statedb.IsContract(contract))
	require.Equal(t, 2, statedb.StorageSize(contract))
	require.Equal(t, uint256.NewInt(3), statedb.GetStorage(contract, uint256.NewInt(2)))
	require.Equal(t, uint256.NewInt(9), statedb.GetBalance(contract))
	require.Equal(t, genesis.ToBlock().Root(), chain.Genesis().Root())
}

func TestExportChain(t *testing.T) {
	genesis := newTestGenesis()
	_, blocks, _ := GenerateChainWithGenesis(genesis, 2, transfers)
	chain, _ := newTestChain(t, genesis)
	_, err := chain.InsertChain(blocks)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, chain.Export(&buf))

	var (
		rest   = buf.Bytes()
		hashes []common.Hash
	)
	for len(rest) > 0 {
		_, tail, err := rlp.SplitList(rest)
		require.NoError(t, err)
		block, err := types.DecodeBlock(rest[:len(rest)-len(tail)])
		require.NoError(t, err)
		hashes = append(hashes, block.Hash())
		rest = tail
	}
	require.Equal(t, []common.Hash{chain.Genesis().Hash(), blocks[0].Hash(), blocks[1].Hash()}, hashes)
}

func TestInsertAfterStop(t *testing.T) {
	genesis := newTestGenesis()
	_, blocks, _ := GenerateChainWithGenesis(genesis, 1, transfers)

	chain, _ := newTestChain(t, genesis)
	chain.Stop()
	chain.Stop()

	_, err := chain.InsertBlock(blocks[0])
	require.ErrorIs(t, err, errChainStopped)
	_, err = chain.InsertChain(blocks)
	require.ErrorIs(t, err, errChainStopped)
	require.Equal(t, uint64(0), chain.CurrentBlock().Number)
}
