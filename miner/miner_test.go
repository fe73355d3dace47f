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
	"crypto/ecdsa"
	"testing"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core"
	"github.com/sunyihoo/go-ledger/core/rawdb"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/core/vm"
	"github.com/sunyihoo/go-ledger/crypto"
	"github.com/sunyihoo/go-ledger/params"
	"github.com/stretchr/testify/require"
)

var (
	keyA, _ = crypto.HexToECDSA("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	keyB, _ = crypto.HexToECDSA("8a1f9a8f95be41cd7ccb6168179afb4504aefe388d1e14474d32c45c72ce7b7a")
	addrA   = crypto.PubkeyToAddress(keyA.PublicKey)
	addrB   = crypto.PubkeyToAddress(keyB.PublicKey)

	coinbase = common.HexToAddress("0xc014ba5e")
	sink     = common.HexToAddress("0x5141c")
)

func newTestMiner(t *testing.T) (*Miner, *core.BlockChain) {
	t.Helper()
	genesis := core.DeveloperGenesisBlock(addrA, uint256.NewInt(1_000_000))
	genesis.Alloc[addrB] = core.GenesisAccount{Balance: uint256.NewInt(1_000_000)}

	chain, err := core.NewBlockChain(rawdb.NewMemoryDatabase(), nil, genesis, vm.Config{})
	require.NoError(t, err)
	t.Cleanup(chain.Stop)
	return New(chain, Config{Coinbase: coinbase, ExtraData: []byte("test")}), chain
}

func transfer(key *ecdsa.PrivateKey, nonce, fee uint64) *types.Transaction {
	return types.MustSignNewTx(key, types.FrontierSigner{}, &types.TxData{
		Nonce: nonce,
		To:    &sink,
		Value: uint256.NewInt(1),
		Fee:   uint256.NewInt(fee),
	})
}

func TestOrderingByFeeAndNonce(t *testing.T) {
	var (
		a0 = transfer(keyA, 0, 100)
		a1 = transfer(keyA, 1, 500)
		b0 = transfer(keyB, 0, 300)
		b1 = transfer(keyB, 1, 300)
	)
	set := newTransactionsByFeeAndNonce([]*types.Transaction{a1, b1, a0, b0})

	var got []*types.Transaction
	for !set.Empty() {
		got = append(got, set.Peek())
		set.Shift()
	}
	require.Equal(t, []*types.Transaction{b0, b1, a0, a1}, got)
}

func TestOrderingPopDiscardsAccount(t *testing.T) {
	unsigned := types.NewTx(&types.TxData{To: &sink, Value: uint256.NewInt(1), Fee: uint256.NewInt(1000)})
	set := newTransactionsByFeeAndNonce([]*types.Transaction{
		transfer(keyA, 0, 900), transfer(keyA, 1, 100), transfer(keyA, 2, 100), transfer(keyB, 0, 200), unsigned,
	})
	require.Equal(t, 1, set.Discarded())

	require.Equal(t, uint64(900), set.Peek().Fee().Uint64())
	set.Pop()
	require.Equal(t, 3, set.Discarded())
	require.Equal(t, uint64(200), set.Peek().Fee().Uint64())
	set.Shift()
	require.True(t, set.Empty())
	require.Nil(t, set.Peek())
}

func TestBuildBlock(t *testing.T) {
	miner, chain := newTestMiner(t)
	var (
		a0  = transfer(keyA, 0, 100)
		a1  = transfer(keyA, 1, 500)
		b0  = transfer(keyB, 0, 300)
		gap = transfer(keyB, 5, 900) // nonce gap, dropped
	)
	block, receipts, err := miner.BuildBlock([]*types.Transaction{a1, gap, a0, b0}, nil, 10)
	require.NoError(t, err)
	require.Equal(t, types.Transactions{b0, a0, a1}, block.Transactions())
	require.Len(t, receipts, 3)
	require.Equal(t, coinbase, block.Coinbase())
	require.Equal(t, []byte("test"), block.Extra())
	require.Equal(t, uint64(1), block.NumberU64())

	// nothing is written until the block is inserted
	require.Equal(t, chain.Genesis().Hash(), chain.CurrentBlock().Hash())
	_, err = chain.InsertBlock(block)
	require.NoError(t, err)

	statedb, err := chain.State()
	require.NoError(t, err)
	want := new(uint256.Int).Add(params.DefaultConfig.BlockReward(1), uint256.NewInt(100+500+300))
	require.Equal(t, want, statedb.GetBalance(coinbase))
}

func TestMine(t *testing.T) {
	miner, chain := newTestMiner(t)
	miner.config.MaxTxs = 1

	first, err := miner.Mine([]*types.Transaction{transfer(keyA, 0, 100), transfer(keyA, 1, 100)}, nil, 10)
	require.NoError(t, err)
	require.Len(t, first.Transactions(), 1)

	miner.SetCoinbase(sink)
	second, err := miner.Mine(nil, nil, 20)
	require.NoError(t, err)
	require.Equal(t, second.Hash(), chain.CurrentBlock().Hash())
	require.Equal(t, first.Hash(), second.ParentHash())
	require.Equal(t, sink, second.Coinbase())

	_, _, err = miner.BuildBlock(nil, nil, 5)
	require.ErrorIs(t, err, errTimestampBeforeParent)
}
