// Copyright 2023 The go-ethereum Authors
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

package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core"
	"github.com/sunyihoo/go-ledger/core/rawdb"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/core/vm"
	"github.com/sunyihoo/go-ledger/crypto"
	"github.com/sunyihoo/go-ledger/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testKey, _ = crypto.HexToECDSA("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	testAddr   = crypto.PubkeyToAddress(testKey.PublicKey)
	sink       = common.HexToAddress("0x00000000000000000000000000000000deadbeef")
)

func newChain(t *testing.T, genesis *core.Genesis) *core.BlockChain {
	chain, err := core.NewBlockChain(rawdb.NewMemoryDatabase(), nil, genesis, vm.Config{})
	require.NoError(t, err)
	t.Cleanup(chain.Stop)
	return chain
}

func makeBlocks(genesis *core.Genesis, n int) []*types.Block {
	_, blocks, _ := core.GenerateChainWithGenesis(genesis, n, func(i int, gen *core.BlockGen) {
		gen.AddTx(types.MustSignNewTx(testKey, types.FrontierSigner{}, &types.TxData{
			Nonce: gen.TxNonce(testAddr),
			To:    &sink,
			Value: uint256.NewInt(uint64(i + 1)),
			Fee:   uint256.NewInt(params.DefaultTxFee),
		}))
	})
	return blocks
}

func TestExportImportChain(t *testing.T) {
	for _, name := range []string{"chain.rlp", "chain.rlp.gz"} {
		t.Run(name, func(t *testing.T) {
			genesis := core.DeveloperGenesisBlock(testAddr, uint256.NewInt(params.Ether))
			blocks := makeBlocks(genesis, 5)

			source := newChain(t, genesis)
			_, err := source.InsertChain(blocks)
			require.NoError(t, err)

			file := filepath.Join(t.TempDir(), name)
			require.NoError(t, ExportChain(source, file))

			target := newChain(t, genesis)
			require.NoError(t, ImportChain(target, file))
			assert.Equal(t, source.CurrentBlock().Hash(), target.CurrentBlock().Hash())

			// A second import skips everything.
			require.NoError(t, ImportChain(target, file))
			assert.Equal(t, uint64(5), target.CurrentBlock().Number)
		})
	}
}

func TestExportAppendChain(t *testing.T) {
	genesis := core.DeveloperGenesisBlock(testAddr, uint256.NewInt(params.Ether))
	chain := newChain(t, genesis)
	_, err := chain.InsertChain(makeBlocks(genesis, 4))
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "chain.rlp")
	require.NoError(t, ExportAppendChain(chain, file, 1, 2))
	require.NoError(t, ExportAppendChain(chain, file, 3, 4))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	blocks, err := DecodeBlocks(data)
	require.NoError(t, err)
	require.Len(t, blocks, 4)
	for i, block := range blocks {
		assert.Equal(t, chain.GetBlockByNumber(uint64(i+1)).Hash(), block.Hash())
	}
}

func TestImportGenesisMismatch(t *testing.T) {
	genesis := core.DeveloperGenesisBlock(testAddr, uint256.NewInt(params.Ether))
	source := newChain(t, genesis)
	file := filepath.Join(t.TempDir(), "chain.rlp")
	require.NoError(t, ExportChain(source, file))

	other := core.DeveloperGenesisBlock(sink, uint256.NewInt(params.Ether))
	assert.ErrorContains(t, ImportChain(newChain(t, other), file), "genesis mismatch")
}

func TestReadTransactions(t *testing.T) {
	var data []byte
	for i := uint64(0); i < 3; i++ {
		tx := types.MustSignNewTx(testKey, types.FrontierSigner{}, &types.TxData{
			Nonce: i,
			To:    &sink,
			Value: uint256.NewInt(i),
			Fee:   uint256.NewInt(params.DefaultTxFee),
		})
		enc, err := tx.MarshalBinary()
		require.NoError(t, err)
		data = append(data, enc...)
	}
	file := filepath.Join(t.TempDir(), "txs.rlp")
	require.NoError(t, os.WriteFile(file, data, 0644))

	txs, err := ReadTransactions(file)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	for i, tx := range txs {
		assert.Equal(t, uint64(i), tx.Nonce())
		from, err := types.Sender(types.FrontierSigner{}, tx)
		require.NoError(t, err)
		assert.Equal(t, testAddr, from)
	}

	require.NoError(t, os.WriteFile(file, data[:len(data)-1], 0644))
	_, err = ReadTransactions(file)
	assert.Error(t, err)
}
