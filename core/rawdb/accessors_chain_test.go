// Copyright 2018 The go-ethereum Authors
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

package rawdb

import (
	"math/big"
	"testing"

	"github.com/golang/snappy"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/crypto"
	"github.com/sunyihoo/go-ledger/params"
)

func testBlock(t *testing.T) *types.Block {
	t.Helper()
	key, err := crypto.HexToECDSA("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	require.NoError(t, err)
	to := common.HexToAddress("0xb94f5374fce5edbc8e2a8697c15331677e6ebf0b")
	tx := types.MustSignNewTx(key, types.FrontierSigner{}, &types.TxData{
		Nonce: 1,
		To:    &to,
		Value: uint256.NewInt(10),
		Fee:   uint256.NewInt(100),
		Data:  []uint256.Int{*uint256.NewInt(7)},
	})
	uncle := &types.Header{Number: 2, Difficulty: big.NewInt(5), Extra: []byte("uncle")}
	header := &types.Header{
		Number:     3,
		Coinbase:   to,
		Difficulty: big.NewInt(131072),
		Time:       1400000000,
		Extra:      []byte("test block"),
	}
	return types.NewBlock(header, &types.Body{Transactions: []*types.Transaction{tx}, Uncles: []*types.Header{uncle}})
}

// Tests block header storage and retrieval operations.
func TestHeaderStorage(t *testing.T) {
	db := NewMemoryDatabase()

	header := &types.Header{Number: 42, Difficulty: big.NewInt(1), Extra: []byte("test header")}
	require.Nil(t, ReadHeader(db, header.Hash(), header.Number))

	WriteHeader(db, header)
	entry := ReadHeader(db, header.Hash(), header.Number)
	require.NotNil(t, entry)
	require.Equal(t, header.Hash(), entry.Hash())
	require.True(t, HasHeader(db, header.Hash(), header.Number))

	number := ReadHeaderNumber(db, header.Hash())
	require.NotNil(t, number)
	require.Equal(t, uint64(42), *number)

	DeleteHeader(db, header.Hash(), header.Number)
	require.Nil(t, ReadHeader(db, header.Hash(), header.Number))
	require.Nil(t, ReadHeaderNumber(db, header.Hash()))
}

// Tests block body storage and retrieval operations.
func TestBodyStorage(t *testing.T) {
	db := NewMemoryDatabase()
	block := testBlock(t)
	hash, number := block.Hash(), block.NumberU64()

	require.Nil(t, ReadBody(db, hash, number))
	WriteBody(db, hash, number, block.Body())
	require.True(t, HasBody(db, hash, number))

	body := ReadBody(db, hash, number)
	require.NotNil(t, body)
	require.Len(t, body.Transactions, 1)
	require.Equal(t, block.Transactions()[0].Hash(), body.Transactions[0].Hash())
	require.Equal(t, types.CalcUncleHash(body.Uncles), block.UncleHash())

	// bodies are compressed on disk
	raw, err := db.Get(blockBodyKey(number, hash))
	require.NoError(t, err)
	dec, err := snappy.Decode(nil, raw)
	require.NoError(t, err)
	require.Equal(t, ReadBodyRLP(db, hash, number), dec)

	DeleteBody(db, hash, number)
	require.Nil(t, ReadBody(db, hash, number))
}

// Tests block storage and retrieval operations.
func TestBlockStorage(t *testing.T) {
	db := NewMemoryDatabase()
	block := testBlock(t)

	require.Nil(t, ReadBlock(db, block.Hash(), block.NumberU64()))
	WriteBlock(db, block)

	entry := ReadBlock(db, block.Hash(), block.NumberU64())
	require.NotNil(t, entry)
	require.Equal(t, block.Hash(), entry.Hash())
	require.Equal(t, types.EncodeBlock(block), types.EncodeBlock(entry))

	// a header without its body is not a block
	DeleteBody(db, block.Hash(), block.NumberU64())
	require.Nil(t, ReadBlock(db, block.Hash(), block.NumberU64()))

	WriteBlock(db, block)
	DeleteBlock(db, block.Hash(), block.NumberU64())
	require.Nil(t, ReadHeader(db, block.Hash(), block.NumberU64()))
}

func TestCanonicalAndHead(t *testing.T) {
	db := NewMemoryDatabase()
	block := testBlock(t)

	require.Equal(t, common.Hash{}, ReadCanonicalHash(db, block.NumberU64()))
	require.Nil(t, ReadHeadBlock(db))

	WriteBlock(db, block)
	WriteCanonicalHash(db, block.Hash(), block.NumberU64())
	WriteHeadBlockHash(db, block.Hash())

	require.Equal(t, block.Hash(), ReadCanonicalHash(db, block.NumberU64()))
	require.Equal(t, block.Hash(), ReadHeadBlockHash(db))
	head := ReadHeadBlock(db)
	require.NotNil(t, head)
	require.Equal(t, block.Hash(), head.Hash())

	DeleteCanonicalHash(db, block.NumberU64())
	require.Equal(t, common.Hash{}, ReadCanonicalHash(db, block.NumberU64()))
}

func TestMetadata(t *testing.T) {
	db := NewMemoryDatabase()
	require.Nil(t, ReadDatabaseVersion(db))
	WriteDatabaseVersion(db, 3)
	require.Equal(t, uint64(3), *ReadDatabaseVersion(db))

	hash := common.HexToHash("0x01")
	require.Nil(t, ReadChainConfig(db, hash))
	WriteChainConfig(db, hash, params.DefaultConfig)
	require.Equal(t, params.DefaultConfig, ReadChainConfig(db, hash))
}

func TestOpenEngines(t *testing.T) {
	for _, engine := range []string{DBLeveldb, DBPebble} {
		t.Run(engine, func(t *testing.T) {
			dir := t.TempDir()
			db, err := Open(OpenOptions{Type: engine, Directory: dir, Cache: 16, Handles: 16})
			require.NoError(t, err)
			require.NoError(t, db.Put([]byte("k"), []byte("v")))
			require.NoError(t, db.Close())
			require.Equal(t, engine, PreexistingDatabase(dir))

			other := DBPebble
			if engine == DBPebble {
				other = DBLeveldb
			}
			_, err = Open(OpenOptions{Type: other, Directory: dir})
			require.Error(t, err)
		})
	}
}
