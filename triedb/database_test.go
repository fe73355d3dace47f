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
package triedb

import (
	"testing"

	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/crypto"
	"github.com/sunyihoo/go-ledger/ethdb/memorydb"
	"github.com/stretchr/testify/require"
)

func TestDirtyThenCommit(t *testing.T) {
	disk := memorydb.New()
	db := New(disk, nil)

	blob := []byte("some node blob that is longer than thirty-two bytes")
	hash := crypto.Keccak256Hash(blob)
	require.NoError(t, db.Update(map[common.Hash][]byte{hash: blob}))

	// visible from the dirty set, not on disk yet
	got, err := db.Node(hash)
	require.NoError(t, err)
	require.Equal(t, blob, got)
	require.Equal(t, 0, disk.Len())
	require.Equal(t, 1, db.Stats().Dirties)

	require.NoError(t, db.Commit())
	require.Equal(t, 1, disk.Len())
	require.Equal(t, 0, db.Stats().Dirties)

	got, err = db.Node(hash)
	require.NoError(t, err)
	require.Equal(t, blob, got)
	require.Equal(t, uint64(1), db.Stats().CleanHits)
}

func TestNodeReadThroughCache(t *testing.T) {
	disk := memorydb.New()
	blob := []byte{0xc2, 0x01, 0x02}
	hash := crypto.Keccak256Hash(blob)
	require.NoError(t, disk.Put(hash[:], blob))

	db := New(disk, &Config{CleanCacheSize: 1024 * 1024})
	for i := 0; i < 3; i++ {
		got, err := db.Node(hash)
		require.NoError(t, err)
		require.Equal(t, blob, got)
	}
	stats := db.Stats()
	require.Equal(t, uint64(1), stats.CleanMisses)
	require.Equal(t, uint64(2), stats.CleanHits)
}

func TestMissingNode(t *testing.T) {
	db := New(memorydb.New(), &Config{})
	_, err := db.Node(common.HexToHash("0x01"))
	require.ErrorIs(t, err, ErrNodeNotFound)
	_, err = db.Node(common.Hash{})
	require.ErrorIs(t, err, ErrNodeNotFound)
	require.False(t, db.Has(common.HexToHash("0x01")))
}
