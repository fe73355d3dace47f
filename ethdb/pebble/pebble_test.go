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

package pebble

import (
	"testing"

	"github.com/sunyihoo/go-ledger/ethdb"
	"github.com/sunyihoo/go-ledger/ethdb/dbtest"
	"github.com/stretchr/testify/require"
)

func TestPebbleDB(t *testing.T) {
	t.Run("DatabaseSuite", func(t *testing.T) {
		dbtest.TestDatabaseSuite(t, func() ethdb.KeyValueStore {
			db, err := NewMemory()
			if err != nil {
				t.Fatal(err)
			}
			return db
		})
	})
}

func TestPebbleDoubleClose(t *testing.T) {
	db, err := New(t.TempDir(), 0, 0, false)
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("a"), []byte("b")))
	require.NoError(t, db.Close())
	require.NoError(t, db.Close())

	_, err = db.Get([]byte("a"))
	require.Error(t, err)
}
