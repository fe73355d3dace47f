// Copyright 2019 The go-ethereum Authors
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

// Package dbtest holds the conformance suite every KeyValueStore backend runs.
package dbtest

import (
	"testing"

	"github.com/sunyihoo/go-ledger/ethdb"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSuite runs a suite of tests against a KeyValueStore database
// implementation.
func TestDatabaseSuite(t *testing.T, New func() ethdb.KeyValueStore) {
	t.Run("KeyValueOperations", func(t *testing.T) {
		db := New()
		defer db.Close()

		key := []byte("foo")

		got, err := db.Has(key)
		require.NoError(t, err)
		require.False(t, got)

		_, err = db.Get(key)
		require.True(t, ethdb.IsNotFound(err), "miss should be ErrNotFound, got %v", err)

		value := []byte("hello world")
		require.NoError(t, db.Put(key, value))

		got, err = db.Has(key)
		require.NoError(t, err)
		require.True(t, got)

		item, err := db.Get(key)
		require.NoError(t, err)
		require.Equal(t, value, item)

		// overwrite
		require.NoError(t, db.Put(key, []byte("bar")))
		item, err = db.Get(key)
		require.NoError(t, err)
		require.Equal(t, []byte("bar"), item)

		require.NoError(t, db.Delete(key))
		got, err = db.Has(key)
		require.NoError(t, err)
		require.False(t, got)

		// deleting an absent key is not an error
		require.NoError(t, db.Delete([]byte("absent")))
	})

	t.Run("Batch", func(t *testing.T) {
		db := New()
		defer db.Close()

		b := db.NewBatch()
		for _, k := range []string{"1", "2", "3", "4"} {
			require.NoError(t, b.Put([]byte(k), nil))
		}
		if has, err := db.Has([]byte("1")); err != nil {
			t.Fatal(err)
		} else if has {
			t.Error("db contains element before batch write")
		}
		require.NoError(t, b.Write())
		for _, k := range []string{"1", "2", "3", "4"} {
			has, err := db.Has([]byte(k))
			require.NoError(t, err)
			require.True(t, has, "key %s missing after batch write", k)
		}

		b.Reset()
		require.Equal(t, 0, b.ValueSize())
		require.NoError(t, b.Delete([]byte("2")))
		require.NoError(t, b.Put([]byte("5"), []byte("five")))
		require.NoError(t, b.Write())

		has, err := db.Has([]byte("2"))
		require.NoError(t, err)
		require.False(t, has)
		v, err := db.Get([]byte("5"))
		require.NoError(t, err)
		require.Equal(t, []byte("five"), v)
	})

	t.Run("BatchReplay", func(t *testing.T) {
		db := New()
		defer db.Close()

		want := []string{"1", "2", "3", "4"}
		b := db.NewBatch()
		for _, k := range want {
			require.NoError(t, b.Put([]byte(k), []byte("v"+k)))
		}
		b2 := db.NewBatch()
		require.NoError(t, b.Replay(b2))
		require.NoError(t, b2.Replay(db))
		for _, k := range want {
			v, err := db.Get([]byte(k))
			require.NoError(t, err)
			require.Equal(t, []byte("v"+k), v)
		}
	})
}
