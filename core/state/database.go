// Copyright 2017 The go-ethereum Authors
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

package state

import (
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/ethdb"
	"github.com/sunyihoo/go-ledger/ethdb/memorydb"
	"github.com/sunyihoo/go-ledger/trie"
	"github.com/sunyihoo/go-ledger/triedb"
)

// Database wraps access to tries.
// Database 封装了对世界状态树和合约存储树的访问。
type Database interface {
	// OpenTrie opens the main account trie.
	OpenTrie(root common.Hash) (*trie.Trie, error)

	// OpenStorageTrie opens the storage trie of a contract account.
	OpenStorageTrie(addr common.Address, root common.Hash) (*trie.Trie, error)

	// TrieDB returns the underlying trie database for managing trie nodes.
	TrieDB() *triedb.Database
}

// CachingDB is an implementation of Database interface. All tries share one
// node database and therefore one clean cache.
type CachingDB struct {
	disk   ethdb.KeyValueStore
	triedb *triedb.Database
}

// NewDatabase creates a state database with the provided node database.
func NewDatabase(triedb *triedb.Database) *CachingDB {
	return &CachingDB{disk: triedb.Disk(), triedb: triedb}
}

// NewDatabaseForTesting is similar to NewDatabase, but it initializes the caching
// db by using an ephemeral memory db with default config for testing.
func NewDatabaseForTesting() *CachingDB {
	return NewDatabase(triedb.New(memorydb.New(), nil))
}

// OpenTrie opens the main account trie at a specific root hash.
func (db *CachingDB) OpenTrie(root common.Hash) (*trie.Trie, error) {
	return trie.New(root, db.triedb)
}

// OpenStorageTrie opens the storage trie of an account.
func (db *CachingDB) OpenStorageTrie(addr common.Address, root common.Hash) (*trie.Trie, error) {
	return trie.New(root, db.triedb)
}

// TrieDB retrieves any intermediate trie-node caching layer.
func (db *CachingDB) TrieDB() *triedb.Database {
	return db.triedb
}

// DiskDB returns the underlying key-value disk database.
func (db *CachingDB) DiskDB() ethdb.KeyValueStore {
	return db.disk
}
