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
// Package triedb holds trie nodes between a trie commit and the backing
// key-value store. Committed nodes stay in a dirty set until Commit flushes
// them in batches; nodes read back from disk are kept in a clean cache.
//
// triedb 在 trie 提交与底层键值存储之间保存 trie 节点。
package triedb

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/ethdb"
	"github.com/sunyihoo/go-ledger/log"
)

// ErrNodeNotFound is returned when neither the dirty set nor the disk holds
// the requested node.
var ErrNodeNotFound = errors.New("trie node not found")

// Config defines all necessary options for database.
type Config struct {
	CleanCacheSize int // Maximum memory allowance (in bytes) for caching clean nodes
}

// Defaults is the default setting for database if it's not specified.
var Defaults = &Config{
	CleanCacheSize: 16 * 1024 * 1024,
}

// Stats is a snapshot of the cache counters.
type Stats struct {
	CleanHits   uint64
	CleanMisses uint64
	DirtyHits   uint64
	Dirties     int
	DirtySize   common.StorageSize
}

// Database is an intermediate write layer between the trie data structures and
// the disk database. Writes are accumulated in memory and only periodically
// flushed to disk.
//
// Database 是 trie 与磁盘数据库之间的中间写入层，写入先在内存中累积。
type Database struct {
	diskdb  ethdb.KeyValueStore    // Persistent storage for matured trie nodes
	cleans  *fastcache.Cache       // GC friendly memory cache of clean node RLPs
	dirties map[common.Hash][]byte // Nodes committed by tries but not yet flushed

	dirtiesSize common.StorageSize

	cleanHits   atomic.Uint64
	cleanMisses atomic.Uint64
	dirtyHits   atomic.Uint64

	lock sync.RWMutex
	log  log.Logger
}

// New initializes the node database over the given key-value store. A nil
// config uses Defaults, a zero CleanCacheSize disables the clean cache.
func New(diskdb ethdb.KeyValueStore, config *Config) *Database {
	if config == nil {
		config = Defaults
	}
	var cleans *fastcache.Cache
	if config.CleanCacheSize > 0 {
		cleans = fastcache.New(config.CleanCacheSize)
	}
	return &Database{
		diskdb:  diskdb,
		cleans:  cleans,
		dirties: make(map[common.Hash][]byte),
		log:     log.New("module", "triedb"),
	}
}

// Disk returns the underlying key-value store.
func (db *Database) Disk() ethdb.KeyValueStore {
	return db.diskdb
}

// Node retrieves an encoded trie node by hash.
// Node 按哈希检索编码后的 trie 节点：先查干净缓存，再查脏集合，最后查磁盘。
func (db *Database) Node(hash common.Hash) ([]byte, error) {
	if hash == (common.Hash{}) {
		return nil, ErrNodeNotFound
	}
	if db.cleans != nil {
		if enc := db.cleans.Get(nil, hash[:]); enc != nil {
			db.cleanHits.Add(1)
			return enc, nil
		}
	}
	db.lock.RLock()
	dirty := db.dirties[hash]
	db.lock.RUnlock()
	if dirty != nil {
		db.dirtyHits.Add(1)
		return dirty, nil
	}
	enc, err := db.diskdb.Get(hash[:])
	if err != nil {
		if ethdb.IsNotFound(err) {
			return nil, ErrNodeNotFound
		}
		return nil, err
	}
	if len(enc) == 0 {
		return nil, ErrNodeNotFound
	}
	if db.cleans != nil {
		db.cleans.Set(hash[:], enc)
		db.cleanMisses.Add(1)
	}
	return enc, nil
}

// Has reports whether the node is reachable through this database.
func (db *Database) Has(hash common.Hash) bool {
	_, err := db.Node(hash)
	return err == nil
}

// Update inserts the nodes produced by a trie commit into the dirty set.
// Nodes are immutable under their hash, so re-inserting one is a no-op.
func (db *Database) Update(nodes map[common.Hash][]byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	for hash, blob := range nodes {
		if _, ok := db.dirties[hash]; ok {
			continue
		}
		db.dirties[hash] = blob
		db.dirtiesSize += common.StorageSize(common.HashLength + len(blob))
	}
	return nil
}

// Commit flushes every dirty node to disk. Nodes written are moved into the
// clean cache on the way out.
//
// Commit 将所有脏节点刷入磁盘，写出的节点同时进入干净缓存。
func (db *Database) Commit() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if len(db.dirties) == 0 {
		return nil
	}
	batch := ethdb.HookedBatch{
		Batch: db.diskdb.NewBatch(),
		OnPut: func(key []byte, value []byte) {
			if db.cleans != nil {
				db.cleans.Set(key, value)
			}
		},
	}
	nodes, size := len(db.dirties), db.dirtiesSize
	for hash, blob := range db.dirties {
		if err := batch.Put(hash[:], blob); err != nil {
			return err
		}
		if batch.ValueSize() >= ethdb.IdealBatchSize {
			if err := batch.Write(); err != nil {
				return err
			}
			batch.Reset()
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	db.dirties = make(map[common.Hash][]byte)
	db.dirtiesSize = 0
	db.log.Debug("Persisted trie nodes", "nodes", nodes, "size", size)
	return nil
}

// Stats returns the current cache counters.
func (db *Database) Stats() Stats {
	db.lock.RLock()
	defer db.lock.RUnlock()
	return Stats{
		CleanHits:   db.cleanHits.Load(),
		CleanMisses: db.cleanMisses.Load(),
		DirtyHits:   db.dirtyHits.Load(),
		Dirties:     len(db.dirties),
		DirtySize:   db.dirtiesSize,
	}
}

// Close releases the clean cache. The disk database is owned by the caller.
func (db *Database) Close() {
	if db.cleans != nil {
		db.cleans.Reset()
	}
}
