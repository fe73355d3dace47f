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
	"fmt"
	"os"
	"path/filepath"

	"github.com/sunyihoo/go-ledger/ethdb"
	"github.com/sunyihoo/go-ledger/ethdb/leveldb"
	"github.com/sunyihoo/go-ledger/ethdb/memorydb"
	"github.com/sunyihoo/go-ledger/ethdb/pebble"
	"github.com/sunyihoo/go-ledger/log"
)

const (
	DBPebble  = "pebble"
	DBLeveldb = "leveldb"
)

// NewMemoryDatabase creates an ephemeral in-memory key-value database.
func NewMemoryDatabase() ethdb.KeyValueStore {
	return memorydb.New()
}

// OpenOptions contains the options to apply when opening a database.
// OpenOptions 包含打开数据库时使用的选项。
type OpenOptions struct {
	Type      string // "leveldb" | "pebble", empty picks the existing one or pebble
	Directory string // the datadir
	Cache     int    // the capacity(in megabytes) of the data caching
	Handles   int    // number of files to be open simultaneously
	ReadOnly  bool
}

// Open opens a disk-based key-value database. An existing database keeps its
// engine; asking for a different one is an error.
//
// Open 打开基于磁盘的键值数据库，已存在的数据库保持原有引擎。
func Open(o OpenOptions) (ethdb.KeyValueStore, error) {
	existingDb := PreexistingDatabase(o.Directory)
	if len(existingDb) != 0 && len(o.Type) != 0 && o.Type != existingDb {
		return nil, fmt.Errorf("db.engine choice was %v but found pre-existing %v database in specified data directory", o.Type, existingDb)
	}
	dbType := o.Type
	if dbType == "" {
		dbType = existingDb
	}
	switch dbType {
	case DBLeveldb:
		log.Info("Using leveldb as the backing database")
		return leveldb.New(o.Directory, o.Cache, o.Handles, o.ReadOnly)
	case DBPebble, "":
		log.Info("Using pebble as the backing database")
		return pebble.New(o.Directory, o.Cache, o.Handles, o.ReadOnly)
	default:
		return nil, fmt.Errorf("unknown db.engine %q", dbType)
	}
}

// PreexistingDatabase checks the given data directory whether a database is already
// instantiated at that location, and if so, returns the type of database (or the
// empty string).
func PreexistingDatabase(path string) string {
	if _, err := os.Stat(filepath.Join(path, "CURRENT")); err != nil {
		return "" // No pre-existing db
	}
	if matches, err := filepath.Glob(filepath.Join(path, "OPTIONS*")); len(matches) > 0 || err != nil {
		if err != nil {
			panic(err) // only possible if the pattern is malformed
		}
		return DBPebble
	}
	return DBLeveldb
}
