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

package node

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/sunyihoo/go-ledger/core/rawdb"
	"github.com/sunyihoo/go-ledger/ethdb"
	"github.com/sunyihoo/go-ledger/log"
)

// Node is a container on which the chain databases of a ledger instance live.
// Node 持有实例目录锁以及通过它打开的数据库。
type Node struct {
	config  *Config
	log     log.Logger
	dirLock *flock.Flock // prevents concurrent use of instance directory

	lock      sync.Mutex
	closed    bool
	databases map[*closeTrackingDB]struct{} // All open databases
}

// New creates a node and acquires the lock on its instance directory.
func New(conf *Config) (*Node, error) {
	// Copy config and resolve the datadir so future changes to the current
	// working directory don't affect the node.
	confCopy := *conf
	conf = &confCopy
	if conf.DataDir != "" {
		absdatadir, err := filepath.Abs(conf.DataDir)
		if err != nil {
			return nil, err
		}
		conf.DataDir = absdatadir
	}
	if conf.Logger == nil {
		conf.Logger = log.New()
	}
	if strings.ContainsAny(conf.Name, `/\`) {
		return nil, errors.New(`Config.Name must not contain '/' or '\'`)
	}
	node := &Node{
		config:    conf,
		log:       conf.Logger,
		databases: make(map[*closeTrackingDB]struct{}),
	}
	if err := node.openDataDir(); err != nil {
		return nil, err
	}
	return node, nil
}

func (n *Node) openDataDir() error {
	if n.config.DataDir == "" {
		return nil // ephemeral
	}
	instdir := n.config.instanceDir()
	if err := os.MkdirAll(instdir, 0700); err != nil {
		return err
	}
	// Lock the instance directory to prevent concurrent use by another instance as well as
	// accidental use of the instance directory as a database.
	n.dirLock = flock.New(filepath.Join(instdir, "LOCK"))

	if locked, err := n.dirLock.TryLock(); err != nil {
		return convertFileLockError(err)
	} else if !locked {
		return ErrDatadirUsed
	}
	return nil
}

// Config returns the configuration of node.
func (n *Node) Config() *Config {
	return n.config
}

// DataDir retrieves the current datadir used by the node.
func (n *Node) DataDir() string {
	return n.config.DataDir
}

// ResolvePath returns the absolute path of a resource in the instance directory.
func (n *Node) ResolvePath(x string) string {
	return n.config.ResolvePath(x)
}

// OpenDatabase opens an existing database with the given name (or creates one if no
// previous can be found) from within the node's instance directory. If the node is
// ephemeral, a memory database is returned.
//
// OpenDatabase 在实例目录下打开（或创建）数据库，临时节点返回内存数据库。
func (n *Node) OpenDatabase(name string, cache, handles int, readonly bool) (ethdb.KeyValueStore, error) {
	n.lock.Lock()
	defer n.lock.Unlock()
	if n.closed {
		return nil, ErrNodeStopped
	}
	var (
		db  ethdb.KeyValueStore
		err error
	)
	if n.config.DataDir == "" {
		db = rawdb.NewMemoryDatabase()
	} else {
		db, err = rawdb.Open(rawdb.OpenOptions{
			Type:      n.config.DBEngine,
			Directory: n.ResolvePath(name),
			Cache:     cache,
			Handles:   handles,
			ReadOnly:  readonly,
		})
	}
	if err != nil {
		return nil, err
	}
	wrapper := &closeTrackingDB{db, n}
	n.databases[wrapper] = struct{}{}
	return wrapper, nil
}

// Close closes every database still open and releases the instance directory.
// Close 关闭所有仍打开的数据库并释放目录锁。
func (n *Node) Close() error {
	n.lock.Lock()
	if n.closed {
		n.lock.Unlock()
		return ErrNodeStopped
	}
	n.closed = true
	var errs []error
	for db := range n.databases {
		delete(n.databases, db)
		if err := db.KeyValueStore.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	n.lock.Unlock()

	if n.dirLock != nil && n.dirLock.Locked() {
		if err := n.dirLock.Unlock(); err != nil {
			n.log.Error("Can't release datadir lock", "err", err)
			errs = append(errs, err)
		}
		n.dirLock = nil
	}
	return errors.Join(errs...)
}

// closeTrackingDB wraps the Close method of a database. When the database is closed by the
// caller, the wrapper removes it from the node's database map so that Close doesn't
// close it a second time.
type closeTrackingDB struct {
	ethdb.KeyValueStore
	n *Node
}

func (db *closeTrackingDB) Close() error {
	db.n.lock.Lock()
	delete(db.n.databases, db)
	db.n.lock.Unlock()
	return db.KeyValueStore.Close()
}
