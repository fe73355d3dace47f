// Copyright 2014 The go-ethereum Authors
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

// Package state provides a caching layer atop the ledger state trie.
package state

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/log"
	"github.com/sunyihoo/go-ledger/trie"
)

// StateDB structs within the ledger protocol are used to store anything
// within the merkle trie. StateDBs take care of caching and storing
// nested states. It's the general query interface to retrieve:
//
// * Contracts
// * Accounts
//
// Account records live in the world trie keyed by the raw 20-byte address.
// Contract storage lives in one trie per contract whose root is kept in the
// account record. A missing record reads as an empty plain account.
//
// The tries stay usable after Commit, so one StateDB can carry on into the
// next block.
//
// StateDB 是世界状态的缓存层：账户记录以 20 字节地址为键存于世界树，
// 合约存储各自位于独立的存储树中。
type StateDB struct {
	db   Database
	trie *trie.Trie

	originalRoot common.Hash // The pre-state root, before any changes were made

	// This map holds 'live' objects, which will get modified while
	// processing a state transition.
	stateObjects      map[common.Address]*stateObject
	stateObjectsDirty map[common.Address]struct{}

	// DB error.
	// State objects are used by the consensus core and VM which are
	// unable to deal with database-level errors. Any error that occurs
	// during a database read is memoized here and will eventually be
	// returned by StateDB.Commit. Notably, this error is also shared
	// by all cached state objects in case the database failure occurs
	// when accessing state of accounts.
	dbErr error
}

// New creates a new state from a given trie.
func New(root common.Hash, db Database) (*StateDB, error) {
	tr, err := db.OpenTrie(root)
	if err != nil {
		return nil, err
	}
	return &StateDB{
		db:                db,
		trie:              tr,
		originalRoot:      root,
		stateObjects:      make(map[common.Address]*stateObject),
		stateObjectsDirty: make(map[common.Address]struct{}),
	}, nil
}

// setError remembers the first non-nil error it is called with.
func (s *StateDB) setError(err error) {
	if s.dbErr == nil {
		s.dbErr = err
	}
}

// Error returns the memorized database failure occurred earlier.
func (s *StateDB) Error() error {
	return s.dbErr
}

// Database retrieves the low level database supporting the lower level trie ops.
func (s *StateDB) Database() Database {
	return s.db
}

// OriginalRoot returns the root the state was opened at.
func (s *StateDB) OriginalRoot() common.Hash {
	return s.originalRoot
}

// Exist reports whether the given account address has a record in the state.
func (s *StateDB) Exist(addr common.Address) bool {
	return s.getStateObject(addr) != nil
}

// GetBalance retrieves the balance from the given address or 0 if object not found
func (s *StateDB) GetBalance(addr common.Address) *uint256.Int {
	stateObject := s.getStateObject(addr)
	if stateObject != nil {
		return new(uint256.Int).Set(stateObject.Balance())
	}
	return new(uint256.Int)
}

// GetNonce retrieves the nonce from the given address or 0 if object not found
func (s *StateDB) GetNonce(addr common.Address) uint64 {
	stateObject := s.getStateObject(addr)
	if stateObject != nil {
		return stateObject.Nonce()
	}
	return 0
}

// IsContract reports whether the account at addr is contract-kind.
func (s *StateDB) IsContract(addr common.Address) bool {
	stateObject := s.getStateObject(addr)
	return stateObject != nil && stateObject.isContract()
}

// AddBalance adds amount to the account associated with addr.
func (s *StateDB) AddBalance(addr common.Address, amount *uint256.Int) {
	stateObject := s.getOrNewStateObject(addr)
	stateObject.AddBalance(amount)
	s.markDirty(addr)
}

// SubBalance subtracts amount from the account associated with addr. Callers
// check the balance first; the subtraction wraps like any 256-bit word.
func (s *StateDB) SubBalance(addr common.Address, amount *uint256.Int) {
	stateObject := s.getOrNewStateObject(addr)
	stateObject.SubBalance(amount)
	s.markDirty(addr)
}

func (s *StateDB) SetBalance(addr common.Address, amount *uint256.Int) {
	stateObject := s.getOrNewStateObject(addr)
	stateObject.SetBalance(amount)
	s.markDirty(addr)
}

func (s *StateDB) SetNonce(addr common.Address, nonce uint64) {
	stateObject := s.getOrNewStateObject(addr)
	stateObject.SetNonce(nonce)
	s.markDirty(addr)
}

// CreateContract turns addr into a contract account with empty storage. A
// balance already held at the address is kept.
// CreateContract 将 addr 变为存储为空的合约账户，已有余额保留。
func (s *StateDB) CreateContract(addr common.Address) {
	var balance *uint256.Int
	if prev := s.getStateObject(addr); prev != nil {
		balance = prev.Balance()
	}
	s.stateObjects[addr] = newObject(s, addr, types.NewContractAccount(balance))
	s.markDirty(addr)
}

// GetContract returns the live storage trie of a contract account. Writes
// through the returned trie are part of the state and are folded into the
// account record on IntermediateRoot or Commit. The boolean is false when
// the account is not contract-kind.
func (s *StateDB) GetContract(addr common.Address) (*trie.Trie, bool) {
	stateObject := s.getStateObject(addr)
	if stateObject == nil || !stateObject.isContract() {
		return nil, false
	}
	tr, err := stateObject.getTrie()
	if err != nil {
		s.setError(err)
		return nil, false
	}
	s.markDirty(addr)
	return tr, true
}

// UpdateContract points the contract's storage at root. It returns false,
// changing nothing, when the account is not a contract or the root cannot be
// opened.
// UpdateContract 将合约存储指向 root；账户不是合约时返回 false。
func (s *StateDB) UpdateContract(addr common.Address, root common.Hash) bool {
	stateObject := s.getStateObject(addr)
	if stateObject == nil || !stateObject.isContract() {
		return false
	}
	if stateObject.trie == nil || stateObject.trie.Hash() != root {
		tr, err := s.db.OpenStorageTrie(addr, root)
		if err != nil {
			s.setError(err)
			return false
		}
		stateObject.trie = tr
	}
	stateObject.data.Root = root
	s.markDirty(addr)
	return true
}

// GetStorage reads a storage word of a contract. Plain accounts read as zero.
func (s *StateDB) GetStorage(addr common.Address, key *uint256.Int) *uint256.Int {
	stateObject := s.getStateObject(addr)
	if stateObject == nil || !stateObject.isContract() {
		return new(uint256.Int)
	}
	return stateObject.GetState(key)
}

// SetStorage writes a storage word of a contract. Writes to plain accounts
// are ignored.
func (s *StateDB) SetStorage(addr common.Address, key, value *uint256.Int) {
	stateObject := s.getStateObject(addr)
	if stateObject == nil || !stateObject.isContract() {
		return
	}
	stateObject.SetState(key, value)
	s.markDirty(addr)
}

// StorageSize returns the number of occupied storage slots of a contract.
func (s *StateDB) StorageSize(addr common.Address) int {
	stateObject := s.getStateObject(addr)
	if stateObject == nil || !stateObject.isContract() {
		return 0
	}
	return stateObject.storageSize()
}

// getStateObject retrieves a state object given by the address, returning nil if
// the object is not found or was deleted in this execution context.
func (s *StateDB) getStateObject(addr common.Address) *stateObject {
	if obj := s.stateObjects[addr]; obj != nil {
		return obj
	}
	if s.dbErr != nil {
		return nil
	}
	enc, err := s.trie.Get(addr.Bytes())
	if err != nil {
		s.setError(fmt.Errorf("getStateObject (%x) error: %w", addr.Bytes(), err))
		return nil
	}
	if len(enc) == 0 {
		return nil
	}
	acct, err := types.DecodeStateAccount(enc)
	if err != nil {
		s.setError(fmt.Errorf("account %x: %w", addr.Bytes(), err))
		return nil
	}
	obj := newObject(s, addr, acct)
	s.stateObjects[addr] = obj
	return obj
}

// getOrNewStateObject retrieves a state object or create a new state object if nil.
func (s *StateDB) getOrNewStateObject(addr common.Address) *stateObject {
	obj := s.getStateObject(addr)
	if obj == nil {
		obj = newObject(s, addr, nil)
		s.stateObjects[addr] = obj
	}
	return obj
}

func (s *StateDB) markDirty(addr common.Address) {
	s.stateObjectsDirty[addr] = struct{}{}
}

// dirtyAddresses returns the modified accounts in a deterministic order.
func (s *StateDB) dirtyAddresses() []common.Address {
	addrs := make([]common.Address, 0, len(s.stateObjectsDirty))
	for addr := range s.stateObjectsDirty {
		addrs = append(addrs, addr)
	}
	slices.SortFunc(addrs, func(a, b common.Address) int { return bytes.Compare(a[:], b[:]) })
	return addrs
}

// updateStateObject writes the given object to the trie.
func (s *StateDB) updateStateObject(obj *stateObject) {
	if err := s.trie.Update(obj.address.Bytes(), obj.data.Encode()); err != nil {
		s.setError(fmt.Errorf("updateStateObject (%x) error: %w", obj.address.Bytes(), err))
	}
}

// IntermediateRoot computes the current root hash of the state trie.
// It is called in between transactions to get the root hash that
// goes into transaction receipts.
// IntermediateRoot 计算当前状态树的根哈希。
func (s *StateDB) IntermediateRoot() common.Hash {
	for _, addr := range s.dirtyAddresses() {
		obj := s.stateObjects[addr]
		obj.updateRoot()
		s.updateStateObject(obj)
	}
	return s.trie.Hash()
}

// Commit writes the state to the node database. Storage tries of contracts
// are committed before the account records that reference them. The first
// database error met while executing is returned instead.
//
// Commit 将状态写入节点数据库：先提交合约存储树，再提交引用它们的账户记录。
func (s *StateDB) Commit() (common.Hash, error) {
	if s.dbErr != nil {
		return common.Hash{}, fmt.Errorf("commit aborted due to earlier error: %v", s.dbErr)
	}
	dirty := s.dirtyAddresses()
	for _, addr := range dirty {
		obj := s.stateObjects[addr]
		if err := obj.commit(); err != nil {
			return common.Hash{}, err
		}
		s.updateStateObject(obj)
	}
	if s.dbErr != nil {
		return common.Hash{}, s.dbErr
	}
	root, err := s.trie.Commit()
	if err != nil {
		return common.Hash{}, err
	}
	s.stateObjectsDirty = make(map[common.Address]struct{})
	log.Trace("Committed state", "root", root, "accounts", len(dirty))
	return root, nil
}
