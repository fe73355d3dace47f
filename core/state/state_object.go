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

package state

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/rlp"
	"github.com/sunyihoo/go-ledger/trie"
)

// stateObject represents an account which is being modified.
//
// The usage pattern is as follows:
//   - First you need to obtain a state object.
//   - Account values as well as storages can be accessed and modified through the object.
//   - Finally, call commit to return the changes of storage trie and update account data.
//
// stateObject 表示正在被修改的账户。
type stateObject struct {
	db      *StateDB
	address common.Address
	data    types.StateAccount

	// Storage trie of contract accounts, opened on first access. Writes go
	// straight into it; there is no per-invocation journal.
	trie *trie.Trie
}

func newObject(db *StateDB, address common.Address, acct *types.StateAccount) *stateObject {
	if acct == nil {
		acct = types.NewEmptyStateAccount()
	}
	if acct.Balance == nil {
		acct.Balance = new(uint256.Int)
	}
	return &stateObject{
		db:      db,
		address: address,
		data:    *acct,
	}
}

func (s *stateObject) isContract() bool {
	return s.data.IsContract()
}

// getTrie returns the storage trie, opening it at the recorded root.
func (s *stateObject) getTrie() (*trie.Trie, error) {
	if s.trie == nil {
		tr, err := s.db.db.OpenStorageTrie(s.address, s.data.Root)
		if err != nil {
			return nil, err
		}
		s.trie = tr
	}
	return s.trie, nil
}

// storageKey maps a storage slot to its 32-byte big-endian trie key.
func storageKey(key *uint256.Int) []byte {
	k := key.Bytes32()
	return k[:]
}

// GetState retrieves a value from the account storage trie.
func (s *stateObject) GetState(key *uint256.Int) *uint256.Int {
	tr, err := s.getTrie()
	if err != nil {
		s.db.setError(err)
		return new(uint256.Int)
	}
	enc, err := tr.Get(storageKey(key))
	if err != nil {
		s.db.setError(err)
		return new(uint256.Int)
	}
	if len(enc) == 0 {
		return new(uint256.Int)
	}
	v, err := rlp.Decode(enc)
	if err == nil {
		var word *uint256.Int
		if word, err = v.Word(); err == nil {
			return word
		}
	}
	s.db.setError(fmt.Errorf("storage slot %x of %x: %w", key.Bytes32(), s.address, err))
	return new(uint256.Int)
}

// SetState updates a value in account storage. Writing zero removes the slot.
func (s *stateObject) SetState(key, value *uint256.Int) {
	tr, err := s.getTrie()
	if err != nil {
		s.db.setError(err)
		return
	}
	var enc []byte
	if !value.IsZero() {
		enc = rlp.Encode(rlp.Word(value))
	}
	if err := tr.Update(storageKey(key), enc); err != nil {
		s.db.setError(err)
	}
}

// storageSize counts the occupied slots.
func (s *stateObject) storageSize() int {
	tr, err := s.getTrie()
	if err != nil {
		s.db.setError(err)
		return 0
	}
	n, err := tr.Size()
	if err != nil {
		s.db.setError(err)
		return 0
	}
	return n
}

// updateRoot folds the storage trie hash into the account record.
func (s *stateObject) updateRoot() {
	if s.trie != nil && s.isContract() {
		s.data.Root = s.trie.Hash()
	}
}

// commit writes the dirty storage nodes into the node database and records
// the resulting root.
func (s *stateObject) commit() error {
	if s.trie == nil || !s.isContract() {
		return nil
	}
	root, err := s.trie.Commit()
	if err != nil {
		return err
	}
	s.data.Root = root
	return nil
}

// AddBalance adds amount to s's balance.
func (s *stateObject) AddBalance(amount *uint256.Int) {
	s.SetBalance(new(uint256.Int).Add(s.Balance(), amount))
}

// SubBalance removes amount from s's balance.
func (s *stateObject) SubBalance(amount *uint256.Int) {
	s.SetBalance(new(uint256.Int).Sub(s.Balance(), amount))
}

func (s *stateObject) SetBalance(amount *uint256.Int) {
	s.data.Balance = new(uint256.Int).Set(amount)
}

func (s *stateObject) SetNonce(nonce uint64) {
	s.data.Nonce = nonce
}

func (s *stateObject) Address() common.Address {
	return s.address
}

func (s *stateObject) Balance() *uint256.Int {
	return s.data.Balance
}

func (s *stateObject) Nonce() uint64 {
	return s.data.Nonce
}
