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
	"fmt"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/crypto"
	"github.com/sunyihoo/go-ledger/ethdb/memorydb"
	"github.com/sunyihoo/go-ledger/rlp"
	"github.com/sunyihoo/go-ledger/trie"
)

// proofList implements ethdb.KeyValueWriter and collects the proof nodes in
// the order the trie emits them, root first.
// proofList 实现 ethdb.KeyValueWriter，按从根开始的顺序收集证明节点。
type proofList [][]byte

func (n *proofList) Put(key []byte, value []byte) error {
	*n = append(*n, value)
	return nil
}

func (n *proofList) Delete(key []byte) error {
	panic("not supported")
}

// GetProof returns the Merkle proof of the account record of addr. Pending
// changes are folded in first, so the proof is against IntermediateRoot.
//
// GetProof 返回 addr 账户记录的默克尔证明，证明针对 IntermediateRoot。
func (s *StateDB) GetProof(addr common.Address) ([][]byte, error) {
	s.IntermediateRoot()
	var proof proofList
	err := s.trie.Prove(addr.Bytes(), &proof)
	return [][]byte(proof), err
}

// GetStorageProof returns the Merkle proof of a storage slot of a contract,
// checked against the contract's storage root.
func (s *StateDB) GetStorageProof(addr common.Address, key *uint256.Int) ([][]byte, error) {
	stateObject := s.getStateObject(addr)
	if stateObject == nil || !stateObject.isContract() {
		return nil, fmt.Errorf("account %x has no storage trie", addr)
	}
	tr, err := stateObject.getTrie()
	if err != nil {
		return nil, err
	}
	var proof proofList
	err = tr.Prove(storageKey(key), &proof)
	return [][]byte(proof), err
}

// proofDB indexes proof nodes by their hash, the layout trie.VerifyProof reads.
func proofDB(proof [][]byte) *memorydb.Database {
	db := memorydb.New()
	for _, node := range proof {
		db.Put(crypto.Keccak256(node), node)
	}
	return db
}

// VerifyAccountProof checks proof against the state root and returns the
// proven account record. A proof of absence yields the empty plain account,
// and an empty trie needs no proof nodes at all.
//
// VerifyAccountProof 校验账户证明并返回被证明的账户记录。
func VerifyAccountProof(root common.Hash, addr common.Address, proof [][]byte) (*types.StateAccount, error) {
	if root == types.EmptyRootHash && len(proof) == 0 {
		return types.NewEmptyStateAccount(), nil
	}
	enc, err := trie.VerifyProof(root, addr.Bytes(), proofDB(proof))
	if err != nil {
		return nil, err
	}
	if len(enc) == 0 {
		return types.NewEmptyStateAccount(), nil
	}
	return types.DecodeStateAccount(enc)
}

// VerifyStorageProof checks proof against a contract's storage root and
// returns the proven slot value. Absent slots read as zero.
func VerifyStorageProof(root common.Hash, key *uint256.Int, proof [][]byte) (*uint256.Int, error) {
	if root == types.EmptyRootHash && len(proof) == 0 {
		return new(uint256.Int), nil
	}
	enc, err := trie.VerifyProof(root, storageKey(key), proofDB(proof))
	if err != nil {
		return nil, err
	}
	if len(enc) == 0 {
		return new(uint256.Int), nil
	}
	v, err := rlp.Decode(enc)
	if err != nil {
		return nil, err
	}
	return v.Word()
}
