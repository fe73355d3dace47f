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
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/log"
	"github.com/sunyihoo/go-ledger/rlp"
	"github.com/sunyihoo/go-ledger/trie"
)

// DumpConfig is a set of options to control what portions of the state will be
// iterated and collected.
// DumpConfig 控制状态转储迭代和收集的范围。
type DumpConfig struct {
	SkipStorage bool   // Whether to skip contract storage.
	Max         uint64 // Maximum number of accounts to dump, zero means all.
}

// DumpAccount represents an account in the state.
type DumpAccount struct {
	Kind    string            `json:"kind"`
	Balance string            `json:"balance"`
	Nonce   uint64            `json:"nonce,omitempty"`
	Root    string            `json:"root,omitempty"`
	Storage map[string]string `json:"storage,omitempty"`
}

// Dump represents the full dump in a collected format, as one large map.
type Dump struct {
	Root     string                         `json:"root"`
	Accounts map[common.Address]DumpAccount `json:"accounts"`
}

// RawDump collects every account of the state in key order.
// RawDump 按键序收集状态中的所有账户。
func (s *StateDB) RawDump(conf *DumpConfig) Dump {
	if conf == nil {
		conf = new(DumpConfig)
	}
	dump := Dump{
		Root:     fmt.Sprintf("%x", s.IntermediateRoot()),
		Accounts: make(map[common.Address]DumpAccount),
	}
	var (
		accounts uint64
		err      error
	)
	iterErr := s.trie.Iterate(func(key, value []byte) bool {
		var acct *types.StateAccount
		if acct, err = types.DecodeStateAccount(value); err != nil {
			return false
		}
		addr := common.BytesToAddress(key)
		account := DumpAccount{
			Kind:    acct.Kind.String(),
			Balance: acct.Balance.Dec(),
		}
		if acct.IsContract() {
			account.Root = fmt.Sprintf("%x", acct.Root)
			if !conf.SkipStorage {
				if account.Storage, err = s.dumpStorage(addr, acct.Root); err != nil {
					return false
				}
			}
		} else {
			account.Nonce = acct.Nonce
		}
		dump.Accounts[addr] = account
		accounts++
		return conf.Max == 0 || accounts < conf.Max
	})
	if iterErr == nil {
		iterErr = err
	}
	if iterErr != nil {
		log.Error("Failed to dump state", "err", iterErr)
	}
	return dump
}

func (s *StateDB) dumpStorage(addr common.Address, root common.Hash) (map[string]string, error) {
	var tr *trie.Trie
	if obj := s.stateObjects[addr]; obj != nil && obj.trie != nil {
		tr = obj.trie
	} else {
		var err error
		if tr, err = s.db.OpenStorageTrie(addr, root); err != nil {
			return nil, err
		}
	}
	storage := make(map[string]string)
	var err error
	iterErr := tr.Iterate(func(key, value []byte) bool {
		var v rlp.Value
		if v, err = rlp.Decode(value); err != nil {
			return false
		}
		var word *uint256.Int
		if word, err = v.Word(); err != nil {
			return false
		}
		storage[new(uint256.Int).SetBytes(key).Hex()] = word.Hex()
		return true
	})
	if iterErr != nil {
		return nil, iterErr
	}
	return storage, err
}

// Dump returns a JSON string representing the entire state as a single json-object
func (s *StateDB) Dump(conf *DumpConfig) []byte {
	dump := s.RawDump(conf)
	json, err := json.MarshalIndent(dump, "", "    ")
	if err != nil {
		log.Error("Error dumping state", "err", err)
	}
	return json
}
