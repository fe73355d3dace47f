// Copyright 2021 The go-ethereum Authors
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

package types

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/rlp"
)

// AccountKind distinguishes plain accounts, which carry a nonce, from
// contract accounts, which carry the root of their storage trie.
type AccountKind uint8

const (
	PlainAccount    AccountKind = 0
	ContractAccount AccountKind = 1
)

func (k AccountKind) String() string {
	switch k {
	case PlainAccount:
		return "plain"
	case ContractAccount:
		return "contract"
	default:
		return fmt.Sprintf("AccountKind(%d)", uint8(k))
	}
}

var errBadAccount = errors.New("malformed account record")

// StateAccount is the consensus representation of an account. It is encoded
// as [kind, balance, nonce] for plain accounts and [kind, balance, root] for
// contracts.
//
// StateAccount 是账户的共识表示：普通账户编码为 [kind, balance, nonce]，
// 合约账户编码为 [kind, balance, storageRoot]。
type StateAccount struct {
	Kind    AccountKind
	Balance *uint256.Int
	Nonce   uint64      // plain accounts only
	Root    common.Hash // contract accounts only: merkle root of the storage trie
}

// NewEmptyStateAccount constructs an empty plain account. A missing record in
// the world trie reads as this value.
func NewEmptyStateAccount() *StateAccount {
	return &StateAccount{
		Balance: new(uint256.Int),
	}
}

// NewContractAccount constructs a contract account with empty storage.
func NewContractAccount(balance *uint256.Int) *StateAccount {
	if balance == nil {
		balance = new(uint256.Int)
	}
	return &StateAccount{
		Kind:    ContractAccount,
		Balance: new(uint256.Int).Set(balance),
		Root:    EmptyRootHash,
	}
}

// IsContract reports whether the account is contract-kind.
func (acct *StateAccount) IsContract() bool {
	return acct.Kind == ContractAccount
}

// Copy returns a deep-copied state account object.
func (acct *StateAccount) Copy() *StateAccount {
	var balance *uint256.Int
	if acct.Balance != nil {
		balance = new(uint256.Int).Set(acct.Balance)
	}
	return &StateAccount{
		Kind:    acct.Kind,
		Balance: balance,
		Nonce:   acct.Nonce,
		Root:    acct.Root,
	}
}

// RLPValue implements rlp.Encoder.
func (acct *StateAccount) RLPValue() rlp.Value {
	third := rlp.Uint(acct.Nonce)
	if acct.IsContract() {
		third = rlp.Bytes(acct.Root.Bytes())
	}
	return rlp.NewList(rlp.Uint(uint64(acct.Kind)), rlp.Word(acct.Balance), third)
}

// Encode returns the RLP encoding of the account.
func (acct *StateAccount) Encode() []byte {
	return rlp.Encode(acct.RLPValue())
}

// DecodeStateAccount parses an account record.
// DecodeStateAccount 解析账户记录。
func DecodeStateAccount(enc []byte) (*StateAccount, error) {
	elems, err := rlp.DecodeList(enc)
	if err != nil {
		return nil, err
	}
	if len(elems) != 3 {
		return nil, fmt.Errorf("%w: %d fields, want 3", errBadAccount, len(elems))
	}
	kind, err := elems[0].Uint64()
	if err != nil {
		return nil, fmt.Errorf("%w: kind: %v", errBadAccount, err)
	}
	balance, err := elems[1].Word()
	if err != nil {
		return nil, fmt.Errorf("%w: balance: %v", errBadAccount, err)
	}
	acct := &StateAccount{Kind: AccountKind(kind), Balance: balance}
	switch acct.Kind {
	case PlainAccount:
		if acct.Nonce, err = elems[2].Uint64(); err != nil {
			return nil, fmt.Errorf("%w: nonce: %v", errBadAccount, err)
		}
	case ContractAccount:
		root, err := elems[2].AsBytes()
		if err != nil || len(root) != common.HashLength {
			return nil, fmt.Errorf("%w: bad storage root", errBadAccount)
		}
		acct.Root = common.BytesToHash(root)
	default:
		return nil, fmt.Errorf("%w: unknown kind %d", errBadAccount, kind)
	}
	return acct, nil
}
