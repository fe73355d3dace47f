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

// Package types contains the data types of the ledger: accounts,
// transactions, headers and blocks, together with their canonical encodings.
package types

import (
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/crypto"
	"github.com/sunyihoo/go-ledger/rlp"
)

var (
	// EmptyRootHash is the known root hash of an empty merkle trie.
	// EmptyRootHash 是已知的空 Merkle 树的根哈希，即 keccak256(rlp(""))。
	EmptyRootHash = common.HexToHash("56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421")

	// EmptyUncleHash is the known hash of the empty uncle set.
	EmptyUncleHash = rlpHash(rlp.NewList()) // 1dcc4de8dec75d7aab85b567b6ccd41ad312451b948a7413f0a142fd40d49347

	// EmptyTxsHash is the known hash of the empty transaction list. Both lists
	// hash as keccak256(rlp([])).
	// EmptyTxsHash 是空交易列表的哈希，与空叔块列表相同。
	EmptyTxsHash = EmptyUncleHash
)

// rlpHash encodes v and hashes the encoded bytes.
func rlpHash(v rlp.Value) common.Hash {
	return crypto.Keccak256Hash(rlp.Encode(v))
}
