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

package types

import (
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/rlp"
)

// DerivableList is the input to DeriveSha.
// It is implemented by the 'Transactions' type, but can also be used by
// other lists of encodable items.
//
// DerivableList 是 DeriveSha 的输入，由 Transactions 等列表类型实现。
type DerivableList interface {
	Len() int
	EncodeIndex(int) rlp.Value
}

// DeriveSha computes the list root of a block body: the Keccak256 hash of the
// list's RLP encoding. Block bodies are committed to by flat list hashes, not
// by tries.
// DeriveSha 计算区块体列表的根：列表 RLP 编码的 Keccak256 哈希。
func DeriveSha(list DerivableList) common.Hash {
	elems := make([]rlp.Value, list.Len())
	for i := range elems {
		elems[i] = list.EncodeIndex(i)
	}
	return rlpHash(rlp.NewList(elems...))
}

// CalcUncleHash returns the hash of the given uncle header list.
func CalcUncleHash(uncles []*Header) common.Hash {
	if len(uncles) == 0 {
		return EmptyUncleHash
	}
	return DeriveSha(headerList(uncles))
}

type headerList []*Header

func (l headerList) Len() int                    { return len(l) }
func (l headerList) EncodeIndex(i int) rlp.Value { return l[i].RLPValue() }
