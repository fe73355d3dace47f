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

package miner

import (
	"container/heap"
	"sort"

	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/types"
)

// txWithFee wraps a transaction with its sender and its position among the
// candidates.
// txWithFee 将交易与其发送者和候选顺序封装在一起。
type txWithFee struct {
	tx   *types.Transaction
	from common.Address
	seq  int // position in the candidate list, breaks fee ties
}

// txByFee implements both the sort and the heap interface, making it useful
// for all at once sorting as well as individually adding and removing elements.
type txByFee []*txWithFee

func (s txByFee) Len() int { return len(s) }
func (s txByFee) Less(i, j int) bool {
	// If the fees are equal, use the candidate order for deterministic sorting
	cmp := s[i].tx.Fee().Cmp(s[j].tx.Fee())
	if cmp == 0 {
		return s[i].seq < s[j].seq
	}
	return cmp > 0
}
func (s txByFee) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

func (s *txByFee) Push(x interface{}) {
	*s = append(*s, x.(*txWithFee))
}

func (s *txByFee) Pop() interface{} {
	old := *s
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*s = old[0 : n-1]
	return x
}

// transactionsByFeeAndNonce represents a set of transactions that can return
// transactions in a profit-maximizing sorted order, while supporting removing
// entire batches of transactions for non-executable accounts.
//
// transactionsByFeeAndNonce 以利润最大化的顺序返回交易，同时遵循每个账户的 nonce 顺序。
type transactionsByFeeAndNonce struct {
	txs       map[common.Address][]*txWithFee // Per account nonce-sorted list of transactions
	heads     txByFee                         // Next transaction for each unique account (fee heap)
	discarded int                             // Transactions that will never be returned
}

// newTransactionsByFeeAndNonce creates a transaction set that can retrieve
// fee sorted transactions in a nonce-honouring way. Transactions whose sender
// cannot be recovered are discarded up front.
func newTransactionsByFeeAndNonce(candidates []*types.Transaction) *transactionsByFeeAndNonce {
	set := &transactionsByFeeAndNonce{txs: make(map[common.Address][]*txWithFee)}
	for i, tx := range candidates {
		from, err := types.Sender(types.FrontierSigner{}, tx)
		if err != nil {
			set.discarded++
			continue
		}
		set.txs[from] = append(set.txs[from], &txWithFee{tx: tx, from: from, seq: i})
	}
	set.heads = make(txByFee, 0, len(set.txs))
	for from, accTxs := range set.txs {
		sort.SliceStable(accTxs, func(i, j int) bool { return accTxs[i].tx.Nonce() < accTxs[j].tx.Nonce() })
		set.heads = append(set.heads, accTxs[0])
		set.txs[from] = accTxs[1:]
	}
	heap.Init(&set.heads)
	return set
}

// Peek returns the next transaction by fee.
func (t *transactionsByFeeAndNonce) Peek() *types.Transaction {
	if len(t.heads) == 0 {
		return nil
	}
	return t.heads[0].tx
}

// Shift replaces the current best head with the next one from the same account.
func (t *transactionsByFeeAndNonce) Shift() {
	acc := t.heads[0].from
	if txs, ok := t.txs[acc]; ok && len(txs) > 0 {
		t.heads[0], t.txs[acc] = txs[0], txs[1:]
		heap.Fix(&t.heads, 0)
		return
	}
	heap.Pop(&t.heads)
}

// Pop removes the best transaction, *not* replacing it with the next one from
// the same account. This should be used when a transaction cannot be executed
// and hence all subsequent ones should be discarded from the same account.
func (t *transactionsByFeeAndNonce) Pop() {
	acc := t.heads[0].from
	t.discarded += len(t.txs[acc])
	delete(t.txs, acc)
	heap.Pop(&t.heads)
}

// Discarded returns the number of transactions removed without being
// returned by Peek.
func (t *transactionsByFeeAndNonce) Discarded() int {
	return t.discarded
}

// Empty returns if the fee heap is empty.
func (t *transactionsByFeeAndNonce) Empty() bool {
	return len(t.heads) == 0
}
