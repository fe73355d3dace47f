// Copyright 2016 The go-ethereum Authors
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
package trie

import (
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/crypto"
)

// hasher collapses a node tree into its hashed form. When nodes is non-nil
// it is in commit mode: every node whose encoding is at least a hash long,
// plus the root, is recorded under its hash and marked clean.
//
// hasher 将节点树折叠为哈希形式；提交模式下会收集需要持久化的节点。
type hasher struct {
	sha   crypto.KeccakState
	nodes map[common.Hash][]byte
}

func newHasher() *hasher {
	return &hasher{sha: crypto.NewKeccakState()}
}

func newCommitter() *hasher {
	return &hasher{sha: crypto.NewKeccakState(), nodes: make(map[common.Hash][]byte)}
}

// hash collapses a node down into a hash node, also returning a copy of the
// original node initialized with the computed hash to replace the original one.
func (h *hasher) hash(n node, force bool) (hashed node, cached node) {
	// Return the cached hash if it's available. Committing must still visit
	// dirty nodes so their encodings are collected.
	if hash, dirty := n.cache(); hash != nil && (h.nodes == nil || !dirty) {
		return hash, n
	}
	switch n := n.(type) {
	case *shortNode:
		collapsed, cached := h.hashShortNodeChildren(n)
		hashed := h.store(collapsed, force)
		cached.flags = h.flagsOf(hashed, n.flags)
		return hashed, cached
	case *fullNode:
		collapsed, cached := h.hashFullNodeChildren(n)
		hashed := h.store(collapsed, force)
		cached.flags = h.flagsOf(hashed, n.flags)
		return hashed, cached
	default:
		// Value and hash nodes don't have children, so they're left as were
		return n, n
	}
}

func (h *hasher) flagsOf(hashed node, old nodeFlag) nodeFlag {
	flags := nodeFlag{dirty: old.dirty && h.nodes == nil}
	if hn, ok := hashed.(hashNode); ok {
		flags.hash = hn
	}
	return flags
}

// hashShortNodeChildren collapses the short node. The returned collapsed node
// holds a live reference to the Key, and must not be modified.
func (h *hasher) hashShortNodeChildren(n *shortNode) (collapsed, cached *shortNode) {
	collapsed, cached = n.copy(), n.copy()
	collapsed.Key = hexToCompact(n.Key)
	switch n.Val.(type) {
	case *fullNode, *shortNode:
		collapsed.Val, cached.Val = h.hash(n.Val, false)
	}
	return collapsed, cached
}

func (h *hasher) hashFullNodeChildren(n *fullNode) (collapsed *fullNode, cached *fullNode) {
	collapsed, cached = n.copy(), n.copy()
	for i := 0; i < 16; i++ {
		if child := n.Children[i]; child != nil {
			collapsed.Children[i], cached.Children[i] = h.hash(child, false)
		}
	}
	return collapsed, cached
}

// store encodes a collapsed node. Nodes smaller than a hash are embedded in
// their parent and returned as-is unless force is set (the root).
func (h *hasher) store(n node, force bool) node {
	enc := nodeToBytes(n)
	if len(enc) < hashLen && !force {
		return n
	}
	hash := h.hashData(enc)
	if h.nodes != nil {
		h.nodes[common.BytesToHash(hash)] = enc
	}
	return hash
}

// hashData hashes the provided data
func (h *hasher) hashData(data []byte) hashNode {
	n := make(hashNode, 32)
	h.sha.Reset()
	h.sha.Write(data)
	h.sha.Read(n)
	return n
}

// proofHash is used to construct trie proofs, and returns the 'collapsed'
// node (for later RLP encoding) as well as the hashed node -- unless the
// node is smaller than 32 bytes, in which case it will be returned as is.
// This method does not do anything on value- or hash-nodes.
func (h *hasher) proofHash(original node) (collapsed, hashed node) {
	switch n := original.(type) {
	case *shortNode:
		sn, _ := h.hashShortNodeChildren(n)
		return sn, h.store(sn, false)
	case *fullNode:
		fn, _ := h.hashFullNodeChildren(n)
		return fn, h.store(fn, false)
	default:
		// Value and hash nodes don't have children, so they're left as were
		return n, n
	}
}
