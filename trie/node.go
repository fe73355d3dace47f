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
package trie

import (
	"fmt"
	"io"
	"strings"

	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/rlp"
)

var indices = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "a", "b", "c", "d", "e", "f", "[17]"}

// node is one of *fullNode (branch), *shortNode (leaf or extension),
// hashNode (reference to a stored node) and valueNode (payload).
// node 是分支节点、短节点（叶子或扩展）、哈希引用或值节点之一。
type node interface {
	cache() (hashNode, bool)
	fstring(string) string
}

type (
	fullNode struct {
		Children [17]node // Actual trie node data to encode/decode (needs custom encoder)
		flags    nodeFlag
	}
	shortNode struct {
		Key   []byte
		Val   node
		flags nodeFlag
	}
	hashNode  []byte
	valueNode []byte
)

func (n *fullNode) copy() *fullNode   { copy := *n; return &copy }
func (n *shortNode) copy() *shortNode { copy := *n; return &copy }

// nodeFlag contains caching-related metadata about a node.
type nodeFlag struct {
	hash  hashNode // cached hash of the node (may be nil)
	dirty bool     // whether the node has changes that must be written to the database
}

func (n *fullNode) cache() (hashNode, bool)  { return n.flags.hash, n.flags.dirty }
func (n *shortNode) cache() (hashNode, bool) { return n.flags.hash, n.flags.dirty }
func (n hashNode) cache() (hashNode, bool)   { return nil, true }
func (n valueNode) cache() (hashNode, bool)  { return nil, true }

// Pretty printing.
func (n *fullNode) String() string  { return n.fstring("") }
func (n *shortNode) String() string { return n.fstring("") }
func (n hashNode) String() string   { return n.fstring("") }
func (n valueNode) String() string  { return n.fstring("") }

func (n *fullNode) fstring(ind string) string {
	resp := fmt.Sprintf("[\n%s  ", ind)
	for i, node := range &n.Children {
		if node == nil {
			resp += fmt.Sprintf("%s: <nil> ", indices[i])
		} else {
			resp += fmt.Sprintf("%s: %v", indices[i], node.fstring(ind+"  "))
		}
	}
	return resp + fmt.Sprintf("\n%s] ", ind)
}

func (n *shortNode) fstring(ind string) string {
	return fmt.Sprintf("{%x: %v} ", n.Key, n.Val.fstring(ind+"  "))
}

func (n hashNode) fstring(ind string) string {
	return fmt.Sprintf("<%x> ", []byte(n))
}

func (n valueNode) fstring(ind string) string {
	return fmt.Sprintf("%x ", []byte(n))
}

// encode returns the codec value of a collapsed node: short node keys are
// already in compact form and children are either hash references or the
// embedded collapsed child.
func encode(n node) rlp.Value {
	switch n := n.(type) {
	case nil:
		return rlp.Value{}
	case hashNode:
		return rlp.Bytes(n)
	case valueNode:
		return rlp.Bytes(n)
	case *shortNode:
		return rlp.NewList(rlp.Bytes(n.Key), encode(n.Val))
	case *fullNode:
		elems := make([]rlp.Value, 17)
		for i, child := range &n.Children {
			elems[i] = encode(child)
		}
		return rlp.NewList(elems...)
	default:
		panic(fmt.Sprintf("%T: invalid node", n))
	}
}

// nodeToBytes returns the encoding of a collapsed node.
func nodeToBytes(n node) []byte {
	return rlp.Encode(encode(n))
}

// mustDecodeNode is a wrapper of decodeNode and panic if any error is encountered.
func mustDecodeNode(hash, buf []byte) node {
	n, err := decodeNode(hash, buf)
	if err != nil {
		panic(fmt.Sprintf("node %x: %v", hash, err))
	}
	return n
}

// decodeNode parses the encoding of a trie node. The hash is stored as the
// cached hash of the returned node.
func decodeNode(hash, buf []byte) (node, error) {
	if len(buf) == 0 {
		return nil, io.ErrUnexpectedEOF
	}
	v, err := rlp.Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("decode error: %v", err)
	}
	return decodeValue(hash, v)
}

func decodeValue(hash []byte, v rlp.Value) (node, error) {
	elems, err := v.AsList()
	if err != nil {
		return nil, fmt.Errorf("decode error: %v", err)
	}
	switch len(elems) {
	case 2:
		n, err := decodeShort(hash, elems)
		return n, wrapError(err, "short")
	case 17:
		n, err := decodeFull(hash, elems)
		return n, wrapError(err, "full")
	default:
		return nil, fmt.Errorf("invalid number of list elements: %v", len(elems))
	}
}

func decodeShort(hash []byte, elems []rlp.Value) (node, error) {
	kbuf, err := elems[0].AsBytes()
	if err != nil {
		return nil, err
	}
	flag := nodeFlag{hash: hash}
	key := compactToHex(kbuf)
	if hasTerm(key) {
		// value node
		val, err := elems[1].AsBytes()
		if err != nil {
			return nil, fmt.Errorf("invalid value node: %v", err)
		}
		return &shortNode{key, valueNode(common.CopyBytes(val)), flag}, nil
	}
	r, err := decodeRef(elems[1])
	if err != nil {
		return nil, wrapError(err, "val")
	}
	return &shortNode{key, r, flag}, nil
}

func decodeFull(hash []byte, elems []rlp.Value) (*fullNode, error) {
	n := &fullNode{flags: nodeFlag{hash: hash}}
	for i := 0; i < 16; i++ {
		cld, err := decodeRef(elems[i])
		if err != nil {
			return n, wrapError(err, fmt.Sprintf("[%d]", i))
		}
		n.Children[i] = cld
	}
	val, err := elems[16].AsBytes()
	if err != nil {
		return n, err
	}
	if len(val) > 0 {
		n.Children[16] = valueNode(common.CopyBytes(val))
	}
	return n, nil
}

const hashLen = len(common.Hash{})

func decodeRef(v rlp.Value) (node, error) {
	if v.IsList() {
		// 'embedded' node reference. The encoding must be smaller
		// than a hash in order to be valid.
		if size := len(rlp.Encode(v)); size >= hashLen {
			err := fmt.Errorf("oversized embedded node (size is %d bytes, want size < %d)", size, hashLen)
			return nil, err
		}
		return decodeValue(nil, v)
	}
	b := v.Bytes()
	switch len(b) {
	case 0:
		// empty node
		return nil, nil
	case hashLen:
		return hashNode(common.CopyBytes(b)), nil
	default:
		return nil, fmt.Errorf("invalid RLP string size %d (want 0 or 32)", len(b))
	}
}

// wraps a decoding error with information about the path to the
// invalid child node (for debugging encoding issues).
type decodeError struct {
	what  error
	stack []string
}

func wrapError(err error, ctx string) error {
	if err == nil {
		return nil
	}
	if decErr, ok := err.(*decodeError); ok {
		decErr.stack = append(decErr.stack, ctx)
		return decErr
	}
	return &decodeError{err, []string{ctx}}
}

func (err *decodeError) Error() string {
	return fmt.Sprintf("%v (decode path: %s)", err.what, strings.Join(err.stack, "<-"))
}
