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
// Package trie implements Merkle Patricia Tries.
package trie

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/triedb"
)

// Trie is a Merkle Patricia Trie. Use New to create a trie that sits on
// top of a database. Whenever trie performs a commit operation, the generated
// nodes will be gathered and handed to the node database.
//
// Trie is not safe for concurrent use.
//
// Trie 是默克尔帕特里夏树，根哈希只取决于键值集合，与插入顺序无关。
type Trie struct {
	root node
	db   *triedb.Database
}

// newFlag returns the cache flag value for a newly created node.
func (t *Trie) newFlag() nodeFlag {
	return nodeFlag{dirty: true}
}

// New creates the trie instance with provided trie id and the read-only
// database. The zero hash and the empty root both open an empty trie; any
// other root must be present in the database.
func New(root common.Hash, db *triedb.Database) (*Trie, error) {
	trie := &Trie{db: db}
	if root != (common.Hash{}) && root != types.EmptyRootHash {
		rootnode, err := trie.resolveAndTrack(root[:], nil)
		if err != nil {
			return nil, err
		}
		trie.root = rootnode
	}
	return trie, nil
}

// NewEmpty is a shortcut to create empty tree. It's mostly used in tests.
func NewEmpty(db *triedb.Database) *Trie {
	tr, _ := New(types.EmptyRootHash, db)
	return tr
}

// Copy returns a copy of Trie.
func (t *Trie) Copy() *Trie {
	return &Trie{root: t.root, db: t.db}
}

// Get returns the value for key stored in the trie, nil when absent.
// The value bytes must not be modified by the caller.
//
// If the requested node is not present in trie, no error will be returned.
// If the trie is corrupted, a MissingNodeError is returned.
func (t *Trie) Get(key []byte) ([]byte, error) {
	value, newroot, didResolve, err := t.get(t.root, keybytesToHex(key), 0)
	if err == nil && didResolve {
		t.root = newroot
	}
	return value, err
}

func (t *Trie) get(origNode node, key []byte, pos int) (value []byte, newnode node, didResolve bool, err error) {
	switch n := (origNode).(type) {
	case nil:
		return nil, nil, false, nil
	case valueNode:
		return n, n, false, nil
	case *shortNode:
		if len(key)-pos < len(n.Key) || !bytes.Equal(n.Key, key[pos:pos+len(n.Key)]) {
			// key not found in trie
			return nil, n, false, nil
		}
		value, newnode, didResolve, err = t.get(n.Val, key, pos+len(n.Key))
		if err == nil && didResolve {
			n = n.copy()
			n.Val = newnode
		}
		return value, n, didResolve, err
	case *fullNode:
		value, newnode, didResolve, err = t.get(n.Children[key[pos]], key, pos+1)
		if err == nil && didResolve {
			n = n.copy()
			n.Children[key[pos]] = newnode
		}
		return value, n, didResolve, err
	case hashNode:
		child, err := t.resolveAndTrack(n, key[:pos])
		if err != nil {
			return nil, n, true, err
		}
		value, newnode, _, err := t.get(child, key, pos)
		return value, newnode, true, err
	default:
		panic(fmt.Sprintf("%T: invalid node: %v", origNode, origNode))
	}
}

// MustUpdate is a wrapper of Update and will omit any encountered error but
// just print out an error message.
func (t *Trie) MustUpdate(key, value []byte) {
	if err := t.Update(key, value); err != nil {
		panic(fmt.Sprintf("Unhandled trie error: %v", err))
	}
}

// Update associates key with value in the trie. Subsequent calls to
// Get will return value. If value has length zero, any existing value
// is deleted from the trie and calls to Get will return nil.
//
// The value bytes must not be modified by the caller while they are
// stored in the trie.
//
// If the requested node is not present in trie, no error will be returned.
// If the trie is corrupted, a MissingNodeError is returned.
func (t *Trie) Update(key, value []byte) error {
	k := keybytesToHex(key)
	if len(value) != 0 {
		_, n, err := t.insert(t.root, nil, k, valueNode(value))
		if err != nil {
			return err
		}
		t.root = n
	} else {
		_, n, err := t.delete(t.root, nil, k)
		if err != nil {
			return err
		}
		t.root = n
	}
	return nil
}

// insert places value under key below n. When an existing short node shares
// only part of the path a branch is materialized at the divergence nibble,
// and the shared part stays wrapped in an extension.
//
// insert 在路径分叉处生成分支节点，共享前缀保留为扩展节点。
func (t *Trie) insert(n node, prefix, key []byte, value node) (bool, node, error) {
	if len(key) == 0 {
		if v, ok := n.(valueNode); ok {
			return !bytes.Equal(v, value.(valueNode)), value, nil
		}
		return true, value, nil
	}
	switch n := n.(type) {
	case *shortNode:
		matchlen := prefixLen(key, n.Key)
		// If the whole key matches, keep this short node as is
		// and only update the value.
		if matchlen == len(n.Key) {
			dirty, nn, err := t.insert(n.Val, append(prefix, key[:matchlen]...), key[matchlen:], value)
			if !dirty || err != nil {
				return false, n, err
			}
			return true, &shortNode{n.Key, nn, t.newFlag()}, nil
		}
		// Otherwise branch out at the index where they differ.
		branch := &fullNode{flags: t.newFlag()}
		var err error
		_, branch.Children[n.Key[matchlen]], err = t.insert(nil, append(prefix, n.Key[:matchlen+1]...), n.Key[matchlen+1:], n.Val)
		if err != nil {
			return false, nil, err
		}
		_, branch.Children[key[matchlen]], err = t.insert(nil, append(prefix, key[:matchlen+1]...), key[matchlen+1:], value)
		if err != nil {
			return false, nil, err
		}
		// Replace this shortNode with the branch if it occurs at index 0.
		if matchlen == 0 {
			return true, branch, nil
		}
		// Otherwise, replace it with a short node leading up to the branch.
		return true, &shortNode{key[:matchlen], branch, t.newFlag()}, nil

	case *fullNode:
		dirty, nn, err := t.insert(n.Children[key[0]], append(prefix, key[0]), key[1:], value)
		if !dirty || err != nil {
			return false, n, err
		}
		n = n.copy()
		n.flags = t.newFlag()
		n.Children[key[0]] = nn
		return true, n, nil

	case nil:
		return true, &shortNode{key, value, t.newFlag()}, nil

	case hashNode:
		// We've hit a part of the trie that isn't loaded yet. Load
		// the node and insert into it. This leaves all child nodes on
		// the path to the value in the trie.
		rn, err := t.resolveAndTrack(n, prefix)
		if err != nil {
			return false, nil, err
		}
		dirty, nn, err := t.insert(rn, prefix, key, value)
		if !dirty || err != nil {
			return false, rn, err
		}
		return true, nn, nil

	default:
		panic(fmt.Sprintf("%T: invalid node: %v", n, n))
	}
}

// MustDelete is a wrapper of Delete and will omit any encountered error but
// just print out an error message.
func (t *Trie) MustDelete(key []byte) {
	if err := t.Delete(key); err != nil {
		panic(fmt.Sprintf("Unhandled trie error: %v", err))
	}
}

// Delete removes any existing value for key from the trie.
//
// If the requested node is not present in trie, no error will be returned.
// If the trie is corrupted, a MissingNodeError is returned.
func (t *Trie) Delete(key []byte) error {
	k := keybytesToHex(key)
	_, n, err := t.delete(t.root, nil, k)
	if err != nil {
		return err
	}
	t.root = n
	return nil
}

// delete returns the new root of the trie with key deleted.
// It reduces the trie to minimal form by simplifying
// nodes on the way up after deleting recursively.
//
// delete 在回溯时化简节点：只剩一个子节点的分支会折叠为短节点。
func (t *Trie) delete(n node, prefix, key []byte) (bool, node, error) {
	switch n := n.(type) {
	case *shortNode:
		matchlen := prefixLen(key, n.Key)
		if matchlen < len(n.Key) {
			return false, n, nil // don't replace n on mismatch
		}
		if matchlen == len(key) {
			return true, nil, nil // remove n entirely for whole matches
		}
		// The key is longer than n.Key. Remove the remaining suffix
		// from the subtrie. Child can never be nil here since the
		// subtrie must contain at least two other values with keys
		// longer than n.Key.
		dirty, child, err := t.delete(n.Val, append(prefix, key[:len(n.Key)]...), key[len(n.Key):])
		if !dirty || err != nil {
			return false, n, err
		}
		switch child := child.(type) {
		case *shortNode:
			// The child shortNode is merged into its parent, track
			// is deleted as well.
			return true, &shortNode{concat(n.Key, child.Key...), child.Val, t.newFlag()}, nil
		default:
			return true, &shortNode{n.Key, child, t.newFlag()}, nil
		}

	case *fullNode:
		dirty, nn, err := t.delete(n.Children[key[0]], append(prefix, key[0]), key[1:])
		if !dirty || err != nil {
			return false, n, err
		}
		n = n.copy()
		n.flags = t.newFlag()
		n.Children[key[0]] = nn

		// Because n is a full node, it must've contained at least two children
		// before the delete operation. If the new child value is non-nil, n still
		// has at least two children after the deletion, and cannot be reduced to
		// a short node.
		if nn != nil {
			return true, n, nil
		}
		// Reduction:
		// Check how many non-nil entries are left after deleting and
		// reduce the full node to a short node if only one entry is
		// left. Since n must've contained at least two children
		// before deletion (otherwise it would not be a full node) n
		// can never be reduced to nil.
		//
		// When the loop is done, pos contains the index of the single
		// value that is left in n or -2 if n contains at least two
		// values.
		pos := -1
		for i, cld := range &n.Children {
			if cld != nil {
				if pos == -1 {
					pos = i
				} else {
					pos = -2
					break
				}
			}
		}
		if pos >= 0 {
			if pos != 16 {
				// If the remaining entry is a short node, it replaces
				// n and its key gets the missing nibble tacked to the
				// front. This avoids creating an invalid
				// shortNode{..., shortNode{...}}.  Since the entry
				// might not be loaded yet, resolve it just for this
				// check.
				cnode, err := t.resolve(n.Children[pos], append(prefix, byte(pos)))
				if err != nil {
					return false, nil, err
				}
				if cnode, ok := cnode.(*shortNode); ok {
					k := append([]byte{byte(pos)}, cnode.Key...)
					return true, &shortNode{k, cnode.Val, t.newFlag()}, nil
				}
			}
			// Otherwise, n is replaced by a one-nibble short node
			// containing the child.
			return true, &shortNode{[]byte{byte(pos)}, n.Children[pos], t.newFlag()}, nil
		}
		// n still contains at least two values and cannot be reduced.
		return true, n, nil

	case valueNode:
		return true, nil, nil

	case nil:
		return false, nil, nil

	case hashNode:
		// We've hit a part of the trie that isn't loaded yet. Load
		// the node and delete from it. This leaves all child nodes on
		// the path to the value in the trie.
		rn, err := t.resolveAndTrack(n, prefix)
		if err != nil {
			return false, nil, err
		}
		dirty, nn, err := t.delete(rn, prefix, key)
		if !dirty || err != nil {
			return false, rn, err
		}
		return true, nn, nil

	default:
		panic(fmt.Sprintf("%T: invalid node: %v (%v)", n, n, key))
	}
}

func concat(s1 []byte, s2 ...byte) []byte {
	r := make([]byte, len(s1)+len(s2))
	copy(r, s1)
	copy(r[len(s1):], s2)
	return r
}

func (t *Trie) resolve(n node, prefix []byte) (node, error) {
	if n, ok := n.(hashNode); ok {
		return t.resolveAndTrack(n, prefix)
	}
	return n, nil
}

// resolveAndTrack loads node from the underlying store with the given node hash
// and path prefix.
func (t *Trie) resolveAndTrack(n hashNode, prefix []byte) (node, error) {
	blob, err := t.db.Node(common.BytesToHash(n))
	if err != nil {
		return nil, &MissingNodeError{NodeHash: common.BytesToHash(n), Path: common.CopyBytes(prefix), err: err}
	}
	return decodeNode(n, blob)
}

// Size returns the number of values reachable in the trie.
// Size 返回树中可达的值（叶子）数量。
func (t *Trie) Size() (int, error) {
	return t.size(t.root, nil)
}

func (t *Trie) size(n node, prefix []byte) (int, error) {
	switch n := n.(type) {
	case nil:
		return 0, nil
	case valueNode:
		return 1, nil
	case *shortNode:
		return t.size(n.Val, concat(prefix, n.Key...))
	case *fullNode:
		var total int
		for i, child := range &n.Children {
			c, err := t.size(child, concat(prefix, byte(i)))
			if err != nil {
				return 0, err
			}
			total += c
		}
		return total, nil
	case hashNode:
		rn, err := t.resolveAndTrack(n, prefix)
		if err != nil {
			return 0, err
		}
		return t.size(rn, prefix)
	default:
		panic(fmt.Sprintf("%T: invalid node: %v", n, n))
	}
}

// Hash returns the root hash of the trie. It does not write to the
// database and can be used even if the trie doesn't have one.
func (t *Trie) Hash() common.Hash {
	if t.root == nil {
		return types.EmptyRootHash
	}
	hashed, cached := newHasher().hash(t.root, true)
	t.root = cached
	return common.BytesToHash(hashed.(hashNode))
}

// Commit collects every dirty node, hands them to the node database and
// returns the root hash. The root is always stored, nodes shorter than a
// hash stay embedded in their parents. The trie stays usable afterwards.
//
// Commit 收集所有脏节点交给节点数据库，并返回根哈希。
func (t *Trie) Commit() (common.Hash, error) {
	if t.root == nil {
		return types.EmptyRootHash, nil
	}
	if hash, dirty := t.root.cache(); hash != nil && !dirty {
		return common.BytesToHash(hash), nil
	}
	h := newCommitter()
	hashed, cached := h.hash(t.root, true)
	if err := t.db.Update(h.nodes); err != nil {
		return common.Hash{}, err
	}
	t.root = cached
	return common.BytesToHash(hashed.(hashNode)), nil
}

// errStopIteration is returned by an Iterate callback to end the walk early.
var errStopIteration = errors.New("stop iteration")

// Iterate calls fn for every key/value pair in ascending key order. Returning
// false from fn stops the walk.
func (t *Trie) Iterate(fn func(key, value []byte) bool) error {
	err := t.walk(t.root, nil, fn)
	if err == errStopIteration {
		return nil
	}
	return err
}

func (t *Trie) walk(n node, path []byte, fn func(key, value []byte) bool) error {
	switch n := n.(type) {
	case nil:
		return nil
	case valueNode:
		if !fn(hexToKeybytes(path), n) {
			return errStopIteration
		}
		return nil
	case *shortNode:
		return t.walk(n.Val, concat(path, n.Key...), fn)
	case *fullNode:
		// The value slot holds the shortest key, visit it first.
		if err := t.walk(n.Children[16], concat(path, terminator), fn); err != nil {
			return err
		}
		for i := 0; i < 16; i++ {
			if err := t.walk(n.Children[i], concat(path, byte(i)), fn); err != nil {
				return err
			}
		}
		return nil
	case hashNode:
		rn, err := t.resolveAndTrack(n, path)
		if err != nil {
			return err
		}
		return t.walk(rn, path, fn)
	default:
		panic(fmt.Sprintf("%T: invalid node: %v", n, n))
	}
}

// GetAt reads key from the trie rooted at root.
func GetAt(db *triedb.Database, root common.Hash, key []byte) ([]byte, error) {
	tr, err := New(root, db)
	if err != nil {
		return nil, err
	}
	return tr.Get(key)
}

// UpdateAt stores value under key in the trie rooted at root and returns the
// new committed root. An empty value deletes the key.
func UpdateAt(db *triedb.Database, root common.Hash, key, value []byte) (common.Hash, error) {
	tr, err := New(root, db)
	if err != nil {
		return common.Hash{}, err
	}
	if err := tr.Update(key, value); err != nil {
		return common.Hash{}, err
	}
	return tr.Commit()
}

// DeleteAt removes key from the trie rooted at root and returns the new
// committed root.
func DeleteAt(db *triedb.Database, root common.Hash, key []byte) (common.Hash, error) {
	return UpdateAt(db, root, key, nil)
}

// SizeAt counts the values of the trie rooted at root.
func SizeAt(db *triedb.Database, root common.Hash) (int, error) {
	tr, err := New(root, db)
	if err != nil {
		return 0, err
	}
	return tr.Size()
}
