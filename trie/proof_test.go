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
	"bytes"
	"math/rand"
	"testing"

	"github.com/sunyihoo/go-ledger/ethdb/memorydb"
	"github.com/stretchr/testify/require"
)

func TestProof(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	pairs := randomPairs(rnd, 200)

	trie := NewEmpty(newTestDatabase())
	for _, p := range pairs {
		trie.MustUpdate(p.k, p.v)
	}
	root := trie.Hash()
	for i, p := range pairs {
		proof := memorydb.New()
		require.NoError(t, trie.Prove(p.k, proof))
		val, err := VerifyProof(root, p.k, proof)
		if err != nil {
			t.Fatalf("pair %d: failed to verify proof: %v\nraw proof: %x", i, err, p.k)
		}
		if !bytes.Equal(val, p.v) {
			t.Fatalf("pair %d: verified value mismatch: have %x, want %x", i, val, p.v)
		}
	}
}

func TestAbsenceProof(t *testing.T) {
	trie := NewEmpty(newTestDatabase())
	for _, k := range []string{"do", "dog", "doge", "horse"} {
		updateString(trie, k, "value-of-"+k)
	}
	root := trie.Hash()
	for _, k := range []string{"d", "dogs", "cat", "horses"} {
		proof := memorydb.New()
		require.NoError(t, trie.Prove([]byte(k), proof))
		val, err := VerifyProof(root, []byte(k), proof)
		require.NoError(t, err, "key %q", k)
		require.Nil(t, val, "key %q", k)
	}
}

func TestBadProof(t *testing.T) {
	trie := NewEmpty(newTestDatabase())
	for i := 0; i < 50; i++ {
		updateString(trie, string(rune('a'+i%26))+string(rune('a'+i/26)), "some value that is long enough")
	}
	root := trie.Hash()

	proof := memorydb.New()
	require.NoError(t, trie.Prove([]byte("ka"), proof))

	// dropping the root node breaks the proof
	require.NoError(t, proof.Delete(root[:]))
	_, err := VerifyProof(root, []byte("ka"), proof)
	require.ErrorIs(t, err, errInvalidProof)

	// swapping in garbage under the right key is caught by the hash check
	require.NoError(t, proof.Put(root[:], []byte{0xc0}))
	_, err = VerifyProof(root, []byte("ka"), proof)
	require.ErrorIs(t, err, errInvalidProof)
}
