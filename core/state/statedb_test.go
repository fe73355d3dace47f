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
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/ethdb/memorydb"
	"github.com/sunyihoo/go-ledger/trie"
	"github.com/sunyihoo/go-ledger/triedb"
	"github.com/stretchr/testify/require"
)

var (
	alice    = common.HexToAddress("0xa11ce")
	bob      = common.HexToAddress("0xb0b")
	contract = common.HexToAddress("0xc0de")
)

func newTestState(t *testing.T) (*StateDB, *CachingDB) {
	t.Helper()
	db := NewDatabaseForTesting()
	state, err := New(types.EmptyRootHash, db)
	require.NoError(t, err)
	return state, db
}

func TestMissingAccountReadsEmpty(t *testing.T) {
	state, _ := newTestState(t)
	require.True(t, state.GetBalance(alice).IsZero())
	require.Zero(t, state.GetNonce(alice))
	require.False(t, state.IsContract(alice))
	require.False(t, state.Exist(alice))
	require.Equal(t, types.EmptyRootHash, state.IntermediateRoot())
}

func TestBalanceAndNonce(t *testing.T) {
	state, db := newTestState(t)
	state.AddBalance(alice, uint256.NewInt(1000))
	state.SubBalance(alice, uint256.NewInt(300))
	state.SetNonce(alice, 4)
	state.SetBalance(bob, uint256.NewInt(5))

	root, err := state.Commit()
	require.NoError(t, err)
	require.Equal(t, root, state.IntermediateRoot())
	require.NoError(t, db.TrieDB().Commit())

	// reopen through a fresh node database over the same disk
	reopened, err := New(root, NewDatabase(triedb.New(db.DiskDB(), nil)))
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(700), reopened.GetBalance(alice))
	require.Equal(t, uint64(4), reopened.GetNonce(alice))
	require.Equal(t, uint256.NewInt(5), reopened.GetBalance(bob))
	require.True(t, reopened.Exist(bob))
}

func TestRootIndependentOfOrder(t *testing.T) {
	a, _ := newTestState(t)
	a.AddBalance(alice, uint256.NewInt(1))
	a.AddBalance(bob, uint256.NewInt(2))

	b, _ := newTestState(t)
	b.AddBalance(bob, uint256.NewInt(2))
	b.AddBalance(alice, uint256.NewInt(1))

	require.Equal(t, a.IntermediateRoot(), b.IntermediateRoot())
}

func TestContractStorage(t *testing.T) {
	state, db := newTestState(t)
	state.AddBalance(contract, uint256.NewInt(50))
	state.CreateContract(contract)
	require.True(t, state.IsContract(contract))
	require.Equal(t, uint256.NewInt(50), state.GetBalance(contract), "balance survives creation")

	for i := uint64(0); i < 3; i++ {
		state.SetStorage(contract, uint256.NewInt(i), uint256.NewInt(100+i))
	}
	require.Equal(t, 3, state.StorageSize(contract))

	// zero clears a slot
	state.SetStorage(contract, uint256.NewInt(1), new(uint256.Int))
	require.Equal(t, 2, state.StorageSize(contract))
	require.True(t, state.GetStorage(contract, uint256.NewInt(1)).IsZero())

	root, err := state.Commit()
	require.NoError(t, err)

	reopened, err := New(root, db)
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(102), reopened.GetStorage(contract, uint256.NewInt(2)))
	require.Equal(t, 2, reopened.StorageSize(contract))

	tr, ok := reopened.GetContract(contract)
	require.True(t, ok)
	size, err := tr.Size()
	require.NoError(t, err)
	require.Equal(t, 2, size)
}

func TestGetContractThroughTrie(t *testing.T) {
	state, _ := newTestState(t)
	state.CreateContract(contract)
	before := state.IntermediateRoot()

	tr, ok := state.GetContract(contract)
	require.True(t, ok)
	key := uint256.NewInt(9).Bytes32()
	tr.MustUpdate(key[:], []byte{0x07})

	require.NotEqual(t, before, state.IntermediateRoot())
	require.Equal(t, 1, state.StorageSize(contract))
}

func TestPlainAccountHasNoContract(t *testing.T) {
	state, _ := newTestState(t)
	state.AddBalance(alice, uint256.NewInt(1))

	tr, ok := state.GetContract(alice)
	require.False(t, ok)
	require.Nil(t, tr)
	require.False(t, state.UpdateContract(alice, types.EmptyRootHash))

	// storage writes to plain accounts are ignored
	before := state.IntermediateRoot()
	state.SetStorage(alice, uint256.NewInt(0), uint256.NewInt(1))
	require.Equal(t, before, state.IntermediateRoot())
	require.True(t, state.GetStorage(alice, uint256.NewInt(0)).IsZero())
}

func TestUpdateContractResetsStorage(t *testing.T) {
	state, _ := newTestState(t)
	state.CreateContract(contract)
	for i := uint64(0); i < 5; i++ {
		state.SetStorage(contract, uint256.NewInt(i), uint256.NewInt(1))
	}
	require.Equal(t, 5, state.StorageSize(contract))

	require.True(t, state.UpdateContract(contract, types.EmptyRootHash))
	require.Equal(t, 0, state.StorageSize(contract))

	fresh, _ := newTestState(t)
	fresh.CreateContract(contract)
	require.Equal(t, fresh.IntermediateRoot(), state.IntermediateRoot())
}

func TestUpdateContractToCommittedRoot(t *testing.T) {
	state, _ := newTestState(t)
	state.CreateContract(contract)
	state.SetStorage(contract, uint256.NewInt(0), uint256.NewInt(42))
	_, err := state.Commit()
	require.NoError(t, err)
	tr, _ := state.GetContract(contract)
	saved := tr.Hash()

	state.SetStorage(contract, uint256.NewInt(0), uint256.NewInt(43))
	require.True(t, state.UpdateContract(contract, saved))
	require.Equal(t, uint256.NewInt(42), state.GetStorage(contract, uint256.NewInt(0)))

	// an unknown root is refused and latched as a database error
	require.False(t, state.UpdateContract(contract, common.HexToHash("0xdead")))
	require.Error(t, state.Error())
	_, err = state.Commit()
	require.Error(t, err)
}

func TestMissingStateRoot(t *testing.T) {
	_, err := New(common.HexToHash("0x1234"), NewDatabaseForTesting())
	var missing *trie.MissingNodeError
	require.True(t, errors.As(err, &missing))
}

func TestCorruptStorageLatchesError(t *testing.T) {
	disk := memorydb.New()
	db := NewDatabase(triedb.New(disk, &triedb.Config{}))
	state, err := New(types.EmptyRootHash, db)
	require.NoError(t, err)
	state.CreateContract(contract)
	for i := uint64(0); i < 20; i++ {
		state.SetStorage(contract, uint256.NewInt(i), new(uint256.Int).Lsh(uint256.NewInt(i+1), 200))
	}
	root, err := state.Commit()
	require.NoError(t, err)
	require.NoError(t, db.TrieDB().Commit())

	// Keep only the world trie nodes.
	reopened, err := New(root, NewDatabase(triedb.New(disk, &triedb.Config{})))
	require.NoError(t, err)
	tr, _ := reopened.GetContract(contract)
	storageRoot := tr.Hash()
	require.NoError(t, disk.Delete(storageRoot[:]))

	again, err := New(root, NewDatabase(triedb.New(disk, &triedb.Config{})))
	require.NoError(t, err)
	require.True(t, again.GetStorage(contract, uint256.NewInt(3)).IsZero())
	require.Error(t, again.Error())
}

func TestDump(t *testing.T) {
	state, _ := newTestState(t)
	state.AddBalance(alice, uint256.NewInt(44))
	state.SetNonce(alice, 1)
	state.CreateContract(contract)
	state.AddBalance(contract, uint256.NewInt(7))
	state.SetStorage(contract, uint256.NewInt(0), uint256.NewInt(0x60))

	dump := state.RawDump(nil)
	require.Len(t, dump.Accounts, 2)
	require.Equal(t, DumpAccount{Kind: "plain", Balance: "44", Nonce: 1}, dump.Accounts[alice])
	c := dump.Accounts[contract]
	require.Equal(t, "contract", c.Kind)
	require.Equal(t, "7", c.Balance)
	require.Equal(t, map[string]string{"0x0": "0x60"}, c.Storage)

	var decoded Dump
	require.NoError(t, json.Unmarshal(state.Dump(&DumpConfig{SkipStorage: true}), &decoded))
	require.Nil(t, decoded.Accounts[contract].Storage)
	require.Equal(t, dump.Root, decoded.Root)

	limited := state.RawDump(&DumpConfig{Max: 1})
	require.Len(t, limited.Accounts, 1)
}

func TestAccountAndStorageProofs(t *testing.T) {
	state, db := newTestState(t)

	// empty state proves every account absent without nodes
	proof, err := state.GetProof(alice)
	require.NoError(t, err)
	acct, err := VerifyAccountProof(types.EmptyRootHash, alice, proof)
	require.NoError(t, err)
	require.True(t, acct.Balance.IsZero())

	state.AddBalance(alice, uint256.NewInt(77))
	state.SetNonce(alice, 3)
	state.AddBalance(bob, uint256.NewInt(5))
	state.CreateContract(contract)
	for i := uint64(0); i < 4; i++ {
		state.SetStorage(contract, uint256.NewInt(i), uint256.NewInt(0x100+i))
	}
	root, err := state.Commit()
	require.NoError(t, err)

	reopened, err := New(root, db)
	require.NoError(t, err)

	proof, err = reopened.GetProof(alice)
	require.NoError(t, err)
	require.NotEmpty(t, proof)
	acct, err = VerifyAccountProof(root, alice, proof)
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(77), acct.Balance)
	require.Equal(t, uint64(3), acct.Nonce)

	// absent account
	stranger := common.HexToAddress("0x5757")
	proof, err = reopened.GetProof(stranger)
	require.NoError(t, err)
	acct, err = VerifyAccountProof(root, stranger, proof)
	require.NoError(t, err)
	require.Equal(t, types.PlainAccount, acct.Kind)
	require.True(t, acct.Balance.IsZero())

	// storage proofs are checked against the root in the proven record
	proof, err = reopened.GetProof(contract)
	require.NoError(t, err)
	acct, err = VerifyAccountProof(root, contract, proof)
	require.NoError(t, err)
	require.True(t, acct.IsContract())

	slotProof, err := reopened.GetStorageProof(contract, uint256.NewInt(2))
	require.NoError(t, err)
	val, err := VerifyStorageProof(acct.Root, uint256.NewInt(2), slotProof)
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(0x102), val)

	slotProof, err = reopened.GetStorageProof(contract, uint256.NewInt(40))
	require.NoError(t, err)
	val, err = VerifyStorageProof(acct.Root, uint256.NewInt(40), slotProof)
	require.NoError(t, err)
	require.True(t, val.IsZero())

	// a proof does not verify against another root
	_, err = VerifyAccountProof(types.EmptyRootHash, alice, proof)
	require.Error(t, err)

	_, err = reopened.GetStorageProof(alice, uint256.NewInt(0))
	require.Error(t, err)
}

func TestProofIncludesPendingChanges(t *testing.T) {
	state, _ := newTestState(t)
	state.AddBalance(alice, uint256.NewInt(9))

	proof, err := state.GetProof(alice)
	require.NoError(t, err)
	acct, err := VerifyAccountProof(state.IntermediateRoot(), alice, proof)
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(9), acct.Balance)
}
