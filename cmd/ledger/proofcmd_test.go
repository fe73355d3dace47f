// Copyright 2023 The go-ethereum Authors
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

package main

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/state"
)

func TestProveAccount(t *testing.T) {
	tdb, root := newCommittedState(t, 4)
	statedb, err := state.New(root, state.NewDatabase(tdb))
	require.NoError(t, err)

	res, err := proveAccount(statedb, root, common.HexToAddress("0xaa"), nil)
	require.NoError(t, err)
	assert.Equal(t, "plain", res.Kind)
	assert.Equal(t, "1000", res.Balance)
	assert.Equal(t, uint64(2), res.Nonce)
	assert.Equal(t, root.Hex(), res.Root)
	assert.NotEmpty(t, res.AccountProof)
	assert.Nil(t, res.StorageProof)

	res, err = proveAccount(statedb, root, common.HexToAddress("0xbb"), uint256.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, "contract", res.Kind)
	assert.NotEmpty(t, res.StorageRoot)
	require.NotNil(t, res.StorageProof)
	assert.Equal(t, "0x63", res.StorageProof.Value)
	assert.NotEmpty(t, res.StorageProof.Proof)

	// slots of plain accounts cannot be proven
	_, err = proveAccount(statedb, root, common.HexToAddress("0xaa"), uint256.NewInt(0))
	assert.ErrorContains(t, err, "not a contract")

	// the proof is checked against the root it is given
	_, err = proveAccount(statedb, common.HexToHash("0x01"), common.HexToAddress("0xaa"), nil)
	assert.Error(t, err)
}

func TestProofCommand(t *testing.T) {
	datadir := t.TempDir()
	runLedger(t, "init", "--datadir", datadir, writeFile(t, "genesis.json", testGenesis))

	runLedger(t, "proof", "--datadir", datadir, "0x00000000000000000000000000000000000000aa")
	runLedger(t, "proof", "--datadir", datadir, "0x00000000000000000000000000000000000000cc", "0")
	runLedger(t, "proof", "--datadir", datadir, "--slot", "0", "0x00000000000000000000000000000000000000bb")

	err := app.Run([]string{"ledger", "proof", "--datadir", datadir, "not-an-address"})
	assert.ErrorContains(t, err, "invalid address")
	err = app.Run([]string{"ledger", "proof", "--datadir", datadir, "0x00000000000000000000000000000000000000aa", "7"})
	assert.ErrorContains(t, err, "block #7 not found")
}
