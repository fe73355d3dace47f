// Copyright 2015 The go-ethereum Authors
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

package core

import (
	"errors"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/state"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/core/vm"
	"github.com/sunyihoo/go-ledger/core/vm/program"
	"github.com/sunyihoo/go-ledger/crypto"
	"github.com/sunyihoo/go-ledger/params"
	"github.com/stretchr/testify/require"
)

var (
	testKey, _  = crypto.HexToECDSA("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	testAddr    = crypto.PubkeyToAddress(testKey.PublicKey)
	testBalance = uint256.NewInt(1_000_000_000)

	recipient = common.HexToAddress("0xdeadbeef")
)

func word(v uint64) *uint256.Int { return uint256.NewInt(v) }

func newFundedState(t *testing.T) *state.StateDB {
	t.Helper()
	statedb, err := state.New(types.EmptyRootHash, state.NewDatabaseForTesting())
	require.NoError(t, err)
	statedb.AddBalance(testAddr, testBalance)
	return statedb
}

func newTestEVM(statedb *state.StateDB, config *params.Config) *vm.EVM {
	return vm.NewEVM(vm.BlockContext{Number: 1, Difficulty: big.NewInt(1)}, statedb, config, vm.Config{})
}

func signTx(t *testing.T, data *types.TxData) *types.Transaction {
	t.Helper()
	if data.Value == nil {
		data.Value = new(uint256.Int)
	}
	return types.MustSignNewTx(testKey, types.FrontierSigner{}, data)
}

func TestApplyTransfer(t *testing.T) {
	statedb := newFundedState(t)
	tx := signTx(t, &types.TxData{To: &recipient, Value: word(500), Fee: word(params.DefaultTxFee)})

	receipt, err := ApplyTransaction(newTestEVM(statedb, params.DefaultConfig), statedb, tx)
	require.NoError(t, err)
	require.Equal(t, testAddr, receipt.Sender)
	require.Equal(t, tx.Hash(), receipt.TxHash)
	require.Equal(t, word(params.DefaultTxFee), receipt.Fee)
	require.Zero(t, receipt.Steps)

	want := new(uint256.Int).Sub(testBalance, word(600))
	require.Equal(t, want, statedb.GetBalance(testAddr))
	require.Equal(t, uint64(1), statedb.GetNonce(testAddr))
	require.Equal(t, word(500), statedb.GetBalance(recipient))
}

// A plain sender's nonce must match, and a dropped transaction leaves
// balance and nonce where they were.
func TestApplyNonceMismatch(t *testing.T) {
	statedb := newFundedState(t)
	statedb.SetNonce(testAddr, 3)
	root := statedb.IntermediateRoot()

	for _, nonce := range []uint64{0, 2, 4} {
		tx := signTx(t, &types.TxData{Nonce: nonce, To: &recipient, Value: word(1), Fee: word(params.DefaultTxFee)})
		_, err := ApplyTransaction(newTestEVM(statedb, params.DefaultConfig), statedb, tx)
		require.ErrorIs(t, err, ErrNonceMismatch, "nonce %d", nonce)
	}
	require.Equal(t, testBalance, statedb.GetBalance(testAddr))
	require.Equal(t, uint64(3), statedb.GetNonce(testAddr))
	require.Equal(t, root, statedb.IntermediateRoot())
}

func TestApplyRejections(t *testing.T) {
	config := params.DefaultConfig.Copy()
	config.MaxTxData = 2

	tests := []struct {
		name string
		tx   func(t *testing.T) *types.Transaction
		want error
	}{
		{"fee too low", func(t *testing.T) *types.Transaction {
			return signTx(t, &types.TxData{To: &recipient, Fee: word(params.DefaultTxFee - 1)})
		}, ErrFeeTooLow},
		{"creation fee counts data", func(t *testing.T) *types.Transaction {
			fee := params.DefaultNewContractFee + params.DefaultMemoryFee - 1
			return signTx(t, &types.TxData{Fee: word(fee), Data: []uint256.Int{*word(1)}})
		}, ErrFeeTooLow},
		{"insufficient funds", func(t *testing.T) *types.Transaction {
			value := new(uint256.Int).Sub(testBalance, word(params.DefaultTxFee-1))
			return signTx(t, &types.TxData{To: &recipient, Value: value, Fee: word(params.DefaultTxFee)})
		}, ErrInsufficientFunds},
		{"data too large", func(t *testing.T) *types.Transaction {
			return signTx(t, &types.TxData{To: &recipient, Fee: word(params.DefaultTxFee), Data: make([]uint256.Int, 3)})
		}, ErrDataTooLarge},
		{"unsigned", func(t *testing.T) *types.Transaction {
			return types.NewTx(&types.TxData{To: &recipient, Value: word(1), Fee: word(params.DefaultTxFee)})
		}, ErrInvalidSig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statedb := newFundedState(t)
			_, err := ApplyTransaction(newTestEVM(statedb, config), statedb, tt.tx(t))
			require.True(t, errors.Is(err, tt.want), "have %v, want %v", err, tt.want)
			require.Equal(t, testBalance, statedb.GetBalance(testAddr))
			require.Zero(t, statedb.GetNonce(testAddr))
		})
	}
}

// A creation with N data words costs NewContractFee + N*MemoryFee and lays
// the words out at keys 0..N-1.
func TestApplyContractCreation(t *testing.T) {
	statedb := newFundedState(t)
	data := []uint256.Int{*word(7), *word(8), *word(9), *word(10)}
	fee := RequiredFee(params.DefaultConfig, types.NewTx(&types.TxData{Value: word(0), Fee: word(0), Data: data}))
	require.Equal(t, params.DefaultNewContractFee+4*params.DefaultMemoryFee, fee.Uint64())

	tx := signTx(t, &types.TxData{Value: word(50), Fee: fee, Data: data})
	receipt, err := ApplyTransaction(newTestEVM(statedb, params.DefaultConfig), statedb, tx)
	require.NoError(t, err)

	addr := tx.ContractAddress()
	require.Equal(t, addr, receipt.ContractAddress)
	require.True(t, statedb.IsContract(addr))
	require.Equal(t, len(data), statedb.StorageSize(addr))
	for i := range data {
		require.Equal(t, &data[i], statedb.GetStorage(addr, word(uint64(i))))
	}
	require.Equal(t, word(50), statedb.GetBalance(addr))

	spent := new(uint256.Int).Add(fee, word(50))
	require.Equal(t, new(uint256.Int).Sub(testBalance, spent), statedb.GetBalance(testAddr))
	require.Equal(t, uint64(1), statedb.GetNonce(testAddr))
}

func TestApplyContractCall(t *testing.T) {
	statedb := newFundedState(t)
	// store the value of the invoking transaction at key 100
	code := program.New().Op(vm.TXVALUE).Push(100).Op(vm.STORE).Op(vm.STOP).Code()
	create := signTx(t, &types.TxData{Fee: params.DefaultConfig.CreationFee(len(code)), Data: code})
	evm := newTestEVM(statedb, params.DefaultConfig)
	_, err := ApplyTransaction(evm, statedb, create)
	require.NoError(t, err)
	contract := create.ContractAddress()

	call := signTx(t, &types.TxData{Nonce: 1, To: &contract, Value: word(77), Fee: word(params.DefaultTxFee)})
	receipt, err := ApplyTransaction(evm, statedb, call)
	require.NoError(t, err)
	require.NoError(t, receipt.VMErr)
	require.Equal(t, uint64(4), receipt.Steps)
	require.Equal(t, word(77), statedb.GetStorage(contract, word(100)))
	// free steps cover the run, the only charge is the new storage slot
	require.Equal(t, word(2*params.DefaultMemoryFee), receipt.VMFees)
	require.Equal(t, new(uint256.Int).Sub(word(77), receipt.VMFees), statedb.GetBalance(contract))
}
