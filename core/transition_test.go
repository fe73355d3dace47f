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
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/core/vm"
	"github.com/sunyihoo/go-ledger/core/vm/program"
	"github.com/sunyihoo/go-ledger/params"
	"github.com/stretchr/testify/require"
)

var (
	testCoinbase = common.HexToAddress("0xc014ba5e")
	testParent   = &types.Header{
		Number:     7,
		Difficulty: new(big.Int).SetUint64(params.GenesisDifficulty),
		Time:       1000,
		Root:       types.EmptyRootHash,
	}
)

func newTestTransition(t *testing.T, time uint64) *Transition {
	t.Helper()
	header := &types.Header{Coinbase: testCoinbase, Time: time}
	return NewTransition(params.DefaultConfig, testParent, header, newFundedState(t), vm.Config{})
}

func TestTransitionHeader(t *testing.T) {
	tr := newTestTransition(t, 1010)
	header := tr.Header()
	require.Equal(t, testParent.Number+1, header.Number)
	require.Equal(t, testParent.Hash(), header.ParentHash)
	require.Equal(t, CalcDifficulty(params.DefaultConfig, 1010, testParent), header.Difficulty)
}

func TestFinalizeRewardsAndFees(t *testing.T) {
	tr := newTestTransition(t, 1010)
	tx := signTx(t, &types.TxData{To: &recipient, Value: word(1), Fee: word(150)})
	tr.Enqueue(tx)
	require.NoError(t, tr.Run())
	require.Equal(t, word(150), tr.Fees())

	block, err := tr.Finalize(nil)
	require.NoError(t, err)
	require.Equal(t, types.Transactions{tx}, block.Transactions())
	require.Equal(t, tr.State().IntermediateRoot(), block.Root())

	want := new(uint256.Int).Add(params.DefaultConfig.BlockReward(8), word(150))
	require.Equal(t, want, tr.State().GetBalance(testCoinbase))

	// accumulators start over
	require.True(t, tr.Fees().IsZero())
	require.Empty(t, tr.Transactions())
}

func TestFinalizeUncleRewards(t *testing.T) {
	var (
		tr     = newTestTransition(t, 1010)
		uncle1 = &types.Header{Number: 6, Coinbase: common.HexToAddress("0x01"), Difficulty: big.NewInt(1)}
		uncle2 = &types.Header{Number: 5, Coinbase: common.HexToAddress("0x02"), Difficulty: big.NewInt(1)}
		reward = params.DefaultConfig.BlockReward(8)
	)
	block, err := tr.Finalize([]*types.Header{uncle1, uncle2})
	require.NoError(t, err)
	require.Len(t, block.Uncles(), 2)
	require.Equal(t, types.CalcUncleHash([]*types.Header{uncle1, uncle2}), block.UncleHash())

	uncleReward := new(uint256.Int).Mul(reward, word(7))
	uncleReward.Div(uncleReward, word(8))
	require.Equal(t, uncleReward, tr.State().GetBalance(uncle1.Coinbase))
	require.Equal(t, uncleReward, tr.State().GetBalance(uncle2.Coinbase))

	nephew := new(uint256.Int).Div(reward, word(32))
	want := new(uint256.Int).Add(reward, nephew)
	want.Add(want, nephew)
	require.Equal(t, want, tr.State().GetBalance(testCoinbase))
}

func TestRewardScheduleStepsDown(t *testing.T) {
	for _, tt := range []struct {
		number uint64
		want   uint64
	}{
		{1, 1024 * params.Finney},
		{57600, 512 * params.Finney},
		{2 * 57600, 256 * params.Finney},
		{10 * 57600, 128 * params.Finney},
	} {
		statedb := newFundedState(t)
		AccumulateRewards(params.DefaultConfig, statedb, &types.Header{Number: tt.number, Coinbase: testCoinbase}, nil, nil)
		require.Equal(t, tt.want, statedb.GetBalance(testCoinbase).Uint64(), "block %d", tt.number)
	}
}

func TestCalcDifficulty(t *testing.T) {
	var (
		config = params.DefaultConfig
		diff   = testParent.Difficulty
		step   = new(big.Int).Div(diff, big.NewInt(int64(config.DifficultyBoundDivisor)))
	)
	fast := CalcDifficulty(config, testParent.Time+config.TargetBlockTime-1, testParent)
	require.Equal(t, new(big.Int).Add(diff, step), fast)

	slow := CalcDifficulty(config, testParent.Time+config.TargetBlockTime, testParent)
	require.Equal(t, new(big.Int).Sub(diff, step), slow)

	floor := &types.Header{Time: 0, Difficulty: new(big.Int).SetUint64(config.MinimumDifficulty)}
	require.Equal(t, floor.Difficulty, CalcDifficulty(config, 1000, floor))
}

func TestFinalizeBadTimestamp(t *testing.T) {
	past := newTestTransition(t, testParent.Time-1)
	_, err := past.Finalize(nil)
	require.ErrorIs(t, err, ErrBadTimestamp)

	var cerr *ConsensusError
	require.True(t, errors.As(err, &cerr))
	require.Equal(t, testParent.Number+1, cerr.Number)

	now := time.Unix(int64(testParent.Time), 0)
	future := newTestTransition(t, testParent.Time+params.MaxFutureDrift+1)
	future.Now = func() time.Time { return now }
	_, err = future.Finalize(nil)
	require.ErrorIs(t, err, ErrBadTimestamp)

	edge := newTestTransition(t, testParent.Time+params.MaxFutureDrift)
	edge.Now = func() time.Time { return now }
	_, err = edge.Finalize(nil)
	require.NoError(t, err)

	same := newTestTransition(t, testParent.Time)
	same.Now = func() time.Time { return now }
	_, err = same.Finalize(nil)
	require.NoError(t, err)
}

// Messages emitted by a contract run right after the transaction that
// triggered them, ahead of the rest of the queue, and never enter the block.
func TestRunMessageQueueOrdering(t *testing.T) {
	var (
		tr    = newTestTransition(t, 1010)
		fee   = params.DefaultTxFee
		alpha = common.HexToAddress("0xa1")
		beta  = common.HexToAddress("0xb2")
		gamma = common.HexToAddress("0xc3")
	)
	code := program.New().
		Mktx(0xa1, 1, fee).
		Mktx(0xb2, 2, fee, 42).
		Mktx(0xb2, 3, 1). // below the transaction fee, dropped when applied
		Op(vm.STOP).
		Code()
	create := signTx(t, &types.TxData{Value: word(1000), Fee: params.DefaultConfig.CreationFee(len(code)), Data: code})
	contract := create.ContractAddress()
	call := signTx(t, &types.TxData{Nonce: 1, To: &contract, Fee: word(fee)})
	after := signTx(t, &types.TxData{Nonce: 2, To: &gamma, Value: word(5), Fee: word(fee)})

	tr.Enqueue(create, call, after)
	require.NoError(t, tr.Run())

	receipts := tr.Receipts()
	require.Len(t, receipts, 5, spew.Sdump(receipts))
	require.Equal(t, create.Hash(), receipts[0].TxHash)
	require.Equal(t, call.Hash(), receipts[1].TxHash)
	require.Len(t, receipts[1].Emitted, 3)
	require.Equal(t, contract, receipts[2].Sender)
	require.Equal(t, receipts[1].Emitted[0].Hash(), receipts[2].TxHash)
	require.Equal(t, contract, receipts[3].Sender)
	require.Equal(t, receipts[1].Emitted[1].Hash(), receipts[3].TxHash)
	require.Equal(t, after.Hash(), receipts[4].TxHash)

	require.Equal(t, []*types.Transaction{create, call, after}, tr.Transactions())
	require.Empty(t, tr.Dropped())

	statedb := tr.State()
	require.Equal(t, word(1), statedb.GetBalance(alpha))
	require.Equal(t, word(2), statedb.GetBalance(beta))
	require.Equal(t, word(5), statedb.GetBalance(gamma))
	// the contract paid for its two applied messages
	left := new(uint256.Int).Sub(word(1000), word(1+fee+2+fee))
	left.Sub(left, receipts[1].VMFees)
	require.Equal(t, left, statedb.GetBalance(contract))

	fees := new(uint256.Int).Add(create.Fee(), call.Fee())
	fees.Add(fees, word(2*fee))
	fees.Add(fees, after.Fee())
	fees.Add(fees, receipts[1].VMFees)
	require.Equal(t, fees, tr.Fees())
}

func TestRunDropsInvalid(t *testing.T) {
	tr := newTestTransition(t, 1010)
	good := signTx(t, &types.TxData{To: &recipient, Value: word(1), Fee: word(params.DefaultTxFee)})
	replay := signTx(t, &types.TxData{To: &recipient, Value: word(1), Fee: word(params.DefaultTxFee)})
	cheap := signTx(t, &types.TxData{Nonce: 1, To: &recipient, Value: word(1), Fee: word(1)})

	tr.Enqueue(good, replay, cheap)
	require.NoError(t, tr.Run())
	require.Equal(t, []*types.Transaction{good}, tr.Transactions())
	require.Equal(t, []*types.Transaction{replay, cheap}, tr.Dropped())

	block, err := tr.Finalize(nil)
	require.NoError(t, err)
	require.Len(t, block.Transactions(), 1)
}
