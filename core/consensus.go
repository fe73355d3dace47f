// Copyright 2017 The go-ethereum Authors
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
	"math/big"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/core/state"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/params"
)

// CalcDifficulty is the difficulty adjustment algorithm. It returns the
// difficulty that a new block should have when created at time given the
// parent block's time and difficulty: one DifficultyBoundDivisor-th up when
// the block came faster than TargetBlockTime, one down otherwise, never
// below MinimumDifficulty.
//
// CalcDifficulty 是难度调整算法：出块快于目标间隔则上调，否则下调，且不低于最小难度。
func CalcDifficulty(config *params.Config, time uint64, parent *types.Header) *big.Int {
	var (
		diff   = new(big.Int)
		adjust = new(big.Int).Div(parent.Difficulty, new(big.Int).SetUint64(config.DifficultyBoundDivisor))
	)
	// A timestamp before the parent is rejected elsewhere; treat it as fast.
	if time < parent.Time || time-parent.Time < config.TargetBlockTime {
		diff.Add(parent.Difficulty, adjust)
	} else {
		diff.Sub(parent.Difficulty, adjust)
	}
	if min := new(big.Int).SetUint64(config.MinimumDifficulty); diff.Cmp(min) < 0 {
		diff.Set(min)
	}
	return diff
}

// AccumulateRewards credits the coinbase of the given block with the mining
// reward plus the collected fees. The coinbase of each uncle gets
// UncleRewardNum/UncleRewardDen of the reward, and the block a further
// NephewRewardNum/NephewRewardDen of it per uncle included.
//
// AccumulateRewards 为区块 coinbase 发放奖励与手续费，叔块 coinbase 与包含叔块的区块另有奖励。
func AccumulateRewards(config *params.Config, statedb *state.StateDB, header *types.Header, uncles []*types.Header, fees *uint256.Int) {
	var (
		blockReward = config.BlockReward(header.Number)
		reward      = new(uint256.Int).Set(blockReward)
		r           = new(uint256.Int)
	)
	for _, uncle := range uncles {
		r.Mul(blockReward, uint256.NewInt(config.UncleRewardNum))
		r.Div(r, uint256.NewInt(config.UncleRewardDen))
		statedb.AddBalance(uncle.Coinbase, r)

		r.Mul(blockReward, uint256.NewInt(config.NephewRewardNum))
		r.Div(r, uint256.NewInt(config.NephewRewardDen))
		reward.Add(reward, r)
	}
	if fees != nil {
		reward.Add(reward, fees)
	}
	statedb.AddBalance(header.Coinbase, reward)
}
