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
package params

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// RewardPeriod is one step of the block reward schedule: blocks numbered
// below Until (or every remaining block when Until is zero) earn Reward.
// RewardPeriod 是区块奖励阶梯中的一段：编号小于 Until 的区块获得 Reward。
type RewardPeriod struct {
	Until  uint64 `toml:",omitempty"`
	Reward uint64
}

// Config holds the economic and consensus parameters of a ledger. Every
// field can be overridden from the [Ledger] section of a TOML config file.
//
// Config 包含账本的经济与共识参数，所有字段都可以通过 TOML 配置覆盖。
type Config struct {
	// Fee schedule
	TxFee          uint64
	NewContractFee uint64
	StepFee        uint64
	FreeSteps      uint64
	MemoryFee      uint64
	DataFee        uint64
	ExtroFee       uint64
	CryptoFee      uint64
	MaxTxData      uint64

	// Rewards
	RewardPeriods   []RewardPeriod
	UncleRewardNum  uint64
	UncleRewardDen  uint64
	NephewRewardNum uint64
	NephewRewardDen uint64

	// Difficulty and time
	DifficultyBoundDivisor uint64
	MinimumDifficulty      uint64
	TargetBlockTime        uint64
	MaxFutureDrift         uint64
}

// DefaultConfig is the parameter set used when no overrides are given. The
// reward steps down by half across four periods of 57,600 blocks.
var DefaultConfig = &Config{
	TxFee:          DefaultTxFee,
	NewContractFee: DefaultNewContractFee,
	StepFee:        DefaultStepFee,
	FreeSteps:      DefaultFreeSteps,
	MemoryFee:      DefaultMemoryFee,
	DataFee:        DefaultDataFee,
	ExtroFee:       DefaultExtroFee,
	CryptoFee:      DefaultCryptoFee,
	MaxTxData:      MaxTxData,

	RewardPeriods: []RewardPeriod{
		{Until: 57600, Reward: 1024 * Finney},
		{Until: 2 * 57600, Reward: 512 * Finney},
		{Until: 3 * 57600, Reward: 256 * Finney},
		{Reward: 128 * Finney},
	},
	UncleRewardNum:  UncleRewardNum,
	UncleRewardDen:  UncleRewardDen,
	NephewRewardNum: NephewRewardNum,
	NephewRewardDen: NephewRewardDen,

	DifficultyBoundDivisor: DifficultyBoundDivisor,
	MinimumDifficulty:      MinimumDifficulty,
	TargetBlockTime:        TargetBlockTime,
	MaxFutureDrift:         MaxFutureDrift,
}

var errZeroDenominator = errors.New("reward denominator is zero")

// Copy returns a deep copy of the config.
func (c *Config) Copy() *Config {
	cpy := *c
	cpy.RewardPeriods = append([]RewardPeriod(nil), c.RewardPeriods...)
	return &cpy
}

// CheckConfig verifies the reward schedule and the divisors.
// CheckConfig 检查奖励阶梯与各除数是否合法。
func (c *Config) CheckConfig() error {
	if len(c.RewardPeriods) != 4 {
		return fmt.Errorf("reward schedule must have 4 periods, have %d", len(c.RewardPeriods))
	}
	var last uint64
	for i, p := range c.RewardPeriods {
		if i == len(c.RewardPeriods)-1 {
			if p.Until != 0 {
				return fmt.Errorf("last reward period must be open-ended, has until=%d", p.Until)
			}
			break
		}
		if p.Until <= last {
			return fmt.Errorf("reward period %d ends at %d, not after %d", i, p.Until, last)
		}
		last = p.Until
	}
	if c.UncleRewardDen == 0 || c.NephewRewardDen == 0 {
		return errZeroDenominator
	}
	if c.DifficultyBoundDivisor == 0 {
		return errors.New("difficulty bound divisor is zero")
	}
	return nil
}

// BlockReward returns the base reward of the block with the given number.
// BlockReward 返回指定编号区块的基础奖励。
func (c *Config) BlockReward(number uint64) *uint256.Int {
	for _, p := range c.RewardPeriods {
		if p.Until == 0 || number < p.Until {
			return uint256.NewInt(p.Reward)
		}
	}
	return new(uint256.Int)
}

// CreationFee returns the fee required by a contract creation carrying n
// data words.
func (c *Config) CreationFee(n int) *uint256.Int {
	fee := uint256.NewInt(c.MemoryFee)
	fee.Mul(fee, uint256.NewInt(uint64(n)))
	return fee.Add(fee, uint256.NewInt(c.NewContractFee))
}

func (c *Config) String() string {
	return fmt.Sprintf("{TxFee: %d NewContractFee: %d StepFee: %d FreeSteps: %d MemoryFee: %d Periods: %d Target: %ds}",
		c.TxFee, c.NewContractFee, c.StepFee, c.FreeSteps, c.MemoryFee, len(c.RewardPeriods), c.TargetBlockTime)
}
