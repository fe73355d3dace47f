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

const (
	StackLimit uint64 = 1024 // Maximum size of the VM's operand stack.
	// StackLimit 是虚拟机操作数栈的最大深度。

	DefaultStepFee uint64 = 1 // Charged for every VM step beyond the free allowance.
	// DefaultStepFee 是超出免费步数后每一步收取的费用。
	DefaultFreeSteps uint64 = 16 // Steps a contract invocation executes before step fees apply.
	// DefaultFreeSteps 是合约调用开始时免收步费的步数。
	DefaultTxFee uint64 = 100 // Required fee of a transaction that does not create a contract.
	// DefaultTxFee 是非合约创建交易的最低手续费。
	DefaultNewContractFee uint64 = 100 // Base fee of a contract creation, data words add MemoryFee each.
	// DefaultNewContractFee 是创建合约的基础费用，每个数据字另加 MemoryFee。
	DefaultMemoryFee uint64 = 5 // Storage pricing unit: creation data words, STORE tiers and self-destruct refunds.
	// DefaultMemoryFee 是存储计价单位。
	DefaultDataFee uint64 = 2 // Surcharge of a storage read (LOAD).
	// DefaultDataFee 是存储读取（LOAD）的附加费。
	DefaultExtroFee uint64 = 2 // Surcharge of a foreign state query (EXTRO, BALANCE).
	// DefaultExtroFee 是读取其他账户状态（EXTRO、BALANCE）的附加费。
	DefaultCryptoFee uint64 = 4 // Surcharge of hashing and elliptic curve operations.
	// DefaultCryptoFee 是哈希与椭圆曲线运算的附加费。

	MaxTxData uint64 = 1024 // Maximum number of data words a transaction may carry.
	// MaxTxData 是交易可携带的数据字的最大数量。

	DifficultyBoundDivisor uint64 = 1024 // The bound divisor of the difficulty, used in the update calculations.
	// DifficultyBoundDivisor 是难度调整计算中使用的边界除数。
	GenesisDifficulty uint64 = 1 << 22 // Difficulty of the Genesis block.
	// GenesisDifficulty 是创世区块的难度。
	MinimumDifficulty uint64 = 1 << 17 // The minimum that the difficulty may ever be.
	// MinimumDifficulty 是难度可能达到的最小值。
	TargetBlockTime uint64 = 60 // Seconds between blocks the difficulty adjustment aims for.
	// TargetBlockTime 是难度调整追求的出块间隔（秒）。
	MaxFutureDrift uint64 = 15 // Seconds a block timestamp may run ahead of the local clock.
	// MaxFutureDrift 是区块时间戳允许超前本地时钟的秒数。

	UncleRewardNum uint64 = 7 // Numerator of the share of the block reward paid to each uncle's coinbase.
	UncleRewardDen uint64 = 8
	// 叔块 coinbase 获得区块奖励的 7/8。
	NephewRewardNum uint64 = 1 // Numerator of the bonus per included uncle paid to the including block.
	NephewRewardDen uint64 = 32
	// 包含叔块的区块每个叔块额外获得区块奖励的 1/32。
	MaxUncles = 2 // Maximum number of uncles allowed in a single block
)
