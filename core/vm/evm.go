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

package vm

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/params"
)

// BlockContext provides the contract machine with the fields of the block
// being built. Once provided it shouldn't be modified.
// BlockContext 为合约虚拟机提供正在构建的区块的字段，提供后不应修改。
type BlockContext struct {
	Coinbase   common.Address // Provides information for BLK_COINBASE
	Number     uint64         // Provides information for BLK_NUMBER
	Time       uint64         // Provides information for BLK_TIMESTAMP
	Difficulty *big.Int       // Provides information for BLK_DIFFICULTY
	ParentHash common.Hash    // Provides information for BLK_PREVHASH
}

// Config are the configuration options for the interpreter.
type Config struct {
	// MaxSteps bounds a single invocation. Zero means the invocation is
	// bounded only by what the contract can pay for.
	MaxSteps uint64
	Signer   Signer // Signature capability for ECSIGN/ECRECOVER, secp256k1 if nil
}

// ExecutionResult includes all output after running one contract invocation.
// ExecutionResult 包含一次合约调用的全部结果。
type ExecutionResult struct {
	Steps    uint64               // Number of instructions dispatched
	FeesPaid *uint256.Int         // Fees debited from the contract
	Refunded *uint256.Int         // Refunds credited to the contract
	Emitted  []*types.Transaction // Messages emitted by MKTX, in emission order
	// HaltReason is nil for STOP, SUICIDE and an empty slot. It is informative
	// only: nothing the invocation did before halting is undone.
	HaltReason error
}

// Failed returns whether the invocation halted abnormally.
func (result *ExecutionResult) Failed() bool { return result.HaltReason != nil }

// EVM is the contract machine. It runs one invocation at a time against the
// given state and should never be reused concurrently.
//
// EVM 是合约虚拟机，一次运行一个调用，不可并发复用。
type EVM struct {
	// Context provides auxiliary block information
	Context BlockContext
	// StateDB gives access to the underlying state
	StateDB StateDB

	// chainConfig holds the fee schedule
	chainConfig *params.Config
	// virtual machine configuration options used to initialise the interpreter
	Config Config
	// global (to this context) contract machine used throughout the
	// execution of the tx
	interpreter *EVMInterpreter
}

// NewEVM constructs an EVM instance with the supplied block context, state
// database and fee schedule.
func NewEVM(blockCtx BlockContext, statedb StateDB, chainConfig *params.Config, config Config) *EVM {
	if config.Signer == nil {
		config.Signer = secp256k1Signer{}
	}
	if blockCtx.Difficulty == nil {
		blockCtx.Difficulty = new(big.Int)
	}
	evm := &EVM{
		Context:     blockCtx,
		StateDB:     statedb,
		chainConfig: chainConfig,
		Config:      config,
	}
	evm.interpreter = NewEVMInterpreter(evm)
	return evm
}

// ChainConfig returns the fee schedule of the machine.
func (evm *EVM) ChainConfig() *params.Config { return evm.chainConfig }

// Call runs the code of contract on behalf of tx, whose sender is passed in
// already recovered. The contract pays for every step out of its own balance.
// A halt does not revert anything: writes and fees of earlier steps stand.
//
// Call 代表交易运行合约代码，合约用自身余额支付每一步的费用。
func (evm *EVM) Call(contract common.Address, tx *types.Transaction, sender common.Address) *ExecutionResult {
	return evm.interpreter.Run(contract, tx, sender)
}
