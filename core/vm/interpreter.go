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
	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/log"
)

var ledgerInstructionSet = newLedgerInstructionSet()

// ScopeContext contains the things that are per-call, such as stack and
// the executing contract.
// ScopeContext 包含每次调用独有的内容，例如栈和正在执行的合约。
type ScopeContext struct {
	Stack    *Stack
	Contract common.Address
	Sender   common.Address
	Tx       *types.Transaction

	word    uint256.Int // instruction word being executed
	emitted []*types.Transaction
}

// EVMInterpreter represents a contract machine interpreter.
type EVMInterpreter struct {
	evm   *EVM
	table *JumpTable
}

// NewEVMInterpreter returns a new instance of the Interpreter.
func NewEVMInterpreter(evm *EVM) *EVMInterpreter {
	return &EVMInterpreter{evm: evm, table: &ledgerInstructionSet}
}

// Run loops and executes the contract's code starting at slot 0 until STOP,
// SUICIDE, an empty slot or a halting error.
//
// Every step reads its instruction from the contract's storage as it is at
// that moment, so code the contract rewrites ahead of the program counter is
// what runs.
//
// NOTE: a halt does NOT roll anything back. Storage writes, fees and balance
// changes made by earlier steps of the invocation stay in the state. This is
// consensus behaviour; buffering writes until a clean STOP would change the
// state root of existing chains.
//
// Run 从槽 0 开始执行合约代码。停机不会回滚之前步骤的任何效果。
func (in *EVMInterpreter) Run(contract common.Address, tx *types.Transaction, sender common.Address) *ExecutionResult {
	var (
		pc      = uint64(0) // program counter, a storage key
		stack   = newstack()
		statedb = in.evm.StateDB
		scope   = &ScopeContext{
			Stack:    stack,
			Contract: contract,
			Sender:   sender,
			Tx:       tx,
		}
		res = &ExecutionResult{
			FeesPaid: new(uint256.Int),
			Refunded: new(uint256.Int),
		}
		key uint256.Int
		err error
	)
	// Don't move this deferred function, it's placed before the loop so that
	// the stack is returned on every exit path.
	defer returnStack(stack)

	for {
		scope.word = *statedb.GetStorage(contract, key.SetUint64(pc))
		op := OpCode(scope.word[0])
		operation := in.table[op]
		if operation == nil {
			err = &ErrInvalidOpCode{opcode: op}
			break
		}
		if limit := in.evm.Config.MaxSteps; limit > 0 && res.Steps >= limit {
			err = ErrStepLimit
			break
		}
		// Validate stack
		if sLen := stack.len(); sLen < operation.minStack {
			err = &ErrStackUnderflow{stackLen: sLen, required: operation.minStack}
			break
		} else if sLen > operation.maxStack {
			err = &ErrStackOverflow{stackLen: sLen, limit: operation.maxStack}
			break
		}
		if err = in.meter(operation, scope, res); err != nil {
			break
		}
		res.Steps++

		// execute the operation
		if err = operation.execute(&pc, in.evm, scope); err != nil {
			break
		}
		pc++
	}
	if err == errStopToken {
		err = nil // clean stop
	}
	res.HaltReason = err
	res.Emitted = scope.emitted
	if err != nil {
		log.Debug("Contract halted", "contract", contract, "pc", pc, "steps", res.Steps, "err", err)
	}
	return res
}

// meter settles the fee of the next step against the contract's balance. A
// positive net fee is debited only if the contract can afford all of it; a
// negative one is credited unconditionally.
//
// meter 结算下一步的费用：净费用为正时合约必须付得起，为负时无条件退还。
func (in *EVMInterpreter) meter(operation *operation, scope *ScopeContext, res *ExecutionResult) error {
	var (
		cfg            = in.evm.chainConfig
		statedb        = in.evm.StateDB
		charge, refund uint64
		fee            uint256.Int
	)
	if !operation.unmetered && res.Steps+1 > cfg.FreeSteps {
		charge = cfg.StepFee
	}
	if operation.fee != nil {
		c, r := operation.fee(in.evm, scope)
		charge += c
		refund = r
	}
	switch {
	case charge > refund:
		fee.SetUint64(charge - refund)
		if statedb.GetBalance(scope.Contract).Lt(&fee) {
			return ErrOutOfFunds
		}
		statedb.SubBalance(scope.Contract, &fee)
		res.FeesPaid.Add(res.FeesPaid, &fee)
	case refund > charge:
		fee.SetUint64(refund - charge)
		statedb.AddBalance(scope.Contract, &fee)
		res.Refunded.Add(res.Refunded, &fee)
	}
	return nil
}
