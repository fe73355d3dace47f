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
	"fmt"

	"github.com/sunyihoo/go-ledger/params"
)

type (
	executionFunc func(pc *uint64, evm *EVM, scope *ScopeContext) error
	// feeFunc prices an operation on top of the step fee. It runs before the
	// operation with the stack still intact.
	feeFunc func(evm *EVM, scope *ScopeContext) (charge, refund uint64)
)

type operation struct {
	// execute is the operation function
	execute executionFunc
	// fee is the surcharge function, nil when the operation has none
	fee feeFunc

	// minStack tells how many stack items are required
	minStack int
	// maxStack specifies the max length the stack can have for this operation
	// to not overflow the stack.
	maxStack int

	// unmetered operations never pay the step fee
	unmetered bool
}

// JumpTable contains the contract machine opcodes.
type JumpTable [256]*operation

func validate(jt JumpTable) JumpTable {
	for i, op := range jt {
		if op == nil {
			continue
		}
		if op.execute == nil {
			panic(fmt.Sprintf("op %#x is not set", i))
		}
	}
	return jt
}

func minStack(pops, push int) int {
	return pops
}

func maxStack(pop, push int) int {
	return int(params.StackLimit) + pop - push
}

func flatFee(pick func(*params.Config) uint64) feeFunc {
	return func(evm *EVM, scope *ScopeContext) (uint64, uint64) {
		return pick(evm.chainConfig), 0
	}
}

var (
	dataFee   = flatFee(func(c *params.Config) uint64 { return c.DataFee })
	extroFee  = flatFee(func(c *params.Config) uint64 { return c.ExtroFee })
	cryptoFee = flatFee(func(c *params.Config) uint64 { return c.CryptoFee })
)

// storeFee charges for a slot going from zero to non-zero and refunds one
// going from non-zero to zero. Overwrites are free beyond the step fee.
// storeFee：零值变非零收费，非零变零退费，覆盖写不额外收费。
func storeFee(evm *EVM, scope *ScopeContext) (uint64, uint64) {
	var (
		key   = scope.Stack.Back(0)
		value = scope.Stack.Back(1)
		cur   = evm.StateDB.GetStorage(scope.Contract, key)
	)
	switch {
	case cur.IsZero() && !value.IsZero():
		return 2 * evm.chainConfig.MemoryFee, 0
	case !cur.IsZero() && value.IsZero():
		return 0, evm.chainConfig.MemoryFee
	}
	return 0, 0
}

// suicideFee refunds the storage footprint of the contract.
func suicideFee(evm *EVM, scope *ScopeContext) (uint64, uint64) {
	return 0, uint64(evm.StateDB.StorageSize(scope.Contract)) * evm.chainConfig.MemoryFee
}

func newLedgerInstructionSet() JumpTable {
	tbl := JumpTable{
		STOP: {
			execute:   opStop,
			minStack:  minStack(0, 0),
			maxStack:  maxStack(0, 0),
			unmetered: true,
		},

		ADD:  {execute: opAdd, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		SUB:  {execute: opSub, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		MUL:  {execute: opMul, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		DIV:  {execute: opDiv, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		SDIV: {execute: opSdiv, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		MOD:  {execute: opMod, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		SMOD: {execute: opSmod, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		EXP:  {execute: opExp, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		NEG:  {execute: opNeg, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		LT:   {execute: opLt, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		LE:   {execute: opLe, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		GT:   {execute: opGt, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		GE:   {execute: opGe, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		EQ:   {execute: opEq, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		NOT:  {execute: opNot, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},

		MYADDRESS:      {execute: opMyAddress, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		TXSENDER:       {execute: opTxSender, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		TXVALUE:        {execute: opTxValue, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		TXFEE:          {execute: opTxFee, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		TXDATAN:        {execute: opTxDataN, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		TXDATA:         {execute: opTxData, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		BLK_PREVHASH:   {execute: opPrevHash, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		BLK_COINBASE:   {execute: opCoinbase, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		BLK_TIMESTAMP:  {execute: opTimestamp, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		BLK_NUMBER:     {execute: opNumber, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		BLK_DIFFICULTY: {execute: opDifficulty, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},

		SHA256:    {execute: opSha256, fee: cryptoFee, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		RIPEMD160: {execute: opRipemd160, fee: cryptoFee, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		SHA3:      {execute: opSha3, fee: cryptoFee, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		ECMUL:     {execute: opEcMul, fee: cryptoFee, minStack: minStack(3, 2), maxStack: maxStack(3, 2)},
		ECADD:     {execute: opEcAdd, fee: cryptoFee, minStack: minStack(4, 2), maxStack: maxStack(4, 2)},
		ECSIGN:    {execute: opEcSign, fee: cryptoFee, minStack: minStack(2, 3), maxStack: maxStack(2, 3)},
		ECRECOVER: {execute: opEcRecover, fee: cryptoFee, minStack: minStack(4, 2), maxStack: maxStack(4, 2)},
		ECVALID:   {execute: opEcValid, fee: cryptoFee, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},

		PUSH:  {execute: opPush, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},
		POP:   {execute: opPop, minStack: minStack(1, 0), maxStack: maxStack(1, 0)},
		DUP:   {execute: opDup, minStack: minStack(1, 2), maxStack: maxStack(1, 2)},
		DUPN:  {execute: opDupN, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		SWAP:  {execute: opSwap, minStack: minStack(2, 2), maxStack: maxStack(2, 2)},
		SWAPN: {execute: opSwapN, minStack: minStack(1, 0), maxStack: maxStack(1, 0)},
		LOAD:  {execute: opLoad, fee: dataFee, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},
		STORE: {execute: opStore, fee: storeFee, minStack: minStack(2, 0), maxStack: maxStack(2, 0)},

		JMP:  {execute: opJump, minStack: minStack(1, 0), maxStack: maxStack(1, 0)},
		JMPI: {execute: opJumpi, minStack: minStack(2, 0), maxStack: maxStack(2, 0)},
		IND:  {execute: opInd, minStack: minStack(0, 1), maxStack: maxStack(0, 1)},

		EXTRO:   {execute: opExtro, fee: extroFee, minStack: minStack(2, 1), maxStack: maxStack(2, 1)},
		BALANCE: {execute: opBalance, fee: extroFee, minStack: minStack(1, 1), maxStack: maxStack(1, 1)},

		MKTX: {execute: opMktx, minStack: minStack(4, 0), maxStack: maxStack(4, 0)},

		SUICIDE: {
			execute:   opSuicide,
			fee:       suicideFee,
			minStack:  minStack(0, 0),
			maxStack:  maxStack(0, 0),
			unmetered: true,
		},
	}
	return validate(tbl)
}
