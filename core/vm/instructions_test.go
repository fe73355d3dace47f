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

package vm

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/state"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/params"
)

var testContract = common.HexToAddress("0xc0de")

func newTestEVM(t *testing.T) (*EVM, *state.StateDB) {
	t.Helper()
	statedb, err := state.New(types.EmptyRootHash, state.NewDatabaseForTesting())
	require.NoError(t, err)
	statedb.CreateContract(testContract)
	return NewEVM(BlockContext{}, statedb, params.DefaultConfig, Config{}), statedb
}

func newScope() *ScopeContext {
	return &ScopeContext{
		Stack:    newstack(),
		Contract: testContract,
		Tx:       types.NewMessage(common.Address{}, &types.TxData{}),
	}
}

type twoOperandTest struct {
	x        string // top of the stack
	y        string
	expected string
}

func testTwoOperandOp(t *testing.T, tests []twoOperandTest, opFn executionFunc, name string) {
	evm, _ := newTestEVM(t)
	scope := newScope()
	var pc uint64
	for i, test := range tests {
		x := uint256.MustFromHex(test.x)
		y := uint256.MustFromHex(test.y)
		expected := uint256.MustFromHex(test.expected)
		scope.Stack.push(y)
		scope.Stack.push(x)
		require.NoError(t, opFn(&pc, evm, scope))
		require.Equal(t, 1, scope.Stack.len(), "%s #%d", name, i)
		actual := scope.Stack.pop()
		require.Equal(t, expected, &actual, "%s #%d: %v %v", name, i, x, y)
	}
}

const (
	zero   = "0x0"
	one    = "0x1"
	two    = "0x2"
	three  = "0x3"
	seven  = "0x7"
	maxU   = "0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"
	minus2 = "0xfffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffe"
)

func TestArithmetic(t *testing.T) {
	testTwoOperandOp(t, []twoOperandTest{{seven, two, "0x9"}, {maxU, one, zero}}, opAdd, "add")
	testTwoOperandOp(t, []twoOperandTest{{seven, two, "0x5"}, {two, seven, "0xfffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffb"}}, opSub, "sub")
	testTwoOperandOp(t, []twoOperandTest{{seven, two, "0xe"}, {maxU, two, minus2}}, opMul, "mul")
	testTwoOperandOp(t, []twoOperandTest{{seven, two, three}, {seven, zero, zero}}, opDiv, "div")
	testTwoOperandOp(t, []twoOperandTest{{seven, two, one}, {seven, zero, zero}}, opMod, "mod")
	testTwoOperandOp(t, []twoOperandTest{{two, three, "0x8"}, {three, zero, one}}, opExp, "exp")
}

func TestSignedArithmetic(t *testing.T) {
	// -7 / 2 = -3, -7 % 2 = -1
	minus7 := "0xfffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff9"
	testTwoOperandOp(t, []twoOperandTest{{minus7, two, "0xfffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffd"}, {minus7, zero, zero}}, opSdiv, "sdiv")
	testTwoOperandOp(t, []twoOperandTest{{minus7, two, maxU}, {minus7, zero, zero}}, opSmod, "smod")
}

func TestComparison(t *testing.T) {
	testTwoOperandOp(t, []twoOperandTest{{one, two, one}, {two, one, zero}, {one, one, zero}}, opLt, "lt")
	testTwoOperandOp(t, []twoOperandTest{{one, two, one}, {two, one, zero}, {one, one, one}}, opLe, "le")
	testTwoOperandOp(t, []twoOperandTest{{one, two, zero}, {two, one, one}, {one, one, zero}}, opGt, "gt")
	testTwoOperandOp(t, []twoOperandTest{{one, two, zero}, {two, one, one}, {one, one, one}}, opGe, "ge")
	testTwoOperandOp(t, []twoOperandTest{{one, two, zero}, {maxU, maxU, one}}, opEq, "eq")
}

func TestUnaryOps(t *testing.T) {
	evm, _ := newTestEVM(t)
	scope := newScope()
	var pc uint64

	scope.Stack.push(uint256.NewInt(2))
	require.NoError(t, opNeg(&pc, evm, scope))
	require.Equal(t, uint256.MustFromHex(minus2), scope.Stack.peek())

	require.NoError(t, opNot(&pc, evm, scope))
	require.True(t, scope.Stack.peek().IsZero())
	require.NoError(t, opNot(&pc, evm, scope))
	require.Equal(t, uint64(1), scope.Stack.peek().Uint64())
}

func TestStackOps(t *testing.T) {
	evm, _ := newTestEVM(t)
	scope := newScope()
	var pc uint64
	for i := uint64(1); i <= 4; i++ {
		scope.Stack.push(uint256.NewInt(i))
	}
	// 1 2 3 4
	scope.Stack.push(uint256.NewInt(2))
	require.NoError(t, opDupN(&pc, evm, scope))
	require.Equal(t, uint64(2), scope.Stack.peek().Uint64()) // 1 2 3 4 2

	scope.Stack.push(uint256.NewInt(2))
	require.NoError(t, opSwapN(&pc, evm, scope))
	// 1 2 2 4 3
	require.Equal(t, uint64(3), scope.Stack.peek().Uint64())
	require.Equal(t, uint64(2), scope.Stack.Back(2).Uint64())

	require.NoError(t, opSwap(&pc, evm, scope))
	require.Equal(t, uint64(4), scope.Stack.peek().Uint64())
	require.NoError(t, opDup(&pc, evm, scope))
	require.Equal(t, 6, scope.Stack.len())
}

func TestJumpWraps(t *testing.T) {
	var pc uint64 = 9
	require.NoError(t, jumpTo(&pc, uint256.NewInt(0)))
	pc++
	require.Zero(t, pc)

	huge := new(uint256.Int).Lsh(uint256.NewInt(1), 64)
	require.ErrorIs(t, jumpTo(&pc, huge), errStopToken)
}

func TestStoreFee(t *testing.T) {
	evm, statedb := newTestEVM(t)
	scope := newScope()
	mem := params.DefaultConfig.MemoryFee

	scope.Stack.push(uint256.NewInt(5)) // value
	scope.Stack.push(uint256.NewInt(1)) // key
	charge, refund := storeFee(evm, scope)
	require.Equal(t, 2*mem, charge)
	require.Zero(t, refund)

	statedb.SetStorage(testContract, uint256.NewInt(1), uint256.NewInt(9))
	charge, refund = storeFee(evm, scope)
	require.Zero(t, charge)
	require.Zero(t, refund)

	scope.Stack.Back(1).Clear()
	charge, refund = storeFee(evm, scope)
	require.Zero(t, charge)
	require.Equal(t, mem, refund)
}

func TestEcOps(t *testing.T) {
	evm, _ := newTestEVM(t)
	scope := newScope()
	var pc uint64

	// generator point of secp256k1
	gx := uint256.MustFromHex("0x79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	gy := uint256.MustFromHex("0x483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8")

	scope.Stack.push(gy)
	scope.Stack.push(gx)
	require.NoError(t, opEcValid(&pc, evm, scope))
	valid := scope.Stack.pop()
	require.Equal(t, uint64(1), valid.Uint64())

	// G + G == 2 * G
	scope.Stack.push(gy)
	scope.Stack.push(gx)
	scope.Stack.push(gy)
	scope.Stack.push(gx)
	require.NoError(t, opEcAdd(&pc, evm, scope))
	sumX, sumY := scope.Stack.pop(), scope.Stack.pop()

	scope.Stack.push(gy)
	scope.Stack.push(gx)
	scope.Stack.push(uint256.NewInt(2))
	require.NoError(t, opEcMul(&pc, evm, scope))
	mulX, mulY := scope.Stack.pop(), scope.Stack.pop()
	require.Equal(t, sumX, mulX)
	require.Equal(t, sumY, mulY)

	// off-curve input yields zeros
	scope.Stack.push(uint256.NewInt(1))
	scope.Stack.push(uint256.NewInt(1))
	scope.Stack.push(uint256.NewInt(1))
	scope.Stack.push(uint256.NewInt(1))
	require.NoError(t, opEcAdd(&pc, evm, scope))
	x, y := scope.Stack.pop(), scope.Stack.pop()
	require.True(t, x.IsZero())
	require.True(t, y.IsZero())
}

func TestPopBytesUnderflow(t *testing.T) {
	st := newstack()
	st.push(uint256.NewInt(1))
	st.push(uint256.NewInt(64)) // needs two words, only one present
	_, err := popBytes(st)
	require.IsType(t, &ErrStackUnderflow{}, err)
}

func TestOpCodeNames(t *testing.T) {
	for _, op := range []OpCode{STOP, PUSH, MKTX, SUICIDE, BLK_DIFFICULTY, SHA3} {
		got, ok := StringToOp(op.String())
		require.True(t, ok, op.String())
		require.Equal(t, op, got)
	}
	require.Contains(t, OpCode(0x99).String(), "not defined")
	require.Nil(t, ledgerInstructionSet[0x99])
}
