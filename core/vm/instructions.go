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
	"crypto/sha256"
	"math"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/crypto"
	"github.com/sunyihoo/go-ledger/log"
	"golang.org/x/crypto/ripemd160"
)

// Binary operations take the top of the stack as the left operand:
// x, y := pop(), pop(); push(x op y).

func opAdd(pc *uint64, evm *EVM, scope *ScopeContext) error {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Add(&x, y)
	return nil
}

func opSub(pc *uint64, evm *EVM, scope *ScopeContext) error {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Sub(&x, y)
	return nil
}

func opMul(pc *uint64, evm *EVM, scope *ScopeContext) error {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Mul(&x, y)
	return nil
}

// opDiv and the other division ops yield zero for a zero divisor.
func opDiv(pc *uint64, evm *EVM, scope *ScopeContext) error {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Div(&x, y)
	return nil
}

func opSdiv(pc *uint64, evm *EVM, scope *ScopeContext) error {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.SDiv(&x, y)
	return nil
}

func opMod(pc *uint64, evm *EVM, scope *ScopeContext) error {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Mod(&x, y)
	return nil
}

func opSmod(pc *uint64, evm *EVM, scope *ScopeContext) error {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.SMod(&x, y)
	return nil
}

func opExp(pc *uint64, evm *EVM, scope *ScopeContext) error {
	base, exponent := scope.Stack.pop(), scope.Stack.peek()
	exponent.Exp(&base, exponent)
	return nil
}

func opNeg(pc *uint64, evm *EVM, scope *ScopeContext) error {
	x := scope.Stack.peek()
	x.Neg(x)
	return nil
}

func setBool(z *uint256.Int, b bool) {
	if b {
		z.SetOne()
	} else {
		z.Clear()
	}
}

func opLt(pc *uint64, evm *EVM, scope *ScopeContext) error {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	setBool(y, x.Lt(y))
	return nil
}

func opLe(pc *uint64, evm *EVM, scope *ScopeContext) error {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	setBool(y, !x.Gt(y))
	return nil
}

func opGt(pc *uint64, evm *EVM, scope *ScopeContext) error {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	setBool(y, x.Gt(y))
	return nil
}

func opGe(pc *uint64, evm *EVM, scope *ScopeContext) error {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	setBool(y, !x.Lt(y))
	return nil
}

func opEq(pc *uint64, evm *EVM, scope *ScopeContext) error {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	setBool(y, x.Eq(y))
	return nil
}

func opNot(pc *uint64, evm *EVM, scope *ScopeContext) error {
	x := scope.Stack.peek()
	setBool(x, x.IsZero())
	return nil
}

func addressWord(addr common.Address) *uint256.Int {
	return new(uint256.Int).SetBytes20(addr[:])
}

func wordAddress(w *uint256.Int) common.Address {
	return common.Address(w.Bytes20())
}

func opMyAddress(pc *uint64, evm *EVM, scope *ScopeContext) error {
	scope.Stack.push(addressWord(scope.Contract))
	return nil
}

func opTxSender(pc *uint64, evm *EVM, scope *ScopeContext) error {
	scope.Stack.push(addressWord(scope.Sender))
	return nil
}

func opTxValue(pc *uint64, evm *EVM, scope *ScopeContext) error {
	scope.Stack.push(scope.Tx.Value())
	return nil
}

func opTxFee(pc *uint64, evm *EVM, scope *ScopeContext) error {
	scope.Stack.push(scope.Tx.Fee())
	return nil
}

func opTxDataN(pc *uint64, evm *EVM, scope *ScopeContext) error {
	scope.Stack.push(new(uint256.Int).SetUint64(uint64(scope.Tx.DataLen())))
	return nil
}

// opTxData replaces the index on top of the stack with the data word at that
// index, or zero when it is out of range.
func opTxData(pc *uint64, evm *EVM, scope *ScopeContext) error {
	x := scope.Stack.peek()
	if !x.IsUint64() {
		x.Clear()
		return nil
	}
	x.Set(scope.Tx.DataWord(x.Uint64()))
	return nil
}

func opPrevHash(pc *uint64, evm *EVM, scope *ScopeContext) error {
	scope.Stack.push(new(uint256.Int).SetBytes32(evm.Context.ParentHash[:]))
	return nil
}

func opCoinbase(pc *uint64, evm *EVM, scope *ScopeContext) error {
	scope.Stack.push(addressWord(evm.Context.Coinbase))
	return nil
}

func opTimestamp(pc *uint64, evm *EVM, scope *ScopeContext) error {
	scope.Stack.push(new(uint256.Int).SetUint64(evm.Context.Time))
	return nil
}

func opNumber(pc *uint64, evm *EVM, scope *ScopeContext) error {
	scope.Stack.push(new(uint256.Int).SetUint64(evm.Context.Number))
	return nil
}

func opDifficulty(pc *uint64, evm *EVM, scope *ScopeContext) error {
	v, _ := uint256.FromBig(evm.Context.Difficulty)
	scope.Stack.push(v)
	return nil
}

// popBytes pops a byte length L followed by ceil(L/32) words and returns the
// first L bytes of the words' big-endian concatenation.
func popBytes(stack *Stack) ([]byte, error) {
	l := stack.pop()
	if !l.IsUint64() || l.Uint64() > uint64(stack.len())*32 {
		return nil, &ErrStackUnderflow{stackLen: stack.len(), required: wordsRequired(&l)}
	}
	var (
		size = l.Uint64()
		buf  = make([]byte, 0, (size+31)/32*32)
	)
	for i := uint64(0); i < (size+31)/32; i++ {
		w := stack.pop()
		b := w.Bytes32()
		buf = append(buf, b[:]...)
	}
	return buf[:size], nil
}

func wordsRequired(l *uint256.Int) int {
	if !l.IsUint64() || l.Uint64() > math.MaxInt32 {
		return math.MaxInt32
	}
	return int((l.Uint64() + 31) / 32)
}

func opSha256(pc *uint64, evm *EVM, scope *ScopeContext) error {
	data, err := popBytes(scope.Stack)
	if err != nil {
		return err
	}
	h := sha256.Sum256(data)
	scope.Stack.push(new(uint256.Int).SetBytes32(h[:]))
	return nil
}

func opRipemd160(pc *uint64, evm *EVM, scope *ScopeContext) error {
	data, err := popBytes(scope.Stack)
	if err != nil {
		return err
	}
	hasher := ripemd160.New()
	hasher.Write(data)
	scope.Stack.push(new(uint256.Int).SetBytes(hasher.Sum(nil)))
	return nil
}

func opSha3(pc *uint64, evm *EVM, scope *ScopeContext) error {
	data, err := popBytes(scope.Stack)
	if err != nil {
		return err
	}
	scope.Stack.push(new(uint256.Int).SetBytes32(crypto.Keccak256(data)))
	return nil
}

// pushPoint leaves x on top of y, the order the point ops pop operands in,
// or two zeros when the curve operation failed.
func pushPoint(stack *Stack, x, y *big.Int, ok bool) {
	var px, py uint256.Int
	if ok {
		px.SetFromBig(x)
		py.SetFromBig(y)
	}
	stack.push(&py)
	stack.push(&px)
}

func opEcMul(pc *uint64, evm *EVM, scope *ScopeContext) error {
	n, x, y := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	rx, ry, ok := crypto.ScalarMult(n.ToBig(), x.ToBig(), y.ToBig())
	pushPoint(scope.Stack, rx, ry, ok)
	return nil
}

func opEcAdd(pc *uint64, evm *EVM, scope *ScopeContext) error {
	x1, y1 := scope.Stack.pop(), scope.Stack.pop()
	x2, y2 := scope.Stack.pop(), scope.Stack.pop()
	x, y, ok := crypto.AddPoints(x1.ToBig(), y1.ToBig(), x2.ToBig(), y2.ToBig())
	pushPoint(scope.Stack, x, y, ok)
	return nil
}

// opEcSign pops a message hash and a private key and leaves v on top of r on
// top of s, ready for ECRECOVER once the hash is pushed again.
func opEcSign(pc *uint64, evm *EVM, scope *ScopeContext) error {
	hash, key := scope.Stack.pop(), scope.Stack.pop()
	v, r, s, err := evm.Config.Signer.Sign(common.Hash(hash.Bytes32()), &key)
	if err != nil {
		log.Trace("ECSIGN failed", "contract", scope.Contract, "err", err)
		v, r, s = 0, new(uint256.Int), new(uint256.Int)
	}
	scope.Stack.push(s)
	scope.Stack.push(r)
	scope.Stack.push(new(uint256.Int).SetUint64(uint64(v)))
	return nil
}

// opEcRecover pops a message hash, v, r and s and pushes the public key
// point of the signer, x on top.
func opEcRecover(pc *uint64, evm *EVM, scope *ScopeContext) error {
	hash, v := scope.Stack.pop(), scope.Stack.pop()
	r, s := scope.Stack.pop(), scope.Stack.pop()
	x, y := new(uint256.Int), new(uint256.Int)
	if v.IsUint64() && v.Uint64() <= 255 {
		px, py, err := evm.Config.Signer.Recover(common.Hash(hash.Bytes32()), byte(v.Uint64()), &r, &s)
		if err == nil {
			x, y = px, py
		}
	}
	scope.Stack.push(y)
	scope.Stack.push(x)
	return nil
}

func opEcValid(pc *uint64, evm *EVM, scope *ScopeContext) error {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	setBool(y, crypto.ValidPoint(x.ToBig(), y.ToBig()))
	return nil
}

// opPush pushes the immediate, the upper 248 bits of the instruction word.
func opPush(pc *uint64, evm *EVM, scope *ScopeContext) error {
	scope.Stack.push(new(uint256.Int).Rsh(&scope.word, 8))
	return nil
}

func opPop(pc *uint64, evm *EVM, scope *ScopeContext) error {
	scope.Stack.pop()
	return nil
}

func opDup(pc *uint64, evm *EVM, scope *ScopeContext) error {
	scope.Stack.dup(1)
	return nil
}

// opDupN pops n and pushes a copy of the n'th item from the top, 0 being the
// top itself after n was popped.
func opDupN(pc *uint64, evm *EVM, scope *ScopeContext) error {
	n := scope.Stack.pop()
	if !n.IsUint64() || n.Uint64() >= uint64(scope.Stack.len()) {
		return &ErrStackUnderflow{stackLen: scope.Stack.len(), required: indexRequired(&n)}
	}
	scope.Stack.dup(int(n.Uint64()) + 1)
	return nil
}

func opSwap(pc *uint64, evm *EVM, scope *ScopeContext) error {
	scope.Stack.swap(1)
	return nil
}

// opSwapN pops n and exchanges the top with the n'th item below it.
func opSwapN(pc *uint64, evm *EVM, scope *ScopeContext) error {
	n := scope.Stack.pop()
	if !n.IsUint64() || n.Uint64() >= uint64(scope.Stack.len()) {
		return &ErrStackUnderflow{stackLen: scope.Stack.len(), required: indexRequired(&n)}
	}
	scope.Stack.swap(int(n.Uint64()))
	return nil
}

func indexRequired(n *uint256.Int) int {
	if !n.IsUint64() || n.Uint64() >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n.Uint64()) + 1
}

func opLoad(pc *uint64, evm *EVM, scope *ScopeContext) error {
	loc := scope.Stack.peek()
	loc.Set(evm.StateDB.GetStorage(scope.Contract, loc))
	return nil
}

// opStore pops a key and then a value. Code lives in the same slots, so a
// contract can rewrite its own instructions.
func opStore(pc *uint64, evm *EVM, scope *ScopeContext) error {
	loc, val := scope.Stack.pop(), scope.Stack.pop()
	evm.StateDB.SetStorage(scope.Contract, &loc, &val)
	return nil
}

// jumpTo moves the program counter to dest. A destination beyond 64 bits
// has no code and stops the invocation.
func jumpTo(pc *uint64, dest *uint256.Int) error {
	if !dest.IsUint64() {
		return errStopToken
	}
	*pc = dest.Uint64() - 1 // pc will be increased by the interpreter loop
	return nil
}

func opJump(pc *uint64, evm *EVM, scope *ScopeContext) error {
	dest := scope.Stack.pop()
	return jumpTo(pc, &dest)
}

func opJumpi(pc *uint64, evm *EVM, scope *ScopeContext) error {
	dest, cond := scope.Stack.pop(), scope.Stack.pop()
	if cond.IsZero() {
		return nil
	}
	return jumpTo(pc, &dest)
}

func opInd(pc *uint64, evm *EVM, scope *ScopeContext) error {
	scope.Stack.push(new(uint256.Int).SetUint64(*pc))
	return nil
}

// opExtro pops an address and a key and pushes that storage word of another
// account.
func opExtro(pc *uint64, evm *EVM, scope *ScopeContext) error {
	addr, loc := scope.Stack.pop(), scope.Stack.peek()
	loc.Set(evm.StateDB.GetStorage(wordAddress(&addr), loc))
	return nil
}

func opBalance(pc *uint64, evm *EVM, scope *ScopeContext) error {
	slot := scope.Stack.peek()
	slot.Set(evm.StateDB.GetBalance(wordAddress(slot)))
	return nil
}

// opMktx pops recipient, value, fee and a data count n followed by n data
// words, and emits a message from the contract. The message is dropped when
// the contract cannot cover value+fee; it is applied later like any other
// transaction, so nothing is debited here.
//
// opMktx 从栈中取出接收者、金额、费用和数据，以合约为发送者发出消息。
func opMktx(pc *uint64, evm *EVM, scope *ScopeContext) error {
	stack := scope.Stack
	to, value, fee, n := stack.pop(), stack.pop(), stack.pop(), stack.pop()
	if !n.IsUint64() || n.Uint64() > uint64(stack.len()) {
		return &ErrStackUnderflow{stackLen: stack.len(), required: indexRequired(&n) - 1}
	}
	data := make([]uint256.Int, n.Uint64())
	for i := range data {
		data[i] = stack.pop()
	}
	cost, overflow := new(uint256.Int).AddOverflow(&value, &fee)
	if overflow || evm.StateDB.GetBalance(scope.Contract).Lt(cost) {
		log.Debug("Dropped contract message", "contract", scope.Contract, "value", &value, "fee", &fee)
		return nil
	}
	recipient := wordAddress(&to)
	msg := types.NewMessage(scope.Contract, &types.TxData{
		To:    &recipient,
		Value: &value,
		Fee:   &fee,
		Data:  data,
	})
	scope.emitted = append(scope.emitted, msg)
	return nil
}

// opSuicide empties the contract's storage. Its storage refund has already
// been credited by the fee meter.
func opSuicide(pc *uint64, evm *EVM, scope *ScopeContext) error {
	evm.StateDB.UpdateContract(scope.Contract, types.EmptyRootHash)
	return errStopToken
}

func opStop(pc *uint64, evm *EVM, scope *ScopeContext) error {
	return errStopToken
}
