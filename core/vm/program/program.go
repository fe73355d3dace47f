// Copyright 2024 The go-ethereum Authors
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

// package program is a utility to create contract code for testing, but _not_ for production. As such:
//
// - There are not package guarantees. We might iterate heavily on this package, and do backwards-incompatible changes without warning
// - There are no stability-guarantees. The utility will `panic` if the inputs do not align / make sense.

package program

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/core/vm"
)

// maxImmediate is the largest value a PUSH instruction word can carry.
var maxImmediate = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 248), uint256.NewInt(1))

// Program is a simple container of instruction words. It can be used to
// construct simple contracts whose code is the data of a creation
// transaction. Errors during construction typically cause panics.
// Program 是指令字的简单容器，构建出错时会 panic，仅用于测试。
type Program struct {
	code []uint256.Int
}

// New creates a new Program
func New() *Program {
	return &Program{
		code: make([]uint256.Int, 0),
	}
}

// add adds the op to the code.
func (p *Program) add(op vm.OpCode) *Program {
	p.code = append(p.code, *uint256.NewInt(uint64(op)))
	return p
}

// Op appends the given opcodes.
func (p *Program) Op(ops ...vm.OpCode) *Program {
	for _, op := range ops {
		p.add(op)
	}
	return p
}

// Push creates a PUSH instruction carrying val. Accepted values are
// *uint256.Int, uint64, int and vm.OpCode; values wider than 248 bits panic.
func (p *Program) Push(val any) *Program {
	var imm uint256.Int
	switch v := val.(type) {
	case *uint256.Int:
		imm.Set(v)
	case uint64:
		imm.SetUint64(v)
	case int:
		if v < 0 {
			panic(fmt.Sprintf("negative push value %d", v))
		}
		imm.SetUint64(uint64(v))
	case vm.OpCode:
		imm.SetUint64(uint64(v))
	default:
		panic(fmt.Sprintf("unsupported type %T", v))
	}
	if imm.Gt(maxImmediate) {
		panic(fmt.Sprintf("push value %v exceeds 248 bits", &imm))
	}
	word := new(uint256.Int).Lsh(&imm, 8)
	word.Or(word, uint256.NewInt(uint64(vm.PUSH)))
	p.code = append(p.code, *word)
	return p
}

// Word appends a raw word, e.g. a data slot the code reads back with LOAD.
func (p *Program) Word(w *uint256.Int) *Program {
	p.code = append(p.code, *w)
	return p
}

// Label returns the current position in the program, to be used as a jump
// destination.
func (p *Program) Label() uint64 {
	return uint64(len(p.code))
}

// Jump pushes the destination and performs a JMP.
func (p *Program) Jump(loc uint64) *Program {
	return p.Push(loc).Op(vm.JMP)
}

// JumpIf implements JMPI: the condition is expected on top of the stack.
func (p *Program) JumpIf(loc uint64) *Program {
	return p.Push(loc).Op(vm.JMPI)
}

// Store stores value at key.
func (p *Program) Store(key, value any) *Program {
	return p.Push(value).Push(key).Op(vm.STORE)
}

// Load pushes the storage word at key.
func (p *Program) Load(key any) *Program {
	return p.Push(key).Op(vm.LOAD)
}

// Mktx emits a message from the contract to `to`.
func (p *Program) Mktx(to, value, fee any, data ...any) *Program {
	for i := len(data) - 1; i >= 0; i-- {
		p.Push(data[i])
	}
	return p.Push(len(data)).Push(fee).Push(value).Push(to).Op(vm.MKTX)
}

// Suicide appends a SUICIDE.
func (p *Program) Suicide() *Program {
	return p.Op(vm.SUICIDE)
}

// Len returns the number of instruction words.
func (p *Program) Len() int {
	return len(p.code)
}

// Code returns a copy of the instruction words.
func (p *Program) Code() []uint256.Int {
	return append([]uint256.Int(nil), p.code...)
}
