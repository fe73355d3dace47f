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
)

// OpCode is a contract VM opcode. It is the low byte of an instruction word;
// the remaining 248 bits of the word are the immediate used by PUSH.
// OpCode 是合约虚拟机的操作码，即指令字的最低字节；其余 248 位是 PUSH 的立即数。
type OpCode byte

// 0x0 range - arithmetic ops.
const (
	STOP OpCode = iota
	ADD
	SUB
	MUL
	DIV
	SDIV
	MOD
	SMOD
	EXP
	NEG
	LT
	LE
	GT
	GE
	EQ
	NOT
)

// 0x10 range - transaction and block environment.
const (
	MYADDRESS OpCode = 0x10 + iota
	TXSENDER
	TXVALUE
	TXFEE
	TXDATAN
	TXDATA
	BLK_PREVHASH
	BLK_COINBASE
	BLK_TIMESTAMP
	BLK_NUMBER
	BLK_DIFFICULTY
)

// 0x20 range - crypto.
const (
	SHA256 OpCode = 0x20 + iota
	RIPEMD160
	ECMUL
	ECADD
	ECSIGN
	ECRECOVER
	ECVALID
	SHA3
)

// 0x30 range - stack and storage.
const (
	PUSH OpCode = 0x30 + iota
	POP
	DUP
	DUPN
	SWAP
	SWAPN
	LOAD
	STORE
)

// 0x40 range - control flow.
const (
	JMP OpCode = 0x40 + iota
	JMPI
	IND
)

// 0x50 range - foreign state.
const (
	EXTRO OpCode = 0x50 + iota
	BALANCE
)

// 0x60 range - message calls and self-destruct.
const (
	MKTX    OpCode = 0x60
	SUICIDE OpCode = 0xff
)

var opCodeToString = [256]string{
	STOP: "STOP",
	ADD:  "ADD",
	SUB:  "SUB",
	MUL:  "MUL",
	DIV:  "DIV",
	SDIV: "SDIV",
	MOD:  "MOD",
	SMOD: "SMOD",
	EXP:  "EXP",
	NEG:  "NEG",
	LT:   "LT",
	LE:   "LE",
	GT:   "GT",
	GE:   "GE",
	EQ:   "EQ",
	NOT:  "NOT",

	MYADDRESS:      "MYADDRESS",
	TXSENDER:       "TXSENDER",
	TXVALUE:        "TXVALUE",
	TXFEE:          "TXFEE",
	TXDATAN:        "TXDATAN",
	TXDATA:         "TXDATA",
	BLK_PREVHASH:   "BLK_PREVHASH",
	BLK_COINBASE:   "BLK_COINBASE",
	BLK_TIMESTAMP:  "BLK_TIMESTAMP",
	BLK_NUMBER:     "BLK_NUMBER",
	BLK_DIFFICULTY: "BLK_DIFFICULTY",

	SHA256:    "SHA256",
	RIPEMD160: "RIPEMD160",
	ECMUL:     "ECMUL",
	ECADD:     "ECADD",
	ECSIGN:    "ECSIGN",
	ECRECOVER: "ECRECOVER",
	ECVALID:   "ECVALID",
	SHA3:      "SHA3",

	PUSH:  "PUSH",
	POP:   "POP",
	DUP:   "DUP",
	DUPN:  "DUPN",
	SWAP:  "SWAP",
	SWAPN: "SWAPN",
	LOAD:  "LOAD",
	STORE: "STORE",

	JMP:  "JMP",
	JMPI: "JMPI",
	IND:  "IND",

	EXTRO:   "EXTRO",
	BALANCE: "BALANCE",

	MKTX:    "MKTX",
	SUICIDE: "SUICIDE",
}

func (op OpCode) String() string {
	if s := opCodeToString[op]; s != "" {
		return s
	}
	return fmt.Sprintf("opcode %#x not defined", int(op))
}

var stringToOp = make(map[string]OpCode)

func init() {
	for op, s := range opCodeToString {
		if s != "" {
			stringToOp[s] = OpCode(op)
		}
	}
}

// StringToOp finds the opcode whose name is stored in `str`.
func StringToOp(str string) (OpCode, bool) {
	op, ok := stringToOp[str]
	return op, ok
}
