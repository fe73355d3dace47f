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

package rlp

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// Kind represents the kind of value contained in an RLP stream.
// Kind 表示 RLP 流中值的类型。
type Kind int8

const (
	Byte Kind = iota
	String
	List
)

func (k Kind) String() string {
	switch k {
	case Byte:
		return "Byte"
	case String:
		return "String"
	case List:
		return "List"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Value is a decoded RLP item: either a byte string or a list of values.
// The zero Value is the empty string.
//
// Value 是解码后的 RLP 项：要么是字节串，要么是值的列表。零值是空字符串。
type Value struct {
	list  bool
	str   []byte
	elems []Value
}

// Bytes returns a String value holding b. The slice is not copied.
func Bytes(b []byte) Value { return Value{str: b} }

// Str returns a String value holding the bytes of s.
func Str(s string) Value { return Value{str: []byte(s)} }

// Uint returns the canonical String value of the unsigned integer i.
func Uint(i uint64) Value {
	if i == 0 {
		return Value{}
	}
	buf := make([]byte, 8)
	n := putint(buf, i)
	return Value{str: buf[:n]}
}

// BigInt returns the canonical String value of a non-negative big integer.
// A nil pointer encodes as zero. Negative numbers panic.
func BigInt(i *big.Int) Value {
	if i == nil {
		return Value{}
	}
	if i.Sign() < 0 {
		panic("rlp: cannot encode negative big.Int")
	}
	return Value{str: i.Bytes()}
}

// Word returns the canonical String value of a 256-bit word.
// A nil pointer encodes as zero.
func Word(i *uint256.Int) Value {
	if i == nil {
		return Value{}
	}
	return Value{str: i.Bytes()}
}

// NewList returns a List value holding the given elements.
func NewList(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{list: true, elems: elems}
}

// Kind reports whether v is a String or a List.
func (v Value) Kind() Kind {
	if v.list {
		return List
	}
	return String
}

// IsList reports whether v is a List.
func (v Value) IsList() bool { return v.list }

// Bytes returns the content of a String value, nil for lists.
func (v Value) Bytes() []byte {
	if v.list {
		return nil
	}
	return v.str
}

// Len returns the number of elements of a List, or the byte length of a String.
func (v Value) Len() int {
	if v.list {
		return len(v.elems)
	}
	return len(v.str)
}

// Elems returns the elements of a List value, nil for strings.
func (v Value) Elems() []Value {
	if !v.list {
		return nil
	}
	return v.elems
}

// AsBytes returns the content of a String, failing for lists.
func (v Value) AsBytes() ([]byte, error) {
	if v.list {
		return nil, ErrExpectedString
	}
	return v.str, nil
}

// AsList returns the elements of a List, failing for strings.
func (v Value) AsList() ([]Value, error) {
	if !v.list {
		return nil, ErrExpectedList
	}
	return v.elems, nil
}

// Uint64 interprets a String value as a canonical unsigned integer.
func (v Value) Uint64() (uint64, error) {
	b, err := v.intBytes(8)
	if err != nil {
		return 0, err
	}
	var x uint64
	for _, c := range b {
		x = x<<8 | uint64(c)
	}
	return x, nil
}

// BigInt interprets a String value as a canonical unsigned big integer.
func (v Value) BigInt() (*big.Int, error) {
	b, err := v.intBytes(-1)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}

// Word interprets a String value as a canonical unsigned 256-bit integer.
func (v Value) Word() (*uint256.Int, error) {
	b, err := v.intBytes(32)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(b), nil
}

func (v Value) intBytes(max int) ([]byte, error) {
	if v.list {
		return nil, ErrExpectedString
	}
	if len(v.str) > 0 && v.str[0] == 0 {
		return nil, ErrCanonInt
	}
	if max >= 0 && len(v.str) > max {
		return nil, ErrUintOverflow
	}
	return v.str, nil
}

// Equal reports whether two values have identical structure and content.
func (v Value) Equal(o Value) bool {
	if v.list != o.list {
		return false
	}
	if !v.list {
		return bytes.Equal(v.str, o.str)
	}
	if len(v.elems) != len(o.elems) {
		return false
	}
	for i := range v.elems {
		if !v.elems[i].Equal(o.elems[i]) {
			return false
		}
	}
	return true
}

// String renders the value for debugging, e.g. [0x01, [], 0x].
func (v Value) String() string {
	if !v.list {
		return fmt.Sprintf("0x%x", v.str)
	}
	parts := make([]string, len(v.elems))
	for i, e := range v.elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
