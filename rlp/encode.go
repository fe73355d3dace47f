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
	"fmt"
	"io"
	"math/big"
	"reflect"

	"github.com/holiman/uint256"
)

var (
	// Common encoded values.
	// These are useful when implementing EncodeRLP.

	// EmptyString is the encoding of an empty string.
	EmptyString = []byte{0x80}
	// EmptyList is the encoding of an empty list.
	EmptyList = []byte{0xC0}
)

// Encoder is implemented by types that require custom encoding rules or want to
// encode private fields.
// Encoder 由需要自定义编码规则的类型实现。
type Encoder interface {
	// RLPValue returns the value tree that represents the receiver.
	RLPValue() Value
}

// Encode returns the canonical encoding of v.
func Encode(v Value) []byte {
	return AppendValue(make([]byte, 0, encodedSize(v)), v)
}

// Write writes the canonical encoding of v to w.
func Write(w io.Writer, v Value) error {
	_, err := w.Write(Encode(v))
	return err
}

// AppendValue appends the encoding of v to dst and returns the extended buffer.
func AppendValue(dst []byte, v Value) []byte {
	if !v.list {
		return appendString(dst, v.str)
	}
	var size uint64
	for _, e := range v.elems {
		size += uint64(encodedSize(e))
	}
	dst = appendHead(dst, 0xC0, 0xF7, size)
	for _, e := range v.elems {
		dst = AppendValue(dst, e)
	}
	return dst
}

func appendString(dst []byte, s []byte) []byte {
	if len(s) == 1 && s[0] <= 0x7F {
		return append(dst, s[0])
	}
	dst = appendHead(dst, 0x80, 0xB7, uint64(len(s)))
	return append(dst, s...)
}

func appendHead(dst []byte, smalltag, largetag byte, size uint64) []byte {
	var buf [9]byte
	n := puthead(buf[:], smalltag, largetag, size)
	return append(dst, buf[:n]...)
}

// encodedSize returns the number of bytes the encoding of v occupies.
func encodedSize(v Value) int {
	if !v.list {
		if len(v.str) == 1 && v.str[0] <= 0x7F {
			return 1
		}
		return headsize(uint64(len(v.str))) + len(v.str)
	}
	var size int
	for _, e := range v.elems {
		size += encodedSize(e)
	}
	return headsize(uint64(size)) + size
}

// EncodeToBytes returns the RLP encoding of val.
// Please see the package-level documentation for the encoding rules.
//
// Supported inputs are Value, Encoder, []byte, string, bool, unsigned integers,
// non-negative signed integers, *big.Int, *uint256.Int, fixed-size byte arrays
// and slices or arrays of supported types (encoded as lists).
func EncodeToBytes(val interface{}) ([]byte, error) {
	v, err := ToValue(val)
	if err != nil {
		return nil, err
	}
	return Encode(v), nil
}

// ToValue converts a Go value into the RLP value model.
// ToValue 将 Go 值转换为 RLP 值模型。
func ToValue(val interface{}) (Value, error) {
	switch x := val.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return x, nil
	case Encoder:
		return x.RLPValue(), nil
	case []byte:
		return Bytes(x), nil
	case string:
		return Str(x), nil
	case bool:
		if x {
			return Uint(1), nil
		}
		return Value{}, nil
	case uint64:
		return Uint(x), nil
	case uint32:
		return Uint(uint64(x)), nil
	case uint:
		return Uint(uint64(x)), nil
	case uint8:
		return Uint(uint64(x)), nil
	case int:
		if x < 0 {
			return Value{}, fmt.Errorf("rlp: cannot encode negative integer %d", x)
		}
		return Uint(uint64(x)), nil
	case *big.Int:
		if x != nil && x.Sign() < 0 {
			return Value{}, fmt.Errorf("rlp: cannot encode negative big.Int")
		}
		return BigInt(x), nil
	case *uint256.Int:
		return Word(x), nil
	case uint256.Int:
		return Word(&x), nil
	case []interface{}:
		elems := make([]Value, len(x))
		for i, e := range x {
			ev, err := ToValue(e)
			if err != nil {
				return Value{}, err
			}
			elems[i] = ev
		}
		return NewList(elems...), nil
	}
	return reflectValue(reflect.ValueOf(val))
}

func reflectValue(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return Value{}, nil
		}
		return ToValue(rv.Elem().Interface())
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return Bytes(b), nil
		}
		return reflectList(rv)
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Bytes(rv.Bytes()), nil
		}
		return reflectList(rv)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Uint(rv.Uint()), nil
	case reflect.String:
		return Str(rv.String()), nil
	default:
		return Value{}, fmt.Errorf("rlp: type %v is not RLP-serializable", rv.Type())
	}
}

func reflectList(rv reflect.Value) (Value, error) {
	elems := make([]Value, rv.Len())
	for i := range elems {
		ev, err := ToValue(rv.Index(i).Interface())
		if err != nil {
			return Value{}, err
		}
		elems[i] = ev
	}
	return NewList(elems...), nil
}

// headsize returns the size of a list or string header
// for a value of the given size.
func headsize(size uint64) int {
	if size < 56 {
		return 1
	}
	return 1 + intsize(size)
}

// puthead writes a list or string header to buf.
// buf must be at least 9 bytes long.
func puthead(buf []byte, smalltag, largetag byte, size uint64) int {
	if size < 56 {
		buf[0] = smalltag + byte(size)
		return 1
	}
	sizesize := putint(buf[1:], size)
	buf[0] = largetag + byte(sizesize)
	return sizesize + 1
}

// putint writes i to the beginning of b in big endian byte
// order, using the least number of bytes needed to represent i.
func putint(b []byte, i uint64) (size int) {
	size = intsize(i)
	for j := size - 1; j >= 0; j-- {
		b[j] = byte(i)
		i >>= 8
	}
	return size
}

// intsize computes the minimum number of bytes required to store i.
func intsize(i uint64) (size int) {
	for size = 1; ; size++ {
		if i >>= 8; i == 0 {
			return size
		}
	}
}
