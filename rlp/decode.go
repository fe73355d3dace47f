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
	"errors"
	"fmt"
)

var (
	// ErrTruncated is returned when the input ends before the value it declares.
	ErrTruncated = errors.New("rlp: input truncated")
	// ErrTrailingBytes is returned when bytes remain after the top-level value.
	ErrTrailingBytes = errors.New("rlp: trailing bytes after value")

	ErrExpectedString = errors.New("rlp: expected String or Byte")
	ErrExpectedList   = errors.New("rlp: expected List")
	ErrCanonInt       = errors.New("rlp: non-canonical integer format")
	ErrCanonSize      = errors.New("rlp: non-canonical size information")
	ErrElemTooLarge   = errors.New("rlp: element is larger than containing list")
	ErrUintOverflow   = errors.New("rlp: uint overflow")
)

// CodecError is returned by Decode. It records the offset of the value that
// failed to decode.
// CodecError 记录解码失败的值在输入中的偏移量。
type CodecError struct {
	Err    error
	Offset int
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("%v (offset %d)", e.Err, e.Offset)
}

func (e *CodecError) Unwrap() error { return e.Err }

// Decode parses exactly one RLP value from b. The returned value references
// sub-slices of b, callers must not modify b afterwards.
//
// Decode 从 b 中解析且仅解析一个 RLP 值。
func Decode(b []byte) (Value, error) {
	v, rest, err := decodeValue(b, 0, false)
	if err != nil {
		return Value{}, err
	}
	if len(rest) > 0 {
		return Value{}, &CodecError{ErrTrailingBytes, len(b) - len(rest)}
	}
	return v, nil
}

// DecodeList parses b as a single list and returns its elements.
func DecodeList(b []byte) ([]Value, error) {
	v, err := Decode(b)
	if err != nil {
		return nil, err
	}
	return v.AsList()
}

// decodeValue decodes the value at the start of b. Offset is the position of b
// inside the original input, nested tells whether b is the content of a list.
func decodeValue(b []byte, offset int, nested bool) (Value, []byte, error) {
	k, ts, cs, err := readKind(b)
	if err != nil {
		if nested && err == ErrTruncated && len(b) > 0 {
			err = ErrElemTooLarge
		}
		return Value{}, b, &CodecError{err, offset}
	}
	content, rest := b[ts:ts+cs], b[ts+cs:]
	switch k {
	case Byte:
		return Value{str: content}, rest, nil
	case String:
		return Value{str: content}, rest, nil
	default:
		elems := []Value{}
		pos := offset + int(ts)
		for len(content) > 0 {
			elem, remainder, err := decodeValue(content, pos, true)
			if err != nil {
				return Value{}, b, err
			}
			pos += len(content) - len(remainder)
			content = remainder
			elems = append(elems, elem)
		}
		return Value{list: true, elems: elems}, rest, nil
	}
}
