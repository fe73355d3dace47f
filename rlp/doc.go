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

/*
Package rlp implements the RLP serialization format.

The purpose of RLP (Recursive Linear Prefix) is to encode arbitrarily nested arrays of
binary data. RLP is the encoding used to hash and persist every object of the ledger:
trie nodes, account records, transactions and blocks. The only purpose of RLP is to
encode structure; encoding specific atomic data types (eg. strings, ints, floats) is
left up to higher-order protocols.

# Value model

RLP knows exactly two kinds of values, both represented by the Value type:

  - a String is an arbitrary byte sequence
  - a List is an ordered sequence of values

Unsigned integers are Strings holding the minimal big-endian representation without
leading zero bytes. The integer zero is the empty String.

# Encoding rules

A single byte in the range [0x00, 0x7F] is its own encoding. Strings of length 0-55 are
prefixed by 0x80+len, longer strings by 0xB7+len(len) followed by the big-endian length.
Lists are framed the same way with the base tags 0xC0 and 0xF7, where the length is the
size of the concatenated encodings of the elements.

# Decoding rules

Decode accepts exactly one top-level value. Input that ends before the declared length is
rejected with ErrTruncated, input that continues after the value with ErrTrailingBytes.
Size prefixes must be canonical (ErrCanonSize): a single byte below 0x80 must not be
wrapped in a string header and long-form sizes must neither fit the short form nor start
with a zero byte.

RLP 编码只关心结构；整数、字符串等具体类型的含义由上层协议决定。
*/
package rlp
