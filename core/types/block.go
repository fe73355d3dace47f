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

package types

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/rlp"
)

// A BlockNonce is a 64-bit value a miner varies while searching for a block.
// The ledger core never checks it.
// BlockNonce 是矿工搜索区块时调整的 64 位值，账本核心不对其校验。
type BlockNonce [8]byte

// EncodeNonce converts the given integer to a block nonce.
func EncodeNonce(i uint64) BlockNonce {
	var n BlockNonce
	binary.BigEndian.PutUint64(n[:], i)
	return n
}

// Uint64 returns the integer value of a block nonce.
func (n BlockNonce) Uint64() uint64 {
	return binary.BigEndian.Uint64(n[:])
}

var errHeaderFields = errors.New("header must have 10 fields")

// Header represents a block header of the ledger.
// Header 表示账本中的区块头。
type Header struct {
	Number     uint64         // 区块高度（创世块为 0）
	ParentHash common.Hash    // 父区块哈希
	UncleHash  common.Hash    // 叔块列表的哈希
	Coinbase   common.Address // 接收区块奖励的地址
	Root       common.Hash    // 执行后的世界状态根
	TxHash     common.Hash    // 交易列表的哈希
	Difficulty *big.Int       // 难度
	Time       uint64         // Unix 时间戳（秒）
	Nonce      BlockNonce
	Extra      []byte
}

// Hash returns the block hash of the header, which is simply the keccak256 hash of its
// RLP encoding.
func (h *Header) Hash() common.Hash {
	return rlpHash(h.RLPValue())
}

// RLPValue implements rlp.Encoder.
func (h *Header) RLPValue() rlp.Value {
	return rlp.NewList(
		rlp.Uint(h.Number),
		rlp.Bytes(h.ParentHash.Bytes()),
		rlp.Bytes(h.UncleHash.Bytes()),
		rlp.Bytes(h.Coinbase.Bytes()),
		rlp.Bytes(h.Root.Bytes()),
		rlp.Bytes(h.TxHash.Bytes()),
		rlp.BigInt(h.Difficulty),
		rlp.Uint(h.Time),
		rlp.Bytes(h.Nonce[:]),
		rlp.Bytes(h.Extra),
	)
}

// DecodeHeader builds a header from its decoded list form.
func DecodeHeader(v rlp.Value) (*Header, error) {
	elems, err := v.AsList()
	if err != nil {
		return nil, err
	}
	if len(elems) != 10 {
		return nil, fmt.Errorf("%w, have %d", errHeaderFields, len(elems))
	}
	h := new(Header)
	if h.Number, err = elems[0].Uint64(); err != nil {
		return nil, fmt.Errorf("header number: %w", err)
	}
	for i, dst := range [][]byte{h.ParentHash[:], h.UncleHash[:], h.Coinbase[:], h.Root[:], h.TxHash[:]} {
		b, err := elems[1+i].AsBytes()
		if err != nil {
			return nil, err
		}
		if len(b) != len(dst) {
			return nil, fmt.Errorf("header field %d: have %d bytes, want %d", 1+i, len(b), len(dst))
		}
		copy(dst, b)
	}
	if h.Difficulty, err = elems[6].BigInt(); err != nil {
		return nil, fmt.Errorf("header difficulty: %w", err)
	}
	if h.Time, err = elems[7].Uint64(); err != nil {
		return nil, fmt.Errorf("header time: %w", err)
	}
	nonce, err := elems[8].AsBytes()
	if err != nil || len(nonce) != len(h.Nonce) {
		return nil, errors.New("header nonce must be 8 bytes")
	}
	copy(h.Nonce[:], nonce)
	if h.Extra, err = elems[9].AsBytes(); err != nil {
		return nil, err
	}
	h.Extra = common.CopyBytes(h.Extra)
	return h, nil
}

// CopyHeader creates a deep copy of a block header.
func CopyHeader(h *Header) *Header {
	cpy := *h
	cpy.Difficulty = new(big.Int)
	if h.Difficulty != nil {
		cpy.Difficulty.Set(h.Difficulty)
	}
	if len(h.Extra) > 0 {
		cpy.Extra = make([]byte, len(h.Extra))
		copy(cpy.Extra, h.Extra)
	}
	return &cpy
}

// Body is a simple (mutable, non-safe) data container for storing and moving
// a block's data contents (transactions and uncles) together.
type Body struct {
	Transactions []*Transaction
	Uncles       []*Header
}

// RLPValue implements rlp.Encoder: [[tx...], [uncle...]].
func (b *Body) RLPValue() rlp.Value {
	txs := make([]rlp.Value, len(b.Transactions))
	for i, tx := range b.Transactions {
		txs[i] = tx.RLPValue()
	}
	uncles := make([]rlp.Value, len(b.Uncles))
	for i, uncle := range b.Uncles {
		uncles[i] = uncle.RLPValue()
	}
	return rlp.NewList(rlp.NewList(txs...), rlp.NewList(uncles...))
}

// DecodeBody parses an encoded block body.
func DecodeBody(enc []byte) (*Body, error) {
	elems, err := rlp.DecodeList(enc)
	if err != nil {
		return nil, err
	}
	if len(elems) != 2 {
		return nil, fmt.Errorf("body must have 2 fields, have %d", len(elems))
	}
	return decodeBody(elems[0], elems[1])
}

func decodeBody(txList, uncleList rlp.Value) (*Body, error) {
	txs, err := txList.AsList()
	if err != nil {
		return nil, fmt.Errorf("transaction list: %w", err)
	}
	uncles, err := uncleList.AsList()
	if err != nil {
		return nil, fmt.Errorf("uncle list: %w", err)
	}
	body := &Body{
		Transactions: make([]*Transaction, len(txs)),
		Uncles:       make([]*Header, len(uncles)),
	}
	for i, v := range txs {
		if body.Transactions[i], err = DecodeTransaction(v); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
	}
	for i, v := range uncles {
		if body.Uncles[i], err = DecodeHeader(v); err != nil {
			return nil, fmt.Errorf("uncle %d: %w", i, err)
		}
	}
	return body, nil
}

// Block represents an entire block of the ledger.
//
// Note the Block type tries to be 'immutable', and contains certain caches that rely
// on that. The rules are as follows:
//
//	Header is an immutable part of the block.
//	Body is mutable while the block is being produced but gets immutable
//	once it has been hashed.
//
// Block 表示账本中的完整区块，构造后视为不可变。
type Block struct {
	header       *Header
	uncles       []*Header
	transactions Transactions

	// caches
	hash atomic.Pointer[common.Hash]
}

// NewBlock creates a new block. The input data is copied, changes to header and to the
// field values will not affect the block.
//
// The body elements and the TxHash and UncleHash of the header are derived
// from the body, so the list roots always match the lists.
func NewBlock(header *Header, body *Body) *Block {
	b := &Block{header: CopyHeader(header)}
	if body == nil {
		body = new(Body)
	}
	if len(body.Transactions) == 0 {
		b.header.TxHash = EmptyTxsHash
	} else {
		b.transactions = make(Transactions, len(body.Transactions))
		copy(b.transactions, body.Transactions)
		b.header.TxHash = DeriveSha(b.transactions)
	}
	if len(body.Uncles) == 0 {
		b.header.UncleHash = EmptyUncleHash
	} else {
		b.uncles = make([]*Header, len(body.Uncles))
		for i := range body.Uncles {
			b.uncles[i] = CopyHeader(body.Uncles[i])
		}
		b.header.UncleHash = CalcUncleHash(b.uncles)
	}
	return b
}

// NewBlockWithHeader creates a block with the given header data. The
// header data is copied, changes to header and to the field values
// will not affect the block.
func NewBlockWithHeader(header *Header) *Block {
	return &Block{header: CopyHeader(header)}
}

// WithBody returns a new block with the original header and a deep copy of the
// provided body. The header roots are left untouched so validation can
// compare them against the body.
func (b *Block) WithBody(body Body) *Block {
	block := &Block{
		header:       b.header,
		transactions: make(Transactions, len(body.Transactions)),
		uncles:       make([]*Header, len(body.Uncles)),
	}
	copy(block.transactions, body.Transactions)
	for i := range body.Uncles {
		block.uncles[i] = CopyHeader(body.Uncles[i])
	}
	return block
}

// RLPValue implements rlp.Encoder: [header, [tx...], [uncle...]].
func (b *Block) RLPValue() rlp.Value {
	body := b.Body().RLPValue().Elems()
	return rlp.NewList(b.header.RLPValue(), body[0], body[1])
}

// EncodeBlock returns the persisted form of the block.
func EncodeBlock(b *Block) []byte {
	return rlp.Encode(b.RLPValue())
}

// DecodeBlock parses a block from its persisted form. The header roots are
// taken as encoded and not recomputed.
// DecodeBlock 从持久化格式解析区块，不重新计算区块头中的根。
func DecodeBlock(enc []byte) (*Block, error) {
	elems, err := rlp.DecodeList(enc)
	if err != nil {
		return nil, err
	}
	if len(elems) != 3 {
		return nil, fmt.Errorf("block must have 3 fields, have %d", len(elems))
	}
	header, err := DecodeHeader(elems[0])
	if err != nil {
		return nil, fmt.Errorf("block header: %w", err)
	}
	body, err := decodeBody(elems[1], elems[2])
	if err != nil {
		return nil, err
	}
	return &Block{header: header, transactions: body.Transactions, uncles: body.Uncles}, nil
}

func (b *Block) Transactions() Transactions { return b.transactions }
func (b *Block) Uncles() []*Header          { return b.uncles }

func (b *Block) Number() *big.Int         { return new(big.Int).SetUint64(b.header.Number) }
func (b *Block) NumberU64() uint64        { return b.header.Number }
func (b *Block) Difficulty() *big.Int     { return new(big.Int).Set(b.header.Difficulty) }
func (b *Block) Time() uint64             { return b.header.Time }
func (b *Block) Nonce() uint64            { return b.header.Nonce.Uint64() }
func (b *Block) Coinbase() common.Address { return b.header.Coinbase }
func (b *Block) Root() common.Hash        { return b.header.Root }
func (b *Block) ParentHash() common.Hash  { return b.header.ParentHash }
func (b *Block) TxHash() common.Hash      { return b.header.TxHash }
func (b *Block) UncleHash() common.Hash   { return b.header.UncleHash }
func (b *Block) Extra() []byte            { return common.CopyBytes(b.header.Extra) }

// Header returns the block header (as a copy).
func (b *Block) Header() *Header {
	return CopyHeader(b.header)
}

// Body returns the non-header content of the block.
// Note the returned data is not an independent copy.
func (b *Block) Body() *Body {
	return &Body{b.transactions, b.uncles}
}

// Hash returns the keccak256 hash of b's header.
// The hash is computed on the first call and cached thereafter.
func (b *Block) Hash() common.Hash {
	if hash := b.hash.Load(); hash != nil {
		return *hash
	}
	h := b.header.Hash()
	b.hash.Store(&h)
	return h
}

func (b *Block) String() string {
	return fmt.Sprintf("Block(#%d %x txs=%d uncles=%d)", b.header.Number, b.Hash().Bytes()[:4], len(b.transactions), len(b.uncles))
}
