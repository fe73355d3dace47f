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
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/crypto"
	"github.com/sunyihoo/go-ledger/rlp"
)

var (
	ErrInvalidSig = errors.New("invalid transaction v, r, s values")
	errShortTx    = errors.New("transaction has fewer than 7 fields")
	errRecipient  = errors.New("recipient must be empty or 20 bytes")
)

// TxData is the unsigned content of a transaction.
// TxData 是交易未签名的内容。
type TxData struct {
	Nonce uint64
	To    *common.Address // nil means contract creation
	Value *uint256.Int
	Fee   *uint256.Int
	Data  []uint256.Int // ordered 256-bit data words
}

// Transaction is a signed value transfer, contract creation or contract call.
// It is immutable once signed; the sender is derived from the signature.
//
// Transaction 是已签名的转账、合约创建或合约调用，签名后不可变，发送者由签名恢复得出。
type Transaction struct {
	inner   TxData
	v       byte // 27 + recovery id
	r, s    *uint256.Int
	message bool // emitted by a contract, sender pinned instead of signed

	// caches
	hash atomic.Pointer[common.Hash]
	from atomic.Pointer[sigCache]
}

// NewTx creates a new unsigned transaction. The data is deep-copied.
func NewTx(inner *TxData) *Transaction {
	return &Transaction{inner: copyTxData(inner), r: new(uint256.Int), s: new(uint256.Int)}
}

// NewMessage creates an unsigned transaction whose sender is fixed to from.
// Contracts emit these from MKTX; they are applied within the block that
// produced them and never serialized into it.
//
// NewMessage 创建发送者固定为 from 的未签名交易，由合约的 MKTX 产生。
func NewMessage(from common.Address, inner *TxData) *Transaction {
	tx := NewTx(inner)
	tx.message = true
	tx.from.Store(&sigCache{from: from})
	return tx
}

func copyTxData(d *TxData) TxData {
	cpy := TxData{
		Nonce: d.Nonce,
		Value: new(uint256.Int),
		Fee:   new(uint256.Int),
	}
	if d.To != nil {
		to := *d.To
		cpy.To = &to
	}
	if d.Value != nil {
		cpy.Value.Set(d.Value)
	}
	if d.Fee != nil {
		cpy.Fee.Set(d.Fee)
	}
	if len(d.Data) > 0 {
		cpy.Data = make([]uint256.Int, len(d.Data))
		copy(cpy.Data, d.Data)
	}
	return cpy
}

// Nonce returns the sender account nonce of the transaction.
func (tx *Transaction) Nonce() uint64 { return tx.inner.Nonce }

// Value returns the amount transferred to the recipient.
func (tx *Transaction) Value() *uint256.Int { return new(uint256.Int).Set(tx.inner.Value) }

// Fee returns the fee offered by the sender.
func (tx *Transaction) Fee() *uint256.Int { return new(uint256.Int).Set(tx.inner.Fee) }

// Cost returns value + fee. The sum is saturated at 2^256-1.
func (tx *Transaction) Cost() *uint256.Int {
	cost, overflow := new(uint256.Int).AddOverflow(tx.inner.Value, tx.inner.Fee)
	if overflow {
		cost.SetAllOne()
	}
	return cost
}

// To returns the recipient address of the transaction.
// For contract-creation transactions, To returns nil.
func (tx *Transaction) To() *common.Address {
	if tx.inner.To == nil {
		return nil
	}
	cpy := *tx.inner.To
	return &cpy
}

// IsCreation reports whether the transaction creates a contract.
func (tx *Transaction) IsCreation() bool { return tx.inner.To == nil }

// IsMessage reports whether the transaction was emitted by a contract.
func (tx *Transaction) IsMessage() bool { return tx.message }

// DataLen returns the number of data words.
func (tx *Transaction) DataLen() int { return len(tx.inner.Data) }

// Data returns a copy of the data words.
func (tx *Transaction) Data() []uint256.Int {
	return append([]uint256.Int(nil), tx.inner.Data...)
}

// DataWord returns data word i, or zero when i is out of range.
func (tx *Transaction) DataWord(i uint64) *uint256.Int {
	if i >= uint64(len(tx.inner.Data)) {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(&tx.inner.Data[i])
}

// RawSignatureValues returns the V, R, S signature values of the transaction.
// The return values should not be modified by the caller.
func (tx *Transaction) RawSignatureValues() (v byte, r, s *uint256.Int) {
	return tx.v, tx.r, tx.s
}

// WithSignature returns a new transaction with the given signature.
// This signature needs to be in the [R || S || V] format where V is 0 or 1.
func (tx *Transaction) WithSignature(signer Signer, sig []byte) (*Transaction, error) {
	v, r, s, err := signer.SignatureValues(tx, sig)
	if err != nil {
		return nil, err
	}
	cpy := &Transaction{inner: copyTxData(&tx.inner), v: v, r: r, s: s}
	return cpy, nil
}

// unsignedValues returns the fields covered by the signature.
func (tx *Transaction) unsignedValues() []rlp.Value {
	fields := make([]rlp.Value, 0, 4+len(tx.inner.Data)+3)
	var to rlp.Value
	if tx.inner.To != nil {
		to = rlp.Bytes(tx.inner.To.Bytes())
	}
	fields = append(fields, rlp.Uint(tx.inner.Nonce), to, rlp.Word(tx.inner.Value), rlp.Word(tx.inner.Fee))
	for i := range tx.inner.Data {
		fields = append(fields, rlp.Word(&tx.inner.Data[i]))
	}
	return fields
}

// RLPValue implements rlp.Encoder: [nonce, to, value, fee, data..., v, r, s].
func (tx *Transaction) RLPValue() rlp.Value {
	fields := tx.unsignedValues()
	fields = append(fields, rlp.Uint(uint64(tx.v)), rlp.Word(tx.r), rlp.Word(tx.s))
	return rlp.NewList(fields...)
}

// MarshalBinary returns the canonical encoding of the transaction.
func (tx *Transaction) MarshalBinary() ([]byte, error) {
	return rlp.Encode(tx.RLPValue()), nil
}

// UnmarshalBinary decodes the canonical encoding of transactions.
func (tx *Transaction) UnmarshalBinary(b []byte) error {
	v, err := rlp.Decode(b)
	if err != nil {
		return err
	}
	dec, err := DecodeTransaction(v)
	if err != nil {
		return err
	}
	tx.inner, tx.v, tx.r, tx.s = dec.inner, dec.v, dec.r, dec.s
	return nil
}

// DecodeTransaction builds a transaction from its decoded list form.
// DecodeTransaction 从解码后的列表形式构造交易。
func DecodeTransaction(v rlp.Value) (*Transaction, error) {
	elems, err := v.AsList()
	if err != nil {
		return nil, err
	}
	if len(elems) < 7 {
		return nil, errShortTx
	}
	tx, n := &Transaction{}, len(elems)
	if tx.inner.Nonce, err = elems[0].Uint64(); err != nil {
		return nil, fmt.Errorf("tx nonce: %w", err)
	}
	to, err := elems[1].AsBytes()
	if err != nil {
		return nil, fmt.Errorf("tx recipient: %w", err)
	}
	switch len(to) {
	case 0:
	case common.AddressLength:
		addr := common.BytesToAddress(to)
		tx.inner.To = &addr
	default:
		return nil, errRecipient
	}
	if tx.inner.Value, err = elems[2].Word(); err != nil {
		return nil, fmt.Errorf("tx value: %w", err)
	}
	if tx.inner.Fee, err = elems[3].Word(); err != nil {
		return nil, fmt.Errorf("tx fee: %w", err)
	}
	if words := elems[4 : n-3]; len(words) > 0 {
		tx.inner.Data = make([]uint256.Int, len(words))
		for i, w := range words {
			word, err := w.Word()
			if err != nil {
				return nil, fmt.Errorf("tx data word %d: %w", i, err)
			}
			tx.inner.Data[i] = *word
		}
	}
	sigV, err := elems[n-3].Uint64()
	if err != nil || sigV > 0xff {
		return nil, ErrInvalidSig
	}
	tx.v = byte(sigV)
	if tx.r, err = elems[n-2].Word(); err != nil {
		return nil, ErrInvalidSig
	}
	if tx.s, err = elems[n-1].Word(); err != nil {
		return nil, ErrInvalidSig
	}
	return tx, nil
}

// Hash returns the transaction hash: keccak256 of the full encoding.
func (tx *Transaction) Hash() common.Hash {
	if hash := tx.hash.Load(); hash != nil {
		return *hash
	}
	h := rlpHash(tx.RLPValue())
	tx.hash.Store(&h)
	return h
}

// ContractAddress returns the address of the contract a creation transaction
// makes: the last 20 bytes of the transaction hash.
func (tx *Transaction) ContractAddress() common.Address {
	return crypto.CreateAddress(tx.Hash())
}

func (tx *Transaction) String() string {
	to := "<create>"
	if tx.inner.To != nil {
		to = tx.inner.To.Hex()
	}
	return fmt.Sprintf("tx(%x nonce=%d to=%s value=%v fee=%v data=%d)",
		tx.Hash().Bytes()[:4], tx.inner.Nonce, to, tx.inner.Value, tx.inner.Fee, len(tx.inner.Data))
}

// Transactions implements DerivableList for transactions.
type Transactions []*Transaction

// Len returns the length of s.
func (s Transactions) Len() int { return len(s) }

// EncodeIndex encodes the i'th transaction.
func (s Transactions) EncodeIndex(i int) rlp.Value { return s[i].RLPValue() }
