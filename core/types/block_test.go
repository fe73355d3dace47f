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
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/crypto"
	"github.com/sunyihoo/go-ledger/rlp"
	"github.com/stretchr/testify/require"
)

func TestEmptyListHashes(t *testing.T) {
	want := common.HexToHash("1dcc4de8dec75d7aab85b567b6ccd41ad312451b948a7413f0a142fd40d49347")
	require.Equal(t, want, EmptyUncleHash)
	require.Equal(t, want, EmptyTxsHash)
	require.Equal(t, crypto.Keccak256Hash(rlp.EmptyString), EmptyRootHash)
	require.Equal(t, EmptyUncleHash, CalcUncleHash(nil))
	require.Equal(t, EmptyTxsHash, DeriveSha(Transactions{}))
}

func testHeader(number uint64) *Header {
	return &Header{
		Number:     number,
		ParentHash: common.HexToHash("0x01"),
		Coinbase:   common.HexToAddress("0x8888f1f195afa192cfee860698584c030f4c9db1"),
		Root:       common.HexToHash("ef1552a40b7165c3cd773806b9e0c165b75356e0314bf0706f279c729f51e017"),
		Difficulty: big.NewInt(131072),
		Time:       1426516743,
		Nonce:      EncodeNonce(0xa13a5a8c8f2bb1c4),
		Extra:      []byte("ledger"),
	}
}

func TestBlockEncoding(t *testing.T) {
	tx1 := MustSignNewTx(testKey, FrontierSigner{}, &TxData{To: &recipient, Value: uint256.NewInt(10), Fee: uint256.NewInt(100)})
	tx2 := MustSignNewTx(testKey, FrontierSigner{}, &TxData{Nonce: 1, Value: uint256.NewInt(0), Fee: uint256.NewInt(110), Data: words(7, 8)})
	uncle := testHeader(4)

	block := NewBlock(testHeader(5), &Body{Transactions: []*Transaction{tx1, tx2}, Uncles: []*Header{uncle}})
	require.Equal(t, DeriveSha(Transactions{tx1, tx2}), block.TxHash())
	require.Equal(t, CalcUncleHash([]*Header{uncle}), block.UncleHash())
	require.Equal(t, rlpHash(block.Header().RLPValue()), block.Hash())

	enc := EncodeBlock(block)
	// [header, [tx...], [uncle...]]
	top, err := rlp.DecodeList(enc)
	require.NoError(t, err)
	require.Len(t, top, 3)
	require.Len(t, top[0].Elems(), 10)
	require.Len(t, top[1].Elems(), 2)
	require.Len(t, top[2].Elems(), 1)

	dec, err := DecodeBlock(enc)
	require.NoError(t, err)
	require.Equal(t, block.Hash(), dec.Hash())
	require.Equal(t, block.NumberU64(), dec.NumberU64())
	require.Equal(t, block.Difficulty(), dec.Difficulty())
	require.Equal(t, block.Extra(), dec.Extra())
	require.Equal(t, uint64(0xa13a5a8c8f2bb1c4), dec.Nonce())
	require.Len(t, dec.Transactions(), 2)
	require.Equal(t, tx2.Hash(), dec.Transactions()[1].Hash())
	require.Equal(t, uncle.Hash(), dec.Uncles()[0].Hash())
	require.Equal(t, enc, EncodeBlock(dec), "re-encoding must be byte exact")

	// the body persists on its own as well
	body, err := DecodeBody(rlp.Encode(block.Body().RLPValue()))
	require.NoError(t, err)
	require.Equal(t, block.TxHash(), DeriveSha(Transactions(body.Transactions)))
}

func TestBlockIsolation(t *testing.T) {
	header := testHeader(1)
	block := NewBlock(header, nil)
	header.Difficulty.SetInt64(1)
	header.Extra[0] = 'X'
	require.Equal(t, big.NewInt(131072), block.Difficulty())
	require.Equal(t, []byte("ledger"), block.Extra())
	require.Equal(t, EmptyTxsHash, block.TxHash())
	require.Equal(t, EmptyUncleHash, block.UncleHash())
}

func TestDecodeHeaderErrors(t *testing.T) {
	v := testHeader(1).RLPValue()
	elems := v.Elems()

	_, err := DecodeHeader(rlp.NewList(elems[:9]...))
	require.ErrorIs(t, err, errHeaderFields)

	bad := append([]rlp.Value(nil), elems...)
	bad[1] = rlp.Bytes([]byte{1, 2, 3})
	_, err = DecodeHeader(rlp.NewList(bad...))
	require.Error(t, err)

	bad = append([]rlp.Value(nil), elems...)
	bad[8] = rlp.Uint(5)
	_, err = DecodeHeader(rlp.NewList(bad...))
	require.Error(t, err)
}

func TestStateAccountEncoding(t *testing.T) {
	plain := &StateAccount{Balance: uint256.NewInt(1000), Nonce: 7}
	dec, err := DecodeStateAccount(plain.Encode())
	require.NoError(t, err)
	require.Equal(t, plain, dec)
	require.False(t, dec.IsContract())

	contract := NewContractAccount(uint256.NewInt(5))
	dec, err = DecodeStateAccount(contract.Encode())
	require.NoError(t, err)
	require.True(t, dec.IsContract())
	require.Equal(t, EmptyRootHash, dec.Root)
	require.Len(t, rlp.Encode(contract.RLPValue().Elems()[2]), 33)

	_, err = DecodeStateAccount(rlp.Encode(rlp.NewList(rlp.Uint(2), rlp.Uint(0), rlp.Uint(0))))
	require.ErrorIs(t, err, errBadAccount)
	_, err = DecodeStateAccount(rlp.Encode(rlp.NewList(rlp.Uint(1), rlp.Uint(0), rlp.Uint(0))))
	require.ErrorIs(t, err, errBadAccount)
}
