// Copyright 2015 The go-ethereum Authors
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

package common

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestBytesToAddressCropsLeft(t *testing.T) {
	long := make([]byte, 32)
	long[11] = 0xff // cropped
	long[12] = 0x01
	long[31] = 0x02
	addr := BytesToAddress(long)
	require.Equal(t, byte(0x01), addr[0])
	require.Equal(t, byte(0x02), addr[19])

	short := BytesToAddress([]byte{0xaa})
	require.Equal(t, byte(0xaa), short[19])
	require.Equal(t, byte(0x00), short[0])
}

func TestWordToAddress(t *testing.T) {
	addr := HexToAddress("0x00000000000000000000000000000000deadbeef")
	w := addr.Word()
	require.Equal(t, addr, WordToAddress(w))

	// high-order bits beyond 160 are dropped
	w = new(uint256.Int).Lsh(uint256.NewInt(1), 200)
	w.Add(w, uint256.NewInt(7))
	got := WordToAddress(w)
	require.Equal(t, BytesToAddress([]byte{7}), got)
}

func TestHexRoundTrip(t *testing.T) {
	h := HexToHash("0x56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421")
	var back Hash
	text, err := h.MarshalText()
	require.NoError(t, err)
	require.NoError(t, back.UnmarshalText(text))
	require.Equal(t, h, back)

	require.True(t, IsHexAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"))
	require.False(t, IsHexAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAe"))
}

func TestStorageSize(t *testing.T) {
	require.Equal(t, "2.00 KiB", StorageSize(2048).String())
	require.Equal(t, "512.00 B", StorageSize(512).String())
}
