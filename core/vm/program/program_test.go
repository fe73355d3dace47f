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

package program

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/sunyihoo/go-ledger/core/vm"
)

func TestPushEncodesImmediate(t *testing.T) {
	code := New().Push(0).Push(0x1234).Code()
	require.Len(t, code, 2)
	require.Equal(t, uint64(vm.PUSH), code[0].Uint64())
	require.Equal(t, uint64(0x1234<<8|uint64(vm.PUSH)), code[1].Uint64())
}

func TestPushTooWide(t *testing.T) {
	big := new(uint256.Int).Lsh(uint256.NewInt(1), 248)
	require.Panics(t, func() { New().Push(big) })
	require.NotPanics(t, func() { New().Push(maxImmediate) })
}

func TestMktxOrder(t *testing.T) {
	code := New().Mktx(0xaa, 5, 1, 7, 8).Code()
	// data pushed last-first, then n, fee, value, to
	want := []uint64{8, 7, 2, 1, 5, 0xaa}
	require.Len(t, code, len(want)+1)
	for i, w := range want {
		imm := new(uint256.Int).Rsh(&code[i], 8)
		require.Equal(t, w, imm.Uint64(), "word %d", i)
	}
	require.Equal(t, uint64(vm.MKTX), code[len(want)].Uint64())
}

func TestLabelsAndJumps(t *testing.T) {
	p := New().Push(1)
	loop := p.Label()
	p.Jump(loop)
	require.Equal(t, uint64(1), loop)
	require.Equal(t, 3, p.Len())
	require.Equal(t, uint64(vm.JMP), p.Code()[2].Uint64())
}
