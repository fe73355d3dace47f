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
package params

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	require.NoError(t, DefaultConfig.CheckConfig())
}

func TestBlockRewardPeriods(t *testing.T) {
	c := DefaultConfig
	tests := []struct {
		number uint64
		want   uint64
	}{
		{0, 1024 * Finney},
		{57599, 1024 * Finney},
		{57600, 512 * Finney},
		{2*57600 - 1, 512 * Finney},
		{2 * 57600, 256 * Finney},
		{3 * 57600, 128 * Finney},
		{1 << 40, 128 * Finney},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, c.BlockReward(tt.number).Uint64(), "block %d", tt.number)
	}
}

func TestCheckConfigRejects(t *testing.T) {
	c := DefaultConfig.Copy()
	c.RewardPeriods = c.RewardPeriods[:3]
	require.Error(t, c.CheckConfig())

	c = DefaultConfig.Copy()
	c.RewardPeriods[1].Until = c.RewardPeriods[0].Until
	require.Error(t, c.CheckConfig())

	c = DefaultConfig.Copy()
	c.RewardPeriods[3].Until = 1 << 30
	require.Error(t, c.CheckConfig())

	c = DefaultConfig.Copy()
	c.UncleRewardDen = 0
	require.ErrorIs(t, c.CheckConfig(), errZeroDenominator)

	// the copies above must not have touched the shared default
	require.NoError(t, DefaultConfig.CheckConfig())
}

func TestCreationFee(t *testing.T) {
	c := DefaultConfig
	require.Equal(t, c.NewContractFee+3*c.MemoryFee, c.CreationFee(3).Uint64())
	require.Equal(t, c.NewContractFee, c.CreationFee(0).Uint64())
}
