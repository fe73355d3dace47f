// Copyright 2017 The go-ethereum Authors
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

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	file := writeFile(t, "config.toml", `
[Ledger]
TxFee = 200
MaxFutureDrift = 30

[Node]
DataDir = "/var/lib/ledger"
DBEngine = "leveldb"

[Miner]
Coinbase = "0x00000000000000000000000000000000deadbeef"
MaxTxs = 5

[VM]
MaxSteps = 1000
`)
	cfg := ledgerConfig{Ledger: *params.DefaultConfig.Copy()}
	require.NoError(t, loadConfig(file, &cfg))

	assert.Equal(t, uint64(200), cfg.Ledger.TxFee)
	assert.Equal(t, uint64(30), cfg.Ledger.MaxFutureDrift)
	// Untouched fields keep their defaults.
	assert.Equal(t, params.DefaultConfig.MemoryFee, cfg.Ledger.MemoryFee)
	assert.Equal(t, params.DefaultConfig.RewardPeriods, cfg.Ledger.RewardPeriods)

	assert.Equal(t, "/var/lib/ledger", cfg.Node.DataDir)
	assert.Equal(t, "leveldb", cfg.Node.DBEngine)
	assert.Equal(t, common.HexToAddress("0xdeadbeef"), cfg.Miner.Coinbase)
	assert.Equal(t, 5, cfg.Miner.MaxTxs)
	assert.Equal(t, uint64(1000), cfg.vmConfig().MaxSteps)
}

func TestLoadConfigUnknownField(t *testing.T) {
	file := writeFile(t, "config.toml", "[Ledger]\nBlockGas = 1\n")

	var cfg ledgerConfig
	err := loadConfig(file, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'BlockGas' is not defined in params.Config")
	assert.Contains(t, err.Error(), file)
}

func TestDumpConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "dump.toml")
	require.NoError(t, app.Run([]string{"ledger", "dumpconfig",
		"--datadir", dir, "--miner.maxtxs", "7", "--vm.maxsteps", "99", out}))

	var cfg ledgerConfig
	require.NoError(t, loadConfig(out, &cfg))
	assert.Equal(t, *params.DefaultConfig, cfg.Ledger)
	assert.Equal(t, dir, cfg.Node.DataDir)
	assert.Equal(t, 7, cfg.Miner.MaxTxs)
	assert.Equal(t, uint64(99), cfg.VM.MaxSteps)
}
