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

package runtime

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/state"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/core/vm"
	"github.com/sunyihoo/go-ledger/params"
)

// Config is a basic type specifying certain configuration flags for running
// a contract outside of a block.
// Config 指定在区块之外运行合约的配置。
type Config struct {
	ChainConfig *params.Config // Fee schedule
	Difficulty  *big.Int
	Origin      common.Address // Sender of the invoking transaction
	Coinbase    common.Address
	BlockNumber uint64
	Time        uint64
	ParentHash  common.Hash
	Value       *uint256.Int   // Value of the invoking transaction
	Fee         *uint256.Int   // Fee of the invoking transaction
	Balance     *uint256.Int   // Balance credited to the contract before it runs
	Address     common.Address // Address the code is installed at
	EVMConfig   vm.Config

	State *state.StateDB
}

// sets defaults on the config
func setDefaults(cfg *Config) {
	if cfg.ChainConfig == nil {
		cfg.ChainConfig = params.DefaultConfig
	}
	if cfg.Difficulty == nil {
		cfg.Difficulty = new(big.Int)
	}
	if cfg.Value == nil {
		cfg.Value = new(uint256.Int)
	}
	if cfg.Fee == nil {
		cfg.Fee = new(uint256.Int)
	}
	if cfg.Balance == nil {
		cfg.Balance = new(uint256.Int)
	}
	if cfg.Address == (common.Address{}) {
		cfg.Address = common.BytesToAddress([]byte("contract"))
	}
}

// NewEnv returns a contract machine for the block described by cfg.
func NewEnv(cfg *Config) *vm.EVM {
	blockContext := vm.BlockContext{
		Coinbase:   cfg.Coinbase,
		Number:     cfg.BlockNumber,
		Time:       cfg.Time,
		Difficulty: cfg.Difficulty,
		ParentHash: cfg.ParentHash,
	}
	return vm.NewEVM(blockContext, cfg.State, cfg.ChainConfig, cfg.EVMConfig)
}

// Execute installs code as a fresh contract in a temporary in-memory state
// (or cfg.State if set), funds it with cfg.Balance and runs it for a
// transaction carrying input as data.
//
// Execute 将代码安装为临时内存状态中的新合约并运行。
func Execute(code, input []uint256.Int, cfg *Config) (*vm.ExecutionResult, *state.StateDB, error) {
	if cfg == nil {
		cfg = new(Config)
	}
	setDefaults(cfg)

	if cfg.State == nil {
		statedb, err := state.New(types.EmptyRootHash, state.NewDatabaseForTesting())
		if err != nil {
			return nil, nil, err
		}
		cfg.State = statedb
	}
	address := cfg.Address
	cfg.State.CreateContract(address)
	for i := range code {
		cfg.State.SetStorage(address, uint256.NewInt(uint64(i)), &code[i])
	}
	cfg.State.AddBalance(address, cfg.Balance)

	res := call(address, input, cfg)
	return res, cfg.State, cfg.State.Error()
}

// Call runs the contract already installed at address in cfg.State.
func Call(address common.Address, input []uint256.Int, cfg *Config) (*vm.ExecutionResult, error) {
	setDefaults(cfg)
	res := call(address, input, cfg)
	return res, cfg.State.Error()
}

func call(address common.Address, input []uint256.Int, cfg *Config) *vm.ExecutionResult {
	tx := types.NewMessage(cfg.Origin, &types.TxData{
		To:    &address,
		Value: cfg.Value,
		Fee:   cfg.Fee,
		Data:  input,
	})
	return NewEnv(cfg).Call(address, tx, cfg.Origin)
}
