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

package core

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/state"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/core/vm"
	"github.com/sunyihoo/go-ledger/params"
)

// RequiredFee returns the minimum fee tx must carry: NewContractFee plus
// MemoryFee per data word for a creation, TxFee otherwise.
//
// RequiredFee 返回交易必须支付的最低费用。
func RequiredFee(config *params.Config, tx *types.Transaction) *uint256.Int {
	if tx.IsCreation() {
		return config.CreationFee(tx.DataLen())
	}
	return uint256.NewInt(config.TxFee)
}

// The State Transitioning Model
//
// A state transition is a change made when a transaction is applied to the current world
// state. The state transitioning model does all the necessary work to work out a valid new
// state root.
//
//  1. Recover the sender and run the pre-checks
//  2. Debit value and fee from the sender
//  3. Create the contract, or credit the recipient
//  4. Run the recipient's code if it is a contract
//
// 状态转换模型：恢复发送者并预检查，扣除价值与费用，创建合约或入账接收者，
// 如果接收者是合约则运行其代码。
type stateTransition struct {
	evm   *vm.EVM
	state *state.StateDB
	tx    *types.Transaction
	from  common.Address
}

// ApplyTransaction applies tx against statedb using the block context and fee
// schedule of evm. A returned error means the transaction was dropped and
// the state is unchanged; otherwise the receipt describes what happened,
// including the messages its contract emitted.
//
// ApplyTransaction 将交易应用到状态上。返回错误表示交易被丢弃且状态未改变。
func ApplyTransaction(evm *vm.EVM, statedb *state.StateDB, tx *types.Transaction) (*types.Receipt, error) {
	from, err := types.Sender(types.FrontierSigner{}, tx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSig, err)
	}
	st := &stateTransition{evm: evm, state: statedb, tx: tx, from: from}
	if err := st.preCheck(); err != nil {
		return nil, err
	}
	return st.execute(), nil
}

// preCheck verifies everything that can make the transaction invalid. It
// must not touch the state.
func (st *stateTransition) preCheck() error {
	var (
		config = st.evm.ChainConfig()
		tx     = st.tx
	)
	if n := uint64(tx.DataLen()); n > config.MaxTxData {
		return fmt.Errorf("%w: tx %x, have %d words, max %d", ErrDataTooLarge, tx.Hash().Bytes()[:4], n, config.MaxTxData)
	}
	if required := RequiredFee(config, tx); tx.Fee().Lt(required) {
		return fmt.Errorf("%w: tx %x, have %v, want %v", ErrFeeTooLow, tx.Hash().Bytes()[:4], tx.Fee(), required)
	}
	// Contracts sign nothing, so their messages carry no meaningful nonce.
	// 合约发出的消息不带有效 nonce，不做检查。
	if !st.state.IsContract(st.from) {
		if have, want := tx.Nonce(), st.state.GetNonce(st.from); have != want {
			return fmt.Errorf("%w: address %v, tx: %d state: %d", ErrNonceMismatch, st.from.Hex(), have, want)
		}
	}
	cost := tx.Cost()
	if have := st.state.GetBalance(st.from); have.Lt(cost) {
		return fmt.Errorf("%w: address %v have %v want %v", ErrInsufficientFunds, st.from.Hex(), have, cost)
	}
	return nil
}

// execute moves the funds and runs the contract, if any. All checks have
// passed so nothing in here can drop the transaction.
func (st *stateTransition) execute() *types.Receipt {
	var (
		tx      = st.tx
		statedb = st.state
		receipt = &types.Receipt{
			TxHash:   tx.Hash(),
			Sender:   st.from,
			Fee:      tx.Fee(),
			VMFees:   new(uint256.Int),
			Refunded: new(uint256.Int),
		}
	)
	statedb.SubBalance(st.from, tx.Cost())
	if !statedb.IsContract(st.from) {
		statedb.SetNonce(st.from, statedb.GetNonce(st.from)+1)
	}
	if tx.IsCreation() {
		addr := tx.ContractAddress()
		statedb.CreateContract(addr)
		// Zero words are not written, storing zero is a deletion.
		for i, word := range tx.Data() {
			if !word.IsZero() {
				statedb.SetStorage(addr, uint256.NewInt(uint64(i)), &word)
			}
		}
		statedb.AddBalance(addr, tx.Value())
		receipt.ContractAddress = addr
		return receipt
	}
	to := *tx.To()
	statedb.AddBalance(to, tx.Value())
	if statedb.IsContract(to) {
		res := st.evm.Call(to, tx, st.from)
		receipt.Steps = res.Steps
		receipt.VMFees = res.FeesPaid
		receipt.Refunded = res.Refunded
		receipt.Emitted = res.Emitted
		receipt.VMErr = res.HaltReason
	}
	return receipt
}
