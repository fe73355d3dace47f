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
	"errors"
	"fmt"

	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/types"
)

var (
	// ErrKnownBlock is returned when a block to import is already known locally.
	ErrKnownBlock = errors.New("block already known")

	// ErrNoGenesis is returned when there is no Genesis Block.
	ErrNoGenesis = errors.New("genesis not found in chain")

	// ErrUnknownAncestor is returned when validating a block requires an ancestor
	// that is unknown.
	ErrUnknownAncestor = errors.New("unknown ancestor")
)

// List of evm-call-message pre-checking errors. All state transition messages will
// be pre-checked before execution. If any invalidation detected, the corresponding
// error should be returned which is defined here.
//
// A transaction failing one of these checks is dropped from the block and
// processing continues with the next one.
//
// 交易预检查错误。未通过检查的交易被丢弃，区块处理继续。
var (
	// ErrFeeTooLow is returned if the transaction fee is below the fee its
	// kind requires.
	ErrFeeTooLow = errors.New("fee below required minimum")

	// ErrInsufficientFunds is returned if value + fee exceeds the balance of
	// the sender.
	ErrInsufficientFunds = errors.New("insufficient funds for value + fee")

	// ErrNonceMismatch is returned if the nonce of a plain-account sender
	// differs from the one stored in the state.
	ErrNonceMismatch = errors.New("nonce mismatch")

	// ErrDataTooLarge is returned if the transaction carries more data words
	// than allowed.
	ErrDataTooLarge = errors.New("transaction data too large")

	// ErrInvalidSig is returned if the sender cannot be recovered.
	ErrInvalidSig = types.ErrInvalidSig
)

// Kinds of ConsensusError. A block failing one of them is rejected wholesale.
// ConsensusError 的种类，触发任何一种的区块都会被整体拒绝。
var (
	ErrBadTimestamp       = errors.New("timestamp out of range")
	ErrBadNumber          = errors.New("invalid block number")
	ErrBadParent          = errors.New("parent hash mismatch")
	ErrBadTxRoot          = errors.New("transaction root hash mismatch")
	ErrBadUncleHash       = errors.New("uncle root hash mismatch")
	ErrTooManyUncles      = errors.New("too many uncles")
	ErrDuplicateUncle     = errors.New("duplicate uncle")
	ErrBadUncle           = errors.New("invalid uncle")
	ErrBadTransaction     = errors.New("transaction rejected during re-execution")
	ErrMissingParentState = errors.New("parent state not available")
	ErrBadStateRoot       = errors.New("state root mismatch")
	ErrBadDifficulty      = errors.New("difficulty mismatch")
)

// ConsensusError is returned when a block violates a consensus rule. Kind is
// one of the Err* values above and can be matched with errors.Is.
//
// ConsensusError 表示区块违反共识规则，可以用 errors.Is 匹配 Kind。
type ConsensusError struct {
	Kind   error
	Number uint64
	Hash   common.Hash
	Detail string
}

func newConsensusError(kind error, header *types.Header, format string, args ...interface{}) *ConsensusError {
	return &ConsensusError{
		Kind:   kind,
		Number: header.Number,
		Hash:   header.Hash(),
		Detail: fmt.Sprintf(format, args...),
	}
}

func (err *ConsensusError) Error() string {
	if err.Detail == "" {
		return fmt.Sprintf("block #%d [%x…]: %v", err.Number, err.Hash[:4], err.Kind)
	}
	return fmt.Sprintf("block #%d [%x…]: %v: %s", err.Number, err.Hash[:4], err.Kind, err.Detail)
}

// Unwrap returns the kind of the violation.
func (err *ConsensusError) Unwrap() error {
	return err.Kind
}

// GenesisMismatchError is raised when trying to overwrite an existing
// genesis block with an incompatible one.
type GenesisMismatchError struct {
	Stored, New common.Hash
}

func (e *GenesisMismatchError) Error() string {
	return fmt.Sprintf("database contains incompatible genesis (have %x, new %x)", e.Stored, e.New)
}
