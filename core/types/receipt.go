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
	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
)

// Receipt records the outcome of an accepted transaction. Receipts are not
// part of the consensus encoding; the block processor hands them to callers.
//
// Receipt 记录已接受交易的执行结果，不属于共识编码。
type Receipt struct {
	TxHash          common.Hash
	Sender          common.Address
	ContractAddress common.Address // set for contract creations
	Fee             *uint256.Int   // transaction fee credited to the block

	// Contract execution, if the recipient is a contract.
	Steps    uint64
	VMFees   *uint256.Int   // step and surcharge fees debited from the contract
	Refunded *uint256.Int   // refunds minted to the contract
	Emitted  []*Transaction // messages emitted by MKTX, in emission order
	VMErr    error          // halt reason, nil on a clean STOP
}
