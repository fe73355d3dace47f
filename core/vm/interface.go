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

package vm

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/crypto"
)

// StateDB is the account state the contract machine reads and writes.
// StateDB 是合约虚拟机读写的账户状态。
type StateDB interface {
	GetBalance(common.Address) *uint256.Int
	AddBalance(common.Address, *uint256.Int)
	SubBalance(common.Address, *uint256.Int)

	IsContract(common.Address) bool
	GetStorage(addr common.Address, key *uint256.Int) *uint256.Int
	SetStorage(addr common.Address, key, value *uint256.Int)
	StorageSize(common.Address) int
	UpdateContract(addr common.Address, root common.Hash) bool
}

// Signer is the signature capability behind ECSIGN and ECRECOVER. V is the
// recovery id offset by 27, the same convention transactions use.
// Signer 是 ECSIGN 与 ECRECOVER 使用的签名能力。
type Signer interface {
	Sign(hash common.Hash, key *uint256.Int) (v byte, r, s *uint256.Int, err error)
	Recover(hash common.Hash, v byte, r, s *uint256.Int) (x, y *uint256.Int, err error)
}

var errInvalidSignature = errors.New("invalid signature values")

// secp256k1Signer implements Signer with the crypto package.
type secp256k1Signer struct{}

func (secp256k1Signer) Sign(hash common.Hash, key *uint256.Int) (byte, *uint256.Int, *uint256.Int, error) {
	kb := key.Bytes32()
	prv, err := crypto.ToECDSA(kb[:])
	if err != nil {
		return 0, nil, nil, err
	}
	sig, err := crypto.Sign(hash[:], prv)
	if err != nil {
		return 0, nil, nil, err
	}
	r := new(uint256.Int).SetBytes(sig[:32])
	s := new(uint256.Int).SetBytes(sig[32:64])
	return sig[crypto.RecoveryIDOffset] + 27, r, s, nil
}

func (secp256k1Signer) Recover(hash common.Hash, v byte, r, s *uint256.Int) (*uint256.Int, *uint256.Int, error) {
	if v < 27 || !crypto.ValidateSignatureValues(v-27, r.ToBig(), s.ToBig()) {
		return nil, nil, errInvalidSignature
	}
	var (
		sig = make([]byte, crypto.SignatureLength)
		rb  = r.Bytes32()
		sb  = s.Bytes32()
	)
	copy(sig[:32], rb[:])
	copy(sig[32:64], sb[:])
	sig[crypto.RecoveryIDOffset] = v - 27
	pub, err := crypto.Ecrecover(hash[:], sig)
	if err != nil {
		return nil, nil, err
	}
	// 0x04 || X || Y
	return new(uint256.Int).SetBytes(pub[1:33]), new(uint256.Int).SetBytes(pub[33:65]), nil
}
