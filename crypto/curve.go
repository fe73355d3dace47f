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

package crypto

import (
	"math/big"
)

// Raw secp256k1 point arithmetic used by the contract machine. Points are
// affine (x, y) pairs; the point at infinity is represented as (0, 0).

// ValidPoint reports whether (x, y) is a point on the secp256k1 curve.
func ValidPoint(x, y *big.Int) bool {
	curve := S256()
	p := curve.Params().P
	if x.Sign() < 0 || y.Sign() < 0 || x.Cmp(p) >= 0 || y.Cmp(p) >= 0 {
		return false
	}
	return curve.IsOnCurve(x, y)
}

// AddPoints returns the sum of two curve points. ok is false if either input
// is not on the curve.
func AddPoints(x1, y1, x2, y2 *big.Int) (x, y *big.Int, ok bool) {
	if !ValidPoint(x1, y1) || !ValidPoint(x2, y2) {
		return nil, nil, false
	}
	x, y = S256().Add(x1, y1, x2, y2)
	return x, y, true
}

// ScalarMult returns k*(x, y). ok is false if the input is not on the curve.
func ScalarMult(k, x, y *big.Int) (rx, ry *big.Int, ok bool) {
	if !ValidPoint(x, y) {
		return nil, nil, false
	}
	scalar := new(big.Int).Mod(k, secp256k1N)
	if scalar.Sign() == 0 {
		return new(big.Int), new(big.Int), true
	}
	rx, ry = S256().ScalarMult(x, y, scalar.Bytes())
	return rx, ry, true
}
