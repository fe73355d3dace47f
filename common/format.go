// Copyright 2016 The go-ethereum Authors
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
	"fmt"
	"time"
)

// PrettyDuration is a time.Duration that prints with at most three
// significant fractional digits, for log output.
// PrettyDuration 在日志中以较少的小数位打印时长。
type PrettyDuration time.Duration

func (d PrettyDuration) String() string {
	dur := time.Duration(d)
	switch {
	case dur >= time.Second:
		return dur.Round(time.Millisecond).String()
	case dur >= time.Millisecond:
		return dur.Round(time.Microsecond).String()
	default:
		return dur.String()
	}
}

// PrettyAge is a time.Time that prints as the time elapsed since it, in up
// to two of the most significant units.
type PrettyAge time.Time

var ageUnits = []struct {
	size   time.Duration
	symbol string
}{
	{365 * 24 * time.Hour, "y"},
	{7 * 24 * time.Hour, "w"},
	{24 * time.Hour, "d"},
	{time.Hour, "h"},
	{time.Minute, "m"},
	{time.Second, "s"},
}

func (t PrettyAge) String() string {
	diff := time.Since(time.Time(t))
	if diff < time.Second {
		return "0"
	}
	var (
		out   string
		parts int
	)
	for _, unit := range ageUnits {
		if diff < unit.size {
			if parts > 0 {
				break
			}
			continue
		}
		out += fmt.Sprintf("%d%s", diff/unit.size, unit.symbol)
		diff %= unit.size
		if parts++; parts == 2 {
			break
		}
	}
	return out
}
