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

package flags

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"
)

// DirectoryString is a flag value which expands a leading ~ and embedded
// environment variables when it is set, e.g. ~/.ledger -> /home/username/.ledger
//
// DirectoryString 在设置时展开 ~ 和环境变量，得到绝对路径。
type DirectoryString string

func (s *DirectoryString) String() string { return string(*s) }

func (s *DirectoryString) Set(value string) error {
	*s = DirectoryString(expandPath(value))
	return nil
}

// DirectoryFlag builds a categorized flag holding a DirectoryString.
func DirectoryFlag(name, usage, value, category string) *cli.GenericFlag {
	v := DirectoryString(value)
	return &cli.GenericFlag{
		Name:     name,
		Usage:    usage,
		Value:    &v,
		Category: category,
	}
}

// Directory returns the expanded path of a flag made by DirectoryFlag.
func Directory(ctx *cli.Context, name string) string {
	if v, ok := ctx.Generic(name).(*DirectoryString); ok && v != nil {
		return v.String()
	}
	return ""
}

// WordValue is a flag value holding an unsigned 256 bit integer, given in
// decimal or as 0x-prefixed hex.
// WordValue 是接受十进制或 0x 十六进制的 256 位无符号整数标志值。
type WordValue uint256.Int

func (w *WordValue) String() string {
	return (*uint256.Int)(w).Dec()
}

func (w *WordValue) Set(s string) error {
	var (
		v   *uint256.Int
		err error
	)
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") {
		v, err = uint256.FromHex(s)
	} else {
		v, err = uint256.FromDecimal(s)
	}
	if err != nil {
		return fmt.Errorf("invalid 256 bit integer %q: %v", s, err)
	}
	*w = WordValue(*v)
	return nil
}

// WordFlag builds a categorized flag holding a WordValue.
func WordFlag(name, usage string, value *uint256.Int, category string) *cli.GenericFlag {
	v := new(WordValue)
	if value != nil {
		*v = WordValue(*value)
	}
	return &cli.GenericFlag{
		Name:     name,
		Usage:    usage,
		Value:    v,
		Category: category,
	}
}

// GlobalWord returns the value of a flag made by WordFlag, or nil.
func GlobalWord(ctx *cli.Context, name string) *uint256.Int {
	if v, ok := ctx.Generic(name).(*WordValue); ok && v != nil {
		return new(uint256.Int).Set((*uint256.Int)(v))
	}
	return nil
}

// expandPath expands a file path
// 1. replace tilde with users home dir
// 2. expands embedded environment variables
// 3. cleans the path, e.g. /a/b/../c -> /a/c
// Note, it has limitations, e.g. ~someuser/tmp will not be expanded
func expandPath(p string) string {
	// Named pipes are not file paths on windows, ignore
	if strings.HasPrefix(p, `\\.\pipe`) {
		return p
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~\\") {
		if home := HomeDir(); home != "" {
			p = home + p[1:]
		}
	}
	return filepath.Clean(os.ExpandEnv(p))
}

// HomeDir returns the home directory of the current user.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
