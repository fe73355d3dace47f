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

package node

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
)

const (
	DefaultDatabaseCache   = 128 // megabytes of memory given to the chain database
	DefaultDatabaseHandles = 256 // open file handles for the chain database
)

// DefaultConfig contains reasonable default settings.
var DefaultConfig = Config{
	DataDir:         DefaultDataDir(),
	DatabaseCache:   DefaultDatabaseCache,
	DatabaseHandles: DefaultDatabaseHandles,
}

// DefaultDataDir is the default data directory to use for the databases and
// other persistence requirements.
// DefaultDataDir 返回各平台下默认的数据目录。
func DefaultDataDir() string {
	home := homeDir()
	if home == "" {
		return ""
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Ledger")
	case "windows":
		if appdata := os.Getenv("LOCALAPPDATA"); appdata != "" {
			return filepath.Join(appdata, "Ledger")
		}
		return filepath.Join(home, "AppData", "Local", "Ledger")
	default:
		return filepath.Join(home, ".ledger")
	}
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
