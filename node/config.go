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

package node

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sunyihoo/go-ledger/log"
)

// Config represents a small collection of configuration values to fine tune the
// on-disk footprint of a ledger instance. It is loaded from the [Node] section
// of the TOML config file and then overridden by command line flags.
//
// Config 描述实例的数据目录和数据库选项。
type Config struct {
	// Name sets the instance name of the node. It must not contain the / character
	// and is used as the instance directory below DataDir. If empty, the name of
	// the executable is used.
	Name string `toml:"-"`

	// DataDir is the file system folder the node should use for any data storage
	// requirements. An empty DataDir makes the node ephemeral.
	DataDir string

	// DBEngine selects the key-value backend, "pebble" or "leveldb". Empty keeps
	// the engine of an existing database and picks pebble for a new one.
	DBEngine string `toml:",omitempty"`

	DatabaseCache   int // megabytes
	DatabaseHandles int

	// Logger is a custom logger to use with the node.
	Logger log.Logger `toml:",omitempty"`
}

// ResolvePath resolves path in the instance directory. Absolute paths are
// returned unchanged; an ephemeral node resolves everything to "".
func (c *Config) ResolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if c.DataDir == "" {
		return ""
	}
	return filepath.Join(c.instanceDir(), path)
}

func (c *Config) name() string {
	if c.Name == "" {
		progname := strings.TrimSuffix(filepath.Base(os.Args[0]), ".exe")
		if progname == "" {
			panic("empty executable name, set Config.Name")
		}
		return progname
	}
	return c.Name
}

func (c *Config) instanceDir() string {
	if c.DataDir == "" {
		return ""
	}
	return filepath.Join(c.DataDir, c.name())
}
