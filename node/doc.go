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

/*
Package node manages the data directory of a ledger instance.

A Node owns an instance directory below the configured DataDir. The directory is
locked while the node is open so that a second process cannot write the same
databases. Databases opened through the node are closed with it.

An ephemeral node (empty DataDir) holds no lock and hands out in-memory
databases, which is what tests and one-shot dev runs use.

The layout of a data directory looks like this:

	/home/user/.ledger/
		ledger/
			LOCK         - file system lock held by the running instance
			chaindata/   - block and state database (pebble or leveldb)

Node 管理账本实例的数据目录，并通过文件锁防止多个进程同时使用。
*/
package node
