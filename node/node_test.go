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

package node

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(datadir string) *Config {
	return &Config{Name: "test", DataDir: datadir}
}

// Tests that a second node cannot be opened on a datadir that is in use.
func TestNodeUsedDataDir(t *testing.T) {
	dir := t.TempDir()

	original, err := New(testConfig(dir))
	require.NoError(t, err)
	defer original.Close()

	_, err = New(testConfig(dir))
	assert.ErrorIs(t, err, ErrDatadirUsed)
}

// Tests that the lock is released on Close and the datadir can be reused.
func TestNodeCloseReleasesLock(t *testing.T) {
	dir := t.TempDir()

	n, err := New(testConfig(dir))
	require.NoError(t, err)
	require.NoError(t, n.Close())
	assert.ErrorIs(t, n.Close(), ErrNodeStopped)

	again, err := New(testConfig(dir))
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestNodeOpenDatabase(t *testing.T) {
	dir := t.TempDir()
	conf := testConfig(dir)
	conf.DBEngine = "leveldb"

	n, err := New(conf)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "test", "chaindata"), n.ResolvePath("chaindata"))

	db, err := n.OpenDatabase("chaindata", 16, 16, false)
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("key"), []byte("value")))
	require.NoError(t, n.Close())

	_, err = n.OpenDatabase("chaindata", 16, 16, false)
	assert.ErrorIs(t, err, ErrNodeStopped)

	// The database was closed with the node and keeps its content.
	n, err = New(testConfig(dir))
	require.NoError(t, err)
	defer n.Close()
	db, err = n.OpenDatabase("chaindata", 16, 16, true)
	require.NoError(t, err)
	value, err := db.Get([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)
}

func TestEphemeralNode(t *testing.T) {
	n, err := New(&Config{Name: "test"})
	require.NoError(t, err)
	defer n.Close()

	assert.Equal(t, "", n.ResolvePath("chaindata"))
	db, err := n.OpenDatabase("chaindata", 0, 0, false)
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("a"), []byte("b")))
	require.NoError(t, db.Close())
}
