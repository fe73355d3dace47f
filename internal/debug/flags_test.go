// Copyright 2023 The go-ethereum Authors
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

package debug

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/sunyihoo/go-ledger/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range Flags {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(nil, set, nil)
}

func TestSetupFileLogger(t *testing.T) {
	defer log.SetDefault(log.Root())

	file := filepath.Join(t.TempDir(), "logs", "ledger.log")
	ctx := newContext(t, "--log.format", "json", "--log.file", file, "--verbosity", "debug")
	require.NoError(t, Setup(ctx))
	log.Debug("Imported block", "number", 42)
	Exit()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"Imported block"`)
	assert.Contains(t, string(data), `"number":42`)
}

func TestSetupRejectsUnknown(t *testing.T) {
	defer log.SetDefault(log.Root())

	assert.Error(t, Setup(newContext(t, "--log.format", "xml")))
	assert.Error(t, Setup(newContext(t, "--verbosity", "loud")))
}
