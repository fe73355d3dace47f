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

package utils

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/sunyihoo/go-ledger/core"
	"github.com/sunyihoo/go-ledger/core/types"
	"github.com/sunyihoo/go-ledger/log"
	"github.com/sunyihoo/go-ledger/rlp"
)

const (
	importBatchSize = 2500
)

var errInterrupted = errors.New("interrupted")

// Fatalf formats a message to standard error and exits the program.
// The message is also printed to standard output if standard error
// is redirected to a different file.
func Fatalf(format string, args ...interface{}) {
	w := io.MultiWriter(os.Stdout, os.Stderr)
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		}
	}
	fmt.Fprintf(w, "Fatal: "+format+"\n", args...)
	os.Exit(1)
}

// readAll loads a whole file, transparently inflating .gz files.
func readAll(fn string) ([]byte, error) {
	fh, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var reader io.Reader = fh
	if strings.HasSuffix(fn, ".gz") {
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}
	return io.ReadAll(reader)
}

// splitItems cuts a concatenation of RLP lists into the encodings of the
// individual lists.
// splitItems 将连续存放的 RLP 列表切分为单独的编码。
func splitItems(data []byte) ([][]byte, error) {
	var items [][]byte
	for len(data) > 0 {
		_, rest, err := rlp.SplitList(data)
		if err != nil {
			return nil, fmt.Errorf("at item %d: %w", len(items), err)
		}
		items = append(items, data[:len(data)-len(rest)])
		data = rest
	}
	return items, nil
}

// DecodeBlocks decodes a stream of concatenated block encodings, the format
// written by ExportChain.
func DecodeBlocks(data []byte) ([]*types.Block, error) {
	items, err := splitItems(data)
	if err != nil {
		return nil, err
	}
	blocks := make([]*types.Block, len(items))
	for i, enc := range items {
		if blocks[i], err = types.DecodeBlock(enc); err != nil {
			return nil, fmt.Errorf("at block %d: %w", i, err)
		}
	}
	return blocks, nil
}

// ReadTransactions loads a file of concatenated transaction encodings.
func ReadTransactions(fn string) ([]*types.Transaction, error) {
	data, err := readAll(fn)
	if err != nil {
		return nil, err
	}
	items, err := splitItems(data)
	if err != nil {
		return nil, err
	}
	txs := make([]*types.Transaction, len(items))
	for i, enc := range items {
		txs[i] = new(types.Transaction)
		if err := txs[i].UnmarshalBinary(enc); err != nil {
			return nil, fmt.Errorf("at transaction %d: %w", i, err)
		}
	}
	return txs, nil
}

// ImportChain imports the blocks of an exported chain file. Blocks already
// present are skipped, so a file may be imported again after an interrupt.
//
// ImportChain 导入导出的链文件，已存在的区块会被跳过。
func ImportChain(chain *core.BlockChain, fn string) error {
	// Watch for Ctrl-C while the import is running.
	// If a signal is received, the import will stop at the next batch.
	interrupt := make(chan os.Signal, 1)
	stop := make(chan struct{})
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(interrupt)
	defer close(interrupt)
	go func() {
		if _, ok := <-interrupt; ok {
			log.Info("Interrupted during import, stopping at next batch")
		}
		close(stop)
	}()
	checkInterrupt := func() bool {
		select {
		case <-stop:
			return true
		default:
			return false
		}
	}

	log.Info("Importing blockchain", "file", fn)
	data, err := readAll(fn)
	if err != nil {
		return err
	}
	blocks, err := DecodeBlocks(data)
	if err != nil {
		return err
	}
	// Don't import the genesis block, it is set up by init.
	if len(blocks) > 0 && blocks[0].NumberU64() == 0 {
		if blocks[0].Hash() != chain.Genesis().Hash() {
			return fmt.Errorf("genesis mismatch: file has %x, chain has %x", blocks[0].Hash(), chain.Genesis().Hash())
		}
		blocks = blocks[1:]
	}
	for batch := 0; len(blocks) > 0; batch++ {
		if checkInterrupt() {
			return errInterrupted
		}
		n := min(importBatchSize, len(blocks))
		missing := missingBlocks(chain, blocks[:n])
		if len(missing) == 0 {
			log.Info("Skipping batch as all blocks present", "batch", batch, "first", blocks[0].Hash(), "last", blocks[n-1].Hash())
		} else if idx, err := chain.InsertChain(missing); err != nil {
			return fmt.Errorf("invalid block %d: %w", missing[idx].NumberU64(), err)
		}
		blocks = blocks[n:]
	}
	return nil
}

func missingBlocks(chain *core.BlockChain, blocks []*types.Block) []*types.Block {
	for i, block := range blocks {
		if !chain.HasBlock(block.Hash(), block.NumberU64()) {
			return blocks[i:]
		}
	}
	return nil
}

// ExportChain exports a blockchain into the specified file, truncating any data
// already present in the file.
func ExportChain(blockchain *core.BlockChain, fn string) error {
	log.Info("Exporting blockchain", "file", fn)

	// Open the file handle and potentially wrap with a gzip stream
	fh, err := os.OpenFile(fn, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.ModePerm)
	if err != nil {
		return err
	}
	defer fh.Close()

	var writer io.Writer = fh
	if strings.HasSuffix(fn, ".gz") {
		gz := gzip.NewWriter(writer)
		defer gz.Close()
		writer = gz
	}
	// Iterate over the blocks and export them
	if err := blockchain.Export(writer); err != nil {
		return err
	}
	log.Info("Exported blockchain", "file", fn)
	return nil
}

// ExportAppendChain exports a range of blocks, appending to the file if it
// already exists.
func ExportAppendChain(blockchain *core.BlockChain, fn string, first uint64, last uint64) error {
	log.Info("Exporting blockchain", "file", fn)

	fh, err := os.OpenFile(fn, os.O_CREATE|os.O_APPEND|os.O_WRONLY, os.ModePerm)
	if err != nil {
		return err
	}
	defer fh.Close()

	var writer io.Writer = fh
	if strings.HasSuffix(fn, ".gz") {
		gz := gzip.NewWriter(writer)
		defer gz.Close()
		writer = gz
	}
	if err := blockchain.ExportN(writer, first, last); err != nil {
		return err
	}
	log.Info("Exported blockchain to", "file", fn)
	return nil
}
