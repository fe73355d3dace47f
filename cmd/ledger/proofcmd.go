// Copyright 2019 The go-ethereum Authors
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

package main

import (
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/sunyihoo/go-ledger/common"
	"github.com/sunyihoo/go-ledger/core/state"
	"github.com/sunyihoo/go-ledger/internal/flags"
	"github.com/sunyihoo/go-ledger/log"
	"github.com/urfave/cli/v2"
)

var (
	proofSlotFlag = flags.WordFlag("slot", "Storage slot of the contract to prove as well", nil, flags.ChainCategory)

	proofCommand = &cli.Command{
		Action:    proveState,
		Name:      "proof",
		Usage:     "Print the Merkle proof of an account at a given block",
		ArgsUsage: "<address> [<blockHash> | <blockNum>]",
		Flags: flags.Merge([]cli.Flag{
			proofSlotFlag,
		}, nodeFlags),
		Description: `
The proof command collects the trie nodes proving the account record of the
address against the state root of a block (the head if none is given), checks
them and prints the record with its proof. With --slot, the storage slot of a
contract account is proven against the storage root in the record.`,
	}
)

// accountResult is the printed form of an account proof.
type accountResult struct {
	Address      string         `json:"address"`
	Root         string         `json:"stateRoot"`
	Kind         string         `json:"kind"`
	Balance      string         `json:"balance"`
	Nonce        uint64         `json:"nonce,omitempty"`
	StorageRoot  string         `json:"storageRoot,omitempty"`
	AccountProof []string       `json:"accountProof"`
	StorageProof *storageResult `json:"storageProof,omitempty"`
}

type storageResult struct {
	Key   string   `json:"key"`
	Value string   `json:"value"`
	Proof []string `json:"proof"`
}

func proveState(ctx *cli.Context) error {
	if ctx.NArg() < 1 || ctx.NArg() > 2 {
		return fmt.Errorf("expected an address and an optional block, got %d arguments", ctx.NArg())
	}
	arg := ctx.Args().First()
	if !common.IsHexAddress(arg) {
		return fmt.Errorf("invalid address %q", arg)
	}
	var slot *uint256.Int
	if ctx.IsSet(proofSlotFlag.Name) {
		slot = flags.GlobalWord(ctx, proofSlotFlag.Name)
	}
	stack, cfg := makeConfigNode(ctx)
	defer stack.Close()

	chain := makeChain(ctx, stack, &cfg, true)
	defer chain.Stop()

	header, err := headerByArg(chain, ctx.Args().Get(1))
	if err != nil {
		return err
	}
	statedb, err := chain.StateAt(header.Root)
	if err != nil {
		return err
	}
	result, err := proveAccount(statedb, header.Root, common.HexToAddress(arg), slot)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	log.Info("Verified account proof", "block", header.Number, "root", header.Root, "nodes", len(result.AccountProof))
	return nil
}

// proveAccount builds the proof of addr, and of slot when given, and checks
// it against root before returning it.
func proveAccount(statedb *state.StateDB, root common.Hash, addr common.Address, slot *uint256.Int) (*accountResult, error) {
	nodes, err := statedb.GetProof(addr)
	if err != nil {
		return nil, err
	}
	acct, err := state.VerifyAccountProof(root, addr, nodes)
	if err != nil {
		return nil, fmt.Errorf("account proof of %s: %w", addr.Hex(), err)
	}
	result := &accountResult{
		Address:      addr.Hex(),
		Root:         root.Hex(),
		Kind:         acct.Kind.String(),
		Balance:      acct.Balance.Dec(),
		AccountProof: hexNodes(nodes),
	}
	if acct.IsContract() {
		result.StorageRoot = acct.Root.Hex()
	} else {
		result.Nonce = acct.Nonce
	}
	if slot == nil {
		return result, nil
	}
	if !acct.IsContract() {
		return nil, fmt.Errorf("account %s is not a contract", addr.Hex())
	}
	nodes, err = statedb.GetStorageProof(addr, slot)
	if err != nil {
		return nil, err
	}
	value, err := state.VerifyStorageProof(acct.Root, slot, nodes)
	if err != nil {
		return nil, fmt.Errorf("storage proof of %s slot %s: %w", addr.Hex(), slot.Hex(), err)
	}
	result.StorageProof = &storageResult{
		Key:   slot.Hex(),
		Value: value.Hex(),
		Proof: hexNodes(nodes),
	}
	return result, nil
}

func hexNodes(nodes [][]byte) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = fmt.Sprintf("%#x", n)
	}
	return out
}
