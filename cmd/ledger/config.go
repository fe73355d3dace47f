// Copyright 2017 The go-ethereum Authors
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
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
	"github.com/sunyihoo/go-ledger/cmd/utils"
	"github.com/sunyihoo/go-ledger/core/vm"
	"github.com/sunyihoo/go-ledger/internal/flags"
	"github.com/sunyihoo/go-ledger/miner"
	"github.com/sunyihoo/go-ledger/node"
	"github.com/sunyihoo/go-ledger/params"
	"github.com/urfave/cli/v2"
)

var (
	dumpConfigCommand = &cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Export configuration values in a TOML format",
		ArgsUsage:   "<dumpfile (optional)>",
		Flags:       flags.Merge(configFlags, utils.DatabaseFlags),
		Description: `Export configuration values in TOML format (to stdout by default).`,
	}

	configFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: flags.ChainCategory,
	}

	configFlags = []cli.Flag{
		configFileFlag,
		utils.MinerCoinbaseFlag,
		utils.MinerExtraDataFlag,
		utils.MinerMaxTxsFlag,
		utils.VMMaxStepsFlag,
	}
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// vmConfig is the TOML form of vm.Config; the signer is not configurable.
type vmConfig struct {
	MaxSteps uint64
}

type ledgerConfig struct {
	Ledger params.Config // chain rules used for genesis blocks created by this tool
	Node   node.Config
	Miner  miner.Config
	VM     vmConfig
}

func loadConfig(file string, cfg *ledgerConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

func defaultNodeConfig() node.Config {
	cfg := node.DefaultConfig
	cfg.Name = clientIdentifier
	return cfg
}

// loadBaseConfig loads the ledgerConfig based on the given command line
// parameters and config file.
// loadBaseConfig 依次应用默认值、配置文件和命令行标志。
func loadBaseConfig(ctx *cli.Context) (ledgerConfig, error) {
	// Load defaults
	cfg := ledgerConfig{
		Ledger: *params.DefaultConfig.Copy(),
		Node:   defaultNodeConfig(),
		Miner:  miner.DefaultConfig,
	}
	// Load config file.
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := cfg.Ledger.CheckConfig(); err != nil {
		return cfg, fmt.Errorf("invalid [Ledger] config: %w", err)
	}
	// Apply flags.
	utils.SetNodeConfig(ctx, &cfg.Node)
	if err := utils.SetMinerConfig(ctx, &cfg.Miner); err != nil {
		return cfg, err
	}
	vmcfg := cfg.vmConfig()
	utils.SetVMConfig(ctx, &vmcfg)
	cfg.VM.MaxSteps = vmcfg.MaxSteps
	return cfg, nil
}

func (c *ledgerConfig) vmConfig() vm.Config {
	return vm.Config{MaxSteps: c.VM.MaxSteps}
}

// makeConfigNode loads the configuration and opens the node on its datadir.
func makeConfigNode(ctx *cli.Context) (*node.Node, ledgerConfig) {
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		utils.Fatalf("%v", err)
	}
	stack, err := node.New(&cfg.Node)
	if err != nil {
		utils.Fatalf("Failed to open node: %v", err)
	}
	return stack, cfg
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}

	dump := os.Stdout
	if ctx.NArg() > 0 {
		dump, err = os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer dump.Close()
	}
	dump.WriteString(comment)
	dump.Write(out)
	return nil
}

const comment = `# Note: this config doesn't contain the genesis block.

`
