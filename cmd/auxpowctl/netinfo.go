// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v2"
	"gitlab.com/jaxnet/auxpow/types/chaincfg"
	"gitlab.com/jaxnet/auxpow/types/pow"
)

func (app *App) NetInfoFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "all",
			Usage: "describe every known network instead of the configured one",
		},
		&cli.BoolFlag{
			Name:  "genesis",
			Usage: "dump the genesis block",
		},
	}
}

func (app *App) NetInfoCmd(c *cli.Context) error {
	nets := []*chaincfg.Params{app.params}
	if c.Bool("all") {
		nets = []*chaincfg.Params{
			&chaincfg.MainNetParams, &chaincfg.TestNetParams, &chaincfg.RegressionNetParams,
		}
	}

	w := c.App.Writer
	for _, params := range nets {
		describeNet(w, params)
		if c.Bool("genesis") {
			fmt.Fprintln(w, params.GenesisBlock().String())
			fmt.Fprintln(w, spew.Sdump(params.GenesisBlock().Transactions[0]))
		}
	}
	return nil
}

func describeNet(w io.Writer, params *chaincfg.Params) {
	bits := params.PowLimitBits
	work := pow.CalcWork(bits)
	fmt.Fprintf(w, "%s: chain id=0x%04x auxpow from=%d strict=%v mm tag=%x\n",
		params.Name, params.AuxpowChainID, params.AuxpowStartHeight, params.StrictChainID,
		params.MergedMiningHeader())
	fmt.Fprintf(w, "  bits=%08x target=%064x work=%s (2^%d)\n",
		bits, pow.CompactToBig(bits), work, work.BitLen()-1)
	fmt.Fprintf(w, "  genesis=%s\n", params.GenesisHash())
}
