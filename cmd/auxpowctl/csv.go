// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/urfave/cli/v2"
	"gitlab.com/jaxnet/auxpow/types/wire"
)

// HeaderRow is one exported header.
type HeaderRow struct {
	Height      int32  `csv:"height"`
	Hash        string `csv:"hash"`
	Kind        string `csv:"kind"`
	Version     string `csv:"version"`
	BaseVersion int32  `csv:"base_version"`
	ChainID     int32  `csv:"chain_id"`
	PrevBlock   string `csv:"prev_block"`
	MerkleRoot  string `csv:"merkle_root"`
	Timestamp   int64  `csv:"timestamp"`
	Bits        string `csv:"bits"`
	Nonce       uint32 `csv:"nonce"`

	ParentHash        string `csv:"parent_hash"`
	ParentPoWHash     string `csv:"parent_pow_hash"`
	ChainIndex        int32  `csv:"chain_index"`
	ChainBranchLength int    `csv:"chain_branch_length"`
}

func newHeaderRow(height int32, h *wire.BlockHeader) HeaderRow {
	row := HeaderRow{
		Height:      height,
		Hash:        h.BlockHash().String(),
		Kind:        h.Kind().String(),
		Version:     fmt.Sprintf("%08x", uint32(h.Version)),
		BaseVersion: h.BaseVersion(),
		ChainID:     h.ChainID(),
		PrevBlock:   h.PrevBlock.String(),
		MerkleRoot:  h.MerkleRoot.String(),
		Timestamp:   h.Timestamp.Unix(),
		Bits:        fmt.Sprintf("%08x", h.Bits),
		Nonce:       h.Nonce,
	}
	if auxPow := h.AuxPow(); auxPow != nil {
		row.ParentHash = auxPow.ParentBlockHash().String()
		row.ParentPoWHash = auxPow.ParentPoWHash().String()
		row.ChainIndex = auxPow.ChainIndex
		row.ChainBranchLength = len(auxPow.ChainMerkleBranch)
	}
	return row
}

func (app *App) ExportCSVFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "out",
			Aliases:  []string{"o"},
			Usage:    "path of the CSV file to write",
			Required: true,
		},
	}
}

func (app *App) ExportCSVCmd(c *cli.Context) error {
	store, err := app.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	rows := make([]HeaderRow, 0)
	err = store.ForEach(func(height int32, header *wire.BlockHeader) error {
		rows = append(rows, newHeaderRow(height, header))
		return nil
	})
	if err != nil {
		return cli.Exit(err, 1)
	}

	file, err := os.OpenFile(c.String("out"), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return cli.Exit(err, 1)
	}

	fmt.Fprintf(c.App.Writer, "exported %d headers to %s\n", len(rows), c.String("out"))
	return nil
}
