// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gitlab.com/jaxnet/auxpow/node/chaindata"
	"gitlab.com/jaxnet/auxpow/types/chainhash"
	"gitlab.com/jaxnet/auxpow/types/wire"
)

const defaultMineTries = 1 << 20

// parseHeaderHex decodes one hex encoded header. Trailing bytes are an
// error.
func parseHeaderHex(s string) (*wire.BlockHeader, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.Wrap(err, "header is not valid hex")
	}
	r := bytes.NewReader(raw)
	header, err := wire.DecodeBlockHeader(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, errors.Errorf("%d trailing bytes after header", r.Len())
	}
	return header, nil
}

func headerHex(header *wire.BlockHeader) (string, error) {
	raw, err := header.Bytes()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// readHeaders reads one hex header per line, skipping blank lines and
// lines starting with '#'.
func readHeaders(r io.Reader) ([]*wire.BlockHeader, error) {
	var headers []*wire.BlockHeader
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), wire.MaxBlockPayload*2)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		header, err := parseHeaderHex(text)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		headers = append(headers, header)
	}
	return headers, scanner.Err()
}

func singleArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", cli.Exit(fmt.Sprintf("%s expects exactly one argument", c.Command.Name), 1)
	}
	return c.Args().First(), nil
}

func describeHeader(w io.Writer, header *wire.BlockHeader) {
	fmt.Fprintf(w, "hash:          %s\n", header.BlockHash())
	fmt.Fprintf(w, "kind:          %s\n", header.Kind())
	fmt.Fprintf(w, "version:       0x%08x (base %d, chain id 0x%04x, auxpow %v)\n",
		uint32(header.Version), header.BaseVersion(), header.ChainID(), header.IsAuxpow())
	fmt.Fprintf(w, "prev block:    %s\n", header.PrevBlock)
	fmt.Fprintf(w, "merkle root:   %s\n", header.MerkleRoot)
	fmt.Fprintf(w, "time:          %s\n", header.Timestamp.UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "bits:          %08x\n", header.Bits)
	fmt.Fprintf(w, "nonce:         %d\n", header.Nonce)
	fmt.Fprintf(w, "pow hash:      %s\n", header.PoWHash())

	auxPow := header.AuxPow()
	if auxPow == nil {
		return
	}
	fmt.Fprintf(w, "parent hash:   %s\n", auxPow.ParentBlockHash())
	fmt.Fprintf(w, "parent pow:    %s\n", auxPow.ParentPoWHash())
	fmt.Fprintf(w, "coinbase:      %s (index %s, branch %d)\n", auxPow.CoinbaseTx.TxHash(),
		auxPow.CoinbaseTx.Index, len(auxPow.CoinbaseTx.MerkleBranch))
	fmt.Fprintf(w, "chain index:   %d (branch %d)\n", auxPow.ChainIndex, len(auxPow.ChainMerkleBranch))
	if commitment, err := wire.ParseMergedMiningCommitment(
		auxPow.CoinbaseTx.Tx.TxIn[0].SignatureScript); err == nil {
		fmt.Fprintf(w, "commitment:    root %s size %d nonce %d\n",
			commitment.ChainRoot, commitment.TreeSize, commitment.Nonce)
	}
}

func (app *App) DecodeHeaderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "dump",
			Usage: "print the full decoded structure",
		},
	}
}

func (app *App) DecodeHeaderCmd(c *cli.Context) error {
	arg, err := singleArg(c)
	if err != nil {
		return err
	}
	header, err := parseHeaderHex(arg)
	if err != nil {
		return cli.Exit(err, 1)
	}

	w := c.App.Writer
	describeHeader(w, header)
	if c.Bool("dump") {
		fmt.Fprintln(w, spew.Sdump(header.Pure(), header.AuxPow()))
	}
	return nil
}

func (app *App) CheckHeaderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:  "height",
			Usage: "height the header is checked at; defaults to the auxpow start height",
			Value: -1,
		},
	}
}

func (app *App) CheckHeaderCmd(c *cli.Context) error {
	arg, err := singleArg(c)
	if err != nil {
		return err
	}
	header, err := parseHeaderHex(arg)
	if err != nil {
		return cli.Exit(err, 1)
	}

	height := int32(c.Int64("height"))
	if height < 0 {
		height = app.params.AuxpowStartHeight
	}

	err = app.newValidator(nil).CheckHeader(header, height)
	if err != nil {
		var rerr chaindata.RuleError
		if errors.As(err, &rerr) {
			return cli.Exit(fmt.Sprintf("header %s rejected (%s): %v",
				header.BlockHash(), rerr.ErrorCode, err), 2)
		}
		return cli.Exit(err, 2)
	}

	fmt.Fprintf(c.App.Writer, "header %s (%s) is valid at height %d on %s\n",
		header.BlockHash(), header.Kind(), height, app.params.Name)
	return nil
}

func (app *App) MineAuxPowFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Uint64Flag{
			Name:  "max-tries",
			Usage: "parent nonces to try before giving up",
			Value: defaultMineTries,
		},
	}
}

// templateHeader builds a plain header on top of the network genesis.
func (app *App) templateHeader() (*wire.BlockHeader, error) {
	genesis := app.params.GenesisBlock()
	pure := wire.PureBlockHeader{
		PrevBlock: app.params.GenesisHash(),
		Timestamp: time.Unix(genesis.Header.Timestamp.Unix()+1, 0),
		Bits:      app.params.PowLimitBits,
	}
	pure.MerkleRoot = genesis.Header.MerkleRoot
	if err := pure.SetBaseVersion(wire.MinAuxpowBaseVersion, app.params.AuxpowChainID); err != nil {
		return nil, err
	}
	return wire.NewBlockHeader(pure), nil
}

func (app *App) MineAuxPowCmd(c *cli.Context) error {
	var (
		header *wire.BlockHeader
		err    error
	)
	switch c.NArg() {
	case 0:
		header, err = app.templateHeader()
	case 1:
		header, err = parseHeaderHex(c.Args().First())
	default:
		return cli.Exit("mine-auxpow expects at most one argument", 1)
	}
	if err != nil {
		return cli.Exit(err, 1)
	}

	if err := wire.InitAuxPow(header); err != nil {
		return cli.Exit(err, 1)
	}

	checker := chaindata.NewTargetChecker(app.params)
	start := time.Now()
	err = header.AuxPow().MineParent(func(powHash chainhash.Hash) bool {
		return checker.CheckProofOfWork(powHash, header.Bits) == nil
	}, uint32(c.Uint64("max-tries")))
	if err != nil {
		return cli.Exit(err, 1)
	}

	app.logger.Info().Stringer("hash", header.BlockHash()).
		Uint32("parent_nonce", header.AuxPow().ParentBlock.Nonce).
		Dur("elapsed", time.Since(start)).Msg("parent block solved")

	out, err := headerHex(header)
	if err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Fprintln(c.App.Writer, out)
	return nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return ioutil.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}
