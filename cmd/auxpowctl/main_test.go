// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"gitlab.com/jaxnet/auxpow/node/chaindata"
	"gitlab.com/jaxnet/auxpow/types/chaincfg"
	"gitlab.com/jaxnet/auxpow/types/chainhash"
	"gitlab.com/jaxnet/auxpow/types/wire"
)

func runApp(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	app := &App{}
	cliApp := app.CLI()
	cliApp.Writer = &out
	cliApp.ErrWriter = ioutil.Discard
	cliApp.ExitErrHandler = func(*cli.Context, error) {}

	err := cliApp.Run(append([]string{"auxpowctl", "--log-level", "error"}, args...))
	return out.String(), err
}

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "auxpowctl")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

// mineChain builds n linked merge-mined regtest headers.
func mineChain(t *testing.T, n int) []*wire.BlockHeader {
	params := &chaincfg.RegressionNetParams
	checker := chaindata.NewTargetChecker(params)

	headers := make([]*wire.BlockHeader, 0, n)
	prev := params.GenesisHash()
	for i := 0; i < n; i++ {
		pure := wire.PureBlockHeader{
			PrevBlock: prev,
			Timestamp: time.Unix(1600000000+int64(i)*60, 0),
			Bits:      params.PowLimitBits,
		}
		require.NoError(t, pure.SetBaseVersion(wire.MinAuxpowBaseVersion, params.AuxpowChainID))
		header := wire.NewBlockHeader(pure)
		require.NoError(t, wire.InitAuxPow(header))
		require.NoError(t, header.AuxPow().MineParent(func(pow chainhash.Hash) bool {
			return checker.CheckProofOfWork(pow, header.Bits) == nil
		}, 1000))

		headers = append(headers, header)
		prev = header.BlockHash()
	}
	return headers
}

func writeHeaderFile(t *testing.T, dir string, headers []*wire.BlockHeader) string {
	var buf bytes.Buffer
	buf.WriteString("# regtest headers\n\n")
	for _, h := range headers {
		line, err := headerHex(h)
		require.NoError(t, err)
		buf.WriteString(line + "\n")
	}
	path := filepath.Join(dir, "headers.txt")
	require.NoError(t, ioutil.WriteFile(path, buf.Bytes(), 0600))
	return path
}

func TestMineDecodeAndCheck(t *testing.T) {
	out, err := runApp(t, "--net", "regtest", "mine-auxpow")
	require.NoError(t, err)
	mined := strings.TrimSpace(out)

	header, err := parseHeaderHex(mined)
	require.NoError(t, err)
	assert.Equal(t, wire.MergeMinedHeader, header.Kind())
	assert.Equal(t, chaincfg.RegressionNetParams.GenesisHash(), header.PrevBlock)

	out, err = runApp(t, "decode-header", "--dump", mined)
	require.NoError(t, err)
	assert.Contains(t, out, "kind:          merge-mined")
	assert.Contains(t, out, "parent hash:")
	assert.Contains(t, out, "commitment:    root "+header.AuxCommitmentHash().String())
	assert.Contains(t, out, "ChainMerkleBranch")

	out, err = runApp(t, "--net", "regtest", "check-header", "--height", "1", mined)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid at height 1 on regtest")

	// Regtest bits are above the mainnet limit.
	_, err = runApp(t, "--net", "mainnet", "check-header", mined)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ErrUnexpectedDifficulty")
}

func TestMineRejectsMergeMinedInput(t *testing.T) {
	headers := mineChain(t, 1)
	line, err := headerHex(headers[0])
	require.NoError(t, err)

	_, err = runApp(t, "--net", "regtest", "mine-auxpow", line)
	assert.Error(t, err)
}

func TestImportLocatorExport(t *testing.T) {
	dir := tempDir(t)
	headers := mineChain(t, 12)
	file := writeHeaderFile(t, dir, headers)
	common := []string{"--net", "regtest", "--data-dir", dir, "--db-type", "leveldb"}

	out, err := runApp(t, append(common, "import-headers", "--file", file, "--start-height", "0")...)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 12 headers at heights 0..11")

	out, err = runApp(t, append(common, "locator")...)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 13)
	assert.Contains(t, lines[0], "(12 hashes)")
	assert.Equal(t, headers[11].BlockHash().String(), lines[1])
	assert.Equal(t, headers[0].BlockHash().String(), lines[12])

	csvPath := filepath.Join(dir, "headers.csv")
	out, err = runApp(t, append(common, "export-csv", "--out", csvPath)...)
	require.NoError(t, err)
	assert.Contains(t, out, "exported 12 headers")

	csvFile, err := os.Open(csvPath)
	require.NoError(t, err)
	defer csvFile.Close()

	var rows []HeaderRow
	require.NoError(t, gocsv.UnmarshalFile(csvFile, &rows))
	require.Len(t, rows, 12)
	for i, row := range rows {
		assert.EqualValues(t, i, row.Height)
		assert.Equal(t, headers[i].BlockHash().String(), row.Hash)
		assert.Equal(t, "merge-mined", row.Kind)
		assert.Equal(t, wire.AuxpowChainID, row.ChainID)
		assert.Equal(t, headers[i].AuxPow().ParentBlockHash().String(), row.ParentHash)
	}

	// Continuing without a start height appends after the tip.
	more := mineChain(t, 2)
	file = writeHeaderFile(t, tempDir(t), more)
	out, err = runApp(t, append(common, "import-headers", "--file", file)...)
	require.NoError(t, err)
	assert.Contains(t, out, "at heights 12..13")
}

func TestImportRejectsTamperedHeader(t *testing.T) {
	dir := tempDir(t)
	headers := mineChain(t, 3)
	headers[1].Nonce++
	file := writeHeaderFile(t, dir, headers)
	common := []string{"--net", "regtest", "--data-dir", dir, "--db-type", "badger"}

	_, err := runApp(t, append(common, "import-headers", "--file", file)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header at height 1")

	_, err = runApp(t, append(common, "locator")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header store is empty")
}

func TestReadHeaders(t *testing.T) {
	headers := mineChain(t, 2)
	first, err := headerHex(headers[0])
	require.NoError(t, err)
	second, err := headerHex(headers[1])
	require.NoError(t, err)

	got, err := readHeaders(strings.NewReader("# comment\n\n " + first + " \n" + second + "\n"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, headers[1].BlockHash(), got[1].BlockHash())

	_, err = readHeaders(strings.NewReader(first + "\nzz\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = parseHeaderHex(first + "00")
	assert.Error(t, err, "trailing bytes")
}

func TestInitCfgErrors(t *testing.T) {
	_, err := runApp(t, "--net", "simnet", "locator")
	assert.Error(t, err)

	_, err = runApp(t, "--db-type", "bolt", "locator")
	assert.Error(t, err)

	_, err = runApp(t, "--config", filepath.Join(tempDir(t), "absent.yaml"), "locator")
	assert.Error(t, err)
}

func TestConfigFileIsApplied(t *testing.T) {
	dir := tempDir(t)
	cfgPath := filepath.Join(dir, "auxpowctl.yaml")
	require.NoError(t, ioutil.WriteFile(cfgPath, []byte("net: regtest\ndb_type: memory\n"), 0600))

	out, err := runApp(t, "--config", cfgPath, "mine-auxpow")
	require.NoError(t, err)
	header, err := parseHeaderHex(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, chaincfg.RegressionNetParams.GenesisHash(), header.PrevBlock)
}

func TestNetInfo(t *testing.T) {
	out, err := runApp(t, "--net", "regtest", "net-info")
	require.NoError(t, err)
	assert.Contains(t, out, "regtest: chain id=0x205d auxpow from=0 strict=true mm tag=fabe6d6d")
	assert.Contains(t, out, "bits=207fffff")
	assert.Contains(t, out, "genesis="+chaincfg.RegressionNetParams.GenesisHash().String())
	assert.NotContains(t, out, "mainnet:")

	out, err = runApp(t, "net-info", "--all", "--genesis")
	require.NoError(t, err)
	for _, name := range []string{"mainnet:", "testnet:", "regtest:"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "MsgBlock(hash="+chaincfg.MainNetParams.GenesisHash().String())
}
