// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/jaxnet/auxpow/types/chaincfg"
)

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "auxpowctl-config")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	params, err := cfg.NetParams()
	require.NoError(t, err)
	assert.Equal(t, &chaincfg.MainNetParams, params)
	assert.Equal(t, filepath.Join("data", "mainnet", "headers_leveldb"), cfg.DBPath())
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := tempDir(t)
	path := filepath.Join(dir, DefaultConfigFilename)
	require.NoError(t, ioutil.WriteFile(path, []byte(`
net: regtest
db_type: badger
data_dir: $AUXPOW_TEST_HOME/chain
log_level: debug
log_config:
  logs_as_json: true
metrics:
  enable: true
  interval: 3s
workers: 2
`), 0600))
	require.NoError(t, os.Setenv("AUXPOW_TEST_HOME", dir))
	defer os.Unsetenv("AUXPOW_TEST_HOME")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "regtest", cfg.Net)
	assert.Equal(t, "badger", cfg.DbType)
	assert.Equal(t, filepath.Join(dir, "chain"), cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogConfig.LogsAsJson)
	assert.Equal(t, 150, cfg.LogConfig.MaxSize, "untouched nested defaults survive")
	assert.True(t, cfg.Metrics.Enable)
	assert.Equal(t, 3*time.Second, cfg.Metrics.Interval)
	assert.Equal(t, defaultMetricsAddr, cfg.Metrics.Addr)
	assert.Equal(t, 2, cfg.Workers)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(tempDir(t), "nested", DefaultConfigFilename)
	cfg := Default()
	cfg.Net = string(chaincfg.TestNet)
	cfg.DbType = "memory"
	cfg.DataDir = "/var/lib/auxpow"
	cfg.LogConfig.Directory = "/var/log/auxpow"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown net", func(c *Config) { c.Net = "simnet" }},
		{"unknown db", func(c *Config) { c.DbType = "bolt" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"negative cache", func(c *Config) { c.CheckedCacheSize = -1 }},
		{"metrics without addr", func(c *Config) { c.Metrics.Enable = true; c.Metrics.Addr = "" }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(tempDir(t), "absent.yaml"))
	assert.Error(t, err)
}
