// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gitlab.com/jaxnet/auxpow/corelog"
	"gitlab.com/jaxnet/auxpow/database/headerdb"
	"gitlab.com/jaxnet/auxpow/node/chaindata"
	"gitlab.com/jaxnet/auxpow/types/chaincfg"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFilename = "auxpowctl.yaml"
	defaultDataDirname    = "data"
	defaultLogLevel       = "info"
	defaultDbType         = headerdb.TypeLevelDB
	defaultMetricsAddr    = "127.0.0.1:9101"
)

// Config is the configuration of auxpowctl.
type Config struct {
	Net       string         `yaml:"net"`
	DataDir   string         `yaml:"data_dir"`
	DbType    string         `yaml:"db_type"`
	LogLevel  string         `yaml:"log_level"`
	LogConfig corelog.Config `yaml:"log_config"`
	Metrics   MetricsConfig  `yaml:"metrics"`

	// Workers is the number of concurrent header checkers; zero selects
	// one per CPU.
	Workers          int `yaml:"workers"`
	CheckedCacheSize int `yaml:"checked_cache_size"`
}

type MetricsConfig struct {
	Enable   bool          `yaml:"enable"`
	Addr     string        `yaml:"addr"`
	Route    string        `yaml:"route"`
	Interval time.Duration `yaml:"interval"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Net:       string(chaincfg.MainNet),
		DataDir:   defaultDataDirname,
		DbType:    defaultDbType,
		LogLevel:  defaultLogLevel,
		LogConfig: corelog.Config{}.Default(),
		Metrics: MetricsConfig{
			Enable:   false,
			Addr:     defaultMetricsAddr,
			Route:    "/metrics",
			Interval: 10 * time.Second,
		},
		Workers:          runtime.NumCPU(),
		CheckedCacheSize: chaindata.DefaultCheckedCacheSize,
	}
}

// Load reads the yaml file at path over the defaults and validates the
// result.
func Load(path string) (Config, error) {
	cfg := Default()

	rawFile, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "unable to read configuration")
	}
	if err = yaml.Unmarshal(rawFile, &cfg); err != nil {
		return cfg, errors.Wrap(err, "unable to decode configuration")
	}

	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.LogConfig.Directory = cleanAndExpandPath(cfg.LogConfig.Directory)
	return cfg, cfg.Validate()
}

// Save writes cfg to path as yaml.
func (cfg Config) Save(path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "unable to encode configuration")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0600)
}

// Validate checks the values a file or flag can get wrong.
func (cfg Config) Validate() error {
	if _, err := chaincfg.ParamsFor(chaincfg.NetName(cfg.Net)); err != nil {
		return err
	}
	if !validDBType(cfg.DbType) {
		return errors.Errorf("invalid db_type %q, supported: %s",
			cfg.DbType, strings.Join(headerdb.SupportedDrivers(), ", "))
	}
	if _, err := corelog.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	if cfg.Workers < 0 {
		return errors.Errorf("workers must not be negative: %d", cfg.Workers)
	}
	if cfg.CheckedCacheSize < 0 {
		return errors.Errorf("checked_cache_size must not be negative: %d", cfg.CheckedCacheSize)
	}
	if cfg.Metrics.Enable && cfg.Metrics.Addr == "" {
		return errors.New("metrics enabled without addr")
	}
	return nil
}

// NetParams returns the parameters of the configured network.
func (cfg Config) NetParams() (*chaincfg.Params, error) {
	return chaincfg.ParamsFor(chaincfg.NetName(cfg.Net))
}

// DBPath is where the header store of the configured network lives.
func (cfg Config) DBPath() string {
	return filepath.Join(cfg.DataDir, cfg.Net, "headers_"+cfg.DbType)
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	if path == "" {
		return path
	}
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			path = strings.Replace(path, "~", home, 1)
		}
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

func validDBType(dbType string) bool {
	for _, knownType := range headerdb.SupportedDrivers() {
		if dbType == knownType {
			return true
		}
	}
	return false
}
