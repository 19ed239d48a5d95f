// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"gitlab.com/jaxnet/auxpow/config"
	"gitlab.com/jaxnet/auxpow/corelog"
	"gitlab.com/jaxnet/auxpow/database/headerdb"
	"gitlab.com/jaxnet/auxpow/node/chaindata"
	"gitlab.com/jaxnet/auxpow/types/chaincfg"
)

func main() {
	app := &App{}
	if err := app.CLI().Run(os.Args); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

// App carries the state shared by all commands.
type App struct {
	config config.Config
	params *chaincfg.Params
	logger zerolog.Logger
}

// CLI assembles the command tree.
func (app *App) CLI() *cli.App {
	return &cli.App{
		Name:   "auxpowctl",
		Usage:  "inspect, build and validate merge-mined block headers",
		Flags:  app.InitFlags(),
		Before: app.InitCfg,
		Commands: []*cli.Command{
			{
				Name:      "decode-header",
				Usage:     "decode a hex encoded block header",
				ArgsUsage: "<header-hex>",
				Flags:     app.DecodeHeaderFlags(),
				Action:    app.DecodeHeaderCmd,
			},
			{
				Name:      "check-header",
				Usage:     "run the proof-of-work rules on a hex encoded header",
				ArgsUsage: "<header-hex>",
				Flags:     app.CheckHeaderFlags(),
				Action:    app.CheckHeaderCmd,
			},
			{
				Name:      "mine-auxpow",
				Usage:     "merge-mine a plain header with a minimal parent block",
				ArgsUsage: "[header-hex]",
				Flags:     app.MineAuxPowFlags(),
				Action:    app.MineAuxPowCmd,
			},
			{
				Name:   "import-headers",
				Usage:  "validate headers from a file and store them",
				Flags:  app.ImportHeadersFlags(),
				Action: app.ImportHeadersCmd,
			},
			{
				Name:   "locator",
				Usage:  "print the block locator of the stored chain",
				Flags:  app.LocatorFlags(),
				Action: app.LocatorCmd,
			},
			{
				Name:   "net-info",
				Usage:  "print the merge-mining registration and pow limits of a network",
				Flags:  app.NetInfoFlags(),
				Action: app.NetInfoCmd,
			},
			{
				Name:   "export-csv",
				Usage:  "export stored headers to a CSV file",
				Flags:  app.ExportCSVFlags(),
				Action: app.ExportCSVCmd,
			},
		},
	}
}

func (app *App) InitFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   "",
			EnvVars: []string{"AUXPOW_CONFIG"},
			Usage:   "path to yaml configuration, defaults are used when empty",
		},
		&cli.StringFlag{
			Name:    "net",
			Aliases: []string{"n"},
			EnvVars: []string{"AUXPOW_NET"},
			Usage:   "network: mainnet, testnet or regtest; overrides the config file",
		},
		&cli.StringFlag{
			Name:    "data-dir",
			EnvVars: []string{"AUXPOW_DATA_DIR"},
			Usage:   "directory of the header store; overrides the config file",
		},
		&cli.StringFlag{
			Name:  "db-type",
			Usage: "header store backend: leveldb, badger or memory; overrides the config file",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "trace, debug, info, warn or error; overrides the config file",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "concurrent header checkers; overrides the config file",
		},
		&cli.StringFlag{
			Name:  "metrics-addr",
			Usage: "serve prometheus metrics on this address while importing",
		},
	}
}

func (app *App) InitCfg(c *cli.Context) error {
	var err error
	app.config = config.Default()
	if path := c.String("config"); path != "" {
		app.config, err = config.Load(path)
		if err != nil {
			return cli.Exit(err, 1)
		}
	}

	if v := c.String("net"); v != "" {
		app.config.Net = v
	}
	if v := c.String("data-dir"); v != "" {
		app.config.DataDir = v
	}
	if v := c.String("db-type"); v != "" {
		app.config.DbType = v
	}
	if v := c.String("log-level"); v != "" {
		app.config.LogLevel = v
	}
	if c.IsSet("workers") {
		app.config.Workers = c.Int("workers")
	}
	if v := c.String("metrics-addr"); v != "" {
		app.config.Metrics.Enable = true
		app.config.Metrics.Addr = v
	}

	if err = app.config.Validate(); err != nil {
		return cli.Exit(err, 1)
	}
	if app.params, err = app.config.NetParams(); err != nil {
		return cli.Exit(err, 1)
	}

	level, _ := corelog.ParseLevel(app.config.LogLevel)
	app.logger = corelog.New("auxpowctl", level, app.config.LogConfig).
		With().Str("net", app.config.Net).Logger()
	chaindata.UseLogger(app.logger.With().Str("subsystem", "chaindata").Logger())
	headerdb.UseLogger(app.logger.With().Str("subsystem", "headerdb").Logger())
	return nil
}

func (app *App) openStore() (*headerdb.Store, error) {
	store, err := headerdb.Open(app.config.DbType, app.config.DBPath())
	if err != nil {
		return nil, cli.Exit(err, 1)
	}
	return store, nil
}

func (app *App) newValidator(observer chaindata.Observer) *chaindata.HeaderValidator {
	cache := chaindata.NewCheckedCache(app.config.CheckedCacheSize)
	return chaindata.NewHeaderValidator(app.params, nil, cache, observer)
}
