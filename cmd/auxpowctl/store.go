// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"gitlab.com/jaxnet/auxpow/database/headerdb"
	"gitlab.com/jaxnet/auxpow/node/metrics"
	"gitlab.com/jaxnet/auxpow/types/wire"
)

func (app *App) ImportHeadersFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Aliases:  []string{"f"},
			Usage:    "file with one hex encoded header per line, - for stdin",
			Required: true,
		},
		&cli.Int64Flag{
			Name:  "start-height",
			Usage: "height of the first header; defaults to the height after the stored tip",
			Value: -1,
		},
	}
}

func (app *App) ImportHeadersCmd(c *cli.Context) error {
	in, err := openInput(c.String("file"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	headers, err := readHeaders(in)
	in.Close()
	if err != nil {
		return cli.Exit(err, 1)
	}

	store, err := app.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	startHeight := int32(c.Int64("start-height"))
	if startHeight < 0 {
		startHeight = 0
		if _, tip, err := store.BestTip(); err == nil {
			startHeight = tip + 1
		} else if !errors.Is(err, headerdb.ErrNotFound) {
			return cli.Exit(err, 1)
		}
	}

	reg := prometheus.NewRegistry()
	auxMetrics, err := metrics.NewAuxPowMetrics(reg, app.config.Net)
	if err != nil {
		return cli.Exit(err, 1)
	}
	manager := metrics.Metrics(c.Context, app.config.Metrics.Interval, reg)
	manager.Add(metrics.ChainMetrics(store, reg, app.config.Net, app.params.AuxpowChainID, app.logger))
	if app.config.Metrics.Enable {
		go func() {
			err := manager.Listen(c.Context, app.config.Metrics.Route, app.config.Metrics.Addr)
			if err != nil {
				app.logger.Error().Err(err).Msg("metrics listener stopped")
			}
		}()
	}

	workers := app.config.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	start := time.Now()
	validator := app.newValidator(auxMetrics)
	if err := validator.CheckHeadersConcurrently(c.Context, headers, startHeight, workers); err != nil {
		return cli.Exit(err, 2)
	}

	for i, header := range headers {
		if err := store.PutHeader(header, startHeight+int32(i)); err != nil {
			return cli.Exit(err, 1)
		}
	}
	manager.ReadAll()

	app.logger.Info().Int("headers", len(headers)).Int32("start_height", startHeight).
		Int("workers", workers).Dur("elapsed", time.Since(start)).Msg("headers imported")
	fmt.Fprintf(c.App.Writer, "imported %d headers at heights %d..%d\n",
		len(headers), startHeight, startHeight+int32(len(headers))-1)
	return nil
}

func (app *App) LocatorFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:  "height",
			Usage: "height to start from; defaults to the stored tip",
			Value: -1,
		},
	}
}

func (app *App) LocatorCmd(c *cli.Context) error {
	store, err := app.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	var loc *wire.BlockLocator
	if height := int32(c.Int64("height")); height >= 0 {
		loc, err = store.BlockLocator(height)
	} else {
		loc, err = store.TipLocator()
	}
	if err != nil {
		return cli.Exit(err, 1)
	}
	if loc.IsNull() {
		return cli.Exit("header store is empty", 1)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "locator %s (%d hashes)\n", loc.Hash(), len(loc.Hashes))
	for _, hash := range loc.Hashes {
		fmt.Fprintln(w, hash)
	}
	return nil
}
