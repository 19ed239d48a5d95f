// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// ChainStats is a source of named chain figures, e.g. the header store.
type ChainStats interface {
	Stats() map[string]float64
}

type chainMetrics struct {
	sync.Mutex
	stats         ChainStats
	registerer    prometheus.Registerer
	logger        zerolog.Logger
	chainID       string
	netName       string
	metricsByName map[string]prometheus.Gauge
}

// ChainMetrics exposes every figure of stats as a jax_auxpow_chain_* gauge.
func ChainMetrics(stats ChainStats, reg prometheus.Registerer, netName string, chainID int32,
	logger zerolog.Logger) IMetric {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &chainMetrics{
		stats:         stats,
		registerer:    reg,
		logger:        logger.With().Str("ctx", "metrics").Str("net", netName).Logger(),
		chainID:       strconv.FormatInt(int64(chainID), 16),
		netName:       netName,
		metricsByName: make(map[string]prometheus.Gauge),
	}
}

func (s *chainMetrics) Read() {
	for name, value := range s.stats.Stats() {
		s.updateGauge(prometheus.BuildFQName(namespace, "chain", name), value)
	}
}

func (s *chainMetrics) updateGauge(name string, value float64) {
	s.Lock()
	defer s.Unlock()

	m, ok := s.metricsByName[name]
	if !ok {
		m = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: name,
			ConstLabels: map[string]string{
				"chain_id": s.chainID,
				"net_name": s.netName,
			},
		})
		if err := s.registerer.Register(m); err != nil {
			s.logger.Error().Err(err).Str("metric", name).Msg("can't register metric")
		}
		s.metricsByName[name] = m
	}
	m.Set(value)
}
