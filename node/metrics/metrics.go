// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultRoute is where the metrics handler is mounted.
const DefaultRoute = "/metrics"

//IMetric metric reader
type IMetric interface {
	Read()
}

//IMetricManager metric manager
type IMetricManager interface {
	Add(metrics ...IMetric)
	ReadAll()
	Handler() http.Handler
	Listen(ctx context.Context, route, addr string) error
}

type metricsManager struct {
	sync.Mutex
	metrics  []IMetric
	interval time.Duration
	gatherer prometheus.Gatherer
}

// Metrics creates a manager polling the added readers every interval until
// ctx is done. A zero interval disables polling; ReadAll still works.
func Metrics(ctx context.Context, interval time.Duration, gatherer prometheus.Gatherer) IMetricManager {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	res := &metricsManager{
		interval: interval,
		gatherer: gatherer,
	}

	if interval > 0 {
		go res.collector(ctx)
	}
	return res
}

func (m *metricsManager) Add(metrics ...IMetric) {
	m.Lock()
	m.metrics = append(m.metrics, metrics...)
	m.Unlock()
}

func (m *metricsManager) ReadAll() {
	m.Lock()
	readers := make([]IMetric, len(m.metrics))
	copy(readers, m.metrics)
	m.Unlock()

	for _, v := range readers {
		v.Read()
	}
}

func (m *metricsManager) collector(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.ReadAll()
		}
	}
}

func (m *metricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Listen serves the metrics on addr until ctx is done.
func (m *metricsManager) Listen(ctx context.Context, route, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(route, m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
