// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"gitlab.com/jaxnet/auxpow/node/chaindata"
	"gitlab.com/jaxnet/auxpow/types/wire"
)

const namespace = "jax_auxpow"

const (
	resultAccepted = "accepted"
	resultRejected = "rejected"
)

// AuxPowMetrics counts header validation outcomes. It satisfies
// chaindata.Observer.
type AuxPowMetrics struct {
	headers    *prometheus.CounterVec
	rejections *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewAuxPowMetrics creates the collectors and registers them with reg.
func NewAuxPowMetrics(reg prometheus.Registerer, netName string) (*AuxPowMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	labels := prometheus.Labels{"net_name": netName}

	m := &AuxPowMetrics{
		headers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        prometheus.BuildFQName(namespace, "validation", "headers_total"),
			Help:        "Validated headers by kind and result.",
			ConstLabels: labels,
		}, []string{"kind", "result"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        prometheus.BuildFQName(namespace, "validation", "rejections_total"),
			Help:        "Rejected headers by rule and auxpow failure code.",
			ConstLabels: labels,
		}, []string{"rule", "auxpow_code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        prometheus.BuildFQName(namespace, "validation", "duration_seconds"),
			Help:        "Time spent on the proof-of-work rules of one header.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{m.headers, m.rejections, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "can't register auxpow metrics")
		}
	}
	return m, nil
}

// ObserveHeader records one validation.
func (m *AuxPowMetrics) ObserveHeader(kind wire.HeaderKind, err error, elapsed time.Duration) {
	m.duration.WithLabelValues(kind.String()).Observe(elapsed.Seconds())
	if err == nil {
		m.headers.WithLabelValues(kind.String(), resultAccepted).Inc()
		return
	}

	m.headers.WithLabelValues(kind.String(), resultRejected).Inc()
	rule, code := RejectionLabels(err)
	m.rejections.WithLabelValues(rule, code).Inc()
}

// RejectionLabels names the chaindata rule and the auxpow failure behind
// err. Parts that do not apply are "none"; errors outside both taxonomies
// are "other".
func RejectionLabels(err error) (rule, code string) {
	rule, code = "none", "none"

	var rerr chaindata.RuleError
	if errors.As(err, &rerr) {
		rule = rerr.ErrorCode.String()
	}

	var aerr wire.AuxPowError
	switch {
	case errors.As(err, &aerr):
		code = aerr.Code.String()
	case errors.Is(err, wire.ErrMalformedEncoding):
		code = "malformed"
	}

	if rule == "none" && code == "none" {
		rule = "other"
	}
	return rule, code
}

var _ chaindata.Observer = (*AuxPowMetrics)(nil)
