// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"context"
	"io/ioutil"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/jaxnet/auxpow/node/chaindata"
	"gitlab.com/jaxnet/auxpow/types/wire"
)

type countingReader struct{ n int32 }

func (r *countingReader) Read() { atomic.AddInt32(&r.n, 1) }

type staticStats map[string]float64

func (s staticStats) Stats() map[string]float64 { return s }

func TestManagerPollsReaders(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &countingReader{}
	m := Metrics(ctx, 5*time.Millisecond, prometheus.NewRegistry())
	m.Add(reader)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&reader.n) >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestManagerReadAllWithoutPolling(t *testing.T) {
	reader := &countingReader{}
	m := Metrics(context.Background(), 0, prometheus.NewRegistry())
	m.Add(reader, reader)
	m.ReadAll()
	assert.EqualValues(t, 2, atomic.LoadInt32(&reader.n))
}

func TestChainMetricsGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	stats := staticStats{"best_height": 42, "headers": 43}
	cm := ChainMetrics(stats, reg, "regtest", wire.AuxpowChainID, zerolog.Nop())

	cm.Read()
	stats["best_height"] = 44
	cm.Read()

	families, err := reg.Gather()
	require.NoError(t, err)
	values := make(map[string]float64)
	for _, f := range families {
		require.Len(t, f.GetMetric(), 1)
		metric := f.GetMetric()[0]
		values[f.GetName()] = metric.GetGauge().GetValue()
		for _, l := range metric.GetLabel() {
			if l.GetName() == "chain_id" {
				assert.Equal(t, "205d", l.GetValue())
			}
		}
	}
	assert.Equal(t, map[string]float64{
		"jax_auxpow_chain_best_height": 44,
		"jax_auxpow_chain_headers":     43,
	}, values)
}

func TestAuxPowMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewAuxPowMetrics(reg, "regtest")
	require.NoError(t, err)

	badAux := chaindata.RuleError{
		ErrorCode:   chaindata.ErrBadAuxPow,
		Description: "bad",
		Err:         wire.AuxPowError{Code: wire.ErrWrongChainIndex},
	}

	m.ObserveHeader(wire.PlainHeader, nil, time.Millisecond)
	m.ObserveHeader(wire.MergeMinedHeader, nil, time.Millisecond)
	m.ObserveHeader(wire.MergeMinedHeader, badAux, time.Millisecond)
	m.ObserveHeader(wire.MergeMinedHeader, badAux, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.headers.WithLabelValues("plain", resultAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.headers.WithLabelValues("merge-mined", resultAccepted)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.headers.WithLabelValues("merge-mined", resultRejected)))
	assert.Equal(t, 2.0, testutil.ToFloat64(
		m.rejections.WithLabelValues("ErrBadAuxPow", "ErrWrongChainIndex")))

	_, err = NewAuxPowMetrics(reg, "regtest")
	assert.Error(t, err, "second registration must collide")
}

func TestRejectionLabels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		rule string
		code string
	}{
		{
			name: "rule only",
			err:  chaindata.NewRuleError(chaindata.ErrHighHash, "high"),
			rule: "ErrHighHash",
			code: "none",
		},
		{
			name: "wrapped auxpow failure",
			err: errors.Wrap(chaindata.RuleError{
				ErrorCode: chaindata.ErrBadAuxPow,
				Err:       wire.AuxPowError{Code: wire.ErrChainRootMismatch},
			}, "header at height 7"),
			rule: "ErrBadAuxPow",
			code: "ErrChainRootMismatch",
		},
		{
			name: "malformed proof",
			err: chaindata.RuleError{
				ErrorCode: chaindata.ErrBadAuxPow,
				Err:       wire.Error("AuxPow.Check", "negative chain index -1"),
			},
			rule: "ErrBadAuxPow",
			code: "malformed",
		},
		{
			name: "unrelated",
			err:  errors.New("disk full"),
			rule: "other",
			code: "none",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rule, code := RejectionLabels(test.err)
			assert.Equal(t, test.rule, rule)
			assert.Equal(t, test.code, code)
		})
	}
}

func TestHandlerServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	am, err := NewAuxPowMetrics(reg, "testnet")
	require.NoError(t, err)
	am.ObserveHeader(wire.PlainHeader, nil, 0)

	srv := httptest.NewServer(Metrics(context.Background(), 0, reg).Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(body),
		`jax_auxpow_validation_headers_total{kind="plain",net_name="testnet",result="accepted"} 1`))
}

func TestListenStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := Metrics(ctx, 0, prometheus.NewRegistry())

	done := make(chan error, 1)
	go func() { done <- m.Listen(ctx, DefaultRoute, "127.0.0.1:0") }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop")
	}
}
