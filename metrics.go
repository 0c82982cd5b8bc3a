// Copyright 2024 The oocstore Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package oocstore

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the storage_* Prometheus collectors, named after the
// convention cuemby-warren's bbolt-backed storage layer documents
// (storage_operations_total, storage_errors_total, storage_tx_duration_seconds,
// storage_db_size_bytes).
type Metrics struct {
	operations *prometheus.CounterVec
	errors     *prometheus.CounterVec
	txDuration *prometheus.HistogramVec
	dbSize     prometheus.Gauge
}

// NewMetrics constructs a fresh, unregistered Metrics. Register it with
// whatever prometheus.Registerer the host process uses; oocstore never
// registers against the global default registry itself, so that opening
// more than one Store in a process doesn't panic on duplicate registration.
func NewMetrics() *Metrics {
	return &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storage_operations_total",
			Help: "Total number of oocstore operations, by kind.",
		}, []string{"op"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storage_errors_total",
			Help: "Total number of oocstore operations that returned an error, by kind.",
		}, []string{"op"}),
		txDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storage_tx_duration_seconds",
			Help:    "KV transaction duration, by kind (read or write).",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		dbSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storage_db_size_bytes",
			Help: "Current on-disk size of the store file.",
		}),
	}
}

// Collectors returns every collector Metrics owns, for a caller that wants
// to register them itself (prometheus.Registerer.MustRegister(m.Collectors()...)).
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.operations, m.errors, m.txDuration, m.dbSize}
}

func (m *Metrics) observe(op, kind string, start time.Time, err error) {
	m.operations.WithLabelValues(op).Inc()
	if err != nil {
		m.errors.WithLabelValues(op).Inc()
	}
	m.txDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func (m *Metrics) setDBSize(n int64) {
	m.dbSize.Set(float64(n))
}
