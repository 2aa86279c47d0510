// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// collectorMetrics defines the metric collectors of a run
type collectorMetrics struct {
	hops     *prometheus.GaugeVec
	duration *prometheus.GaugeVec
	failures *prometheus.CounterVec
}

// newMetrics initializes metric collectors of a run
func newMetrics() collectorMetrics {
	return collectorMetrics{
		hops: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cdntrace_hops",
				Help: "Number of hops to the delivery host of the target.",
			},
			[]string{"target", "connection"},
		),
		duration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cdntrace_target_duration_seconds",
				Help: "Time it took to trace and annotate the target in seconds.",
			},
			[]string{"target", "connection"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cdntrace_lookup_failures_total",
				Help: "Total number of failed geolocation lookups of the target.",
			},
			[]string{"target", "connection"},
		),
	}
}

// GetCollectors returns all metric collectors
func (m *collectorMetrics) GetCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.hops,
		m.duration,
		m.failures,
	}
}

// Set sets the metrics of one target
func (m *collectorMetrics) Set(stem, connection string, hops, failures int, d time.Duration) {
	m.hops.WithLabelValues(stem, connection).Set(float64(hops))
	m.duration.WithLabelValues(stem, connection).Set(d.Seconds())
	m.failures.WithLabelValues(stem, connection).Add(float64(failures))
}
