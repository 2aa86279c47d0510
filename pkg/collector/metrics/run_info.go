// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	runInfoMetricName = "cdntrace_run_info"
	runInfoHelp       = "Metadata of a cdntrace run. Always 1."
)

// RegisterRunInfo registers the cdntrace_run_info info-style metric on the given registry.
// It sets the gauge to 1 with labels run_id, connection and version.
func RegisterRunInfo(registry prometheus.Registerer, runID, connection string) error {
	info := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: runInfoMetricName,
			Help: runInfoHelp,
		},
		[]string{"run_id", "connection", "version"},
	)
	info.WithLabelValues(runID, connection, version()).Set(1)
	return registry.Register(info)
}
