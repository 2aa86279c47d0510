// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/telekom/cdntrace/internal/logger"
)

// Config holds the configuration for OpenTelemetry and the metrics textfile
type Config struct {
	// Exporter is the otlp exporter used to export the traces
	Exporter Exporter `yaml:"exporter" mapstructure:"exporter"`
	// Url is the Url of the collector to which the traces are exported
	Url string `yaml:"url" mapstructure:"url"`
	// Token is the token used to authenticate with the collector
	Token string `yaml:"token" mapstructure:"token"`
	// TLS holds the tls configuration
	TLS TLSConfig `yaml:"tls" mapstructure:"tls"`
	// MetricsFile is the path the prometheus metrics are written to after a run.
	// Nothing is written if it is empty.
	MetricsFile string `yaml:"metricsFile" mapstructure:"metricsFile"`
}

type TLSConfig struct {
	// Enabled is a flag to enable or disable the tls
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// CertPath is the path to the tls certificate file.
	// This is only required if the otel backend uses custom TLS certificates.
	CertPath string `yaml:"certPath" mapstructure:"certPath"`
}

// ErrInvalidMetricsFile is returned when the metrics file is a directory path
var ErrInvalidMetricsFile = errors.New("invalid metrics file")

func (c *Config) Validate(ctx context.Context) error {
	log := logger.FromContext(ctx)
	if err := c.Exporter.Validate(); err != nil {
		log.ErrorContext(ctx, "Invalid exporter", "error", err)
		return err
	}

	if c.Exporter.IsExporting() && c.Url == "" {
		log.ErrorContext(ctx, "Url is required for otlp exporter", "exporter", c.Exporter)
		return fmt.Errorf("url is required for otlp exporter %q", c.Exporter)
	}

	if c.MetricsFile != "" {
		if base := filepath.Base(c.MetricsFile); base == "." || base == string(filepath.Separator) {
			log.ErrorContext(ctx, "Metrics file must be a file path", "metricsFile", c.MetricsFile)
			return fmt.Errorf("%w: %q", ErrInvalidMetricsFile, c.MetricsFile)
		}
	}
	return nil
}
