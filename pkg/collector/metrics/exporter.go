// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc/credentials"
)

// Exporter is the type of the trace exporter
type Exporter string

const (
	// HTTP is the otlp exporter using http
	HTTP Exporter = "http"
	// GRPC is the otlp exporter using grpc
	GRPC Exporter = "grpc"
	// STDOUT is the exporter printing the spans.
	// The spans are written to stderr so they do not mix with the command output.
	STDOUT Exporter = "stdout"
	// NOOP drops all spans
	NOOP Exporter = "noop"
)

func (e Exporter) String() string {
	return string(e)
}

// Validate checks if the exporter is supported. An empty exporter is treated as [NOOP].
func (e Exporter) Validate() error {
	switch e {
	case HTTP, GRPC, STDOUT, NOOP, "":
		return nil
	default:
		return fmt.Errorf("unsupported exporter type: %q", e)
	}
}

// IsExporting returns true if the exporter sends spans to a collector
func (e Exporter) IsExporting() bool {
	return e == HTTP || e == GRPC
}

// Create creates a new span exporter for the exporter type
func (e Exporter) Create(ctx context.Context, config *Config) (sdktrace.SpanExporter, error) {
	switch e {
	case HTTP:
		return newHTTPExporter(ctx, config)
	case GRPC:
		return newGRPCExporter(ctx, config)
	case STDOUT:
		return stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
	case NOOP, "":
		return &noopExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported exporter type: %q", e)
	}
}

func newHTTPExporter(ctx context.Context, config *Config) (sdktrace.SpanExporter, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(config.Url),
		otlptracehttp.WithHeaders(headers(config)),
	}
	if !config.TLS.Enabled {
		opts = append(opts, otlptracehttp.WithInsecure())
	} else {
		tlsCfg, err := tlsConfig(config.TLS)
		if err != nil {
			return nil, err
		}
		opts = append(opts, otlptracehttp.WithTLSClientConfig(tlsCfg))
	}
	return otlptracehttp.New(ctx, opts...)
}

func newGRPCExporter(ctx context.Context, config *Config) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpointURL(config.Url),
		otlptracegrpc.WithHeaders(headers(config)),
	}
	if !config.TLS.Enabled {
		opts = append(opts, otlptracegrpc.WithInsecure())
	} else {
		tlsCfg, err := tlsConfig(config.TLS)
		if err != nil {
			return nil, err
		}
		opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewTLS(tlsCfg)))
	}
	return otlptracegrpc.New(ctx, opts...)
}

func headers(config *Config) map[string]string {
	if config.Token == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + config.Token}
}

// tlsConfig returns the tls configuration trusting the certificate at the configured path
// in addition to the system pool.
func tlsConfig(cfg TLSConfig) (*tls.Config, error) {
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if cfg.CertPath == "" {
		return tlsCfg, nil
	}

	pem, err := os.ReadFile(cfg.CertPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate: %w", err)
	}
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("failed to append certificate %q to pool", cfg.CertPath)
	}
	tlsCfg.RootCAs = pool
	return tlsCfg, nil
}

var _ sdktrace.SpanExporter = (*noopExporter)(nil)

type noopExporter struct{}

func (*noopExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error {
	return nil
}

func (*noopExporter) Shutdown(context.Context) error {
	return nil
}
