// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/cdntrace/pkg/collector/metrics"
	"gopkg.in/yaml.v3"
)

func validConfig() Config {
	return Config{
		Connection: ConnectionWifi,
		IPInfo:     IPInfoConfig{URL: "https://ipinfo.io"},
		Discovery:  DiscoveryConfig{URL: "https://jsonip.com"},
		Output:     OutputConfig{Dir: ".", Report: "results.txt"},
		Scamper:    ScamperConfig{Binary: "./scamper"},
		Resolver:   ResolverConfig{Binary: "youtube-dl"},
		Telemetry:  metrics.Config{Exporter: metrics.NOOP},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr []error
		wantMsg string
	}{
		{name: "valid wifi", modify: func(*Config) {}},
		{name: "valid 4g", modify: func(c *Config) { c.Connection = Connection4G }},
		{name: "empty ipinfo key is allowed", modify: func(c *Config) { c.IPInfo.Key = "" }},
		{name: "nameserver", modify: func(c *Config) { c.Resolver.Nameserver = "1.1.1.1" }},
		{name: "nameserver with port", modify: func(c *Config) { c.Resolver.Nameserver = "[2606:4700:4700::1111]:53" }},
		{
			name:    "unknown connection",
			modify:  func(c *Config) { c.Connection = "ethernet" },
			wantErr: []error{ErrInvalidConnection},
		},
		{
			name:    "missing connection",
			modify:  func(c *Config) { c.Connection = "" },
			wantErr: []error{ErrInvalidConnection},
		},
		{
			name:    "connection is case sensitive",
			modify:  func(c *Config) { c.Connection = "WIFI" },
			wantErr: []error{ErrInvalidConnection},
		},
		{
			name:    "invalid urls",
			modify:  func(c *Config) { c.IPInfo.URL = "ipinfo.io"; c.Discovery.URL = "ftp://jsonip.com" },
			wantErr: []error{ErrInvalidURL},
		},
		{
			name:    "missing binaries",
			modify:  func(c *Config) { c.Scamper.Binary = ""; c.Resolver.Binary = "" },
			wantErr: []error{ErrMissingBinary},
		},
		{
			name:    "invalid nameserver",
			modify:  func(c *Config) { c.Resolver.Nameserver = "dns://1.1.1.1" },
			wantErr: []error{ErrInvalidNameserver},
		},
		{
			name:    "negative timeout",
			modify:  func(c *Config) { c.HTTPTimeout = -time.Second },
			wantErr: []error{ErrInvalidHTTPTimeout},
		},
		{
			name:    "empty report",
			modify:  func(c *Config) { c.Output.Report = "" },
			wantErr: []error{ErrInvalidOutput},
		},
		{
			name: "all errors are joined",
			modify: func(c *Config) {
				c.Connection = "lte"
				c.Scamper.Binary = ""
				c.HTTPTimeout = -1
			},
			wantErr: []error{ErrInvalidConnection, ErrMissingBinary, ErrInvalidHTTPTimeout},
		},
		{
			name:    "invalid telemetry",
			modify:  func(c *Config) { c.Telemetry.Exporter = metrics.GRPC },
			wantMsg: "url is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.modify(&c)
			err := c.Validate(context.Background())

			if tt.wantMsg != "" {
				assert.ErrorContains(t, err, tt.wantMsg)
				return
			}
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestConfig_YAML(t *testing.T) {
	const doc = `
connection: 4g
ipinfo:
  key: s3cr3t
  url: https://ipinfo.io
discovery:
  url: https://jsonip.com
output:
  dir: /var/lib/cdntrace
  report: results.txt
scamper:
  binary: /usr/local/bin/scamper
resolver:
  binary: yt-dlp
  nameserver: 9.9.9.9
httpTimeout: 10s
telemetry:
  exporter: grpc
  url: https://otel.example.com:4317
  tls:
    enabled: true
  metricsFile: /var/lib/node_exporter/cdntrace.prom
`
	var got Config
	require.NoError(t, yaml.Unmarshal([]byte(doc), &got))

	want := Config{
		Connection:  Connection4G,
		IPInfo:      IPInfoConfig{Key: "s3cr3t", URL: "https://ipinfo.io"},
		Discovery:   DiscoveryConfig{URL: "https://jsonip.com"},
		Output:      OutputConfig{Dir: "/var/lib/cdntrace", Report: "results.txt"},
		Scamper:     ScamperConfig{Binary: "/usr/local/bin/scamper"},
		Resolver:    ResolverConfig{Binary: "yt-dlp", Nameserver: "9.9.9.9"},
		HTTPTimeout: 10 * time.Second,
		Telemetry: metrics.Config{
			Exporter:    metrics.GRPC,
			Url:         "https://otel.example.com:4317",
			TLS:         metrics.TLSConfig{Enabled: true},
			MetricsFile: "/var/lib/node_exporter/cdntrace.prom",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("yaml.Unmarshal() mismatch (-want +got):\n%s", diff)
	}
	assert.NoError(t, got.Validate(context.Background()))
}

func TestOutputConfig_Path(t *testing.T) {
	c := OutputConfig{Dir: "/var/lib/cdntrace", Report: "results.txt"}
	assert.Equal(t, "/var/lib/cdntrace/results.txt", c.ReportPath())
	assert.Equal(t, "/var/lib/cdntrace/scamper-www.youtube.com-wifi.json", c.Path("scamper-www.youtube.com-wifi.json"))
	assert.Equal(t, "/tmp/results.txt", c.Path("/tmp/results.txt"))

	rel := OutputConfig{Dir: ".", Report: "results.txt"}
	assert.Equal(t, "results.txt", rel.ReportPath())
}
