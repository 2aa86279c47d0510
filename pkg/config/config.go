// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"path/filepath"
	"time"

	"github.com/telekom/cdntrace/pkg/collector/metrics"
)

// Connection labels the kind of network a run is made from.
type Connection string

const (
	// ConnectionWifi is a fixed line reached over wifi.
	ConnectionWifi Connection = "wifi"
	// Connection4G is a mobile network.
	Connection4G Connection = "4g"
)

func (c Connection) String() string {
	return string(c)
}

// Connections returns all valid connection labels.
func Connections() []Connection {
	return []Connection{ConnectionWifi, Connection4G}
}

// Validate checks that the connection is one of [Connections].
func (c Connection) Validate() error {
	for _, v := range Connections() {
		if c == v {
			return nil
		}
	}
	return ErrInvalidConnection
}

type Config struct {
	// Connection is the network the run is made from
	Connection Connection `yaml:"connection" mapstructure:"connection"`
	// IPInfo is the configuration of the geolocation api
	IPInfo IPInfoConfig `yaml:"ipinfo" mapstructure:"ipinfo"`
	// Discovery is the configuration of the public ip discovery
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	// Output is where the results are written to
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	// Scamper is the configuration of the traceroute prober
	Scamper ScamperConfig `yaml:"scamper" mapstructure:"scamper"`
	// Resolver is the configuration of the video url and dns resolution
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	// HTTPTimeout limits every http request. 0 means no limit.
	HTTPTimeout time.Duration `yaml:"httpTimeout" mapstructure:"httpTimeout"`
	// Telemetry is the configuration for the telemetry
	Telemetry metrics.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// IPInfoConfig is the configuration of the ipinfo api
type IPInfoConfig struct {
	// Key is the api token. It may be empty.
	Key string `yaml:"key" mapstructure:"key"`
	URL string `yaml:"url" mapstructure:"url"`
}

// DiscoveryConfig is the configuration of the public ip discovery service
type DiscoveryConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
}

// OutputConfig is the configuration of the result files
type OutputConfig struct {
	// Dir is the directory all files are written to
	Dir string `yaml:"dir" mapstructure:"dir"`
	// Report is the name of the shared text report
	Report string `yaml:"report" mapstructure:"report"`
}

// ScamperConfig is the configuration of the scamper binary
type ScamperConfig struct {
	Binary string `yaml:"binary" mapstructure:"binary"`
}

// ResolverConfig is the configuration of name and video url resolution
type ResolverConfig struct {
	// Binary is the youtube-dl compatible resolver
	Binary string `yaml:"binary" mapstructure:"binary"`
	// Nameserver is queried directly if set, the system resolver is used otherwise
	Nameserver string `yaml:"nameserver" mapstructure:"nameserver"`
}

// Path returns the path of a file in the output directory.
// Absolute names are returned unchanged.
func (c *OutputConfig) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Dir, name)
}

// ReportPath returns the path of the shared text report.
func (c *OutputConfig) ReportPath() string {
	return c.Path(c.Report)
}
