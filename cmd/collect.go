// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/telekom/cdntrace/internal/helper"
	"github.com/telekom/cdntrace/internal/logger"
	"github.com/telekom/cdntrace/pkg/collector"
	"github.com/telekom/cdntrace/pkg/collector/metrics"
	"github.com/telekom/cdntrace/pkg/config"
	"github.com/telekom/cdntrace/pkg/geo"
	"github.com/telekom/cdntrace/pkg/media"
	"github.com/telekom/cdntrace/pkg/publicip"
)

var (
	// requirePrivileged is replaced in tests
	requirePrivileged = helper.RequirePrivileged
	// runCollector is replaced in tests
	runCollector = func(ctx context.Context, cfg *config.Config, runID string) error {
		return collector.New(cfg, collector.WithRunID(runID)).Run(ctx)
	}
)

// NewCmdCollect creates a new collect command
func NewCmdCollect() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Trace the video CDN targets and append the results",
		Long: "Resolves the delivery host of every video target, traces the path to it with scamper,\n" +
			"redacts the own public ip and appends the annotated hops to the report.\n" +
			"Must be run as root.",
		Example: "  sudo cdntrace collect --connection wifi --ipinfo-key <key>",
		RunE:    run(),
	}

	connections := make([]string, 0, len(config.Connections()))
	for _, c := range config.Connections() {
		connections = append(connections, c.String())
	}

	NewFlag("connection", "connection").String(cmd, "", "the network the run is made from, one of: "+strings.Join(connections, ", "))
	NewFlag("ipinfo-key", "ipinfo.key").String(cmd, "", "the ipinfo.io api token")
	NewFlag("ipinfo-url", "ipinfo.url").String(cmd, geo.DefaultURL, "the base url of the ipinfo api")
	NewFlag("ip-discovery-url", "discovery.url").String(cmd, publicip.DefaultURL, "the url of the jsonip compatible public ip discovery")
	NewFlag("output-dir", "output.dir").String(cmd, ".", "the directory the result files are written to")
	NewFlag("report", "output.report").String(cmd, "results.txt", "the name of the text report the results are appended to")
	NewFlag("scamper", "scamper.binary").String(cmd, "./scamper", "the path of the scamper binary")
	NewFlag("resolver-bin", "resolver.binary").String(cmd, media.DefaultBinary, "the youtube-dl compatible binary resolving the video urls")
	NewFlag("nameserver", "resolver.nameserver").String(cmd, "", "the nameserver to resolve the delivery hosts with, the system resolver if empty")
	NewFlag("http-timeout", "httpTimeout").Duration(cmd, 0, "the timeout of every http request, 0 for none")
	NewFlag("tracing.exporter", "telemetry.exporter").String(cmd, metrics.NOOP.String(), "the span exporter, one of: noop, stdout, http, grpc")
	NewFlag("tracing.url", "telemetry.url").String(cmd, "", "the url of the otlp collector")
	NewFlag("tracing.token", "telemetry.token").String(cmd, "", "the bearer token of the otlp collector")
	NewFlag("tracing.tls", "telemetry.tls.enabled").Bool(cmd, false, "use tls to connect to the otlp collector")
	NewFlag("tracing.tls.cert", "telemetry.tls.certPath").String(cmd, "", "the path of a custom ca certificate of the otlp collector")
	NewFlag("metrics-file", "telemetry.metricsFile").String(cmd, "", "the path the prometheus metrics are written to, nothing is written if empty")

	return cmd
}

// run is the entry point to start the collection
func run() func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		runID := uuid.NewString()
		ctx, cancel := signal.NotifyContext(logger.WithRunID(cmd.Context(), runID), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		log := logger.FromContext(ctx)

		if err := requirePrivileged(); err != nil {
			log.ErrorContext(ctx, "Missing privileges", "error", err)
			return err
		}

		cfg := &config.Config{}
		if err := viper.Unmarshal(cfg); err != nil {
			log.ErrorContext(ctx, "Failed to parse config", "error", err)
			return fmt.Errorf("failed to parse config: %w", err)
		}

		if err := cfg.Validate(ctx); err != nil {
			return fmt.Errorf("error while validating the config: %w", err)
		}

		return runCollector(ctx, cfg, runID)
	}
}
