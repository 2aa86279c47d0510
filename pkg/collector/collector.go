// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/telekom/cdntrace/internal/logger"
	"github.com/telekom/cdntrace/internal/traceroute"
	"github.com/telekom/cdntrace/pkg/collector/metrics"
	"github.com/telekom/cdntrace/pkg/config"
	"github.com/telekom/cdntrace/pkg/dns"
	"github.com/telekom/cdntrace/pkg/geo"
	"github.com/telekom/cdntrace/pkg/media"
	"github.com/telekom/cdntrace/pkg/publicip"
	"github.com/telekom/cdntrace/pkg/report"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const shutdownTimeout = 30 * time.Second

// Collector traces the targets and writes the results.
type Collector struct {
	// config is the startup configuration
	config *config.Config
	// runID identifies the run in logs and metrics
	runID   string
	targets []Target

	media     media.Resolver
	dns       dns.Resolver
	tracer    traceroute.Client
	publicIP  publicip.Client
	geo       geo.Client
	annotator *report.Annotator

	metrics     metrics.Provider
	instruments collectorMetrics
}

// Option configures a [Collector].
type Option func(*Collector)

// WithTargets replaces the traced targets.
func WithTargets(targets ...Target) Option {
	return func(c *Collector) { c.targets = targets }
}

// WithRunID sets the run id.
func WithRunID(id string) Option {
	return func(c *Collector) { c.runID = id }
}

// WithMediaResolver replaces the video url resolver.
func WithMediaResolver(r media.Resolver) Option {
	return func(c *Collector) { c.media = r }
}

// WithDNSResolver replaces the address resolver.
func WithDNSResolver(r dns.Resolver) Option {
	return func(c *Collector) { c.dns = r }
}

// WithTraceClient replaces the traceroute client.
func WithTraceClient(tc traceroute.Client) Option {
	return func(c *Collector) { c.tracer = tc }
}

// WithPublicIPClient replaces the public ip discovery.
func WithPublicIPClient(p publicip.Client) Option {
	return func(c *Collector) { c.publicIP = p }
}

// WithGeoClient replaces the geolocation client. It is used as is, without a cache.
func WithGeoClient(g geo.Client) Option {
	return func(c *Collector) { c.geo = g }
}

// WithMetrics replaces the metrics provider.
func WithMetrics(m metrics.Provider) Option {
	return func(c *Collector) { c.metrics = m }
}

// New creates a new collector from the startup configuration.
// The collaborators are built from the configuration unless replaced by an option.
func New(cfg *config.Config, opts ...Option) *Collector {
	c := &Collector{
		config:      cfg,
		targets:     Targets(cfg.Connection, DefaultTargets...),
		instruments: newMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.runID == "" {
		c.runID = uuid.NewString()
	}
	if c.media == nil {
		c.media = media.NewResolver(cfg.Resolver.Binary)
	}
	if c.dns == nil {
		c.dns = dns.NewResolver(cfg.Resolver.Nameserver)
	}
	if c.tracer == nil {
		c.tracer = traceroute.NewClient(cfg.Scamper.Binary)
	}
	if c.publicIP == nil {
		c.publicIP = publicip.NewClient(cfg.Discovery.URL, cfg.HTTPTimeout)
	}
	if c.geo == nil {
		c.geo = geo.NewCachedClient(geo.NewClient(cfg.IPInfo.URL, cfg.IPInfo.Key, cfg.HTTPTimeout))
	}
	if c.metrics == nil {
		c.metrics = metrics.New(cfg.Telemetry)
	}
	c.annotator = report.NewAnnotator(c.geo)
	return c
}

// Run traces every target in order and stops at the first failing one.
// The metrics are written and the tracing is shut down before returning.
func (c *Collector) Run(ctx context.Context) (err error) {
	log := logger.FromContext(ctx)

	if err := c.metrics.InitTracing(ctx); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		err = errors.Join(err, c.metrics.Flush(sctx), c.metrics.Shutdown(sctx))
	}()

	registry := c.metrics.GetRegistry()
	for _, col := range c.instruments.GetCollectors() {
		if err := registry.Register(col); err != nil {
			log.WarnContext(ctx, "Failed to register metric collector", "error", err)
		}
	}
	if err := metrics.RegisterRunInfo(registry, c.runID, c.config.Connection.String()); err != nil {
		log.WarnContext(ctx, "Failed to register run info", "error", err)
	}

	log.InfoContext(ctx, "Starting collection", "targets", len(c.targets), "connection", c.config.Connection)
	for _, t := range c.targets {
		if err := c.runTarget(ctx, t); err != nil {
			return err
		}
	}
	log.InfoContext(ctx, "Collection finished", "report", c.config.Output.ReportPath())
	return nil
}

// runTarget resolves, probes, redacts, annotates and reports a single target.
func (c *Collector) runTarget(ctx context.Context, t Target) error {
	start := time.Now()
	ctx, sp := otel.Tracer("collector").Start(ctx, "runTarget", trace.WithAttributes(
		attribute.String("collector.target.url", t.URL),
		attribute.String("collector.target.connection", t.Connection.String()),
	))
	defer sp.End()

	stem, err := t.Stem()
	if err != nil {
		return fail(ctx, sp, err, t.URL, "invalid target")
	}
	log := logger.FromContext(ctx).With("target", stem)
	ctx = logger.IntoContext(ctx, log)
	sp.SetAttributes(attribute.String("collector.target.stem", stem))

	log.InfoContext(ctx, "Discovering CDN URL", "url", t.URL)
	m, err := c.media.Resolve(ctx, t.URL)
	if err != nil {
		return fail(ctx, sp, err, stem, "failed to discover CDN URL")
	}
	log.InfoContext(ctx, "Discovered CDN URL", "host", m.DeliveryURL.Host)

	log.InfoContext(ctx, "Looking up CDN IP")
	ip, err := dns.FirstAddress(ctx, c.dns, m.DeliveryURL.Hostname())
	if err != nil {
		return fail(ctx, sp, err, stem, "failed to look up CDN IP")
	}
	log.InfoContext(ctx, "Looked up CDN IP", "ip", ip)

	log.InfoContext(ctx, "Running scamper trace (may take a few minutes)")
	rawPath := c.config.Output.Path(rawFile(stem))
	if err = c.tracer.Run(ctx, traceroute.Target{Address: ip}, rawPath); err != nil {
		return fail(ctx, sp, err, stem, "failed to trace")
	}
	rec, err := traceroute.ParseFile(ctx, rawPath)
	if err != nil {
		return fail(ctx, sp, err, stem, "failed to parse trace")
	}
	traceroute.LogHops(ctx, rec)

	log.InfoContext(ctx, "Redacting source IPs")
	own, err := c.publicIP.Lookup(ctx)
	if err != nil {
		return fail(ctx, sp, err, stem, "failed to discover public IP")
	}
	rec, err = traceroute.Redact(rec, own)
	if err != nil {
		return fail(ctx, sp, err, stem, "failed to redact trace")
	}
	if err = traceroute.WriteFile(c.config.Output.Path(resultFile(stem)), rec); err != nil {
		return fail(ctx, sp, err, stem, "failed to write trace")
	}
	if err = traceroute.RemoveOutput(rawPath); err != nil {
		log.WarnContext(ctx, "Failed to remove scamper output", "path", rawPath, "error", err)
	}

	log.InfoContext(ctx, "Running lookup on traceroute")
	section := c.annotator.Annotate(ctx, stem, m.DeliveryURL.Host, rec)
	if err = c.appendReport(ctx, section); err != nil {
		return fail(ctx, sp, err, stem, "failed to append report")
	}

	c.instruments.Set(stem, t.Connection.String(), section.HopCount, section.Failures(), time.Since(start))
	log.InfoContext(ctx, "Target done", "hops", section.HopCount, "lookupFailures", section.Failures(), "duration", time.Since(start))
	return nil
}

// appendReport appends the section to the shared report file.
func (c *Collector) appendReport(ctx context.Context, s report.Section) (err error) {
	path := c.config.Output.ReportPath()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) // #nosec G302 G304 // the report is meant to be shared
	if err != nil {
		return fmt.Errorf("failed to open report: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return c.annotator.Write(ctx, f, s)
}

// fail records the error on the span and wraps it with the target.
func fail(ctx context.Context, sp trace.Span, err error, target, msg string) error {
	logger.FromContext(ctx).ErrorContext(ctx, msg, "error", err)
	sp.SetStatus(codes.Error, msg)
	sp.RecordError(err)
	return fmt.Errorf("%s: %s: %w", target, msg, err)
}
