// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"

	"github.com/telekom/cdntrace/internal/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBinary is the resolver binary used when none is configured.
const DefaultBinary = "youtube-dl"

var _ Resolver = (*ytdlResolver)(nil)

// Media is a page together with the URL its video is delivered from.
type Media struct {
	// PageURL is the page the video is embedded in.
	PageURL *url.URL
	// DeliveryURL is the CDN URL of the video.
	DeliveryURL *url.URL
}

// Resolver resolves the delivery URL of a page.
//
//go:generate go tool moq -out resolver_moq.go . Resolver
type Resolver interface {
	// Resolve returns the media of the page.
	Resolve(ctx context.Context, pageURL string) (*Media, error)
}

// ytdlResolver runs youtube-dl (or a compatible fork) in simulation mode.
type ytdlResolver struct {
	binary string
	// output runs the binary and returns its stdout and stderr.
	output func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// NewResolver returns a [Resolver] running the given youtube-dl compatible binary.
func NewResolver(binary string) Resolver {
	if binary == "" {
		binary = DefaultBinary
	}
	return &ytdlResolver{binary: binary, output: run}
}

func run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error) {
	var out, errOut bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err = cmd.Run()
	return out.Bytes(), errOut.Bytes(), err
}

// Resolve dumps the extractor metadata of the page and picks the delivery
// URL with the strategy registered for the page host.
func (r *ytdlResolver) Resolve(ctx context.Context, pageURL string) (*Media, error) {
	tracer := trace.SpanFromContext(ctx).TracerProvider().Tracer("media.ytdlResolver")
	ctx, sp := tracer.Start(ctx, "Resolve", trace.WithAttributes(
		attribute.String("media.page_url", pageURL),
	))
	defer sp.End()
	log := logger.FromContext(ctx).With("url", pageURL)

	page, err := url.Parse(pageURL)
	if err != nil {
		log.ErrorContext(ctx, "Invalid page url", "error", err)
		sp.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("invalid page url: %w", err)
	}

	log.DebugContext(ctx, "Running resolver", "binary", r.binary)
	stdout, stderr, err := r.output(ctx, r.binary, "--dump-single-json", "--no-warnings", "--quiet", pageURL)
	if err != nil {
		rerr := &ResolverError{URL: pageURL, Stderr: string(stderr), Err: err}
		log.ErrorContext(ctx, "Resolver failed", "error", rerr)
		sp.SetStatus(codes.Error, rerr.Error())
		sp.RecordError(rerr)
		return nil, rerr
	}

	delivery, err := Extract(page, stdout)
	if err != nil {
		var unsupported *UnsupportedSourceError
		if errors.As(err, &unsupported) {
			log.ErrorContext(ctx, "Unsupported source", "host", unsupported.Host, "raw", string(unsupported.Raw))
		} else {
			log.ErrorContext(ctx, "Failed to extract delivery url", "error", err)
		}
		sp.SetStatus(codes.Error, err.Error())
		sp.RecordError(err)
		return nil, err
	}

	sp.SetAttributes(attribute.String("media.delivery_host", delivery.Hostname()))
	log.DebugContext(ctx, "Resolved delivery url", "host", delivery.Hostname())
	return &Media{PageURL: page, DeliveryURL: delivery}, nil
}
