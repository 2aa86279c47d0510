// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/telekom/cdntrace/internal/logger"
	"github.com/telekom/cdntrace/internal/traceroute"
	"github.com/telekom/cdntrace/pkg/geo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const unknownHostname = "Unknown"

// AnnotatedHop is a hop together with the outcome of its lookup.
type AnnotatedHop struct {
	Hop traceroute.Hop
	// Details is the lookup result. Its Kind is [geo.KindUnknown] if the hop
	// was not looked up or the lookup failed.
	Details geo.Details
	// Err is the lookup error, if any.
	Err error
}

// hasDetails reports whether the detail lines are written for the hop.
func (h AnnotatedHop) hasDetails() bool {
	return h.Err == nil && h.Details.IsResolved()
}

// Section is the report of a single target.
type Section struct {
	// Stem labels the section.
	Stem string
	// DeliveryHost is the host of the delivery URL.
	DeliveryHost string
	// HopCount is the adjusted hop count of the trace.
	HopCount    int
	Hops        []AnnotatedHop
	Destination AnnotatedHop
}

// Failures returns the number of failed lookups.
func (s Section) Failures() int {
	n := 0
	for _, h := range s.Hops {
		if h.Err != nil {
			n++
		}
	}
	if s.Destination.Err != nil {
		n++
	}
	return n
}

// Annotator enriches traces with geolocation data.
type Annotator struct {
	geo geo.Client
}

// NewAnnotator returns an [Annotator] looking up hops with the client.
func NewAnnotator(c geo.Client) *Annotator {
	return &Annotator{geo: c}
}

// Annotate looks up every hop and the destination of the trace.
// A failed lookup is logged and kept in the result, it never aborts the annotation.
// Hops without an address or with a redacted one are not looked up.
func (a *Annotator) Annotate(ctx context.Context, stem, deliveryHost string, rec traceroute.Record) Section {
	tracer := trace.SpanFromContext(ctx).TracerProvider().Tracer("report.Annotator")
	ctx, sp := tracer.Start(ctx, "Annotate", trace.WithAttributes(
		attribute.String("report.stem", stem),
		attribute.Int("report.hops", len(rec.Hops)),
	))
	defer sp.End()

	s := Section{
		Stem:         stem,
		DeliveryHost: deliveryHost,
		HopCount:     rec.AdjustedHopCount(),
		Hops:         make([]AnnotatedHop, 0, len(rec.Hops)),
	}
	for _, hop := range rec.Hops {
		s.Hops = append(s.Hops, a.annotate(ctx, hop))
	}
	s.Destination = a.annotate(ctx, traceroute.Hop{Addr: rec.Dst})

	sp.SetAttributes(attribute.Int("report.failures", s.Failures()))
	return s
}

func (a *Annotator) annotate(ctx context.Context, hop traceroute.Hop) AnnotatedHop {
	ah := AnnotatedHop{Hop: hop}
	if !hop.Responded() || hop.Addr == traceroute.RedactionToken {
		return ah
	}

	d, err := a.geo.Lookup(ctx, hop.Addr)
	if err != nil {
		logger.FromContext(ctx).WarnContext(ctx, "Skipping details of hop", "ttl", hop.ProbeTTL, "addr", hop.Addr, "error", err)
		ah.Err = err
		return ah
	}
	ah.Details = d
	return ah
}

// Write renders the section in the plain text report format.
func (a *Annotator) Write(ctx context.Context, w io.Writer, s Section) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "---\n%s\n---\n", s.Stem)
	fmt.Fprintf(&buf, "Traceroute (%d hops):\n", s.HopCount)

	for _, h := range s.Hops {
		addr := h.Hop.Addr
		if !h.Hop.Responded() {
			addr = "*"
		}
		fmt.Fprintf(&buf, "%d: %s (%sms)\n", h.Hop.ProbeTTL, addr, traceroute.FormatRTT(h.Hop.RTT))
		if h.hasDetails() {
			writeDetails(&buf, h.Details)
			buf.WriteString("\n")
		}
	}

	fmt.Fprintf(&buf, "Destination: %s (%s)\n", s.DeliveryHost, s.Destination.Hop.Addr)
	if s.Destination.hasDetails() {
		writeDetails(&buf, s.Destination.Details)
	}
	buf.WriteString("\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.FromContext(ctx).ErrorContext(ctx, "Failed to write report section", "stem", s.Stem, "error", err)
		return fmt.Errorf("failed to write report section %s: %w", s.Stem, err)
	}
	return nil
}

func writeDetails(buf *bytes.Buffer, d geo.Details) {
	hostname := d.Hostname
	if hostname == "" {
		hostname = unknownHostname
	}
	fmt.Fprintf(buf, "- ASN: %s\n", d.Org)
	fmt.Fprintf(buf, "- Location: %s, %s\n", d.City, d.CountryName)
	fmt.Fprintf(buf, "- Hostname: %s\n", hostname)
}
