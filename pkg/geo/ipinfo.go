// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ipinfo/go/v2/ipinfo"
	"github.com/telekom/cdntrace/internal/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultURL is the ipinfo API used when none is configured.
const DefaultURL = "https://ipinfo.io"

var _ Client = (*ipinfoClient)(nil)

type ipinfoClient struct {
	baseURL *url.URL
	token   string
	timeout time.Duration
	// baseErr is set if baseURL could not be parsed and fails every lookup.
	baseErr error
}

// NewClient returns a [Client] querying the ipinfo API at baseURL.
// The token is sent as bearer token unless it is empty.
// A zero timeout means no timeout.
func NewClient(baseURL, token string, timeout time.Duration) Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	return &ipinfoClient{
		baseURL: u,
		token:   token,
		timeout: timeout,
		baseErr: err,
	}
}

// api returns an ipinfo client whose requests carry ctx.
// The SDK builds its requests without a context, so cancellation is
// added on the transport.
func (c *ipinfoClient) api(ctx context.Context) *ipinfo.Client {
	hc := &http.Client{
		Timeout:   c.timeout,
		Transport: contextTransport{ctx: ctx},
	}
	api := ipinfo.NewClient(hc, nil, c.token)
	api.BaseURL = c.baseURL
	return api
}

func (c *ipinfoClient) Lookup(ctx context.Context, ip string) (Details, error) {
	tracer := trace.SpanFromContext(ctx).TracerProvider().Tracer("geo.ipinfoClient")
	ctx, sp := tracer.Start(ctx, "Lookup", trace.WithAttributes(
		attribute.String("geo.ip", ip),
	))
	defer sp.End()
	log := logger.FromContext(ctx).With("ip", ip)

	fail := func(status int, err error) (Details, error) {
		lerr := &LookupError{IP: ip, StatusCode: status, Err: err}
		log.WarnContext(ctx, "Geolocation lookup failed", "error", lerr)
		sp.SetStatus(codes.Error, lerr.Error())
		sp.RecordError(lerr)
		return Details{}, lerr
	}

	if c.baseErr != nil {
		return fail(0, fmt.Errorf("invalid base url: %w", c.baseErr))
	}
	addr := net.ParseIP(ip)
	if addr == nil {
		return fail(0, fmt.Errorf("%q is not an IP address", ip))
	}

	core, err := c.api(ctx).GetIPInfo(addr)
	if err != nil {
		var rerr *ipinfo.ErrorResponse
		if errors.As(err, &rerr) && rerr.Response != nil {
			sp.SetAttributes(attribute.Int("http.response.status_code", rerr.Response.StatusCode))
			return fail(rerr.Response.StatusCode, errors.New(rerr.Response.Status))
		}
		return fail(0, err)
	}

	if core.Bogon {
		log.DebugContext(ctx, "Address is a bogon")
		return Bogon(ip), nil
	}

	d := Details{
		Kind:        KindResolved,
		IP:          ip,
		Org:         core.Org,
		City:        core.City,
		Region:      core.Region,
		Country:     core.Country,
		CountryName: core.CountryName,
		Hostname:    core.Hostname,
	}
	log.DebugContext(ctx, "Resolved geolocation", "org", d.Org, "city", d.City, "country", d.Country)
	return d, nil
}

// contextTransport sends every request with ctx attached.
type contextTransport struct {
	ctx context.Context
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return http.DefaultTransport.RoundTrip(req.WithContext(t.ctx))
}
