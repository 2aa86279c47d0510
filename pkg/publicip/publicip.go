// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package publicip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/telekom/cdntrace/internal/logger"
)

// DefaultURL is the discovery service used when none is configured.
const DefaultURL = "https://jsonip.com"

var _ Client = (*jsonipClient)(nil)

// Client discovers the public address of the host.
//
//go:generate go tool moq -out publicip_moq.go . Client
type Client interface {
	// Lookup returns the public address as seen by the discovery service.
	Lookup(ctx context.Context) (string, error)
}

type jsonipClient struct {
	url    string
	client *http.Client
}

// NewClient returns a [Client] querying a jsonip compatible service.
// A zero timeout means no timeout.
func NewClient(url string, timeout time.Duration) Client {
	if url == "" {
		url = DefaultURL
	}
	return &jsonipClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type response struct {
	IP string `json:"ip"`
}

func (c *jsonipClient) Lookup(ctx context.Context) (string, error) {
	log := logger.FromContext(ctx).With("url", c.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create request", "error", err)
		return "", &LookupError{URL: c.url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req) //nolint:bodyclose // closed in defer
	if err != nil {
		log.ErrorContext(ctx, "Failed to query public ip", "error", err)
		return "", &LookupError{URL: c.url, Err: err}
	}
	defer func() {
		if cerr := res.Body.Close(); cerr != nil {
			log.ErrorContext(ctx, "Failed to close response body", "error", cerr)
		}
	}()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, res.Body)
		log.ErrorContext(ctx, "Public ip lookup failed", "status", res.Status)
		return "", &LookupError{URL: c.url, StatusCode: res.StatusCode, Err: errors.New(res.Status)}
	}

	var body response
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		log.ErrorContext(ctx, "Failed to decode response", "error", err)
		return "", &LookupError{URL: c.url, StatusCode: res.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	addr, err := netip.ParseAddr(strings.TrimSpace(body.IP))
	if err != nil {
		log.ErrorContext(ctx, "Invalid public ip", "ip", body.IP, "error", err)
		return "", &LookupError{URL: c.url, StatusCode: res.StatusCode, Err: fmt.Errorf("invalid ip %q: %w", body.IP, err)}
	}

	log.DebugContext(ctx, "Discovered public ip")
	return addr.Unmap().String(), nil
}
