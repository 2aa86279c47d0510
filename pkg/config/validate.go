// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/telekom/cdntrace/internal/logger"
)

// Validate validates the startup config
func (c *Config) Validate(ctx context.Context) (err error) {
	log := logger.FromContext(ctx)
	if vErr := c.Connection.Validate(); vErr != nil {
		log.ErrorContext(ctx, "The connection must be one of wifi, 4g", "connection", c.Connection)
		err = errors.Join(err, fmt.Errorf("%w: %q", vErr, c.Connection))
	}

	if !isURL(c.IPInfo.URL) {
		log.ErrorContext(ctx, "The ipinfo url is not a valid url", "url", c.IPInfo.URL)
		err = errors.Join(err, fmt.Errorf("%w: ipinfo %q", ErrInvalidURL, c.IPInfo.URL))
	}

	if !isURL(c.Discovery.URL) {
		log.ErrorContext(ctx, "The ip discovery url is not a valid url", "url", c.Discovery.URL)
		err = errors.Join(err, fmt.Errorf("%w: ip discovery %q", ErrInvalidURL, c.Discovery.URL))
	}

	if c.Output.Dir == "" || c.Output.Report == "" {
		log.ErrorContext(ctx, "The output directory and report name cannot be empty", "dir", c.Output.Dir, "report", c.Output.Report)
		err = errors.Join(err, ErrInvalidOutput)
	}

	if c.Scamper.Binary == "" {
		log.ErrorContext(ctx, "The scamper binary cannot be empty")
		err = errors.Join(err, fmt.Errorf("%w: scamper", ErrMissingBinary))
	}

	if c.Resolver.Binary == "" {
		log.ErrorContext(ctx, "The resolver binary cannot be empty")
		err = errors.Join(err, fmt.Errorf("%w: resolver", ErrMissingBinary))
	}

	if c.Resolver.Nameserver != "" && !isNameserver(c.Resolver.Nameserver) {
		log.ErrorContext(ctx, "The nameserver must be a host or host:port", "nameserver", c.Resolver.Nameserver)
		err = errors.Join(err, fmt.Errorf("%w: %q", ErrInvalidNameserver, c.Resolver.Nameserver))
	}

	if c.HTTPTimeout < 0 {
		log.ErrorContext(ctx, "The http timeout should be equal or above 0", "timeout", c.HTTPTimeout)
		err = errors.Join(err, ErrInvalidHTTPTimeout)
	}

	if vErr := c.Telemetry.Validate(ctx); vErr != nil {
		log.ErrorContext(ctx, "The telemetry configuration is invalid")
		err = errors.Join(err, vErr)
	}

	if err != nil {
		return fmt.Errorf("validation of configuration failed: %w", err)
	}
	return nil
}

// isURL checks if the given string is an absolute http(s) url
func isURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// isNameserver checks if the given string is a host with an optional port
func isNameserver(s string) bool {
	if strings.ContainsAny(s, " /") {
		return false
	}
	if host, port, err := net.SplitHostPort(s); err == nil {
		return host != "" && port != ""
	}
	return true
}
