// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package dns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
	"github.com/telekom/cdntrace/internal/logger"
)

const defaultPort = "53"

var (
	_ Resolver = (*systemResolver)(nil)
	_ Resolver = (*serverResolver)(nil)
)

// Resolver resolves host names to addresses.
//
//go:generate go tool moq -out resolver_moq.go . Resolver
type Resolver interface {
	// LookupHost returns the addresses of the host.
	LookupHost(ctx context.Context, host string) ([]string, error)
}

type systemResolver struct {
	*net.Resolver
}

// serverResolver queries a single nameserver directly.
type serverResolver struct {
	server string
	client *dns.Client
}

// NewResolver returns a [Resolver] using the system configuration if
// nameserver is empty. Otherwise every query is sent to the nameserver,
// with port 53 assumed if none is given.
func NewResolver(nameserver string) Resolver {
	if nameserver == "" {
		return &systemResolver{
			Resolver: &net.Resolver{
				PreferGo: true,
			},
		}
	}

	if _, _, err := net.SplitHostPort(nameserver); err != nil {
		nameserver = net.JoinHostPort(nameserver, defaultPort)
	}
	return &serverResolver{
		server: nameserver,
		client: &dns.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// LookupHost asks for A records first, then AAAA records.
// A failing query is tolerated as long as the other one returns addresses.
func (r *serverResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	log := logger.FromContext(ctx).With("host", host, "nameserver", r.server)

	var (
		addrs []string
		errs  []error
	)
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		rrs, err := r.query(ctx, host, qtype)
		if err != nil {
			log.WarnContext(ctx, "DNS query failed", "type", dns.TypeToString[qtype], "error", err)
			errs = append(errs, err)
			continue
		}
		addrs = append(addrs, rrs...)
	}

	if len(addrs) == 0 && len(errs) > 0 {
		err := errors.Join(errs...)
		log.ErrorContext(ctx, "DNS lookup failed", "error", err)
		return nil, err
	}
	return addrs, nil
}

func (r *serverResolver) query(ctx context.Context, host string, qtype uint16) ([]string, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), qtype)

	resp, rtt, err := r.client.ExchangeContext(ctx, msg, r.server)
	if err != nil {
		return nil, fmt.Errorf("query %s %s: %w", dns.TypeToString[qtype], host, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("query %s %s: %s", dns.TypeToString[qtype], host, dns.RcodeToString[resp.Rcode])
	}
	logger.FromContext(ctx).DebugContext(ctx, "DNS query answered",
		"host", host, "type", dns.TypeToString[qtype], "answers", len(resp.Answer), "rtt", rtt)

	var addrs []string
	for _, rr := range resp.Answer {
		switch rec := rr.(type) {
		case *dns.A:
			addrs = append(addrs, rec.A.String())
		case *dns.AAAA:
			addrs = append(addrs, rec.AAAA.String())
		}
	}
	return addrs, nil
}

// FirstAddress returns the first address of the host.
// An IP literal is returned as is.
func FirstAddress(ctx context.Context, r Resolver, host string) (string, error) {
	log := logger.FromContext(ctx).With("host", host)
	if ip := net.ParseIP(host); ip != nil {
		return ip.String(), nil
	}

	addrs, err := r.LookupHost(ctx, host)
	if err != nil {
		log.ErrorContext(ctx, "Failed to resolve host", "error", err)
		return "", &ResolutionError{Host: host, Err: err}
	}
	if len(addrs) == 0 {
		log.ErrorContext(ctx, "Host has no addresses")
		return "", &ResolutionError{Host: host, Err: ErrNoAddresses}
	}

	log.DebugContext(ctx, "Resolved host", "addresses", addrs)
	return addrs[0], nil
}
