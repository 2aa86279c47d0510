// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package geo

import "context"

// Kind tells which variant a [Details] value is.
type Kind int

const (
	// KindUnknown is the zero value and never returned by a successful lookup.
	KindUnknown Kind = iota
	// KindBogon marks a private, reserved or otherwise unroutable address.
	KindBogon
	// KindResolved marks an address with ownership and location data.
	KindResolved
)

func (k Kind) String() string {
	switch k {
	case KindBogon:
		return "bogon"
	case KindResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Details is the result of a successful lookup.
// Only Kind and IP are set for a bogon.
type Details struct {
	Kind Kind
	// IP is the looked up address.
	IP string
	// Org is the autonomous system and its owner, e.g. "AS15169 Google LLC".
	Org         string
	City        string
	Region      string
	Country     string
	CountryName string
	// Hostname is the reverse DNS name, empty if there is none.
	Hostname string
}

// Bogon returns the details of an unroutable address.
func Bogon(ip string) Details {
	return Details{Kind: KindBogon, IP: ip}
}

// IsResolved reports whether there is ownership and location data.
func (d Details) IsResolved() bool {
	return d.Kind == KindResolved
}

// Client looks up ownership and location data of addresses.
//
//go:generate go tool moq -out geo_moq.go . Client
type Client interface {
	// Lookup returns the details of the address.
	Lookup(ctx context.Context, ip string) (Details, error)
}
