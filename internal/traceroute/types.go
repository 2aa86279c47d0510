// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
)

const (
	// RedactionToken replaces the caller's own address in a [Record].
	RedactionToken = "REDACTED"
	// StopReasonGapLimit is the stop reason scamper reports when too many
	// consecutive hops did not respond.
	StopReasonGapLimit = "GAPLIMIT"
	// gapLimit is the number of unresponsive hops scamper probes before
	// giving up with [StopReasonGapLimit].
	gapLimit = 5
	// recordType is the value of the "type" field of a trace record.
	recordType = "trace"
)

// Target is the address scamper probes.
type Target struct {
	// Address is the IPv4 or IPv6 address to trace to.
	Address string `json:"address" yaml:"address" mapstructure:"address"`
}

func (t Target) String() string {
	return t.Address
}

// Validate checks that the target is a literal IP address.
// scamper does not resolve names, so anything else would fail late.
func (t Target) Validate() error {
	if t.Address == "" {
		return errors.New("target address cannot be empty")
	}
	if net.ParseIP(t.Address) == nil {
		return fmt.Errorf("invalid target address: %q is not an IP address", t.Address)
	}
	return nil
}

// Record is a single scamper trace.
//
// Only the fields needed for reporting are decoded. The full JSON object is
// kept alongside so that persisting a record does not lose anything scamper
// reported.
type Record struct {
	// Type is the scamper object type, always "trace".
	Type string `json:"type"`
	// Src is the source address of the probes.
	Src string `json:"src"`
	// Dst is the probed address.
	Dst string `json:"dst"`
	// StopReason is why scamper stopped probing, e.g. COMPLETED or GAPLIMIT.
	StopReason string `json:"stop_reason"`
	// HopCount is the number of hops scamper probed.
	HopCount int `json:"hop_count"`
	// Hops are the responding hops in probe order.
	Hops []Hop `json:"hops"`

	// raw is the JSON object as read from the probe output.
	raw json.RawMessage
}

// MarshalJSON returns the raw scamper object if there is one,
// falling back to the decoded fields.
func (r Record) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	type alias Record
	return json.Marshal(alias(r))
}

// rawJSON returns a copy of the raw JSON object of the record.
func (r Record) rawJSON() []byte {
	if r.raw == nil {
		return nil
	}
	return append([]byte(nil), r.raw...)
}

// AdjustedHopCount returns the number of hops to the destination.
// When scamper hit the gap limit the trailing unresponsive hops are not
// part of the path and are subtracted.
func (r Record) AdjustedHopCount() int {
	if r.StopReason == StopReasonGapLimit {
		return r.HopCount - gapLimit
	}
	return r.HopCount
}

// Hop is a single responding hop of a trace.
type Hop struct {
	// ProbeTTL is the TTL of the probe that got the response.
	ProbeTTL int `json:"probe_ttl"`
	// Addr is the address that responded. It is empty if nothing did.
	Addr string `json:"addr"`
	// RTT is the round trip time in milliseconds.
	RTT float64 `json:"rtt"`
}

// Responded reports whether the hop has an address.
func (h Hop) Responded() bool {
	return h.Addr != ""
}

func (h Hop) String() string {
	addr := h.Addr
	if !h.Responded() {
		addr = "*"
	}
	return fmt.Sprintf("%-2d  %-45.45s  %sms", h.ProbeTTL, addr, FormatRTT(h.RTT))
}

// FormatRTT renders a round trip time the way scamper's JSON carries it,
// always with a fractional part (12.4, 3.0).
func FormatRTT(rtt float64) string {
	s := strconv.FormatFloat(rtt, 'f', -1, 64)
	for _, c := range s {
		if c == '.' {
			return s
		}
	}
	return s + ".0"
}
