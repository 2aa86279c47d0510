// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	myIP     = "192.0.2.10"
	myIPv6   = "2001:db8::10"
	ownTrace = `{"type":"trace","method":"icmp-paris","src":"192.0.2.10","dst":"198.51.100.1","stop_reason":"COMPLETED","hop_count":4,"start":{"sec":1583930000},` +
		`"hops":[{"addr":"192.0.2.10","probe_ttl":1,"rtt":0.2},{"addr":"192.0.2.1","probe_ttl":2,"rtt":1.5},{"addr":"192.0.2.10","probe_ttl":3,"rtt":2.5},{"addr":"198.51.100.1","probe_ttl":4,"rtt":12.4}]}`
)

func TestRedact(t *testing.T) {
	rec, err := Parse(t.Context(), strings.NewReader(ownTrace))
	require.NoError(t, err)

	got, err := Redact(rec, myIP)
	require.NoError(t, err)

	assert.Equal(t, RedactionToken, got.Src)
	assert.Equal(t, []string{RedactionToken, "192.0.2.1", RedactionToken, "198.51.100.1"}, hopAddrs(got))
	assert.Equal(t, "198.51.100.1", got.Dst, "destination is never redacted")
	assert.NotContains(t, string(got.rawJSON()), myIP, "raw record must not leak the address")

	t.Run("input is not modified", func(t *testing.T) {
		assert.Equal(t, myIP, rec.Src)
		assert.Equal(t, myIP, rec.Hops[0].Addr)
		assert.Contains(t, string(rec.rawJSON()), myIP)
	})

	t.Run("unrelated fields are preserved", func(t *testing.T) {
		var m map[string]any
		require.NoError(t, json.Unmarshal(got.rawJSON(), &m))
		assert.Equal(t, "icmp-paris", m["method"])
		assert.Contains(t, m, "start")
	})

	t.Run("idempotent", func(t *testing.T) {
		again, err := Redact(got, myIP)
		require.NoError(t, err)
		assert.Equal(t, got.Src, again.Src)
		assert.Equal(t, got.Hops, again.Hops)
		assert.JSONEq(t, string(got.rawJSON()), string(again.rawJSON()))
	})

	t.Run("redacting the token is a no-op", func(t *testing.T) {
		again, err := Redact(got, RedactionToken)
		require.NoError(t, err)
		assert.Equal(t, got.Hops, again.Hops)
	})
}

func TestRedact_NoMatch(t *testing.T) {
	rec, err := Parse(t.Context(), strings.NewReader(ownTrace))
	require.NoError(t, err)

	tests := []struct {
		name string
		addr string
	}{
		{name: "empty address", addr: ""},
		{name: "other address", addr: "203.0.113.99"},
		{name: "prefix of own address", addr: "192.0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Redact(rec, tt.addr)
			require.NoError(t, err)
			assert.Equal(t, rec.Src, got.Src)
			assert.Equal(t, rec.Hops, got.Hops)
			assert.JSONEq(t, string(rec.rawJSON()), string(got.rawJSON()))
		})
	}
}

func TestRedact_IPv6Spelling(t *testing.T) {
	line := `{"type":"trace","src":"2001:db8:0:0:0:0:0:10","dst":"2001:db8::1","hop_count":2,"hops":[{"addr":"2001:0db8::0010","probe_ttl":1,"rtt":0.4},{"addr":"2001:db8::1","probe_ttl":2,"rtt":3.0}]}`
	rec, err := Parse(t.Context(), strings.NewReader(line))
	require.NoError(t, err)

	got, err := Redact(rec, myIPv6)
	require.NoError(t, err)
	assert.Equal(t, RedactionToken, got.Src)
	assert.Equal(t, []string{RedactionToken, "2001:db8::1"}, hopAddrs(got))
}

func TestRedact_WithoutRaw(t *testing.T) {
	rec := Record{Src: myIP, Hops: []Hop{{ProbeTTL: 1, Addr: myIP}}}
	got, err := Redact(rec, myIP)
	require.NoError(t, err)
	assert.Equal(t, RedactionToken, got.Src)
	assert.Equal(t, RedactionToken, got.Hops[0].Addr)
	assert.Nil(t, got.rawJSON())
}

func TestWriteFile(t *testing.T) {
	rec, err := Parse(t.Context(), strings.NewReader(ownTrace))
	require.NoError(t, err)
	rec, err = Redact(rec, myIP)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "results-www.youtube.com-wifi.json")
	require.NoError(t, WriteFile(path, rec))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, string(rec.rawJSON()), string(b))
	assert.Contains(t, string(b), "\n    \"type\": \"trace\"", "output should be indented with four spaces")
	assert.NotContains(t, string(b), myIP)
}

func hopAddrs(r Record) []string {
	addrs := make([]string, 0, len(r.Hops))
	for _, h := range r.Hops {
		addrs = append(addrs, h.Addr)
	}
	return addrs
}
