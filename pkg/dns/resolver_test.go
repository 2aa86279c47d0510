// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package dns

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer runs a nameserver on a random local UDP port answering from records.
// rcodes overrides the response code per "<name> <type>" question.
func startServer(t *testing.T, records map[string][]string, rcodes map[string]int) string {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})
	srv := &dns.Server{
		PacketConn:        pc,
		NotifyStartedFunc: func() { close(started) },
		Handler: dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
			m := new(dns.Msg)
			m.SetReply(r)
			q := r.Question[0]
			if rcode, ok := rcodes[q.Name+" "+dns.TypeToString[q.Qtype]]; ok {
				m.SetRcode(r, rcode)
				_ = w.WriteMsg(m)
				return
			}
			rrs, ok := records[q.Name]
			if !ok {
				m.SetRcode(r, dns.RcodeNameError)
			}
			for _, s := range rrs {
				rr, err := dns.NewRR(s)
				if err == nil && rr.Header().Rrtype == q.Qtype {
					m.Answer = append(m.Answer, rr)
				}
			}
			_ = w.WriteMsg(m)
		}),
	}
	go func() {
		_ = srv.ActivateAndServe()
	}()
	<-started
	t.Cleanup(func() {
		_ = srv.Shutdown()
	})
	return pc.LocalAddr().String()
}

func TestServerResolver_LookupHost(t *testing.T) {
	addr := startServer(t, map[string][]string{
		"rr5.googlevideo.com.": {
			"rr5.googlevideo.com. 60 IN AAAA 2001:db8::7",
			"rr5.googlevideo.com. 60 IN A 198.51.100.7",
		},
		"v4only.example.net.": {"v4only.example.net. 60 IN A 203.0.113.9"},
		"empty.example.net.":  {},
		"flaky-v6.example.net.": {
			"flaky-v6.example.net. 60 IN A 198.51.100.7",
		},
		"flaky-v4.example.net.": {
			"flaky-v4.example.net. 60 IN AAAA 2001:db8::7",
		},
		"broken.example.net.": {
			"broken.example.net. 60 IN A 198.51.100.7",
		},
	}, map[string]int{
		"flaky-v6.example.net. AAAA": dns.RcodeServerFailure,
		"flaky-v4.example.net. A":    dns.RcodeServerFailure,
		"broken.example.net. A":      dns.RcodeServerFailure,
		"broken.example.net. AAAA":   dns.RcodeRefused,
	})
	r := NewResolver(addr)

	tests := []struct {
		name    string
		host    string
		want    []string
		wantErr string
	}{
		{name: "ipv4 before ipv6", host: "rr5.googlevideo.com", want: []string{"198.51.100.7", "2001:db8::7"}},
		{name: "fully qualified", host: "v4only.example.net.", want: []string{"203.0.113.9"}},
		{name: "no records", host: "empty.example.net", want: nil},
		{name: "nxdomain", host: "missing.example.net", wantErr: "NXDOMAIN"},
		{name: "AAAA failure keeps A records", host: "flaky-v6.example.net", want: []string{"198.51.100.7"}},
		{name: "A failure keeps AAAA records", host: "flaky-v4.example.net", want: []string{"2001:db8::7"}},
		{name: "both queries fail", host: "broken.example.net", wantErr: "SERVFAIL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.LookupHost(context.Background(), tt.host)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirstAddress_ServerResolver(t *testing.T) {
	addr := startServer(t, map[string][]string{
		"rr5.googlevideo.com.": {"rr5.googlevideo.com. 60 IN A 198.51.100.7"},
	}, map[string]int{
		"rr5.googlevideo.com. AAAA": dns.RcodeServerFailure,
	})

	got, err := FirstAddress(context.Background(), NewResolver(addr), "rr5.googlevideo.com")
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.7", got)
}

func TestNewResolver(t *testing.T) {
	tests := []struct {
		name       string
		nameserver string
		wantServer string
	}{
		{name: "port added", nameserver: "192.0.2.53", wantServer: "192.0.2.53:53"},
		{name: "ipv6 port added", nameserver: "2001:db8::53", wantServer: "[2001:db8::53]:53"},
		{name: "port kept", nameserver: "192.0.2.53:5353", wantServer: "192.0.2.53:5353"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := NewResolver(tt.nameserver).(*serverResolver)
			require.True(t, ok)
			assert.Equal(t, tt.wantServer, r.server)
		})
	}

	t.Run("system resolver", func(t *testing.T) {
		_, ok := NewResolver("").(*systemResolver)
		assert.True(t, ok)
	})
}

func TestFirstAddress(t *testing.T) {
	lookupErr := errors.New("server misbehaving")
	tests := []struct {
		name      string
		host      string
		addrs     []string
		err       error
		want      string
		wantErr   error
		wantCalls int
	}{
		{name: "first address", host: "rr5.googlevideo.com", addrs: []string{"198.51.100.7", "2001:db8::7"}, want: "198.51.100.7", wantCalls: 1},
		{name: "ip literal", host: "198.51.100.7", want: "198.51.100.7"},
		{name: "ipv6 literal", host: "2001:db8::7", want: "2001:db8::7"},
		{name: "lookup fails", host: "rr5.googlevideo.com", err: lookupErr, wantErr: lookupErr, wantCalls: 1},
		{name: "no addresses", host: "rr5.googlevideo.com", wantErr: ErrNoAddresses, wantCalls: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &ResolverMock{
				LookupHostFunc: func(_ context.Context, _ string) ([]string, error) {
					return tt.addrs, tt.err
				},
			}

			got, err := FirstAddress(context.Background(), r, tt.host)
			assert.Len(t, r.LookupHostCalls(), tt.wantCalls)
			if tt.wantErr != nil {
				var rerr *ResolutionError
				require.ErrorAs(t, err, &rerr)
				assert.Equal(t, tt.host, rerr.Host)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
