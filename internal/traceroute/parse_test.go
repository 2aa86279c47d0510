// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/cdntrace/internal/logger"
)

const (
	cycleStart = `{"type":"cycle-start","list_name":"default","id":1,"hostname":"probe","start_time":1583930000}`
	cycleStop  = `{"type":"cycle-stop","list_name":"default","id":1,"hostname":"probe","stop_time":1583930042}`
	traceA     = `{"type":"trace","version":"0.1","method":"icmp-paris","src":"192.0.2.10","dst":"198.51.100.1","stop_reason":"COMPLETED","stop_data":0,"hop_count":3,"hops":[{"addr":"192.0.2.1","probe_ttl":1,"rtt":0.9},{"addr":"203.0.113.5","probe_ttl":2,"rtt":8.25},{"addr":"198.51.100.1","probe_ttl":3,"rtt":12.4}]}`
	traceB     = `{"type":"trace","version":"0.1","method":"icmp-paris","src":"192.0.2.10","dst":"198.51.100.2","stop_reason":"GAPLIMIT","stop_data":0,"hop_count":9,"hops":[{"addr":"192.0.2.1","probe_ttl":1,"rtt":1.1}]}`
)

var wantA = Record{
	Type:       "trace",
	Src:        "192.0.2.10",
	Dst:        "198.51.100.1",
	StopReason: "COMPLETED",
	HopCount:   3,
	Hops: []Hop{
		{ProbeTTL: 1, Addr: "192.0.2.1", RTT: 0.9},
		{ProbeTTL: 2, Addr: "203.0.113.5", RTT: 8.25},
		{ProbeTTL: 3, Addr: "198.51.100.1", RTT: 12.4},
	},
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		want    Record
		wantErr error
	}{
		{
			name:  "single trace between bookkeeping lines",
			lines: []string{cycleStart, traceA, cycleStop},
			want:  wantA,
		},
		{
			name:  "single trace first",
			lines: []string{traceA, cycleStart, cycleStop},
			want:  wantA,
		},
		{
			name:  "single trace last",
			lines: []string{cycleStart, cycleStop, traceA},
			want:  wantA,
		},
		{
			name:  "malformed and non-object lines are ignored",
			lines: []string{"scamper: warning", `{"type":"trace"`, `[1,2,3]`, `"trace"`, `null`, "", traceA},
			want:  wantA,
		},
		{
			name:  "the last of several traces wins",
			lines: []string{cycleStart, traceB, traceA, cycleStop},
			want:  wantA,
		},
		{
			name:  "the last of several traces wins regardless of content",
			lines: []string{traceA, traceB},
			want: Record{
				Type:       "trace",
				Src:        "192.0.2.10",
				Dst:        "198.51.100.2",
				StopReason: StopReasonGapLimit,
				HopCount:   9,
				Hops:       []Hop{{ProbeTTL: 1, Addr: "192.0.2.1", RTT: 1.1}},
			},
		},
		{
			name:    "no trace",
			lines:   []string{cycleStart, cycleStop},
			wantErr: ErrNoTraceFound,
		},
		{
			name:    "empty output",
			lines:   nil,
			wantErr: ErrNoTraceFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(t.Context(), strings.NewReader(strings.Join(tt.lines, "\n")))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreUnexported(Record{})); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
			assert.NotEmpty(t, got.rawJSON(), "raw object should be kept")
		})
	}
}

func TestParse_LongLine(t *testing.T) {
	hops := make([]string, 0, 2000)
	for i := range 2000 {
		hops = append(hops, `{"addr":"192.0.2.1","probe_ttl":`+strconv.Itoa(i+1)+`,"rtt":1.0,"pad":"`+strings.Repeat("x", 64)+`"}`)
	}
	line := `{"type":"trace","src":"192.0.2.10","dst":"198.51.100.1","hop_count":2000,"hops":[` + strings.Join(hops, ",") + `]}`
	require.Greater(t, len(line), 64*1024)

	got, err := Parse(t.Context(), strings.NewReader(line))
	require.NoError(t, err)
	assert.Len(t, got.Hops, 2000)
}

func TestParse_SkippedLines(t *testing.T) {
	undecodable := `{"type":"trace","src":"192.0.2.10","dst":"198.51.100.9","hop_count":"many","hops":[]}`
	oversized := `{"type":"trace","pad":"` + strings.Repeat("x", maxLineSize) + `"}`

	tests := []struct {
		name    string
		lines   []string
		wantLog string
	}{
		{
			name:    "later trace that does not decode",
			lines:   []string{traceA, undecodable},
			wantLog: "Skipping undecodable trace record",
		},
		{
			name:    "oversized line before the trace",
			lines:   []string{cycleStart, oversized, traceA, cycleStop},
			wantLog: "Skipping oversized line of probe output",
		},
		{
			name:    "oversized last line",
			lines:   []string{traceA, oversized},
			wantLog: "Skipping oversized line of probe output",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := logger.IntoContext(t.Context(), slog.New(slog.NewTextHandler(&buf, nil)))

			got, err := Parse(ctx, strings.NewReader(strings.Join(tt.lines, "\n")))
			require.NoError(t, err)
			if diff := cmp.Diff(wantA, got, cmpopts.IgnoreUnexported(Record{})); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
			assert.Contains(t, buf.String(), tt.wantLog)
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(dir, "scamper-www.youtube.com-wifi.json")
		require.NoError(t, os.WriteFile(path, []byte(cycleStart+"\n"+traceA+"\n"+cycleStop+"\n"), 0o600))

		got, err := ParseFile(t.Context(), path)
		require.NoError(t, err)
		assert.Equal(t, "198.51.100.1", got.Dst)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ParseFile(t.Context(), filepath.Join(dir, "missing.json"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
