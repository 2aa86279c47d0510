// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/cdntrace/pkg/config"
)

func TestTarget_Stem(t *testing.T) {
	tests := []struct {
		name    string
		target  Target
		want    string
		wantErr bool
	}{
		{
			name:   "youtube wifi",
			target: Target{URL: "https://www.youtube.com/watch?v=kJQP7kiw5Fk", Connection: config.ConnectionWifi},
			want:   "www.youtube.com-wifi",
		},
		{
			name:   "instagram 4g",
			target: Target{URL: "https://www.instagram.com/p/B5vhf4innBN/", Connection: config.Connection4G},
			want:   "www.instagram.com-4g",
		},
		{
			name:   "port is dropped",
			target: Target{URL: "https://www.youtube.com:443/watch", Connection: config.ConnectionWifi},
			want:   "www.youtube.com-wifi",
		},
		{
			name:   "internationalized host",
			target: Target{URL: "https://bücher.example/video", Connection: config.ConnectionWifi},
			want:   "xn--bcher-kva.example-wifi",
		},
		{
			name:    "no host",
			target:  Target{URL: "/watch?v=kJQP7kiw5Fk", Connection: config.ConnectionWifi},
			wantErr: true,
		},
		{
			name:    "unparsable",
			target:  Target{URL: "https://www.youtube.com/%zz", Connection: config.ConnectionWifi},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.target.Stem()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTargets(t *testing.T) {
	got := Targets(config.Connection4G, DefaultTargets...)
	require.Len(t, got, 2)
	assert.Equal(t, Target{URL: "https://www.youtube.com/watch?v=kJQP7kiw5Fk", Connection: config.Connection4G}, got[0])
	assert.Equal(t, Target{URL: "https://www.instagram.com/p/B5vhf4innBN/", Connection: config.Connection4G}, got[1])
}
