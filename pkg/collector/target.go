// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"fmt"
	"net/url"

	"github.com/telekom/cdntrace/pkg/config"
	"golang.org/x/net/idna"
)

// DefaultTargets are the pages traced by every run, in order.
var DefaultTargets = []string{
	"https://www.youtube.com/watch?v=kJQP7kiw5Fk",
	"https://www.instagram.com/p/B5vhf4innBN/",
}

// Target is a page traced from a connection.
type Target struct {
	URL        string
	Connection config.Connection
}

// Targets returns the targets for the pages.
func Targets(conn config.Connection, pages ...string) []Target {
	targets := make([]Target, 0, len(pages))
	for _, p := range pages {
		targets = append(targets, Target{URL: p, Connection: conn})
	}
	return targets
}

// Stem returns the token naming all files of the target: <page-host>-<connection>.
// The host is converted to its ASCII form.
func (t Target) Stem() (string, error) {
	u, err := url.Parse(t.URL)
	if err != nil {
		return "", fmt.Errorf("invalid target url %q: %w", t.URL, err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("invalid target url %q: missing host", t.URL)
	}
	host, err := idna.Lookup.ToASCII(u.Hostname())
	if err != nil {
		return "", fmt.Errorf("invalid target host %q: %w", u.Hostname(), err)
	}
	return fmt.Sprintf("%s-%s", host, t.Connection), nil
}

// rawFile returns the name of the scamper output of the stem.
func rawFile(stem string) string {
	return "scamper-" + stem + ".json"
}

// resultFile returns the name of the redacted trace of the stem.
func resultFile(stem string) string {
	return "results-" + stem + ".json"
}
