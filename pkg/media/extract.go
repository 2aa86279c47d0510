// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package media

import (
	"net/url"

	"github.com/tidwall/gjson"
)

const (
	// HostYouTube is the page host of YouTube videos.
	HostYouTube = "www.youtube.com"
	// HostInstagram is the page host of Instagram posts.
	HostInstagram = "www.instagram.com"
)

// extractor finds the delivery URL in the resolver output of a page.
type extractor func(raw []byte) (string, bool)

// jsonPath returns an extractor reading a string at a gjson path.
func jsonPath(path string) extractor {
	return func(raw []byte) (string, bool) {
		res := gjson.GetBytes(raw, path)
		if res.Type != gjson.String || res.Str == "" {
			return "", false
		}
		return res.Str, true
	}
}

// extractors maps the supported page hosts to their strategy.
var extractors = map[string]extractor{
	HostYouTube:   jsonPath("formats.0.url"),
	HostInstagram: jsonPath("entries.0.url"),
}

// Extract returns the delivery URL of the page from the raw resolver output.
func Extract(page *url.URL, raw []byte) (*url.URL, error) {
	extract, ok := extractors[page.Hostname()]
	if !ok {
		return nil, &UnsupportedSourceError{Host: page.Hostname(), Raw: raw}
	}
	if !gjson.ValidBytes(raw) {
		return nil, ErrNoDeliveryURL
	}

	s, ok := extract(raw)
	if !ok {
		return nil, ErrNoDeliveryURL
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return nil, ErrNoDeliveryURL
	}
	return u, nil
}
