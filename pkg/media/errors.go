// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package media

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedSource is matched by every [UnsupportedSourceError].
	ErrUnsupportedSource = errors.New("unsupported media source")
	// ErrNoDeliveryURL is returned when the resolver output carries no usable delivery URL.
	ErrNoDeliveryURL = errors.New("no delivery url in resolver output")
)

// UnsupportedSourceError is returned for a page host without an extraction strategy.
type UnsupportedSourceError struct {
	// Host is the page host.
	Host string
	// Raw is the resolver output for the page.
	Raw []byte
}

func (e *UnsupportedSourceError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnsupportedSource, e.Host)
}

func (e *UnsupportedSourceError) Is(target error) bool {
	return target == ErrUnsupportedSource
}

// ResolverError is returned when the resolver binary fails.
type ResolverError struct {
	// URL is the page that was resolved.
	URL string
	// Stderr is whatever the resolver wrote to stderr.
	Stderr string
	// Err is the underlying error.
	Err error
}

func (e *ResolverError) Error() string {
	msg := fmt.Sprintf("failed to resolve %s: %v", e.URL, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ResolverError) Unwrap() error {
	return e.Err
}
