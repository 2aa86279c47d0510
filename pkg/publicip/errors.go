// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package publicip

import "fmt"

// LookupError is returned when the public address cannot be discovered.
type LookupError struct {
	// URL is the discovery service.
	URL string
	// StatusCode is the HTTP status, 0 if there was no response.
	StatusCode int
	Err        error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("public ip lookup at %s failed: %v", e.URL, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
