// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package geo

import "fmt"

// LookupError is returned when an address cannot be looked up.
type LookupError struct {
	IP string
	// StatusCode is the HTTP status of a non-2xx response, 0 otherwise.
	StatusCode int
	Err        error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup of %s failed: %v", e.IP, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
