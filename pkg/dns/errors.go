// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package dns

import (
	"errors"
	"fmt"
)

// ErrNoAddresses is returned when a lookup succeeds without any address.
var ErrNoAddresses = errors.New("no addresses found")

// ResolutionError is returned when a host cannot be resolved.
type ResolutionError struct {
	Host string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve %q: %v", e.Host, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
