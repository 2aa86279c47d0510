// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoTraceFound is returned when the probe output does not contain a single
// JSON object of type "trace".
var ErrNoTraceFound = errors.New("no trace record found in probe output")

// errEmptyOutput is returned when scamper exited cleanly but left no output behind.
var errEmptyOutput = errors.New("probe produced no output")

// ProbeExecutionError is returned when scamper could not be run to completion.
type ProbeExecutionError struct {
	// Target is the probed target.
	Target Target
	// Stderr is whatever scamper wrote to stderr.
	Stderr string
	// Err is the underlying error.
	Err error
}

func (e *ProbeExecutionError) Error() string {
	msg := fmt.Sprintf("probe of %s failed: %v", e.Target, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ProbeExecutionError) Unwrap() error {
	return e.Err
}
