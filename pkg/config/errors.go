// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import "errors"

var (
	// ErrInvalidConnection is returned when the connection is neither wifi nor 4g
	ErrInvalidConnection = errors.New("invalid connection, must be one of wifi, 4g")
	// ErrInvalidURL is returned when an api url is invalid
	ErrInvalidURL = errors.New("invalid url")
	// ErrMissingBinary is returned when the path of an external program is empty
	ErrMissingBinary = errors.New("missing binary")
	// ErrInvalidOutput is returned when the output directory or report name is empty
	ErrInvalidOutput = errors.New("invalid output")
	// ErrInvalidHTTPTimeout is returned when the http timeout is negative
	ErrInvalidHTTPTimeout = errors.New("invalid http timeout")
	// ErrInvalidNameserver is returned when the nameserver is not a host or host:port
	ErrInvalidNameserver = errors.New("invalid nameserver")
)
