// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package pkg contains metadata about cdntrace.
package pkg

// Version is the current version of cdntrace.
// It is set from the version passed to the command tree on startup.
var Version string
