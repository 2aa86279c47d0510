// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package helper

import (
	"errors"

	"golang.org/x/sys/unix"
)

// ErrNotPrivileged is returned when the process does not run as root.
// scamper needs raw sockets, so probing is impossible without it.
var ErrNotPrivileged = errors.New("you must run this with sudo")

// geteuid is a seam for tests.
var geteuid = unix.Geteuid

// RequirePrivileged returns [ErrNotPrivileged] unless the effective user ID is 0.
func RequirePrivileged() error {
	if geteuid() != 0 {
		return ErrNotPrivileged
	}
	return nil
}
