// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package test contains helpers shared by the tests of cdntrace.
package test

import (
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// ToURLOrFail parses a URI string and returns a URL object.
// It fails the test if the parsing fails.
func ToURLOrFail(t testing.TB, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	if err != nil {
		t.Fatalf("failed to parse URL %q: %v", s, err)
	}
	return u
}

// FakeBinary writes an executable shell script with the given body to a
// temporary directory and returns its path. It is used in place of the
// external programs cdntrace runs.
// The test is skipped on platforms without /bin/sh.
func FakeBinary(t testing.TB, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o700); err != nil { // #nosec G306
		t.Fatalf("failed to write fake binary %q: %v", name, err)
	}
	return path
}
