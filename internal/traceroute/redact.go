// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"slices"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Redact returns a copy of rec in which every occurrence of addr as the
// source address or as a hop address is replaced with [RedactionToken].
//
// Addresses are compared by value, so different spellings of the same IPv6
// address match. Redacting an already redacted record is a no-op, and so is
// redacting with an empty address.
func Redact(rec Record, addr string) (Record, error) {
	if addr == "" || addr == RedactionToken {
		return rec, nil
	}

	out := rec
	out.Hops = slices.Clone(rec.Hops)
	raw := rec.rawJSON()

	var err error
	if sameAddr(out.Src, addr) {
		out.Src = RedactionToken
		raw, err = setRaw(raw, "src")
		if err != nil {
			return Record{}, err
		}
	}

	for i, hop := range out.Hops {
		if !sameAddr(hop.Addr, addr) {
			continue
		}
		out.Hops[i].Addr = RedactionToken
		raw, err = setRaw(raw, fmt.Sprintf("hops.%d.addr", i))
		if err != nil {
			return Record{}, err
		}
	}

	out.raw = raw
	return out, nil
}

// setRaw replaces the value at path with the redaction token.
// Records without raw JSON are left alone.
func setRaw(raw []byte, path string) ([]byte, error) {
	if raw == nil {
		return nil, nil
	}
	b, err := sjson.SetBytes(raw, path, RedactionToken)
	if err != nil {
		return nil, fmt.Errorf("failed to redact %s: %w", path, err)
	}
	return b, nil
}

// sameAddr reports whether a and b denote the same address.
// Values that are not IP addresses are compared literally.
func sameAddr(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	pa, errA := netip.ParseAddr(a)
	pb, errB := netip.ParseAddr(b)
	if errA != nil || errB != nil {
		return false
	}
	return pa.Unmap() == pb.Unmap()
}

// WriteFile persists rec as indented JSON at path.
func WriteFile(path string, rec Record) (err error) {
	b, err := rec.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode trace record: %w", err)
	}
	b = pretty.PrettyOptions(b, &pretty.Options{Indent: "    "})

	f, err := os.Create(path) // #nosec G304 // path is built from the output directory
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if _, err = f.Write(b); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}
