// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package traceroute runs scamper against a single address and turns its
// output into a [Record] that is safe to publish.
//
// scamper writes one JSON object per line. Besides the trace itself the
// file contains bookkeeping objects (cycle-start, cycle-stop, ...), so
// [Parse] keeps only the objects of type "trace". If scamper wrote more than
// one, the last one wins.
//
// Before a record is persisted the caller's public address has to be removed
// from it with [Redact]. Redaction touches both the typed fields and the
// preserved raw JSON, so [WriteFile] emits every field scamper reported with
// only the matching addresses replaced by [RedactionToken].
//
// Typical usage:
//
//	client := traceroute.NewClient("./scamper")
//	err := client.Run(ctx, traceroute.Target{Address: "203.0.113.10"}, "scamper-out.json")
//	rec, err := traceroute.ParseFile(ctx, "scamper-out.json")
//	rec, err = traceroute.Redact(rec, myIP)
//	err = traceroute.WriteFile("results.json", rec)
package traceroute
