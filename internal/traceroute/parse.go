// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/telekom/cdntrace/internal/logger"
	"github.com/tidwall/gjson"
)

// maxLineSize is the longest line of probe output that is parsed.
// A trace with a full set of hops and ICMP extensions stays far below.
const maxLineSize = 4 << 20

// ParseFile reads the scamper output at path and returns its trace record.
// See [Parse] for the selection rules.
func ParseFile(ctx context.Context, path string) (rec Record, err error) {
	f, err := os.Open(path) // #nosec G304 // path is built from the output directory
	if err != nil {
		return Record{}, fmt.Errorf("failed to open probe output: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return Parse(ctx, f)
}

// Parse reads line-delimited JSON and returns the last object whose type
// is "trace". Lines that are not JSON objects, trace objects that do not
// decode and lines longer than maxLineSize are skipped.
// It returns [ErrNoTraceFound] if there is no trace object at all.
func Parse(ctx context.Context, r io.Reader) (Record, error) {
	log := logger.FromContext(ctx)
	br := bufio.NewReaderSize(r, 64*1024)

	var (
		rec   Record
		found bool
	)
	for n := 1; ; n++ {
		line, tooLong, rerr := readLine(br)
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return Record{}, fmt.Errorf("failed to read probe output: %w", rerr)
		}

		switch {
		case tooLong:
			log.WarnContext(ctx, "Skipping oversized line of probe output", "line", n, "limit", maxLineSize)
		default:
			if next, ok := parseLine(ctx, n, line); ok {
				rec, found = next, true
			}
		}

		if rerr != nil {
			break
		}
	}

	if !found {
		return Record{}, ErrNoTraceFound
	}
	return rec, nil
}

// parseLine decodes a single line if it is a trace object.
func parseLine(ctx context.Context, n int, line []byte) (Record, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || !gjson.ValidBytes(line) {
		return Record{}, false
	}
	res := gjson.ParseBytes(line)
	if !res.IsObject() || res.Get("type").String() != recordType {
		return Record{}, false
	}

	var rec Record
	if err := json.Unmarshal(line, &rec); err != nil {
		logger.FromContext(ctx).WarnContext(ctx, "Skipping undecodable trace record", "line", n, "error", err)
		return Record{}, false
	}
	rec.raw = bytes.Clone(line)
	return rec, true
}

// readLine returns the next line including its newline.
// A line longer than maxLineSize is consumed but not returned, tooLong is set instead.
func readLine(br *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		chunk, rerr := br.ReadSlice('\n')
		if !tooLong {
			line = append(line, chunk...)
			if len(line) > maxLineSize {
				line, tooLong = nil, true
			}
		}
		if !errors.Is(rerr, bufio.ErrBufferFull) {
			return line, tooLong, rerr
		}
	}
}
