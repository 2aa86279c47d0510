// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/telekom/cdntrace/internal/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	_ Client = (*scamperClient)(nil)
)

// Client is able to run a traceroute to a target.
//
//go:generate go tool moq -out client_moq.go . Client
type Client interface {
	// Run probes the target and writes the line-delimited JSON output to outFile.
	// It blocks until the probe is finished.
	Run(ctx context.Context, target Target, outFile string) error
}

// scamperClient runs the scamper binary as a subprocess.
type scamperClient struct {
	// binary is the path of the scamper executable.
	binary string
	// command builds the subprocess. It is replaced in tests.
	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewClient returns a [Client] running the scamper binary at the given path.
func NewClient(binary string) Client {
	return &scamperClient{
		binary:  binary,
		command: exec.CommandContext,
	}
}

// Run executes scamper with JSON output against the target.
// Any failure to run it, as well as a missing or empty output file,
// is returned as a [ProbeExecutionError].
func (c *scamperClient) Run(ctx context.Context, target Target, outFile string) error {
	tracer := trace.SpanFromContext(ctx).TracerProvider().Tracer("traceroute.scamperClient")
	ctx, sp := tracer.Start(ctx, "Run", trace.WithAttributes(
		attribute.Stringer("traceroute.target.address", target),
		attribute.String("traceroute.output", outFile),
	))
	defer sp.End()
	log := logger.FromContext(ctx)

	if err := target.Validate(); err != nil {
		return wrapError(ctx, err, "invalid target %s", target)
	}

	var stderr bytes.Buffer
	cmd := c.command(ctx, c.binary, "-O", "json", "-o", outFile, "-i", target.Address)
	cmd.Stderr = &stderr

	log.DebugContext(ctx, "Starting scamper", "binary", c.binary, "target", target, "output", outFile)
	if err := cmd.Run(); err != nil {
		return wrapError(ctx, &ProbeExecutionError{Target: target, Stderr: stderr.String(), Err: err}, "failed to run scamper")
	}

	fi, err := os.Stat(outFile)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return wrapError(ctx, &ProbeExecutionError{Target: target, Stderr: stderr.String(), Err: errEmptyOutput}, "scamper did not write %s", outFile)
	case err != nil:
		return wrapError(ctx, &ProbeExecutionError{Target: target, Err: err}, "failed to stat probe output")
	case fi.Size() == 0:
		return wrapError(ctx, &ProbeExecutionError{Target: target, Stderr: stderr.String(), Err: errEmptyOutput}, "scamper wrote an empty %s", outFile)
	}

	log.DebugContext(ctx, "Scamper finished", "target", target, "bytes", fi.Size())
	sp.AddEvent("scamper finished", trace.WithAttributes(
		attribute.Int64("traceroute.output.bytes", fi.Size()),
	))
	return nil
}

