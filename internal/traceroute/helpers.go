// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/telekom/cdntrace/internal/logger"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LogHops logs the hops of a record in a structured format.
func LogHops(ctx context.Context, rec Record) {
	log := logger.FromContext(ctx)
	for _, hop := range rec.Hops {
		log.DebugContext(ctx, hop.String())
	}
}

// RemoveOutput removes a probe output file.
// A file that is already gone is not an error.
func RemoveOutput(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove probe output: %w", err)
	}
	return nil
}

// wrapError wraps an error with a message and logs it.
// It also records the error in the current OpenTelemetry span.
func wrapError(ctx context.Context, err error, msg string, args ...any) error {
	if err == nil {
		return nil
	}
	log := logger.FromContext(ctx)
	span := trace.SpanFromContext(ctx)
	caser := cases.Title(language.English)

	formatted := fmt.Sprintf(msg, args...)
	log.ErrorContext(ctx, caser.String(formatted), "error", err)
	span.SetStatus(codes.Error, formatted)
	span.RecordError(err)
	return fmt.Errorf("%s: %w", formatted, err)
}
