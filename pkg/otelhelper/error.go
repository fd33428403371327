package otelhelper

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrorKindKey classifies a recorded failure.
const ErrorKindKey = "flowforge.error.kind"

// Error kinds.
const (
	ErrorKindTimeout   = "timeout"
	ErrorKindCancelled = "cancelled"
	ErrorKindFailure   = "failure"
)

// ErrorKind tells deadline and cancellation failures apart from ordinary ones.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorKindTimeout
	case errors.Is(err, context.Canceled):
		return ErrorKindCancelled
	default:
		return ErrorKindFailure
	}
}

// SetError marks span as failed and records err with its kind plus attrs.
func SetError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	attrs = append(attrs, attribute.String(ErrorKindKey, ErrorKind(err)))

	span.SetAttributes(attrs...)
	span.RecordError(err, trace.WithAttributes(attrs...))
	span.SetStatus(codes.Error, err.Error())
}
