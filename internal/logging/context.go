package logging

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType classifies a record for filtering (scan_start, driver_absent, ...).
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to try next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldDriver names the vendor backend (nvidia, vaapi).
	FieldDriver = "driver"
	// FieldDevice identifies one device: a CUDA label or a render node path.
	FieldDevice = "device"
	// FieldScanID correlates every record of one scan.
	FieldScanID = "scan_id"
)

type scanIDKey struct{}

// WithScanID returns a context carrying a fresh scan identifier.
func WithScanID(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, scanIDKey{}, uuid.New())
}

// ScanIDFromContext returns the identifier set by WithScanID.
func ScanIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	id, ok := ctx.Value(scanIDKey{}).(uuid.UUID)
	return id, ok
}

// WithContext returns a logger tagged with the scan identifier in ctx, if any.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	id, ok := ScanIDFromContext(ctx)
	if !ok {
		return logger
	}
	return logger.With(String(FieldScanID, id.String()))
}
