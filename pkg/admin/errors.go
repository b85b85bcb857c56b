// Package admin implements the /__admin REST surface (spec.md 4.9/6):
// mapping CRUD, request log access, and scenario state control. This
// package is the boundary the core's matching engine is deliberately
// agnostic to (spec.md 1, "Out of scope"); it only calls into
// pkg/engine's ServerContext.
package admin

import "log/slog"

// Safe error messages for client responses: the full error is always
// logged server-side, never returned to the caller, preventing
// information leakage through the admin API (spec.md 7).
const (
	ErrMsgInternalError    = "an internal error occurred"
	ErrMsgInvalidJSON      = "invalid JSON in request body"
	ErrMsgValidationFailed = "request failed schema validation"
	ErrMsgNotFound         = "resource not found"
)

// sanitizeError logs the full error server-side and returns a generic
// message safe to send to an admin API caller.
func sanitizeError(err error, log *slog.Logger, operation string) string {
	if log != nil {
		log.Error("admin operation failed", "operation", operation, "error", err)
	}
	return ErrMsgInternalError
}

// sanitizeValidationError logs a validation failure and returns a message
// that names the failure class without exposing internal schema detail.
func sanitizeValidationError(err error, log *slog.Logger) string {
	if log != nil {
		log.Warn("admin request failed validation", "error", err)
	}
	return ErrMsgValidationFailed
}
