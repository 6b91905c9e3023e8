// Package contextkeys provides centralized context key definitions
//
// IMPORTANT: All context keys used across the application must be defined here.
// This prevents typos, documents dependencies, and makes key usage discoverable.
package contextkeys

import "context"

// Key is the type for context keys to prevent collisions
type Key string

const (
	// SessionKey contains *auth.SessionClaims
	// Set by: middleware.SessionMiddleware (pkg/middleware/session.go)
	// Required by: all protected handlers
	SessionKey Key = "session_claims"

	// RequestIDKey contains the request ID string (UUID)
	// Set by: middleware.RequestLogging
	// Used by: logger enrichment
	RequestIDKey Key = "request_id"

	// LoggerKey contains *observability.Logger
	// Set by: middleware.RequestLogging
	// Used by: handlers that log with request context
	LoggerKey Key = "logger"
)

// WithValue wraps context.WithValue with a typed key
func WithValue(ctx context.Context, key Key, value interface{}) context.Context {
	return context.WithValue(ctx, key, value)
}

// Value retrieves a value stored under a typed key
func Value(ctx context.Context, key Key) interface{} {
	return ctx.Value(key)
}
