// Package requestid carries the per-request identifier through context.Context
// so it reaches logs and outbound quote-service calls.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the header used to propagate the request ID downstream.
const Header = "X-Request-ID"

type ctxKey struct{}

// New generates a random request ID.
func New() string {
	return uuid.NewString()
}

// FromContext returns the request ID stored in ctx, or "" if none.
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}

	return ""
}

// WithID stores id in the context.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}
