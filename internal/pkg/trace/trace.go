// Package trace carries the per-request correlation ID through
// context.Context so layers below the transport can tag logs and audit
// events without depending on Echo.
package trace

import "context"

type ctxKey struct{}

// NewContext returns a copy of ctx carrying the trace ID.
func NewContext(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, traceID)
}

// FromContext returns the trace ID attached to ctx, or "" when absent.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
