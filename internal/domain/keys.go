package domain

import "context"

type CtxKey string

const (
	KeyScope     CtxKey = "Scope"
	KeyRequestID CtxKey = "RequestID"
)

// DefaultScope is used when no authenticated subject is attached to the request.
const DefaultScope = "default"

func WithScope(ctx context.Context, scope string) context.Context {
	return context.WithValue(ctx, KeyScope, scope)
}

// ScopeFromContext returns the storage scope of the caller.
func ScopeFromContext(ctx context.Context) string {
	if scope, ok := ctx.Value(KeyScope).(string); ok && scope != "" {
		return scope
	}
	return DefaultScope
}
