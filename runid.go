package reactloop

import "context"

type runIDKey struct{}

// WithRunID returns a context carrying the given run id.
// The executor sets it on the context passed to agents, tools and hooks.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext returns the run id stored in ctx, or "" if none.
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
