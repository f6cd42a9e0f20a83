package core

import "context"

// Context keys for run options
type contextKey string

const (
	suppressHeaderKey   contextKey = "suppressHeader"
	suppressProgressKey contextKey = "suppressProgress"
)

// withSuppressHeader sets whether headers should be suppressed in the context
func withSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

// withSuppressProgress disables loader progress bars.
func withSuppressProgress(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressProgressKey, true)
}

func shouldSuppressProgress(ctx context.Context) bool {
	suppress, ok := ctx.Value(suppressProgressKey).(bool)
	return ok && suppress
}

// quiet marks a run as non-interactive, as used by the MCP server.
func quiet(ctx context.Context) context.Context {
	return withSuppressProgress(withSuppressHeader(ctx))
}
