package logging

import "context"

type contextKey string

const documentKey contextKey = "document"

// WithDocument adds the active document path to the context.
func WithDocument(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, documentKey, path)
}

// GetDocument retrieves the active document path from the context.
// Returns empty string if not present.
func GetDocument(ctx context.Context) string {
	if path, ok := ctx.Value(documentKey).(string); ok {
		return path
	}
	return ""
}
