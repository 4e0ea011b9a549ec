package middleware

import (
	"context"
)

// context keys are unexported to avoid collisions
type ctxKey string

const (
	ctxKeyPreview ctxKey = "preview"
	ctxKeyCSRF    ctxKey = "csrf"
)

// WithPreview marks the request as reading draft content.
func WithPreview(ctx context.Context, on bool) context.Context {
	return context.WithValue(ctx, ctxKeyPreview, on)
}

// IsPreview reports whether draft content was requested.
func IsPreview(ctx context.Context) bool {
	v, _ := ctx.Value(ctxKeyPreview).(bool)
	return v
}

// WithCSRFToken stores the request's CSRF token.
func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKeyCSRF, token)
}

// CSRFToken returns the token templates embed in forms.
func CSRFToken(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyCSRF).(string)
	return v
}
