package middleware

import (
	"net/http"
	"strings"
)

// PreviewParam is the query flag that switches a page to draft content.
const PreviewParam = "preview"

// Preview reads ?preview=true and marks the request so handlers pick the preview client.
// Preview responses are never cached.
func Preview(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		on := strings.EqualFold(r.URL.Query().Get(PreviewParam), "true")
		if on {
			w.Header().Set("Cache-Control", "no-store")
			w.Header().Set("X-Robots-Tag", "noindex")
		}
		next.ServeHTTP(w, r.WithContext(WithPreview(r.Context(), on)))
	})
}
