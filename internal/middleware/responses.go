package middleware

import (
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
)

type errorResponse struct {
	Error string `json:"error"`
}

// wantsJSON reports whether the caller is the page script rather than a browser navigation.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
		return
	}
	http.Error(w, msg, code)
}
