// Package theme owns the light/dark preference. Middleware is the only place the
// preference is read from or first written to the client; handlers and templates
// read it from the request context.
package theme

import (
	"context"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// Theme is the visitor's colour scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// CookieName holds the persisted preference.
const CookieName = "theme"

const cookieMaxAge = 365 * 24 * time.Hour

// Parse maps a stored value to a Theme. Only "dark" selects dark.
func Parse(s string) Theme {
	if strings.TrimSpace(s) == string(Dark) {
		return Dark
	}
	return Light
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// IsDark reports whether t is the dark theme.
func (t Theme) IsDark() bool { return t == Dark }

// BodyClass is the class the layout puts on <body>.
func (t Theme) BodyClass() string {
	if t == Dark {
		return "theme-dark"
	}
	return ""
}

func (t Theme) String() string { return string(Parse(string(t))) }

type ctxKey struct{}

// WithContext stores t on ctx.
func WithContext(ctx context.Context, t Theme) context.Context {
	return context.WithValue(ctx, ctxKey{}, t)
}

// FromContext returns the request theme, Light when none was set.
func FromContext(ctx context.Context) Theme {
	if t, ok := ctx.Value(ctxKey{}).(Theme); ok {
		return t
	}
	return Light
}

// Middleware resolves the preference from the theme cookie. A first visit
// persists "light" so later requests see an explicit choice.
func Middleware(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t := Light
			if c, err := r.Cookie(CookieName); err == nil {
				t = Parse(c.Value)
			} else {
				setCookie(w, Light, secure)
			}
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), t)))
		})
	}
}

type toggleResponse struct {
	Theme     Theme  `json:"theme"`
	BodyClass string `json:"bodyClass"`
}

// ToggleHandler flips and persists the preference. Script callers get JSON;
// form posts are redirected back to the page named in return_to.
func ToggleHandler(secure bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next := FromContext(r.Context()).Toggle()
		setCookie(w, next, secure)
		if strings.Contains(r.Header.Get("Accept"), "application/json") {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Header().Set("Cache-Control", "no-store")
			_ = json.NewEncoder(w).Encode(toggleResponse{Theme: next, BodyClass: next.BodyClass()})
			return
		}
		http.Redirect(w, r, returnPath(r.PostFormValue("return_to")), http.StatusSeeOther)
	}
}

func returnPath(p string) string {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.ContainsAny(p, "\\\r\n") {
		return "/"
	}
	return p
}

func setCookie(w http.ResponseWriter, t Theme, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    string(t),
		Path:     "/",
		HttpOnly: false,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(cookieMaxAge / time.Second),
	})
}
