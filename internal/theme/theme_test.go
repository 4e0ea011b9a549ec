package theme

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func cookieValue(t *testing.T, rec *httptest.ResponseRecorder) (string, bool) {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c.Value, true
		}
	}
	return "", false
}

func TestParse(t *testing.T) {
	require.Equal(t, Dark, Parse("dark"))
	require.Equal(t, Light, Parse("light"))
	require.Equal(t, Light, Parse("purple"))
	require.Equal(t, Light, Parse(""))
	require.Equal(t, Dark, Light.Toggle())
	require.Equal(t, Light, Dark.Toggle())
	require.Equal(t, "theme-dark", Dark.BodyClass())
	require.Empty(t, Light.BodyClass())
}

func TestMiddlewarePersistsLightOnFirstVisit(t *testing.T) {
	var seen Theme
	h := Middleware(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, Light, seen)
	v, ok := cookieValue(t, rec)
	require.True(t, ok)
	require.Equal(t, "light", v)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "dark"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, Dark, seen)
	_, ok = cookieValue(t, rec)
	require.False(t, ok, "an existing preference is not rewritten")
}

func TestToggleHandler(t *testing.T) {
	h := Middleware(false)(ToggleHandler(false))

	req := httptest.NewRequest(http.MethodPost, "/theme", nil)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "light"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"theme":"dark","bodyClass":"theme-dark"}`, rec.Body.String())
	v, _ := cookieValue(t, rec)
	require.Equal(t, "dark", v)

	form := url.Values{"return_to": {"/case-studies/abc"}}
	req = httptest.NewRequest(http.MethodPost, "/theme", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "dark"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/case-studies/abc", rec.Header().Get("Location"))
	v, _ = cookieValue(t, rec)
	require.Equal(t, "light", v)
}

func TestReturnPathStaysOnSite(t *testing.T) {
	require.Equal(t, "/about", returnPath("/about"))
	require.Equal(t, "/", returnPath("//evil.example"))
	require.Equal(t, "/", returnPath("https://evil.example"))
	require.Equal(t, "/", returnPath(""))
}
