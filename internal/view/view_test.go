package view

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeTemplates(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return dir
}

func baseSet() map[string]string {
	return map[string]string{
		"layouts/base.tmpl":    `{{ define "base" }}<html><title>{{ .Title }}</title>{{ template "footer" . }}{{ template "content" . }}</html>{{ end }}`,
		"partials/footer.tmpl": `{{ define "footer" }}<footer>{{ joinInts .Codes "," }}</footer>{{ end }}`,
		"pages/home.tmpl":      `{{ define "content" }}<main>home {{ json .Data }}</main>{{ end }}`,
		"pages/about.tmpl":     `{{ define "content" }}<main>about</main>{{ end }}`,
	}
}

type pageData struct {
	Title string
	Codes []int
	Data  any
}

func TestRenderExecutesBaseWithPageContent(t *testing.T) {
	t.Parallel()

	r, err := New(writeTemplates(t, baseSet()), false, zap.NewNop())
	require.NoError(t, err)

	names := r.Pages()
	sort.Strings(names)
	require.Equal(t, []string{"about", "home"}, names)

	rec := httptest.NewRecorder()
	err = r.Render(rec, http.StatusTeapot, "home", pageData{Title: "Hi", Codes: []int{104, 105}, Data: map[string]int{"n": 1}})
	require.NoError(t, err)
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	require.Contains(t, body, "<title>Hi</title>")
	require.Contains(t, body, "<footer>104,105</footer>")
	require.Contains(t, body, "home")
	require.NotContains(t, body, "about")

	rec = httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusOK, "about", pageData{}))
	require.Contains(t, rec.Body.String(), "<main>about</main>")
}

func TestRenderUnknownPageWritesNothing(t *testing.T) {
	t.Parallel()

	r, err := New(writeTemplates(t, baseSet()), false, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = r.Render(rec, http.StatusOK, "missing", nil)
	require.ErrorIs(t, err, ErrUnknownPage)
	require.Zero(t, rec.Body.Len())
	require.Empty(t, rec.Header().Get("Content-Type"))
}

func TestRenderExecutionErrorWritesNothing(t *testing.T) {
	t.Parallel()

	files := baseSet()
	files["pages/broken.tmpl"] = `{{ define "content" }}{{ .Missing.Field }}{{ end }}`
	r, err := New(writeTemplates(t, files), false, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = r.Render(rec, http.StatusOK, "broken", pageData{})
	require.Error(t, err)
	require.Zero(t, rec.Body.Len())
}

func TestNewRejectsLayoutsWithoutBase(t *testing.T) {
	t.Parallel()

	files := baseSet()
	files["layouts/base.tmpl"] = `{{ define "shell" }}{{ end }}`
	_, err := New(writeTemplates(t, files), false, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), `"base"`)

	_, err = New(t.TempDir(), false, nil)
	require.Error(t, err)
}

func TestWatchReparsesChangedTemplates(t *testing.T) {
	t.Parallel()

	dir := writeTemplates(t, baseSet())
	r, err := New(dir, true, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, r.Watch(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "pages", "about.tmpl"),
		[]byte(`{{ define "content" }}<main>updated</main>{{ end }}`), 0o644))

	require.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		if err := r.Render(rec, http.StatusOK, "about", pageData{}); err != nil {
			return false
		}
		return strings.Contains(rec.Body.String(), "updated")
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatchIsNoopOutsideDev(t *testing.T) {
	t.Parallel()

	r, err := New(writeTemplates(t, baseSet()), false, nil)
	require.NoError(t, err)
	require.NoError(t, r.Watch(context.Background()))
}

func TestFuncsJSON(t *testing.T) {
	t.Parallel()

	out, err := toJSON(map[string][]string{"listing": {"a", "b"}})
	require.NoError(t, err)
	require.JSONEq(t, `{"listing":["a","b"]}`, out)

	require.Equal(t, "", joinInts(nil, ","))
	require.Contains(t, Funcs(), "markdown")
}
