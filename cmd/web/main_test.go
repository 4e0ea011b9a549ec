package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"casefolio.dev/portfolio-web/internal/cms"
	"casefolio.dev/portfolio-web/internal/config"
	mw "casefolio.dev/portfolio-web/internal/middleware"
	"casefolio.dev/portfolio-web/internal/theme"
)

const twoCaseStudies = `{
  "sys": {"type": "Array"},
  "total": 2,
  "items": [
    {"sys": {"id": "cs-1", "type": "Entry"}, "fields": {"title": "Checkout Redesign", "slug": "checkout-redesign", "isFeatured": true}},
    {"sys": {"id": "cs-2", "type": "Entry"}, "fields": {"title": "Internal Tools", "slug": "internal-tools", "isFeatured": false}}
  ]
}`

const oneCaseStudy = `{
  "sys": {"type": "Array"},
  "total": 1,
  "items": [{
    "sys": {"id": "cs-1", "type": "Entry"},
    "fields": {
      "title": "Checkout Redesign",
      "subtitle": "Fewer steps to pay",
      "slug": "checkout-redesign",
      "overview": {"nodeType": "document", "data": {}, "content": [
        {"nodeType": "paragraph", "data": {}, "content": [{"nodeType": "text", "value": "We cut the flow in half.", "marks": [], "data": {}}]}
      ]}
    }
  }]
}`

const emptyCollection = `{"sys": {"type": "Array"}, "total": 0, "items": []}`

// fakeCMS answers entries requests from a table keyed by content type and
// slug, and counts every request it receives.
type fakeCMS struct {
	srv      *httptest.Server
	requests atomic.Int64
	bodies   map[string]string
}

func newFakeCMS(t *testing.T, bodies map[string]string) *fakeCMS {
	t.Helper()
	f := &fakeCMS{bodies: bodies}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		q := r.URL.Query()
		key := q.Get("content_type")
		if slug := q.Get("fields.slug"); slug != "" {
			key += "/" + slug
		}
		body, ok := f.bodies[key]
		if !ok {
			body = emptyCollection
		}
		w.Header().Set("Content-Type", "application/vnd.contentful.delivery.v1+json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func testConfig(t *testing.T, env map[string]string) config.Config {
	t.Helper()
	values := map[string]string{
		"PORTFOLIO_TEMPLATES_DIR": "../../templates",
		"PORTFOLIO_PUBLIC_DIR":    "../../public",
		"PORTFOLIO_METRICS":       "true",
	}
	for k, v := range env {
		values[k] = v
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	cfg, err := config.Load(ctx, config.WithEnvFile(""), config.WithoutSystemEnv(), config.WithEnvMap(values))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

var fullCredentials = map[string]string{
	cms.EnvSpaceID:       "space1",
	cms.EnvDeliveryToken: "deliver",
	cms.EnvPreviewToken:  "peek",
}

// newTestRouter builds the same router as main() against fake.
func newTestRouter(t *testing.T, fake *fakeCMS, env map[string]string) http.Handler {
	t.Helper()
	var opts []cms.Option
	if fake != nil {
		opts = append(opts, cms.WithBaseURL(fake.srv.URL), cms.WithHTTPClient(fake.srv.Client()))
	}
	app, err := newApplication(testConfig(t, env), zap.NewNop(), opts...)
	if err != nil {
		t.Fatalf("newApplication: %v", err)
	}
	return app.routes()
}

func get(t *testing.T, srv http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func parseDoc(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// lastCookie returns the final Set-Cookie for name; later headers win in browsers.
func lastCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}

func TestHealthzOK(t *testing.T) {
	srv := newTestRouter(t, nil, nil)
	rec := get(t, srv, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "ok" {
		t.Fatalf("expected body 'ok', got %q", got)
	}
	if c := lastCookie(rec, theme.CookieName); c != nil {
		t.Fatalf("healthz should not set the theme cookie, got %v", c)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	fake := newFakeCMS(t, nil)
	srv := newTestRouter(t, fake, fullCredentials)
	_ = get(t, srv, "/")

	rec := get(t, srv, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Fatalf("expected go collector output in /metrics")
	}

	srv = newTestRouter(t, fake, map[string]string{"PORTFOLIO_METRICS": "false"})
	if rec := get(t, srv, "/metrics"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 with metrics disabled, got %d", rec.Code)
	}
}

func TestAssetsServedWithCacheHeaders(t *testing.T) {
	srv := newTestRouter(t, nil, nil)
	rec := get(t, srv, "/assets/js/app.js")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("ETag") == "" {
		t.Fatalf("expected ETag on asset response")
	}
	if !strings.Contains(rec.Body.String(), "initSectionNav") {
		t.Fatalf("unexpected asset body")
	}
}

func TestListingEmpty(t *testing.T) {
	fake := newFakeCMS(t, nil)
	srv := newTestRouter(t, fake, fullCredentials)

	rec := get(t, srv, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	doc := parseDoc(t, rec)
	if got := strings.TrimSpace(doc.Find(".empty-state").Text()); got != "No projects found." {
		t.Fatalf("expected empty state, got %q", got)
	}
	if doc.Find("[data-partition]").Length() != 0 {
		t.Fatalf("empty listing should not render partitions")
	}
}

func TestListingRendersBothPartitionsFromOneFetch(t *testing.T) {
	fake := newFakeCMS(t, map[string]string{"caseStudy": twoCaseStudies})
	srv := newTestRouter(t, fake, fullCredentials)

	rec := get(t, srv, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	if n := fake.requests.Load(); n != 1 {
		t.Fatalf("expected one CMS request, got %d", n)
	}
	doc := parseDoc(t, rec)

	featured := doc.Find(`[data-partition="featured"]`)
	other := doc.Find(`[data-partition="other"]`)
	if _, hidden := featured.Attr("hidden"); hidden {
		t.Fatalf("featured partition should be visible by default")
	}
	if _, hidden := other.Attr("hidden"); !hidden {
		t.Fatalf("other partition should start hidden")
	}
	if got := strings.TrimSpace(featured.Find("h3").Text()); got != "Checkout Redesign" {
		t.Fatalf("featured title = %q", got)
	}
	if got := strings.TrimSpace(other.Find("h3").Text()); got != "Internal Tools" {
		t.Fatalf("other title = %q", got)
	}
	href, _ := featured.Find("h3 a").Attr("href")
	if href != "/case-studies/checkout-redesign" {
		t.Fatalf("unexpected case study href %q", href)
	}
	if doc.Find(`.project-item [class*="placeholder"]`).Length() != 2 {
		t.Fatalf("expected image placeholders for records without images")
	}

	// The filter only selects the initial partition.
	rec = get(t, srv, "/?filter=other")
	doc = parseDoc(t, rec)
	if _, hidden := doc.Find(`[data-partition="featured"]`).Attr("hidden"); !hidden {
		t.Fatalf("featured partition should be hidden for filter=other")
	}
	if pressed, _ := doc.Find(`[data-filter-button="other"]`).Attr("aria-pressed"); pressed != "true" {
		t.Fatalf("other filter button should be pressed, got %q", pressed)
	}
	otherHref, _ := doc.Find(`[data-filter-button="featured"]`).Attr("href")
	if strings.Contains(otherHref, "filter=") || !strings.HasSuffix(otherHref, "#my-work") {
		t.Fatalf("featured filter href should drop the filter param, got %q", otherHref)
	}
}

func TestListingMissingCredentialsShowsError(t *testing.T) {
	fake := newFakeCMS(t, nil)
	srv := newTestRouter(t, fake, nil)

	rec := get(t, srv, "/")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if n := fake.requests.Load(); n != 0 {
		t.Fatalf("missing credentials must not reach the CMS, got %d requests", n)
	}
	doc := parseDoc(t, rec)
	msg := doc.Find(".text-danger").Text()
	if !strings.Contains(msg, cms.EnvSpaceID) || !strings.Contains(msg, cms.EnvDeliveryToken) {
		t.Fatalf("error should name the missing variables, got %q", msg)
	}
}

func TestCaseStudyNotFound(t *testing.T) {
	fake := newFakeCMS(t, nil)
	srv := newTestRouter(t, fake, fullCredentials)

	rec := get(t, srv, "/case-studies/abc")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d; body=%s", rec.Code, rec.Body.String())
	}
	doc := parseDoc(t, rec)
	if !strings.Contains(doc.Find("main").Text(), "Case study not found") {
		t.Fatalf("expected not-found message")
	}
	if robots, _ := doc.Find(`meta[name="robots"]`).Attr("content"); !strings.Contains(robots, "noindex") {
		t.Fatalf("not-found case study should be noindex, got %q", robots)
	}
}

func TestCaseStudyRendersSectionsAndNav(t *testing.T) {
	fake := newFakeCMS(t, map[string]string{"caseStudy/checkout-redesign": oneCaseStudy})
	srv := newTestRouter(t, fake, fullCredentials)

	rec := get(t, srv, "/case-studies/checkout-redesign")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	doc := parseDoc(t, rec)
	if got := strings.TrimSpace(doc.Find("h1").First().Text()); got != "Checkout Redesign" {
		t.Fatalf("unexpected heading %q", got)
	}
	if !strings.Contains(doc.Find("title").Text(), "Checkout Redesign") {
		t.Fatalf("title should name the case study, got %q", doc.Find("title").Text())
	}
	section := doc.Find("section.project-section").First()
	if got := strings.TrimSpace(section.Find("h2").Text()); got != "Overview" {
		t.Fatalf("unexpected section heading %q", got)
	}
	if !strings.Contains(section.Text(), "We cut the flow in half.") {
		t.Fatalf("section body missing")
	}
	id, ok := section.Find("h2").Attr("id")
	if !ok || id == "" {
		t.Fatalf("section heading should carry an anchor id")
	}
	link := doc.Find("[data-section-nav] [data-section-link]").First()
	if target, _ := link.Attr("data-section-link"); target != id {
		t.Fatalf("section link targets %q, heading id is %q", target, id)
	}
	if back, _ := doc.Find("[data-section-nav] a").First().Attr("href"); back != "/#my-work" {
		t.Fatalf("unexpected back link %q", back)
	}
}

func TestThemeToggleRoundTrip(t *testing.T) {
	fake := newFakeCMS(t, nil)
	srv := newTestRouter(t, fake, fullCredentials)

	// First visit persists light.
	rec := get(t, srv, "/")
	themeCookie := lastCookie(rec, theme.CookieName)
	if themeCookie == nil || themeCookie.Value != "light" {
		t.Fatalf("expected light theme cookie on first visit, got %v", themeCookie)
	}
	csrfCookie := lastCookie(rec, mw.CSRFCookieName)
	if csrfCookie == nil {
		t.Fatalf("missing csrf cookie")
	}
	if class, _ := parseDoc(t, rec).Find("body").Attr("class"); strings.Contains(class, "theme-dark") {
		t.Fatalf("light page should not carry theme-dark, got %q", class)
	}

	req := httptest.NewRequest(http.MethodPost, "/theme", nil)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(mw.CSRFHeader, csrfCookie.Value)
	req.AddCookie(csrfCookie)
	req.AddCookie(themeCookie)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from toggle, got %d; body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"theme":"dark"`) {
		t.Fatalf("unexpected toggle payload %s", rec.Body.String())
	}
	themeCookie = lastCookie(rec, theme.CookieName)
	if themeCookie == nil || themeCookie.Value != "dark" {
		t.Fatalf("expected dark theme cookie, got %v", themeCookie)
	}

	// Reload keeps the preference.
	rec = get(t, srv, "/about", themeCookie, csrfCookie)
	if class, _ := parseDoc(t, rec).Find("body").Attr("class"); !strings.Contains(class, "theme-dark") {
		t.Fatalf("expected theme-dark after reload, got %q", class)
	}
}

func TestThemeToggleFormRedirectsBack(t *testing.T) {
	srv := newTestRouter(t, nil, nil)
	token := strings.Repeat("a", 32)
	form := url.Values{"csrf_token": {token}, "return_to": {"/about"}}
	req := httptest.NewRequest(http.MethodPost, "/theme", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: mw.CSRFCookieName, Value: token})
	req.AddCookie(&http.Cookie{Name: theme.CookieName, Value: "dark"})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/about" {
		t.Fatalf("expected redirect to /about, got %q", loc)
	}
	if c := lastCookie(rec, theme.CookieName); c == nil || c.Value != "light" {
		t.Fatalf("expected light theme cookie, got %v", c)
	}
}

func TestThemeToggleRequiresCSRF(t *testing.T) {
	srv := newTestRouter(t, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/theme", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for missing CSRF, got %d; body=%s", rec.Code, rec.Body.String())
	}
}

func TestUnknownRouteRendersNotFoundPage(t *testing.T) {
	srv := newTestRouter(t, nil, nil)
	rec := get(t, srv, "/no/such/page")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	doc := parseDoc(t, rec)
	if got := doc.Find("title").Text(); !strings.Contains(got, "Page Not Found") {
		t.Fatalf("unexpected 404 title %q", got)
	}
	if lastCookie(rec, theme.CookieName) == nil {
		t.Fatalf("404 page should run inside the page middleware")
	}
}

func TestPreviewModeUsesPreviewToken(t *testing.T) {
	var auth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, emptyCollection)
	}))
	t.Cleanup(srv.Close)

	app, err := newApplication(testConfig(t, fullCredentials), zap.NewNop(), cms.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("newApplication: %v", err)
	}
	rec := get(t, app.routes(), "/?preview=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got, _ := auth.Load().(string); got != "Bearer peek" {
		t.Fatalf("expected preview token, got %q", got)
	}
	if robots, _ := parseDoc(t, rec).Find(`meta[name="robots"]`).Attr("content"); !strings.Contains(robots, "noindex") {
		t.Fatalf("preview pages must be noindex, got %q", robots)
	}
}

func TestCheckCredentials(t *testing.T) {
	var out bytes.Buffer
	err := checkCredentials(&out, cms.Credentials{SpaceID: "s"}, false)
	if err == nil {
		t.Fatalf("expected missing credentials error")
	}
	if !strings.Contains(out.String(), cms.EnvDeliveryToken) || !strings.Contains(out.String(), "missing") {
		t.Fatalf("unexpected table:\n%s", out.String())
	}

	out.Reset()
	if err := checkCredentials(&out, cms.Credentials{SpaceID: "s", PreviewToken: "p"}, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "preview credentials configured") {
		t.Fatalf("unexpected output %q", out.String())
	}
}
