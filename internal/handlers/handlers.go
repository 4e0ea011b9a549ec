// Package handlers serves the portfolio pages. Each request mounts a page
// controller, waits for it to settle and renders the resulting state; fetch
// failures become page states and never escape to the router.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"casefolio.dev/portfolio-web/internal/cms"
	"casefolio.dev/portfolio-web/internal/metrics"
	"casefolio.dev/portfolio-web/internal/middleware"
	"casefolio.dev/portfolio-web/internal/observability"
	"casefolio.dev/portfolio-web/internal/page"
	"casefolio.dev/portfolio-web/internal/richtext"
	"casefolio.dev/portfolio-web/internal/sectionnav"
	"casefolio.dev/portfolio-web/internal/site"
)

// View executes a named page template.
type View interface {
	Render(w http.ResponseWriter, status int, page string, data any) error
}

// Deps are the collaborators of Handlers.
type Deps struct {
	Site        *site.Site
	Credentials cms.Credentials
	// ClientOptions are applied to every CMS client, e.g. a custom transport in tests.
	ClientOptions []cms.Option
	View          View
	Renderer      *richtext.Renderer
	Recorder      metrics.Recorder
	Logger        *zap.Logger
	Analytics     Analytics
	HeaderOffset  float64
}

// Handlers renders the portfolio pages.
type Handlers struct {
	site         *site.Site
	creds        cms.Credentials
	clientOpts   []cms.Option
	view         View
	renderer     *richtext.Renderer
	recorder     metrics.Recorder
	logger       *zap.Logger
	analytics    Analytics
	headerOffset float64
}

// New wires Handlers. Missing optional collaborators get defaults.
func New(d Deps) *Handlers {
	h := &Handlers{
		site:         d.Site,
		creds:        d.Credentials,
		clientOpts:   d.ClientOptions,
		view:         d.View,
		renderer:     d.Renderer,
		recorder:     d.Recorder,
		logger:       d.Logger,
		analytics:    d.Analytics,
		headerOffset: d.HeaderOffset,
	}
	if h.site == nil {
		h.site = site.Default()
	}
	if h.renderer == nil {
		h.renderer = richtext.New()
	}
	if h.recorder == nil {
		h.recorder = metrics.NoopRecorder{}
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	if h.headerOffset <= 0 {
		h.headerOffset = sectionnav.DefaultHeaderOffset
	}
	return h
}

// client binds a CMS client for the request's mode.
func (h *Handlers) client(ctx context.Context, preview bool) (*cms.Client, error) {
	opts := append([]cms.Option{
		cms.WithLogger(observability.FromContext(ctx)),
		cms.WithRecorder(h.recorder),
	}, h.clientOpts...)
	return cms.SelectClient(h.creds, preview, opts...)
}

// settle mounts ctrl for key, waits for the outcome and detaches it. A request
// that ends before the load settles is reported as an error state.
func settle[K comparable, T any](ctx context.Context, ctrl *page.Controller[K, T], key K) (page.State[T], string) {
	ctrl.Load(ctx, key)
	st := ctrl.Wait(ctx)
	title := ctrl.Title()
	ctrl.Unmount()
	if !st.Settled() {
		err := ctx.Err()
		if err == nil {
			err = errors.New("page load did not settle")
		}
		st = page.State[T]{Phase: page.PhaseError, Err: err, Message: "The request timed out. Please try again."}
	}
	return st, title
}

// status maps a settled state to the HTTP status of the response.
func status[T any](st page.State[T]) int {
	switch st.Phase {
	case page.PhaseReady:
		return http.StatusOK
	case page.PhaseNotFound:
		return http.StatusNotFound
	}
	if cms.IsConfigError(st.Err) {
		return http.StatusServiceUnavailable
	}
	var qe *cms.QueryError
	if errors.As(st.Err, &qe) {
		return http.StatusBadGateway
	}
	if errors.Is(st.Err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name string, data PageData) {
	if err := h.view.Render(w, status, name, data); err != nil {
		observability.FromContext(r.Context()).Error("render page",
			zap.String("page", name),
			zap.Error(err),
		)
		if !wrote(w) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}

func wrote(w http.ResponseWriter) bool {
	rec, ok := w.(*middleware.ResponseRecorder)
	return ok && rec.Written()
}
