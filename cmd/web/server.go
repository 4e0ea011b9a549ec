package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"casefolio.dev/portfolio-web/internal/cms"
	"casefolio.dev/portfolio-web/internal/config"
	"casefolio.dev/portfolio-web/internal/handlers"
	"casefolio.dev/portfolio-web/internal/metrics"
	mw "casefolio.dev/portfolio-web/internal/middleware"
	"casefolio.dev/portfolio-web/internal/observability"
	"casefolio.dev/portfolio-web/internal/site"
	"casefolio.dev/portfolio-web/internal/theme"
	"casefolio.dev/portfolio-web/internal/view"
)

type application struct {
	cfg      config.Config
	logger   *zap.Logger
	views    *view.Renderer
	registry *prom.Registry
	pages    *handlers.Handlers
}

func newApplication(cfg config.Config, logger *zap.Logger, clientOpts ...cms.Option) (*application, error) {
	siteCopy, err := site.Load(cfg.Paths.SiteFile)
	if err != nil {
		return nil, fmt.Errorf("load site copy: %w", err)
	}
	views, err := view.New(cfg.Paths.Templates, cfg.Dev, logger)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	reg := prom.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	pages := handlers.New(handlers.Deps{
		Site:          siteCopy,
		Credentials:   cfg.CMS,
		ClientOptions: clientOpts,
		View:          views,
		Recorder:      metrics.NewPrometheusRecorder(reg),
		Logger:        logger,
		Analytics: handlers.Analytics{
			GA4MeasurementID: cfg.Analytics.MeasurementID,
			Debug:            cfg.Analytics.Debug,
		},
	})

	return &application{
		cfg:      cfg,
		logger:   logger,
		views:    views,
		registry: reg,
		pages:    pages,
	}, nil
}

func (app *application) routes() http.Handler {
	secure := app.cfg.Server.SecureCookies

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.Preview)
	r.Use(observability.RequestLogger(app.logger))
	r.Use(observability.Recovery(app.logger, app.pages.ServerError))

	// Probes and static files skip theme and CSRF cookies.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if app.cfg.Metrics.Enabled {
		r.Method(http.MethodGet, "/metrics", metrics.HTTPHandler(app.registry))
	}
	assets := os.DirFS(filepath.Join(app.cfg.Paths.Public, "assets"))
	r.Handle("/assets/*", http.StripPrefix("/assets", mw.AssetsWithCache(assets)))

	r.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.Use(chimw.Timeout(app.cfg.Server.RequestTimeout))
		r.Use(theme.Middleware(secure))
		r.Use(mw.CSRF(secure))

		r.Get("/", app.pages.Home)
		r.Get("/case-studies/{slug}", app.pages.CaseStudy)
		r.Get("/about", app.pages.About)
		r.Post("/theme", theme.ToggleHandler(secure))
		// Unmatched routes render the 404 page with the group's theme and CSRF context.
		r.NotFound(app.pages.NotFound)
	})
	return r
}
