package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"casefolio.dev/portfolio-web/internal/config"
	"casefolio.dev/portfolio-web/internal/observability"
)

// CLI is the command-line surface. Flags override the environment.
type CLI struct {
	EnvFile string `name:"env-file" help:"Path to a .env file layered under the process environment." default:".env"`

	Serve ServeCmd `cmd:"" default:"withargs" help:"Serve the portfolio (default)."`
	Check CheckCmd `cmd:"" help:"Report which CMS credentials are configured."`
}

// ServeCmd runs the HTTP server.
type ServeCmd struct {
	Port      string `help:"Listen port; overrides PORTFOLIO_PORT and PORT."`
	Templates string `help:"Templates directory; overrides PORTFOLIO_TEMPLATES_DIR."`
	Public    string `help:"Public assets directory; overrides PORTFOLIO_PUBLIC_DIR."`
	Site      string `help:"Site copy override (YAML); overrides PORTFOLIO_SITE_FILE."`
	Dev       bool   `help:"Reload templates when they change."`
}

// Run starts the server and blocks until SIGINT/SIGTERM.
func (s *ServeCmd) Run(cli *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, config.WithEnvFile(cli.EnvFile))
	if err != nil {
		return err
	}
	s.apply(&cfg)

	logger, err := observability.NewLoggerWithLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	app, err := newApplication(cfg, logger)
	if err != nil {
		return err
	}
	if err := app.views.Watch(ctx); err != nil {
		logger.Warn("template watcher unavailable", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           app.routes(),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("web listening",
			zap.String("addr", srv.Addr),
			zap.Bool("dev", cfg.Dev),
			zap.Bool("metrics", cfg.Metrics.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *ServeCmd) apply(cfg *config.Config) {
	if s.Port != "" {
		cfg.Server.Port = s.Port
	}
	if s.Templates != "" {
		cfg.Paths.Templates = s.Templates
	}
	if s.Public != "" {
		cfg.Paths.Public = s.Public
	}
	if s.Site != "" {
		cfg.Paths.SiteFile = s.Site
	}
	if s.Dev {
		cfg.Dev = true
	}
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("portfolio-web"),
		kong.Description("Server-rendered design portfolio backed by a headless CMS."),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(kctx.Run(&cli))
}
