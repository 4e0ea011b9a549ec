// Package config loads runtime settings from the process environment layered
// over an optional .env file.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"casefolio.dev/portfolio-web/internal/cms"
)

const (
	defaultEnvFile         = ".env"
	defaultPort            = "8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultRequestTimeout  = 30 * time.Second
	defaultTemplatesDir    = "templates"
	defaultPublicDir       = "public"
	defaultLogLevel        = "info"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server  ServerConfig
	Paths   PathConfig
	CMS     cms.Credentials
	Dev     bool
	Log       LogConfig
	Metrics   MetricsConfig
	Analytics AnalyticsConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
	// SecureCookies marks theme and CSRF cookies Secure; enable behind HTTPS.
	SecureCookies bool
}

// Addr is the listen address.
func (s ServerConfig) Addr() string { return ":" + s.Port }

// PathConfig locates templates, static files and the optional site copy override.
type PathConfig struct {
	Templates string
	Public    string
	SiteFile  string
}

// LogConfig selects the log level.
type LogConfig struct {
	Level string
}

// MetricsConfig toggles the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool
}

// AnalyticsConfig enables the GA4 tag. An empty measurement id disables it.
type AnalyticsConfig struct {
	MeasurementID string
	Debug         bool
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option configures Load.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path. An empty path disables it.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects explicit values that take precedence over every other source.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv ignores the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load resolves the configuration. Precedence: explicit map, process
// environment, then the .env file. CMS credentials are not validated here;
// each page checks the ones it needs when it builds its client.
func Load(ctx context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{envFile: defaultEnvFile, useSystemEnv: true}
	for _, opt := range opts {
		opt(&options)
	}
	if err := ctx.Err(); err != nil {
		return Config{}, err
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if value, ok := dotEnvValues[key]; ok {
			return value, true
		}
		return "", false
	}

	// PORT is what most container platforms inject.
	port := stringWithDefault(lookup, "PORTFOLIO_PORT", stringWithDefault(lookup, "PORT", defaultPort))

	cfg := Config{
		Server: ServerConfig{
			Port:            port,
			ReadTimeout:     durationWithDefault(lookup, "PORTFOLIO_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    durationWithDefault(lookup, "PORTFOLIO_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     durationWithDefault(lookup, "PORTFOLIO_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout: durationWithDefault(lookup, "PORTFOLIO_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
			RequestTimeout:  durationWithDefault(lookup, "PORTFOLIO_REQUEST_TIMEOUT", defaultRequestTimeout),
			SecureCookies:   boolWithDefault(lookup, "PORTFOLIO_SECURE_COOKIES", false),
		},
		Paths: PathConfig{
			Templates: stringWithDefault(lookup, "PORTFOLIO_TEMPLATES_DIR", defaultTemplatesDir),
			Public:    stringWithDefault(lookup, "PORTFOLIO_PUBLIC_DIR", defaultPublicDir),
			SiteFile:  stringWithDefault(lookup, "PORTFOLIO_SITE_FILE", ""),
		},
		CMS: cms.Credentials{
			SpaceID:       stringWithDefault(lookup, cms.EnvSpaceID, ""),
			DeliveryToken: stringWithDefault(lookup, cms.EnvDeliveryToken, ""),
			PreviewToken:  stringWithDefault(lookup, cms.EnvPreviewToken, ""),
			Environment:   stringWithDefault(lookup, cms.EnvEnvironment, ""),
			DeliveryHost:  stringWithDefault(lookup, "CONTENTFUL_DELIVERY_HOST", ""),
			PreviewHost:   stringWithDefault(lookup, "CONTENTFUL_PREVIEW_HOST", ""),
		},
		Dev:     boolWithDefault(lookup, "PORTFOLIO_DEV", boolWithDefault(lookup, "DEV", false)),
		Log:     LogConfig{Level: stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel)},
		Metrics: MetricsConfig{Enabled: boolWithDefault(lookup, "PORTFOLIO_METRICS", true)},
		Analytics: AnalyticsConfig{
			MeasurementID: stringWithDefault(lookup, "PORTFOLIO_GA_MEASUREMENT_ID", ""),
			Debug:         boolWithDefault(lookup, "PORTFOLIO_ANALYTICS_DEBUG", false),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string
	if p, err := strconv.Atoi(cfg.Server.Port); err != nil || p <= 0 || p > 65535 {
		missing = append(missing, "Server.Port")
	}
	if cfg.Server.ReadTimeout <= 0 {
		missing = append(missing, "Server.ReadTimeout")
	}
	if cfg.Server.WriteTimeout <= 0 {
		missing = append(missing, "Server.WriteTimeout")
	}
	if cfg.Server.RequestTimeout <= 0 {
		missing = append(missing, "Server.RequestTimeout")
	}
	if strings.TrimSpace(cfg.Paths.Templates) == "" {
		missing = append(missing, "Paths.Templates")
	}
	if strings.TrimSpace(cfg.Paths.Public) == "" {
		missing = append(missing, "Paths.Public")
	}
	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", path, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
