// Package cms is a read-only client for the headless CMS entries API.
package cms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"casefolio.dev/portfolio-web/internal/content"
	"casefolio.dev/portfolio-web/internal/metrics"
)

var tracer = otel.Tracer("casefolio.dev/portfolio-web/internal/cms")

// inflight is shared by every client so identical concurrent queries issue one request.
var inflight singleflight.Group

// DefaultFetchTimeout bounds a shared fetch whose caller set no deadline.
const DefaultFetchTimeout = 10 * time.Second

// Client provides read access to the entries of one space and environment.
type Client struct {
	baseURL  string
	mode     Mode
	space    string
	env      string
	token    string
	http     *http.Client
	timeout  time.Duration
	logger   *zap.Logger
	recorder metrics.Recorder
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithFetchTimeout bounds shared fetches made without a caller deadline.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithBaseURL points the client at an alternative origin (scheme and host), e.g. a test server.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			c.baseURL = base
		}
	}
}

// WithLogger sets the logger used for query diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(c *Client) {
		if rec != nil {
			c.recorder = rec
		}
	}
}

// SelectClient binds a client to the delivery API, or to the preview API when preview is set.
// It performs no network I/O; missing credentials yield a *MissingCredentialsError.
func SelectClient(creds Credentials, preview bool, opts ...Option) (*Client, error) {
	mode := ModeDelivery
	if preview {
		mode = ModePreview
	}
	if err := creds.check(mode); err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:  "https://" + creds.host(mode),
		mode:     mode,
		space:    strings.TrimSpace(creds.SpaceID),
		env:      creds.environment(),
		token:    creds.token(mode),
		http:     http.DefaultClient,
		timeout:  DefaultFetchTimeout,
		logger:   zap.NewNop(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Mode reports which API the client is bound to.
func (c *Client) Mode() Mode { return c.mode }

// Entries runs q and returns the decoded collection with links resolved.
func (c *Client) Entries(ctx context.Context, q Query) (content.Collection, error) {
	endpoint, err := c.endpoint(q)
	if err != nil {
		return content.Collection{}, err
	}

	ctx, span := tracer.Start(ctx, "cms.entries", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("cms.content_type", q.ContentType),
		attribute.String("cms.mode", string(c.mode)),
	)

	start := time.Now()
	key := string(c.mode) + " " + endpoint
	// The shared fetch outlives any one caller but never the first caller's deadline.
	ch := inflight.DoChan(key, func() (any, error) {
		fetchCtx, cancel := c.fetchContext(ctx)
		defer cancel()
		return c.fetch(fetchCtx, endpoint)
	})

	var (
		col    content.Collection
		result = metrics.ResultSuccess
	)
	select {
	case <-ctx.Done():
		// Later callers start a fresh request instead of joining one this caller gave up on.
		inflight.Forget(key)
		err = ctx.Err()
		result = metrics.ResultCanceled
	case res := <-ch:
		err = res.Err
		if err == nil {
			col = res.Val.(content.Collection)
		} else {
			result = metrics.ResultError
		}
	}
	c.recorder.ObserveQuery(q.ContentType, string(c.mode), time.Since(start), result)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("cms query failed",
			zap.String("content_type", q.ContentType),
			zap.String("mode", string(c.mode)),
			zap.Error(err),
		)
		return content.Collection{}, err
	}
	span.SetAttributes(attribute.Int("cms.items", len(col.Items)))
	span.SetStatus(codes.Ok, "")
	c.logger.Debug("cms query",
		zap.String("content_type", q.ContentType),
		zap.String("mode", string(c.mode)),
		zap.Int("items", len(col.Items)),
		zap.Duration("latency", time.Since(start)),
	)
	return col, nil
}

func (c *Client) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		return context.WithDeadline(detached, deadline)
	}
	return context.WithTimeout(detached, c.timeout)
}

func (c *Client) endpoint(q Query) (string, error) {
	endpoint, err := url.JoinPath(c.baseURL, "spaces", c.space, "environments", c.env, "entries")
	if err != nil {
		return "", fmt.Errorf("cms: build endpoint: %w", err)
	}
	if params := q.values().Encode(); params != "" {
		endpoint += "?" + params
	}
	return endpoint, nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) (content.Collection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return content.Collection{}, fmt.Errorf("cms: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return content.Collection{}, fmt.Errorf("cms: request entries: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return content.Collection{}, fmt.Errorf("cms: read entries: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return content.Collection{}, newQueryError(resp.StatusCode, body)
	}
	col, err := content.Decode(body)
	if err != nil {
		return content.Collection{}, fmt.Errorf("cms: decode entries: %w", err)
	}
	return col, nil
}

// QueryError is returned when the CMS answers with a non-success status.
type QueryError struct {
	Status    int
	Message   string
	RequestID string
}

func (e *QueryError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("cms: query failed with status %d", e.Status)
	}
	return fmt.Sprintf("cms: query failed with status %d: %s", e.Status, e.Message)
}

func newQueryError(status int, body []byte) *QueryError {
	qe := &QueryError{Status: status}
	var payload struct {
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		qe.Message = strings.TrimSpace(payload.Message)
		qe.RequestID = payload.RequestID
	}
	if qe.Message == "" {
		qe.Message = http.StatusText(status)
	}
	return qe
}

// IsConfigError reports whether err stems from missing credentials rather than a failed query.
func IsConfigError(err error) bool {
	var mce *MissingCredentialsError
	return errors.As(err, &mce)
}
