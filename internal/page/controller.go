// Package page drives the data-backed pages through their load lifecycle:
// Idle, then Loading, then Ready, Error or NotFound. Only the most recent
// load for a controller may publish state; older completions are dropped.
package page

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"casefolio.dev/portfolio-web/internal/metrics"
)

// ErrNotFound marks a successful query that matched nothing.
var ErrNotFound = errors.New("page: not found")

// Phase is a step of the load lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseError
	PhaseNotFound
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	case PhaseNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// State is a snapshot of a controller.
type State[T any] struct {
	Phase   Phase
	Data    T
	Err     error
	Message string
}

// Settled reports whether the load finished, successfully or not.
func (s State[T]) Settled() bool {
	return s.Phase == PhaseReady || s.Phase == PhaseError || s.Phase == PhaseNotFound
}

// FetchFunc loads the data for a route key.
type FetchFunc[K comparable, T any] func(ctx context.Context, key K) (T, error)

// Controller runs loads for one page. It is safe for concurrent use.
type Controller[K comparable, T any] struct {
	name    string
	fetch   FetchFunc[K, T]
	cfg     config[T]
	mu      sync.Mutex
	gen     uint64
	key     K
	keyed   bool
	mounted bool
	state   State[T]
	done    chan struct{}
}

type config[T any] struct {
	logger       *zap.Logger
	recorder     metrics.Recorder
	defaultTitle string
	titleOf      func(T) string
	notFound     string
	errorText    func(error) string
}

// Option customizes a Controller.
type Option[T any] func(*config[T])

// WithLogger sets the logger used for failed loads.
func WithLogger[T any](l *zap.Logger) Option[T] {
	return func(c *config[T]) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder sets the metrics sink for settled loads.
func WithRecorder[T any](r metrics.Recorder) Option[T] {
	return func(c *config[T]) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithTitle sets the document title used while idle or unmounted, and how a
// loaded value contributes its own title. titleOf may return "" to keep the default.
func WithTitle[T any](defaultTitle string, titleOf func(T) string) Option[T] {
	return func(c *config[T]) {
		c.defaultTitle = defaultTitle
		c.titleOf = titleOf
	}
}

// WithNotFoundMessage sets the message shown for ErrNotFound.
func WithNotFoundMessage[T any](msg string) Option[T] {
	return func(c *config[T]) { c.notFound = msg }
}

// WithErrorText maps a failed load to the message shown to visitors.
func WithErrorText[T any](fn func(error) string) Option[T] {
	return func(c *config[T]) {
		if fn != nil {
			c.errorText = fn
		}
	}
}

// New creates an idle controller named name; the name labels logs and metrics.
func New[K comparable, T any](name string, fetch FetchFunc[K, T], opts ...Option[T]) *Controller[K, T] {
	cfg := config[T]{
		logger:    zap.NewNop(),
		recorder:  metrics.NoopRecorder{},
		notFound:  "Not found",
		errorText: func(err error) string { return err.Error() },
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Controller[K, T]{name: name, fetch: fetch, cfg: cfg}
}

// Load mounts the controller for key. A new key moves to Loading and starts a
// fetch in the background; loading the current key again is a no-op.
func (c *Controller[K, T]) Load(ctx context.Context, key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mounted && c.keyed && c.key == key && c.state.Phase != PhaseIdle {
		return
	}
	c.mounted = true
	c.keyed = true
	c.key = key
	c.gen++
	c.state = State[T]{Phase: PhaseLoading}
	done := make(chan struct{})
	c.done = done
	go c.run(ctx, c.gen, key, done)
}

func (c *Controller[K, T]) run(ctx context.Context, gen uint64, key K, done chan struct{}) {
	defer close(done)
	data, err := c.fetch(ctx, key)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || !c.mounted {
		c.cfg.logger.Debug("discarding stale page load", zap.String("page", c.name), zap.Uint64("generation", gen))
		return
	}
	var next State[T]
	switch {
	case err == nil:
		next = State[T]{Phase: PhaseReady, Data: data}
	case errors.Is(err, ErrNotFound):
		next = State[T]{Phase: PhaseNotFound, Err: err, Message: c.cfg.notFound}
	default:
		c.cfg.logger.Warn("page load failed", zap.String("page", c.name), zap.Error(err))
		next = State[T]{Phase: PhaseError, Err: err, Message: c.cfg.errorText(err)}
	}
	c.state = next
	c.cfg.recorder.IncPageLoad(c.name, next.Phase.String())
}

// Wait blocks until the current load settles or ctx is done, then returns the
// latest state. If a newer load starts meanwhile, Wait follows it.
func (c *Controller[K, T]) Wait(ctx context.Context) State[T] {
	for {
		c.mu.Lock()
		done, state := c.done, c.state
		c.mu.Unlock()
		if done == nil || state.Phase != PhaseLoading {
			return state
		}
		select {
		case <-done:
		case <-ctx.Done():
			return c.State()
		}
	}
}

// State returns the current snapshot without blocking.
func (c *Controller[K, T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Unmount detaches the controller. In-flight fetches run to completion but
// their results are discarded, and Title falls back to the default.
func (c *Controller[K, T]) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mounted = false
	c.gen++
	if c.state.Phase == PhaseLoading {
		c.state = State[T]{Phase: PhaseIdle}
	}
	c.done = nil
}

// Title is the loaded value's title while mounted and Ready, the default otherwise.
func (c *Controller[K, T]) Title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mounted && c.state.Phase == PhaseReady && c.cfg.titleOf != nil {
		if t := c.cfg.titleOf(c.state.Data); t != "" {
			return t
		}
	}
	return c.cfg.defaultTitle
}
