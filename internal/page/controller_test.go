package page

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"pgregory.net/rapid"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// gatedFetch returns values only once the test releases the key.
type gatedFetch struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	calls map[string]int
}

func newGatedFetch() *gatedFetch {
	return &gatedFetch{gates: map[string]chan struct{}{}, calls: map[string]int{}}
}

func (g *gatedFetch) gate(key string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[key]
	if !ok {
		ch = make(chan struct{})
		g.gates[key] = ch
	}
	return ch
}

func (g *gatedFetch) release(key string) { close(g.gate(key)) }

func (g *gatedFetch) fetch(ctx context.Context, key string) (string, error) {
	g.mu.Lock()
	g.calls[key]++
	g.mu.Unlock()
	select {
	case <-g.gate(key):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	switch key {
	case "missing":
		return "", fmt.Errorf("lookup %q: %w", key, ErrNotFound)
	case "broken":
		return "", errors.New("upstream unavailable")
	}
	return "record " + key, nil
}

func TestLoadReachesReady(t *testing.T) {
	g := newGatedFetch()
	c := New("detail", g.fetch, WithTitle("Default", func(s string) string { return s + " – Site" }))
	require.Equal(t, PhaseIdle, c.State().Phase)
	require.Equal(t, "Default", c.Title())

	c.Load(context.Background(), "a")
	require.Equal(t, PhaseLoading, c.State().Phase)
	require.Equal(t, "Default", c.Title())

	g.release("a")
	st := c.Wait(context.Background())
	require.Equal(t, PhaseReady, st.Phase)
	require.Equal(t, "record a", st.Data)
	require.Equal(t, "record a – Site", c.Title())

	c.Unmount()
	require.Equal(t, "Default", c.Title())
}

func TestNotFoundIsDistinctFromError(t *testing.T) {
	g := newGatedFetch()
	g.release("missing")
	g.release("broken")
	c := New("detail", g.fetch,
		WithNotFoundMessage[string]("Case study not found"),
		WithErrorText[string](func(err error) string { return "Failed: " + err.Error() }),
	)

	c.Load(context.Background(), "missing")
	st := c.Wait(context.Background())
	require.Equal(t, PhaseNotFound, st.Phase)
	require.Equal(t, "Case study not found", st.Message)
	require.ErrorIs(t, st.Err, ErrNotFound)

	c.Load(context.Background(), "broken")
	st = c.Wait(context.Background())
	require.Equal(t, PhaseError, st.Phase)
	require.Equal(t, "Failed: upstream unavailable", st.Message)
}

func TestSameKeyDoesNotRefetch(t *testing.T) {
	g := newGatedFetch()
	g.release("a")
	c := New("listing", g.fetch)

	c.Load(context.Background(), "a")
	c.Wait(context.Background())
	c.Load(context.Background(), "a")
	c.Load(context.Background(), "a")
	require.Equal(t, PhaseReady, c.Wait(context.Background()).Phase)

	g.mu.Lock()
	defer g.mu.Unlock()
	require.Equal(t, 1, g.calls["a"])
}

func TestStaleResponseNeverWins(t *testing.T) {
	g := newGatedFetch()
	c := New("detail", g.fetch)

	c.Load(context.Background(), "a")
	c.Load(context.Background(), "b")
	g.release("b")
	require.Equal(t, "record b", c.Wait(context.Background()).Data)

	g.release("a")
	// Give the stale completion a chance to publish.
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, "record b", c.State().Data)
}

func TestRapidKeyChangesShowLastKey(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		keys := rapid.SliceOfN(rapid.SampledFrom([]string{"a", "b", "c", "d"}), 1, 6).Draw(rt, "keys")
		order := rapid.Permutation(keys).Draw(rt, "release order")

		g := newGatedFetch()
		c := New("detail", g.fetch)
		for _, k := range keys {
			c.Load(context.Background(), k)
		}
		released := map[string]bool{}
		for _, k := range order {
			if !released[k] {
				released[k] = true
				g.release(k)
			}
		}
		st := c.Wait(context.Background())
		want := "record " + keys[len(keys)-1]
		if st.Phase != PhaseReady || st.Data != want {
			rt.Fatalf("keys %v released %v: got %v %q, want %q", keys, order, st.Phase, st.Data, want)
		}
	})
}

func TestUnmountDiscardsInFlightResult(t *testing.T) {
	g := newGatedFetch()
	c := New("profile", g.fetch)

	c.Load(context.Background(), "a")
	c.Unmount()
	require.Equal(t, PhaseIdle, c.Wait(context.Background()).Phase)

	g.release("a")
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, PhaseIdle, c.State().Phase)
}

func TestWaitHonoursContext(t *testing.T) {
	g := newGatedFetch()
	c := New("listing", g.fetch)
	loadCtx, cancelLoad := context.WithCancel(context.Background())
	defer cancelLoad()

	c.Load(loadCtx, "slow")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.Equal(t, PhaseLoading, c.Wait(ctx).Phase)

	cancelLoad()
	st := c.Wait(context.Background())
	require.Equal(t, PhaseError, st.Phase)
	require.ErrorIs(t, st.Err, context.Canceled)
}
